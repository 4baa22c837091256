package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// ReadCSV reads a CSV file into a dataset of text cells. A UTF-8 BOM is
// stripped if present. Short rows are padded with missing cells; the first
// record is the header.
func ReadCSV(path string) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file content: %w", err)
	}

	// Remove BOM if present
	if len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		content = content[3:]
	}

	reader := csv.NewReader(strings.NewReader(string(content)))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}

	if len(records) == 0 {
		return New(), nil
	}

	d := New(records[0]...)
	for _, record := range records[1:] {
		row := make([]Cell, len(d.Columns))
		for i := range d.Columns {
			if i < len(record) {
				row[i] = Text(strings.TrimSpace(record[i]))
			} else {
				row[i] = Missing()
			}
		}
		d.Rows = append(d.Rows, row)
	}
	return d, nil
}

// Records renders the dataset as a header plus string records, ready for a
// CSV writer.
func (d *Dataset) Records() (header []string, records [][]string) {
	header = append([]string(nil), d.Columns...)
	records = make([][]string, 0, len(d.Rows))
	for _, row := range d.Rows {
		rec := make([]string, len(row))
		for i, cell := range row {
			rec[i] = cell.Render()
		}
		records = append(records, rec)
	}
	return header, records
}
