package cleaning

import (
	"strconv"
	"strings"
	"unicode"

	"sipafcli/internal/dataset"
)

// looksNumeric reports whether a raw cell value consists only of digits after
// removing at most one decimal point. Signed and exponent forms do not count.
func looksNumeric(s string) bool {
	s = strings.TrimSpace(s)
	s = strings.Replace(s, ".", "", 1)
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// CoerceNumeric converts to numbers every non-date column in which more than
// half of the rows look numeric. Cells that fail strconv parsing become
// missing. Returns the names of the coerced columns.
func CoerceNumeric(d *dataset.Dataset, dateCol string) []string {
	var numeric []string
	for idx, col := range d.Columns {
		if col == dateCol {
			continue
		}
		count := 0
		for _, row := range d.Rows {
			if looksNumeric(row[idx].Render()) {
				count++
			}
		}
		if count*2 <= d.Len() {
			continue
		}
		for _, row := range d.Rows {
			if v, err := strconv.ParseFloat(strings.TrimSpace(row[idx].Render()), 64); err == nil {
				row[idx] = dataset.Num(v)
			} else {
				row[idx] = dataset.Missing()
			}
		}
		numeric = append(numeric, col)
	}
	return numeric
}

// FillGaps fills missing values in every column: each missing cell takes the
// nearest preceding non-missing value (forward fill), then any remaining
// leading gap takes the nearest following value (backward fill). A column
// that is entirely missing stays missing.
func FillGaps(d *dataset.Dataset) {
	for idx := range d.Columns {
		last := dataset.Missing()
		for _, row := range d.Rows {
			if row[idx].IsMissing() {
				row[idx] = last
			} else {
				last = row[idx]
			}
		}
		next := dataset.Missing()
		for i := d.Len() - 1; i >= 0; i-- {
			if d.Rows[i][idx].IsMissing() {
				d.Rows[i][idx] = next
			} else {
				next = d.Rows[i][idx]
			}
		}
	}
}
