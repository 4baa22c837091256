// Package dataset provides the tabular data model shared by the pipeline
// stages: an ordered set of named columns over rows of typed cells.
package dataset

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Kind identifies what a cell holds.
type Kind int

const (
	KindMissing Kind = iota
	KindText
	KindNumber
	KindDate
)

// Cell is a single tabular value: exactly one of text, number, date, or
// missing. Text cells remember their raw string form so unclassified columns
// round-trip through the pipeline unmodified.
type Cell struct {
	kind Kind
	text string
	num  float64
	date time.Time
}

// Text builds a text cell. An empty string is missing.
func Text(s string) Cell {
	if s == "" {
		return Cell{}
	}
	return Cell{kind: KindText, text: s}
}

// Num builds a numeric cell. NaN is missing.
func Num(f float64) Cell {
	if math.IsNaN(f) {
		return Cell{}
	}
	return Cell{kind: KindNumber, num: f}
}

// Date builds a date cell.
func Date(t time.Time) Cell {
	return Cell{kind: KindDate, date: t}
}

// Missing builds an explicitly missing cell.
func Missing() Cell {
	return Cell{}
}

// Kind returns the cell kind.
func (c Cell) Kind() Kind { return c.kind }

// IsMissing reports whether the cell holds no value.
func (c Cell) IsMissing() bool { return c.kind == KindMissing }

// Float returns the numeric value, if the cell is numeric.
func (c Cell) Float() (float64, bool) {
	if c.kind != KindNumber {
		return 0, false
	}
	return c.num, true
}

// Time returns the date value, if the cell is a date.
func (c Cell) Time() (time.Time, bool) {
	if c.kind != KindDate {
		return time.Time{}, false
	}
	return c.date, true
}

// Render returns the string form written to CSV: dates as 2006-01-02,
// numbers in their shortest representation, missing as the empty string.
func (c Cell) Render() string {
	switch c.kind {
	case KindText:
		return c.text
	case KindNumber:
		return strconv.FormatFloat(c.num, 'f', -1, 64)
	case KindDate:
		return c.date.Format("2006-01-02")
	default:
		return ""
	}
}

// Dataset is an ordered sequence of rows over named columns. Columns have a
// stable display order; rows are parallel slices aligned to Columns.
type Dataset struct {
	Columns []string
	Rows    [][]Cell
}

// New creates an empty dataset with the given columns.
func New(columns ...string) *Dataset {
	return &Dataset{Columns: append([]string(nil), columns...)}
}

// ColumnIndex returns the index of the named column, or -1.
func (d *Dataset) ColumnIndex(name string) int {
	for i, c := range d.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the named column exists.
func (d *Dataset) HasColumn(name string) bool {
	return d.ColumnIndex(name) >= 0
}

// AppendRow adds a row. The cell count must match the column count.
func (d *Dataset) AppendRow(cells ...Cell) error {
	if len(cells) != len(d.Columns) {
		return fmt.Errorf("row has %d cells, dataset has %d columns", len(cells), len(d.Columns))
	}
	d.Rows = append(d.Rows, cells)
	return nil
}

// AddColumn appends a new column. values may be shorter than the row count;
// the remainder is filled with missing cells.
func (d *Dataset) AddColumn(name string, values []Cell) {
	d.Columns = append(d.Columns, name)
	for i := range d.Rows {
		if i < len(values) {
			d.Rows[i] = append(d.Rows[i], values[i])
		} else {
			d.Rows[i] = append(d.Rows[i], Missing())
		}
	}
}

// Column returns a copy of the named column's cells, or nil if absent.
func (d *Dataset) Column(name string) []Cell {
	idx := d.ColumnIndex(name)
	if idx < 0 {
		return nil
	}
	out := make([]Cell, len(d.Rows))
	for i, row := range d.Rows {
		out[i] = row[idx]
	}
	return out
}

// RenameColumn renames a column in place. Renaming to a name that already
// exists is the caller's responsibility to avoid.
func (d *Dataset) RenameColumn(from, to string) bool {
	idx := d.ColumnIndex(from)
	if idx < 0 {
		return false
	}
	d.Columns[idx] = to
	return true
}

// FilterRows keeps only rows for which keep returns true.
func (d *Dataset) FilterRows(keep func(row []Cell) bool) {
	filtered := d.Rows[:0]
	for _, row := range d.Rows {
		if keep(row) {
			filtered = append(filtered, row)
		}
	}
	d.Rows = filtered
}

// Len returns the row count.
func (d *Dataset) Len() int { return len(d.Rows) }

// Concat concatenates datasets row-wise. The result's columns are the union of
// all input columns in order of first appearance; cells absent from a source
// dataset are missing.
func Concat(sets ...*Dataset) *Dataset {
	out := &Dataset{}
	for _, s := range sets {
		for _, c := range s.Columns {
			if out.ColumnIndex(c) < 0 {
				out.Columns = append(out.Columns, c)
			}
		}
	}
	for _, s := range sets {
		// Map source column index -> output column index once per source
		idx := make([]int, len(s.Columns))
		for i, c := range s.Columns {
			idx[i] = out.ColumnIndex(c)
		}
		for _, row := range s.Rows {
			outRow := make([]Cell, len(out.Columns))
			for i, cell := range row {
				outRow[idx[i]] = cell
			}
			out.Rows = append(out.Rows, outRow)
		}
	}
	return out
}
