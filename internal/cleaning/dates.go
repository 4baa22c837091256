package cleaning

import (
	"sort"
	"strings"
	"time"

	"sipafcli/internal/dataset"
)

// Exact (case-insensitive) names a date column may carry before
// standardization.
var dateColumnNames = []string{"date", "fecha", "timestamp", "time", "period"}

// dateLayouts are tried in order when parsing date cells.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006/01/02",
	"01/02/2006",
	"Jan 2, 2006",
}

// FindDateColumn locates a date column by exact case-insensitive name match.
// Returns "" when none exists.
func FindDateColumn(d *dataset.Dataset) string {
	for _, col := range d.Columns {
		lower := strings.ToLower(col)
		for _, candidate := range dateColumnNames {
			if lower == candidate {
				return col
			}
		}
	}
	return ""
}

// ParseDate parses a single date string against the known layouts.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// NormalizeDates locates (or synthesizes) the date column, parses it, drops
// unparseable rows, sorts ascending and de-duplicates by exact date keeping
// the first occurrence after sorting.
//
// When no column is named like a date, a "fecha" column holding the row
// ordinal is synthesized so the dataset still has a stable order key. If
// nothing in the chosen column parses as a date the dataset is left untouched
// (soft failure); the returned name is then "".
func NormalizeDates(d *dataset.Dataset) string {
	col := FindDateColumn(d)
	if col == "" {
		ordinals := make([]dataset.Cell, d.Len())
		base := time.Unix(0, 0).UTC()
		for i := range ordinals {
			ordinals[i] = dataset.Date(base.AddDate(0, 0, i))
		}
		d.AddColumn(RoleDate, ordinals)
		col = RoleDate
	}

	idx := d.ColumnIndex(col)

	// Parse into a scratch column first so a dataset with no date-like data
	// at all is left untouched.
	parsed := 0
	cells := make([]dataset.Cell, d.Len())
	for i, row := range d.Rows {
		if t, ok := row[idx].Time(); ok {
			cells[i] = dataset.Date(t)
			parsed++
		} else if t, ok := ParseDate(row[idx].Render()); ok {
			cells[i] = dataset.Date(t)
			parsed++
		} else {
			cells[i] = dataset.Missing()
		}
	}
	if parsed == 0 {
		return ""
	}
	for i := range d.Rows {
		d.Rows[i][idx] = cells[i]
	}

	// Drop rows whose date failed to parse
	d.FilterRows(func(row []dataset.Cell) bool {
		_, ok := row[idx].Time()
		return ok
	})

	// Stable sort ascending by date
	sort.SliceStable(d.Rows, func(i, j int) bool {
		ti, _ := d.Rows[i][idx].Time()
		tj, _ := d.Rows[j][idx].Time()
		return ti.Before(tj)
	})

	return col
}

// DeduplicateDates removes rows sharing an already-seen date, keeping the
// first occurrence. Datasets without a date column pass through.
func DeduplicateDates(d *dataset.Dataset, dateCol string) {
	idx := d.ColumnIndex(dateCol)
	if idx < 0 {
		return
	}
	seen := make(map[time.Time]bool)
	d.FilterRows(func(row []dataset.Cell) bool {
		t, ok := row[idx].Time()
		if !ok {
			return true
		}
		if seen[t] {
			return false
		}
		seen[t] = true
		return true
	})
}
