package cleaning

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"

	"sipafcli/internal/dataset"
)

// iqrMultiplier widens the quartile bounds per Tukey's rule.
const iqrMultiplier = 1.5

// FilterOutliers removes rows whose value in a numeric column falls outside
// [Q1 - 1.5*IQR, Q3 + 1.5*IQR]. Columns are filtered sequentially, each
// against the rows surviving the previous columns (cumulative intersection).
// Rows with a missing cell in the current column are kept: after gap filling
// those only occur in columns that were empty from the start, and such columns
// are skipped with a diagnostic.
func FilterOutliers(d *dataset.Dataset, numericCols []string, logger *slog.Logger) {
	if len(numericCols) == 0 {
		logger.Warn("no numeric columns, skipping outlier removal")
		return
	}

	for _, col := range numericCols {
		idx := d.ColumnIndex(col)
		if idx < 0 {
			continue
		}

		values := make([]float64, 0, d.Len())
		for _, row := range d.Rows {
			if v, ok := row[idx].Float(); ok {
				values = append(values, v)
			}
		}
		if len(values) == 0 {
			logger.Warn("column has no numeric values, skipping outlier removal",
				slog.String("column", col))
			continue
		}

		sort.Float64s(values)
		q1 := stat.Quantile(0.25, stat.LinInterp, values, nil)
		q3 := stat.Quantile(0.75, stat.LinInterp, values, nil)
		iqr := q3 - q1
		lo := q1 - iqrMultiplier*iqr
		hi := q3 + iqrMultiplier*iqr

		before := d.Len()
		d.FilterRows(func(row []dataset.Cell) bool {
			v, ok := row[idx].Float()
			if !ok {
				return true
			}
			return v >= lo && v <= hi
		})
		if removed := before - d.Len(); removed > 0 {
			logger.Info("removed outlier rows",
				slog.String("column", col),
				slog.Int("removed", removed))
		}
	}
}
