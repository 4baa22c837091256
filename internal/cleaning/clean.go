package cleaning

import (
	"log/slog"

	"sipafcli/internal/dataset"
)

// CleanPrices runs the full standardization pipeline over one per-ticker
// dataset, in order: date normalization, numeric coercion, gap filling, date
// de-duplication, outlier removal, canonical column renaming. The dataset is
// modified in place.
//
// Invariants on return: at most one date column, dates unique and ascending,
// numeric columns hold only numbers or (for originally-empty columns)
// missing values.
func CleanPrices(d *dataset.Dataset, logger *slog.Logger) {
	dateCol := NormalizeDates(d)

	numericCols := CoerceNumeric(d, dateCol)
	FillGaps(d)

	if dateCol != "" {
		DeduplicateDates(d, dateCol)
	}

	FilterOutliers(d, numericCols, logger)
	StandardizeColumns(d, logger)
}
