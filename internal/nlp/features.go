package nlp

import "strconv"

// featureColumns are the fixed leading columns of the feature table.
var featureColumns = []string{"empresa", "polaridad", "subjetividad"}

// BuildFeatureTable assembles the per-document feature table: company
// identifier, sentiment scores and the document's TF-IDF weights, one record
// per document. terms and weights must come from a single FitTransform call
// over the same documents. An empty batch yields the three fixed header
// columns and no records.
func BuildFeatureTable(companies []string, polarities, subjectivities []float64, terms []string, weights [][]float64) (header []string, records [][]string) {
	header = append(append([]string{}, featureColumns...), terms...)
	records = make([][]string, len(companies))
	for i := range companies {
		record := make([]string, 0, len(header))
		record = append(record,
			companies[i],
			strconv.FormatFloat(polarities[i], 'f', -1, 64),
			strconv.FormatFloat(subjectivities[i], 'f', -1, 64))
		for _, w := range weights[i] {
			record = append(record, strconv.FormatFloat(w, 'f', -1, 64))
		}
		records[i] = record
	}
	return header, records
}
