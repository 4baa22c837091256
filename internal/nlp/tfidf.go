package nlp

import (
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Vectorizer fits a term-frequency–inverse-document-frequency vocabulary over
// a batch of cleaned texts and produces one fixed-width numeric row per text.
// Weighting matches the conventional smooth formulation: raw term count times
// ln((1+n)/(1+df)) + 1, with each row L2-normalized. The vocabulary is capped
// at MaxFeatures terms, chosen by total corpus frequency (ties alphabetical)
// and emitted in alphabetical order.
//
// A row's meaning is only defined relative to the batch it was fitted on.
type Vectorizer struct {
	MaxFeatures int
}

// NewVectorizer creates a vectorizer with the given vocabulary cap.
func NewVectorizer(maxFeatures int) *Vectorizer {
	return &Vectorizer{MaxFeatures: maxFeatures}
}

// FitTransform fits the vocabulary on docs and returns it together with one
// weight row per document. An empty corpus yields an empty vocabulary and no
// rows.
func (v *Vectorizer) FitTransform(docs []string) (terms []string, rows [][]float64) {
	if len(docs) == 0 {
		return nil, nil
	}

	counts := make([]map[string]int, len(docs))
	total := make(map[string]int)
	for i, doc := range docs {
		counts[i] = make(map[string]int)
		for _, token := range strings.Fields(doc) {
			counts[i][token]++
			total[token]++
		}
	}

	terms = selectVocabulary(total, v.MaxFeatures)

	// Document frequency per retained term
	df := make([]int, len(terms))
	for j, term := range terms {
		for i := range docs {
			if counts[i][term] > 0 {
				df[j]++
			}
		}
	}

	n := float64(len(docs))
	idf := make([]float64, len(terms))
	for j := range terms {
		idf[j] = math.Log((1+n)/(1+float64(df[j]))) + 1
	}

	rows = make([][]float64, len(docs))
	for i := range docs {
		row := make([]float64, len(terms))
		for j, term := range terms {
			row[j] = float64(counts[i][term]) * idf[j]
		}
		if norm := floats.Norm(row, 2); norm > 0 {
			floats.Scale(1/norm, row)
		}
		rows[i] = row
	}
	return terms, rows
}

// selectVocabulary keeps the max most frequent terms, alphabetically ordered.
func selectVocabulary(total map[string]int, max int) []string {
	terms := make([]string, 0, len(total))
	for term := range total {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if total[terms[i]] != total[terms[j]] {
			return total[terms[i]] > total[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if max > 0 && len(terms) > max {
		terms = terms[:max]
	}
	sort.Strings(terms)
	return terms
}
