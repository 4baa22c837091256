// Package nlp turns cleaned filing texts into numeric features: lemmatized
// token streams, lexicon-based sentiment scores and batch TF-IDF vectors.
// The stateful pieces (lemmatizer, sentiment analyzer, vectorizer) are
// constructed once per batch and passed explicitly, never kept as package
// globals.
package nlp

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
	"github.com/bbalet/stopwords"
)

// Preprocessor lowercases, strips stopwords and non-alphabetic tokens, and
// reduces the remaining tokens to their English dictionary lemmas.
type Preprocessor struct {
	lemmatizer *golem.Lemmatizer
}

// NewPreprocessor loads the English lemma dictionary.
func NewPreprocessor() (*Preprocessor, error) {
	lemmatizer, err := golem.New(en.New())
	if err != nil {
		return nil, fmt.Errorf("failed to load lemmatizer dictionary: %w", err)
	}
	return &Preprocessor{lemmatizer: lemmatizer}, nil
}

// Clean tokenizes a text and rejoins the retained lemmas with single spaces.
func (p *Preprocessor) Clean(text string) string {
	// CleanString lowercases, strips punctuation and removes English
	// stopwords in one pass.
	withoutStop := stopwords.CleanString(strings.ToLower(text), "en", false)

	var out []string
	for _, token := range strings.Fields(withoutStop) {
		if !isAlphabetic(token) {
			continue
		}
		out = append(out, p.lemmatizer.Lemma(token))
	}
	return strings.Join(out, " ")
}

// isAlphabetic reports whether the token is letters only.
func isAlphabetic(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
