package nlp

import (
	"github.com/jonreiter/govader"
)

// SentimentScorer scores texts with the VADER general-purpose lexicon.
type SentimentScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewSentimentScorer builds a VADER analyzer with the default lexicon.
func NewSentimentScorer() *SentimentScorer {
	return &SentimentScorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Score returns polarity in [-1,1] (the VADER compound score) and
// subjectivity in [0,1]. VADER has no native subjectivity measure; the
// positive plus negative mass (1 minus the neutral ratio) serves as one.
func (s *SentimentScorer) Score(text string) (polarity, subjectivity float64) {
	if text == "" {
		return 0, 0
	}
	scores := s.analyzer.PolarityScores(text)
	return scores.Compound, scores.Positive + scores.Negative
}
