package scoring

import (
	"strings"

	"github.com/wonny/alphaweek/backend/internal/contracts"
)

// Keyword vocabulary for headline sentiment.
// Matching is case-insensitive substring search over the title; one
// headline may hit several keywords from either set.
var (
	positiveWords = []string{"beat", "strong", "growth", "upgrade", "record", "surge", "bullish"}
	negativeWords = []string{"miss", "weak", "downgrade", "lawsuit", "probe", "regulatory", "fraud"}
)

// SentimentScorer calculates the averaged headline sentiment signal
// ⭐ SSOT: sentiment scoring lives here and only here
type SentimentScorer struct{}

// NewSentimentScorer creates a new sentiment scorer
func NewSentimentScorer() *SentimentScorer {
	return &SentimentScorer{}
}

// Score returns the arithmetic mean of per-headline net keyword matches.
// An empty input scores 0 (defined, not an error).
func (s *SentimentScorer) Score(headlines []contracts.Headline) float64 {
	if len(headlines) == 0 {
		return 0.0
	}

	var total float64
	for _, h := range headlines {
		total += scoreTitle(strings.ToLower(h.Title))
	}

	return total / float64(len(headlines))
}

// scoreTitle counts +1 per positive and -1 per negative keyword hit
func scoreTitle(title string) float64 {
	var score float64

	for _, w := range positiveWords {
		if strings.Contains(title, w) {
			score++
		}
	}
	for _, w := range negativeWords {
		if strings.Contains(title, w) {
			score--
		}
	}

	return score
}
