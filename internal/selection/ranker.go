package selection

import (
	"sort"

	"github.com/wonny/alphaweek/backend/internal/contracts"
	"github.com/wonny/alphaweek/backend/pkg/logger"
)

// Ranker orders scored tickers and truncates to the weekly top-N list
// ⭐ SSOT: ranking and truncation policy live here and only here
type Ranker struct {
	logger *logger.Logger
}

// NewRanker creates a new ranker
func NewRanker(log *logger.Logger) *Ranker {
	return &Ranker{logger: log}
}

// Rank sorts entries by score descending and assigns ranks 1..N to the
// first `limit` entries. The sort is stable: ties keep the relative order
// they had in the input, which is universe iteration order. Fewer entries
// than `limit` yields all of them ranked 1..count; empty input yields an
// empty result. Callers must reject limit <= 0 as a configuration error.
func (r *Ranker) Rank(entries []contracts.ScoredTicker, limit int) []contracts.Pick {
	sorted := make([]contracts.ScoredTicker, len(entries))
	copy(sorted, entries)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	if limit < len(sorted) {
		sorted = sorted[:limit]
	}

	picks := make([]contracts.Pick, 0, len(sorted))
	for i, entry := range sorted {
		picks = append(picks, contracts.Pick{
			Ticker:    entry.Ticker,
			Score:     entry.Score,
			Rank:      i + 1,
			Rationale: entry.Rationale,
		})
	}

	if len(picks) > 0 {
		r.logger.WithFields(map[string]interface{}{
			"total_scored": len(entries),
			"top_ticker":   picks[0].Ticker,
			"top_score":    picks[0].Score,
			"kept":         len(picks),
		}).Info("Ranking completed")
	}

	return picks
}
