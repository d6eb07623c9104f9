package selection

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/alphaweek/backend/internal/contracts"
	"github.com/wonny/alphaweek/backend/pkg/config"
	"github.com/wonny/alphaweek/backend/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(&config.Config{Env: "development", LogLevel: "error", LogFormat: "json"})
}

func scored(ticker string, score float64) contracts.ScoredTicker {
	return contracts.ScoredTicker{Ticker: ticker, Score: score}
}

func TestRanker_Rank_SortAndTruncate(t *testing.T) {
	ranker := NewRanker(testLogger())

	entries := make([]contracts.ScoredTicker, 0, 10)
	for i := 0; i < 10; i++ {
		entries = append(entries, scored(fmt.Sprintf("T%02d", i), float64(i)))
	}

	picks := ranker.Rank(entries, 5)

	require.Len(t, picks, 5)
	for i, p := range picks {
		assert.Equal(t, i+1, p.Rank)
	}

	// Scores are non-increasing
	for i := 1; i < len(picks); i++ {
		assert.GreaterOrEqual(t, picks[i-1].Score, picks[i].Score)
	}

	assert.Equal(t, "T09", picks[0].Ticker)
	assert.Equal(t, "T05", picks[4].Ticker)
}

func TestRanker_Rank_TieBreakKeepsInputOrder(t *testing.T) {
	ranker := NewRanker(testLogger())

	entries := []contracts.ScoredTicker{
		scored("AAPL", 0.5),
		scored("MSFT", 0.7),
		scored("XOM", 0.5),
	}

	picks := ranker.Rank(entries, 5)

	require.Len(t, picks, 3)
	assert.Equal(t, "MSFT", picks[0].Ticker)
	// AAPL appeared before XOM in the input, so it gets the better rank
	assert.Equal(t, "AAPL", picks[1].Ticker)
	assert.Equal(t, "XOM", picks[2].Ticker)
}

func TestRanker_Rank_FewerEntriesThanLimit(t *testing.T) {
	ranker := NewRanker(testLogger())

	picks := ranker.Rank([]contracts.ScoredTicker{scored("AAPL", 1.2)}, 5)

	require.Len(t, picks, 1)
	assert.Equal(t, 1, picks[0].Rank)
	assert.Equal(t, "AAPL", picks[0].Ticker)
}

func TestRanker_Rank_EmptyInput(t *testing.T) {
	ranker := NewRanker(testLogger())

	picks := ranker.Rank(nil, 5)

	assert.Empty(t, picks)
}

// Ranking an already-ranked sequence again reproduces identical ranks.
func TestRanker_Rank_Idempotent(t *testing.T) {
	ranker := NewRanker(testLogger())

	entries := []contracts.ScoredTicker{
		scored("NVDA", 2.1),
		scored("AMZN", 1.4),
		scored("META", 1.4),
		scored("TSLA", -0.3),
	}

	first := ranker.Rank(entries, 3)

	again := make([]contracts.ScoredTicker, 0, len(first))
	for _, p := range first {
		again = append(again, contracts.ScoredTicker{Ticker: p.Ticker, Score: p.Score, Rationale: p.Rationale})
	}
	second := ranker.Rank(again, 3)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Ticker, second[i].Ticker)
		assert.Equal(t, first[i].Rank, second[i].Rank)
	}
}
