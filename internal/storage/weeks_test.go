package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/alphaweek/backend/internal/contracts"
)

// Integration test - needs a migrated database
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	pool, err := pgxpool.New(context.Background(), connString)
	require.NoError(t, err, "database connection failed")
	t.Cleanup(pool.Close)

	return pool
}

func TestWeekRepository_SaveRunRoundTrip(t *testing.T) {
	pool := testPool(t)
	repo := NewWeekRepository(pool)
	ctx := context.Background()

	window := contracts.Window{
		Start: time.Date(2026, 1, 4, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
	}

	// Clean up any previous run for this window
	_, err := pool.Exec(ctx, `
		DELETE FROM picks.picks WHERE week_id IN (
			SELECT id FROM picks.weeks WHERE week_start = $1 AND week_end = $2
		)
	`, window.Start, window.End)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `
		DELETE FROM picks.weeks WHERE week_start = $1 AND week_end = $2
	`, window.Start, window.End)
	require.NoError(t, err)

	picks := []contracts.Pick{
		{
			Ticker: "AAPL",
			Score:  1.3,
			Rank:   1,
			Rationale: contracts.Rationale{
				Headlines: []contracts.Headline{
					{Title: "AAPL earnings beat expectations", Source: "test", URL: "https://example.com"},
				},
				Sentiment: 1.0,
				Event:     2.0,
				Momentum:  1.0,
			},
		},
		{Ticker: "MSFT", Score: 0.4, Rank: 2},
	}

	weekID, created, err := repo.SaveRun(ctx, window, picks)
	require.NoError(t, err)
	require.True(t, created)
	require.NotZero(t, weekID)

	// Re-running the same window is a no-op, not an error
	_, createdAgain, err := repo.SaveRun(ctx, window, picks)
	require.NoError(t, err)
	assert.False(t, createdAgain)

	processed, err := repo.WindowProcessed(ctx, window)
	require.NoError(t, err)
	assert.True(t, processed)

	// Rationale decodes back into structured form losslessly
	stored, err := repo.PicksForWeek(ctx, weekID)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, "AAPL", stored[0].Ticker)
	assert.Equal(t, 1, stored[0].Rank)
	assert.Equal(t, 1.0, stored[0].Rationale.Sentiment)
	assert.Equal(t, 2.0, stored[0].Rationale.Event)
	require.Len(t, stored[0].Rationale.Headlines, 1)
	assert.Equal(t, "AAPL earnings beat expectations", stored[0].Rationale.Headlines[0].Title)

	latest, err := repo.LatestWeek(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
}
