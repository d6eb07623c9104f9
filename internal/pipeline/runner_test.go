package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/alphaweek/backend/internal/contracts"
	"github.com/wonny/alphaweek/backend/internal/scoring"
	"github.com/wonny/alphaweek/backend/internal/selection"
	"github.com/wonny/alphaweek/backend/pkg/config"
	"github.com/wonny/alphaweek/backend/pkg/logger"
)

type fakeUniverse struct {
	tickers []string
	err     error
}

func (f *fakeUniverse) Tickers(ctx context.Context) ([]string, error) {
	return f.tickers, f.err
}

type fakeNews struct {
	headlines map[string][]contracts.Headline
	errs      map[string]error
}

func (f *fakeNews) FetchHeadlines(ctx context.Context, ticker string, window contracts.Window) ([]contracts.Headline, error) {
	if err, ok := f.errs[ticker]; ok {
		return nil, err
	}
	return f.headlines[ticker], nil
}

type fakeMarket struct {
	momentum map[string]float64
	errs     map[string]error
}

func (f *fakeMarket) Momentum(ctx context.Context, ticker string) (float64, error) {
	if err, ok := f.errs[ticker]; ok {
		return 0, err
	}
	return f.momentum[ticker], nil
}

type fakeWeeks struct {
	processed bool
	created   bool
	weekID    int64
	saveErr   error

	savedWindow *contracts.Window
	savedPicks  []contracts.Pick
}

func (f *fakeWeeks) WindowProcessed(ctx context.Context, window contracts.Window) (bool, error) {
	return f.processed, nil
}

func (f *fakeWeeks) SaveRun(ctx context.Context, window contracts.Window, picks []contracts.Pick) (int64, bool, error) {
	if f.saveErr != nil {
		return 0, false, f.saveErr
	}
	f.savedWindow = &window
	f.savedPicks = picks
	return f.weekID, f.created, nil
}

func testLogger() *logger.Logger {
	return logger.New(&config.Config{Env: "development", LogLevel: "error", LogFormat: "json"})
}

func newTestRunner(universe *fakeUniverse, news *fakeNews, market *fakeMarket, weeks *fakeWeeks, topN int) *Runner {
	log := testLogger()
	return NewRunner(
		universe,
		news,
		market,
		weeks,
		scoring.NewAggregator(scoring.DefaultWeightConfig()),
		selection.NewRanker(log),
		topN,
		log,
	)
}

func TestRunner_Run_ScoresAndPersists(t *testing.T) {
	now := time.Date(2026, 1, 11, 12, 0, 0, 0, time.UTC)

	universe := &fakeUniverse{tickers: []string{"AAPL", "XOM"}}
	news := &fakeNews{
		headlines: map[string][]contracts.Headline{
			"AAPL": {{Title: "AAPL earnings beat estimates", Source: "wire", PublishedAt: now.Add(-48 * time.Hour)}},
			// XOM has no coverage this week
		},
	}
	market := &fakeMarket{momentum: map[string]float64{"AAPL": 0.4}}
	weeks := &fakeWeeks{created: true, weekID: 42}

	runner := newTestRunner(universe, news, market, weeks, 5)

	result, err := runner.Run(context.Background(), now)
	require.NoError(t, err)

	assert.False(t, result.AlreadyProcessed)
	assert.Equal(t, int64(42), result.WeekID)
	assert.Equal(t, 2, result.Scanned)
	assert.Equal(t, 1, result.Scored)
	assert.Equal(t, "no_headlines", result.Skipped["XOM"])

	require.Len(t, result.Picks, 1)
	pick := result.Picks[0]
	assert.Equal(t, "AAPL", pick.Ticker)
	assert.Equal(t, 1, pick.Rank)
	// sentiment 1.0 ("beat"), event +2.0 (earnings beat), momentum 0.4
	assert.InDelta(t, 0.5*1.0+0.3*2.0+0.2*0.4, pick.Score, 1e-9)
	assert.Equal(t, 1.0, pick.Rationale.Sentiment)
	assert.Equal(t, 2.0, pick.Rationale.Event)
	assert.Equal(t, 0.4, pick.Rationale.Momentum)
	require.Len(t, pick.Rationale.Headlines, 1)

	require.NotNil(t, weeks.savedWindow)
	assert.Equal(t, "2026-01-04", weeks.savedWindow.StartDate())
	assert.Equal(t, "2026-01-10", weeks.savedWindow.EndDate())
}

func TestRunner_Run_AlreadyProcessedIsNoOp(t *testing.T) {
	weeks := &fakeWeeks{processed: true}
	runner := newTestRunner(&fakeUniverse{tickers: []string{"AAPL"}}, &fakeNews{}, &fakeMarket{}, weeks, 5)

	result, err := runner.Run(context.Background(), time.Now())
	require.NoError(t, err)

	assert.True(t, result.AlreadyProcessed)
	assert.Nil(t, weeks.savedWindow)
}

func TestRunner_Run_TickerFailuresDoNotAbort(t *testing.T) {
	now := time.Date(2026, 1, 11, 12, 0, 0, 0, time.UTC)

	universe := &fakeUniverse{tickers: []string{"AAPL", "MSFT", "TSLA"}}
	news := &fakeNews{
		headlines: map[string][]contracts.Headline{
			"AAPL": {{Title: "AAPL posts strong growth"}},
			"TSLA": {{Title: "TSLA faces regulatory probe"}},
		},
		errs: map[string]error{"MSFT": errors.New("provider down")},
	}
	market := &fakeMarket{
		momentum: map[string]float64{"AAPL": 0.1},
		errs:     map[string]error{"TSLA": errors.New("no price history")},
	}
	weeks := &fakeWeeks{created: true, weekID: 1}

	runner := newTestRunner(universe, news, market, weeks, 5)

	result, err := runner.Run(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Scored)
	assert.Equal(t, "headlines_unavailable", result.Skipped["MSFT"])
	assert.Equal(t, "momentum_unavailable", result.Skipped["TSLA"])
	require.Len(t, result.Picks, 1)
	assert.Equal(t, "AAPL", result.Picks[0].Ticker)
}

func TestRunner_Run_PersistFailureIsFatal(t *testing.T) {
	weeks := &fakeWeeks{saveErr: errors.New("connection reset")}
	news := &fakeNews{headlines: map[string][]contracts.Headline{
		"AAPL": {{Title: "AAPL surge continues"}},
	}}
	runner := newTestRunner(&fakeUniverse{tickers: []string{"AAPL"}}, news, &fakeMarket{}, weeks, 5)

	_, err := runner.Run(context.Background(), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "persist weekly run")
}

func TestRunner_Run_ConcurrentRunWins(t *testing.T) {
	weeks := &fakeWeeks{created: false}
	news := &fakeNews{headlines: map[string][]contracts.Headline{
		"AAPL": {{Title: "AAPL record quarter"}},
	}}
	runner := newTestRunner(&fakeUniverse{tickers: []string{"AAPL"}}, news, &fakeMarket{}, weeks, 5)

	result, err := runner.Run(context.Background(), time.Now())
	require.NoError(t, err)

	assert.True(t, result.AlreadyProcessed)
	assert.Empty(t, result.Picks)
	assert.Zero(t, result.WeekID)
}
