package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/alphaweek/backend/internal/contracts"
	"github.com/wonny/alphaweek/backend/internal/scoring"
	"github.com/wonny/alphaweek/backend/internal/selection"
	"github.com/wonny/alphaweek/backend/pkg/logger"
)

// UniverseProvider enumerates the tickers to scan
type UniverseProvider interface {
	Tickers(ctx context.Context) ([]string, error)
}

// HeadlineSource fetches a ticker's headlines inside the scan window
type HeadlineSource interface {
	FetchHeadlines(ctx context.Context, ticker string, window contracts.Window) ([]contracts.Headline, error)
}

// MomentumSource returns a ticker's momentum, normalized to [-1, 1]
type MomentumSource interface {
	Momentum(ctx context.Context, ticker string) (float64, error)
}

// WeekStore is the write side of the week repository the runner needs
type WeekStore interface {
	WindowProcessed(ctx context.Context, window contracts.Window) (bool, error)
	SaveRun(ctx context.Context, window contracts.Window, picks []contracts.Pick) (int64, bool, error)
}

// Runner executes the weekly ranking pipeline
// ⭐ SSOT: pipeline orchestration lives here and only here
//
// Universe scan → per-ticker scoring → aggregation → ranking →
// persistence. Per-ticker failures exclude the ticker from the run;
// persistence failures are fatal to the run.
type Runner struct {
	universe   UniverseProvider
	news       HeadlineSource
	market     MomentumSource
	weeks      WeekStore
	sentiment  *scoring.SentimentScorer
	events     *scoring.EventDetector
	aggregator *scoring.Aggregator
	ranker     *selection.Ranker
	topN       int
	logger     *logger.Logger
}

// NewRunner creates a new pipeline runner
func NewRunner(
	universe UniverseProvider,
	news HeadlineSource,
	market MomentumSource,
	weeks WeekStore,
	aggregator *scoring.Aggregator,
	ranker *selection.Ranker,
	topN int,
	log *logger.Logger,
) *Runner {
	return &Runner{
		universe:   universe,
		news:       news,
		market:     market,
		weeks:      weeks,
		sentiment:  scoring.NewSentimentScorer(),
		events:     scoring.NewEventDetector(),
		aggregator: aggregator,
		ranker:     ranker,
		topN:       topN,
		logger:     log,
	}
}

// RunResult holds the outcome of one pipeline run
type RunResult struct {
	Window           contracts.Window  `json:"window"`
	WeekID           int64             `json:"week_id,omitempty"`
	AlreadyProcessed bool              `json:"already_processed"`
	Scanned          int               `json:"scanned"`
	Scored           int               `json:"scored"`
	Skipped          map[string]string `json:"skipped,omitempty"` // ticker -> reason
	Picks            []contracts.Pick  `json:"picks"`
	Duration         time.Duration     `json:"duration"`
}

// Run executes the full pipeline for the 7-day window ending the day
// before `now`. Re-invocation for an already-processed window is a
// no-op, never a duplicate week.
func (r *Runner) Run(ctx context.Context, now time.Time) (*RunResult, error) {
	startTime := time.Now()
	window := contracts.WindowEnding(now)

	result := &RunResult{
		Window:  window,
		Skipped: make(map[string]string),
	}

	r.logger.WithFields(map[string]interface{}{
		"week_start": window.StartDate(),
		"week_end":   window.EndDate(),
	}).Info("Starting weekly picks run")

	// Cheap rerun guard; the unique window constraint is the real one
	processed, err := r.weeks.WindowProcessed(ctx, window)
	if err != nil {
		return result, fmt.Errorf("check window: %w", err)
	}
	if processed {
		result.AlreadyProcessed = true
		r.logger.Info("Window already processed, nothing to do")
		return result, nil
	}

	tickers, err := r.universe.Tickers(ctx)
	if err != nil {
		return result, fmt.Errorf("load universe: %w", err)
	}
	result.Scanned = len(tickers)

	// Collect scores in universe order; the ranker's tie-break needs it
	scored := make([]contracts.ScoredTicker, 0, len(tickers))
	for _, ticker := range tickers {
		entry, reason := r.scoreTicker(ctx, ticker, window)
		if reason != "" {
			result.Skipped[ticker] = reason
			continue
		}
		scored = append(scored, *entry)
	}
	result.Scored = len(scored)

	picks := r.ranker.Rank(scored, r.topN)

	weekID, created, err := r.weeks.SaveRun(ctx, window, picks)
	if err != nil {
		// Persistence failure is fatal to the run
		return result, fmt.Errorf("persist weekly run: %w", err)
	}
	if !created {
		// A concurrent run for the same window won the insert
		result.AlreadyProcessed = true
		r.logger.Warn("Window persisted by a concurrent run, discarding result")
		return result, nil
	}

	result.WeekID = weekID
	result.Picks = picks
	result.Duration = time.Since(startTime)

	r.logger.WithFields(map[string]interface{}{
		"week_id":  weekID,
		"scanned":  result.Scanned,
		"scored":   result.Scored,
		"skipped":  len(result.Skipped),
		"picks":    len(picks),
		"duration": result.Duration,
	}).Info("Weekly picks run completed")

	return result, nil
}

// scoreTicker fetches and scores one ticker.
// Returns a non-empty reason instead of an error when the ticker must
// be excluded; exclusion never aborts the run.
func (r *Runner) scoreTicker(ctx context.Context, ticker string, window contracts.Window) (*contracts.ScoredTicker, string) {
	headlines, err := r.news.FetchHeadlines(ctx, ticker, window)
	if err != nil {
		r.logger.WithError(err).WithField("ticker", ticker).Warn("Headline fetch failed, excluding ticker")
		return nil, "headlines_unavailable"
	}
	if len(headlines) == 0 {
		return nil, "no_headlines"
	}

	momentum, err := r.market.Momentum(ctx, ticker)
	if err != nil {
		r.logger.WithError(err).WithField("ticker", ticker).Warn("Momentum fetch failed, excluding ticker")
		return nil, "momentum_unavailable"
	}

	sentiment := r.sentiment.Score(headlines)
	event := r.events.Score(headlines)
	score := r.aggregator.Aggregate(sentiment, event, momentum)

	r.logger.WithFields(map[string]interface{}{
		"ticker":    ticker,
		"sentiment": sentiment,
		"event":     event,
		"momentum":  momentum,
		"score":     score,
	}).Debug("Scored ticker")

	return &contracts.ScoredTicker{
		Ticker: ticker,
		Score:  score,
		Rationale: contracts.Rationale{
			Headlines: headlines,
			Sentiment: sentiment,
			Event:     event,
			Momentum:  momentum,
		},
	}, ""
}
