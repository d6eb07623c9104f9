package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/alphaweek/backend/internal/contracts"
)

// WeekRepository persists weekly runs and their ranked picks
// ⭐ SSOT: weeks/picks persistence lives here and only here
//
// The (week_start, week_end) pair is the idempotency key: inserting a
// window that already exists is a no-op, not an error, so duplicate or
// concurrent runs for the same window cannot create duplicate rows.
type WeekRepository struct {
	pool *pgxpool.Pool
}

// NewWeekRepository creates a new week repository
func NewWeekRepository(pool *pgxpool.Pool) *WeekRepository {
	return &WeekRepository{pool: pool}
}

// WindowProcessed reports whether a week row already exists for the window
func (r *WeekRepository) WindowProcessed(ctx context.Context, window contracts.Window) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM picks.weeks
			WHERE week_start = $1 AND week_end = $2
		)
	`, window.Start, window.End).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check window: %w", err)
	}

	return exists, nil
}

// SaveRun writes the week row and all its picks in one transaction.
// Returns (0, false, nil) when the window was already processed: the
// unique constraint fires, nothing is written, and the caller treats
// the run as a no-op. Any real write failure is returned as an error
// and nothing is committed.
func (r *WeekRepository) SaveRun(ctx context.Context, window contracts.Window, picks []contracts.Pick) (int64, bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var weekID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO picks.weeks (week_start, week_end)
		VALUES ($1, $2)
		ON CONFLICT (week_start, week_end) DO NOTHING
		RETURNING id
	`, window.Start, window.End).Scan(&weekID)
	if errors.Is(err, pgx.ErrNoRows) {
		// Window already processed - idempotent no-op
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to insert week: %w", err)
	}

	query := `
		INSERT INTO picks.picks (week_id, ticker, score, rank, rationale)
		VALUES ($1, $2, $3, $4, $5)
	`

	for _, p := range picks {
		rationale, err := json.Marshal(p.Rationale)
		if err != nil {
			return 0, false, fmt.Errorf("failed to marshal rationale for %s: %w", p.Ticker, err)
		}

		if _, err := tx.Exec(ctx, query, weekID, p.Ticker, p.Score, p.Rank, rationale); err != nil {
			return 0, false, fmt.Errorf("failed to insert pick %s: %w", p.Ticker, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return weekID, true, nil
}

// LatestWeek returns the most recently created week that has picks, or
// nil when none exists. A week without picks is indistinguishable from
// "not yet processed" to readers, so it never surfaces here.
func (r *WeekRepository) LatestWeek(ctx context.Context) (*contracts.Week, error) {
	var week contracts.Week
	err := r.pool.QueryRow(ctx, `
		SELECT w.id, w.week_start, w.week_end
		FROM picks.weeks w
		WHERE EXISTS (SELECT 1 FROM picks.picks p WHERE p.week_id = w.id)
		ORDER BY w.id DESC
		LIMIT 1
	`).Scan(&week.ID, &week.WeekStart, &week.WeekEnd)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest week: %w", err)
	}

	return &week, nil
}

// PicksForWeek returns a week's picks ordered by rank ascending, with
// the rationale decoded back into its structured form
func (r *WeekRepository) PicksForWeek(ctx context.Context, weekID int64) ([]contracts.Pick, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT week_id, ticker, score, rank, rationale
		FROM picks.picks
		WHERE week_id = $1
		ORDER BY rank ASC
	`, weekID)
	if err != nil {
		return nil, fmt.Errorf("failed to query picks: %w", err)
	}
	defer rows.Close()

	var picks []contracts.Pick
	for rows.Next() {
		var p contracts.Pick
		var rationale []byte

		if err := rows.Scan(&p.WeekID, &p.Ticker, &p.Score, &p.Rank, &rationale); err != nil {
			return nil, fmt.Errorf("failed to scan pick: %w", err)
		}

		if err := json.Unmarshal(rationale, &p.Rationale); err != nil {
			return nil, fmt.Errorf("failed to decode rationale for %s: %w", p.Ticker, err)
		}

		picks = append(picks, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read picks: %w", err)
	}

	return picks, nil
}
