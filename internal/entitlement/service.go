package entitlement

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/alphaweek/backend/internal/contracts"
	"github.com/wonny/alphaweek/backend/pkg/logger"
	"github.com/wonny/alphaweek/backend/pkg/redis"
)

// WeekStore is the read side of the week repository the service needs
type WeekStore interface {
	LatestWeek(ctx context.Context) (*contracts.Week, error)
	PicksForWeek(ctx context.Context, weekID int64) ([]contracts.Pick, error)
}

// SubscriptionStore resolves a user's billing record
type SubscriptionStore interface {
	GetByUserID(ctx context.Context, userID int64) (*contracts.Subscription, error)
}

// PicksResponse is the picks query result shape
//
// Three outcomes: no data yet (locked=false, no week), locked
// (locked=true and nothing else disclosed), or the full week payload.
type PicksResponse struct {
	Locked bool        `json:"locked"`
	Week   *WeekWindow `json:"week,omitempty"`
	Picks  []PickView  `json:"picks,omitempty"`
}

// WeekWindow is the week's date range as YYYY-MM-DD strings
type WeekWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// PickView is one ranked pick with its decoded rationale
type PickView struct {
	Ticker    string              `json:"ticker"`
	Score     float64             `json:"score"`
	Rank      int                 `json:"rank"`
	Rationale contracts.Rationale `json:"rationale"`
}

// weekPayload is the cacheable, user-independent part of a response
type weekPayload struct {
	Week  WeekWindow `json:"week"`
	Picks []PickView `json:"picks"`
}

// Service answers the current-picks query behind the entitlement gate
// ⭐ SSOT: picks disclosure policy lives here and only here
type Service struct {
	weeks  WeekStore
	subs   SubscriptionStore
	cache  *redis.Cache
	logger *logger.Logger
}

// NewService creates a new entitlement service
func NewService(weeks WeekStore, subs SubscriptionStore, cache *redis.Cache, log *logger.Logger) *Service {
	return &Service{
		weeks:  weeks,
		subs:   subs,
		cache:  cache,
		logger: log,
	}
}

// CurrentPicks resolves the latest week for a user.
// The gate is evaluated on every request; only the week payload itself
// (which is identical for every entitled user) is cached.
func (s *Service) CurrentPicks(ctx context.Context, userID int64, now time.Time) (*PicksResponse, error) {
	week, err := s.weeks.LatestWeek(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve latest week: %w", err)
	}

	// No processed week yet: not locked, just nothing to show
	if week == nil {
		return &PicksResponse{Locked: false, Picks: []PickView{}}, nil
	}

	sub, err := s.subs.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolve subscription: %w", err)
	}

	if !IsEntitled(sub, now) {
		// Nothing beyond the lock flag is disclosed
		return &PicksResponse{Locked: true}, nil
	}

	payload, err := s.weekPayload(ctx, week)
	if err != nil {
		return nil, err
	}

	return &PicksResponse{
		Locked: false,
		Week:   &payload.Week,
		Picks:  payload.Picks,
	}, nil
}

// weekPayload loads (or serves from cache) the week's entitled payload
func (s *Service) weekPayload(ctx context.Context, week *contracts.Week) (*weekPayload, error) {
	key := redis.WeekPicksKey(week.ID)

	if s.cache != nil {
		var cached weekPayload
		if found, _ := s.cache.Get(ctx, key, &cached); found {
			return &cached, nil
		}
	}

	picks, err := s.weeks.PicksForWeek(ctx, week.ID)
	if err != nil {
		return nil, fmt.Errorf("load picks: %w", err)
	}

	views := make([]PickView, 0, len(picks))
	for _, p := range picks {
		views = append(views, PickView{
			Ticker:    p.Ticker,
			Score:     p.Score,
			Rank:      p.Rank,
			Rationale: p.Rationale,
		})
	}

	window := week.Window()
	payload := &weekPayload{
		Week:  WeekWindow{Start: window.StartDate(), End: window.EndDate()},
		Picks: views,
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, payload, redis.TTLDaily); err != nil {
			s.logger.WithError(err).Warn("Failed to cache week payload")
		}
	}

	return payload, nil
}
