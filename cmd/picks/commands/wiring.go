package commands

import (
	"fmt"

	"github.com/wonny/alphaweek/backend/internal/external/market"
	"github.com/wonny/alphaweek/backend/internal/external/news"
	"github.com/wonny/alphaweek/backend/internal/pipeline"
	"github.com/wonny/alphaweek/backend/internal/scoring"
	"github.com/wonny/alphaweek/backend/internal/selection"
	"github.com/wonny/alphaweek/backend/internal/storage"
	"github.com/wonny/alphaweek/backend/internal/universe"
	"github.com/wonny/alphaweek/backend/pkg/config"
	"github.com/wonny/alphaweek/backend/pkg/database"
	"github.com/wonny/alphaweek/backend/pkg/httputil"
	"github.com/wonny/alphaweek/backend/pkg/logger"
	"github.com/wonny/alphaweek/backend/pkg/redis"
)

// cachePrefix namespaces every Redis key the service writes
const cachePrefix = "alphaweek"

// runtime bundles the shared wiring every command needs
// ⭐ SSOT: dependency wiring lives in this file and only this file
type runtime struct {
	cfg    *config.Config
	log    *logger.Logger
	db     *database.DB
	redis  *redis.Client
	cache  *redis.Cache
	weeks  *storage.WeekRepository
	subs   *storage.SubscriptionRepository
	runner *pipeline.Runner
}

// newRuntime loads config and wires the pipeline dependencies
func newRuntime() (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	redisClient, err := redis.New(cfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	var cache *redis.Cache
	httpClient := httputil.New(cfg, log)
	newsHTTP := httputil.New(cfg, log)
	if redisClient.Enabled() {
		cache = redis.NewCache(redisClient, cachePrefix)
		limiter := redis.NewRateLimiter(redisClient, cachePrefix)
		newsHTTP = newsHTTP.WithRateLimiter(limiter, redis.NewsRateLimit)
	}

	newsClient := news.NewClient(newsHTTP, log, cfg.News.BaseURL, cfg.News.APIKey)
	marketClient := market.NewClient(httpClient, log, cfg.Market.BaseURL, cache)

	provider, err := universe.NewProvider(cfg.Picks.Universe)
	if err != nil {
		db.Close()
		redisClient.Close()
		return nil, fmt.Errorf("build universe: %w", err)
	}

	weekRepo := storage.NewWeekRepository(db.Pool)
	subRepo := storage.NewSubscriptionRepository(db.Pool)

	runner := pipeline.NewRunner(
		provider,
		newsClient,
		marketClient,
		weekRepo,
		scoring.NewAggregator(scoring.DefaultWeightConfig()),
		selection.NewRanker(log),
		cfg.Picks.TopN,
		log,
	)

	return &runtime{
		cfg:    cfg,
		log:    log,
		db:     db,
		redis:  redisClient,
		cache:  cache,
		weeks:  weekRepo,
		subs:   subRepo,
		runner: runner,
	}, nil
}

// Close releases the runtime's connections
func (rt *runtime) Close() {
	rt.db.Close()
	rt.redis.Close()
}
