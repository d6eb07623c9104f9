package market

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"github.com/wonny/alphaweek/backend/pkg/httputil"
	"github.com/wonny/alphaweek/backend/pkg/logger"
	"github.com/wonny/alphaweek/backend/pkg/redis"
)

// returnHorizonDays is the lookback for the momentum return
const returnHorizonDays = 5

// fullSignalReturn is the 5-day return that saturates the momentum
// signal: a ±10% move maps to ±1.0
const fullSignalReturn = 0.10

// Client fetches recent prices and derives the momentum signal
// ⭐ SSOT: momentum is computed here and only here, already normalized
// to [-1, 1] before it reaches the aggregator
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	cache      *redis.Cache
	limiter    *rate.Limiter
}

// NewClient creates a new market data client
func NewClient(httpClient *httputil.Client, log *logger.Logger, baseURL string, cache *redis.Cache) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    baseURL,
		cache:      cache,
		// Scrape pacing: 2 pages per second, small burst
		limiter: rate.NewLimiter(rate.Limit(2), 2),
	}
}

// Momentum returns the normalized 5-day return for a ticker
func (c *Client) Momentum(ctx context.Context, ticker string) (float64, error) {
	// Quote pages barely change intraday, so a short cache is safe
	if c.cache != nil {
		var cached float64
		if found, _ := c.cache.Get(ctx, redis.MomentumKey(ticker), &cached); found {
			return cached, nil
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("rate limit wait failed: %w", err)
	}

	closes, err := c.fetchRecentCloses(ctx, ticker)
	if err != nil {
		return 0, err
	}

	momentum, err := normalizedReturn(closes)
	if err != nil {
		return 0, fmt.Errorf("momentum for %s: %w", ticker, err)
	}

	if c.cache != nil {
		_ = c.cache.Set(ctx, redis.MomentumKey(ticker), momentum, redis.TTLShort)
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker":   ticker,
		"momentum": momentum,
	}).Debug("Calculated momentum signal")

	return momentum, nil
}

// fetchRecentCloses scrapes daily closing prices, most recent first
func (c *Client) fetchRecentCloses(ctx context.Context, ticker string) ([]float64, error) {
	fullURL := fmt.Sprintf("%s/quote/%s/history", c.baseURL, ticker)

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return nil, fmt.Errorf("market request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return parseCloses(string(body))
}

// parseCloses extracts closing prices from the history table.
// Page structure: table.history-table, one row per trading day, newest
// first, close price in the 5th cell.
func parseCloses(html string) ([]float64, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var closes []float64
	doc.Find("table.history-table tbody tr").Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 5 {
			return
		}

		text := strings.TrimSpace(cells.Eq(4).Text())
		text = strings.ReplaceAll(text, ",", "")
		if text == "" || text == "-" {
			return
		}

		price, err := strconv.ParseFloat(text, 64)
		if err != nil || price <= 0 {
			return
		}

		closes = append(closes, price)
	})

	if len(closes) == 0 {
		return nil, fmt.Errorf("no price rows found")
	}

	return closes, nil
}

// normalizedReturn converts recent closes into the momentum signal
func normalizedReturn(closes []float64) (float64, error) {
	if len(closes) < returnHorizonDays+1 {
		return 0, fmt.Errorf("need %d closes, got %d", returnHorizonDays+1, len(closes))
	}

	current := closes[0]
	past := closes[returnHorizonDays]
	if past == 0 {
		return 0, fmt.Errorf("zero reference price")
	}

	ret := (current - past) / past

	// Normalize and clamp to [-1, 1]
	normalized := ret / fullSignalReturn
	if normalized > 1.0 {
		normalized = 1.0
	} else if normalized < -1.0 {
		normalized = -1.0
	}

	return normalized, nil
}
