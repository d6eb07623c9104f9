package news

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/wonny/alphaweek/backend/internal/contracts"
	"github.com/wonny/alphaweek/backend/pkg/httputil"
	"github.com/wonny/alphaweek/backend/pkg/logger"
)

// Client handles communication with the headline provider
// ⭐ SSOT: news API calls go through this client and only this client
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	apiKey     string
}

// NewClient creates a new headline provider client
func NewClient(httpClient *httputil.Client, log *logger.Logger, baseURL, apiKey string) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

// articleResponse is the provider's wire format
type articleResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string    `json:"title"`
		URL         string    `json:"url"`
		PublishedAt time.Time `json:"publishedAt"`
	} `json:"articles"`
}

// FetchHeadlines fetches headlines mentioning a ticker inside the window
func (c *Client) FetchHeadlines(ctx context.Context, ticker string, window contracts.Window) ([]contracts.Headline, error) {
	params := url.Values{}
	params.Set("q", ticker)
	params.Set("from", window.StartDate())
	params.Set("to", window.EndDate())
	params.Set("language", "en")
	params.Set("sortBy", "publishedAt")
	params.Set("pageSize", "50")

	fullURL := fmt.Sprintf("%s/everything?%s", c.baseURL, params.Encode())

	resp, err := c.httpClient.GetWithHeaders(ctx, fullURL, map[string]string{
		"X-Api-Key": c.apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("news request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var parsed articleResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode news response: %w", err)
	}

	if parsed.Status != "ok" {
		return nil, fmt.Errorf("news provider error: %s", parsed.Message)
	}

	headlines := make([]contracts.Headline, 0, len(parsed.Articles))
	for _, a := range parsed.Articles {
		if a.Title == "" {
			continue
		}
		headlines = append(headlines, contracts.Headline{
			Title:       a.Title,
			Source:      a.Source.Name,
			URL:         a.URL,
			PublishedAt: a.PublishedAt,
		})
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker":    ticker,
		"from":      window.StartDate(),
		"to":        window.EndDate(),
		"headlines": len(headlines),
	}).Debug("Fetched headlines")

	return headlines, nil
}
