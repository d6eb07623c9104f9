package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/wonny/alphaweek/backend/pkg/config"
	"github.com/wonny/alphaweek/backend/pkg/httputil"
	"github.com/wonny/alphaweek/backend/pkg/logger"
)

const apiBaseURL = "https://api.stripe.com/v1"

// Client handles communication with the Stripe API
// ⭐ SSOT: Stripe API calls go through this client and only this client
//
// Deliberately a thin form-encoded HTTP client rather than the vendor
// SDK: we only touch customers and checkout sessions.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	cfg        config.StripeConfig
}

// NewClient creates a new Stripe client
func NewClient(httpClient *httputil.Client, log *logger.Logger, cfg config.StripeConfig) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		cfg:        cfg,
	}
}

// CreateCustomer creates a Stripe customer and returns its id
func (c *Client) CreateCustomer(ctx context.Context, email string) (string, error) {
	form := url.Values{}
	if email != "" {
		form.Set("email", email)
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := c.postForm(ctx, "/customers", form, &result); err != nil {
		return "", fmt.Errorf("create customer: %w", err)
	}

	c.logger.WithField("customer_id", result.ID).Info("Created Stripe customer")
	return result.ID, nil
}

// CreateCheckoutSession creates a subscription checkout session and
// returns the hosted payment page URL
func (c *Client) CreateCheckoutSession(ctx context.Context, customerID, priceID string) (string, error) {
	if priceID == "" {
		priceID = c.cfg.PriceID
	}
	if priceID == "" {
		return "", fmt.Errorf("no price id configured")
	}

	form := url.Values{}
	form.Set("mode", "subscription")
	form.Set("customer", customerID)
	form.Set("line_items[0][price]", priceID)
	form.Set("line_items[0][quantity]", "1")
	form.Set("success_url", c.cfg.SuccessURL)
	form.Set("cancel_url", c.cfg.CancelURL)

	var result struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}
	if err := c.postForm(ctx, "/checkout/sessions", form, &result); err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}

	c.logger.WithFields(map[string]interface{}{
		"session_id": result.ID,
		"customer":   customerID,
	}).Info("Created checkout session")

	return result.URL, nil
}

// postForm executes an authenticated form POST and decodes the response
func (c *Client) postForm(ctx context.Context, path string, form url.Values, dest interface{}) error {
	resp, err := c.httpClient.PostFormWithAuth(ctx, apiBaseURL+path, form, c.cfg.SecretKey)
	if err != nil {
		return fmt.Errorf("stripe request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error struct {
				Type    string `json:"type"`
				Message string `json:"message"`
			} `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return fmt.Errorf("stripe error (status %d): %s", resp.StatusCode, apiErr.Error.Message)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode stripe response: %w", err)
	}

	return nil
}
