package universe

import (
	"context"
	"fmt"
)

// Provider enumerates the ticker universe scanned each weekly run
// ⭐ SSOT: the universe comes from here and only here
//
// The universe is a fixed, configured list. Swapping in an index
// constituents feed later only has to honor the same method.
type Provider struct {
	tickers []string
}

// NewProvider creates a provider over a configured ticker list
func NewProvider(tickers []string) (*Provider, error) {
	if len(tickers) == 0 {
		return nil, fmt.Errorf("universe must not be empty")
	}

	return &Provider{tickers: tickers}, nil
}

// Tickers returns the universe in its configured iteration order.
// Order matters downstream: the ranker breaks score ties by it.
func (p *Provider) Tickers(ctx context.Context) ([]string, error) {
	out := make([]string, len(p.tickers))
	copy(out, p.tickers)
	return out, nil
}

// Count returns the universe size
func (p *Provider) Count() int {
	return len(p.tickers)
}
