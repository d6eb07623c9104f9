package scoring

import (
	"strings"

	"github.com/wonny/alphaweek/backend/internal/contracts"
)

// eventRule is one compound keyword rule. All keywords in `all` must be
// present; otherwise any keyword in `any` is enough. Rules are
// independent: every applicable rule fires for the same headline.
type eventRule struct {
	all    []string
	any    []string
	impact float64
}

// Event rule table, evaluated in order against each lower-cased title
var eventRules = []eventRule{
	{all: []string{"earnings", "beat"}, impact: 2.0},
	{all: []string{"earnings", "miss"}, impact: -2.0},
	{any: []string{"upgrade"}, impact: 1.5},
	{any: []string{"downgrade"}, impact: -1.5},
	{any: []string{"acquisition", "merger"}, impact: 1.0},
	{any: []string{"lawsuit", "probe", "regulatory"}, impact: -2.0},
}

// EventDetector calculates the additive event-impact signal
// ⭐ SSOT: event detection lives here and only here
type EventDetector struct{}

// NewEventDetector creates a new event detector
func NewEventDetector() *EventDetector {
	return &EventDetector{}
}

// Score sums the impact of every matching rule across all headlines.
// Deliberately not averaged: the signal scales with headline volume,
// unlike the sentiment score. An empty input scores 0.
func (d *EventDetector) Score(headlines []contracts.Headline) float64 {
	var total float64

	for _, h := range headlines {
		title := strings.ToLower(h.Title)
		for _, rule := range eventRules {
			if rule.matches(title) {
				total += rule.impact
			}
		}
	}

	return total
}

// matches checks the rule against a lower-cased title
func (r eventRule) matches(title string) bool {
	if len(r.all) > 0 {
		for _, w := range r.all {
			if !strings.Contains(title, w) {
				return false
			}
		}
		return true
	}

	for _, w := range r.any {
		if strings.Contains(title, w) {
			return true
		}
	}
	return false
}
