package contracts

import "time"

// Headline is a single news headline for a ticker
// ⭐ SSOT: produced by the news provider, consumed by scoring, stored
// verbatim inside a pick's rationale
type Headline struct {
	Title       string    `json:"title"`
	Source      string    `json:"source"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"published_at"`
}
