package contracts

// Rationale retains the raw inputs that produced a pick's score.
// It must reconstruct losslessly into these four fields at read time.
type Rationale struct {
	Headlines []Headline `json:"headlines"`
	Sentiment float64    `json:"sentiment"`
	Event     float64    `json:"event"`
	Momentum  float64    `json:"momentum"`
}

// ScoredTicker is a ticker with its composite score, before ranking.
// Tickers are collected in universe iteration order; the ranker's
// tie-break depends on that order being preserved.
type ScoredTicker struct {
	Ticker    string    `json:"ticker"`
	Score     float64   `json:"score"`
	Rationale Rationale `json:"rationale"`
}

// Pick is one ranked entry of a persisted week
// Ranks are unique within a week, contiguous from 1, descending by score
type Pick struct {
	WeekID    int64     `json:"week_id"`
	Ticker    string    `json:"ticker"`
	Score     float64   `json:"score"`
	Rank      int       `json:"rank"`
	Rationale Rationale `json:"rationale"`
}

// IsTopRanked checks if the pick is in top N ranks
func (p *Pick) IsTopRanked(n int) bool {
	return p.Rank <= n && p.Rank > 0
}
