package contracts

import "time"

// Window is the 7-day inclusive date range [Start, End] a week represents
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// WindowEnding returns the scan window for a run at `now`:
// End is the last fully elapsed calendar day before the run,
// Start is six days earlier (7 days inclusive).
func WindowEnding(now time.Time) Window {
	end := truncateToDay(now).AddDate(0, 0, -1)
	start := end.AddDate(0, 0, -6)
	return Window{Start: start, End: end}
}

// truncateToDay drops the time-of-day component in UTC
func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Days returns the number of calendar days in the window (inclusive)
func (w Window) Days() int {
	return int(w.End.Sub(w.Start).Hours()/24) + 1
}

// StartDate returns the window start formatted as YYYY-MM-DD
func (w Window) StartDate() string {
	return w.Start.Format("2006-01-02")
}

// EndDate returns the window end formatted as YYYY-MM-DD
func (w Window) EndDate() string {
	return w.End.Format("2006-01-02")
}

// Week is one persisted weekly run, owned by the week store
// Immutable after creation; every pick of the same run references it
type Week struct {
	ID        int64     `json:"id"`
	WeekStart time.Time `json:"week_start"`
	WeekEnd   time.Time `json:"week_end"`
}

// Window returns the week's date range
func (w *Week) Window() Window {
	return Window{Start: w.WeekStart, End: w.WeekEnd}
}
