package headline

import (
	"time"
)

// DateLayout is the textual format used for snapshot date keys
const DateLayout = "2006-01-02"

// Record represents a single featured headline
type Record struct {
	Title string `json:"title"`
	Link  string `json:"link"` // raw href value, not normalized
}

// Snapshot represents the headlines captured for one calendar date
type Snapshot struct {
	Date      string   `json:"date"`
	Headlines []Record `json:"headlines"`
}

// NewSnapshot creates a snapshot for date, copying records so later mutation
// of the caller's slice does not leak into the stored value.
func NewSnapshot(date string, records []Record) *Snapshot {
	headlines := make([]Record, len(records))
	copy(headlines, records)
	return &Snapshot{
		Date:      date,
		Headlines: headlines,
	}
}

// DateKey formats t as a snapshot date key in loc. A nil loc means UTC.
func DateKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DateLayout)
}
