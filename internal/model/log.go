package model

import "time"

// Log is a read of the per-user ordered list of exercises.
//
// There is exactly one Log per User, created together with the user, and it
// only grows by appending one exercise and bumping Count together.
// Count is the size of the whole log. Exercises holds the entries a query
// selected, in insertion order; for an unfiltered read len(Exercises) == Count.
type Log struct {
	UserID    string
	Count     int
	Exercises []Exercise
}

// LogFilter narrows a log query. Nil bounds and a zero Limit are ignored.
//
// From is inclusive, To is exclusive, and Limit is applied after the date
// bounds, keeping the log's stored order.
type LogFilter struct {
	From  *time.Time
	To    *time.Time
	Limit int
}

// IsZero reports whether the filter selects the whole log.
func (f LogFilter) IsZero() bool {
	return f.From == nil && f.To == nil && f.Limit <= 0
}

// LogEntry is one exercise as rendered in a log response.
type LogEntry struct {
	Description string `json:"description"`
	Duration    int    `json:"duration"`
	Date        string `json:"date"`
}

// LogReport is the response shape of the log endpoints.
type LogReport struct {
	ID       string     `json:"id"`
	Username string     `json:"username"`
	Count    int        `json:"count"`
	Log      []LogEntry `json:"log"`
}
