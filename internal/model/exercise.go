package model

import "time"

// DisplayDateLayout renders dates the way the log endpoints return them,
// e.g. "Mon Jan 02 2006".
const DisplayDateLayout = "Mon Jan 02 2006"

// Exercise is a single logged activity. It always belongs to an existing user
// and its Date never changes after creation.
type Exercise struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Description string    `json:"description"`
	Duration    int       `json:"duration"` // minutes, at least 1
	Date        time.Time `json:"date"`
	CreatedAt   time.Time `json:"-"`
}

// DisplayDate returns the display-formatted copy of Date.
func (e *Exercise) DisplayDate() string {
	return e.Date.Format(DisplayDateLayout)
}

// Entry renders the exercise as it appears inside a log report.
func (e *Exercise) Entry() LogEntry {
	return LogEntry{
		Description: e.Description,
		Duration:    e.Duration,
		Date:        e.DisplayDate(),
	}
}

// ExerciseRecord is what recording an exercise returns: the stored exercise
// together with its owner's username.
type ExerciseRecord struct {
	Exercise *Exercise
	Username string
}
