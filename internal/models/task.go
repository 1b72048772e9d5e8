package models

import (
	"strings"
	"time"
)

type TaskStatus string

const (
	StatusScheduled TaskStatus = "scheduled"
	StatusToday     TaskStatus = "today"
	StatusDone      TaskStatus = "done"
)

// Task is a single learning task item. Tags is a semicolon-separated
// taxonomy (e.g. "DSA;Go"); Source is where to study (a book chapter, a URL).
type Task struct {
	ID            int64
	Title         string
	Source        *string
	Tags          string
	EstimatePomos int
	ActualPomos   int
	DueDate       time.Time
	Status        TaskStatus
	CreatedAt     time.Time
	CompletedAt   *time.Time
}

// TagList splits the semicolon string into a list for templates,
// dropping empty entries.
func (t *Task) TagList() []string {
	var tags []string
	for _, tag := range strings.Split(t.Tags, ";") {
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// ClampEstimate bounds a planned effort to 1..8 pomodoros.
func ClampEstimate(pomos int) int {
	if pomos < 1 {
		return 1
	}
	if pomos > 8 {
		return 8
	}
	return pomos
}

// StatusForDue returns the initial status for a new task: "today" when the
// due date is the current date, "scheduled" otherwise.
func StatusForDue(due, today time.Time) TaskStatus {
	if due.Equal(today) {
		return StatusToday
	}
	return StatusScheduled
}

// DateOnly truncates a timestamp to its calendar date at midnight UTC.
// Due dates and completion dates are stored and compared at this precision.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
