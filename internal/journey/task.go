// internal/journey/task.go
//
// Task is one day's actionable item. Tasks are created in batches of exactly
// seven by the generator, mutated only through completion toggles, and
// superseded wholesale on the next week transition.

package journey

import (
	"errors"
	"fmt"
)

// DateLayout is the day-granularity format used for task dates and the
// last-notification marker.
const DateLayout = "2006-01-02"

// TasksPerWeek is the fixed size of a generated week.
const TasksPerWeek = 7

// Task is a single daily task inside a week.
type Task struct {
	// Day is the generator-assigned slot, 1-7, unique within the week. It is
	// independent of Date: dates are assigned by list position at commit time.
	Day int `json:"day"`

	// Date is the calendar day (YYYY-MM-DD) this task belongs to, fixed at
	// commit time as commit day + list index.
	Date string `json:"date"`

	Text      string `json:"task"`
	Completed bool   `json:"completed"`
}

// ErrInvalidBatch marks a generated task list that fails shape validation.
var ErrInvalidBatch = errors.New("invalid task batch")

// ValidateBatch checks the generator contract: exactly seven tasks, each with
// a unique day in [1,7] and non-empty text.
func ValidateBatch(tasks []Task) error {
	if len(tasks) != TasksPerWeek {
		return fmt.Errorf("%w: expected %d tasks, got %d", ErrInvalidBatch, TasksPerWeek, len(tasks))
	}
	seen := map[int]bool{}
	for i, t := range tasks {
		if t.Day < 1 || t.Day > TasksPerWeek {
			return fmt.Errorf("%w: task %d has day %d outside 1-%d", ErrInvalidBatch, i, t.Day, TasksPerWeek)
		}
		if seen[t.Day] {
			return fmt.Errorf("%w: duplicate day %d", ErrInvalidBatch, t.Day)
		}
		seen[t.Day] = true
		if t.Text == "" {
			return fmt.Errorf("%w: task %d has empty text", ErrInvalidBatch, i)
		}
	}
	return nil
}

// Split partitions tasks into completed and incomplete, preserving order.
func Split(tasks []Task) (completed, incomplete []Task) {
	for _, t := range tasks {
		if t.Completed {
			completed = append(completed, t)
		} else {
			incomplete = append(incomplete, t)
		}
	}
	return completed, incomplete
}
