// internal/store/store.go
//
// The durable key-value contract every other package persists through.
// Keys are fixed strings, values are opaque strings (dates as RFC 3339 or
// YYYY-MM-DD, task lists as JSON). Per-key last-write-wins; no transactions.

package store

import "context"

// Keys used by the journey engine and notification policy.
const (
	KeyUserName          = "user_name"
	KeyUserIntent        = "user_intent"
	KeyCompanionType     = "companion_type"
	KeyHasOnboarded      = "has_onboarded"
	KeyJourneyStartDate  = "journey_start_date"
	KeyCurrentWeek       = "current_week"
	KeyWeekStartDate     = "week_start_date"
	KeyCurrentTasks      = "current_tasks"
	KeyPreviousWeekTasks = "previous_week_tasks"
	KeyLastNotification  = "last_notification_date"
)

// AllKeys lists every key a full reset must clear.
var AllKeys = []string{
	KeyUserName,
	KeyUserIntent,
	KeyCompanionType,
	KeyHasOnboarded,
	KeyJourneyStartDate,
	KeyCurrentWeek,
	KeyWeekStartDate,
	KeyCurrentTasks,
	KeyPreviousWeekTasks,
	KeyLastNotification,
}

// Store abstracts the persistent key-value backend. Implementations must be
// safe for use from multiple goroutines; callers still serialize
// read-modify-write sequences themselves because there are no transactions.
type Store interface {
	// Get returns the value for key. The second return is false when the key
	// has never been set (absence is not an error).
	Get(ctx context.Context, key string) (string, bool, error)

	// Set writes value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}
