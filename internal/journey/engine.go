// internal/journey/engine.go
//
// The week lifecycle engine. It owns the journey bookkeeping: when a new week
// of tasks is due, archiving the previous week, computing how many weeks
// remain in the journey, and merging generated tasks with completion state.
//
// The engine never calls the task generator itself. Transitioning to a new
// week and committing generated tasks are deliberately two separate steps, so
// a failed generation leaves the user on the new week number with an empty
// task list and recovery is simply retrying generation.

package journey

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/NemiSanghvi/Better-You/internal/store"
)

// DefaultTotalWeeks is reported before the journey has started.
const DefaultTotalWeeks = 52

// Status is a snapshot of the persisted week state.
type Status struct {
	// JourneyStartDate is zero when the journey has not started.
	JourneyStartDate time.Time

	// CurrentWeek is at least 1 even before the first transition.
	CurrentWeek int

	// TotalWeeks counts weeks from the journey start to the end of that
	// calendar year, DefaultTotalWeeks before the journey starts.
	TotalWeeks int

	// WeekStartDate is when the current 7-day window began; zero when unset.
	WeekStartDate time.Time

	CurrentTasks      []Task
	PreviousWeekTasks []Task

	// NeedsNewWeek is true when fresh generation is due: no window yet,
	// seven or more days elapsed, or no tasks committed.
	NeedsNewWeek bool

	// NeedsTransition is true when the week counter itself must advance
	// before generating: no window yet, or seven or more days elapsed. It is
	// false right after a transition whose generation failed, so a retry
	// regenerates the same week instead of skipping one.
	NeedsTransition bool
}

// EngineOption customizes Engine construction for tests.
type EngineOption func(*Engine)

// WithClock overrides the engine's notion of "now".
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// Engine drives the weekly task lifecycle against a Store. All mutating
// operations are serialized internally; the store offers no transactions, so
// read-modify-write sequences must not interleave.
type Engine struct {
	store store.Store
	now   func() time.Time
	mu    sync.Mutex
}

// NewEngine creates an Engine backed by s.
func NewEngine(s store.Store, opts ...EngineOption) *Engine {
	e := &Engine{
		store: s,
		now:   time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Status reads the full persisted week state. It has no side effects; callers
// use NeedsNewWeek to decide whether to prompt a transition.
func (e *Engine) Status(ctx context.Context) (Status, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	journeyStart, err := e.readDate(ctx, store.KeyJourneyStartDate)
	if err != nil {
		return Status{}, err
	}
	weekStart, err := e.readDate(ctx, store.KeyWeekStartDate)
	if err != nil {
		return Status{}, err
	}
	week, err := e.readInt(ctx, store.KeyCurrentWeek)
	if err != nil {
		return Status{}, err
	}
	current, err := e.readTasks(ctx, store.KeyCurrentTasks)
	if err != nil {
		return Status{}, err
	}
	previous, err := e.readTasks(ctx, store.KeyPreviousWeekTasks)
	if err != nil {
		return Status{}, err
	}

	if week < 1 {
		week = 1
	}
	totalWeeks := DefaultTotalWeeks
	if !journeyStart.IsZero() {
		totalWeeks = TotalWeeks(journeyStart)
	}

	return Status{
		JourneyStartDate:  journeyStart,
		CurrentWeek:       week,
		TotalWeeks:        totalWeeks,
		WeekStartDate:     weekStart,
		CurrentTasks:      current,
		PreviousWeekTasks: previous,
		NeedsNewWeek:      e.needsNewWeek(weekStart, current),
		NeedsTransition:   e.windowExpired(weekStart),
	}, nil
}

// TransitionToNewWeek archives the current tasks, advances the week counter,
// and resets the task window. It does NOT generate tasks; the caller runs the
// generator afterwards and commits the result. Returns the new week number.
func (e *Engine) TransitionToNewWeek(ctx context.Context) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	current, err := e.readTasks(ctx, store.KeyCurrentTasks)
	if err != nil {
		return 0, err
	}
	week, err := e.readInt(ctx, store.KeyCurrentWeek)
	if err != nil {
		return 0, err
	}

	// Archive wholesale; an empty week leaves the previous archive untouched.
	if len(current) > 0 {
		if err := e.writeTasks(ctx, store.KeyPreviousWeekTasks, current); err != nil {
			return 0, err
		}
	}

	newWeek := week + 1
	if err := e.store.Set(ctx, store.KeyCurrentWeek, strconv.Itoa(newWeek)); err != nil {
		return 0, fmt.Errorf("journey: save week number: %w", err)
	}

	now := e.now()
	if err := e.store.Set(ctx, store.KeyWeekStartDate, now.Format(time.RFC3339)); err != nil {
		return 0, fmt.Errorf("journey: save week start: %w", err)
	}

	if err := e.writeTasks(ctx, store.KeyCurrentTasks, []Task{}); err != nil {
		return 0, err
	}

	// The journey start is set exactly once, on the first transition.
	journeyStart, err := e.readDate(ctx, store.KeyJourneyStartDate)
	if err != nil {
		return 0, err
	}
	if journeyStart.IsZero() {
		if err := e.store.Set(ctx, store.KeyJourneyStartDate, now.Format(time.RFC3339)); err != nil {
			return 0, fmt.Errorf("journey: save journey start: %w", err)
		}
	}

	return newWeek, nil
}

// CommitGeneratedTasks validates a generated batch, stamps dates and clean
// completion flags, and persists it as the current week. Nothing is written
// when validation fails. Returns the tasks as committed.
func (e *Engine) CommitGeneratedTasks(ctx context.Context, tasks []Task) ([]Task, error) {
	if err := ValidateBatch(tasks); err != nil {
		return nil, fmt.Errorf("journey: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	today := e.now()
	committed := make([]Task, len(tasks))
	for i, t := range tasks {
		// Dates follow list position, not the day field: the first task in
		// generation order belongs to the commit day.
		committed[i] = Task{
			Day:       t.Day,
			Date:      today.AddDate(0, 0, i).Format(DateLayout),
			Text:      t.Text,
			Completed: false,
		}
	}

	if err := e.writeTasks(ctx, store.KeyCurrentTasks, committed); err != nil {
		return nil, err
	}
	return committed, nil
}

// ToggleTaskCompletion sets the completion flag on the task with the given
// day. A day not present in the current week is a soft no-op: found=false and
// no error. Safe to call repeatedly with the same value.
func (e *Engine) ToggleTaskCompletion(ctx context.Context, day int, completed bool) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	tasks, err := e.readTasks(ctx, store.KeyCurrentTasks)
	if err != nil {
		return false, err
	}

	found := false
	for i := range tasks {
		if tasks[i].Day == day {
			tasks[i].Completed = completed
			found = true
			break
		}
	}
	if !found {
		return false, nil
	}

	if err := e.writeTasks(ctx, store.KeyCurrentTasks, tasks); err != nil {
		return false, err
	}
	return true, nil
}

// ResetAll clears every persisted field back to absent. Each key is cleared
// independently, but any failure is surfaced to the caller.
func (e *Engine) ResetAll(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var errs []error
	for _, key := range store.AllKeys {
		if err := e.store.Delete(ctx, key); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("journey: reset: %w", errors.Join(errs...))
	}
	return nil
}

// TotalWeeks counts the weeks from start to December 31 of start's year,
// rounding up and never reporting less than one week.
func TotalWeeks(start time.Time) int {
	startDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	endOfYear := time.Date(start.Year(), time.December, 31, 0, 0, 0, 0, start.Location())
	days := int(endOfYear.Sub(startDay).Hours() / 24)
	weeks := (days + TasksPerWeek - 1) / TasksPerWeek
	if weeks < 1 {
		weeks = 1
	}
	return weeks
}

// needsNewWeek applies the day-count cadence: seven days since the window
// opened, never "next Monday". Completing tasks early does not shorten the
// window; an empty task list (first run, or a failed generation) always
// reports true.
func (e *Engine) needsNewWeek(weekStart time.Time, current []Task) bool {
	if len(current) == 0 {
		return true
	}
	return e.windowExpired(weekStart)
}

// windowExpired reports whether the seven-day window has run out (or never
// opened). Unlike needsNewWeek it ignores the task list, so a week whose
// generation failed is not mistaken for an expired one.
func (e *Engine) windowExpired(weekStart time.Time) bool {
	if weekStart.IsZero() {
		return true
	}
	elapsed := int(e.now().Sub(weekStart).Hours() / 24)
	return elapsed >= TasksPerWeek
}

// readDate reads an RFC 3339 timestamp. Absent keys and unparseable values
// both come back as the zero time; only store failures are errors.
func (e *Engine) readDate(ctx context.Context, key string) (time.Time, error) {
	raw, ok, err := e.store.Get(ctx, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("journey: read %s: %w", key, err)
	}
	if !ok {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, nil
	}
	return t, nil
}

func (e *Engine) readInt(ctx context.Context, key string) (int, error) {
	raw, ok, err := e.store.Get(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("journey: read %s: %w", key, err)
	}
	if !ok {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, nil
	}
	return n, nil
}

func (e *Engine) readTasks(ctx context.Context, key string) ([]Task, error) {
	raw, ok, err := e.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("journey: read %s: %w", key, err)
	}
	if !ok || raw == "" {
		return nil, nil
	}
	var tasks []Task
	if err := json.Unmarshal([]byte(raw), &tasks); err != nil {
		// Corrupt task JSON degrades to an empty week instead of wedging the
		// app; the next transition rewrites the key.
		return nil, nil
	}
	return tasks, nil
}

func (e *Engine) writeTasks(ctx context.Context, key string, tasks []Task) error {
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("journey: encode %s: %w", key, err)
	}
	if err := e.store.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("journey: write %s: %w", key, err)
	}
	return nil
}
