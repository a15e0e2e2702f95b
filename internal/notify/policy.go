// internal/notify/policy.go
//
// Decides whether and what to schedule today. Reminders are a best-effort
// enhancement: every failure in this path is swallowed and logged, and the
// caller only learns whether anything was scheduled.
//
// Scheduling strategy: one reminder per remaining incomplete task, each at
// the reminder hour on that task's own date, skipping triggers already in the
// past. This is the variant that stays useful when the app is not opened
// daily, as each standing timer outlives the session that created it.

package notify

import (
	"context"
	"time"

	"github.com/NemiSanghvi/Better-You/internal/journey"
	"github.com/NemiSanghvi/Better-You/internal/logbook"
	"github.com/NemiSanghvi/Better-You/internal/store"
)

// DefaultReminderHour is the local hour reminders fire at.
const DefaultReminderHour = 9

// PolicyOption customizes Policy construction.
type PolicyOption func(*Policy)

// WithReminderHour changes the local hour reminders fire at.
func WithReminderHour(hour int) PolicyOption {
	return func(p *Policy) {
		if hour >= 0 && hour <= 23 {
			p.reminderHour = hour
		}
	}
}

// WithPolicyClock overrides the policy's notion of "now".
func WithPolicyClock(now func() time.Time) PolicyOption {
	return func(p *Policy) {
		if now != nil {
			p.now = now
		}
	}
}

// Policy enforces the at-most-one-schedule-per-day rule and builds the
// reminder set for the current week.
type Policy struct {
	store        store.Store
	scheduler    Scheduler
	log          *logbook.Logbook
	now          func() time.Time
	reminderHour int
}

// NewPolicy creates a notification policy.
func NewPolicy(s store.Store, scheduler Scheduler, log *logbook.Logbook, opts ...PolicyOption) *Policy {
	p := &Policy{
		store:        s,
		scheduler:    scheduler,
		log:          log,
		now:          time.Now,
		reminderHour: DefaultReminderHour,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// MaybeScheduleToday schedules this week's remaining reminders, at most once
// per calendar day. Returns true only when at least one reminder was actually
// scheduled. Never returns an error: the notification pipeline must not leak
// failures to the UI.
func (p *Policy) MaybeScheduleToday(ctx context.Context, tasks []journey.Task, companion journey.Companion) bool {
	now := p.now()
	today := now.Format(journey.DateLayout)

	last, _, err := p.store.Get(ctx, store.KeyLastNotification)
	if err != nil {
		p.log.Warn("notify: read last notification date: %v", err)
		return false
	}
	if last == today {
		return false
	}

	pending := firstPendingIndex(tasks)
	if pending < 0 {
		return false
	}

	if !p.scheduler.RequestPermission() {
		return false
	}

	if err := p.scheduler.CancelAll(); err != nil {
		p.log.Warn("notify: cancel previous reminders: %v", err)
	}

	scheduled := 0
	for i := pending; i < len(tasks); i++ {
		task := tasks[i]
		if task.Completed {
			continue
		}
		trigger, ok := p.triggerFor(task, now)
		if !ok {
			continue
		}
		priorDone := i > 0 && tasks[i-1].Completed
		msg := buildMessage(companion, priorDone, task.Text)
		id, err := p.scheduler.ScheduleAt(trigger, msg)
		if err != nil {
			p.log.Warn("notify: schedule day %d: %v", task.Day, err)
			continue
		}
		p.log.Info("notify: reminder %s for day %d at %s", id, task.Day, trigger.Format(time.RFC3339))
		scheduled++
	}
	if scheduled == 0 {
		return false
	}

	if err := p.store.Set(ctx, store.KeyLastNotification, today); err != nil {
		p.log.Warn("notify: record notification date: %v", err)
	}
	return true
}

// triggerFor computes the reminder time for a task: the reminder hour on the
// task's own date. Tasks whose trigger already passed are skipped.
func (p *Policy) triggerFor(task journey.Task, now time.Time) (time.Time, bool) {
	date, err := time.ParseInLocation(journey.DateLayout, task.Date, now.Location())
	if err != nil {
		p.log.Warn("notify: task day %d has unusable date %q", task.Day, task.Date)
		return time.Time{}, false
	}
	trigger := time.Date(date.Year(), date.Month(), date.Day(), p.reminderHour, 0, 0, 0, now.Location())
	if !trigger.After(now) {
		return time.Time{}, false
	}
	return trigger, true
}

func firstPendingIndex(tasks []journey.Task) int {
	for i, t := range tasks {
		if !t.Completed {
			return i
		}
	}
	return -1
}
