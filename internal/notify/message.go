// internal/notify/message.go
//
// Static reminder copy. Exhaustive over companion × prior-task outcome, with
// a generic fallback for anything unrecognized. Content is fixed, never
// generated.

package notify

import (
	"fmt"

	"github.com/NemiSanghvi/Better-You/internal/journey"
)

// Notification is the payload handed to the scheduler.
type Notification struct {
	Title string
	Body  string
}

type messageKey struct {
	companion journey.Companion
	priorDone bool
}

var messages = map[messageKey]Notification{
	{journey.CompanionFriend, true}: {
		Title: "Great progress! 💪",
		Body:  "You did amazing yesterday! Today: %s",
	},
	{journey.CompanionFriend, false}: {
		Title: "Fresh start ✨",
		Body:  "New day, new opportunity. Today: %s",
	},
	{journey.CompanionCoach, true}: {
		Title: "Stay consistent",
		Body:  "You're on track! Today's task: %s",
	},
	{journey.CompanionCoach, false}: {
		Title: "Get back on track",
		Body:  "Time to refocus. Today: %s",
	},
	{journey.CompanionDrillSergeant, true}: {
		Title: "Good work",
		Body:  "Keep it up. Today: %s",
	},
	{journey.CompanionDrillSergeant, false}: {
		Title: "No excuses",
		Body:  "You missed yesterday. Today: %s",
	},
}

// buildMessage selects the reminder copy for a task given the companion and
// whether the task's predecessor was completed.
func buildMessage(companion journey.Companion, priorDone bool, taskText string) Notification {
	if tmpl, ok := messages[messageKey{companion, priorDone}]; ok {
		return Notification{Title: tmpl.Title, Body: fmt.Sprintf(tmpl.Body, taskText)}
	}
	return Notification{Title: "Today's Task", Body: taskText}
}
