// internal/journey/companion.go
//
// Companion personas. The persona only changes tone: prompt framing for the
// task generator and the copy used in reminders.

package journey

// Companion selects the tone of generated prompts and reminder copy.
type Companion string

const (
	CompanionFriend        Companion = "friend"
	CompanionCoach         Companion = "coach"
	CompanionDrillSergeant Companion = "drill_sergeant"
)

// Companions lists every selectable persona in presentation order.
var Companions = []Companion{
	CompanionFriend,
	CompanionCoach,
	CompanionDrillSergeant,
}

// DisplayName returns the human-facing persona name.
func (c Companion) DisplayName() string {
	switch c {
	case CompanionFriend:
		return "Friend"
	case CompanionCoach:
		return "Coach"
	case CompanionDrillSergeant:
		return "Drill Sergeant"
	}
	return string(c)
}

// Description returns the system-prompt tone description for the persona.
// Unknown personas fall back to the friend tone.
func (c Companion) Description() string {
	switch c {
	case CompanionCoach:
		return "Firm and accountable. Pushes to stay on track and reach goals. Use motivating, action-oriented language."
	case CompanionDrillSergeant:
		return "Strict and blunt. No-nonsense approach to keep disciplined and focused. Use direct, commanding language."
	default:
		return "Calm and supportive. Encourages gently and celebrates progress. Use warm, friendly language."
	}
}

// Valid reports whether c is one of the known personas.
func (c Companion) Valid() bool {
	switch c {
	case CompanionFriend, CompanionCoach, CompanionDrillSergeant:
		return true
	}
	return false
}
