// internal/generator/prompt.go

package generator

import (
	"fmt"
	"math"
	"strings"

	"github.com/NemiSanghvi/Better-You/internal/journey"
)

// Difficulty framing sent to the model. Informational only: the engine never
// enforces it.
const (
	difficultyBeginner     = "Beginner"
	difficultyIntermediate = "Intermediate"
	difficultyAdvanced     = "Advanced"
)

// difficultyFor places the week inside the journey: the first 30% of weeks
// are beginner, the next 40% intermediate, the rest advanced.
func difficultyFor(weekNumber, totalWeeks int) string {
	if totalWeeks < 1 {
		totalWeeks = 1
	}
	week := float64(weekNumber)
	total := float64(totalWeeks)
	switch {
	case week <= total*0.3:
		return difficultyBeginner
	case week <= total*0.7:
		return difficultyIntermediate
	default:
		return difficultyAdvanced
	}
}

// buildWeekPrompt assembles the system prompt for one week's generation.
func buildWeekPrompt(req Request) string {
	completed, incomplete := journey.Split(req.PreviousTasks)

	var previousContext strings.Builder
	if len(completed) > 0 {
		previousContext.WriteString("\nLast week's completed tasks:\n")
		for _, t := range completed {
			fmt.Fprintf(&previousContext, "- %s\n", t.Text)
		}
	}
	if len(incomplete) > 0 {
		previousContext.WriteString("\nLast week's incomplete tasks:\n")
		for _, t := range incomplete {
			fmt.Fprintf(&previousContext, "- %s\n", t.Text)
		}
	}

	buildNote := ""
	if len(req.PreviousTasks) > 0 {
		buildNote = " (address incomplete tasks if any)"
	}

	totalWeeks := req.TotalWeeks
	if totalWeeks < 1 {
		totalWeeks = 1
	}
	progress := int(math.Round(float64(req.WeekNumber) / float64(totalWeeks) * 100))

	return fmt.Sprintf(`You are a system that generates daily self-improvement tasks.

User intent:
%q

Tone:
%q

Progress:
Week %d of %d (%d%% through the journey)
%s
Rules:
- Generate exactly 7 daily tasks for this week
- Tasks must build on previous week's progress%s
- Difficulty level: %s
- Tasks must be realistic and actionable
- No task should exceed 45 minutes
- Tasks must not repeat from previous weeks
- Do NOT reveal future context in task text

Output format:
Return a JSON array only.

Each item must be:
{
  "day": number (1-7),
  "task": string
}

Do not include markdown.
Do not include commentary.
Return valid JSON only.`,
		req.Intent,
		req.Companion.Description(),
		req.WeekNumber,
		totalWeeks,
		progress,
		previousContext.String(),
		buildNote,
		difficultyFor(req.WeekNumber, totalWeeks),
	)
}
