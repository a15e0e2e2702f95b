// internal/tui/home.go
//
// Home screen: the current week's tasks, completion toggles, and the
// generate-new-week flow.

package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/NemiSanghvi/Better-You/internal/journey"
)

func (a *App) handleHomeKey(key string) (tea.Model, tea.Cmd) {
	if a.generating {
		// Only quit is honored while a generation round-trip is in flight.
		if key == "q" {
			return a, tea.Quit
		}
		return a, nil
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "up", "k":
		if a.taskCursor > 0 {
			a.taskCursor--
		}
		return a, nil
	case "down", "j":
		if a.taskCursor < len(a.status.CurrentTasks)-1 {
			a.taskCursor++
		}
		return a, nil
	case " ", "enter":
		return a.toggleSelectedTask()
	case "g":
		return a.beginWeekGeneration()
	case "c":
		return a.openChat()
	case "r":
		a.state = stateConfirmReset
		return a, nil
	}
	return a, nil
}

func (a *App) handleConfirmResetKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "y":
		a.statusMsg = "Resetting..."
		return a, a.resetJourney()
	case "n", "esc":
		a.state = stateHome
		a.statusMsg = ""
		return a, nil
	}
	return a, nil
}

func (a *App) toggleSelectedTask() (tea.Model, tea.Cmd) {
	tasks := a.status.CurrentTasks
	if a.taskCursor < 0 || a.taskCursor >= len(tasks) {
		return a, nil
	}
	task := tasks[a.taskCursor]
	a.logInfo("Task day %d toggled to %t", task.Day, !task.Completed)
	return a, a.toggleTask(task.Day, !task.Completed)
}

func (a *App) beginWeekGeneration() (tea.Model, tea.Cmd) {
	if a.generator == nil {
		a.statusMsg = "Task generation is unavailable (no API key configured)"
		return a, nil
	}
	if !a.status.NeedsNewWeek && len(a.status.CurrentTasks) > 0 {
		a.statusMsg = "This week is still in progress"
		return a, nil
	}
	a.generating = true
	a.statusMsg = ""
	a.logInfo("Generating week %d", a.status.CurrentWeek+1)
	return a, tea.Batch(a.spin.Tick, a.generateWeek())
}

func (a *App) renderHome() string {
	if a.generating {
		return fmt.Sprintf("%s Generating your week...", a.spin.View())
	}

	sections := []string{a.renderWeekHeader()}

	tasks := a.status.CurrentTasks
	if len(tasks) == 0 {
		empty := "No tasks yet."
		if a.status.NeedsNewWeek {
			empty = "No tasks yet. Press g to generate this week."
		}
		sections = append(sections, hintStyle.Render(empty))
	} else {
		var rows []string
		for i, task := range tasks {
			rows = append(rows, a.renderTaskRow(task, i == a.taskCursor))
		}
		sections = append(sections, strings.Join(rows, "\n"))
		if a.status.NeedsNewWeek {
			sections = append(sections, hintStyle.Render("A new week is due. Press g to generate it."))
		}
	}

	sections = append(sections, a.renderHomeHints())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (a *App) renderWeekHeader() string {
	done := 0
	for _, task := range a.status.CurrentTasks {
		if task.Completed {
			done++
		}
	}
	weekLine := fmt.Sprintf("Week %d of %d", a.status.CurrentWeek, a.status.TotalWeeks)
	progress := journeyProgress(a.status.CurrentWeek, a.status.TotalWeeks)
	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#E0E0E0")).
		Render(fmt.Sprintf("%s · %d%% of the journey", weekLine, progress))
	sub := hintStyle.Render(fmt.Sprintf("%s · %d/%d done this week", a.profile.Intent, done, len(a.status.CurrentTasks)))
	return lipgloss.JoinVertical(lipgloss.Left, header, sub, "")
}

func (a *App) renderTaskRow(task journey.Task, selected bool) string {
	check := "[ ]"
	if task.Completed {
		check = "[x]"
	}
	label := fmt.Sprintf("%s Day %d · %s", check, task.Day, task.Text)
	if date := formatTaskDate(task.Date); date != "" {
		label += hintStyle.Render("  " + date)
	}
	if selected {
		return lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF")).
			Render("› " + label)
	}
	return "  " + label
}

func (a *App) renderHomeHints() string {
	hints := "↑/↓ move    space toggle    g new week    c chat    r reset    q quit"
	return hintStyle.MarginTop(1).Render(hints)
}

func (a *App) renderConfirmReset() string {
	warning := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FF6B6B")).
		Render("Reset your journey?")
	body := "This deletes your profile, all weeks, and all tasks. There is no undo."
	hint := hintStyle.Render("y → reset    n → cancel")
	return lipgloss.JoinVertical(lipgloss.Left, warning, "", body, "", hint)
}

// journeyProgress reports how far along the journey is, in whole percent.
func journeyProgress(week, total int) int {
	if total <= 0 {
		return 0
	}
	p := week * 100 / total
	if p > 100 {
		p = 100
	}
	return p
}

func formatTaskDate(date string) string {
	t, err := time.Parse(journey.DateLayout, date)
	if err != nil {
		return ""
	}
	return t.Format("Mon Jan 2")
}
