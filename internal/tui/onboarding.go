// internal/tui/onboarding.go
//
// Onboarding screens: name, intent, companion. Each answer is persisted as
// soon as it is confirmed, so a quit mid-onboarding resumes where it left off.

package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/NemiSanghvi/Better-You/internal/journey"
)

func (a *App) handleNameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		name := strings.TrimSpace(a.nameInput.Value())
		if name == "" {
			a.statusMsg = "Your name can't be empty"
			return a, nil
		}
		if err := a.engine.SaveName(context.Background(), name); err != nil {
			a.statusMsg = fmt.Sprintf("Couldn't save your name: %v", err)
			a.logError("Save name failed: %v", err)
			return a, nil
		}
		a.profile.Name = name
		a.statusMsg = ""
		a.state = stateIntentInput
		a.intentInput.SetValue(a.profile.Intent)
		a.nameInput.Blur()
		return a, a.intentInput.Focus()
	case "esc":
		return a, tea.Quit
	}
	var cmd tea.Cmd
	a.nameInput, cmd = a.nameInput.Update(msg)
	return a, cmd
}

func (a *App) handleIntentKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		intent := strings.TrimSpace(a.intentInput.Value())
		if intent == "" {
			a.statusMsg = "Tell me what you want to work on"
			return a, nil
		}
		if err := a.engine.SaveIntent(context.Background(), intent); err != nil {
			a.statusMsg = fmt.Sprintf("Couldn't save your goal: %v", err)
			a.logError("Save intent failed: %v", err)
			return a, nil
		}
		a.profile.Intent = intent
		a.statusMsg = ""
		a.state = stateCompanion
		a.intentInput.Blur()
		if a.width > 0 && a.height > 0 {
			a.companionMenu.SetSize(max(0, a.width-6), max(0, a.height-10))
		}
		return a, nil
	case "esc":
		a.state = stateNameInput
		a.intentInput.Blur()
		return a, a.nameInput.Focus()
	}
	var cmd tea.Cmd
	a.intentInput, cmd = a.intentInput.Update(msg)
	return a, cmd
}

func (a *App) handleCompanionKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		item, ok := a.companionMenu.SelectedItem().(companionItem)
		if !ok {
			return a, nil
		}
		return a.confirmCompanion(item.companion)
	case "esc":
		a.state = stateIntentInput
		return a, a.intentInput.Focus()
	}
	var cmd tea.Cmd
	a.companionMenu, cmd = a.companionMenu.Update(msg)
	return a, cmd
}

// confirmCompanion completes onboarding and lands on the home screen with a
// fresh week ready to generate.
func (a *App) confirmCompanion(c journey.Companion) (tea.Model, tea.Cmd) {
	if err := a.engine.SaveCompanion(context.Background(), c); err != nil {
		a.statusMsg = fmt.Sprintf("Couldn't save your companion: %v", err)
		a.logError("Save companion failed: %v", err)
		return a, nil
	}
	a.profile.Companion = c
	a.profile.HasOnboarded = true
	a.logInfo("Onboarding complete · companion %s", c.DisplayName())
	a.state = stateHome
	a.statusMsg = "Press g to generate your first week"
	return a, a.reloadStatus()
}

func (a *App) renderNameInput() string {
	title := promptStyle.Render("Welcome! What should I call you?")
	hint := hintStyle.Render("Enter → continue    Esc → quit")
	return lipgloss.JoinVertical(lipgloss.Left, title, "", a.nameInput.View(), "", hint)
}

func (a *App) renderIntentInput() string {
	greeting := fmt.Sprintf("Nice to meet you, %s.", a.profile.Name)
	title := promptStyle.Render(greeting + " What do you want to get better at?")
	hint := hintStyle.Render("Enter → continue    Esc → back")
	return lipgloss.JoinVertical(lipgloss.Left, title, "", a.intentInput.View(), "", hint)
}

func (a *App) renderCompanionSelect() string {
	view := a.companionMenu.View()
	if strings.TrimSpace(view) == "" {
		view = "No companions available"
	}
	hint := hintStyle.Render("Enter → choose    Esc → back")
	return lipgloss.JoinVertical(lipgloss.Left, view, hint)
}

var (
	promptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#E0E0E0"))
	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA"))
)
