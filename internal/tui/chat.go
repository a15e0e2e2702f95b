// internal/tui/chat.go
//
// Check-in chat: a one-message-at-a-time exchange with the companion,
// opened from the home screen.

package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// openChat switches to the chat screen if the generator supports it.
func (a *App) openChat() (tea.Model, tea.Cmd) {
	if _, ok := a.generator.(CompanionChatter); !ok {
		a.statusMsg = "Chat is unavailable"
		return a, nil
	}
	a.state = stateChat
	a.statusMsg = ""
	a.chatInput.SetValue("")
	return a, a.chatInput.Focus()
}

func (a *App) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.chatting {
		return a, nil
	}
	switch msg.String() {
	case "enter":
		message := strings.TrimSpace(a.chatInput.Value())
		if message == "" {
			return a, nil
		}
		chatter, ok := a.generator.(CompanionChatter)
		if !ok {
			return a, nil
		}
		a.chatting = true
		a.statusMsg = fmt.Sprintf("Waiting for %s...", a.profile.Companion.DisplayName())
		profile := a.profile
		return a, func() tea.Msg {
			reply, err := chatter.Chat(context.Background(), profile, message)
			return chatReplyMsg{reply: reply, err: err}
		}
	case "esc":
		a.state = stateHome
		a.statusMsg = ""
		a.chatInput.Blur()
		return a, nil
	}
	var cmd tea.Cmd
	a.chatInput, cmd = a.chatInput.Update(msg)
	return a, cmd
}

func (a *App) handleChatReply(msg chatReplyMsg) (tea.Model, tea.Cmd) {
	a.chatting = false
	if msg.err != nil {
		a.statusMsg = fmt.Sprintf("Chat failed: %v", msg.err)
		a.logError("Chat failed: %v", msg.err)
		return a, nil
	}
	a.chatReply = strings.TrimSpace(msg.reply)
	a.statusMsg = ""
	a.chatInput.SetValue("")
	a.logInfo("Chat reply received")
	return a, nil
}

func (a *App) renderChat() string {
	title := promptStyle.Render(fmt.Sprintf("Check in with %s", a.profile.Companion.DisplayName()))
	sections := []string{title}
	if a.chatReply != "" {
		reply := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1).
			Width(64).
			Render(a.chatReply)
		sections = append(sections, "", reply)
	}
	hint := hintStyle.Render("Enter → send    Esc → back")
	sections = append(sections, "", a.chatInput.View(), "", hint)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
