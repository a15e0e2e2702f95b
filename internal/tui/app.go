// internal/tui/app.go
//
// This is the main TUI for Better You. It uses bubbletea, which follows
// The Elm Architecture:
//
// 1. Model: Your application state
// 2. Update: A function that updates state based on messages
// 3. View: A function that renders state to a string
//
// The flow is: User Input -> Message -> Update -> New Model -> View -> Screen
//
// The TUI only emits intents; all journey state lives in the engine.

package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/NemiSanghvi/Better-You/internal/generator"
	"github.com/NemiSanghvi/Better-You/internal/journey"
	"github.com/NemiSanghvi/Better-You/internal/logbook"
)

// appState represents which "screen" we're on
type appState int

const (
	stateLoading      appState = iota // Initial profile/status load
	stateNameInput                    // Onboarding: "what's your name"
	stateIntentInput                  // Onboarding: "what do you want to improve"
	stateCompanion                    // Onboarding: companion picker
	stateHome                         // Weekly task list
	stateChat                         // Check-in chat with the companion
	stateConfirmReset                 // "Really wipe everything?" guard
)

// WeekGenerator produces a validated seven-task batch for a week.
type WeekGenerator interface {
	GenerateWeek(ctx context.Context, req generator.Request) ([]journey.Task, error)
}

// Notifier schedules the day's reminders. Implementations never return
// errors to the UI; scheduling failures are logged and swallowed.
type Notifier interface {
	MaybeScheduleToday(ctx context.Context, tasks []journey.Task, companion journey.Companion) bool
}

// CompanionChatter answers free-form check-in messages in the companion's
// voice. Optional: generators that don't implement it simply hide the chat.
type CompanionChatter interface {
	Chat(ctx context.Context, profile journey.Profile, message string) (string, error)
}

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithNotifier attaches a reminder scheduler. Without one the app simply
// never schedules reminders.
func WithNotifier(n Notifier) AppOption {
	return func(a *App) {
		if n != nil {
			a.notifier = n
		}
	}
}

// WithLogbook attaches the session logbook shown in the log panel.
func WithLogbook(lb *logbook.Logbook) AppOption {
	return func(a *App) {
		a.logbook = lb
	}
}

type sessionLoadedMsg struct {
	profile journey.Profile
	status  journey.Status
	err     error
}

type statusReloadedMsg struct {
	status journey.Status
	err    error
}

type weekGeneratedMsg struct {
	status journey.Status
	err    error
}

type resetDoneMsg struct {
	err error
}

type remindersScheduledMsg struct {
	scheduled bool
}

type chatReplyMsg struct {
	reply string
	err   error
}

// App is the main application model. In bubbletea, this holds ALL your state.
type App struct {
	state     appState
	engine    *journey.Engine
	generator WeekGenerator
	notifier  Notifier
	logbook   *logbook.Logbook

	profile journey.Profile
	status  journey.Status

	// UI components
	nameInput     textinput.Model
	intentInput   textinput.Model
	chatInput     textinput.Model
	companionMenu list.Model
	spin          spinner.Model

	generating bool
	chatting   bool
	chatReply  string
	taskCursor int
	statusMsg  string

	// Window size (we get this from bubbletea)
	width  int
	height int
}

// companionItem implements list.Item for the companion picker.
type companionItem struct {
	companion journey.Companion
}

func (i companionItem) Title() string       { return i.companion.DisplayName() }
func (i companionItem) Description() string { return i.companion.Description() }
func (i companionItem) FilterValue() string { return string(i.companion) }

// NewApp creates a new App instance.
func NewApp(eng *journey.Engine, gen WeekGenerator, opts ...AppOption) *App {
	name := textinput.New()
	name.Placeholder = "Your name"
	name.CharLimit = 64
	name.Width = 40

	intent := textinput.New()
	intent.Placeholder = "e.g. get fit, read more, learn guitar"
	intent.CharLimit = 200
	intent.Width = 60

	chat := textinput.New()
	chat.Placeholder = "How is the week going?"
	chat.CharLimit = 300
	chat.Width = 60

	items := make([]list.Item, 0, len(journey.Companions))
	for _, c := range journey.Companions {
		items = append(items, companionItem{companion: c})
	}
	menu := list.New(items, list.NewDefaultDelegate(), 0, 0)
	menu.Title = "Choose your companion"
	menu.SetShowStatusBar(false)
	menu.SetFilteringEnabled(false)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	app := &App{
		state:         stateLoading,
		engine:        eng,
		generator:     gen,
		nameInput:     name,
		intentInput:   intent,
		chatInput:     chat,
		companionMenu: menu,
		spin:          sp,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(app)
		}
	}
	return app
}

func (a *App) logInfo(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Info(format, args...)
}

func (a *App) logError(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Error(format, args...)
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return a.loadSession()
}

// loadSession reads the persisted profile and week snapshot.
func (a *App) loadSession() tea.Cmd {
	eng := a.engine
	return func() tea.Msg {
		ctx := context.Background()
		profile, err := eng.Profile(ctx)
		if err != nil {
			return sessionLoadedMsg{err: err}
		}
		status, err := eng.Status(ctx)
		return sessionLoadedMsg{profile: profile, status: status, err: err}
	}
}

// reloadStatus refreshes the week snapshot after a mutation.
func (a *App) reloadStatus() tea.Cmd {
	eng := a.engine
	return func() tea.Msg {
		status, err := eng.Status(context.Background())
		return statusReloadedMsg{status: status, err: err}
	}
}

// generateWeek runs the full transition pipeline: advance the week counter,
// ask the generator for seven tasks, then commit them. A generation failure
// leaves the advanced week in place so retrying regenerates the same week
// instead of skipping one.
func (a *App) generateWeek() tea.Cmd {
	eng := a.engine
	gen := a.generator
	profile := a.profile
	return func() tea.Msg {
		ctx := context.Background()
		snapshot, err := eng.Status(ctx)
		if err != nil {
			return weekGeneratedMsg{status: snapshot, err: err}
		}
		week := snapshot.CurrentWeek
		// Only advance the counter when the window expired; after a failed
		// generation the retry fills the same week.
		if snapshot.NeedsTransition {
			week, err = eng.TransitionToNewWeek(ctx)
			if err != nil {
				status, _ := eng.Status(ctx)
				return weekGeneratedMsg{status: status, err: err}
			}
			snapshot, err = eng.Status(ctx)
			if err != nil {
				return weekGeneratedMsg{status: snapshot, err: err}
			}
		}
		tasks, err := gen.GenerateWeek(ctx, generator.Request{
			WeekNumber:    week,
			TotalWeeks:    snapshot.TotalWeeks,
			PreviousTasks: snapshot.PreviousWeekTasks,
			Intent:        profile.Intent,
			Companion:     profile.Companion,
		})
		if err != nil {
			return weekGeneratedMsg{status: snapshot, err: err}
		}
		if _, err := eng.CommitGeneratedTasks(ctx, tasks); err != nil {
			return weekGeneratedMsg{status: snapshot, err: err}
		}
		status, err := eng.Status(ctx)
		return weekGeneratedMsg{status: status, err: err}
	}
}

// toggleTask flips one task's completion and refreshes the snapshot.
func (a *App) toggleTask(day int, completed bool) tea.Cmd {
	eng := a.engine
	return func() tea.Msg {
		ctx := context.Background()
		if _, err := eng.ToggleTaskCompletion(ctx, day, completed); err != nil {
			status, _ := eng.Status(ctx)
			return statusReloadedMsg{status: status, err: err}
		}
		status, err := eng.Status(ctx)
		return statusReloadedMsg{status: status, err: err}
	}
}

// scheduleReminders hands today's tasks to the notifier. Best effort only.
func (a *App) scheduleReminders() tea.Cmd {
	notifier := a.notifier
	tasks := a.status.CurrentTasks
	companion := a.profile.Companion
	if notifier == nil || len(tasks) == 0 {
		return nil
	}
	return func() tea.Msg {
		scheduled := notifier.MaybeScheduleToday(context.Background(), tasks, companion)
		return remindersScheduledMsg{scheduled: scheduled}
	}
}

// resetJourney wipes every persisted key.
func (a *App) resetJourney() tea.Cmd {
	eng := a.engine
	return func() tea.Msg {
		return resetDoneMsg{err: eng.ResetAll(context.Background())}
	}
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.companionMenu.SetSize(max(0, msg.Width-6), max(0, msg.Height-10))
		return a, nil

	case sessionLoadedMsg:
		return a.handleSessionLoaded(msg)

	case statusReloadedMsg:
		if msg.err != nil {
			a.statusMsg = fmt.Sprintf("Load failed: %v", msg.err)
			a.logError("Status reload failed: %v", msg.err)
			return a, nil
		}
		a.status = msg.status
		a.clampTaskCursor()
		return a, nil

	case weekGeneratedMsg:
		return a.handleWeekGenerated(msg)

	case resetDoneMsg:
		if msg.err != nil {
			a.statusMsg = fmt.Sprintf("Reset failed: %v", msg.err)
			a.logError("Reset failed: %v", msg.err)
			a.state = stateHome
			return a, nil
		}
		a.logInfo("Journey reset")
		a.profile = journey.Profile{}
		a.status = journey.Status{}
		a.taskCursor = 0
		a.statusMsg = "Journey reset. Let's start over."
		a.state = stateNameInput
		a.nameInput.SetValue("")
		a.intentInput.SetValue("")
		return a, a.nameInput.Focus()

	case remindersScheduledMsg:
		if msg.scheduled {
			a.statusMsg = "Reminders scheduled for today"
		}
		return a, nil

	case chatReplyMsg:
		return a.handleChatReply(msg)

	case spinner.TickMsg:
		if !a.generating {
			return a, nil
		}
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a.updateActiveComponent(msg)
}

func (a *App) handleSessionLoaded(msg sessionLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		a.statusMsg = fmt.Sprintf("Load failed: %v", msg.err)
		a.logError("Session load failed: %v", msg.err)
		return a, nil
	}
	a.profile = msg.profile
	a.status = msg.status
	if !a.profile.HasOnboarded {
		a.state = stateNameInput
		a.nameInput.SetValue(a.profile.Name)
		a.logInfo("Session opened · onboarding")
		return a, a.nameInput.Focus()
	}
	a.state = stateHome
	a.clampTaskCursor()
	a.logInfo("Session opened · week %d of %d", a.status.CurrentWeek, a.status.TotalWeeks)
	if a.status.NeedsNewWeek {
		a.statusMsg = "A new week is ready. Press g to generate tasks."
		return a, nil
	}
	return a, a.scheduleReminders()
}

func (a *App) handleWeekGenerated(msg weekGeneratedMsg) (tea.Model, tea.Cmd) {
	a.generating = false
	a.status = msg.status
	a.clampTaskCursor()
	if msg.err != nil {
		a.statusMsg = fmt.Sprintf("Week generation failed: %v. Press g to retry.", msg.err)
		a.logError("Week generation failed: %v", msg.err)
		return a, nil
	}
	a.taskCursor = 0
	a.statusMsg = fmt.Sprintf("Week %d is ready", a.status.CurrentWeek)
	a.logInfo("Week %d generated · %d tasks", a.status.CurrentWeek, len(a.status.CurrentTasks))
	return a, a.scheduleReminders()
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}

	switch a.state {
	case stateNameInput:
		return a.handleNameKey(msg)
	case stateIntentInput:
		return a.handleIntentKey(msg)
	case stateCompanion:
		return a.handleCompanionKey(msg)
	case stateHome:
		return a.handleHomeKey(key)
	case stateChat:
		return a.handleChatKey(msg)
	case stateConfirmReset:
		return a.handleConfirmResetKey(key)
	}
	return a, nil
}

func (a *App) updateActiveComponent(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.state {
	case stateNameInput:
		a.nameInput, cmd = a.nameInput.Update(msg)
	case stateIntentInput:
		a.intentInput, cmd = a.intentInput.Update(msg)
	case stateCompanion:
		a.companionMenu, cmd = a.companionMenu.Update(msg)
	case stateChat:
		a.chatInput, cmd = a.chatInput.Update(msg)
	}
	return a, cmd
}

func (a *App) clampTaskCursor() {
	if len(a.status.CurrentTasks) == 0 {
		a.taskCursor = 0
		return
	}
	if a.taskCursor >= len(a.status.CurrentTasks) {
		a.taskCursor = len(a.status.CurrentTasks) - 1
	}
	if a.taskCursor < 0 {
		a.taskCursor = 0
	}
}

// View renders the current screen.
func (a *App) View() string {
	var content string
	switch a.state {
	case stateLoading:
		content = "Loading your journey..."
	case stateNameInput:
		content = a.renderNameInput()
	case stateIntentInput:
		content = a.renderIntentInput()
	case stateCompanion:
		content = a.renderCompanionSelect()
	case stateHome:
		content = a.renderHome()
	case stateChat:
		content = a.renderChat()
	case stateConfirmReset:
		content = a.renderConfirmReset()
	}
	return a.renderFrame(content)
}

func (a *App) renderFrame(content string) string {
	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		MarginBottom(1).
		Render("◆ BETTER YOU")
	sections := []string{header, content}
	if logPanel := a.renderLogPanel(); logPanel != "" {
		sections = append(sections, logPanel)
	}
	if a.statusMsg != "" {
		footer := lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1).
			Render(a.statusMsg)
		sections = append(sections, footer)
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (a *App) renderLogPanel() string {
	if a.logbook == nil {
		return ""
	}
	lines := a.logbook.Tail(6)
	if len(lines) == 0 {
		return ""
	}
	head := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		Render("LOG")
	body := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		Render(strings.Join(lines, "\n"))
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1).
		Render(fmt.Sprintf("%s\n%s", head, body))
}
