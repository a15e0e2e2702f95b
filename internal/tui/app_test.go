package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/NemiSanghvi/Better-You/internal/generator"
	"github.com/NemiSanghvi/Better-You/internal/journey"
	"github.com/NemiSanghvi/Better-You/internal/store"
)

func TestOnboardingFlowPersistsProfile(t *testing.T) {
	eng, _ := newTestEngine(t)
	app := newTestApp(t, eng, scriptedGenerator(nil), &recordingNotifier{})
	app = runCommands(t, app, app.Init())

	if app.state != stateNameInput {
		t.Fatalf("fresh install should land on name input, got state %d", app.state)
	}

	app.nameInput.SetValue("  Nemi  ")
	app = sendKey(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	if app.state != stateIntentInput {
		t.Fatalf("expected intent input after name, got state %d", app.state)
	}

	app.intentInput.SetValue("run a marathon")
	app = sendKey(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	if app.state != stateCompanion {
		t.Fatalf("expected companion picker after intent, got state %d", app.state)
	}

	app = sendKey(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	if app.state != stateHome {
		t.Fatalf("expected home after companion pick, got state %d", app.state)
	}

	profile, err := eng.Profile(context.Background())
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if !profile.HasOnboarded {
		t.Fatalf("expected onboarded profile, got %+v", profile)
	}
	if profile.Name != "Nemi" {
		t.Fatalf("expected trimmed name, got %q", profile.Name)
	}
	if profile.Companion != journey.CompanionFriend {
		t.Fatalf("expected first companion selected by default, got %s", profile.Companion)
	}
}

func TestEmptyNameIsRejected(t *testing.T) {
	eng, _ := newTestEngine(t)
	app := newTestApp(t, eng, scriptedGenerator(nil), &recordingNotifier{})
	app = runCommands(t, app, app.Init())

	app.nameInput.SetValue("   ")
	app = sendKey(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	if app.state != stateNameInput {
		t.Fatalf("empty name must stay on name input, got state %d", app.state)
	}
	if app.statusMsg == "" {
		t.Fatalf("expected a status message explaining the rejection")
	}
}

func TestGenerateWeekCommitsTasksAndSchedulesReminders(t *testing.T) {
	eng, _ := newTestEngine(t)
	onboard(t, eng)
	notifier := &recordingNotifier{scheduled: true}
	app := newTestApp(t, eng, scriptedGenerator(nil), notifier)
	app = runCommands(t, app, app.Init())

	if app.state != stateHome {
		t.Fatalf("onboarded user should land on home, got state %d", app.state)
	}
	if !app.status.NeedsNewWeek {
		t.Fatalf("fresh journey should need a new week")
	}

	app = sendKey(t, app, keyRune('g'))
	if app.status.CurrentWeek != 1 {
		t.Fatalf("expected week 1 after generation, got %d", app.status.CurrentWeek)
	}
	if len(app.status.CurrentTasks) != journey.TasksPerWeek {
		t.Fatalf("expected %d tasks, got %d", journey.TasksPerWeek, len(app.status.CurrentTasks))
	}
	if app.status.NeedsNewWeek {
		t.Fatalf("committed week should not need another transition")
	}
	if notifier.calls != 1 {
		t.Fatalf("expected one reminder scheduling call, got %d", notifier.calls)
	}
	if notifier.lastCompanion != journey.CompanionCoach {
		t.Fatalf("reminders should use the profile companion, got %s", notifier.lastCompanion)
	}
}

func TestGenerationFailureKeepsWeekForRetry(t *testing.T) {
	eng, _ := newTestEngine(t)
	onboard(t, eng)
	gen := scriptedGenerator(fmt.Errorf("model unavailable"))
	app := newTestApp(t, eng, gen, &recordingNotifier{})
	app = runCommands(t, app, app.Init())

	app = sendKey(t, app, keyRune('g'))
	if !strings.Contains(app.statusMsg, "retry") {
		t.Fatalf("failure message should invite a retry, got %q", app.statusMsg)
	}
	if app.status.CurrentWeek != 1 {
		t.Fatalf("transition should survive generation failure, got week %d", app.status.CurrentWeek)
	}
	if len(app.status.CurrentTasks) != 0 {
		t.Fatalf("no tasks should be committed on failure, got %d", len(app.status.CurrentTasks))
	}

	gen.err = nil
	app = sendKey(t, app, keyRune('g'))
	if app.status.CurrentWeek != 1 {
		t.Fatalf("retry must regenerate the same week, got %d", app.status.CurrentWeek)
	}
	if len(app.status.CurrentTasks) != journey.TasksPerWeek {
		t.Fatalf("retry should commit tasks, got %d", len(app.status.CurrentTasks))
	}
}

func TestToggleSelectedTask(t *testing.T) {
	eng, _ := newTestEngine(t)
	onboard(t, eng)
	app := newTestApp(t, eng, scriptedGenerator(nil), &recordingNotifier{})
	app = runCommands(t, app, app.Init())
	app = sendKey(t, app, keyRune('g'))

	app = sendKey(t, app, keyRune('j'))
	app = sendKey(t, app, tea.KeyMsg{Type: tea.KeySpace})
	if !app.status.CurrentTasks[1].Completed {
		t.Fatalf("day 2 should be completed after toggle")
	}
	if app.status.CurrentTasks[0].Completed {
		t.Fatalf("day 1 must be untouched")
	}

	app = sendKey(t, app, tea.KeyMsg{Type: tea.KeySpace})
	if app.status.CurrentTasks[1].Completed {
		t.Fatalf("second toggle should clear completion")
	}
}

func TestResetRequiresConfirmation(t *testing.T) {
	eng, _ := newTestEngine(t)
	onboard(t, eng)
	app := newTestApp(t, eng, scriptedGenerator(nil), &recordingNotifier{})
	app = runCommands(t, app, app.Init())
	app = sendKey(t, app, keyRune('g'))

	app = sendKey(t, app, keyRune('r'))
	if app.state != stateConfirmReset {
		t.Fatalf("expected reset confirmation, got state %d", app.state)
	}
	app = sendKey(t, app, keyRune('n'))
	if app.state != stateHome {
		t.Fatalf("declining must return home, got state %d", app.state)
	}
	profile, err := eng.Profile(context.Background())
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if !profile.HasOnboarded {
		t.Fatalf("declined reset must not wipe the profile")
	}

	app = sendKey(t, app, keyRune('r'))
	app = sendKey(t, app, keyRune('y'))
	if app.state != stateNameInput {
		t.Fatalf("confirmed reset should restart onboarding, got state %d", app.state)
	}
	profile, err = eng.Profile(context.Background())
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if profile.HasOnboarded || profile.Name != "" {
		t.Fatalf("confirmed reset must wipe the profile, got %+v", profile)
	}
}

func TestGenerateWhileWeekInProgressIsRefused(t *testing.T) {
	eng, _ := newTestEngine(t)
	onboard(t, eng)
	gen := scriptedGenerator(nil)
	app := newTestApp(t, eng, gen, &recordingNotifier{})
	app = runCommands(t, app, app.Init())
	app = sendKey(t, app, keyRune('g'))
	if gen.calls != 1 {
		t.Fatalf("expected one generation call, got %d", gen.calls)
	}

	app = sendKey(t, app, keyRune('g'))
	if gen.calls != 1 {
		t.Fatalf("mid-week generation must be refused, got %d calls", gen.calls)
	}
	if app.status.CurrentWeek != 1 {
		t.Fatalf("week must not advance mid-week, got %d", app.status.CurrentWeek)
	}
}

func TestCompanionChatRoundTrip(t *testing.T) {
	eng, _ := newTestEngine(t)
	onboard(t, eng)
	gen := scriptedGenerator(nil)
	gen.chatReply = "Keep at it."
	app := newTestApp(t, eng, gen, &recordingNotifier{})
	app = runCommands(t, app, app.Init())

	app = sendKey(t, app, keyRune('c'))
	if app.state != stateChat {
		t.Fatalf("expected chat screen, got state %d", app.state)
	}

	app.chatInput.SetValue("week two is rough")
	app = sendKey(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	if app.chatReply != "Keep at it." {
		t.Fatalf("expected companion reply, got %q", app.chatReply)
	}
	if app.chatting {
		t.Fatalf("chat round trip must clear the in-flight flag")
	}

	app = sendKey(t, app, tea.KeyMsg{Type: tea.KeyEsc})
	if app.state != stateHome {
		t.Fatalf("esc should return home, got state %d", app.state)
	}
}

func newTestEngine(t *testing.T) (*journey.Engine, store.Store) {
	t.Helper()
	s, err := store.OpenSQLite(filepath.Join(t.TempDir(), "betteryou.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	clock := func() time.Time {
		return time.Date(2026, time.March, 2, 8, 0, 0, 0, time.UTC)
	}
	return journey.NewEngine(s, journey.WithClock(clock)), s
}

func newTestApp(t *testing.T, eng *journey.Engine, gen *fakeGenerator, notifier *recordingNotifier) *App {
	t.Helper()
	return NewApp(eng, gen, WithNotifier(notifier))
}

func onboard(t *testing.T, eng *journey.Engine) {
	t.Helper()
	ctx := context.Background()
	if err := eng.SaveName(ctx, "Nemi"); err != nil {
		t.Fatalf("save name: %v", err)
	}
	if err := eng.SaveIntent(ctx, "run a marathon"); err != nil {
		t.Fatalf("save intent: %v", err)
	}
	if err := eng.SaveCompanion(ctx, journey.CompanionCoach); err != nil {
		t.Fatalf("save companion: %v", err)
	}
}

type fakeGenerator struct {
	err       error
	calls     int
	chatReply string
}

func scriptedGenerator(err error) *fakeGenerator {
	return &fakeGenerator{err: err}
}

func (g *fakeGenerator) GenerateWeek(_ context.Context, req generator.Request) ([]journey.Task, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	tasks := make([]journey.Task, 0, journey.TasksPerWeek)
	for day := 1; day <= journey.TasksPerWeek; day++ {
		tasks = append(tasks, journey.Task{
			Day:  day,
			Text: fmt.Sprintf("week %d task %d", req.WeekNumber, day),
		})
	}
	return tasks, nil
}

func (g *fakeGenerator) Chat(_ context.Context, _ journey.Profile, message string) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	if g.chatReply != "" {
		return g.chatReply, nil
	}
	return "you said: " + message, nil
}

type recordingNotifier struct {
	scheduled     bool
	calls         int
	lastCompanion journey.Companion
}

func (n *recordingNotifier) MaybeScheduleToday(_ context.Context, tasks []journey.Task, companion journey.Companion) bool {
	n.calls++
	n.lastCompanion = companion
	return n.scheduled
}

func sendKey(t *testing.T, app *App, msg tea.KeyMsg) *App {
	t.Helper()
	model, cmd := app.Update(msg)
	return runCommands(t, model, cmd)
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// runCommands drains a command tree the way the bubbletea runtime would.
// Only the app's own messages are fed back; component ticks (spinner frames,
// cursor blinks) are dropped so the loop terminates.
func runCommands(t *testing.T, model tea.Model, cmd tea.Cmd) *App {
	t.Helper()
	app, ok := model.(*App)
	if !ok {
		t.Fatalf("unexpected model type: %T", model)
	}
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		msg := next()
		switch msg.(type) {
		case nil:
			continue
		case tea.BatchMsg:
			queue = append(queue, msg.(tea.BatchMsg)...)
			continue
		case sessionLoadedMsg, statusReloadedMsg, weekGeneratedMsg, resetDoneMsg, remindersScheduledMsg, chatReplyMsg:
		default:
			continue
		}
		nextModel, nextCmd := app.Update(msg)
		app, ok = nextModel.(*App)
		if !ok {
			t.Fatalf("unexpected model type: %T", nextModel)
		}
		if nextCmd != nil {
			queue = append(queue, nextCmd)
		}
	}
	return app
}
