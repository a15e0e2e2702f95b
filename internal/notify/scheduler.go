// internal/notify/scheduler.go
//
// Scheduler is the OS-facing half of the notification pipeline. The desktop
// implementation leans on transient systemd user timers firing notify-send,
// which keeps reminders alive after the app exits. Everything here is
// best-effort: a machine without systemd or notify-send simply never gets
// reminders.

package notify

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/NemiSanghvi/Better-You/internal/logbook"
)

// Scheduler schedules and cancels wall-clock reminders.
type Scheduler interface {
	// RequestPermission reports whether the platform can deliver reminders.
	RequestPermission() bool

	// CancelAll removes every reminder previously scheduled by this app.
	CancelAll() error

	// ScheduleAt arranges for n to be shown at t, returning an identifier.
	ScheduleAt(t time.Time, n Notification) (string, error)
}

const unitPrefix = "betteryou-reminder"

// DesktopScheduler schedules reminders through systemd user timers.
type DesktopScheduler struct {
	stateDir string
	log      *logbook.Logbook
}

// NewDesktopScheduler creates a scheduler that records its pending unit names
// under stateDir so CancelAll can find them on a later run.
func NewDesktopScheduler(stateDir string, log *logbook.Logbook) *DesktopScheduler {
	return &DesktopScheduler{stateDir: stateDir, log: log}
}

func (s *DesktopScheduler) unitsPath() string {
	return filepath.Join(s.stateDir, "reminders")
}

// RequestPermission checks that the tools reminders depend on exist.
func (s *DesktopScheduler) RequestPermission() bool {
	for _, tool := range []string{"systemd-run", "systemctl", "notify-send"} {
		if _, err := exec.LookPath(tool); err != nil {
			s.log.Warn("notify: %s not available, reminders disabled", tool)
			return false
		}
	}
	return true
}

// ScheduleAt starts a transient user timer that fires notify-send at t.
func (s *DesktopScheduler) ScheduleAt(t time.Time, n Notification) (string, error) {
	unit := fmt.Sprintf("%s-%s", unitPrefix, uuid.NewString()[:8])
	cmd := exec.Command("systemd-run",
		"--user",
		"--collect",
		"--unit="+unit,
		"--on-calendar="+t.Format("2006-01-02 15:04:05"),
		"notify-send",
		"--app-name=Better You",
		n.Title,
		n.Body,
	)
	if output, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("notify: schedule %s: %w (%s)", unit, err, strings.TrimSpace(string(output)))
	}
	if err := s.rememberUnit(unit); err != nil {
		s.log.Warn("notify: record unit %s: %v", unit, err)
	}
	return unit, nil
}

// CancelAll stops every timer recorded in the state file.
func (s *DesktopScheduler) CancelAll() error {
	file, err := os.Open(s.unitsPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("notify: read pending reminders: %w", err)
	}

	var units []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if unit := strings.TrimSpace(scanner.Text()); unit != "" {
			units = append(units, unit)
		}
	}
	file.Close()

	for _, unit := range units {
		// Stopping an already-fired transient timer fails harmlessly.
		_ = exec.Command("systemctl", "--user", "stop", unit+".timer").Run()
	}

	if err := os.Remove(s.unitsPath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("notify: clear reminder state: %w", err)
	}
	return nil
}

func (s *DesktopScheduler) rememberUnit(unit string) error {
	if err := os.MkdirAll(s.stateDir, 0o755); err != nil {
		return err
	}
	file, err := os.OpenFile(s.unitsPath(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()
	_, err = fmt.Fprintln(file, unit)
	return err
}
