// cmd/betteryou/main.go
//
// This is the entry point for the Better You terminal app.
//
// Flow:
// 1. Load .env (for OPENAI_API_KEY) and config.yaml from ~/.betteryou
// 2. Open the SQLite store and build the journey engine
// 3. Wire the task generator and the desktop reminder scheduler
// 4. Launch the TUI

package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/NemiSanghvi/Better-You/internal/config"
	"github.com/NemiSanghvi/Better-You/internal/generator"
	"github.com/NemiSanghvi/Better-You/internal/journey"
	"github.com/NemiSanghvi/Better-You/internal/logbook"
	"github.com/NemiSanghvi/Better-You/internal/notify"
	"github.com/NemiSanghvi/Better-You/internal/store"
	"github.com/NemiSanghvi/Better-You/internal/tui"
)

func main() {
	// A missing .env is fine; the key may come from the environment.
	_ = godotenv.Load()

	dataDir, err := config.DefaultDataDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving data directory: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.Load(dataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	lb, err := logbook.New(cfg.LogPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening logbook: %v\n", err)
		os.Exit(1)
	}
	defer lb.Close()

	st, err := store.OpenSQLite(cfg.DatabasePath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	engine := journey.NewEngine(st)

	var gen tui.WeekGenerator
	if cfg.APIKey != "" {
		gen = generator.NewClient(cfg.APIKey, generator.WithModel(cfg.File.Generator.Model))
	} else {
		lb.Warn("OPENAI_API_KEY not set; task generation disabled")
	}

	opts := []tui.AppOption{tui.WithLogbook(lb)}
	if cfg.File.Notifications.Enabled {
		scheduler := notify.NewDesktopScheduler(cfg.StateDir(), lb)
		policy := notify.NewPolicy(st, scheduler, lb,
			notify.WithReminderHour(cfg.File.Notifications.ReminderHour))
		opts = append(opts, tui.WithNotifier(policy))
	}

	p := tea.NewProgram(
		tui.NewApp(engine, gen, opts...),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
