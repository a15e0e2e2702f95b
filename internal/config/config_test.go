package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadSeedsDefaultsOnFirstRun(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "betteryou")

	cfg, err := Load(dataDir)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.File.Generator.Model != "gpt-4o-mini" {
		t.Fatalf("expected default model, got %q", cfg.File.Generator.Model)
	}
	if cfg.File.Notifications.ReminderHour != 9 {
		t.Fatalf("expected default reminder hour 9, got %d", cfg.File.Notifications.ReminderHour)
	}
	if !cfg.File.Notifications.Enabled {
		t.Fatal("expected notifications enabled by default")
	}
	if _, err := os.Stat(cfg.ConfigPath()); err != nil {
		t.Fatalf("expected config.yaml to be created: %v", err)
	}
	if _, err := os.Stat(cfg.StateDir()); err != nil {
		t.Fatalf("expected state dir to be created: %v", err)
	}
}

func TestLoadParsesExistingConfig(t *testing.T) {
	dataDir := t.TempDir()
	configYAML := strings.TrimSpace(`
version: 1
generator:
  model: gpt-4o
notifications:
  reminder_hour: 7
  enabled: false
`)
	if err := os.WriteFile(filepath.Join(dataDir, "config.yaml"), []byte(configYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dataDir)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.File.Generator.Model != "gpt-4o" {
		t.Fatalf("expected configured model, got %q", cfg.File.Generator.Model)
	}
	if cfg.File.Notifications.ReminderHour != 7 {
		t.Fatalf("expected reminder hour 7, got %d", cfg.File.Notifications.ReminderHour)
	}
	if cfg.File.Notifications.Enabled {
		t.Fatal("expected notifications disabled")
	}
}

func TestLoadKeepsDefaultsForOmittedFields(t *testing.T) {
	dataDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dataDir, "config.yaml"), []byte("version: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dataDir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.File.Notifications.ReminderHour != 9 || !cfg.File.Notifications.Enabled {
		t.Fatalf("expected notification defaults preserved, got %+v", cfg.File.Notifications)
	}
}

func TestLoadRejectsBadReminderHour(t *testing.T) {
	dataDir := t.TempDir()
	configYAML := "version: 1\nnotifications:\n  reminder_hour: 31\n"
	if err := os.WriteFile(filepath.Join(dataDir, "config.yaml"), []byte(configYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(dataDir); err == nil {
		t.Fatal("expected validation error for reminder_hour 31")
	}
}

func TestDefaultDataDirHonorsOverride(t *testing.T) {
	t.Setenv(DataDirEnv, "/tmp/custom-betteryou")
	dir, err := DefaultDataDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != "/tmp/custom-betteryou" {
		t.Fatalf("expected override honored, got %s", dir)
	}
}
