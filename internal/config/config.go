// internal/config/config.go
//
// This package handles configuration and the ~/.betteryou data directory.
// Everything the app persists (database, logs, reminder state, config.yaml)
// lives under one directory so a user can inspect or wipe it in one place.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DataDirName is created under the user's home directory.
	DataDirName = ".betteryou"

	// DataDirEnv overrides the data directory location entirely.
	DataDirEnv = "BETTERYOU_HOME"

	configFileName = "config.yaml"
)

const defaultConfigYAML = `# better-you configuration
version: 1

generator:
  # Chat-completions model used for weekly task generation.
  model: gpt-4o-mini

notifications:
  # Local hour (0-23) daily reminders fire at.
  reminder_hour: 9
  # Set to false to never schedule desktop reminders.
  enabled: true
`

// GeneratorConfig controls the task generator.
type GeneratorConfig struct {
	Model string `yaml:"model"`
}

// NotificationConfig controls reminder scheduling.
type NotificationConfig struct {
	ReminderHour int  `yaml:"reminder_hour"`
	Enabled      bool `yaml:"enabled"`
}

// FileConfig models config.yaml.
type FileConfig struct {
	Version       int                `yaml:"version"`
	Generator     GeneratorConfig    `yaml:"generator"`
	Notifications NotificationConfig `yaml:"notifications"`
}

// Config holds the runtime configuration.
type Config struct {
	// DataDir is where all persistent state lives.
	DataDir string

	// APIKey is read from the environment (optionally via a .env file), never
	// from config.yaml, so the key stays out of casually shared files.
	APIKey string

	File FileConfig
}

// DatabasePath returns the SQLite database location.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "betteryou.db")
}

// LogPath returns the journey log location.
func (c *Config) LogPath() string {
	return filepath.Join(c.DataDir, "logs", "journey.log")
}

// StateDir returns the directory for scheduler bookkeeping.
func (c *Config) StateDir() string {
	return filepath.Join(c.DataDir, "state")
}

// ConfigPath returns the on-disk location of config.yaml.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.DataDir, configFileName)
}

// DefaultDataDir resolves the data directory: $BETTERYOU_HOME when set,
// otherwise ~/.betteryou.
func DefaultDataDir() (string, error) {
	if dir := strings.TrimSpace(os.Getenv(DataDirEnv)); dir != "" {
		return filepath.Clean(dir), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: resolve home directory: %w", err)
	}
	return filepath.Join(home, DataDirName), nil
}

// Load initializes the data directory, seeds a default config.yaml on first
// run, and reads the configuration.
func Load(dataDir string) (*Config, error) {
	cfg := &Config{
		DataDir: dataDir,
		APIKey:  os.Getenv("OPENAI_API_KEY"),
		File:    defaultFileConfig(),
	}

	dirs := []string{
		dataDir,
		filepath.Join(dataDir, "logs"),
		cfg.StateDir(),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("config: ensure %s: %w", dir, err)
		}
	}

	if err := ensureConfigFile(cfg.ConfigPath()); err != nil {
		return nil, err
	}
	if err := cfg.loadFile(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultFileConfig() FileConfig {
	return FileConfig{
		Version: 1,
		Generator: GeneratorConfig{
			Model: "gpt-4o-mini",
		},
		Notifications: NotificationConfig{
			ReminderHour: 9,
			Enabled:      true,
		},
	}
}

func (c *Config) loadFile() error {
	path := c.ConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	// Unmarshal over the defaults so omitted fields keep their default value.
	parsed := defaultFileConfig()
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.File = parsed
	return nil
}

func (fc *FileConfig) applyDefaults() {
	if fc.Version == 0 {
		fc.Version = 1
	}
	if strings.TrimSpace(fc.Generator.Model) == "" {
		fc.Generator.Model = "gpt-4o-mini"
	}
}

func (fc FileConfig) validate() error {
	if fc.Version < 1 {
		return fmt.Errorf("version must be >= 1")
	}
	if fc.Notifications.ReminderHour < 0 || fc.Notifications.ReminderHour > 23 {
		return fmt.Errorf("notifications.reminder_hour must be between 0 and 23")
	}
	return nil
}

func ensureConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
