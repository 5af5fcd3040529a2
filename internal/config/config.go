package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"takt/internal/uph"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and bind address configuration.
type Paths struct {
	DataDir  string `toml:"data_dir"`
	LogDir   string `toml:"log_dir"`
	APIBind  string `toml:"api_bind"`
	APIToken string `toml:"api_token"`
}

// ERP contains configuration for the upstream manufacturing ERP API.
type ERP struct {
	BaseURL        string `toml:"base_url"`
	APIKey         string `toml:"api_key"`
	PageSize       int    `toml:"page_size"`
	PageDelayMS    int    `toml:"page_delay_ms"`
	RequestTimeout int    `toml:"request_timeout"`
}

// UPH contains the calculation policy knobs.
type UPH struct {
	MinDurationMinutes float64 `toml:"min_duration_minutes"`
	MinUnitsPerHour    float64 `toml:"min_units_per_hour"`
	MaxUnitsPerHour    float64 `toml:"max_units_per_hour"`
	Averaging          string  `toml:"averaging"`
}

// Notifications contains configuration for Slack webhook notifications.
type Notifications struct {
	SlackWebhookURL string `toml:"slack_webhook_url"`
	RequestTimeout  int    `toml:"request_timeout"`
	Runs            bool   `toml:"runs"`
	Errors          bool   `toml:"errors"`
}

// Sync contains daemon scheduling settings.
type Sync struct {
	// IntervalMinutes is the periodic ERP sync cadence. Zero disables the
	// scheduler; the API trigger still works.
	IntervalMinutes int `toml:"interval_minutes"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for Takt.
//
// Configuration sections by subsystem:
//   - Paths: data/log directories and API bind address
//   - ERP: upstream work-cycle source connection
//   - UPH: calculation policy (thresholds, averaging strategy)
//   - Notifications: Slack webhook settings
//   - Sync: daemon scheduling cadence
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	ERP           ERP           `toml:"erp"`
	UPH           UPH           `toml:"uph"`
	Notifications Notifications `toml:"notifications"`
	Sync          Sync          `toml:"sync"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/takt/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("takt.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories daemon operation requires.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// DatabasePath returns the location of the SQLite database.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.DataDir, "takt.db")
}

// LockPath returns the daemon lock file location.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.DataDir, "taktd.lock")
}

// Policy converts the configured UPH section into an engine policy.
func (c *Config) Policy() uph.Policy {
	return uph.Policy{
		MinDurationHours: c.UPH.MinDurationMinutes / 60,
		MinUnitsPerHour:  c.UPH.MinUnitsPerHour,
		MaxUnitsPerHour:  c.UPH.MaxUnitsPerHour,
		Averaging:        uph.AveragingStrategy(c.UPH.Averaging),
	}
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath resolves ~ prefixes and returns an absolute path.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}
