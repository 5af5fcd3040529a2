package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"takt/internal/config"
	"takt/internal/uph"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "")

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected config at %s to be used, got %s exists=%v", path, resolved, exists)
	}
	if cfg.UPH.MaxUnitsPerHour != 500 {
		t.Fatalf("expected default ceiling 500, got %v", cfg.UPH.MaxUnitsPerHour)
	}
	if cfg.UPH.Averaging != "simple" {
		t.Fatalf("expected default averaging simple, got %q", cfg.UPH.Averaging)
	}
	if cfg.Logging.Format != "console" {
		t.Fatalf("expected console log format, got %q", cfg.Logging.Format)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.toml")

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing file")
	}
	if cfg.ERP.PageSize != 500 {
		t.Fatalf("expected default page size, got %d", cfg.ERP.PageSize)
	}
}

func TestLoadParsesSections(t *testing.T) {
	path := writeConfig(t, `
[erp]
base_url = "https://erp.example.com/"
page_size = 100

[uph]
min_duration_minutes = 2.0
max_units_per_hour = 1000
averaging = "weighted"

[sync]
interval_minutes = 30
`)

	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ERP.BaseURL != "https://erp.example.com" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.ERP.BaseURL)
	}
	if cfg.ERP.PageSize != 100 {
		t.Fatalf("expected page size 100, got %d", cfg.ERP.PageSize)
	}
	policy := cfg.Policy()
	if policy.MinDurationHours != 2.0/60 {
		t.Fatalf("expected 2 minute floor, got %v hours", policy.MinDurationHours)
	}
	if policy.Averaging != uph.AveragingWeighted {
		t.Fatalf("expected weighted averaging, got %q", policy.Averaging)
	}
	if cfg.Sync.IntervalMinutes != 30 {
		t.Fatalf("expected sync interval 30, got %d", cfg.Sync.IntervalMinutes)
	}
}

func TestLoadRejectsInvalidPolicy(t *testing.T) {
	path := writeConfig(t, `
[uph]
min_duration_minutes = -5.0
`)

	_, _, _, err := config.Load(path)
	if err == nil {
		t.Fatal("expected policy validation error")
	}
	if !strings.Contains(err.Error(), "uph") {
		t.Fatalf("expected uph section error, got %v", err)
	}
}

func TestLoadRejectsSyncWithoutERP(t *testing.T) {
	path := writeConfig(t, `
[sync]
interval_minutes = 15
`)

	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected error for sync interval without erp.base_url")
	}
}

func TestERPKeyEnvFallback(t *testing.T) {
	t.Setenv("TAKT_ERP_API_KEY", "from-env")
	path := writeConfig(t, `
[erp]
base_url = "https://erp.example.com"
`)

	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ERP.APIKey != "from-env" {
		t.Fatalf("expected env fallback API key, got %q", cfg.ERP.APIKey)
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	if _, _, exists, err := config.Load(path); err != nil || !exists {
		t.Fatalf("expected sample config to load, exists=%v err=%v", exists, err)
	}
}
