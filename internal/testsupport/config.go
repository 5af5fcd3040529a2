package testsupport

import (
	"path/filepath"
	"testing"

	"takt/internal/config"
	"takt/internal/store"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.APIBind = "127.0.0.1:0"

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithERP points the test config at an ERP endpoint, typically an
// httptest.Server URL.
func WithERP(baseURL, apiKey string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.ERP.BaseURL = baseURL
		cfg.ERP.APIKey = apiKey
		cfg.ERP.PageDelayMS = 0
	}
}

// WithSlackWebhook sets the notification webhook on the test config.
func WithSlackWebhook(url string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Notifications.SlackWebhookURL = url
	}
}

// MustOpenStore opens a store for the config and closes it when the test ends.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	s, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	return s
}
