package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeERP()
	c.normalizeUPH()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	c.Paths.APIToken = strings.TrimSpace(c.Paths.APIToken)
	return nil
}

func (c *Config) normalizeERP() {
	c.ERP.BaseURL = strings.TrimRight(strings.TrimSpace(c.ERP.BaseURL), "/")
	c.ERP.APIKey = strings.TrimSpace(c.ERP.APIKey)
	if c.ERP.APIKey == "" {
		if value, ok := os.LookupEnv("TAKT_ERP_API_KEY"); ok {
			c.ERP.APIKey = strings.TrimSpace(value)
		}
	}
	if c.ERP.PageSize <= 0 {
		c.ERP.PageSize = defaultERPPageSize
	}
	if c.ERP.PageDelayMS < 0 {
		c.ERP.PageDelayMS = defaultERPPageDelayMS
	}
	if c.ERP.RequestTimeout <= 0 {
		c.ERP.RequestTimeout = defaultERPRequestTimeout
	}
}

func (c *Config) normalizeUPH() {
	if c.UPH.MinDurationMinutes == 0 {
		c.UPH.MinDurationMinutes = defaultMinDurationMinutes
	}
	if c.UPH.MinUnitsPerHour == 0 {
		c.UPH.MinUnitsPerHour = defaultMinUnitsPerHour
	}
	if c.UPH.MaxUnitsPerHour == 0 {
		c.UPH.MaxUnitsPerHour = defaultMaxUnitsPerHour
	}
	c.UPH.Averaging = strings.ToLower(strings.TrimSpace(c.UPH.Averaging))
	if c.UPH.Averaging == "" {
		c.UPH.Averaging = defaultAveraging
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.SlackWebhookURL = strings.TrimSpace(c.Notifications.SlackWebhookURL)
	if c.Notifications.SlackWebhookURL == "" {
		if value, ok := os.LookupEnv("TAKT_SLACK_WEBHOOK_URL"); ok {
			c.Notifications.SlackWebhookURL = strings.TrimSpace(value)
		}
	}
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyRequestTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
