package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateERP(); err != nil {
		return err
	}
	if err := c.validateUPH(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	if err := c.validateSync(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateERP() error {
	if c.ERP.BaseURL == "" {
		// ERP sync is optional; CSV import works without it.
		return nil
	}
	parsed, err := url.Parse(c.ERP.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("erp.base_url %q is not a valid URL", c.ERP.BaseURL)
	}
	return nil
}

func (c *Config) validateUPH() error {
	if err := c.Policy().Validate(); err != nil {
		return fmt.Errorf("uph: %w", err)
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.SlackWebhookURL == "" {
		return nil
	}
	parsed, err := url.Parse(c.Notifications.SlackWebhookURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return errors.New("notifications.slack_webhook_url is not a valid URL")
	}
	return nil
}

func (c *Config) validateSync() error {
	if c.Sync.IntervalMinutes < 0 {
		return errors.New("sync.interval_minutes must not be negative")
	}
	if c.Sync.IntervalMinutes > 0 && c.ERP.BaseURL == "" {
		return errors.New("sync.interval_minutes requires erp.base_url to be set")
	}
	return nil
}
