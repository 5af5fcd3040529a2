package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"takt/internal/config"
)

const userAgent = "Takt/0.1.0"

// Service defines the notification surface exposed to the runner and daemon.
type Service interface {
	NotifyRunStarted(ctx context.Context, source string, cycles int) error
	NotifyRunCompleted(ctx context.Context, source string, summaries, skipped, filtered int, duration time.Duration) error
	NotifyRunFailed(ctx context.Context, source string, cause error) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by a Slack incoming
// webhook when configured. When no webhook is configured, a noop
// implementation is returned.
func NewService(cfg *config.Config) Service {
	webhook := strings.TrimSpace(cfg.Notifications.SlackWebhookURL)
	if webhook == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &slackService{
		webhook:      webhook,
		client:       &http.Client{Timeout: timeout},
		notifyRuns:   cfg.Notifications.Runs,
		notifyErrors: cfg.Notifications.Errors,
	}
}

type slackService struct {
	webhook      string
	client       *http.Client
	notifyRuns   bool
	notifyErrors bool
}

func (s *slackService) NotifyRunStarted(ctx context.Context, source string, cycles int) error {
	if !s.notifyRuns {
		return nil
	}
	text := fmt.Sprintf("Takt: UPH calculation started from %s with %d work cycles", source, cycles)
	return s.send(ctx, text)
}

func (s *slackService) NotifyRunCompleted(ctx context.Context, source string, summaries, skipped, filtered int, duration time.Duration) error {
	if !s.notifyRuns {
		return nil
	}
	duration = duration.Round(time.Second)
	if duration < 0 {
		duration = 0
	}
	text := fmt.Sprintf("Takt: UPH calculation from %s complete: %d summaries in %s (%d records skipped, %d outliers filtered)",
		source, summaries, duration, skipped, filtered)
	return s.send(ctx, text)
}

func (s *slackService) NotifyRunFailed(ctx context.Context, source string, cause error) error {
	if !s.notifyErrors {
		return nil
	}
	message := "unknown"
	if cause != nil {
		message = strings.TrimSpace(cause.Error())
	}
	text := fmt.Sprintf("Takt: UPH calculation from %s failed: %s", source, message)
	return s.send(ctx, text)
}

func (s *slackService) TestNotification(ctx context.Context) error {
	return s.send(ctx, "Takt: test notification")
}

func (s *slackService) send(ctx context.Context, text string) error {
	payload, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhook, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send slack notification: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("slack webhook returned %d", resp.StatusCode)
	}
	return nil
}

type noopService struct{}

func (noopService) NotifyRunStarted(context.Context, string, int) error { return nil }
func (noopService) NotifyRunCompleted(context.Context, string, int, int, int, time.Duration) error {
	return nil
}
func (noopService) NotifyRunFailed(context.Context, string, error) error { return nil }
func (noopService) TestNotification(context.Context) error               { return nil }
