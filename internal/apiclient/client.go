// Package apiclient gives the CLI HTTP access to a running daemon's
// control API.
package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"takt/internal/api"
	"takt/internal/config"
)

// ErrDaemonUnavailable indicates the daemon could not be reached.
var ErrDaemonUnavailable = errors.New("takt daemon is not reachable")

// ErrRunActive indicates the daemon refused a trigger because a calculation
// run is already executing.
var ErrRunActive = errors.New("calculation run already in progress")

// HTTPDoer describes the HTTP client used to reach the daemon.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the daemon's control API.
type Client struct {
	baseURL string
	token   string
	client  HTTPDoer
}

// New builds a client for the configured API bind address.
func New(cfg *config.Config) *Client {
	return NewWith("http://"+cfg.Paths.APIBind, cfg.Paths.APIToken, &http.Client{Timeout: 30 * time.Second})
}

// NewWith builds a client with explicit dependencies (used in tests).
func NewWith(baseURL, token string, doer HTTPDoer) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  doer,
	}
}

// Status fetches the daemon status snapshot.
func (c *Client) Status(ctx context.Context) (*api.DaemonStatus, error) {
	var status api.DaemonStatus
	if err := c.get(ctx, "/api/status", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Summaries lists persisted UPH summaries, optionally filtered by operator
// and normalized work center.
func (c *Client) Summaries(ctx context.Context, operator, workCenter string) ([]api.Summary, error) {
	query := url.Values{}
	if operator != "" {
		query.Set("operator", operator)
	}
	if workCenter != "" {
		query.Set("work_center", workCenter)
	}
	var resp api.SummariesResponse
	if err := c.get(ctx, "/api/uph", query, &resp); err != nil {
		return nil, err
	}
	return resp.Summaries, nil
}

// Runs lists run history, most recent first.
func (c *Client) Runs(ctx context.Context, limit int) ([]api.RunRecord, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	var resp api.RunsResponse
	if err := c.get(ctx, "/api/runs", query, &resp); err != nil {
		return nil, err
	}
	return resp.Runs, nil
}

// Recalculate asks the daemon to start an ERP recalculation run. A 409
// answer maps to ErrRunActive.
func (c *Client) Recalculate(ctx context.Context) (*api.TriggerResponse, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/api/recalculate")
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDaemonUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var trigger api.TriggerResponse
		if err := json.NewDecoder(resp.Body).Decode(&trigger); err != nil {
			return nil, fmt.Errorf("decode trigger response: %w", err)
		}
		return &trigger, nil
	case http.StatusConflict:
		return nil, ErrRunActive
	default:
		return nil, apiError(resp)
	}
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := c.newRequest(ctx, http.MethodGet, endpoint)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDaemonUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

func apiError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var wire api.ErrorResponse
	if err := json.Unmarshal(body, &wire); err == nil && wire.Error != "" {
		return fmt.Errorf("daemon returned %d: %s", resp.StatusCode, wire.Error)
	}
	return fmt.Errorf("daemon returned %d", resp.StatusCode)
}
