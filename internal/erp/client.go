package erp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"takt/internal/config"
	"takt/internal/logging"
	"takt/internal/uph"
)

// DataSource is the provenance tag stamped onto ERP-sourced summaries.
const DataSource = "erp"

const cyclesPath = "/api/work-cycles"

// ErrNotConfigured indicates no ERP base URL is set.
var ErrNotConfigured = errors.New("erp base url not configured")

// HTTPDoer describes the HTTP client used by the ERP client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client pages work cycles out of the ERP.
type Client struct {
	baseURL   string
	apiKey    string
	pageSize  int
	pageDelay time.Duration
	client    HTTPDoer
	logger    *slog.Logger
}

// NewClient builds an ERP client from application config.
func NewClient(cfg *config.Config, logger *slog.Logger) (*Client, error) {
	if cfg == nil || cfg.ERP.BaseURL == "" {
		return nil, ErrNotConfigured
	}
	httpClient := &http.Client{Timeout: time.Duration(cfg.ERP.RequestTimeout) * time.Second}
	return NewClientWith(
		cfg.ERP.BaseURL,
		cfg.ERP.APIKey,
		cfg.ERP.PageSize,
		time.Duration(cfg.ERP.PageDelayMS)*time.Millisecond,
		httpClient,
		logger,
	), nil
}

// NewClientWith builds an ERP client with explicit dependencies (used in tests).
func NewClientWith(baseURL, apiKey string, pageSize int, pageDelay time.Duration, doer HTTPDoer, logger *slog.Logger) *Client {
	if pageSize <= 0 {
		pageSize = 500
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Client{
		baseURL:   baseURL,
		apiKey:    apiKey,
		pageSize:  pageSize,
		pageDelay: pageDelay,
		client:    doer,
		logger:    logger.With(logging.FieldComponent, "erp"),
	}
}

// cycleRecord mirrors the ERP's work-cycle wire shape.
type cycleRecord struct {
	OperatorName    string   `json:"operator_name"`
	WorkCenter      string   `json:"work_center"`
	Routing         string   `json:"routing"`
	MONumber        string   `json:"mo_number"`
	MOQuantity      float64  `json:"mo_quantity"`
	DurationSeconds float64  `json:"duration_seconds"`
	Operation       string   `json:"operation"`
	State           *string  `json:"state"`
}

type cyclesPage struct {
	Records []cycleRecord `json:"records"`
}

// FetchWorkCycles retrieves the complete work-cycle set for a calculation
// run. Only cycles whose state is "done" or null are returned; anything else
// is dropped here so the engine sees the documented input contract.
func (c *Client) FetchWorkCycles(ctx context.Context) ([]uph.WorkCycle, error) {
	var cycles []uph.WorkCycle

	for offset := 0; ; offset += c.pageSize {
		page, err := c.fetchPage(ctx, offset)
		if err != nil {
			return nil, err
		}

		for _, rec := range page.Records {
			state := ""
			if rec.State != nil {
				state = *rec.State
			}
			if state != "" && state != uph.StateDone {
				continue
			}
			cycles = append(cycles, uph.WorkCycle{
				Operator:        rec.OperatorName,
				WorkCenterRaw:   rec.WorkCenter,
				Routing:         rec.Routing,
				MONumber:        rec.MONumber,
				MOQuantity:      rec.MOQuantity,
				DurationSeconds: rec.DurationSeconds,
				Operation:       rec.Operation,
				State:           state,
			})
		}

		if len(page.Records) < c.pageSize {
			break
		}

		if c.pageDelay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.pageDelay):
			}
		}
	}

	c.logger.Debug("fetched work cycles", slog.Int("count", len(cycles)))
	return cycles, nil
}

func (c *Client) fetchPage(ctx context.Context, offset int) (*cyclesPage, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(c.pageSize))
	query.Set("offset", strconv.Itoa(offset))
	endpoint := c.baseURL + cyclesPath + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build work-cycles request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch work cycles: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("erp returned %d for offset %d", resp.StatusCode, offset)
	}

	var page cyclesPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decode work cycles: %w", err)
	}
	return &page, nil
}
