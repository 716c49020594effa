// Package sheets provides the HTTP client for the spreadsheet web app that
// mirrors the player roster.
//
// The web app exposes a single URL: GET ?action=read returns every row as a
// JSON array of objects keyed by column header; POST with a JSON body carrying
// an "action" field (add, update, delete) writes one row.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/albapepper/fivea/internal/roster"
	"github.com/albapepper/fivea/internal/teams"
)

// Row actions understood by the web app.
const (
	ActionRead   = "read"
	ActionAdd    = "add"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// Client is the rate-limited HTTP client for the sheet web app.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates a sheet client with rate limiting.
func NewClient(baseURL string, requestsPerMinute int, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if requestsPerMinute <= 0 {
		requestsPerMinute = 30
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	rps := float64(requestsPerMinute) / 60.0
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		logger:     logger,
	}
}

// FetchRows returns every sheet row.
func (c *Client) FetchRows(ctx context.Context) ([]roster.Row, error) {
	params := url.Values{}
	params.Set("action", ActionRead)

	body, err := c.do(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var rows []roster.Row
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode rows (not an array?): %w", err)
	}
	return rows, nil
}

// FetchPlayers returns the parsed roster and the number of skipped rows.
func (c *Client) FetchPlayers(ctx context.Context) ([]teams.Player, int, error) {
	rows, err := c.FetchRows(ctx)
	if err != nil {
		return nil, 0, err
	}
	players, skipped := roster.ParseRows(rows)
	if skipped > 0 {
		c.logger.Warn("Skipped malformed sheet rows", "skipped", skipped, "parsed", len(players))
	}
	return players, skipped, nil
}

// AddPlayer appends a row for p.
func (c *Client) AddPlayer(ctx context.Context, p teams.Player) error {
	return c.post(ctx, ActionAdd, roster.EncodeRow(p))
}

// UpdatePlayer rewrites the row whose id matches p.ID.
func (c *Client) UpdatePlayer(ctx context.Context, p teams.Player) error {
	return c.post(ctx, ActionUpdate, roster.EncodeRow(p))
}

// DeletePlayer removes the row with the given id.
func (c *Client) DeletePlayer(ctx context.Context, id string) error {
	return c.post(ctx, ActionDelete, roster.Row{roster.ColID: id})
}

func (c *Client) post(ctx context.Context, action string, row roster.Row) error {
	payload := make(map[string]any, len(row)+1)
	for k, v := range row {
		payload[k] = v
	}
	payload["action"] = action

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", action, err)
	}
	if _, err := c.do(ctx, http.MethodPost, c.baseURL, data); err != nil {
		return fmt.Errorf("%s row: %w", action, err)
	}
	return nil
}

// do performs a rate-limited request and returns the response body.
func (c *Client) do(ctx context.Context, method, u string, payload []byte) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if payload != nil {
		// Apps Script web apps reject preflighted content types.
		req.Header.Set("Content-Type", "text/plain;charset=utf-8")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http %s: %w", method, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	c.logger.Debug("Sheet request", "method", method, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sheet %s returned %d: %s", method, resp.StatusCode, truncate(body, 200))
	}
	return body, nil
}

// truncate returns a truncated string for error messages.
func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}
