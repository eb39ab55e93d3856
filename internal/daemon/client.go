package daemon

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/theirongolddev/blossom/internal/intake"
)

const (
	requestTimeout = 5 * time.Second
	maxBodySize    = 4 << 20
)

var (
	// ErrRejected is returned when the daemon refuses a gift as invalid.
	ErrRejected = errors.New("daemon: gift rejected")
	// ErrUnreachable wraps transport failures.
	ErrUnreachable = errors.New("daemon: unreachable")
)

// Client talks to a running daemon's HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a client for the daemon listening on addr
// (host:port or a full http URL).
func NewClient(addr string) *Client {
	base := strings.TrimRight(strings.TrimSpace(addr), "/")
	if !strings.Contains(base, "://") {
		base = "http://" + base
	}
	return &Client{
		baseURL: base,
		http:    &http.Client{Timeout: requestTimeout},
	}
}

// Health reports whether /healthz answers ok.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/healthz", nil, http.StatusOK)
	return err
}

// Status fetches /v1/status.
func (c *Client) Status(ctx context.Context) (Status, error) {
	var st Status
	body, err := c.do(ctx, http.MethodGet, "/v1/status", nil, http.StatusOK)
	if err != nil {
		return st, err
	}
	if err := json.Unmarshal(body, &st); err != nil {
		return st, fmt.Errorf("daemon: parsing status: %w", err)
	}
	return st, nil
}

// Gifts fetches the ledger, newest first.
func (c *Client) Gifts(ctx context.Context) ([]Gift, error) {
	body, err := c.do(ctx, http.MethodGet, "/v1/gifts", nil, http.StatusOK)
	if err != nil {
		return nil, err
	}
	var gifts []Gift
	if err := json.Unmarshal(body, &gifts); err != nil {
		return nil, fmt.Errorf("daemon: parsing gifts: %w", err)
	}
	return gifts, nil
}

// AddGift records in through the daemon. persisted is false when the
// daemon accepted the gift but could not save it.
func (c *Client) AddGift(ctx context.Context, in intake.Fields) (g Gift, persisted bool, err error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return g, false, fmt.Errorf("daemon: encoding gift: %w", err)
	}
	body, err := c.do(ctx, http.MethodPost, "/v1/gifts", payload,
		http.StatusCreated, http.StatusUnprocessableEntity, http.StatusBadRequest)
	if err != nil {
		return g, false, err
	}

	var resp addGiftResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return g, false, fmt.Errorf("daemon: parsing response: %w", err)
	}
	if resp.Gift == nil {
		return g, false, fmt.Errorf("%w: %s", ErrRejected, resp.Error)
	}
	return *resp.Gift, resp.Persisted, nil
}

// do sends a request and returns the body when the status is one of want.
func (c *Client) do(ctx context.Context, method, path string, payload []byte, want ...int) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("daemon: creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	//nolint:gosec // URL is the locally configured daemon address
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreachable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("daemon: reading response: %w", err)
	}
	for _, code := range want {
		if resp.StatusCode == code {
			return body, nil
		}
	}
	return nil, fmt.Errorf("daemon: unexpected status %d", resp.StatusCode)
}
