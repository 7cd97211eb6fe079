package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/readtrack/internal/shared"
	"golang.org/x/oauth2"
)

// DefaultBaseURL is used when no base URL is configured.
const DefaultBaseURL = "http://localhost:8080/api"

// RequestIDHeader carries a per-request uuid for correlating client and server logs.
const RequestIDHeader = "X-Request-ID"

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string { return e.Message }

// Unwrap maps the status to a sentinel so callers can use [errors.Is].
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return shared.ErrNotAuthenticated
	case http.StatusNotFound:
		return shared.ErrNotFound
	}
	return shared.ErrAPIRequest
}

// IsStatus reports whether err is an [*APIError] with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// Client talks to the reading-tracker API.
type Client struct {
	baseURL string
	authed  *http.Client
	anon    *http.Client
	logger  *log.Logger
}

// ClientOpts configures a [Client]. Zero values fall back to defaults.
type ClientOpts struct {
	BaseURL string
	// Tokens supplies the bearer token for authenticated endpoints.
	Tokens oauth2.TokenSource
	// HTTPClient supplies the underlying transport; its Transport is wrapped, not replaced.
	HTTPClient *http.Client
	Logger     *log.Logger
}

// NewClient creates a [Client].
func NewClient(opts ClientOpts) *Client {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}

	anon := opts.HTTPClient
	if anon == nil {
		anon = &http.Client{}
	}

	authed := anon
	if opts.Tokens != nil {
		authed = &http.Client{
			Transport:     &oauth2.Transport{Source: opts.Tokens, Base: anon.Transport},
			CheckRedirect: anon.CheckRedirect,
			Jar:           anon.Jar,
			Timeout:       anon.Timeout,
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}

	return &Client{baseURL: base, authed: authed, anon: anon, logger: logger}
}

// BaseURL returns the API root the client sends requests to.
func (c *Client) BaseURL() string { return c.baseURL }

// call describes one request.
type call struct {
	method   string
	path     string
	body     any
	out      any
	anon     bool
	fallback string
}

func (c *Client) do(ctx context.Context, r call) error {
	var body io.Reader
	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	requestID := shared.GenerateID()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := c.authed
	if r.anon {
		client = c.anon
	}

	logger := c.logger.With("method", r.method, "path", r.path, "request_id", requestID)
	start := time.Now()

	resp, err := client.Do(req)
	if err != nil {
		logger.Debug("request failed", "error", err)
		switch {
		case errors.Is(err, shared.ErrNotAuthenticated):
			var urlErr *url.Error
			if errors.As(err, &urlErr) {
				return urlErr.Err
			}
			return err
		case ctx.Err() != nil:
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", shared.ErrUnreachable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %v", shared.ErrUnreachable, err)
	}
	logger.Debug("response", "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp.StatusCode, data, r.fallback)
	}

	if r.out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, r.out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// decodeError builds an [*APIError] from the body's "error" field. Bodies
// without one get the fallback message.
func decodeError(status int, data []byte, fallback string) *APIError {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err == nil && strings.TrimSpace(body.Error) != "" {
		return &APIError{Status: status, Message: body.Error}
	}
	return &APIError{Status: status, Message: fallback}
}

// decodeList accepts either {"data": [...]} or a bare JSON array.
func decodeList[T any](raw json.RawMessage) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []T{}, nil
	}

	if trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
		return items, nil
	}

	var envelope struct {
		Data []T `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if envelope.Data == nil {
		return []T{}, nil
	}
	return envelope.Data, nil
}
