// Package client is a Go SDK for the snowflake profile-store API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/snowflake-ladder/snowflake/internal/ladder"
	"github.com/snowflake-ladder/snowflake/internal/store"
)

// Client talks to a snowflake server.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithToken sends token as a bearer credential on every request.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError is a non-2xx response.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d: %s - %s", e.StatusCode, e.Code, e.Message)
}

// Unwrap maps 404 onto store.ErrNotFound.
func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound {
		return store.ErrNotFound
	}
	return nil
}

// TeamInfo summarizes one team's catalog.
type TeamInfo struct {
	Team       string   `json:"team"`
	Tracks     int      `json:"tracks"`
	Categories []string `json:"categories"`
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Get returns username's record, or an error wrapping store.ErrNotFound.
func (c *Client) Get(ctx context.Context, username string) (ladder.Record, error) {
	data, err := c.doRequest(ctx, http.MethodGet, profilePath(username), nil)
	if err != nil {
		return ladder.Record{}, err
	}
	var body struct {
		Record json.RawMessage `json:"record"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ladder.Record{}, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return ladder.ParseRecord(body.Record)
}

// Save stores rec.
func (c *Client) Save(ctx context.Context, rec ladder.Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	_, err = c.doRequest(ctx, http.MethodPut, profilePath(rec.Username), bytes.NewReader(payload))
	return err
}

// Delete removes username's record.
func (c *Client) Delete(ctx context.Context, username string) error {
	_, err := c.doRequest(ctx, http.MethodDelete, profilePath(username), nil)
	return err
}

// Teams lists the server's catalogs.
func (c *Client) Teams(ctx context.Context) ([]TeamInfo, error) {
	data, err := c.doRequest(ctx, http.MethodGet, "/api/v1/teams", nil)
	if err != nil {
		return nil, err
	}
	var teams []TeamInfo
	if err := json.Unmarshal(data, &teams); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return teams, nil
}

// Summary returns the server-side aggregation of username's profile.
func (c *Client) Summary(ctx context.Context, username string) (ladder.Summary, error) {
	data, err := c.doRequest(ctx, http.MethodGet, profilePath(username)+"/summary", nil)
	if err != nil {
		return ladder.Summary{}, err
	}
	var s ladder.Summary
	if err := json.Unmarshal(data, &s); err != nil {
		return ladder.Summary{}, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return s, nil
}

func profilePath(username string) string {
	return "/api/v1/profiles/" + url.PathEscape(username)
}

// doRequest performs the call and returns the envelope's data field.
func (c *Client) doRequest(ctx context.Context, method, path string, body io.Reader) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		if resp.StatusCode >= 400 {
			return nil, &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
		}
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if resp.StatusCode >= 400 || !env.Success {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}
		return nil, apiErr
	}
	return env.Data, nil
}
