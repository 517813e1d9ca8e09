// MoodMirror - Emotion Reaction Statistics for Interactive Installations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmirror

/*
Package client is the viewer-side HTTP client for a MoodMirror server.

Submission failures come back as the ingest sentinel errors so kiosk code
can decide with errors.Is whether to drop a reaction:

	err := c.Submit(ctx, payload)
	switch {
	case errors.Is(err, ingest.ErrRateLimited):
		// drop silently
	case errors.Is(err, ingest.ErrInvalidField):
		// a bug in the kiosk, log it
	}
*/
package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/moodmirror/internal/ingest"
	"github.com/tomtom215/moodmirror/internal/models"
	"github.com/tomtom215/moodmirror/internal/rotation"
	"github.com/tomtom215/moodmirror/internal/validation"
)

// DefaultSubmitPath is the ingestion path on a MoodMirror server.
const DefaultSubmitPath = "/api/v1/reactions"

// maxErrorBodySize bounds how much of an unexpected response is read.
const maxErrorBodySize = 64 * 1024

// Client talks to one MoodMirror server.
type Client struct {
	baseURL    string
	submitPath string
	http       *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default client (10s timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithSubmitPath targets a different ingestion path, e.g. the legacy
// function URL.
func WithSubmitPath(path string) Option {
	return func(c *Client) { c.submitPath = path }
}

// New creates a client for baseURL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		submitPath: DefaultSubmitPath,
		http:       &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type ingestResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Submit sends one reaction. The payload is validated locally first so
// obvious mistakes never cost a request against the rate limit.
func (c *Client) Submit(ctx context.Context, p ingest.Payload) error {
	if verr := validation.ValidateStruct(p); verr != nil {
		return fmt.Errorf("%w: %s", ingest.ErrInvalidField, verr.Error())
	}

	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode reaction: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.submitPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build submit request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("submit reaction: %w", err)
	}
	defer resp.Body.Close()

	var out ingestResponse
	raw := readLimited(resp.Body)
	_ = json.Unmarshal(raw, &out)

	if resp.StatusCode == http.StatusOK && out.Success {
		return nil
	}
	return submitError(resp.StatusCode, out.Error, raw)
}

// submitError maps a gateway response back to the ingest sentinels.
func submitError(status int, message string, raw []byte) error {
	if message == "" {
		message = strings.TrimSpace(string(raw))
	}
	switch status {
	case http.StatusMethodNotAllowed:
		return fmt.Errorf("%w: %s", ingest.ErrMethodNotAllowed, message)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", ingest.ErrRateLimited, message)
	case http.StatusBadRequest:
		if message == "Invalid JSON" {
			return fmt.Errorf("%w: %s", ingest.ErrInvalidPayload, message)
		}
		return fmt.Errorf("%w: %s", ingest.ErrInvalidField, message)
	case http.StatusInternalServerError:
		return fmt.Errorf("%w: %s", ingest.ErrStorage, message)
	default:
		return fmt.Errorf("submit reaction: unexpected status %d: %s", status, message)
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// APIError is a non-2xx response from a read endpoint.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d %s: %s", e.Status, e.Code, e.Message)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode %s response (status %d): %w", path, resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK || !env.Success {
		apiErr := &APIError{Status: resp.StatusCode}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}
		return apiErr
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode %s data: %w", path, err)
	}
	return nil
}

// Stats returns the weighted aggregate for contentID, or nil when it has
// no reactions.
func (c *Client) Stats(ctx context.Context, contentID string) (*models.RankingAggregate, error) {
	var agg *models.RankingAggregate
	if err := c.do(ctx, http.MethodGet, "/api/v1/content/"+url.PathEscape(contentID)+"/stats", nil, nil, &agg); err != nil {
		return nil, err
	}
	return agg, nil
}

// Rank returns how contentID ranks for emotion.
func (c *Client) Rank(ctx context.Context, contentID string, emotion models.Emotion) (models.CollectiveResult, error) {
	var res models.CollectiveResult
	q := url.Values{"emotion": {string(emotion)}}
	err := c.do(ctx, http.MethodGet, "/api/v1/content/"+url.PathEscape(contentID)+"/rank", q, nil, &res)
	return res, err
}

// Rankings returns dashboard entries. Empty mode and sort use the server
// defaults.
func (c *Client) Rankings(ctx context.Context, mode models.RankingMode, sort string) ([]models.DashboardEntry, error) {
	q := url.Values{}
	if mode != "" {
		q.Set("mode", string(mode))
	}
	if sort != "" {
		q.Set("sort", sort)
	}
	var entries []models.DashboardEntry
	if err := c.do(ctx, http.MethodGet, "/api/v1/rankings", q, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Next asks the server for the next item given the ids already shown. It
// returns rotation.ErrNoContentAvailable when the server has no manifest.
func (c *Client) Next(ctx context.Context, shown []string) (models.ContentItem, []string, error) {
	var out struct {
		Item  models.ContentItem `json:"item"`
		Shown []string           `json:"shown"`
	}
	err := c.do(ctx, http.MethodPost, "/api/v1/content/next", nil, map[string][]string{"shown": shown}, &out)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusServiceUnavailable {
			return models.ContentItem{}, shown, fmt.Errorf("%w: %s", rotation.ErrNoContentAvailable, apiErr.Message)
		}
		return models.ContentItem{}, shown, err
	}
	return out.Item, out.Shown, nil
}

func readLimited(r io.Reader) []byte {
	b, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return nil
	}
	return b
}
