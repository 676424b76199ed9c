// Package icu is the HTTP adapter for the Intervals.icu-shaped external
// API. Every failure it returns is an *APIError so callers can branch on
// the code without string matching. The adapter never retries; rate-limit
// and transient-error handling belongs to the caller.
package icu

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// basicAuthUser is the fixed username for Intervals.icu API-key auth; the
// athlete's API key is the password.
const basicAuthUser = "API_KEY"

// DefaultBaseURL is the production Intervals.icu API root.
const DefaultBaseURL = "https://intervals.icu/api/v1"

// Client calls the external training platform on behalf of one athlete at a
// time. It holds no credentials itself; they are passed per call.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a Client for the given API root.
func NewClient(baseURL string, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
	}
}

// do performs one request and applies the response taxonomy:
// transport failure → NETWORK_ERROR, 401/403 → INVALID_CREDENTIALS,
// 429 → RATE_LIMITED, other non-2xx → API_ERROR, unparseable 2xx body →
// API_ERROR.
func (c *Client) do(ctx context.Context, creds *Credentials, method, path string, query url.Values, body any) (json.RawMessage, error) {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, &APIError{
				Message: fmt.Sprintf("encode request body: %v", err),
				Code:    CodeAPIError,
			}
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return nil, networkError(err)
	}
	req.SetBasicAuth(basicAuthUser, creds.APIKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, networkError(err)
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, networkError(err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, &APIError{
			Message:    "Intervals.icu rejected the API key",
			StatusCode: resp.StatusCode,
			Code:       CodeInvalidCredentials,
		}
	case resp.StatusCode == http.StatusTooManyRequests:
		msg := "Intervals.icu rate limit exceeded"
		if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
			msg = fmt.Sprintf("%s, retry after %s seconds", msg, retryAfter)
		}
		return nil, &APIError{
			Message:    msg,
			StatusCode: resp.StatusCode,
			Code:       CodeRateLimited,
		}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &APIError{
			Message:    fmt.Sprintf("Intervals.icu returned %d: %s", resp.StatusCode, string(respBody)),
			StatusCode: resp.StatusCode,
			Code:       CodeAPIError,
		}
	}

	if !json.Valid(respBody) {
		return nil, &APIError{
			Message:    "Intervals.icu returned invalid JSON",
			StatusCode: resp.StatusCode,
			Code:       CodeAPIError,
		}
	}
	return respBody, nil
}

// Activities returns the athlete's activities in [oldest, newest].
func (c *Client) Activities(ctx context.Context, creds *Credentials, oldest, newest string) ([]Activity, error) {
	query := url.Values{"oldest": {oldest}, "newest": {newest}}
	raw, err := c.do(ctx, creds, http.MethodGet, "/athlete/"+creds.ExternalAthleteID+"/activities", query, nil)
	if err != nil {
		return nil, err
	}

	var wire []apiActivity
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, &APIError{Message: "unexpected activities payload", StatusCode: 200, Code: CodeAPIError}
	}
	activities := make([]Activity, len(wire))
	for i := range wire {
		activities[i] = wire[i].canonical()
	}
	return activities, nil
}

// Wellness returns the athlete's wellness records in [oldest, newest].
func (c *Client) Wellness(ctx context.Context, creds *Credentials, oldest, newest string) ([]Wellness, error) {
	query := url.Values{"oldest": {oldest}, "newest": {newest}}
	raw, err := c.do(ctx, creds, http.MethodGet, "/athlete/"+creds.ExternalAthleteID+"/wellness", query, nil)
	if err != nil {
		return nil, err
	}

	var wire []apiWellness
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, &APIError{Message: "unexpected wellness payload", StatusCode: 200, Code: CodeAPIError}
	}
	records := make([]Wellness, len(wire))
	for i := range wire {
		records[i] = wire[i].canonical()
	}
	return records, nil
}

// Events returns the athlete's calendar events in [oldest, newest].
func (c *Client) Events(ctx context.Context, creds *Credentials, oldest, newest string) ([]CalendarEvent, error) {
	query := url.Values{"oldest": {oldest}, "newest": {newest}}
	raw, err := c.do(ctx, creds, http.MethodGet, "/athlete/"+creds.ExternalAthleteID+"/events", query, nil)
	if err != nil {
		return nil, err
	}

	var wire []apiEvent
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, &APIError{Message: "unexpected events payload", StatusCode: 200, Code: CodeAPIError}
	}
	events := make([]CalendarEvent, len(wire))
	for i := range wire {
		events[i] = wire[i].canonical()
	}
	return events, nil
}

// CreateEvent creates a calendar event from canonical fields and returns the
// created event in canonical form.
func (c *Client) CreateEvent(ctx context.Context, creds *Credentials, fields map[string]any) (*CalendarEvent, error) {
	raw, err := c.do(ctx, creds, http.MethodPost, "/athlete/"+creds.ExternalAthleteID+"/events", nil, EventBodyToAPI(fields))
	if err != nil {
		return nil, err
	}
	return decodeEvent(raw)
}

// UpdateEvent applies a partial update to one calendar event. The eventID
// must already be validated as numeric before it reaches this path segment.
func (c *Client) UpdateEvent(ctx context.Context, creds *Credentials, eventID string, fields map[string]any) (*CalendarEvent, error) {
	raw, err := c.do(ctx, creds, http.MethodPut, "/athlete/"+creds.ExternalAthleteID+"/events/"+eventID, nil, EventBodyToAPI(fields))
	if err != nil {
		return nil, err
	}
	return decodeEvent(raw)
}

func decodeEvent(raw json.RawMessage) (*CalendarEvent, error) {
	var wire apiEvent
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, &APIError{Message: "unexpected event payload", StatusCode: 200, Code: CodeAPIError}
	}
	event := wire.canonical()
	return &event, nil
}
