// Package postgrest talks to the hosted Postgres REST data store that holds
// tickets and ticket messages.
package postgrest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"support-desk-api/internal/repositories"

	"github.com/sirupsen/logrus"
)

const (
	preferRepresentation = "return=representation"
	preferCountExact     = "count=exact"
)

// Client is a minimal PostgREST client authenticated with a service key
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient creates a new data store client
func NewClient(baseURL, apiKey string, timeout time.Duration, logger *logrus.Logger) *Client {
	if logger == nil {
		logger = logrus.New()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// apiError is the error body PostgREST returns on failure
type apiError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (c *Client) checkConfigured() error {
	if c.baseURL == "" {
		return repositories.ConfigurationError("data store", "SUPABASE_URL")
	}
	if c.apiKey == "" {
		return repositories.ConfigurationError("data store", "SUPABASE_SERVICE_KEY")
	}
	return nil
}

// do sends one request to the REST endpoint and decodes a JSON response into result.
// It returns the response headers so callers can read Content-Range.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, prefer []string, result any) (http.Header, error) {
	if err := c.checkConfigured(); err != nil {
		return nil, err
	}

	endpoint := c.baseURL + "/rest/v1/" + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s request: %w", path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, repositories.UpstreamError(strings.ToLower(method), path, err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if len(prefer) > 0 {
		req.Header.Set("Prefer", strings.Join(prefer, ","))
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	fields := logrus.Fields{
		"method":   method,
		"resource": path,
		"duration": time.Since(start),
	}
	if err != nil {
		c.logger.WithFields(fields).WithError(err).Error("Data store request failed")
		return nil, repositories.UpstreamError(strings.ToLower(method), path, err)
	}
	defer resp.Body.Close()

	fields["status_code"] = resp.StatusCode
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, repositories.UpstreamError(strings.ToLower(method), path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := strings.TrimSpace(string(raw))
		var apiErr apiError
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Message != "" {
			msg = apiErr.Message
			fields["pg_code"] = apiErr.Code
		}
		c.logger.WithFields(fields).WithField("error", msg).Error("Data store returned an error")
		if apiErr.Code == "23505" {
			return nil, repositories.NewRepositoryError(strings.ToLower(method), path, "", fmt.Errorf("%w: %s", repositories.ErrDuplicateEntry, msg))
		}
		return nil, repositories.UpstreamError(strings.ToLower(method), path, fmt.Errorf("status %d: %s", resp.StatusCode, msg))
	}

	c.logger.WithFields(fields).Debug("Data store request completed")

	if result != nil && len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, result); err != nil {
			return nil, repositories.UpstreamError("decode", path, err)
		}
	}
	return resp.Header, nil
}

// parseContentRange extracts the total from a Content-Range header such as "0-9/42" or "*/0"
func parseContentRange(header string) (int64, bool) {
	idx := strings.LastIndex(header, "/")
	if idx < 0 || idx == len(header)-1 {
		return 0, false
	}
	total, err := strconv.ParseInt(header[idx+1:], 10, 64)
	if err != nil {
		return 0, false
	}
	return total, true
}

func eq(value string) string {
	return "eq." + value
}

// timestamp accepts the timestamp layouts Postgres may emit through the REST layer
type timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999-07",
	"2006-01-02 15:04:05.999999",
}

func (t *timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("unrecognised timestamp %q", s)
}

func (t timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.UTC().Format(time.RFC3339Nano))
}
