package backend

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

	"github.com/staybook/portal/internal/core/domain"
)

const (
	defaultTimeout = 15 * time.Second
	maxBodyBytes   = 1 << 20
)

// Config captures the settings for reaching the remote REST backend.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client posts JSON to the backend and normalizes every well-known response
// shape into the {returnCode, returnMessage, returnData} envelope.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a Client. A default timeout is applied when none is provided.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Post sends body (when non-nil) as JSON to path with query and decodes the
// response envelope into out.
func (c *Client) Post(ctx context.Context, path string, query url.Values, body, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: read body: %v", domain.ErrTransport, err)
	}

	return decodeEnvelope(resp.StatusCode, raw, out)
}

// decodeEnvelope accepts, in order: an envelope body (any status), and a
// {"message"} or {"error"} body on a non-2xx status, which becomes an envelope
// carrying the HTTP status as returnCode. Anything else is malformed.
func decodeEnvelope(status int, raw []byte, out any) error {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return fmt.Errorf("%w: status %d: body is not a JSON object", domain.ErrMalformedResponse, status)
	}

	if _, ok := probe["returnCode"]; ok {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
		}
		return nil
	}

	if status >= 200 && status < 300 {
		return fmt.Errorf("%w: status %d: missing returnCode", domain.ErrMalformedResponse, status)
	}

	msg, ok := firstString(probe, "message", "error")
	if !ok {
		return fmt.Errorf("%w: status %d: unrecognized error body", domain.ErrMalformedResponse, status)
	}

	fallback, err := json.Marshal(struct {
		ReturnCode    int    `json:"returnCode"`
		ReturnMessage string `json:"returnMessage"`
	}{status, msg})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	return json.Unmarshal(fallback, out)
}

func firstString(probe map[string]json.RawMessage, keys ...string) (string, bool) {
	for _, k := range keys {
		raw, ok := probe[k]
		if !ok {
			continue
		}
		var s string
		if json.Unmarshal(raw, &s) == nil && s != "" {
			return s, true
		}
	}
	return "", false
}
