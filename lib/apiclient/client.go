// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/supportdesk/supportdesk/lib/netutil"
	"github.com/supportdesk/supportdesk/lib/secret"
)

// ClientConfig holds configuration for creating a Client.
type ClientConfig struct {
	// BaseURL is the backend's root URL (e.g., "http://localhost:8000").
	// Paths such as "/api/v1/tickets/list" are appended to it.
	BaseURL string
	// HTTPClient is used for all requests. If nil, http.DefaultClient is
	// used.
	HTTPClient *http.Client
	// Logger is used for structured logging. If nil, slog.Default() is
	// used.
	Logger *slog.Logger
	// UserAgent is sent on every request when set.
	UserAgent string
}

// Client is an unauthenticated backend client. It is safe for
// concurrent use and is shared by every Session created from it.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	userAgent  string
}

// NewClient creates a Client after validating the base URL.
func NewClient(config ClientConfig) (*Client, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("apiclient: BaseURL is required")
	}
	parsed, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("apiclient: invalid BaseURL %q: %w", config.BaseURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("apiclient: BaseURL %q must use http or https", config.BaseURL)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("apiclient: BaseURL %q has no host", config.BaseURL)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
		userAgent:  config.UserAgent,
	}, nil
}

// BaseURL returns the backend root URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// CloseIdleConnections releases pooled connections in the transport.
func (c *Client) CloseIdleConnections() {
	c.httpClient.CloseIdleConnections()
}

// response is a fully read 2xx response.
type response struct {
	body   []byte
	header http.Header
}

// send performs one HTTP exchange. token may be nil for anonymous
// calls. Responses are read up to limit bytes; a non-2xx status is
// returned as *APIError.
func (c *Client) send(ctx context.Context, method, path string, token *secret.Buffer, contentType string, body io.Reader, query url.Values, limit int64) (*response, error) {
	requestURL := c.baseURL + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	request, err := http.NewRequestWithContext(ctx, method, requestURL, body)
	if err != nil {
		return nil, fmt.Errorf("apiclient: creating request: %w", err)
	}
	request.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		request.Header.Set("User-Agent", c.userAgent)
	}
	if contentType != "" {
		request.Header.Set("Content-Type", contentType)
	}
	if token != nil {
		request.Header.Set("Authorization", "Bearer "+token.String())
	}

	started := time.Now()
	httpResponse, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("apiclient: %s %s: %w", method, path, err)
	}
	defer httpResponse.Body.Close()

	responseBody, err := netutil.ReadLimited(httpResponse.Body, limit)
	if err != nil {
		return nil, fmt.Errorf("apiclient: reading %s %s response: %w", method, path, err)
	}

	c.logger.Debug("backend request",
		"method", method,
		"path", path,
		"status", httpResponse.StatusCode,
		"duration", time.Since(started),
	)

	if httpResponse.StatusCode < 200 || httpResponse.StatusCode >= 300 {
		return nil, &APIError{
			StatusCode: httpResponse.StatusCode,
			Detail:     parseDetail(responseBody),
			Method:     method,
			Path:       path,
		}
	}
	return &response{body: responseBody, header: httpResponse.Header}, nil
}

// doJSON sends requestBody (if non-nil) as JSON and decodes a JSON
// response into result (if non-nil).
func (c *Client) doJSON(ctx context.Context, method, path string, token *secret.Buffer, requestBody any, query url.Values, result any) error {
	var bodyReader io.Reader
	contentType := ""
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return fmt.Errorf("apiclient: encoding request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
		contentType = "application/json"
	}

	resp, err := c.send(ctx, method, path, token, contentType, bodyReader, query, netutil.MaxResponseSize)
	if err != nil {
		return err
	}
	if result == nil {
		return nil
	}
	if err := json.Unmarshal(resp.body, result); err != nil {
		return fmt.Errorf("apiclient: decoding %s %s response: %w", method, path, err)
	}
	return nil
}

// ticketPath builds a per-ticket path with the ticket number escaped.
func ticketPath(ticketNumber string, suffix string) string {
	return "/api/v1/tickets/" + url.PathEscape(ticketNumber) + suffix
}
