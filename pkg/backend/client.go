package backend

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

	"go.uber.org/zap"
)

const defaultTimeout = 10 * time.Second

// Config configures the HTTP backend client.
type Config struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// HTTPClient talks to the remote cabinet API over REST.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *zap.Logger
}

// RemoteError is returned for responses with a status of 300 or above.
type RemoteError struct {
	Status int
	Body   string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("backend: remote error %d: %s", e.Status, e.Body)
}

// QueryError carries the first message of a GraphQL-style errors array.
type QueryError struct {
	Message string
}

func (e *QueryError) Error() string {
	return "backend: query failed: " + e.Message
}

// NewHTTPClient builds a client for the configured base URL.
func NewHTTPClient(cfg Config) (*HTTPClient, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("backend: base url is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		client:  httpClient,
		logger:  logger,
	}, nil
}

type queryError struct {
	Message string `json:"message"`
}

func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, payload any, target any) error {
	if payload == nil {
		return c.send(ctx, method, path, query, nil, "", target)
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("backend: encode payload: %w", err)
	}
	return c.send(ctx, method, path, query, bytes.NewReader(data), "application/json", target)
}

// send issues the request. contentType is only set when body is non-nil.
func (c *HTTPClient) send(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, target any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("backend: build request: %w", err)
	}
	if body != nil && contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("backend: http request: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("backend: read response: %w", err)
	}
	c.logger.Debug("backend request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)
	if resp.StatusCode >= 300 {
		return &RemoteError{Status: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var envelope struct {
			Errors []queryError `json:"errors"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err == nil && len(envelope.Errors) > 0 {
			return &QueryError{Message: envelope.Errors[0].Message}
		}
	}
	if target == nil || len(trimmed) == 0 {
		return nil
	}
	if err := json.Unmarshal(trimmed, target); err != nil {
		return fmt.Errorf("backend: decode response: %w", err)
	}
	return nil
}

func pageQuery(page, limit int) url.Values {
	q := url.Values{}
	if page > 0 {
		q.Set("page", fmt.Sprint(page))
	}
	if limit > 0 {
		q.Set("limit", fmt.Sprint(limit))
	}
	return q
}
