// Package gitlab provides the minimal GitLab REST client used by the linter:
// project descriptor lookup and CI configuration linting.
package gitlab

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// DefaultBaseURL is the public GitLab API root.
const DefaultBaseURL = "https://gitlab.com/api/v4"

// DefaultTimeout bounds each API request.
const DefaultTimeout = 30 * time.Second

// tokenHeader carries the personal access token.
const tokenHeader = "PRIVATE-TOKEN"

// Options configures a Client.
type Options struct {
	// BaseURL is the API base. It is normalized with NormalizeBaseURL.
	BaseURL string
	// Token is an optional personal access token.
	Token string
	// Timeout applies when HTTPClient is nil. Zero means DefaultTimeout.
	Timeout    time.Duration
	HTTPClient *http.Client
	// Logger is optional; nil discards.
	Logger *slog.Logger
}

// Client talks to a single GitLab API base URL.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a Client from opts.
func NewClient(opts Options) *Client {
	base := opts.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Client{
		baseURL:    NormalizeBaseURL(base),
		token:      opts.Token,
		httpClient: httpClient,
		logger:     logger,
	}
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// LintURL returns the lint endpoint URL.
func (c *Client) LintURL() string {
	return c.baseURL + LintPath
}

// HasToken reports whether requests are authenticated.
func (c *Client) HasToken() bool {
	return c.token != ""
}

// GetProject fetches the project descriptor at the base URL.
func (c *Client) GetProject(ctx context.Context) (*Project, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build project request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var project Project
	if err := json.Unmarshal(body, &project); err != nil {
		return nil, fmt.Errorf("failed to decode project: %w", err)
	}
	return &project, nil
}

// CIConfigPath returns the CI configuration path named by the project
// descriptor, or DefaultCIConfigPath. Lookup is best-effort: any failure
// falls back to the default and is only logged.
func (c *Client) CIConfigPath(ctx context.Context) string {
	project, err := c.GetProject(ctx)
	if err != nil {
		c.logger.Debug("project lookup failed, using default CI config path",
			"url", c.baseURL, "error", err)
		return DefaultCIConfigPath
	}
	if project.CIConfigPath == "" {
		return DefaultCIConfigPath
	}
	c.logger.Debug("using CI config path from project", "path", project.CIConfigPath)
	return project.CIConfigPath
}

// Lint submits content to the lint endpoint. Transport failures and non-2xx
// statuses are returned as errors; an undecodable body is not an error and
// yields an empty LintResponse.
func (c *Client) Lint(ctx context.Context, content string) (LintResponse, error) {
	data, err := json.Marshal(LintRequest{Content: content})
	if err != nil {
		return nil, fmt.Errorf("failed to encode lint request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.LintURL(), bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to build lint request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.ContentLength = int64(len(data))

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("lint response received", "bytes", len(body))
	return ParseLintResponse(body), nil
}

// do sends req with the token header and returns the body of a 2xx response.
func (c *Client) do(req *http.Request) ([]byte, error) {
	if c.token != "" {
		req.Header.Set(tokenHeader, c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.Debug("gitlab request",
		"method", req.Method,
		"url", req.URL.String(),
		"status", resp.StatusCode,
		"duration", time.Since(start).Round(time.Millisecond))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}
