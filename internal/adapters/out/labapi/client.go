// Package labapi talks to the lab backend's REST API. One Client serves every
// outbound port of the console: lab orders, test results, test history and
// the reporting actions.
//
// Responses are judged by HTTP status only. Error bodies are never parsed;
// a non-2xx status becomes an *errs.RemoteCallError.
package labapi

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

	"labconsole/internal/core/ports"
	"labconsole/internal/pkg/errs"

	"github.com/rs/zerolog"
)

const DefaultTimeout = 30 * time.Second

var (
	_ ports.LabOrderRepository   = (*Client)(nil)
	_ ports.TestResultRepository = (*Client)(nil)
	_ ports.HistoryProvider      = (*Client)(nil)
	_ ports.ReportingGateway     = (*Client)(nil)
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the default client, e.g. to share a transport.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		cl.httpClient.Timeout = d
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(cl *Client) {
		cl.logger = logger
	}
}

func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errs.NewValueIsInvalidErrorWithCause("baseURL", fmt.Errorf("%q is not an absolute URL", baseURL))
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the backend root without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) newJSONRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// do sends req and returns the response when its status is 2xx. The caller
// owns the body of a successful response.
func (c *Client) do(req *http.Request, path string) (*http.Response, error) {
	started := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("method", req.Method).Str("path", path).Msg("lab api call failed")
		return nil, errs.NewRemoteCallErrorWithCause(req.Method, path, err)
	}

	c.logger.Debug().
		Str("method", req.Method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(started)).
		Msg("lab api call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
		return nil, errs.NewRemoteCallError(req.Method, path, resp.StatusCode)
	}
	return resp, nil
}

// send performs a call whose response body is ignored.
func (c *Client) send(ctx context.Context, method, path string, body any) error {
	req, err := c.newJSONRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	resp, err := c.do(req, path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// fetchJSON performs a GET and decodes the body into out.
func (c *Client) fetchJSON(ctx context.Context, path string, out any) error {
	req, err := c.newJSONRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}

	resp, err := c.do(req, path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errs.NewRemoteCallErrorWithCause(http.MethodGet, path, fmt.Errorf("decode response: %w", err))
	}
	return nil
}
