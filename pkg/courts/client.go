// Package courts provides low-level HTTP clients for upstream court data
// gateways (the federal PACER-style API and state court gateways). It
// includes proxy support and a bounded retry mechanism with exponential
// backoff.
package courts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/proxy"
)

const (
	// DefaultTimeout is the per-request timeout when none is configured.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxRetries is the number of attempts for retriable failures.
	DefaultMaxRetries = 3

	// UserAgent identifies CourtGate to upstream gateways.
	UserAgent = "CourtGate/1.0"
)

// RetryBackoffs holds the wait before each retry (exponential: 1s, 2s, 4s).
var RetryBackoffs = []time.Duration{
	1 * time.Second,
	2 * time.Second,
	4 * time.Second,
}

// StatusError is returned for non-2xx upstream responses that are not
// retried (or survived all retries).
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned HTTP %d: %s", e.StatusCode, e.Body)
}

// errorEnvelope is the common error shape both gateways return.
type errorEnvelope struct {
	Error struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

// Client is an HTTP client for one upstream court gateway.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	maxRetries int
	timeout    time.Duration
}

// Option customizes a Client.
type Option func(*Client)

// WithMaxRetries overrides the retry budget.
func WithMaxRetries(n int) Option {
	return func(c *Client) { c.maxRetries = n }
}

// NewClient creates a gateway client. proxyURL may be empty, an
// http(s):// URL, or a socks5:// URL.
func NewClient(baseURL, token string, timeout time.Duration, proxyURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("baseURL cannot be empty")
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	httpClient, err := newHTTPClient(proxyURL, timeout)
	if err != nil {
		return nil, err
	}

	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		token:      token,
		httpClient: httpClient,
		maxRetries: DefaultMaxRetries,
		timeout:    timeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Get performs a GET against path with query params, decoding a 200
// response body into out. Network errors, HTTP 429 and 5xx are retried
// with backoff; other 4xx responses fail immediately.
func (c *Client) Get(ctx context.Context, path string, params url.Values, out any) error {
	endpoint := c.baseURL + "/" + strings.TrimPrefix(path, "/")
	if len(params) > 0 {
		endpoint = endpoint + "?" + params.Encode()
	}

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := RetryBackoffs[(attempt-1)%len(RetryBackoffs)]
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", UserAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("attempt %d: request failed: %w", attempt+1, err)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("attempt %d: failed to read response: %w", attempt+1, err)
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			if out == nil {
				return nil
			}
			if err := json.Unmarshal(body, out); err != nil {
				return fmt.Errorf("invalid response format: %w", err)
			}
			return nil

		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			lastErr = &StatusError{StatusCode: resp.StatusCode, Body: truncate(body, 256)}
			continue

		default:
			// Other 4xx are not retriable.
			var env errorEnvelope
			_ = json.Unmarshal(body, &env)
			msg := truncate(body, 256)
			if env.Error.Message != "" {
				msg = env.Error.Message
			}
			return &StatusError{StatusCode: resp.StatusCode, Body: msg}
		}
	}

	return fmt.Errorf("all retry attempts exhausted: %w", lastErr)
}

// Ping performs a single non-retried health probe against the gateway.
func (c *Client) Ping(ctx context.Context) error {
	endpoint := c.baseURL + "/health"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("health probe failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return &StatusError{StatusCode: resp.StatusCode, Body: "health probe"}
	}
	return nil
}

// newHTTPClient creates an HTTP client with optional proxy support.
func newHTTPClient(proxyURL string, timeout time.Duration) (*http.Client, error) {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   30 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	if proxyURL != "" {
		parsed, err := url.Parse(proxyURL)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy URL: %w", err)
		}

		switch parsed.Scheme {
		case "socks5", "socks5h":
			var auth *proxy.Auth
			if parsed.User != nil {
				auth = &proxy.Auth{User: parsed.User.Username()}
				if pw, ok := parsed.User.Password(); ok {
					auth.Password = pw
				}
			}
			dialer, err := proxy.SOCKS5("tcp", parsed.Host, auth, proxy.Direct)
			if err != nil {
				return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
			}
			transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
				return dialer.Dial(network, addr)
			}

		case "http", "https":
			transport.Proxy = http.ProxyURL(parsed)

		default:
			return nil, fmt.Errorf("unsupported proxy scheme: %s", parsed.Scheme)
		}
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}, nil
}

func truncate(b []byte, n int) string {
	s := string(b)
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
