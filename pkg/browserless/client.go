// File: pkg/browserless/client.go
package browserless

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xkilldash9x/browserless-go/pkg/options"
	"github.com/xkilldash9x/browserless-go/pkg/transport"
)

// DefaultURL is the hosted Browserless region used when none is configured.
const DefaultURL = "https://production-sfo.browserless.io"

var schemePattern = regexp.MustCompile(`(?i)^https?://`)

// Doer sends a single HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// RawResponse is a fully read HTTP response.
type RawResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Client holds the API identity, the transport and the global options that
// builders may inherit. Token and URL are fixed at construction. A Client is
// safe for concurrent use once configured.
type Client struct {
	token    string
	baseURL  string
	http     Doer
	logger   *zap.Logger
	global   *GlobalOptions
	inherit  bool
	newReqID func() string
}

// ClientOption customizes a Client during construction.
type ClientOption func(*Client)

// WithTransport attaches the HTTP transport used for every request.
func WithTransport(d Doer) ClientOption {
	return func(c *Client) { c.http = d }
}

// WithHTTPClient is WithTransport for a standard *http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger. Requests are logged at debug level, failures at error level.
func WithLogger(l *zap.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithGlobalOptions replaces the global option set.
func WithGlobalOptions(g *GlobalOptions) ClientOption {
	return func(c *Client) {
		if g != nil {
			c.global = g
		}
	}
}

// WithInheritedDefaults makes new builders seed their viewport from the
// global default viewport and their query string from the global stealth
// and proxy settings.
func WithInheritedDefaults() ClientOption {
	return func(c *Client) { c.inherit = true }
}

// NewClient creates a client for the given token and base URL. The URL
// scheme is checked when a request URL is built, not here.
func NewClient(token, baseURL string, opts ...ClientOption) (*Client, error) {
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("%w: API token is required", ErrInvalidConfiguration)
	}
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("%w: API URL is required", ErrInvalidConfiguration)
	}

	c := &Client{
		token:    token,
		baseURL:  baseURL,
		logger:   zap.NewNop(),
		global:   NewGlobalOptions(),
		newReqID: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.Named("browserless")
	return c, nil
}

// Setup attaches the default transport built from cfg. It replaces any
// transport set earlier.
func (c *Client) Setup(cfg *transport.Config) {
	if cfg == nil {
		cfg = transport.NewDefaultConfig()
	}
	if cfg.Logger == nil {
		cfg.Logger = c.logger
	}
	c.http = transport.NewClient(cfg)
}

// SetTransport replaces the HTTP transport.
func (c *Client) SetTransport(d Doer) {
	c.http = d
}

// Transport returns the attached HTTP transport, or nil.
func (c *Client) Transport() Doer {
	return c.http
}

// Token returns the API token.
func (c *Client) Token() string {
	return c.token
}

// URL returns the base URL without trailing slashes. It fails with
// ErrInvalidConfiguration when the scheme is not http or https.
func (c *Client) URL() (string, error) {
	u := strings.TrimRight(c.baseURL, "/")
	if !schemePattern.MatchString(u) {
		return "", fmt.Errorf("%w: invalid API URL %q: must start with http:// or https://", ErrInvalidConfiguration, c.baseURL)
	}
	return u, nil
}

// Global returns the mutable global option set.
func (c *Client) Global() *GlobalOptions {
	return c.global
}

// Logger returns the client logger.
func (c *Client) Logger() *zap.Logger {
	return c.logger
}

// EndpointURL builds {base}/{endpoint}?token={token} followed by the extra
// query parameters.
func (c *Client) EndpointURL(endpoint string, q *options.Query) (string, error) {
	base, err := c.URL()
	if err != nil {
		return "", err
	}
	target := base + "/" + strings.TrimLeft(endpoint, "/") + "?token=" + url.QueryEscape(c.token)
	if q != nil {
		target = q.BuildQueryString(target)
	}
	return target, nil
}

// Send executes req on the attached transport and reads the full body.
// Transport failures are returned as *RemoteError and statuses >= 400 as
// *APIError.
func (c *Client) Send(ctx context.Context, req *http.Request) (*RawResponse, error) {
	if c.http == nil {
		return nil, ErrClientNotConfigured
	}
	if ctx != nil {
		req = req.WithContext(ctx)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &RemoteError{Op: req.Method, URL: c.redact(req.URL.String()), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RemoteError{Op: "read body", URL: c.redact(req.URL.String()), Err: err}
	}

	if resp.StatusCode >= 400 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return &RawResponse{StatusCode: resp.StatusCode, Header: resp.Header.Clone(), Body: body}, nil
}

// call builds and sends a request for a feature, logging both sides of the exchange.
func (c *Client) call(ctx context.Context, f Feature, method, endpoint string, q *options.Query, payload map[string]any) (*RawResponse, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	target, err := c.EndpointURL(endpoint, q)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	var encoded []byte
	if method != http.MethodGet {
		encoded, err = codec.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if method == http.MethodGet {
		req.Header.Set("Cache-Control", "no-cache")
	}

	logger := c.logger.Named(string(f)).With(
		zap.String("request_id", c.newReqID()),
		zap.String("method", method),
		zap.String("endpoint", endpoint),
	)
	logger.Debug("Sending request",
		zap.String("url", c.redact(target)),
		zap.Any("payload", MaskSensitive(payload)),
	)

	start := time.Now()
	raw, err := c.Send(ctx, req)
	elapsed := time.Since(start)
	if err != nil {
		logger.Error("Request failed", zap.Duration("duration", elapsed), zap.Error(err))
		return nil, err
	}

	logger.Debug("Received response",
		zap.Int("status", raw.StatusCode),
		zap.Int("bytes", len(raw.Body)),
		zap.Duration("duration", elapsed),
	)
	return raw, nil
}

func (c *Client) redact(s string) string {
	if c.token == "" {
		return s
	}
	s = strings.ReplaceAll(s, url.QueryEscape(c.token), maskedValue)
	return strings.ReplaceAll(s, c.token, maskedValue)
}
