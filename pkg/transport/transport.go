// File: pkg/transport/transport.go
package transport

import (
	"crypto/tls"
	"net"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/http2"

	"github.com/xkilldash9x/browserless-go/internal/observability"
)

// Defaults sized for a remote browser API: rendering calls are slow, so the
// request timeout is generous while dial and handshake stay short.
const (
	DefaultDialTimeout           = 10 * time.Second
	DefaultKeepAliveInterval     = 30 * time.Second
	DefaultTLSHandshakeTimeout   = 10 * time.Second
	DefaultResponseHeaderTimeout = 90 * time.Second
	DefaultRequestTimeout        = 120 * time.Second

	DefaultMaxIdleConns        = 32
	DefaultMaxIdleConnsPerHost = 8
	DefaultMaxConnsPerHost     = 16
	DefaultIdleConnTimeout     = 90 * time.Second

	DefaultUserAgent = "browserless-go"
)

// Config holds the HTTP client, transport and middleware settings.
type Config struct {
	IgnoreTLSErrors bool
	TLSConfig       *tls.Config

	RequestTimeout        time.Duration
	DialTimeout           time.Duration
	KeepAlive             time.Duration
	TLSHandshakeTimeout   time.Duration
	ResponseHeaderTimeout time.Duration

	MaxIdleConns        int
	MaxIdleConnsPerHost int
	MaxConnsPerHost     int
	IdleConnTimeout     time.Duration

	ForceHTTP2 bool
	ProxyURL   *url.URL

	// RateLimit is the sustained requests per second. Zero disables limiting.
	RateLimit float64
	Burst     int

	UserAgent string
	// Headers are added to every request that does not already carry them.
	Headers map[string]string

	// DecodeBrotli advertises br and gzip and decodes the response body.
	DecodeBrotli bool

	Logger *zap.Logger
}

// NewDefaultConfig returns the settings used by Client.Setup when none are given.
func NewDefaultConfig() *Config {
	return &Config{
		RequestTimeout:        DefaultRequestTimeout,
		DialTimeout:           DefaultDialTimeout,
		KeepAlive:             DefaultKeepAliveInterval,
		TLSHandshakeTimeout:   DefaultTLSHandshakeTimeout,
		ResponseHeaderTimeout: DefaultResponseHeaderTimeout,
		MaxIdleConns:          DefaultMaxIdleConns,
		MaxIdleConnsPerHost:   DefaultMaxIdleConnsPerHost,
		MaxConnsPerHost:       DefaultMaxConnsPerHost,
		IdleConnTimeout:       DefaultIdleConnTimeout,
		ForceHTTP2:            true,
		UserAgent:             DefaultUserAgent,
		DecodeBrotli:          true,
		Logger:                observability.GetLogger().Named("transport"),
	}
}

// NewHTTPTransport builds the base round tripper described by cfg.
func NewHTTPTransport(cfg *Config) *http.Transport {
	if cfg == nil {
		cfg = NewDefaultConfig()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	dialer := &net.Dialer{
		Timeout:   cfg.DialTimeout,
		KeepAlive: cfg.KeepAlive,
	}
	tlsConfig := configureTLS(cfg)

	t := &http.Transport{
		DialContext:           dialer.DialContext,
		TLSClientConfig:       tlsConfig,
		TLSHandshakeTimeout:   cfg.TLSHandshakeTimeout,
		MaxIdleConns:          cfg.MaxIdleConns,
		MaxIdleConnsPerHost:   cfg.MaxIdleConnsPerHost,
		MaxConnsPerHost:       cfg.MaxConnsPerHost,
		IdleConnTimeout:       cfg.IdleConnTimeout,
		ResponseHeaderTimeout: cfg.ResponseHeaderTimeout,
		ForceAttemptHTTP2:     cfg.ForceHTTP2,
		Proxy:                 http.ProxyFromEnvironment,
	}
	if cfg.ProxyURL != nil {
		t.Proxy = http.ProxyURL(cfg.ProxyURL)
	}

	if cfg.ForceHTTP2 {
		if err := http2.ConfigureTransport(t); err != nil {
			logger.Warn("Failed to configure HTTP/2 transport, falling back to HTTP/1.1", zap.Error(err))
		}
	} else if len(tlsConfig.NextProtos) == 0 {
		tlsConfig.NextProtos = []string{"http/1.1"}
	}
	return t
}

// NewClient returns an *http.Client whose transport is the configured base
// transport wrapped in the middleware chain. Redirects are followed.
func NewClient(cfg *Config) *http.Client {
	if cfg == nil {
		cfg = NewDefaultConfig()
	}
	return &http.Client{
		Transport: Wrap(NewHTTPTransport(cfg), cfg),
		Timeout:   cfg.RequestTimeout,
	}
}

// configureTLS clones the caller's TLS config or builds one with TLS 1.2 as
// the floor, then applies IgnoreTLSErrors.
func configureTLS(cfg *Config) *tls.Config {
	var tlsConfig *tls.Config
	if cfg.TLSConfig != nil {
		tlsConfig = cfg.TLSConfig.Clone()
		if tlsConfig.MinVersion < tls.VersionTLS12 {
			tlsConfig.MinVersion = tls.VersionTLS12
		}
	} else {
		tlsConfig = &tls.Config{
			MinVersion: tls.VersionTLS12,
			CipherSuites: []uint16{
				tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
				tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
				tls.TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305,
				tls.TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305,
				tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
				tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
			},
			ClientSessionCache: tls.NewLRUClientSessionCache(64),
		}
	}
	if cfg.IgnoreTLSErrors {
		tlsConfig.InsecureSkipVerify = true
	}
	return tlsConfig
}
