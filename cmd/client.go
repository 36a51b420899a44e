// File: cmd/client.go
package cmd

import (
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/browserless-go/internal/config"
	"github.com/xkilldash9x/browserless-go/pkg/browserless"
	"github.com/xkilldash9x/browserless-go/pkg/transport"
)

// newClient builds an SDK client from the loaded configuration: the
// transport section becomes the HTTP stack and the defaults section becomes
// the client's global options.
func newClient(cfg *config.Config, logger *zap.Logger) (*browserless.Client, error) {
	tc, err := transportConfig(cfg.Transport, logger)
	if err != nil {
		return nil, err
	}

	global, err := globalOptions(cfg.Defaults)
	if err != nil {
		return nil, err
	}

	opts := []browserless.ClientOption{
		browserless.WithLogger(logger),
		browserless.WithGlobalOptions(global),
	}
	if cfg.Browserless.InheritDefaults {
		opts = append(opts, browserless.WithInheritedDefaults())
	}

	client, err := browserless.NewClient(cfg.Browserless.Token, cfg.Browserless.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	client.Setup(tc)
	return client, nil
}

// transportConfig maps the transport section onto the HTTP stack settings.
// Zero durations keep the stack defaults.
func transportConfig(tc config.TransportConfig, logger *zap.Logger) (*transport.Config, error) {
	out := transport.NewDefaultConfig()
	out.Logger = logger.Named("transport")
	out.IgnoreTLSErrors = tc.IgnoreTLSErrors
	out.ForceHTTP2 = tc.ForceHTTP2
	out.RateLimit = tc.RateLimit
	out.Burst = tc.Burst
	out.DecodeBrotli = tc.Brotli
	out.Headers = tc.Headers
	if tc.UserAgent != "" {
		out.UserAgent = tc.UserAgent
	}

	setDuration(&out.RequestTimeout, tc.Timeout)
	setDuration(&out.DialTimeout, tc.DialTimeout)
	setDuration(&out.TLSHandshakeTimeout, tc.TLSHandshakeTimeout)
	setDuration(&out.ResponseHeaderTimeout, tc.ResponseHeaderTimeout)

	if tc.Proxy != "" {
		proxy, err := url.Parse(tc.Proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid transport.proxy: %w", err)
		}
		out.ProxyURL = proxy
	}
	return out, nil
}

func setDuration(dst *time.Duration, v time.Duration) {
	if v > 0 {
		*dst = v
	}
}

// globalOptions maps the defaults section onto the SDK global options.
func globalOptions(d config.DefaultsConfig) (*browserless.GlobalOptions, error) {
	g := browserless.NewGlobalOptions().
		Stealth(d.Stealth).
		IgnoreHTTPSErrors(d.IgnoreHTTPSErrors).
		Proxy(d.Proxy).
		DefaultViewport(browserless.ViewportConfig{
			Width:             d.Viewport.Width,
			Height:            d.Viewport.Height,
			DeviceScaleFactor: d.Viewport.DeviceScaleFactor,
		})
	if d.Timeout > 0 {
		g.Timeout(d.Timeout)
	}
	if len(d.Args) > 0 {
		g.Args(d.Args...)
	}
	if len(d.Headers) > 0 {
		g.Headers(d.Headers)
	}
	mode, err := d.HeadlessMode()
	if err != nil {
		return nil, err
	}
	if mode != nil {
		if err := g.Headless(mode); err != nil {
			return nil, fmt.Errorf("invalid defaults.headless: %w", err)
		}
	}
	return g, nil
}
