// File: pkg/transport/middleware.go
package transport

import (
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RoundTripperFunc adapts a function to http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

// Middleware decorates a round tripper.
type Middleware func(http.RoundTripper) http.RoundTripper

// Chain applies middlewares so the first one listed is the outermost.
func Chain(base http.RoundTripper, mws ...Middleware) http.RoundTripper {
	for i := len(mws) - 1; i >= 0; i-- {
		base = mws[i](base)
	}
	return base
}

// Wrap builds the middleware chain enabled by cfg around base. Order, from
// the outside in: logging, rate limit, headers, decoding.
func Wrap(base http.RoundTripper, cfg *Config) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	var mws []Middleware
	if cfg.Logger != nil {
		mws = append(mws, Logging(cfg.Logger))
	}
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		mws = append(mws, RateLimit(rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)))
	}
	if cfg.UserAgent != "" || len(cfg.Headers) > 0 {
		mws = append(mws, Headers(cfg.UserAgent, cfg.Headers))
	}
	if cfg.DecodeBrotli {
		mws = append(mws, Decompress())
	}
	return Chain(base, mws...)
}

// Logging records each exchange at debug level and failures at warn level.
// Query strings are dropped from the logged URL since they carry the token.
func Logging(logger *zap.Logger) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.RoundTrip(req)
			fields := []zap.Field{
				zap.String("method", req.Method),
				zap.String("host", req.URL.Host),
				zap.String("path", req.URL.Path),
				zap.Duration("duration", time.Since(start)),
			}
			if err != nil {
				logger.Warn("HTTP round trip failed", append(fields, zap.Error(err))...)
				return nil, err
			}
			logger.Debug("HTTP round trip",
				append(fields, zap.Int("status", resp.StatusCode), zap.String("proto", resp.Proto))...)
			return resp, nil
		})
	}
}

// RateLimit blocks each request until limiter admits it or the request
// context ends.
func RateLimit(limiter *rate.Limiter) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if err := limiter.Wait(req.Context()); err != nil {
				return nil, err
			}
			return next.RoundTrip(req)
		})
	}
}

// Headers sets the User-Agent and static headers on requests that lack them.
// The request is cloned before modification.
func Headers(userAgent string, headers map[string]string) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			r := req.Clone(req.Context())
			if userAgent != "" && r.Header.Get("User-Agent") == "" {
				r.Header.Set("User-Agent", userAgent)
			}
			for k, v := range headers {
				if r.Header.Get(k) == "" {
					r.Header.Set(k, v)
				}
			}
			return next.RoundTrip(r)
		})
	}
}
