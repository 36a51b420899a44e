// File: pkg/browserless/introspect.go
package browserless

import (
	"context"
)

// Config reads the service configuration through GET /config.
type Config struct {
	core
}

// Config starts a configuration lookup.
func (c *Client) Config() *Config {
	return &Config{core: newCore(c, FeatureConfig, endpointConfig, nil)}
}

// Get fetches the configuration.
func (cf *Config) Get(ctx context.Context) (*ConfigResponse, error) {
	raw, err := cf.get(ctx, endpointConfig)
	if err != nil {
		return nil, err
	}
	return newConfigResponse(raw), nil
}

// Metrics reads usage statistics through GET /metrics and GET /metrics/total.
type Metrics struct {
	core
}

// Metrics starts a metrics lookup.
func (c *Client) Metrics() *Metrics {
	return &Metrics{core: newCore(c, FeatureMetrics, endpointMetrics, nil)}
}

// Get fetches the recent metric windows, newest first.
func (m *Metrics) Get(ctx context.Context) (*MetricsResponse, error) {
	raw, err := m.get(ctx, endpointMetrics)
	if err != nil {
		return nil, err
	}
	return newMetricsResponse(raw), nil
}

// Total fetches the aggregate since the service started.
func (m *Metrics) Total(ctx context.Context) (*MetricsResponse, error) {
	raw, err := m.get(ctx, endpointMetricsTotal)
	if err != nil {
		return nil, err
	}
	return newMetricsResponse(raw), nil
}

// Sessions lists the running browser sessions through GET /sessions.
type Sessions struct {
	core
}

// Sessions starts a session lookup.
func (c *Client) Sessions() *Sessions {
	return &Sessions{core: newCore(c, FeatureSessions, endpointSessions, nil)}
}

// Get fetches the session list.
func (s *Sessions) Get(ctx context.Context) (*SessionsResponse, error) {
	raw, err := s.get(ctx, endpointSessions)
	if err != nil {
		return nil, err
	}
	return newSessionsResponse(raw), nil
}
