// File: internal/config/config_test.go
package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -- Constructor and Defaults Tests --

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, DefaultURL, cfg.Browserless.URL)
	assert.Empty(t, cfg.Browserless.Token)
	assert.False(t, cfg.Browserless.InheritDefaults)
	assert.Equal(t, 120*time.Second, cfg.Transport.Timeout)
	assert.True(t, cfg.Transport.ForceHTTP2)
	assert.True(t, cfg.Transport.Brotli)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "console", cfg.Logger.Format)
	assert.Equal(t, "green", cfg.Logger.Colors.Info)
	assert.Equal(t, 30*time.Second, cfg.Defaults.Timeout)
	assert.Equal(t, "true", cfg.Defaults.Headless)
	assert.Equal(t, 1280, cfg.Defaults.Viewport.Width)
	assert.Equal(t, 720, cfg.Defaults.Viewport.Height)
}

// -- Validation Logic Tests --

func validConfig() *Config {
	cfg := NewDefaultConfig()
	cfg.Browserless.Token = "test-token"
	return cfg
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing token", mutate: func(c *Config) { c.Browserless.Token = "  " }, wantErr: "browserless.token is required"},
		{name: "relative url", mutate: func(c *Config) { c.Browserless.URL = "localhost:3000" }, wantErr: "browserless.url"},
		{name: "ftp url", mutate: func(c *Config) { c.Browserless.URL = "ftp://chrome.example.com" }, wantErr: "must use http or https"},
		{name: "socks proxy", mutate: func(c *Config) { c.Transport.Proxy = "socks5://127.0.0.1:1080" }},
		{name: "bad proxy", mutate: func(c *Config) { c.Transport.Proxy = "gopher://proxy:70" }, wantErr: "transport.proxy scheme"},
		{name: "negative rate", mutate: func(c *Config) { c.Transport.RateLimit = -1 }, wantErr: "transport.rate_limit"},
		{name: "bad log format", mutate: func(c *Config) { c.Logger.Format = "xml" }, wantErr: "logger.format"},
		{name: "shell headless", mutate: func(c *Config) { c.Defaults.Headless = "shell" }},
		{name: "bad headless", mutate: func(c *Config) { c.Defaults.Headless = "sometimes" }, wantErr: "defaults.headless"},
		{name: "negative viewport", mutate: func(c *Config) { c.Defaults.Viewport.Width = -5 }, wantErr: "defaults.viewport"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

// -- Loading Tests --

func TestNewConfigFromViper_YAML(t *testing.T) {
	yamlConfig := []byte(`
browserless:
  token: yaml-token
  url: http://localhost:3000
transport:
  timeout: 45s
  rate_limit: 2.5
  headers:
    X-Team: render
logger:
  level: debug
  format: json
defaults:
  stealth: true
  headless: shell
  viewport:
    width: 800
    height: 600
`)
	v := viper.New()
	SetDefaults(v)
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(bytes.NewBuffer(yamlConfig)))

	cfg, err := NewConfigFromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "yaml-token", cfg.Browserless.Token)
	assert.Equal(t, "http://localhost:3000", cfg.Browserless.URL)
	assert.Equal(t, 45*time.Second, cfg.Transport.Timeout)
	assert.Equal(t, 2.5, cfg.Transport.RateLimit)
	assert.Equal(t, "render", cfg.Transport.Headers["x-team"], "viper lower-cases map keys")
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "json", cfg.Logger.Format)
	assert.True(t, cfg.Defaults.Stealth)
	assert.Equal(t, "shell", cfg.Defaults.Headless)
	assert.Equal(t, 800, cfg.Defaults.Viewport.Width)
	// Untouched keys keep their defaults.
	assert.True(t, cfg.Transport.Brotli)
}

func TestNewConfigFromViper_EnvOverrides(t *testing.T) {
	t.Setenv("BROWSERLESS_TOKEN", "env-token")
	t.Setenv("BROWSERLESS_URL", "https://production-lon.browserless.io")

	v := viper.New()
	SetDefaults(v)

	cfg, err := NewConfigFromViper(v)
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.Browserless.Token)
	assert.Equal(t, "https://production-lon.browserless.io", cfg.Browserless.URL)
}

func TestNewConfigFromViper_MissingToken(t *testing.T) {
	t.Setenv("BROWSERLESS_TOKEN", "")

	v := viper.New()
	SetDefaults(v)

	_, err := NewConfigFromViper(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestLoad_ExplicitFile(t *testing.T) {
	t.Setenv("BROWSERLESS_TOKEN", "")
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("browserless:\n  token: file-token\nlogger:\n  level: warn\n"), 0o600))

	cfg, err := Load(NewViper(path))
	require.NoError(t, err)
	assert.Equal(t, "file-token", cfg.Browserless.Token)
	assert.Equal(t, "warn", cfg.Logger.Level)
	assert.Equal(t, DefaultURL, cfg.Browserless.URL)
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	_, err := Load(NewViper(filepath.Join(t.TempDir(), "absent.yaml")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoad_GenericEnvPrefix(t *testing.T) {
	t.Setenv("BROWSERLESS_TOKEN", "env-token")
	t.Setenv("BROWSERLESS_LOGGER_LEVEL", "error")

	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("HOME", dir)

	cfg, err := Load(NewViper(""))
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Logger.Level)
}

func TestDefaultsConfig_HeadlessMode(t *testing.T) {
	tests := []struct {
		in      string
		want    any
		wantErr bool
	}{
		{in: "", want: nil},
		{in: "true", want: true},
		{in: "FALSE", want: false},
		{in: "1", want: true},
		{in: "0", want: false},
		{in: "Shell", want: "shell"},
		{in: "sometimes", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := DefaultsConfig{Headless: tt.in}.HeadlessMode()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "defaults.headless")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewConfigFromViper_YAMLBooleanHeadless(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(bytes.NewBufferString("browserless:\n  token: t\ndefaults:\n  headless: false\n")))

	cfg, err := NewConfigFromViper(v)
	require.NoError(t, err)

	mode, err := cfg.Defaults.HeadlessMode()
	require.NoError(t, err)
	assert.Equal(t, false, mode)
}
