// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// DefaultURL is the hosted region used when no URL is configured.
const DefaultURL = "https://production-sfo.browserless.io"

// EnvPrefix namespaces every environment override, e.g. BROWSERLESS_LOGGER_LEVEL.
const EnvPrefix = "BROWSERLESS"

// Config is the full CLI configuration.
type Config struct {
	Browserless BrowserlessConfig `mapstructure:"browserless" yaml:"browserless"`
	Transport   TransportConfig   `mapstructure:"transport" yaml:"transport"`
	Logger      LoggerConfig      `mapstructure:"logger" yaml:"logger"`
	Defaults    DefaultsConfig    `mapstructure:"defaults" yaml:"defaults"`
}

// BrowserlessConfig identifies the API account.
type BrowserlessConfig struct {
	Token string `mapstructure:"token" yaml:"-"`
	URL   string `mapstructure:"url" yaml:"url"`
	// InheritDefaults seeds new requests from the defaults section.
	InheritDefaults bool `mapstructure:"inherit_defaults" yaml:"inherit_defaults"`
}

// TransportConfig tunes the HTTP client.
type TransportConfig struct {
	Timeout               time.Duration     `mapstructure:"timeout" yaml:"timeout"`
	DialTimeout           time.Duration     `mapstructure:"dial_timeout" yaml:"dial_timeout"`
	TLSHandshakeTimeout   time.Duration     `mapstructure:"tls_handshake_timeout" yaml:"tls_handshake_timeout"`
	ResponseHeaderTimeout time.Duration     `mapstructure:"response_header_timeout" yaml:"response_header_timeout"`
	IgnoreTLSErrors       bool              `mapstructure:"ignore_tls_errors" yaml:"ignore_tls_errors"`
	ForceHTTP2            bool              `mapstructure:"force_http2" yaml:"force_http2"`
	Proxy                 string            `mapstructure:"proxy" yaml:"proxy"`
	RateLimit             float64           `mapstructure:"rate_limit" yaml:"rate_limit"`
	Burst                 int               `mapstructure:"burst" yaml:"burst"`
	UserAgent             string            `mapstructure:"user_agent" yaml:"user_agent"`
	Headers               map[string]string `mapstructure:"headers" yaml:"headers"`
	Brotli                bool              `mapstructure:"brotli" yaml:"brotli"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig names the terminal color of each log level.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// DefaultsConfig mirrors the global launch options of the SDK.
type DefaultsConfig struct {
	Timeout           time.Duration     `mapstructure:"timeout" yaml:"timeout"`
	Headless          string            `mapstructure:"headless" yaml:"headless"`
	Stealth           bool              `mapstructure:"stealth" yaml:"stealth"`
	IgnoreHTTPSErrors bool              `mapstructure:"ignore_https_errors" yaml:"ignore_https_errors"`
	Proxy             string            `mapstructure:"proxy" yaml:"proxy"`
	Args              []string          `mapstructure:"args" yaml:"args"`
	Viewport          ViewportConfig    `mapstructure:"viewport" yaml:"viewport"`
	Headers           map[string]string `mapstructure:"headers" yaml:"headers"`
}

// ViewportConfig is the default page viewport.
type ViewportConfig struct {
	Width             int     `mapstructure:"width" yaml:"width"`
	Height            int     `mapstructure:"height" yaml:"height"`
	DeviceScaleFactor float64 `mapstructure:"device_scale_factor" yaml:"device_scale_factor"`
}

// NewDefaultConfig returns a configuration populated only with defaults.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	// -- Browserless --
	v.SetDefault("browserless.url", DefaultURL)
	v.SetDefault("browserless.inherit_defaults", false)

	// -- Transport --
	v.SetDefault("transport.timeout", "120s")
	v.SetDefault("transport.dial_timeout", "10s")
	v.SetDefault("transport.tls_handshake_timeout", "10s")
	v.SetDefault("transport.response_header_timeout", "90s")
	v.SetDefault("transport.ignore_tls_errors", false)
	v.SetDefault("transport.force_http2", true)
	v.SetDefault("transport.rate_limit", 0.0)
	v.SetDefault("transport.burst", 1)
	v.SetDefault("transport.user_agent", "browserless-go")
	v.SetDefault("transport.brotli", true)

	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "browserless")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 50)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 14)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.dpanic", "magenta")
	v.SetDefault("logger.colors.panic", "magenta")
	v.SetDefault("logger.colors.fatal", "magenta")

	// -- Defaults --
	v.SetDefault("defaults.timeout", "30s")
	v.SetDefault("defaults.headless", "true")
	v.SetDefault("defaults.stealth", false)
	v.SetDefault("defaults.ignore_https_errors", false)
	v.SetDefault("defaults.viewport.width", 1280)
	v.SetDefault("defaults.viewport.height", 720)
	v.SetDefault("defaults.viewport.device_scale_factor", 1.0)
}

// NewViper returns a viper instance with defaults, environment binding and
// the config search path applied. The file itself is read by Load.
func NewViper(configFile string) *viper.Viper {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		return v
	}
	v.SetConfigName("browserless")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".browserless"))
	}
	return v
}

// Load reads the config file, if any, and builds a validated Config. A
// missing file in the search path is not an error; an explicit file that
// cannot be read is.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return NewConfigFromViper(v)
}

// NewConfigFromViper creates a new configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	_ = v.BindEnv("browserless.token", "BROWSERLESS_TOKEN")
	_ = v.BindEnv("browserless.url", "BROWSERLESS_URL")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if p, err := homedir.Expand(cfg.Logger.LogFile); err == nil {
		cfg.Logger.LogFile = p
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Browserless.Token) == "" {
		return fmt.Errorf("browserless.token is required (set BROWSERLESS_TOKEN)")
	}
	if err := validateHTTPURL("browserless.url", c.Browserless.URL); err != nil {
		return err
	}
	if c.Transport.Proxy != "" {
		u, err := url.Parse(c.Transport.Proxy)
		if err != nil || u.Host == "" {
			return fmt.Errorf("transport.proxy must be an absolute URL, got %q", c.Transport.Proxy)
		}
		switch u.Scheme {
		case "http", "https", "socks5":
		default:
			return fmt.Errorf("transport.proxy scheme %q is not supported", u.Scheme)
		}
	}
	if c.Transport.RateLimit < 0 {
		return fmt.Errorf("transport.rate_limit must not be negative")
	}
	switch c.Logger.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logger.format must be \"console\" or \"json\", got %q", c.Logger.Format)
	}
	if _, err := c.Defaults.HeadlessMode(); err != nil {
		return err
	}
	if c.Defaults.Viewport.Width < 0 || c.Defaults.Viewport.Height < 0 {
		return fmt.Errorf("defaults.viewport dimensions must not be negative")
	}
	return nil
}

// HeadlessMode returns the headless setting as a bool or the string "shell".
// A YAML boolean arrives here as "1" or "0" and is accepted. Nil means unset.
func (d DefaultsConfig) HeadlessMode() (any, error) {
	s := strings.ToLower(strings.TrimSpace(d.Headless))
	switch s {
	case "":
		return nil, nil
	case "shell":
		return s, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return nil, fmt.Errorf("defaults.headless must be true, false or shell, got %q", d.Headless)
	}
	return b, nil
}

func validateHTTPURL(key, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return fmt.Errorf("%s must be an absolute URL, got %q", key, raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https, got %q", key, raw)
	}
	return nil
}
