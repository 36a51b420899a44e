// File: pkg/browserless/global.go
package browserless

import (
	"fmt"
	"strings"
	"time"

	"github.com/xkilldash9x/browserless-go/pkg/options"
)

// Global option keys.
const (
	GlobalTimeout            = "timeout"
	GlobalIgnoreHTTPSErrors  = "ignoreHTTPSErrors"
	GlobalStealth            = "stealth"
	GlobalProxy              = "proxy"
	GlobalHeaders            = "headers"
	GlobalArgs               = "args"
	GlobalDefaultViewport    = "defaultViewport"
	GlobalDevtools           = "devtools"
	GlobalDumpio             = "dumpio"
	GlobalHeadless           = "headless"
	GlobalIgnoreDefaultArgs  = "ignoreDefaultArgs"
	GlobalSlowMo             = "slowMo"
	GlobalUserDataDir        = "userDataDir"
	GlobalWaitForInitialPage = "waitForInitialPage"
)

// GlobalOptions holds client wide defaults: launch behaviour, the default
// viewport and connection level toggles.
type GlobalOptions struct {
	bag *options.Bag
}

// NewGlobalOptions returns the default global option set.
func NewGlobalOptions() *GlobalOptions {
	return &GlobalOptions{bag: options.New(map[string]any{
		GlobalTimeout:            30000,
		GlobalIgnoreHTTPSErrors:  false,
		GlobalStealth:            false,
		GlobalProxy:              nil,
		GlobalHeaders:            map[string]any{},
		GlobalArgs:               []any{},
		GlobalDefaultViewport:    ViewportConfig{Width: 1280, Height: 720}.toMap(),
		GlobalDevtools:           false,
		GlobalDumpio:             false,
		GlobalHeadless:           true,
		GlobalIgnoreDefaultArgs:  false,
		GlobalSlowMo:             0,
		GlobalUserDataDir:        nil,
		GlobalWaitForInitialPage: true,
	})}
}

// Timeout sets the default operation timeout.
func (g *GlobalOptions) Timeout(d time.Duration) *GlobalOptions {
	g.bag.Set(GlobalTimeout, int(d.Milliseconds()))
	return g
}

func (g *GlobalOptions) IgnoreHTTPSErrors(ignore bool) *GlobalOptions {
	g.bag.Set(GlobalIgnoreHTTPSErrors, ignore)
	return g
}

func (g *GlobalOptions) Stealth(enabled bool) *GlobalOptions {
	g.bag.Set(GlobalStealth, enabled)
	return g
}

// Proxy sets the proxy kind. An empty string clears it.
func (g *GlobalOptions) Proxy(proxy string) *GlobalOptions {
	if proxy == "" {
		g.bag.Set(GlobalProxy, nil)
		return g
	}
	g.bag.Set(GlobalProxy, proxy)
	return g
}

// Headers replaces the default extra headers.
func (g *GlobalOptions) Headers(headers map[string]string) *GlobalOptions {
	g.bag.Set(GlobalHeaders, headers)
	return g
}

// Args replaces the browser launch arguments.
func (g *GlobalOptions) Args(args ...string) *GlobalOptions {
	g.bag.Set(GlobalArgs, args)
	return g
}

// DefaultViewport replaces the default viewport. Unset flags take their defaults.
func (g *GlobalOptions) DefaultViewport(v ViewportConfig) *GlobalOptions {
	g.bag.Set(GlobalDefaultViewport, v.toMap())
	return g
}

func (g *GlobalOptions) Devtools(enabled bool) *GlobalOptions {
	g.bag.Set(GlobalDevtools, enabled)
	return g
}

func (g *GlobalOptions) Dumpio(enabled bool) *GlobalOptions {
	g.bag.Set(GlobalDumpio, enabled)
	return g
}

// Headless sets headless mode. Accepted values are true, false and "shell";
// the strings "true" and "false" are read as booleans.
func (g *GlobalOptions) Headless(mode any) error {
	switch v := mode.(type) {
	case bool:
		g.bag.Set(GlobalHeadless, v)
		return nil
	case string:
		switch strings.ToLower(v) {
		case "true":
			g.bag.Set(GlobalHeadless, true)
			return nil
		case "false":
			g.bag.Set(GlobalHeadless, false)
			return nil
		case "shell":
			g.bag.Set(GlobalHeadless, "shell")
			return nil
		}
	}
	return fmt.Errorf("%w: headless mode must be true, false or \"shell\", got %v", ErrInvalidOptions, mode)
}

func (g *GlobalOptions) IgnoreDefaultArgs(ignore bool) *GlobalOptions {
	g.bag.Set(GlobalIgnoreDefaultArgs, ignore)
	return g
}

// SlowMo delays each browser operation by d.
func (g *GlobalOptions) SlowMo(d time.Duration) *GlobalOptions {
	g.bag.Set(GlobalSlowMo, int(d.Milliseconds()))
	return g
}

// UserDataDir sets the browser profile directory. An empty string clears it.
func (g *GlobalOptions) UserDataDir(dir string) *GlobalOptions {
	if dir == "" {
		g.bag.Set(GlobalUserDataDir, nil)
		return g
	}
	g.bag.Set(GlobalUserDataDir, dir)
	return g
}

func (g *GlobalOptions) WaitForInitialPage(wait bool) *GlobalOptions {
	g.bag.Set(GlobalWaitForInitialPage, wait)
	return g
}

// Get returns a global option, or def when it is unset.
func (g *GlobalOptions) Get(key string, def any) any {
	return g.bag.Get(key, def)
}

// All returns a copy of every global option.
func (g *GlobalOptions) All() map[string]any {
	return g.bag.All()
}

// seed applies inherited defaults to a freshly constructed builder.
func (g *GlobalOptions) seed(c *core, withViewport bool) {
	if withViewport {
		if vp, ok := g.bag.Get(GlobalDefaultViewport, nil).(map[string]any); ok {
			c.opts.Set(keyViewport, vp)
		}
	}
	if stealth, ok := g.bag.Get(GlobalStealth, false).(bool); ok && stealth {
		c.query.Add(QueryStealth, true)
	}
	if proxy, ok := g.bag.Get(GlobalProxy, nil).(string); ok && proxy != "" {
		c.query.Add(QueryProxy, proxy)
	}
}
