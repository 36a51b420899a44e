// File: pkg/browserless/capabilities.go
package browserless

import (
	"strings"
	"time"
)

// Settable gives a builder open ended access to its option tree.
type Settable[B any] struct{ m mixin[B] }

// Set writes value at a dot separated option path, e.g. "options.margin.top".
func (s Settable[B]) Set(path string, value any) B {
	s.m.c.opts.Set(path, value)
	return s.m.self
}

// WithOptions deep merges values into the option tree. Nested maps merge
// key by key and lists are appended.
func (s Settable[B]) WithOptions(values map[string]any) B {
	s.m.c.opts.Merge(values)
	return s.m.self
}

// Authentication sets HTTP authentication credentials for the page.
type Authentication[B any] struct{ m mixin[B] }

// Authenticate sets the credentials. Both parts must be non-empty.
func (a Authentication[B]) Authenticate(username, password string) B {
	if username == "" || password == "" {
		a.m.c.invalid("credentials must have username and password")
		return a.m.self
	}
	a.m.c.opts.Set("authentication", map[string]any{
		"username": username,
		"password": password,
	})
	return a.m.self
}

// BasicAuth is Authenticate.
func (a Authentication[B]) BasicAuth(username, password string) B {
	return a.Authenticate(username, password)
}

// Cookie is a browser cookie. Empty optional fields are omitted from the request.
type Cookie struct {
	Name         string
	Value        string
	URL          string
	Domain       string
	Path         string
	Secure       bool
	HTTPOnly     bool
	SameSite     string
	Expires      int64
	Priority     string
	SameParty    bool
	SourceScheme string
	SourcePort   int
	PartitionKey string
}

var (
	validSameSite     = []string{"Lax", "None", "Strict"}
	validPriority     = []string{"Low", "Medium", "High"}
	validSourceScheme = []string{"Unset", "Secure", "NonSecure"}
)

func (ck Cookie) validate() string {
	switch {
	case ck.Name == "" || ck.Value == "":
		return "cookie must have name and value"
	case ck.SameSite != "" && !oneOf(ck.SameSite, validSameSite):
		return "invalid sameSite value " + quote(ck.SameSite)
	case ck.Priority != "" && !oneOf(ck.Priority, validPriority):
		return "invalid priority value " + quote(ck.Priority)
	case ck.SourceScheme != "" && !oneOf(ck.SourceScheme, validSourceScheme):
		return "invalid sourceScheme value " + quote(ck.SourceScheme)
	}
	return ""
}

func (ck Cookie) toMap() map[string]any {
	m := map[string]any{"name": ck.Name, "value": ck.Value}
	setIf := func(key string, v any, ok bool) {
		if ok {
			m[key] = v
		}
	}
	setIf("url", ck.URL, ck.URL != "")
	setIf("domain", ck.Domain, ck.Domain != "")
	setIf("path", ck.Path, ck.Path != "")
	setIf("secure", ck.Secure, ck.Secure)
	setIf("httpOnly", ck.HTTPOnly, ck.HTTPOnly)
	setIf("sameSite", ck.SameSite, ck.SameSite != "")
	setIf("expires", ck.Expires, ck.Expires != 0)
	setIf("priority", ck.Priority, ck.Priority != "")
	setIf("sameParty", ck.SameParty, ck.SameParty)
	setIf("sourceScheme", ck.SourceScheme, ck.SourceScheme != "")
	setIf("sourcePort", ck.SourcePort, ck.SourcePort != 0)
	setIf("partitionKey", ck.PartitionKey, ck.PartitionKey != "")
	return m
}

// CookieManagement sets the cookies sent with the page request.
type CookieManagement[B any] struct{ m mixin[B] }

// Cookies replaces the cookie list. Nothing is written if any cookie is invalid.
func (cm CookieManagement[B]) Cookies(cookies ...Cookie) B {
	list := make([]any, 0, len(cookies))
	for _, ck := range cookies {
		if reason := ck.validate(); reason != "" {
			cm.m.c.invalid("%s", reason)
			return cm.m.self
		}
		list = append(list, ck.toMap())
	}
	cm.m.c.opts.Set(keyCookies, list)
	return cm.m.self
}

// AddCookie appends one cookie.
func (cm CookieManagement[B]) AddCookie(ck Cookie) B {
	if reason := ck.validate(); reason != "" {
		cm.m.c.invalid("%s", reason)
		return cm.m.self
	}
	cm.m.c.opts.Append(keyCookies, ck.toMap())
	return cm.m.self
}

// AddCookiePair appends a cookie with only a name and a value.
func (cm CookieManagement[B]) AddCookiePair(name, value string) B {
	return cm.AddCookie(Cookie{Name: name, Value: value})
}

// Navigation events accepted by WaitUntil.
const (
	WaitDOMContentLoaded = "domcontentloaded"
	WaitLoad             = "load"
	WaitNetworkIdle0     = "networkidle0"
	WaitNetworkIdle2     = "networkidle2"
)

var validWaitEvents = []string{WaitDOMContentLoaded, WaitLoad, WaitNetworkIdle0, WaitNetworkIdle2}

// Navigation configures page navigation. Everything except
// NavigationOptions itself lands under gotoOptions.
type Navigation[B any] struct{ m mixin[B] }

func (n Navigation[B]) Referer(referer string) B {
	n.m.c.opts.Set(keyGotoOptions+".referer", referer)
	return n.m.self
}

func (n Navigation[B]) ReferrerPolicy(policy string) B {
	n.m.c.opts.Set(keyGotoOptions+".referrerPolicy", policy)
	return n.m.self
}

// NavigationTimeout sets the maximum navigation time.
func (n Navigation[B]) NavigationTimeout(d time.Duration) B {
	n.m.c.opts.Set(keyGotoOptions+".timeout", millis(d))
	return n.m.self
}

// WaitUntil sets the events that mark navigation as finished. A single event
// is sent as a string and several as a list.
func (n Navigation[B]) WaitUntil(events ...string) B {
	if len(events) == 0 {
		n.m.c.invalid("waitUntil needs at least one event")
		return n.m.self
	}
	for _, e := range events {
		if !oneOf(e, validWaitEvents) {
			n.m.c.invalid("invalid waitUntil value %q: must be one of %s", e, strings.Join(validWaitEvents, ", "))
			return n.m.self
		}
	}
	if len(events) == 1 {
		n.m.c.opts.Set(keyGotoOptions+".waitUntil", events[0])
	} else {
		n.m.c.opts.Set(keyGotoOptions+".waitUntil", events)
	}
	return n.m.self
}

// WaitForNetworkIdle waits for networkidle0 when wait is true and for the load event otherwise.
func (n Navigation[B]) WaitForNetworkIdle(wait bool) B {
	if wait {
		return n.WaitUntil(WaitNetworkIdle0)
	}
	return n.WaitUntil(WaitLoad)
}

// GotoOptions deep merges values into gotoOptions. A waitUntil entry is validated.
func (n Navigation[B]) GotoOptions(values map[string]any) B {
	if wu, ok := values["waitUntil"]; ok {
		switch v := wu.(type) {
		case string:
			if !oneOf(v, validWaitEvents) {
				n.m.c.invalid("invalid waitUntil value %q", v)
				return n.m.self
			}
		case []string:
			for _, e := range v {
				if !oneOf(e, validWaitEvents) {
					n.m.c.invalid("invalid waitUntil value %q", e)
					return n.m.self
				}
			}
		case []any:
			// Shape produced by decoding JSON into a map.
			for _, item := range v {
				e, ok := item.(string)
				if !ok {
					n.m.c.invalid("waitUntil entries must be strings, got %T", item)
					return n.m.self
				}
				if !oneOf(e, validWaitEvents) {
					n.m.c.invalid("invalid waitUntil value %q", e)
					return n.m.self
				}
			}
		default:
			n.m.c.invalid("waitUntil must be a string or a list of strings")
			return n.m.self
		}
	}
	n.m.c.opts.Merge(map[string]any{keyGotoOptions: values})
	return n.m.self
}

// NavigationOptions sets the top level navigationOptions list.
func (n Navigation[B]) NavigationOptions(values ...string) B {
	n.m.c.opts.Set("navigationOptions", values)
	return n.m.self
}

// ViewportConfig describes the page viewport. A zero DeviceScaleFactor means 1.
type ViewportConfig struct {
	Width             int
	Height            int
	DeviceScaleFactor float64
	IsMobile          bool
	HasTouch          bool
	IsLandscape       bool
}

func (v ViewportConfig) toMap() map[string]any {
	dsf := v.DeviceScaleFactor
	if dsf == 0 {
		dsf = 1.0
	}
	return map[string]any{
		"width":             v.Width,
		"height":            v.Height,
		"deviceScaleFactor": dsf,
		"isMobile":          v.IsMobile,
		"hasTouch":          v.HasTouch,
		"isLandscape":       v.IsLandscape,
	}
}

// ViewportControl configures the page viewport.
type ViewportControl[B any] struct{ m mixin[B] }

// Viewport replaces the viewport. Width and height must be positive.
func (vp ViewportControl[B]) Viewport(cfg ViewportConfig) B {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		vp.m.c.invalid("viewport must have width and height")
		return vp.m.self
	}
	vp.m.c.opts.Set(keyViewport, cfg.toMap())
	return vp.m.self
}

// ViewportSize sets a viewport with default flags.
func (vp ViewportControl[B]) ViewportSize(width, height int) B {
	return vp.Viewport(ViewportConfig{Width: width, Height: height})
}

func (vp ViewportControl[B]) SetDeviceScaleFactor(factor float64) B {
	return vp.adjust("deviceScaleFactor", factor, "device scale factor")
}

func (vp ViewportControl[B]) SetHasTouch(hasTouch bool) B {
	return vp.adjust("hasTouch", hasTouch, "touch events")
}

func (vp ViewportControl[B]) SetIsLandscape(landscape bool) B {
	return vp.adjust("isLandscape", landscape, "orientation")
}

func (vp ViewportControl[B]) SetIsMobile(mobile bool) B {
	return vp.adjust("isMobile", mobile, "mobile emulation")
}

func (vp ViewportControl[B]) adjust(key string, value any, what string) B {
	if _, ok := vp.m.c.opts.Get(keyViewport, nil).(map[string]any); !ok {
		vp.m.c.fail(preconditionFailed(vp.m.c.feature, "viewport must be set before setting %s", what))
		return vp.m.self
	}
	vp.m.c.opts.Set(keyViewport+"."+key, value)
	return vp.m.self
}

// Tag is a script or style tag injected into the page. One of URL, Path or
// Content is required.
type Tag struct {
	URL     string
	Path    string
	Content string
	Type    string
	ID      string
}

func (t Tag) toMap() map[string]any {
	m := make(map[string]any)
	for k, v := range map[string]string{"url": t.URL, "path": t.Path, "content": t.Content, "type": t.Type, "id": t.ID} {
		if v != "" {
			m[k] = v
		}
	}
	return m
}

// ResourceInjection adds script and style tags to the page.
type ResourceInjection[B any] struct{ m mixin[B] }

func (r ResourceInjection[B]) AddScriptTag(tag Tag) B {
	return r.add("addScriptTag", "script", tag)
}

func (r ResourceInjection[B]) AddStyleTag(tag Tag) B {
	return r.add("addStyleTag", "style", tag)
}

func (r ResourceInjection[B]) add(key, kind string, tag Tag) B {
	if tag.URL == "" && tag.Path == "" && tag.Content == "" {
		r.m.c.invalid("%s tag must have either url, path, or content", kind)
		return r.m.self
	}
	r.m.c.opts.Append(key, tag.toMap())
	return r.m.self
}

// SelectorWait tunes WaitForSelector.
type SelectorWait struct {
	Timeout time.Duration
	Visible bool
	Hidden  bool
}

// Waits delays the capture until a condition holds.
type Waits[B any] struct{ m mixin[B] }

func (w Waits[B]) WaitForTimeout(d time.Duration) B {
	w.m.c.opts.Set("waitForTimeout", millis(d))
	return w.m.self
}

func (w Waits[B]) WaitForSelector(selector string, opts ...SelectorWait) B {
	if selector == "" {
		w.m.c.invalid("waitForSelector needs a selector")
		return w.m.self
	}
	v := map[string]any{"selector": selector}
	for _, o := range opts {
		if o.Timeout > 0 {
			v["timeout"] = millis(o.Timeout)
		}
		if o.Visible {
			v["visible"] = true
		}
		if o.Hidden {
			v["hidden"] = true
		}
	}
	w.m.c.opts.Set("waitForSelector", v)
	return w.m.self
}

// WaitForFunction waits until fn, evaluated in the page, returns a truthy value.
func (w Waits[B]) WaitForFunction(fn string, timeout time.Duration) B {
	v := map[string]any{"fn": fn}
	if timeout > 0 {
		v["timeout"] = millis(timeout)
	}
	w.m.c.opts.Set("waitForFunction", v)
	return w.m.self
}

func (w Waits[B]) WaitForEvent(event string, timeout time.Duration) B {
	v := map[string]any{"event": event}
	if timeout > 0 {
		v["timeout"] = millis(timeout)
	}
	w.m.c.opts.Set("waitForEvent", v)
	return w.m.self
}

// Query parameter names shared by several endpoints.
const (
	QueryStealth      = "stealth"
	QueryProxy        = "proxy"
	QueryProxyCountry = "proxyCountry"
	QueryProxySticky  = "proxySticky"
	QueryKeepAlive    = "keepalive"
	QueryTimeout      = "timeout"
)

// QueryToggles sets connection level switches carried in the URL query string.
type QueryToggles[B any] struct{ m mixin[B] }

func (q QueryToggles[B]) Stealth(enabled bool) B {
	q.m.c.query.Add(QueryStealth, enabled)
	return q.m.self
}

// Proxy selects a proxy kind, e.g. "residential".
func (q QueryToggles[B]) Proxy(kind string) B {
	q.m.c.query.Add(QueryProxy, kind)
	return q.m.self
}

func (q QueryToggles[B]) ProxyCountry(country string) B {
	q.m.c.query.Add(QueryProxyCountry, country)
	return q.m.self
}

func (q QueryToggles[B]) ProxySticky(sticky bool) B {
	q.m.c.query.Add(QueryProxySticky, sticky)
	return q.m.self
}

func (q QueryToggles[B]) KeepAlive(enabled bool) B {
	q.m.c.query.Add(QueryKeepAlive, enabled)
	return q.m.self
}

// SessionTimeout bounds the whole browser session on the remote side.
func (q QueryToggles[B]) SessionTimeout(d time.Duration) B {
	q.m.c.query.Add(QueryTimeout, millis(d))
	return q.m.self
}

// QueryParam sets an arbitrary query parameter.
func (q QueryToggles[B]) QueryParam(key string, value any) B {
	q.m.c.query.Add(key, value)
	return q.m.self
}

func millis(d time.Duration) int64 {
	return d.Milliseconds()
}

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

func quote(s string) string {
	return `"` + s + `"`
}
