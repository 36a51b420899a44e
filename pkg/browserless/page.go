// File: pkg/browserless/page.go
package browserless

import "time"

// Geolocation is an emulated device position.
type Geolocation struct {
	Latitude  float64
	Longitude float64
	Accuracy  float64
}

// NetworkConditions throttles the emulated network. Throughputs are in bytes per second.
type NetworkConditions struct {
	Offline            bool
	Latency            time.Duration
	DownloadThroughput int
	UploadThroughput   int
}

// PageOptions covers page behaviour shared by the rendering endpoints:
// request filtering, emulation, timeouts and launch tweaks.
type PageOptions[B any] struct{ m mixin[B] }

func (p PageOptions[B]) set(key string, value any) B {
	p.m.c.opts.Set(key, value)
	return p.m.self
}

// BestAttempt continues when an awaited event or selector never arrives.
func (p PageOptions[B]) BestAttempt(enabled bool) B { return p.set("bestAttempt", enabled) }

// RejectRequestPattern aborts requests whose URL matches any of the patterns.
func (p PageOptions[B]) RejectRequestPattern(patterns ...string) B {
	return p.set("rejectRequestPattern", patterns)
}

// RejectResourceTypes aborts requests of the given resource types, e.g. "image".
func (p PageOptions[B]) RejectResourceTypes(types ...string) B {
	return p.set("rejectResourceTypes", types)
}

// AddRequestInterceptor answers requests matching pattern with a canned response.
func (p PageOptions[B]) AddRequestInterceptor(pattern string, response map[string]any) B {
	p.m.c.opts.Append("requestInterceptors", map[string]any{
		"pattern":  pattern,
		"response": response,
	})
	return p.m.self
}

func (p PageOptions[B]) ExtraHTTPHeaders(headers map[string]string) B {
	return p.set("setExtraHTTPHeaders", headers)
}

func (p PageOptions[B]) JavaScriptEnabled(enabled bool) B {
	return p.set("setJavaScriptEnabled", enabled)
}

func (p PageOptions[B]) UserAgent(ua string) B { return p.set("userAgent", ua) }

// EmulateMediaType emulates a CSS media type such as "screen" or "print".
func (p PageOptions[B]) EmulateMediaType(media string) B { return p.set("emulateMediaType", media) }

// EmulateDevice emulates a named device profile, e.g. "iPhone X".
func (p PageOptions[B]) EmulateDevice(name string) B { return p.set("device", name) }

func (p PageOptions[B]) BlockAds(enabled bool) B { return p.set("blockAds", enabled) }

func (p PageOptions[B]) Timezone(tz string) B { return p.set("setTimezone", tz) }

func (p PageOptions[B]) Geolocation(g Geolocation) B {
	v := map[string]any{"latitude": g.Latitude, "longitude": g.Longitude}
	if g.Accuracy > 0 {
		v["accuracy"] = g.Accuracy
	}
	return p.set("setGeolocation", v)
}

// Language sets the accepted languages. A single language is sent as a string.
func (p PageOptions[B]) Language(langs ...string) B {
	if len(langs) == 1 {
		return p.set("setLanguage", langs[0])
	}
	return p.set("setLanguage", langs)
}

func (p PageOptions[B]) OfflineMode(enabled bool) B { return p.set("setOfflineMode", enabled) }

func (p PageOptions[B]) Permissions(perms ...string) B { return p.set("setPermissions", perms) }

func (p PageOptions[B]) NetworkConditions(nc NetworkConditions) B {
	return p.set("networkConditions", map[string]any{
		"offline":            nc.Offline,
		"latency":            millis(nc.Latency),
		"downloadThroughput": nc.DownloadThroughput,
		"uploadThroughput":   nc.UploadThroughput,
	})
}

// ColorScheme emulates prefers-color-scheme ("light" or "dark").
func (p PageOptions[B]) ColorScheme(scheme string) B { return p.set("colorScheme", scheme) }

func (p PageOptions[B]) ReducedMotion(pref string) B { return p.set("reducedMotion", pref) }

func (p PageOptions[B]) ForcedColors(colors string) B { return p.set("forcedColors", colors) }

func (p PageOptions[B]) PrefersContrast(pref string) B { return p.set("prefersContrast", pref) }

func (p PageOptions[B]) FontPreferences(prefs map[string]any) B {
	return p.set("fontPreferences", prefs)
}

// Delay waits d after the page loads before capturing.
func (p PageOptions[B]) Delay(d time.Duration) B { return p.set("delay", millis(d)) }

func (p PageOptions[B]) DefaultNavigationTimeout(d time.Duration) B {
	return p.set("setDefaultNavigationTimeout", millis(d))
}

func (p PageOptions[B]) DefaultTimeout(d time.Duration) B {
	return p.set("setDefaultTimeout", millis(d))
}

// AddInitScript evaluates source in every new document before its own scripts run.
func (p PageOptions[B]) AddInitScript(source string) B {
	p.m.c.opts.Append("addInitScript", map[string]any{"source": source})
	return p.m.self
}

func (p PageOptions[B]) BypassCSP(enabled bool) B { return p.set("setBypassCSP", enabled) }

func (p PageOptions[B]) RequestInterception(enabled bool) B {
	return p.set("setRequestInterception", enabled)
}

// ExtraParams passes additional CDP parameters through untouched.
func (p PageOptions[B]) ExtraParams(params map[string]any) B { return p.set("extraParams", params) }

func (p PageOptions[B]) Locale(locale string) B { return p.set("locale", locale) }

// AddArguments appends browser launch arguments.
func (p PageOptions[B]) AddArguments(args ...string) B {
	values := make([]any, len(args))
	for i, a := range args {
		values[i] = a
	}
	p.m.c.opts.Append("addArguments", values...)
	return p.m.self
}

// Env sets environment variables for the browser process.
func (p PageOptions[B]) Env(vars map[string]string) B { return p.set("env", vars) }

func (p PageOptions[B]) IgnoreHTTPSErrors(ignore bool) B {
	return p.set("ignoreHTTPSErrors", ignore)
}
