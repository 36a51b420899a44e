// File: pkg/browserless/unblock.go
package browserless

import (
	"context"
	"time"
)

// Unblock loads a URL past bot detection through POST /unblock and returns
// the requested artifacts: content, cookies, a screenshot or a live browser
// endpoint.
type Unblock struct {
	core
	Settable[*Unblock]
	Authentication[*Unblock]
	Navigation[*Unblock]
	Waits[*Unblock]
	PageOptions[*Unblock]
	QueryToggles[*Unblock]
}

// Unblock starts an unblock request.
func (c *Client) Unblock() *Unblock {
	u := &Unblock{core: newCore(c, FeatureUnblock, endpointUnblock, map[string]any{
		keyGotoOptions:      map[string]any{},
		"browserWSEndpoint": false,
		"cookies":           false,
		"content":           false,
		"screenshot":        false,
	})}
	u.Settable = Settable[*Unblock]{bind(u, &u.core)}
	u.Authentication = Authentication[*Unblock]{bind(u, &u.core)}
	u.Navigation = Navigation[*Unblock]{bind(u, &u.core)}
	u.Waits = Waits[*Unblock]{bind(u, &u.core)}
	u.PageOptions = PageOptions[*Unblock]{bind(u, &u.core)}
	u.QueryToggles = QueryToggles[*Unblock]{bind(u, &u.core)}
	if c.inherit {
		c.global.seed(&u.core, false)
	}
	return u
}

func (u *Unblock) URL(url string) *Unblock {
	u.opts.Set(keyURL, url)
	return u
}

// BrowserWSEndpoint asks for a WebSocket endpoint to the unblocked browser.
func (u *Unblock) BrowserWSEndpoint(enabled bool) *Unblock {
	u.opts.Set("browserWSEndpoint", enabled)
	return u
}

// Cookies asks for the page cookies.
func (u *Unblock) Cookies(enabled bool) *Unblock {
	u.opts.Set("cookies", enabled)
	return u
}

// Content asks for the page HTML.
func (u *Unblock) Content(enabled bool) *Unblock {
	u.opts.Set("content", enabled)
	return u
}

// Screenshot asks for a base64 screenshot.
func (u *Unblock) Screenshot(enabled bool) *Unblock {
	u.opts.Set("screenshot", enabled)
	return u
}

// TTL keeps the unblocked browser alive for d after the response.
func (u *Unblock) TTL(d time.Duration) *Unblock {
	u.opts.Set("ttl", millis(d))
	return u
}

// Send validates the request, posts it and returns the unblocked artifacts.
func (u *Unblock) Send(ctx context.Context) (*UnblockResponse, error) {
	raw, err := u.post(ctx, u.validate)
	if err != nil {
		return nil, err
	}
	return newUnblockResponse(raw), nil
}

func (u *Unblock) validate() error {
	if isBlank(u.opts.Get(keyURL, nil)) {
		return invalidOptions(u.feature, "URL must be provided")
	}
	return nil
}
