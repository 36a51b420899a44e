// File: pkg/browserless/download.go
package browserless

import (
	"context"
	"time"
)

// Download runs JavaScript that triggers a browser download and returns the
// downloaded file through POST /download.
type Download struct {
	core
	Settable[*Download]
	Authentication[*Download]
	CookieManagement[*Download]
	Navigation[*Download]
	PageOptions[*Download]
	QueryToggles[*Download]
}

// Download starts a download request.
func (c *Client) Download() *Download {
	d := &Download{core: newCore(c, FeatureDownload, endpointDownload, map[string]any{
		keyGotoOptions: map[string]any{},
	})}
	d.Settable = Settable[*Download]{bind(d, &d.core)}
	d.Authentication = Authentication[*Download]{bind(d, &d.core)}
	d.CookieManagement = CookieManagement[*Download]{bind(d, &d.core)}
	d.Navigation = Navigation[*Download]{bind(d, &d.core)}
	d.PageOptions = PageOptions[*Download]{bind(d, &d.core)}
	d.QueryToggles = QueryToggles[*Download]{bind(d, &d.core)}
	if c.inherit {
		c.global.seed(&d.core, false)
	}
	return d
}

// Code sets the script that performs the download.
func (d *Download) Code(code string) *Download {
	d.opts.Set(keyCode, code)
	return d
}

// Context sets the value passed to the script as its context argument.
func (d *Download) Context(ctx map[string]any) *Download {
	d.opts.Set(keyContext, ctx)
	return d
}

// Timeout is NavigationTimeout.
func (d *Download) Timeout(t time.Duration) *Download {
	return d.NavigationTimeout(t)
}

// Send validates the request, posts it and returns the downloaded file.
func (d *Download) Send(ctx context.Context) (*DownloadResponse, error) {
	raw, err := d.post(ctx, func() error { return requireCode(&d.core) })
	if err != nil {
		return nil, err
	}
	return newDownloadResponse(raw), nil
}
