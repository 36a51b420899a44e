// File: pkg/browserless/performance.go
package browserless

import (
	"context"
)

// Lighthouse categories.
const (
	CategoryPerformance   = "performance"
	CategoryAccessibility = "accessibility"
	CategoryBestPractices = "best-practices"
	CategorySEO           = "seo"
	CategoryPWA           = "pwa"
)

const lighthouseDefault = "lighthouse:default"

// Performance runs a Lighthouse audit of a URL through POST /performance.
type Performance struct {
	core
	Settable[*Performance]
	QueryToggles[*Performance]
}

// Performance starts a performance audit request.
func (c *Client) Performance() *Performance {
	p := &Performance{core: newCore(c, FeaturePerformance, endpointPerformance, nil)}
	p.Settable = Settable[*Performance]{bind(p, &p.core)}
	p.QueryToggles = QueryToggles[*Performance]{bind(p, &p.core)}
	if c.inherit {
		c.global.seed(&p.core, false)
	}
	return p
}

func (p *Performance) URL(url string) *Performance {
	p.opts.Set(keyURL, url)
	return p
}

// Categories limits the audit to the given Lighthouse categories. It
// replaces any earlier Categories or Audits call.
func (p *Performance) Categories(categories ...string) *Performance {
	p.opts.Set("config", map[string]any{
		"extends":  lighthouseDefault,
		"settings": map[string]any{"onlyCategories": categories},
	})
	return p
}

// Audits limits the run to the given audit ids. It replaces any earlier
// Categories or Audits call.
func (p *Performance) Audits(audits ...string) *Performance {
	p.opts.Set("config", map[string]any{
		"extends":  lighthouseDefault,
		"settings": map[string]any{"onlyAudits": audits},
	})
	return p
}

// Send validates the request, posts it and returns the Lighthouse report.
func (p *Performance) Send(ctx context.Context) (*PerformanceResponse, error) {
	raw, err := p.post(ctx, p.validate)
	if err != nil {
		return nil, err
	}
	return newPerformanceResponse(raw), nil
}

func (p *Performance) validate() error {
	if isBlank(p.opts.Get(keyURL, nil)) {
		return invalidOptions(p.feature, "URL must be provided")
	}
	return nil
}
