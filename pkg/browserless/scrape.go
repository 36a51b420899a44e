// File: pkg/browserless/scrape.go
package browserless

import (
	"context"
)

const keyElements = "elements"

// Scrape extracts structured data for CSS selectors through POST /scrape.
type Scrape struct {
	core
	Settable[*Scrape]
	Authentication[*Scrape]
	CookieManagement[*Scrape]
	Navigation[*Scrape]
	Waits[*Scrape]
	PageOptions[*Scrape]
	QueryToggles[*Scrape]
}

// Scrape starts a scrape request.
func (c *Client) Scrape() *Scrape {
	s := &Scrape{core: newCore(c, FeatureScrape, endpointScrape, map[string]any{
		keyElements:    []any{},
		keyGotoOptions: map[string]any{},
	})}
	s.Settable = Settable[*Scrape]{bind(s, &s.core)}
	s.Authentication = Authentication[*Scrape]{bind(s, &s.core)}
	s.CookieManagement = CookieManagement[*Scrape]{bind(s, &s.core)}
	s.Navigation = Navigation[*Scrape]{bind(s, &s.core)}
	s.Waits = Waits[*Scrape]{bind(s, &s.core)}
	s.PageOptions = PageOptions[*Scrape]{bind(s, &s.core)}
	s.QueryToggles = QueryToggles[*Scrape]{bind(s, &s.core)}
	if c.inherit {
		c.global.seed(&s.core, false)
	}
	return s
}

// URL sets the page to scrape. It cannot be combined with HTML.
func (s *Scrape) URL(url string) *Scrape {
	if !isBlank(s.opts.Get(keyHTML, nil)) {
		s.invalid("Cannot set both URL and HTML content")
		return s
	}
	s.opts.Set(keyURL, url)
	return s
}

// HTML sets the document to scrape. It cannot be combined with URL.
func (s *Scrape) HTML(html string) *Scrape {
	if !isBlank(s.opts.Get(keyURL, nil)) {
		s.invalid("Cannot set both URL and HTML content")
		return s
	}
	s.opts.Set(keyHTML, html)
	return s
}

// Element adds a CSS selector to extract.
func (s *Scrape) Element(selector string) *Scrape {
	if selector == "" {
		s.invalid("element selector must not be empty")
		return s
	}
	s.opts.Append(keyElements, map[string]any{"selector": selector})
	return s
}

// Elements adds several CSS selectors.
func (s *Scrape) Elements(selectors ...string) *Scrape {
	for _, sel := range selectors {
		s.Element(sel)
	}
	return s
}

// Send validates the request, posts it and returns the extracted elements.
func (s *Scrape) Send(ctx context.Context) (*ScrapeResponse, error) {
	raw, err := s.post(ctx, s.validate)
	if err != nil {
		return nil, err
	}
	return newScrapeResponse(raw), nil
}

func (s *Scrape) validate() error {
	if err := s.requireSource(); err != nil {
		return err
	}
	if els, _ := s.opts.Get(keyElements, nil).([]any); len(els) == 0 {
		return invalidOptions(s.feature, "at least one element selector must be provided")
	}
	return nil
}
