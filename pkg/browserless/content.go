// File: pkg/browserless/content.go
package browserless

import (
	"context"
)

// Recognized content option paths for use with Set.
const (
	ContentOptionsKey        = "contentOptions"
	ContentExtractElements   = "extractElements"
	ContentEvaluateSelector  = "evaluateSelector"
	ContentDomainBlocklist   = "domainBlocklist"
	ContentTransform         = "transformResponse"
	ContentWaitForDOMEvent   = "waitForDOMEvent"
	ContentRemoveAttributes  = "removeAttributes"
	ContentSanitizeHTML      = "sanitizeHtml"
	ContentResponseFormat    = "responseFormat"
	ContentDOMSnapshot       = "domSnapshot"
	ContentResourcePriority  = "resourcePriorities"
	ContentCustomHeaders     = "customHeaders"
	ContentStorageManagement = "storageManagement"
)

// Content returns the rendered HTML of a page through POST /content.
type Content struct {
	core
	Settable[*Content]
	Authentication[*Content]
	CookieManagement[*Content]
	Navigation[*Content]
	ViewportControl[*Content]
	ResourceInjection[*Content]
	Waits[*Content]
	PageOptions[*Content]
	QueryToggles[*Content]
}

// Content starts a content request.
func (c *Client) Content() *Content {
	ct := &Content{core: newCore(c, FeatureContent, endpointContent, map[string]any{
		keyGotoOptions: map[string]any{},
		keyViewport:    map[string]any{},
	})}
	ct.Settable = Settable[*Content]{bind(ct, &ct.core)}
	ct.Authentication = Authentication[*Content]{bind(ct, &ct.core)}
	ct.CookieManagement = CookieManagement[*Content]{bind(ct, &ct.core)}
	ct.Navigation = Navigation[*Content]{bind(ct, &ct.core)}
	ct.ViewportControl = ViewportControl[*Content]{bind(ct, &ct.core)}
	ct.ResourceInjection = ResourceInjection[*Content]{bind(ct, &ct.core)}
	ct.Waits = Waits[*Content]{bind(ct, &ct.core)}
	ct.PageOptions = PageOptions[*Content]{bind(ct, &ct.core)}
	ct.QueryToggles = QueryToggles[*Content]{bind(ct, &ct.core)}
	if c.inherit {
		c.global.seed(&ct.core, true)
	}
	return ct
}

func (ct *Content) URL(url string) *Content {
	ct.opts.Set(keyURL, url)
	return ct
}

func (ct *Content) HTML(html string) *Content {
	ct.opts.Set(keyHTML, html)
	return ct
}

// ContentOptions sets extraction options such as whether to include styles.
func (ct *Content) ContentOptions(opts map[string]any) *Content {
	ct.opts.Set(ContentOptionsKey, opts)
	return ct
}

// ExtractElements limits the returned markup to the matching elements.
func (ct *Content) ExtractElements(selectors ...string) *Content {
	ct.opts.Set(ContentExtractElements, selectors)
	return ct
}

// DomainBlocklist blocks requests to the listed domains.
func (ct *Content) DomainBlocklist(domains ...string) *Content {
	ct.opts.Set(ContentDomainBlocklist, domains)
	return ct
}

// TransformResponse runs script over the content before it is returned.
func (ct *Content) TransformResponse(script string) *Content {
	ct.opts.Set(ContentTransform, script)
	return ct
}

// Send validates the request, posts it and returns the rendered HTML.
func (ct *Content) Send(ctx context.Context) (*ContentResponse, error) {
	raw, err := ct.post(ctx, ct.requireSource)
	if err != nil {
		return nil, err
	}
	return newContentResponse(raw), nil
}
