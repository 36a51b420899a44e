// File: pkg/browserless/builder.go
package browserless

import (
	"context"
	"net/http"

	json "github.com/json-iterator/go"

	"github.com/xkilldash9x/browserless-go/pkg/options"
)

// codec is shared by request encoding and response decoding. Map keys are
// sorted so identical option sets always produce identical bodies.
var codec = json.ConfigCompatibleWithStandardLibrary

// Top level option keys shared by several builders.
const (
	keyURL         = "url"
	keyHTML        = "html"
	keyCode        = "code"
	keyContext     = "context"
	keyOptions     = "options"
	keyGotoOptions = "gotoOptions"
	keyViewport    = "viewport"
	keyCookies     = "cookies"
)

// core is the state every builder and its capabilities share: the owning
// client, the JSON option tree, the URL query parameters and the first
// setter error.
//
// Setters that reject a value record the failure here instead of writing the
// value. The first recorded error is sticky and is returned by Send before any
// network I/O.
type core struct {
	client   *Client
	feature  Feature
	endpoint string
	opts     *options.Bag
	query    *options.Query
	err      error
}

func newCore(c *Client, f Feature, endpoint string, defaults map[string]any) core {
	return core{
		client:   c,
		feature:  f,
		endpoint: endpoint,
		opts:     options.New(defaults),
		query:    options.NewQuery(),
	}
}

func (c *core) fail(err error) {
	if c.err == nil {
		c.err = err
	}
}

func (c *core) invalid(format string, args ...any) {
	c.fail(invalidOptions(c.feature, format, args...))
}

// Err returns the first error recorded by a setter, or nil.
func (c *core) Err() error {
	return c.err
}

// Options returns a copy of the JSON body that Send would transmit.
func (c *core) Options() map[string]any {
	return c.opts.All()
}

// QueryParams returns a copy of the extra URL query parameters.
func (c *core) QueryParams() *options.Query {
	return c.query.Clone()
}

// Body returns the encoded JSON body.
func (c *core) Body() ([]byte, error) {
	return codec.Marshal(c.opts.All())
}

// post validates and then sends the option tree as a JSON POST.
func (c *core) post(ctx context.Context, validate func() error) (*RawResponse, error) {
	if c.err != nil {
		return nil, c.err
	}
	if validate != nil {
		if err := validate(); err != nil {
			return nil, err
		}
	}
	raw, err := c.client.call(ctx, c.feature, http.MethodPost, c.endpoint, c.query, c.opts.All())
	if err != nil {
		return nil, wrapFeature(c.feature, err)
	}
	return raw, nil
}

// get issues a GET against endpoint. GET endpoints carry no body.
func (c *core) get(ctx context.Context, endpoint string) (*RawResponse, error) {
	if c.err != nil {
		return nil, c.err
	}
	raw, err := c.client.call(ctx, c.feature, http.MethodGet, endpoint, c.query, nil)
	if err != nil {
		return nil, wrapFeature(c.feature, err)
	}
	return raw, nil
}

// requireSource checks that url or html is set.
func (c *core) requireSource() error {
	if isBlank(c.opts.Get(keyURL, nil)) && isBlank(c.opts.Get(keyHTML, nil)) {
		return invalidOptions(c.feature, "either URL or HTML content must be provided")
	}
	return nil
}

func isBlank(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	default:
		return false
	}
}

// mixin binds a capability to its owning builder so setters can return the
// concrete builder type.
type mixin[B any] struct {
	self B
	c    *core
}

func bind[B any](self B, c *core) mixin[B] {
	return mixin[B]{self: self, c: c}
}
