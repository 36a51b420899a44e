// File: pkg/browserless/bql.go
package browserless

import (
	"context"
	"regexp"
	"strings"
	"time"
)

var (
	operationPrefix = regexp.MustCompile(`(?i)^(mutation|query)\s+`)
	blankLines      = regexp.MustCompile(`\n\s*\n`)
	bareKeyword     = regexp.MustCompile(`(?i)^(mutation|query)\b`)
)

// BQL sends a Browserless Query Language document through POST /chrome/bql.
type BQL struct {
	core
	Settable[*BQL]
	QueryToggles[*BQL]
}

// BQL starts a BQL request.
func (c *Client) BQL() *BQL {
	b := &BQL{core: newCore(c, FeatureBQL, endpointBQL, map[string]any{
		"query":         "",
		"variables":     map[string]any{},
		"operationName": nil,
	})}
	b.Settable = Settable[*BQL]{bind(b, &b.core)}
	b.QueryToggles = QueryToggles[*BQL]{bind(b, &b.core)}
	if c.inherit {
		c.global.seed(&b.core, false)
	}
	return b
}

// Query sets the document. Text that does not open with "mutation" or
// "query" is prefixed with "mutation ". Line endings are normalized to \n,
// blank lines are removed and the result is trimmed.
func (b *BQL) Query(text string) *BQL {
	b.opts.Set("query", normalizeBQL(text))
	return b
}

// Variables sets the operation variables.
func (b *BQL) Variables(vars map[string]any) *BQL {
	b.opts.Set("variables", vars)
	return b
}

// OperationName selects the operation to run. When name does not already
// appear in the query, it is spliced in after the leading keyword.
func (b *BQL) OperationName(name string) *BQL {
	if name == "" {
		b.opts.Set("operationName", nil)
		return b
	}
	b.opts.Set("operationName", name)
	if q, _ := b.opts.Get("query", "").(string); q != "" && !strings.Contains(q, name) {
		b.opts.Set("query", spliceOperationName(q, name))
	}
	return b
}

// HumanLike enables human like input timing.
func (b *BQL) HumanLike(enabled bool) *BQL {
	b.query.Add("humanlike", enabled)
	return b
}

// Reconnect keeps the session open for a later reconnection.
func (b *BQL) Reconnect(enabled bool) *BQL {
	b.query.Add("reconnect", enabled)
	return b
}

// Timeout bounds the whole query.
func (b *BQL) Timeout(d time.Duration) *BQL {
	b.query.Add(QueryTimeout, millis(d))
	return b
}

// BlockConsentModals dismisses cookie consent dialogs.
func (b *BQL) BlockConsentModals(enabled bool) *BQL {
	b.query.Add("blockConsentModals", enabled)
	return b
}

// WaitUntil sets the navigation condition the session waits for.
func (b *BQL) WaitUntil(condition string) *BQL {
	b.query.Add("waitUntil", condition)
	return b
}

// Send posts the query. An empty query fails without contacting the service.
func (b *BQL) Send(ctx context.Context) (*BQLResponse, error) {
	raw, err := b.post(ctx, b.validate)
	if err != nil {
		return nil, err
	}
	return newBQLResponse(raw), nil
}

func (b *BQL) validate() error {
	q, _ := b.opts.Get("query", "").(string)
	// Normalization prefixes empty input with a keyword; a keyword alone is still empty.
	if strings.TrimSpace(bareKeyword.ReplaceAllString(strings.TrimSpace(q), "")) == "" {
		return &FeatureError{Feature: FeatureBQL, Err: invalidOptions(FeatureBQL, "query must not be empty")}
	}
	return nil
}

func normalizeBQL(text string) string {
	if !operationPrefix.MatchString(text) {
		text = "mutation " + text
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = blankLines.ReplaceAllString(text, "\n")
	return strings.TrimSpace(text)
}

func spliceOperationName(query, name string) string {
	loc := operationPrefix.FindStringSubmatchIndex(query)
	if loc == nil {
		return query
	}
	// loc[2]:loc[3] is the keyword, loc[1] the end of the trailing whitespace.
	return query[:loc[3]] + " " + name + " " + query[loc[1]:]
}
