// File: pkg/browserless/response_json.go
package browserless

import (
	"errors"
	"strings"

	"github.com/tidwall/gjson"
)

var errUnexpectedShape = errors.New("unexpected JSON shape")

func newJSONResponse(f Feature, raw *RawResponse) jsonResponse {
	return jsonResponse{Response: newResponse(f, raw), cache: &decodeCache{}}
}

// walk follows a dot path through nested objects. It stops at the first
// missing segment or non-object value.
func walk(root any, path string) (any, bool) {
	cur := root
	if path == "" {
		return cur, true
	}
	for _, seg := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// BQLError is one entry of a BQL errors array.
type BQLError struct {
	Message    string         `json:"message"`
	Path       []any          `json:"path,omitempty"`
	Locations  []any          `json:"locations,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

// BQLResponse is the result of a BQL query.
type BQLResponse struct {
	jsonResponse
}

func newBQLResponse(raw *RawResponse) *BQLResponse {
	return &BQLResponse{newJSONResponse(FeatureBQL, raw)}
}

// Data returns the decoded body.
func (r *BQLResponse) Data() (map[string]any, error) {
	return r.object()
}

// Get walks a dot path such as "data.goto.status" and returns def when any
// segment is missing or not an object. A body that is not JSON yields def.
func (r *BQLResponse) Get(path string, def any) any {
	m, err := r.object()
	if err != nil {
		return def
	}
	v, ok := walk(m, path)
	if !ok {
		return def
	}
	return v
}

// HasErrors reports a non-empty errors array.
func (r *BQLResponse) HasErrors() bool {
	errs, _ := r.Get("errors", nil).([]any)
	return len(errs) > 0
}

// Errors returns the errors array.
func (r *BQLResponse) Errors() []BQLError {
	var body struct {
		Errors []BQLError `json:"errors"`
	}
	if err := r.Decode(&body); err != nil {
		return nil
	}
	return body.Errors
}

// FirstError returns the first error, or nil.
func (r *BQLResponse) FirstError() *BQLError {
	errs := r.Errors()
	if len(errs) == 0 {
		return nil
	}
	return &errs[0]
}

// HasData reports a non-empty data object.
func (r *BQLResponse) HasData() bool {
	return len(r.GetData()) > 0
}

// GetData returns the data object, or nil.
func (r *BQLResponse) GetData() map[string]any {
	d, _ := r.Get("data", nil).(map[string]any)
	return d
}

// Successful reports a query that returned data and no errors.
func (r *BQLResponse) Successful() bool {
	return !r.HasErrors() && r.HasData()
}

// ExecuteFunctionResponse is the value returned by a remote function.
type ExecuteFunctionResponse struct {
	jsonResponse
}

func newExecuteFunctionResponse(raw *RawResponse) *ExecuteFunctionResponse {
	return &ExecuteFunctionResponse{newJSONResponse(FeatureFunction, raw)}
}

// Data returns the decoded body, whatever JSON type the function produced.
func (r *ExecuteFunctionResponse) Data() (any, error) {
	return r.decoded()
}

// Value looks up a gjson path such as "data.items.0.title".
func (r *ExecuteFunctionResponse) Value(path string) (any, bool) {
	res := gjson.GetBytes(r.raw.Body, path)
	if !res.Exists() {
		return nil, false
	}
	return res.Value(), true
}

// Text returns the body as a string, for functions that return plain text.
func (r *ExecuteFunctionResponse) Text() string {
	return string(r.raw.Body)
}

// ScrapeAttribute is an attribute of a matched element.
type ScrapeAttribute struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ScrapeMatch is one element matched by a selector.
type ScrapeMatch struct {
	Text       string            `json:"text"`
	HTML       string            `json:"html"`
	Attributes []ScrapeAttribute `json:"attributes"`
	Width      float64           `json:"width"`
	Height     float64           `json:"height"`
	Top        float64           `json:"top"`
	Left       float64           `json:"left"`
}

// ScrapeResult groups the matches for one selector.
type ScrapeResult struct {
	Selector string        `json:"selector"`
	Results  []ScrapeMatch `json:"results"`
}

// ScrapeResponse holds the elements extracted by a scrape.
type ScrapeResponse struct {
	jsonResponse
}

func newScrapeResponse(raw *RawResponse) *ScrapeResponse {
	return &ScrapeResponse{newJSONResponse(FeatureScrape, raw)}
}

// Data returns the decoded body.
func (r *ScrapeResponse) Data() (map[string]any, error) {
	return r.object()
}

// Results returns every selector group, read from "data" or, failing that, "results".
func (r *ScrapeResponse) Results() ([]ScrapeResult, error) {
	if _, err := r.decoded(); err != nil {
		return nil, err
	}
	var body struct {
		Data    []ScrapeResult `json:"data"`
		Results []ScrapeResult `json:"results"`
	}
	if err := r.Decode(&body); err != nil {
		return nil, err
	}
	if body.Data != nil {
		return body.Data, nil
	}
	if body.Results != nil {
		return body.Results, nil
	}
	return []ScrapeResult{}, nil
}

// RawResults returns "data" or, failing that, "results" exactly as decoded,
// list or object. A body carrying neither yields an empty list.
func (r *ScrapeResponse) RawResults() (any, error) {
	m, err := r.object()
	if err != nil {
		return nil, err
	}
	for _, key := range []string{"data", "results"} {
		if v, ok := m[key]; ok && v != nil {
			return v, nil
		}
	}
	return []any{}, nil
}

// ResultsFor returns the matches for selector. An unknown selector yields an empty list.
func (r *ScrapeResponse) ResultsFor(selector string) ([]ScrapeMatch, error) {
	all, err := r.Results()
	if err != nil {
		return nil, err
	}
	for _, res := range all {
		if res.Selector == selector {
			if res.Results == nil {
				return []ScrapeMatch{}, nil
			}
			return res.Results, nil
		}
	}
	return []ScrapeMatch{}, nil
}

// UnblockResponse holds the artifacts of an unblock request. Accessors
// return zero values for missing keys or an undecodable body.
type UnblockResponse struct {
	jsonResponse
}

func newUnblockResponse(raw *RawResponse) *UnblockResponse {
	return &UnblockResponse{newJSONResponse(FeatureUnblock, raw)}
}

// Data returns the decoded body.
func (r *UnblockResponse) Data() (map[string]any, error) {
	return r.object()
}

func (r *UnblockResponse) field(key string) any {
	m, err := r.object()
	if err != nil {
		return nil
	}
	return m[key]
}

func (r *UnblockResponse) BrowserWSEndpoint() string {
	s, _ := r.field("browserWSEndpoint").(string)
	return s
}

func (r *UnblockResponse) Content() string {
	s, _ := r.field("content").(string)
	return s
}

// Cookies returns the page cookies as decoded objects.
func (r *UnblockResponse) Cookies() []map[string]any {
	list, _ := r.field("cookies").([]any)
	out := make([]map[string]any, 0, len(list))
	for _, e := range list {
		if m, ok := e.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// Screenshot returns the base64 screenshot.
func (r *UnblockResponse) Screenshot() string {
	s, _ := r.field("screenshot").(string)
	return s
}

// TTL returns the remaining browser lifetime in milliseconds.
func (r *UnblockResponse) TTL() int64 {
	f, _ := toFloat(r.field("ttl"))
	return int64(f)
}

// ConfigResponse is the service configuration.
type ConfigResponse struct {
	jsonResponse
}

func newConfigResponse(raw *RawResponse) *ConfigResponse {
	return &ConfigResponse{newJSONResponse(FeatureConfig, raw)}
}

// Data returns the decoded configuration.
func (r *ConfigResponse) Data() (map[string]any, error) {
	return r.object()
}

// Get returns a configuration value by dot path, or def.
func (r *ConfigResponse) Get(path string, def any) any {
	m, err := r.object()
	if err != nil {
		return def
	}
	if v, ok := walk(m, path); ok {
		return v
	}
	return def
}

// MetricsResponse holds metric windows or, for the total endpoint, a single aggregate.
type MetricsResponse struct {
	jsonResponse
}

func newMetricsResponse(raw *RawResponse) *MetricsResponse {
	return &MetricsResponse{newJSONResponse(FeatureMetrics, raw)}
}

// Data returns the decoded body.
func (r *MetricsResponse) Data() (any, error) {
	return r.decoded()
}

// Entries returns the body as a list of windows. A single object becomes a
// one element list.
func (r *MetricsResponse) Entries() ([]map[string]any, error) {
	v, err := r.decoded()
	if err != nil {
		return nil, err
	}
	switch t := v.(type) {
	case []any:
		out := make([]map[string]any, 0, len(t))
		for _, e := range t {
			if m, ok := e.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out, nil
	case map[string]any:
		return []map[string]any{t}, nil
	default:
		return nil, &ResponseError{Feature: r.feature, Err: errUnexpectedShape}
	}
}

// Latest returns the first window.
func (r *MetricsResponse) Latest() (map[string]any, bool) {
	entries, err := r.Entries()
	if err != nil || len(entries) == 0 {
		return nil, false
	}
	return entries[0], true
}

// Session describes one browser session.
type Session struct {
	ID                  string `json:"id"`
	BrowserID           string `json:"browserId"`
	Running             bool   `json:"running"`
	Title               string `json:"title"`
	URL                 string `json:"url"`
	Type                string `json:"type"`
	NumbConnected       int    `json:"numbConnected"`
	TrackingID          string `json:"trackingId"`
	Timeout             int64  `json:"timeout"`
	KillURL             string `json:"killURL"`
	UserDataDir         string `json:"userDataDir"`
	BrowserWSEndpoint   string `json:"browserWSEndpoint"`
	DevtoolsFrontendURL string `json:"devtoolsFrontendUrl"`
}

// SessionsResponse lists browser sessions.
type SessionsResponse struct {
	jsonResponse
}

func newSessionsResponse(raw *RawResponse) *SessionsResponse {
	return &SessionsResponse{newJSONResponse(FeatureSessions, raw)}
}

// Data returns every session.
func (r *SessionsResponse) Data() ([]Session, error) {
	if _, err := r.decoded(); err != nil {
		return nil, err
	}
	var sessions []Session
	if err := r.Decode(&sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// Running returns the sessions that are still running.
func (r *SessionsResponse) Running() ([]Session, error) {
	all, err := r.Data()
	if err != nil {
		return nil, err
	}
	running := make([]Session, 0, len(all))
	for _, s := range all {
		if s.Running {
			running = append(running, s)
		}
	}
	return running, nil
}

// FindByID returns the session with the given browser id.
func (r *SessionsResponse) FindByID(browserID string) (*Session, bool) {
	all, err := r.Data()
	if err != nil {
		return nil, false
	}
	for i := range all {
		if all[i].BrowserID == browserID {
			return &all[i], true
		}
	}
	return nil, false
}
