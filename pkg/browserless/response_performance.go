// File: pkg/browserless/response_performance.go
package browserless

import (
	"strings"

	"github.com/tidwall/gjson"
)

// Lighthouse reports have been returned at the top level, under "data" and
// under "lighthouseResult". Lookups try them in that order.
var reportRoots = []string{"", "data.", "lighthouseResult."}

// Core web vitals summarized by Metrics.
var webVitals = []string{
	"first-contentful-paint",
	"largest-contentful-paint",
	"total-blocking-time",
	"cumulative-layout-shift",
	"speed-index",
	"interactive",
}

// PerformanceResponse is a Lighthouse report.
type PerformanceResponse struct {
	jsonResponse
}

func newPerformanceResponse(raw *RawResponse) *PerformanceResponse {
	return &PerformanceResponse{newJSONResponse(FeaturePerformance, raw)}
}

// Data returns the decoded report.
func (r *PerformanceResponse) Data() (map[string]any, error) {
	return r.object()
}

// lookup returns the first existing value of section.key.suffix across the report roots.
func (r *PerformanceResponse) lookup(section, key, suffix string) gjson.Result {
	if _, err := r.decoded(); err != nil {
		return gjson.Result{}
	}
	path := section + "." + escapePath(key)
	if suffix != "" {
		path += "." + suffix
	}
	for _, root := range reportRoots {
		if res := gjson.GetBytes(r.raw.Body, root+path); res.Exists() && res.Type != gjson.Null {
			return res
		}
	}
	return gjson.Result{}
}

// section returns the first object found at name across the report roots.
func (r *PerformanceResponse) section(name string) map[string]gjson.Result {
	if _, err := r.decoded(); err != nil {
		return nil
	}
	for _, root := range reportRoots {
		if res := gjson.GetBytes(r.raw.Body, root+name); res.IsObject() {
			return res.Map()
		}
	}
	return nil
}

// CategoryScore returns the score of a category such as "performance".
func (r *PerformanceResponse) CategoryScore(category string) (float64, bool) {
	res := r.lookup("categories", category, "score")
	if !res.Exists() {
		return 0, false
	}
	return res.Float(), true
}

// CategoryScores returns every category that carries a score.
func (r *PerformanceResponse) CategoryScores() map[string]float64 {
	scores := map[string]float64{}
	for name, info := range r.section("categories") {
		if s := info.Get("score"); s.Exists() && s.Type != gjson.Null {
			scores[name] = s.Float()
		}
	}
	return scores
}

// Audit returns one audit result, or nil when it is absent.
func (r *PerformanceResponse) Audit(id string) map[string]any {
	res := r.lookup("audits", id, "")
	m, _ := res.Value().(map[string]any)
	return m
}

// Audits returns every audit result keyed by id.
func (r *PerformanceResponse) Audits() map[string]any {
	out := map[string]any{}
	for id, a := range r.section("audits") {
		out[id] = a.Value()
	}
	return out
}

// MetricSummary condenses one audit into its headline numbers.
type MetricSummary struct {
	Score        any    `json:"score"`
	Value        any    `json:"value"`
	Unit         any    `json:"unit"`
	DisplayValue any    `json:"displayValue"`
	ID           string `json:"-"`
}

// Metrics summarizes the core web vitals that are present in the report.
func (r *PerformanceResponse) Metrics() map[string]MetricSummary {
	out := map[string]MetricSummary{}
	for _, id := range webVitals {
		a := r.Audit(id)
		if len(a) == 0 {
			continue
		}
		out[id] = MetricSummary{
			ID:           id,
			Score:        a["score"],
			Value:        a["numericValue"],
			Unit:         a["numericUnit"],
			DisplayValue: a["displayValue"],
		}
	}
	return out
}

func (r *PerformanceResponse) PerformanceScore() (float64, bool) {
	return r.CategoryScore(CategoryPerformance)
}

func (r *PerformanceResponse) AccessibilityScore() (float64, bool) {
	return r.CategoryScore(CategoryAccessibility)
}

func (r *PerformanceResponse) BestPracticesScore() (float64, bool) {
	return r.CategoryScore(CategoryBestPractices)
}

func (r *PerformanceResponse) SEOScore() (float64, bool) {
	return r.CategoryScore(CategorySEO)
}

// escapePath escapes gjson path syntax inside a single key.
func escapePath(key string) string {
	var b strings.Builder
	for _, ch := range key {
		switch ch {
		case '.', '*', '?', '|', '#', '@', '\\', '!', '=', '<', '>', '%':
			b.WriteByte('\\')
		}
		b.WriteRune(ch)
	}
	return b.String()
}
