// pkg/browserless/responses_test.go
package browserless

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -- Binary responses --

func TestBinaryResponse_SaveAndMetadata(t *testing.T) {
	resp := newPDFResponse(rawResponse(http.StatusOK, "%PDF-1.7 body"))

	assert.Equal(t, "application/pdf", resp.ContentType(), "falls back to the feature default")
	assert.Equal(t, len("%PDF-1.7 body"), resp.Size())
	assert.True(t, resp.Successful())

	path := filepath.Join(t.TempDir(), "out.pdf")
	saved, err := resp.SaveAs(path)
	require.NoError(t, err)
	assert.Equal(t, path, saved)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7 body", string(content))

	err = resp.Save(filepath.Join(t.TempDir(), "missing", "dir", "out.pdf"))
	require.Error(t, err)
	var fe *FeatureError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, FeaturePDF, fe.Feature)
}

func TestBinaryResponse_Size(t *testing.T) {
	withLength := newDownloadResponse(rawResponse(http.StatusOK, "abc", "Content-Length", "42"))
	assert.Equal(t, 42, withLength.Size())

	badLength := newDownloadResponse(rawResponse(http.StatusOK, "abc", "Content-Length", "lots"))
	assert.Equal(t, 3, badLength.Size())
	assert.Equal(t, "application/octet-stream", badLength.ContentType())
}

func TestBinaryResponse_Serve(t *testing.T) {
	resp := newPDFResponse(rawResponse(http.StatusOK, "%PDF", "Content-Type", "application/pdf"))

	rec := httptest.NewRecorder()
	require.NoError(t, resp.ServeAttachment(rec, "doc.pdf"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, "4", rec.Header().Get("Content-Length"))
	assert.Equal(t, "attachment; filename=doc.pdf", rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF", rec.Body.String())

	rec = httptest.NewRecorder()
	require.NoError(t, resp.ServeInline(rec, ""))
	cd := rec.Header().Get("Content-Disposition")
	assert.Contains(t, cd, "inline; filename=pdf-")
	assert.Contains(t, cd, ".pdf")
}

func TestPDFResponse_PageCountRejectsGarbage(t *testing.T) {
	resp := newPDFResponse(rawResponse(http.StatusOK, "definitely not a pdf"))

	_, err := resp.PageCount()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestScreenshotResponse_Decoded(t *testing.T) {
	img := []byte{0x89, 'P', 'N', 'G', 0x00}
	encoded := base64.StdEncoding.EncodeToString(img)

	plain := newScreenshotResponse(rawResponse(http.StatusOK, string(img)), false)
	got, err := plain.Decoded()
	require.NoError(t, err)
	assert.Equal(t, img, got)

	b64 := newScreenshotResponse(rawResponse(http.StatusOK, encoded+"\n"), true)
	got, err = b64.Decoded()
	require.NoError(t, err)
	assert.Equal(t, img, got)

	dataURI := newScreenshotResponse(rawResponse(http.StatusOK, "data:image/png;base64,"+encoded), true)
	got, err = dataURI.Decoded()
	require.NoError(t, err)
	assert.Equal(t, img, got)

	broken := newScreenshotResponse(rawResponse(http.StatusOK, "***"), true)
	_, err = broken.Decoded()
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestDownloadResponse_Filename(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{`attachment; filename="report.csv"`, "report.csv"},
		{`inline; filename=data.json`, "data.json"},
		{`attachment`, ""},
		{``, ""},
		{`;;;`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			resp := newDownloadResponse(rawResponse(http.StatusOK, "x", "Content-Disposition", tt.header))
			assert.Equal(t, tt.want, resp.Filename())
		})
	}
}

// -- Content --

func TestContentResponse(t *testing.T) {
	html := `<html><head><title>  Example Domain </title></head><body><h1>Hello</h1><p class="lead">World</p></body></html>`
	resp := newContentResponse(rawResponse(http.StatusOK, html))

	assert.Equal(t, html, resp.Content())
	assert.Equal(t, "Example Domain", resp.Title())

	doc, err := resp.Document()
	require.NoError(t, err)
	assert.Equal(t, "World", doc.Find("p.lead").Text())

	markdown, err := resp.Markdown()
	require.NoError(t, err)
	assert.Contains(t, markdown, "# Hello")
	assert.Contains(t, markdown, "World")

	path := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, resp.Save(path))
	saved, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, html, string(saved))
}

func TestContentResponse_NoTitle(t *testing.T) {
	resp := newContentResponse(rawResponse(http.StatusOK, "<p>no head</p>"))
	assert.Empty(t, resp.Title())
}

// -- BQL --

func TestBQLResponse(t *testing.T) {
	resp := newBQLResponse(rawResponse(http.StatusOK, `{
		"data": {"goto": {"status": 200, "time": 1234}},
		"errors": [{"message": "selector timed out", "path": ["click"]}]
	}`))

	assert.EqualValues(t, 200, resp.Get("data.goto.status", nil))
	assert.Equal(t, "fallback", resp.Get("data.goto.missing", "fallback"))
	assert.Equal(t, "fallback", resp.Get("data.goto.status.deeper", "fallback"))

	assert.True(t, resp.HasData())
	assert.True(t, resp.HasErrors())
	assert.False(t, resp.Successful())
	first := resp.FirstError()
	require.NotNil(t, first)
	assert.Equal(t, "selector timed out", first.Message)
	assert.Equal(t, []any{"click"}, first.Path)
	assert.Contains(t, resp.GetData(), "goto")
}

func TestBQLResponse_SuccessfulAndEmpty(t *testing.T) {
	ok := newBQLResponse(rawResponse(http.StatusOK, `{"data":{"title":{"title":"Example"}}}`))
	assert.True(t, ok.Successful())
	assert.Nil(t, ok.FirstError())

	empty := newBQLResponse(rawResponse(http.StatusOK, `{"data":{}}`))
	assert.False(t, empty.HasData())
	assert.False(t, empty.Successful())
}

func TestJSONResponses_InvalidBody(t *testing.T) {
	raw := func() *RawResponse { return rawResponse(http.StatusOK, "<html>not json</html>") }

	bql := newBQLResponse(raw())
	_, err := bql.Data()
	assert.ErrorIs(t, err, ErrInvalidResponse)
	assert.Equal(t, "def", bql.Get("data", "def"))
	assert.False(t, bql.HasErrors())
	assert.Nil(t, bql.Errors())

	_, err = newScrapeResponse(raw()).Results()
	assert.ErrorIs(t, err, ErrInvalidResponse)

	_, err = newSessionsResponse(raw()).Data()
	assert.ErrorIs(t, err, ErrInvalidResponse)

	_, err = newMetricsResponse(raw()).Entries()
	assert.ErrorIs(t, err, ErrInvalidResponse)

	unblock := newUnblockResponse(raw())
	assert.Empty(t, unblock.Content())
	assert.Empty(t, unblock.Cookies())

	var re *ResponseError
	_, err = newConfigResponse(raw()).Data()
	require.ErrorAs(t, err, &re)
	assert.Equal(t, FeatureConfig, re.Feature)
}

// -- Scrape --

func TestScrapeResponse_Results(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"data key", `{"data":[{"selector":"h1","results":[{"text":"Title","attributes":[{"name":"id","value":"main"}]}]}]}`},
		{"results key", `{"results":[{"selector":"h1","results":[{"text":"Title","attributes":[{"name":"id","value":"main"}]}]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := newScrapeResponse(rawResponse(http.StatusOK, tt.body))

			matches, err := resp.ResultsFor("h1")
			require.NoError(t, err)
			require.Len(t, matches, 1)
			assert.Equal(t, "Title", matches[0].Text)
			assert.Equal(t, []ScrapeAttribute{{Name: "id", Value: "main"}}, matches[0].Attributes)

			none, err := resp.ResultsFor("footer")
			require.NoError(t, err)
			assert.Empty(t, none)
		})
	}

	empty := newScrapeResponse(rawResponse(http.StatusOK, `{}`))
	results, err := empty.Results()
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestScrapeResponse_ObjectPayload(t *testing.T) {
	resp := newScrapeResponse(rawResponse(http.StatusOK, `{"data":{"h1":[{"text":"x"}]}}`))

	raw, err := resp.RawResults()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"h1": []any{map[string]any{"text": "x"}}}, raw)

	// The typed view only understands selector groups.
	_, err = resp.Results()
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestScrapeResponse_RawResults(t *testing.T) {
	list := newScrapeResponse(rawResponse(http.StatusOK, `{"data":null,"results":[{"selector":"h1"}]}`))
	raw, err := list.RawResults()
	require.NoError(t, err)
	assert.Equal(t, []any{map[string]any{"selector": "h1"}}, raw)

	empty := newScrapeResponse(rawResponse(http.StatusOK, `{}`))
	raw, err = empty.RawResults()
	require.NoError(t, err)
	assert.Equal(t, []any{}, raw)

	_, err = newScrapeResponse(rawResponse(http.StatusOK, "<html>")).RawResults()
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

// -- Unblock --

func TestUnblockResponse(t *testing.T) {
	resp := newUnblockResponse(rawResponse(http.StatusOK, `{
		"browserWSEndpoint": "wss://chrome.example.com/e/123",
		"content": null,
		"cookies": [{"name": "cf_clearance", "value": "x"}, "junk"],
		"screenshot": "aGVsbG8=",
		"ttl": 30000
	}`))

	assert.Equal(t, "wss://chrome.example.com/e/123", resp.BrowserWSEndpoint())
	assert.Empty(t, resp.Content())
	assert.Equal(t, []map[string]any{{"name": "cf_clearance", "value": "x"}}, resp.Cookies())
	assert.Equal(t, "aGVsbG8=", resp.Screenshot())
	assert.EqualValues(t, 30000, resp.TTL())
}

// -- Function --

func TestExecuteFunctionResponse(t *testing.T) {
	resp := newExecuteFunctionResponse(rawResponse(http.StatusOK, `{"items":[{"title":"first"},{"title":"second"}]}`))

	v, ok := resp.Value("items.1.title")
	require.True(t, ok)
	assert.Equal(t, "second", v)
	_, ok = resp.Value("items.5.title")
	assert.False(t, ok)

	data, err := resp.Data()
	require.NoError(t, err)
	assert.Contains(t, data, "items")

	text := newExecuteFunctionResponse(rawResponse(http.StatusOK, "plain result"))
	assert.Equal(t, "plain result", text.Text())
}

// -- Introspection --

func TestConfigResponse_Get(t *testing.T) {
	resp := newConfigResponse(rawResponse(http.StatusOK, `{"concurrent":10,"queued":5,"token":"x","nested":{"depth":2}}`))

	assert.EqualValues(t, 10, resp.Get("concurrent", nil))
	assert.EqualValues(t, 2, resp.Get("nested.depth", nil))
	assert.Equal(t, -1, resp.Get("missing", -1))
}

func TestMetricsResponse(t *testing.T) {
	list := newMetricsResponse(rawResponse(http.StatusOK, `[{"successful":3,"date":2},{"successful":1,"date":1}]`))
	entries, err := list.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	latest, ok := list.Latest()
	require.True(t, ok)
	assert.EqualValues(t, 3, latest["successful"])

	single := newMetricsResponse(rawResponse(http.StatusOK, `{"successful":7}`))
	entries, err = single.Entries()
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	scalar := newMetricsResponse(rawResponse(http.StatusOK, `"busy"`))
	_, err = scalar.Entries()
	assert.ErrorIs(t, err, ErrInvalidResponse)
	_, ok = scalar.Latest()
	assert.False(t, ok)

	empty := newMetricsResponse(rawResponse(http.StatusOK, `[]`))
	_, ok = empty.Latest()
	assert.False(t, ok)
}

func TestSessionsResponse(t *testing.T) {
	resp := newSessionsResponse(rawResponse(http.StatusOK, `[
		{"id": "s1", "browserId": "b1", "running": true, "title": "Example", "numbConnected": 2},
		{"id": "s2", "browserId": "b2", "running": false}
	]`))

	all, err := resp.Data()
	require.NoError(t, err)
	assert.Len(t, all, 2)

	running, err := resp.Running()
	require.NoError(t, err)
	require.Len(t, running, 1)
	assert.Equal(t, "s1", running[0].ID)
	assert.Equal(t, 2, running[0].NumbConnected)

	s, ok := resp.FindByID("b2")
	require.True(t, ok)
	assert.Equal(t, "s2", s.ID)
	_, ok = resp.FindByID("s1")
	assert.False(t, ok, "lookups match the browser id, not the session id")
}

// -- Performance --

func TestPerformanceResponse_ReportShapes(t *testing.T) {
	report := `{
		"categories": {
			"performance": {"score": 0.87},
			"accessibility": {"score": 0.95},
			"seo": {"score": null}
		},
		"audits": {
			"first-contentful-paint": {"score": 0.9, "numericValue": 1234.5, "numericUnit": "millisecond", "displayValue": "1.2 s"},
			"speed-index": {"score": 0.5, "numericValue": 4000, "numericUnit": "millisecond", "displayValue": "4.0 s"},
			"uses-http2": {"score": 1}
		}
	}`
	tests := []struct {
		name string
		body string
	}{
		{"top level", report},
		{"under data", `{"data":` + report + `}`},
		{"under lighthouseResult", `{"lighthouseResult":` + report + `}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := newPerformanceResponse(rawResponse(http.StatusOK, tt.body))

			score, ok := resp.PerformanceScore()
			require.True(t, ok)
			assert.InDelta(t, 0.87, score, 1e-9)

			_, ok = resp.SEOScore()
			assert.False(t, ok, "a null score is reported as missing")
			_, ok = resp.BestPracticesScore()
			assert.False(t, ok)

			scores := resp.CategoryScores()
			assert.Len(t, scores, 2)
			assert.InDelta(t, 0.95, scores[CategoryAccessibility], 1e-9)

			fcp := resp.Audit("first-contentful-paint")
			require.NotNil(t, fcp)
			assert.Equal(t, "1.2 s", fcp["displayValue"])
			assert.Nil(t, resp.Audit("not-an-audit"))
			assert.Len(t, resp.Audits(), 3)

			metrics := resp.Metrics()
			assert.Len(t, metrics, 2)
			assert.Equal(t, MetricSummary{
				ID:           "speed-index",
				Score:        0.5,
				Value:        float64(4000),
				Unit:         "millisecond",
				DisplayValue: "4.0 s",
			}, metrics["speed-index"])
		})
	}
}

func TestPerformanceResponse_InvalidBody(t *testing.T) {
	resp := newPerformanceResponse(rawResponse(http.StatusOK, "not json"))

	_, ok := resp.PerformanceScore()
	assert.False(t, ok)
	assert.Empty(t, resp.CategoryScores())
	assert.Empty(t, resp.Audits())
	assert.Empty(t, resp.Metrics())
	_, err := resp.Data()
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestEscapePath(t *testing.T) {
	assert.Equal(t, "best-practices", escapePath("best-practices"))
	assert.Equal(t, `a\.b\*c\?`, escapePath("a.b*c?"))
	assert.Equal(t, `x\|y\#z`, escapePath("x|y#z"))
}
