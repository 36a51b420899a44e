// cmd/commands_test.go
package cmd

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	json "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func decode(t *testing.T, raw []byte) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	return m
}

func TestPDFCmd_WritesFile(t *testing.T) {
	dir := isolate(t)
	svc := newStubService(t, map[string]route{
		"/pdf": {body: "%PDF-1.7 fake", headers: map[string]string{"Content-Type": "application/pdf"}},
	})
	out := filepath.Join(dir, "page.pdf")

	stdout, err := runCLI(t, against(svc,
		"pdf", "--url", "https://example.com", "--format", "A4", "--landscape", "--scale", "1.5", "--out", out,
	)...)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7 fake", string(data))

	req := svc.last(t)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, testToken, req.Token)
	body := decode(t, req.Body)
	assert.Equal(t, "https://example.com", body["url"])
	opts, ok := body["options"].(map[string]any)
	require.True(t, ok, "options object expected in %s", req.Body)
	assert.Equal(t, "A4", opts["format"])
	assert.Equal(t, true, opts["landscape"])
	assert.Equal(t, 1.5, opts["scale"])
}

func TestPDFCmd_StreamsToStdout(t *testing.T) {
	isolate(t)
	svc := newStubService(t, map[string]route{
		"/pdf": {body: "%PDF-1.7 stdout"},
	})

	stdout, err := runCLI(t, against(svc, "pdf", "--html", "<h1>Invoice</h1>")...)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7 stdout", stdout)
	assert.Equal(t, "<h1>Invoice</h1>", decode(t, svc.last(t).Body)["html"])
}

func TestPDFCmd_ValidationHappensBeforeRequest(t *testing.T) {
	isolate(t)
	svc := newStubService(t, nil)

	_, err := runCLI(t, against(svc, "pdf", "--url", "https://example.com", "--scale", "3")...)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "scale")
	assert.Zero(t, svc.count())
}

func TestRenderCmds_RequireSource(t *testing.T) {
	for _, name := range []string{"pdf", "screenshot", "content", "scrape"} {
		t.Run(name, func(t *testing.T) {
			isolate(t)
			svc := newStubService(t, nil)

			_, err := runCLI(t, against(svc, name)...)

			require.Error(t, err)
			assert.Contains(t, err.Error(), "one of --url, --html or --html-file is required")
			assert.Zero(t, svc.count())
		})
	}
}

func TestRenderCmds_HTMLSourcesAreExclusive(t *testing.T) {
	dir := isolate(t)
	svc := newStubService(t, nil)
	file := filepath.Join(dir, "page.html")
	require.NoError(t, os.WriteFile(file, []byte("<p>x</p>"), 0o600))

	_, err := runCLI(t, against(svc, "content", "--html", "<p>y</p>", "--html-file", file)...)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}

func TestScreenshotCmd(t *testing.T) {
	dir := isolate(t)
	svc := newStubService(t, map[string]route{
		"/screenshot": {body: "\x89PNG fake"},
	})
	out := filepath.Join(dir, "shot.png")

	_, err := runCLI(t, against(svc,
		"screenshot", "--url", "https://example.com", "--type", "jpeg", "--quality", "80",
		"--full-page", "--width", "800", "--height", "600", "--stealth", "--out", out,
	)...)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG fake", string(data))

	body := decode(t, svc.last(t).Body)
	opts := body["options"].(map[string]any)
	assert.Equal(t, "jpeg", opts["type"])
	assert.Equal(t, float64(80), opts["quality"])
	assert.Equal(t, true, opts["fullPage"])
	viewport := body["viewport"].(map[string]any)
	assert.Equal(t, float64(800), viewport["width"])
	assert.Equal(t, float64(600), viewport["height"])
}

func TestContentCmd(t *testing.T) {
	const page = `<html><head><title>Docs</title></head><body><h1>Hello</h1></body></html>`

	t.Run("raw html", func(t *testing.T) {
		isolate(t)
		svc := newStubService(t, map[string]route{"/content": {body: page}})

		out, err := runCLI(t, against(svc, "content", "--url", "https://example.com")...)
		require.NoError(t, err)
		assert.Equal(t, page, out)
	})

	t.Run("title", func(t *testing.T) {
		isolate(t)
		svc := newStubService(t, map[string]route{"/content": {body: page}})

		out, err := runCLI(t, against(svc, "content", "--url", "https://example.com", "--title")...)
		require.NoError(t, err)
		assert.JSONEq(t, `{"title":"Docs"}`, out)
	})

	t.Run("markdown", func(t *testing.T) {
		isolate(t)
		svc := newStubService(t, map[string]route{"/content": {body: page}})

		out, err := runCLI(t, against(svc, "content", "--url", "https://example.com", "--markdown")...)
		require.NoError(t, err)
		assert.Contains(t, out, "# Hello")
	})

	t.Run("markdown and title conflict", func(t *testing.T) {
		isolate(t)
		svc := newStubService(t, nil)

		_, err := runCLI(t, against(svc, "content", "--url", "https://example.com", "--markdown", "--title")...)
		require.Error(t, err)
		assert.Zero(t, svc.count())
	})
}

func TestScrapeCmd(t *testing.T) {
	isolate(t)
	svc := newStubService(t, map[string]route{
		"/scrape": {body: `{"data":[{"selector":"h1","results":[{"text":"Hello","html":"Hello","attributes":[],"width":10,"height":5,"top":0,"left":0}]}]}`},
	})

	out, err := runCLI(t, against(svc, "scrape", "--url", "https://example.com", "-e", "h1")...)
	require.NoError(t, err)

	var results []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "h1", results[0]["selector"])

	body := decode(t, svc.last(t).Body)
	assert.Equal(t, []any{map[string]any{"selector": "h1"}}, body["elements"])
}

func TestScrapeCmd_ObjectPayload(t *testing.T) {
	isolate(t)
	svc := newStubService(t, map[string]route{
		"/scrape": {body: `{"data":{"h1":[{"text":"Hello"}]}}`},
	})

	out, err := runCLI(t, against(svc, "scrape", "--url", "https://example.com", "-e", "h1")...)
	require.NoError(t, err)
	assert.JSONEq(t, `{"h1":[{"text":"Hello"}]}`, out)
}

func TestFunctionCmd(t *testing.T) {
	dir := isolate(t)
	svc := newStubService(t, map[string]route{
		"/function": {body: `{"data":{"title":"Example"},"type":"application/json"}`, headers: map[string]string{"Content-Type": "application/json"}},
	})
	code := filepath.Join(dir, "fn.mjs")
	require.NoError(t, os.WriteFile(code, []byte("export default async () => ({})"), 0o600))

	out, err := runCLI(t, against(svc, "function", "--code-file", code, "--context", `{"url":"https://example.com"}`)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Example")

	body := decode(t, svc.last(t).Body)
	assert.Equal(t, "export default async () => ({})", body["code"])
	assert.Equal(t, map[string]any{"url": "https://example.com"}, body["context"])
}

func TestFunctionCmd_BadContext(t *testing.T) {
	isolate(t)
	svc := newStubService(t, nil)

	_, err := runCLI(t, against(svc, "function", "--code", "x", "--context", "[1,2]")...)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "--context must be a JSON object")
	assert.Zero(t, svc.count())
}

func TestDownloadCmd_UsesAnnouncedName(t *testing.T) {
	dir := isolate(t)
	svc := newStubService(t, map[string]route{
		"/download": {
			body:    "a,b\n1,2\n",
			headers: map[string]string{"Content-Disposition": `attachment; filename="../report.csv"`},
		},
	})

	_, err := runCLI(t, against(svc, "download", "--code", "export default async () => {}")...)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "report.csv"))
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", string(data))
}

func TestDownloadName(t *testing.T) {
	assert.Equal(t, "download.bin", downloadName(""))
	assert.Equal(t, "report.csv", downloadName("report.csv"))
	assert.Equal(t, "passwd", downloadName("../../etc/passwd"))
	assert.Equal(t, "download.bin", downloadName("/"))
}

func TestUnblockCmd(t *testing.T) {
	isolate(t)
	svc := newStubService(t, map[string]route{
		"/unblock": {body: `{"browserWSEndpoint":"ws://x","content":"<html></html>","cookies":[],"screenshot":null,"ttl":30000}`},
	})

	out, err := runCLI(t, against(svc, "unblock", "--url", "https://example.com", "--content", "--ws-endpoint")...)
	require.NoError(t, err)

	got := decode(t, []byte(out))
	assert.Equal(t, "ws://x", got["browserWSEndpoint"])
	assert.Equal(t, "<html></html>", got["content"])

	body := decode(t, svc.last(t).Body)
	assert.Equal(t, true, body["content"])
	assert.Equal(t, true, body["browserWSEndpoint"])
	assert.Equal(t, false, body["screenshot"])
}

func TestUnblockCmd_RequiresArtifact(t *testing.T) {
	isolate(t)
	svc := newStubService(t, nil)

	_, err := runCLI(t, against(svc, "unblock", "--url", "https://example.com")...)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "request at least one of")
	assert.Zero(t, svc.count())
}

func TestBQLCmd(t *testing.T) {
	isolate(t)
	svc := newStubService(t, map[string]route{
		"/chrome/bql": {body: `{"data":{"goto":{"status":200}}}`},
	})

	out, err := runCLI(t, against(svc,
		"bql", "--query", `query Nav { goto(url: "https://example.com") { status } }`,
		"--operation", "Nav", "--variables", `{"a":1}`,
	)...)
	require.NoError(t, err)
	assert.JSONEq(t, `{"goto":{"status":200}}`, out)

	body := decode(t, svc.last(t).Body)
	assert.Equal(t, "Nav", body["operationName"])
	assert.Equal(t, map[string]any{"a": float64(1)}, body["variables"])
}

func TestBQLCmd_ErrorsWithoutData(t *testing.T) {
	isolate(t)
	svc := newStubService(t, map[string]route{
		"/chrome/bql": {body: `{"data":null,"errors":[{"message":"Unknown field goto2"}]}`},
	})

	_, err := runCLI(t, against(svc, "bql", "--query", `{ goto2 { status } }`)...)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unknown field goto2")
}

func TestBQLCmd_EmptyQuery(t *testing.T) {
	isolate(t)
	svc := newStubService(t, nil)

	for _, args := range [][]string{{"bql"}, {"bql", "--query", "   "}, {"bql", "--query", "mutation"}} {
		_, err := runCLI(t, against(svc, args...)...)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "query must not be empty")
	}
	assert.Zero(t, svc.count())
}

func TestPerformanceCmd(t *testing.T) {
	isolate(t)
	svc := newStubService(t, map[string]route{
		"/performance": {body: `{"data":{"categories":{"performance":{"score":0.9}},"audits":{"first-contentful-paint":{"numericValue":1200,"displayValue":"1.2 s","score":0.8}}}}`},
	})

	out, err := runCLI(t, against(svc, "performance", "--url", "https://example.com", "--category", "performance")...)
	require.NoError(t, err)

	got := decode(t, []byte(out))
	assert.Equal(t, map[string]any{"performance": 0.9}, got["scores"])

	body := decode(t, svc.last(t).Body)
	config := body["config"].(map[string]any)
	settings := config["settings"].(map[string]any)
	assert.Equal(t, []any{"performance"}, settings["onlyCategories"])
}

func TestPerformanceCmd_CategoryAndAuditConflict(t *testing.T) {
	isolate(t)
	svc := newStubService(t, nil)

	_, err := runCLI(t, against(svc, "performance", "--url", "https://example.com", "--category", "seo", "--audit", "x")...)

	require.Error(t, err)
	assert.Zero(t, svc.count())
}

func TestMetricsCmd(t *testing.T) {
	const windows = `[{"date":2,"successful":5},{"date":1,"successful":3}]`

	t.Run("yaml output", func(t *testing.T) {
		isolate(t)
		svc := newStubService(t, map[string]route{"/metrics": {body: windows}})

		out, err := runCLI(t, against(svc, "-o", "yaml", "metrics")...)
		require.NoError(t, err)

		var got []map[string]any
		require.NoError(t, yaml.Unmarshal([]byte(out), &got))
		require.Len(t, got, 2)
		assert.Equal(t, 5, got[0]["successful"])
		assert.Equal(t, http.MethodGet, svc.last(t).Method)
	})

	t.Run("latest", func(t *testing.T) {
		isolate(t)
		svc := newStubService(t, map[string]route{"/metrics": {body: windows}})

		out, err := runCLI(t, against(svc, "metrics", "--latest")...)
		require.NoError(t, err)
		assert.JSONEq(t, `{"date":2,"successful":5}`, out)
	})

	t.Run("total", func(t *testing.T) {
		isolate(t)
		svc := newStubService(t, map[string]route{"/metrics/total": {body: `{"successful":42}`}})

		out, err := runCLI(t, against(svc, "metrics", "--total")...)
		require.NoError(t, err)
		assert.JSONEq(t, `{"successful":42}`, out)
		assert.Equal(t, "/metrics/total", svc.last(t).Path)
	})
}

func TestSessionsCmd(t *testing.T) {
	const sessions = `[{"id":"a","browserId":"b1","running":true},{"id":"c","browserId":"b2","running":false}]`

	t.Run("running", func(t *testing.T) {
		isolate(t)
		svc := newStubService(t, map[string]route{"/sessions": {body: sessions}})

		out, err := runCLI(t, against(svc, "sessions", "--running")...)
		require.NoError(t, err)

		var got []map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		require.Len(t, got, 1)
		assert.Equal(t, "b1", got[0]["browserId"])
	})

	t.Run("by id", func(t *testing.T) {
		isolate(t)
		svc := newStubService(t, map[string]route{"/sessions": {body: sessions}})

		out, err := runCLI(t, against(svc, "sessions", "--id", "b2")...)
		require.NoError(t, err)
		assert.Equal(t, "c", decode(t, []byte(out))["id"])
	})

	t.Run("unknown id", func(t *testing.T) {
		isolate(t)
		svc := newStubService(t, map[string]route{"/sessions": {body: sessions}})

		_, err := runCLI(t, against(svc, "sessions", "--id", "missing")...)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `no session with id "missing"`)
	})
}

func TestRemoteFailureSurfaces(t *testing.T) {
	isolate(t)
	svc := newStubService(t, map[string]route{
		"/pdf": {status: http.StatusUnauthorized, body: "bad token"},
	})

	_, err := runCLI(t, against(svc, "pdf", "--url", "https://example.com")...)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to generate PDF")
}
