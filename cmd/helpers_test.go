// cmd/helpers_test.go
package cmd

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/browserless-go/internal/observability"
)

const testToken = "cli-token"

// route is a canned answer for one request path.
type route struct {
	status  int
	body    string
	headers map[string]string
}

// seen is one request received by the stub service.
type seen struct {
	Method string
	Path   string
	Token  string
	Body   []byte
}

// stubService answers Browserless endpoints from a fixed route table.
type stubService struct {
	*httptest.Server

	mu       sync.Mutex
	requests []seen
}

func newStubService(t *testing.T, routes map[string]route) *stubService {
	t.Helper()
	s := &stubService{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		s.mu.Lock()
		s.requests = append(s.requests, seen{
			Method: r.Method,
			Path:   r.URL.Path,
			Token:  r.URL.Query().Get("token"),
			Body:   body,
		})
		s.mu.Unlock()

		rt, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		for k, v := range rt.headers {
			w.Header().Set(k, v)
		}
		status := rt.status
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, rt.body)
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *stubService) last(t *testing.T) seen {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	require.NotEmpty(t, s.requests, "no request reached the service")
	return s.requests[len(s.requests)-1]
}

func (s *stubService) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// isolate keeps config discovery and environment overrides away from the
// developer's machine.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("BROWSERLESS_TOKEN", "")
	t.Setenv("BROWSERLESS_URL", "")
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	observability.ResetForTest()
	t.Cleanup(observability.ResetForTest)
	return dir
}

// runCLI executes a fresh command tree and returns what it wrote to stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

// against prefixes args with the credentials and URL of svc.
func against(svc *stubService, args ...string) []string {
	return append([]string{"--token", testToken, "--api-url", svc.URL}, args...)
}
