// pkg/browserless/helpers_test.go
package browserless

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/xkilldash9x/browserless-go/internal/mocks"
)

const testToken = "test-token/with+chars"

// captured is one request seen by the fake service.
type captured struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// fakeService is an httptest server that records requests and answers
// with a canned response.
type fakeService struct {
	*httptest.Server

	mu       sync.Mutex
	requests []captured

	status  int
	body    string
	headers map[string]string
}

func newFakeService(t *testing.T, status int, body string, headers map[string]string) *fakeService {
	t.Helper()
	fs := &fakeService{status: status, body: body, headers: headers}
	fs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		fs.mu.Lock()
		fs.requests = append(fs.requests, captured{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Header: r.Header.Clone(),
			Body:   b,
		})
		fs.mu.Unlock()
		for k, v := range fs.headers {
			w.Header().Set(k, v)
		}
		w.WriteHeader(fs.status)
		_, _ = io.WriteString(w, fs.body)
	}))
	t.Cleanup(fs.Close)
	return fs
}

func (fs *fakeService) last(t *testing.T) captured {
	t.Helper()
	fs.mu.Lock()
	defer fs.mu.Unlock()
	require.NotEmpty(t, fs.requests, "no request reached the service")
	return fs.requests[len(fs.requests)-1]
}

func (fs *fakeService) count() int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return len(fs.requests)
}

// setupClient returns a client wired to a fake service answering status/body.
func setupClient(t *testing.T, status int, body string, opts ...ClientOption) (*Client, *fakeService) {
	t.Helper()
	fs := newFakeService(t, status, body, nil)
	opts = append([]ClientOption{WithHTTPClient(fs.Client())}, opts...)
	c, err := NewClient(testToken, fs.URL+"/", opts...)
	require.NoError(t, err)
	return c, fs
}

// setupMockClient returns a client whose transport is a testify mock.
func setupMockClient(t *testing.T, opts ...ClientOption) (*Client, *mocks.MockTransport) {
	t.Helper()
	m := new(mocks.MockTransport)
	opts = append([]ClientOption{WithTransport(m)}, opts...)
	c, err := NewClient(testToken, "https://chrome.example.com", opts...)
	require.NoError(t, err)
	return c, m
}

func observedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

func rawResponse(status int, body string, headerPairs ...string) *RawResponse {
	h := http.Header{}
	for i := 0; i+1 < len(headerPairs); i += 2 {
		h.Set(headerPairs[i], headerPairs[i+1])
	}
	return &RawResponse{StatusCode: status, Header: h, Body: []byte(body)}
}
