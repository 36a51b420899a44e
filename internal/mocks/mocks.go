// File: internal/mocks/mocks.go
package mocks

import (
	"bytes"
	"io"
	"net/http"

	"github.com/stretchr/testify/mock"
)

// -- Transport Mock --

// MockTransport mocks the HTTP transport a browserless.Client sends through.
type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	resp, _ := args.Get(0).(*http.Response)
	return resp, args.Error(1)
}

// OnRequest expects one request matching method and path, and answers it with resp.
func (m *MockTransport) OnRequest(method, path string, resp *http.Response) *mock.Call {
	return m.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		return req.Method == method && req.URL.Path == path
	})).Return(resp, nil).Once()
}

// Requests returns every request passed to Do, in call order.
func (m *MockTransport) Requests() []*http.Request {
	var out []*http.Request
	for _, c := range m.Calls {
		if c.Method != "Do" {
			continue
		}
		if req, ok := c.Arguments.Get(0).(*http.Request); ok {
			out = append(out, req)
		}
	}
	return out
}

// NewResponse builds a response with the given status, body and header pairs.
func NewResponse(status int, body string, headerPairs ...string) *http.Response {
	h := http.Header{}
	for i := 0; i+1 < len(headerPairs); i += 2 {
		h.Set(headerPairs[i], headerPairs[i+1])
	}
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Header:     h,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
	}
}

// JSONResponse is NewResponse with a JSON content type.
func JSONResponse(status int, body string) *http.Response {
	return NewResponse(status, body, "Content-Type", "application/json")
}
