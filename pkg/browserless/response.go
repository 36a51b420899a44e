// File: pkg/browserless/response.go
package browserless

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"
)

// Response is the part every typed response shares.
type Response struct {
	raw     *RawResponse
	feature Feature
}

func newResponse(f Feature, raw *RawResponse) Response {
	if raw.Header == nil {
		raw.Header = http.Header{}
	}
	return Response{raw: raw, feature: f}
}

// Status returns the HTTP status code.
func (r *Response) Status() int { return r.raw.StatusCode }

// Successful reports a 2xx status.
func (r *Response) Successful() bool {
	return r.raw.StatusCode >= 200 && r.raw.StatusCode < 300
}

// Raw returns the unmodified body.
func (r *Response) Raw() []byte { return r.raw.Body }

// Header returns the response headers.
func (r *Response) Header() http.Header { return r.raw.Header }

// Underlying returns the transport level response.
func (r *Response) Underlying() *RawResponse { return r.raw }

// jsonResponse decodes the body on first use and caches the result, error included.
type jsonResponse struct {
	Response
	cache *decodeCache
}

type decodeCache struct {
	once  sync.Once
	value any
	err   error
}

func (r *jsonResponse) decoded() (any, error) {
	r.cache.once.Do(func() {
		var v any
		if err := codec.Unmarshal(r.raw.Body, &v); err != nil {
			r.cache.err = &ResponseError{Feature: r.feature, Err: fmt.Errorf("response is not valid JSON: %w", err)}
			return
		}
		r.cache.value = v
	})
	return r.cache.value, r.cache.err
}

func (r *jsonResponse) object() (map[string]any, error) {
	v, err := r.decoded()
	if err != nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, &ResponseError{Feature: r.feature, Err: fmt.Errorf("expected a JSON object, got %T", v)}
	}
	return m, nil
}

// Decode unmarshals the body into v.
func (r *jsonResponse) Decode(v any) error {
	if err := codec.Unmarshal(r.raw.Body, v); err != nil {
		return &ResponseError{Feature: r.feature, Err: err}
	}
	return nil
}

// binaryResponse carries file content such as a PDF or an image.
type binaryResponse struct {
	Response
	defaultType string
	extension   string
}

// Content returns the body bytes.
func (r *binaryResponse) Content() []byte { return r.raw.Body }

// ContentType returns the Content-Type header, or the feature default.
func (r *binaryResponse) ContentType() string {
	if ct := r.raw.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return r.defaultType
}

// Size returns the Content-Length header when it is a valid number, and the
// body length otherwise.
func (r *binaryResponse) Size() int {
	if cl := r.raw.Header.Get("Content-Length"); cl != "" {
		if n, err := strconv.Atoi(cl); err == nil && n >= 0 {
			return n
		}
	}
	return len(r.raw.Body)
}

// Save writes the body to path.
func (r *binaryResponse) Save(path string) error {
	if err := os.WriteFile(path, r.raw.Body, 0o644); err != nil {
		return &FeatureError{Feature: r.feature, Err: fmt.Errorf("save to %s: %w", path, err)}
	}
	return nil
}

// SaveAs writes the body to path and returns path.
func (r *binaryResponse) SaveAs(path string) (string, error) {
	if err := r.Save(path); err != nil {
		return "", err
	}
	return path, nil
}

// WriteTo streams the body to w.
func (r *binaryResponse) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(r.raw.Body)
	return int64(n), err
}

// ServeAttachment writes the body to w as a file download.
func (r *binaryResponse) ServeAttachment(w http.ResponseWriter, filename string) error {
	return r.serve(w, "attachment", filename)
}

// ServeInline writes the body to w for display in the browser.
func (r *binaryResponse) ServeInline(w http.ResponseWriter, filename string) error {
	return r.serve(w, "inline", filename)
}

func (r *binaryResponse) serve(w http.ResponseWriter, disposition, filename string) error {
	if filename == "" {
		filename = r.defaultFilename()
	}
	w.Header().Set("Content-Type", r.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(len(r.raw.Body)))
	w.Header().Set("Content-Disposition", mime.FormatMediaType(disposition, map[string]string{"filename": filename}))
	w.WriteHeader(http.StatusOK)
	_, err := w.Write(r.raw.Body)
	return err
}

func (r *binaryResponse) defaultFilename() string {
	return fmt.Sprintf("%s-%s.%s", r.feature, time.Now().Format("2006-01-02-150405"), r.extension)
}
