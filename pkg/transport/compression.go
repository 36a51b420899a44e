// File: pkg/transport/compression.go
package transport

import (
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/andybalholm/brotli"
)

const acceptEncoding = "br, gzip"

var (
	brotliReaderPool = sync.Pool{
		New: func() any { return brotli.NewReader(nil) },
	}
	emptyReader = strings.NewReader("")
)

func getBrotliReader(r io.Reader) (*brotli.Reader, error) {
	br := brotliReaderPool.Get().(*brotli.Reader)
	if err := br.Reset(r); err != nil {
		brotliReaderPool.Put(br)
		return nil, err
	}
	return br, nil
}

func putBrotliReader(br *brotli.Reader) {
	_ = br.Reset(emptyReader)
	brotliReaderPool.Put(br)
}

// Decompress advertises br and gzip when the caller has not chosen an
// encoding and decodes the response body accordingly.
func Decompress() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if req.Header.Get("Accept-Encoding") == "" {
				req = req.Clone(req.Context())
				req.Header.Set("Accept-Encoding", acceptEncoding)
			}
			resp, err := next.RoundTrip(req)
			if err != nil {
				return nil, err
			}
			if err := decodeBody(resp); err != nil {
				_ = resp.Body.Close()
				return nil, fmt.Errorf("decode response body: %w", err)
			}
			return resp, nil
		})
	}
}

// decodedBody closes the decoder and the wire body together.
type decodedBody struct {
	io.Reader
	wire    io.ReadCloser
	release func() error
}

func (b *decodedBody) Close() error {
	var err error
	if b.release != nil {
		err = b.release()
		b.release = nil
	}
	return errors.Join(err, b.wire.Close())
}

// decodeBody unwraps Content-Encoding layers in reverse order of application.
func decodeBody(resp *http.Response) error {
	if resp == nil || resp.Body == nil {
		return nil
	}
	var encodings []string
	for _, v := range resp.Header.Values("Content-Encoding") {
		encodings = append(encodings, strings.Split(v, ",")...)
	}
	if len(encodings) == 0 {
		return nil
	}

	for i := len(encodings) - 1; i >= 0; i-- {
		switch enc := strings.ToLower(strings.TrimSpace(encodings[i])); enc {
		case "br":
			br, err := getBrotliReader(resp.Body)
			if err != nil {
				return fmt.Errorf("brotli: %w", err)
			}
			resp.Body = &decodedBody{Reader: br, wire: resp.Body, release: func() error {
				putBrotliReader(br)
				return nil
			}}
		case "gzip":
			zr, err := gzip.NewReader(resp.Body)
			if err != nil {
				return fmt.Errorf("gzip: %w", err)
			}
			resp.Body = &decodedBody{Reader: zr, wire: resp.Body, release: zr.Close}
		case "identity", "":
		default:
			return fmt.Errorf("unsupported Content-Encoding %q", enc)
		}
	}

	resp.Header.Del("Content-Encoding")
	resp.Header.Del("Content-Length")
	resp.ContentLength = -1
	resp.Uncompressed = true
	return nil
}
