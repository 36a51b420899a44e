// File: pkg/browserless/response_binary.go
package browserless

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"mime"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

func init() {
	// pdfcpu otherwise creates a config directory under the user's home on first use.
	api.DisableConfigDir()
}

// PDFResponse is a rendered PDF document.
type PDFResponse struct {
	binaryResponse
}

func newPDFResponse(raw *RawResponse) *PDFResponse {
	return &PDFResponse{binaryResponse{
		Response:    newResponse(FeaturePDF, raw),
		defaultType: "application/pdf",
		extension:   "pdf",
	}}
}

// PageCount parses the document and returns its number of pages.
func (r *PDFResponse) PageCount() (int, error) {
	n, err := api.PageCount(bytes.NewReader(r.raw.Body), nil)
	if err != nil {
		return 0, &ResponseError{Feature: r.feature, Err: fmt.Errorf("parse PDF: %w", err)}
	}
	return n, nil
}

// ScreenshotResponse is a captured image.
type ScreenshotResponse struct {
	binaryResponse
	base64 bool
}

func newScreenshotResponse(raw *RawResponse, base64Encoded bool) *ScreenshotResponse {
	return &ScreenshotResponse{
		binaryResponse: binaryResponse{
			Response:    newResponse(FeatureScreenshot, raw),
			defaultType: "image/png",
			extension:   "png",
		},
		base64: base64Encoded,
	}
}

// Decoded returns the image bytes, decoding the body first when base64
// encoding was requested.
func (r *ScreenshotResponse) Decoded() ([]byte, error) {
	if !r.base64 {
		return r.raw.Body, nil
	}
	body := strings.TrimSpace(string(r.raw.Body))
	if i := strings.Index(body, ";base64,"); i >= 0 && strings.HasPrefix(body, "data:") {
		body = body[i+len(";base64,"):]
	}
	out, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return nil, &ResponseError{Feature: r.feature, Err: fmt.Errorf("decode base64 image: %w", err)}
	}
	return out, nil
}

// DownloadResponse is a file downloaded by the remote browser.
type DownloadResponse struct {
	binaryResponse
}

func newDownloadResponse(raw *RawResponse) *DownloadResponse {
	return &DownloadResponse{binaryResponse{
		Response:    newResponse(FeatureDownload, raw),
		defaultType: "application/octet-stream",
		extension:   "bin",
	}}
}

// Filename returns the name announced in Content-Disposition, if any.
func (r *DownloadResponse) Filename() string {
	cd := r.raw.Header.Get("Content-Disposition")
	if cd == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(cd)
	if err != nil {
		return ""
	}
	return params["filename"]
}
