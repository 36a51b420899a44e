// File: pkg/browserless/response_content.go
package browserless

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

// ContentResponse is the rendered HTML of a page.
type ContentResponse struct {
	Response
}

func newContentResponse(raw *RawResponse) *ContentResponse {
	return &ContentResponse{newResponse(FeatureContent, raw)}
}

// Content returns the HTML as a string.
func (r *ContentResponse) Content() string { return string(r.raw.Body) }

// Save writes the HTML to path.
func (r *ContentResponse) Save(path string) error {
	if err := os.WriteFile(path, r.raw.Body, 0o644); err != nil {
		return &FeatureError{Feature: r.feature, Err: fmt.Errorf("save to %s: %w", path, err)}
	}
	return nil
}

// Document parses the HTML for selector queries.
func (r *ContentResponse) Document() (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(r.raw.Body))
	if err != nil {
		return nil, &ResponseError{Feature: r.feature, Err: fmt.Errorf("parse HTML: %w", err)}
	}
	return doc, nil
}

// Title returns the trimmed text of the first <title> element, or "".
func (r *ContentResponse) Title() string {
	doc, err := r.Document()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

// Markdown converts the HTML to Markdown.
func (r *ContentResponse) Markdown() (string, error) {
	conv := md.NewConverter("", true, nil)
	out, err := conv.ConvertString(string(r.raw.Body))
	if err != nil {
		return "", &ResponseError{Feature: r.feature, Err: fmt.Errorf("convert to markdown: %w", err)}
	}
	return out, nil
}
