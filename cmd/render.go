// File: cmd/render.go
package cmd

import (
	"errors"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/xkilldash9x/browserless-go/pkg/browserless"
)

// pageFlags are the page source and navigation flags shared by the rendering commands.
type pageFlags struct {
	url       string
	html      string
	htmlFile  string
	waitUntil []string
	waitFor   string
	delay     time.Duration
	stealth   bool
	proxy     string
	blockAds  bool
}

func (f *pageFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.url, "url", "", "page URL to load")
	fs.StringVar(&f.html, "html", "", "inline HTML document to render")
	fs.StringVar(&f.htmlFile, "html-file", "", "path to an HTML document to render")
	fs.StringSliceVar(&f.waitUntil, "wait-until", nil, "navigation events to wait for (load, domcontentloaded, networkidle0, networkidle2)")
	fs.StringVar(&f.waitFor, "wait-for", "", "CSS selector to wait for before capturing")
	fs.DurationVar(&f.delay, "delay", 0, "extra delay after the page loads")
	fs.BoolVar(&f.stealth, "stealth", false, "enable stealth mode")
	fs.StringVar(&f.proxy, "proxy", "", "proxy kind, e.g. residential")
	fs.BoolVar(&f.blockAds, "block-ads", false, "block ads and trackers")
}

// pageBuilder is satisfied by every builder that loads a page from a URL or HTML.
type pageBuilder[B any] interface {
	URL(string) B
	HTML(string) B
	WaitUntil(...string) B
	WaitForSelector(string, ...browserless.SelectorWait) B
	Delay(time.Duration) B
	BlockAds(bool) B
	Stealth(bool) B
	Proxy(string) B
}

// applyPage copies the flags onto b. Only flags that were given are applied.
func applyPage[B pageBuilder[B]](b B, f *pageFlags) (B, error) {
	html, err := readSource("html", f.html, f.htmlFile)
	if err != nil {
		return b, err
	}
	if f.url == "" && html == "" {
		return b, errors.New("one of --url, --html or --html-file is required")
	}
	if f.url != "" {
		b = b.URL(f.url)
	}
	if html != "" {
		b = b.HTML(html)
	}
	if len(f.waitUntil) > 0 {
		b = b.WaitUntil(f.waitUntil...)
	}
	if f.waitFor != "" {
		b = b.WaitForSelector(f.waitFor)
	}
	if f.delay > 0 {
		b = b.Delay(f.delay)
	}
	if f.blockAds {
		b = b.BlockAds(true)
	}
	if f.stealth {
		b = b.Stealth(true)
	}
	if f.proxy != "" {
		b = b.Proxy(f.proxy)
	}
	return b, nil
}

func newPDFCmd(a *app) *cobra.Command {
	var (
		page            pageFlags
		out             string
		format          string
		landscape       bool
		printBackground bool
		scale           float64
		pageRanges      string
	)

	cmd := &cobra.Command{
		Use:   "pdf",
		Short: "Render a page to PDF",
		Example: `  browserless pdf --url https://example.com --format A4 --out example.pdf
  browserless pdf --html-file invoice.html --print-background > invoice.pdf`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := applyPage(a.client.PDF(), &page)
			if err != nil {
				return err
			}
			if format != "" {
				p.Format(format)
			}
			if landscape {
				p.Landscape(true)
			}
			if printBackground {
				p.PrintBackground(true)
			}
			if cmd.Flags().Changed("scale") {
				p.Scale(scale)
			}
			if pageRanges != "" {
				p.PageRanges(pageRanges)
			}

			resp, err := p.Send(cmd.Context())
			if err != nil {
				return err
			}
			return writeOutput(cmd, out, resp.Content())
		},
	}

	page.register(cmd.Flags())
	cmd.Flags().StringVar(&out, "out", "", "output file (default stdout)")
	cmd.Flags().StringVar(&format, "format", "", "paper format, e.g. A4 or Letter")
	cmd.Flags().BoolVar(&landscape, "landscape", false, "landscape orientation")
	cmd.Flags().BoolVar(&printBackground, "print-background", false, "print background graphics")
	cmd.Flags().Float64Var(&scale, "scale", 1, "rendering scale between 0.1 and 2")
	cmd.Flags().StringVar(&pageRanges, "page-ranges", "", "pages to print, e.g. 1-5, 8")
	return cmd
}

func newScreenshotCmd(a *app) *cobra.Command {
	var (
		page     pageFlags
		out      string
		imgType  string
		quality  int
		fullPage bool
		width    int
		height   int
	)

	cmd := &cobra.Command{
		Use:   "screenshot",
		Short: "Capture an image of a page",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := applyPage(a.client.Screenshot(), &page)
			if err != nil {
				return err
			}
			if imgType != "" {
				s.Type(imgType)
			}
			if cmd.Flags().Changed("quality") {
				s.Quality(quality)
			}
			if fullPage {
				s.FullPage(true)
			}
			if width > 0 || height > 0 {
				s.ViewportSize(width, height)
			}

			resp, err := s.Send(cmd.Context())
			if err != nil {
				return err
			}
			return writeOutput(cmd, out, resp.Content())
		},
	}

	page.register(cmd.Flags())
	cmd.Flags().StringVar(&out, "out", "", "output file (default stdout)")
	cmd.Flags().StringVar(&imgType, "type", "", "image format: png, jpeg or webp")
	cmd.Flags().IntVar(&quality, "quality", 0, "JPEG or WebP quality between 0 and 100")
	cmd.Flags().BoolVar(&fullPage, "full-page", false, "capture the full scrollable page")
	cmd.Flags().IntVar(&width, "width", 0, "viewport width")
	cmd.Flags().IntVar(&height, "height", 0, "viewport height")
	return cmd
}

func newContentCmd(a *app) *cobra.Command {
	var (
		page     pageFlags
		out      string
		markdown bool
		title    bool
	)

	cmd := &cobra.Command{
		Use:   "content",
		Short: "Fetch the rendered HTML of a page",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := applyPage(a.client.Content(), &page)
			if err != nil {
				return err
			}

			resp, err := c.Send(cmd.Context())
			if err != nil {
				return err
			}
			switch {
			case title:
				return a.print(cmd, map[string]string{"title": resp.Title()})
			case markdown:
				md, err := resp.Markdown()
				if err != nil {
					return err
				}
				return writeOutput(cmd, out, []byte(md))
			default:
				return writeOutput(cmd, out, resp.Raw())
			}
		},
	}

	page.register(cmd.Flags())
	cmd.Flags().StringVar(&out, "out", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&markdown, "markdown", false, "convert the HTML to Markdown")
	cmd.Flags().BoolVar(&title, "title", false, "print only the document title")
	cmd.MarkFlagsMutuallyExclusive("markdown", "title")
	return cmd
}
