// File: pkg/browserless/pdf.go
package browserless

import (
	"context"
)

// Recognized PDF option paths for use with Set. The typed setters below
// cover the common ones.
const (
	PDFFormat              = "options.format"
	PDFWidth               = "options.width"
	PDFHeight              = "options.height"
	PDFMargin              = "options.margin"
	PDFMarginUnits         = "options.marginUnits"
	PDFLandscape           = "options.landscape"
	PDFPrintBackground     = "options.printBackground"
	PDFDisplayHeaderFooter = "options.displayHeaderFooter"
	PDFHeaderTemplate      = "options.headerTemplate"
	PDFFooterTemplate      = "options.footerTemplate"
	PDFPreferCSSPageSize   = "options.preferCSSPageSize"
	PDFPageRanges          = "options.pageRanges"
	PDFScale               = "options.scale"
	PDFTagged              = "options.tagged"
	PDFOutline             = "options.outline"
	PDFEncryption          = "options.encryption"
	PDFEmulateMedia        = "options.emulateMedia"
	PDFPrintMediaType      = "options.printMediaType"
	PDFMetadata            = "options.metadata"
	PDFCompressionLevel    = "options.compressionLevel"
	PDFA                   = "options.pdfA"
	PDFX                   = "options.pdfX"
	PDFWatermark           = "options.watermark"
	PDFAccessibility       = "options.accessibility"
	PDFSignature           = "options.signature"
	PDFAttachments         = "options.attachments"
	PDFPageLabels          = "options.pageLabels"
	PDFFontOptions         = "options.fontOptions"
	PDFScaleToWidth        = "options.scaleToWidth"
	PDFScaleToHeight       = "options.scaleToHeight"
)

const (
	minPDFScale = 0.1
	maxPDFScale = 2.0
)

// PDF renders a URL or an HTML document to PDF through POST /pdf.
type PDF struct {
	core
	Settable[*PDF]
	Authentication[*PDF]
	CookieManagement[*PDF]
	Navigation[*PDF]
	ViewportControl[*PDF]
	ResourceInjection[*PDF]
	Waits[*PDF]
	PageOptions[*PDF]
	QueryToggles[*PDF]
}

// renderDefaults seeds the PDF and Screenshot option trees.
func renderDefaults() map[string]any {
	return map[string]any{
		keyOptions:     map[string]any{},
		keyGotoOptions: map[string]any{},
		keyViewport:    ViewportConfig{Width: 800, Height: 600}.toMap(),
	}
}

// PDF starts a PDF request.
func (c *Client) PDF() *PDF {
	p := &PDF{core: newCore(c, FeaturePDF, endpointPDF, renderDefaults())}
	p.Settable = Settable[*PDF]{bind(p, &p.core)}
	p.Authentication = Authentication[*PDF]{bind(p, &p.core)}
	p.CookieManagement = CookieManagement[*PDF]{bind(p, &p.core)}
	p.Navigation = Navigation[*PDF]{bind(p, &p.core)}
	p.ViewportControl = ViewportControl[*PDF]{bind(p, &p.core)}
	p.ResourceInjection = ResourceInjection[*PDF]{bind(p, &p.core)}
	p.Waits = Waits[*PDF]{bind(p, &p.core)}
	p.PageOptions = PageOptions[*PDF]{bind(p, &p.core)}
	p.QueryToggles = QueryToggles[*PDF]{bind(p, &p.core)}
	if c.inherit {
		c.global.seed(&p.core, true)
	}
	return p
}

func (p *PDF) URL(url string) *PDF {
	p.opts.Set(keyURL, url)
	return p
}

func (p *PDF) HTML(html string) *PDF {
	p.opts.Set(keyHTML, html)
	return p
}

// Format sets the paper format, e.g. "A4" or "Letter".
func (p *PDF) Format(format string) *PDF {
	p.opts.Set(PDFFormat, format)
	return p
}

// Width sets the paper width with units, e.g. "8.5in".
func (p *PDF) Width(width string) *PDF {
	p.opts.Set(PDFWidth, width)
	return p
}

func (p *PDF) Height(height string) *PDF {
	p.opts.Set(PDFHeight, height)
	return p
}

// Margin sets the page margins. Values carry units, e.g. "1cm". Empty sides are omitted.
func (p *PDF) Margin(top, right, bottom, left string) *PDF {
	m := make(map[string]any, 4)
	for k, v := range map[string]string{"top": top, "right": right, "bottom": bottom, "left": left} {
		if v != "" {
			m[k] = v
		}
	}
	p.opts.Set(PDFMargin, m)
	return p
}

func (p *PDF) MarginUnits(units string) *PDF {
	p.opts.Set(PDFMarginUnits, units)
	return p
}

func (p *PDF) Landscape(landscape bool) *PDF {
	p.opts.Set(PDFLandscape, landscape)
	return p
}

func (p *PDF) PrintBackground(print bool) *PDF {
	p.opts.Set(PDFPrintBackground, print)
	return p
}

func (p *PDF) DisplayHeaderFooter(display bool) *PDF {
	p.opts.Set(PDFDisplayHeaderFooter, display)
	return p
}

func (p *PDF) HeaderTemplate(html string) *PDF {
	p.opts.Set(PDFHeaderTemplate, html)
	return p
}

func (p *PDF) FooterTemplate(html string) *PDF {
	p.opts.Set(PDFFooterTemplate, html)
	return p
}

func (p *PDF) PreferCSSPageSize(prefer bool) *PDF {
	p.opts.Set(PDFPreferCSSPageSize, prefer)
	return p
}

// PageRanges limits output to the given pages, e.g. "1-5, 8".
func (p *PDF) PageRanges(ranges string) *PDF {
	p.opts.Set(PDFPageRanges, ranges)
	return p
}

// Scale sets the rendering scale. It must lie within [0.1, 2].
func (p *PDF) Scale(scale float64) *PDF {
	if scale < minPDFScale || scale > maxPDFScale {
		p.invalid("scale must be between 0.1 and 2, got %v", scale)
		return p
	}
	p.opts.Set(PDFScale, scale)
	return p
}

// Tagged produces an accessible, tagged PDF.
func (p *PDF) Tagged(tagged bool) *PDF {
	p.opts.Set(PDFTagged, tagged)
	return p
}

func (p *PDF) Outline(outline bool) *PDF {
	p.opts.Set(PDFOutline, outline)
	return p
}

// Encryption protects the document. Empty passwords are omitted.
func (p *PDF) Encryption(userPassword, ownerPassword string, permissions ...string) *PDF {
	enc := make(map[string]any)
	if userPassword != "" {
		enc["userPassword"] = userPassword
	}
	if ownerPassword != "" {
		enc["ownerPassword"] = ownerPassword
	}
	if len(permissions) > 0 {
		enc["permissions"] = permissions
	}
	p.opts.Set(PDFEncryption, enc)
	return p
}

func (p *PDF) EmulateMedia(emulate bool) *PDF {
	p.opts.Set(PDFEmulateMedia, emulate)
	return p
}

func (p *PDF) PrintMediaType(print bool) *PDF {
	p.opts.Set(PDFPrintMediaType, print)
	return p
}

// Metadata sets document properties such as title and author.
func (p *PDF) Metadata(meta map[string]string) *PDF {
	p.opts.Set(PDFMetadata, meta)
	return p
}

// CompressionLevel sets the output compression. It must lie within [0, 9].
func (p *PDF) CompressionLevel(level int) *PDF {
	if level < 0 || level > 9 {
		p.invalid("compression level must be between 0 and 9, got %d", level)
		return p
	}
	p.opts.Set(PDFCompressionLevel, level)
	return p
}

// PDFA requests PDF/A archival output.
func (p *PDF) PDFA(enabled bool) *PDF {
	p.opts.Set(PDFA, enabled)
	return p
}

// Watermark sets watermark options such as text, opacity and rotation.
func (p *PDF) Watermark(opts map[string]any) *PDF {
	p.opts.Set(PDFWatermark, opts)
	return p
}

// Send validates the request, posts it and returns the rendered document.
func (p *PDF) Send(ctx context.Context) (*PDFResponse, error) {
	raw, err := p.post(ctx, p.validate)
	if err != nil {
		return nil, err
	}
	return newPDFResponse(raw), nil
}

func (p *PDF) validate() error {
	if err := p.requireSource(); err != nil {
		return err
	}
	if v := p.opts.Get(PDFScale, nil); v != nil {
		scale, ok := toFloat(v)
		if !ok || scale < minPDFScale || scale > maxPDFScale {
			return invalidOptions(p.feature, "scale must be between 0.1 and 2, got %v", v)
		}
	}
	return nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
