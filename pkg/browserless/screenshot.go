// File: pkg/browserless/screenshot.go
package browserless

import (
	"context"
)

// Recognized screenshot option paths for use with Set.
const (
	ScreenshotFullPage          = "options.fullPage"
	ScreenshotType              = "options.type"
	ScreenshotQuality           = "options.quality"
	ScreenshotOmitBackground    = "options.omitBackground"
	ScreenshotClip              = "options.clip"
	ScreenshotDeviceName        = "options.deviceName"
	ScreenshotEncoding          = "encoding"
	ScreenshotJPEGOptimization  = "jpegOptimization"
	ScreenshotPNGOptimization   = "pngOptimization"
	ScreenshotWebPOptions       = "webpOptions"
	ScreenshotFrameSelector     = "frameSelector"
	ScreenshotCaptureOptions    = "captureOptions"
	ScreenshotElement           = "elementScreenshot"
	ScreenshotMaskSelectors     = "maskSelectors"
	ScreenshotCaptureTimeline   = "captureTimeline"
	ScreenshotScrollPage        = "scrollPage"
	ScreenshotWaitForExpression = "waitForExpression"
	ScreenshotVisionDeficiency  = "emulateVisionDeficiency"
	ScreenshotClipOverflow      = "clipOverflow"
	ScreenshotOptimization      = "optimizationPreset"
	ScreenshotBackgroundColor   = "backgroundColor"
	ScreenshotImageProcessing   = "imageProcessing"
	ScreenshotOCR               = "ocr"
	ScreenshotDiffOptions       = "diffOptions"
)

// Image formats and encodings accepted by Screenshot.
const (
	ImageJPEG = "jpeg"
	ImagePNG  = "png"
	ImageWebP = "webp"

	EncodingBinary = "binary"
	EncodingBase64 = "base64"
)

// Clip is a capture rectangle in CSS pixels.
type Clip struct {
	X, Y, Width, Height float64
	Scale               float64
}

// Screenshot captures an image of a URL or an HTML document through POST /screenshot.
type Screenshot struct {
	core
	Settable[*Screenshot]
	Authentication[*Screenshot]
	CookieManagement[*Screenshot]
	Navigation[*Screenshot]
	ViewportControl[*Screenshot]
	ResourceInjection[*Screenshot]
	Waits[*Screenshot]
	PageOptions[*Screenshot]
	QueryToggles[*Screenshot]
}

// Screenshot starts a screenshot request.
func (c *Client) Screenshot() *Screenshot {
	s := &Screenshot{core: newCore(c, FeatureScreenshot, endpointScreenshot, renderDefaults())}
	s.Settable = Settable[*Screenshot]{bind(s, &s.core)}
	s.Authentication = Authentication[*Screenshot]{bind(s, &s.core)}
	s.CookieManagement = CookieManagement[*Screenshot]{bind(s, &s.core)}
	s.Navigation = Navigation[*Screenshot]{bind(s, &s.core)}
	s.ViewportControl = ViewportControl[*Screenshot]{bind(s, &s.core)}
	s.ResourceInjection = ResourceInjection[*Screenshot]{bind(s, &s.core)}
	s.Waits = Waits[*Screenshot]{bind(s, &s.core)}
	s.PageOptions = PageOptions[*Screenshot]{bind(s, &s.core)}
	s.QueryToggles = QueryToggles[*Screenshot]{bind(s, &s.core)}
	if c.inherit {
		c.global.seed(&s.core, true)
	}
	return s
}

func (s *Screenshot) URL(url string) *Screenshot {
	s.opts.Set(keyURL, url)
	return s
}

func (s *Screenshot) HTML(html string) *Screenshot {
	s.opts.Set(keyHTML, html)
	return s
}

// FullPage captures the whole scrollable page instead of the viewport.
func (s *Screenshot) FullPage(full bool) *Screenshot {
	s.opts.Set(ScreenshotFullPage, full)
	return s
}

// Type sets the image format: jpeg, png or webp.
func (s *Screenshot) Type(format string) *Screenshot {
	if !oneOf(format, []string{ImageJPEG, ImagePNG, ImageWebP}) {
		s.invalid("type must be jpeg, png, or webp, got %q", format)
		return s
	}
	s.opts.Set(ScreenshotType, format)
	return s
}

// Quality sets the lossy compression quality within [0, 100].
func (s *Screenshot) Quality(quality int) *Screenshot {
	if quality < 0 || quality > 100 {
		s.invalid("quality must be between 0 and 100, got %d", quality)
		return s
	}
	s.opts.Set(ScreenshotQuality, quality)
	return s
}

func (s *Screenshot) OmitBackground(omit bool) *Screenshot {
	s.opts.Set(ScreenshotOmitBackground, omit)
	return s
}

// Clip captures only the given rectangle.
func (s *Screenshot) Clip(c Clip) *Screenshot {
	scale := c.Scale
	if scale == 0 {
		scale = 1
	}
	s.opts.Set(ScreenshotClip, map[string]any{
		"x":      c.X,
		"y":      c.Y,
		"width":  c.Width,
		"height": c.Height,
		"scale":  scale,
	})
	return s
}

// Device sets the device name used for the capture options.
func (s *Screenshot) Device(name string) *Screenshot {
	s.opts.Set(ScreenshotDeviceName, name)
	return s
}

// Encoding selects a binary or base64 encoded body.
func (s *Screenshot) Encoding(encoding string) *Screenshot {
	if !oneOf(encoding, []string{EncodingBinary, EncodingBase64}) {
		s.invalid("encoding must be binary or base64, got %q", encoding)
		return s
	}
	s.opts.Set(ScreenshotEncoding, encoding)
	return s
}

// MaskSelectors hides matching elements in the capture.
func (s *Screenshot) MaskSelectors(selectors ...string) *Screenshot {
	s.opts.Set(ScreenshotMaskSelectors, selectors)
	return s
}

func (s *Screenshot) FrameSelector(selector string) *Screenshot {
	s.opts.Set(ScreenshotFrameSelector, selector)
	return s
}

// Send validates the request, posts it and returns the image.
func (s *Screenshot) Send(ctx context.Context) (*ScreenshotResponse, error) {
	raw, err := s.post(ctx, s.validate)
	if err != nil {
		return nil, err
	}
	return newScreenshotResponse(raw, s.opts.Get(ScreenshotEncoding, EncodingBinary) == EncodingBase64), nil
}

func (s *Screenshot) validate() error {
	if err := s.requireSource(); err != nil {
		return err
	}
	if v := s.opts.Get(ScreenshotQuality, nil); v != nil {
		q, ok := toFloat(v)
		if !ok || q < 0 || q > 100 {
			return invalidOptions(s.feature, "quality must be between 0 and 100, got %v", v)
		}
	}
	return nil
}
