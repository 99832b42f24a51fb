// Package images builds content-source image delivery URLs. The source
// transforms assets on the fly through query parameters; everything here is
// pure URL templating and non-source URLs pass through untouched.
package images

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Options are the delivery API's transformation knobs. Zero values are
// omitted from the URL; Format defaults to webp and Quality to 80 unless
// DisableAuto is set.
type Options struct {
	Width       int
	Height      int
	Format      string // webp, jpg, png, gif, pjpg
	Quality     int    // 1-100
	Fit         string // crop, scale, stretch
	Crop        string // top, bottom, left, right, center, faces, entropy
	DisableAuto bool
}

// IsSourceURL reports whether the URL points at the content source's asset
// CDN and can therefore be transformed.
func IsSourceURL(raw string) bool {
	if raw == "" {
		return false
	}
	return strings.Contains(raw, "contentstack.io") ||
		strings.Contains(raw, "images.contentstack.com") ||
		strings.Contains(raw, "assets.contentstack.io")
}

// OptimizedURL appends transformation parameters to a source asset URL.
// Non-source URLs are returned unchanged.
func OptimizedURL(raw string, o Options) string {
	if raw == "" {
		return ""
	}
	if !IsSourceURL(raw) {
		return raw
	}

	params := url.Values{}
	if o.Width > 0 {
		params.Set("width", strconv.Itoa(o.Width))
	}
	if o.Height > 0 {
		params.Set("height", strconv.Itoa(o.Height))
	}
	if o.Format != "" {
		params.Set("format", o.Format)
	} else if !o.DisableAuto {
		params.Set("format", "webp")
	}
	if o.Quality > 0 {
		params.Set("quality", strconv.Itoa(o.Quality))
	} else {
		params.Set("quality", "80")
	}
	if o.Fit != "" {
		params.Set("fit", o.Fit)
	}
	if o.Crop != "" {
		params.Set("crop", o.Crop)
	}
	if !o.DisableAuto {
		params.Set("auto", "webp")
	}

	sep := "?"
	if strings.Contains(raw, "?") {
		sep = "&"
	}
	return raw + sep + params.Encode()
}

// Preset sizes for the storefront's common placements.
var presets = map[string]Options{
	"thumbnail": {Width: 150, Height: 200, Fit: "crop"},
	"card":      {Width: 300, Height: 400, Fit: "crop"},
	"poster":    {Width: 500, Height: 700, Fit: "crop"},
	"hero":      {Width: 1920, Height: 1080, Fit: "crop", Quality: 85},
	"banner":    {Width: 1200, Height: 400, Fit: "crop"},
	"avatar":    {Width: 100, Height: 100, Fit: "crop", Crop: "faces"},
}

// PresetURL applies a named preset; unknown presets return the URL as-is.
func PresetURL(raw, preset string) string {
	o, ok := presets[preset]
	if !ok {
		return raw
	}
	return OptimizedURL(raw, o)
}

// SrcSet renders a responsive srcset attribute value for the given widths.
func SrcSet(raw string, widths []int) string {
	if !IsSourceURL(raw) {
		return raw
	}
	if len(widths) == 0 {
		widths = []int{320, 640, 768, 1024, 1280, 1920}
	}

	parts := make([]string, 0, len(widths))
	for _, w := range widths {
		parts = append(parts, fmt.Sprintf("%s %dw", OptimizedURL(raw, Options{Width: w}), w))
	}
	return strings.Join(parts, ", ")
}

// BlurPlaceholder is a tiny low-quality variant for blur-up loading.
func BlurPlaceholder(raw string) string {
	return OptimizedURL(raw, Options{Width: 10, Height: 10, Quality: 30, Format: "jpg"})
}
