package images

import (
	"net/url"
	"strings"
	"testing"
)

const assetURL = "https://images.contentstack.io/v3/assets/blt123/blt456/poster.jpg"

func paramsOf(t *testing.T, raw string) url.Values {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse %q: %v", raw, err)
	}
	return u.Query()
}

func TestIsSourceURL(t *testing.T) {
	cases := []struct {
		raw  string
		want bool
	}{
		{assetURL, true},
		{"https://assets.contentstack.io/v3/assets/x/y/cover.png", true},
		{"https://cdn.contentstack.io/v3/assets/x/y/cover.png", true},
		{"https://example.com/poster.jpg", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := IsSourceURL(tc.raw); got != tc.want {
			t.Errorf("IsSourceURL(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestOptimizedURLDefaults(t *testing.T) {
	got := OptimizedURL(assetURL, Options{Width: 300})
	q := paramsOf(t, got)

	if q.Get("width") != "300" {
		t.Errorf("width = %q", q.Get("width"))
	}
	if q.Get("format") != "webp" {
		t.Errorf("format should default to webp, got %q", q.Get("format"))
	}
	if q.Get("quality") != "80" {
		t.Errorf("quality should default to 80, got %q", q.Get("quality"))
	}
	if q.Get("auto") != "webp" {
		t.Errorf("auto = %q", q.Get("auto"))
	}
}

func TestOptimizedURLExplicit(t *testing.T) {
	got := OptimizedURL(assetURL, Options{
		Width:   500,
		Height:  700,
		Format:  "png",
		Quality: 90,
		Fit:     "crop",
		Crop:    "faces",
	})
	q := paramsOf(t, got)

	for key, want := range map[string]string{
		"width": "500", "height": "700",
		"format": "png", "quality": "90",
		"fit": "crop", "crop": "faces",
	} {
		if q.Get(key) != want {
			t.Errorf("%s = %q, want %q", key, q.Get(key), want)
		}
	}
}

func TestOptimizedURLDisableAuto(t *testing.T) {
	got := OptimizedURL(assetURL, Options{Width: 100, DisableAuto: true})
	q := paramsOf(t, got)
	if q.Has("auto") {
		t.Error("auto param must be absent when disabled")
	}
	if q.Has("format") {
		t.Error("format must not default when auto conversion is disabled")
	}
}

func TestOptimizedURLPassthrough(t *testing.T) {
	ext := "https://example.com/poster.jpg"
	if got := OptimizedURL(ext, Options{Width: 300}); got != ext {
		t.Errorf("external URL must pass through, got %q", got)
	}
	if got := OptimizedURL("", Options{Width: 300}); got != "" {
		t.Errorf("empty URL must stay empty, got %q", got)
	}
}

func TestOptimizedURLExistingQuery(t *testing.T) {
	got := OptimizedURL(assetURL+"?version=2", Options{Width: 100})
	if strings.Count(got, "?") != 1 {
		t.Errorf("must append with & when a query exists: %q", got)
	}
	if !strings.Contains(got, "version=2") {
		t.Errorf("existing params must survive: %q", got)
	}
}

func TestPresetURL(t *testing.T) {
	got := PresetURL(assetURL, "poster")
	q := paramsOf(t, got)
	if q.Get("width") != "500" || q.Get("height") != "700" || q.Get("fit") != "crop" {
		t.Errorf("poster preset params wrong: %v", q)
	}

	if got := PresetURL(assetURL, "nonexistent"); got != assetURL {
		t.Errorf("unknown preset must return the URL unchanged, got %q", got)
	}
}

func TestSrcSet(t *testing.T) {
	got := SrcSet(assetURL, []int{320, 640})
	parts := strings.Split(got, ", ")
	if len(parts) != 2 {
		t.Fatalf("want 2 srcset entries, got %d: %q", len(parts), got)
	}
	if !strings.HasSuffix(parts[0], " 320w") || !strings.HasSuffix(parts[1], " 640w") {
		t.Errorf("descriptors wrong: %q", got)
	}

	if got := SrcSet("https://example.com/a.jpg", nil); got != "https://example.com/a.jpg" {
		t.Errorf("external URL must pass through, got %q", got)
	}

	defaults := SrcSet(assetURL, nil)
	if strings.Count(defaults, "w") < 6 {
		t.Errorf("default widths should produce 6 entries: %q", defaults)
	}
}

func TestBlurPlaceholder(t *testing.T) {
	q := paramsOf(t, BlurPlaceholder(assetURL))
	if q.Get("width") != "10" || q.Get("quality") != "30" || q.Get("format") != "jpg" {
		t.Errorf("blur params wrong: %v", q)
	}
}
