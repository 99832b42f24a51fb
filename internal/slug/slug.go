// Package slug canonicalizes the free-form identifiers stored in the content
// source (authored slugs, legacy url fields, titles) into one comparable,
// URL-path-safe key: lowercase, alphanumeric and hyphens only, no
// leading/trailing/duplicate hyphens.
package slug

import "strings"

// Normalize canonicalizes an authored slug or url value. Leading/trailing
// path separators are stripped first so "/naruto" and "naruto" compare equal.
// Empty input yields "" so callers can fall through to the next slug source.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}
	raw = strings.Trim(raw, "/")
	return collapse(strings.ToLower(raw))
}

// FromTitle derives a slug directly from a display title. Same character
// class rule as Normalize but without path-separator stripping.
func FromTitle(title string) string {
	if title == "" {
		return ""
	}
	return collapse(strings.ToLower(title))
}

// collapse replaces every character outside [a-z0-9-] with a hyphen, then
// squeezes runs of hyphens and trims the ends. Input must already be
// lowercased.
func collapse(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	prevHyphen := false
	for _, r := range s {
		ok := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if ok {
			b.WriteRune(r)
			prevHyphen = false
			continue
		}
		if !prevHyphen {
			b.WriteByte('-')
			prevHyphen = true
		}
	}
	return strings.Trim(b.String(), "-")
}
