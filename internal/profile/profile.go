// Package profile reduces catalog views to what a viewer profile may see.
// It is a pure predicate layer: no entry is mutated, retained order is the
// input order, and the normal profile is the identity.
package profile

import (
	"log"
	"strings"

	"aniverse/pkg/models"
)

type Type string

const (
	Kids   Type = "kids"
	Normal Type = "normal"
)

// FromString maps a request value to a profile, defaulting to Normal for
// anything unrecognized.
func FromString(s string) Type {
	if strings.ToLower(strings.TrimSpace(s)) == string(Kids) {
		return Kids
	}
	return Normal
}

// Audience tag values set by the provisioning step. When a tag is present it
// is authoritative and genre-based blocking is skipped entirely.
const (
	AudienceAll    = "all"
	AudienceKids   = "kids"
	AudienceNormal = "normal"
)

// Config is a profile's static visibility policy.
type Config struct {
	Name           string
	Description    string
	BlockedGenres  []string // keyword block-list, matched as substrings
	AllowedRatings []string // nil means all ratings allowed
}

// Keywords hidden from the kids profile. Substring matching is intentional:
// "Psychological Thriller" must be caught by "thriller" without an exact
// match list, over-blocking rather than under-blocking.
var kidsBlockedGenres = []string{
	"action",
	"horror",
	"psychological",
	"thriller",
	"ecchi",
	"violence",
	"mature",
	"seinen",
	"josei",
}

var configs = map[Type]Config{
	Kids: {
		Name:           "Kids",
		Description:    "Safe content for children",
		BlockedGenres:  kidsBlockedGenres,
		AllowedRatings: []string{"G", "PG", "TV-Y", "TV-Y7", "TV-G", "TV-PG"},
	},
	Normal: {
		Name:        "Normal",
		Description: "Full content access",
	},
}

// ConfigFor returns the static policy for a profile.
func ConfigFor(p Type) Config {
	return configs[p]
}

// Entry is what the filter needs to know about a catalog entry.
type Entry interface {
	Audience() string
	RatingLabel() string
	GenreList() []models.GenreRef
}

// ShouldShow decides whether one entry is visible to a profile.
func ShouldShow(e Entry, p Type) bool {
	if p == Normal {
		return true
	}
	cfg := configs[p]

	// Explicit audience tag wins over any genre inspection.
	switch e.Audience() {
	case AudienceAll, string(p):
		return true
	case "":
		// fall through to genre-based blocking
	default:
		return false
	}

	genres := e.GenreList()

	// If the source failed to dereference the genre field we cannot judge
	// the category. Allow rather than guess, and say so.
	if len(genres) > 0 && !genres[0].Resolved() {
		log.Printf("[profile] unresolved genre reference %q, allowing entry", genres[0].UID)
		return true
	}

	for _, g := range genres {
		name := strings.ToLower(g.Title)
		gslug := strings.TrimPrefix(strings.ToLower(g.Slug), "/")
		for _, blocked := range cfg.BlockedGenres {
			if strings.Contains(name, blocked) || strings.Contains(gslug, blocked) {
				return false
			}
		}
	}

	if cfg.AllowedRatings != nil && e.RatingLabel() != "" {
		allowed := false
		for _, r := range cfg.AllowedRatings {
			if r == e.RatingLabel() {
				allowed = true
				break
			}
		}
		if !allowed {
			return false
		}
	}

	return true
}

// Filter keeps the entries visible to p, preserving relative order. For
// Normal the input slice is returned as-is.
func Filter[E Entry](entries []E, p Type) []E {
	if p == Normal {
		return entries
	}
	out := make([]E, 0, len(entries))
	for _, e := range entries {
		if ShouldShow(e, p) {
			out = append(out, e)
		}
	}
	return out
}

// FilterGenres removes categories whose display name or slug contains a
// blocked keyword. Identity for Normal.
func FilterGenres(genres []models.Genre, p Type) []models.Genre {
	if p == Normal {
		return genres
	}
	cfg := configs[p]

	out := make([]models.Genre, 0, len(genres))
	for _, g := range genres {
		name := strings.ToLower(g.Title)
		gslug := strings.TrimPrefix(strings.ToLower(g.Slug), "/")
		blocked := false
		for _, kw := range cfg.BlockedGenres {
			if strings.Contains(name, kw) || strings.Contains(gslug, kw) {
				blocked = true
				break
			}
		}
		if !blocked {
			out = append(out, g)
		}
	}
	return out
}
