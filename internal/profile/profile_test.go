package profile

import (
	"bytes"
	"log"
	"strings"
	"testing"

	"aniverse/pkg/models"
)

func anime(title string, genres ...models.GenreRef) models.Anime {
	return models.Anime{UID: "uid-" + title, Title: title, Genres: genres}
}

func resolved(title string) models.GenreRef {
	return models.GenreRef{UID: "g-" + title, Title: title, Slug: "/" + strings.ToLower(title)}
}

func TestFromString(t *testing.T) {
	if FromString("kids") != Kids {
		t.Error("kids should map to Kids")
	}
	if FromString(" KIDS ") != Kids {
		t.Error("case/space variants should map to Kids")
	}
	for _, s := range []string{"", "normal", "garbage"} {
		if FromString(s) != Normal {
			t.Errorf("FromString(%q) should default to Normal", s)
		}
	}
}

func TestFilterNormalIsIdentity(t *testing.T) {
	list := []models.Anime{
		anime("Berserk", resolved("Horror")),
		anime("Comedy Club", resolved("Comedy")),
	}
	got := Filter(list, Normal)
	if len(got) != len(list) {
		t.Fatalf("normal filter changed membership: %d vs %d", len(got), len(list))
	}
	for i := range got {
		if got[i].UID != list[i].UID {
			t.Errorf("normal filter changed order at %d", i)
		}
	}
}

func TestAudienceTagAuthoritative(t *testing.T) {
	// Tagged normal: hidden from kids even with a harmless genre list.
	a := anime("Tagged", resolved("Comedy"))
	a.AudienceTag = AudienceNormal
	if ShouldShow(a, Kids) {
		t.Error("audience_tag=normal must hide the entry from kids")
	}

	// Tagged kids or all: shown even with a blocked genre.
	for _, tag := range []string{AudienceKids, AudienceAll} {
		b := anime("Tagged", resolved("Horror"))
		b.AudienceTag = tag
		if !ShouldShow(b, Kids) {
			t.Errorf("audience_tag=%s must show the entry regardless of genres", tag)
		}
	}
}

func TestGenreKeywordBlocking(t *testing.T) {
	blocked := anime("Monster", resolved("Psychological Thriller"))
	if ShouldShow(blocked, Kids) {
		t.Error("'Psychological Thriller' must be blocked for kids by substring match")
	}

	kept := anime("Nichijou", resolved("Comedy"))
	if !ShouldShow(kept, Kids) {
		t.Error("'Comedy' must be retained for kids")
	}

	// Slug-only match, with the leading separator stripped before comparison.
	slugOnly := anime("X", models.GenreRef{UID: "g1", Title: "Weird Name", Slug: "/horror-collection"})
	if ShouldShow(slugOnly, Kids) {
		t.Error("blocked keyword in slug must hide the entry")
	}
}

func TestUnresolvedStubAllowsWithDiagnostic(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(prev)

	a := anime("Ghosted", models.GenreRef{UID: "g1"})
	if !ShouldShow(a, Kids) {
		t.Error("unresolved first genre stub must conservatively allow")
	}
	if !strings.Contains(buf.String(), "unresolved genre reference") {
		t.Errorf("expected diagnostic, log output was %q", buf.String())
	}
}

func TestRatingAllowList(t *testing.T) {
	a := anime("Rated", resolved("Comedy"))
	a.ContentRating = "R"
	if ShouldShow(a, Kids) {
		t.Error("rating outside the kids allow-list must be hidden")
	}

	a.ContentRating = "TV-Y7"
	if !ShouldShow(a, Kids) {
		t.Error("allow-listed rating must be shown")
	}

	a.ContentRating = "R"
	if !ShouldShow(a, Normal) {
		t.Error("normal profile has no rating restrictions")
	}
}

func TestFilterKeepsOrder(t *testing.T) {
	list := []models.Anime{
		anime("A", resolved("Comedy")),
		anime("B", resolved("Horror")),
		anime("C", resolved("Romance")),
		anime("D", resolved("Thriller")),
		anime("E", resolved("Sports")),
	}
	got := Filter(list, Kids)
	want := []string{"A", "C", "E"}
	if len(got) != len(want) {
		t.Fatalf("got %d entries, want %d", len(got), len(want))
	}
	for i, title := range want {
		if got[i].Title != title {
			t.Errorf("position %d: got %q, want %q", i, got[i].Title, title)
		}
	}
}

func TestFilterGenres(t *testing.T) {
	genres := []models.Genre{
		{UID: "g1", Title: "Comedy", Slug: "comedy"},
		{UID: "g2", Title: "Psychological Thriller", Slug: "psychological-thriller"},
		{UID: "g3", Title: "Sports", Slug: "/sports"},
		{UID: "g4", Title: "Family", Slug: "/josei-picks"},
	}

	if got := FilterGenres(genres, Normal); len(got) != 4 {
		t.Fatalf("normal must keep all genres, got %d", len(got))
	}

	got := FilterGenres(genres, Kids)
	if len(got) != 2 || got[0].UID != "g1" || got[1].UID != "g3" {
		t.Fatalf("kids filter wrong: %+v", got)
	}
}

func TestMangaSatisfiesEntry(t *testing.T) {
	m := models.Manga{UID: "m1", Title: "Berserk", Genres: []models.GenreRef{resolved("Seinen")}}
	if ShouldShow(m, Kids) {
		t.Error("seinen manga must be hidden from kids")
	}
	got := Filter([]models.Manga{m}, Kids)
	if len(got) != 0 {
		t.Error("filter over manga slice should drop the entry")
	}
}
