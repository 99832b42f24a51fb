// Package catalog materializes slug-addressable views over the content
// source and resolves entries by their public slug. Lookups recompute the
// canonical slug over the full collection with the same normalization used
// for generation, so inconsistently authored upstream slugs can never make
// a page unreachable.
package catalog

import (
	"context"
	"encoding/json"
	"log"
	"sort"

	"aniverse/internal/contentsource"
	"aniverse/internal/slug"
	"aniverse/pkg/models"
)

// Source is the consumed boundary to the external content source.
// *contentsource.Client satisfies it; tests use a fake.
type Source interface {
	FetchAll(ctx context.Context, kind string, opts contentsource.Options, dst any) error
	FetchOne(ctx context.Context, kind, uid string, dst any) error
}

type Service struct {
	src Source
}

func NewService(src Source) *Service {
	return &Service{src: src}
}

// canonical derives the one public slug for an entry: normalized authored
// slug, then normalized legacy url, then a slug generated from the title.
// An entry with none of the three keeps an empty slug and is unlinkable.
func canonical(rawSlug, rawURL, title string) string {
	if s := slug.Normalize(rawSlug); s != "" {
		return s
	}
	if s := slug.Normalize(rawURL); s != "" {
		return s
	}
	return slug.FromTitle(title)
}

func stampAnime(list []models.Anime) {
	for i := range list {
		list[i].Slug = canonical(list[i].Slug, list[i].URL, list[i].Title)
	}
}

func stampManga(list []models.Manga) {
	for i := range list {
		list[i].Slug = canonical(list[i].Slug, list[i].URL, list[i].Title)
	}
}

func stampGenres(list []models.Genre) {
	for i := range list {
		list[i].Slug = canonical(list[i].Slug, list[i].URL, list[i].Title)
	}
}

// ListAnime returns the full anime catalog with genre references resolved
// and canonical slugs stamped. On source failure the catalog is empty and
// the error is returned so callers can tell "no entries" from "source down";
// page handlers deliberately render the empty case either way.
func (s *Service) ListAnime(ctx context.Context) ([]models.Anime, error) {
	var list []models.Anime
	err := s.src.FetchAll(ctx, contentsource.KindAnime, contentsource.Options{
		IncludeReferences: []string{"genres"},
	}, &list)
	if err != nil {
		log.Printf("[catalog] list anime: %v", err)
		return nil, err
	}
	stampAnime(list)
	return list, nil
}

// FeaturedAnime returns the top-rated anime, newest rating first.
func (s *Service) FeaturedAnime(ctx context.Context, limit int) ([]models.Anime, error) {
	if limit <= 0 {
		limit = 5
	}
	var list []models.Anime
	err := s.src.FetchAll(ctx, contentsource.KindAnime, contentsource.Options{
		IncludeReferences: []string{"genres"},
		SortBy:            "rating",
		Descending:        true,
		Limit:             limit,
	}, &list)
	if err != nil {
		log.Printf("[catalog] featured anime: %v", err)
		return nil, err
	}
	stampAnime(list)
	return list, nil
}

// AnimeBySlug resolves one anime by its public slug. Returns (nil, nil) when
// nothing matches.
func (s *Service) AnimeBySlug(ctx context.Context, requested string) (*models.Anime, error) {
	want := slug.Normalize(requested)
	if want == "" {
		return nil, nil
	}
	list, err := s.ListAnime(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].Slug == want {
			return &list[i], nil
		}
	}
	return nil, nil
}

// AnimeByGenre lists anime referencing a genre. The reference-containment
// query is tried server-side first; some source versions reject it on
// reference fields, so an empty result falls back to a client-side scan
// tolerating both resolved and stub genre references.
func (s *Service) AnimeByGenre(ctx context.Context, genreUID string) ([]models.Anime, error) {
	var list []models.Anime
	err := s.src.FetchAll(ctx, contentsource.KindAnime, contentsource.Options{
		IncludeReferences: []string{"genres"},
		ReferenceIn:       map[string]string{"genres": genreUID},
	}, &list)
	if err == nil && len(list) > 0 {
		stampAnime(list)
		return list, nil
	}
	if err != nil {
		log.Printf("[catalog] anime by genre %s: %v", genreUID, err)
	}

	all, err := s.ListAnime(ctx)
	if err != nil {
		return nil, err
	}
	matched := make([]models.Anime, 0, len(all))
	for _, a := range all {
		for _, g := range a.Genres {
			if g.UID == genreUID {
				matched = append(matched, a)
				break
			}
		}
	}
	return matched, nil
}

// ListGenres returns all genres with canonical slugs stamped.
func (s *Service) ListGenres(ctx context.Context) ([]models.Genre, error) {
	var list []models.Genre
	err := s.src.FetchAll(ctx, contentsource.KindGenre, contentsource.Options{}, &list)
	if err != nil {
		log.Printf("[catalog] list genres: %v", err)
		return nil, err
	}
	stampGenres(list)
	return list, nil
}

// GenreBySlug resolves one genre by its public slug. Returns (nil, nil) when
// nothing matches.
func (s *Service) GenreBySlug(ctx context.Context, requested string) (*models.Genre, error) {
	want := slug.Normalize(requested)
	if want == "" {
		return nil, nil
	}
	list, err := s.ListGenres(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].Slug == want {
			return &list[i], nil
		}
	}
	return nil, nil
}

// ListManga returns the full manga catalog with canonical slugs stamped.
func (s *Service) ListManga(ctx context.Context) ([]models.Manga, error) {
	var list []models.Manga
	err := s.src.FetchAll(ctx, contentsource.KindManga, contentsource.Options{}, &list)
	if err != nil {
		log.Printf("[catalog] list manga: %v", err)
		return nil, err
	}
	stampManga(list)
	return list, nil
}

// FeaturedManga returns a limited storefront selection.
func (s *Service) FeaturedManga(ctx context.Context, limit int) ([]models.Manga, error) {
	if limit <= 0 {
		limit = 8
	}
	var list []models.Manga
	err := s.src.FetchAll(ctx, contentsource.KindManga, contentsource.Options{
		Limit: limit,
	}, &list)
	if err != nil {
		log.Printf("[catalog] featured manga: %v", err)
		return nil, err
	}
	stampManga(list)
	return list, nil
}

// MangaBySlug resolves one manga by its public slug. Returns (nil, nil) when
// nothing matches.
func (s *Service) MangaBySlug(ctx context.Context, requested string) (*models.Manga, error) {
	want := slug.Normalize(requested)
	if want == "" {
		return nil, nil
	}
	list, err := s.ListManga(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].Slug == want {
			return &list[i], nil
		}
	}
	return nil, nil
}

// EpisodesByAnime lists an anime's episodes ordered by episode number
// ascending, missing numbers sorting first; ties keep fetch order. The
// association is filtered server-side when the source supports reference
// containment, otherwise the full set is scanned against both resolved and
// raw-string references.
func (s *Service) EpisodesByAnime(ctx context.Context, animeUID string) ([]models.Episode, error) {
	var episodes []models.Episode
	err := s.src.FetchAll(ctx, contentsource.KindEpisode, contentsource.Options{
		ReferenceIn: map[string]string{"anime_reference": animeUID},
		Limit:       50,
	}, &episodes)
	if err != nil {
		log.Printf("[catalog] episodes for %s: %v", animeUID, err)
	}

	if len(episodes) == 0 {
		var all []models.Episode
		err = s.src.FetchAll(ctx, contentsource.KindEpisode, contentsource.Options{
			IncludeReferences: []string{"anime_reference"},
			Limit:             200,
		}, &all)
		if err != nil {
			log.Printf("[catalog] episode fallback for %s: %v", animeUID, err)
			return nil, err
		}
		for _, ep := range all {
			for _, ref := range ep.AnimeReference {
				if ref.UID == animeUID {
					episodes = append(episodes, ep)
					break
				}
			}
		}
	}

	sort.SliceStable(episodes, func(i, j int) bool {
		return episodes[i].EpisodeNumber < episodes[j].EpisodeNumber
	})
	return episodes, nil
}

// EpisodeBySlug resolves one episode by its authored slug with the anime
// reference included. Returns (nil, nil) when nothing matches.
func (s *Service) EpisodeBySlug(ctx context.Context, requested string) (*models.Episode, error) {
	var list []models.Episode
	err := s.src.FetchAll(ctx, contentsource.KindEpisode, contentsource.Options{
		IncludeReferences: []string{"anime_reference"},
		Equals:            map[string]any{"slug": requested},
	}, &list)
	if err != nil {
		log.Printf("[catalog] episode by slug %s: %v", requested, err)
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return &list[0], nil
}

// Homepage returns the homepage entry with featured anime dereferenced and
// slug-stamped. Returns (nil, nil) when the source has no homepage entry.
func (s *Service) Homepage(ctx context.Context) (*models.Homepage, error) {
	var list []models.Homepage
	err := s.src.FetchAll(ctx, contentsource.KindHomepage, contentsource.Options{
		IncludeReferences: []string{"featured_anime"},
	}, &list)
	if err != nil {
		log.Printf("[catalog] homepage: %v", err)
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	hp := list[0]
	stampAnime(hp.FeaturedAnime)
	return &hp, nil
}

// LatestDailyUpdate returns the newest daily update with its embedded
// episode list decoded. A malformed episode payload degrades to an empty
// list rather than an error.
func (s *Service) LatestDailyUpdate(ctx context.Context) (*models.DailyUpdate, error) {
	var list []models.DailyUpdate
	err := s.src.FetchAll(ctx, contentsource.KindDailyUpdate, contentsource.Options{
		SortBy:     "date",
		Descending: true,
		Limit:      1,
	}, &list)
	if err != nil {
		log.Printf("[catalog] daily update: %v", err)
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}

	update := list[0]
	if update.Episodes != "" {
		if err := json.Unmarshal([]byte(update.Episodes), &update.EpisodesList); err != nil {
			log.Printf("[catalog] daily update %s: bad episodes payload: %v", update.UID, err)
			update.EpisodesList = nil
		}
	}
	return &update, nil
}
