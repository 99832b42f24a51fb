package models

// Anime is one anime entry from the content source. Slug holds the canonical
// slug after the catalog layer stamps it; the raw authored slug/url fields
// are only slug sources and are not exposed separately.
type Anime struct {
	UID           string     `json:"uid"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug,omitempty"`
	URL           string     `json:"url,omitempty"`
	Description   string     `json:"description,omitempty"`
	PosterURL     string     `json:"poster_url,omitempty"`
	Rating        float64    `json:"rating,omitempty"`
	ReleaseYear   int        `json:"release_year,omitempty"`
	Status        string     `json:"status,omitempty"`
	Genres        []GenreRef `json:"genres,omitempty"`
	AudienceTag   string     `json:"audience_tag,omitempty"`
	ContentRating string     `json:"content_rating,omitempty"`
}

func (a Anime) Audience() string      { return a.AudienceTag }
func (a Anime) RatingLabel() string   { return a.ContentRating }
func (a Anime) GenreList() []GenreRef { return a.Genres }

// Genre is one genre/category entry.
type Genre struct {
	UID         string `json:"uid"`
	Title       string `json:"title"`
	Slug        string `json:"slug,omitempty"`
	URL         string `json:"url,omitempty"`
	Description string `json:"description,omitempty"`
}

// Episode is one episode entry tied to an anime through anime_reference.
type Episode struct {
	UID            string     `json:"uid"`
	Title          string     `json:"title"`
	Slug           string     `json:"slug,omitempty"`
	EpisodeTitle   string     `json:"episode_title,omitempty"`
	EpisodeNumber  int        `json:"episode_number,omitempty"`
	Synopsis       string     `json:"synopsis,omitempty"`
	AirDate        string     `json:"air_date,omitempty"`
	IsPremium      bool       `json:"is_premium,omitempty"`
	AnimeReference []EntryRef `json:"anime_reference,omitempty"`
}

// Homepage is the singleton homepage entry with its featured anime
// dereferenced.
type Homepage struct {
	UID           string  `json:"uid"`
	Title         string  `json:"title"`
	HeroHeading   string  `json:"hero_heading,omitempty"`
	HeroSubtitle  string  `json:"hero_subtitle,omitempty"`
	FeaturedAnime []Anime `json:"featured_anime,omitempty"`
}

// DailyUpdate is the newest recently-updated block. The source stores the
// episode list as a JSON-encoded string in Episodes; the catalog layer
// decodes it into EpisodesList.
type DailyUpdate struct {
	UID          string          `json:"uid"`
	Title        string          `json:"title"`
	Date         string          `json:"date,omitempty"`
	Episodes     string          `json:"episodes,omitempty"`
	EpisodesList []UpdateEpisode `json:"episodes_list,omitempty"`
}

// UpdateEpisode is one row inside a daily update's decoded episode list.
type UpdateEpisode struct {
	AnimeTitle    string `json:"anime_title,omitempty"`
	AnimeImage    string `json:"anime_image,omitempty"`
	AnimeMALID    int    `json:"anime_mal_id,omitempty"`
	EpisodeTitle  string `json:"episode_title,omitempty"`
	EpisodeNumber int    `json:"episode_number,omitempty"`
	AirDate       string `json:"air_date,omitempty"`
}
