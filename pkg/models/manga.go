package models

// Manga is one purchasable manga entry. Same slug handling as Anime: the
// catalog layer stamps Slug with the canonical value before the entry leaves
// the core.
type Manga struct {
	UID           string     `json:"uid"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug,omitempty"`
	URL           string     `json:"url,omitempty"`
	Author        string     `json:"author,omitempty"`
	Description   string     `json:"description,omitempty"`
	CoverImage    string     `json:"cover_image,omitempty"`
	Price         float64    `json:"price,omitempty"`
	Volumes       int        `json:"volumes,omitempty"`
	Status        string     `json:"status,omitempty"`
	Genres        []GenreRef `json:"genres,omitempty"`
	AudienceTag   string     `json:"audience_tag,omitempty"`
	ContentRating string     `json:"content_rating,omitempty"`
}

func (m Manga) Audience() string      { return m.AudienceTag }
func (m Manga) RatingLabel() string   { return m.ContentRating }
func (m Manga) GenreList() []GenreRef { return m.Genres }
