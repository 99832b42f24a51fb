package catalog

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"aniverse/internal/profile"
	"aniverse/pkg/images"
	"aniverse/pkg/models"
)

// Handler exposes the catalog over HTTP. Every list endpoint accepts
// ?profile=kids|normal and reduces the view before responding; a failed
// upstream fetch renders the empty view with degraded=true instead of an
// error page.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/anime", h.listAnime)
	r.GET("/anime/featured", h.featuredAnime)
	r.GET("/anime/:slug", h.animeBySlug)
	r.GET("/anime/:slug/episodes", h.episodesByAnime)

	r.GET("/genres", h.listGenres)
	r.GET("/genres/:slug", h.genreBySlug)
	r.GET("/genres/:slug/anime", h.animeByGenre)

	r.GET("/manga", h.listManga)
	r.GET("/manga/featured", h.featuredManga)
	r.GET("/manga/:slug", h.mangaBySlug)

	r.GET("/episodes/:slug", h.episodeBySlug)
	r.GET("/homepage", h.homepage)
	r.GET("/daily-update", h.dailyUpdate)
}

func requestProfile(c *gin.Context) profile.Type {
	p := c.Query("profile")
	if p == "" {
		p = c.GetHeader("X-Profile")
	}
	return profile.FromString(p)
}

// applyImagePreset rewrites artwork URLs through the delivery transform when
// the client asks for a named size via ?image_preset=. Unknown presets and
// non-source URLs pass through unchanged.
func applyImagePreset(c *gin.Context, anime []models.Anime, manga []models.Manga) {
	preset := c.Query("image_preset")
	if preset == "" {
		return
	}
	for i := range anime {
		anime[i].PosterURL = images.PresetURL(anime[i].PosterURL, preset)
	}
	for i := range manga {
		manga[i].CoverImage = images.PresetURL(manga[i].CoverImage, preset)
	}
}

func listResponse[T any](c *gin.Context, items []T, degraded bool) {
	if items == nil {
		items = []T{}
	}
	resp := gin.H{"total": len(items), "items": items}
	if degraded {
		resp["degraded"] = true
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) listAnime(c *gin.Context) {
	list, err := h.Svc.ListAnime(c.Request.Context())
	list = profile.Filter(list, requestProfile(c))
	applyImagePreset(c, list, nil)
	listResponse(c, list, err != nil)
}

func (h *Handler) featuredAnime(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	list, err := h.Svc.FeaturedAnime(c.Request.Context(), limit)
	list = profile.Filter(list, requestProfile(c))
	applyImagePreset(c, list, nil)
	listResponse(c, list, err != nil)
}

func (h *Handler) animeBySlug(c *gin.Context) {
	a, err := h.Svc.AnimeBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog unavailable"})
		return
	}
	if a == nil || !profile.ShouldShow(*a, requestProfile(c)) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *Handler) episodesByAnime(c *gin.Context) {
	a, err := h.Svc.AnimeBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog unavailable"})
		return
	}
	if a == nil || !profile.ShouldShow(*a, requestProfile(c)) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	episodes, err := h.Svc.EpisodesByAnime(c.Request.Context(), a.UID)
	listResponse(c, episodes, err != nil)
}

func (h *Handler) listGenres(c *gin.Context) {
	list, err := h.Svc.ListGenres(c.Request.Context())
	list = profile.FilterGenres(list, requestProfile(c))
	listResponse(c, list, err != nil)
}

func (h *Handler) genreBySlug(c *gin.Context) {
	g, err := h.Svc.GenreBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog unavailable"})
		return
	}
	if g == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if filtered := profile.FilterGenres([]models.Genre{*g}, requestProfile(c)); len(filtered) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, g)
}

func (h *Handler) animeByGenre(c *gin.Context) {
	g, err := h.Svc.GenreBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog unavailable"})
		return
	}
	if g == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	list, err := h.Svc.AnimeByGenre(c.Request.Context(), g.UID)
	list = profile.Filter(list, requestProfile(c))
	applyImagePreset(c, list, nil)
	listResponse(c, list, err != nil)
}

func (h *Handler) listManga(c *gin.Context) {
	list, err := h.Svc.ListManga(c.Request.Context())
	list = profile.Filter(list, requestProfile(c))
	applyImagePreset(c, nil, list)
	listResponse(c, list, err != nil)
}

func (h *Handler) featuredManga(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	list, err := h.Svc.FeaturedManga(c.Request.Context(), limit)
	list = profile.Filter(list, requestProfile(c))
	applyImagePreset(c, nil, list)
	listResponse(c, list, err != nil)
}

func (h *Handler) mangaBySlug(c *gin.Context) {
	m, err := h.Svc.MangaBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog unavailable"})
		return
	}
	if m == nil || !profile.ShouldShow(*m, requestProfile(c)) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *Handler) episodeBySlug(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))
	ep, err := h.Svc.EpisodeBySlug(c.Request.Context(), slug)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog unavailable"})
		return
	}
	if ep == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, ep)
}

func (h *Handler) homepage(c *gin.Context) {
	hp, err := h.Svc.Homepage(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog unavailable"})
		return
	}
	if hp == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	hp.FeaturedAnime = profile.Filter(hp.FeaturedAnime, requestProfile(c))
	c.JSON(http.StatusOK, hp)
}

func (h *Handler) dailyUpdate(c *gin.Context) {
	update, err := h.Svc.LatestDailyUpdate(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog unavailable"})
		return
	}
	if update == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, update)
}
