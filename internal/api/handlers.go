package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cuevaio/reading-list-app/internal/firecrawl"
	"github.com/cuevaio/reading-list-app/internal/rss"
	"github.com/cuevaio/reading-list-app/internal/store"
)

type Handlers struct {
	svc   *ReadingService
	cache ListingCache
}

func NewHandlers(svc *ReadingService, cache ListingCache) *Handlers {
	return &Handlers{
		svc:   svc,
		cache: cache,
	}
}

// SubmitArticle handles POST /api/articles.
func (h *Handlers) SubmitArticle(c *gin.Context) {
	userID, ok := GetUserID(c)
	if !ok {
		AbortJSONError(c, http.StatusInternalServerError, ErrorCodeInternal, "missing user context")
		return
	}

	var req struct {
		URL string `json:"url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		JSONErrorWithDetails(c, http.StatusBadRequest, ErrorCodeValidation, "invalid request body", err.Error())
		return
	}
	if req.URL == "" {
		JSONError(c, http.StatusBadRequest, ErrorCodeValidation, "URL is required")
		return
	}

	reading, err := h.svc.Ingest(c.Request.Context(), userID, req.URL)
	if err != nil {
		h.respondError(c, err, "Failed to scrape article")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"id":       reading.ID,
			"url":      reading.URL,
			"title":    reading.Title,
			"og_image": nullable(reading.OGImage),
			"favicon":  nullable(reading.Favicon),
			"summary":  reading.Summary,
		},
	})
}

// FetchArticle handles GET /api/articles/fetch?url=. It returns the
// stored reading when one exists, and a fresh unpersisted scrape
// otherwise, discriminated by the "source" field.
func (h *Handlers) FetchArticle(c *gin.Context) {
	userID, ok := GetUserID(c)
	if !ok {
		AbortJSONError(c, http.StatusInternalServerError, ErrorCodeInternal, "missing user context")
		return
	}

	rawURL := c.Query("url")
	if rawURL == "" {
		JSONError(c, http.StatusBadRequest, ErrorCodeValidation, "URL is required")
		return
	}

	result, err := h.svc.FetchOrScrape(c.Request.Context(), userID, rawURL)
	if err != nil {
		h.respondError(c, err, "Failed to scrape URL")
		return
	}

	if result.Source == SourceDatabase {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"source":  SourceDatabase,
			"data":    readingJSON(result.Reading, true),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"source":  SourceScrape,
		"data": gin.H{
			"url":      result.ScrapedURL,
			"title":    result.Scraped.Title,
			"og_image": nullable(result.Scraped.OGImage),
			"favicon":  nullable(result.Scraped.Favicon),
			"content":  result.Scraped.Markdown,
		},
	})
}

// Search handles POST /api/search.
func (h *Handlers) Search(c *gin.Context) {
	userID, ok := GetUserID(c)
	if !ok {
		AbortJSONError(c, http.StatusInternalServerError, ErrorCodeInternal, "missing user context")
		return
	}

	var req struct {
		Query string `json:"query"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		JSONErrorWithDetails(c, http.StatusBadRequest, ErrorCodeValidation, "invalid request body", err.Error())
		return
	}

	results, err := h.svc.Search(c.Request.Context(), userID, req.Query)
	if err != nil {
		h.respondError(c, err, "Search failed")
		return
	}

	out := make([]gin.H, 0, len(results))
	for i := range results {
		entry := readingJSON(&results[i].Reading, false)
		entry["similarity"] = results[i].Similarity
		out = append(out, entry)
	}

	c.JSON(http.StatusOK, gin.H{"results": out})
}

// ListArticles handles GET /api/articles. The rendered response is
// cached per user and invalidated whenever the user's readings change.
func (h *Handlers) ListArticles(c *gin.Context) {
	userID, ok := GetUserID(c)
	if !ok {
		AbortJSONError(c, http.StatusInternalServerError, ErrorCodeInternal, "missing user context")
		return
	}

	if body, ok := h.cache.Get(c.Request.Context(), userID); ok {
		c.Data(http.StatusOK, "application/json; charset=utf-8", body)
		return
	}

	readings, err := h.svc.List(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err, "Failed to list articles")
		return
	}

	out := make([]gin.H, 0, len(readings))
	for i := range readings {
		out = append(out, readingJSON(&readings[i], false))
	}

	body, err := json.Marshal(gin.H{"readings": out})
	if err != nil {
		AbortJSONError(c, http.StatusInternalServerError, ErrorCodeInternal, "failed to render listing")
		return
	}

	h.cache.Set(c.Request.Context(), userID, body)
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// ToggleRead handles POST /api/articles/:id/toggle.
func (h *Handlers) ToggleRead(c *gin.Context) {
	userID, ok := GetUserID(c)
	if !ok {
		AbortJSONError(c, http.StatusInternalServerError, ErrorCodeInternal, "missing user context")
		return
	}

	reading, err := h.svc.ToggleRead(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.respondError(c, err, "Failed to update article")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    readingJSON(reading, false),
	})
}

// DeleteArticle handles DELETE /api/articles/:id.
func (h *Handlers) DeleteArticle(c *gin.Context) {
	userID, ok := GetUserID(c)
	if !ok {
		AbortJSONError(c, http.StatusInternalServerError, ErrorCodeInternal, "missing user context")
		return
	}

	if err := h.svc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.respondError(c, err, "Failed to delete article")
		return
	}

	c.Status(http.StatusNoContent)
}

// UnreadFeed handles GET /api/articles/feed, rendering the user's
// unread readings as RSS 2.0.
func (h *Handlers) UnreadFeed(c *gin.Context) {
	userID, ok := GetUserID(c)
	if !ok {
		AbortJSONError(c, http.StatusInternalServerError, ErrorCodeInternal, "missing user context")
		return
	}

	readings, err := h.svc.List(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err, "Failed to list articles")
		return
	}

	items := make([]rss.Item, 0, len(readings))
	for _, r := range readings {
		if r.IsRead {
			continue
		}
		items = append(items, rss.Item{
			Title:       r.Title,
			Link:        r.URL,
			GUID:        r.ID,
			PubDate:     r.CreatedAt,
			Description: r.Summary,
		})
	}

	feed := rss.Feed{
		Title:       "ReadLater — Unread Articles",
		Link:        "/api/articles",
		Description: "Articles saved for later, not yet read.",
		Items:       items,
	}

	body, err := rss.Render(feed)
	if err != nil {
		AbortJSONError(c, http.StatusInternalServerError, ErrorCodeInternal, "failed to render feed")
		return
	}

	c.Data(http.StatusOK, "application/rss+xml", body)
}

// respondError maps workflow errors to the response taxonomy. Upstream
// detail is logged here and replaced with the endpoint's generic
// message.
func (h *Handlers) respondError(c *gin.Context, err error, upstreamMessage string) {
	switch {
	case errors.Is(err, ErrInvalidURL):
		JSONError(c, http.StatusBadRequest, ErrorCodeValidation, "Invalid URL format")
	case errors.Is(err, ErrEmptyQuery):
		JSONError(c, http.StatusBadRequest, ErrorCodeValidation, "Search query is required")
	case errors.Is(err, store.ErrAlreadyExists):
		JSONError(c, http.StatusConflict, ErrorCodeConflict, "Article already exists in your reading list")
	case errors.Is(err, store.ErrNotFound):
		JSONError(c, http.StatusNotFound, ErrorCodeNotFound, "article not found")
	case errors.Is(err, firecrawl.ErrMissingAPIKey):
		log.Printf("configuration error: %v", err)
		JSONError(c, http.StatusInternalServerError, ErrorCodeConfiguration, "Firecrawl API key not configured")
	default:
		var upstream *UpstreamError
		if errors.As(err, &upstream) {
			log.Printf("%s error: %v", upstream.Service, upstream.Err)
			JSONError(c, http.StatusInternalServerError, ErrorCodeUpstream, upstreamMessage)
			return
		}
		log.Printf("internal error: %v", err)
		JSONError(c, http.StatusInternalServerError, ErrorCodeInternal, "Internal server error")
	}
}

func readingJSON(r *store.Reading, includeContent bool) gin.H {
	out := gin.H{
		"id":         r.ID,
		"url":        r.URL,
		"title":      r.Title,
		"og_image":   nullable(r.OGImage),
		"favicon":    nullable(r.Favicon),
		"summary":    r.Summary,
		"is_read":    r.IsRead,
		"created_at": r.CreatedAt.Format(time.RFC3339),
	}
	if includeContent {
		out["content"] = r.Content
	}
	return out
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
