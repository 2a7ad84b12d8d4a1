package api

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cuevaio/reading-list-app/internal/firecrawl"
	"github.com/cuevaio/reading-list-app/internal/store"
)

const (
	// MaxSummaryLength bounds stored summaries regardless of what the
	// generation service returns.
	MaxSummaryLength = 280

	// maxPromptContent caps how much extracted content goes into the
	// summarization prompt.
	maxPromptContent = 3000

	defaultTitle       = "Untitled Article"
	defaultScrapeTitle = "Untitled"

	SourceDatabase = "database"
	SourceScrape   = "scrape"
)

var (
	ErrInvalidURL = errors.New("invalid url")
	ErrEmptyQuery = errors.New("empty search query")
)

// UpstreamError marks a failure of an external service. The wrapped
// detail is logged at the request boundary, never returned to callers.
type UpstreamError struct {
	Service string
	Err     error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

type Extractor interface {
	Scrape(ctx context.Context, pageURL string) (*firecrawl.Extraction, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, prompt string) (string, error)
}

type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// ReadingService orchestrates the add-article workflow and the thin
// retrieval operations over stored readings. All collaborators are
// injected so the workflow runs against deterministic stand-ins in
// tests.
type ReadingService struct {
	Store      store.Store
	Scraper    Extractor
	Summarizer Summarizer
	Embedder   Embedder
	Cache      ListingCache

	SearchThreshold float64
	SearchLimit     int
}

// Ingest turns a submitted URL into a persisted Reading.
//
// The sequence is strictly: validate, dedup-check, extract, summarize,
// insert. Each external failure is terminal for the request; nothing is
// retried and no partial state is rolled back (a failed insert simply
// wastes the extraction and summarization calls). The dedup pre-check
// avoids wasted upstream calls, but the authoritative duplicate guard
// is the store's UNIQUE(user_id, url) constraint, which surfaces here
// as store.ErrAlreadyExists on insert.
func (s *ReadingService) Ingest(ctx context.Context, userID, rawURL string) (*store.Reading, error) {
	if err := validateURL(rawURL); err != nil {
		return nil, err
	}

	_, err := s.Store.GetReadingByURL(ctx, userID, rawURL)
	if err == nil {
		return nil, store.ErrAlreadyExists
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("check existing reading: %w", err)
	}

	extraction, err := s.Scraper.Scrape(ctx, rawURL)
	if err != nil {
		if errors.Is(err, firecrawl.ErrMissingAPIKey) {
			return nil, err
		}
		return nil, &UpstreamError{Service: "firecrawl", Err: err}
	}

	title := extraction.Title
	if title == "" {
		title = defaultTitle
	}

	summary, err := s.Summarizer.Summarize(ctx, summaryPrompt(extraction.Markdown))
	if err != nil {
		return nil, &UpstreamError{Service: "cohere", Err: err}
	}

	reading := &store.Reading{
		ID:        uuid.NewString(),
		UserID:    userID,
		URL:       rawURL,
		Title:     title,
		OGImage:   extraction.OGImage,
		Favicon:   extraction.Favicon,
		Summary:   truncateRunes(summary, MaxSummaryLength),
		Content:   extraction.Markdown,
		IsRead:    false,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.Store.CreateReading(ctx, reading); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("insert reading: %w", err)
	}

	s.Cache.Invalidate(ctx, userID)
	return reading, nil
}

// FetchResult is either a stored Reading (Source "database") or a fresh
// unpersisted extraction (Source "scrape").
type FetchResult struct {
	Source     string
	Reading    *store.Reading
	Scraped    *firecrawl.Extraction
	ScrapedURL string
}

// FetchOrScrape returns the owned Reading for a URL if one exists, and
// otherwise scrapes the page without summarizing or persisting
// anything. It is side-effect-free on the store.
func (s *ReadingService) FetchOrScrape(ctx context.Context, userID, rawURL string) (*FetchResult, error) {
	if err := validateURL(rawURL); err != nil {
		return nil, err
	}

	reading, err := s.Store.GetReadingByURL(ctx, userID, rawURL)
	if err == nil {
		return &FetchResult{Source: SourceDatabase, Reading: reading}, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("check existing reading: %w", err)
	}

	extraction, err := s.Scraper.Scrape(ctx, rawURL)
	if err != nil {
		if errors.Is(err, firecrawl.ErrMissingAPIKey) {
			return nil, err
		}
		return nil, &UpstreamError{Service: "firecrawl", Err: err}
	}

	if extraction.Title == "" {
		extraction.Title = defaultScrapeTitle
	}

	return &FetchResult{Source: SourceScrape, Scraped: extraction, ScrapedURL: rawURL}, nil
}

// Search embeds the query and delegates ranking entirely to the store's
// similarity search; no client-side re-scoring happens.
func (s *ReadingService) Search(ctx context.Context, userID, query string) ([]store.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	embedding, err := s.Embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, &UpstreamError{Service: "cohere", Err: err}
	}

	results, err := s.Store.SearchReadings(ctx, userID, embedding, s.SearchThreshold, s.SearchLimit)
	if err != nil {
		return nil, fmt.Errorf("search readings: %w", err)
	}
	return results, nil
}

func (s *ReadingService) List(ctx context.Context, userID string) ([]store.Reading, error) {
	readings, err := s.Store.ListReadingsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list readings: %w", err)
	}
	return readings, nil
}

func (s *ReadingService) ToggleRead(ctx context.Context, userID, id string) (*store.Reading, error) {
	reading, err := s.Store.ToggleReadingRead(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	s.Cache.Invalidate(ctx, userID)
	return reading, nil
}

func (s *ReadingService) Delete(ctx context.Context, userID, id string) error {
	if err := s.Store.DeleteReading(ctx, userID, id); err != nil {
		return err
	}
	s.Cache.Invalidate(ctx, userID)
	return nil
}

func validateURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return ErrInvalidURL
	}
	u, err := url.ParseRequestURI(raw)
	if err != nil || u.Host == "" {
		return ErrInvalidURL
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ErrInvalidURL
	}
	return nil
}

func summaryPrompt(content string) string {
	return fmt.Sprintf(
		"Summarize this article in maximum %d characters. Be concise and capture the main point:\n\n%s",
		MaxSummaryLength,
		truncateRunes(content, maxPromptContent),
	)
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
