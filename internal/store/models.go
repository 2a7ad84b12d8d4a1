package store

import "time"

type Reading struct {
	ID        string
	UserID    string
	URL       string
	Title     string
	OGImage   string
	Favicon   string
	Summary   string
	Content   string
	IsRead    bool
	CreatedAt time.Time
}

// SearchResult is a Reading annotated with its cosine similarity to the
// query embedding. Similarity is 1 - cosine distance, so identical vectors
// score 1.0.
type SearchResult struct {
	Reading
	Similarity float64
}
