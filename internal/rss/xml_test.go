package rss

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	feed := Feed{
		Title:       "ReadLater — Unread Articles",
		Link:        "/api/articles",
		Description: "Articles saved for later.",
		Items: []Item{
			{
				Title:       "Go Concurrency Patterns",
				Link:        "https://example.com/go",
				GUID:        "r1",
				PubDate:     time.Date(2026, 1, 7, 12, 0, 0, 0, time.UTC),
				Description: "A tour of goroutines & channels.",
			},
		},
	}

	out, err := Render(feed)
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, `<rss version="2.0">`)
	assert.Contains(t, s, "<title>ReadLater — Unread Articles</title>")
	assert.Contains(t, s, "<guid>r1</guid>")
	assert.Contains(t, s, "Wed, 07 Jan 2026 12:00:00 +0000")
	// xml escaping
	assert.Contains(t, s, "goroutines &amp; channels")
}

func TestRenderEmptyFeed(t *testing.T) {
	out, err := Render(Feed{Title: "Empty"})
	require.NoError(t, err)
	assert.NotContains(t, string(out), "<item>")
}
