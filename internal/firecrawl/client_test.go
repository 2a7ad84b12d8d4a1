package firecrawl

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScrape(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"success": true,
			"data": {
				"markdown": "# Hello\n\nbody text",
				"metadata": {
					"title": "Hello Page",
					"ogImage": "https://example.com/og.png",
					"favicon": "https://example.com/favicon.ico"
				}
			}
		}`))
	}))
	defer srv.Close()

	client := New(srv.URL, "fc-test-key")
	extraction, err := client.Scrape(context.Background(), "https://example.com/article")
	require.NoError(t, err)

	assert.Equal(t, "Bearer fc-test-key", gotAuth)
	assert.Equal(t, "https://example.com/article", gotBody["url"])
	assert.ElementsMatch(t, []any{"markdown", "html"}, gotBody["formats"])

	assert.Equal(t, "# Hello\n\nbody text", extraction.Markdown)
	assert.Equal(t, "Hello Page", extraction.Title)
	assert.Equal(t, "https://example.com/og.png", extraction.OGImage)
	assert.Equal(t, "https://example.com/favicon.ico", extraction.Favicon)
}

func TestScrapeImageFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"markdown":"x","metadata":{"image":"https://example.com/img.png"}}}`))
	}))
	defer srv.Close()

	client := New(srv.URL, "fc-test-key")
	extraction, err := client.Scrape(context.Background(), "https://example.com/article")
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/img.png", extraction.OGImage)
	assert.Empty(t, extraction.Title)
}

func TestScrapeUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"error":"insufficient credits"}`))
	}))
	defer srv.Close()

	client := New(srv.URL, "fc-test-key")
	_, err := client.Scrape(context.Background(), "https://example.com/article")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "firecrawl http 402")
	assert.Contains(t, err.Error(), "insufficient credits")
}

func TestScrapeMissingAPIKey(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		requests++
	}))
	defer srv.Close()

	client := New(srv.URL, "")
	_, err := client.Scrape(context.Background(), "https://example.com/article")

	assert.ErrorIs(t, err, ErrMissingAPIKey)
	assert.Zero(t, requests, "missing credential must fail before any network call")
}

func TestNewDefaultEndpoint(t *testing.T) {
	client := New("", "key")
	assert.Equal(t, DefaultEndpoint, client.Endpoint)
}
