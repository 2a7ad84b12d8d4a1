package firecrawl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrMissingAPIKey is returned when a scrape is attempted without a
// configured credential. Callers treat this as a configuration error,
// not an upstream failure.
var ErrMissingAPIKey = errors.New("firecrawl api key not configured")

const DefaultEndpoint = "https://api.firecrawl.dev/v1/scrape"

type Client struct {
	Endpoint string
	APIKey   string
	Client   *http.Client
}

func New(endpoint, apiKey string) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		Endpoint: endpoint,
		APIKey:   apiKey,
		Client:   http.DefaultClient,
	}
}

// Extraction is the main content of a scraped page plus its metadata.
// Title, OGImage and Favicon may be empty when the page does not
// provide them.
type Extraction struct {
	Markdown string
	Title    string
	OGImage  string
	Favicon  string
}

type scrapeResponse struct {
	Data struct {
		Markdown string `json:"markdown"`
		Metadata struct {
			Title   string `json:"title"`
			OGImage string `json:"ogImage"`
			Image   string `json:"image"`
			Favicon string `json:"favicon"`
		} `json:"metadata"`
	} `json:"data"`
}

func (c *Client) Scrape(ctx context.Context, pageURL string) (*Extraction, error) {
	if c.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	b, err := json.Marshal(map[string]any{
		"url":     pageURL,
		"formats": []string{"markdown", "html"},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.Endpoint,
		bytes.NewReader(b),
	)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("firecrawl http %d: %s", resp.StatusCode, raw)
	}

	var parsed scrapeResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode scrape response: %w", err)
	}

	image := parsed.Data.Metadata.OGImage
	if image == "" {
		image = parsed.Data.Metadata.Image
	}

	return &Extraction{
		Markdown: parsed.Data.Markdown,
		Title:    parsed.Data.Metadata.Title,
		OGImage:  image,
		Favicon:  parsed.Data.Metadata.Favicon,
	}, nil
}
