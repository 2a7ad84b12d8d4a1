// Package cohere adapts the Cohere SDK to the two capabilities this app
// needs: bounded-length summaries and embedding vectors.
package cohere

import (
	"context"
	"errors"
	"fmt"

	cohereapi "github.com/cohere-ai/cohere-go/v2"
	cohereclient "github.com/cohere-ai/cohere-go/v2/client"
)

const (
	DefaultSummaryModel = "command-r-08-2024"
	DefaultEmbedModel   = "embed-english-v3.0"

	// summaryMaxTokens bounds the completion; the caller still truncates
	// the returned text since the token limit is advisory for characters.
	summaryMaxTokens = 280
)

type Client struct {
	api          *cohereclient.Client
	summaryModel string
	embedModel   string
}

func New(apiKey, summaryModel, embedModel string) *Client {
	if summaryModel == "" {
		summaryModel = DefaultSummaryModel
	}
	if embedModel == "" {
		embedModel = DefaultEmbedModel
	}
	return &Client{
		api:          cohereclient.NewClient(cohereclient.WithToken(apiKey)),
		summaryModel: summaryModel,
		embedModel:   embedModel,
	}
}

func (c *Client) Summarize(ctx context.Context, prompt string) (string, error) {
	maxTokens := summaryMaxTokens
	resp, err := c.api.Chat(ctx, &cohereapi.ChatRequest{
		Message:   prompt,
		Model:     &c.summaryModel,
		MaxTokens: &maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("cohere chat: %w", err)
	}
	if resp == nil || resp.Text == "" {
		return "", errors.New("cohere chat returned empty response")
	}
	return resp.Text, nil
}

// EmbedQuery embeds a search query. Queries and documents use different
// input types so Cohere places them in the same vector space.
func (c *Client) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vecs, err := c.embed(ctx, []string{text}, cohereapi.EmbedInputTypeSearchQuery)
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedDocuments embeds stored article content in a batch.
func (c *Client) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	return c.embed(ctx, texts, cohereapi.EmbedInputTypeSearchDocument)
}

func (c *Client) embed(ctx context.Context, texts []string, inputType cohereapi.EmbedInputType) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	resp, err := c.api.V2.Embed(ctx, &cohereapi.V2EmbedRequest{
		Texts:          texts,
		Model:          c.embedModel,
		InputType:      inputType,
		EmbeddingTypes: []cohereapi.EmbeddingType{cohereapi.EmbeddingTypeFloat},
	})
	if err != nil {
		return nil, fmt.Errorf("cohere embed: %w", err)
	}
	if resp == nil || resp.Embeddings == nil || resp.Embeddings.Float == nil {
		return nil, errors.New("cohere embed returned no float embeddings")
	}

	floats := resp.Embeddings.Float
	if len(floats) != len(texts) {
		return nil, errors.New("embedding count mismatch")
	}

	out := make([][]float32, len(floats))
	for i, vec := range floats {
		fv := make([]float32, len(vec))
		for j, v := range vec {
			fv[j] = float32(v)
		}
		out[i] = fv
	}
	return out, nil
}
