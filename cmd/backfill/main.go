// Command backfill embeds readings that were saved without an embedding
// vector. Ingestion never writes embeddings, so this job is how stored
// articles become searchable. It is safe to re-run; rows with a vector
// are skipped.
package main

import (
	"context"
	"flag"
	"log"

	"github.com/cuevaio/reading-list-app/internal/cohere"
	"github.com/cuevaio/reading-list-app/internal/config"
	"github.com/cuevaio/reading-list-app/internal/store"
)

// embedContentLimit caps the content passed to the embedding service,
// matching the bound used for summarization prompts.
const embedContentLimit = 3000

func main() {
	batchSize := flag.Int("batch", 32, "readings embedded per request")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.Cohere.APIKey == "" {
		log.Fatal("COHERE_API_KEY is required")
	}

	s, err := store.NewStore(cfg.Database.URL)
	if err != nil {
		log.Fatalf("initialize database: %v", err)
	}
	defer s.Close()

	ai := cohere.New(cfg.Cohere.APIKey, cfg.Cohere.SummaryModel, cfg.Cohere.EmbedModel)

	ctx := context.Background()
	total := 0

	for {
		readings, err := s.ListReadingsMissingEmbedding(ctx, *batchSize)
		if err != nil {
			log.Fatalf("list readings missing embedding: %v", err)
		}
		if len(readings) == 0 {
			break
		}

		texts := make([]string, len(readings))
		for i, r := range readings {
			text := truncateRunes(r.Content, embedContentLimit)
			if text == "" {
				// Pages with no extractable content still get a vector
				// from their title so search can find them.
				text = r.Title
			}
			texts[i] = text
		}

		embeddings, err := ai.EmbedDocuments(ctx, texts)
		if err != nil {
			log.Fatalf("embed batch: %v", err)
		}

		for i, r := range readings {
			if err := s.SetReadingEmbedding(ctx, r.ID, embeddings[i]); err != nil {
				log.Fatalf("store embedding for reading %s: %v", r.ID, err)
			}
		}

		total += len(readings)
		log.Printf("embedded %d readings (total %d)", len(readings), total)
	}

	log.Printf("backfill complete: %d readings embedded", total)
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
