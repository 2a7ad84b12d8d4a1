package main

import (
	"log"

	"github.com/clerk/clerk-sdk-go/v2"

	"github.com/cuevaio/reading-list-app/internal/api"
	"github.com/cuevaio/reading-list-app/internal/cohere"
	"github.com/cuevaio/reading-list-app/internal/config"
	"github.com/cuevaio/reading-list-app/internal/firecrawl"
	"github.com/cuevaio/reading-list-app/internal/store"
)

type app struct {
	config   *config.Config
	store    store.Store
	handlers *api.Handlers
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	s, err := store.NewStore(cfg.Database.URL)
	if err != nil {
		log.Fatalf("initialize database: %v", err)
	}
	defer s.Close()

	if cfg.Clerk.SecretKey != "" {
		clerk.SetKey(cfg.Clerk.SecretKey)
		log.Printf("clerk authentication enabled")
	} else {
		log.Printf("warning: CLERK_SECRET_KEY not set, all requests will be rejected as unauthorized")
	}

	var cache api.ListingCache
	if cfg.Cache.RedisAddr != "" {
		cache = api.NewRedisCache(cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB, cfg.Cache.TTL)
		log.Printf("redis listing cache enabled (%s)", cfg.Cache.RedisAddr)
	} else {
		cache = api.NewMemoryCache(cfg.Cache.TTL)
	}

	ai := cohere.New(cfg.Cohere.APIKey, cfg.Cohere.SummaryModel, cfg.Cohere.EmbedModel)

	svc := &api.ReadingService{
		Store:           s,
		Scraper:         firecrawl.New(cfg.Firecrawl.Endpoint, cfg.Firecrawl.APIKey),
		Summarizer:      ai,
		Embedder:        ai,
		Cache:           cache,
		SearchThreshold: cfg.Search.Threshold,
		SearchLimit:     cfg.Search.Limit,
	}

	app := &app{
		config:   cfg,
		store:    s,
		handlers: api.NewHandlers(svc, cache),
	}

	log.Printf("listening on :%d", cfg.Server.Port)

	log.Fatal(app.serve())
}
