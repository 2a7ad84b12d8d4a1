package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Clerk     ClerkConfig
	Firecrawl FirecrawlConfig
	Cohere    CohereConfig
	Search    SearchConfig
	Cache     CacheConfig
}

type ServerConfig struct {
	Port           int
	HandlerTimeout time.Duration
}

type DatabaseConfig struct {
	URL string
}

type ClerkConfig struct {
	SecretKey string
}

type FirecrawlConfig struct {
	APIKey   string
	Endpoint string
}

type CohereConfig struct {
	APIKey       string
	SummaryModel string
	EmbedModel   string
}

type SearchConfig struct {
	Threshold float64
	Limit     int
}

type CacheConfig struct {
	TTL           time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:           GetEnv("PORT", 8080).(int),
			HandlerTimeout: GetEnv("HANDLER_TIMEOUT", 30*time.Second).(time.Duration),
		},
		Database: DatabaseConfig{
			URL: GetEnv("DATABASE_URL", "file:./data/readlater.db").(string),
		},
		Clerk: ClerkConfig{
			SecretKey: GetEnv("CLERK_SECRET_KEY", "").(string),
		},
		Firecrawl: FirecrawlConfig{
			APIKey:   GetEnv("FIRECRAWL_API_KEY", "").(string),
			Endpoint: GetEnv("FIRECRAWL_ENDPOINT", "https://api.firecrawl.dev/v1/scrape").(string),
		},
		Cohere: CohereConfig{
			APIKey:       GetEnv("COHERE_API_KEY", "").(string),
			SummaryModel: GetEnv("SUMMARY_MODEL", "command-r-08-2024").(string),
			EmbedModel:   GetEnv("EMBED_MODEL", "embed-english-v3.0").(string),
		},
		Search: SearchConfig{
			Threshold: GetEnv("SEARCH_THRESHOLD", 0.5).(float64),
			Limit:     GetEnv("SEARCH_LIMIT", 20).(int),
		},
		Cache: CacheConfig{
			TTL:           GetEnv("CACHE_TTL", 5*time.Minute).(time.Duration),
			RedisAddr:     GetEnv("REDIS_ADDR", "").(string),
			RedisPassword: GetEnv("REDIS_PASS", "").(string),
			RedisDB:       GetEnv("REDIS_DB", 0).(int),
		},
	}

	if cfg.Search.Limit < 1 {
		return nil, fmt.Errorf("SEARCH_LIMIT must be positive, got %d", cfg.Search.Limit)
	}

	return cfg, nil
}

func GetEnv(key string, defaultValue any) any {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	switch def := defaultValue.(type) {
	case string:
		return value
	case int:
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		return def
	case float64:
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
		return def
	case bool:
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
		return def
	case time.Duration:
		if durationValue, err := time.ParseDuration(value); err == nil {
			return durationValue
		}
		return def
	default:
		panic(fmt.Sprintf("unsupported type %T", defaultValue))
	}
}
