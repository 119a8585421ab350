package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all runtime settings for the researcher. It is read once at
// startup and passed by value into constructors; nothing re-reads the
// environment mid-run.
type Config struct {
	GoogleApiKey       string
	TwitterBearerToken string
	DatabaseURL        string

	ReasoningModel string
	FastModel      string
	EmbeddingModel string

	Port string

	// Knowledge store
	KnowledgeRoot  string
	CollectionName string
	ChunkSize      int
	ChunkOverlap   int
	RetrievalK     int

	Search SearchConfig
}

// SearchConfig holds per-source enable flags and result limits for the
// research orchestrator.
type SearchConfig struct {
	WebEnabled      bool
	AcademicEnabled bool
	VideoEnabled    bool
	SocialEnabled   bool

	MaxWebResults      int
	MaxAcademicResults int
	MaxVideoResults    int
	MaxSocialResults   int
}

// Load reads configuration from the environment. Call Validate before handing
// the result to a store or orchestrator.
func Load() *Config {
	return &Config{
		GoogleApiKey:       getEnv("GOOGLE_API_KEY", ""),
		TwitterBearerToken: getEnv("TWITTER_BEARER_TOKEN", ""),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		ReasoningModel:     getEnv("REASONING_MODEL", "gemini-3-pro-preview"),
		FastModel:          getEnv("FAST_MODEL", "gemini-3-flash-preview"),
		EmbeddingModel:     getEnv("EMBEDDING_MODEL", "gemini-embedding-001"),
		Port:               getEnv("PORT", "8081"),
		KnowledgeRoot:      getEnv("KNOWLEDGE_ROOT", "data/vector_stores"),
		CollectionName:     getEnv("COLLECTION_NAME", "default"),
		ChunkSize:          getEnvAsInt("CHUNK_SIZE", 1000),
		ChunkOverlap:       getEnvAsInt("CHUNK_OVERLAP", 200),
		RetrievalK:         getEnvAsInt("RETRIEVAL_K", 5),
		Search: SearchConfig{
			WebEnabled:         getEnvAsBool("WEB_SEARCH_ENABLED", true),
			AcademicEnabled:    getEnvAsBool("ACADEMIC_SEARCH_ENABLED", true),
			VideoEnabled:       getEnvAsBool("VIDEO_SEARCH_ENABLED", true),
			SocialEnabled:      getEnvAsBool("SOCIAL_SEARCH_ENABLED", true),
			MaxWebResults:      getEnvAsInt("MAX_WEB_RESULTS", 5),
			MaxAcademicResults: getEnvAsInt("MAX_ACADEMIC_RESULTS", 5),
			MaxVideoResults:    getEnvAsInt("MAX_VIDEO_RESULTS", 3),
			MaxSocialResults:   getEnvAsInt("MAX_SOCIAL_RESULTS", 5),
		},
	}
}

// Validate rejects chunking parameters that would make the splitter lose data
// or never terminate: overlap must be non-negative and strictly smaller than
// the chunk size.
func (c *Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("chunk overlap must be in [0, %d), got %d", c.ChunkSize, c.ChunkOverlap)
	}
	if c.RetrievalK <= 0 {
		return fmt.Errorf("retrieval k must be positive, got %d", c.RetrievalK)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
