package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage drivers and vector backends.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	BackendQdrant   = "qdrant"
	BackendPGVector = "pgvector"
)

// Config holds all configuration for the application.
type Config struct {
	LLMBaseURL        string
	LLMModelName      string
	LLMAPIKey         string
	LLMRateLimitRPS   float64
	LLMRateLimitBurst int

	EmbeddingBaseURL   string
	EmbeddingModelName string
	EmbeddingCacheTTL  time.Duration
	VectorSize         int

	StorageDriver string
	DBPath        string
	DatabaseURL   string

	VectorBackend    string
	QdrantURL        string
	QdrantCollection string

	APIPort            string
	RequestTimeout     time.Duration
	CORSAllowedOrigins []string

	VaultPath        string
	IndexConcurrency int
	// ExtractFields asks the LLM for mood and activities when a record
	// arrives without them.
	ExtractFields bool

	LogLevel      string
	LogFormat     string
	LogFile       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates the rest.
// A .env file in the current directory or up to five parents is loaded first;
// variables already set take precedence over .env values.
func Load() (*Config, error) {
	loadDotEnv()

	cfg := &Config{
		LLMBaseURL:         getEnv("LLM_BASE_URL", "http://localhost:8080"),
		LLMModelName:       getEnv("LLM_MODEL", "Qwen2.5-7B-Instruct"),
		LLMAPIKey:          getEnv("LLM_API_KEY", "dummy-key"),
		EmbeddingBaseURL:   getEnv("EMBEDDING_BASE_URL", "http://localhost:8081"),
		EmbeddingModelName: getEnv("EMBEDDING_MODEL_NAME", "bge-m3"),
		StorageDriver:      strings.ToLower(getEnv("STORAGE_DRIVER", DriverSQLite)),
		DBPath:             getEnv("DB_PATH", "./data/journal-ai.db"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		VectorBackend:      strings.ToLower(getEnv("VECTOR_BACKEND", BackendQdrant)),
		QdrantURL:          getEnv("QDRANT_URL", "http://localhost:6333"),
		QdrantCollection:   getEnv("QDRANT_COLLECTION", "journal_records"),
		APIPort:            getEnv("API_PORT", "9000"),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173")),
		VaultPath:          getEnv("VAULT_PATH", ""),
		LogLevel:           strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:          strings.ToLower(getEnv("LOG_FORMAT", "json")),
		LogFile:            getEnv("LOG_FILE", ""),
	}

	var err error
	if cfg.LLMRateLimitRPS, err = getFloat("LLM_RATE_LIMIT_RPS", 0); err != nil {
		return nil, err
	}
	if cfg.LLMRateLimitBurst, err = getInt("LLM_RATE_LIMIT_BURST", 1); err != nil {
		return nil, err
	}
	if cfg.EmbeddingCacheTTL, err = getDuration("EMBEDDING_CACHE_TTL", 10*time.Minute); err != nil {
		return nil, err
	}
	if cfg.RequestTimeout, err = getDuration("REQUEST_TIMEOUT", 60*time.Second); err != nil {
		return nil, err
	}
	if cfg.IndexConcurrency, err = getInt("INDEX_CONCURRENCY", 4); err != nil {
		return nil, err
	}
	if cfg.ExtractFields, err = getBool("EXTRACT_RECORD_FIELDS", true); err != nil {
		return nil, err
	}
	if cfg.LogMaxSizeMB, err = getInt("LOG_MAX_SIZE_MB", 10); err != nil {
		return nil, err
	}
	if cfg.LogMaxBackups, err = getInt("LOG_MAX_BACKUPS", 5); err != nil {
		return nil, err
	}
	if cfg.LogMaxAgeDays, err = getInt("LOG_MAX_AGE_DAYS", 30); err != nil {
		return nil, err
	}

	// VECTOR_SIZE must match the output size of the embeddings model. If it
	// changes, the Qdrant collection or pgvector column must be recreated.
	vectorSizeStr := getEnv("VECTOR_SIZE", "")
	if vectorSizeStr == "" {
		return nil, fmt.Errorf("VECTOR_SIZE is required")
	}
	vectorSize, err := strconv.Atoi(vectorSizeStr)
	if err != nil {
		return nil, fmt.Errorf("VECTOR_SIZE must be a valid integer: %w", err)
	}
	if vectorSize <= 0 {
		return nil, fmt.Errorf("VECTOR_SIZE must be greater than 0")
	}
	cfg.VectorSize = vectorSize

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.StorageDriver == DriverSQLite {
		// Create ./data directory if it doesn't exist
		dataDir := filepath.Dir(cfg.DBPath)
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StorageDriver {
	case DriverSQLite:
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORAGE_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("STORAGE_DRIVER must be sqlite or postgres, got %q", c.StorageDriver)
	}

	switch c.VectorBackend {
	case BackendQdrant:
	case BackendPGVector:
		if c.StorageDriver != DriverPostgres {
			return fmt.Errorf("VECTOR_BACKEND=pgvector requires STORAGE_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("VECTOR_BACKEND must be qdrant or pgvector, got %q", c.VectorBackend)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be debug, info, warn or error, got %q", c.LogLevel)
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.LogFormat)
	}

	if c.LLMRateLimitRPS < 0 {
		return fmt.Errorf("LLM_RATE_LIMIT_RPS must not be negative")
	}
	if c.LLMRateLimitBurst < 1 {
		return fmt.Errorf("LLM_RATE_LIMIT_BURST must be at least 1")
	}
	if c.IndexConcurrency < 1 {
		return fmt.Errorf("INDEX_CONCURRENCY must be at least 1")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}
	if c.EmbeddingCacheTTL < 0 {
		return fmt.Errorf("EMBEDDING_CACHE_TTL must not be negative")
	}
	return nil
}

// loadDotEnv loads the first .env found walking up from the working directory.
func loadDotEnv() {
	_ = godotenv.Load() // Try current directory

	wd, err := os.Getwd()
	if err != nil {
		return
	}
	dir := wd
	for i := 0; i < 5; i++ { // Limit search depth
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return // Reached filesystem root
		}
		dir = parent
	}
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	return n, nil
}

func getBool(key string, defaultValue bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	return b, nil
}

func getFloat(key string, defaultValue float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid number: %w", key, err)
	}
	return f, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration like 30s or 5m: %w", key, err)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
