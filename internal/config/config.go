package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Registry backends
const (
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
)

// Taxonomy sources
const (
	TaxonomySourceFile  = "file"
	TaxonomySourceMongo = "mongo"
)

// Config holds all configuration values
type Config struct {
	// Server configuration
	Port        int    `json:"port"`
	Environment string `json:"environment"`

	// Registry configuration
	RegistryBackend string `json:"registry_backend"`
	DatabaseURL     string `json:"database_url"`
	MigrateOnStart  bool   `json:"migrate_on_start"`

	// MongoDB configuration
	MongoURI          string `json:"mongo_uri"`
	MongoDatabase     string `json:"mongo_database"`
	CompanyCollection string `json:"mongo_company_collection"`
	SegmentCollection string `json:"mongo_segment_collection"`

	// Taxonomy configuration
	TaxonomySource string `json:"taxonomy_source"`
	TaxonomyFile   string `json:"taxonomy_file"`

	// Redis configuration
	RedisURI          string        `json:"redis_uri"`
	RedisPassword     string        `json:"redis_password"`
	RedisDB           int           `json:"redis_db"`
	CountCacheEnabled bool          `json:"count_cache_enabled"`
	CountCacheTTL     time.Duration `json:"count_cache_ttl"`

	// Search budgets
	SearchTimeout time.Duration `json:"search_timeout"`
	CountTimeout  time.Duration `json:"count_timeout"`
	ExportTimeout time.Duration `json:"export_timeout"`
	ExportMaxRows int           `json:"export_max_rows"`

	// Tracing configuration
	TracingEnabled  bool   `json:"tracing_enabled"`
	TracingEndpoint string `json:"tracing_endpoint"`
}

var (
	AppConfig *Config
)

// LoadConfig loads configuration from environment variables
func LoadConfig() error {
	port, err := getEnvAsIntOrDefault("PORT", 8080)
	if err != nil {
		return err
	}

	redisDB, err := getEnvAsIntOrDefault("REDIS_DB", 0)
	if err != nil {
		return err
	}

	exportMaxRows, err := getEnvAsIntOrDefault("EXPORT_MAX_ROWS", 10000)
	if err != nil {
		return err
	}

	countCacheTTL, err := getEnvAsDurationOrDefault("COUNT_CACHE_TTL", 6*time.Hour)
	if err != nil {
		return err
	}

	searchTimeout, err := getEnvAsDurationOrDefault("SEARCH_TIMEOUT", 30*time.Second)
	if err != nil {
		return err
	}

	countTimeout, err := getEnvAsDurationOrDefault("COUNT_TIMEOUT", 5*time.Second)
	if err != nil {
		return err
	}

	exportTimeout, err := getEnvAsDurationOrDefault("EXPORT_TIMEOUT", 60*time.Second)
	if err != nil {
		return err
	}

	migrateOnStart, err := getEnvAsBoolOrDefault("MIGRATE_ON_START", false)
	if err != nil {
		return err
	}

	countCacheEnabled, err := getEnvAsBoolOrDefault("COUNT_CACHE_ENABLED", true)
	if err != nil {
		return err
	}

	tracingEnabled, err := getEnvAsBoolOrDefault("TRACING_ENABLED", false)
	if err != nil {
		return err
	}

	cfg := &Config{
		// Server configuration
		Port:        port,
		Environment: getEnvOrDefault("ENVIRONMENT", "development"),

		// Registry configuration
		RegistryBackend: getEnvOrDefault("REGISTRY_BACKEND", BackendPostgres),
		DatabaseURL:     getEnvOrDefault("DATABASE_URL", "postgres://localhost:5432/registry?sslmode=disable"),
		MigrateOnStart:  migrateOnStart,

		// MongoDB configuration
		MongoURI:          getEnvOrDefault("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase:     getEnvOrDefault("MONGODB_DATABASE", "registry"),
		CompanyCollection: getEnvOrDefault("MONGODB_COMPANY_COLLECTION", "companies"),
		SegmentCollection: getEnvOrDefault("MONGODB_SEGMENT_COLLECTION", "segments"),

		// Taxonomy configuration
		TaxonomySource: getEnvOrDefault("TAXONOMY_SOURCE", TaxonomySourceFile),
		TaxonomyFile:   getEnvOrDefault("TAXONOMY_FILE", "data/segments.json"),

		// Redis configuration
		RedisURI:          getEnvOrDefault("REDIS_URI", "localhost:6379"),
		RedisPassword:     getEnvOrDefault("REDIS_PASSWORD", ""),
		RedisDB:           redisDB,
		CountCacheEnabled: countCacheEnabled,
		CountCacheTTL:     countCacheTTL,

		// Search budgets
		SearchTimeout: searchTimeout,
		CountTimeout:  countTimeout,
		ExportTimeout: exportTimeout,
		ExportMaxRows: exportMaxRows,

		// Tracing configuration
		TracingEnabled:  tracingEnabled,
		TracingEndpoint: getEnvOrDefault("TRACING_ENDPOINT", "localhost:4317"),
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	AppConfig = cfg
	return nil
}

// Validate checks cross-field constraints
func (c *Config) Validate() error {
	switch c.RegistryBackend {
	case BackendPostgres, BackendMongo:
	default:
		return fmt.Errorf("invalid REGISTRY_BACKEND %q: must be %q or %q", c.RegistryBackend, BackendPostgres, BackendMongo)
	}

	switch c.TaxonomySource {
	case TaxonomySourceFile, TaxonomySourceMongo:
	default:
		return fmt.Errorf("invalid TAXONOMY_SOURCE %q: must be %q or %q", c.TaxonomySource, TaxonomySourceFile, TaxonomySourceMongo)
	}

	if c.SearchTimeout <= 0 || c.CountTimeout <= 0 || c.ExportTimeout <= 0 {
		return fmt.Errorf("search, count and export timeouts must be positive")
	}

	// The count stage runs inside the search budget
	if c.CountTimeout >= c.SearchTimeout {
		return fmt.Errorf("COUNT_TIMEOUT (%s) must be shorter than SEARCH_TIMEOUT (%s)", c.CountTimeout, c.SearchTimeout)
	}

	if c.ExportMaxRows < 1 {
		return fmt.Errorf("EXPORT_MAX_ROWS must be positive")
	}

	return nil
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault parses an integer environment variable
func getEnvAsIntOrDefault(key string, defaultValue int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}

// getEnvAsBoolOrDefault parses a boolean environment variable
func getEnvAsBoolOrDefault(key string, defaultValue bool) (bool, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}

// getEnvAsDurationOrDefault parses a duration environment variable
func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) (time.Duration, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}
