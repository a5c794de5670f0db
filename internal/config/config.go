package config

import (
	"os"
	"strings"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	SupabaseURL string
	SupabaseKey string // Service role key, only needed by the seeder
	JWKSURL     string // Constructed from SupabaseURL + /auth/v1/.well-known/jwks.json
	CORSOrigins string
	TablePrefix string
	LogDir      string // Empty = log to stdout only
	// Summarization
	AnthropicAPIKeys []string // comma-separated in ANTHROPIC_API_KEYS; rotated on rate limits
	SummaryModel     string   // empty = capability-file default
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")
	supabaseURL := getEnv("SUPABASE_URL", "")

	return &Config{
		Port:             getEnv("PORT", "8080"),
		Environment:      env,
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		SupabaseURL:      supabaseURL,
		SupabaseKey:      getEnv("SUPABASE_KEY", ""),
		JWKSURL:          supabaseURL + "/auth/v1/.well-known/jwks.json",
		CORSOrigins:      getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix:      getTablePrefix(env),
		LogDir:           getEnv("LOG_DIR", ""),
		AnthropicAPIKeys: splitKeys(getEnv("ANTHROPIC_API_KEYS", os.Getenv("ANTHROPIC_API_KEY"))),
		SummaryModel:     getEnv("SUMMARY_MODEL", ""),
	}
}

// splitKeys parses a comma-separated key list, dropping empty entries
func splitKeys(raw string) []string {
	var keys []string
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
