package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"contract-scanner/internal/shared/telemetry"
)

// Config holds backend configuration.
type Config struct {
	Port             string
	CORSAllowOrigin  []string
	DatabaseURL      string
	RedisURL         string
	Env              string
	JWTTTL           time.Duration
	TemplatesCatalog string
	TemplatesStore   string
	TemplatesDir     string
	AWSRegion        string
	S3Bucket         string
	S3Prefix         string
}

// ClientConfig holds settings for the command line client.
type ClientConfig struct {
	APIBaseURL  string
	LLMAPIKey   string
	LLMModel    string
	LLMEndpoint string
}

const (
	DefaultLLMModel    = "mistralai/mixtral-8x7b-instruct"
	DefaultLLMEndpoint = "https://openrouter.ai/api/v1/chat/completions"
	DefaultAPIBaseURL  = "http://localhost:5000/api/users"
)

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	v := newViper()

	env := normalizeEnv(v.GetString("ENV"))
	dbURL := strings.TrimSpace(v.GetString("DATABASE_URL"))
	if env == "production" && dbURL == "" {
		telemetry.Error("config.missing", map[string]any{"key": "DATABASE_URL", "env": env})
	}

	ttl := v.GetDuration("JWT_TTL")
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return Config{
		Port:             v.GetString("PORT"),
		CORSAllowOrigin:  splitAndTrim(v.GetString("CORS_ALLOW_ORIGINS")),
		DatabaseURL:      dbURL,
		RedisURL:         strings.TrimSpace(v.GetString("REDIS_URL")),
		Env:              env,
		JWTTTL:           ttl,
		TemplatesCatalog: v.GetString("TEMPLATES_CATALOG"),
		TemplatesStore:   normalizeStoreType(v.GetString("TEMPLATES_STORE")),
		TemplatesDir:     v.GetString("TEMPLATES_DIR"),
		AWSRegion:        v.GetString("AWS_REGION"),
		S3Bucket:         v.GetString("S3_BUCKET"),
		S3Prefix:         v.GetString("S3_PREFIX"),
	}
}

// LoadClient reads the client-side settings. A missing API key is not an error
// here; the analysis and drafting commands report it before any network call.
func LoadClient() ClientConfig {
	v := newViper()
	return ClientConfig{
		APIBaseURL:  strings.TrimRight(v.GetString("CONTRACT_API_URL"), "/"),
		LLMAPIKey:   strings.TrimSpace(v.GetString("OPENROUTER_API_KEY")),
		LLMModel:    v.GetString("LLM_MODEL"),
		LLMEndpoint: v.GetString("LLM_ENDPOINT"),
	}
}

// IsDevLike reports whether env allows in-memory fallbacks.
func IsDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func newViper() *viper.Viper {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("ENV", "dev")
	v.SetDefault("PORT", "5000")
	v.SetDefault("CORS_ALLOW_ORIGINS", "http://localhost:5173")
	v.SetDefault("JWT_TTL", "24h")
	v.SetDefault("TEMPLATES_CATALOG", "assets/templates/catalog.yaml")
	v.SetDefault("TEMPLATES_STORE", "local")
	v.SetDefault("TEMPLATES_DIR", "var/templates")
	v.SetDefault("CONTRACT_API_URL", DefaultAPIBaseURL)
	v.SetDefault("LLM_MODEL", DefaultLLMModel)
	v.SetDefault("LLM_ENDPOINT", DefaultLLMEndpoint)
	return v
}

// loadEnvFiles loads KEY=VALUE pairs from the given files if they exist.
// Variables already present in the environment win.
func loadEnvFiles(paths ...string) {
	for _, path := range paths {
		_ = godotenv.Load(path)
	}
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}
