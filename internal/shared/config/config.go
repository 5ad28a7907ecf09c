package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"resume-improver/internal/shared/telemetry"
)

const (
	defaultCooldown       = 2 * time.Hour
	defaultRequestTimeout = 60 * time.Second
	defaultMaxUploadBytes = 10 << 20
	defaultThrottleRate   = 10
	defaultThrottleBurst  = 5
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	LogLevel        string
	CORSAllowOrigin []string

	LLMProvider         string
	LLMModel            string
	OpenAIAPIKey        string
	OpenAIBaseURL       string
	GoogleCloudProject  string
	GoogleCloudLocation string

	RedisURL    string
	RedisToken  string
	DatabaseURL string

	RateLimitCooldown time.Duration
	RateLimitDisabled bool
	RequestTimeout    time.Duration
	MaxUploadBytes    int64

	// Burst guard on AI-calling endpoints, independent of the rewrite cooldown.
	ThrottlePerMinute int64
	ThrottleBurst     int64
}

// Load reads configuration from an optional YAML file and environment variables.
// Environment variables win over file values; neither is required.
func Load() Config {
	loadEnvFiles(".env", "cmd/.env")

	file, err := loadFile(os.Getenv("CONFIG_FILE"))
	if err != nil {
		telemetry.Warn("config.file.ignored", map[string]any{"err": err})
	}

	return Config{
		Port:            getEnv("PORT", file.str(file.Port, "8080")),
		Env:             normalizeEnv(getEnv("ENV", file.str(file.Env, "dev"))),
		LogLevel:        getEnv("LOG_LEVEL", file.str(file.LogLevel, "info")),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", file.str(strings.Join(file.CORSAllowOrigins, ","), "http://localhost:3000"))),

		LLMProvider:         normalizeProvider(getEnv("LLM_PROVIDER", file.str(file.LLM.Provider, "openai"))),
		LLMModel:            getEnv("LLM_MODEL", file.LLM.Model),
		OpenAIAPIKey:        getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:       getEnv("OPENAI_BASE_URL", file.LLM.BaseURL),
		GoogleCloudProject:  getEnv("GOOGLE_CLOUD_PROJECT", file.LLM.Project),
		GoogleCloudLocation: getEnv("GOOGLE_CLOUD_LOCATION", file.str(file.LLM.Location, "us-central1")),

		RedisURL:    getEnv("REDIS_URL", file.Redis.URL),
		RedisToken:  getEnv("REDIS_TOKEN", ""),
		DatabaseURL: getEnv("DATABASE_URL", ""),

		RateLimitCooldown: getDuration("RATE_LIMIT_COOLDOWN", file.dur(file.RateLimit.Cooldown, defaultCooldown)),
		RateLimitDisabled: getBool("RATE_LIMIT_DISABLED", file.RateLimit.Disabled),
		RequestTimeout:    getDuration("REQUEST_TIMEOUT", file.dur(file.RequestTimeout, defaultRequestTimeout)),
		MaxUploadBytes:    getInt64("MAX_UPLOAD_BYTES", file.int64(file.MaxUploadBytes, defaultMaxUploadBytes)),

		ThrottlePerMinute: getInt64("THROTTLE_PER_MINUTE", defaultThrottleRate),
		ThrottleBurst:     getInt64("THROTTLE_BURST", defaultThrottleBurst),
	}
}

func getEnv(key, def string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		telemetry.Warn("config.invalid_duration", map[string]any{"key": key, "value": raw})
		return def
	}
	return d
}

func getBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		telemetry.Warn("config.invalid_bool", map[string]any{"key": key, "value": raw})
		return def
	}
	return b
}

func getInt64(key string, def int64) int64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		telemetry.Warn("config.invalid_int", map[string]any{"key": key, "value": raw})
		return def
	}
	return n
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
	default:
		return "dev"
	}
}

func normalizeProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "vertex", "vertexai", "gemini":
		return "vertex"
	case "none", "disabled":
		return "none"
	default:
		return "openai"
	}
}
