package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string
	JWTSecret   string

	// Image provider selection and credentials. API keys have no default on
	// purpose: a missing key is a configuration error raised by the adapter,
	// never a silent degradation.
	ImageProvider     string
	StabilityAPIKey   string
	StabilityAPIHost  string
	StabilityEndpoint string
	FalAPIKey         string
	FalBaseURL        string
	FalModelPath      string

	// Prompt layer proportions are business copy, not constants.
	GanachePercent int
	JamPercent     int

	StoragePath        string
	GeoIPDBPath        string
	DefaultLocale      string
	CORSAllowedOrigins []string
	RateLimitPerMin    int
	HTTPReadTimeout    time.Duration
	HTTPWriteTimeout   time.Duration
	HTTPIdleTimeout    time.Duration
	ProviderTimeout    time.Duration
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:             getEnv("APP_ENV", "development"),
		Port:               getEnv("PORT", "8080"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		ImageProvider:      getEnv("IMAGE_PROVIDER", "stability"),
		StabilityAPIKey:    os.Getenv("STABILITY_API_KEY"),
		StabilityAPIHost:   getEnv("STABILITY_API_HOST", "https://api.stability.ai"),
		StabilityEndpoint:  getEnv("STABILITY_ENDPOINT", "/v2beta/stable-image/generate/sd3"),
		FalAPIKey:          os.Getenv("FAL_API_KEY"),
		FalBaseURL:         getEnv("FAL_BASE_URL", "https://fal.run"),
		FalModelPath:       getEnv("FAL_MODEL_PATH", "/fal-ai/flux/schnell"),
		GanachePercent:     getEnvInt("PROMPT_GANACHE_PERCENT", 70),
		JamPercent:         getEnvInt("PROMPT_JAM_PERCENT", 30),
		StoragePath:        os.Getenv("STORAGE_PATH"),
		GeoIPDBPath:        os.Getenv("GEOIP_DB_PATH"),
		DefaultLocale:      getEnv("DEFAULT_LOCALE", "pt"),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		RateLimitPerMin:    getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
		HTTPReadTimeout:    time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:   time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 60)),
		HTTPIdleTimeout:    time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		ProviderTimeout:    time.Second * time.Duration(getEnvInt("PROVIDER_TIMEOUT_SECONDS", 45)),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	switch cfg.ImageProvider {
	case "stability", "fal":
	default:
		return nil, fmt.Errorf("IMAGE_PROVIDER %q is not supported", cfg.ImageProvider)
	}

	if cfg.GanachePercent <= 0 || cfg.JamPercent <= 0 || cfg.GanachePercent+cfg.JamPercent != 100 {
		return nil, fmt.Errorf("prompt layer percentages must be positive and sum to 100")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
