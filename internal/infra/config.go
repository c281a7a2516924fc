package infra

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv           string
	Port             string
	DatabaseURL      string
	OpenAIAPIKey     string
	OpenAIModel      string
	OpenAIBaseURL    string
	FreeQuota        int
	SessionBackend   string
	SheetsWebhookURL string
	AirtableAPIKey   string
	AirtableBaseID   string
	AirtableTable    string
	GeoIPDBPath      string
	DefaultLocale    string
	AllowedOrigins   []string
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	ChatTimeout      time.Duration
	ForwardTimeout   time.Duration
	RateLimitPerMin  int
}

// LoadConfig loads configuration from environment variables and applies
// defaults where needed. Nothing is strictly required at load time: the
// service degrades per endpoint instead (chat answers 500 misconfigured
// without an API key, registrations stay in memory without a database), so
// operators see the gap at the affected endpoint rather than a crash loop.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:           getEnv("APP_ENV", "development"),
		Port:             getEnv("PORT", "8080"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:      getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),
		OpenAIBaseURL:    getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		FreeQuota:        getEnvInt("FREE_QUOTA", 2),
		SessionBackend:   getEnv("SESSION_BACKEND", "cookie"),
		SheetsWebhookURL: os.Getenv("SHEETS_WEBHOOK_URL"),
		AirtableAPIKey:   os.Getenv("AIRTABLE_API_KEY"),
		AirtableBaseID:   os.Getenv("AIRTABLE_BASE_ID"),
		AirtableTable:    getEnv("AIRTABLE_TABLE", "Utilisateurs"),
		GeoIPDBPath:      os.Getenv("GEOIP_DB_PATH"),
		DefaultLocale:    getEnv("DEFAULT_LOCALE", "fr"),
		AllowedOrigins:   splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		ChatTimeout:      time.Second * time.Duration(getEnvInt("CHAT_TIMEOUT_SECONDS", 15)),
		ForwardTimeout:   time.Second * time.Duration(getEnvInt("FORWARD_TIMEOUT_SECONDS", 5)),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
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

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
