package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all runtime settings. Every field has a working default so a
// bare `go run ./cmd/server` starts against the public upstreams.
type Config struct {
	Port   string
	DBPath string

	AladhanBaseURL string
	HadithBaseURL  string
	TafsirBaseURL  string
	ChatBaseURL    string

	// Cache TTLs per endpoint family.
	CalendarTTL time.Duration // month-level calendar data
	ConvertTTL  time.Duration // single-date conversions
	HadithTTL   time.Duration // editions and info
	TafsirTTL   time.Duration

	// Retry policy for the large hadith payloads.
	RetryAttempts  int
	RetryTimeout   time.Duration
	RetryBaseDelay time.Duration

	// Timeout for the text-generation forward (no retries).
	ChatTimeout time.Duration
}

// Load reads configuration from the environment with fallback defaults.
func Load() *Config {
	return &Config{
		Port:   getEnv("PORT", ":8008"),
		DBPath: getEnv("DB_PATH", "deen-companion.db"),

		AladhanBaseURL: getEnv("ALADHAN_BASE_URL", "https://api.aladhan.com"),
		HadithBaseURL:  getEnv("HADITH_BASE_URL", "https://cdn.jsdelivr.net/gh/fawazahmed0/hadith-api@1"),
		TafsirBaseURL:  getEnv("TAFSIR_BASE_URL", "https://quranenc.com/api/v1"),
		ChatBaseURL:    getEnv("CHAT_BASE_URL", "https://text.pollinations.ai"),

		CalendarTTL: getDuration("CALENDAR_CACHE_TTL", 12*time.Hour),
		ConvertTTL:  getDuration("CONVERT_CACHE_TTL", 24*time.Hour),
		HadithTTL:   getDuration("HADITH_CACHE_TTL", 24*time.Hour),
		TafsirTTL:   getDuration("TAFSIR_CACHE_TTL", 24*time.Hour),

		RetryAttempts:  getInt("UPSTREAM_RETRY_ATTEMPTS", 3),
		RetryTimeout:   getDuration("UPSTREAM_RETRY_TIMEOUT", 15*time.Second),
		RetryBaseDelay: getDuration("UPSTREAM_RETRY_BASE_DELAY", 500*time.Millisecond),

		ChatTimeout: getDuration("CHAT_TIMEOUT", 30*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
