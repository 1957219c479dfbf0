package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            string
	MetricsPort     string
	CacheDBPath     string
	CacheTTL        time.Duration
	TargetCurrency  string
	Proxies         []string
	ScraperTimeout  time.Duration
	OverallDeadline time.Duration
	MaxRetries      int
}

func Load() *Config {
	_ = godotenv.Load()
	return &Config{
		Port:            getEnv("PORT", "9090"),
		MetricsPort:     getEnv("METRICS_PORT", "9091"),
		CacheDBPath:     getEnv("CACHE_DB_PATH", "./cache.db"),
		CacheTTL:        time.Duration(getEnvInt("CACHE_TTL_MINUTES", 1440)) * time.Minute,
		TargetCurrency:  getEnv("TARGET_CURRENCY", "INR"),
		Proxies:         splitList(os.Getenv("PROXY_LIST")),
		ScraperTimeout:  time.Duration(getEnvInt("SCRAPER_TIMEOUT_SECONDS", 10)) * time.Second,
		OverallDeadline: time.Duration(getEnvInt("OVERALL_DEADLINE_SECONDS", 15)) * time.Second,
		MaxRetries:      getEnvInt("MAX_RETRIES", 2),
	}
}

func getEnv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getEnvInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			return parsed
		}
	}
	return d
}

// splitList parses a comma-separated proxy list; empty input disables
// proxying without error.
func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
