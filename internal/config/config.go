package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port               string
	AllowedOrigin      string
	LogLevel           string
	StoreBackend       string
	DataPath           string
	DatabaseURL        string
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	ViewCacheTTLSecond int
	Currency           string
	TrackedYear        int
	RateLimitPerSecond int
}

// Load reads the environment, after merging a .env file from the working
// directory when one exists. Variables already set win over the file.
func Load() Config {
	_ = godotenv.Load()

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	ttl, err := strconv.Atoi(getEnv("VIEW_CACHE_TTL_SECONDS", "300"))
	if err != nil || ttl < 1 {
		ttl = 300
	}
	year, err := strconv.Atoi(getEnv("TRACKED_YEAR", "0"))
	if err != nil || year < 1970 || year > 9999 {
		year = time.Now().Year()
	}
	rps, err := strconv.Atoi(getEnv("RATE_LIMIT_PER_SECOND", "20"))
	if err != nil || rps < 1 {
		rps = 20
	}

	cfg := Config{
		Port:               getEnv("PORT", "8080"),
		AllowedOrigin:      getEnv("ALLOWED_ORIGIN", "http://127.0.0.1:3000"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		DataPath:           getEnv("DATA_PATH", "cashier.db"),
		DatabaseURL:        strings.TrimSpace(os.Getenv("DATABASE_URL")),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		RedisDB:            redisDB,
		ViewCacheTTLSecond: ttl,
		Currency:           strings.ToUpper(getEnv("CURRENCY", "EGP")),
		TrackedYear:        year,
		RateLimitPerSecond: rps,
	}
	cfg.StoreBackend = resolveBackend(strings.ToLower(strings.TrimSpace(os.Getenv("STORE_BACKEND"))), cfg.DatabaseURL)

	return cfg
}

func (c Config) Address() string {
	return fmt.Sprintf(":%s", c.Port)
}

func (c Config) ViewCacheTTL() time.Duration {
	return time.Duration(c.ViewCacheTTLSecond) * time.Second
}

func resolveBackend(requested string, databaseURL string) string {
	switch requested {
	case "memory", "sqlite", "postgres":
		return requested
	}
	if databaseURL != "" {
		return "postgres"
	}
	return "sqlite"
}

func getEnv(key string, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}
