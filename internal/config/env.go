package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Settings are the process-level settings of the CLI and the HTTP service.
type Settings struct {
	Environment string
	DataDir     string
	Addr        string
	// RedisURL left empty disables the result cache.
	RedisURL string
	CacheTTL time.Duration
}

func LoadEnv() *Settings {
	// .env is optional
	godotenv.Load()

	return &Settings{
		Environment: getEnv("TRAYSIM_ENV", "development"),
		DataDir:     getEnv("TRAYSIM_DATA_DIR", "runs"),
		Addr:        getEnv("TRAYSIM_ADDR", ":8080"),
		RedisURL:    getEnv("TRAYSIM_REDIS_URL", ""),
		CacheTTL:    time.Duration(getEnvInt("TRAYSIM_CACHE_TTL", 3600)) * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
