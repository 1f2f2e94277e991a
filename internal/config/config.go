package config

import (
	"log/slog"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	AppEnv         string
	MongoURI       string
	DBName         string
	RedisURL       string
	CatalogTTL     time.Duration
	PasswordHasher string
	BcryptCost     int
	RequestTimeout time.Duration
	SeedOnStart    bool
	MetricsEnabled bool
	CORSOrigins    []string
}

// Load reads .env (when present) and the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug(".env not loaded", "error", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment without touching .env.
func FromEnv() Config {
	return Config{
		Port:           getEnvOrDefault("PORT", "8000"),
		AppEnv:         getEnvOrDefault("APP_ENV", "development"),
		MongoURI:       getEnvOrDefault("MONGO_URI", "mongodb://localhost:27017"),
		DBName:         getEnvOrDefault("DB_NAME", "minishop"),
		RedisURL:       getEnvOrDefault("REDIS_URL", ""),
		CatalogTTL:     getDurationEnv("CATALOG_CACHE_TTL", 30, time.Second),
		PasswordHasher: getEnvOrDefault("PASSWORD_HASHER", "bcrypt"),
		BcryptCost:     getIntEnv("BCRYPT_COST", 10),
		RequestTimeout: getDurationEnv("REQUEST_TIMEOUT", 5, time.Second),
		SeedOnStart:    getBoolEnv("SEED_ON_START", true),
		MetricsEnabled: getBoolEnv("METRICS_ENABLED", true),
		CORSOrigins:    getListEnv("CORS_ORIGINS", []string{"*"}),
	}
}

func (c Config) IsProduction() bool {
	return c.AppEnv == "production" || c.AppEnv == "prod"
}
