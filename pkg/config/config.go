package config

import (
	"os"
	"strconv"
)

type Config struct {
	AppEnv   string
	LogLevel string

	HTTPPort int

	RedisAddr string
	MySQLDSN  string

	CatalogURL   string
	CatalogToken string

	StripeKey string
	StripeURL string

	WorkerCount int
	QueueSize   int
}

func Load() Config {
	return Config{
		AppEnv:       getEnv("APP_ENV", "dev"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		HTTPPort:     getEnvInt("HTTP_PORT", 8080),
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		MySQLDSN:     getEnv("MYSQL_DSN", "root:root@tcp(localhost:3306)/storefront?parseTime=true"),
		CatalogURL:   getEnv("CATALOG_API_URL", "http://localhost:1337"),
		CatalogToken: getEnv("CATALOG_API_TOKEN", ""),
		StripeKey:    getEnv("STRIPE_SECRET_KEY", ""),
		StripeURL:    getEnv("STRIPE_API_URL", "https://api.stripe.com"),
		WorkerCount:  getEnvInt("WORKER_COUNT", 4),
		QueueSize:    getEnvInt("QUEUE_SIZE", 1024),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}

	return n
}
