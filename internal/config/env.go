package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Env struct {
	AppAddr string
	GinMode string

	DBUser string
	DBPass string
	DBHost string
	DBName string

	JWTSecret string

	LogLevel  string
	LogFormat string

	AMQPURL           string
	PaymentGatewayURL string
	BlobStoreURL      string
	GatewayTimeout    time.Duration
}

func LoadEnv() Env {
	return Env{
		AppAddr: getEnv("APP_ADDR", ":8080"),
		GinMode: strings.TrimSpace(os.Getenv("GIN_MODE")),

		DBUser: getEnv("DB_USER", "root"),
		DBPass: strings.TrimSpace(os.Getenv("DB_PASS")),
		DBHost: getEnv("DB_HOST", "127.0.0.1:3306"),
		DBName: getEnv("DB_NAME", "rental_app"),

		JWTSecret: getEnv("JWT_SECRET", "super-secret-key-change-me"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		AMQPURL:           strings.TrimSpace(os.Getenv("AMQP_URL")),
		PaymentGatewayURL: strings.TrimSpace(os.Getenv("PAYMENT_GATEWAY_URL")),
		BlobStoreURL:      strings.TrimSpace(os.Getenv("BLOB_STORE_URL")),
		GatewayTimeout:    getEnvDuration("GATEWAY_TIMEOUT_SECONDS", 10*time.Second),
	}
}

func getEnv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return def
	}
	return time.Duration(secs) * time.Second
}
