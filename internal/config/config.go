package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config is the single startup profile. All environment selection happens
// here; nothing downstream inspects hostnames or request values.
type Config struct {
	DatabaseURL string
	JWTSecret   string
	Port        int

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool
	MinioBucket    string

	MailMode     string // "log" or "relay"
	MailEndpoint string
	MailFrom     string

	FreePlanID int
}

// Load reads the configuration from the environment. DATABASE_URL and
// JWT_SECRET are required; there is deliberately no fallback signing secret.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		Port:           envInt("PORT", 8080),
		RedisAddr:      envDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisDB:        envInt("REDIS_DB", 0),
		MinioEndpoint:  envDefault("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey: envDefault("MINIO_ACCESS_KEY", "minioadmin"),
		MinioSecretKey: envDefault("MINIO_SECRET_KEY", "minioadmin"),
		MinioUseSSL:    os.Getenv("MINIO_USE_SSL") == "true",
		MinioBucket:    envDefault("MINIO_BUCKET", "shutterdesk-galleries"),
		MailMode:       envDefault("MAIL_MODE", "log"),
		MailEndpoint:   os.Getenv("MAIL_ENDPOINT"),
		MailFrom:       envDefault("MAIL_FROM", "no-reply@shutterdesk.local"),
		FreePlanID:     envInt("FREE_PLAN_ID", 1),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}
	if cfg.MailMode == "relay" && cfg.MailEndpoint == "" {
		return nil, fmt.Errorf("MAIL_ENDPOINT is required when MAIL_MODE=relay")
	}

	return cfg, nil
}

func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
