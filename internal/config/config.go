// Package config loads runtime settings for the citizen voice service.
//
// Values come from environment variables, optionally seeded from a .env file
// in the working directory. Defaults target a single device: a sqlite file
// under data/ and images next to it.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const devJWTSecret = "citizenvoice-development-secret"

// Config holds all service configuration. It is not mutated after Load.
type Config struct {
	Env  string
	Port string

	// Storage
	StorageDriver string // sqlite, postgres, redis or memory
	SQLitePath    string
	PostgresDSN   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
	MediaDir      string

	// Auth
	JWTSecret string
	JWTTTL    time.Duration

	// Remote API, empty URL disables it
	RemoteURL     string
	RemoteTimeout time.Duration

	// Telegram relay, enabled only when both are set
	TelegramBotToken string
	TelegramChatID   int64

	CORSOrigins []string

	Log LogConfig
}

// LogConfig controls the zap logger and its rotating file sink.
type LogConfig struct {
	Level      string
	Console    bool
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Load reads .env (if present) and the environment, then validates the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: no .env file loaded")
	}
	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv builds a Config from the current environment without validating it.
func FromEnv() *Config {
	env := getEnv("APP_ENV", "production")
	secret := os.Getenv("JWT_SECRET")
	if secret == "" && env == "development" {
		secret = devJWTSecret
	}

	chatID, _ := strconv.ParseInt(os.Getenv("TELEGRAM_CHAT_ID"), 10, 64)

	return &Config{
		Env:  env,
		Port: getEnv("APP_PORT", "8080"),

		StorageDriver: strings.ToLower(getEnv("STORAGE_DRIVER", "sqlite")),
		SQLitePath:    getEnv("SQLITE_PATH", "data/citizenvoice.db"),
		PostgresDSN:   os.Getenv("POSTGRES_DSN"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		RedisPrefix:   getEnv("REDIS_PREFIX", "citizenvoice:"),
		MediaDir:      getEnv("MEDIA_DIR", "data/images"),

		JWTSecret: secret,
		JWTTTL:    getEnvDuration("JWT_TTL", 72*time.Hour),

		RemoteURL:     strings.TrimRight(os.Getenv("REMOTE_API_URL"), "/"),
		RemoteTimeout: getEnvDuration("REMOTE_TIMEOUT", 10*time.Second),

		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:   chatID,

		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),

		Log: LogConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Console:    getEnvBool("LOG_CONSOLE", true),
			File:       os.Getenv("LOG_FILE"),
			MaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 50),
			MaxBackups: getEnvInt("LOG_MAX_BACKUPS", 3),
			MaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 28),
		},
	}
}

// Validate checks required values and driver-specific settings.
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case "sqlite":
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH cannot be empty for the sqlite driver")
		}
	case "postgres":
		if c.PostgresDSN == "" {
			return fmt.Errorf("POSTGRES_DSN is required for the postgres driver")
		}
	case "redis":
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required for the redis driver")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}

	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET environment variable is required")
	}
	if c.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive, got %s", c.JWTTTL)
	}
	if c.MediaDir == "" {
		return fmt.Errorf("MEDIA_DIR cannot be empty")
	}
	if c.TelegramBotToken != "" && c.TelegramChatID == 0 {
		return fmt.Errorf("TELEGRAM_CHAT_ID must be a numeric chat id when TELEGRAM_BOT_TOKEN is set")
	}
	return nil
}

// TelegramEnabled reports whether notifications should be relayed to Telegram.
func (c *Config) TelegramEnabled() bool {
	return c.TelegramBotToken != "" && c.TelegramChatID != 0
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
