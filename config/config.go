package config

import (
	"encoding/base64"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	util "Sistem-Absensi-RFID/pkg/utils"
)

type AppConfig struct {
	Port           string
	Env            string
	MongoString    string
	DBName         string
	PasetoSecret   string
	TokenTTL       time.Duration
	Timezone       string
	Location       *time.Location
	NotifyAt       string
	NotifyQueue    int
	AllowedOrigins []string
	LogLevel       string
	LogFormat      string
	Seed           bool
	SMTP           SMTPConfig
	Redis          RedisConfig
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Enabled reports whether an SMTP relay is configured at all.
func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.From != ""
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}

// LoadConfig loads configuration from .env and the process environment.
func LoadConfig() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env not loaded (might not exist in production): %v", err)
	}

	v := viper.New()
	v.SetDefault("PORT", "3000")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("MONGOSTRING", "")
	v.SetDefault("DB_NAME", "rfid-attendance-db")
	v.SetDefault("PASETO_SECRET", "")
	v.SetDefault("TOKEN_TTL", "5h")
	v.SetDefault("TIMEZONE", "Asia/Kolkata")
	v.SetDefault("NOTIFY_AT", "16:39")
	v.SetDefault("NOTIFY_QUEUE_SIZE", 1024)
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("SEED", false)
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("REDIS_DB", 0)
	v.AutomaticEnv()

	cfg := &AppConfig{
		Port:           v.GetString("PORT"),
		Env:            strings.ToLower(v.GetString("APP_ENV")),
		MongoString:    v.GetString("MONGOSTRING"),
		DBName:         v.GetString("DB_NAME"),
		PasetoSecret:   v.GetString("PASETO_SECRET"),
		TokenTTL:       v.GetDuration("TOKEN_TTL"),
		Timezone:       v.GetString("TIMEZONE"),
		NotifyAt:       v.GetString("NOTIFY_AT"),
		NotifyQueue:    v.GetInt("NOTIFY_QUEUE_SIZE"),
		AllowedOrigins: splitList(v.GetString("ALLOWED_ORIGINS")),
		LogLevel:       v.GetString("LOG_LEVEL"),
		LogFormat:      v.GetString("LOG_FORMAT"),
		Seed:           v.GetBool("SEED"),
		SMTP: SMTPConfig{
			Host:     v.GetString("SMTP_HOST"),
			Port:     v.GetInt("SMTP_PORT"),
			Username: v.GetString("SMTP_USERNAME"),
			Password: v.GetString("SMTP_PASSWORD"),
			From:     v.GetString("SMTP_FROM"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
	}

	if cfg.PasetoSecret == "" && !cfg.IsProduction() {
		key, err := util.GenerateBase64Key(util.TokenKeySize)
		if err != nil {
			return nil, err
		}
		log.Println("Warning: PASETO_SECRET is empty, using an ephemeral key (tokens will not survive a restart)")
		cfg.PasetoSecret = key
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings the process cannot run without and resolves the timezone.
func (c *AppConfig) Validate() error {
	if c.MongoString == "" {
		return fmt.Errorf("MONGOSTRING is not set")
	}

	secret, err := DecodeSecret(c.PasetoSecret)
	if err != nil {
		return fmt.Errorf("PASETO_SECRET: %w", err)
	}
	if len(secret) != 32 {
		return fmt.Errorf("PASETO_SECRET (decoded) must be exactly 32 bytes long, got %d", len(secret))
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("TIMEZONE %q: %w", c.Timezone, err)
	}
	c.Location = loc

	if _, err := time.Parse("15:04", c.NotifyAt); err != nil {
		return fmt.Errorf("NOTIFY_AT must be HH:MM, got %q", c.NotifyAt)
	}
	if c.NotifyQueue <= 0 {
		return fmt.Errorf("NOTIFY_QUEUE_SIZE must be positive")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	return nil
}

// DecodeSecret accepts URL-safe or standard base64, padded or not.
func DecodeSecret(s string) ([]byte, error) {
	if s == "" {
		return nil, fmt.Errorf("secret is empty")
	}
	encodings := []*base64.Encoding{
		base64.URLEncoding,
		base64.RawURLEncoding,
		base64.StdEncoding,
		base64.RawStdEncoding,
	}
	var lastErr error
	for _, enc := range encodings {
		b, err := enc.DecodeString(s)
		if err == nil {
			return b, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("not a valid base64 string: %w", lastErr)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
