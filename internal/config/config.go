// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"wealthpath-admin/internal/api/types"
	"wealthpath-admin/pkg/db"
)

// AppConfig holds all application-wide configurations.
type AppConfig struct {
	ServerPort     string
	DB             db.Config
	Migrate        bool
	AdminUsername  string
	AdminPassword  string
	AdminPassHash  string
	AMQPURL        string
	AMQPExchange   string
	LogLevel       string
	PageSize       int
	AllowedOrigins []string
}

// AuthEnabled reports whether HTTP basic auth guards the console.
func (c *AppConfig) AuthEnabled() bool {
	return c.AdminPassword != "" || c.AdminPassHash != ""
}

// LoadConfig loads configuration from environment variables, after reading an
// optional .env file in the working directory.
func LoadConfig() (*AppConfig, error) {
	// A missing .env is fine; real environment variables take precedence.
	_ = godotenv.Load()

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	pageSize, err := strconv.Atoi(getEnv("PAGE_SIZE", "20"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAGE_SIZE: %w", err)
	}
	migrate, err := strconv.ParseBool(getEnv("DB_MIGRATE", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIGRATE: %w", err)
	}

	cfg := &AppConfig{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		DB: db.Config{
			URL:      os.Getenv("DATABASE_URL"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "user"),
			Password: getEnv("DB_PASSWORD", "password"),
			DBName:   getEnv("DB_NAME", "wealthpath"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Migrate:        migrate,
		AdminUsername:  getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:  os.Getenv("ADMIN_PASSWORD"),
		AdminPassHash:  os.Getenv("ADMIN_PASSWORD_HASH"),
		AMQPURL:        os.Getenv("AMQP_URL"),
		AMQPExchange:   getEnv("AMQP_EXCHANGE", "wealthpath.admin"),
		LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", "info")),
		PageSize:       pageSize,
		AllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *AppConfig) Validate() error {
	var errs []error

	if port, err := strconv.Atoi(c.ServerPort); err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %q", c.ServerPort))
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error, got %q", c.LogLevel))
	}

	if c.AMQPURL != "" {
		u, err := url.Parse(c.AMQPURL)
		if err != nil || (u.Scheme != "amqp" && u.Scheme != "amqps") {
			errs = append(errs, fmt.Errorf("AMQP_URL must use the amqp or amqps scheme"))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, errors.New("AMQP_EXCHANGE is required when AMQP_URL is set"))
		}
	}

	if c.PageSize < 1 || c.PageSize > types.MaxPageSize {
		errs = append(errs, fmt.Errorf("PAGE_SIZE must be between 1 and %d, got %d", types.MaxPageSize, c.PageSize))
	}

	for _, origin := range c.AllowedOrigins {
		if origin == "*" {
			continue
		}
		if u, err := url.Parse(origin); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("CORS_ALLOWED_ORIGINS entry %q is not an origin", origin))
		}
	}

	if c.AuthEnabled() && c.AdminUsername == "" {
		errs = append(errs, errors.New("ADMIN_USERNAME is required when a password is set"))
	}
	if c.AdminPassword != "" && c.AdminPassHash != "" {
		errs = append(errs, errors.New("set only one of ADMIN_PASSWORD and ADMIN_PASSWORD_HASH"))
	}
	if c.AdminPassHash != "" {
		if _, err := bcrypt.Cost([]byte(c.AdminPassHash)); err != nil {
			errs = append(errs, fmt.Errorf("ADMIN_PASSWORD_HASH is not a bcrypt hash: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitList parses a comma-separated value, dropping blanks.
func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
