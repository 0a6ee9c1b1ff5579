package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"usermgmt/internal/database"
)

// Config is read once at startup.
type Config struct {
	Port      string
	Env       string
	ClientURL string

	DatabaseURL string
	DBDriver    string

	RabbitMQURL   string
	RabbitMQQueue string

	LogLevel       string
	LogFile        string
	HTTPLogEnabled bool

	StaticDir       string
	RateLimitMax    int
	RateLimitWindow time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "3000")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("CLIENT_URL", "http://localhost:5173")
	v.SetDefault("DATABASE_URL", "file:usermgmt.db?_foreign_keys=on")
	v.SetDefault("DB_DRIVER", "")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_QUEUE", "user_events")
	v.SetDefault("LOG_LEVEL", "")
	v.SetDefault("LOG_FILE", "")
	v.SetDefault("HTTP_LOG_ENABLED", false)
	v.SetDefault("STATIC_DIR", "dist")
	v.SetDefault("RATE_LIMIT_MAX", 100)
	v.SetDefault("RATE_LIMIT_WINDOW", 15*time.Minute)
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile is Load with an explicit env file. A missing file is fine; an
// unreadable or malformed one is an error.
func LoadFile(envFile string) (*Config, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}
	v := viper.New()
	v.AutomaticEnv()
	return FromViper(v)
}

// FromViper builds a Config from v, filling in defaults.
func FromViper(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	cfg := &Config{
		Port:            strings.TrimPrefix(v.GetString("PORT"), ":"),
		Env:             v.GetString("APP_ENV"),
		ClientURL:       v.GetString("CLIENT_URL"),
		DatabaseURL:     v.GetString("DATABASE_URL"),
		DBDriver:        strings.ToLower(v.GetString("DB_DRIVER")),
		RabbitMQURL:     v.GetString("RABBITMQ_URL"),
		RabbitMQQueue:   v.GetString("RABBITMQ_QUEUE"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		LogFile:         v.GetString("LOG_FILE"),
		HTTPLogEnabled:  v.GetBool("HTTP_LOG_ENABLED"),
		StaticDir:       v.GetString("STATIC_DIR"),
		RateLimitMax:    v.GetInt("RATE_LIMIT_MAX"),
		RateLimitWindow: v.GetDuration("RATE_LIMIT_WINDOW"),
	}

	if cfg.DBDriver == "" {
		cfg.DBDriver = inferDriver(cfg.DatabaseURL)
	}
	switch cfg.DBDriver {
	case database.DriverPostgres, database.DriverSQLite, database.DriverMemory:
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if cfg.Port == "" {
		return nil, fmt.Errorf("PORT must not be empty")
	}
	return cfg, nil
}

func inferDriver(url string) string {
	if strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://") {
		return database.DriverPostgres
	}
	return database.DriverSQLite
}

// Addr is the listen address for Fiber.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
