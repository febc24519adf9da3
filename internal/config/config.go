package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	App        AppConfig
	Pagination PaginationConfig
	Cache      CacheConfig
	Cron       CronConfig
	Storage    StorageConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// RedisConfig holds the query cache connection. An empty Host disables
// storage and leaves only in-process request coalescing.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration time.Duration
}

// AppConfig holds application configuration
type AppConfig struct {
	Name           string
	Version        string
	Port           int
	Env            string
	LogLevel       string
	AllowedOrigins []string
}

type PaginationConfig struct {
	DefaultPageSize int
	MaxPageSize     int
	DebounceDelay   time.Duration
}

type CacheConfig struct {
	TTL          time.Duration
	DirectoryTTL time.Duration
	Prefix       string
}

type CronConfig struct {
	CalendarWarmupInterval time.Duration
}

// StorageConfig holds where uploaded holiday spreadsheets are archived.
// An empty ImportArchiveDir turns archiving off.
type StorageConfig struct {
	ImportArchiveDir string
}

// Load reads .env when present and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	} else if err != nil {
		slog.Debug("no .env file found, using process environment")
	}

	return FromEnv()
}

// FromEnv builds the configuration from environment variables only.
func FromEnv() (*Config, error) {
	config := &Config{}
	var errs []error

	// Database configuration
	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnvInt("DB_PORT", 5432, &errs),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "cmlabs-hrms"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Redis configuration
	config.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", ""),
		Port:     getEnvInt("REDIS_PORT", 6379, &errs),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0, &errs),
	}

	// Application configuration
	config.App = AppConfig{
		Name:           getEnv("APP_NAME", "hrms-portal"),
		Version:        getEnv("APP_VERSION", "dev"),
		Port:           getEnvInt("APP_PORT", 8080, &errs),
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnvDuration("JWT_ACCESS_EXPIRATION_TIME", time.Hour, &errs),
	}

	// Pagination configuration
	config.Pagination = PaginationConfig{
		DefaultPageSize: getEnvInt("PAGINATION_DEFAULT_PAGE_SIZE", 10, &errs),
		MaxPageSize:     getEnvInt("PAGINATION_MAX_PAGE_SIZE", 100, &errs),
		DebounceDelay:   getEnvDuration("SEARCH_DEBOUNCE_DELAY", 500*time.Millisecond, &errs),
	}

	// Cache configuration
	config.Cache = CacheConfig{
		TTL:          getEnvDuration("CACHE_TTL", 30*time.Minute, &errs),
		DirectoryTTL: getEnvDuration("CACHE_DIRECTORY_TTL", 2*time.Minute, &errs),
		Prefix:       getEnv("CACHE_PREFIX", "hrms"),
	}

	// Cron configuration
	config.Cron = CronConfig{
		CalendarWarmupInterval: getEnvDuration("CRON_CALENDAR_WARMUP_INTERVAL", 6*time.Hour, &errs),
	}

	// Storage configuration
	config.Storage = StorageConfig{
		ImportArchiveDir: getEnv("STORAGE_IMPORT_ARCHIVE_DIR", ""),
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.JWT.AccessExpiration <= 0 {
		return fmt.Errorf("JWT_ACCESS_EXPIRATION_TIME must be positive")
	}
	if c.Pagination.DefaultPageSize <= 0 {
		return fmt.Errorf("PAGINATION_DEFAULT_PAGE_SIZE must be positive")
	}
	if c.Pagination.MaxPageSize < c.Pagination.DefaultPageSize {
		return fmt.Errorf("PAGINATION_MAX_PAGE_SIZE must not be smaller than PAGINATION_DEFAULT_PAGE_SIZE")
	}
	if c.Pagination.DebounceDelay < 0 {
		return fmt.Errorf("SEARCH_DEBOUNCE_DELAY must not be negative")
	}
	if c.Cron.CalendarWarmupInterval <= 0 {
		return fmt.Errorf("CRON_CALENDAR_WARMUP_INTERVAL must be positive")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// RedisAddr returns host:port, or "" when Redis is not configured.
func (c *Config) RedisAddr() string {
	if c.Redis.Host == "" {
		return ""
	}
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int, errs *[]error) int {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return fallback
	}
	return value
}

func getEnvDuration(key string, fallback time.Duration, errs *[]error) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return fallback
	}
	return value
}

func getEnvSlice(key string, fallback []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
