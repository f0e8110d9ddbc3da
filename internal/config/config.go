package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers
const (
	DriverJSON     = "json"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds all application configuration
type Config struct {
	// Environment is "development" or "production"
	Environment string

	// Server configuration
	Server ServerConfig

	// Article storage configuration
	Storage StorageConfig

	// Database configuration (postgres and sqlite drivers)
	Database DatabaseConfig

	// Static site regeneration
	Site SiteConfig

	// Rate limiting
	RateLimit RateLimitConfig

	// Logging configuration
	Log LogConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CORSOrigins     []string
}

// StorageConfig holds repository file and blob settings
type StorageConfig struct {
	Driver          string
	DataFile        string
	UploadDir       string
	PublicPrefix    string
	MaxUploadSize   int64 // in bytes
	MaxFieldsSize   int64 // allowance for non-file form fields
	DefaultCategory string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host           string
	Port           string
	User           string
	Password       string
	Name           string
	SSLMode        string
	MaxOpenConns   int
	MaxIdleConns   int
	MaxLifetime    time.Duration
	MigrationsPath string
	SQLitePath     string
}

// SiteConfig holds static site generation settings
type SiteConfig struct {
	Enabled       bool
	OutputDir     string
	ConfigFile    string
	Command       string
	CommandDir    string
	RetryAttempts int
	RetryDelay    time.Duration
	Timeout       time.Duration
}

// RateLimitConfig holds per-client request limits. Requests <= 0 disables limiting.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string
	Format string // "json" or "pretty"
}

// Load reads configuration from environment variables, after loading a .env
// file when one is present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	env := getEnv("ENV", "production")
	defaultFormat := "json"
	if env == "development" {
		defaultFormat = "pretty"
	}

	cfg := &Config{
		Environment: env,
		Server: ServerConfig{
			Port:            getEnv("PORT", "5000"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 5*time.Minute),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 5*time.Minute),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
			CORSOrigins: getListEnv("CORS_ORIGINS", []string{
				getEnv("FRONTEND_URL", "http://localhost:3000"),
				"http://localhost:3001",
				"http://localhost:5173",
				"http://localhost:5174",
				"http://localhost:8082",
			}),
		},
		Storage: StorageConfig{
			Driver:          strings.ToLower(getEnv("STORE_DRIVER", DriverJSON)),
			DataFile:        getEnv("DATA_FILE", "./data/articles.json"),
			UploadDir:       getEnv("UPLOAD_DIR", "./uploads"),
			PublicPrefix:    getEnv("UPLOAD_PUBLIC_PREFIX", "/uploads"),
			MaxUploadSize:   getInt64Env("MAX_UPLOAD_SIZE", 100*1024*1024), // 100MB
			MaxFieldsSize:   getInt64Env("MAX_FIELDS_SIZE", 10*1024*1024),  // 10MB
			DefaultCategory: getEnv("DEFAULT_CATEGORY", "সাধারণ"),
		},
		Database: DatabaseConfig{
			Host:           getEnv("DB_HOST", "localhost"),
			Port:           getEnv("DB_PORT", "5432"),
			User:           getEnv("DB_USER", "postgres"),
			Password:       getEnv("DB_PASSWORD", "postgres"),
			Name:           getEnv("DB_NAME", "ranganmag"),
			SSLMode:        getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:   getIntEnv("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:   getIntEnv("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:    getDurationEnv("DB_MAX_LIFETIME", 5*time.Minute),
			MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),
			SQLitePath:     getEnv("SQLITE_PATH", "./data/articles.db"),
		},
		Site: SiteConfig{
			Enabled:       getBoolEnv("SITE_ENABLED", true),
			OutputDir:     getEnv("SITE_OUTPUT_DIR", "./static-site/dist"),
			ConfigFile:    getEnv("SITE_CONFIG_FILE", ""),
			Command:       getEnv("SITE_COMMAND", ""),
			CommandDir:    getEnv("SITE_COMMAND_DIR", "./static-site"),
			RetryAttempts: getIntEnv("SITE_RETRY_ATTEMPTS", 3),
			RetryDelay:    getDurationEnv("SITE_RETRY_DELAY", 2*time.Second),
			Timeout:       getDurationEnv("SITE_TIMEOUT", 2*time.Minute),
		},
		RateLimit: RateLimitConfig{
			Requests: getIntEnv("RATE_LIMIT_REQUESTS", 100),
			Window:   getDurationEnv("RATE_LIMIT_WINDOW", 15*time.Minute),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", defaultFormat),
		},
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverJSON:
		if c.Storage.DataFile == "" {
			return fmt.Errorf("DATA_FILE is required for the json store")
		}
	case DriverPostgres:
		if c.Database.Host == "" || c.Database.Name == "" {
			return fmt.Errorf("DB_HOST and DB_NAME are required for the postgres store")
		}
	case DriverSQLite:
		if c.Database.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite store")
		}
	default:
		return fmt.Errorf("STORE_DRIVER must be one of: json, postgres, sqlite (got %q)", c.Storage.Driver)
	}
	if c.Storage.UploadDir == "" {
		return fmt.Errorf("UPLOAD_DIR is required")
	}
	if c.Storage.MaxUploadSize <= 0 {
		return fmt.Errorf("MAX_UPLOAD_SIZE must be positive")
	}
	if c.Storage.MaxFieldsSize < 0 {
		return fmt.Errorf("MAX_FIELDS_SIZE must not be negative")
	}
	if c.Site.RetryAttempts < 1 {
		return fmt.Errorf("SITE_RETRY_ATTEMPTS must be at least 1")
	}
	return nil
}

// IsDevelopment reports whether error details may be returned to clients
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// GetDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
