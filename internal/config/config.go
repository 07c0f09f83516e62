package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Port        string
	Environment string

	// Database
	DBDriver   string // "sqlite" or "postgres"
	SQLitePath string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret        string
	JWTExpirationDur time.Duration

	// Attachments
	AttachmentDir     string
	AttachmentMaxSize int64

	// CORS
	AllowedOrigins []string
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// Get values from environment variables with defaults
	config := &Config{
		// Server
		Port:        getEnv("PORT", "8000"),
		Environment: getEnv("ENV", "development"),

		// Database
		DBDriver:   getEnv("DB_DRIVER", "sqlite"),
		SQLitePath: getEnv("SQLITE_PATH", "data/swatchx.db"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "swatchx"),
		DBPassword: getEnv("DB_PASSWORD", "swatchx"),
		DBName:     getEnv("DB_NAME", "swatchx"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),

		// Attachments
		AttachmentDir: getEnv("ATTACHMENT_DIR", "data/attachments"),
	}

	// Parse JWT expiration duration (the web client assumes 30 minutes)
	expStr := getEnv("JWT_EXPIRES_IN", "30m")
	expDur, err := time.ParseDuration(expStr)
	if err != nil {
		log.Printf("Warning: invalid JWT_EXPIRES_IN value '%s', falling back to 30m\n", expStr)
		expDur = 30 * time.Minute
	}
	config.JWTExpirationDur = expDur

	// Parse attachment size limit in bytes
	sizeStr := getEnv("ATTACHMENT_MAX_SIZE", "10485760")
	maxSize, err := strconv.ParseInt(sizeStr, 10, 64)
	if err != nil || maxSize <= 0 {
		log.Printf("Warning: invalid ATTACHMENT_MAX_SIZE value '%s', falling back to 10MiB\n", sizeStr)
		maxSize = 10 << 20
	}
	config.AttachmentMaxSize = maxSize

	// Comma-separated CORS origins; defaults cover the Vite dev server
	originsStr := getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173,http://localhost:5174")
	for _, origin := range strings.Split(originsStr, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			config.AllowedOrigins = append(config.AllowedOrigins, origin)
		}
	}

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
