package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// MongoConfig holds document store configuration
type MongoConfig struct {
	URI      string
	Database string
}

// JWTConfig holds token signing configuration
type JWTConfig struct {
	Secret          string
	ExpirationHours int
}

// EmailConfig holds SendGrid configuration
type EmailConfig struct {
	APIKey string
	Sender string
}

// Config is the full application configuration, loaded from the environment.
type Config struct {
	Server   ServerConfig
	Mongo    MongoConfig
	JWT      JWTConfig
	Email    EmailConfig
	LogLevel string
}

// Load reads .env if present and builds the configuration from environment
// variables with development defaults.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Proceeding with environment variables.")
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "4000"),
			Env:  getEnv("APP_ENV", "development"),
		},
		Mongo: MongoConfig{
			URI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGODB_DATABASE", "eco-swift"),
		},
		JWT: JWTConfig{
			Secret:          getEnv("JWT_SECRET", "eco-swift-secret-key-2024"),
			ExpirationHours: getEnvInt("JWT_EXPIRATION_HOURS", 24),
		},
		Email: EmailConfig{
			APIKey: os.Getenv("SENDGRID_API_KEY"),
			Sender: getEnv("EMAIL_SENDER", "no-reply@eco-swift.example"),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
