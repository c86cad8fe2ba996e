package common

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Upload   UploadConfig
	LLM      LLMConfig
}

// DatabaseConfig holds document-store configuration
type DatabaseConfig struct {
	URI         string
	Name        string
	ConnTimeout time.Duration
	PingTimeout time.Duration
	MaxPoolSize uint64
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr string
}

// UploadConfig holds file-upload configuration
type UploadConfig struct {
	Dir       string
	MaxSizeMB int64
}

// LLMConfig holds generative-model configuration
type LLMConfig struct {
	Model       string
	APIKey      string
	Temperature float32
}

// LoadConfig loads configuration from environment variables. A local .env
// file is honored when present.
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		Database: DatabaseConfig{
			URI:         getEnv("MONGO_URI", ""),
			Name:        getEnv("MONGO_DB", "invoice_management"),
			ConnTimeout: getEnvAsDuration("MONGO_CONN_TIMEOUT", 10*time.Second),
			PingTimeout: getEnvAsDuration("MONGO_PING_TIMEOUT", 3*time.Second),
			MaxPoolSize: uint64(getEnvAsInt("MONGO_MAX_POOL_SIZE", 20)),
		},
		Server: ServerConfig{
			Addr: getEnv("HTTP_ADDR", ":8080"),
		},
		Upload: UploadConfig{
			Dir:       getEnv("UPLOAD_DIR", "uploads"),
			MaxSizeMB: int64(getEnvAsInt("UPLOAD_MAX_SIZE_MB", 16)),
		},
		LLM: LLMConfig{
			Model:       getEnv("GEMINI_MODEL", "gemini-1.5-pro-latest"),
			APIKey:      getEnv("GEMINI_API_KEY", ""),
			Temperature: getEnvAsFloat32("GEMINI_TEMPERATURE", 0.0),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Database.URI == "" {
		return NewAppError(CodeConfig, "MONGO_URI is required", nil)
	}
	if c.LLM.APIKey == "" {
		return NewAppError(CodeConfig, "GEMINI_API_KEY is required", nil)
	}
	if c.Server.Addr == "" {
		return NewAppError(CodeConfig, "HTTP_ADDR is required", nil)
	}
	return nil
}
