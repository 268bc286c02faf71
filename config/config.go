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

type Config struct {
	Server    ServerConfig
	Generator GeneratorConfig
	Session   SessionConfig
	App       AppConfig
}

type ServerConfig struct {
	Port        string
	CORSOrigins []string
	MaxUploadMB int
}

type GeneratorConfig struct {
	URL     string
	Timeout time.Duration
	Rate    float64
	Burst   int
}

type SessionConfig struct {
	TTL   time.Duration
	Sweep string
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			CORSOrigins: getEnvAsList("CORS_ORIGINS", []string{"http://localhost:3000"}),
			MaxUploadMB: getEnvAsInt("MAX_UPLOAD_MB", 10),
		},
		Generator: GeneratorConfig{
			URL:     strings.TrimRight(getEnv("GENERATOR_URL", "http://localhost:8000"), "/"),
			Timeout: time.Duration(getEnvAsInt("GENERATOR_TIMEOUT", 180)) * time.Second,
			Rate:    getEnvAsFloat("GENERATOR_RATE", 2),
			Burst:   getEnvAsInt("GENERATOR_BURST", 4),
		},
		Session: SessionConfig{
			TTL:   time.Duration(getEnvAsInt("SESSION_TTL", 30)) * time.Minute,
			Sweep: getEnv("SESSION_SWEEP", "@every 1m"),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Generator.URL == "" {
		return fmt.Errorf("GENERATOR_URL is required")
	}

	if c.Generator.Timeout <= 0 {
		return fmt.Errorf("GENERATOR_TIMEOUT must be positive")
	}

	if c.Generator.Rate <= 0 || c.Generator.Burst <= 0 {
		return fmt.Errorf("GENERATOR_RATE and GENERATOR_BURST must be positive")
	}

	if c.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}

	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("MAX_UPLOAD_MB must be positive")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid number for %s, using default: %g", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
