package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for our application
type Config struct {
	Port        string
	Origin      string
	Environment string
	Database    DatabaseConfig
	AI          AIConfig
	Log         LogConfig
	Tracing     TracingConfig
}

// DatabaseConfig holds database connection details
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	DSN      string
}

// AIConfig holds the connection details for the summary inference API
type AIConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// LogConfig controls log level and output format
type LogConfig struct {
	Level      string
	Format     string
	OutputPath string
}

// TracingConfig controls trace export
type TracingConfig struct {
	Enabled     bool
	ServiceName string
	Endpoint    string
	SampleRate  float64
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load database configuration
	dbConfig := DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "3306"),
		Username: getEnv("DB_USERNAME", "root"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "clinic"),
	}

	// Build DSN (Data Source Name) for MySQL connection
	dbConfig.DSN = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		dbConfig.Username, dbConfig.Password, dbConfig.Host, dbConfig.Port, dbConfig.Name)

	aiTimeout, err := time.ParseDuration(getEnv("AI_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid AI_TIMEOUT: %w", err)
	}

	sampleRate, err := strconv.ParseFloat(getEnv("TRACING_SAMPLE_RATE", "1.0"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid TRACING_SAMPLE_RATE: %w", err)
	}

	// Return complete configuration
	return &Config{
		Port:        getEnv("PORT", "3001"),
		Origin:      getEnv("ORIGIN", "http://localhost:4200"),
		Environment: getEnv("APP_ENV", "development"),
		Database:    dbConfig,
		AI: AIConfig{
			BaseURL: getEnv("AI_BASE_URL", "https://api.openai.com/v1"),
			APIKey:  getEnv("AI_API_KEY", ""),
			Model:   getEnv("AI_MODEL", "gpt-4o-mini"),
			Timeout: aiTimeout,
		},
		Log: LogConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "json"),
			OutputPath: getEnv("LOG_OUTPUT", "stdout"),
		},
		Tracing: TracingConfig{
			Enabled:     getEnvBool("TRACING_ENABLED", false),
			ServiceName: getEnv("TRACING_SERVICE_NAME", "clinic-records-server"),
			Endpoint:    getEnv("TRACING_ENDPOINT", "localhost:4318"),
			SampleRate:  sampleRate,
		},
	}, nil
}

// Helper function to get environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		parsed, err := strconv.ParseBool(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}
