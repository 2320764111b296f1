package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	// ExperiencePolicyUnspecified leaves a missing job requirement as "Not specified".
	ExperiencePolicyUnspecified = "unspecified"
	// ExperiencePolicyEstimate asks the backend to infer the requirement from seniority.
	ExperiencePolicyEstimate = "estimate"
)

type Config struct {
	Server    ServerConfig
	Gemini    GeminiConfig
	Analysis  AnalysisConfig
	Upload    UploadConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port     string `validate:"required,numeric"`
	Env      string `validate:"required"`
	LogLevel string
}

type GeminiConfig struct {
	APIKey          string
	Model           string        `validate:"required"`
	Temperature     float32       `validate:"gte=0,lte=2"`
	MaxOutputTokens int32         `validate:"gt=0"`
	Timeout         time.Duration `validate:"gt=0"`
}

// AnalysisConfig holds the policy values that earlier revisions of the
// product disagreed on.
type AnalysisConfig struct {
	MinContentLength int    `validate:"gte=1"`
	ExperiencePolicy string `validate:"oneof=unspecified estimate"`
}

type UploadConfig struct {
	MaxFileSize     int64    `validate:"gt=0"`
	AcceptedFormats []string `validate:"min=1,dive,oneof=pdf docx doc txt md csv"`
}

type RateLimitConfig struct {
	Max    int           `validate:"gte=0"`
	Window time.Duration `validate:"gt=0"`
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port:     getEnv("PORT", "3000"),
			Env:      getEnv("ENV", "development"),
			LogLevel: getEnv("LOG_LEVEL", "info"),
		},
		Gemini: GeminiConfig{
			APIKey:          getEnv("GEMINI_API_KEY", ""),
			Model:           getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			Temperature:     getEnvAsFloat32("GEMINI_TEMPERATURE", 0.3),
			MaxOutputTokens: int32(getEnvAsInt("GEMINI_MAX_OUTPUT_TOKENS", 8192)),
			Timeout:         getEnvAsDuration("GEMINI_TIMEOUT", "60s"),
		},
		Analysis: AnalysisConfig{
			MinContentLength: getEnvAsInt("MIN_CONTENT_LENGTH", 50),
			ExperiencePolicy: strings.ToLower(getEnv("EXPERIENCE_POLICY", ExperiencePolicyUnspecified)),
		},
		Upload: UploadConfig{
			MaxFileSize:     getEnvAsInt64("MAX_FILE_SIZE", 5242880),
			AcceptedFormats: getEnvAsList("ACCEPTED_FORMATS", "pdf,docx,doc,txt,md,csv"),
		},
		RateLimit: RateLimitConfig{
			Max:    getEnvAsInt("RATE_LIMIT_MAX", 20),
			Window: getEnvAsDuration("RATE_LIMIT_WINDOW", "1m"),
		},
	}
}

// Validate checks the loaded values against their allowed ranges.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 32); err == nil {
		return float32(value)
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}

func getEnvAsList(key string, defaultValue string) []string {
	var items []string
	for _, item := range strings.Split(getEnv(key, defaultValue), ",") {
		item = strings.ToLower(strings.TrimSpace(item))
		item = strings.TrimPrefix(item, ".")
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}
