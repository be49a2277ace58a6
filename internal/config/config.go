package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	App         AppConfig
	CORS        CORSConfig
	Email       EmailConfig
	MailingList MailingListConfig
	Content     ContentConfig
	Cache       CacheConfig
	RateLimit   RateLimitConfig
}

// AppConfig holds application-level configuration
type AppConfig struct {
	Name    string
	Version string
	Debug   bool
	Port    string
	Host    string
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	MaxAge         int
}

// EmailConfig holds transactional email (Postmark) configuration
type EmailConfig struct {
	Enabled                bool
	ServerToken            string
	FromEmail              string
	FromName               string
	MessageStream          string
	ContactRecipient       string
	ConsultationRecipients []string
}

// MailingListConfig holds mailing list (Mailchimp) configuration
type MailingListConfig struct {
	APIKey     string
	AudienceID string
	Datacenter string
}

// IsConfigured reports whether all mailing list credentials are present.
// The subscribe route must short-circuit with a 500 when any is missing.
func (c *MailingListConfig) IsConfigured() bool {
	return c.APIKey != "" && c.AudienceID != "" && c.Datacenter != ""
}

// ContentConfig holds headless content store (Sanity) configuration
type ContentConfig struct {
	ProjectID  string
	Dataset    string
	APIVersion string
	Token      string
	UseCDN     bool
	PageSize   int
}

// CacheConfig holds content cache configuration
type CacheConfig struct {
	RedisURL string // empty means in-memory cache
	TTL      time.Duration
}

// RateLimitConfig holds per-IP rate limiting for the form routes
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerMinute int
	Burst             int
}

var globalConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		App: AppConfig{
			Name:    getEnv("APP_NAME", "BO Properties API"),
			Version: getEnv("APP_VERSION", "1.0.0"),
			Debug:   getEnvAsBool("DEBUG", false),
			Port:    getEnv("PORT", "8000"),
			Host:    getEnv("HOST", "0.0.0.0"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("ALLOWED_HOSTS", []string{"*"}),
			AllowedMethods: []string{"GET", "POST", "OPTIONS", "HEAD"},
			AllowedHeaders: []string{"*"},
			MaxAge:         86400,
		},
		Email: EmailConfig{
			Enabled:                getEnvAsBool("EMAIL_ENABLED", false),
			ServerToken:            getEnv("POSTMARK_API_TOKEN", ""),
			FromEmail:              getEnv("FROM_EMAIL", "contact@boproperties.com"),
			FromName:               getEnv("EMAIL_FROM_NAME", "BO Properties"),
			MessageStream:          getEnv("POSTMARK_MESSAGE_STREAM", "outbound"),
			ContactRecipient:       getEnv("CONTACT_RECIPIENT", "sales@bopropertiesng.com"),
			ConsultationRecipients: getEnvAsSlice("CONSULTATION_RECIPIENTS", []string{"bopropertiesng@gmail.com"}),
		},
		MailingList: MailingListConfig{
			APIKey:     getEnv("MAILCHIMP_API_KEY", ""),
			AudienceID: getEnv("MAILCHIMP_AUDIENCE_ID", ""),
			Datacenter: getEnv("MAILCHIMP_DC", ""),
		},
		Content: ContentConfig{
			ProjectID:  getEnv("SANITY_PROJECT_ID", ""),
			Dataset:    getEnv("SANITY_DATASET", "production"),
			APIVersion: getEnv("SANITY_API_VERSION", "2025-05-07"),
			Token:      getEnv("SANITY_API_TOKEN", ""),
			UseCDN:     getEnvAsBool("SANITY_USE_CDN", true),
			PageSize:   getEnvAsInt("CONTENT_PAGE_SIZE", 6),
		},
		Cache: CacheConfig{
			RedisURL: getEnv("REDIS_URL", ""),
			TTL:      getEnvAsDuration("CONTENT_CACHE_TTL", 5*time.Minute),
		},
		RateLimit: RateLimitConfig{
			Enabled:           getEnvAsBool("RATE_LIMIT_ENABLED", true),
			RequestsPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 10),
			Burst:             getEnvAsInt("RATE_LIMIT_BURST", 5),
		},
	}

	// Validate configuration
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	globalConfig = config
	return config, nil
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	if cfg.App.Port == "" {
		return fmt.Errorf("PORT must be set")
	}
	if cfg.Email.Enabled && cfg.Email.ServerToken == "" {
		return fmt.Errorf("POSTMARK_API_TOKEN must be set when EMAIL_ENABLED is true")
	}
	if cfg.Email.FromEmail == "" {
		return fmt.Errorf("FROM_EMAIL must be set")
	}
	if cfg.Content.PageSize <= 0 {
		return fmt.Errorf("CONTENT_PAGE_SIZE must be greater than 0")
	}
	return nil
}

// Get returns the global configuration
func Get() *Config {
	if globalConfig == nil {
		// Load default config if not loaded
		config, _ := Load()
		return config
	}
	return globalConfig
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
