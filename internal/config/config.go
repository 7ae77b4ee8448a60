package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration (serve mode only)
	Port  string
	Debug bool

	// Schedule configuration
	ReportSchedule string // "daily" or "weekly"
	TimeZone       string

	// Search configuration
	TwitterBearerToken string
	TwitterAPIBaseURL  string
	SearchQuery        string
	ReportTitle        string
	MaxRetries         int

	// Output
	OutputFile string

	// Azure Storage configuration (optional CSV archive)
	StorageAccount   string
	StorageContainer string

	// Notification configuration (optional)
	TeamsWebhookURL   string
	NotificationEmail string
	SMTPHost          string
	SMTPPort          int
	SMTPUsername      string
	SMTPPassword      string
}

// Load reads configuration from environment variables. Callers apply their
// overrides and then call Validate.
func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		Debug:          getBoolEnv("DEBUG", false),
		ReportSchedule: getEnv("REPORT_SCHEDULE", "daily"),
		TimeZone:       getEnv("TIMEZONE", "UTC"),

		TwitterBearerToken: getEnv("TWITTER_BEARER_TOKEN", ""),
		TwitterAPIBaseURL:  getEnv("TWITTER_API_BASE_URL", "https://api.x.com"),
		SearchQuery:        getEnv("SEARCH_QUERY", "@timbrasil -is:retweet"),
		ReportTitle:        getEnv("REPORT_TITLE", "REPORT - TIM BRASIL MENTIONS (SENTIMENT ANALYSIS)"),
		MaxRetries:         getIntEnv("MAX_RETRIES", 3),

		OutputFile: getEnv("OUTPUT_FILE", "analise_tim_mentions.csv"),

		StorageAccount:   getEnv("AZURE_STORAGE_ACCOUNT", ""),
		StorageContainer: getEnv("AZURE_STORAGE_CONTAINER", "mentions"),

		TeamsWebhookURL:   getEnv("TEAMS_WEBHOOK_URL", ""),
		NotificationEmail: getEnv("NOTIFICATION_EMAIL", ""),
		SMTPHost:          getEnv("SMTP_HOST", ""),
		SMTPPort:          getIntEnv("SMTP_PORT", 587),
		SMTPUsername:      getEnv("SMTP_USERNAME", ""),
		SMTPPassword:      getEnv("SMTP_PASSWORD", ""),
	}
}

// Validate checks the configuration for inconsistent values
func (c *Config) Validate() error {
	if c.ReportSchedule != "daily" && c.ReportSchedule != "weekly" {
		return fmt.Errorf("REPORT_SCHEDULE must be 'daily' or 'weekly'")
	}

	if c.MaxRetries < 1 {
		return fmt.Errorf("MAX_RETRIES must be at least 1")
	}

	if c.SearchQuery == "" {
		return fmt.Errorf("SEARCH_QUERY must not be empty")
	}

	if c.OutputFile == "" {
		return fmt.Errorf("OUTPUT_FILE must not be empty")
	}

	if c.NotificationEmail != "" {
		if c.SMTPHost == "" || c.SMTPUsername == "" || c.SMTPPassword == "" {
			return fmt.Errorf("SMTP configuration is required when NOTIFICATION_EMAIL is set")
		}
	}

	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
