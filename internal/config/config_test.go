package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"SEARCH_QUERY", "MAX_RETRIES", "OUTPUT_FILE", "REPORT_SCHEDULE", "NOTIFICATION_EMAIL", "TWITTER_BEARER_TOKEN", "TWITTER_API_BASE_URL"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "@timbrasil -is:retweet", cfg.SearchQuery)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, "analise_tim_mentions.csv", cfg.OutputFile)
	assert.Equal(t, "daily", cfg.ReportSchedule)
	assert.Equal(t, "https://api.x.com", cfg.TwitterAPIBaseURL)
	assert.Empty(t, cfg.TwitterBearerToken)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("SEARCH_QUERY", "@vivo")
	t.Setenv("MAX_RETRIES", "5")
	t.Setenv("DEBUG", "true")
	t.Setenv("OUTPUT_FILE", "vivo.csv")
	t.Setenv("SMTP_PORT", "not-a-number")

	cfg := Load()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "@vivo", cfg.SearchQuery)
	assert.Equal(t, 5, cfg.MaxRetries)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "vivo.csv", cfg.OutputFile)
	assert.Equal(t, 587, cfg.SMTPPort)
}

func TestLoad_DoesNotValidate(t *testing.T) {
	t.Setenv("MAX_RETRIES", "0")
	t.Setenv("REPORT_SCHEDULE", "hourly")

	cfg := Load()

	assert.Equal(t, 0, cfg.MaxRetries)
	assert.Equal(t, "hourly", cfg.ReportSchedule)
	assert.Error(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			ReportSchedule: "daily",
			MaxRetries:     3,
			SearchQuery:    "@timbrasil",
			OutputFile:     "out.csv",
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{name: "Valid", mutate: func(*Config) {}},
		{name: "Bad schedule", mutate: func(c *Config) { c.ReportSchedule = "hourly" }, errMsg: "REPORT_SCHEDULE"},
		{name: "Zero retries", mutate: func(c *Config) { c.MaxRetries = 0 }, errMsg: "MAX_RETRIES"},
		{name: "Empty query", mutate: func(c *Config) { c.SearchQuery = "" }, errMsg: "SEARCH_QUERY"},
		{name: "Empty output", mutate: func(c *Config) { c.OutputFile = "" }, errMsg: "OUTPUT_FILE"},
		{name: "Email without SMTP", mutate: func(c *Config) { c.NotificationEmail = "ops@example.com" }, errMsg: "SMTP configuration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
