package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubMetrics struct{}

func (stubMetrics) GetMetrics() string { return `{"runs":1}` }

type stubTrigger struct {
	ran chan struct{}
}

func (s *stubTrigger) Trigger() { close(s.ran) }

func TestRouter(t *testing.T) {
	trigger := &stubTrigger{ran: make(chan struct{})}
	router := newRouter(stubMetrics{}, trigger)

	t.Run("health", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"healthy"`)
	})

	t.Run("metrics", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"runs":1}`, rec.Body.String())
	})

	t.Run("trigger requires POST", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/trigger", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})

	t.Run("trigger", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/trigger", nil))
		assert.Equal(t, http.StatusAccepted, rec.Code)

		select {
		case <-trigger.ran:
		case <-time.After(5 * time.Second):
			t.Fatal("report run was not triggered")
		}
	})
}

func TestLoadConfig_FlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("SEARCH_QUERY", "@vivo")
	t.Setenv("MAX_RETRIES", "2")

	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--query", "@claro", "--output", "claro.csv"}))

	cfg, err := loadConfig(cmd)
	require.NoError(t, err)

	assert.Equal(t, "@claro", cfg.SearchQuery)
	assert.Equal(t, "claro.csv", cfg.OutputFile)
	assert.Equal(t, 2, cfg.MaxRetries)
}

func TestLoadConfig_FlagFixesInvalidEnvironment(t *testing.T) {
	t.Setenv("MAX_RETRIES", "0")

	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--max-retries", "3"}))

	cfg, err := loadConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.MaxRetries)
}

func TestLoadConfig_InvalidEnvironment(t *testing.T) {
	t.Setenv("MAX_RETRIES", "0")

	_, err := loadConfig(newRootCmd())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration validation failed: MAX_RETRIES")
}

func TestLoadConfig_InvalidFlag(t *testing.T) {
	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--max-retries", "0"}))

	_, err := loadConfig(cmd)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAX_RETRIES")
}

func TestCheckCmd_DisabledWithoutToken(t *testing.T) {
	t.Setenv("TWITTER_BEARER_TOKEN", "")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"check"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "DISABLED")
}
