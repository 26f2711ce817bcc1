package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "ARK_API_KEY", "ARK_ACCESS_KEY", "ARK_SECRET_KEY", "Model", "ARK_TEMPERATURE",
		"ARK_TOP_P", "ARK_MAX_TOKENS", "RETRIEVER_BACKEND", "RETRIEVER_TOP_K", "JOB_FILES_PATH",
		"COMMUNITY_FILES_PATH", "ELASTICSEARCH_ADDRESSES", "SESSION_BACKEND", "SESSION_TTL",
		"REDIS_DB", "SESSION_SECURE_COOKIE", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.False(t, cfg.AI.Enabled())
	assert.Equal(t, BackendMemory, cfg.Retrieval.Backend)
	assert.Equal(t, []string{"linkedin_jobs.json"}, cfg.Retrieval.JobFiles)
	assert.Equal(t, []string{"scraped_data.json"}, cfg.Retrieval.CommunityFiles)
	assert.Equal(t, 4, cfg.Retrieval.TopK)
	assert.Equal(t, BackendMemory, cfg.Session.Backend)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadParsesOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "127.0.0.1:9000")
	t.Setenv("ARK_API_KEY", "key")
	t.Setenv("Model", "doubao")
	t.Setenv("ARK_TEMPERATURE", "0.2")
	t.Setenv("JOB_FILES_PATH", " a.json, ,b.json ")
	t.Setenv("RETRIEVER_BACKEND", "Elasticsearch")
	t.Setenv("RETRIEVER_TOP_K", "8")
	t.Setenv("SESSION_BACKEND", "redis")
	t.Setenv("SESSION_TTL", "30m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.True(t, cfg.AI.Enabled())
	require.NotNil(t, cfg.AI.Temperature)
	assert.InDelta(t, 0.2, *cfg.AI.Temperature, 1e-9)
	assert.Equal(t, []string{"a.json", "b.json"}, cfg.Retrieval.JobFiles)
	assert.Equal(t, BackendElasticsearch, cfg.Retrieval.Backend)
	assert.Equal(t, 8, cfg.Retrieval.TopK)
	assert.Equal(t, BackendRedis, cfg.Session.Backend)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"PORT":              "80 80",
		"ARK_MAX_TOKENS":    "many",
		"RETRIEVER_BACKEND": "chroma",
		"RETRIEVER_TOP_K":   "0",
		"SESSION_BACKEND":   "cookie",
		"SESSION_TTL":       "forever",
	}

	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestNewChatModelRequiresCredentials(t *testing.T) {
	_, err := AIConfig{Model: "doubao"}.NewChatModel(testContext(t))
	assert.Error(t, err)
}
