package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// Config aggregates every setting the service reads at startup.
type Config struct {
	Server    ServerConfig
	AI        AIConfig
	Retrieval RetrievalConfig
	Session   SessionConfig
	Log       LogConfig
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	retrieval, err := loadRetrievalConfig()
	if err != nil {
		return nil, err
	}

	session, err := loadSessionConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:    server,
		AI:        ai,
		Retrieval: retrieval,
		Session:   session,
		Log:       loadLogConfig(),
	}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// ":8080" and "127.0.0.1:8080" are taken as-is.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// AIConfig describes the chat model used for classification and answers.
type AIConfig struct {
	APIKey      string
	AccessKey   string
	SecretKey   string
	Model       string
	BaseURL     string
	Region      string
	Temperature *float64
	TopP        *float64
	MaxTokens   *int
}

// Enabled reports whether a model and credentials were supplied.
func (c AIConfig) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel builds the Ark chat model described by the config.
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("ark credentials or model missing: set ARK_API_KEY + Model or ARK_ACCESS_KEY/ARK_SECRET_KEY")
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	var topP *float32
	if c.TopP != nil {
		val := float32(*c.TopP)
		topP = &val
	}

	var maxTokens *int
	if c.MaxTokens != nil {
		val := *c.MaxTokens
		maxTokens = &val
	}

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		TopP:        topP,
	}

	return ark.NewChatModel(ctx, cfg)
}

func loadAIConfig() (AIConfig, error) {
	temperature, err := parseOptionalFloatEnv("ARK_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}

	topP, err := parseOptionalFloatEnv("ARK_TOP_P")
	if err != nil {
		return AIConfig{}, err
	}

	maxTokens, err := parseOptionalIntEnv("ARK_MAX_TOKENS")
	if err != nil {
		return AIConfig{}, err
	}

	return AIConfig{
		APIKey:      strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		AccessKey:   strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		SecretKey:   strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		Model:       strings.TrimSpace(os.Getenv("Model")),
		BaseURL:     getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		Region:      getEnvOrDefault("ARK_REGION", "cn-beijing"),
		Temperature: temperature,
		TopP:        topP,
		MaxTokens:   maxTokens,
	}, nil
}

// Retrieval backends.
const (
	BackendMemory        = "memory"
	BackendElasticsearch = "elasticsearch"
	BackendRedis         = "redis"
)

// RetrievalConfig selects and configures the document corpora.
type RetrievalConfig struct {
	Backend                string
	JobFiles               []string
	CommunityFiles         []string
	ElasticsearchAddresses []string
	ElasticsearchUsername  string
	ElasticsearchPassword  string
	JobIndex               string
	CommunityIndex         string
	TopK                   int
}

func loadRetrievalConfig() (RetrievalConfig, error) {
	backend := strings.ToLower(getEnvOrDefault("RETRIEVER_BACKEND", BackendMemory))
	if backend != BackendMemory && backend != BackendElasticsearch {
		return RetrievalConfig{}, fmt.Errorf("invalid RETRIEVER_BACKEND value %q", backend)
	}

	topK := 4
	if override, err := parseOptionalIntEnv("RETRIEVER_TOP_K"); err != nil {
		return RetrievalConfig{}, err
	} else if override != nil {
		if *override < 1 {
			return RetrievalConfig{}, fmt.Errorf("invalid RETRIEVER_TOP_K value %d: must be positive", *override)
		}
		topK = *override
	}

	return RetrievalConfig{
		Backend:                backend,
		JobFiles:               splitList(getEnvOrDefault("JOB_FILES_PATH", "linkedin_jobs.json")),
		CommunityFiles:         splitList(getEnvOrDefault("COMMUNITY_FILES_PATH", "scraped_data.json")),
		ElasticsearchAddresses: splitList(getEnvOrDefault("ELASTICSEARCH_ADDRESSES", "http://localhost:9200")),
		ElasticsearchUsername:  strings.TrimSpace(os.Getenv("ELASTICSEARCH_USERNAME")),
		ElasticsearchPassword:  strings.TrimSpace(os.Getenv("ELASTICSEARCH_PASSWORD")),
		JobIndex:               getEnvOrDefault("ELASTICSEARCH_JOB_INDEX", "jobs"),
		CommunityIndex:         getEnvOrDefault("ELASTICSEARCH_COMMUNITY_INDEX", "community"),
		TopK:                   topK,
	}, nil
}

// SessionConfig configures where per-session chat history is kept.
type SessionConfig struct {
	Backend       string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	TTL           time.Duration
	SecureCookie  bool
}

func loadSessionConfig() (SessionConfig, error) {
	backend := strings.ToLower(getEnvOrDefault("SESSION_BACKEND", BackendMemory))
	if backend != BackendMemory && backend != BackendRedis {
		return SessionConfig{}, fmt.Errorf("invalid SESSION_BACKEND value %q", backend)
	}

	db := 0
	if override, err := parseOptionalIntEnv("REDIS_DB"); err != nil {
		return SessionConfig{}, err
	} else if override != nil {
		db = *override
	}

	ttl := 24 * time.Hour
	if raw := strings.TrimSpace(os.Getenv("SESSION_TTL")); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return SessionConfig{}, fmt.Errorf("invalid SESSION_TTL value %q: %w", raw, err)
		}
		ttl = parsed
	}

	secure, err := parseBoolEnv("SESSION_SECURE_COOKIE", false)
	if err != nil {
		return SessionConfig{}, err
	}

	return SessionConfig{
		Backend:       backend,
		RedisAddr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword: strings.TrimSpace(os.Getenv("REDIS_PASSWORD")),
		RedisDB:       db,
		TTL:           ttl,
		SecureCookie:  secure,
	}, nil
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level  string
	Format string
}

func loadLogConfig() LogConfig {
	return LogConfig{
		Level:  strings.ToLower(getEnvOrDefault("LOG_LEVEL", "info")),
		Format: strings.ToLower(getEnvOrDefault("LOG_FORMAT", "console")),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
