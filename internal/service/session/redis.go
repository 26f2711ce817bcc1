package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/careercompass/backend/internal/config"
)

const keyPrefix = "session:history:"

// RedisStore keeps histories as JSON arrays under keys that expire ttl after
// the last save.
type RedisStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(client redis.UniversalClient, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// NewRedisClient connects to the configured server and pings it.
func NewRedisClient(ctx context.Context, cfg config.SessionConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", cfg.RedisAddr, err)
	}
	return client, nil
}

func (s *RedisStore) Load(ctx context.Context, id string) ([]string, error) {
	if id == "" {
		return nil, ErrSessionRequired
	}

	raw, err := s.client.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}

	var history []string
	if err := json.Unmarshal(raw, &history); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return history, nil
}

func (s *RedisStore) Save(ctx context.Context, id string, history []string) error {
	if id == "" {
		return ErrSessionRequired
	}

	raw, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", id, err)
	}
	if err := s.client.Set(ctx, keyPrefix+id, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session %s: %w", id, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrSessionRequired
	}
	if err := s.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	return nil
}
