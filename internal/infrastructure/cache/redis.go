package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/johnquangdev/meetnotes/internal/domain/entities"
	repo "github.com/johnquangdev/meetnotes/internal/domain/repositories"
	"github.com/johnquangdev/meetnotes/pkg/config"
)

// RedisStore keeps pipeline sessions in Redis so several API processes can share them
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

var _ repo.SessionStore = (*RedisStore)(nil)

// NewRedisStore connects to Redis and verifies the connection
func NewRedisStore(ctx context.Context, cfg *config.Config) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &RedisStore{client: client, ttl: cfg.Session.TTL}, nil
}

// NewRedisStoreFromClient wraps an existing client
func NewRedisStoreFromClient(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (rs *RedisStore) Put(ctx context.Context, session *entities.PipelineSession) error {
	value, err := encodeSession(session)
	if err != nil {
		return err
	}
	if err := rs.client.Set(ctx, keyPrefix+session.ID.String(), value, rs.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

func (rs *RedisStore) Get(ctx context.Context, id uuid.UUID) (*entities.PipelineSession, error) {
	value, err := rs.client.Get(ctx, keyPrefix+id.String()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, entities.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return decodeSession(value)
}

func (rs *RedisStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := rs.client.Del(ctx, keyPrefix+id.String()).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Close closes the underlying client
func (rs *RedisStore) Close() error {
	return rs.client.Close()
}
