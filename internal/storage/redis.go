package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"edupay/internal/core"
)

// RedisStore keeps the document under a single Redis key with no
// expiry. Suits deployments where the app host has no durable disk.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(ctx context.Context, addr, password string, db int) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisStore{rdb: rdb}, nil
}

func (s *RedisStore) Load(ctx context.Context) (core.AppData, error) {
	raw, err := s.rdb.Get(ctx, DocumentKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return core.DefaultData(), nil
	}
	if err != nil {
		return core.DefaultData(), fmt.Errorf("load document: %w", err)
	}
	return decodeDocument(ctx, raw), nil
}

func (s *RedisStore) Save(ctx context.Context, data core.AppData) error {
	body, err := encodeDocument(data)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if err := s.rdb.Set(ctx, DocumentKey, body, 0).Err(); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	slog.InfoContext(ctx, "Document saved to Redis",
		"key", DocumentKey,
		"students", len(data.Students),
		"payments", len(data.Payments))
	return nil
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
