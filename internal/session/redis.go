package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisStore struct {
	redis *redis.Client
	ttl   time.Duration
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{redis: client, ttl: ttl}
}

// NewRedisClient connects and pings once. A failed ping is returned so the
// caller can decide whether to fall back to the memory store.
func NewRedisClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", addr, err)
	}
	return client, nil
}

func (s *RedisStore) Create(ctx context.Context) (*Data, error) {
	d := newData(s.ttl)
	if err := s.Save(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Data, error) {
	val, err := s.redis.Get(ctx, key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, notFound(id)
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return decode(val)
}

func (s *RedisStore) Save(ctx context.Context, d *Data) error {
	d.ExpiresAt = time.Now().UTC().Add(s.ttl)
	b, err := encode(d)
	if err != nil {
		return err
	}
	if err := s.redis.Set(ctx, key(d.ID), b, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.redis.Del(ctx, key(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
