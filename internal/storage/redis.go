package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/ariefcatur/go-realtime-storefront/internal/redisx"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each bucket as one string key under a namespace.
type RedisStore struct {
	rdb       redis.Cmdable
	namespace string
}

func NewRedisStore(rdb redis.Cmdable, namespace string) *RedisStore {
	return &RedisStore{rdb: rdb, namespace: namespace}
}

func (s *RedisStore) key(b Bucket) string {
	return fmt.Sprintf(redisx.KeyBucket, s.namespace, b)
}

func (s *RedisStore) Save(ctx context.Context, b Bucket, value []byte) error {
	if err := checkBucket(b); err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, s.key(b), value, 0).Err(); err != nil {
		return fmt.Errorf("redis save %s: %w", b, err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, b Bucket) ([]byte, error) {
	if err := checkBucket(b); err != nil {
		return nil, err
	}
	v, err := s.rdb.Get(ctx, s.key(b)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis load %s: %w", b, err)
	}
	return v, nil
}

func (s *RedisStore) Clear(ctx context.Context, b Bucket) error {
	if err := checkBucket(b); err != nil {
		return err
	}
	if err := s.rdb.Del(ctx, s.key(b)).Err(); err != nil {
		return fmt.Errorf("redis clear %s: %w", b, err)
	}
	return nil
}
