package kvstore

import (
	"context"
	"errors"
	"net"

	"github.com/go-redis/redis/v8"
)

type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

type RedisParams struct {
	Host     string
	Port     string
	Password string
}

func NewRedisClient(params RedisParams) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(params.Host, params.Port),
		Password: params.Password,
		DB:       0, // use default DB
	})
}

// NewRedisStore stores every key as prefix+key. Tracing, if any, is
// added as a hook on rdb by the caller.
func NewRedisStore(rdb *redis.Client, prefix string) *RedisStore {
	return &RedisStore{
		rdb:    rdb,
		prefix: prefix,
	}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.rdb.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return value, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	return s.rdb.Set(ctx, s.prefix+key, value, 0).Err()
}

func (s *RedisStore) Remove(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, s.prefix+key).Err()
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
