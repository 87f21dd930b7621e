package gate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps flags in Redis under "<prefix>painted-dog-auth:<device>".
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore wraps client. An empty prefix uses "bookstack:".
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "bookstack:"
	}
	return &RedisStore{client: client, prefix: prefix}
}

// DialRedis connects to addr and verifies the connection.
func DialRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}

func (s *RedisStore) key(device string) string {
	return s.prefix + StorageKey + ":" + device
}

func (s *RedisStore) Get(ctx context.Context, device string) (Flag, bool, error) {
	data, err := s.client.Get(ctx, s.key(device)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Flag{}, false, nil
	}
	if err != nil {
		return Flag{}, false, err
	}
	var f Flag
	if err := json.Unmarshal(data, &f); err != nil {
		return Flag{}, false, fmt.Errorf("parse flag: %w", err)
	}
	return f, true, nil
}

func (s *RedisStore) Set(ctx context.Context, f Flag) error {
	data, err := json.Marshal(f)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(f.Device), data, 0).Err()
}

func (s *RedisStore) Delete(ctx context.Context, device string) error {
	return s.client.Del(ctx, s.key(device)).Err()
}

func (s *RedisStore) Close() error { return s.client.Close() }

var _ Store = (*RedisStore)(nil)
