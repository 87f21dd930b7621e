package gate

import (
	"context"
	"fmt"
)

// Store backends accepted by [OpenStore].
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// StoreOptions selects and configures a flag store.
type StoreOptions struct {
	Backend       string // file (default), redis or memory
	Dir           string // file backend root
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
}

// OpenStore returns the store named by opts.Backend.
func OpenStore(ctx context.Context, opts StoreOptions) (Store, error) {
	switch opts.Backend {
	case "", BackendFile:
		s, err := NewFileStore(opts.Dir)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendRedis:
		client, err := DialRedis(ctx, opts.RedisAddr, opts.RedisPassword, opts.RedisDB)
		if err != nil {
			return nil, err
		}
		return NewRedisStore(client, opts.RedisPrefix), nil
	}
	return nil, fmt.Errorf("unknown gate backend %q (want file, redis or memory)", opts.Backend)
}
