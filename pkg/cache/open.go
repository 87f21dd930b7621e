package cache

import (
	"context"
	"fmt"
)

// Options selects and configures a backend for [Open].
type Options struct {
	Backend string // none, file or redis
	Dir     string // file backend root
	Redis   RedisConfig
}

// Open returns the backend named by opts.Backend. An empty backend disables
// caching.
func Open(ctx context.Context, opts Options) (Cache, error) {
	switch opts.Backend {
	case "", BackendNone:
		return NewNullCache(), nil
	case BackendFile:
		if opts.Dir == "" {
			return nil, fmt.Errorf("file cache: directory is required")
		}
		c, err := NewFileCache(opts.Dir)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendRedis:
		c, err := NewRedisCache(ctx, opts.Redis)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	return nil, fmt.Errorf("unknown cache backend %q (want none, file or redis)", opts.Backend)
}
