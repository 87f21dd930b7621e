// Package config assembles bookstack's runtime configuration.
//
// Values are layered, later layers overriding earlier ones:
//
//  1. built-in defaults ([Default])
//  2. a TOML file (--config, or $XDG_CONFIG_HOME/bookstack/config.toml when present)
//  3. .env files, which only set variables not already in the environment
//  4. BOOKSTACK_* environment variables
//  5. command-line flags, applied by the CLI
package config

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/matzehuels/bookstack/pkg/cache"
	"github.com/matzehuels/bookstack/pkg/gate"
	"github.com/matzehuels/bookstack/pkg/pipeline"
	"github.com/matzehuels/bookstack/pkg/source"
	"github.com/matzehuels/bookstack/pkg/stack/layout"
)

// EnvPrefix prefixes every environment variable.
const EnvPrefix = "BOOKSTACK_"

// Config is the complete runtime configuration.
type Config struct {
	Source SourceConfig `toml:"source" envPrefix:"SOURCE_"`
	Server ServerConfig `toml:"server" envPrefix:"SERVER_"`
	Gate   GateConfig   `toml:"gate" envPrefix:"GATE_"`
	Cache  CacheConfig  `toml:"cache" envPrefix:"CACHE_"`
	Redis  RedisConfig  `toml:"redis" envPrefix:"REDIS_"`
	Stack  StackConfig  `toml:"stack" envPrefix:"STACK_"`
}

// SourceConfig selects where books are loaded from.
type SourceConfig struct {
	Path            string        `toml:"path" env:"PATH"`
	URL             string        `toml:"url" env:"URL"`
	MongoURI        string        `toml:"mongo_uri" env:"MONGO_URI"`
	MongoDatabase   string        `toml:"mongo_database" env:"MONGO_DATABASE"`
	MongoCollection string        `toml:"mongo_collection" env:"MONGO_COLLECTION"`
	Timeout         time.Duration `toml:"timeout" env:"TIMEOUT"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string        `toml:"addr" env:"ADDR"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
	CookieSecure    bool          `toml:"cookie_secure" env:"COOKIE_SECURE"`
}

// GateConfig configures the shared-password gate.
type GateConfig struct {
	Password string `toml:"password" env:"PASSWORD"`
	Backend  string `toml:"backend" env:"BACKEND"`
	Dir      string `toml:"dir" env:"DIR"`
	Disabled bool   `toml:"disabled" env:"DISABLED"`
}

// CacheConfig selects the pipeline cache.
type CacheConfig struct {
	Backend string `toml:"backend" env:"BACKEND"`
	Dir     string `toml:"dir" env:"DIR"`
}

// RedisConfig is shared by the redis cache and gate backends.
type RedisConfig struct {
	Addr     string `toml:"addr" env:"ADDR"`
	Password string `toml:"password" env:"PASSWORD"`
	DB       int    `toml:"db" env:"DB"`
	Prefix   string `toml:"prefix" env:"PREFIX"`
}

// StackConfig holds the arrangement defaults.
type StackConfig struct {
	Sort     string  `toml:"sort" env:"SORT"`
	Locale   string  `toml:"locale" env:"LOCALE"`
	Origin   float64 `toml:"origin" env:"ORIGIN"`
	Gap      float64 `toml:"gap" env:"GAP"`
	Seed     uint64  `toml:"seed" env:"SEED"`
	Jitter   float64 `toml:"jitter" env:"JITTER"`
	NoJitter bool    `toml:"no_jitter" env:"NO_JITTER"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Source: SourceConfig{
			MongoDatabase:   source.DefaultMongoDatabase,
			MongoCollection: source.DefaultMongoCollection,
			Timeout:         10 * time.Second,
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Gate: GateConfig{
			Password: gate.DefaultPassword,
			Backend:  gate.BackendFile,
		},
		Cache: CacheConfig{Backend: cache.BackendNone, Dir: DefaultCacheDir()},
		Redis: RedisConfig{Addr: "localhost:6379", Prefix: "bookstack:"},
		Stack: StackConfig{
			Locale: pipeline.DefaultLocale,
			Origin: layout.DefaultOrigin,
			Jitter: layout.DefaultJitter,
		},
	}
}

// Validate checks enumerations and ranges.
func (c *Config) Validate() error {
	return validation.Errors{
		"server": validation.ValidateStruct(&c.Server,
			validation.Field(&c.Server.Addr, validation.Required),
		),
		"gate": validation.ValidateStruct(&c.Gate,
			validation.Field(&c.Gate.Backend, validation.In(gate.BackendFile, gate.BackendRedis, gate.BackendMemory)),
			validation.Field(&c.Gate.Password, validation.When(!c.Gate.Disabled, validation.Required)),
		),
		"cache": validation.ValidateStruct(&c.Cache,
			validation.Field(&c.Cache.Backend, validation.In(cache.BackendNone, cache.BackendFile, cache.BackendRedis)),
			validation.Field(&c.Cache.Dir, validation.When(c.Cache.Backend == cache.BackendFile, validation.Required)),
		),
		"stack": validation.ValidateStruct(&c.Stack,
			validation.Field(&c.Stack.Gap, validation.Min(0.0)),
			validation.Field(&c.Stack.Jitter, validation.Min(0.0)),
		),
	}.Filter()
}

// SourceOptions converts the source section for [source.Resolve].
func (c *Config) SourceOptions() source.Options {
	return source.Options{
		Path: c.Source.Path,
		URL:  c.Source.URL,
		Mongo: source.MongoOptions{
			URI:        c.Source.MongoURI,
			Database:   c.Source.MongoDatabase,
			Collection: c.Source.MongoCollection,
			Timeout:    c.Source.Timeout,
		},
	}
}

// CacheOptions converts the cache section for [cache.Open].
func (c *Config) CacheOptions() cache.Options {
	return cache.Options{
		Backend: c.Cache.Backend,
		Dir:     c.Cache.Dir,
		Redis: cache.RedisConfig{
			Addr:     c.Redis.Addr,
			Password: c.Redis.Password,
			DB:       c.Redis.DB,
			Prefix:   c.Redis.Prefix + "cache:",
		},
	}
}

// GateStoreOptions converts the gate section for [gate.OpenStore].
func (c *Config) GateStoreOptions() gate.StoreOptions {
	return gate.StoreOptions{
		Backend:       c.Gate.Backend,
		Dir:           c.Gate.Dir,
		RedisAddr:     c.Redis.Addr,
		RedisPassword: c.Redis.Password,
		RedisDB:       c.Redis.DB,
		RedisPrefix:   c.Redis.Prefix,
	}
}

// PipelineOptions converts the stack section into pipeline defaults.
func (c *Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		Sort:     c.Stack.Sort,
		Locale:   c.Stack.Locale,
		Origin:   pipeline.Float(c.Stack.Origin),
		Gap:      c.Stack.Gap,
		Seed:     c.Stack.Seed,
		Jitter:   c.Stack.Jitter,
		NoJitter: c.Stack.NoJitter,
	}
}
