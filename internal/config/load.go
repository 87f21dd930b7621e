package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	errs "github.com/matzehuels/bookstack/pkg/errors"
)

// LoadOptions controls where [Load] looks for configuration.
type LoadOptions struct {
	// Path is an explicit TOML file. It must exist when set.
	Path string

	// EnvFiles are loaded with godotenv before the environment is read.
	// Missing files are skipped. Nil means ".env".
	EnvFiles []string

	// Environ replaces the process environment when non-nil.
	Environ map[string]string
}

// DefaultPath returns $XDG_CONFIG_HOME/bookstack/config.toml, falling back to
// ~/.config when XDG_CONFIG_HOME is unset.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "bookstack", "config.toml")
}

// DefaultCacheDir returns $XDG_CACHE_HOME/bookstack, falling back to
// ~/.cache when XDG_CACHE_HOME is unset.
func DefaultCacheDir() string {
	dir := os.Getenv("XDG_CACHE_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".cache")
	}
	return filepath.Join(dir, "bookstack")
}

// Load layers defaults, the TOML file, .env files and the environment, then
// validates the result.
func Load(opts LoadOptions) (*Config, error) {
	cfg := Default()

	path, required := opts.Path, true
	if path == "" {
		path, required = DefaultPath(), false
	}
	if err := decodeFile(path, required, &cfg); err != nil {
		return nil, err
	}

	files := opts.EnvFiles
	if files == nil {
		files = []string{".env"}
	}
	if err := loadEnvFiles(files); err != nil {
		return nil, err
	}

	envOpts := env.Options{Prefix: EnvPrefix}
	if opts.Environ != nil {
		envOpts.Environment = opts.Environ
	}
	if err := env.ParseWithOptions(&cfg, envOpts); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "parse environment")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid configuration")
	}
	return &cfg, nil
}

func decodeFile(path string, required bool, cfg *Config) error {
	if path == "" {
		return nil
	}
	md, err := toml.DecodeFile(path, cfg)
	if errors.Is(err, fs.ErrNotExist) {
		if required {
			return errs.Wrap(errs.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return nil
	}
	if err != nil {
		return errs.Wrap(errs.ErrCodeInvalidFormat, err, "config file %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return errs.New(errs.ErrCodeInvalidFormat, "config file %s: unknown key %s", path, undecoded[0])
	}
	return nil
}

func loadEnvFiles(files []string) error {
	for _, f := range files {
		err := godotenv.Load(f)
		if err == nil || errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return fmt.Errorf("load %s: %w", f, err)
	}
	return nil
}
