package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bookstack/internal/config"
	"github.com/matzehuels/bookstack/pkg/buildinfo"
	"github.com/matzehuels/bookstack/pkg/cache"
	"github.com/matzehuels/bookstack/pkg/observability"
	"github.com/matzehuels/bookstack/pkg/pipeline"
	"github.com/matzehuels/bookstack/pkg/source"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "bookstack"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigPath is an explicit config file; empty uses the default location.
	ConfigPath string

	// Environ replaces the process environment during config loading. Tests
	// set it; nil reads the real environment.
	Environ map[string]string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. At debug level pipeline, cache and
// HTTP events are logged too.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		hooks := observability.NewLogHooks(c.Logger)
		observability.SetPipelineHooks(hooks)
		observability.SetCacheHooks(hooks)
		observability.SetHTTPHooks(hooks)
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Bookstack arranges a book collection as a 3D stack",
		Long:         `Bookstack validates a collection of books, sorts and searches it, lays it out as a physical stack and serves or renders the result.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.ConfigPath, "config", "c", "", "config file (default $XDG_CONFIG_HOME/bookstack/config.toml)")

	root.AddCommand(c.validateCommand())
	root.AddCommand(c.sortCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.loginCommand())
	root.AddCommand(c.logoutCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config & Sources
// =============================================================================

// loadConfig reads the layered configuration.
func (c *CLI) loadConfig() (*config.Config, error) {
	return config.Load(config.LoadOptions{Path: c.ConfigPath, Environ: c.Environ})
}

// resolveSource picks the book source. A positional argument wins over the
// configured source.
func resolveSource(cfg *config.Config, args []string) (source.Source, error) {
	opts := cfg.SourceOptions()
	if len(args) > 0 && args[0] != "" {
		opts = source.Options{Path: args[0]}
	}
	return source.Resolve(opts)
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. Cache keys are scoped by
// the binary version.
func (c *CLI) newRunner(ctx context.Context, cfg *config.Config, noCache bool) (*pipeline.Runner, error) {
	ch, err := openCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	keyer := cache.NewScopedKeyer(nil, buildinfo.Version+":")
	return pipeline.NewRunner(ch, keyer, c.Logger), nil
}

func openCache(ctx context.Context, cfg *config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	return cache.Open(ctx, cfg.CacheOptions())
}
