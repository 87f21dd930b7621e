package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bookstack/internal/config"
	"github.com/matzehuels/bookstack/internal/server"
	"github.com/matzehuels/bookstack/pkg/gate"
	"github.com/matzehuels/bookstack/pkg/pipeline"
	"github.com/matzehuels/bookstack/pkg/source"
	"github.com/matzehuels/bookstack/pkg/stack/store"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		flags  stackFlags
		addr   string
		noGate bool
	)

	cmd := &cobra.Command{
		Use:   "serve [file]",
		Short: "Serve the stack over HTTP",
		Long: `Serve loads the books once and exposes the stack through a JSON API.

Every /api route except login requires the shared password. A collection that
fails to load is not retried: the server keeps running and answers with 503.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if noGate {
				cfg.Gate.Disabled = true
			}
			opts, err := flags.options(cfg)
			if err != nil {
				return err
			}
			src, err := resolveSource(cfg, args)
			if err != nil {
				return err
			}

			st, err := c.loadStore(ctx, cfg, src, opts, flags.noCache)
			if err != nil {
				return err
			}

			var g *gate.Gate
			if !cfg.Gate.Disabled {
				g, err = c.openGate(ctx, cfg)
				if err != nil {
					return err
				}
				defer g.Close()
			} else {
				printWarning("Password gate disabled")
			}

			srv := server.New(st, g, c.Logger, server.Options{
				Addr:            cfg.Server.Addr,
				ShutdownTimeout: cfg.Server.ShutdownTimeout,
				CookieSecure:    cfg.Server.CookieSecure,
			})
			printInfo("Listening on %s", StyleLink.Render(listenURL(cfg.Server.Addr)))
			return srv.Run(ctx)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noGate, "no-gate", false, "serve without the password gate")
	return cmd
}

// loadStore loads the books into a new store. Load failures are recorded on
// the store rather than returned, so callers can still present an empty stack.
func (c *CLI) loadStore(ctx context.Context, cfg *config.Config, src source.Source, opts pipeline.Options, noCache bool) (*store.Store, error) {
	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	defer runner.Close()

	st := store.New(
		store.WithLogger(c.Logger),
		store.WithLayout(opts.LayoutOptions()...),
		store.WithEngine(opts.EngineOptions()...),
		store.WithSort(opts.SortKey()),
	)

	spin := newSpinner(ctx, "Loading books from "+src.Name())
	spin.Start()
	books, err := runner.Load(ctx, src, opts)
	spin.Stop()
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if err != nil {
		printViolations(err)
		st.Fail(err)
		return st, nil
	}
	if err := st.Load(books); err != nil {
		return nil, err
	}
	if opts.Query != "" {
		st.SetSearch(opts.Query)
	}
	return st, nil
}

// openGate opens the configured flag store and wraps it in a gate.
func (c *CLI) openGate(ctx context.Context, cfg *config.Config) (*gate.Gate, error) {
	flags, err := gate.OpenStore(ctx, cfg.GateStoreOptions())
	if err != nil {
		return nil, fmt.Errorf("open gate store: %w", err)
	}
	return gate.New(cfg.Gate.Password, flags, c.Logger), nil
}

func listenURL(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "http://localhost" + addr
	}
	return "http://" + addr
}
