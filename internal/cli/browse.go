package cli

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bookstack/internal/config"
	errs "github.com/matzehuels/bookstack/pkg/errors"
	"github.com/matzehuels/bookstack/pkg/gate"
)

// browseCommand creates the interactive browse command.
func (c *CLI) browseCommand() *cobra.Command {
	var flags stackFlags

	cmd := &cobra.Command{
		Use:   "browse [file]",
		Short: "Explore the stack interactively",
		Long: `Browse opens the stack in a terminal UI.

Keys:
  ↑/↓ or k/j   move through the stack
  enter        feature the book under the cursor, or put it back
  s            cycle the sort order
  /            search by title, author or genre
  esc          clear the featured book, then the search
  q            quit`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts, err := flags.options(cfg)
			if err != nil {
				return err
			}
			if err := c.ensureLoggedIn(ctx, cfg); err != nil {
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

			p := tea.NewProgram(newBrowseModel(st), tea.WithAltScreen(), tea.WithContext(ctx))
			unsubscribe := watch(st, func(msg tea.Msg) { go p.Send(msg) })
			defer unsubscribe()
			_, err = p.Run()
			return err
		},
	}

	flags.register(cmd)
	return cmd
}

// ensureLoggedIn asks for the shared password unless this machine already
// entered it or the gate is disabled.
func (c *CLI) ensureLoggedIn(ctx context.Context, cfg *config.Config) error {
	if cfg.Gate.Disabled {
		return nil
	}
	g, err := c.openGate(ctx, cfg)
	if err != nil {
		return err
	}
	defer g.Close()

	ok, err := g.Authenticated(ctx, gate.LocalDevice)
	if err != nil || ok {
		return err
	}
	password, err := promptPassword(os.Stdin, os.Stderr)
	if err != nil {
		return err
	}
	if err := g.Login(ctx, gate.LocalDevice, password); err != nil {
		if errs.Is(err, errs.ErrCodeUnauthorized) {
			printError("Incorrect password")
		}
		return err
	}
	return nil
}
