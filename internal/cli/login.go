package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	errs "github.com/matzehuels/bookstack/pkg/errors"
	"github.com/matzehuels/bookstack/pkg/gate"
)

// loginCommand creates the login command.
func (c *CLI) loginCommand() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Enter the shared password for this machine",
		Long: `Login checks the shared password and remembers this machine as
authenticated, so browse opens without asking again.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cfg.Gate.Disabled {
				printInfo("Password gate is disabled")
				return nil
			}
			g, err := c.openGate(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer g.Close()

			if ok, err := g.Authenticated(cmd.Context(), gate.LocalDevice); err != nil {
				return err
			} else if ok {
				printSuccess("Already logged in")
				return nil
			}

			if !cmd.Flags().Changed("password") {
				password, err = promptPassword(cmd.InOrStdin(), cmd.ErrOrStderr())
				if err != nil {
					return err
				}
			}
			if err := g.Login(cmd.Context(), gate.LocalDevice, password); err != nil {
				if errs.Is(err, errs.ErrCodeUnauthorized) {
					printError("Incorrect password")
				}
				return err
			}
			printSuccess("Logged in")
			printNextStep("Browse the stack", "bookstack browse")
			return nil
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "shared password (prompted when omitted)")
	return cmd
}

// logoutCommand creates the logout command.
func (c *CLI) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget that this machine entered the password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			g, err := c.openGate(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer g.Close()

			if err := g.Logout(cmd.Context(), gate.LocalDevice); err != nil {
				return err
			}
			printSuccess("Logged out")
			return nil
		},
	}
}

// promptPassword reads one line from in, without echo when in is a terminal.
func promptPassword(in io.Reader, prompt io.Writer) (string, error) {
	fmt.Fprint(prompt, "Password: ")
	if f, ok := in.(*os.File); ok && term.IsTerminal(f.Fd()) {
		b, err := term.ReadPassword(f.Fd())
		fmt.Fprintln(prompt)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
