package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bookstack/pkg/book"
	errs "github.com/matzehuels/bookstack/pkg/errors"
	"github.com/matzehuels/bookstack/pkg/source"
)

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Check a book collection against the schema",
		Long: `Validate loads the book collection and reports every schema violation.

Validation is all-or-nothing: one bad record rejects the whole collection.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			src, err := resolveSource(cfg, args)
			if err != nil {
				return err
			}

			prog := newProgress(c.Logger)
			books, err := source.Load(cmd.Context(), src)
			if err != nil {
				printViolations(err)
				return err
			}
			prog.done("Validated " + src.Name())

			regular, featured := book.Split(books)
			printSuccess("%d books valid", len(books))
			printKeyValue("Source", src.Name())
			printKeyValue("Stacked", fmt.Sprint(len(regular)))
			printKeyValue("Featured", fmt.Sprint(len(featured)))
			printNextStep("Render it", "bookstack render "+firstArg(args)+" -f svg")
			return nil
		},
	}
}

// printViolations lists each schema violation on its own line.
func printViolations(err error) {
	var ve *errs.ValidationError
	if !errors.As(err, &ve) {
		return
	}
	printError("%s", ve.Summary())
	for _, f := range ve.Fields {
		printDetail("%s", f.String())
	}
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
