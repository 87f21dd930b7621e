package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bookstack/pkg/render/sink"
	"github.com/matzehuels/bookstack/pkg/stack/ordering"
)

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags  stackFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "layout [file]",
		Short: "Print where each book sits in the stack",
		Long: `Layout sorts, filters and stacks the books and prints each entry's position.

Heights are in millimeters above the reference surface. The top book stands on
its long edge.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts, err := flags.options(cfg)
			if err != nil {
				return err
			}
			src, err := resolveSource(cfg, args)
			if err != nil {
				return err
			}
			runner, err := c.newRunner(cmd.Context(), cfg, flags.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			books, loadHit, err := runner.LoadWithCacheInfo(cmd.Context(), src, opts)
			if err != nil {
				printViolations(err)
				return err
			}
			arr, arrangeHit, err := runner.ArrangeWithCacheInfo(cmd.Context(), books, opts)
			if err != nil {
				return err
			}

			if asJSON {
				data, err := sink.RenderJSON(arr, sink.WithJSONBooks())
				if err != nil {
					return err
				}
				_, err = os.Stdout.Write(append(data, '\n'))
				return err
			}

			fmt.Println(renderEntries(arr))
			printStats(len(books), len(arr.Books), string(arr.Key), loadHit && arrangeHit)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the arrangement as JSON")
	return cmd
}

// renderEntries tabulates layout entries top of the stack first, the way the
// stack reads from above.
func renderEntries(arr ordering.Arrangement) string {
	entries := arr.Layout.Entries
	rows := make([][]string, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		e, b := entries[i], arr.Books[i]
		pose := "flat"
		if e.Standing {
			pose = "standing"
		}
		rows = append(rows, []string{
			fmt.Sprint(e.Index),
			b.Title,
			string(b.Size),
			mm(e.Bottom()),
			mm(e.Top()),
			mm(e.Position.X),
			mm(e.Position.Z),
			pose,
		})
	}
	return newTable("#", "Title", "Size", "Bottom", "Top", "X", "Z", "Pose").Rows(rows...).Render()
}

func mm(meters float64) string {
	return fmt.Sprintf("%.1f", meters*1000)
}
