package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bookstack/pkg/book"
	"github.com/matzehuels/bookstack/pkg/stack/ordering"
)

// sortCommand creates the sort command.
func (c *CLI) sortCommand() *cobra.Command {
	var flags stackFlags

	cmd := &cobra.Command{
		Use:   "sort [file]",
		Short: "Print the precomputed sort permutations",
		Long: `Sort prints every precomputed permutation of the stacked books.

With --sort, it prints the books of one permutation as a table instead,
bottom of the stack first. Featured books are never sorted and are listed
last.`,
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

			books, err := runner.Load(cmd.Context(), src, opts)
			if err != nil {
				printViolations(err)
				return err
			}
			engine := ordering.New(books, opts.EngineOptions()...)

			if !cmd.Flags().Changed("sort") {
				fmt.Println(renderOrders(engine))
				return nil
			}
			arr := engine.Arrange(opts.SortKey(), opts.Query)
			fmt.Println(renderBooks(arr.Books))
			printStats(len(books), len(arr.Books), string(arr.Key), false)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

// renderOrders tabulates every permutation as a row of titles.
func renderOrders(e *ordering.Engine) string {
	rows := make([][]string, 0, len(ordering.Keys))
	for _, o := range e.Orders() {
		titles := make([]string, len(o.BookIDs))
		for i, id := range o.BookIDs {
			b, _ := e.Book(id)
			titles[i] = b.Title
		}
		rows = append(rows, []string{string(o.Name), strings.Join(titles, " › ")})
	}
	if f := e.Featured(); len(f) > 0 {
		rows = append(rows, []string{"featured", strings.Join(titleList(f), ", ")})
	}

	return newTable("Sort", "Order (bottom first)").Rows(rows...).Render()
}

// renderBooks tabulates books in stack order.
func renderBooks(books []book.Book) string {
	rows := make([][]string, len(books))
	for i, b := range books {
		featured := ""
		if b.IsFeatured {
			featured = "★"
		}
		rows[i] = []string{fmt.Sprint(i), b.Title, b.Author(), b.Genre, b.PublishDate, b.Price.StringFixed(2), featured}
	}
	return newTable("#", "Title", "Author", "Genre", "Published", "Price", "").Rows(rows...).Render()
}

func newTable(headers ...string) *table.Table {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	cellStyle := lipgloss.NewStyle().Foreground(colorWhite).Padding(0, 1)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle.Padding(0, 1)
			}
			return cellStyle
		})
}

func titleList(books []book.Book) []string {
	out := make([]string, len(books))
	for i, b := range books {
		out[i] = b.Title
	}
	return out
}
