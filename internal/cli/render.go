package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/bookstack/pkg/errors"
	"github.com/matzehuels/bookstack/pkg/pipeline"
)

// defaultOutputBase names render output when -o is not given.
const defaultOutputBase = "stack"

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags      stackFlags
		formatsStr string
		output     string
		focus      string
		scale      float64
		background string
	)

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render the stack to JSON or SVG",
		Long: `Render runs the full pipeline and writes one file per format.

With a single format, -o names the file ("-" writes to stdout). With several
formats, -o is a base path and each file gets its format's extension.`,
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
			opts.Formats = parseFormats(formatsStr)
			opts.Focus = focus
			opts.Scale = scale
			opts.Background = background
			opts.Logger = c.Logger
			if err := opts.Validate(); err != nil {
				return err
			}
			if output == "-" && len(opts.Formats) > 1 {
				return errs.New(errs.ErrCodeInvalidInput, "cannot write %d formats to stdout", len(opts.Formats))
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

			prog := newProgress(c.Logger)
			result, err := runner.Execute(cmd.Context(), src, opts)
			if err != nil {
				printViolations(err)
				return err
			}
			if focus != "" {
				if _, ok := result.Arrangement.Layout.Entry(focus); !ok {
					printWarning("Book %q is not in the stack; rendered without focus", focus)
				}
			}

			if output == "-" {
				_, err := os.Stdout.Write(result.Artifacts[opts.Formats[0]])
				return err
			}
			paths, err := writeArtifacts(result.Artifacts, opts.Formats, output)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Rendered %d artifacts", len(paths)))

			printSuccess("Rendered %s", src.Name())
			printStats(result.Stats.BookCount, result.Stats.EntryCount, string(result.Arrangement.Key), result.CacheInfo.RenderHit)
			for _, p := range paths {
				printFile(p)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): json (default), svg (comma-separated)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (several); - for stdout")
	cmd.Flags().StringVar(&focus, "focus", "", "render with this book id slid out of the stack")
	cmd.Flags().Float64Var(&scale, "scale", pipeline.DefaultScale, "SVG pixels per meter")
	cmd.Flags().StringVar(&background, "background", "", "SVG background color")

	return cmd
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{pipeline.FormatJSON}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f != "" && !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

// outputPaths maps each format to a file path. A single format writes to
// output as given; several formats share output as a base path.
func outputPaths(formats []string, output string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := output
	if base == "" {
		base = defaultOutputBase
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

func writeArtifacts(artifacts map[string][]byte, formats []string, output string) ([]string, error) {
	targets := outputPaths(formats, output)
	written := make([]string, 0, len(formats))
	for _, f := range formats {
		path := targets[f]
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return written, fmt.Errorf("create %s: %w", dir, err)
			}
		}
		if err := os.WriteFile(path, artifacts[f], 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}
