package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bookstack/internal/config"
	"github.com/matzehuels/bookstack/pkg/pipeline"
	"github.com/matzehuels/bookstack/pkg/stack/ordering"
)

// stackFlags are the arrangement flags shared by layout, render and browse.
// Flags the user did not set keep the configured values.
type stackFlags struct {
	sort     string
	query    string
	locale   string
	origin   float64
	gap      float64
	seed     uint64
	jitter   float64
	noJitter bool
	noCache  bool
	refresh  bool

	cmd *cobra.Command
}

func (f *stackFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.sort, "sort", "s", "", "sort key: "+sortKeyList())
	fs.StringVarP(&f.query, "query", "q", "", "only keep books whose title, author or genre contains this text")
	fs.StringVar(&f.locale, "locale", "", "collation locale for text sorts (BCP 47)")
	fs.Float64Var(&f.origin, "origin", 0, "height of the bottom book's underside in meters")
	fs.Float64Var(&f.gap, "gap", 0, "vertical gap between books in meters")
	fs.Uint64Var(&f.seed, "seed", 0, "seed for the lateral jitter")
	fs.Float64Var(&f.jitter, "jitter", 0, "maximum lateral jitter in meters")
	fs.BoolVar(&f.noJitter, "no-jitter", false, "stack books exactly on top of each other")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable the pipeline cache")
	fs.BoolVar(&f.refresh, "refresh", false, "reload books even when cached")

	_ = cmd.RegisterFlagCompletionFunc("sort", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		keys := make([]string, len(ordering.Keys))
		for i, k := range ordering.Keys {
			keys[i] = string(k)
		}
		return keys, cobra.ShellCompDirectiveNoFileComp
	})
	f.cmd = cmd
}

// options merges the configured pipeline options with the flags that were set
// and validates the result.
func (f *stackFlags) options(cfg *config.Config) (pipeline.Options, error) {
	opts := cfg.PipelineOptions()
	changed := func(name string) bool { return f.cmd != nil && f.cmd.Flags().Changed(name) }

	if changed("sort") {
		opts.Sort = f.sort
	}
	if changed("query") {
		opts.Query = f.query
	}
	if changed("locale") {
		opts.Locale = f.locale
	}
	if changed("origin") {
		opts.Origin = pipeline.Float(f.origin)
	}
	if changed("gap") {
		opts.Gap = f.gap
	}
	if changed("seed") {
		opts.Seed = f.seed
	}
	if changed("jitter") {
		opts.Jitter = f.jitter
	}
	if changed("no-jitter") {
		opts.NoJitter = f.noJitter
	}
	opts.Refresh = f.refresh

	if err := opts.Validate(); err != nil {
		return pipeline.Options{}, err
	}
	return opts, nil
}

func sortKeyList() string {
	keys := make([]string, len(ordering.Keys))
	for i, k := range ordering.Keys {
		keys[i] = string(k)
	}
	return strings.Join(keys, ", ")
}
