// Package pipeline provides the load → arrange → render pipeline for bookstack.
//
// The CLI, the HTTP server and the TUI all go through this package so a book
// collection is validated, sorted, laid out and rendered the same way
// everywhere.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: fetch and validate the book list from a [source.Source]
//  2. Arrange: filter, sort and lay out the books
//  3. Render: produce JSON or SVG output
//
// Each stage is cached independently through a [cache.Cache]. Keys chain: an
// arrangement key includes the hash of the loaded books, and an artifact key
// includes the hash of the arrangement.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, src, pipeline.Options{
//	    Sort:    "title-asc",
//	    Formats: []string{"svg"},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"golang.org/x/text/language"

	"github.com/matzehuels/bookstack/pkg/book"
	"github.com/matzehuels/bookstack/pkg/cache"
	errs "github.com/matzehuels/bookstack/pkg/errors"
	"github.com/matzehuels/bookstack/pkg/render/sink"
	"github.com/matzehuels/bookstack/pkg/stack/layout"
	"github.com/matzehuels/bookstack/pkg/stack/ordering"
)

const (
	// DefaultLocale is the collation locale for text sort keys.
	DefaultLocale = "en"

	// DefaultScale is the SVG scale in pixels per meter.
	DefaultScale = sink.DefaultScale
)

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatSVG  = "svg"
)

// ValidFormats lists the supported output formats.
var ValidFormats = []string{FormatJSON, FormatSVG}

// Options contains all configuration for the pipeline.
type Options struct {
	// Arrange options
	Sort     string   `json:"sort,omitempty"`
	Query    string   `json:"query,omitempty"`
	Locale   string   `json:"locale,omitempty"`
	Origin   *float64 `json:"origin,omitempty"` // nil uses layout.DefaultOrigin
	Gap      float64  `json:"gap,omitempty"`
	Seed     uint64   `json:"seed,omitempty"`
	Jitter   float64  `json:"jitter,omitempty"`
	NoJitter bool     `json:"no_jitter,omitempty"`

	// Render options
	Formats    []string `json:"formats,omitempty"`
	Focus      string   `json:"focus,omitempty"`
	Scale      float64  `json:"scale,omitempty"`
	Background string   `json:"background,omitempty"`

	// Refresh bypasses the books cache.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Books       []book.Book
	BooksHash   string
	Arrangement ordering.Arrangement
	Artifacts   map[string][]byte
	Stats       Stats
	CacheInfo   CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	BookCount   int
	EntryCount  int
	LoadTime    time.Duration
	ArrangeTime time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each stage.
type CacheInfo struct {
	LoadHit    bool
	ArrangeHit bool
	RenderHit  bool // all requested artifacts came from cache
}

// SetDefaults fills unset fields. It is idempotent.
func (o *Options) SetDefaults() {
	if o.Locale == "" {
		o.Locale = DefaultLocale
	}
	if o.Origin == nil {
		o.Origin = Float(layout.DefaultOrigin)
	}
	if o.Jitter == 0 && !o.NoJitter {
		o.Jitter = layout.DefaultJitter
	}
	if o.NoJitter {
		o.Jitter = 0
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate applies defaults and checks every field. Unknown sort keys fail
// with INVALID_SORT_KEY; everything else fails with INVALID_INPUT.
func (o *Options) Validate() error {
	o.SetDefaults()
	if _, err := ordering.ParseKey(o.Sort); err != nil {
		return err
	}
	err := validation.ValidateStruct(o,
		validation.Field(&o.Locale, validation.By(validLocale)),
		validation.Field(&o.Gap, validation.Min(0.0)),
		validation.Field(&o.Jitter, validation.Min(0.0)),
		validation.Field(&o.Scale, validation.Min(0.0).Exclusive()),
		validation.Field(&o.Formats, validation.Each(validation.In(FormatJSON, FormatSVG).Error("must be json or svg"))),
	)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid options")
	}
	return nil
}

// SortKey returns the parsed sort key. Call after [Options.Validate].
func (o *Options) SortKey() ordering.Key {
	k, _ := ordering.ParseKey(o.Sort)
	return k
}

// LayoutOptions converts the arrange options for [layout.Build].
func (o *Options) LayoutOptions() []layout.Option {
	opts := []layout.Option{layout.WithOrigin(o.origin()), layout.WithGap(o.Gap)}
	if o.NoJitter || o.Jitter == 0 {
		return append(opts, layout.WithoutJitter())
	}
	return append(opts, layout.WithJitter(o.Seed, o.Jitter))
}

func (o *Options) origin() float64 {
	if o.Origin == nil {
		return layout.DefaultOrigin
	}
	return *o.Origin
}

// Float returns a pointer to v, for optional fields such as [Options.Origin].
func Float(v float64) *float64 { return &v }

// EngineOptions converts the arrange options for [ordering.New].
func (o *Options) EngineOptions() []ordering.Option {
	tag, err := language.Parse(o.Locale)
	if err != nil {
		tag = language.English
	}
	return []ordering.Option{ordering.WithLocale(tag)}
}

// ArrangementKeyOpts returns cache key options for the arrange stage.
func (o *Options) ArrangementKeyOpts() cache.ArrangementKeyOpts {
	return cache.ArrangementKeyOpts{
		Sort:   string(o.SortKey()),
		Query:  o.Query,
		Locale: o.Locale,
		Origin: o.origin(),
		Gap:    o.Gap,
		Seed:   o.Seed,
		Jitter: o.Jitter,
	}
}

// ArtifactKeyOpts returns cache key options for rendering format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{Format: format, Focus: o.Focus, Scale: o.Scale, Background: o.Background}
}

func validLocale(value any) error {
	s, _ := value.(string)
	if _, err := language.Parse(s); err != nil {
		return validation.NewError("validation_locale", "must be a BCP 47 language tag")
	}
	return nil
}
