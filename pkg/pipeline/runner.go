package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bookstack/pkg/book"
	"github.com/matzehuels/bookstack/pkg/cache"
	errs "github.com/matzehuels/bookstack/pkg/errors"
	"github.com/matzehuels/bookstack/pkg/observability"
	"github.com/matzehuels/bookstack/pkg/render/sink"
	"github.com/matzehuels/bookstack/pkg/source"
	"github.com/matzehuels/bookstack/pkg/stack/focus"
	"github.com/matzehuels/bookstack/pkg/stack/ordering"
)

// Cache key types reported to [observability.CacheHooks].
const (
	keyTypeBooks       = "books"
	keyTypeArrangement = "arrangement"
	keyTypeArtifact    = "artifact"
)

// Runner executes pipeline stages with caching.
//
// A Runner holds no pipeline results; multiple goroutines can use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil keyer uses [cache.DefaultKeyer], a nil
// cache disables caching and a nil logger uses log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs load → arrange → render.
func (r *Runner) Execute(ctx context.Context, src source.Source, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	result := &Result{}

	start := time.Now()
	books, hit, err := r.LoadWithCacheInfo(ctx, src, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Books = books
	result.BooksHash = booksHash(books)
	result.Stats.BookCount = len(books)
	result.Stats.LoadTime = time.Since(start)
	result.CacheInfo.LoadHit = hit

	r.Logger.Info("loaded books", "source", src.Name(), "count", len(books), "duration", result.Stats.LoadTime)

	start = time.Now()
	arr, hit, err := r.ArrangeWithCacheInfo(ctx, books, opts)
	if err != nil {
		return nil, fmt.Errorf("arrange: %w", err)
	}
	result.Arrangement = arr
	result.Stats.EntryCount = len(arr.Layout.Entries)
	result.Stats.ArrangeTime = time.Since(start)
	result.CacheInfo.ArrangeHit = hit

	r.Logger.Info("arranged stack", "sort", arr.Key, "entries", result.Stats.EntryCount, "duration", result.Stats.ArrangeTime)

	start = time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, arr, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(start)
	result.CacheInfo.RenderHit = hit

	r.Logger.Info("rendered outputs", "formats", opts.Formats, "duration", result.Stats.RenderTime)

	return result, nil
}

// LoadWithCacheInfo fetches and validates books, reporting whether they came
// from cache. Options.Refresh skips the cache lookup but still stores the
// fresh result.
func (r *Runner) LoadWithCacheInfo(ctx context.Context, src source.Source, opts Options) ([]book.Book, bool, error) {
	key := r.Keyer.BooksKey(src.Name())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var books []book.Book
			if err := json.Unmarshal(data, &books); err == nil {
				observability.Cache().OnCacheHit(ctx, keyTypeBooks)
				return books, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, keyTypeBooks)
	}

	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, src.Name())
	start := time.Now()
	books, err := source.Load(ctx, src)
	hooks.OnLoadComplete(ctx, src.Name(), len(books), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	r.store(ctx, key, keyTypeBooks, books, cache.TTLBooks)
	return books, false, nil
}

// Load is LoadWithCacheInfo without the cache hit flag.
func (r *Runner) Load(ctx context.Context, src source.Source, opts Options) ([]book.Book, error) {
	books, _, err := r.LoadWithCacheInfo(ctx, src, opts)
	return books, err
}

// ArrangeWithCacheInfo sorts, filters and lays out books, reporting whether
// the arrangement came from cache.
func (r *Runner) ArrangeWithCacheInfo(ctx context.Context, books []book.Book, opts Options) (ordering.Arrangement, bool, error) {
	if err := opts.Validate(); err != nil {
		return ordering.Arrangement{}, false, err
	}

	key := r.Keyer.ArrangementKey(booksHash(books), opts.ArrangementKeyOpts())
	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		var arr ordering.Arrangement
		if err := json.Unmarshal(data, &arr); err == nil {
			observability.Cache().OnCacheHit(ctx, keyTypeArrangement)
			return arr, true, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, keyTypeArrangement)

	sortKey := opts.SortKey()
	hooks := observability.Pipeline()
	hooks.OnArrangeStart(ctx, string(sortKey), len(books))
	start := time.Now()
	arr := ordering.New(books, opts.EngineOptions()...).Arrange(sortKey, opts.Query, opts.LayoutOptions()...)
	hooks.OnArrangeComplete(ctx, string(sortKey), len(arr.Layout.Entries), time.Since(start), nil)

	r.store(ctx, key, keyTypeArrangement, arr, cache.TTLArrangement)
	return arr, false, nil
}

// Arrange is ArrangeWithCacheInfo without the cache hit flag.
func (r *Runner) Arrange(ctx context.Context, books []book.Book, opts Options) (ordering.Arrangement, error) {
	arr, _, err := r.ArrangeWithCacheInfo(ctx, books, opts)
	return arr, err
}

// RenderWithCacheInfo renders arr in every requested format, reporting
// whether all artifacts came from cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, arr ordering.Arrangement, opts Options) (map[string][]byte, bool, error) {
	if err := opts.Validate(); err != nil {
		return nil, false, err
	}

	data, err := json.Marshal(arr)
	if err != nil {
		return nil, false, fmt.Errorf("serialize arrangement for cache key: %w", err)
	}
	arrHash := cache.Hash(data)

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		if data, hit, err := r.Cache.Get(ctx, r.Keyer.ArtifactKey(arrHash, opts.ArtifactKeyOpts(format))); err == nil && hit {
			artifacts[format] = data
		}
	}
	if len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, keyTypeArtifact)
		return artifacts, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, keyTypeArtifact)

	offsets := focus.Displace(arr.Layout, opts.Focus)
	hooks := observability.Pipeline()
	for _, format := range opts.Formats {
		if _, ok := artifacts[format]; ok {
			continue
		}
		hooks.OnRenderStart(ctx, format)
		start := time.Now()
		out, err := renderFormat(format, arr, offsets, opts)
		hooks.OnRenderComplete(ctx, format, len(out), time.Since(start), err)
		if err != nil {
			return nil, false, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = out
		r.setRaw(ctx, r.Keyer.ArtifactKey(arrHash, opts.ArtifactKeyOpts(format)), keyTypeArtifact, out, cache.TTLArtifact)
	}
	return artifacts, false, nil
}

// Render is RenderWithCacheInfo without the cache hit flag.
func (r *Runner) Render(ctx context.Context, arr ordering.Arrangement, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, arr, opts)
	return artifacts, err
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func renderFormat(format string, arr ordering.Arrangement, offsets []focus.Offset, opts Options) ([]byte, error) {
	switch format {
	case FormatJSON:
		return sink.RenderJSON(arr, sink.WithJSONOffsets(offsets))
	case FormatSVG:
		svgOpts := []sink.SVGOption{sink.WithScale(opts.Scale), sink.WithOffsets(offsets)}
		if opts.Background != "" {
			svgOpts = append(svgOpts, sink.WithBackground(opts.Background))
		}
		return sink.RenderSVG(arr, svgOpts...), nil
	default:
		return nil, errs.New(errs.ErrCodeUnsupported, "unsupported format: %s", format)
	}
}

func (r *Runner) store(ctx context.Context, key, keyType string, v any, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		r.Logger.Warn("cache encode failed", "type", keyType, "err", err)
		return
	}
	r.setRaw(ctx, key, keyType, data, ttl)
}

func (r *Runner) setRaw(ctx context.Context, key, keyType string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

func booksHash(books []book.Book) string {
	data, _ := json.Marshal(books)
	return cache.Hash(data)
}
