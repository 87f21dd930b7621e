// Package source fetches the raw book list.
//
// Every [Source] returns the same JSON array the validator in package book
// accepts, so data from a file, an HTTP endpoint or a MongoDB collection goes
// through identical checks. Fetching happens once per load and is never
// retried: a failure leaves the caller with no content.
package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/matzehuels/bookstack/pkg/book"
	errs "github.com/matzehuels/bookstack/pkg/errors"
)

// Source fetches a JSON array of books.
type Source interface {
	// Name identifies the source in logs and cache keys.
	Name() string

	// Fetch returns the raw JSON array.
	Fetch(ctx context.Context) ([]byte, error)
}

// Load fetches src and validates the result.
func Load(ctx context.Context, src Source) ([]book.Book, error) {
	data, err := src.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	books, err := book.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src.Name(), err)
	}
	return books, nil
}

// Options selects a source. Exactly one of Path, URL or Mongo.URI is used, in
// that order of precedence after URL detection on Path.
type Options struct {
	Path  string
	URL   string
	Mongo MongoOptions
}

// Resolve returns the source described by opts. A Path that looks like an
// http(s) URL is fetched over HTTP.
func Resolve(opts Options) (Source, error) {
	switch {
	case isURL(opts.Path):
		return NewHTTP(opts.Path, nil), nil
	case opts.Path != "":
		return File{Path: opts.Path}, nil
	case opts.URL != "":
		if !isURL(opts.URL) {
			return nil, errs.New(errs.ErrCodeInvalidInput, "source url %q must use http or https", opts.URL)
		}
		return NewHTTP(opts.URL, nil), nil
	case opts.Mongo.URI != "":
		return NewMongo(opts.Mongo), nil
	}
	return nil, errs.New(errs.ErrCodeInvalidInput, "no book source configured (set a path, url or mongo uri)")
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
