package ordering

import (
	"cmp"
	"strings"

	"golang.org/x/text/collate"

	"github.com/matzehuels/bookstack/pkg/book"
	errs "github.com/matzehuels/bookstack/pkg/errors"
)

// Key names a sort permutation, for example "title-asc".
type Key string

// Sort keys.
const (
	TitleAsc   Key = "title-asc"
	TitleDesc  Key = "title-desc"
	AuthorAsc  Key = "author-asc"
	AuthorDesc Key = "author-desc"
	GenreAsc   Key = "genre-asc"
	GenreDesc  Key = "genre-desc"
	DateAsc    Key = "date-asc"
	DateDesc   Key = "date-desc"
	PriceAsc   Key = "price-asc"
	PriceDesc  Key = "price-desc"

	// Unsorted is the input order with featured books removed.
	Unsorted Key = ""
)

// Keys lists every precomputed sort key.
var Keys = []Key{
	TitleAsc, TitleDesc,
	AuthorAsc, AuthorDesc,
	GenreAsc, GenreDesc,
	DateAsc, DateDesc,
	PriceAsc, PriceDesc,
}

// Field returns the part of the key before the direction, e.g. "title".
func (k Key) Field() string {
	field, _, _ := strings.Cut(string(k), "-")
	return field
}

// Descending reports whether k sorts high to low.
func (k Key) Descending() bool { return strings.HasSuffix(string(k), "-desc") }

// Valid reports whether k is one of [Keys].
func (k Key) Valid() bool {
	for _, known := range Keys {
		if k == known {
			return true
		}
	}
	return false
}

// ParseKey validates a user supplied key. An empty string selects [Unsorted].
func ParseKey(s string) (Key, error) {
	k := Key(strings.ToLower(strings.TrimSpace(s)))
	if k == Unsorted || k.Valid() {
		return k, nil
	}
	return "", errs.New(errs.ErrCodeInvalidSortKey, "unknown sort key %q", s)
}

type compareFunc func(a, b book.Book) int

func comparator(field string, c *collate.Collator) compareFunc {
	switch field {
	case "title":
		return func(a, b book.Book) int { return c.CompareString(a.Title, b.Title) }
	case "author":
		return func(a, b book.Book) int {
			if n := c.CompareString(a.Surname, b.Surname); n != 0 {
				return n
			}
			return c.CompareString(a.FirstName, b.FirstName)
		}
	case "genre":
		return func(a, b book.Book) int { return c.CompareString(a.Genre, b.Genre) }
	case "date":
		return func(a, b book.Book) int { return cmp.Compare(a.PublishDate, b.PublishDate) }
	case "price":
		return func(a, b book.Book) int { return a.Price.Cmp(b.Price) }
	}
	return nil
}
