package ordering

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/matzehuels/bookstack/pkg/book"
	"github.com/matzehuels/bookstack/pkg/stack/layout"
)

// SortOrder is a named permutation of non-featured book ids, bottom to top.
type SortOrder struct {
	Name    Key      `json:"name"`
	BookIDs []string `json:"bookIds"`
}

// Option configures [New].
type Option func(*Engine)

// WithLocale selects the collation used for text keys. The default is English.
func WithLocale(tag language.Tag) Option { return func(e *Engine) { e.locale = tag } }

// Engine holds the books of one data load and their precomputed permutations.
// An Engine is immutable after New and safe for concurrent use.
type Engine struct {
	locale   language.Tag
	books    []book.Book
	byID     map[string]book.Book
	featured []book.Book
	original SortOrder
	orders   map[Key]SortOrder
}

// New precomputes every permutation in [Keys] for books.
func New(books []book.Book, opts ...Option) *Engine {
	e := &Engine{
		locale: language.English,
		books:  slices.Clone(books),
		byID:   book.Index(books),
		orders: make(map[Key]SortOrder, len(Keys)),
	}
	for _, opt := range opts {
		opt(e)
	}

	regular, featured := book.Split(e.books)
	e.featured = featured
	e.original = SortOrder{Name: Unsorted, BookIDs: book.IDs(regular)}

	c := collate.New(e.locale)
	for _, k := range Keys {
		e.orders[k] = permute(k, regular, c)
	}
	return e
}

func permute(k Key, regular []book.Book, c *collate.Collator) SortOrder {
	less := comparator(k.Field(), c)
	sorted := slices.Clone(regular)
	if k.Descending() {
		slices.SortStableFunc(sorted, func(a, b book.Book) int { return less(b, a) })
	} else {
		slices.SortStableFunc(sorted, less)
	}
	return SortOrder{Name: k, BookIDs: book.IDs(sorted)}
}

// Order returns the permutation for k. Unknown or empty keys return the
// original order without error.
func (e *Engine) Order(k Key) SortOrder {
	o, ok := e.orders[k]
	if !ok {
		o = e.original
	}
	return SortOrder{Name: o.Name, BookIDs: slices.Clone(o.BookIDs)}
}

// Orders returns every precomputed permutation in [Keys] order.
func (e *Engine) Orders() []SortOrder {
	out := make([]SortOrder, 0, len(Keys))
	for _, k := range Keys {
		out = append(out, e.Order(k))
	}
	return out
}

// Books returns the books in input order.
func (e *Engine) Books() []book.Book { return slices.Clone(e.books) }

// Book looks up a book by id.
func (e *Engine) Book(id string) (book.Book, bool) {
	b, ok := e.byID[id]
	return b, ok
}

// Featured returns the featured books in input order.
func (e *Engine) Featured() []book.Book { return slices.Clone(e.featured) }

// Locale returns the collation locale.
func (e *Engine) Locale() language.Tag { return e.locale }

// Arrangement is one sorted, filtered and laid out view of the stack.
type Arrangement struct {
	Key    Key           `json:"sort"`
	Query  string        `json:"query,omitempty"`
	Books  []book.Book   `json:"books"`
	Layout layout.Layout `json:"layout"`
}

// IDs returns the arranged book ids bottom to top.
func (a Arrangement) IDs() []string { return book.IDs(a.Books) }

// Arrange applies the search query, orders the remaining books by k, places
// featured books on top and lays the result out from scratch.
func (e *Engine) Arrange(k Key, query string, opts ...layout.Option) Arrangement {
	match := Matcher(query)
	order := e.Order(k)

	books := make([]book.Book, 0, len(e.books))
	for _, id := range order.BookIDs {
		if b := e.byID[id]; match(b) {
			books = append(books, b)
		}
	}
	for _, b := range e.featured {
		if match(b) {
			books = append(books, b)
		}
	}

	return Arrangement{
		Key:    order.Name,
		Query:  query,
		Books:  books,
		Layout: layout.Build(books, opts...),
	}
}
