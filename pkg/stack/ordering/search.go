package ordering

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/matzehuels/bookstack/pkg/book"
)

// Matcher returns a predicate reporting whether a book matches query.
// Matching is case-insensitive over title, author and genre. A blank query
// matches every book.
func Matcher(query string) func(book.Book) bool {
	fold := cases.Fold()
	q := fold.String(strings.TrimSpace(query))
	if q == "" {
		return func(book.Book) bool { return true }
	}
	return func(b book.Book) bool {
		for _, s := range []string{b.Title, b.Author(), b.Genre} {
			if strings.Contains(fold.String(s), q) {
				return true
			}
		}
		return false
	}
}
