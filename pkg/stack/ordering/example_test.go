package ordering_test

import (
	"fmt"

	"github.com/matzehuels/bookstack/pkg/book"
	"github.com/matzehuels/bookstack/pkg/stack/layout"
	"github.com/matzehuels/bookstack/pkg/stack/ordering"
)

func ExampleEngine_Arrange() {
	books := []book.Book{
		{ID: "a", Title: "Zeta", Size: book.SizeThin},
		{ID: "b", Title: "Alpha", Size: book.SizeThick},
		{ID: "f", Title: "Featured", Size: book.SizeMedium, IsFeatured: true},
	}
	e := ordering.New(books)

	fmt.Println(e.Order(ordering.TitleAsc).BookIDs)
	fmt.Println(e.Order(ordering.TitleDesc).BookIDs)

	a := e.Arrange(ordering.TitleAsc, "", layout.WithoutJitter())
	fmt.Println(a.IDs())
	// Output:
	// [b a]
	// [a b]
	// [b a f]
}
