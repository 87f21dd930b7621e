package layout_test

import (
	"fmt"

	"github.com/matzehuels/bookstack/pkg/book"
	"github.com/matzehuels/bookstack/pkg/stack/layout"
)

func ExampleBuild() {
	books := []book.Book{
		{ID: "a", Title: "Zeta", Size: book.SizeThin},
		{ID: "b", Title: "Alpha", Size: book.SizeThick},
	}

	l := layout.Build(books, layout.WithoutJitter())
	for _, e := range l.Entries {
		fmt.Printf("%s y=%.4f standing=%v\n", e.ID, e.Position.Y, e.Standing)
	}
	fmt.Printf("top=%.4f\n", l.StackTop)
	// Output:
	// a y=0.0095 standing=false
	// b y=0.1095 standing=true
	// top=0.0295
}
