package sink_test

import (
	"fmt"

	"github.com/matzehuels/bookstack/pkg/book"
	"github.com/matzehuels/bookstack/pkg/render/sink"
	"github.com/matzehuels/bookstack/pkg/stack/layout"
	"github.com/matzehuels/bookstack/pkg/stack/ordering"
)

func ExampleRenderJSON() {
	books := []book.Book{
		{ID: "a", Title: "Zeta", Size: book.SizeThin, Color: "#000000"},
		{ID: "b", Title: "Alpha", Size: book.SizeThick, Color: "#ffffff"},
	}
	arr := ordering.New(books).Arrange(ordering.TitleAsc, "", layout.WithoutJitter())

	data, err := sink.RenderJSON(arr)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(len(data) > 0, arr.IDs())
	// Output: true [b a]
}
