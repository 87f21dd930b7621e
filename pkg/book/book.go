package book

import (
	"github.com/shopspring/decimal"
)

// Size is a book's thickness category.
type Size string

// Size categories.
const (
	SizeThin       Size = "thin"
	SizeMedium     Size = "medium"
	SizeThick      Size = "thick"
	SizeVeryThick  Size = "veryThick"
	SizeExtraThick Size = "extraThick"
)

// Sizes lists every valid size category.
var Sizes = []Size{SizeThin, SizeMedium, SizeThick, SizeVeryThick, SizeExtraThick}

// Dimensions is a book's physical extent in meters.
// Width runs along the spine, Thickness is the vertical extent of a book lying
// flat, Depth runs from spine to fore-edge.
type Dimensions struct {
	Width     float64 `json:"width"`
	Thickness float64 `json:"thickness"`
	Depth     float64 `json:"depth"`
}

var sizeTable = map[Size]Dimensions{
	SizeThin:       {Width: 0.18, Thickness: 0.01, Depth: 0.13},
	SizeThick:      {Width: 0.19, Thickness: 0.015, Depth: 0.14},
	SizeMedium:     {Width: 0.185, Thickness: 0.02, Depth: 0.135},
	SizeVeryThick:  {Width: 0.175, Thickness: 0.025, Depth: 0.12},
	SizeExtraThick: {Width: 0.182, Thickness: 0.03, Depth: 0.138},
}

// Valid reports whether s is one of the known size categories.
func (s Size) Valid() bool {
	_, ok := sizeTable[s]
	return ok
}

// Dimensions resolves the size category to meters.
// Unknown sizes resolve to the zero value; validated books never carry one.
func (s Size) Dimensions() Dimensions {
	return sizeTable[s]
}

// Book is one item in the stack.
type Book struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	FirstName   string          `json:"firstName"`
	Surname     string          `json:"surname"`
	Size        Size            `json:"size"`
	Color       string          `json:"color"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	PublishDate string          `json:"publishDate"`
	Genre       string          `json:"genre"`
	IsFeatured  bool            `json:"isFeatured"`
}

// Author returns "FirstName Surname".
func (b Book) Author() string {
	return b.FirstName + " " + b.Surname
}

// Dimensions returns the book's physical extent.
func (b Book) Dimensions() Dimensions {
	return b.Size.Dimensions()
}

// IDs returns the identifiers of books in order.
func IDs(books []Book) []string {
	ids := make([]string, len(books))
	for i, b := range books {
		ids[i] = b.ID
	}
	return ids
}

// Index maps book IDs to books.
func Index(books []Book) map[string]Book {
	m := make(map[string]Book, len(books))
	for _, b := range books {
		m[b.ID] = b
	}
	return m
}

// Split separates featured books from the rest, preserving order in both.
func Split(books []Book) (regular, featured []Book) {
	for _, b := range books {
		if b.IsFeatured {
			featured = append(featured, b)
		} else {
			regular = append(regular, b)
		}
	}
	return regular, featured
}
