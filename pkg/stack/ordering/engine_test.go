package ordering

import (
	"math"
	"slices"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/matzehuels/bookstack/pkg/book"
	errs "github.com/matzehuels/bookstack/pkg/errors"
	"github.com/matzehuels/bookstack/pkg/stack/layout"
)

func mk(id, title, first, surname, genre, date string, price float64, featured bool) book.Book {
	return book.Book{
		ID: id, Title: title, FirstName: first, Surname: surname, Genre: genre,
		PublishDate: date, Price: decimal.NewFromFloat(price), IsFeatured: featured,
		Size: book.SizeMedium, Color: "#000000",
	}
}

func fixture() []book.Book {
	return []book.Book{
		mk("1", "Émile", "Jean", "Rousseau", "philosophy", "1762-05-01", 12.5, false),
		mk("2", "banana Republic", "Ann", "Zed", "fiction", "2001-01-01", 9, false),
		mk("3", "Zola", "Ann", "Able", "fiction", "1990-03-04", 30, false),
		mk("4", "Apple", "Bea", "Able", "cooking", "2010-07-07", 9, false),
		mk("5", "Painted Dogs", "Lee", "Hart", "nature", "2020-02-02", 40, true),
	}
}

func TestOrderKeys(t *testing.T) {
	e := New(fixture())
	tests := []struct {
		key  Key
		want []string
	}{
		{TitleAsc, []string{"4", "2", "1", "3"}},
		{TitleDesc, []string{"3", "1", "2", "4"}},
		{AuthorAsc, []string{"3", "4", "1", "2"}},
		{AuthorDesc, []string{"2", "1", "4", "3"}},
		{GenreAsc, []string{"4", "2", "3", "1"}},
		{GenreDesc, []string{"1", "2", "3", "4"}},
		{DateAsc, []string{"1", "3", "2", "4"}},
		{DateDesc, []string{"4", "2", "3", "1"}},
		{PriceAsc, []string{"2", "4", "1", "3"}},
		{PriceDesc, []string{"3", "1", "2", "4"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			got := e.Order(tt.key)
			if got.Name != tt.key {
				t.Errorf("Name = %q, want %q", got.Name, tt.key)
			}
			if !slices.Equal(got.BookIDs, tt.want) {
				t.Errorf("Order(%s) = %v, want %v", tt.key, got.BookIDs, tt.want)
			}
		})
	}
}

func TestOrderExcludesFeatured(t *testing.T) {
	e := New(fixture())
	for _, o := range append(e.Orders(), e.Order(Unsorted)) {
		if slices.Contains(o.BookIDs, "5") {
			t.Errorf("%q contains the featured book", o.Name)
		}
		if len(o.BookIDs) != 4 {
			t.Errorf("%q has %d ids, want 4", o.Name, len(o.BookIDs))
		}
	}
}

func TestOrderAscDescReverse(t *testing.T) {
	e := New(fixture())
	asc := e.Order(TitleAsc).BookIDs
	desc := e.Order(TitleDesc).BookIDs
	slices.Reverse(desc)
	if !slices.Equal(asc, desc) {
		t.Errorf("title-desc is not the reverse of title-asc: %v vs %v", asc, desc)
	}
}

func TestOrderTiesKeepInputOrder(t *testing.T) {
	in := []book.Book{
		mk("x", "Same", "A", "A", "g", "2000-01-01", 5, false),
		mk("y", "Same", "A", "A", "g", "2000-01-01", 5, false),
		mk("z", "Same", "A", "A", "g", "2000-01-01", 5, false),
	}
	e := New(in)
	for _, k := range Keys {
		if got := e.Order(k).BookIDs; !slices.Equal(got, []string{"x", "y", "z"}) {
			t.Errorf("%s = %v, want input order", k, got)
		}
	}
}

func TestOrderIdempotent(t *testing.T) {
	e := New(fixture())
	first := e.Order(PriceAsc)
	first.BookIDs[0] = "mutated"
	if again := e.Order(PriceAsc); again.BookIDs[0] == "mutated" {
		t.Error("Order returned shared backing storage")
	}
	if !slices.Equal(e.Order(AuthorDesc).BookIDs, e.Order(AuthorDesc).BookIDs) {
		t.Error("Order is not stable across calls")
	}
}

func TestOrderFallback(t *testing.T) {
	e := New(fixture())
	want := []string{"1", "2", "3", "4"}
	for _, k := range []Key{Unsorted, "bogus-asc"} {
		if got := e.Order(k).BookIDs; !slices.Equal(got, want) {
			t.Errorf("Order(%q) = %v, want %v", k, got, want)
		}
	}
}

func TestParseKey(t *testing.T) {
	tests := []struct {
		in      string
		want    Key
		wantErr bool
	}{
		{"title-asc", TitleAsc, false},
		{" PRICE-DESC ", PriceDesc, false},
		{"", Unsorted, false},
		{"size-asc", "", true},
	}
	for _, tt := range tests {
		got, err := ParseKey(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseKey(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil && !errs.Is(err, errs.ErrCodeInvalidSortKey) {
			t.Errorf("ParseKey(%q) code = %q", tt.in, errs.GetCode(err))
		}
		if got != tt.want {
			t.Errorf("ParseKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestArrangeWorkedExample(t *testing.T) {
	in := []book.Book{
		{ID: "a", Title: "Zeta", Size: book.SizeThin},
		{ID: "b", Title: "Alpha", Size: book.SizeThick},
	}
	e := New(in)

	asc := e.Arrange(TitleAsc, "", layout.WithoutJitter())
	if !slices.Equal(asc.IDs(), []string{"b", "a"}) {
		t.Errorf("title-asc = %v, want [b a]", asc.IDs())
	}
	desc := e.Arrange(TitleDesc, "", layout.WithoutJitter())
	if !slices.Equal(desc.IDs(), []string{"a", "b"}) {
		t.Errorf("title-desc = %v, want [a b]", desc.IDs())
	}
	if math.Abs(desc.Layout.StackTop-0.0295) > 1e-9 {
		t.Errorf("StackTop = %v, want 0.0295", desc.Layout.StackTop)
	}
	if asc.Layout.Entries[0].ID != "b" || asc.Layout.Entries[0].Standing {
		t.Errorf("bottom entry after re-sort = %+v", asc.Layout.Entries[0])
	}
}

func TestArrangeFeaturedOnTop(t *testing.T) {
	e := New(fixture())
	a := e.Arrange(PriceDesc, "", layout.WithoutJitter())
	ids := a.IDs()
	if ids[len(ids)-1] != "5" {
		t.Errorf("top = %s, want featured book 5", ids[len(ids)-1])
	}
	if top := a.Layout.Entries[len(a.Layout.Entries)-1]; !top.Standing || top.ID != "5" {
		t.Errorf("top entry = %+v", top)
	}
}

func TestArrangeSearch(t *testing.T) {
	e := New(fixture())
	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"4", "2", "1", "3", "5"}},
		{"FICTION", []string{"2", "3"}},
		{"able", []string{"4", "3"}},
		{"émile", []string{"1"}},
		{"dogs", []string{"5"}},
		{"nothing matches", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			a := e.Arrange(TitleAsc, tt.query, layout.WithoutJitter())
			if !slices.Equal(a.IDs(), tt.want) {
				t.Errorf("Arrange(%q) = %v, want %v", tt.query, a.IDs(), tt.want)
			}
			if a.Layout.Len() != len(tt.want) {
				t.Errorf("layout has %d entries, want %d", a.Layout.Len(), len(tt.want))
			}
		})
	}
}
