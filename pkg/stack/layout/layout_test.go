package layout

import (
	"math"
	"slices"
	"testing"

	"github.com/matzehuels/bookstack/pkg/book"
)

const tol = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) < tol }

func books(sizes ...book.Size) []book.Book {
	out := make([]book.Book, len(sizes))
	for i, s := range sizes {
		out[i] = book.Book{ID: string(rune('a' + i)), Title: string(rune('A' + i)), Size: s}
	}
	return out
}

func TestBuildWorkedExample(t *testing.T) {
	l := Build(books(book.SizeThin, book.SizeThick), WithOrigin(0.0045), WithoutJitter())

	if got := l.Len(); got != 2 {
		t.Fatalf("Len() = %d, want 2", got)
	}
	a, b := l.Entries[0], l.Entries[1]
	if !near(a.Position.Y, 0.0095) {
		t.Errorf("a.y = %v, want 0.0095", a.Position.Y)
	}
	if !near(b.Position.Y, 0.1095) {
		t.Errorf("b.y = %v, want 0.1095", b.Position.Y)
	}
	if !near(l.StackTop, 0.0295) {
		t.Errorf("StackTop = %v, want 0.0295", l.StackTop)
	}
	if a.Standing || !b.Standing {
		t.Errorf("standing = (%v, %v), want (false, true)", a.Standing, b.Standing)
	}
	if !near(b.Height, 0.19) {
		t.Errorf("standing height = %v, want width 0.19", b.Height)
	}
}

func TestBuildIndices(t *testing.T) {
	l := Build(books(book.SizeMedium, book.SizeThin, book.SizeExtraThick, book.SizeVeryThick), WithoutJitter())
	for i, e := range l.Entries {
		if e.Index != i {
			t.Errorf("entry %d has index %d", i, e.Index)
		}
	}
	if !slices.Equal(l.IDs(), []string{"a", "b", "c", "d"}) {
		t.Errorf("IDs() = %v", l.IDs())
	}
}

func TestBuildContiguity(t *testing.T) {
	tests := []struct {
		name string
		gap  float64
	}{
		{"no gap", 0},
		{"gap", 0.002},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := books(book.SizeThin, book.SizeMedium, book.SizeThick, book.SizeVeryThick, book.SizeExtraThick)
			l := Build(in, WithGap(tt.gap), WithoutJitter())

			for i := 1; i < len(l.Entries)-1; i++ {
				prev, cur := l.Entries[i-1], l.Entries[i]
				want := prev.Position.Y + prev.Size.Thickness/2 + tt.gap + cur.Size.Thickness/2
				if !near(cur.Position.Y, want) {
					t.Errorf("entry %d center = %v, want %v", i, cur.Position.Y, want)
				}
			}

			top := l.Entries[len(l.Entries)-1]
			below := l.Entries[len(l.Entries)-2]
			if !near(top.Bottom(), below.Top()+tt.gap) {
				t.Errorf("top bottom edge %v does not rest on %v", top.Bottom(), below.Top()+tt.gap)
			}
			if !near(top.Position.Y, l.StackTop-top.Size.Thickness+top.Size.Width/2) {
				t.Errorf("top center = %v", top.Position.Y)
			}
		})
	}
}

func TestBuildCumulativeDepth(t *testing.T) {
	in := books(book.SizeThin, book.SizeMedium, book.SizeThick)
	l := Build(in, WithoutJitter())

	var sum, prev float64
	for i, e := range l.Entries {
		sum += in[i].Dimensions().Depth
		if !near(e.CumulativeDepth, sum) {
			t.Errorf("entry %d cumulativeDepth = %v, want %v", i, e.CumulativeDepth, sum)
		}
		if e.CumulativeDepth < prev {
			t.Errorf("cumulativeDepth decreased at %d", i)
		}
		prev = e.CumulativeDepth
	}
}

func TestBuildEmpty(t *testing.T) {
	l := Build(nil, WithOrigin(0.01))
	if l.Len() != 0 {
		t.Errorf("Len() = %d, want 0", l.Len())
	}
	if l.StackTop != 0.01 {
		t.Errorf("StackTop = %v, want origin", l.StackTop)
	}
}

func TestBuildSingleStands(t *testing.T) {
	l := Build(books(book.SizeThin), WithoutJitter())
	e := l.Entries[0]
	if !e.Standing {
		t.Fatal("single book should stand")
	}
	if !near(e.Bottom(), DefaultOrigin) {
		t.Errorf("Bottom() = %v, want %v", e.Bottom(), DefaultOrigin)
	}
}

func TestJitter(t *testing.T) {
	in := books(book.SizeThin, book.SizeMedium, book.SizeThick, book.SizeVeryThick)

	first := Build(in, WithJitter(42, 0.005))
	again := Build(in, WithJitter(42, 0.005))
	plain := Build(in, WithoutJitter())

	moved := false
	for i := range first.Entries {
		x := first.Entries[i].Position.X
		if x != again.Entries[i].Position.X {
			t.Errorf("entry %d: same seed gave x %v and %v", i, x, again.Entries[i].Position.X)
		}
		if math.Abs(x) > 0.005 {
			t.Errorf("entry %d: |x| = %v exceeds amplitude", i, x)
		}
		if first.Entries[i].Position.Y != plain.Entries[i].Position.Y {
			t.Errorf("entry %d: jitter changed y", i)
		}
		if plain.Entries[i].Position.X != 0 {
			t.Errorf("entry %d: WithoutJitter x = %v", i, plain.Entries[i].Position.X)
		}
		if x != 0 {
			moved = true
		}
	}
	if !moved {
		t.Error("jitter did not move any entry")
	}
}

func TestEntryLookup(t *testing.T) {
	l := Build(books(book.SizeThin, book.SizeThick), WithoutJitter())
	if e, ok := l.Entry("b"); !ok || e.Index != 1 {
		t.Errorf("Entry(b) = %+v, %v", e, ok)
	}
	if _, ok := l.Entry("zz"); ok {
		t.Error("Entry(zz) found")
	}
}
