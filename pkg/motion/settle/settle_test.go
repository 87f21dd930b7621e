package settle

import (
	"testing"

	"github.com/matzehuels/bookstack/pkg/book"
	"github.com/matzehuels/bookstack/pkg/stack/layout"
)

const dt = 1.0 / 60

func TestBodySettles(t *testing.T) {
	tests := []struct {
		name string
		dt   float64
	}{
		{"60hz", 1.0 / 60},
		{"10hz", 0.1},
		{"240hz", 1.0 / 240},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBody("a", 0.05, 0.3, Params{})
			for i := 0; i < 10000 && b.State != Settled; i++ {
				b.Step(tt.dt)
			}
			if b.State != Settled {
				t.Fatalf("body did not settle (y=%v v=%v)", b.Y, b.V)
			}
			if b.Y != b.Rest || b.V != 0 {
				t.Errorf("settled body at y=%v v=%v, want pinned at %v", b.Y, b.V, b.Rest)
			}
		})
	}
}

func TestSettledIsTerminal(t *testing.T) {
	b := NewBody("a", 0.1, 0, Params{Steps: 1})
	b.Step(dt)
	if b.State != Settled {
		t.Fatalf("body released at rest should settle, state %v", b.State)
	}
	for range 100 {
		b.Step(dt)
	}
	if b.Y != 0.1 || b.State != Settled {
		t.Errorf("settled body moved: y=%v state=%v", b.Y, b.State)
	}
}

func TestBodyNeverBelowRest(t *testing.T) {
	b := NewBody("a", 0.2, 1, Params{})
	for range 600 {
		b.Step(dt)
		if b.Y < b.Rest {
			t.Fatalf("y = %v fell below rest %v", b.Y, b.Rest)
		}
	}
}

func TestDelay(t *testing.T) {
	b := NewBody("a", 0, 1, Params{})
	b.Delay = 0.5
	b.Step(0.25)
	if b.Y != 1 {
		t.Errorf("delayed body moved to %v", b.Y)
	}
	b.Step(0.5)
	if b.Y >= 1 {
		t.Error("body did not fall after its delay")
	}
}

func TestWorldMatchesLayout(t *testing.T) {
	l := layout.Build([]book.Book{
		{ID: "a", Size: book.SizeThin},
		{ID: "b", Size: book.SizeThick},
		{ID: "c", Size: book.SizeMedium},
	}, layout.WithoutJitter())

	run := func() *World {
		w := Drop(l, 0.5, Params{Stagger: 0.2})
		if !w.Run(dt, 10000) {
			t.Fatal("world did not settle")
		}
		return w
	}
	w, again := run(), run()

	heights := w.Heights()
	for _, e := range l.Entries {
		if heights[e.ID] != e.Position.Y {
			t.Errorf("%s settled at %v, want %v", e.ID, heights[e.ID], e.Position.Y)
		}
	}
	if w.Elapsed != again.Elapsed {
		t.Errorf("identical drops took %v and %v", w.Elapsed, again.Elapsed)
	}
}

func TestRestack(t *testing.T) {
	books := []book.Book{
		{ID: "a", Size: book.SizeThin},
		{ID: "b", Size: book.SizeThick},
		{ID: "c", Size: book.SizeMedium},
		{ID: "d", Size: book.SizeThin},
	}
	l := layout.Build(books, layout.WithoutJitter())
	w := Drop(l, 0.5, Params{})
	if !w.Run(dt, 10000) {
		t.Fatal("world did not settle")
	}

	if same := Restack(w, l, 0.5, Params{}); !same.Settled() {
		t.Error("restacking an unchanged layout should keep every body settled")
	}

	// Swapping the top two leaves the bottom two where they were.
	swapped := layout.Build([]book.Book{books[0], books[1], books[3], books[2]}, layout.WithoutJitter())
	next := Restack(w, swapped, 0.5, Params{Stagger: 0.1})
	states := map[string]State{}
	for _, b := range next.Bodies {
		states[b.ID] = b.State
	}
	want := map[string]State{"a": Settled, "b": Settled, "c": Falling, "d": Falling}
	for id, st := range want {
		if states[id] != st {
			t.Errorf("%s is %s, want %s", id, states[id], st)
		}
	}
	if next.Bodies[2].Delay != 0 || next.Bodies[3].Delay != 0.1 {
		t.Errorf("delays = %v, %v; want the first dropped body released at once", next.Bodies[2].Delay, next.Bodies[3].Delay)
	}
	if !next.Run(dt, 10000) {
		t.Fatal("restacked world did not settle")
	}
	heights := next.Heights()
	for _, e := range swapped.Entries {
		if heights[e.ID] != e.Position.Y {
			t.Errorf("%s settled at %v, want %v", e.ID, heights[e.ID], e.Position.Y)
		}
	}

	filtered := layout.Build(books[1:2], layout.WithoutJitter())
	if got := Restack(w, filtered, 0.5, Params{}); len(got.Bodies) != 1 || got.Bodies[0].State != Falling {
		t.Error("a book that moved down should drop again")
	}
}
