package sink

import (
	"encoding/json"
	"encoding/xml"
	"strings"
	"testing"

	"github.com/matzehuels/bookstack/pkg/book"
	"github.com/matzehuels/bookstack/pkg/stack/focus"
	"github.com/matzehuels/bookstack/pkg/stack/layout"
	"github.com/matzehuels/bookstack/pkg/stack/ordering"
)

func testArrangement() ordering.Arrangement {
	books := []book.Book{
		{ID: "a", Title: "Zeta", FirstName: "Ann", Surname: "Lee", Size: book.SizeThin, Color: "#1a2b3c", Genre: "g"},
		{ID: "b", Title: "Alpha & Omega", FirstName: "Bo", Surname: "Kim", Size: book.SizeThick, Color: "#f0f0f0", Genre: "g"},
		{ID: "c", Title: "The Quick Brown Fox", FirstName: "Cy", Surname: "Ray", Size: book.SizeMedium, Color: "#804020", Genre: "h"},
	}
	return ordering.New(books).Arrange(ordering.TitleAsc, "", layout.WithoutJitter())
}

func TestRenderJSON(t *testing.T) {
	a := testArrangement()
	data, err := RenderJSON(a)
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}

	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}
	if out.Sort != "title-asc" {
		t.Errorf("Sort = %q, want title-asc", out.Sort)
	}
	if out.StackTop != a.Layout.StackTop {
		t.Errorf("StackTop = %v, want %v", out.StackTop, a.Layout.StackTop)
	}
	if len(out.Entries) != 3 {
		t.Fatalf("Entries count = %d, want 3", len(out.Entries))
	}
	for i, e := range out.Entries {
		if e.Index != i {
			t.Errorf("entry %d has index %d", i, e.Index)
		}
		if e.ID != a.Layout.Entries[i].ID {
			t.Errorf("entry %d id = %s, want %s", i, e.ID, a.Layout.Entries[i].ID)
		}
	}
	top := out.Entries[2]
	if !top.Standing {
		t.Error("top entry should be standing")
	}
	if out.Focus != "" || out.Books != nil {
		t.Errorf("unexpected focus %q or books without options", out.Focus)
	}
}

func TestRenderJSONWithOptions(t *testing.T) {
	a := testArrangement()
	offsets := focus.Displace(a.Layout, "b")

	data, err := RenderJSON(a, WithJSONOffsets(offsets), WithJSONBooks())
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}
	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}
	if out.Focus != "b" {
		t.Errorf("Focus = %q, want b", out.Focus)
	}
	if len(out.Books) != 3 {
		t.Errorf("Books count = %d, want 3", len(out.Books))
	}
	// title-asc puts b (Alpha) at the bottom, so everything above drops.
	if !out.Entries[0].SlidOut {
		t.Error("entry b should be slid out")
	}
	for _, e := range out.Entries[1:] {
		if e.DY != -book.SizeThick.Dimensions().Thickness {
			t.Errorf("entry %s dy = %v, want %v", e.ID, e.DY, -book.SizeThick.Dimensions().Thickness)
		}
	}
}

func TestRenderSVG(t *testing.T) {
	svg := string(RenderSVG(testArrangement()))

	if !strings.HasPrefix(svg, "<svg") {
		t.Fatalf("output does not start with <svg: %.40s", svg)
	}
	if err := xml.Unmarshal([]byte(svg), new(struct{})); err != nil {
		t.Errorf("output is not well-formed XML: %v", err)
	}
	for _, id := range []string{"book-a", "book-b", "book-c"} {
		if !strings.Contains(svg, `id="`+id+`"`) {
			t.Errorf("missing rect %s", id)
		}
	}
	if !strings.Contains(svg, "Alpha &amp; Omega") {
		t.Error("title should be escaped")
	}
	if strings.Contains(svg, `class="book focused"`) {
		t.Error("no book should be focused")
	}
}

func TestRenderSVGOptions(t *testing.T) {
	a := testArrangement()

	tests := []struct {
		name    string
		opts    []SVGOption
		want    []string
		notWant []string
	}{
		{
			name: "focus",
			opts: []SVGOption{WithOffsets(focus.Displace(a.Layout, "a"))},
			want: []string{`class="book focused"`},
		},
		{
			name:    "without labels",
			opts:    []SVGOption{WithoutLabels()},
			notWant: []string{"<text"},
		},
		{
			name: "background",
			opts: []SVGOption{WithBackground("#fffaf0")},
			want: []string{`fill="#fffaf0"`},
		},
		{
			name: "wrapped cover title",
			want: []string{">The Quick</tspan>", ">Brown Fox</tspan>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svg := string(RenderSVG(a, tt.opts...))
			for _, w := range tt.want {
				if !strings.Contains(svg, w) {
					t.Errorf("missing %q", w)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(svg, w) {
					t.Errorf("unexpected %q", w)
				}
			}
		})
	}
}

func TestRenderSVGScale(t *testing.T) {
	a := testArrangement()
	w1, h1 := (&svgRenderer{scale: 1000, margin: 0}).frame(a.Layout)
	w2, h2 := (&svgRenderer{scale: 2000, margin: 0}).frame(a.Layout)
	if w2 != 2*w1 || h2 != 2*h1 {
		t.Errorf("frame did not scale: %vx%v vs %vx%v", w1, h1, w2, h2)
	}
}

func TestRenderSVGEmpty(t *testing.T) {
	a := ordering.New(nil).Arrange(ordering.Unsorted, "")
	svg := RenderSVG(a)
	if err := xml.Unmarshal(svg, new(struct{})); err != nil {
		t.Errorf("empty stack is not well-formed XML: %v", err)
	}
}

func TestTextColor(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"#ffffff", "#111111"},
		{"#000000", "#f5f5f5"},
		{"#1a2b3c", "#f5f5f5"},
		{"bogus", "#111111"},
	}
	for _, tt := range tests {
		if got := textColor(tt.in); got != tt.want {
			t.Errorf("textColor(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
