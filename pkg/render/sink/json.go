package sink

import (
	"encoding/json"

	"github.com/matzehuels/bookstack/pkg/book"
	"github.com/matzehuels/bookstack/pkg/stack/focus"
	"github.com/matzehuels/bookstack/pkg/stack/ordering"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	offsets map[string]focus.Offset
	focus   string
	books   bool
}

// WithJSONOffsets records the focus treatment of each entry. The slid-out
// entry, if any, becomes the document's focus.
func WithJSONOffsets(offsets []focus.Offset) JSONOption {
	return func(r *jsonRenderer) { r.offsets, r.focus = indexOffsets(offsets) }
}

// WithJSONBooks includes the full book records alongside the entries.
func WithJSONBooks() JSONOption { return func(r *jsonRenderer) { r.books = true } }

type jsonOutput struct {
	Sort     string      `json:"sort"`
	Query    string      `json:"query,omitempty"`
	StackTop float64     `json:"stackTop"`
	Origin   float64     `json:"origin"`
	Gap      float64     `json:"gap"`
	Seed     uint64      `json:"seed,omitempty"`
	Jitter   float64     `json:"jitter,omitempty"`
	Focus    string      `json:"focus,omitempty"`
	Entries  []jsonEntry `json:"entries"`
	Books    []book.Book `json:"books,omitempty"`
}

type jsonEntry struct {
	ID              string  `json:"id"`
	Index           int     `json:"index"`
	Title           string  `json:"title"`
	Author          string  `json:"author"`
	Genre           string  `json:"genre"`
	Color           string  `json:"color"`
	Size            string  `json:"size"`
	X               float64 `json:"x"`
	Y               float64 `json:"y"`
	Z               float64 `json:"z"`
	Width           float64 `json:"width"`
	Thickness       float64 `json:"thickness"`
	Depth           float64 `json:"depth"`
	Height          float64 `json:"height"`
	CumulativeDepth float64 `json:"cumulativeDepth"`
	Standing        bool    `json:"standing,omitempty"`
	Featured        bool    `json:"featured,omitempty"`
	SlidOut         bool    `json:"slidOut,omitempty"`
	DY              float64 `json:"dy,omitempty"`
	FontSize        float64 `json:"fontSize"`
}

// RenderJSON exports the arrangement as a pretty-printed JSON document.
// Entries are listed bottom to top.
func RenderJSON(a ordering.Arrangement, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	l := a.Layout
	out := jsonOutput{
		Sort:     string(a.Key),
		Query:    a.Query,
		StackTop: l.StackTop,
		Origin:   l.Origin,
		Gap:      l.Gap,
		Seed:     l.Seed,
		Jitter:   l.Jitter,
		Focus:    r.focus,
		Entries:  make([]jsonEntry, 0, len(l.Entries)),
	}
	if r.books {
		out.Books = a.Books
	}

	for i, e := range l.Entries {
		b := a.Books[i]
		off := r.offsets[e.ID]
		out.Entries = append(out.Entries, jsonEntry{
			ID:              e.ID,
			Index:           e.Index,
			Title:           b.Title,
			Author:          b.Author(),
			Genre:           b.Genre,
			Color:           b.Color,
			Size:            string(b.Size),
			X:               e.Position.X,
			Y:               e.Position.Y,
			Z:               e.Position.Z,
			Width:           e.Size.Width,
			Thickness:       e.Size.Thickness,
			Depth:           e.Size.Depth,
			Height:          e.Height,
			CumulativeDepth: e.CumulativeDepth,
			Standing:        e.Standing,
			Featured:        b.IsFeatured,
			SlidOut:         off.SlidOut,
			DY:              off.DY,
			FontSize:        book.SpineFontSize(b.Title),
		})
	}

	return json.MarshalIndent(out, "", "  ")
}

func indexOffsets(offsets []focus.Offset) (map[string]focus.Offset, string) {
	m := make(map[string]focus.Offset, len(offsets))
	var focused string
	for _, o := range offsets {
		m[o.ID] = o
		if o.SlidOut {
			focused = o.ID
		}
	}
	return m, focused
}
