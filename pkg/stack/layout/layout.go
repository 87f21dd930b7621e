package layout

import (
	"math/rand/v2"

	"github.com/matzehuels/bookstack/pkg/book"
)

const (
	// DefaultOrigin is the height of the stack's bottom edge above the surface.
	DefaultOrigin = 0.0045
	// DefaultGap is the vertical spacing between adjacent books.
	DefaultGap = 0.0
	// DefaultJitter is the maximum horizontal offset applied to a book.
	DefaultJitter = 0.005
)

// Layout is the computed arrangement of a stack.
type Layout struct {
	Entries  []Entry `json:"entries"`
	StackTop float64 `json:"stackTop"`
	Origin   float64 `json:"origin"`
	Gap      float64 `json:"gap"`
	Seed     uint64  `json:"seed,omitempty"`
	Jitter   float64 `json:"jitter,omitempty"`
}

// Option configures [Build].
type Option func(*options)

type options struct {
	origin float64
	gap    float64
	seed   uint64
	jitter float64
}

// WithOrigin sets the height of the stack's bottom edge.
func WithOrigin(y0 float64) Option { return func(o *options) { o.origin = y0 } }

// WithGap sets the spacing inserted between adjacent books.
func WithGap(g float64) Option { return func(o *options) { o.gap = max(g, 0) } }

// WithJitter seeds the horizontal offset generator. Offsets are drawn
// uniformly from [-amplitude, amplitude].
func WithJitter(seed uint64, amplitude float64) Option {
	return func(o *options) { o.seed, o.jitter = seed, max(amplitude, 0) }
}

// WithoutJitter places every book at x = 0.
func WithoutJitter() Option { return func(o *options) { o.jitter = 0 } }

// Build lays out books bottom to top. books[0] is the bottom of the stack and
// the last book stands on its long edge. An empty input yields no entries and
// a StackTop equal to the origin.
func Build(books []book.Book, opts ...Option) Layout {
	o := options{origin: DefaultOrigin, gap: DefaultGap, jitter: DefaultJitter}
	for _, opt := range opts {
		opt(&o)
	}

	l := Layout{
		Entries: make([]Entry, 0, len(books)),
		Origin:  o.origin,
		Gap:     o.gap,
		Seed:    o.seed,
		Jitter:  o.jitter,
	}

	var rng *rand.Rand
	if o.jitter > 0 {
		rng = rand.New(rand.NewPCG(o.seed, o.seed^0xdeadbeef))
	}

	cursor, depth := o.origin, 0.0
	last := len(books) - 1
	for i, b := range books {
		if i > 0 {
			cursor += o.gap
		}
		dim := b.Dimensions()
		depth += dim.Depth

		e := Entry{
			ID:              b.ID,
			Index:           i,
			Size:            dim,
			Height:          dim.Thickness,
			CumulativeDepth: depth,
			Position:        Position{Y: cursor + dim.Thickness/2},
		}
		cursor += dim.Thickness

		if i == last {
			e.Standing = true
			e.Height = dim.Width
			e.Position.Y = cursor - dim.Thickness + dim.Width/2
		}
		if rng != nil {
			e.Position.X = (rng.Float64()*2 - 1) * o.jitter
		}
		l.Entries = append(l.Entries, e)
	}
	l.StackTop = cursor
	return l
}

// Entry returns the entry for id.
func (l Layout) Entry(id string) (Entry, bool) {
	for _, e := range l.Entries {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// IDs returns entry identifiers bottom to top.
func (l Layout) IDs() []string {
	ids := make([]string, len(l.Entries))
	for i, e := range l.Entries {
		ids[i] = e.ID
	}
	return ids
}

// Len returns the number of entries.
func (l Layout) Len() int { return len(l.Entries) }
