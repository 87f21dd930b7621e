// Package settle animates books dropping onto the stack.
//
// Each [Body] is a two-state machine. It starts Falling above its resting
// height, integrates gravity and bounces off the rest height with some
// restitution. Once it has rested in contact for [Params].Steps consecutive
// steps it becomes Settled, is pinned exactly at the resting height, and
// ignores further steps. The resting heights come from the layout, so the
// animation is purely decorative: a settled world always matches the layout.
package settle

import (
	"math"

	"github.com/matzehuels/bookstack/pkg/stack/layout"
)

// State is a body's phase.
type State int

const (
	Falling State = iota
	Settled
)

func (s State) String() string {
	if s == Settled {
		return "settled"
	}
	return "falling"
}

// Params tunes the simulation.
type Params struct {
	Gravity     float64 // m/s²
	Restitution float64 // bounce energy kept, 0..1
	Epsilon     float64 // rebound speed treated as resting, m/s
	Steps       int     // consecutive resting steps before settling
	Stagger     float64 // delay between consecutive drops, seconds
}

// Default simulation parameters.
const (
	DefaultGravity     = 9.81
	DefaultRestitution = 0.3
	DefaultEpsilon     = 0.05
	DefaultSteps       = 5
)

// SetDefaults fills zero fields.
func (p *Params) SetDefaults() {
	if p.Gravity <= 0 {
		p.Gravity = DefaultGravity
	}
	if p.Restitution <= 0 || p.Restitution >= 1 {
		p.Restitution = DefaultRestitution
	}
	if p.Epsilon <= 0 {
		p.Epsilon = DefaultEpsilon
	}
	if p.Steps <= 0 {
		p.Steps = DefaultSteps
	}
	p.Stagger = max(p.Stagger, 0)
}

// Body is one falling book.
type Body struct {
	ID    string
	Rest  float64
	Y     float64
	V     float64
	Delay float64
	State State

	calm   int
	params Params
}

// NewBody creates a body resting at rest and released from rest+height.
func NewBody(id string, rest, height float64, p Params) *Body {
	p.SetDefaults()
	return &Body{ID: id, Rest: rest, Y: rest + max(height, 0), params: p}
}

// Step advances the body by dt seconds. Settled bodies do not move.
func (b *Body) Step(dt float64) {
	if b.State == Settled || dt <= 0 {
		return
	}
	if b.Delay > 0 {
		if dt <= b.Delay {
			b.Delay -= dt
			return
		}
		dt -= b.Delay
		b.Delay = 0
	}

	p := b.params
	b.V -= p.Gravity * dt
	b.Y += b.V * dt

	contact := false
	if b.Y <= b.Rest {
		b.Y = b.Rest
		b.V = -b.V * p.Restitution
		contact = true
	}

	// A body in contact rebounds by at most one step of gravity when resting.
	if contact && math.Abs(b.V) < p.Epsilon+p.Gravity*dt {
		b.calm++
	} else {
		b.calm = 0
	}
	if b.calm >= p.Steps {
		b.State = Settled
		b.Y, b.V = b.Rest, 0
	}
}

// World is a set of bodies dropped together.
type World struct {
	Bodies  []*Body
	Elapsed float64
}

// Drop creates one body per layout entry, each released height meters above
// its resting center. Bodies are released bottom first, Stagger seconds apart.
func Drop(l layout.Layout, height float64, p Params) *World {
	p.SetDefaults()
	w := &World{Bodies: make([]*Body, len(l.Entries))}
	for i, e := range l.Entries {
		b := NewBody(e.ID, e.Position.Y, height, p)
		b.Delay = float64(i) * p.Stagger
		w.Bodies[i] = b
	}
	return w
}

// Restack returns a world for l after the stack was re-sorted or filtered.
// Settled bodies of prev whose resting height is unchanged stay settled;
// every other entry drops again from height above its new rest, bottom
// first. A nil prev behaves like [Drop].
func Restack(prev *World, l layout.Layout, height float64, p Params) *World {
	p.SetDefaults()
	kept := make(map[string]*Body)
	if prev != nil {
		for _, b := range prev.Bodies {
			if b.State == Settled {
				kept[b.ID] = b
			}
		}
	}
	w := &World{Bodies: make([]*Body, len(l.Entries))}
	dropped := 0
	for i, e := range l.Entries {
		if b, ok := kept[e.ID]; ok && b.Rest == e.Position.Y {
			w.Bodies[i] = b
			continue
		}
		b := NewBody(e.ID, e.Position.Y, height, p)
		b.Delay = float64(dropped) * p.Stagger
		dropped++
		w.Bodies[i] = b
	}
	return w
}

// Step advances every body by dt seconds.
func (w *World) Step(dt float64) {
	if dt <= 0 {
		return
	}
	w.Elapsed += dt
	for _, b := range w.Bodies {
		b.Step(dt)
	}
}

// Run steps the world at a fixed dt until every body settles or maxSteps is
// reached, and reports whether it settled.
func (w *World) Run(dt float64, maxSteps int) bool {
	for range maxSteps {
		if w.Settled() {
			return true
		}
		w.Step(dt)
	}
	return w.Settled()
}

// Settled reports whether every body has settled.
func (w *World) Settled() bool {
	for _, b := range w.Bodies {
		if b.State != Settled {
			return false
		}
	}
	return true
}

// Heights returns the current y of every body keyed by id.
func (w *World) Heights() map[string]float64 {
	out := make(map[string]float64, len(w.Bodies))
	for _, b := range w.Bodies {
		out[b.ID] = b.Y
	}
	return out
}
