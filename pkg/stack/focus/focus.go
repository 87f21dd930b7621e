// Package focus tracks the single featured book of a stack.
//
// A [Register] holds at most one book id. Clicks toggle it: clicking the
// focused book clears the slot, clicking any other book while one is focused
// is ignored. [Displace] derives the visual offsets a focused book causes
// without touching the underlying layout.
package focus

import (
	"slices"

	"github.com/matzehuels/bookstack/pkg/stack/layout"
)

// Listener receives the focus slot after every effective change.
// ok is false when the slot was cleared.
type Listener func(id string, ok bool)

// Register is a single-slot focus holder. It is not safe for concurrent use;
// callers serialize access (see the store package).
type Register struct {
	id        string
	set       bool
	listeners map[int]Listener
	next      int
}

// Current returns the focused id.
func (r *Register) Current() (string, bool) { return r.id, r.set }

// Set focuses id, replacing any current focus. An empty id clears the slot.
func (r *Register) Set(id string) {
	if id == "" {
		r.Clear()
		return
	}
	if r.set && r.id == id {
		return
	}
	r.id, r.set = id, true
	r.notify()
}

// Clear empties the slot.
func (r *Register) Clear() {
	if !r.set {
		return
	}
	r.id, r.set = "", false
	r.notify()
}

// Click applies toggle semantics and reports whether the slot changed.
func (r *Register) Click(id string) bool {
	switch {
	case !r.set:
		r.Set(id)
		return id != ""
	case r.id == id:
		r.Clear()
		return true
	default:
		return false
	}
}

// Reconcile clears the slot when the focused id is not among visible and
// reports whether it did.
func (r *Register) Reconcile(visible []string) bool {
	if !r.set || slices.Contains(visible, r.id) {
		return false
	}
	r.Clear()
	return true
}

// Subscribe registers fn and returns a function that removes it.
func (r *Register) Subscribe(fn Listener) (unsubscribe func()) {
	if r.listeners == nil {
		r.listeners = make(map[int]Listener)
	}
	key := r.next
	r.next++
	r.listeners[key] = fn
	return func() { delete(r.listeners, key) }
}

func (r *Register) notify() {
	keys := make([]int, 0, len(r.listeners))
	for k := range r.listeners {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		r.listeners[k](r.id, r.set)
	}
}

// Offset is the visual-only treatment of one layout entry.
type Offset struct {
	ID      string  `json:"id"`
	SlidOut bool    `json:"slidOut,omitempty"`
	DY      float64 `json:"dy,omitempty"`
}

// Displace returns one offset per entry of l, in entry order. Entries above
// the focused book drop by its thickness to close the gap it leaves; the
// focused entry is marked slid out. With nothing focused, or a focused id that
// is not in l, every offset is zero.
func Displace(l layout.Layout, focused string) []Offset {
	out := make([]Offset, len(l.Entries))
	at, shift := -1, 0.0
	for i, e := range l.Entries {
		out[i].ID = e.ID
		if focused != "" && e.ID == focused {
			at, shift = i, e.Size.Thickness
		}
	}
	if at < 0 {
		return out
	}
	out[at].SlidOut = true
	for i := at + 1; i < len(out); i++ {
		out[i].DY = -shift
	}
	return out
}

// Displacements applies [Displace] with the register's current focus.
func (r *Register) Displacements(l layout.Layout) []Offset {
	if !r.set {
		return Displace(l, "")
	}
	return Displace(l, r.id)
}
