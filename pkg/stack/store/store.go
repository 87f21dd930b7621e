// Package store is the injectable state container for one book stack.
//
// A [Store] owns the loaded books, the active sort key, the search query and
// the focus slot. Every mutation goes through a method on Store, rebuilds the
// derived view under a mutex and publishes exactly one [Snapshot] to
// subscribers. Readers call [Store.Snapshot] and always see a fully updated
// view.
//
// A failed load puts the store in a permanent "no content" state: snapshots
// carry the error and no entries, and later mutations are ignored.
package store

import (
	"slices"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bookstack/pkg/book"
	errs "github.com/matzehuels/bookstack/pkg/errors"
	"github.com/matzehuels/bookstack/pkg/stack/focus"
	"github.com/matzehuels/bookstack/pkg/stack/layout"
	"github.com/matzehuels/bookstack/pkg/stack/ordering"
)

// Snapshot is an immutable view of the store.
type Snapshot struct {
	Version     uint64               `json:"version"`
	Loaded      bool                 `json:"loaded"`
	Sort        ordering.Key         `json:"sort"`
	Query       string               `json:"query,omitempty"`
	Focus       string               `json:"focus,omitempty"`
	Arrangement ordering.Arrangement `json:"arrangement"`
	Offsets     []focus.Offset       `json:"offsets"`
	Err         error                `json:"-"`
}

// Focused reports whether a book is focused.
func (s Snapshot) Focused() bool { return s.Focus != "" }

// Option configures a [Store].
type Option func(*Store)

// WithLogger sets the logger used for load and failure events.
func WithLogger(l *log.Logger) Option { return func(s *Store) { s.logger = l } }

// WithLayout sets the options passed to [layout.Build] on every rebuild.
func WithLayout(opts ...layout.Option) Option {
	return func(s *Store) { s.layoutOpts = append(s.layoutOpts, opts...) }
}

// WithEngine sets the options passed to [ordering.New] on Load.
func WithEngine(opts ...ordering.Option) Option {
	return func(s *Store) { s.engineOpts = append(s.engineOpts, opts...) }
}

// WithSort sets the initial sort key.
func WithSort(k ordering.Key) Option { return func(s *Store) { s.sort = k } }

// Store is safe for concurrent use.
type Store struct {
	mu         sync.RWMutex
	logger     *log.Logger
	layoutOpts []layout.Option
	engineOpts []ordering.Option

	engine *ordering.Engine
	sort   ordering.Key
	query  string
	focus  focus.Register
	err    error

	snap      Snapshot
	listeners map[int]func(Snapshot)
	next      int
}

// New creates an empty store. Call [Store.Load] or [Store.Fail] next.
func New(opts ...Option) *Store {
	s := &Store{listeners: make(map[int]func(Snapshot))}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	s.focus.Subscribe(s.logFocus)
	return s
}

// logFocus runs under the store lock for every effective focus change.
func (s *Store) logFocus(id string, ok bool) {
	if !ok {
		s.logger.Debug("focus cleared")
		return
	}
	s.logger.Debug("focus set", "book", id)
}

// Load replaces the books and rebuilds every permutation.
func (s *Store) Load(books []book.Book) error {
	return s.mutate(func() error {
		s.engine = ordering.New(books, s.engineOpts...)
		s.logger.Info("loaded books", "count", len(books), "featured", len(s.engine.Featured()))
		return nil
	})
}

// Fail records a load failure. The store stays empty for its lifetime.
func (s *Store) Fail(err error) {
	if err == nil {
		return
	}
	_ = s.mutate(func() error {
		s.logger.Error("book data unavailable", "err", err)
		s.err = err
		s.engine = nil
		s.focus.Clear()
		return nil
	})
}

// SetSort selects the active permutation. Unknown keys show the original order.
func (s *Store) SetSort(k ordering.Key) {
	_ = s.mutate(func() error {
		s.sort = k
		return nil
	})
}

// SetSearch sets the search query. A focused book the query hides loses focus.
func (s *Store) SetSearch(q string) {
	_ = s.mutate(func() error {
		s.query = q
		return nil
	})
}

// Focus features id, replacing the current focus. It fails with NOT_FOUND when
// id is not in the current stack.
func (s *Store) Focus(id string) error {
	return s.mutate(func() error {
		if err := s.visible(id); err != nil {
			return err
		}
		s.focus.Set(id)
		return nil
	})
}

// Click applies toggle semantics to id and reports whether focus changed.
func (s *Store) Click(id string) (changed bool, err error) {
	err = s.mutate(func() error {
		if err := s.visible(id); err != nil {
			return err
		}
		changed = s.focus.Click(id)
		return nil
	})
	return changed, err
}

// ClearFocus empties the focus slot.
func (s *Store) ClearFocus() {
	_ = s.mutate(func() error {
		s.focus.Clear()
		return nil
	})
}

// Snapshot returns the current view.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// View arranges the books for k and q without changing the store. The
// current focus carries over when the focused book is part of the result.
// The returned snapshot keeps the store's Version.
func (s *Store) View(k ordering.Key, q string) (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return Snapshot{}, errs.Wrap(errs.ErrCodeNoContent, s.err, "store has no content")
	}
	if s.engine == nil {
		return Snapshot{}, errs.New(errs.ErrCodeNoContent, "no books loaded")
	}
	view := Snapshot{Version: s.snap.Version, Loaded: true, Sort: k, Query: q}
	view.Arrangement = s.engine.Arrange(k, q, s.layoutOpts...)
	if id, ok := s.focus.Current(); ok && slices.Contains(view.Arrangement.IDs(), id) {
		view.Focus = id
	}
	view.Offsets = focus.Displace(view.Arrangement.Layout, view.Focus)
	return view, nil
}

// Engine returns the sort engine of the current load, or nil.
func (s *Store) Engine() *ordering.Engine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine
}

// Err returns the load failure, if any.
func (s *Store) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Subscribe registers fn for every published snapshot. Listeners run outside
// the store lock and may call back into the store; under concurrent writers
// they can observe snapshots out of order, so compare Version when it matters.
func (s *Store) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := s.next
	s.next++
	s.listeners[key] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, key)
	}
}

// mutate runs fn under the write lock. On success it rebuilds and publishes
// the snapshot. Failed mutations leave the state and snapshot untouched, and
// once the store has failed every mutation reports NO_CONTENT.
func (s *Store) mutate(fn func() error) error {
	s.mu.Lock()
	if s.err != nil {
		err := s.err
		s.mu.Unlock()
		return errs.Wrap(errs.ErrCodeNoContent, err, "store has no content")
	}
	if err := fn(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.rebuild()
	snap := s.snap
	listeners := s.sortedListeners()
	s.mu.Unlock()

	for _, l := range listeners {
		l(snap)
	}
	return nil
}

func (s *Store) rebuild() {
	snap := Snapshot{
		Version: s.snap.Version + 1,
		Sort:    s.sort,
		Query:   s.query,
		Err:     s.err,
	}
	if s.err == nil && s.engine != nil {
		snap.Loaded = true
		snap.Arrangement = s.engine.Arrange(s.sort, s.query, s.layoutOpts...)
		s.focus.Reconcile(snap.Arrangement.IDs())
		snap.Offsets = s.focus.Displacements(snap.Arrangement.Layout)
	}
	snap.Focus, _ = s.focus.Current()
	s.snap = snap
}

func (s *Store) visible(id string) error {
	if s.engine == nil {
		return errs.New(errs.ErrCodeNoContent, "no books loaded")
	}
	if !slices.Contains(s.snap.Arrangement.IDs(), id) {
		return errs.New(errs.ErrCodeNotFound, "book %q is not in the current stack", id)
	}
	return nil
}

func (s *Store) sortedListeners() []func(Snapshot) {
	keys := make([]int, 0, len(s.listeners))
	for k := range s.listeners {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	out := make([]func(Snapshot), len(keys))
	for i, k := range keys {
		out[i] = s.listeners[k]
	}
	return out
}
