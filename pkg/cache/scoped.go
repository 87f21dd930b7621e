package cache

// ScopedKeyer prefixes every key of an inner [Keyer], so several stacks can
// share one backend without colliding.
//
//	k := NewScopedKeyer(NewDefaultKeyer(), "bookstack:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner. A nil inner uses [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) BooksKey(source string) string {
	return k.prefix + k.inner.BooksKey(source)
}

func (k *ScopedKeyer) ArrangementKey(booksHash string, opts ArrangementKeyOpts) string {
	return k.prefix + k.inner.ArrangementKey(booksHash, opts)
}

func (k *ScopedKeyer) ArtifactKey(arrangementHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(arrangementHash, opts)
}
