package cache

// Keyer derives cache keys for each kind of stored value.
type Keyer interface {
	// BooksKey addresses a validated book list fetched from source.
	BooksKey(source string) string

	// ArrangementKey addresses a sorted, filtered layout of a book list.
	ArrangementKey(booksHash string, opts ArrangementKeyOpts) string

	// ArtifactKey addresses a rendered arrangement.
	ArtifactKey(arrangementHash string, opts ArtifactKeyOpts) string
}

// ArrangementKeyOpts are the inputs that change an arrangement.
type ArrangementKeyOpts struct {
	Sort   string  `json:"sort"`
	Query  string  `json:"query"`
	Locale string  `json:"locale"`
	Origin float64 `json:"origin"`
	Gap    float64 `json:"gap"`
	Seed   uint64  `json:"seed"`
	Jitter float64 `json:"jitter"`
}

// ArtifactKeyOpts are the inputs that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format     string  `json:"format"`
	Focus      string  `json:"focus"`
	Scale      float64 `json:"scale"`
	Background string  `json:"background"`
}

// DefaultKeyer is the standard key layout.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard key layout.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// BooksKey returns "books:<source>".
func (DefaultKeyer) BooksKey(source string) string { return "books:" + source }

// ArrangementKey hashes the book list hash together with opts.
func (DefaultKeyer) ArrangementKey(booksHash string, opts ArrangementKeyOpts) string {
	return hashKey("arrangement", booksHash, opts)
}

// ArtifactKey hashes the arrangement hash together with opts.
func (DefaultKeyer) ArtifactKey(arrangementHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", arrangementHash, opts)
}
