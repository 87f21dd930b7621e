// Package pkg provides the core libraries for Bookstack.
//
// # Overview
//
// Bookstack shows a collection of books as a physical stack: each book lies
// flat on the one below it, the top book stands upright, and a reader can
// feature one book, which slides out of the stack and turns toward the
// viewer. The pkg directory is organized into four areas:
//
//  1. [book] - The book model and its validation
//  2. [stack] - Layout, sort orders, focus and camera math
//  3. [motion] - Drop and presentation animations
//  4. [pipeline] - Orchestration (load → arrange → render) with caching
//
// # Architecture
//
// The typical data flow:
//
//	File / HTTP / MongoDB
//	         ↓
//	    [source] package (fetch raw JSON)
//	         ↓
//	    [book] package (parse + validate)
//	         ↓
//	    [stack/ordering] package (sort permutations + layout)
//	         ↓
//	    [render/sink] package (JSON, SVG)
//
// # Quick Start
//
// Load a book file and render the stack sorted by title:
//
//	books, err := book.ImportJSON("books.json")
//	if err != nil {
//	    return err
//	}
//	engine := ordering.New(books)
//	arr := engine.Arrange(ordering.TitleAsc, "")
//	svg := sink.RenderSVG(arr)
//
// # Main Packages
//
// ## Stack
//
// [stack/layout] - Vertical placement of books. Element 0 rests on the
// origin, each next book sits on the previous one plus a gap, and the top
// book stands on its spine.
//
// [stack/ordering] - Precomputed sort permutations for every sort key,
// locale-aware string collation and featured-first placement.
//
// [stack/focus] - The single featured slot and the offsets books above the
// featured one receive while it is slid out.
//
// [stack/camera] - Orbit and focus distances, scroll mapping and a spring
// camera that follows the stack.
//
// [stack/store] - A mutex-guarded state container combining the above, with
// subscriptions for the server and the terminal UI.
//
// ## Motion
//
// [motion/settle] - Books dropping onto the stack under gravity.
//
// [motion/sequence] - The staged slide-out, lift and return of a featured
// book.
//
// ## Infrastructure
//
// [source] - Where the raw book list comes from: a file, an HTTP URL or a
// MongoDB collection.
//
// [cache] - File and Redis caches for loaded books and rendered artifacts.
//
// [gate] - The shared password gate with file, Redis and memory flag stores.
//
// [observability] - Hooks for pipeline, cache and HTTP events.
//
// [errors] - Coded errors and per-field validation failures.
//
// # Testing
//
//	go test ./pkg/...                   # All tests
//	go test ./pkg/stack/...             # Specific package
//	go test -run Example ./pkg/...      # Examples only
//
// [book]: https://pkg.go.dev/github.com/matzehuels/bookstack/pkg/book
// [stack]: https://pkg.go.dev/github.com/matzehuels/bookstack/pkg/stack
// [motion]: https://pkg.go.dev/github.com/matzehuels/bookstack/pkg/motion
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/bookstack/pkg/pipeline
// [source]: https://pkg.go.dev/github.com/matzehuels/bookstack/pkg/source
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/bookstack/pkg/render/sink
// [stack/layout]: https://pkg.go.dev/github.com/matzehuels/bookstack/pkg/stack/layout
// [stack/ordering]: https://pkg.go.dev/github.com/matzehuels/bookstack/pkg/stack/ordering
// [stack/focus]: https://pkg.go.dev/github.com/matzehuels/bookstack/pkg/stack/focus
// [stack/camera]: https://pkg.go.dev/github.com/matzehuels/bookstack/pkg/stack/camera
// [stack/store]: https://pkg.go.dev/github.com/matzehuels/bookstack/pkg/stack/store
// [motion/settle]: https://pkg.go.dev/github.com/matzehuels/bookstack/pkg/motion/settle
// [motion/sequence]: https://pkg.go.dev/github.com/matzehuels/bookstack/pkg/motion/sequence
// [cache]: https://pkg.go.dev/github.com/matzehuels/bookstack/pkg/cache
// [gate]: https://pkg.go.dev/github.com/matzehuels/bookstack/pkg/gate
// [observability]: https://pkg.go.dev/github.com/matzehuels/bookstack/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/bookstack/pkg/errors
package pkg
