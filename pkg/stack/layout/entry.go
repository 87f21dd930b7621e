package layout

import "github.com/matzehuels/bookstack/pkg/book"

// Position is the center of a book in meters. Y is measured from the
// reference surface.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Entry is one positioned book in the stack.
type Entry struct {
	ID              string          `json:"id"`
	Index           int             `json:"index"` // 0 is the bottom
	Position        Position        `json:"position"`
	Size            book.Dimensions `json:"size"`
	Height          float64         `json:"height"` // thickness, or width when standing
	CumulativeDepth float64         `json:"cumulativeDepth"`
	Standing        bool            `json:"standing"`
}

// Bottom returns the y coordinate of the entry's lower edge.
func (e Entry) Bottom() float64 { return e.Position.Y - e.Height/2 }

// Top returns the y coordinate of the entry's upper edge.
func (e Entry) Top() float64 { return e.Position.Y + e.Height/2 }

// CenterY returns the vertical center of the entry.
func (e Entry) CenterY() float64 { return e.Position.Y }
