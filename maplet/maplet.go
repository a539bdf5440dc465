// Package maplet provides common maplet grid interfaces and types.
package maplet

// Cell represents the position of a maplet inside the quad grid.
// Rows run north to south and columns west to east, both zero-based.
type Cell struct {
	Row uint32
	Col uint32
}

// Index returns the row-major position of the cell in a grid that is
// columns maplets wide.
func (c Cell) Index(columns uint32) int {
	return int(c.Row)*int(columns) + int(c.Col)
}

// Writer defines an interface for consuming the maplets of a quad.
type Writer interface {
	// WriteMaplet consumes a single maplet's JPEG data.
	WriteMaplet(cell Cell, jpegData []byte) error

	// Finalize completes the writing process: flushes buffers, verifies completeness.
	// It must be called before closing the Writer.
	Finalize() error
}

type Reader interface {
	// ReadMaplet reads a single maplet from the quad.
	// It returns the maplet's JPEG data or an error if the maplet cannot be read.
	ReadMaplet(cell Cell) ([]byte, error)
}

type Visitor interface {
	// VisitMaplets visits all maplets in the quad, calling the visitor for each.
	// It returns an error if visiting fails.
	// Maplets are visited in row-major directory order.
	VisitMaplets(visitor func(Cell, []byte) error) error
}
