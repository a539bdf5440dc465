package maplet

import (
	"errors"
	"iter"
)

var errVisitCancelled = errors.New("visit cancelled")

// IterMaplets returns an iterator over all maplets in the quad.
// It yields cells and their JPEG data. Iteration may panic on unrecoverable errors.
func IterMaplets(v Visitor) iter.Seq2[Cell, []byte] {
	return func(yield func(Cell, []byte) bool) {
		err := v.VisitMaplets(func(cell Cell, jpegData []byte) error {
			if !yield(cell, jpegData) {
				return errVisitCancelled
			}
			return nil
		})
		if err != nil && err != errVisitCancelled {
			panic(err)
		}
	}
}
