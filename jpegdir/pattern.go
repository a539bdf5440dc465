// Package jpegdir provides API for writing maplets as individual JPEG files,
// with paths like "/row/col.jpg".
package jpegdir

import (
	"errors"
	"fmt"
	"strings"

	"github.com/connorworley/topodump/maplet"
)

var ErrInvalidPattern = errors.New("topodump: invalid file pattern")

func validatePattern(pattern string) error {
	for _, p := range []string{"{row}", "{col}"} {
		if !strings.Contains(pattern, p) {
			return fmt.Errorf("%w: placeholder %v not found", ErrInvalidPattern, p)
		}
	}
	return nil
}

func formatPattern(pattern string, cell maplet.Cell) string {
	result := pattern
	result = strings.ReplaceAll(result, "{row}", fmt.Sprintf("%d", cell.Row))
	result = strings.ReplaceAll(result, "{col}", fmt.Sprintf("%d", cell.Col))
	return result
}
