package jpegdir

import (
	"os"
	"path/filepath"

	"github.com/connorworley/topodump/maplet"
)

// Writer implements the maplet.Writer interface for loose JPEG files.
// Payloads are written verbatim, without re-encoding.
type Writer struct {
	filePattern string
}

// NewWriter creates a new Writer for the given file pattern (e.g. "/home/user/maplets/{row}/{col}.jpg").
func NewWriter(filePattern string) (*Writer, error) {
	if err := validatePattern(filePattern); err != nil {
		return nil, err
	}
	return &Writer{filePattern}, nil
}

func (w *Writer) WriteMaplet(cell maplet.Cell, jpegData []byte) error {
	filePath := formatPattern(w.filePattern, cell)

	dirPath := filepath.Dir(filePath)
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return err
	}

	return os.WriteFile(filePath, jpegData, 0644)
}

func (w *Writer) Finalize() error {
	return nil
}
