// Package tpq provides API for reading Maptech TPQ topographic quad files.
package tpq

import (
	"fmt"
	"iter"
	"os"
	"slices"

	"github.com/connorworley/topodump/maplet"
	"github.com/connorworley/topodump/tpq/spec"
)

// Reader implements the maplet.Reader and maplet.Visitor interfaces for TPQ files.
//
// The whole file is held in memory: quads are small, and holding the buffer
// lets maplet payloads be sliced out of it without copying.
type Reader struct {
	data    []byte
	header  *spec.Header
	offsets []uint32
	sorted  []uint32
}

// NewReader creates a new Reader over the raw bytes of a TPQ file.
// The buffer is retained and must not be modified while the Reader is in use.
func NewReader(data []byte) (*Reader, error) {
	header, err := spec.DeserializeHeader(data)
	if err != nil {
		return nil, err
	}

	if len(data) < spec.DirectoryOffset {
		return nil, fmt.Errorf("%w: directory at offset %v, file is %v bytes",
			spec.ErrTruncatedInput, spec.DirectoryOffset, len(data))
	}
	offsets, err := spec.DeserializeDirectory(data[spec.DirectoryOffset:], int(header.LatCount)*int(header.LongCount))
	if err != nil {
		return nil, err
	}

	sorted := slices.Clone(offsets)
	slices.Sort(sorted)

	return &Reader{data: data, header: header, offsets: offsets, sorted: sorted}, nil
}

// NewFileReader creates a new Reader for the given TPQ file path.
func NewFileReader(filePath string) (*Reader, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return NewReader(data)
}

func (r *Reader) Header() *spec.Header {
	return r.header
}

// MapletCount returns the number of directory entries (rows times columns).
func (r *Reader) MapletCount() int {
	return len(r.offsets)
}

// ReadMaplet returns the JPEG data of a single maplet. Payloads are packed
// back to back, so the returned slice runs from the maplet's recorded offset
// to the next recorded offset after it, or to the end of the file buffer for
// the trailing maplet.
func (r *Reader) ReadMaplet(cell maplet.Cell) ([]byte, error) {
	if cell.Row >= r.header.LatCount || cell.Col >= r.header.LongCount {
		return nil, fmt.Errorf("topodump: no maplet at row %v col %v in a %vx%v grid",
			cell.Row, cell.Col, r.header.LatCount, r.header.LongCount)
	}
	return r.mapletData(cell)
}

func (r *Reader) mapletData(cell maplet.Cell) ([]byte, error) {
	offset := r.offsets[cell.Index(r.header.LongCount)]
	if int64(offset) >= int64(len(r.data)) {
		return nil, fmt.Errorf("%w: maplet at row %v col %v starts at offset %v, file is %v bytes",
			spec.ErrTruncatedInput, cell.Row, cell.Col, offset, len(r.data))
	}
	return r.data[offset:mapletEnd(offset, r.sorted, len(r.data))], nil
}

// mapletEnd finds where the payload starting at offset ends: at the first
// recorded offset after it that is still inside the buffer, or at size (the
// buffer length, which may exceed the uint32 range) when none follows.
func mapletEnd(offset uint32, sorted []uint32, size int) int {
	end := size
	// offset+1 wraps only for offset MaxUint32, which no offset can follow.
	if next := offset + 1; next != 0 {
		if i, _ := slices.BinarySearch(sorted, next); i < len(sorted) && int(sorted[i]) < end {
			end = int(sorted[i])
		}
	}
	return end
}

// VisitMaplets visits every maplet in row-major directory order.
func (r *Reader) VisitMaplets(visitor func(maplet.Cell, []byte) error) error {
	for row := range r.header.LatCount {
		for col := range r.header.LongCount {
			cell := maplet.Cell{Row: row, Col: col}
			mapletData, err := r.mapletData(cell)
			if err != nil {
				return err
			}
			if err := visitor(cell, mapletData); err != nil {
				return err
			}
		}
	}
	return nil
}

// Maplets returns an iterator over all maplets in directory order.
// Iteration panics on read errors; use VisitMaplets to handle them instead.
func (r *Reader) Maplets() iter.Seq2[maplet.Cell, []byte] {
	return maplet.IterMaplets(r)
}
