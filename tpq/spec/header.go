package spec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strings"
)

type Header struct {
	Version      uint32
	WestLong     float64
	NorthLat     float64
	EastLong     float64
	SouthLat     float64
	Topo         string
	QuadName     string
	StateName    string
	Source       string
	Year1        string
	Year2        string
	Contour      string
	Extension    string
	ColorDepth   uint32
	LongCount    uint32
	LatCount     uint32
	MapletWidth  uint32
	MapletHeight uint32
}

// Text field capacities in bytes. These are fixed by the format.
const (
	topoCapacity      = 220
	quadNameCapacity  = 128
	stateNameCapacity = 32
	sourceCapacity    = 32
	yearCapacity      = 4
	contourCapacity   = 24
	extensionCapacity = 4
)

const (
	// HeaderLength is the number of bytes the header fields occupy.
	HeaderLength = 508

	// HeaderRegionLength is the size of the header region at the start of
	// every TPQ file. Bytes between HeaderLength and the end of the region
	// are padding.
	HeaderRegionLength = 1024

	// DirectoryOffset is where the maplet offset directory begins.
	DirectoryOffset = HeaderRegionLength
)

var ErrTruncatedInput = errors.New("truncated input")

// A fieldReader consumes fixed-layout fields from the header region in file
// order. The first short read latches an error; subsequent reads return zero
// values so that decoding checks a single error at the end.
type fieldReader struct {
	data   []byte
	offset int
	err    error
}

func (r *fieldReader) take(field string, length int) []byte {
	if r.err != nil {
		return nil
	}
	if len(r.data)-r.offset < length {
		r.err = fmt.Errorf("%w: %v at offset %v", ErrTruncatedInput, field, r.offset)
		return nil
	}
	chunk := r.data[r.offset : r.offset+length]
	r.offset += length
	return chunk
}

func (r *fieldReader) readUint32(field string) uint32 {
	chunk := r.take(field, 4)
	if chunk == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(chunk)
}

func (r *fieldReader) readFloat64(field string) float64 {
	chunk := r.take(field, 8)
	if chunk == nil {
		return 0
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(chunk))
}

// readText decodes a fixed-capacity text field: bytes past the first NUL are
// discarded, invalid UTF-8 is replaced. Malformed text never fails the decode.
func (r *fieldReader) readText(field string, capacity int) string {
	chunk := r.take(field, capacity)
	if i := bytes.IndexByte(chunk, 0); i >= 0 {
		chunk = chunk[:i]
	}
	return strings.ToValidUTF8(string(chunk), "�")
}

func (r *fieldReader) skip(field string, length int) {
	r.take(field, length)
}

// DeserializeHeader decodes the header fields from the start of a TPQ file.
// The buffer may extend past the header region; extra bytes are ignored.
func DeserializeHeader(data []byte) (*Header, error) {
	reader := fieldReader{data: data}

	header := Header{}
	header.Version = reader.readUint32("version")
	header.WestLong = reader.readFloat64("w_long")
	header.NorthLat = reader.readFloat64("n_lat")
	header.EastLong = reader.readFloat64("e_long")
	header.SouthLat = reader.readFloat64("s_lat")
	header.Topo = reader.readText("topo", topoCapacity)
	header.QuadName = reader.readText("quad_name", quadNameCapacity)
	header.StateName = reader.readText("state_name", stateNameCapacity)
	header.Source = reader.readText("source", sourceCapacity)
	header.Year1 = reader.readText("year1", yearCapacity)
	header.Year2 = reader.readText("year2", yearCapacity)
	header.Contour = reader.readText("contour", contourCapacity)
	header.Extension = reader.readText("extension", extensionCapacity)
	header.ColorDepth = reader.readUint32("color_depth")
	// One reserved 32-bit field follows color_depth. Its meaning is unknown
	// and it must never be interpreted.
	reader.skip("reserved", 4)
	header.LongCount = reader.readUint32("long_count")
	header.LatCount = reader.readUint32("lat_count")
	header.MapletWidth = reader.readUint32("maplet_width")
	header.MapletHeight = reader.readUint32("maplet_height")

	if reader.err != nil {
		return nil, reader.err
	}
	return &header, nil
}

// SerializeHeader produces the full header region, padding included, so the
// directory can be written immediately after it. Text longer than its field
// capacity is truncated; the reserved word is always zero.
func SerializeHeader(header *Header) []byte {
	buffer := make([]byte, 0, HeaderRegionLength)

	appendFloat64 := func(value float64) {
		buffer = binary.LittleEndian.AppendUint64(buffer, math.Float64bits(value))
	}
	appendText := func(value string, capacity int) {
		chunk := make([]byte, capacity)
		copy(chunk, value)
		buffer = append(buffer, chunk...)
	}

	buffer = binary.LittleEndian.AppendUint32(buffer, header.Version)
	appendFloat64(header.WestLong)
	appendFloat64(header.NorthLat)
	appendFloat64(header.EastLong)
	appendFloat64(header.SouthLat)
	appendText(header.Topo, topoCapacity)
	appendText(header.QuadName, quadNameCapacity)
	appendText(header.StateName, stateNameCapacity)
	appendText(header.Source, sourceCapacity)
	appendText(header.Year1, yearCapacity)
	appendText(header.Year2, yearCapacity)
	appendText(header.Contour, contourCapacity)
	appendText(header.Extension, extensionCapacity)
	buffer = binary.LittleEndian.AppendUint32(buffer, header.ColorDepth)
	buffer = binary.LittleEndian.AppendUint32(buffer, 0) // reserved
	buffer = binary.LittleEndian.AppendUint32(buffer, header.LongCount)
	buffer = binary.LittleEndian.AppendUint32(buffer, header.LatCount)
	buffer = binary.LittleEndian.AppendUint32(buffer, header.MapletWidth)
	buffer = binary.LittleEndian.AppendUint32(buffer, header.MapletHeight)

	return append(buffer, make([]byte, HeaderRegionLength-len(buffer))...)
}
