package spec

import (
	"encoding/binary"
	"fmt"
)

// SerializeDirectory encodes maplet file offsets as the contiguous
// little-endian block that follows the header region.
func SerializeDirectory(offsets []uint32) []byte {
	buffer := make([]byte, 0, 4*len(offsets))
	for _, offset := range offsets {
		buffer = binary.LittleEndian.AppendUint32(buffer, offset)
	}
	return buffer
}

// DeserializeDirectory decodes count absolute file offsets, one per maplet,
// in row-major order (row outer, column inner).
func DeserializeDirectory(data []byte, count int) ([]uint32, error) {
	// len(data) < 4*count, phrased so a huge count cannot overflow the
	// multiplication and slip past the check.
	if count < 0 || len(data)/4 < count {
		return nil, fmt.Errorf("%w: directory needs %v offsets, have %v bytes", ErrTruncatedInput, count, len(data))
	}
	offsets := make([]uint32, count)
	for i := range offsets {
		offsets[i] = binary.LittleEndian.Uint32(data[4*i:])
	}
	return offsets, nil
}
