// Package geotiff writes RGBA rasters as little-endian GeoTIFF files: a
// baseline strip TIFF carrying the affine transform (pixel scale + tiepoint)
// and the GeoTIFF key directory describing the coordinate reference system.
package geotiff

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"math"
	"os"

	"github.com/connorworley/topodump/geo"
)

const rowsPerStrip = 64

// ErrCleanupFailed reports that writing failed and the partially written
// file could not be removed afterwards. It wraps both causes.
var ErrCleanupFailed = errors.New("topodump: cleanup of partial output failed")

type writerConfig struct {
	Compression Compression
	Logger      *slog.Logger
}

type WriterOption func(*writerConfig)

func WithCompression(compression Compression) WriterOption {
	return func(c *writerConfig) { c.Compression = compression }
}

func WithLogger(logger *slog.Logger) WriterOption {
	return func(c *writerConfig) { c.Logger = logger }
}

// Write serializes the mosaic to filePath with its georeferencing embedded
// at write time. The transform and CRS must come from the same Georeference
// call.
//
// If writing fails after the file was created, the partial file is removed
// before the error is surfaced; when that removal also fails, the error is
// ErrCleanupFailed wrapping both causes. A path that could not be created is
// never touched.
func Write(filePath string, img *image.RGBA, transform geo.Affine, crs geo.CRS, opts ...WriterOption) error {
	config := writerConfig{
		Compression: CompressionDeflate,
		Logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&config)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return err
	}
	if err := errors.Join(writeTIFF(file, img, transform, crs, config), file.Close()); err != nil {
		if removeErr := os.Remove(filePath); removeErr != nil {
			return fmt.Errorf("%w: %w (while handling: %w)", ErrCleanupFailed, removeErr, err)
		}
		return err
	}
	return nil
}

func writeTIFF(file *os.File, img *image.RGBA, transform geo.Affine, crs geo.CRS, config writerConfig) error {
	config.Logger.Debug("topodump: write tiff header")
	// Little-endian magic, then a placeholder for the IFD offset; the IFD is
	// written after the strips and the placeholder patched once its position
	// is known.
	if _, err := file.Write([]byte{'I', 'I', 42, 0, 0, 0, 0, 0}); err != nil {
		return err
	}

	config.Logger.Debug("topodump: write strips")
	stripOffsets, stripCounts, err := writeStrips(file, img, config.Compression)
	if err != nil {
		return err
	}

	config.Logger.Debug("topodump: write ifd")
	ifdPos, err := writeIFD(file, img, transform, crs, config.Compression, stripOffsets, stripCounts)
	if err != nil {
		return err
	}

	if err := patchOffset(file, 4, uint32(ifdPos)); err != nil {
		return err
	}

	config.Logger.Debug("topodump: done!")
	return nil
}

// writeStrips encodes the image top-to-bottom in bands of rowsPerStrip rows,
// returning each strip's absolute file offset and encoded byte count.
func writeStrips(file *os.File, img *image.RGBA, compression Compression) ([]uint32, []uint32, error) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	numStrips := (height + rowsPerStrip - 1) / rowsPerStrip
	stripOffsets := make([]uint32, 0, numStrips)
	stripCounts := make([]uint32, 0, numStrips)

	for strip := range numStrips {
		firstRow := strip * rowsPerStrip
		lastRow := min(firstRow+rowsPerStrip, height)

		raw := make([]byte, 0, (lastRow-firstRow)*width*4)
		for y := firstRow; y < lastRow; y++ {
			rowStart := img.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			raw = append(raw, img.Pix[rowStart:rowStart+width*4]...)
		}

		encoded, err := encodeStrip(raw, compression)
		if err != nil {
			return nil, nil, err
		}

		offset, err := file.Seek(0, io.SeekCurrent)
		if err != nil {
			return nil, nil, err
		}
		if _, err := file.Write(encoded); err != nil {
			return nil, nil, err
		}

		stripOffsets = append(stripOffsets, uint32(offset))
		stripCounts = append(stripCounts, uint32(len(encoded)))
	}

	return stripOffsets, stripCounts, nil
}

func encodeStrip(raw []byte, compression Compression) ([]byte, error) {
	switch compression {
	case CompressionNone:
		return raw, nil
	case CompressionDeflate:
		var buffer bytes.Buffer
		zw := zlib.NewWriter(&buffer)
		if _, err := zw.Write(raw); err != nil {
			return nil, err
		}
		if err := zw.Close(); err != nil {
			return nil, err
		}
		return buffer.Bytes(), nil
	}
	return nil, fmt.Errorf("topodump: compression not supported (%v)", compression)
}

// An ifdEntry is one tag with its encoded value bytes. Values of four bytes
// or fewer are stored inline in the directory; longer ones go to the extra
// data area after it.
type ifdEntry struct {
	tag   uint16
	typ   uint16
	count uint32
	data  []byte
}

func shortEntry(tag uint16, values ...uint16) ifdEntry {
	data := make([]byte, 0, 2*len(values))
	for _, v := range values {
		data = binary.LittleEndian.AppendUint16(data, v)
	}
	return ifdEntry{tag, typeShort, uint32(len(values)), data}
}

func longEntry(tag uint16, values ...uint32) ifdEntry {
	data := make([]byte, 0, 4*len(values))
	for _, v := range values {
		data = binary.LittleEndian.AppendUint32(data, v)
	}
	return ifdEntry{tag, typeLong, uint32(len(values)), data}
}

func doubleEntry(tag uint16, values ...float64) ifdEntry {
	data := make([]byte, 0, 8*len(values))
	for _, v := range values {
		data = binary.LittleEndian.AppendUint64(data, math.Float64bits(v))
	}
	return ifdEntry{tag, typeDouble, uint32(len(values)), data}
}

func asciiEntry(tag uint16, s string) ifdEntry {
	data := append([]byte(s), 0)
	return ifdEntry{tag, typeASCII, uint32(len(data)), data}
}

func writeIFD(file *os.File, img *image.RGBA, transform geo.Affine, crs geo.CRS,
	compression Compression, stripOffsets, stripCounts []uint32) (int64, error) {

	ifdPos, err := file.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}
	// The IFD must begin on a word boundary.
	if ifdPos%2 != 0 {
		if _, err := file.Write([]byte{0}); err != nil {
			return 0, err
		}
		ifdPos++
	}

	compressionValue := uint16(8)
	if compression == CompressionNone {
		compressionValue = 1
	}

	geoKeys, geoAscii := crsGeoKeys(crs)

	entries := []ifdEntry{
		longEntry(tagImageWidth, uint32(img.Bounds().Dx())),
		longEntry(tagImageLength, uint32(img.Bounds().Dy())),
		shortEntry(tagBitsPerSample, 8, 8, 8, 8),
		shortEntry(tagCompression, compressionValue),
		shortEntry(tagPhotometric, photometricRGB),
		longEntry(tagStripOffsets, stripOffsets...),
		shortEntry(tagSamplesPerPixel, 4),
		longEntry(tagRowsPerStrip, rowsPerStrip),
		longEntry(tagStripByteCounts, stripCounts...),
		shortEntry(tagPlanarConfig, 1),
		asciiEntry(tagSoftware, "topodump"),
		shortEntry(tagExtraSamples, extraSampleAssociated),
		doubleEntry(tagModelPixelScale, transform.PixelWidth, -transform.PixelHeight, 0),
		doubleEntry(tagModelTiepoint, 0, 0, 0, transform.OriginX, transform.OriginY, 0),
		shortEntry(tagGeoKeyDirectory, geoKeys...),
		asciiEntry(tagGeoAsciiParams, geoAscii),
	}

	// Position of values that do not fit inline, relative to the file start:
	// entry count, the entries themselves, and the next-IFD terminator come
	// first.
	extraPos := ifdPos + int64(2+len(entries)*12+4)

	var buf, extraBuf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint16(len(entries)))

	lastTag := uint16(0)
	for _, entry := range entries {
		// TIFF requires directory entries in increasing tag order.
		if entry.tag <= lastTag {
			panic("topodump: tiff tags must be in increasing order")
		}
		lastTag = entry.tag

		binary.Write(&buf, binary.LittleEndian, entry.tag)
		binary.Write(&buf, binary.LittleEndian, entry.typ)
		binary.Write(&buf, binary.LittleEndian, entry.count)

		if len(entry.data) <= 4 {
			var inline [4]byte
			copy(inline[:], entry.data)
			buf.Write(inline[:])
		} else {
			if extraBuf.Len()%2 != 0 {
				extraBuf.WriteByte(0)
			}
			binary.Write(&buf, binary.LittleEndian, uint32(extraPos)+uint32(extraBuf.Len()))
			extraBuf.Write(entry.data)
		}
	}

	// No further IFDs.
	binary.Write(&buf, binary.LittleEndian, uint32(0))

	if _, err := buf.WriteTo(file); err != nil {
		return 0, err
	}
	if _, err := extraBuf.WriteTo(file); err != nil {
		return 0, err
	}
	return ifdPos, nil
}

// crsGeoKeys builds the GeoKeyDirectory and its ascii parameter block. The
// citation uses the GeoTIFF "|" terminator convention.
func crsGeoKeys(crs geo.CRS) ([]uint16, string) {
	citation := crs.Citation + "|"

	if crs.Projected {
		keys := []uint16{
			1, 1, 0, 5, // version 1.1, five keys
			keyGTModelType, 0, 1, modelTypeProjected,
			keyGTRasterType, 0, 1, rasterPixelIsArea,
			keyGTCitation, tagGeoAsciiParams, uint16(len(citation)), 0,
			keyProjectedCRS, 0, 1, uint16(crs.EPSG),
			keyProjLinearUnits, 0, 1, unitMeter,
		}
		return keys, citation
	}

	keys := []uint16{
		1, 1, 0, 5,
		keyGTModelType, 0, 1, modelTypeGeographic,
		keyGTRasterType, 0, 1, rasterPixelIsArea,
		keyGeographicType, 0, 1, uint16(crs.EPSG),
		keyGeodeticCitation, tagGeoAsciiParams, uint16(len(citation)), 0,
		keyGeogAngularUnits, 0, 1, unitDegree,
	}
	return keys, citation
}

func patchOffset(file *os.File, pos int64, value uint32) error {
	if _, err := file.Seek(pos, io.SeekStart); err != nil {
		return err
	}
	return binary.Write(file, binary.LittleEndian, value)
}
