package geotiff

import "fmt"

// TIFF 6.0 tags used by the writer, in the order they appear in the IFD.
const (
	tagImageWidth      = 256
	tagImageLength     = 257
	tagBitsPerSample   = 258
	tagCompression     = 259
	tagPhotometric     = 262
	tagStripOffsets    = 273
	tagSamplesPerPixel = 277
	tagRowsPerStrip    = 278
	tagStripByteCounts = 279
	tagPlanarConfig    = 284
	tagSoftware        = 305
	tagExtraSamples    = 338

	tagModelPixelScale = 33550
	tagModelTiepoint   = 33922
	tagGeoKeyDirectory = 34735
	tagGeoAsciiParams  = 34737
)

// TIFF field types.
const (
	typeASCII  = 2
	typeShort  = 3
	typeLong   = 4
	typeDouble = 12
)

const (
	photometricRGB        = 2
	extraSampleAssociated = 1 // alpha is premultiplied, matching image.RGBA
)

// GeoTIFF keys and key values.
const (
	keyGTModelType      = 1024
	keyGTRasterType     = 1025
	keyGTCitation       = 1026
	keyGeographicType   = 2048
	keyGeodeticCitation = 2049
	keyGeogAngularUnits = 2054
	keyProjectedCRS     = 3072
	keyProjLinearUnits  = 3076

	modelTypeProjected  = 1
	modelTypeGeographic = 2
	rasterPixelIsArea   = 1
	unitMeter           = 9001 // EPSG unit codes
	unitDegree          = 9102
)

// Compression selects the strip encoding of the output TIFF.
type Compression uint8

const (
	// CompressionDeflate writes zlib-compressed strips (TIFF compression 8).
	CompressionDeflate Compression = iota
	// CompressionNone writes raw strips.
	CompressionNone
)

// ParseCompression maps a configuration name ("deflate", "none") to a
// Compression.
func ParseCompression(name string) (Compression, error) {
	switch name {
	case "deflate":
		return CompressionDeflate, nil
	case "none":
		return CompressionNone, nil
	}
	return 0, fmt.Errorf("topodump: unknown compression (%v)", name)
}

func (c Compression) String() string {
	switch c {
	case CompressionDeflate:
		return "deflate"
	case CompressionNone:
		return "none"
	}
	return fmt.Sprintf("compression(%d)", uint8(c))
}
