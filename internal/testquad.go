package internal

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"

	"github.com/connorworley/topodump/tpq/spec"
)

// TestHeader returns a header describing a small Colorado quad with the given
// grid and maplet dimensions.
func TestHeader(latCount, longCount, mapletWidth, mapletHeight uint32) *spec.Header {
	return &spec.Header{
		Version:      1,
		WestLong:     -105.0,
		NorthLat:     40.0,
		EastLong:     -104.5,
		SouthLat:     39.5,
		Topo:         "COLORADO - BOULDER COUNTY",
		QuadName:     "Boulder",
		StateName:    "CO",
		Source:       "USGS",
		Year1:        "1994",
		Year2:        "1999",
		Contour:      "40 ft",
		Extension:    "tpq",
		ColorDepth:   8,
		LongCount:    longCount,
		LatCount:     latCount,
		MapletWidth:  mapletWidth,
		MapletHeight: mapletHeight,
	}
}

// BuildQuad assembles a complete TPQ file: the header region, the row-major
// offset directory, then the maplet payloads packed in directory order.
func BuildQuad(header *spec.Header, maplets [][]byte) []byte {
	offsets := make([]uint32, len(maplets))
	offset := uint32(spec.DirectoryOffset + 4*len(maplets))
	for i, mapletData := range maplets {
		offsets[i] = offset
		offset += uint32(len(mapletData))
	}

	buffer := spec.SerializeHeader(header)
	buffer = append(buffer, spec.SerializeDirectory(offsets)...)
	for _, mapletData := range maplets {
		buffer = append(buffer, mapletData...)
	}
	return buffer
}

// SolidJPEG encodes a width x height JPEG filled with a single color.
func SolidJPEG(width, height int, c color.Color) []byte {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)

	var buffer bytes.Buffer
	if err := jpeg.Encode(&buffer, img, nil); err != nil {
		panic(err)
	}
	return buffer.Bytes()
}

// SolidQuad builds a TPQ file whose maplets are solid-color JPEGs, one color
// per directory position.
func SolidQuad(header *spec.Header, colors []color.Color) []byte {
	maplets := make([][]byte, len(colors))
	for i, c := range colors {
		maplets[i] = SolidJPEG(int(header.MapletWidth), int(header.MapletHeight), c)
	}
	return BuildQuad(header, maplets)
}
