package geo

import (
	"fmt"

	"github.com/connorworley/topodump/tpq/spec"
)

// Strategy selects the coordinate space of the output georeferencing.
type Strategy int

const (
	// StrategyUTM projects the quad's corner coordinates to UTM/NAD27 and
	// expresses the affine transform in meters (EPSG 26700+zone).
	StrategyUTM Strategy = iota

	// StrategyGeographic keeps the quad's degree bounding box as-is and
	// pairs it with geographic NAD27 (EPSG 4267).
	StrategyGeographic
)

// ParseStrategy maps a configuration name ("utm", "geographic") to a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "utm":
		return StrategyUTM, nil
	case "geographic":
		return StrategyGeographic, nil
	}
	return 0, fmt.Errorf("topodump: unknown georeferencing strategy (%v)", name)
}

func (s Strategy) String() string {
	switch s {
	case StrategyUTM:
		return "utm"
	case StrategyGeographic:
		return "geographic"
	}
	return fmt.Sprintf("strategy(%d)", int(s))
}

// Affine holds the six coefficients mapping pixel (col, row) to world (x, y).
// Rotation terms are always zero; PixelHeight is always negative, because
// raster rows grow southward while y grows northward.
type Affine struct {
	OriginX     float64
	PixelWidth  float64
	RowRotation float64
	OriginY     float64
	ColRotation float64
	PixelHeight float64
}

// Apply maps a pixel position to world coordinates.
func (a Affine) Apply(col, row float64) (x, y float64) {
	x = a.OriginX + col*a.PixelWidth + row*a.RowRotation
	y = a.OriginY + col*a.ColRotation + row*a.PixelHeight
	return x, y
}

// CRS identifies the coordinate reference system an Affine is expressed in.
type CRS struct {
	EPSG      uint32
	Citation  string
	Projected bool
}

// Georeference derives the affine transform and the coordinate reference
// system for a mosaic of widthPx x heightPx pixels covering the header's
// bounding box. The two always describe the same coordinate space and must
// be kept together; pairing a transform with a CRS from another strategy
// produces a raster that lies about its position.
func Georeference(header *spec.Header, widthPx, heightPx int, strategy Strategy) (Affine, CRS, error) {
	switch strategy {
	case StrategyUTM:
		return georeferenceUTM(header, widthPx, heightPx)
	case StrategyGeographic:
		return georeferenceGeographic(header, widthPx, heightPx)
	}
	return Affine{}, CRS{}, fmt.Errorf("topodump: unknown georeferencing strategy (%v)", strategy)
}

func georeferenceUTM(header *spec.Header, widthPx, heightPx int) (Affine, CRS, error) {
	northWest := LatLongToUTM(header.NorthLat, header.WestLong)
	southEast := LatLongToUTM(header.SouthLat, header.EastLong)

	pixelWidth := (southEast.Easting - northWest.Easting) / float64(widthPx)
	pixelHeight := -(northWest.Northing - southEast.Northing) / float64(heightPx)

	// The origin names the center of the top-left pixel, hence the
	// half-pixel shift on both axes.
	transform := Affine{
		OriginX:     northWest.Easting + pixelWidth/2,
		PixelWidth:  pixelWidth,
		OriginY:     northWest.Northing + pixelHeight/2,
		PixelHeight: pixelHeight,
	}
	crs := CRS{
		EPSG:      26700 + northWest.Zone,
		Citation:  fmt.Sprintf("NAD27 / UTM zone %dN", northWest.Zone),
		Projected: true,
	}
	return transform, crs, nil
}

func georeferenceGeographic(header *spec.Header, widthPx, heightPx int) (Affine, CRS, error) {
	transform := Affine{
		OriginX:     header.WestLong,
		PixelWidth:  (header.EastLong - header.WestLong) / float64(widthPx),
		OriginY:     header.NorthLat,
		PixelHeight: -(header.NorthLat - header.SouthLat) / float64(heightPx),
	}
	crs := CRS{
		EPSG:     4267,
		Citation: "NAD27",
	}
	return transform, crs, nil
}
