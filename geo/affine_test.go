package geo_test

import (
	"testing"

	"github.com/connorworley/topodump/geo"
	"github.com/connorworley/topodump/internal"
	"github.com/stretchr/testify/require"
)

func TestGeoreferenceUTM(t *testing.T) {
	header := internal.TestHeader(2, 3, 400, 436)
	widthPx, heightPx := 1200, 872

	transform, crs, err := geo.Georeference(header, widthPx, heightPx, geo.StrategyUTM)
	require.Nil(t, err)

	require.Equal(t, uint32(26713), crs.EPSG)
	require.True(t, crs.Projected)
	require.Contains(t, crs.Citation, "zone 13")

	require.Greater(t, transform.PixelWidth, 0.0)
	require.Less(t, transform.PixelHeight, 0.0)
	require.Equal(t, 0.0, transform.RowRotation)
	require.Equal(t, 0.0, transform.ColRotation)

	// The origin names the center of the top-left pixel.
	northWest := geo.LatLongToUTM(header.NorthLat, header.WestLong)
	southEast := geo.LatLongToUTM(header.SouthLat, header.EastLong)
	require.Equal(t, northWest.Easting+transform.PixelWidth/2, transform.OriginX)
	require.Equal(t, northWest.Northing+transform.PixelHeight/2, transform.OriginY)

	x, y := transform.Apply(0, 0)
	require.Equal(t, transform.OriginX, x)
	require.Equal(t, transform.OriginY, y)

	// The bottom-right pixel center lands half a pixel inside the southeast
	// corner.
	x, y = transform.Apply(float64(widthPx-1), float64(heightPx-1))
	require.InDelta(t, southEast.Easting-transform.PixelWidth/2, x, 1e-6)
	require.InDelta(t, southEast.Northing-transform.PixelHeight/2, y, 1e-6)
}

func TestGeoreferenceGeographic(t *testing.T) {
	header := internal.TestHeader(2, 3, 400, 436)
	widthPx, heightPx := 1200, 872

	transform, crs, err := geo.Georeference(header, widthPx, heightPx, geo.StrategyGeographic)
	require.Nil(t, err)

	require.Equal(t, uint32(4267), crs.EPSG)
	require.False(t, crs.Projected)

	// No half-pixel shift here: the origin is the exact northwest corner.
	require.Equal(t, -105.0, transform.OriginX)
	require.Equal(t, 40.0, transform.OriginY)
	require.InDelta(t, 0.5/1200, transform.PixelWidth, 1e-12)
	require.InDelta(t, -0.5/872, transform.PixelHeight, 1e-12)

	x, y := transform.Apply(float64(widthPx), float64(heightPx))
	require.InDelta(t, -104.5, x, 1e-9)
	require.InDelta(t, 39.5, y, 1e-9)
}

func TestPixelHeightAlwaysNegative(t *testing.T) {
	header := internal.TestHeader(1, 1, 100, 100)
	header.NorthLat, header.SouthLat = -10.0, -10.5

	for _, strategy := range []geo.Strategy{geo.StrategyUTM, geo.StrategyGeographic} {
		transform, _, err := geo.Georeference(header, 100, 100, strategy)
		require.Nil(t, err)
		require.Lessf(t, transform.PixelHeight, 0.0, "strategy %v", strategy)
	}
}

func TestParseStrategy(t *testing.T) {
	strategy, err := geo.ParseStrategy("utm")
	require.Nil(t, err)
	require.Equal(t, geo.StrategyUTM, strategy)

	strategy, err = geo.ParseStrategy("geographic")
	require.Nil(t, err)
	require.Equal(t, geo.StrategyGeographic, strategy)

	_, err = geo.ParseStrategy("mercator")
	require.NotNil(t, err)

	_, _, err = geo.Georeference(internal.TestHeader(1, 1, 8, 8), 8, 8, geo.Strategy(42))
	require.NotNil(t, err)
}
