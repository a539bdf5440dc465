// Package geo derives the spatial metadata that places a mosaic on the
// Earth: UTM projection of the quad's corner coordinates, the affine
// pixel-to-world transform, and the matching coordinate reference system.
package geo

import "math"

// NAD27 (Clarke 1866) ellipsoid.
const (
	semiMajorAxis = 6378206.4
	flattening    = 1 / 294.978698214

	scaleFactor  = 0.9996
	falseEasting = 500000.0
)

// UTM is a projected point: meters north of the equator, meters east of the
// zone's false origin, and the zone number.
type UTM struct {
	Northing float64
	Easting  float64
	Zone     uint32
}

// LatLongToUTM projects a geographic point in degrees to UTM coordinates on
// the NAD27 datum, using the third-order Krüger series.
//
// The zone is derived from the longitude alone. No false northing is applied;
// the source quads are northern-hemisphere only. Points near the poles, or
// far from the zone's central meridian, degrade numerically but do not fail.
func LatLongToUTM(lat, long float64) UTM {
	n := flattening / (2 - flattening)
	amaj := semiMajorAxis / (1 + n) * (1 + n*n/4 + n*n*n*n/64)
	alpha := [3]float64{
		n/2 - 2*n*n/3 + 5*n*n*n/16,
		13*n*n/48 - 3*n*n*n/5,
		61 * n * n * n / 240,
	}

	zone := uint32((long + 186) / 6)
	meridianRad := (6*float64(zone) - 183) * math.Pi / 180

	latRad := lat * math.Pi / 180
	longRad := long * math.Pi / 180

	cf := 2 * math.Sqrt(n) / (1 + n)
	t := math.Sinh(math.Atanh(math.Sin(latRad)) - cf*math.Atanh(cf*math.Sin(latRad)))
	xi := math.Atan(t / math.Cos(longRad-meridianRad))
	eta := math.Atanh(math.Sin(longRad-meridianRad) / math.Sqrt(1+t*t))

	easting := eta
	northing := xi
	for k, a := range alpha {
		j := 2 * float64(k+1)
		easting += a * math.Cos(j*xi) * math.Sinh(j*eta)
		northing += a * math.Sin(j*xi) * math.Cosh(j*eta)
	}

	return UTM{
		Northing: scaleFactor * amaj * northing,
		Easting:  falseEasting + scaleFactor*amaj*easting,
		Zone:     zone,
	}
}
