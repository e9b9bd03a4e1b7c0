package geo

import "math"

const (
	earthRadiusKm = 6371.0

	// metersPerDegreeLat is the approximate ground distance of one degree
	// of latitude; longitude degrees shrink with cos(lat).
	metersPerDegreeLat = 111320.0
)

// MinCellSizeDeg is the smallest usable grid cell size, about a tenth
// of a millimeter of latitude. Smaller cells cannot separate distinct
// float64 coordinates anyway, and their ordinals stop fitting the int
// range.
const MinCellSizeDeg = 1e-9

// Point is a latitude/longitude pair in signed decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ValidLat reports whether lat is a finite latitude within [-90, 90].
func ValidLat(lat float64) bool {
	return !math.IsNaN(lat) && !math.IsInf(lat, 0) && lat >= -90 && lat <= 90
}

// ValidLon reports whether lon is a finite longitude within [-180, 180].
func ValidLon(lon float64) bool {
	return !math.IsNaN(lon) && !math.IsInf(lon, 0) && lon >= -180 && lon <= 180
}

// ValidCoordinates reports whether the pair is usable as a location.
// Out-of-range and non-finite values are equivalent to "absent".
func ValidCoordinates(lat, lon float64) bool {
	return ValidLat(lat) && ValidLon(lon)
}

// HaversineDistance calculates the distance in meters between two points
// using the Haversine formula.
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180.0
	dLon := (lon2 - lon1) * math.Pi / 180.0

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180.0)*math.Cos(lat2*math.Pi/180.0)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c * 1000
}

// MetersPerDegreeLon returns the approximate ground distance of one degree
// of longitude at the given latitude. Never negative; zero at the poles.
func MetersPerDegreeLon(lat float64) float64 {
	m := metersPerDegreeLat * math.Cos(lat*math.Pi/180.0)
	if m < 0 {
		return 0
	}
	return m
}

// BBox is a latitude/longitude bounding box with inclusive bounds.
type BBox struct {
	MinLat float64 `json:"minLat"`
	MinLon float64 `json:"minLon"`
	MaxLat float64 `json:"maxLat"`
	MaxLon float64 `json:"maxLon"`
}

// BBoxAround returns a degenerate box containing only the given point.
func BBoxAround(lat, lon float64) BBox {
	return BBox{MinLat: lat, MinLon: lon, MaxLat: lat, MaxLon: lon}
}

// Contains reports whether the point falls within the box, bounds inclusive.
func (b BBox) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}

// Extend grows the box to include the given point.
func (b BBox) Extend(lat, lon float64) BBox {
	if lat < b.MinLat {
		b.MinLat = lat
	}
	if lat > b.MaxLat {
		b.MaxLat = lat
	}
	if lon < b.MinLon {
		b.MinLon = lon
	}
	if lon > b.MaxLon {
		b.MaxLon = lon
	}
	return b
}

// Cell identifies a grid cell at a given cell size. X counts cells east
// from the antimeridian direction of the origin, Y counts north.
type Cell struct {
	X int
	Y int
}

// CellAt quantizes a coordinate to its grid cell for the given cell size
// in degrees. Floor keeps the mapping consistent across the sign change
// at the equator and prime meridian.
func CellAt(lat, lon, sizeDeg float64) Cell {
	return Cell{
		X: quantize(lon, sizeDeg),
		Y: quantize(lat, sizeDeg),
	}
}

// cellOrdinalLimit saturates quantization. Converting a float beyond
// the int range is implementation-defined (on amd64 it collapses to
// MinInt64), so out-of-range quotients clamp to a sign-preserving
// sentinel instead.
const cellOrdinalLimit = math.MaxInt / 2

// quantize maps a coordinate to its cell ordinate. Division by a
// non-representable cell size (0.01 has no exact float64 form) can land
// a boundary coordinate a few ulps below the integer it belongs to, so
// values within 1e-9 of a cell boundary snap upward; equal inputs then
// always share a cell.
func quantize(v, sizeDeg float64) int {
	q := v / sizeDeg
	r := math.Round(q)
	if math.Abs(q-r) < 1e-9 {
		q = r
	} else {
		q = math.Floor(q)
	}
	switch {
	case q >= cellOrdinalLimit:
		return cellOrdinalLimit
	case q <= -cellOrdinalLimit:
		return -cellOrdinalLimit
	}
	return int(q)
}

// CellBBox returns the bounding box covered by a cell.
func CellBBox(c Cell, sizeDeg float64) BBox {
	return BBox{
		MinLat: float64(c.Y) * sizeDeg,
		MinLon: float64(c.X) * sizeDeg,
		MaxLat: float64(c.Y+1) * sizeDeg,
		MaxLon: float64(c.X+1) * sizeDeg,
	}
}
