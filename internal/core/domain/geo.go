package domain

// GeoPoint represents a geographic coordinate in degrees.
type GeoPoint struct {
	Lon float64 `json:"lon" yaml:"lon"`
	Lat float64 `json:"lat" yaml:"lat"`
}

// CoordinatePair holds two points as (x, y) = (longitude, latitude) in degrees.
// Values are not range checked.
type CoordinatePair struct {
	X0 float64 `json:"x0" yaml:"x0"`
	Y0 float64 `json:"y0" yaml:"y0"`
	X1 float64 `json:"x1" yaml:"x1"`
	Y1 float64 `json:"y1" yaml:"y1"`
}

// NewCoordinatePair builds a pair from two points.
func NewCoordinatePair(from, to GeoPoint) CoordinatePair {
	return CoordinatePair{X0: from.Lon, Y0: from.Lat, X1: to.Lon, Y1: to.Lat}
}

// From returns the first point of the pair.
func (p CoordinatePair) From() GeoPoint {
	return GeoPoint{Lon: p.X0, Lat: p.Y0}
}

// To returns the second point of the pair.
func (p CoordinatePair) To() GeoPoint {
	return GeoPoint{Lon: p.X1, Lat: p.Y1}
}

// Reversed swaps the two points.
func (p CoordinatePair) Reversed() CoordinatePair {
	return CoordinatePair{X0: p.X1, Y0: p.Y1, X1: p.X0, Y1: p.Y0}
}

// Bounds represents a geographic bounding box.
type Bounds struct {
	MinLat float64 `json:"min_lat" yaml:"min_lat"`
	MinLon float64 `json:"min_lon" yaml:"min_lon"`
	MaxLat float64 `json:"max_lat" yaml:"max_lat"`
	MaxLon float64 `json:"max_lon" yaml:"max_lon"`
}

// WorldBounds covers every longitude and latitude.
var WorldBounds = Bounds{MinLat: -90, MinLon: -180, MaxLat: 90, MaxLon: 180}

// Lerp maps fractions u, v in [0, 1) onto the box, u along longitude and v
// along latitude.
func (b Bounds) Lerp(u, v float64) GeoPoint {
	return GeoPoint{
		Lon: b.MinLon + u*(b.MaxLon-b.MinLon),
		Lat: b.MinLat + v*(b.MaxLat-b.MinLat),
	}
}
