package geospatial

import (
	"math"

	"github.com/samirrijal/haversine/internal/core/domain"
)

// EarthRadiusKm is the sphere radius used by both the generator and the processor.
const EarthRadiusKm = 6372.8

const degToRad = 0.01745329251994329577

// Haversine calculates the great-circle distance between the two points of p
// on a sphere of the given radius. The result is in the radius' unit.
func Haversine(p domain.CoordinatePair, radius float64) float64 {
	lat1 := p.Y0
	lat2 := p.Y1
	lon1 := p.X0
	lon2 := p.X1

	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	sLat := math.Sin(dLat / 2)
	sLon := math.Sin(dLon / 2)
	a := sLat*sLat + math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*sLon*sLon

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return radius * c
}

// Average returns the mean haversine distance of pairs, accumulated as a
// running sum of distance/N terms in slice order.
//
// An empty slice has no mean: 1/N is +Inf and the result is NaN.
func Average(pairs []domain.CoordinatePair, radius float64) float64 {
	if len(pairs) == 0 {
		return math.NaN()
	}
	coef := 1 / float64(len(pairs))

	var sum float64
	for _, p := range pairs {
		sum += Haversine(p, radius) * coef
	}
	return sum
}

// BoundingBox returns the box spanning rx degrees of longitude and ry degrees
// of latitude either side of center. It is not clamped to valid coordinates.
func BoundingBox(center domain.GeoPoint, rx, ry float64) domain.Bounds {
	return domain.Bounds{
		MinLat: center.Lat - ry,
		MinLon: center.Lon - rx,
		MaxLat: center.Lat + ry,
		MaxLon: center.Lon + rx,
	}
}

func toRad(deg float64) float64 {
	return deg * degToRad
}
