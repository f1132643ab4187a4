// Package geo provides great-circle distance helpers for "near me"
// filtering and ordering. Pure functions, no I/O.
package geo

import (
	"math"
	"sort"
)

const earthRadiusKm = 6371.0

// DefaultSearchRadiusKm is the fixed radius used when scoping results
// around a caller-supplied origin.
const DefaultSearchRadiusKm = 15.0

// Point is a latitude/longitude pair in degrees.
type Point struct {
	Latitude  float64
	Longitude float64
}

// DistanceKm returns the Haversine great-circle distance between two
// points in kilometres.
func DistanceKm(a, b Point) float64 {
	dLat := degreesToRadians(b.Latitude - a.Latitude)
	dLon := degreesToRadians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(degreesToRadians(a.Latitude))*math.Cos(degreesToRadians(b.Latitude))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusKm * c
}

// WithinRadius reports whether point lies within radiusKm of origin.
func WithinRadius(origin, point Point, radiusKm float64) bool {
	return DistanceKm(origin, point) <= radiusKm
}

// SortByDistance orders items ascending by distance from origin, using
// the supplied accessor to read each item's location. The sort is stable
// so equidistant items keep their input order.
func SortByDistance[T any](origin Point, items []T, location func(T) Point) {
	sort.SliceStable(items, func(i, j int) bool {
		return DistanceKm(origin, location(items[i])) < DistanceKm(origin, location(items[j]))
	})
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
