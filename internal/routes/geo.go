package routes

import (
	"math"

	"trainlog/internal/polyline"
	"trainlog/internal/store"
)

// earthRadiusMeters is the mean Earth radius used for great-circle distances
const earthRadiusMeters = 6371000

// Haversine returns the great-circle distance in meters between two points
func Haversine(a, b polyline.Point) float64 {
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(a.Lat*math.Pi/180)*math.Cos(b.Lat*math.Pi/180)*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusMeters * c
}

// startPoint resolves an activity's start coordinate: the recorded start
// position when present, otherwise the first point of its polyline.
func startPoint(a *store.Activity) (polyline.Point, bool) {
	if a.HasStartCoords() {
		return polyline.Point{Lat: *a.StartLat, Lng: *a.StartLng}, true
	}

	if a.SummaryPolyline != nil && *a.SummaryPolyline != "" {
		points := polyline.Decode(*a.SummaryPolyline)
		if len(points) > 0 {
			return points[0], true
		}
	}

	return polyline.Point{}, false
}
