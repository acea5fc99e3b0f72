// Package polyline decodes Google-style encoded polylines.
// https://developers.google.com/maps/documentation/utilities/polylinealgorithm
package polyline

// Point is a coordinate pair in decimal degrees.
type Point struct {
	Lat float64
	Lng float64
}

// Decode converts an encoded polyline string into an ordered list of points.
// An empty string decodes to an empty list. The decode loop is bounded by the
// input length: a truncated trailing chunk ends the decode and the successfully
// decoded prefix is returned. Beyond truncation, malformed input is not
// detected and produces unspecified coordinates.
func Decode(encoded string) []Point {
	points := make([]Point, 0, len(encoded)/4)

	var lat, lng int
	idx := 0

	for idx < len(encoded) {
		dlat, next, ok := decodeDelta(encoded, idx)
		if !ok {
			break
		}
		idx = next

		dlng, next, ok := decodeDelta(encoded, idx)
		if !ok {
			// Latitude chunk without its longitude: drop the partial point
			break
		}
		idx = next

		lat += dlat
		lng += dlng
		points = append(points, Point{
			Lat: float64(lat) / 1e5,
			Lng: float64(lng) / 1e5,
		})
	}

	return points
}

// decodeDelta reads one zig-zag encoded signed delta starting at idx.
// Each byte carries 5 payload bits (ASCII offset 63); bit 0x20 marks a
// continuation. ok is false when the input ends mid-chunk.
func decodeDelta(s string, idx int) (delta, next int, ok bool) {
	var result uint
	var shift uint

	for {
		if idx >= len(s) {
			return 0, idx, false
		}
		b := int(s[idx]) - 63
		idx++

		result |= uint(b&0x1f) << shift
		shift += 5

		if b < 0x20 {
			break
		}
	}

	delta = int(result >> 1)
	if result&1 != 0 {
		delta = ^delta
	}
	return delta, idx, true
}
