package geo

import "math"

const (
	// earthRadiusMeters is the mean earth radius of the spherical approximation.
	earthRadiusMeters = 6371000.0

	// WalkingMetersPerMinute is the fixed walking speed used for ETA estimates.
	WalkingMetersPerMinute = 80.0

	// MetersPerMile converts haversine output to the display unit.
	MetersPerMile = 1609.34
)

// Point is a WGS84 coordinate.
type Point struct {
	Lat float64
	Lng float64
}

// Distance returns the great-circle distance between a and b in meters,
// using the haversine formula on a spherical earth.
func Distance(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}

// WalkingETAMinutes returns the estimated walking time for the given distance.
// The result is never below one minute.
func WalkingETAMinutes(meters float64) int {
	eta := int(math.Round(meters / WalkingMetersPerMinute))
	if eta < 1 {
		return 1
	}
	return eta
}
