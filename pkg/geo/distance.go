package geo

import "math"

// earthRadiusMeters is the mean Earth radius used for great-circle distances.
const earthRadiusMeters = 6371000.0

// HaversineMeters calculates the great-circle distance in meters between
// two coordinate pairs using the Haversine formula.
func HaversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := toRadians(lat1)
	lat2Rad := toRadians(lat2)
	deltaLat := toRadians(lat2 - lat1)
	deltaLon := toRadians(lon2 - lon1)

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
