package geospatial

import "math"

const (
	earthRadiusKm   = 6371.0
	metersPerDegLat = 111320.0
)

// Haversine calculates the great-circle distance in meters between two points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c * 1000 // meters
}

// PathLength sums the great-circle lengths of consecutive (lat, lon) segments.
func PathLength(points [][2]float64) float64 {
	var total float64
	for i := 1; i < len(points); i++ {
		total += Haversine(points[i-1][0], points[i-1][1], points[i][0], points[i][1])
	}
	return total
}

// Expand grows a box by radiusMeters on every side. The longitude delta is
// taken at the latitude farthest from the equator so the whole box is covered.
// Results are not clamped.
func Expand(minLat, minLon, maxLat, maxLon, radiusMeters float64) (float64, float64, float64, float64) {
	latDelta := radiusMeters / metersPerDegLat

	widest := math.Max(math.Abs(minLat), math.Abs(maxLat))
	cos := math.Cos(toRad(widest))
	if cos < 1e-9 {
		return minLat - latDelta, -180, maxLat + latDelta, 180
	}
	lonDelta := radiusMeters / (metersPerDegLat * cos)

	return minLat - latDelta, minLon - lonDelta, maxLat + latDelta, maxLon + lonDelta
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
