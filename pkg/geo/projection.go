package geo

import (
	"math"

	"github.com/emergia-gye/emergia/pkg/util"
)

// Local equirectangular frame centered on a reference latitude. Only valid
// for sub-kilometer projection geometry; long-range distance must use the
// haversine formula instead.

// Project maps (lat, lon) in degrees to planar (x, y) in km.
func Project(lat, lon, refLat float64) (float64, float64) {
	x := util.DegreeToRadians(lon) * earthRadiusKM * math.Cos(util.DegreeToRadians(refLat))
	y := util.DegreeToRadians(lat) * earthRadiusKM
	return x, y
}

// Unproject is the inverse of Project for the same reference latitude.
func Unproject(x, y, refLat float64) (float64, float64) {
	lat := util.RadiansToDegree(y / earthRadiusKM)
	lon := util.RadiansToDegree(x / (earthRadiusKM * math.Cos(util.DegreeToRadians(refLat))))
	return lat, lon
}

// GetDestinationPoint returns the destination point given the starting point, bearing and distance
// dist in km
func GetDestinationPoint(lat1, lon1 float64, bearing float64, dist float64) (float64, float64) {
	dr := dist / earthRadiusKM

	bearing = util.DegreeToRadians(bearing)

	lat1 = util.DegreeToRadians(lat1)
	lon1 = util.DegreeToRadians(lon1)

	lat2Part1 := math.Sin(lat1) * math.Cos(dr)
	lat2Part2 := math.Cos(lat1) * math.Sin(dr) * math.Cos(bearing)

	lat2 := math.Asin(lat2Part1 + lat2Part2)

	lon2Part1 := math.Sin(bearing) * math.Sin(dr) * math.Cos(lat1)
	lon2Part2 := math.Cos(dr) - (math.Sin(lat1) * math.Sin(lat2))

	lon2 := lon1 + math.Atan2(lon2Part1, lon2Part2)

	return util.RadiansToDegree(lat2), normalizeLongitude(util.RadiansToDegree(lon2))
}

// normalizeLongitude. long in degree
func normalizeLongitude(long float64) float64 {
	return math.Mod((long+540), 360) - 180.0
}
