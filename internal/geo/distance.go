// Package geo computes great-circle distances, in Go and as a MySQL
// expression, using the same formula and clamp so both agree.
package geo

import (
	"fmt"
	"math"
)

// KmPerDegree is the length of one degree of arc along a great circle.
const KmPerDegree = 111.111

func rad(deg float64) float64 { return deg * math.Pi / 180 }
func deg(rad float64) float64 { return rad * 180 / math.Pi }

// DistanceKm returns the great-circle distance in kilometres between two
// coordinates. The acos argument is clamped to [-1, 1] so that nearly
// identical or antipodal points never produce NaN.
func DistanceKm(latFrom, lngFrom, latTo, lngTo float64) float64 {
	c := math.Cos(rad(latTo))*math.Cos(rad(latFrom))*math.Cos(rad(lngTo-lngFrom)) +
		math.Sin(rad(latTo))*math.Sin(rad(latFrom))
	return KmPerDegree * deg(math.Acos(math.Max(-1.0, math.Min(1.0, c))))
}

// DistanceSQL renders DistanceKm as a MySQL expression measuring from a bound
// search point to the coordinates held in latCol/lngCol. It expects the
// arguments returned by DistanceArgs, in that order.
func DistanceSQL(latCol, lngCol string) string {
	return fmt.Sprintf(
		"%g * DEGREES(ACOS(GREATEST(-1.0, LEAST(1.0, COS(RADIANS(%s)) * COS(RADIANS(?)) * COS(RADIANS(%s - ?)) + SIN(RADIANS(%s)) * SIN(RADIANS(?))))))",
		KmPerDegree, latCol, lngCol, latCol,
	)
}

func DistanceArgs(lat, lng float64) []any { return []any{lat, lng, lat} }
