package util

import (
	"math"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
)

const earthRadiusMeters = 6371000.0

// mercatorLatLimit keeps rhumb interpolation away from the poles where
// the Mercator y coordinate diverges.
const mercatorLatLimit = 89.999

// Interpolator returns the point at fraction f along the path from a to b.
type Interpolator func(a, b orb.Point, f float64) orb.Point

// GreatCircle interpolates along the great circle through a and b.
func GreatCircle(a, b orb.Point, f float64) orb.Point {
	switch {
	case f <= 0:
		return a
	case f >= 1:
		return b
	}

	pa := s2.PointFromLatLng(s2.LatLngFromDegrees(a[1], a[0]))
	pb := s2.PointFromLatLng(s2.LatLngFromDegrees(b[1], b[0]))
	ll := s2.LatLngFromPoint(s2.Interpolate(f, pa, pb))

	// Keep longitudes on the same side of the antimeridian as the endpoints.
	lon := unwrapNear(ll.Lng.Degrees(), a[0]+f*(b[0]-a[0]))
	return orb.Point{lon, ll.Lat.Degrees()}
}

// Rhumb interpolates along the loxodrome through a and b, which is a
// straight line in Mercator.
func Rhumb(a, b orb.Point, f float64) orb.Point {
	switch {
	case f <= 0:
		return a
	case f >= 1:
		return b
	}

	// A parallel is its own rhumb line, including at the poles.
	if a[1] == b[1] {
		return orb.Point{a[0] + f*(b[0]-a[0]), a[1]}
	}

	ma := project.WGS84.ToMercator(clampLat(a))
	mb := project.WGS84.ToMercator(clampLat(b))
	m := orb.Point{ma[0] + f*(mb[0]-ma[0]), ma[1] + f*(mb[1]-ma[1])}
	return project.Mercator.ToWGS84(m)
}

// Tessellate samples segments+1 points from a to b inclusive.
func Tessellate(a, b orb.Point, segments int, interp Interpolator) orb.LineString {
	if segments < 1 {
		segments = 1
	}
	ls := make(orb.LineString, 0, segments+1)
	for i := 0; i <= segments; i++ {
		ls = append(ls, interp(a, b, float64(i)/float64(segments)))
	}
	return ls
}

func HaversineDistance(lat1, lng1, lat2, lng2 float64) float64 {
	// Convert coordinates from degrees to S2 points
	point1 := s2.PointFromLatLng(s2.LatLngFromDegrees(lat1, lng1))
	point2 := s2.PointFromLatLng(s2.LatLngFromDegrees(lat2, lng2))

	// Calculate angle between points
	angle := s1.Angle(s2.ChordAngleBetweenPoints(point1, point2).Angle())

	return angle.Radians() * earthRadiusMeters
}

// BoundDiagonal returns the surface distance across the bound in meters.
func BoundDiagonal(b orb.Bound) float64 {
	return HaversineDistance(b.Min[1], b.Min[0], b.Max[1], b.Max[0])
}

func clampLat(p orb.Point) orb.Point {
	return orb.Point{p[0], math.Max(-mercatorLatLimit, math.Min(mercatorLatLimit, p[1]))}
}

func unwrapNear(lon, ref float64) float64 {
	for lon-ref > 180 {
		lon -= 360
	}
	for ref-lon > 180 {
		lon += 360
	}
	return lon
}
