// Package label places grid labels on cell boundaries.
package label

import (
	"math"

	"github.com/paulmach/orb"
)

// SouthWest returns the lower left corner of b.
func SouthWest(b orb.Bound) orb.Point {
	return b.Min
}

// ClosestVertex returns the vertex of g nearest to ref. Ties keep the
// first vertex found. ok is false when g has no vertices.
func ClosestVertex(g orb.Geometry, ref orb.Point) (p orb.Point, ok bool) {
	best := math.Inf(1)
	p = ref

	var visit func(g orb.Geometry)
	visitPoints := func(pts []orb.Point) {
		for _, v := range pts {
			dx, dy := v[0]-ref[0], v[1]-ref[1]
			if d := dx*dx + dy*dy; d < best {
				best, p, ok = d, v, true
			}
		}
	}
	visit = func(g orb.Geometry) {
		switch g := g.(type) {
		case orb.Point:
			visitPoints([]orb.Point{g})
		case orb.MultiPoint:
			visitPoints(g)
		case orb.LineString:
			visitPoints(g)
		case orb.Ring:
			visitPoints(g)
		case orb.MultiLineString:
			for _, ls := range g {
				visitPoints(ls)
			}
		case orb.Polygon:
			for _, r := range g {
				visitPoints(r)
			}
		case orb.MultiPolygon:
			for _, poly := range g {
				visit(poly)
			}
		case orb.Collection:
			for _, part := range g {
				visit(part)
			}
		}
	}
	visit(g)
	return p, ok
}

// Anchor returns the vertex of g closest to the south-west corner of its
// bound, the placement used for square identifiers.
func Anchor(g orb.Geometry) (orb.Point, bool) {
	if g == nil {
		return orb.Point{}, false
	}
	return ClosestVertex(g, SouthWest(g.Bound()))
}
