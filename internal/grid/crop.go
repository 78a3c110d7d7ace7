package grid

import (
	"math"
	"sort"

	"github.com/ctessum/polyclip-go"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/clip"
	"github.com/paulmach/orb/planar"
)

const (
	cropEpsilon = 1e-12
	// minCropArea drops slivers, in squared degrees.
	minCropArea = 1e-14
)

// CropPolygon intersects a candidate ring with a cell boundary, which
// may be concave or made of several parts. Disconnected overlaps come
// back as separate polygons. A candidate lying entirely inside the
// boundary is returned as is. ok is false when nothing with area is left.
func CropPolygon(candidate orb.Ring, boundary orb.MultiPolygon) (orb.MultiPolygon, bool) {
	cand := open(candidate)
	if len(cand) < 3 || len(boundary) == 0 {
		return nil, false
	}
	if !candidate.Bound().Intersects(boundary.Bound()) {
		return nil, false
	}

	var subject polyclip.Polygon
	for _, poly := range boundary {
		for _, r := range poly {
			if c := toContour(r); len(c) >= 3 {
				subject = append(subject, c)
			}
		}
	}
	if len(subject) == 0 {
		return nil, false
	}

	result := subject.Construct(polyclip.INTERSECTION, polyclip.Polygon{toContour(candidate)})
	out := assemble(result)
	if len(out) == 0 {
		return nil, false
	}

	candArea := math.Abs(planar.Area(closed(cand)))
	if len(out) == 1 && len(out[0]) == 1 && math.Abs(math.Abs(planar.Area(out[0][0]))-candArea) <= candArea*1e-9 {
		return orb.MultiPolygon{{closed(cand)}}, true
	}
	return out, true
}

func toContour(r orb.Ring) polyclip.Contour {
	pts := open(r)
	c := make(polyclip.Contour, 0, len(pts))
	for _, p := range pts {
		c = append(c, polyclip.Point{X: p[0], Y: p[1]})
	}
	return c
}

// assemble turns clipper contours into closed polygons. A contour inside
// a larger one becomes its hole. Slivers are dropped.
func assemble(result polyclip.Polygon) orb.MultiPolygon {
	rings := make([]orb.Ring, 0, len(result))
	for _, c := range result {
		pts := make([]orb.Point, 0, len(c))
		for _, p := range c {
			pt := orb.Point{p.X, p.Y}
			if len(pts) > 0 && near(pts[len(pts)-1], pt) {
				continue
			}
			pts = append(pts, pt)
		}
		for len(pts) > 1 && near(pts[0], pts[len(pts)-1]) {
			pts = pts[:len(pts)-1]
		}
		if len(pts) < 3 {
			continue
		}
		r := closed(pts)
		if math.Abs(planar.Area(r)) < minCropArea {
			continue
		}
		rings = append(rings, r)
	}
	sort.SliceStable(rings, func(i, j int) bool {
		return math.Abs(planar.Area(rings[i])) > math.Abs(planar.Area(rings[j]))
	})

	var out orb.MultiPolygon
	for _, r := range rings {
		hole := false
		for i := range out {
			if planar.RingContains(out[i][0], interiorPoint(r)) {
				out[i] = append(out[i], r)
				hole = true
				break
			}
		}
		if !hole {
			out = append(out, orb.Polygon{r})
		}
	}
	return out
}

// interiorPoint returns a point just inside r next to its first edge.
func interiorPoint(r orb.Ring) orb.Point {
	a, b := r[0], r[1]
	mid := lerp(a, b, 0.5)
	d := sub(b, a)
	l := math.Hypot(d[0], d[1])
	if l == 0 {
		return mid
	}
	// step towards the interior side, which depends on orientation
	step := 1e-9 * l
	n := orb.Point{-d[1] / l * step, d[0] / l * step}
	if signedArea(open(r)) < 0 {
		n = orb.Point{-n[0], -n[1]}
	}
	return orb.Point{mid[0] + n[0], mid[1] + n[1]}
}

// CropLines keeps the parts of lines that fall inside boundary, which may
// be concave.
func CropLines(lines orb.MultiLineString, boundary orb.Ring) orb.MultiLineString {
	if len(boundary) < 3 || len(lines) == 0 {
		return nil
	}
	ring := closed(open(boundary))
	lines = clip.MultiLineString(ring.Bound(), lines)

	var out orb.MultiLineString
	for _, ls := range lines {
		var cur orb.LineString
		flush := func() {
			if len(cur) >= 2 {
				out = append(out, cur)
			}
			cur = nil
		}

		for i := 1; i < len(ls); i++ {
			p, q := ls[i-1], ls[i]
			ts := splitParams(p, q, ring)
			for k := 1; k < len(ts); k++ {
				t0, t1 := ts[k-1], ts[k]
				if t1-t0 < cropEpsilon {
					continue
				}
				if !planar.RingContains(ring, lerp(p, q, (t0+t1)/2)) {
					flush()
					continue
				}
				a, b := lerp(p, q, t0), lerp(p, q, t1)
				if len(cur) == 0 || !near(cur[len(cur)-1], a) {
					flush()
					cur = orb.LineString{a}
				}
				cur = append(cur, b)
			}
		}
		flush()
	}
	return out
}

// splitParams returns 0, 1 and every parameter where p-q crosses the
// ring, sorted.
func splitParams(p, q orb.Point, ring orb.Ring) []float64 {
	ts := []float64{0, 1}
	d := sub(q, p)
	for i := 1; i < len(ring); i++ {
		a, b := ring[i-1], ring[i]
		e := sub(b, a)
		denom := cross(d, e)
		if math.Abs(denom) < cropEpsilon {
			continue
		}
		ap := sub(a, p)
		t := cross(ap, e) / denom
		u := cross(ap, d) / denom
		if t > 0 && t < 1 && u >= 0 && u <= 1 {
			ts = append(ts, t)
		}
	}
	sort.Float64s(ts)
	return ts
}

func open(r orb.Ring) []orb.Point {
	if len(r) > 1 && r[0] == r[len(r)-1] {
		return r[:len(r)-1]
	}
	return r
}

func closed(pts []orb.Point) orb.Ring {
	r := make(orb.Ring, 0, len(pts)+1)
	r = append(r, pts...)
	return append(r, pts[0])
}

func signedArea(pts []orb.Point) float64 {
	a := 0.0
	for i := range pts {
		j := (i + 1) % len(pts)
		a += pts[i][0]*pts[j][1] - pts[j][0]*pts[i][1]
	}
	return a / 2
}

func sub(a, b orb.Point) orb.Point { return orb.Point{a[0] - b[0], a[1] - b[1]} }

func cross(a, b orb.Point) float64 { return a[0]*b[1] - a[1]*b[0] }

func lerp(a, b orb.Point, t float64) orb.Point {
	return orb.Point{a[0] + t*(b[0]-a[0]), a[1] + t*(b[1]-a[1])}
}

func near(a, b orb.Point) bool {
	return math.Abs(a[0]-b[0]) < cropEpsilon && math.Abs(a[1]-b[1]) < cropEpsilon
}
