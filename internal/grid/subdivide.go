// Package grid lays out MGRS grid lines and squares inside a cell.
package grid

import (
	"fmt"
	"math"

	"mgrsgrid/internal/model"

	"github.com/paulmach/orb"
)

// GridLines lays out north-south and east-west lines every interval
// meters over a square of side extent anchored at the feature origin,
// cropped to the feature boundary.
func GridLines(f model.Feature, extent, interval float64) orb.MultiLineString {
	parts := f.Polygons()
	if len(parts) == 0 || interval <= 0 {
		return nil
	}
	lp := NewLocalProjection(f)
	steps := int(math.Round(extent / interval))
	x0, y0 := f.Easting, f.Northing

	lines := make(orb.MultiLineString, 0, 2*(steps+1))
	for i := 0; i <= steps; i++ {
		ns := make(orb.LineString, 0, steps+1)
		ew := make(orb.LineString, 0, steps+1)
		for j := 0; j <= steps; j++ {
			ns = append(ns, lp.ToGeo(orb.Point{x0 + float64(i)*interval, y0 + float64(j)*interval}))
			ew = append(ew, lp.ToGeo(orb.Point{x0 + float64(j)*interval, y0 + float64(i)*interval}))
		}
		lines = append(lines, ns, ew)
	}
	var out orb.MultiLineString
	for _, p := range parts {
		out = append(out, CropLines(lines, p[0])...)
	}
	return out
}

// SubCells splits the square of side extent at the feature origin into
// squares of side size, each cropped to the feature boundary. Squares
// with no area left are dropped. A square split in several parts by a
// concave boundary keeps all of them as one multipolygon.
func SubCells(f model.Feature, extent, size float64) []model.Feature {
	boundary := f.Polygons()
	if len(boundary) == 0 || size <= 0 {
		return nil
	}
	lp := NewLocalProjection(f)
	steps := int(math.Round(extent / size))
	x0, y0 := f.Easting, f.Northing

	var out []model.Feature
	for i := 0; i < steps; i++ {
		for j := 0; j < steps; j++ {
			x := x0 + float64(i)*size
			y := y0 + float64(j)*size
			candidate := orb.Ring{
				lp.ToGeo(orb.Point{x, y}),
				lp.ToGeo(orb.Point{x + size, y}),
				lp.ToGeo(orb.Point{x + size, y + size}),
				lp.ToGeo(orb.Point{x, y + size}),
				lp.ToGeo(orb.Point{x, y}),
			}
			parts, ok := CropPolygon(candidate, boundary)
			if !ok {
				continue
			}
			var geom orb.Geometry = parts
			if len(parts) == 1 {
				geom = parts[0]
			}
			out = append(out, model.Feature{
				ID:       SquareID(f.GZD, f.SQID, x, y, size),
				GZD:      f.GZD,
				SQID:     f.SQID,
				Geometry: geom,
				Easting:  x,
				Northing: y,
			})
		}
	}
	return out
}

// SquareID formats the MGRS reference of the square of side size with
// origin x, y, e.g. "31UDQ48" for a 10 km square.
func SquareID(gzd, sqid string, x, y, size float64) string {
	digits := int(math.Round(math.Log10(100000 / size)))
	if digits <= 0 {
		return gzd + sqid
	}
	e := int(math.Mod(x, 100000)/size + 1e-6)
	n := int(math.Mod(y, 100000)/size + 1e-6)
	return fmt.Sprintf("%s%s%0*d%0*d", gzd, sqid, digits, e, digits, n)
}
