package model

import (
	"github.com/paulmach/orb"
)

// SQIDCell is a 100 km square as stored in the SQID dataset. Easting and
// Northing are the cell origin truncated to whole 100 km units.
type SQIDCell struct {
	GZD      string
	SQID     string
	Easting  float64
	Northing float64
	Boundary orb.Ring
}

// SourceCell is a 100 km square read from a vector source before it is
// simplified and written to the dataset.
type SourceCell struct {
	GZD      string
	SQID     string
	Easting  float64
	Northing float64
	Boundary orb.LineString
}

// Feature is the footprint owned by a grid node: its boundary geometry
// plus the local origin used to lay out finer grid lines.
type Feature struct {
	ID       string
	GZD      string
	SQID     string
	Geometry orb.Geometry
	Easting  float64
	Northing float64
}

// Bound returns the geographic bound of the feature, or an empty bound.
func (f Feature) Bound() orb.Bound {
	if f.Geometry == nil {
		return orb.Bound{}
	}
	return f.Geometry.Bound()
}

// Boundary returns the outer ring of the feature geometry.
func (f Feature) Boundary() orb.Ring {
	switch g := f.Geometry.(type) {
	case orb.Ring:
		return g
	case orb.Polygon:
		if len(g) > 0 {
			return g[0]
		}
	case orb.LineString:
		return orb.Ring(g)
	case orb.MultiPolygon:
		if len(g) > 0 && len(g[0]) > 0 {
			return g[0][0]
		}
	}
	return nil
}

// Polygons returns the feature geometry as polygons. A bare ring or
// closed line becomes a single polygon.
func (f Feature) Polygons() orb.MultiPolygon {
	switch g := f.Geometry.(type) {
	case orb.MultiPolygon:
		return g
	case orb.Polygon:
		return orb.MultiPolygon{g}
	}
	if r := f.Boundary(); len(r) >= 3 {
		return orb.MultiPolygon{{r}}
	}
	return nil
}

// IsEmpty reports whether the feature has no usable boundary.
func (f Feature) IsEmpty() bool {
	return len(f.Boundary()) < 3
}

// CellFeature wraps a dataset cell as a grid node footprint.
func CellFeature(c SQIDCell) Feature {
	return Feature{
		ID:       c.GZD + c.SQID,
		GZD:      c.GZD,
		SQID:     c.SQID,
		Geometry: orb.Polygon{c.Boundary},
		Easting:  c.Easting,
		Northing: c.Northing,
	}
}
