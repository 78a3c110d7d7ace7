// Package source reads authoritative 100 km square polygons for the
// offline dataset writer.
package source

import (
	"fmt"
	"math"
	"os"
	"strconv"

	"mgrsgrid/internal/model"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
	log "github.com/sirupsen/logrus"
)

// Property names used by the published MGRS 100 km square layers.
const (
	PropGZD      = "GZD"
	PropSQID     = "100kmSQ_ID"
	PropEasting  = "EASTING"
	PropNorthing = "NORTHING"
)

// ReadGeoJSON loads a FeatureCollection of 100 km squares.
func ReadGeoJSON(path string) ([]model.SourceCell, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return FromFeatures(fc.Features), nil
}

// FromFeatures converts GeoJSON features into source cells. Features
// without a zone code or a polygonal geometry are skipped.
func FromFeatures(features []*geojson.Feature) []model.SourceCell {
	cells := make([]model.SourceCell, 0, len(features))
	for i, f := range features {
		gzd := f.Properties.MustString(PropGZD, "")
		sqid := f.Properties.MustString(PropSQID, "")
		if gzd == "" || sqid == "" {
			log.Warnf("feature %d: missing %s/%s, skipping", i, PropGZD, PropSQID)
			continue
		}

		ring := OuterRing(f.Geometry)
		if len(ring) == 0 {
			log.Infof("feature %d (%s%s): no polygon geometry, skipping", i, gzd, sqid)
			continue
		}

		cells = append(cells, model.SourceCell{
			GZD:      model.PadZoneID(gzd),
			SQID:     sqid,
			Easting:  number(f.Properties, PropEasting),
			Northing: number(f.Properties, PropNorthing),
			Boundary: orb.LineString(ring),
		})
	}
	return cells
}

// OuterRing returns the exterior ring of a polygon, or of the largest
// member of a multipolygon.
func OuterRing(g orb.Geometry) orb.Ring {
	switch g := g.(type) {
	case orb.Polygon:
		if len(g) > 0 {
			return g[0]
		}
	case orb.MultiPolygon:
		var best orb.Ring
		bestArea := -1.0
		for _, p := range g {
			if len(p) == 0 {
				continue
			}
			if a := math.Abs(planar.Area(p[0])); a > bestArea {
				best, bestArea = p[0], a
			}
		}
		return best
	case orb.Ring:
		return g
	}
	return nil
}

// number accepts numeric and string-encoded attribute values.
func number(p geojson.Properties, key string) float64 {
	switch v := p[key].(type) {
	case float64:
		return v
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return 0
}
