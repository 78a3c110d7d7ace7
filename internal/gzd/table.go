// Package gzd derives the grid zone designator lattice.
package gzd

import (
	"sort"

	"mgrsgrid/internal/config"
	"mgrsgrid/internal/model"
	"mgrsgrid/internal/util"

	"github.com/paulmach/orb"
)

// Rows are the latitude band letters from 80°S to 84°N.
const Rows = "CDEFGHJKLMNPQRSTUVWX"

var overrides = []model.ZoneExtent{
	// Norway
	{ID: "31V", Bound: rect(0, 56, 3, 64)},
	{ID: "32V", Bound: rect(3, 56, 12, 64)},
	// Svalbard
	{ID: "31X", Bound: rect(0, 72, 9, 84)},
	{ID: "33X", Bound: rect(9, 72, 21, 84)},
	{ID: "35X", Bound: rect(21, 72, 33, 84)},
	{ID: "37X", Bound: rect(33, 72, 42, 84)},
}

var removed = []string{"32X", "34X", "36X"}

func rect(w, s, e, n float64) orb.Bound {
	return orb.Bound{Min: orb.Point{w, s}, Max: orb.Point{e, n}}
}

// BuildZoneTable returns every zone extent keyed by its identifier.
func BuildZoneTable() map[string]model.ZoneExtent {
	table := make(map[string]model.ZoneExtent, 60*len(Rows)+4)

	for band := 0; band < 60; band++ {
		for row := 0; row < len(Rows); row++ {
			west := -180 + 6*float64(band)
			south := -80 + 8*float64(row)
			north := south + 8
			if row == len(Rows)-1 {
				north += 4
			}
			id := model.ZoneID(band+1, Rows[row])
			table[id] = model.ZoneExtent{ID: id, Bound: rect(west, south, west+6, north)}
		}
	}

	for _, z := range []model.ZoneExtent{
		{ID: "01Y", Bound: rect(-180, 84, 0, 90)},
		{ID: "01Z", Bound: rect(0, 84, 180, 90)},
		{ID: "01A", Bound: rect(-180, -90, 0, -80)},
		{ID: "01B", Bound: rect(0, -90, 180, -80)},
	} {
		table[z.ID] = z
	}

	for _, z := range overrides {
		table[z.ID] = z
	}
	for _, id := range removed {
		delete(table, id)
	}
	return table
}

// SortedIDs returns the table keys in lexical order.
func SortedIDs(table map[string]model.ZoneExtent) []string {
	ids := make([]string, 0, len(table))
	for id := range table {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ZoneFeatures synthesizes a closed boundary polyline for every zone,
// ordered by identifier.
func ZoneFeatures(table map[string]model.ZoneExtent) []model.Feature {
	features := make([]model.Feature, 0, len(table))
	for _, id := range SortedIDs(table) {
		z := table[id]
		features = append(features, model.Feature{
			ID:       model.PadZoneID(id),
			GZD:      model.PadZoneID(id),
			Geometry: Boundary(z.Bound, config.EdgeTessellation),
		})
	}
	return features
}

// Boundary tessellates the four edges of b counter-clockwise from the
// south-west corner. Parallels follow rhumb lines and meridians follow
// great circles. Corners are not repeated and the ring is closed.
func Boundary(b orb.Bound, segments int) orb.LineString {
	sw := orb.Point{b.Min[0], b.Min[1]}
	se := orb.Point{b.Max[0], b.Min[1]}
	ne := orb.Point{b.Max[0], b.Max[1]}
	nw := orb.Point{b.Min[0], b.Max[1]}

	south := util.Tessellate(sw, se, segments, util.Rhumb)
	east := util.Tessellate(se, ne, segments, util.GreatCircle)
	north := util.Tessellate(ne, nw, segments, util.Rhumb)
	west := util.Tessellate(nw, sw, segments, util.GreatCircle)

	ls := make(orb.LineString, 0, 4*segments+1)
	ls = append(ls, south[:segments]...)
	ls = append(ls, east[:segments]...)
	ls = append(ls, north[:segments]...)
	ls = append(ls, west...)
	return ls
}
