package grid

import (
	"context"

	"mgrsgrid/internal/config"
	"mgrsgrid/internal/label"
	"mgrsgrid/internal/model"
	"mgrsgrid/internal/paging"
	"mgrsgrid/internal/scene"
	"mgrsgrid/internal/style"
	"mgrsgrid/internal/util"

	"github.com/paulmach/orb"
)

// Level names, used as node levels and metric labels.
const (
	LevelGZDGeom  = "gzd_geom"
	LevelGZDText  = "gzd_text"
	LevelSQIDGrid = "sqid_grid"
	LevelSQIDText = "sqid_text"
	LevelGeomGrid = "geom_grid"
)

// Builder creates the root nodes of one zone. Sheet is shared read-only
// by every node it creates.
type Builder struct {
	Sheet  *style.Sheet
	Binder scene.Binder
}

// ZoneNode returns the zone outline node. It expands into the 100 km
// square line work.
func (b *Builder) ZoneNode(zone model.ZoneExtent, cells []model.SQIDCell) *paging.Node {
	return paging.NewNode(paging.Options{
		Name:  zone.ID,
		Level: LevelGZDGeom,
		Range: config.GZDRange,
		Bound: zone.Bound,
	}, &gzdGeom{b: b, zone: zone, cells: cells})
}

// ZoneTextNode returns the zone label node. It expands into the 100 km
// square labels.
func (b *Builder) ZoneTextNode(zone model.ZoneExtent, cells []model.SQIDCell) *paging.Node {
	return paging.NewNode(paging.Options{
		Name:  zone.ID + "-text",
		Level: LevelGZDText,
		Range: config.TextRange,
		Bound: zone.Bound,
	}, &gzdText{b: b, zone: zone, cells: cells})
}

func cellsBound(cells []model.SQIDCell, fallback orb.Bound) orb.Bound {
	if len(cells) == 0 {
		return fallback
	}
	bound := cells[0].Boundary.Bound()
	for _, c := range cells[1:] {
		bound = bound.Union(c.Boundary.Bound())
	}
	return bound
}

// gzdGeom draws the west and south edges of a zone, plus the north edge
// along 84°N. Neighbouring zones draw the remaining edges.
type gzdGeom struct {
	b     *Builder
	zone  model.ZoneExtent
	cells []model.SQIDCell
}

func (s *gzdGeom) Build() []scene.Renderable {
	st, ok := s.b.Sheet.Get(style.GZD)
	if !ok || st.Line == nil {
		return nil
	}
	seg := st.Line.Tessellation
	if seg <= 0 {
		seg = config.EdgeTessellation
	}

	z := s.zone
	sw := orb.Point{z.West(), z.South()}
	se := orb.Point{z.East(), z.South()}
	nw := orb.Point{z.West(), z.North()}
	ne := orb.Point{z.East(), z.North()}

	lines := orb.MultiLineString{
		util.Tessellate(nw, sw, seg, util.GreatCircle),
		util.Tessellate(sw, se, seg, util.Rhumb),
	}
	if z.North() == 84 {
		lines = append(lines, util.Tessellate(ne, nw, seg, util.Rhumb))
	}
	return []scene.Renderable{s.b.Binder.Geometry(lines, st.WithoutText(), LevelGZDGeom)}
}

func (s *gzdGeom) HasChild() bool {
	return len(s.cells) > 0 && s.b.Sheet.Has(style.Key(100000))
}

func (s *gzdGeom) LoadChildren(ctx context.Context) ([]*paging.Node, error) {
	return []*paging.Node{paging.NewNode(paging.Options{
		Name:  style.Key(100000),
		Level: LevelSQIDGrid,
		Size:  100000,
		Range: config.SQIDGridRange,
		Bound: cellsBound(s.cells, s.zone.Bound),
	}, &sqidGrid{b: s.b, cells: s.cells})}, nil
}

// sqidGrid draws every 100 km square of a zone as one line set.
type sqidGrid struct {
	b     *Builder
	cells []model.SQIDCell
}

func (s *sqidGrid) Build() []scene.Renderable {
	st, ok := s.b.Sheet.Get(style.Key(100000))
	if !ok || st.Line == nil {
		return nil
	}
	lines := make(orb.MultiLineString, 0, len(s.cells))
	for _, c := range s.cells {
		lines = append(lines, orb.LineString(c.Boundary))
	}
	return []scene.Renderable{s.b.Binder.Geometry(lines, st.WithoutText(), LevelSQIDGrid)}
}

func (s *sqidGrid) HasChild() bool {
	return len(s.cells) > 0 && s.b.Sheet.Has(style.Key(10000))
}

func (s *sqidGrid) LoadChildren(ctx context.Context) ([]*paging.Node, error) {
	children := make([]*paging.Node, 0, len(s.cells))
	for _, c := range s.cells {
		f := model.CellFeature(c)
		if f.IsEmpty() {
			continue
		}
		children = append(children, s.b.geomGridNode(f, 10000))
	}
	return children, nil
}

func (b *Builder) geomGridNode(f model.Feature, size float64) *paging.Node {
	return paging.NewNode(paging.Options{
		Name:     f.ID,
		Level:    LevelGeomGrid,
		Size:     size,
		Range:    config.GridRange,
		Additive: true,
		Bound:    f.Bound(),
	}, &geomGrid{b: b, feature: f, size: size})
}

// geomGrid draws lines every size meters inside a square of side 10*size
// and expands into one finer grid per sub-square.
type geomGrid struct {
	b       *Builder
	feature model.Feature
	size    float64
}

func (s *geomGrid) Build() []scene.Renderable {
	st, ok := s.b.Sheet.Get(style.Key(s.size))
	if !ok || st.Line == nil {
		return nil
	}
	lines := GridLines(s.feature, s.size*10, s.size)
	if len(lines) == 0 {
		return nil
	}
	return []scene.Renderable{s.b.Binder.Geometry(lines, st.WithoutText(), LevelGeomGrid)}
}

func (s *geomGrid) HasChild() bool {
	finer := s.size / 10
	return finer >= 1 && !s.feature.IsEmpty() && s.b.Sheet.Has(style.Key(finer))
}

func (s *geomGrid) LoadChildren(ctx context.Context) ([]*paging.Node, error) {
	subs := SubCells(s.feature, s.size*10, s.size)
	children := make([]*paging.Node, 0, len(subs))
	for _, f := range subs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		children = append(children, s.b.geomGridNode(f, s.size/10))
	}
	return children, nil
}

// gzdText labels a zone at the south-west corner of its extent.
type gzdText struct {
	b     *Builder
	zone  model.ZoneExtent
	cells []model.SQIDCell
}

func textStyle(st *style.Style, size float32) *style.Style {
	out := st.WithoutLine()
	text := *out.Text
	text.Size = st.TextSize(size)
	out.Text = &text
	return out
}

func (s *gzdText) Build() []scene.Renderable {
	st, ok := s.b.Sheet.Get(style.GZD)
	if !ok || st.Text == nil {
		return nil
	}
	anchor := label.SouthWest(s.zone.Bound)
	return []scene.Renderable{s.b.Binder.Text(s.zone.ID, anchor, textStyle(st, config.GZDTextSize), LevelGZDText)}
}

func (s *gzdText) HasChild() bool {
	return len(s.cells) > 0 && s.b.Sheet.HasText(style.Key(100000))
}

func (s *gzdText) LoadChildren(ctx context.Context) ([]*paging.Node, error) {
	return []*paging.Node{paging.NewNode(paging.Options{
		Name:  style.SQID + "-text",
		Level: LevelSQIDText,
		Range: config.TextRange,
		Bound: cellsBound(s.cells, s.zone.Bound),
	}, &sqidText{b: s.b, cells: s.cells})}, nil
}

// sqidText labels each 100 km square at its vertex closest to the
// south-west corner of its bound.
type sqidText struct {
	b     *Builder
	cells []model.SQIDCell
}

func (s *sqidText) Build() []scene.Renderable {
	st, ok := s.b.Sheet.Get(style.Key(100000))
	if !ok || st.Text == nil {
		return nil
	}
	ts := textStyle(st, config.SQIDTextSize)

	out := make([]scene.Renderable, 0, len(s.cells))
	for _, c := range s.cells {
		anchor, ok := label.Anchor(c.Boundary)
		if !ok {
			continue
		}
		out = append(out, s.b.Binder.Text(c.SQID, anchor, ts, LevelSQIDText))
	}
	return out
}

func (s *sqidText) HasChild() bool { return false }

func (s *sqidText) LoadChildren(ctx context.Context) ([]*paging.Node, error) {
	return nil, nil
}
