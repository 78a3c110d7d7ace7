package grid

import (
	"context"
	"sync"
	"testing"

	"mgrsgrid/internal/model"
	"mgrsgrid/internal/paging"
	"mgrsgrid/internal/scene"
	"mgrsgrid/internal/style"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

type call struct {
	kind  string
	level string
	text  string
	size  float32
}

type recordingBinder struct {
	mu    sync.Mutex
	calls []call
}

func (b *recordingBinder) Geometry(g orb.Geometry, st *style.Style, level string) scene.Renderable {
	b.mu.Lock()
	defer b.mu.Unlock()
	c := call{kind: "geometry", level: level}
	b.calls = append(b.calls, c)
	return c
}

func (b *recordingBinder) Text(text string, anchor orb.Point, st *style.Style, level string) scene.Renderable {
	b.mu.Lock()
	defer b.mu.Unlock()
	c := call{kind: "text", level: level, text: text, size: st.Text.Size}
	b.calls = append(b.calls, c)
	return c
}

var zone31U = model.ZoneExtent{ID: "31U", Bound: orb.Bound{Min: orb.Point{0, 48}, Max: orb.Point{6, 56}}}

func dqCell() model.SQIDCell {
	f := utmCell(400000, 5800000, 500000, 5900000)
	return model.SQIDCell{GZD: "31U", SQID: "DQ", Easting: 400000, Northing: 5800000, Boundary: f.Boundary()}
}

func TestZoneChain(t *testing.T) {
	binder := &recordingBinder{}
	b := &Builder{Sheet: style.Default(), Binder: binder}
	ctx := context.Background()

	zone := b.ZoneNode(zone31U, []model.SQIDCell{dqCell()})
	if len(zone.Content()) != 1 || zone.Size() != 0 {
		t.Fatalf("zone node: content %d size %v", len(zone.Content()), zone.Size())
	}

	sq := zone.Expand(ctx)
	if len(sq) != 1 || sq[0].Level() != LevelSQIDGrid || sq[0].Size() != 100000 || sq[0].Additive() {
		t.Fatalf("zone children = %+v", sq)
	}

	grids := sq[0].Expand(ctx)
	if len(grids) != 1 || grids[0].Size() != 10000 || !grids[0].Additive() {
		t.Fatalf("100 km children = %d", len(grids))
	}
	if grids[0].ID() != "31U/100000/31UDQ" {
		t.Errorf("grid id = %s", grids[0].ID())
	}

	// Walk one branch down to the 1 m level.
	node := grids[0]
	for node.HasChild() {
		children := node.Expand(ctx)
		if len(children) == 0 {
			t.Fatalf("%s expanded to nothing", node.ID())
		}
		for _, c := range children {
			if c.Size() != node.Size()/10 {
				t.Fatalf("%s child size %v", node.ID(), c.Size())
			}
		}
		node = children[0]
	}
	if node.Size() != 1 {
		t.Errorf("chain ended at %v m", node.Size())
	}
}

func TestZoneChainStopsAtMissingStyle(t *testing.T) {
	sheet := style.Default().Restrict([]string{"gzd", "100000", "10000"})
	b := &Builder{Sheet: sheet, Binder: &recordingBinder{}}
	ctx := context.Background()

	zone := b.ZoneNode(zone31U, []model.SQIDCell{dqCell()})
	grid := zone.Expand(ctx)[0].Expand(ctx)[0]
	if grid.HasChild() {
		t.Error("10 km grid should stop without a 1000 style")
	}
	if grid.Expand(ctx) != nil || grid.State() != paging.Built {
		t.Error("grid without finer style must not expand")
	}
}

func TestEmptyCellHasNoChildren(t *testing.T) {
	b := &Builder{Sheet: style.Default(), Binder: &recordingBinder{}}
	n := b.geomGridNode(model.Feature{ID: "31UDQ", GZD: "31U"}, 10000)

	if n.HasChild() {
		t.Error("empty footprint should offer no finer level")
	}
	if got := n.Expand(context.Background()); len(got) != 0 {
		t.Errorf("got %d children", len(got))
	}
	if len(n.Content()) != 0 {
		t.Error("empty footprint should draw nothing")
	}
}

func TestZoneWithoutCells(t *testing.T) {
	b := &Builder{Sheet: style.Default(), Binder: &recordingBinder{}}
	if b.ZoneNode(zone31U, nil).HasChild() {
		t.Error("zone without squares should not expand")
	}
}

func TestTextLevels(t *testing.T) {
	binder := &recordingBinder{}
	b := &Builder{Sheet: style.Default(), Binder: binder}

	text := b.ZoneTextNode(zone31U, []model.SQIDCell{dqCell()})
	children := text.Expand(context.Background())
	if len(children) != 1 || children[0].Level() != LevelSQIDText || children[0].Additive() {
		t.Fatalf("text children = %+v", children)
	}
	if children[0].HasChild() {
		t.Error("square labels are the last text level")
	}

	var texts []call
	for _, c := range binder.calls {
		if c.kind == "text" {
			texts = append(texts, c)
		}
	}
	if len(texts) != 2 {
		t.Fatalf("text calls = %+v", texts)
	}
	if texts[0].text != "31U" || texts[0].size != 32 {
		t.Errorf("zone label = %+v", texts[0])
	}
	if texts[1].text != "DQ" || texts[1].size != 24 {
		t.Errorf("square label = %+v", texts[1])
	}
}

func TestZoneGeomEdges(t *testing.T) {
	b := &Builder{Sheet: style.Default(), Binder: scene.GeoJSONBinder{}}

	lines := func(z model.ZoneExtent) int {
		n := b.ZoneNode(z, nil)
		return len(geomOf(t, n).(orb.MultiLineString))
	}
	if got := lines(zone31U); got != 2 {
		t.Errorf("31U edges = %d, want 2", got)
	}
	x := model.ZoneExtent{ID: "33X", Bound: orb.Bound{Min: orb.Point{9, 72}, Max: orb.Point{21, 84}}}
	if got := lines(x); got != 3 {
		t.Errorf("33X edges = %d, want 3", got)
	}
}

func geomOf(t *testing.T, n *paging.Node) orb.Geometry {
	t.Helper()
	content := n.Content()
	if len(content) != 1 {
		t.Fatalf("%s content = %d", n.ID(), len(content))
	}
	f, ok := content[0].(*geojson.Feature)
	if !ok {
		t.Fatalf("%s content is %T", n.ID(), content[0])
	}
	return f.Geometry
}
