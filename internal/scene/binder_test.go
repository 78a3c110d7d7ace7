package scene

import (
	"testing"

	"mgrsgrid/internal/style"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

func TestGeoJSONBinder(t *testing.T) {
	sheet := style.Default()
	st, _ := sheet.Get("100000")

	var b Binder = GeoJSONBinder{}
	line := b.Geometry(orb.MultiLineString{{{0, 0}, {1, 1}}}, st.WithoutText(), "sqid_grid")
	text := b.Text("DQ", orb.Point{3, 52}, st.WithoutLine(), "sqid_text")

	fc := Collect([]Renderable{line, text, "not a feature"})
	if len(fc.Features) != 2 {
		t.Fatalf("got %d features, want 2", len(fc.Features))
	}

	lf := line.(*geojson.Feature)
	if lf.Properties["stroke"] != st.Line.Color.Hex() || lf.Properties["level"] != "sqid_grid" {
		t.Errorf("line properties = %v", lf.Properties)
	}
	if _, ok := lf.Properties["text"]; ok {
		t.Error("line feature should not carry text")
	}

	tf := text.(*geojson.Feature)
	if tf.Properties["text"] != "DQ" || tf.Properties["alignment"] != "left_baseline" {
		t.Errorf("text properties = %v", tf.Properties)
	}
	if tf.Geometry.(orb.Point) != (orb.Point{3, 52}) {
		t.Errorf("anchor = %v", tf.Geometry)
	}
}
