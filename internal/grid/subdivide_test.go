package grid

import (
	"math"
	"testing"

	"mgrsgrid/internal/model"
	"mgrsgrid/internal/util"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

var utm31N = util.UTM{Zone: 31, North: true}

// utmCell builds a 31U feature whose boundary is the UTM rectangle
// [x0,x1]x[y0,y1], densified every 5 km.
func utmCell(x0, y0, x1, y1 float64) model.Feature {
	var ring orb.Ring
	add := func(x, y float64) { ring = append(ring, utm31N.Inverse(orb.Point{x, y})) }
	for x := x0; x < x1; x += 5000 {
		add(x, y0)
	}
	for y := y0; y < y1; y += 5000 {
		add(x1, y)
	}
	for x := x1; x > x0; x -= 5000 {
		add(x, y1)
	}
	for y := y1; y > y0; y -= 5000 {
		add(x0, y)
	}
	ring = append(ring, ring[0])

	return model.Feature{
		ID:       "31UDQ",
		GZD:      "31U",
		SQID:     "DQ",
		Geometry: orb.Polygon{ring},
		Easting:  400000,
		Northing: 5800000,
	}
}

func TestLocalProjectionFromZone(t *testing.T) {
	f := utmCell(400000, 5800000, 500000, 5900000)
	if got := NewLocalProjection(f).String(); got != "UTM 31N" {
		t.Errorf("projection = %s", got)
	}

	f.GZD = ""
	if got := NewLocalProjection(f).String(); got != "UTM 31N" {
		t.Errorf("centroid projection = %s", got)
	}

	p := NewLocalProjection(f)
	back := p.ToLocal(p.ToGeo(orb.Point{450000, 5850000}))
	if math.Abs(back[0]-450000) > 1e-3 || math.Abs(back[1]-5850000) > 1e-3 {
		t.Errorf("round trip = %v", back)
	}
}

func TestGridLines(t *testing.T) {
	f := utmCell(400000, 5800000, 500000, 5900000)
	lines := GridLines(f, 100000, 10000)

	// Nine interior lines each way cross the whole cell; the outer ones
	// lie on the boundary itself and may survive in pieces.
	long := 0
	for _, ls := range lines {
		a, b := ls[0], ls[len(ls)-1]
		if util.HaversineDistance(a[1], a[0], b[1], b[0]) > 90000 {
			long++
		}
	}
	if long < 18 {
		t.Fatalf("got %d full length lines of %d", long, len(lines))
	}
	b := f.Bound().Pad(1e-9)
	for _, ls := range lines {
		for _, p := range ls {
			if !b.Contains(p) {
				t.Fatalf("line vertex %v outside cell", p)
			}
		}
	}

	// Half the cell only keeps lines west of 455 km at full length.
	half := utmCell(400000, 5800000, 455000, 5900000)
	for _, ls := range GridLines(half, 100000, 10000) {
		for _, p := range ls {
			if x := utm31N.Forward(p)[0]; x > 455000+1 {
				t.Fatalf("line crosses the cut at %v", x)
			}
		}
	}
}

func TestSubCellsFull(t *testing.T) {
	f := utmCell(400000, 5800000, 500000, 5900000)
	subs := SubCells(f, 100000, 10000)
	if len(subs) != 100 {
		t.Fatalf("got %d sub-cells, want 100", len(subs))
	}

	s := subs[4*10+8]
	if s.Easting != 440000 || s.Northing != 5880000 {
		t.Errorf("origin = %v,%v", s.Easting, s.Northing)
	}
	if s.ID != "31UDQ48" || s.GZD != "31U" || s.SQID != "DQ" {
		t.Errorf("ids = %s %s %s", s.ID, s.GZD, s.SQID)
	}
}

func TestSubCellsClipped(t *testing.T) {
	f := utmCell(400000, 5800000, 455000, 5900000)
	subs := SubCells(f, 100000, 10000)
	// Columns 0-4 are whole, column 5 is cut in half.
	if len(subs) != 60 {
		t.Fatalf("got %d sub-cells, want 60", len(subs))
	}

	// Degree areas shrink northward, so compare within each row.
	full := map[float64]float64{}
	for _, s := range subs {
		if s.Easting == 400000 {
			full[s.Northing] = math.Abs(planar.Area(s.Boundary()))
		}
	}
	for _, s := range subs {
		a := math.Abs(planar.Area(s.Boundary()))
		ref := full[s.Northing]
		if s.Easting == 450000 {
			if math.Abs(a/ref-0.5) > 0.01 {
				t.Errorf("%s area ratio %v, want 0.5", s.ID, a/ref)
			}
		} else if math.Abs(a/ref-1) > 0.01 {
			t.Errorf("%s area ratio %v, want 1", s.ID, a/ref)
		}
	}
}

func TestSubCellsEmptyBoundary(t *testing.T) {
	f := model.Feature{GZD: "31U", Easting: 400000, Northing: 5800000}
	if got := SubCells(f, 100000, 10000); len(got) != 0 {
		t.Errorf("got %d sub-cells from empty boundary", len(got))
	}
	if got := GridLines(f, 100000, 10000); len(got) != 0 {
		t.Errorf("got %d lines from empty boundary", len(got))
	}
}

func TestSquareID(t *testing.T) {
	cases := []struct {
		x, y, size float64
		want       string
	}{
		{440000, 5880000, 10000, "31UDQ48"},
		{445000, 5883000, 1000, "31UDQ4583"},
		{445120, 5883990, 10, "31UDQ45128399"},
		{400000, 5800000, 100000, "31UDQ"},
	}
	for _, tc := range cases {
		if got := SquareID("31U", "DQ", tc.x, tc.y, tc.size); got != tc.want {
			t.Errorf("SquareID(%v,%v,%v) = %s, want %s", tc.x, tc.y, tc.size, got, tc.want)
		}
	}
}
