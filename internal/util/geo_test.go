package util

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
)

func TestGreatCircleEndpointsExact(t *testing.T) {
	a, b := orb.Point{-180, 84}, orb.Point{-180, 90}
	if got := GreatCircle(a, b, 0); got != a {
		t.Errorf("f=0: got %v, want %v", got, a)
	}
	if got := GreatCircle(a, b, 1); got != b {
		t.Errorf("f=1: got %v, want %v", got, b)
	}
}

func TestGreatCircleStaysOnAntimeridian(t *testing.T) {
	ls := Tessellate(orb.Point{-180, -80}, orb.Point{-180, -72}, 20, GreatCircle)
	for i, p := range ls {
		if math.Abs(p[0]+180) > 1e-9 {
			t.Fatalf("point %d wrapped to lon %v", i, p[0])
		}
	}
}

func TestRhumbAlongParallel(t *testing.T) {
	p := Rhumb(orb.Point{0, 90}, orb.Point{180, 90}, 0.25)
	if p != (orb.Point{45, 90}) {
		t.Errorf("got %v, want [45 90]", p)
	}

	q := Rhumb(orb.Point{10, 20}, orb.Point{20, 40}, 0.5)
	if q[0] != 15 {
		t.Errorf("rhumb longitude should be linear, got %v", q[0])
	}
	// Mercator midpoint sits poleward of the arithmetic mean.
	if q[1] <= 30 || q[1] >= 40 {
		t.Errorf("unexpected rhumb latitude %v", q[1])
	}
}

func TestTessellateCount(t *testing.T) {
	ls := Tessellate(orb.Point{0, 0}, orb.Point{6, 0}, 20, Rhumb)
	if len(ls) != 21 {
		t.Fatalf("got %d points, want 21", len(ls))
	}
	if ls[0] != (orb.Point{0, 0}) || ls[20] != (orb.Point{6, 0}) {
		t.Errorf("endpoints not preserved: %v %v", ls[0], ls[20])
	}
}

func TestHaversineDistance(t *testing.T) {
	// One degree of latitude on the sphere.
	d := HaversineDistance(0, 0, 1, 0)
	if math.Abs(d-111194.9) > 1 {
		t.Errorf("got %v", d)
	}
}

func TestUTMCentralMeridian(t *testing.T) {
	p := UTM{Zone: 31, North: true}.Forward(orb.Point{3, 0})
	if math.Abs(p[0]-500000) > 1e-3 || math.Abs(p[1]) > 1e-3 {
		t.Errorf("got %v, want [500000 0]", p)
	}

	s := UTM{Zone: 31, North: false}.Forward(orb.Point{3, 0})
	if math.Abs(s[1]-10000000) > 1e-3 {
		t.Errorf("southern false northing missing: %v", s)
	}
}

func TestUTMKnownPoint(t *testing.T) {
	// 52N on the zone 32 central meridian: scaled meridian arc.
	p := UTM{Zone: 32, North: true}.Forward(orb.Point{9, 52})
	if math.Abs(p[0]-500000) > 0.01 || math.Abs(p[1]-5761038.21) > 0.01 {
		t.Errorf("got %v, want [500000 5761038.21]", p)
	}

	q := UTM{Zone: 32, North: true}.Forward(orb.Point{12, 52})
	if q[0] <= 700000 || q[0] >= 710000 {
		t.Errorf("easting 3 degrees off the meridian = %v", q[0])
	}
}

func TestUTMRoundTrip(t *testing.T) {
	cases := []struct {
		proj UTM
		p    orb.Point
	}{
		{UTM{Zone: 32, North: true}, orb.Point{9.5, 60.25}},
		{UTM{Zone: 33, North: false}, orb.Point{13.1, -33.9}},
		{UTM{Zone: 18, North: true}, orb.Point{-74.0, 40.7}},
		{UTM{Zone: 31, North: true}, orb.Point{0.2, 79.9}},
	}
	for _, tc := range cases {
		got := tc.proj.Inverse(tc.proj.Forward(tc.p))
		if math.Abs(got[0]-tc.p[0]) > 1e-6 || math.Abs(got[1]-tc.p[1]) > 1e-6 {
			t.Errorf("%s: round trip %v -> %v", tc.proj, tc.p, got)
		}
	}
}

func TestUPSRoundTrip(t *testing.T) {
	for _, north := range []bool{true, false} {
		proj := UPS{North: north}
		lat := 86.5
		if !north {
			lat = -83.25
		}
		p := orb.Point{-120.5, lat}
		got := proj.Inverse(proj.Forward(p))
		if math.Abs(got[0]-p[0]) > 1e-6 || math.Abs(got[1]-p[1]) > 1e-6 {
			t.Errorf("%s: round trip %v -> %v", proj, p, got)
		}
	}

	pole := UPS{North: true}.Forward(orb.Point{0, 90})
	if math.Abs(pole[0]-upsFalse) > 1e-6 || math.Abs(pole[1]-upsFalse) > 1e-6 {
		t.Errorf("pole should project to false origin, got %v", pole)
	}
}

func TestProjectionAtExceptions(t *testing.T) {
	cases := []struct {
		lon, lat float64
		want     string
	}{
		{4, 60, "UTM 32N"},
		{2, 60, "UTM 31N"},
		{8, 75, "UTM 31N"},
		{10, 75, "UTM 33N"},
		{-70, -30, "UTM 19S"},
		{10, 85, "UPS N"},
		{10, -85, "UPS S"},
	}
	for _, tc := range cases {
		if got := ProjectionAt(tc.lon, tc.lat).String(); got != tc.want {
			t.Errorf("ProjectionAt(%v, %v) = %s, want %s", tc.lon, tc.lat, got, tc.want)
		}
	}
}

func TestZoneProjection(t *testing.T) {
	cases := map[string]string{
		"32V": "UTM 32N",
		"04Q": "UTM 4N",
		"19H": "UTM 19S",
		"01Z": "UPS N",
		"01A": "UPS S",
	}
	for gzd, want := range cases {
		p, err := ZoneProjection(gzd)
		if err != nil {
			t.Fatalf("%s: %v", gzd, err)
		}
		if p.String() != want {
			t.Errorf("%s: got %s, want %s", gzd, p, want)
		}
	}

	for _, bad := range []string{"", "X", "61C", "32I", "ABC"} {
		if _, err := ZoneProjection(bad); err == nil {
			t.Errorf("%q: expected error", bad)
		}
	}
}
