package zone

import (
	"context"
	"testing"

	"mgrsgrid/internal/gzd"

	"github.com/paulmach/orb"
)

func newService(t *testing.T) *ZoneService {
	t.Helper()
	s := NewZoneService()
	if err := s.InitService(context.Background(), gzd.BuildZoneTable()); err != nil {
		t.Fatalf("InitService: %v", err)
	}
	return s
}

func TestGetZoneAtPoint(t *testing.T) {
	s := newService(t)

	cases := []struct {
		lat, lng float64
		want     string
	}{
		{52.5, 4.9, "31U"},
		{60.4, 5.3, "32V"},
		{78.2, 15.6, "33X"},
		{40.7, -74.0, "18T"},
		{-33.9, 18.4, "34H"},
		{88, 10, "01Z"},
		{-85, -100, "01A"},
		{56, 6, "32V"},
	}
	for _, tc := range cases {
		z, ok := s.GetZoneAtPoint(tc.lat, tc.lng)
		if !ok || z.ID != tc.want {
			t.Errorf("(%v, %v) = %q,%v want %s", tc.lat, tc.lng, z.ID, ok, tc.want)
		}
	}
}

func TestGetZonesInBounds(t *testing.T) {
	s := newService(t)

	// A view over the Netherlands spans two zones and two rows.
	zones := s.GetZonesInBounds(orb.Bound{Min: orb.Point{4.5, 51.5}, Max: orb.Point{7.5, 52.5}})
	var ids []string
	for _, z := range zones {
		ids = append(ids, z.ID)
	}
	if len(ids) != 2 || ids[0] != "31U" || ids[1] != "32U" {
		t.Errorf("zones = %v", ids)
	}

	if got := len(s.GetZonesInBounds(orb.Bound{Min: orb.Point{-180, -90}, Max: orb.Point{180, 90}})); got != len(s.IDs()) {
		t.Errorf("world query returned %d of %d zones", got, len(s.IDs()))
	}

	if _, ok := s.Get("32X"); ok {
		t.Error("32X should not be indexed")
	}
}

func TestUninitialized(t *testing.T) {
	if got := NewZoneService().GetZonesInBounds(orb.Bound{Max: orb.Point{1, 1}}); got != nil {
		t.Errorf("uninitialized service returned %v", got)
	}
}
