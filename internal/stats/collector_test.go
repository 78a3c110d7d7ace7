package stats

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollectorCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}

	c.ObserveVisit("gzd_geom")
	c.ObserveVisit("gzd_geom")
	c.ObserveVisit("unknown")
	c.ObserveExpansion("geom_grid", 3*time.Millisecond)
	c.ObserveCollapse("geom_grid")

	if got := testutil.ToFloat64(c.Visits["gzd_geom"]); got != 2 {
		t.Errorf("gzd_geom visits = %v", got)
	}
	if got := testutil.ToFloat64(c.Expansions.WithLabelValues("geom_grid")); got != 1 {
		t.Errorf("expansions = %v", got)
	}
	if got := testutil.ToFloat64(c.Collapses.WithLabelValues("geom_grid")); got != 1 {
		t.Errorf("collapses = %v", got)
	}

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "mgrs_gzd_geom_total 2") {
		t.Errorf("metrics output missing counter:\n%s", body)
	}
}

func TestCollectorReusesRegistered(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewCollector(reg)
	if err != nil {
		t.Fatal(err)
	}
	second, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("second NewCollector: %v", err)
	}
	second.ObserveVisit("sqid_text")
	if got := testutil.ToFloat64(first.Visits["sqid_text"]); got != 1 {
		t.Errorf("collectors should share counters, got %v", got)
	}
}

func TestNilCollector(t *testing.T) {
	var c *Collector
	c.ObserveVisit("gzd_geom")
	c.ObserveExpansion("gzd_geom", time.Second)
	c.ObserveCollapse("gzd_geom")
}

func TestFrame(t *testing.T) {
	f := Frame{}
	f.Add("gzd_text")
	f.Add("gzd_geom")
	f.Add("gzd_geom")
	if f.Total() != 3 {
		t.Errorf("Total = %d", f.Total())
	}
	if got := f.String(); got != "gzd_geom=2 gzd_text=1" {
		t.Errorf("String = %q", got)
	}
}
