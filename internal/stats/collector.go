// Package stats counts grid tree activity for diagnostics.
package stats

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Levels that get a dedicated visit counter, and the metric each maps to.
var visitMetrics = map[string]string{
	"gzd_geom":  "mgrs_gzd_geom_total",
	"gzd_text":  "mgrs_gzd_text_total",
	"sqid_grid": "mgrs_sqid_grid_total",
	"sqid_text": "mgrs_sqid_text_total",
	"geom_grid": "mgrs_geom_grid_total",
}

// Collector bundles the Prometheus metrics of the grid tree.
type Collector struct {
	gatherer prometheus.Gatherer

	Visits         map[string]prometheus.Counter
	Expansions     *prometheus.CounterVec
	Collapses      *prometheus.CounterVec
	ExpandDuration *prometheus.HistogramVec
	Cells          prometheus.Gauge
	Rebuilds       prometheus.Counter
}

// NewCollector registers the metrics against reg, defaulting to the
// global registry when nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	c := &Collector{gatherer: gatherer, Visits: make(map[string]prometheus.Counter, len(visitMetrics))}

	for level, name := range visitMetrics {
		counter, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
			Name: name,
			Help: fmt.Sprintf("Number of %s nodes visited for drawing.", strings.ReplaceAll(level, "_", " ")),
		}), name)
		if err != nil {
			return nil, err
		}
		c.Visits[level] = counter
	}

	var err error
	c.Expansions, err = registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mgrs_node_expansions_total",
		Help: "Number of grid node expansions, labeled by level.",
	}, []string{"level"}), "mgrs_node_expansions_total")
	if err != nil {
		return nil, err
	}

	c.Collapses, err = registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mgrs_node_collapses_total",
		Help: "Number of grid node collapses, labeled by level.",
	}, []string{"level"}), "mgrs_node_collapses_total")
	if err != nil {
		return nil, err
	}

	c.ExpandDuration, err = registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mgrs_expand_duration_seconds",
		Help:    "Time spent building the children of a node.",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"level"}), "mgrs_expand_duration_seconds")
	if err != nil {
		return nil, err
	}

	c.Cells, err = registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "mgrs_sqid_cells",
		Help: "Number of 100 km squares loaded from the dataset.",
	}), "mgrs_sqid_cells")
	if err != nil {
		return nil, err
	}

	c.Rebuilds, err = registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mgrs_rebuilds_total",
		Help: "Number of whole-tree rebuilds.",
	}), "mgrs_rebuilds_total")
	if err != nil {
		return nil, err
	}

	return c, nil
}

// ObserveVisit counts one node drawn at level.
func (c *Collector) ObserveVisit(level string) {
	if c == nil {
		return
	}
	if counter, ok := c.Visits[level]; ok {
		counter.Inc()
	}
}

// ObserveExpansion records one node expansion.
func (c *Collector) ObserveExpansion(level string, d time.Duration) {
	if c == nil {
		return
	}
	c.Expansions.WithLabelValues(level).Inc()
	c.ExpandDuration.WithLabelValues(level).Observe(d.Seconds())
}

// ObserveCollapse records one node collapse.
func (c *Collector) ObserveCollapse(level string) {
	if c == nil {
		return
	}
	c.Collapses.WithLabelValues(level).Inc()
}

// Handler exposes the registered metrics.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}

// Frame counts the nodes visited by one traversal, per level.
type Frame map[string]int

func (f Frame) Add(level string) { f[level]++ }

func (f Frame) Total() int {
	n := 0
	for _, v := range f {
		n += v
	}
	return n
}

func (f Frame) String() string {
	levels := make([]string, 0, len(f))
	for l := range f {
		levels = append(levels, l)
	}
	sort.Strings(levels)
	parts := make([]string, 0, len(levels))
	for _, l := range levels {
		parts = append(parts, fmt.Sprintf("%s=%d", l, f[l]))
	}
	return strings.Join(parts, " ")
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
