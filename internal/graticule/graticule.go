// Package graticule assembles the per-zone paging trees into one MGRS
// grid that can be culled against a view.
package graticule

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"mgrsgrid/internal/config"
	"mgrsgrid/internal/grid"
	"mgrsgrid/internal/gzd"
	"mgrsgrid/internal/model"
	"mgrsgrid/internal/paging"
	"mgrsgrid/internal/scene"
	"mgrsgrid/internal/service/zone"
	"mgrsgrid/internal/sqid"
	"mgrsgrid/internal/stats"
	"mgrsgrid/internal/style"
	"mgrsgrid/internal/util"

	log "github.com/sirupsen/logrus"
)

// Map modes.
const (
	MapModeGeocentric = "geocentric"
	MapModeProjected  = "projected"
)

// ErrProjectedMap is returned by Rebuild when the map is not geocentric.
var ErrProjectedMap = errors.New("mgrs graticule requires a geocentric map")

// Loader reads the 100 km square dataset.
type Loader func(path string) ([]model.SQIDCell, error)

type Options struct {
	SQIDData         string
	UseDefaultStyles bool
	// Styles are added after the defaults and replace them by name.
	Styles []style.Style
	// Levels restricts the sheet to these style keys when non-empty.
	Levels  []string
	MapMode string
	Loader  Loader
	// Evict collapses subtrees that fall below their range.
	Evict bool
}

// Graticule owns the zone index and the paging trees of one build.
type Graticule struct {
	opts     Options
	sheet    *style.Sheet
	binder   scene.Binder
	expander paging.Expander
	stats    *stats.Collector
	zones    *zone.ZoneService

	rebuildMu  sync.Mutex
	mu         sync.RWMutex
	tree       *paging.Tree
	roots      map[string][]*paging.Node
	generation string
	dirty      atomic.Bool
}

// New prepares a graticule. Nothing is built until Rebuild is called.
// expander and collector may be nil.
func New(opts Options, binder scene.Binder, expander paging.Expander, collector *stats.Collector) *Graticule {
	if opts.Loader == nil {
		opts.Loader = sqid.LoadFile
	}
	if opts.MapMode == "" {
		opts.MapMode = MapModeGeocentric
	}
	if binder == nil {
		binder = scene.GeoJSONBinder{}
	}
	if expander == nil {
		expander = paging.SerialExpander{}
	}

	sheet := style.NewSheet()
	if opts.UseDefaultStyles {
		sheet.SetUpDefaults()
	}
	for _, st := range opts.Styles {
		sheet.Add(st)
	}
	sheet = sheet.Restrict(opts.Levels)

	g := &Graticule{
		opts:     opts,
		sheet:    sheet,
		binder:   binder,
		expander: expander,
		stats:    collector,
		zones:    zone.NewZoneService(),
		tree:     paging.NewTree(),
	}
	g.dirty.Store(true)
	return g
}

// Rebuild tears the current trees down and builds new ones from the
// dataset and zone table.
func (g *Graticule) Rebuild() error {
	if g.opts.MapMode != MapModeGeocentric {
		log.Warnf("MGRS graticule: map mode %q is not supported, nothing will be drawn", g.opts.MapMode)
		return ErrProjectedMap
	}

	g.rebuildMu.Lock()
	defer g.rebuildMu.Unlock()
	return g.build()
}

// rebuildIfDirty rebuilds once for any number of callers that saw the
// graticule dirty at the same time.
func (g *Graticule) rebuildIfDirty() error {
	if g.opts.MapMode != MapModeGeocentric {
		log.Warnf("MGRS graticule: map mode %q is not supported, nothing will be drawn", g.opts.MapMode)
		return ErrProjectedMap
	}

	g.rebuildMu.Lock()
	defer g.rebuildMu.Unlock()
	if !g.dirty.Load() {
		return nil
	}
	log.Println("MGRS graticule is dirty, rebuilding")
	return g.build()
}

// build must be called with rebuildMu held.
func (g *Graticule) build() error {
	start := time.Now()

	var cells []model.SQIDCell
	if g.opts.SQIDData == "" {
		log.Warn("MGRS graticule: no SQID dataset configured, drawing zones only")
	} else {
		var err error
		cells, err = g.opts.Loader(g.opts.SQIDData)
		if err != nil {
			return fmt.Errorf("load sqid data: %w", err)
		}
	}
	buckets := sqid.BucketByZone(cells)

	table := gzd.BuildZoneTable()
	if err := g.zones.InitService(context.Background(), table); err != nil {
		return err
	}

	b := &grid.Builder{Sheet: g.sheet, Binder: g.binder}
	roots := make(map[string][]*paging.Node, len(table))
	var all []*paging.Node
	for _, id := range gzd.SortedIDs(table) {
		z := table[id]
		zc := buckets.Cells(id)
		nodes := []*paging.Node{b.ZoneNode(z, zc), b.ZoneTextNode(z, zc)}
		roots[id] = nodes
		all = append(all, nodes...)
	}

	g.mu.Lock()
	old := g.tree
	g.tree = paging.NewTree(all...)
	g.roots = roots
	g.generation = util.ShortUUID()
	g.mu.Unlock()
	g.dirty.Store(false)

	if old != nil {
		old.Teardown()
	}

	if g.stats != nil {
		g.stats.Rebuilds.Inc()
		g.stats.Cells.Set(float64(buckets.Count()))
	}
	log.Printf("MGRS graticule built: %d zones, %d squares in %v", len(table), buckets.Count(), time.Since(start))
	return nil
}

// Dirty marks the graticule for a full rebuild on the next cull.
func (g *Graticule) Dirty() {
	g.dirty.Store(true)
}

// IsDirty reports whether a rebuild is pending.
func (g *Graticule) IsDirty() bool {
	return g.dirty.Load()
}

// Generation identifies the current build. It changes on every rebuild.
func (g *Graticule) Generation() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.generation
}

// Sheet returns the style sheet in use.
func (g *Graticule) Sheet() *style.Sheet {
	return g.sheet
}

// MaxResolution is the finest styled grid size in meters.
func (g *Graticule) MaxResolution() float64 {
	return g.sheet.MaxResolution()
}

// Zones returns the zone index.
func (g *Graticule) Zones() *zone.ZoneService {
	return g.zones
}

// NodeCount reports live and expanded nodes across all trees.
func (g *Graticule) NodeCount() (nodes, expanded int) {
	g.mu.RLock()
	tree := g.tree
	g.mu.RUnlock()
	return tree.Count()
}

// Cull traverses the trees of every zone in view and returns what should
// be drawn, along with per-level visit counts.
func (g *Graticule) Cull(ctx context.Context, vp Viewport) ([]scene.Renderable, stats.Frame, error) {
	if g.IsDirty() {
		if err := g.rebuildIfDirty(); err != nil {
			return nil, nil, err
		}
	}
	if px := vp.ScreenPixels(); px > config.MaxViewPixels {
		log.Warnf("Cull of %v at %.2f m/px spans %.0f px, clamping to %v", vp.View, vp.MetersPerPixel, px, config.MaxViewPixels)
		vp = vp.Clamp(config.MaxViewPixels)
	}

	g.mu.RLock()
	var roots []*paging.Node
	for _, z := range g.zones.GetZonesInBounds(vp.View) {
		roots = append(roots, g.roots[z.ID]...)
	}
	g.mu.RUnlock()

	var (
		out   []scene.Renderable
		frame = stats.Frame{}
	)
	tr := paging.Traversal{
		Visibility: vp,
		Expander:   g.expander,
		Evict:      g.opts.Evict,
		Visit: func(n *paging.Node) {
			out = append(out, n.Content()...)
			frame.Add(n.Level())
			g.stats.ObserveVisit(n.Level())
		},
		OnCollapse: func(n *paging.Node) {
			g.stats.ObserveCollapse(n.Level())
		},
	}
	if err := tr.Run(ctx, roots); err != nil {
		return nil, nil, err
	}

	log.Debugf("Cull %v @ %.1f m/px: %s", vp.View, vp.MetersPerPixel, frame)
	return out, frame, nil
}
