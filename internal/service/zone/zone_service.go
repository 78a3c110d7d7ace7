package zone

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"mgrsgrid/internal/model"
	"mgrsgrid/internal/service/storage"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
	log "github.com/sirupsen/logrus"
)

// minRectSide keeps degenerate query rectangles valid for rtreego.
const minRectSide = 1e-9

// ZoneSpatial represents a grid zone with its spatial information for R-tree indexing
type ZoneSpatial struct {
	Zone model.ZoneExtent
}

// Bounds implements the rtreego.Spatial interface
func (z *ZoneSpatial) Bounds() rtreego.Rect {
	return boundToRect(z.Zone.Bound)
}

func boundToRect(b orb.Bound) rtreego.Rect {
	w := max(b.Max[0]-b.Min[0], minRectSide)
	h := max(b.Max[1]-b.Min[1], minRectSide)
	rect, _ := rtreego.NewRect(rtreego.Point{b.Min[0], b.Min[1]}, []float64{w, h})
	return rect
}

// ZoneService indexes grid zone extents for viewport and point queries
type ZoneService struct {
	storage      storage.Storage[string, model.ZoneExtent]
	spatialIndex *rtreego.Rtree // R-tree spatial index
	indexMutex   sync.RWMutex   // Mutex for thread-safe index operations
	initialized  bool
	initMutex    sync.RWMutex
}

// NewZoneService creates an empty service
func NewZoneService() *ZoneService {
	return &ZoneService{
		storage:      storage.NewMemoryStorage[string, model.ZoneExtent](),
		spatialIndex: rtreego.NewTree(2, 25, 50), // 2D index with min 25, max 50 entries per node
	}
}

// InitService loads the zone table and builds the spatial index
func (s *ZoneService) InitService(ctx context.Context, table map[string]model.ZoneExtent) error {
	s.initMutex.Lock()
	defer s.initMutex.Unlock()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("zone service init: %w", err)
	}

	totalStartTime := time.Now()

	s.storage.Clear()
	for id, z := range table {
		s.storage.Set(id, z)
	}

	indexBuildStart := time.Now()
	s.rebuildSpatialIndex()
	log.Printf("Zone index built: %d zones in %v (total %v)",
		s.storage.Count(), time.Since(indexBuildStart), time.Since(totalStartTime))

	s.initialized = true
	return nil
}

// rebuildSpatialIndex rebuilds the spatial index for efficient searching
func (s *ZoneService) rebuildSpatialIndex() {
	s.indexMutex.Lock()
	defer s.indexMutex.Unlock()

	s.spatialIndex = rtreego.NewTree(2, 25, 50)
	s.storage.ForEach(func(id string, z model.ZoneExtent) bool {
		s.spatialIndex.Insert(&ZoneSpatial{Zone: z})
		return true
	})
}

func (s *ZoneService) ready() bool {
	s.initMutex.RLock()
	defer s.initMutex.RUnlock()
	return s.initialized
}

// Get returns a zone by identifier
func (s *ZoneService) Get(id string) (model.ZoneExtent, bool) {
	return s.storage.Get(model.PadZoneID(id))
}

// IDs returns every zone identifier, sorted
func (s *ZoneService) IDs() []string {
	ids := s.storage.Keys()
	sort.Strings(ids)
	return ids
}

// GetZonesInBounds returns all zones that intersect the given bounds, sorted by identifier
func (s *ZoneService) GetZonesInBounds(b orb.Bound) []model.ZoneExtent {
	if !s.ready() {
		return nil
	}

	s.indexMutex.RLock()
	results := s.spatialIndex.SearchIntersect(boundToRect(b))
	s.indexMutex.RUnlock()

	zones := make([]model.ZoneExtent, 0, len(results))
	for _, item := range results {
		z := item.(*ZoneSpatial).Zone
		// rtreego treats touching rectangles as intersecting
		if z.Bound.Intersects(b) {
			zones = append(zones, z)
		}
	}
	sort.Slice(zones, func(i, j int) bool { return zones[i].ID < zones[j].ID })
	return zones
}

// GetZoneAtPoint returns the zone containing the point. Points on a shared
// edge belong to the zone to their east or north.
func (s *ZoneService) GetZoneAtPoint(lat, lng float64) (model.ZoneExtent, bool) {
	p := orb.Point{lng, lat}
	candidates := s.GetZonesInBounds(orb.Bound{Min: p, Max: p})

	var fallback *model.ZoneExtent
	for i, z := range candidates {
		if !z.Bound.Contains(p) {
			continue
		}
		if lng < z.East() && lat < z.North() {
			return z, true
		}
		fallback = &candidates[i]
	}
	if fallback != nil {
		return *fallback, true
	}
	return model.ZoneExtent{}, false
}
