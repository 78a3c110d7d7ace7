package routes

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"mgrsgrid/internal/config"
	"mgrsgrid/internal/graticule"
	"mgrsgrid/internal/gzd"
	"mgrsgrid/internal/model"
	"mgrsgrid/internal/scene"

	"github.com/gin-gonic/gin"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	log "github.com/sirupsen/logrus"
)

const geoJSONContentType = "application/geo+json"

// GridHandlers serves the graticule over HTTP.
type GridHandlers struct {
	Graticule *graticule.Graticule
	Cache     Cache
	TTL       time.Duration
}

// SetupGridHandlers registers the grid endpoints
func SetupGridHandlers(router *gin.RouterGroup, h *GridHandlers) {
	router.GET("/gzd", h.ListZones)
	router.GET("/gzd/:id", h.GetZone)
	router.GET("/zone", h.ZoneAt)
	router.GET("/grid", h.Grid)
	router.POST("/rebuild", h.Rebuild)
}

// ListZones returns every zone identifier
func (h *GridHandlers) ListZones(c *gin.Context) {
	ids := h.Graticule.Zones().IDs()
	c.JSON(http.StatusOK, gin.H{
		"count": len(ids),
		"zones": ids,
	})
}

// GetZone returns the tessellated outline of one zone
func (h *GridHandlers) GetZone(c *gin.Context) {
	z, ok := h.Graticule.Zones().Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "zone not found"})
		return
	}
	c.Data(http.StatusOK, geoJSONContentType, mustJSON(zoneFeature(z)))
}

// ZoneAt returns the zone containing lat/lng
func (h *GridHandlers) ZoneAt(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lng are required"})
		return
	}
	z, ok := h.Graticule.Zones().GetZoneAtPoint(lat, lng)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no zone at point"})
		return
	}
	c.Data(http.StatusOK, geoJSONContentType, mustJSON(zoneFeature(z)))
}

// Grid returns the grid lines and labels visible in bbox at mpp meters per pixel
func (h *GridHandlers) Grid(c *gin.Context) {
	view, err := parseBBox(c.Query("bbox"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	mpp, err := strconv.ParseFloat(c.DefaultQuery("mpp", "1000"), 64)
	if err != nil || mpp <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mpp must be a positive number"})
		return
	}
	vp := graticule.Viewport{View: view, MetersPerPixel: mpp}
	if px := vp.ScreenPixels(); px > config.MaxViewPixels {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("view spans %.0f px at %v m/px, limit is %v", px, mpp, config.MaxViewPixels)})
		return
	}

	ctx := c.Request.Context()
	key := ""
	if h.Cache != nil && !h.Graticule.IsDirty() {
		key = fmt.Sprintf("grid/%s/%s/%s", h.Graticule.Generation(), c.Query("bbox"), strconv.FormatFloat(mpp, 'f', -1, 64))
		if data, err := h.Cache.Get(ctx, key); err == nil {
			c.Header("X-Cache", "HIT")
			c.Data(http.StatusOK, geoJSONContentType, data)
			return
		}
	}

	out, frame, err := h.Graticule.Cull(ctx, vp)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, graticule.ErrProjectedMap) {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	data := mustJSON(scene.Collect(out))
	if key != "" {
		if err := h.Cache.Set(ctx, key, data, h.TTL); err != nil {
			log.Warnf("Failed to cache %s: %v", key, err)
		}
	}
	c.Header("X-Cache", "MISS")
	c.Header("X-Grid-Frame", frame.String())
	c.Data(http.StatusOK, geoJSONContentType, data)
}

// Rebuild rebuilds the graticule from its dataset
func (h *GridHandlers) Rebuild(c *gin.Context) {
	log.Println("Grid rebuild endpoint called")
	if err := h.Graticule.Rebuild(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":     "success",
		"generation": h.Graticule.Generation(),
	})
}

func zoneFeature(z model.ZoneExtent) *geojson.Feature {
	f := geojson.NewFeature(gzd.Boundary(z.Bound, config.EdgeTessellation))
	f.ID = z.ID
	f.Properties["id"] = z.ID
	f.Properties["west"] = z.West()
	f.Properties["south"] = z.South()
	f.Properties["east"] = z.East()
	f.Properties["north"] = z.North()
	return f
}

// parseBBox reads "west,south,east,north" in degrees.
func parseBBox(s string) (orb.Bound, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return orb.Bound{}, errors.New("bbox must be west,south,east,north")
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return orb.Bound{}, fmt.Errorf("bbox: %w", err)
		}
		v[i] = f
	}
	if v[0] > v[2] || v[1] > v[3] || v[1] < -90 || v[3] > 90 {
		return orb.Bound{}, errors.New("bbox is out of range")
	}
	return orb.Bound{Min: orb.Point{v[0], v[1]}, Max: orb.Point{v[2], v[3]}}, nil
}

func mustJSON(v interface{}) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		log.Errorf("Failed to encode response: %v", err)
		return []byte("{}")
	}
	return b
}
