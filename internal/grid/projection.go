package grid

import (
	"mgrsgrid/internal/model"
	"mgrsgrid/internal/util"

	"github.com/paulmach/orb"
)

// LocalProjection maps a cell between lon/lat and the planar grid zone
// its easting and northing are measured in.
type LocalProjection struct {
	proj util.Projection
}

// NewLocalProjection uses the zone named by the feature, falling back to
// the zone under the centroid of its bound.
func NewLocalProjection(f model.Feature) LocalProjection {
	if f.GZD != "" {
		if p, err := util.ZoneProjection(f.GZD); err == nil {
			return LocalProjection{proj: p}
		}
	}
	c := f.Bound().Center()
	return LocalProjection{proj: util.ProjectionAt(c[0], c[1])}
}

func (lp LocalProjection) ToGeo(p orb.Point) orb.Point   { return lp.proj.Inverse(p) }
func (lp LocalProjection) ToLocal(p orb.Point) orb.Point { return lp.proj.Forward(p) }
func (lp LocalProjection) String() string               { return lp.proj.String() }
