package graticule

import (
	"mgrsgrid/internal/util"

	"github.com/paulmach/orb"
)

// Viewport is a geographic view rendered at a fixed ground resolution.
type Viewport struct {
	View           orb.Bound
	MetersPerPixel float64
}

func (v Viewport) Visible(b orb.Bound) bool {
	return v.View.Intersects(b)
}

// PixelSize is the on-screen length of the bound diagonal.
func (v Viewport) PixelSize(b orb.Bound) float64 {
	if v.MetersPerPixel <= 0 {
		return 0
	}
	return util.BoundDiagonal(b) / v.MetersPerPixel
}

// ScreenPixels is the on-screen length of the view diagonal.
func (v Viewport) ScreenPixels() float64 {
	return v.PixelSize(v.View)
}

// Clamp coarsens the resolution so the view spans at most maxPixels.
func (v Viewport) Clamp(maxPixels float64) Viewport {
	if maxPixels <= 0 || v.ScreenPixels() <= maxPixels {
		return v
	}
	v.MetersPerPixel = util.BoundDiagonal(v.View) / maxPixels
	return v
}
