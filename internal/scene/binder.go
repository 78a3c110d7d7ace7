// Package scene turns finished grid geometry into renderable output.
package scene

import (
	"mgrsgrid/internal/style"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Renderable is an opaque drawable produced by a Binder.
type Renderable interface{}

// Binder binds geometry and labels to a rendering backend.
type Binder interface {
	Geometry(g orb.Geometry, st *style.Style, level string) Renderable
	Text(text string, anchor orb.Point, st *style.Style, level string) Renderable
}

// GeoJSONBinder renders to GeoJSON features with simplestyle-like
// properties.
type GeoJSONBinder struct{}

func (GeoJSONBinder) Geometry(g orb.Geometry, st *style.Style, level string) Renderable {
	f := geojson.NewFeature(g)
	f.Properties["type"] = "line"
	f.Properties["level"] = level
	if st != nil && st.Line != nil {
		f.Properties["stroke"] = st.Line.Color.Hex()
		f.Properties["stroke-width"] = st.Line.Width
	}
	return f
}

func (GeoJSONBinder) Text(text string, anchor orb.Point, st *style.Style, level string) Renderable {
	f := geojson.NewFeature(anchor)
	f.Properties["type"] = "text"
	f.Properties["level"] = level
	f.Properties["text"] = text
	if st != nil && st.Text != nil {
		f.Properties["fill"] = st.Text.Fill.Hex()
		f.Properties["halo"] = st.Text.Halo.Hex()
		f.Properties["size"] = st.Text.Size
		f.Properties["alignment"] = st.Text.Alignment.String()
	}
	return f
}

// Collect gathers the GeoJSON features among rs into a collection.
func Collect(rs []Renderable) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, r := range rs {
		if f, ok := r.(*geojson.Feature); ok {
			fc.Append(f)
		}
	}
	return fc
}
