// Command gzd-export writes the grid zone outlines as a GeoJSON
// FeatureCollection.
package main

import (
	"flag"
	"os"

	"mgrsgrid/internal/gzd"

	"github.com/paulmach/orb/geojson"
	log "github.com/sirupsen/logrus"
)

func main() {
	out := flag.String("out", "gzd.geojson", "output file")
	flag.Parse()

	features := gzd.ZoneFeatures(gzd.BuildZoneTable())

	fc := geojson.NewFeatureCollection()
	for _, f := range features {
		gf := geojson.NewFeature(f.Geometry)
		gf.ID = f.ID
		gf.Properties["gzd"] = f.GZD
		fc.Append(gf)
	}

	data, err := fc.MarshalJSON()
	if err != nil {
		log.Fatalf("Failed to encode zones: %v", err)
	}
	if err := os.WriteFile(*out, data, 0644); err != nil {
		log.Fatalf("Failed to write %s: %v", *out, err)
	}
	log.Printf("Exported %d zones to %s", len(features), *out)
}
