// Command sqid-writer converts authoritative 100 km square polygons into
// the binary SQID dataset read by the grid server.
package main

import (
	"bufio"
	"context"
	"flag"
	"os"
	"time"

	"mgrsgrid/internal/model"
	"mgrsgrid/internal/postgres"
	"mgrsgrid/internal/sqid"
	"mgrsgrid/internal/sqid/source"

	log "github.com/sirupsen/logrus"
)

func main() {
	src := flag.String("source", "geojson", "source driver: geojson or postgres")
	in := flag.String("in", "", "input GeoJSON file (geojson source, or -import)")
	out := flag.String("out", "mgrs_sqid.bin", "output dataset file")
	dbURL := flag.String("db", os.Getenv("DB_URL"), "PostgreSQL connection URL")
	importOnly := flag.Bool("import", false, "load -in into PostgreSQL instead of writing a dataset")
	flag.Parse()

	ctx := context.Background()
	start := time.Now()

	if *importOnly {
		if *in == "" || *dbURL == "" {
			log.Fatal("-import needs -in and -db")
		}
		cells, err := source.ReadGeoJSON(*in)
		if err != nil {
			log.Fatalf("Failed to read source: %v", err)
		}
		db := postgres.Init(*dbURL)
		defer postgres.Close()
		if err := source.SavePostgres(ctx, db, cells); err != nil {
			log.Fatalf("Import failed: %v", err)
		}
		log.Printf("Imported %d squares into PostgreSQL in %v", len(cells), time.Since(start))
		return
	}

	var (
		cells []model.SourceCell
		err   error
	)
	switch *src {
	case "geojson":
		if *in == "" {
			log.Fatal("-in is required for the geojson source")
		}
		cells, err = source.ReadGeoJSON(*in)
	case "postgres":
		if *dbURL == "" {
			log.Fatal("-db is required for the postgres source")
		}
		db := postgres.Init(*dbURL)
		defer postgres.Close()
		cells, err = source.ReadPostgres(ctx, db)
	default:
		log.Fatalf("Unknown source %q", *src)
	}
	if err != nil {
		log.Fatalf("Failed to read source: %v", err)
	}
	log.Printf("Read %d squares from %s source", len(cells), *src)

	f, err := os.Create(*out)
	if err != nil {
		log.Fatalf("Failed to create %s: %v", *out, err)
	}
	w := bufio.NewWriter(f)
	if err := sqid.WriteCells(w, cells); err != nil {
		log.Fatalf("Failed to write dataset: %v", err)
	}
	if err := w.Flush(); err != nil {
		log.Fatalf("Failed to flush dataset: %v", err)
	}
	if err := f.Close(); err != nil {
		log.Fatalf("Failed to close dataset: %v", err)
	}

	log.Printf("Wrote %s in %v", *out, time.Since(start))
}
