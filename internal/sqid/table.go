package sqid

import (
	"fmt"
	"os"
	"sort"
	"time"

	"mgrsgrid/internal/model"
	"mgrsgrid/internal/service/storage"

	log "github.com/sirupsen/logrus"
)

// Table groups dataset cells by grid zone.
type Table struct {
	buckets storage.Storage[string, []model.SQIDCell]
}

// BucketByZone groups cells by their zone code, preserving file order
// within a zone.
func BucketByZone(cells []model.SQIDCell) *Table {
	t := &Table{buckets: storage.NewMemoryStorage[string, []model.SQIDCell]()}
	for _, c := range cells {
		c := c
		t.buckets.Update(c.GZD, func(old []model.SQIDCell, _ bool) []model.SQIDCell {
			return append(old, c)
		})
	}
	return t
}

// Cells returns the squares of one zone.
func (t *Table) Cells(gzd string) []model.SQIDCell {
	cells, _ := t.buckets.Get(gzd)
	return cells
}

// Zones returns the zone codes present, sorted.
func (t *Table) Zones() []string {
	zones := t.buckets.Keys()
	sort.Strings(zones)
	return zones
}

// Count returns the total number of cells.
func (t *Table) Count() int {
	n := 0
	t.buckets.ForEach(func(_ string, cells []model.SQIDCell) bool {
		n += len(cells)
		return true
	})
	return n
}

// LoadFile reads and decodes a dataset file.
func LoadFile(path string) ([]model.SQIDCell, error) {
	start := time.Now()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sqid data: %w", err)
	}
	defer f.Close()

	cells, err := ReadCells(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	log.Printf("Loaded %d SQID cells from %s in %v", len(cells), path, time.Since(start))
	return cells, nil
}
