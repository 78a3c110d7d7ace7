package source

import (
	"context"
	"fmt"

	"mgrsgrid/internal/model"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const importBatchSize = 500

// ReadPostgres loads every stored source square ordered by zone and id.
func ReadPostgres(ctx context.Context, db *gorm.DB) ([]model.SourceCell, error) {
	var rows []model.SQIDSourcePG
	if err := db.WithContext(ctx).Order("gzd, sqid").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query sqid sources: %w", err)
	}

	cells := make([]model.SourceCell, 0, len(rows))
	for _, row := range rows {
		c, err := cellFromRow(row)
		if err != nil {
			log.Warnf("sqid source %d: %v", row.ID, err)
			continue
		}
		cells = append(cells, c)
	}
	return cells, nil
}

// SavePostgres stores source squares, replacing nothing.
func SavePostgres(ctx context.Context, db *gorm.DB, cells []model.SourceCell) error {
	rows := make([]model.SQIDSourcePG, 0, len(cells))
	for _, c := range cells {
		row, err := rowFromCell(c)
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}
	if err := db.WithContext(ctx).CreateInBatches(rows, importBatchSize).Error; err != nil {
		return fmt.Errorf("insert sqid sources: %w", err)
	}
	return nil
}

func cellFromRow(row model.SQIDSourcePG) (model.SourceCell, error) {
	g, err := geojson.UnmarshalGeometry([]byte(row.Geometry))
	if err != nil {
		return model.SourceCell{}, fmt.Errorf("decode geometry: %w", err)
	}
	ring := OuterRing(g.Geometry())
	if len(ring) == 0 {
		return model.SourceCell{}, fmt.Errorf("%s%s: geometry is %s, want polygon", row.GZD, row.SQID, g.Geometry().GeoJSONType())
	}
	return model.SourceCell{
		GZD:      model.PadZoneID(row.GZD),
		SQID:     row.SQID,
		Easting:  row.Easting,
		Northing: row.Northing,
		Boundary: orb.LineString(ring),
	}, nil
}

func rowFromCell(c model.SourceCell) (model.SQIDSourcePG, error) {
	b, err := geojson.NewGeometry(orb.Polygon{orb.Ring(c.Boundary)}).MarshalJSON()
	if err != nil {
		return model.SQIDSourcePG{}, fmt.Errorf("encode %s%s: %w", c.GZD, c.SQID, err)
	}
	return model.SQIDSourcePG{
		GZD:      c.GZD,
		SQID:     c.SQID,
		Easting:  c.Easting,
		Northing: c.Northing,
		Geometry: string(b),
	}, nil
}
