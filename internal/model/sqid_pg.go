package model

import (
	"time"
)

// SQIDSourcePG model for PostgreSQL storage of 100 km source squares.
// Geometry holds a GeoJSON geometry object.
type SQIDSourcePG struct {
	ID       uint    `gorm:"primaryKey"`
	GZD      string  `gorm:"column:gzd;size:3;not null;index"`
	SQID     string  `gorm:"column:sqid;size:2;not null"`
	Easting  float64 `gorm:"not null"`
	Northing float64 `gorm:"not null"`
	Geometry string  `gorm:"type:text;not null"`

	UpdatedAt time.Time `gorm:"column:updated_at"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

// TableName overrides the table name
func (SQIDSourcePG) TableName() string {
	return "sqid_sources"
}
