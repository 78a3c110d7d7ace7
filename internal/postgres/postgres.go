package postgres

import (
	"time"

	"mgrsgrid/internal/model"

	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB holds the global database connection
var DB *gorm.DB

// Init initializes the database connection and sets the global DB variable
func Init(url string) *gorm.DB {
	gormLogger := logger.New(
		log.StandardLogger(),
		logger.Config{
			SlowThreshold: time.Millisecond * 500,
			LogLevel:      logger.Warn,
		},
	)

	db, err := gorm.Open(postgres.Open(url), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		log.Fatalln(err)
	}

	// AutoMigrate models
	err = db.AutoMigrate(&model.SQIDSourcePG{})
	if err != nil {
		log.Fatalln("Failed to migrate SQID source model:", err)
	}

	DB = db
	return db
}

// GetDB returns the global database connection
func GetDB() *gorm.DB {
	return DB
}

// Close releases the underlying connection pool
func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	log.Println("Closing Postgres connection...")
	return sqlDB.Close()
}
