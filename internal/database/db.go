package database

import (
	"errors"
	"log"
	"time"

	"khata-pos/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrNoDSN means the archive is not configured.
var ErrNoDSN = errors.New("DB_DSN not set")

// Connect opens the archive database. The shop runs fine without one, so
// failure is returned rather than fatal.
func Connect(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, ErrNoDSN
	}

	var db *gorm.DB
	var err error

	// 1. Connect with GORM (Wait for DB to be ready)
	for i := 0; i < 5; i++ {
		db, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
		if err == nil {
			break
		}
		log.Printf("Failed to connect to database. Retrying in 2 seconds... (%d/5)", i+1)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, err
	}
	log.Println("✅ Successfully connected to MySQL!")

	// 2. Auto-Migrate
	if err := Migrate(db); err != nil {
		return nil, err
	}
	log.Println("✅ Archive Schema Synced!")
	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.BackupRecord{})
}
