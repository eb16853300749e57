package infra

import (
	"fmt"

	"stocktrail/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens the local SQLite state file and migrates the schema.
// The database lives next to the process — this service must keep working
// with no network at all, so there is no external DB server involved.
func NewDatabase(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path+"?_busy_timeout=5000&_journal_mode=WAL"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	// Single writer: the domain stores serialize mutations themselves and
	// SQLite locks the file per write anyway.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&model.InventoryItem{},
		&model.ActivityEntry{},
		&model.LowStockAlert{},
		&model.User{},
		&model.Setting{},
	); err != nil {
		return nil, fmt.Errorf("automigrate: %w", err)
	}

	return db, nil
}
