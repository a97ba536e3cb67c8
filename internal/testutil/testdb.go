package testutil

import (
	"deen-companion-api/internal/database"
	"deen-companion-api/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewInMemoryDB creates an in-memory SQLite DB, runs migrations and seeds
// the overlay content defaults.
func NewInMemoryDB() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&models.UserProfile{}, &models.OverlayContent{}); err != nil {
		return nil, err
	}
	if err := database.SeedOverlayContent(db); err != nil {
		return nil, err
	}
	return db, nil
}
