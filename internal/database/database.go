package database

import (
	"log"

	"deen-companion-api/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// defaultOverlays is the fallback overlay text, also used to seed the
// app_content table so a fresh database serves sensible content.
var defaultOverlays = []models.OverlayContent{
	{Prayer: "fajr", En: "The two rak'ahs of Fajr are better than this world and all it contains.", Ar: "ركعتا الفجر خير من الدنيا وما فيها"},
	{Prayer: "dhuhr", En: "Pause from the middle of your day and stand before your Lord.", Ar: "توقف في منتصف يومك وقف بين يدي ربك"},
	{Prayer: "asr", En: "Whoever prays the two cool prayers, Fajr and Asr, will enter Paradise.", Ar: "من صلى البردين دخل الجنة"},
	{Prayer: "maghrib", En: "As the day closes, return to remembrance and gratitude.", Ar: "مع نهاية اليوم عد إلى الذكر والشكر"},
	{Prayer: "isha", En: "End your day as you began it, in prayer.", Ar: "اختم يومك كما بدأته بالصلاة"},
}

// InitDB opens the SQLite database, runs migrations and seeds the overlay
// content defaults.
func InitDB(path string) {
	var err error

	// glebarez/sqlite is a pure Go driver, no CGO required.
	DB, err = gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	err = DB.AutoMigrate(
		&models.UserProfile{},
		&models.OverlayContent{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database: ", err)
	}

	if err := SeedOverlayContent(DB); err != nil {
		log.Fatal("Failed to seed overlay content: ", err)
	}

	log.Println("Database connected and migrated")
}

// SeedOverlayContent inserts the default overlay rows, leaving any rows
// already present (possibly edited out of band) untouched.
func SeedOverlayContent(db *gorm.DB) error {
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&defaultOverlays).Error
}

// DefaultOverlay returns the hardcoded fallback for a prayer, used when the
// database row is absent or the read fails.
func DefaultOverlay(prayer string) (models.OverlayContent, bool) {
	for _, o := range defaultOverlays {
		if o.Prayer == prayer {
			return o, true
		}
	}
	return models.OverlayContent{}, false
}

// GetDB returns the database connection.
func GetDB() *gorm.DB {
	return DB
}
