package handlers

import (
	"log"
	"net/http"

	"deen-companion-api/internal/database"
	"deen-companion-api/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var prayers = map[string]bool{
	"fajr":    true,
	"dhuhr":   true,
	"asr":     true,
	"maghrib": true,
	"isha":    true,
}

// ContentHandler serves the per-prayer overlay text from app_content,
// falling back to the hardcoded defaults when the row is absent or the
// read fails. The surface is read-only.
type ContentHandler struct {
	db *gorm.DB
}

func NewContentHandler(db *gorm.DB) *ContentHandler {
	return &ContentHandler{db: db}
}

// Overlay handles GET /api/content/:prayer
func (h *ContentHandler) Overlay(c *gin.Context) {
	prayer := c.Param("prayer")
	if !prayers[prayer] {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid prayer",
			"details": "prayer must be one of fajr, dhuhr, asr, maghrib, isha",
		})
		return
	}

	var content models.OverlayContent
	err := h.db.First(&content, "prayer = ?", prayer).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			log.Printf("overlay content read failed for %s: %v", prayer, err)
		}
		fallback, ok := database.DefaultOverlay(prayer)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Content not found"})
			return
		}
		c.JSON(http.StatusOK, fallback)
		return
	}

	c.JSON(http.StatusOK, content)
}
