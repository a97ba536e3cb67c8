package handlers

import (
	"net/http"

	"deen-companion-api/internal/models"
	"deen-companion-api/internal/profiles"
	"deen-companion-api/internal/profilesync"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// UpdateProfileRequest carries the updatable general profile fields.
// Pointer fields distinguish "absent" from zero values.
type UpdateProfileRequest struct {
	DisplayName     *string `json:"displayName"`
	PhotoURL        *string `json:"photoURL"`
	PrayerReminders *bool   `json:"prayerReminders"`
	AdhanSound      *bool   `json:"adhanSound"`
}

// UpdateLocationRequest carries the location slice of the profile.
type UpdateLocationRequest struct {
	City      *string  `json:"city"`
	Country   *string  `json:"country"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// UpdateThemeRequest carries a theme change.
type UpdateThemeRequest struct {
	Theme string `json:"theme" binding:"required,oneof=light dark"`
}

// UpdateLanguageRequest carries a language change.
type UpdateLanguageRequest struct {
	Language string `json:"language" binding:"required,oneof=en ar"`
}

// ProfileHandler exposes the user-profile surface. All writes are routed
// through the user's sync service so offline queueing and real-time
// fan-out behave the same for every caller.
type ProfileHandler struct {
	store   *profiles.Store
	manager *profilesync.Manager
}

func NewProfileHandler(store *profiles.Store, manager *profilesync.Manager) *ProfileHandler {
	return &ProfileHandler{store: store, manager: manager}
}

// Get handles GET /api/profile
func (h *ProfileHandler) Get(c *gin.Context) {
	uid := c.GetString("uid")
	profile, err := h.store.Get(c.Request.Context(), uid)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// Update handles PATCH /api/profile
func (h *ProfileHandler) Update(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	fields := map[string]any{}
	if req.DisplayName != nil {
		fields["displayName"] = *req.DisplayName
	}
	if req.PhotoURL != nil {
		fields["photoURL"] = *req.PhotoURL
	}
	if req.PrayerReminders != nil {
		fields["prayerReminders"] = *req.PrayerReminders
	}
	if req.AdhanSound != nil {
		fields["adhanSound"] = *req.AdhanSound
	}
	if len(fields) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No updatable fields in request"})
		return
	}

	h.applyUpdate(c, func(svc *profilesync.Service) error {
		return svc.UpdateProfile(c.Request.Context(), fields)
	})
}

// UpdateLocation handles PUT /api/profile/location
func (h *ProfileHandler) UpdateLocation(c *gin.Context) {
	var req UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Latitude != nil && (*req.Latitude < -90 || *req.Latitude > 90) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Latitude out of range"})
		return
	}
	if req.Longitude != nil && (*req.Longitude < -180 || *req.Longitude > 180) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Longitude out of range"})
		return
	}

	h.applyUpdate(c, func(svc *profilesync.Service) error {
		return svc.UpdateLocation(c.Request.Context(), profilesync.Location{
			City:      req.City,
			Country:   req.Country,
			Latitude:  req.Latitude,
			Longitude: req.Longitude,
		})
	})
}

// UpdatePreferences handles PUT /api/profile/preferences
func (h *ProfileHandler) UpdatePreferences(c *gin.Context) {
	var prefs models.PreferencesMap
	if err := c.ShouldBindJSON(&prefs); err != nil || len(prefs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid preferences object"})
		return
	}

	h.applyUpdate(c, func(svc *profilesync.Service) error {
		return svc.UpdatePreferences(c.Request.Context(), prefs)
	})
}

// UpdateTheme handles PUT /api/profile/theme
func (h *ProfileHandler) UpdateTheme(c *gin.Context) {
	var req UpdateThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Theme must be light or dark"})
		return
	}

	h.applyUpdate(c, func(svc *profilesync.Service) error {
		return svc.UpdateTheme(c.Request.Context(), req.Theme)
	})
}

// UpdateLanguage handles PUT /api/profile/language
func (h *ProfileHandler) UpdateLanguage(c *gin.Context) {
	var req UpdateLanguageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Language must be en or ar"})
		return
	}

	h.applyUpdate(c, func(svc *profilesync.Service) error {
		return svc.UpdateLanguage(c.Request.Context(), req.Language)
	})
}

// ForceSync handles POST /api/profile/sync — an explicit flush of the
// user's pending-update queue.
func (h *ProfileHandler) ForceSync(c *gin.Context) {
	uid := c.GetString("uid")
	svc, err := h.manager.Session(uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := svc.SyncPending(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "Some pending updates could not be flushed",
			"details": err.Error(),
			"pending": svc.PendingCount(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"synced": true, "pending": svc.PendingCount()})
}

// applyUpdate runs a write through the user's sync service and maps the
// outcome onto the error taxonomy. ErrOffline means the update is queued,
// not applied; the caller gets 503 so it cannot mistake it for success.
func (h *ProfileHandler) applyUpdate(c *gin.Context, write func(*profilesync.Service) error) {
	uid := c.GetString("uid")
	svc, err := h.manager.Session(uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := write(svc); err != nil {
		if errors.Is(err, profilesync.ErrOffline) {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error":  "Offline: update queued for sync",
				"queued": true,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":  err.Error(),
			"queued": true, // failed online writes are re-queued as pending
		})
		return
	}

	profile, err := h.store.Get(c.Request.Context(), uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Update applied but profile reload failed"})
		return
	}
	c.JSON(http.StatusOK, profile)
}
