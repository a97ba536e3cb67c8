package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"deen-companion-api/internal/models"
	"deen-companion-api/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newContentRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)

	h := NewContentHandler(db)
	r := gin.New()
	r.GET("/api/content/:prayer", h.Overlay)
	return r, db
}

func TestOverlay_ServesSeededContent(t *testing.T) {
	r, db := newContentRouter(t)

	// Simulate an out-of-band edit.
	require.NoError(t, db.Model(&models.OverlayContent{}).
		Where("prayer = ?", "fajr").
		Update("en", "Edited overlay text").Error)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/content/fajr", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var content models.OverlayContent
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &content))
	require.Equal(t, "fajr", content.Prayer)
	require.Equal(t, "Edited overlay text", content.En)
	require.NotEmpty(t, content.Ar)
}

func TestOverlay_FallsBackToDefaultWhenRowAbsent(t *testing.T) {
	r, db := newContentRouter(t)

	require.NoError(t, db.Delete(&models.OverlayContent{}, "prayer = ?", "isha").Error)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/content/isha", nil))
	require.Equal(t, http.StatusOK, w.Code, "absent row must fall back to the hardcoded default")

	var content models.OverlayContent
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &content))
	require.Equal(t, "isha", content.Prayer)
	require.NotEmpty(t, content.En)
	require.NotEmpty(t, content.Ar)
}

func TestOverlay_UnknownPrayerIs400(t *testing.T) {
	r, _ := newContentRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/content/brunch", nil))
	require.Equal(t, http.StatusBadRequest, w.Code)
}
