package handlers

import (
	"net/http"
	"strconv"

	"deen-companion-api/internal/cache"
	"deen-companion-api/internal/upstream"

	"github.com/gin-gonic/gin"
)

const tafsirCacheControl = "public, max-age=3600, s-maxage=86400, stale-while-revalidate=86400"

// TafsirHandler serves normalized per-sura tafsir from the TTL cache.
type TafsirHandler struct {
	client *upstream.TafsirClient
	suras  cache.Cache[[]upstream.Ayah]
}

func NewTafsirHandler(client *upstream.TafsirClient, suras cache.Cache[[]upstream.Ayah]) *TafsirHandler {
	return &TafsirHandler{client: client, suras: suras}
}

// Sura handles GET /api/tafsir/:lang/:sura
func (h *TafsirHandler) Sura(c *gin.Context) {
	lang := c.Param("lang")
	if !upstream.ValidLang(lang) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid language"})
		return
	}

	sura, err := strconv.Atoi(c.Param("sura"))
	if err != nil || sura < 1 || sura > 114 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid sura",
			"details": "sura must be an integer between 1 and 114",
		})
		return
	}

	key := lang + ":" + strconv.Itoa(sura)
	if ayahs, ok := h.suras.Get(key); ok {
		c.Header("Cache-Control", tafsirCacheControl)
		c.JSON(http.StatusOK, gin.H{"ayahs": ayahs})
		return
	}

	ayahs, err := h.client.Sura(c.Request.Context(), lang, sura)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	h.suras.Set(key, ayahs)
	c.Header("Cache-Control", tafsirCacheControl)
	c.JSON(http.StatusOK, gin.H{"ayahs": ayahs})
}
