package handlers

import (
	"encoding/json"
	"net/http"

	"deen-companion-api/internal/cache"
	"deen-companion-api/internal/upstream"

	"github.com/gin-gonic/gin"
)

const hadithCacheControl = "public, max-age=3600, s-maxage=86400, stale-while-revalidate=86400"

// HadithHandler serves hadith editions and the CDN info document from the
// TTL cache, going upstream through the retry fetcher on a miss.
type HadithHandler struct {
	client   *upstream.HadithClient
	editions cache.Cache[*upstream.EditionDoc]
	info     cache.Cache[json.RawMessage]
}

func NewHadithHandler(client *upstream.HadithClient, editions cache.Cache[*upstream.EditionDoc], info cache.Cache[json.RawMessage]) *HadithHandler {
	return &HadithHandler{client: client, editions: editions, info: info}
}

// Edition handles GET /api/hadith/:lang/:edition
func (h *HadithHandler) Edition(c *gin.Context) {
	lang := c.Param("lang")
	if !upstream.ValidLang(lang) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid language"})
		return
	}

	edition := c.Param("edition")
	if !upstream.Editions[edition] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid edition"})
		return
	}

	key := lang + ":" + edition
	if doc, ok := h.editions.Get(key); ok {
		c.Header("Cache-Control", hadithCacheControl)
		c.JSON(http.StatusOK, doc)
		return
	}

	doc, err := h.client.Edition(c.Request.Context(), lang, edition)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	h.editions.Set(key, doc)
	c.Header("Cache-Control", hadithCacheControl)
	c.JSON(http.StatusOK, doc)
}

// Root handles GET /api/hadith/:lang. The only valid single-segment path
// is the info document; it shares the wildcard route because the router
// cannot mix a static "info" segment with :lang at the same position.
func (h *HadithHandler) Root(c *gin.Context) {
	if c.Param("lang") != "info" {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	h.Info(c)
}

// Info serves GET /api/hadith/info
func (h *HadithHandler) Info(c *gin.Context) {
	if doc, ok := h.info.Get("info"); ok {
		c.Header("Cache-Control", hadithCacheControl)
		c.Data(http.StatusOK, "application/json; charset=utf-8", doc)
		return
	}

	doc, err := h.client.Info(c.Request.Context())
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	h.info.Set("info", doc)
	c.Header("Cache-Control", hadithCacheControl)
	c.Data(http.StatusOK, "application/json; charset=utf-8", doc)
}
