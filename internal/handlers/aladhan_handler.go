package handlers

import (
	"net/http"
	"regexp"
	"strconv"

	"deen-companion-api/internal/cache"
	"deen-companion-api/internal/upstream"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// Cache-Control values for the proxy routes: an hour in the browser, up to
// a day at the CDN with stale-while-revalidate.
const (
	calendarCacheControl = "public, max-age=3600, s-maxage=43200, stale-while-revalidate=86400"
	convertCacheControl  = "public, max-age=3600, s-maxage=86400, stale-while-revalidate=86400"
)

var dateRe = regexp.MustCompile(`^(\d{2})-(\d{2})-(\d{4})$`)

// AladhanHandler proxies the Aladhan calendar and conversion endpoints
// behind per-endpoint TTL caches.
type AladhanHandler struct {
	client   *upstream.AladhanClient
	calendar cache.Cache[*upstream.Envelope]
	convert  cache.Cache[*upstream.Envelope]
}

func NewAladhanHandler(client *upstream.AladhanClient, calendar, convert cache.Cache[*upstream.Envelope]) *AladhanHandler {
	return &AladhanHandler{client: client, calendar: calendar, convert: convert}
}

func validConversionType(typ string) bool {
	return typ == "gToH" || typ == "hToG"
}

// Calendar handles GET /api/aladhan/calendar?type=gToH&month=1&year=2025
func (h *AladhanHandler) Calendar(c *gin.Context) {
	typ := c.Query("type")
	if !validConversionType(typ) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid conversion type",
			"details": "type must be gToH or hToG",
		})
		return
	}

	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid month",
			"details": "month must be an integer between 1 and 12",
		})
		return
	}

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year < 1 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid year",
			"details": "year must be a positive integer",
		})
		return
	}

	key := typ + ":" + strconv.Itoa(month) + ":" + strconv.Itoa(year)
	if env, ok := h.calendar.Get(key); ok {
		c.Header("Cache-Control", calendarCacheControl)
		c.JSON(http.StatusOK, env)
		return
	}

	env, err := h.client.Calendar(c.Request.Context(), typ, month, year)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	h.calendar.Set(key, env)
	c.Header("Cache-Control", calendarCacheControl)
	c.JSON(http.StatusOK, env)
}

// Convert handles GET /api/aladhan/convert?type=gToH&date=01-01-2025
func (h *AladhanHandler) Convert(c *gin.Context) {
	typ := c.Query("type")
	if !validConversionType(typ) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid conversion type",
			"details": "type must be gToH or hToG",
		})
		return
	}

	date := c.Query("date")
	if !validDate(date) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid date",
			"details": "date must be DD-MM-YYYY",
		})
		return
	}

	key := typ + ":" + date
	if env, ok := h.convert.Get(key); ok {
		c.Header("Cache-Control", convertCacheControl)
		c.JSON(http.StatusOK, env)
		return
	}

	env, err := h.client.Convert(c.Request.Context(), typ, date)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	h.convert.Set(key, env)
	c.Header("Cache-Control", convertCacheControl)
	c.JSON(http.StatusOK, env)
}

// validDate enforces DD-MM-YYYY with in-range day and month before any
// upstream call is attempted.
func validDate(date string) bool {
	m := dateRe.FindStringSubmatch(date)
	if m == nil {
		return false
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	return day >= 1 && day <= 31 && month >= 1 && month <= 12 && year >= 1
}

// respondUpstreamError maps a fetch failure onto the route error taxonomy:
// non-2xx upstream statuses become 502 with the upstream status/body
// embedded, everything else becomes 500 with the error's message.
func respondUpstreamError(c *gin.Context, err error) {
	var serr *upstream.StatusError
	if errors.As(err, &serr) {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":          "Upstream request failed",
			"upstreamStatus": serr.StatusCode,
			"upstreamBody":   string(serr.Body),
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": err.Error(),
	})
}
