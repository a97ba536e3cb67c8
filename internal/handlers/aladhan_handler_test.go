package handlers

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"deen-companion-api/internal/cache"
	"deen-companion-api/internal/upstream"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// newAladhanFixture wires the handler against a counting fake upstream.
func newAladhanFixture(t *testing.T, ttl time.Duration, payload string) (*gin.Engine, *int32, cache.Cache[*upstream.Envelope]) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	}))
	t.Cleanup(srv.Close)

	client := upstream.NewAladhanClient(srv.URL, srv.Client())
	convCache := cache.New[*upstream.Envelope](ttl)
	h := NewAladhanHandler(client, cache.New[*upstream.Envelope](ttl), convCache)

	r := gin.New()
	r.GET("/api/aladhan/calendar", h.Calendar)
	r.GET("/api/aladhan/convert", h.Convert)
	return r, &calls, convCache
}

func TestConvert_ColdMissFetchesOnceAndCaches(t *testing.T) {
	payload := `{"code":200,"status":"OK","data":{"hijri":{"date":"01-07-1446"},"gregorian":{"date":"01-01-2025"}}}`
	r, calls, convCache := newAladhanFixture(t, time.Hour, payload)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/aladhan/convert?type=gToH&date=01-01-2025", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.EqualValues(t, 1, atomic.LoadInt32(calls))
	require.JSONEq(t, payload, w.Body.String())
	require.Equal(t, "public, max-age=3600, s-maxage=86400, stale-while-revalidate=86400", w.Header().Get("Cache-Control"))

	// The payload is cached under the deterministic parameter key.
	_, ok := convCache.Get("gToH:01-01-2025")
	require.True(t, ok)

	// Second call within TTL: byte-identical body, no second upstream call.
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, httptest.NewRequest(http.MethodGet, "/api/aladhan/convert?type=gToH&date=01-01-2025", nil))
	require.Equal(t, http.StatusOK, w2.Code)
	require.Equal(t, w.Body.String(), w2.Body.String())
	require.EqualValues(t, 1, atomic.LoadInt32(calls))
}

func TestConvert_ExpiredEntryRefetchesExactlyOnce(t *testing.T) {
	payload := `{"code":200,"status":"OK","data":{}}`
	r, calls, _ := newAladhanFixture(t, time.Nanosecond, payload)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/aladhan/convert?type=gToH&date=01-01-2025", nil))
	time.Sleep(5 * time.Millisecond) // let the nanosecond TTL elapse
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/aladhan/convert?type=gToH&date=01-01-2025", nil))

	require.EqualValues(t, 2, atomic.LoadInt32(calls))
}

func TestConvert_InvalidDateRejectedBeforeUpstream(t *testing.T) {
	r, calls, _ := newAladhanFixture(t, time.Hour, `{}`)

	for _, date := range []string{"2025-01-01", "1-1-2025", "32-01-2025", "01-13-2025", "garbage", ""} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/aladhan/convert?type=gToH&date="+date, nil))
		require.Equal(t, http.StatusBadRequest, w.Code, "date %q must be rejected", date)
		require.Contains(t, w.Body.String(), "error")
	}
	require.EqualValues(t, 0, atomic.LoadInt32(calls), "validation failures must not reach upstream")
}

func TestConvert_InvalidTypeRejected(t *testing.T) {
	r, calls, _ := newAladhanFixture(t, time.Hour, `{}`)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/aladhan/convert?type=xToY&date=01-01-2025", nil))
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.EqualValues(t, 0, atomic.LoadInt32(calls))
}

func TestCalendar_ValidatesMonthAndYear(t *testing.T) {
	r, calls, _ := newAladhanFixture(t, time.Hour, `{}`)

	bad := []string{
		"/api/aladhan/calendar?type=gToH&month=0&year=2025",
		"/api/aladhan/calendar?type=gToH&month=13&year=2025",
		"/api/aladhan/calendar?type=gToH&month=abc&year=2025",
		"/api/aladhan/calendar?type=gToH&month=1&year=0",
		"/api/aladhan/calendar?type=gToH&month=1&year=-3",
		"/api/aladhan/calendar?type=bad&month=1&year=2025",
	}
	for _, url := range bad {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, url, nil))
		require.Equal(t, http.StatusBadRequest, w.Code, "url %s", url)
	}
	require.EqualValues(t, 0, atomic.LoadInt32(calls))
}

func TestCalendar_SuccessCachesByParameters(t *testing.T) {
	payload := `{"code":200,"status":"OK","data":[{"date":{"readable":"01 Jan 2025"}}]}`
	r, calls, _ := newAladhanFixture(t, time.Hour, payload)

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/aladhan/calendar?type=hToG&month=9&year=1446", nil))
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "public, max-age=3600, s-maxage=43200, stale-while-revalidate=86400", w.Header().Get("Cache-Control"))
	}
	require.EqualValues(t, 1, atomic.LoadInt32(calls))
}

func TestConvert_UpstreamFailureIs502WithStatusEmbedded(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "aladhan is down", http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	client := upstream.NewAladhanClient(srv.URL, srv.Client())
	h := NewAladhanHandler(client, cache.New[*upstream.Envelope](time.Hour), cache.New[*upstream.Envelope](time.Hour))
	r := gin.New()
	r.GET("/api/aladhan/convert", h.Convert)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/aladhan/convert?type=gToH&date=01-01-2025", nil))
	require.Equal(t, http.StatusBadGateway, w.Code)
	require.Contains(t, w.Body.String(), "503")
	require.Contains(t, w.Body.String(), "aladhan is down")
}
