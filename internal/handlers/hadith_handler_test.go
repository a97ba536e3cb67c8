package handlers

import (
	"encoding/json"
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

func newHadithFixture(t *testing.T, payload string) (*gin.Engine, *int32) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	}))
	t.Cleanup(srv.Close)

	client := upstream.NewHadithClient(srv.URL, srv.Client(), upstream.RetryPolicy{Attempts: 1})
	h := NewHadithHandler(client,
		cache.New[*upstream.EditionDoc](time.Hour),
		cache.New[json.RawMessage](time.Hour))

	r := gin.New()
	r.GET("/api/hadith/:lang", h.Root)
	r.GET("/api/hadith/:lang/:edition", h.Edition)
	return r, &calls
}

func TestHadithEdition_InvalidLanguageIs400(t *testing.T) {
	r, calls := newHadithFixture(t, `{}`)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/hadith/xx/bukhari", nil))
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.JSONEq(t, `{"error":"Invalid language"}`, w.Body.String())
	require.EqualValues(t, 0, atomic.LoadInt32(calls))
}

func TestHadithEdition_InvalidEditionIs400(t *testing.T) {
	r, calls := newHadithFixture(t, `{}`)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/hadith/en/notarealbook", nil))
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.JSONEq(t, `{"error":"Invalid edition"}`, w.Body.String())
	require.EqualValues(t, 0, atomic.LoadInt32(calls))
}

func TestHadithEdition_FetchesOnceThenServesFromCache(t *testing.T) {
	payload := `{"metadata":{"name":"Sahih Muslim"},"hadiths":[{"hadithnumber":1,"text":"..."}]}`
	r, calls := newHadithFixture(t, payload)

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/hadith/en/muslim", nil))
		require.Equal(t, http.StatusOK, w.Code)
		require.JSONEq(t, payload, w.Body.String())
	}
	require.EqualValues(t, 1, atomic.LoadInt32(calls))
}

func TestHadithEdition_LanguagesCacheSeparately(t *testing.T) {
	r, calls := newHadithFixture(t, `{"metadata":{},"hadiths":[]}`)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/hadith/en/nawawi", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/hadith/ar/nawawi", nil))
	require.EqualValues(t, 2, atomic.LoadInt32(calls))
}

func TestHadithInfo_CachedAfterFirstFetch(t *testing.T) {
	payload := `{"editions":{"bukhari":{"name":"Sahih al-Bukhari"}}}`
	r, calls := newHadithFixture(t, payload)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/hadith/info", nil))
		require.Equal(t, http.StatusOK, w.Code)
		require.JSONEq(t, payload, w.Body.String())
		require.Equal(t, "public, max-age=3600, s-maxage=86400, stale-while-revalidate=86400", w.Header().Get("Cache-Control"))
	}
	require.EqualValues(t, 1, atomic.LoadInt32(calls))
}

func TestHadithEdition_UpstreamFailureIs502(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "cdn unavailable", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	client := upstream.NewHadithClient(srv.URL, srv.Client(), upstream.RetryPolicy{Attempts: 1})
	h := NewHadithHandler(client,
		cache.New[*upstream.EditionDoc](time.Hour),
		cache.New[json.RawMessage](time.Hour))
	r := gin.New()
	r.GET("/api/hadith/:lang/:edition", h.Edition)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/hadith/en/bukhari", nil))
	require.Equal(t, http.StatusBadGateway, w.Code)
	require.Contains(t, w.Body.String(), "cdn unavailable")
}
