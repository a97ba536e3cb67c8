package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"deen-companion-api/internal/upstream"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newChatFixture(t *testing.T, handler http.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	h := NewChatHandler(upstream.NewChatClient(srv.URL, srv.Client(), time.Second))
	r := gin.New()
	r.POST("/api/chat", h.Ask)
	return r
}

func TestChat_ForwardsMessageAndReturnsReply(t *testing.T) {
	var forwarded []byte
	r := newChatFixture(t, func(w http.ResponseWriter, req *http.Request) {
		forwarded, _ = io.ReadAll(req.Body)
		w.Write([]byte("Prayer is the pillar of the religion.\n"))
	})

	body, _ := json.Marshal(map[string]string{"message": "Why do we pray five times?"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"reply":"Prayer is the pillar of the religion."}`, w.Body.String())
	require.Contains(t, string(forwarded), "Why do we pray five times?")
}

func TestChat_MissingMessageIs400(t *testing.T) {
	r := newChatFixture(t, func(w http.ResponseWriter, req *http.Request) {
		t.Fatal("upstream must not be called for invalid requests")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChat_UpstreamFailureIs502(t *testing.T) {
	r := newChatFixture(t, func(w http.ResponseWriter, req *http.Request) {
		http.Error(w, "model overloaded", http.StatusTooManyRequests)
	})

	body, _ := json.Marshal(map[string]string{"message": "hello"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadGateway, w.Code)
	require.Contains(t, w.Body.String(), "model overloaded")
}
