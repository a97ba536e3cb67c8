package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"deen-companion-api/internal/profiles"
	"deen-companion-api/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newAuthRouter(t *testing.T) (*gin.Engine, *profiles.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)

	store := profiles.NewStore(db)
	h := NewAuthHandler(store)
	r := gin.New()
	r.POST("/api/auth/login", h.Login)
	return r, store
}

func doLogin(t *testing.T, r *gin.Engine, payload map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLogin_FirstSignInCreatesProfileLazily(t *testing.T) {
	r, _ := newAuthRouter(t)

	w := doLogin(t, r, map[string]any{
		"email":    "fatimah@example.com",
		"password": "secret-password",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	require.NotNil(t, resp.Profile)
	require.Equal(t, "fatimah@example.com", resp.Profile.Email)
	require.Equal(t, "fatimah", resp.Profile.DisplayName, "display name defaults to the email local part")
	require.Equal(t, "en", resp.Profile.Language)
	require.Equal(t, "light", resp.Profile.Theme)
	require.True(t, resp.Profile.Notifications.PrayerReminders)
}

func TestLogin_SecondSignInReusesProfile(t *testing.T) {
	r, _ := newAuthRouter(t)

	w1 := doLogin(t, r, map[string]any{"email": "ali@example.com", "password": "secret-password"})
	require.Equal(t, http.StatusOK, w1.Code)
	var resp1 LoginResponse
	require.NoError(t, json.Unmarshal(w1.Body.Bytes(), &resp1))

	w2 := doLogin(t, r, map[string]any{"email": "ali@example.com", "password": "secret-password"})
	require.Equal(t, http.StatusOK, w2.Code)
	var resp2 LoginResponse
	require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &resp2))

	require.Equal(t, resp1.Profile.UID, resp2.Profile.UID, "exactly one profile per user")
}

func TestLogin_WrongPasswordIs401(t *testing.T) {
	r, _ := newAuthRouter(t)

	doLogin(t, r, map[string]any{"email": "omar@example.com", "password": "right-password"})
	w := doLogin(t, r, map[string]any{"email": "omar@example.com", "password": "wrong-password"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogin_RejectsMalformedRequests(t *testing.T) {
	r, _ := newAuthRouter(t)

	for _, payload := range []map[string]any{
		{},
		{"email": "not-an-email", "password": "secret-password"},
		{"email": "sara@example.com", "password": "short"},
	} {
		w := doLogin(t, r, payload)
		require.Equal(t, http.StatusBadRequest, w.Code)
	}
}

func TestLogin_PasswordNeverSerialized(t *testing.T) {
	r, store := newAuthRouter(t)

	w := doLogin(t, r, map[string]any{"email": "zaid@example.com", "password": "secret-password"})
	require.Equal(t, http.StatusOK, w.Code)
	require.NotContains(t, w.Body.String(), "secret-password")
	require.NotContains(t, w.Body.String(), `"password"`)

	// But the stored hash verifies.
	var resp LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	stored, err := store.Get(context.Background(), resp.Profile.UID)
	require.NoError(t, err)
	require.NotEqual(t, "secret-password", stored.Password)
	require.NotEmpty(t, stored.Password)
}
