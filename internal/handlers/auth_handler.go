package handlers

import (
	"net/http"
	"strings"

	"deen-companion-api/internal/auth"
	"deen-companion-api/internal/models"
	"deen-companion-api/internal/profiles"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// LoginRequest represents the sign-in request payload
type LoginRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	DisplayName string `json:"displayName"`
}

// LoginResponse represents the sign-in response
type LoginResponse struct {
	Token   string              `json:"token"`
	Profile *models.UserProfile `json:"profile"`
	Message string              `json:"message"`
}

// AuthHandler signs users in. The profile document is created lazily on
// first sign-in: an unknown email registers, a known one must present the
// matching password.
type AuthHandler struct {
	store *profiles.Store
}

func NewAuthHandler(store *profiles.Store) *AuthHandler {
	return &AuthHandler{store: store}
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request. Email and a password of at least 6 characters are required.",
		})
		return
	}

	profile, err := h.store.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up user"})
		return
	}

	if profile == nil {
		profile, err = h.register(c, req)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create profile"})
			return
		}
	} else if bcrypt.CompareHashAndPassword([]byte(profile.Password), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := auth.GenerateToken(profile.UID, profile.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token:   token,
		Profile: profile,
		Message: "Login successful",
	})
}

func (h *AuthHandler) register(c *gin.Context, req LoginRequest) (*models.UserProfile, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	displayName := req.DisplayName
	if displayName == "" {
		displayName = strings.SplitN(req.Email, "@", 2)[0]
	}

	profile := &models.UserProfile{
		UID:         uuid.NewString(),
		Email:       req.Email,
		Password:    string(hash),
		DisplayName: displayName,
		Language:    "en",
		Theme:       "light",
		Notifications: models.Notifications{
			PrayerReminders: true,
			AdhanSound:      true,
		},
	}
	if err := h.store.Create(c.Request.Context(), profile); err != nil {
		return nil, err
	}
	return profile, nil
}
