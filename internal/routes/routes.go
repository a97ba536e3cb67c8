package routes

import (
	"deen-companion-api/internal/handlers"
	"deen-companion-api/internal/middleware"

	"github.com/gin-gonic/gin"
)

// API groups the constructed handlers so route setup stays a pure wiring
// step; everything stateful is injected from main.
type API struct {
	Aladhan *handlers.AladhanHandler
	Hadith  *handlers.HadithHandler
	Tafsir  *handlers.TafsirHandler
	Stories *handlers.StoryHandler
	Content *handlers.ContentHandler
	Chat    *handlers.ChatHandler
	Auth    *handlers.AuthHandler
	Profile *handlers.ProfileHandler
	WS      *handlers.WSHandler
}

func SetupRoutes(api *API) *gin.Engine {
	ginRouter := gin.Default()

	// CORS middleware (for frontend integration)
	ginRouter.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Health check endpoint
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Deen Companion API is running",
		})
	})

	// Public routes (no authentication required)
	apiGroup := ginRouter.Group("/api")
	{
		apiGroup.POST("/auth/login", api.Auth.Login)

		apiGroup.GET("/aladhan/calendar", api.Aladhan.Calendar)
		apiGroup.GET("/aladhan/convert", api.Aladhan.Convert)

		apiGroup.GET("/hadith/:lang", api.Hadith.Root) // serves /hadith/info
		apiGroup.GET("/hadith/:lang/:edition", api.Hadith.Edition)

		apiGroup.GET("/tafsir/:lang/:sura", api.Tafsir.Sura)

		apiGroup.GET("/stories", api.Stories.List)
		apiGroup.GET("/stories/:id", api.Stories.ByID)

		apiGroup.GET("/content/:prayer", api.Content.Overlay)

		apiGroup.POST("/chat", api.Chat.Ask)
	}

	// Protected routes (authentication required)
	protectedRoutes := apiGroup.Group("")
	protectedRoutes.Use(middleware.JWTAuthMiddleware())
	{
		protectedRoutes.GET("/profile", api.Profile.Get)
		protectedRoutes.PATCH("/profile", api.Profile.Update)
		protectedRoutes.PUT("/profile/location", api.Profile.UpdateLocation)
		protectedRoutes.PUT("/profile/preferences", api.Profile.UpdatePreferences)
		protectedRoutes.PUT("/profile/theme", api.Profile.UpdateTheme)
		protectedRoutes.PUT("/profile/language", api.Profile.UpdateLanguage)
		protectedRoutes.POST("/profile/sync", api.Profile.ForceSync)
		protectedRoutes.GET("/ws", api.WS.Serve)
	}

	return ginRouter
}
