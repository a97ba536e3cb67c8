package main

import (
	"encoding/json"
	"log"

	"deen-companion-api/internal/cache"
	"deen-companion-api/internal/config"
	"deen-companion-api/internal/database"
	"deen-companion-api/internal/handlers"
	"deen-companion-api/internal/profiles"
	"deen-companion-api/internal/profilesync"
	"deen-companion-api/internal/realtime"
	"deen-companion-api/internal/routes"
	"deen-companion-api/internal/upstream"
)

func main() {
	cfg := config.Load()

	// Init database
	database.InitDB(cfg.DBPath)
	db := database.GetDB()

	// Upstream clients
	retry := upstream.RetryPolicy{
		Attempts:  cfg.RetryAttempts,
		Timeout:   cfg.RetryTimeout,
		BaseDelay: cfg.RetryBaseDelay,
	}
	aladhan := upstream.NewAladhanClient(cfg.AladhanBaseURL, nil)
	hadith := upstream.NewHadithClient(cfg.HadithBaseURL, nil, retry)
	tafsir := upstream.NewTafsirClient(cfg.TafsirBaseURL, nil)
	chat := upstream.NewChatClient(cfg.ChatBaseURL, nil, cfg.ChatTimeout)

	// Per-endpoint TTL caches, constructed here and injected into handlers
	calendarCache := cache.New[*upstream.Envelope](cfg.CalendarTTL)
	convertCache := cache.New[*upstream.Envelope](cfg.ConvertTTL)
	editionCache := cache.New[*upstream.EditionDoc](cfg.HadithTTL)
	infoCache := cache.New[json.RawMessage](cfg.HadithTTL)
	tafsirCache := cache.New[[]upstream.Ayah](cfg.TafsirTTL)

	// Profile store, realtime hub and per-user sync sessions
	hub := realtime.NewHub()
	store := profiles.NewStore(db)
	manager := profilesync.NewManager(store, func(uid string) profilesync.Callbacks {
		return realtime.SyncCallbacks(hub, uid)
	})

	api := &routes.API{
		Aladhan: handlers.NewAladhanHandler(aladhan, calendarCache, convertCache),
		Hadith:  handlers.NewHadithHandler(hadith, editionCache, infoCache),
		Tafsir:  handlers.NewTafsirHandler(tafsir, tafsirCache),
		Stories: handlers.NewStoryHandler(),
		Content: handlers.NewContentHandler(db),
		Chat:    handlers.NewChatHandler(chat),
		Auth:    handlers.NewAuthHandler(store),
		Profile: handlers.NewProfileHandler(store, manager),
		WS:      handlers.NewWSHandler(hub, store, manager),
	}

	ginRoutes := routes.SetupRoutes(api)

	log.Printf("Server starting on port %s", cfg.Port)
	log.Println("API endpoints:")
	log.Println("  POST   /api/auth/login")
	log.Println("  GET    /api/aladhan/calendar")
	log.Println("  GET    /api/aladhan/convert")
	log.Println("  GET    /api/hadith/info")
	log.Println("  GET    /api/hadith/:lang/:edition")
	log.Println("  GET    /api/tafsir/:lang/:sura")
	log.Println("  GET    /api/stories")
	log.Println("  GET    /api/stories/:id")
	log.Println("  GET    /api/content/:prayer")
	log.Println("  POST   /api/chat")
	log.Println("  GET    /api/profile (auth)")
	log.Println("  PATCH  /api/profile (auth)")
	log.Println("  GET    /api/ws (auth)")
	log.Println("  GET    /health")

	if err := ginRoutes.Run(cfg.Port); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}
