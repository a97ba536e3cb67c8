package realtime

import (
	"log"

	"deen-companion-api/internal/models"
	"deen-companion-api/internal/profilesync"
)

// SyncCallbacks bridges a user's sync-service callbacks onto the hub:
// every typed update extracted from a document snapshot becomes an event
// pushed to that user's connected clients.
func SyncCallbacks(h *Hub, uid string) profilesync.Callbacks {
	return profilesync.Callbacks{
		OnProfile: func(p *models.UserProfile) {
			h.Publish(uid, Event{Type: EventProfile, Payload: p})
		},
		OnLocation: func(loc profilesync.Location) {
			h.Publish(uid, Event{Type: EventLocation, Payload: loc})
		},
		OnPreferences: func(prefs models.PreferencesMap) {
			h.Publish(uid, Event{Type: EventPreferences, Payload: prefs})
		},
		OnTheme: func(theme string) {
			h.Publish(uid, Event{Type: EventTheme, Payload: theme})
		},
		OnLanguage: func(lang string) {
			h.Publish(uid, Event{Type: EventLanguage, Payload: lang})
		},
		OnError: func(err error) {
			log.Printf("profile subscription error for user %s: %v", uid, err)
		},
	}
}
