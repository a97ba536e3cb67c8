// Package profilesync keeps a user's profile view consistent with the
// authoritative document store while tolerating intermittent connectivity.
// Writes made while offline are queued (one pending payload per logical
// category, last write wins) and flushed when connectivity returns.
package profilesync

import (
	"context"
	"sync"

	"deen-companion-api/internal/models"

	"github.com/pkg/errors"
)

// Category is the logical key of a pending update. One pending payload is
// held per category; a newer update for the same category overwrites the
// older one rather than merging.
type Category string

const (
	CategoryProfile     Category = "profile"
	CategoryLocation    Category = "location"
	CategoryPreferences Category = "preferences"
	CategoryTheme       Category = "theme"
	CategoryLanguage    Category = "language"
)

// ErrOffline is returned when a write is attempted while offline. The
// update has been queued, but callers must not treat this as success.
var ErrOffline = errors.New("offline: update queued for sync")

// ErrNotInitialized is returned when the service has no active session.
var ErrNotInitialized = errors.New("sync service not initialized")

// Store is the authoritative document store the service writes to and
// listens on.
type Store interface {
	Merge(ctx context.Context, uid string, fields map[string]any) error
	Subscribe(uid string, onSnapshot func(*models.UserProfile), onError func(error)) (func(), error)
}

// KV is the local persisted key-value store used to mirror theme/language
// for instant UI reflect before the remote write confirms.
type KV interface {
	Get(key string) (string, bool)
	Set(key, value string)
}

// Location is the location slice of a profile document.
type Location struct {
	City      *string  `json:"city,omitempty"`
	Country   *string  `json:"country,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// Callbacks receives typed updates extracted from document snapshots.
// OnProfile fires on every snapshot; the others fire only when the
// corresponding fields are present on the document. Any callback may be
// nil.
type Callbacks struct {
	OnProfile     func(*models.UserProfile)
	OnLocation    func(Location)
	OnPreferences func(models.PreferencesMap)
	OnTheme       func(string)
	OnLanguage    func(string)
	OnError       func(error)
}

// Service is one user session's sync service.
//
// State machine: Uninitialized -> Listening (Initialize) -> Uninitialized
// (Cleanup). While Listening, the orthogonal online/offline flag is toggled
// by SetOnline; the service starts online.
type Service struct {
	store Store
	kv    KV

	mu      sync.Mutex
	uid     string
	cb      Callbacks
	online  bool
	cancel  func()
	gen     uint64
	pending map[Category]pendingEntry
	order   []Category // insertion order of pending categories
}

// pendingEntry is one queued offline payload. gen distinguishes it from a
// newer payload that overwrote the same category while a flush was running.
type pendingEntry struct {
	fields map[string]any
	gen    uint64
}

func New(store Store, kv KV) *Service {
	return &Service{
		store:   store,
		kv:      kv,
		online:  true,
		pending: make(map[Category]pendingEntry),
	}
}

// Initialize begins the real-time subscription for uid and registers the
// callbacks. It is an error to initialize an already-listening service.
func (s *Service) Initialize(uid string, cb Callbacks) error {
	s.mu.Lock()
	if s.uid != "" {
		s.mu.Unlock()
		return errors.Errorf("already listening for user %s", s.uid)
	}
	s.uid = uid
	s.cb = cb
	s.mu.Unlock()

	cancel, err := s.store.Subscribe(uid, s.dispatch, func(err error) {
		// Subscription errors are reported, never retried automatically.
		if cb.OnError != nil {
			cb.OnError(err)
		}
	})
	if err != nil {
		s.mu.Lock()
		s.uid = ""
		s.cb = Callbacks{}
		s.mu.Unlock()
		return errors.Wrap(err, "subscribe to profile document")
	}

	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()
	return nil
}

// dispatch extracts sub-fields from a document snapshot and invokes only
// the callbacks relevant to fields present on it.
func (s *Service) dispatch(p *models.UserProfile) {
	s.mu.Lock()
	cb := s.cb
	s.mu.Unlock()

	if p == nil {
		return
	}
	if cb.OnProfile != nil {
		cb.OnProfile(p)
	}
	if cb.OnLocation != nil && p.HasLocation() {
		cb.OnLocation(Location{City: p.City, Country: p.Country, Latitude: p.Latitude, Longitude: p.Longitude})
	}
	if cb.OnPreferences != nil && len(p.Preferences) > 0 {
		cb.OnPreferences(p.Preferences)
	}
	if cb.OnTheme != nil && p.Theme != "" {
		cb.OnTheme(p.Theme)
	}
	if cb.OnLanguage != nil && p.Language != "" {
		cb.OnLanguage(p.Language)
	}
}

// Cleanup cancels the subscription and clears callbacks and the pending
// queue, returning the service to Uninitialized.
func (s *Service) Cleanup() {
	s.mu.Lock()
	cancel := s.cancel
	s.uid = ""
	s.cb = Callbacks{}
	s.cancel = nil
	s.pending = make(map[Category]pendingEntry)
	s.order = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// SetOnline toggles the connectivity flag. An offline-to-online transition
// flushes the pending queue; pending updates are never flushed on a timer.
func (s *Service) SetOnline(ctx context.Context, online bool) {
	s.mu.Lock()
	wasOnline := s.online
	s.online = online
	s.mu.Unlock()

	if online && !wasOnline {
		_ = s.SyncPending(ctx)
	}
}

// UpdateProfile merge-writes a partial profile. Online, the write happens
// immediately and clears any pending payload for the profile category.
// Offline, the payload is queued and ErrOffline returned. A failed online
// write is both returned to the caller and queued, so a transient failure
// does not lose the update.
func (s *Service) UpdateProfile(ctx context.Context, fields map[string]any) error {
	return s.update(ctx, CategoryProfile, fields)
}

// UpdateLocation updates the location slice of the profile.
func (s *Service) UpdateLocation(ctx context.Context, loc Location) error {
	fields := map[string]any{}
	if loc.City != nil {
		fields["city"] = *loc.City
	}
	if loc.Country != nil {
		fields["country"] = *loc.Country
	}
	if loc.Latitude != nil {
		fields["latitude"] = *loc.Latitude
	}
	if loc.Longitude != nil {
		fields["longitude"] = *loc.Longitude
	}
	if len(fields) == 0 {
		return errors.New("empty location update")
	}
	return s.update(ctx, CategoryLocation, fields)
}

// UpdatePreferences replaces the free-form preferences object.
func (s *Service) UpdatePreferences(ctx context.Context, prefs models.PreferencesMap) error {
	return s.update(ctx, CategoryPreferences, map[string]any{"preferences": prefs})
}

// UpdateTheme mirrors the theme into the local store for instant UI
// reflect, then writes it remotely.
func (s *Service) UpdateTheme(ctx context.Context, theme string) error {
	if s.kv != nil {
		s.kv.Set("theme", theme)
	}
	return s.update(ctx, CategoryTheme, map[string]any{"theme": theme})
}

// UpdateLanguage mirrors the language locally, then writes it remotely.
func (s *Service) UpdateLanguage(ctx context.Context, lang string) error {
	if s.kv != nil {
		s.kv.Set("language", lang)
	}
	return s.update(ctx, CategoryLanguage, map[string]any{"language": lang})
}

func (s *Service) update(ctx context.Context, category Category, fields map[string]any) error {
	s.mu.Lock()
	if s.uid == "" {
		s.mu.Unlock()
		return ErrNotInitialized
	}
	uid := s.uid
	if !s.online {
		s.queueLocked(category, fields)
		s.mu.Unlock()
		return ErrOffline
	}
	s.mu.Unlock()

	if err := s.store.Merge(ctx, uid, fields); err != nil {
		s.mu.Lock()
		s.queueLocked(category, fields)
		s.mu.Unlock()
		return errors.Wrap(err, "remote write failed, update queued")
	}

	s.mu.Lock()
	s.removeLocked(category)
	s.mu.Unlock()
	return nil
}

// SyncPending flushes queued updates in the insertion order of their
// categories, one remote write each. Successful entries are removed;
// failures stay queued for the next transition or an explicit call. The
// last failure, if any, is returned.
func (s *Service) SyncPending(ctx context.Context) error {
	s.mu.Lock()
	if s.uid == "" {
		s.mu.Unlock()
		return ErrNotInitialized
	}
	uid := s.uid
	order := make([]Category, len(s.order))
	copy(order, s.order)
	queued := make(map[Category]pendingEntry, len(s.pending))
	for cat, e := range s.pending {
		queued[cat] = e
	}
	s.mu.Unlock()

	var lastErr error
	for _, cat := range order {
		e, ok := queued[cat]
		if !ok {
			continue
		}
		if err := s.store.Merge(ctx, uid, e.fields); err != nil {
			lastErr = errors.Wrapf(err, "flush pending %s update", cat)
			continue
		}
		s.mu.Lock()
		// Remove only if a newer offline write has not replaced the payload.
		if cur, ok := s.pending[cat]; ok && cur.gen == e.gen {
			s.removeLocked(cat)
		}
		s.mu.Unlock()
	}
	return lastErr
}

// PendingCount returns the number of queued categories.
func (s *Service) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

func (s *Service) queueLocked(category Category, fields map[string]any) {
	if _, exists := s.pending[category]; !exists {
		s.order = append(s.order, category)
	}
	s.gen++
	s.pending[category] = pendingEntry{fields: fields, gen: s.gen}
}

func (s *Service) removeLocked(category Category) {
	if _, exists := s.pending[category]; !exists {
		return
	}
	delete(s.pending, category)
	for i, c := range s.order {
		if c == category {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}
