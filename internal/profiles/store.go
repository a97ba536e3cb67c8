// Package profiles is the authoritative profile document store. Writes go
// through Merge, which persists the partial update and pushes the resulting
// full snapshot to every subscriber, so the store doubles as the real-time
// change channel the sync service listens on.
package profiles

import (
	"context"
	"sync"

	"deen-companion-api/internal/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// mergeableFields maps the JSON field names accepted in a partial update to
// their database columns. Anything else in a patch is rejected before it
// reaches the database.
var mergeableFields = map[string]string{
	"displayName":     "display_name",
	"photoURL":        "photo_url",
	"city":            "city",
	"country":         "country",
	"latitude":        "latitude",
	"longitude":       "longitude",
	"language":        "language",
	"theme":           "theme",
	"prayerReminders": "prayer_reminders",
	"adhanSound":      "adhan_sound",
	"preferences":     "preferences",
}

type subscriber struct {
	onSnapshot func(*models.UserProfile)
	onError    func(error)
}

// Store persists user profiles in SQLite and fans snapshots out to
// subscribers after every merge-write.
type Store struct {
	db *gorm.DB

	mu     sync.Mutex
	nextID int64
	subs   map[string]map[int64]subscriber // uid -> subscription id -> callbacks
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:   db,
		subs: make(map[string]map[int64]subscriber),
	}
}

// Get loads a profile by uid.
func (s *Store) Get(ctx context.Context, uid string) (*models.UserProfile, error) {
	var p models.UserProfile
	if err := s.db.WithContext(ctx).First(&p, "uid = ?", uid).Error; err != nil {
		return nil, errors.Wrapf(err, "load profile %s", uid)
	}
	return &p, nil
}

// FindByEmail loads a profile by email. Returns (nil, nil) when absent.
func (s *Store) FindByEmail(ctx context.Context, email string) (*models.UserProfile, error) {
	var p models.UserProfile
	err := s.db.WithContext(ctx).First(&p, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "find profile by email")
	}
	return &p, nil
}

// Create inserts a new profile document. Used by the lazy first-sign-in
// path; there is exactly one document per user.
func (s *Store) Create(ctx context.Context, p *models.UserProfile) error {
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return errors.Wrap(err, "create profile")
	}
	return nil
}

// Merge applies a partial update to the user's document. The update
// timestamp is assigned by the store, not the caller. On success the full
// resulting snapshot is delivered to every subscriber for that uid.
func (s *Store) Merge(ctx context.Context, uid string, fields map[string]any) error {
	if len(fields) == 0 {
		return errors.New("empty update")
	}

	cols := make(map[string]any, len(fields))
	for name, v := range fields {
		col, ok := mergeableFields[name]
		if !ok {
			return errors.Errorf("field %q is not updatable", name)
		}
		if name == "preferences" {
			v = toPreferences(v)
		}
		cols[col] = v
	}

	res := s.db.WithContext(ctx).Model(&models.UserProfile{}).Where("uid = ?", uid).Updates(cols)
	if res.Error != nil {
		return errors.Wrapf(res.Error, "merge profile %s", uid)
	}
	if res.RowsAffected == 0 {
		return errors.Wrapf(gorm.ErrRecordNotFound, "merge profile %s", uid)
	}

	snapshot, err := s.Get(ctx, uid)
	if err != nil {
		s.notifyError(uid, err)
		return err
	}
	s.notifySnapshot(uid, snapshot)
	return nil
}

func toPreferences(v any) models.PreferencesMap {
	switch p := v.(type) {
	case models.PreferencesMap:
		return p
	case map[string]any:
		return models.PreferencesMap(p)
	default:
		return nil
	}
}

// Subscribe registers a snapshot listener for one user. If the document
// already exists the current snapshot is delivered synchronously before
// Subscribe returns, mirroring how a remote document subscription fires
// immediately with the current state. The returned cancel func is
// idempotent.
func (s *Store) Subscribe(uid string, onSnapshot func(*models.UserProfile), onError func(error)) (func(), error) {
	if onSnapshot == nil {
		return nil, errors.New("onSnapshot callback is required")
	}

	s.mu.Lock()
	s.nextID++
	id := s.nextID
	if _, ok := s.subs[uid]; !ok {
		s.subs[uid] = make(map[int64]subscriber)
	}
	s.subs[uid][id] = subscriber{onSnapshot: onSnapshot, onError: onError}
	s.mu.Unlock()

	if snapshot, err := s.Get(context.Background(), uid); err == nil {
		onSnapshot(snapshot)
	}

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if subs, ok := s.subs[uid]; ok {
				delete(subs, id)
				if len(subs) == 0 {
					delete(s.subs, uid)
				}
			}
		})
	}
	return cancel, nil
}

func (s *Store) notifySnapshot(uid string, p *models.UserProfile) {
	for _, sub := range s.snapshotSubs(uid) {
		sub.onSnapshot(p)
	}
}

func (s *Store) notifyError(uid string, err error) {
	for _, sub := range s.snapshotSubs(uid) {
		if sub.onError != nil {
			sub.onError(err)
		}
	}
}

func (s *Store) snapshotSubs(uid string) []subscriber {
	s.mu.Lock()
	defer s.mu.Unlock()
	subs := make([]subscriber, 0, len(s.subs[uid]))
	for _, sub := range s.subs[uid] {
		subs = append(subs, sub)
	}
	return subs
}
