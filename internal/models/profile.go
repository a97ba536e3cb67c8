package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

// Notifications holds the per-user reminder toggles.
type Notifications struct {
	PrayerReminders bool `json:"prayerReminders" gorm:"column:prayer_reminders;default:true"`
	AdhanSound      bool `json:"adhanSound" gorm:"column:adhan_sound;default:true"`
}

// PreferencesMap is a free-form preferences object stored as JSON text.
type PreferencesMap map[string]any

// Value implements driver.Valuer.
func (p PreferencesMap) Value() (driver.Value, error) {
	if len(p) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, errors.Wrap(err, "encode preferences")
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (p *PreferencesMap) Scan(src any) error {
	if src == nil {
		*p = nil
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.Errorf("unsupported preferences column type %T", src)
	}
	if len(data) == 0 {
		*p = nil
		return nil
	}
	return errors.Wrap(json.Unmarshal(data, p), "decode preferences")
}

// UserProfile is the authoritative per-user document. Exactly one row per
// user, created lazily on first sign-in and never hard-deleted.
type UserProfile struct {
	UID           string         `json:"uid" gorm:"primaryKey;column:uid"`
	Email         string         `json:"email" gorm:"unique;not null"`
	Password      string         `json:"-" gorm:"not null"`
	DisplayName   string         `json:"displayName" gorm:"column:display_name"`
	PhotoURL      string         `json:"photoURL,omitempty" gorm:"column:photo_url"`
	City          *string        `json:"city,omitempty"`
	Country       *string        `json:"country,omitempty"`
	Latitude      *float64       `json:"latitude,omitempty"`
	Longitude     *float64       `json:"longitude,omitempty"`
	Language      string         `json:"language" gorm:"default:'en'"`
	Theme         string         `json:"theme" gorm:"default:'light'"`
	Notifications Notifications  `json:"notifications" gorm:"embedded"`
	Preferences   PreferencesMap `json:"preferences,omitempty" gorm:"type:text"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// TableName specifies the table name for the UserProfile model.
func (UserProfile) TableName() string {
	return "users"
}

// HasLocation reports whether any location field is set on the document.
func (p *UserProfile) HasLocation() bool {
	return p.City != nil || p.Country != nil || p.Latitude != nil || p.Longitude != nil
}
