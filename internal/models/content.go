package models

import "time"

// OverlayContent is the per-prayer overlay text shown during prayer time.
// Rows are seeded with defaults at migration and treated as read-only by
// the API; editors update them out of band.
type OverlayContent struct {
	Prayer    string    `json:"prayer" gorm:"primaryKey"`
	En        string    `json:"en" gorm:"not null"`
	Ar        string    `json:"ar" gorm:"not null"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// TableName specifies the table name for the OverlayContent model.
func (OverlayContent) TableName() string {
	return "app_content"
}
