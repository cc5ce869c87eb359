package models

import "time"

type Poll struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	OwnerID      uint       `gorm:"not null;index" json:"owner_id"`
	Owner        User       `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
	Title        string     `gorm:"size:255;not null" json:"title"`
	Description  string     `gorm:"type:text" json:"description"`
	Code         string     `gorm:"size:6;uniqueIndex;not null" json:"code"`
	SecurityCode string     `gorm:"size:4" json:"security_code,omitempty"`
	Status       string     `gorm:"size:10;not null;default:'draft'" json:"status"`
	TimerSeconds int        `gorm:"not null;default:0" json:"timer_seconds"`
	Questions    []Question `gorm:"foreignKey:PollID" json:"questions,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

const (
	PollStatusDraft  = "draft"
	PollStatusOpen   = "open"
	PollStatusLive   = "live"
	PollStatusClosed = "closed"
)

// ValidStatus reports whether s is one of the four poll lifecycle statuses.
func ValidStatus(s string) bool {
	switch s {
	case PollStatusDraft, PollStatusOpen, PollStatusLive, PollStatusClosed:
		return true
	}
	return false
}
