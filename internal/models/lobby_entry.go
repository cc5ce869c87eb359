package models

import "time"

// LobbyEntry records that a participant registered attendance for a poll.
// It is independent of whether they ever vote or submit.
type LobbyEntry struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	PollID   uint      `gorm:"not null;uniqueIndex:idx_lobby_unique" json:"poll_id"`
	UserID   uint      `gorm:"not null;uniqueIndex:idx_lobby_unique" json:"user_id"`
	JoinedAt time.Time `json:"joined_at"`
}
