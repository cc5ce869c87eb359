package models

import "time"

// Vote is a participant's current live choice for one question. There is at
// most one row per (question, user); a choice change overwrites it and
// clearing the choice deletes it. No history is kept.
type Vote struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PollID     uint      `gorm:"not null;index" json:"poll_id"`
	QuestionID uint      `gorm:"not null;uniqueIndex:idx_vote_unique" json:"question_id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_vote_unique" json:"user_id"`
	OptionID   uint      `gorm:"not null" json:"option_id"`
	UpdatedAt  time.Time `json:"updated_at"`
}
