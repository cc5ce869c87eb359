package models

import "time"

// Submission is the finalized grading outcome for one participant in one
// poll. Resubmission replaces score, total and all Answer rows.
type Submission struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PollID      uint      `gorm:"not null;uniqueIndex:idx_submission_unique" json:"poll_id"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_submission_unique" json:"user_id"`
	Score       int       `gorm:"not null;default:0" json:"score"`
	Total       int       `gorm:"not null;default:0" json:"total"`
	SubmittedAt time.Time `json:"submitted_at"`
}
