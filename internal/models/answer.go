package models

// Answer belongs to exactly one Submission. OptionID and IsCorrect are nil
// for a question the participant left unanswered.
type Answer struct {
	ID           uint  `gorm:"primaryKey" json:"id"`
	SubmissionID uint  `gorm:"not null;index" json:"submission_id"`
	QuestionID   uint  `gorm:"not null" json:"question_id"`
	OptionID     *uint `json:"option_id"`
	IsCorrect    *bool `json:"is_correct"`
}
