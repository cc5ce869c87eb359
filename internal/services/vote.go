package services

import (
	"classroom-poll-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VoteService struct {
	db *gorm.DB
}

func NewVoteService(db *gorm.DB) *VoteService {
	return &VoteService{db: db}
}

// RecordChoice stores the participant's current choice for one question.
// A negative option index clears any existing choice. If the poll is not
// live the call succeeds without doing anything, so clients racing a closing
// poll never see an error.
func (s *VoteService) RecordChoice(pollID, userID, questionID uint, optionIndex int) error {
	var question models.Question
	if err := s.db.Where("id = ? AND poll_id = ?", questionID, pollID).First(&question).Error; err != nil {
		return ErrInvalidQuestion
	}

	var poll models.Poll
	if err := s.db.First(&poll, pollID).Error; err != nil {
		return ErrNotFound
	}
	if poll.Status != models.PollStatusLive {
		return nil
	}

	if optionIndex < 0 {
		return s.db.Where("question_id = ? AND user_id = ?", questionID, userID).
			Delete(&models.Vote{}).Error
	}

	var option models.Option
	if err := s.db.Where("question_id = ? AND order_num = ?", questionID, optionIndex).
		First(&option).Error; err != nil {
		return ErrInvalidOption
	}

	vote := models.Vote{
		PollID:     pollID,
		QuestionID: questionID,
		UserID:     userID,
		OptionID:   option.ID,
	}
	// Atomic upsert on the unique (question_id, user_id) key: concurrent
	// requests for the same participant resolve to last write wins, never a
	// duplicate row.
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "question_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"option_id", "updated_at"}),
	}).Create(&vote).Error
}
