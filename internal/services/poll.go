package services

import (
	"errors"
	"fmt"

	"classroom-poll-backend/internal/models"

	"gorm.io/gorm"
)

type PollService struct {
	db *gorm.DB
}

func NewPollService(db *gorm.DB) *PollService {
	return &PollService{db: db}
}

type OptionInput struct {
	Text string `json:"text"`
}

type QuestionInput struct {
	Text         string        `json:"text" binding:"required"`
	CorrectIndex int           `json:"correct_index"`
	Options      []OptionInput `json:"options" binding:"required"`
}

type CreatePollInput struct {
	Title           string          `json:"title" binding:"required"`
	Description     string          `json:"description"`
	TimerSeconds    int             `json:"timer_seconds"`
	UseSecurityCode bool            `json:"use_security_code"`
	Questions       []QuestionInput `json:"questions"`
}

type UpdatePollInput struct {
	Title        string          `json:"title" binding:"required"`
	Description  string          `json:"description"`
	TimerSeconds int             `json:"timer_seconds"`
	Questions    []QuestionInput `json:"questions"`
}

func buildQuestions(inputs []QuestionInput) ([]models.Question, error) {
	questions := make([]models.Question, 0, len(inputs))
	for i, qi := range inputs {
		if len(qi.Options) < 2 {
			return nil, fmt.Errorf("%w: each question must have at least 2 options", ErrBadInput)
		}
		if qi.CorrectIndex < 0 || qi.CorrectIndex >= len(qi.Options) {
			return nil, fmt.Errorf("%w: correct_index must reference an existing option", ErrBadInput)
		}
		q := models.Question{
			Text:         qi.Text,
			CorrectIndex: qi.CorrectIndex,
			OrderNum:     i,
		}
		for j, oi := range qi.Options {
			q.Options = append(q.Options, models.Option{Text: oi.Text, OrderNum: j})
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func (s *PollService) CreatePoll(ownerID uint, input CreatePollInput) (*models.Poll, error) {
	questions, err := buildQuestions(input.Questions)
	if err != nil {
		return nil, err
	}

	securityCode := ""
	if input.UseSecurityCode {
		securityCode = GenerateSecurityCode()
	}

	// The join code is not checked for collisions up front; the unique
	// constraint on polls.code rejects a duplicate and we retry with a
	// fresh code.
	for attempt := 0; attempt < 5; attempt++ {
		poll := models.Poll{
			OwnerID:      ownerID,
			Title:        input.Title,
			Description:  input.Description,
			Code:         GenerateJoinCode(),
			SecurityCode: securityCode,
			Status:       models.PollStatusDraft,
			TimerSeconds: input.TimerSeconds,
			Questions:    questions,
		}
		err := s.db.Create(&poll).Error
		if err == nil {
			return s.GetPoll(poll.ID, ownerID)
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
	}
	return nil, errors.New("could not allocate a unique join code")
}

// loadPoll hydrates a poll with its questions and options in display order.
func (s *PollService) loadPoll(pollID uint) (*models.Poll, error) {
	var poll models.Poll
	err := s.db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_num ASC")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_num ASC")
		}).
		First(&poll, pollID).Error
	if err != nil {
		return nil, ErrNotFound
	}
	return &poll, nil
}

func (s *PollService) GetPoll(pollID, ownerID uint) (*models.Poll, error) {
	poll, err := s.loadPoll(pollID)
	if err != nil || poll.OwnerID != ownerID {
		return nil, ErrNotFoundOrForbidden
	}
	return poll, nil
}

func (s *PollService) GetPollsByOwner(ownerID uint) ([]models.Poll, error) {
	var polls []models.Poll
	err := s.db.Where("owner_id = ?", ownerID).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_num ASC")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_num ASC")
		}).
		Order("created_at DESC").
		Find(&polls).Error
	if err != nil {
		return nil, err
	}
	return polls, nil
}

// SetStatus persists a new lifecycle status and returns the hydrated poll.
// It does not enforce forward-only transitions; the HTTP surface exposes
// open/start/close and the caller is trusted to use them in order.
// Broadcasting the change to the poll's room is the caller's job.
func (s *PollService) SetStatus(pollID uint, status string, ownerID uint) (*models.Poll, error) {
	if !models.ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	var poll models.Poll
	if err := s.db.Where("id = ? AND owner_id = ?", pollID, ownerID).First(&poll).Error; err != nil {
		return nil, ErrNotFoundOrForbidden
	}

	poll.Status = status
	if err := s.db.Save(&poll).Error; err != nil {
		return nil, err
	}

	return s.loadPoll(pollID)
}

// UpdatePoll updates poll metadata and, if Questions is non-nil, replaces the
// whole question set. Replacement is blocked once any submission exists,
// because answers reference the questions being graded.
func (s *PollService) UpdatePoll(pollID, ownerID uint, input UpdatePollInput) (*models.Poll, error) {
	var poll models.Poll
	if err := s.db.Where("id = ? AND owner_id = ?", pollID, ownerID).First(&poll).Error; err != nil {
		return nil, ErrNotFoundOrForbidden
	}

	var newQuestions []models.Question
	if input.Questions != nil {
		var submissionCount int64
		s.db.Model(&models.Submission{}).Where("poll_id = ?", pollID).Count(&submissionCount)
		if submissionCount > 0 {
			return nil, ErrQuestionsLocked
		}

		var err error
		newQuestions, err = buildQuestions(input.Questions)
		if err != nil {
			return nil, err
		}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		poll.Title = input.Title
		poll.Description = input.Description
		poll.TimerSeconds = input.TimerSeconds
		if err := tx.Save(&poll).Error; err != nil {
			return err
		}

		if input.Questions == nil {
			return nil
		}

		// Live votes reference the old question rows, drop them with the set.
		if err := tx.Where("poll_id = ?", pollID).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("question_id IN (SELECT id FROM questions WHERE poll_id = ?)", pollID).
			Delete(&models.Option{}).Error; err != nil {
			return err
		}
		if err := tx.Where("poll_id = ?", pollID).Delete(&models.Question{}).Error; err != nil {
			return err
		}

		for i := range newQuestions {
			newQuestions[i].PollID = pollID
			if err := tx.Create(&newQuestions[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.loadPoll(pollID)
}

// DeletePoll removes the poll and its whole dependency graph in one
// transaction: answers, submissions, votes, lobby entries, options,
// questions, then the poll itself.
func (s *PollService) DeletePoll(pollID, ownerID uint) error {
	var poll models.Poll
	if err := s.db.Where("id = ? AND owner_id = ?", pollID, ownerID).First(&poll).Error; err != nil {
		return ErrNotFoundOrForbidden
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("submission_id IN (SELECT id FROM submissions WHERE poll_id = ?)", pollID).
			Delete(&models.Answer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("poll_id = ?", pollID).Delete(&models.Submission{}).Error; err != nil {
			return err
		}
		if err := tx.Where("poll_id = ?", pollID).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("poll_id = ?", pollID).Delete(&models.LobbyEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Where("question_id IN (SELECT id FROM questions WHERE poll_id = ?)", pollID).
			Delete(&models.Option{}).Error; err != nil {
			return err
		}
		if err := tx.Where("poll_id = ?", pollID).Delete(&models.Question{}).Error; err != nil {
			return err
		}
		return tx.Delete(&poll).Error
	})
}

// ParticipantView shapes a poll for a student: no correct indices and no
// security code.
type ParticipantView struct {
	ID           uint                      `json:"id"`
	Title        string                    `json:"title"`
	Description  string                    `json:"description"`
	Code         string                    `json:"code"`
	Status       string                    `json:"status"`
	TimerSeconds int                       `json:"timer_seconds"`
	Questions    []ParticipantQuestionView `json:"questions"`
}

type ParticipantQuestionView struct {
	ID      uint                    `json:"id"`
	Text    string                  `json:"text"`
	Options []ParticipantOptionView `json:"options"`
}

type ParticipantOptionView struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

func NewParticipantView(poll *models.Poll) *ParticipantView {
	view := &ParticipantView{
		ID:           poll.ID,
		Title:        poll.Title,
		Description:  poll.Description,
		Code:         poll.Code,
		Status:       poll.Status,
		TimerSeconds: poll.TimerSeconds,
	}
	for _, q := range poll.Questions {
		qv := ParticipantQuestionView{ID: q.ID, Text: q.Text}
		for _, o := range q.Options {
			qv.Options = append(qv.Options, ParticipantOptionView{Index: o.OrderNum, Text: o.Text})
		}
		view.Questions = append(view.Questions, qv)
	}
	return view
}
