package services

import (
	"time"

	"classroom-poll-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubmissionService struct {
	db *gorm.DB
}

func NewSubmissionService(db *gorm.DB) *SubmissionService {
	return &SubmissionService{db: db}
}

type SubmittedAnswer struct {
	QuestionID  uint `json:"question_id"`
	OptionIndex int  `json:"option_index"`
}

type SubmissionResult struct {
	Score int `json:"score"`
	Total int `json:"total"`
}

// Submit grades the submitted answers against the poll's questions and
// stores the outcome as the participant's submission. Resubmitting replaces
// the previous score and all answer rows in one transaction. Submissions
// never read the live vote ledger; the two paths are deliberately separate.
func (s *SubmissionService) Submit(pollID, userID uint, answers []SubmittedAnswer) (*SubmissionResult, error) {
	poll, err := NewPollService(s.db).loadPoll(pollID)
	if err != nil {
		return nil, ErrNotFound
	}

	if poll.Status != models.PollStatusLive && poll.Status != models.PollStatusClosed {
		return nil, ErrNotAcceptingSubmissions
	}

	byQuestion := make(map[uint]int, len(answers))
	for _, a := range answers {
		byQuestion[a.QuestionID] = a.OptionIndex
	}

	score := 0
	total := len(poll.Questions)
	graded := make([]models.Answer, 0, total)

	for _, q := range poll.Questions {
		answer := models.Answer{QuestionID: q.ID}

		idx, ok := byQuestion[q.ID]
		if ok && idx >= 0 && idx < len(q.Options) {
			optionID := q.Options[idx].ID
			correct := idx == q.CorrectIndex
			answer.OptionID = &optionID
			answer.IsCorrect = &correct
			if correct {
				score++
			}
		}
		// Out of range or missing stays unanswered: nil option, nil
		// correctness, no effect on the score either way.

		graded = append(graded, answer)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		submission := models.Submission{
			PollID:      pollID,
			UserID:      userID,
			Score:       score,
			Total:       total,
			SubmittedAt: time.Now(),
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "poll_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"score", "total", "submitted_at"}),
		}).Create(&submission).Error; err != nil {
			return err
		}

		// The upsert may have hit an existing row, re-read for its id.
		if err := tx.Where("poll_id = ? AND user_id = ?", pollID, userID).
			First(&submission).Error; err != nil {
			return err
		}

		if err := tx.Where("submission_id = ?", submission.ID).Delete(&models.Answer{}).Error; err != nil {
			return err
		}
		for i := range graded {
			graded[i].ID = 0
			graded[i].SubmissionID = submission.ID
			if err := tx.Create(&graded[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &SubmissionResult{Score: score, Total: total}, nil
}

// Option labels shown in feedback: A, B, C, D by option index.
func optionLabel(index int) string {
	return string(rune('A' + index))
}

type StudentHistoryEntry struct {
	PollID      uint               `json:"poll_id"`
	PollTitle   string             `json:"poll_title"`
	Score       int                `json:"score"`
	Total       int                `json:"total"`
	SubmittedAt time.Time          `json:"submitted_at"`
	Questions   []QuestionFeedback `json:"questions"`
}

type QuestionFeedback struct {
	Text         string          `json:"text"`
	Options      []LabeledOption `json:"options"`
	ChosenIndex  *int            `json:"chosen_index"`
	CorrectIndex int             `json:"correct_index"`
	Correct      bool            `json:"correct"`
}

type LabeledOption struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// GetStudentHistory reconstructs per-question feedback for every finalized
// submission belonging to the student, newest submission first.
func (s *SubmissionService) GetStudentHistory(studentNumber string) ([]StudentHistoryEntry, error) {
	var user models.User
	if err := s.db.Where("student_number = ?", studentNumber).First(&user).Error; err != nil {
		return nil, ErrNotFound
	}

	var submissions []models.Submission
	if err := s.db.Where("user_id = ?", user.ID).
		Order("submitted_at DESC").
		Find(&submissions).Error; err != nil {
		return nil, err
	}

	pollService := NewPollService(s.db)
	history := make([]StudentHistoryEntry, 0, len(submissions))

	for _, sub := range submissions {
		poll, err := pollService.loadPoll(sub.PollID)
		if err != nil {
			continue
		}

		var answers []models.Answer
		s.db.Where("submission_id = ?", sub.ID).Find(&answers)
		byQuestion := make(map[uint]models.Answer, len(answers))
		for _, a := range answers {
			byQuestion[a.QuestionID] = a
		}

		entry := StudentHistoryEntry{
			PollID:      poll.ID,
			PollTitle:   poll.Title,
			Score:       sub.Score,
			Total:       sub.Total,
			SubmittedAt: sub.SubmittedAt,
		}

		for _, q := range poll.Questions {
			fb := QuestionFeedback{
				Text:         q.Text,
				CorrectIndex: q.CorrectIndex,
			}
			optionIndexByID := make(map[uint]int, len(q.Options))
			for _, o := range q.Options {
				fb.Options = append(fb.Options, LabeledOption{Label: optionLabel(o.OrderNum), Text: o.Text})
				optionIndexByID[o.ID] = o.OrderNum
			}

			if a, ok := byQuestion[q.ID]; ok && a.OptionID != nil {
				if idx, ok := optionIndexByID[*a.OptionID]; ok {
					chosen := idx
					fb.ChosenIndex = &chosen
				}
				if a.IsCorrect != nil {
					fb.Correct = *a.IsCorrect
				}
			}

			entry.Questions = append(entry.Questions, fb)
		}

		history = append(history, entry)
	}

	return history, nil
}
