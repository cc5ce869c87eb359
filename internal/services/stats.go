package services

import (
	"classroom-poll-backend/internal/models"

	"gorm.io/gorm"
)

type StatsService struct {
	db *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

type QuestionStats struct {
	QuestionID     uint   `json:"question_id"`
	Text           string `json:"text"`
	TotalAnswers   int    `json:"total_answers"`
	CorrectAnswers int    `json:"correct_answers"`
	Incorrect      int    `json:"incorrect"`
	NotAnswered    int    `json:"not_answered"`
}

type PollStats struct {
	PollID     uint            `json:"poll_id"`
	Title      string          `json:"title"`
	Attendance int             `json:"attendance"`
	Questions  []QuestionStats `json:"questions"`
}

// GetStats derives per-question statistics from the current live votes and
// the attendance set. Attendance and votes can diverge (a kicked student's
// votes stay counted), so the derived counts are clamped at zero.
func (s *StatsService) GetStats(pollID uint) (*PollStats, error) {
	poll, err := NewPollService(s.db).loadPoll(pollID)
	if err != nil {
		return nil, ErrNotFound
	}

	var attendance int64
	s.db.Model(&models.LobbyEntry{}).Where("poll_id = ?", pollID).Count(&attendance)

	var votes []models.Vote
	if err := s.db.Where("poll_id = ?", pollID).Find(&votes).Error; err != nil {
		return nil, err
	}

	stats := &PollStats{
		PollID:     poll.ID,
		Title:      poll.Title,
		Attendance: int(attendance),
	}

	for _, q := range poll.Questions {
		correctOptionID := uint(0)
		for _, o := range q.Options {
			if o.OrderNum == q.CorrectIndex {
				correctOptionID = o.ID
			}
		}

		qs := QuestionStats{QuestionID: q.ID, Text: q.Text}
		for _, v := range votes {
			if v.QuestionID != q.ID {
				continue
			}
			qs.TotalAnswers++
			if v.OptionID == correctOptionID {
				qs.CorrectAnswers++
			}
		}

		qs.Incorrect = qs.TotalAnswers - qs.CorrectAnswers
		if qs.Incorrect < 0 {
			qs.Incorrect = 0
		}
		qs.NotAnswered = stats.Attendance - qs.TotalAnswers
		if qs.NotAnswered < 0 {
			qs.NotAnswered = 0
		}

		stats.Questions = append(stats.Questions, qs)
	}

	return stats, nil
}

// AttendeeResult holds, per question in order, nil when the attendee cast no
// vote, otherwise whether the vote was correct.
type AttendeeResult struct {
	Name          string  `json:"name"`
	StudentNumber string  `json:"student_number"`
	PerQuestion   []*bool `json:"per_question"`
}

type ExportData struct {
	Stats     PollStats        `json:"stats"`
	Attendees []AttendeeResult `json:"attendees"`
}

// GetExport combines the aggregate stats with the full attendee roster in
// join order, resolving each attendee's vote per question.
func (s *StatsService) GetExport(pollID uint) (*ExportData, error) {
	stats, err := s.GetStats(pollID)
	if err != nil {
		return nil, err
	}

	poll, err := NewPollService(s.db).loadPoll(pollID)
	if err != nil {
		return nil, err
	}

	correctOptionByQuestion := make(map[uint]uint, len(poll.Questions))
	for _, q := range poll.Questions {
		for _, o := range q.Options {
			if o.OrderNum == q.CorrectIndex {
				correctOptionByQuestion[q.ID] = o.ID
			}
		}
	}

	roster, err := NewLobbyService(s.db).ListLobby(pollID)
	if err != nil {
		return nil, err
	}

	var votes []models.Vote
	if err := s.db.Where("poll_id = ?", pollID).Find(&votes).Error; err != nil {
		return nil, err
	}
	voteByUserQuestion := make(map[[2]uint]uint, len(votes))
	for _, v := range votes {
		voteByUserQuestion[[2]uint{v.UserID, v.QuestionID}] = v.OptionID
	}

	export := &ExportData{Stats: *stats}
	for _, member := range roster {
		row := AttendeeResult{Name: member.Name, StudentNumber: member.StudentNumber}
		for _, q := range poll.Questions {
			optionID, ok := voteByUserQuestion[[2]uint{member.UserID, q.ID}]
			if !ok {
				row.PerQuestion = append(row.PerQuestion, nil)
				continue
			}
			correct := optionID == correctOptionByQuestion[q.ID]
			row.PerQuestion = append(row.PerQuestion, &correct)
		}
		export.Attendees = append(export.Attendees, row)
	}

	return export, nil
}
