package services

import (
	"time"

	"classroom-poll-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LobbyService struct {
	db *gorm.DB
}

func NewLobbyService(db *gorm.DB) *LobbyService {
	return &LobbyService{db: db}
}

// Join registers attendance for the poll with the given join code. Joining
// again is a no-op that keeps the original joined_at. Returns the poll
// shaped for a participant.
func (s *LobbyService) Join(code string, userID uint, securityCode string) (*ParticipantView, error) {
	var poll models.Poll
	if err := s.db.Where("code = ?", code).First(&poll).Error; err != nil {
		return nil, ErrNotFound
	}

	if poll.Status != models.PollStatusOpen && poll.Status != models.PollStatusLive {
		return nil, ErrNotJoinable
	}

	if poll.SecurityCode != "" && poll.SecurityCode != securityCode {
		return nil, ErrInvalidSecurityCode
	}

	entry := models.LobbyEntry{
		PollID:   poll.ID,
		UserID:   userID,
		JoinedAt: time.Now(),
	}
	// Single-statement upsert keyed on (poll_id, user_id); a re-join must not
	// reset joined_at, so conflicts do nothing.
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "poll_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(&entry).Error
	if err != nil {
		return nil, err
	}

	hydrated, err := NewPollService(s.db).loadPoll(poll.ID)
	if err != nil {
		return nil, err
	}
	return NewParticipantView(hydrated), nil
}

// LobbyMember is one roster row: the participant resolved to their display
// name and student number.
type LobbyMember struct {
	UserID        uint      `json:"user_id"`
	Name          string    `json:"name"`
	StudentNumber string    `json:"student_number"`
	JoinedAt      time.Time `json:"joined_at"`
}

func (s *LobbyService) ListLobby(pollID uint) ([]LobbyMember, error) {
	var entries []models.LobbyEntry
	if err := s.db.Where("poll_id = ?", pollID).Order("joined_at ASC").Find(&entries).Error; err != nil {
		return nil, err
	}

	members := make([]LobbyMember, 0, len(entries))
	for _, e := range entries {
		var user models.User
		if err := s.db.First(&user, e.UserID).Error; err != nil {
			continue
		}
		members = append(members, LobbyMember{
			UserID:        user.ID,
			Name:          user.Name,
			StudentNumber: user.StudentNumber,
			JoinedAt:      e.JoinedAt,
		})
	}
	return members, nil
}

// Kick removes the participant's lobby entry for this poll only. Their votes
// and submission are left alone: kicking removes presence, not recorded work.
// Returns the kicked user's id so the caller can notify the broadcast layer.
func (s *LobbyService) Kick(pollID uint, studentNumber string) (uint, error) {
	var user models.User
	if err := s.db.Where("student_number = ?", studentNumber).First(&user).Error; err != nil {
		return 0, ErrNotFound
	}

	result := s.db.Where("poll_id = ? AND user_id = ?", pollID, user.ID).Delete(&models.LobbyEntry{})
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, ErrNotFound
	}
	return user.ID, nil
}
