package services

import (
	"fmt"
	"testing"

	"classroom-poll-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	// Each sqlite :memory: connection is its own database, keep a single one.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Poll{},
		&models.Question{},
		&models.Option{},
		&models.LobbyEntry{},
		&models.Vote{},
		&models.Submission{},
		&models.Answer{},
	))
	return db
}

func createUser(t *testing.T, db *gorm.DB, role, studentNumber string) *models.User {
	t.Helper()

	user := models.User{
		Name:          fmt.Sprintf("%s %s", role, studentNumber),
		Email:         fmt.Sprintf("%s-%s@example.com", role, studentNumber),
		PasswordHash:  "x",
		Role:          role,
		StudentNumber: studentNumber,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

// createPoll seeds a lecturer-owned poll with two questions: q1 has options
// A/B/C with correct index 1, q2 has options A/B with correct index 0.
func createPoll(t *testing.T, db *gorm.DB, ownerID uint, status string) *models.Poll {
	t.Helper()

	svc := NewPollService(db)
	poll, err := svc.CreatePoll(ownerID, CreatePollInput{
		Title:       "Week 3 concepts",
		Description: "Live checkpoint",
		Questions: []QuestionInput{
			{
				Text:         "Which layer owns retransmission?",
				CorrectIndex: 1,
				Options:      []OptionInput{{Text: "IP"}, {Text: "TCP"}, {Text: "Ethernet"}},
			},
			{
				Text:         "Is ARP a link-layer protocol?",
				CorrectIndex: 0,
				Options:      []OptionInput{{Text: "Yes"}, {Text: "No"}},
			},
		},
	})
	require.NoError(t, err)

	if status != models.PollStatusDraft {
		poll, err = svc.SetStatus(poll.ID, status, ownerID)
		require.NoError(t, err)
	}
	return poll
}
