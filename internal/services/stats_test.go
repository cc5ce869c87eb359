package services

import (
	"testing"

	"classroom-poll-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Three attendees, two questions with correct indices [1, 0]: A votes both
// correct, B gets only q2 right, C never votes.
func TestGetStatsScenario(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, models.RoleLecturer, "")
	a := createUser(t, db, models.RoleStudent, "s1")
	b := createUser(t, db, models.RoleStudent, "s2")
	c := createUser(t, db, models.RoleStudent, "s3")
	poll := createPoll(t, db, owner.ID, models.PollStatusLive)

	lobby := NewLobbyService(db)
	for _, u := range []*models.User{a, b, c} {
		_, err := lobby.Join(poll.Code, u.ID, "")
		require.NoError(t, err)
	}

	votes := NewVoteService(db)
	require.NoError(t, votes.RecordChoice(poll.ID, a.ID, poll.Questions[0].ID, 1))
	require.NoError(t, votes.RecordChoice(poll.ID, a.ID, poll.Questions[1].ID, 0))
	require.NoError(t, votes.RecordChoice(poll.ID, b.ID, poll.Questions[0].ID, 0))
	require.NoError(t, votes.RecordChoice(poll.ID, b.ID, poll.Questions[1].ID, 0))

	stats, err := NewStatsService(db).GetStats(poll.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Attendance)
	require.Len(t, stats.Questions, 2)

	q1 := stats.Questions[0]
	assert.Equal(t, 2, q1.TotalAnswers)
	assert.Equal(t, 1, q1.CorrectAnswers)
	assert.Equal(t, 1, q1.Incorrect)
	assert.Equal(t, 1, q1.NotAnswered)

	q2 := stats.Questions[1]
	assert.Equal(t, 2, q2.TotalAnswers)
	assert.Equal(t, 2, q2.CorrectAnswers)
	assert.Equal(t, 0, q2.Incorrect)
	assert.Equal(t, 1, q2.NotAnswered)
}

func TestGetStatsClampsNegatives(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, models.RoleLecturer, "")
	student := createUser(t, db, models.RoleStudent, "s1")
	poll := createPoll(t, db, owner.ID, models.PollStatusLive)

	// Vote without attendance: more votes than attendees.
	require.NoError(t, NewVoteService(db).RecordChoice(poll.ID, student.ID, poll.Questions[0].ID, 1))

	stats, err := NewStatsService(db).GetStats(poll.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Attendance)
	for _, q := range stats.Questions {
		assert.GreaterOrEqual(t, q.NotAnswered, 0)
		assert.GreaterOrEqual(t, q.Incorrect, 0)
	}
	assert.Equal(t, 1, stats.Questions[0].TotalAnswers)
	assert.Equal(t, 0, stats.Questions[0].NotAnswered)
}

func TestGetStatsMissingPoll(t *testing.T) {
	db := newTestDB(t)
	_, err := NewStatsService(db).GetStats(42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetExportRosterAndOutcomes(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, models.RoleLecturer, "")
	a := createUser(t, db, models.RoleStudent, "s1")
	b := createUser(t, db, models.RoleStudent, "s2")
	poll := createPoll(t, db, owner.ID, models.PollStatusLive)

	lobby := NewLobbyService(db)
	for _, u := range []*models.User{a, b} {
		_, err := lobby.Join(poll.Code, u.ID, "")
		require.NoError(t, err)
	}

	votes := NewVoteService(db)
	require.NoError(t, votes.RecordChoice(poll.ID, a.ID, poll.Questions[0].ID, 1))
	require.NoError(t, votes.RecordChoice(poll.ID, a.ID, poll.Questions[1].ID, 1))

	export, err := NewStatsService(db).GetExport(poll.ID)
	require.NoError(t, err)
	require.Len(t, export.Attendees, 2)

	first := export.Attendees[0]
	assert.Equal(t, "s1", first.StudentNumber)
	require.Len(t, first.PerQuestion, 2)
	require.NotNil(t, first.PerQuestion[0])
	assert.True(t, *first.PerQuestion[0])
	require.NotNil(t, first.PerQuestion[1])
	assert.False(t, *first.PerQuestion[1])

	second := export.Attendees[1]
	assert.Nil(t, second.PerQuestion[0])
	assert.Nil(t, second.PerQuestion[1])
}
