package services

import (
	"testing"

	"classroom-poll-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinGuards(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, models.RoleLecturer, "")
	student := createUser(t, db, models.RoleStudent, "s1")
	svc := NewLobbyService(db)

	_, err := svc.Join("ZZZZZZ", student.ID, "")
	assert.ErrorIs(t, err, ErrNotFound)

	draft := createPoll(t, db, owner.ID, models.PollStatusDraft)
	_, err = svc.Join(draft.Code, student.ID, "")
	assert.ErrorIs(t, err, ErrNotJoinable)

	closed := createPoll(t, db, owner.ID, models.PollStatusClosed)
	_, err = svc.Join(closed.Code, student.ID, "")
	assert.ErrorIs(t, err, ErrNotJoinable)

	open := createPoll(t, db, owner.ID, models.PollStatusOpen)
	view, err := svc.Join(open.Code, student.ID, "")
	require.NoError(t, err)
	assert.Equal(t, open.ID, view.ID)
	require.Len(t, view.Questions, 2)
}

func TestJoinSecurityCode(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, models.RoleLecturer, "")
	student := createUser(t, db, models.RoleStudent, "s1")

	pollSvc := NewPollService(db)
	poll, err := pollSvc.CreatePoll(owner.ID, CreatePollInput{
		Title:           "gated",
		UseSecurityCode: true,
		Questions: []QuestionInput{
			{Text: "q", CorrectIndex: 0, Options: []OptionInput{{Text: "a"}, {Text: "b"}}},
		},
	})
	require.NoError(t, err)
	require.Len(t, poll.SecurityCode, 4)
	_, err = pollSvc.SetStatus(poll.ID, models.PollStatusOpen, owner.ID)
	require.NoError(t, err)

	svc := NewLobbyService(db)
	_, err = svc.Join(poll.Code, student.ID, "0000")
	assert.ErrorIs(t, err, ErrInvalidSecurityCode)
	_, err = svc.Join(poll.Code, student.ID, "")
	assert.ErrorIs(t, err, ErrInvalidSecurityCode)

	_, err = svc.Join(poll.Code, student.ID, poll.SecurityCode)
	require.NoError(t, err)
}

func TestJoinIdempotentKeepsJoinedAt(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, models.RoleLecturer, "")
	student := createUser(t, db, models.RoleStudent, "s1")
	poll := createPoll(t, db, owner.ID, models.PollStatusOpen)
	svc := NewLobbyService(db)

	_, err := svc.Join(poll.Code, student.ID, "")
	require.NoError(t, err)

	var first models.LobbyEntry
	require.NoError(t, db.Where("poll_id = ? AND user_id = ?", poll.ID, student.ID).First(&first).Error)

	_, err = svc.Join(poll.Code, student.ID, "")
	require.NoError(t, err)

	var entries []models.LobbyEntry
	require.NoError(t, db.Where("poll_id = ? AND user_id = ?", poll.ID, student.ID).Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].JoinedAt.Equal(first.JoinedAt), "joined_at must not reset on re-join")
}

func TestListLobbyOrderedByJoinTime(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, models.RoleLecturer, "")
	a := createUser(t, db, models.RoleStudent, "s1")
	b := createUser(t, db, models.RoleStudent, "s2")
	poll := createPoll(t, db, owner.ID, models.PollStatusOpen)
	svc := NewLobbyService(db)

	_, err := svc.Join(poll.Code, a.ID, "")
	require.NoError(t, err)
	_, err = svc.Join(poll.Code, b.ID, "")
	require.NoError(t, err)

	members, err := svc.ListLobby(poll.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "s1", members[0].StudentNumber)
	assert.Equal(t, "s2", members[1].StudentNumber)
	assert.NotEmpty(t, members[0].Name)
}

func TestKickRemovesPresenceNotWork(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, models.RoleLecturer, "")
	student := createUser(t, db, models.RoleStudent, "s1")
	poll := createPoll(t, db, owner.ID, models.PollStatusLive)
	svc := NewLobbyService(db)

	_, err := svc.Join(poll.Code, student.ID, "")
	require.NoError(t, err)
	require.NoError(t, NewVoteService(db).RecordChoice(poll.ID, student.ID, poll.Questions[0].ID, 1))

	kickedID, err := svc.Kick(poll.ID, "s1")
	require.NoError(t, err)
	assert.Equal(t, student.ID, kickedID)

	var lobbyCount, voteCount int64
	db.Model(&models.LobbyEntry{}).Where("poll_id = ?", poll.ID).Count(&lobbyCount)
	db.Model(&models.Vote{}).Where("poll_id = ?", poll.ID).Count(&voteCount)
	assert.Equal(t, int64(0), lobbyCount)
	assert.Equal(t, int64(1), voteCount, "kick must leave recorded votes alone")

	// The lingering vote stays counted in the aggregates.
	stats, err := NewStatsService(db).GetStats(poll.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Attendance)
	assert.Equal(t, 1, stats.Questions[0].TotalAnswers)
	assert.Equal(t, 0, stats.Questions[0].NotAnswered)

	_, err = svc.Kick(poll.ID, "s1")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Kick(poll.ID, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
