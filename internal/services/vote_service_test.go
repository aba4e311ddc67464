package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qa-service/internal/models"
)

type voteFixture struct {
	db          *memDB
	broadcaster *fakeBroadcaster
	votes       *VoteService
	author      *models.User
	voter       *models.User
	question    *models.Question
}

func newVoteFixture(t *testing.T) *voteFixture {
	t.Helper()
	db := newMemDB()
	broadcaster := &fakeBroadcaster{}
	notifications := NewNotificationService(&fakeNotificationRepo{db: db}, broadcaster)

	author := db.addUser(models.User{Username: "author"})
	voter := db.addUser(models.User{Username: "voter"})
	question := db.addQuestion(models.Question{Title: "How do goroutines get scheduled?", AuthorID: author.ID})

	return &voteFixture{
		db:          db,
		broadcaster: broadcaster,
		votes: NewVoteService(
			&fakeVoteRepo{db: db},
			&fakeQuestionRepo{db: db},
			&fakeAnswerRepo{db: db},
			notifications,
			broadcaster,
			nil,
		),
		author:   author,
		voter:    voter,
		question: question,
	}
}

func TestVoteQuestionCreate(t *testing.T) {
	ctx := context.Background()
	f := newVoteFixture(t)

	reloaded, plan, err := f.votes.VoteQuestion(ctx, f.voter, f.question.ID, models.VoteUp)
	require.NoError(t, err)
	assert.Equal(t, models.VoteCreated, plan.Action)
	assert.Equal(t, 1, reloaded.Upvotes)
	assert.Equal(t, 0, reloaded.Downvotes)

	updates := f.broadcaster.events("vote_updated")
	require.Len(t, updates, 1)
	assert.Equal(t, "question", updates[0].Room)
	assert.Equal(t, f.question.ID, updates[0].ID)

	// Author got a vote notification, persisted and pushed to their room.
	require.Len(t, f.db.notifications, 1)
	for _, n := range f.db.notifications {
		assert.Equal(t, f.author.ID, n.RecipientID)
		assert.Equal(t, models.NotificationTypeVote, n.Type)
	}
	pushes := f.broadcaster.events("new_notification")
	require.Len(t, pushes, 1)
	assert.Equal(t, f.author.ID, pushes[0].ID)
}

func TestVoteQuestionToggleRemoves(t *testing.T) {
	ctx := context.Background()
	f := newVoteFixture(t)

	_, _, err := f.votes.VoteQuestion(ctx, f.voter, f.question.ID, models.VoteUp)
	require.NoError(t, err)
	reloaded, plan, err := f.votes.VoteQuestion(ctx, f.voter, f.question.ID, models.VoteUp)
	require.NoError(t, err)

	assert.Equal(t, models.VoteRemoved, plan.Action)
	assert.Equal(t, 0, reloaded.Upvotes)
	assert.Equal(t, 0, reloaded.Downvotes)
	assert.Empty(t, f.db.votes)

	// Only the initial cast notifies; the toggle-off does not.
	assert.Len(t, f.db.notifications, 1)
}

func TestVoteQuestionSwitch(t *testing.T) {
	ctx := context.Background()
	f := newVoteFixture(t)

	_, _, err := f.votes.VoteQuestion(ctx, f.voter, f.question.ID, models.VoteUp)
	require.NoError(t, err)
	reloaded, plan, err := f.votes.VoteQuestion(ctx, f.voter, f.question.ID, models.VoteDown)
	require.NoError(t, err)

	assert.Equal(t, models.VoteSwitched, plan.Action)
	assert.Equal(t, 0, reloaded.Upvotes)
	assert.Equal(t, 1, reloaded.Downvotes)
	require.Len(t, f.db.votes, 1)
	assert.Equal(t, models.VoteDown, f.db.votes[0].VoteType)
}

func TestSelfVoteSuppressesNotification(t *testing.T) {
	ctx := context.Background()
	f := newVoteFixture(t)

	reloaded, _, err := f.votes.VoteQuestion(ctx, f.author, f.question.ID, models.VoteUp)
	require.NoError(t, err)

	assert.Equal(t, 1, reloaded.Upvotes)
	assert.Empty(t, f.db.notifications)
	assert.Empty(t, f.broadcaster.events("new_notification"))
	// The room still sees the counter change.
	assert.Len(t, f.broadcaster.events("vote_updated"), 1)
}

func TestVoteQuestionNotFound(t *testing.T) {
	f := newVoteFixture(t)

	_, _, err := f.votes.VoteQuestion(context.Background(), f.voter, 9999, models.VoteUp)
	assert.ErrorIs(t, err, ErrQuestionNotFound)
}

func TestVoteAnswer(t *testing.T) {
	ctx := context.Background()
	f := newVoteFixture(t)
	answerer := f.db.addUser(models.User{Username: "answerer"})
	answer := f.db.addAnswer(models.Answer{QuestionID: f.question.ID, AuthorID: answerer.ID, Content: "Use the scheduler."})

	reloaded, plan, err := f.votes.VoteAnswer(ctx, f.voter, answer.ID, models.VoteDown)
	require.NoError(t, err)
	assert.Equal(t, models.VoteCreated, plan.Action)
	assert.Equal(t, 1, reloaded.Downvotes)

	// Question counters untouched by an answer vote.
	assert.Equal(t, 0, f.db.questions[f.question.ID].Upvotes)
	assert.Equal(t, 0, f.db.questions[f.question.ID].Downvotes)

	updates := f.broadcaster.events("vote_updated")
	require.Len(t, updates, 1)
	assert.Equal(t, f.question.ID, updates[0].ID)

	require.Len(t, f.db.notifications, 1)
	for _, n := range f.db.notifications {
		assert.Equal(t, answerer.ID, n.RecipientID)
		require.NotNil(t, n.AnswerID)
		assert.Equal(t, answer.ID, *n.AnswerID)
	}
}

// Votes on a question and on one of its answers are independent rows.
func TestQuestionAndAnswerVotesAreIndependent(t *testing.T) {
	ctx := context.Background()
	f := newVoteFixture(t)
	answer := f.db.addAnswer(models.Answer{QuestionID: f.question.ID, AuthorID: f.author.ID, Content: "It depends."})

	_, _, err := f.votes.VoteQuestion(ctx, f.voter, f.question.ID, models.VoteUp)
	require.NoError(t, err)
	_, _, err = f.votes.VoteAnswer(ctx, f.voter, answer.ID, models.VoteUp)
	require.NoError(t, err)

	assert.Len(t, f.db.votes, 2)
	assert.Equal(t, 1, f.db.questions[f.question.ID].Upvotes)
	assert.Equal(t, 1, f.db.answers[answer.ID].Upvotes)

	// Removing the answer vote leaves the question vote alone.
	_, plan, err := f.votes.VoteAnswer(ctx, f.voter, answer.ID, models.VoteUp)
	require.NoError(t, err)
	assert.Equal(t, models.VoteRemoved, plan.Action)
	assert.Len(t, f.db.votes, 1)
	assert.Equal(t, 1, f.db.questions[f.question.ID].Upvotes)
}
