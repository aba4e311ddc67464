package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanVote(t *testing.T) {
	answerID := uint(7)

	tests := []struct {
		name      string
		existing  *Vote
		direction VoteDirection
		action    VoteAction
		upDelta   int
		downDelta int
	}{
		{
			name:      "first upvote creates",
			existing:  nil,
			direction: VoteUp,
			action:    VoteCreated,
			upDelta:   1,
		},
		{
			name:      "first downvote creates",
			existing:  nil,
			direction: VoteDown,
			action:    VoteCreated,
			downDelta: 1,
		},
		{
			name:      "repeated upvote toggles off",
			existing:  &Vote{UserID: 1, QuestionID: 2, VoteType: VoteUp},
			direction: VoteUp,
			action:    VoteRemoved,
			upDelta:   -1,
		},
		{
			name:      "repeated downvote toggles off",
			existing:  &Vote{UserID: 1, QuestionID: 2, AnswerID: &answerID, VoteType: VoteDown},
			direction: VoteDown,
			action:    VoteRemoved,
			downDelta: -1,
		},
		{
			name:      "up to down switches in place",
			existing:  &Vote{UserID: 1, QuestionID: 2, VoteType: VoteUp},
			direction: VoteDown,
			action:    VoteSwitched,
			upDelta:   -1,
			downDelta: 1,
		},
		{
			name:      "down to up switches in place",
			existing:  &Vote{UserID: 1, QuestionID: 2, VoteType: VoteDown},
			direction: VoteUp,
			action:    VoteSwitched,
			upDelta:   1,
			downDelta: -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := PlanVote(tt.existing, tt.direction)
			assert.Equal(t, tt.action, plan.Action)
			assert.Equal(t, tt.direction, plan.Direction)
			assert.Equal(t, tt.upDelta, plan.UpDelta)
			assert.Equal(t, tt.downDelta, plan.DownDelta)
		})
	}
}

// Simulates a user's vote sequence against one target, tracking the vote row
// and counters through the plans the way the repository applies them.
type voteSim struct {
	existing  *Vote
	upvotes   int
	downvotes int
}

func (s *voteSim) apply(direction VoteDirection) {
	plan := PlanVote(s.existing, direction)
	switch plan.Action {
	case VoteCreated:
		s.existing = &Vote{VoteType: direction}
	case VoteRemoved:
		s.existing = nil
	case VoteSwitched:
		s.existing.VoteType = direction
	}
	s.upvotes = ClampCounter(s.upvotes + plan.UpDelta)
	s.downvotes = ClampCounter(s.downvotes + plan.DownDelta)
}

func TestVoteToggleRoundTrip(t *testing.T) {
	sim := &voteSim{upvotes: 3, downvotes: 1}

	sim.apply(VoteUp)
	require.NotNil(t, sim.existing)
	assert.Equal(t, 4, sim.upvotes)

	sim.apply(VoteUp)
	assert.Nil(t, sim.existing, "toggle-off must leave no vote")
	assert.Equal(t, 3, sim.upvotes, "upvotes back to baseline")
	assert.Equal(t, 1, sim.downvotes)
}

func TestVoteSwitchKeepsSingleRow(t *testing.T) {
	sim := &voteSim{upvotes: 3, downvotes: 1}

	sim.apply(VoteUp)
	sim.apply(VoteDown)

	require.NotNil(t, sim.existing)
	assert.Equal(t, VoteDown, sim.existing.VoteType)
	assert.Equal(t, 3, sim.upvotes, "upvotes back to baseline")
	assert.Equal(t, 2, sim.downvotes, "downvotes baseline plus one")
}

func TestCountersNeverNegative(t *testing.T) {
	// Start from drifted counters that are already at zero; any sequence of
	// toggles must keep both counters non-negative.
	sim := &voteSim{existing: &Vote{VoteType: VoteUp}}

	sequence := []VoteDirection{VoteUp, VoteDown, VoteDown, VoteUp, VoteUp, VoteDown}
	for _, dir := range sequence {
		sim.apply(dir)
		assert.GreaterOrEqual(t, sim.upvotes, 0)
		assert.GreaterOrEqual(t, sim.downvotes, 0)
	}
}

func TestClampCounter(t *testing.T) {
	assert.Equal(t, 0, ClampCounter(-1))
	assert.Equal(t, 0, ClampCounter(0))
	assert.Equal(t, 5, ClampCounter(5))
}

func TestVoteDirectionIsValid(t *testing.T) {
	assert.True(t, VoteUp.IsValid())
	assert.True(t, VoteDown.IsValid())
	assert.False(t, VoteDirection("sideways").IsValid())
}
