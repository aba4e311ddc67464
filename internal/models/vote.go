package models

import (
	"time"
)

// VoteDirection is the direction of a vote
type VoteDirection string

const (
	VoteUp   VoteDirection = "up"
	VoteDown VoteDirection = "down"
)

func (d VoteDirection) IsValid() bool {
	return d == VoteUp || d == VoteDown
}

// Vote records a single user's vote on a target. AnswerID is nil for a vote
// on the question itself. The composite unique index is the duplicate-vote
// guard: one row per (user, question, answer) triple.
type Vote struct {
	ID         uint          `gorm:"primaryKey" json:"id"`
	UserID     uint          `gorm:"not null;uniqueIndex:idx_vote_unique" json:"userId"`
	QuestionID uint          `gorm:"not null;uniqueIndex:idx_vote_unique" json:"questionId"`
	AnswerID   *uint         `gorm:"uniqueIndex:idx_vote_unique" json:"answerId"`
	VoteType   VoteDirection `gorm:"size:10;not null" json:"voteType"`
	CreatedAt  time.Time     `json:"createdAt"`
}

// TableName specifies the table name for Vote
func (Vote) TableName() string {
	return "votes"
}

// VoteAction is the resolved effect of applying a vote against the existing state
type VoteAction int

const (
	VoteCreated VoteAction = iota
	VoteRemoved
	VoteSwitched
)

// VotePlan describes the row mutation and the counter deltas that keep the
// target's denormalized upvotes/downvotes consistent with the vote rows.
type VotePlan struct {
	Action    VoteAction
	Direction VoteDirection
	UpDelta   int
	DownDelta int
}

// PlanVote decides what a vote request does given the caller's existing vote
// on the same target: no vote creates one, a repeat of the same direction
// toggles it off, the opposite direction flips it in place.
func PlanVote(existing *Vote, direction VoteDirection) VotePlan {
	plan := VotePlan{Direction: direction}

	switch {
	case existing == nil:
		plan.Action = VoteCreated
		if direction == VoteUp {
			plan.UpDelta = 1
		} else {
			plan.DownDelta = 1
		}
	case existing.VoteType == direction:
		plan.Action = VoteRemoved
		if direction == VoteUp {
			plan.UpDelta = -1
		} else {
			plan.DownDelta = -1
		}
	default:
		plan.Action = VoteSwitched
		if direction == VoteUp {
			plan.UpDelta = 1
			plan.DownDelta = -1
		} else {
			plan.UpDelta = -1
			plan.DownDelta = 1
		}
	}

	return plan
}

// ClampCounter floors a counter at zero. Counters must never go negative even
// if they have drifted out of sync with the vote rows.
func ClampCounter(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
