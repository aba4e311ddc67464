package models

import (
	"time"
)

// Answer sort keys accepted by the per-question list endpoint
const (
	AnswerSortVotes  = "votes"
	AnswerSortNewest = "newest"
	AnswerSortOldest = "oldest"
)

// Answer represents an answer to a question. At most one answer per question
// has IsAccepted set.
type Answer struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	QuestionID uint      `gorm:"not null;index" json:"questionId"`
	AuthorID   uint      `gorm:"not null;index" json:"authorId"`
	Author     User      `gorm:"foreignKey:AuthorID" json:"-"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	Upvotes    int       `gorm:"default:0" json:"upvotes"`
	Downvotes  int       `gorm:"default:0" json:"downvotes"`
	IsAccepted bool      `gorm:"default:false;index" json:"isAccepted"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// TableName specifies the table name for Answer
func (Answer) TableName() string {
	return "answers"
}

func (a *Answer) VoteScore() int {
	return a.Upvotes - a.Downvotes
}

// Request
type CreateAnswerRequest struct {
	Content string `json:"content" binding:"required,min=10"`
}

type UpdateAnswerRequest struct {
	Content string `json:"content" binding:"required,min=10"`
}

// AnswerVoteRequest uses the upvote/downvote vocabulary of the answer
// endpoint; handlers map it onto the shared up/down directions.
type AnswerVoteRequest struct {
	VoteType string `json:"voteType" binding:"required,oneof=upvote downvote"`
}

// Response
type AnswerResponse struct {
	ID         uint          `json:"id"`
	QuestionID uint          `json:"questionId"`
	AuthorID   uint          `json:"authorId"`
	Author     AuthorPreview `json:"author"`
	Content    string        `json:"content"`
	Upvotes    int           `json:"upvotes"`
	Downvotes  int           `json:"downvotes"`
	VoteScore  int           `json:"voteScore"`
	IsAccepted bool          `json:"isAccepted"`
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`
}

func (a *Answer) ToResponse() AnswerResponse {
	return AnswerResponse{
		ID:         a.ID,
		QuestionID: a.QuestionID,
		AuthorID:   a.AuthorID,
		Author:     a.Author.Preview(),
		Content:    a.Content,
		Upvotes:    a.Upvotes,
		Downvotes:  a.Downvotes,
		VoteScore:  a.VoteScore(),
		IsAccepted: a.IsAccepted,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}
