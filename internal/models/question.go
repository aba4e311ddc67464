package models

import (
	"time"
)

// Question sort keys accepted by the list endpoints
const (
	QuestionSortNewest      = "newest"
	QuestionSortOldest      = "oldest"
	QuestionSortMostAnswers = "most_answers"
	QuestionSortMostViews   = "most_views"
	QuestionSortBestVoted   = "best_voted"
)

// Question represents a posted question. AnswerCount, Upvotes and Downvotes
// are denormalized counters kept in sync by the answer and vote paths.
type Question struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Title            string    `gorm:"size:200;not null" json:"title"`
	Description      string    `gorm:"type:text;not null" json:"description"`
	Tags             []string  `gorm:"serializer:json" json:"tags"`
	AuthorID         uint      `gorm:"not null;index" json:"authorId"`
	Author           User      `gorm:"foreignKey:AuthorID" json:"-"`
	AnswerCount      int       `gorm:"default:0" json:"answerCount"`
	AcceptedAnswerID *uint     `json:"acceptedAnswerId"`
	ViewCount        int       `gorm:"default:0" json:"viewCount"`
	Upvotes          int       `gorm:"default:0" json:"upvotes"`
	Downvotes        int       `gorm:"default:0" json:"downvotes"`
	CreatedAt        time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// TableName specifies the table name for Question
func (Question) TableName() string {
	return "questions"
}

func (q *Question) VoteScore() int {
	return q.Upvotes - q.Downvotes
}

// Request
type CreateQuestionRequest struct {
	Title       string   `json:"title" binding:"required,min=10,max=200"`
	Description string   `json:"description" binding:"required,min=20"`
	Tags        []string `json:"tags" binding:"required,min=1,max=10"`
}

type UpdateQuestionRequest struct {
	Title       *string  `json:"title" binding:"omitempty,min=10,max=200"`
	Description *string  `json:"description" binding:"omitempty,min=20"`
	Tags        []string `json:"tags" binding:"omitempty,min=1,max=10"`
}

type QuestionVoteRequest struct {
	Type string `json:"type" binding:"required,oneof=up down"`
}

// ListQuestionsQuery carries the list endpoint filters after parsing.
type ListQuestionsQuery struct {
	Page     int
	Limit    int
	Search   string
	Tags     []string
	Sort     string
	AuthorID *uint
}

// Response
type QuestionResponse struct {
	ID               uint          `json:"id"`
	Title            string        `json:"title"`
	Description      string        `json:"description"`
	Tags             []string      `json:"tags"`
	AuthorID         uint          `json:"authorId"`
	Author           AuthorPreview `json:"author"`
	AnswerCount      int           `json:"answerCount"`
	AcceptedAnswerID *uint         `json:"acceptedAnswerId"`
	ViewCount        int           `json:"viewCount"`
	Upvotes          int           `json:"upvotes"`
	Downvotes        int           `json:"downvotes"`
	VoteScore        int           `json:"voteScore"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`
}

func (q *Question) ToResponse() QuestionResponse {
	tags := q.Tags
	if tags == nil {
		tags = []string{}
	}
	return QuestionResponse{
		ID:               q.ID,
		Title:            q.Title,
		Description:      q.Description,
		Tags:             tags,
		AuthorID:         q.AuthorID,
		Author:           q.Author.Preview(),
		AnswerCount:      q.AnswerCount,
		AcceptedAnswerID: q.AcceptedAnswerID,
		ViewCount:        q.ViewCount,
		Upvotes:          q.Upvotes,
		Downvotes:        q.Downvotes,
		VoteScore:        q.VoteScore(),
		CreatedAt:        q.CreatedAt,
		UpdatedAt:        q.UpdatedAt,
	}
}

// Pagination describes offset-based paging metadata on list responses.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

func NewPagination(page, limit int, total int64) Pagination {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}
