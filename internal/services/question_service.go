package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"qa-service/internal/models"
)

var (
	ErrQuestionNotFound = errors.New("question not found")
	ErrInvalidTag       = errors.New("tags must be non-empty and at most 20 characters")
)

const (
	defaultQuestionLimit = 10
	maxPageLimit         = 100
	maxTagLength         = 20
)

type QuestionRepository interface {
	Create(ctx context.Context, question *models.Question) error
	FindByID(ctx context.Context, id uint) (*models.Question, error)
	List(ctx context.Context, query models.ListQuestionsQuery) ([]models.Question, int64, error)
	Update(ctx context.Context, question *models.Question) error
	Delete(ctx context.Context, id uint) error
	IncrementViewCount(ctx context.Context, id uint) error
}

type QuestionService struct {
	questions QuestionRepository
}

func NewQuestionService(questions QuestionRepository) *QuestionService {
	return &QuestionService{questions: questions}
}

func (s *QuestionService) Create(ctx context.Context, author *models.User, req *models.CreateQuestionRequest) (*models.Question, error) {
	tags, err := normalizeTags(req.Tags)
	if err != nil {
		return nil, err
	}

	question := &models.Question{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Tags:        tags,
		AuthorID:    author.ID,
	}
	if err := s.questions.Create(ctx, question); err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}
	question.Author = *author
	return question, nil
}

// Get loads a question by id. countView increments the view counter, used on
// the public detail endpoint but not on internal lookups.
func (s *QuestionService) Get(ctx context.Context, id uint, countView bool) (*models.Question, error) {
	question, err := s.questions.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load question: %w", err)
	}
	if question == nil {
		return nil, ErrQuestionNotFound
	}

	if countView {
		if err := s.questions.IncrementViewCount(ctx, id); err != nil {
			return nil, fmt.Errorf("failed to count view: %w", err)
		}
		question.ViewCount++
	}
	return question, nil
}

func (s *QuestionService) List(ctx context.Context, query models.ListQuestionsQuery) ([]models.QuestionResponse, models.Pagination, error) {
	if query.Page < 1 {
		query.Page = 1
	}
	if query.Limit < 1 {
		query.Limit = defaultQuestionLimit
	}
	if query.Limit > maxPageLimit {
		query.Limit = maxPageLimit
	}
	switch query.Sort {
	case models.QuestionSortNewest, models.QuestionSortOldest, models.QuestionSortMostAnswers,
		models.QuestionSortMostViews, models.QuestionSortBestVoted:
	default:
		query.Sort = models.QuestionSortNewest
	}
	for i, tag := range query.Tags {
		query.Tags[i] = strings.ToLower(strings.TrimSpace(tag))
	}

	questions, total, err := s.questions.List(ctx, query)
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("failed to list questions: %w", err)
	}

	responses := make([]models.QuestionResponse, 0, len(questions))
	for i := range questions {
		responses = append(responses, questions[i].ToResponse())
	}
	return responses, models.NewPagination(query.Page, query.Limit, total), nil
}

func (s *QuestionService) Update(ctx context.Context, actor *models.User, id uint, req *models.UpdateQuestionRequest) (*models.Question, error) {
	question, err := s.Get(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if question.AuthorID != actor.ID && !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	if req.Title != nil {
		question.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		question.Description = strings.TrimSpace(*req.Description)
	}
	if req.Tags != nil {
		tags, err := normalizeTags(req.Tags)
		if err != nil {
			return nil, err
		}
		question.Tags = tags
	}

	if err := s.questions.Update(ctx, question); err != nil {
		return nil, fmt.Errorf("failed to update question: %w", err)
	}
	return question, nil
}

// Delete removes a question together with its answers and votes.
func (s *QuestionService) Delete(ctx context.Context, actor *models.User, id uint) error {
	question, err := s.Get(ctx, id, false)
	if err != nil {
		return err
	}
	if question.AuthorID != actor.ID && !actor.IsAdmin() {
		return ErrForbidden
	}

	if err := s.questions.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	return nil
}

// normalizeTags lowercases and trims tags, drops duplicates and rejects empty
// or oversized ones.
func normalizeTags(tags []string) ([]string, error) {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" || len(tag) > maxTagLength {
			return nil, ErrInvalidTag
		}
		if seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	if len(out) == 0 {
		return nil, ErrInvalidTag
	}
	return out, nil
}
