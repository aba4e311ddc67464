package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"qa-service/internal/models"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

func (r *QuestionRepository) Create(ctx context.Context, question *models.Question) error {
	return r.db.WithContext(ctx).Create(question).Error
}

// FindByID returns (nil, nil) when the question does not exist.
func (r *QuestionRepository) FindByID(ctx context.Context, id uint) (*models.Question, error) {
	var question models.Question
	err := r.db.WithContext(ctx).Preload("Author").First(&question, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &question, nil
}

// List applies search, tag filtering, sorting and offset pagination in one
// query pair. Search is a case-insensitive substring match across title,
// description and the serialized tag list.
func (r *QuestionRepository) List(ctx context.Context, query models.ListQuestionsQuery) ([]models.Question, int64, error) {
	tx := r.db.WithContext(ctx).Model(&models.Question{})

	if query.Search != "" {
		pattern := "%" + strings.ToLower(query.Search) + "%"
		tx = tx.Where(
			"LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(tags::text) LIKE ?",
			pattern, pattern, pattern,
		)
	}

	if len(query.Tags) > 0 {
		// Tags are stored as a JSON array; match any of the requested tags
		// against exact serialized elements.
		var conds []string
		var args []interface{}
		for _, tag := range query.Tags {
			conds = append(conds, "LOWER(tags::text) LIKE ?")
			args = append(args, fmt.Sprintf(`%%"%s"%%`, strings.ToLower(tag)))
		}
		tx = tx.Where(strings.Join(conds, " OR "), args...)
	}

	if query.AuthorID != nil {
		tx = tx.Where("author_id = ?", *query.AuthorID)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch query.Sort {
	case models.QuestionSortOldest:
		tx = tx.Order("created_at ASC")
	case models.QuestionSortMostAnswers:
		tx = tx.Order("answer_count DESC")
	case models.QuestionSortMostViews:
		tx = tx.Order("view_count DESC")
	case models.QuestionSortBestVoted:
		tx = tx.Order("(upvotes - downvotes) DESC")
	default:
		tx = tx.Order("created_at DESC")
	}

	var questions []models.Question
	err := tx.Preload("Author").
		Offset((query.Page - 1) * query.Limit).
		Limit(query.Limit).
		Find(&questions).Error
	if err != nil {
		return nil, 0, err
	}

	return questions, total, nil
}

func (r *QuestionRepository) Update(ctx context.Context, question *models.Question) error {
	return r.db.WithContext(ctx).Save(question).Error
}

// Delete removes the question together with its answers and votes in one
// transaction, so no dangling references survive.
func (r *QuestionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", id).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("question_id = ?", id).Delete(&models.Answer{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Question{}, id).Error
	})
}

// IncrementViewCount bumps the counter in a single statement so concurrent
// reads do not lose updates.
func (r *QuestionRepository) IncrementViewCount(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Question{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}
