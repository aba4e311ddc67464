package postgres

import (
	"context"
	"errors"

	"qa-service/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AnswerRepository struct {
	db *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) *AnswerRepository {
	return &AnswerRepository{db: db}
}

// Create inserts the answer and bumps the question's answer count in the
// same transaction.
func (r *AnswerRepository) Create(ctx context.Context, answer *models.Answer) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(answer).Error; err != nil {
			return err
		}
		return tx.Model(&models.Question{}).
			Where("id = ?", answer.QuestionID).
			UpdateColumn("answer_count", gorm.Expr("answer_count + 1")).Error
	})
}

// FindByID returns (nil, nil) when the answer does not exist.
func (r *AnswerRepository) FindByID(ctx context.Context, id uint) (*models.Answer, error) {
	var answer models.Answer
	err := r.db.WithContext(ctx).Preload("Author").First(&answer, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &answer, nil
}

func (r *AnswerRepository) ListByQuestion(ctx context.Context, questionID uint, sort string) ([]models.Answer, error) {
	tx := r.db.WithContext(ctx).Where("question_id = ?", questionID)

	switch sort {
	case models.AnswerSortNewest:
		tx = tx.Order("created_at DESC")
	case models.AnswerSortOldest:
		tx = tx.Order("created_at ASC")
	default:
		tx = tx.Order("upvotes DESC, downvotes ASC")
	}

	var answers []models.Answer
	err := tx.Preload("Author").Find(&answers).Error
	return answers, err
}

func (r *AnswerRepository) Update(ctx context.Context, answer *models.Answer) error {
	return r.db.WithContext(ctx).Save(answer).Error
}

// Delete removes the answer and its votes and decrements the question's
// answer count, floored at zero, in one transaction. If the answer was the
// accepted one, the question's accepted_answer_id is cleared so it never
// points at a dead row.
func (r *AnswerRepository) Delete(ctx context.Context, answer *models.Answer) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("answer_id = ?", answer.ID).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Answer{}, answer.ID).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Question{}).
			Where("id = ? AND accepted_answer_id = ?", answer.QuestionID, answer.ID).
			Update("accepted_answer_id", nil).Error; err != nil {
			return err
		}
		return tx.Model(&models.Question{}).
			Where("id = ?", answer.QuestionID).
			UpdateColumn("answer_count", gorm.Expr("GREATEST(answer_count - 1, 0)")).Error
	})
}

// Accept marks the answer accepted and records it on the question. Any
// previously accepted answer on the same question is unset first, inside the
// same transaction, so a reader never observes two accepted answers. The
// question row is locked up front so concurrent accepts on the same question
// serialize instead of interleaving.
func (r *AnswerRepository) Accept(ctx context.Context, questionID, answerID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var question models.Question
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&question, questionID).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Answer{}).
			Where("question_id = ? AND id <> ? AND is_accepted", questionID, answerID).
			Update("is_accepted", false).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Answer{}).
			Where("id = ?", answerID).
			Update("is_accepted", true).Error; err != nil {
			return err
		}
		return tx.Model(&models.Question{}).
			Where("id = ?", questionID).
			Update("accepted_answer_id", answerID).Error
	})
}

// Unaccept clears the accepted state for a question. Kept separate from
// Accept so the transition is reusable on its own.
func (r *AnswerRepository) Unaccept(ctx context.Context, questionID, answerID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Answer{}).
			Where("id = ?", answerID).
			Update("is_accepted", false).Error; err != nil {
			return err
		}
		return tx.Model(&models.Question{}).
			Where("id = ? AND accepted_answer_id = ?", questionID, answerID).
			Update("accepted_answer_id", nil).Error
	})
}
