package postgres

import (
	"context"
	"errors"

	"qa-service/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VoteRepository struct {
	db *gorm.DB
}

func NewVoteRepository(db *gorm.DB) *VoteRepository {
	return &VoteRepository{db: db}
}

// Reconcile applies one user's vote to a target inside a single transaction.
// The target row is locked first, so the vote row mutation and the counter
// update commit together and concurrent votes on the same target serialize
// instead of losing updates. answerID is nil for a vote on the question.
func (r *VoteRepository) Reconcile(ctx context.Context, userID, questionID uint, answerID *uint, direction models.VoteDirection) (models.VotePlan, error) {
	var plan models.VotePlan

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		locked := tx.Clauses(clause.Locking{Strength: "UPDATE"})

		var upvotes, downvotes int
		if answerID != nil {
			var answer models.Answer
			if err := locked.First(&answer, *answerID).Error; err != nil {
				return err
			}
			upvotes, downvotes = answer.Upvotes, answer.Downvotes
		} else {
			var question models.Question
			if err := locked.First(&question, questionID).Error; err != nil {
				return err
			}
			upvotes, downvotes = question.Upvotes, question.Downvotes
		}

		existing, err := r.findVote(tx, userID, questionID, answerID)
		if err != nil {
			return err
		}

		plan = models.PlanVote(existing, direction)

		switch plan.Action {
		case models.VoteCreated:
			vote := &models.Vote{
				UserID:     userID,
				QuestionID: questionID,
				AnswerID:   answerID,
				VoteType:   direction,
			}
			if err := tx.Create(vote).Error; err != nil {
				return err
			}
		case models.VoteRemoved:
			if err := tx.Delete(&models.Vote{}, existing.ID).Error; err != nil {
				return err
			}
		case models.VoteSwitched:
			if err := tx.Model(&models.Vote{}).
				Where("id = ?", existing.ID).
				Update("vote_type", direction).Error; err != nil {
				return err
			}
		}

		counters := map[string]interface{}{
			"upvotes":   models.ClampCounter(upvotes + plan.UpDelta),
			"downvotes": models.ClampCounter(downvotes + plan.DownDelta),
		}
		if answerID != nil {
			return tx.Model(&models.Answer{}).Where("id = ?", *answerID).UpdateColumns(counters).Error
		}
		return tx.Model(&models.Question{}).Where("id = ?", questionID).UpdateColumns(counters).Error
	})

	return plan, err
}

func (r *VoteRepository) findVote(tx *gorm.DB, userID, questionID uint, answerID *uint) (*models.Vote, error) {
	query := tx.Where("user_id = ? AND question_id = ?", userID, questionID)
	if answerID != nil {
		query = query.Where("answer_id = ?", *answerID)
	} else {
		query = query.Where("answer_id IS NULL")
	}

	var vote models.Vote
	err := query.First(&vote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &vote, nil
}

// CountForTarget recounts live vote rows for a target, one direction at a
// time. Used by the reconciliation repair pass when counters have drifted.
func (r *VoteRepository) CountForTarget(ctx context.Context, questionID uint, answerID *uint, direction models.VoteDirection) (int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Vote{}).
		Where("question_id = ? AND vote_type = ?", questionID, direction)
	if answerID != nil {
		query = query.Where("answer_id = ?", *answerID)
	} else {
		query = query.Where("answer_id IS NULL")
	}

	var count int64
	err := query.Count(&count).Error
	return count, err
}
