package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"qa-service/internal/adapters/kafka"
	"qa-service/internal/models"
)

type VoteRepository interface {
	Reconcile(ctx context.Context, userID, questionID uint, answerID *uint, direction models.VoteDirection) (models.VotePlan, error)
}

// Notifier persists and fans out a notification. The notification service
// satisfies it.
type Notifier interface {
	Notify(ctx context.Context, notification *models.Notification) error
}

// VoteService runs the vote reconciliation for both questions and answers and
// carries out its side effects: author notification, room broadcast and the
// event stream. The vote itself is committed first; side effects are best
// effort.
type VoteService struct {
	votes         VoteRepository
	questions     QuestionRepository
	answers       AnswerRepository
	notifications Notifier
	broadcaster   Broadcaster
	producer      *kafka.Producer
}

func NewVoteService(
	votes VoteRepository,
	questions QuestionRepository,
	answers AnswerRepository,
	notifications Notifier,
	broadcaster Broadcaster,
	producer *kafka.Producer,
) *VoteService {
	return &VoteService{
		votes:         votes,
		questions:     questions,
		answers:       answers,
		notifications: notifications,
		broadcaster:   broadcaster,
		producer:      producer,
	}
}

func (s *VoteService) VoteQuestion(ctx context.Context, actor *models.User, questionID uint, direction models.VoteDirection) (*models.Question, models.VotePlan, error) {
	question, err := s.questions.FindByID(ctx, questionID)
	if err != nil {
		return nil, models.VotePlan{}, fmt.Errorf("failed to load question: %w", err)
	}
	if question == nil {
		return nil, models.VotePlan{}, ErrQuestionNotFound
	}

	plan, err := s.votes.Reconcile(ctx, actor.ID, questionID, nil, direction)
	if err != nil {
		return nil, models.VotePlan{}, fmt.Errorf("failed to reconcile vote: %w", err)
	}

	reloaded, err := s.questions.FindByID(ctx, questionID)
	if err != nil || reloaded == nil {
		return nil, models.VotePlan{}, fmt.Errorf("failed to reload question: %w", err)
	}

	if s.broadcaster != nil {
		s.broadcaster.ToQuestion(questionID, "vote_updated", map[string]interface{}{
			"questionId": questionID,
			"upvotes":    reloaded.Upvotes,
			"downvotes":  reloaded.Downvotes,
			"voteScore":  reloaded.VoteScore(),
		})
	}

	if plan.Action == models.VoteCreated && question.AuthorID != actor.ID {
		s.notify(ctx, &models.Notification{
			RecipientID: question.AuthorID,
			Type:        models.NotificationTypeVote,
			QuestionID:  questionID,
			SenderID:    &actor.ID,
			Content:     fmt.Sprintf("%s %s your question \"%s\"", actor.Username, voteVerb(direction), question.Title),
		})
	}

	s.producer.Publish(ctx, kafka.Event{
		Type:       kafka.EventVoteCast,
		QuestionID: questionID,
		ActorID:    actor.ID,
		At:         time.Now(),
	})

	return reloaded, plan, nil
}

func (s *VoteService) VoteAnswer(ctx context.Context, actor *models.User, answerID uint, direction models.VoteDirection) (*models.Answer, models.VotePlan, error) {
	answer, err := s.answers.FindByID(ctx, answerID)
	if err != nil {
		return nil, models.VotePlan{}, fmt.Errorf("failed to load answer: %w", err)
	}
	if answer == nil {
		return nil, models.VotePlan{}, ErrAnswerNotFound
	}

	plan, err := s.votes.Reconcile(ctx, actor.ID, answer.QuestionID, &answerID, direction)
	if err != nil {
		return nil, models.VotePlan{}, fmt.Errorf("failed to reconcile vote: %w", err)
	}

	reloaded, err := s.answers.FindByID(ctx, answerID)
	if err != nil || reloaded == nil {
		return nil, models.VotePlan{}, fmt.Errorf("failed to reload answer: %w", err)
	}

	if s.broadcaster != nil {
		s.broadcaster.ToQuestion(answer.QuestionID, "vote_updated", map[string]interface{}{
			"questionId": answer.QuestionID,
			"answerId":   answerID,
			"upvotes":    reloaded.Upvotes,
			"downvotes":  reloaded.Downvotes,
			"voteScore":  reloaded.VoteScore(),
		})
	}

	if plan.Action == models.VoteCreated && answer.AuthorID != actor.ID {
		s.notify(ctx, &models.Notification{
			RecipientID: answer.AuthorID,
			Type:        models.NotificationTypeVote,
			QuestionID:  answer.QuestionID,
			AnswerID:    &answerID,
			SenderID:    &actor.ID,
			Content:     fmt.Sprintf("%s %s your answer", actor.Username, voteVerb(direction)),
		})
	}

	s.producer.Publish(ctx, kafka.Event{
		Type:       kafka.EventVoteCast,
		QuestionID: answer.QuestionID,
		AnswerID:   &answerID,
		ActorID:    actor.ID,
		At:         time.Now(),
	})

	return reloaded, plan, nil
}

// notify is best effort: the vote is already committed, a failed notification
// must not fail the request.
func (s *VoteService) notify(ctx context.Context, notification *models.Notification) {
	if s.notifications == nil {
		return
	}
	if err := s.notifications.Notify(ctx, notification); err != nil {
		slog.Error("Failed to deliver vote notification", "recipientID", notification.RecipientID, "error", err)
	}
}

func voteVerb(direction models.VoteDirection) string {
	if direction == models.VoteUp {
		return "upvoted"
	}
	return "downvoted"
}
