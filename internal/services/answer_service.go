package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"qa-service/internal/adapters/kafka"
	"qa-service/internal/models"
)

var ErrAnswerNotFound = errors.New("answer not found")

type AnswerRepository interface {
	Create(ctx context.Context, answer *models.Answer) error
	FindByID(ctx context.Context, id uint) (*models.Answer, error)
	ListByQuestion(ctx context.Context, questionID uint, sort string) ([]models.Answer, error)
	Update(ctx context.Context, answer *models.Answer) error
	Delete(ctx context.Context, answer *models.Answer) error
	Accept(ctx context.Context, questionID, answerID uint) error
	Unaccept(ctx context.Context, questionID, answerID uint) error
}

type AnswerService struct {
	answers       AnswerRepository
	questions     QuestionRepository
	notifications Notifier
	broadcaster   Broadcaster
	producer      *kafka.Producer
}

func NewAnswerService(
	answers AnswerRepository,
	questions QuestionRepository,
	notifications Notifier,
	broadcaster Broadcaster,
	producer *kafka.Producer,
) *AnswerService {
	return &AnswerService{
		answers:       answers,
		questions:     questions,
		notifications: notifications,
		broadcaster:   broadcaster,
		producer:      producer,
	}
}

func (s *AnswerService) Create(ctx context.Context, author *models.User, questionID uint, req *models.CreateAnswerRequest) (*models.Answer, error) {
	question, err := s.questions.FindByID(ctx, questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load question: %w", err)
	}
	if question == nil {
		return nil, ErrQuestionNotFound
	}

	answer := &models.Answer{
		QuestionID: questionID,
		AuthorID:   author.ID,
		Content:    strings.TrimSpace(req.Content),
	}
	if err := s.answers.Create(ctx, answer); err != nil {
		return nil, fmt.Errorf("failed to create answer: %w", err)
	}
	answer.Author = *author

	if question.AuthorID != author.ID {
		s.notify(ctx, &models.Notification{
			RecipientID: question.AuthorID,
			Type:        models.NotificationTypeAnswer,
			QuestionID:  questionID,
			AnswerID:    &answer.ID,
			SenderID:    &author.ID,
			Content:     fmt.Sprintf("%s answered your question \"%s\"", author.Username, question.Title),
		})
	}

	if s.broadcaster != nil {
		s.broadcaster.ToQuestion(questionID, "new_answer", answer.ToResponse())
	}

	s.producer.Publish(ctx, kafka.Event{
		Type:       kafka.EventAnswerCreated,
		QuestionID: questionID,
		AnswerID:   &answer.ID,
		ActorID:    author.ID,
		At:         time.Now(),
	})

	return answer, nil
}

func (s *AnswerService) ListForQuestion(ctx context.Context, questionID uint, sort string) ([]models.AnswerResponse, error) {
	question, err := s.questions.FindByID(ctx, questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load question: %w", err)
	}
	if question == nil {
		return nil, ErrQuestionNotFound
	}

	switch sort {
	case models.AnswerSortVotes, models.AnswerSortNewest, models.AnswerSortOldest:
	default:
		sort = models.AnswerSortVotes
	}

	answers, err := s.answers.ListByQuestion(ctx, questionID, sort)
	if err != nil {
		return nil, fmt.Errorf("failed to list answers: %w", err)
	}

	responses := make([]models.AnswerResponse, 0, len(answers))
	for i := range answers {
		responses = append(responses, answers[i].ToResponse())
	}
	return responses, nil
}

func (s *AnswerService) Update(ctx context.Context, actor *models.User, id uint, req *models.UpdateAnswerRequest) (*models.Answer, error) {
	answer, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if answer.AuthorID != actor.ID {
		return nil, ErrForbidden
	}

	answer.Content = strings.TrimSpace(req.Content)
	if err := s.answers.Update(ctx, answer); err != nil {
		return nil, fmt.Errorf("failed to update answer: %w", err)
	}
	return answer, nil
}

// Delete removes an answer and its votes, decrements the question's answer
// counter and, if this was the accepted answer, clears the acceptance.
func (s *AnswerService) Delete(ctx context.Context, actor *models.User, id uint) error {
	answer, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if answer.AuthorID != actor.ID && !actor.IsAdmin() {
		return ErrForbidden
	}

	if err := s.answers.Delete(ctx, answer); err != nil {
		return fmt.Errorf("failed to delete answer: %w", err)
	}
	return nil
}

// Accept marks an answer as the accepted one for its question. Only the
// question's author may accept; any previously accepted answer is unset in
// the same transaction. Re-accepting the same answer is a no-op success.
func (s *AnswerService) Accept(ctx context.Context, actor *models.User, answerID uint) (*models.Answer, error) {
	answer, err := s.get(ctx, answerID)
	if err != nil {
		return nil, err
	}

	question, err := s.questions.FindByID(ctx, answer.QuestionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load question: %w", err)
	}
	if question == nil {
		return nil, ErrQuestionNotFound
	}
	if question.AuthorID != actor.ID {
		return nil, ErrForbidden
	}

	if err := s.answers.Accept(ctx, question.ID, answer.ID); err != nil {
		return nil, fmt.Errorf("failed to accept answer: %w", err)
	}
	answer.IsAccepted = true

	if answer.AuthorID != actor.ID {
		s.notify(ctx, &models.Notification{
			RecipientID: answer.AuthorID,
			Type:        models.NotificationTypeAccept,
			QuestionID:  question.ID,
			AnswerID:    &answer.ID,
			SenderID:    &actor.ID,
			Content:     fmt.Sprintf("%s accepted your answer on \"%s\"", actor.Username, question.Title),
		})
	}

	if s.broadcaster != nil {
		s.broadcaster.ToQuestion(question.ID, "answer_accepted", map[string]interface{}{
			"questionId": question.ID,
			"answerId":   answer.ID,
		})
	}

	s.producer.Publish(ctx, kafka.Event{
		Type:       kafka.EventAnswerAccepted,
		QuestionID: question.ID,
		AnswerID:   &answer.ID,
		ActorID:    actor.ID,
		At:         time.Now(),
	})

	return answer, nil
}

func (s *AnswerService) get(ctx context.Context, id uint) (*models.Answer, error) {
	answer, err := s.answers.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load answer: %w", err)
	}
	if answer == nil {
		return nil, ErrAnswerNotFound
	}
	return answer, nil
}

func (s *AnswerService) notify(ctx context.Context, notification *models.Notification) {
	if s.notifications == nil {
		return
	}
	if err := s.notifications.Notify(ctx, notification); err != nil {
		slog.Error("Failed to deliver notification", "recipientID", notification.RecipientID, "error", err)
	}
}
