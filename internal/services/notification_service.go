package services

import (
	"context"
	"errors"
	"fmt"

	"qa-service/internal/models"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrForbidden            = errors.New("you do not have permission to perform this action")
)

// Broadcaster pushes server events to websocket rooms. The hub satisfies it;
// tests substitute a recorder.
type Broadcaster interface {
	ToUser(userID uint, event string, data interface{})
	ToQuestion(questionID uint, event string, data interface{})
}

type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	FindByID(ctx context.Context, id uint) (*models.Notification, error)
	ListByRecipient(ctx context.Context, recipientID uint, page, limit int) ([]models.Notification, int64, error)
	CountUnread(ctx context.Context, recipientID uint) (int64, error)
	MarkRead(ctx context.Context, id uint) error
	MarkAllRead(ctx context.Context, recipientID uint) error
	Delete(ctx context.Context, id uint) error
}

type NotificationService struct {
	notifications NotificationRepository
	broadcaster   Broadcaster
}

func NewNotificationService(notifications NotificationRepository, broadcaster Broadcaster) *NotificationService {
	return &NotificationService{notifications: notifications, broadcaster: broadcaster}
}

// Notify persists a notification and pushes it to the recipient's user room.
func (s *NotificationService) Notify(ctx context.Context, notification *models.Notification) error {
	if err := s.notifications.Create(ctx, notification); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	if s.broadcaster != nil {
		s.broadcaster.ToUser(notification.RecipientID, "new_notification", notification.ToResponse())
	}
	return nil
}

func (s *NotificationService) List(ctx context.Context, recipientID uint, page, limit int) ([]models.NotificationResponse, models.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	notifications, total, err := s.notifications.ListByRecipient(ctx, recipientID, page, limit)
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("failed to list notifications: %w", err)
	}

	responses := make([]models.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		responses = append(responses, notifications[i].ToResponse())
	}
	return responses, models.NewPagination(page, limit, total), nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, recipientID uint) (int64, error) {
	count, err := s.notifications.CountUnread(ctx, recipientID)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, recipientID, id uint) error {
	notification, err := s.find(ctx, recipientID, id)
	if err != nil {
		return err
	}
	if err := s.notifications.MarkRead(ctx, notification.ID); err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, recipientID uint) error {
	if err := s.notifications.MarkAllRead(ctx, recipientID); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}

func (s *NotificationService) Delete(ctx context.Context, recipientID, id uint) error {
	notification, err := s.find(ctx, recipientID, id)
	if err != nil {
		return err
	}
	if err := s.notifications.Delete(ctx, notification.ID); err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	return nil
}

func (s *NotificationService) find(ctx context.Context, recipientID, id uint) (*models.Notification, error) {
	notification, err := s.notifications.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load notification: %w", err)
	}
	if notification == nil {
		return nil, ErrNotificationNotFound
	}
	if notification.RecipientID != recipientID {
		return nil, ErrForbidden
	}
	return notification, nil
}
