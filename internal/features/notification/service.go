package notification

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationService defines the interface for in-app notifications
type NotificationService interface {
	CreateNotification(ctx context.Context, n *Notification) error
	GetUserNotifications(ctx context.Context, recipientID string, page, limit int64) ([]Notification, int64, error)
	GetUnreadCount(ctx context.Context, recipientID string) (int64, error)
	MarkAsRead(ctx context.Context, id string, recipientID string) error
	MarkAllAsRead(ctx context.Context, recipientID string) error
}

type NotificationServiceImpl struct {
	repo NotificationRepository
	hub  *Hub
}

func NewNotificationService(repo NotificationRepository, hub *Hub) NotificationService {
	return &NotificationServiceImpl{
		repo: repo,
		hub:  hub,
	}
}

func (s *NotificationServiceImpl) CreateNotification(ctx context.Context, n *Notification) error {
	if n.Type == "" {
		n.Type = NotificationTypeInfo
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}

	// Live push is best-effort on top of the persisted record
	if s.hub != nil {
		s.hub.Publish(n)
	}
	return nil
}

func (s *NotificationServiceImpl) GetUserNotifications(ctx context.Context, recipientID string, page, limit int64) ([]Notification, int64, error) {
	return s.repo.GetByRecipient(ctx, recipientID, page, limit)
}

func (s *NotificationServiceImpl) GetUnreadCount(ctx context.Context, recipientID string) (int64, error) {
	return s.repo.GetUnreadCount(ctx, recipientID)
}

func (s *NotificationServiceImpl) MarkAsRead(ctx context.Context, id string, recipientID string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	return s.repo.MarkAsRead(ctx, objID, recipientID)
}

func (s *NotificationServiceImpl) MarkAllAsRead(ctx context.Context, recipientID string) error {
	return s.repo.MarkAllAsRead(ctx, recipientID)
}
