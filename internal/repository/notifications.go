package repository

import (
	"context"

	"ntf/internal/model"
)

// NotificationRepository is the store behind every notification operation.
// Get, Acknowledge and Delete fail with *domain.NotFoundError for unknown ids.
type NotificationRepository interface {
	CreateNotification(ctx context.Context, message string) (model.Notification, error)
	ListNotifications(ctx context.Context) ([]model.Notification, error)
	GetNotification(ctx context.Context, id uint64) (model.Notification, error)
	AcknowledgeNotification(ctx context.Context, id uint64) (model.Notification, error)
	DeleteNotification(ctx context.Context, id uint64) (model.Notification, error)
}
