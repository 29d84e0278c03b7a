package repository

import (
	"context"

	"member-access-be/internal/model"

	"github.com/google/uuid"
)

// NotificationRepository backs the shared admin activity feed. Rows are
// written by the event consumer and read by the back-office UI, so there
// is no per-user scoping.
type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification *model.Notification) error
	GetNotifications(ctx context.Context, limit, offset int) ([]model.Notification, int64, error)
	GetUnreadCount(ctx context.Context) (int64, error)
	MarkAsRead(ctx context.Context, notificationID uuid.UUID) error
	MarkAllAsRead(ctx context.Context) error
}
