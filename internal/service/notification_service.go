package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"member-access-be/internal/model"
	"member-access-be/internal/pkg/logger"
	"member-access-be/internal/repository"
	"member-access-be/pkg/events"
	pktNats "member-access-be/pkg/nats" // Renamed to avoid collision

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// NotificationDelivery defines how to push real-time updates.
// Typically implemented by the WebSocket Hub.
type NotificationDelivery interface {
	Broadcast(notification model.Notification)
}

// NotificationService turns bus events into rows in the shared admin
// activity feed and pushes them to connected back-office sessions.
type NotificationService struct {
	repo       repository.NotificationRepository
	subscriber *pktNats.Subscriber
	delivery   NotificationDelivery
	logger     logger.ILogger
}

func NewNotificationService(repo repository.NotificationRepository, sub *pktNats.Subscriber, delivery NotificationDelivery, log logger.ILogger) *NotificationService {
	return &NotificationService{
		repo:       repo,
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
	}
}

// Start begins listening to the event bus.
func (s *NotificationService) Start() {
	// Subscribe to all events with a durable consumer
	err := s.subscriber.Subscribe("events.>", "admin-feed-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("NotificationService", "Failed to start notification subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("NotificationService", "Notification service started, listening to events.>", nil)
}

func (s *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	// Strip "events." prefix from type if present (NATS subject includes stream name)
	typeCode := strings.TrimPrefix(event.EventType(), "events.")

	notif := s.buildNotification(typeCode, event)

	if err := s.repo.CreateNotification(ctx, &notif); err != nil {
		s.logger.Error("NotificationService", "Error saving feed row", map[string]interface{}{
			"type":  typeCode,
			"error": err.Error(),
		})
		return err // NATS will retry
	}

	if s.delivery != nil {
		s.delivery.Broadcast(notif)
	}

	return nil
}

func (s *NotificationService) buildNotification(typeCode string, event events.Event) model.Notification {
	payload := event.Payload()

	// Entity pointer for deep linking, by payload convention.
	entityType, _ := payload["entity_type"].(string)
	entityID, _ := payload["entity_id"].(string)

	metaMap := make(map[string]interface{})
	for k, v := range payload {
		metaMap[k] = v
	}
	if entityType != "" && entityID != "" {
		metaMap["action_url"] = fmt.Sprintf("/%ss/%s", entityType, entityID)
	}
	metaJSON, _ := json.Marshal(metaMap)

	title, message := describe(typeCode, payload)

	return model.Notification{
		ID:        uuid.New(),
		TypeCode:  typeCode,
		Title:     title,
		Message:   message,
		Metadata:  datatypes.JSON(metaJSON),
		CreatedAt: time.Now(),
		IsRead:    false,
	}
}

// describe renders the human line for one feed row.
func describe(typeCode string, payload map[string]interface{}) (string, string) {
	userID, _ := payload["user_id"].(string)

	switch typeCode {
	case events.TypeAccessGranted:
		product, _ := payload["product_name"].(string)
		days, _ := payload["days"].(float64)
		if extended, _ := payload["extended"].(bool); extended {
			return "Access Extended", fmt.Sprintf("Access to %s extended by %d days for user %s", product, int(days), userID)
		}
		return "Access Granted", fmt.Sprintf("Access to %s granted for %d days to user %s", product, int(days), userID)

	case events.TypeAccessRevoked:
		reason, _ := payload["reason"].(string)
		return "Access Revoked", fmt.Sprintf("Access revoked for user %s: %s", userID, reason)

	case events.TypeSubscriptionRefunded:
		amount, _ := payload["amount"].(float64)
		policy, _ := payload["policy"].(string)
		return "Refund Processed", fmt.Sprintf("Refunded %.2f for user %s (policy %s)", amount, userID, policy)

	case events.TypeProviderSyncFailed:
		provider, _ := payload["provider"].(string)
		errMsg, _ := payload["error"].(string)
		return "Provider Sync Failed", fmt.Sprintf("Provider %s failed for user %s: %s", provider, userID, errMsg)
	}

	return typeCode, fmt.Sprintf("Event %s for user %s", typeCode, userID)
}

// GetNotifications fetches the shared feed page.
func (s *NotificationService) GetNotifications(ctx context.Context, limit, offset int) ([]model.Notification, int64, error) {
	return s.repo.GetNotifications(ctx, limit, offset)
}

// GetUnreadCount fetches unread count.
func (s *NotificationService) GetUnreadCount(ctx context.Context) (int64, error) {
	return s.repo.GetUnreadCount(ctx)
}

// MarkAsRead marks a notification as read.
func (s *NotificationService) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	return s.repo.MarkAsRead(ctx, id)
}

// MarkAllAsRead marks all notifications as read.
func (s *NotificationService) MarkAllAsRead(ctx context.Context) error {
	return s.repo.MarkAllAsRead(ctx)
}
