package events

import (
	"context"

	"member-access-be/internal/pkg/logger"
	pkgEvents "member-access-be/pkg/events"
	pkgNats "member-access-be/pkg/nats"

	"github.com/google/uuid"
)

// Publisher abstracts event publishing for admin operations
type Publisher interface {
	PublishAccessGranted(ctx context.Context, userId, orderId, subscriptionId uuid.UUID, productName string, days int, extended bool)
	PublishAccessRevoked(ctx context.Context, userId, subscriptionId uuid.UUID, reason string)
	PublishSubscriptionRefunded(ctx context.Context, userId, orderId uuid.UUID, amount float64, policy, reason string)
	PublishProviderSyncFailed(ctx context.Context, userId uuid.UUID, provider, errMessage string)
}

// NatsPublisher implements Publisher using NATS
type NatsPublisher struct {
	publisher *pkgNats.Publisher
	logger    logger.ILogger
}

// NewNatsPublisher creates a new NATS-based event publisher
func NewNatsPublisher(publisher *pkgNats.Publisher, logger logger.ILogger) *NatsPublisher {
	return &NatsPublisher{
		publisher: publisher,
		logger:    logger,
	}
}

// PublishAccessGranted emits ACCESS_GRANTED after a grant workflow commits
func (p *NatsPublisher) PublishAccessGranted(ctx context.Context, userId, orderId, subscriptionId uuid.UUID, productName string, days int, extended bool) {
	if p.publisher == nil {
		return
	}

	evt := pkgEvents.NewAccessGranted(map[string]interface{}{
		"user_id":         userId.String(),
		"order_id":        orderId.String(),
		"subscription_id": subscriptionId.String(),
		"product_name":    productName,
		"days":            days,
		"extended":        extended,
		"entity_type":     "subscription",
		"entity_id":       subscriptionId.String(),
	})

	if err := p.publisher.Publish(ctx, evt); err != nil {
		p.logger.Error("ADMIN", "Failed to publish ACCESS_GRANTED event", map[string]interface{}{"error": err.Error()})
	}
}

// PublishAccessRevoked emits ACCESS_REVOKED
func (p *NatsPublisher) PublishAccessRevoked(ctx context.Context, userId, subscriptionId uuid.UUID, reason string) {
	if p.publisher == nil {
		return
	}

	evt := pkgEvents.NewAccessRevoked(map[string]interface{}{
		"user_id":         userId.String(),
		"subscription_id": subscriptionId.String(),
		"reason":          reason,
		"entity_type":     "subscription",
		"entity_id":       subscriptionId.String(),
	})

	if err := p.publisher.Publish(ctx, evt); err != nil {
		p.logger.Error("ADMIN", "Failed to publish ACCESS_REVOKED event", map[string]interface{}{"error": err.Error()})
	}
}

// PublishSubscriptionRefunded emits SUBSCRIPTION_REFUNDED
func (p *NatsPublisher) PublishSubscriptionRefunded(ctx context.Context, userId, orderId uuid.UUID, amount float64, policy, reason string) {
	if p.publisher == nil {
		return
	}

	evt := pkgEvents.NewSubscriptionRefunded(map[string]interface{}{
		"user_id":     userId.String(),
		"order_id":    orderId.String(),
		"amount":      amount,
		"policy":      policy,
		"reason":      reason,
		"entity_type": "order",
		"entity_id":   orderId.String(),
	})

	if err := p.publisher.Publish(ctx, evt); err != nil {
		p.logger.Error("ADMIN", "Failed to publish SUBSCRIPTION_REFUNDED event", map[string]interface{}{"error": err.Error()})
	}
}

// PublishProviderSyncFailed emits PROVIDER_SYNC_FAILED so operators see
// grants that need a manual re-sync
func (p *NatsPublisher) PublishProviderSyncFailed(ctx context.Context, userId uuid.UUID, provider, errMessage string) {
	if p.publisher == nil {
		return
	}

	evt := pkgEvents.NewProviderSyncFailed(map[string]interface{}{
		"user_id":     userId.String(),
		"provider":    provider,
		"error":       errMessage,
		"entity_type": "user",
		"entity_id":   userId.String(),
	})

	if err := p.publisher.Publish(ctx, evt); err != nil {
		p.logger.Error("ADMIN", "Failed to publish PROVIDER_SYNC_FAILED event", map[string]interface{}{"error": err.Error()})
	}
}
