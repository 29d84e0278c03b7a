package contract

import (
	"context"

	"member-access-be/internal/entity"
	"member-access-be/internal/repository/specification"

	"github.com/google/uuid"
)

type SubscriptionRepository interface {
	Create(ctx context.Context, subscription *entity.Subscription) error
	Update(ctx context.Context, subscription *entity.Subscription) error
	// Delete is a hard delete, reserved for the destructive lifecycle action.
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Subscription, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Subscription, error)
	// FindOpen resolves the one subscription currently granting access for
	// the (user, product, tariff) triple, or nil.
	FindOpen(ctx context.Context, userId, productId, tariffId uuid.UUID) (*entity.Subscription, error)
	CountActive(ctx context.Context) (int64, error)
}
