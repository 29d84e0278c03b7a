package contract

import (
	"context"

	"member-access-be/internal/entity"
	"member-access-be/internal/repository/specification"

	"github.com/google/uuid"
)

type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	Update(ctx context.Context, order *entity.Order) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Order, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Order, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	Update(ctx context.Context, payment *entity.Payment) error
	FindAllByOrder(ctx context.Context, orderId uuid.UUID) ([]*entity.Payment, error)
	// DeleteAllByOrder removes the payments hanging off an order. Used only
	// by the destructive subscription delete action.
	DeleteAllByOrder(ctx context.Context, orderId uuid.UUID) error
}
