package contract

import (
	"context"

	"member-access-be/internal/entity"
	"member-access-be/internal/repository/specification"
)

type AccessGrantRepository interface {
	Create(ctx context.Context, record *entity.AccessGrantRecord) error
	Update(ctx context.Context, record *entity.AccessGrantRecord) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.AccessGrantRecord, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AccessGrantRecord, error)
}
