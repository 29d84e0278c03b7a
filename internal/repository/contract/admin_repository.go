package contract

import (
	"context"

	"member-access-be/internal/entity"
	"member-access-be/internal/repository/specification"
)

type AdminUserRepository interface {
	Create(ctx context.Context, admin *entity.AdminUser) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.AdminUser, error)
}
