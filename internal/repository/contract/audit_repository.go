package contract

import (
	"context"

	"member-access-be/internal/entity"
	"member-access-be/internal/repository/specification"
)

// AuditRepository is append-only by contract: records are created and
// listed, never updated or deleted.
type AuditRepository interface {
	Create(ctx context.Context, record *entity.AuditRecord) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AuditRecord, error)
}
