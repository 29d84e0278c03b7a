package unitofwork

import (
	"context"

	"member-access-be/internal/repository/contract"
)

// UnitOfWork scopes a set of repositories to one database handle. After
// Begin, every accessor returns a repository bound to the open transaction,
// so a grant or refund workflow commits its ledger rows atomically.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	CatalogRepository() contract.CatalogRepository
	OrderRepository() contract.OrderRepository
	PaymentRepository() contract.PaymentRepository
	SubscriptionRepository() contract.SubscriptionRepository
	AccessGrantRepository() contract.AccessGrantRepository
	AuditRepository() contract.AuditRepository
	AdminUserRepository() contract.AdminUserRepository
}
