// Package memory holds in-memory implementations of the repository
// contracts, used by the workflow tests to exercise the grant, lifecycle
// and refund orchestrators without a database.
package memory

import (
	"context"
	"fmt"
	"time"

	"member-access-be/internal/entity"
	"member-access-be/internal/repository/contract"
	"member-access-be/internal/repository/specification"

	"github.com/google/uuid"
)

// Store is the shared state behind a memory unit of work. Error fields
// inject failures at specific ledger writes.
type Store struct {
	Users         []*entity.User
	Products      []*entity.Product
	Tariffs       []*entity.Tariff
	Orders        []*entity.Order
	Payments      []*entity.Payment
	Subscriptions []*entity.Subscription
	Grants        []*entity.AccessGrantRecord
	Audits        []*entity.AuditRecord
	Admins        []*entity.AdminUser

	Begins    int
	Commits   int
	Rollbacks int

	BeginErr              error
	CommitErr             error
	OrderCreateErr        error
	PaymentCreateErr      error
	SubscriptionCreateErr error
	SubscriptionUpdateErr error
	AuditCreateErr        error
}

// UnitOfWork is the in-memory counterpart of the GORM unit of work.
// Transactions are counters only; data changes apply immediately.
type UnitOfWork struct {
	store *Store
	inTx  bool
}

func NewUnitOfWork(store *Store) *UnitOfWork {
	return &UnitOfWork{store: store}
}

func (u *UnitOfWork) Begin(ctx context.Context) error {
	if u.store.BeginErr != nil {
		return u.store.BeginErr
	}
	u.store.Begins++
	u.inTx = true
	return nil
}

func (u *UnitOfWork) Commit() error {
	if u.store.CommitErr != nil {
		return u.store.CommitErr
	}
	u.store.Commits++
	u.inTx = false
	return nil
}

func (u *UnitOfWork) Rollback() error {
	if u.inTx {
		u.store.Rollbacks++
		u.inTx = false
	}
	return nil
}

func (u *UnitOfWork) UserRepository() contract.UserRepository {
	return &userRepo{store: u.store}
}

func (u *UnitOfWork) CatalogRepository() contract.CatalogRepository {
	return &catalogRepo{store: u.store}
}

func (u *UnitOfWork) OrderRepository() contract.OrderRepository {
	return &orderRepo{store: u.store}
}

func (u *UnitOfWork) PaymentRepository() contract.PaymentRepository {
	return &paymentRepo{store: u.store}
}

func (u *UnitOfWork) SubscriptionRepository() contract.SubscriptionRepository {
	return &subscriptionRepo{store: u.store}
}

func (u *UnitOfWork) AccessGrantRepository() contract.AccessGrantRepository {
	return &accessGrantRepo{store: u.store}
}

func (u *UnitOfWork) AuditRepository() contract.AuditRepository {
	return &auditRepo{store: u.store}
}

func (u *UnitOfWork) AdminUserRepository() contract.AdminUserRepository {
	return &adminRepo{store: u.store}
}

// matchSpecs evaluates the subset of specifications the workflows use.
// Ordering and pagination specs are ignored.
func matchSpecs(specs []specification.Specification, id uuid.UUID, fields map[string]interface{}) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if id != s.ID {
				return false
			}
		case specification.FilterBy:
			v, ok := fields[s.Field]
			if !ok || fmt.Sprint(v) != fmt.Sprint(s.Value) {
				return false
			}
		case specification.ByEmail:
			if v, ok := fields["email"]; !ok || v != s.Email {
				return false
			}
		}
	}
	return true
}

func ensureId(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

// ----------------------------------------------------------------------------

type userRepo struct{ store *Store }

func (r *userRepo) Create(ctx context.Context, user *entity.User) error {
	ensureId(&user.Id)
	clone := *user
	r.store.Users = append(r.store.Users, &clone)
	return nil
}

func (r *userRepo) Update(ctx context.Context, user *entity.User) error {
	for i, u := range r.store.Users {
		if u.Id == user.Id {
			clone := *user
			r.store.Users[i] = &clone
			return nil
		}
	}
	return fmt.Errorf("user %s not found", user.Id)
}

func (r *userRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	for _, u := range r.store.Users {
		if matchSpecs(specs, u.Id, map[string]interface{}{"email": u.Email, "status": string(u.Status)}) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *userRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range r.store.Users {
		if matchSpecs(specs, u.Id, map[string]interface{}{"email": u.Email, "status": string(u.Status)}) {
			clone := *u
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *userRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.store.Users)), nil
}

// ----------------------------------------------------------------------------

type catalogRepo struct{ store *Store }

func (r *catalogRepo) CreateProduct(ctx context.Context, product *entity.Product) error {
	ensureId(&product.Id)
	clone := *product
	r.store.Products = append(r.store.Products, &clone)
	return nil
}

func (r *catalogRepo) UpdateProduct(ctx context.Context, product *entity.Product) error {
	for i, p := range r.store.Products {
		if p.Id == product.Id {
			clone := *product
			r.store.Products[i] = &clone
			return nil
		}
	}
	return fmt.Errorf("product %s not found", product.Id)
}

func (r *catalogRepo) FindOneProduct(ctx context.Context, specs ...specification.Specification) (*entity.Product, error) {
	for _, p := range r.store.Products {
		if matchSpecs(specs, p.Id, map[string]interface{}{"slug": p.Slug, "is_active": p.IsActive}) {
			clone := *p
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *catalogRepo) FindAllProducts(ctx context.Context, specs ...specification.Specification) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.store.Products {
		if matchSpecs(specs, p.Id, map[string]interface{}{"slug": p.Slug, "is_active": p.IsActive}) {
			clone := *p
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *catalogRepo) CreateTariff(ctx context.Context, tariff *entity.Tariff) error {
	ensureId(&tariff.Id)
	clone := *tariff
	r.store.Tariffs = append(r.store.Tariffs, &clone)
	return nil
}

func (r *catalogRepo) UpdateTariff(ctx context.Context, tariff *entity.Tariff) error {
	for i, t := range r.store.Tariffs {
		if t.Id == tariff.Id {
			clone := *tariff
			r.store.Tariffs[i] = &clone
			return nil
		}
	}
	return fmt.Errorf("tariff %s not found", tariff.Id)
}

func (r *catalogRepo) FindOneTariff(ctx context.Context, specs ...specification.Specification) (*entity.Tariff, error) {
	for _, t := range r.store.Tariffs {
		if matchSpecs(specs, t.Id, map[string]interface{}{"product_id": t.ProductId, "is_active": t.IsActive}) {
			clone := *t
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *catalogRepo) FindAllTariffs(ctx context.Context, specs ...specification.Specification) ([]*entity.Tariff, error) {
	var out []*entity.Tariff
	for _, t := range r.store.Tariffs {
		if matchSpecs(specs, t.Id, map[string]interface{}{"product_id": t.ProductId, "is_active": t.IsActive}) {
			clone := *t
			out = append(out, &clone)
		}
	}
	return out, nil
}

// ----------------------------------------------------------------------------

type orderRepo struct{ store *Store }

func orderFields(o *entity.Order) map[string]interface{} {
	return map[string]interface{}{
		"user_id":    o.UserId,
		"product_id": o.ProductId,
		"tariff_id":  o.TariffId,
		"status":     string(o.Status),
	}
}

func (r *orderRepo) Create(ctx context.Context, order *entity.Order) error {
	if r.store.OrderCreateErr != nil {
		return r.store.OrderCreateErr
	}
	ensureId(&order.Id)
	clone := *order
	r.store.Orders = append(r.store.Orders, &clone)
	return nil
}

func (r *orderRepo) Update(ctx context.Context, order *entity.Order) error {
	for i, o := range r.store.Orders {
		if o.Id == order.Id {
			clone := *order
			r.store.Orders[i] = &clone
			return nil
		}
	}
	return fmt.Errorf("order %s not found", order.Id)
}

func (r *orderRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Order, error) {
	for _, o := range r.store.Orders {
		if matchSpecs(specs, o.Id, orderFields(o)) {
			clone := *o
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *orderRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Order, error) {
	var out []*entity.Order
	for _, o := range r.store.Orders {
		if matchSpecs(specs, o.Id, orderFields(o)) {
			clone := *o
			out = append(out, &clone)
		}
	}
	return out, nil
}

// ----------------------------------------------------------------------------

type paymentRepo struct{ store *Store }

func (r *paymentRepo) Create(ctx context.Context, payment *entity.Payment) error {
	if r.store.PaymentCreateErr != nil {
		return r.store.PaymentCreateErr
	}
	ensureId(&payment.Id)
	clone := *payment
	r.store.Payments = append(r.store.Payments, &clone)
	return nil
}

func (r *paymentRepo) Update(ctx context.Context, payment *entity.Payment) error {
	for i, p := range r.store.Payments {
		if p.Id == payment.Id {
			clone := *payment
			r.store.Payments[i] = &clone
			return nil
		}
	}
	return fmt.Errorf("payment %s not found", payment.Id)
}

func (r *paymentRepo) FindAllByOrder(ctx context.Context, orderId uuid.UUID) ([]*entity.Payment, error) {
	var out []*entity.Payment
	for _, p := range r.store.Payments {
		if p.OrderId == orderId {
			clone := *p
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *paymentRepo) DeleteAllByOrder(ctx context.Context, orderId uuid.UUID) error {
	kept := r.store.Payments[:0]
	for _, p := range r.store.Payments {
		if p.OrderId != orderId {
			kept = append(kept, p)
		}
	}
	r.store.Payments = kept
	return nil
}

// ----------------------------------------------------------------------------

type subscriptionRepo struct{ store *Store }

func subscriptionFields(s *entity.Subscription) map[string]interface{} {
	return map[string]interface{}{
		"user_id":    s.UserId,
		"product_id": s.ProductId,
		"tariff_id":  s.TariffId,
		"order_id":   s.OrderId,
		"status":     string(s.Status),
	}
}

func (r *subscriptionRepo) Create(ctx context.Context, subscription *entity.Subscription) error {
	if r.store.SubscriptionCreateErr != nil {
		return r.store.SubscriptionCreateErr
	}
	ensureId(&subscription.Id)
	clone := *subscription
	r.store.Subscriptions = append(r.store.Subscriptions, &clone)
	return nil
}

func (r *subscriptionRepo) Update(ctx context.Context, subscription *entity.Subscription) error {
	if r.store.SubscriptionUpdateErr != nil {
		return r.store.SubscriptionUpdateErr
	}
	for i, s := range r.store.Subscriptions {
		if s.Id == subscription.Id {
			clone := *subscription
			r.store.Subscriptions[i] = &clone
			return nil
		}
	}
	return fmt.Errorf("subscription %s not found", subscription.Id)
}

func (r *subscriptionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	kept := r.store.Subscriptions[:0]
	for _, s := range r.store.Subscriptions {
		if s.Id != id {
			kept = append(kept, s)
		}
	}
	r.store.Subscriptions = kept
	return nil
}

func (r *subscriptionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Subscription, error) {
	for _, s := range r.store.Subscriptions {
		if matchSpecs(specs, s.Id, subscriptionFields(s)) {
			clone := *s
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *subscriptionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Subscription, error) {
	var out []*entity.Subscription
	for _, s := range r.store.Subscriptions {
		if matchSpecs(specs, s.Id, subscriptionFields(s)) {
			clone := *s
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *subscriptionRepo) FindOpen(ctx context.Context, userId, productId, tariffId uuid.UUID) (*entity.Subscription, error) {
	now := time.Now()
	for _, s := range r.store.Subscriptions {
		if s.UserId == userId && s.ProductId == productId && s.TariffId == tariffId && s.IsOpen(now) {
			clone := *s
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *subscriptionRepo) CountActive(ctx context.Context) (int64, error) {
	var count int64
	for _, s := range r.store.Subscriptions {
		if s.Status == entity.SubscriptionStatusActive || s.Status == entity.SubscriptionStatusTrial {
			count++
		}
	}
	return count, nil
}

// ----------------------------------------------------------------------------

type accessGrantRepo struct{ store *Store }

func grantFields(g *entity.AccessGrantRecord) map[string]interface{} {
	return map[string]interface{}{
		"user_id":  g.UserId,
		"order_id": g.OrderId,
		"club_id":  g.ClubId,
		"status":   string(g.Status),
	}
}

func (r *accessGrantRepo) Create(ctx context.Context, record *entity.AccessGrantRecord) error {
	ensureId(&record.Id)
	clone := *record
	r.store.Grants = append(r.store.Grants, &clone)
	return nil
}

func (r *accessGrantRepo) Update(ctx context.Context, record *entity.AccessGrantRecord) error {
	for i, g := range r.store.Grants {
		if g.Id == record.Id {
			clone := *record
			r.store.Grants[i] = &clone
			return nil
		}
	}
	return fmt.Errorf("access grant %s not found", record.Id)
}

func (r *accessGrantRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.AccessGrantRecord, error) {
	for _, g := range r.store.Grants {
		if matchSpecs(specs, g.Id, grantFields(g)) {
			clone := *g
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *accessGrantRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AccessGrantRecord, error) {
	var out []*entity.AccessGrantRecord
	for _, g := range r.store.Grants {
		if matchSpecs(specs, g.Id, grantFields(g)) {
			clone := *g
			out = append(out, &clone)
		}
	}
	return out, nil
}

// ----------------------------------------------------------------------------

type auditRepo struct{ store *Store }

func (r *auditRepo) Create(ctx context.Context, record *entity.AuditRecord) error {
	if r.store.AuditCreateErr != nil {
		return r.store.AuditCreateErr
	}
	ensureId(&record.Id)
	clone := *record
	r.store.Audits = append(r.store.Audits, &clone)
	return nil
}

func (r *auditRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AuditRecord, error) {
	var out []*entity.AuditRecord
	for _, a := range r.store.Audits {
		if matchSpecs(specs, a.Id, map[string]interface{}{"target_user_id": a.TargetUserId, "action": a.Action}) {
			clone := *a
			out = append(out, &clone)
		}
	}
	return out, nil
}

// ----------------------------------------------------------------------------

type adminRepo struct{ store *Store }

func (r *adminRepo) Create(ctx context.Context, admin *entity.AdminUser) error {
	ensureId(&admin.Id)
	clone := *admin
	r.store.Admins = append(r.store.Admins, &clone)
	return nil
}

func (r *adminRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.AdminUser, error) {
	for _, a := range r.store.Admins {
		if matchSpecs(specs, a.Id, map[string]interface{}{"email": a.Email}) {
			clone := *a
			return &clone, nil
		}
	}
	return nil, nil
}
