package grant

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"member-access-be/internal/apperrors"
	"member-access-be/internal/dto"
	"member-access-be/internal/entity"
	"member-access-be/internal/pkg/logger"
	"member-access-be/internal/repository/specification"
	"member-access-be/internal/repository/unitofwork"
	"member-access-be/pkg/admin/audit"
	adminEvents "member-access-be/pkg/admin/events"

	"github.com/google/uuid"
)

// lockTTL bounds how long a duplicate grant for the same triple is held
// off. Generous next to the provider timeouts.
const lockTTL = 60 * time.Second

// Syncer is the external side of a grant.
type Syncer interface {
	GrantCommunity(ctx context.Context, memberRef, clubId string, durationDays int, source string) entity.SyncResult
	EnrollCourse(ctx context.Context, orderRef, email, offerId, tariffCode string) entity.SyncResult
}

// Locker serializes grants per (user, product, tariff) triple.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// Notifier delivers a best-effort admin notification off the critical path.
type Notifier interface {
	NotifyAdmins(subject, message string, meta map[string]interface{})
}

// Result contains grant operation results
type Result struct {
	OrderId        uuid.UUID          `json:"order_id"`
	SubscriptionId *uuid.UUID         `json:"subscription_id,omitempty"`
	Extended       bool               `json:"extended"`
	AccessStart    time.Time          `json:"access_start,omitempty"`
	AccessEnd      time.Time          `json:"access_end,omitempty"`
	SyncResults    entity.SyncResults `json:"sync_results,omitempty"`
	Warning        string             `json:"warning,omitempty"`
}

// Orchestrator runs the grant-or-extend workflow: ledger writes in one
// transaction, then provider sync, then sync-result merge, audit, and a
// fire-and-forget notification. Only the ledger writes can abort it.
type Orchestrator struct {
	logger    logger.ILogger
	syncer    Syncer
	locker    Locker
	audit     *audit.Recorder
	publisher adminEvents.Publisher
	notifier  Notifier
}

func NewOrchestrator(logger logger.ILogger, syncer Syncer, locker Locker, auditRecorder *audit.Recorder, publisher adminEvents.Publisher, notifier Notifier) *Orchestrator {
	return &Orchestrator{
		logger:    logger,
		syncer:    syncer,
		locker:    locker,
		audit:     auditRecorder,
		publisher: publisher,
		notifier:  notifier,
	}
}

// GrantAccess grants or extends paid access for one (user, product, tariff)
// triple. actorId is the operator performing the action.
func (o *Orchestrator) GrantAccess(ctx context.Context, uow unitofwork.UnitOfWork, actorId uuid.UUID, req dto.GrantAccessRequest) (*Result, error) {
	if req.RecordOnly {
		return o.recordOnly(ctx, uow, actorId, req)
	}

	window, err := resolveWindow(req)
	if err != nil {
		return nil, err
	}

	user, product, tariff, err := o.loadContext(ctx, uow, req)
	if err != nil {
		return nil, err
	}

	lockKey := fmt.Sprintf("%s:%s:%s", req.UserId, req.ProductId, req.TariffId)
	acquired, err := o.locker.Acquire(ctx, lockKey, lockTTL)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, apperrors.ErrGrantInProgress
	}
	defer o.locker.Release(ctx, lockKey)

	// Ledger transaction: order, payment, subscription, grant record.
	if err := uow.Begin(ctx); err != nil {
		return nil, apperrors.NewLedger("begin", err)
	}
	defer uow.Rollback()

	order, err := o.createPaidOrder(ctx, uow, req, tariff, window)
	if err != nil {
		return nil, err
	}

	subscription, extended, err := o.upsertSubscription(ctx, uow, req, order, window)
	if err != nil {
		return nil, err
	}

	if product.HasCommunityComponent() {
		grantRecord := &entity.AccessGrantRecord{
			UserId:  req.UserId,
			ClubId:  *product.ClubId,
			Source:  entity.OrderSourceAdminGrant,
			OrderId: order.Id,
			StartAt: window.Start,
			EndAt:   window.End,
			Status:  entity.AccessGrantStatusActive,
		}
		if err := uow.AccessGrantRepository().Create(ctx, grantRecord); err != nil {
			return nil, apperrors.NewLedger("access grant create", err)
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, apperrors.NewLedger("commit", err)
	}

	// External side. Failures are recorded on the subscription, never
	// allowed to undo the committed ledger state.
	syncResults := o.syncProviders(ctx, user, product, tariff, order, window)

	if len(syncResults) > 0 {
		subscription.SyncResults = subscription.SyncResults.Merge(syncResults)
		if err := uow.SubscriptionRepository().Update(ctx, subscription); err != nil {
			o.logger.Error("GRANT", "Failed to persist sync results", map[string]interface{}{
				"subscription_id": subscription.Id.String(),
				"error":           err.Error(),
			})
		}
	}

	meta := map[string]interface{}{
		"order_id":        order.Id.String(),
		"subscription_id": subscription.Id.String(),
		"product_name":    product.Name,
		"tariff_name":     tariff.Name,
		"access_start":    window.Start,
		"access_end":      window.End,
		"days":            window.Days(),
		"extended":        extended,
		"comment":         req.Comment,
		"sync_results":    syncResults,
	}
	if err := o.audit.Record(ctx, uow, &actorId, entity.AuditActionGrantAccess, req.UserId, meta); err != nil {
		return nil, err
	}

	o.publisher.PublishAccessGranted(ctx, req.UserId, order.Id, subscription.Id, product.Name, window.Days(), extended)

	warning := warningFromSync(syncResults)
	for provider, res := range syncResults {
		if !res.Success {
			o.publisher.PublishProviderSyncFailed(ctx, req.UserId, provider, res.Error)
		}
	}

	o.notifier.NotifyAdmins(
		"Access granted",
		fmt.Sprintf("%s granted %d days of %s to %s", actorId, window.Days(), product.Name, user.Email),
		map[string]interface{}{
			"order_id":        order.Id.String(),
			"subscription_id": subscription.Id.String(),
			"extended":        extended,
		},
	)

	o.logger.Info("GRANT", "Access granted", map[string]interface{}{
		"user_id":         req.UserId.String(),
		"subscription_id": subscription.Id.String(),
		"extended":        extended,
		"warning":         warning,
	})

	subId := subscription.Id
	return &Result{
		OrderId:        order.Id,
		SubscriptionId: &subId,
		Extended:       extended,
		AccessStart:    subscription.AccessStart,
		AccessEnd:      subscription.AccessEnd,
		SyncResults:    syncResults,
		Warning:        warning,
	}, nil
}

// recordOnly books the purchase without creating any access: no
// subscription, no provider calls. Window fields imply an expectation of
// access and are rejected.
func (o *Orchestrator) recordOnly(ctx context.Context, uow unitofwork.UnitOfWork, actorId uuid.UUID, req dto.GrantAccessRequest) (*Result, error) {
	if req.AccessStart != nil || req.AccessEnd != nil || req.Days != nil {
		return nil, apperrors.NewValidation("record_only", "record-only mode cannot carry an access window")
	}

	user, _, tariff, err := o.loadContext(ctx, uow, req)
	if err != nil {
		return nil, err
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, apperrors.NewLedger("begin", err)
	}
	defer uow.Rollback()

	now := time.Now()
	order := &entity.Order{
		UserId:     req.UserId,
		ProductId:  req.ProductId,
		TariffId:   req.TariffId,
		BasePrice:  tariff.Price,
		FinalPrice: tariff.Price,
		PaidAmount: req.PaidAmount,
		Currency:   tariff.Currency,
		Status:     entity.OrderStatusPaid,
		Source:     entity.OrderSourceAdminGrant,
		Comment:    req.Comment,
		SubOffer:   subOfferPtr(req.SubOffer),
		CreatedAt:  now,
	}
	if err := uow.OrderRepository().Create(ctx, order); err != nil {
		return nil, apperrors.NewLedger("order create", err)
	}

	payment := &entity.Payment{
		OrderId:   order.Id,
		Amount:    req.PaidAmount,
		Currency:  tariff.Currency,
		Status:    entity.PaymentStatusSucceeded,
		Provider:  "admin",
		PaidAt:    &now,
		CreatedAt: now,
	}
	if err := uow.PaymentRepository().Create(ctx, payment); err != nil {
		return nil, apperrors.NewLedger("payment create", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, apperrors.NewLedger("commit", err)
	}

	meta := map[string]interface{}{
		"order_id":    order.Id.String(),
		"record_only": true,
		"comment":     req.Comment,
	}
	if err := o.audit.Record(ctx, uow, &actorId, entity.AuditActionGrantAccess, req.UserId, meta); err != nil {
		return nil, err
	}

	o.logger.Info("GRANT", "Order recorded without access", map[string]interface{}{
		"user_id":  user.Id.String(),
		"order_id": order.Id.String(),
	})

	return &Result{OrderId: order.Id}, nil
}

func (o *Orchestrator) loadContext(ctx context.Context, uow unitofwork.UnitOfWork, req dto.GrantAccessRequest) (*entity.User, *entity.Product, *entity.Tariff, error) {
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: req.UserId})
	if err != nil {
		return nil, nil, nil, err
	}
	if user == nil {
		return nil, nil, nil, fmt.Errorf("user %s: %w", req.UserId, apperrors.ErrNotFound)
	}

	product, err := uow.CatalogRepository().FindOneProduct(ctx, specification.ByID{ID: req.ProductId})
	if err != nil {
		return nil, nil, nil, err
	}
	if product == nil {
		return nil, nil, nil, fmt.Errorf("product %s: %w", req.ProductId, apperrors.ErrNotFound)
	}

	tariff, err := uow.CatalogRepository().FindOneTariff(ctx, specification.ByID{ID: req.TariffId})
	if err != nil {
		return nil, nil, nil, err
	}
	if tariff == nil {
		return nil, nil, nil, fmt.Errorf("tariff %s: %w", req.TariffId, apperrors.ErrNotFound)
	}
	if tariff.ProductId != product.Id {
		return nil, nil, nil, apperrors.NewValidation("tariff_id", "tariff does not belong to product")
	}

	return user, product, tariff, nil
}

// createPaidOrder books the order and its succeeded payment, both stamped
// with the access-start date so reporting reflects economic timing rather
// than when the operator clicked.
func (o *Orchestrator) createPaidOrder(ctx context.Context, uow unitofwork.UnitOfWork, req dto.GrantAccessRequest, tariff *entity.Tariff, window entity.AccessWindow) (*entity.Order, error) {
	start := window.Start
	end := window.End

	order := &entity.Order{
		UserId:      req.UserId,
		ProductId:   req.ProductId,
		TariffId:    req.TariffId,
		BasePrice:   tariff.Price,
		FinalPrice:  tariff.Price,
		PaidAmount:  req.PaidAmount,
		Currency:    tariff.Currency,
		Status:      entity.OrderStatusPaid,
		Source:      entity.OrderSourceAdminGrant,
		Comment:     req.Comment,
		SubOffer:    subOfferPtr(req.SubOffer),
		AccessStart: &start,
		AccessEnd:   &end,
		CreatedAt:   start,
	}
	if err := uow.OrderRepository().Create(ctx, order); err != nil {
		return nil, apperrors.NewLedger("order create", err)
	}

	payment := &entity.Payment{
		OrderId:   order.Id,
		Amount:    req.PaidAmount,
		Currency:  tariff.Currency,
		Status:    entity.PaymentStatusSucceeded,
		Provider:  "admin",
		PaidAt:    &start,
		CreatedAt: start,
	}
	if err := uow.PaymentRepository().Create(ctx, payment); err != nil {
		return nil, apperrors.NewLedger("payment create", err)
	}

	return order, nil
}

// upsertSubscription extends the open subscription for the triple in place,
// or creates a new one when none is open.
func (o *Orchestrator) upsertSubscription(ctx context.Context, uow unitofwork.UnitOfWork, req dto.GrantAccessRequest, order *entity.Order, window entity.AccessWindow) (*entity.Subscription, bool, error) {
	existing, err := uow.SubscriptionRepository().FindOpen(ctx, req.UserId, req.ProductId, req.TariffId)
	if err != nil {
		return nil, false, apperrors.NewLedger("subscription lookup", err)
	}

	if existing != nil {
		if window.End.After(existing.AccessEnd) {
			existing.AccessEnd = window.End
		}
		existing.OrderId = order.Id
		if err := uow.SubscriptionRepository().Update(ctx, existing); err != nil {
			return nil, false, apperrors.NewLedger("subscription extend", err)
		}
		return existing, true, nil
	}

	subscription := &entity.Subscription{
		UserId:          req.UserId,
		ProductId:       req.ProductId,
		TariffId:        req.TariffId,
		OrderId:         order.Id,
		Status:          entity.SubscriptionStatusActive,
		AccessStart:     window.Start,
		AccessEnd:       window.End,
		AutoRenew:       req.PaymentMethodId != nil,
		PaymentMethodId: req.PaymentMethodId,
		SyncResults:     entity.SyncResults{},
	}
	if err := uow.SubscriptionRepository().Create(ctx, subscription); err != nil {
		return nil, false, apperrors.NewLedger("subscription create", err)
	}
	return subscription, false, nil
}

// syncProviders fires the community and course calls concurrently. Each
// produces a SyncResult; none can fail the workflow.
func (o *Orchestrator) syncProviders(ctx context.Context, user *entity.User, product *entity.Product, tariff *entity.Tariff, order *entity.Order, window entity.AccessWindow) entity.SyncResults {
	results := entity.SyncResults{}

	var wg sync.WaitGroup
	var communityResult, courseResult *entity.SyncResult

	if product.HasCommunityComponent() {
		if user.HasMessengerIdentity() {
			wg.Add(1)
			go func() {
				defer wg.Done()
				res := o.syncer.GrantCommunity(ctx, *user.MessengerRef, *product.ClubId, window.Days(), string(entity.OrderSourceAdminGrant))
				communityResult = &res
			}()
		} else {
			communityResult = &entity.SyncResult{Success: false, Error: "user has no messenger identity"}
		}
	}

	if tariff.HasCourseComponent() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res := o.syncer.EnrollCourse(ctx, order.Id.String(), user.Email, deref(tariff.CourseOfferId), deref(tariff.CourseCode))
			courseResult = &res
		}()
	}

	wg.Wait()

	if communityResult != nil {
		results[entity.ProviderCommunity] = *communityResult
	}
	if courseResult != nil {
		results[entity.ProviderCourse] = *courseResult
	}
	return results
}

func resolveWindow(req dto.GrantAccessRequest) (entity.AccessWindow, error) {
	if req.Days != nil {
		if *req.Days <= 0 {
			return entity.AccessWindow{}, apperrors.NewValidation("days", "must be a positive integer")
		}
		start := time.Now()
		if req.AccessStart != nil {
			start = *req.AccessStart
		}
		return entity.WindowFromDays(start, *req.Days), nil
	}

	if req.AccessStart == nil || req.AccessEnd == nil {
		return entity.AccessWindow{}, apperrors.NewValidation("access_window", "either days or both access_start and access_end are required")
	}

	window := entity.AccessWindow{Start: *req.AccessStart, End: *req.AccessEnd}
	if !window.Valid() {
		return entity.AccessWindow{}, apperrors.NewValidation("access_end", "must not be before access_start")
	}
	return window, nil
}

func warningFromSync(results entity.SyncResults) string {
	var failed []string
	for provider, res := range results {
		if !res.Success {
			failed = append(failed, provider)
		}
	}
	if len(failed) == 0 {
		return ""
	}
	return fmt.Sprintf("access granted, but provider sync failed: %s", strings.Join(failed, ", "))
}

func subOfferPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
