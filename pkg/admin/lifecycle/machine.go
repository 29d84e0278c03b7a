package lifecycle

import (
	"context"
	"fmt"
	"time"

	"member-access-be/internal/apperrors"
	"member-access-be/internal/entity"
	"member-access-be/internal/pkg/logger"
	"member-access-be/internal/repository/specification"
	"member-access-be/internal/repository/unitofwork"
	"member-access-be/pkg/admin/audit"
	adminEvents "member-access-be/pkg/admin/events"

	"github.com/google/uuid"
)

// Syncer covers the external revoke side of lifecycle transitions.
type Syncer interface {
	RevokeCommunity(ctx context.Context, memberRef, clubId, reason string) entity.SyncResult
	CancelCourse(ctx context.Context, orderRef, reason string) entity.SyncResult
}

// ToggleResult carries the flipped flag plus the warning surfaced when
// auto-renew is enabled with no payment method on file.
type ToggleResult struct {
	Subscription *entity.Subscription `json:"subscription"`
	Warning      string               `json:"warning,omitempty"`
}

// Machine executes single named transitions against one subscription.
// Every transition writes one audit record and returns the updated row.
// External revokes are attempted after the ledger commit and recorded the
// same way the grant path records its sync calls.
type Machine struct {
	logger    logger.ILogger
	syncer    Syncer
	audit     *audit.Recorder
	publisher adminEvents.Publisher
}

func NewMachine(logger logger.ILogger, syncer Syncer, auditRecorder *audit.Recorder, publisher adminEvents.Publisher) *Machine {
	return &Machine{
		logger:    logger,
		syncer:    syncer,
		audit:     auditRecorder,
		publisher: publisher,
	}
}

// Cancel stops renewal. Access persists until access-end.
func (m *Machine) Cancel(ctx context.Context, uow unitofwork.UnitOfWork, actorId uuid.UUID, subscriptionId uuid.UUID, reason string) (*entity.Subscription, error) {
	sub, err := m.load(ctx, uow, subscriptionId)
	if err != nil {
		return nil, err
	}
	if sub.CanceledAt != nil {
		return nil, apperrors.NewValidation("subscription", "already canceled")
	}

	now := time.Now()
	sub.CanceledAt = &now
	sub.AutoRenew = false

	if err := m.commitTransition(ctx, uow, sub, &actorId, entity.AuditActionCancel, map[string]interface{}{
		"subscription_id": sub.Id.String(),
		"order_id":        sub.OrderId.String(),
		"access_end":      sub.AccessEnd,
		"reason":          reason,
	}); err != nil {
		return nil, err
	}
	return sub, nil
}

// Resume clears the cancellation flag on a still-unexpired subscription.
func (m *Machine) Resume(ctx context.Context, uow unitofwork.UnitOfWork, actorId uuid.UUID, subscriptionId uuid.UUID) (*entity.Subscription, error) {
	sub, err := m.load(ctx, uow, subscriptionId)
	if err != nil {
		return nil, err
	}
	if sub.CanceledAt == nil {
		return nil, apperrors.NewValidation("subscription", "not canceled")
	}
	if sub.IsExpired(time.Now()) {
		return nil, apperrors.NewValidation("subscription", "cannot resume an expired subscription")
	}

	sub.CanceledAt = nil

	if err := m.commitTransition(ctx, uow, sub, &actorId, entity.AuditActionResume, map[string]interface{}{
		"subscription_id": sub.Id.String(),
		"order_id":        sub.OrderId.String(),
		"access_end":      sub.AccessEnd,
	}); err != nil {
		return nil, err
	}
	return sub, nil
}

// Extend adds days to the access window. On an already expired
// subscription the new window starts now.
func (m *Machine) Extend(ctx context.Context, uow unitofwork.UnitOfWork, actorId uuid.UUID, subscriptionId uuid.UUID, days int) (*entity.Subscription, error) {
	if days <= 0 {
		return nil, apperrors.NewValidation("days", "must be a positive integer")
	}

	sub, err := m.load(ctx, uow, subscriptionId)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if sub.IsExpired(now) {
		sub.AccessEnd = now.AddDate(0, 0, days)
	} else {
		sub.AccessEnd = sub.AccessEnd.AddDate(0, 0, days)
	}

	if err := m.commitTransition(ctx, uow, sub, &actorId, entity.AuditActionExtend, map[string]interface{}{
		"subscription_id": sub.Id.String(),
		"order_id":        sub.OrderId.String(),
		"days":            days,
		"access_end":      sub.AccessEnd,
	}); err != nil {
		return nil, err
	}
	return sub, nil
}

// ReduceAccess shrinks the access window, used by the refund reduce
// policy. days must be at least 1.
func (m *Machine) ReduceAccess(ctx context.Context, uow unitofwork.UnitOfWork, actorId uuid.UUID, subscriptionId uuid.UUID, days int, reason string) (*entity.Subscription, error) {
	if days < 1 {
		return nil, apperrors.NewValidation("days", "must be at least 1")
	}

	sub, err := m.load(ctx, uow, subscriptionId)
	if err != nil {
		return nil, err
	}

	sub.AccessEnd = sub.AccessEnd.AddDate(0, 0, -days)

	if err := m.commitTransition(ctx, uow, sub, &actorId, entity.AuditActionExtend, map[string]interface{}{
		"subscription_id": sub.Id.String(),
		"order_id":        sub.OrderId.String(),
		"days":            -days,
		"access_end":      sub.AccessEnd,
		"reason":          reason,
	}); err != nil {
		return nil, err
	}
	return sub, nil
}

// GrantAccess reactivates a lapsed subscription with a fresh window
// starting now.
func (m *Machine) GrantAccess(ctx context.Context, uow unitofwork.UnitOfWork, actorId uuid.UUID, subscriptionId uuid.UUID, days int) (*entity.Subscription, error) {
	if days <= 0 {
		return nil, apperrors.NewValidation("days", "must be a positive integer")
	}

	sub, err := m.load(ctx, uow, subscriptionId)
	if err != nil {
		return nil, err
	}

	window := entity.WindowFromDays(time.Now(), days)
	sub.Status = entity.SubscriptionStatusActive
	sub.CanceledAt = nil
	sub.AccessStart = window.Start
	sub.AccessEnd = window.End

	if err := m.commitTransition(ctx, uow, sub, &actorId, entity.AuditActionReactivate, map[string]interface{}{
		"subscription_id": sub.Id.String(),
		"order_id":        sub.OrderId.String(),
		"days":            days,
		"access_start":    sub.AccessStart,
		"access_end":      sub.AccessEnd,
	}); err != nil {
		return nil, err
	}
	return sub, nil
}

// RevokeAccess forces the access window shut and attempts the matching
// community revoke. The provider outcome is recorded, never fatal.
func (m *Machine) RevokeAccess(ctx context.Context, uow unitofwork.UnitOfWork, actorId uuid.UUID, subscriptionId uuid.UUID, reason string) (*entity.Subscription, error) {
	sub, err := m.load(ctx, uow, subscriptionId)
	if err != nil {
		return nil, err
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, apperrors.NewLedger("begin", err)
	}
	defer uow.Rollback()

	sub.AccessEnd = time.Now()
	if err := uow.SubscriptionRepository().Update(ctx, sub); err != nil {
		return nil, apperrors.NewLedger("subscription update", err)
	}

	grantRecord, err := uow.AccessGrantRepository().FindOne(ctx, specification.Filter("order_id", sub.OrderId))
	if err != nil {
		return nil, apperrors.NewLedger("access grant lookup", err)
	}
	if grantRecord != nil {
		grantRecord.Status = entity.AccessGrantStatusRevoked
		if err := uow.AccessGrantRepository().Update(ctx, grantRecord); err != nil {
			return nil, apperrors.NewLedger("access grant update", err)
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, apperrors.NewLedger("commit", err)
	}

	syncResults := m.revokeExternally(ctx, uow, sub, grantRecord, reason)
	if len(syncResults) > 0 {
		sub.SyncResults = sub.SyncResults.Merge(syncResults)
		if err := uow.SubscriptionRepository().Update(ctx, sub); err != nil {
			m.logger.Error("LIFECYCLE", "Failed to persist sync results", map[string]interface{}{
				"subscription_id": sub.Id.String(),
				"error":           err.Error(),
			})
		}
	}

	if err := m.audit.Record(ctx, uow, &actorId, entity.AuditActionRevokeAccess, sub.UserId, map[string]interface{}{
		"subscription_id": sub.Id.String(),
		"order_id":        sub.OrderId.String(),
		"reason":          reason,
		"sync_results":    syncResults,
	}); err != nil {
		return nil, err
	}

	m.publisher.PublishAccessRevoked(ctx, sub.UserId, sub.Id, reason)
	return sub, nil
}

// Delete irreversibly removes the subscription and its order's payments.
// Reserved for erroneous grants.
func (m *Machine) Delete(ctx context.Context, uow unitofwork.UnitOfWork, actorId uuid.UUID, subscriptionId uuid.UUID, reason string) error {
	sub, err := m.load(ctx, uow, subscriptionId)
	if err != nil {
		return err
	}

	grantRecord, err := uow.AccessGrantRepository().FindOne(ctx, specification.Filter("order_id", sub.OrderId))
	if err != nil {
		return apperrors.NewLedger("access grant lookup", err)
	}

	// Revoke first: once the row is gone there is nowhere to record the
	// outcome, so it goes into the audit meta instead.
	syncResults := m.revokeExternally(ctx, uow, sub, grantRecord, reason)

	if err := uow.Begin(ctx); err != nil {
		return apperrors.NewLedger("begin", err)
	}
	defer uow.Rollback()

	if err := uow.PaymentRepository().DeleteAllByOrder(ctx, sub.OrderId); err != nil {
		return apperrors.NewLedger("payment delete", err)
	}
	if err := uow.SubscriptionRepository().Delete(ctx, sub.Id); err != nil {
		return apperrors.NewLedger("subscription delete", err)
	}

	if err := m.audit.Record(ctx, uow, &actorId, entity.AuditActionDelete, sub.UserId, map[string]interface{}{
		"subscription_id": sub.Id.String(),
		"order_id":        sub.OrderId.String(),
		"reason":          reason,
		"sync_results":    syncResults,
	}); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return apperrors.NewLedger("commit", err)
	}

	m.publisher.PublishAccessRevoked(ctx, sub.UserId, sub.Id, reason)
	return nil
}

// ToggleAutoRenew flips the renewal flag. Enabling it without a payment
// method on file is allowed but surfaced as a warning.
func (m *Machine) ToggleAutoRenew(ctx context.Context, uow unitofwork.UnitOfWork, actorId uuid.UUID, subscriptionId uuid.UUID, target bool, reason string) (*ToggleResult, error) {
	if reason == "" {
		return nil, apperrors.NewValidation("reason", "is required")
	}

	sub, err := m.load(ctx, uow, subscriptionId)
	if err != nil {
		return nil, err
	}

	sub.AutoRenew = target

	warning := ""
	if target && sub.PaymentMethodId == nil {
		warning = "auto-renew enabled but no payment method is linked"
	}

	if err := m.commitTransition(ctx, uow, sub, &actorId, entity.AuditActionToggleAutoRenew, map[string]interface{}{
		"subscription_id": sub.Id.String(),
		"order_id":        sub.OrderId.String(),
		"target":          target,
		"reason":          reason,
		"warning":         warning,
	}); err != nil {
		return nil, err
	}

	return &ToggleResult{Subscription: sub, Warning: warning}, nil
}

func (m *Machine) load(ctx context.Context, uow unitofwork.UnitOfWork, id uuid.UUID) (*entity.Subscription, error) {
	sub, err := uow.SubscriptionRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, fmt.Errorf("subscription %s: %w", id, apperrors.ErrNotFound)
	}
	return sub, nil
}

// commitTransition updates the subscription and writes the audit record in
// one transaction.
func (m *Machine) commitTransition(ctx context.Context, uow unitofwork.UnitOfWork, sub *entity.Subscription, actorId *uuid.UUID, action string, meta map[string]interface{}) error {
	if err := uow.Begin(ctx); err != nil {
		return apperrors.NewLedger("begin", err)
	}
	defer uow.Rollback()

	if err := uow.SubscriptionRepository().Update(ctx, sub); err != nil {
		return apperrors.NewLedger("subscription update", err)
	}
	if err := m.audit.Record(ctx, uow, actorId, action, sub.UserId, meta); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return apperrors.NewLedger("commit", err)
	}

	m.logger.Info("LIFECYCLE", "Subscription transition applied", map[string]interface{}{
		"subscription_id": sub.Id.String(),
		"action":          action,
	})
	return nil
}

// revokeExternally attempts the community revoke and course cancel calls
// matching a subscription that is losing access.
func (m *Machine) revokeExternally(ctx context.Context, uow unitofwork.UnitOfWork, sub *entity.Subscription, grantRecord *entity.AccessGrantRecord, reason string) entity.SyncResults {
	results := entity.SyncResults{}

	if grantRecord != nil {
		user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: sub.UserId})
		if err != nil || user == nil || !user.HasMessengerIdentity() {
			results[entity.ProviderCommunity] = entity.SyncResult{Success: false, Error: "user has no messenger identity"}
		} else {
			results[entity.ProviderCommunity] = m.syncer.RevokeCommunity(ctx, *user.MessengerRef, grantRecord.ClubId, reason)
		}
	}

	tariff, err := uow.CatalogRepository().FindOneTariff(ctx, specification.ByID{ID: sub.TariffId})
	if err == nil && tariff != nil && tariff.HasCourseComponent() {
		results[entity.ProviderCourse] = m.syncer.CancelCourse(ctx, sub.OrderId.String(), reason)
	}

	return results
}
