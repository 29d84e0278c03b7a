package refund

import (
	"context"
	"fmt"

	"member-access-be/internal/apperrors"
	"member-access-be/internal/dto"
	"member-access-be/internal/entity"
	"member-access-be/internal/pkg/logger"
	"member-access-be/internal/repository/specification"
	"member-access-be/internal/repository/unitofwork"
	"member-access-be/pkg/admin/audit"
	adminEvents "member-access-be/pkg/admin/events"
	"member-access-be/pkg/admin/lifecycle"

	"github.com/google/uuid"
)

// PaymentProvider is the refund side of the payment gateway.
type PaymentProvider interface {
	Refund(ctx context.Context, orderRef string, amount float64, reason string) error
}

// Result contains refund operation results
type Result struct {
	OrderId        uuid.UUID  `json:"order_id"`
	SubscriptionId *uuid.UUID `json:"subscription_id,omitempty"`
	Amount         float64    `json:"amount"`
	Policy         string     `json:"policy"`
	Warning        string     `json:"warning,omitempty"`
}

// Orchestrator performs a refund and applies the caller's access-impact
// policy. The provider call comes first and is the single fatal external
// call in the subsystem: if the money never moved, nothing in the ledger
// may record that it did.
type Orchestrator struct {
	logger    logger.ILogger
	provider  PaymentProvider
	machine   *lifecycle.Machine
	audit     *audit.Recorder
	publisher adminEvents.Publisher
}

func NewOrchestrator(logger logger.ILogger, provider PaymentProvider, machine *lifecycle.Machine, auditRecorder *audit.Recorder, publisher adminEvents.Publisher) *Orchestrator {
	return &Orchestrator{
		logger:    logger,
		provider:  provider,
		machine:   machine,
		audit:     auditRecorder,
		publisher: publisher,
	}
}

// Refund refunds amount against the order and applies the policy.
func (o *Orchestrator) Refund(ctx context.Context, uow unitofwork.UnitOfWork, actorId uuid.UUID, req dto.RefundRequest) (*Result, error) {
	if req.Reason == "" {
		return nil, apperrors.NewValidation("reason", "is required")
	}
	if req.Amount <= 0 {
		return nil, apperrors.NewValidation("amount", "must be positive")
	}

	order, err := uow.OrderRepository().FindOne(ctx, specification.ByID{ID: req.OrderId})
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("order %s: %w", req.OrderId, apperrors.ErrNotFound)
	}

	if req.Amount > order.FinalPrice {
		return nil, apperrors.NewValidation("amount", "exceeds order final price")
	}

	fullRefund := req.Amount == order.FinalPrice
	if err := validatePolicy(req, fullRefund); err != nil {
		return nil, err
	}

	payments, err := uow.PaymentRepository().FindAllByOrder(ctx, order.Id)
	if err != nil {
		return nil, err
	}
	if req.Amount > entity.RefundableAmount(payments) {
		return nil, apperrors.NewValidation("amount", "exceeds refundable payment total")
	}

	// Provider first. A failure here aborts before any ledger or access
	// mutation.
	if err := o.provider.Refund(ctx, order.Id.String(), req.Amount, req.Reason); err != nil {
		o.logger.Error("REFUND", "Provider refund failed", map[string]interface{}{
			"order_id": order.Id.String(),
			"amount":   req.Amount,
			"error":    err.Error(),
		})
		return nil, apperrors.NewRefundProvider(order.Id.String(), err)
	}

	// Ledger marker. Partial refunds under keep/keep_subscription leave
	// the order status intact.
	if fullRefund {
		if err := o.markRefunded(ctx, uow, order, payments); err != nil {
			return nil, err
		}
	}

	subscription, err := uow.SubscriptionRepository().FindOne(ctx, specification.Filter("order_id", order.Id))
	if err != nil {
		return nil, err
	}

	warning, err := o.applyPolicy(ctx, uow, actorId, req, subscription)
	if err != nil {
		return nil, err
	}

	meta := map[string]interface{}{
		"order_id": order.Id.String(),
		"amount":   req.Amount,
		"reason":   req.Reason,
		"policy":   req.Policy,
		"full":     fullRefund,
	}
	var subId *uuid.UUID
	if subscription != nil {
		id := subscription.Id
		subId = &id
		meta["subscription_id"] = id.String()
	}
	if err := o.audit.Record(ctx, uow, &actorId, entity.AuditActionRefund, order.UserId, meta); err != nil {
		return nil, err
	}

	o.publisher.PublishSubscriptionRefunded(ctx, order.UserId, order.Id, req.Amount, req.Policy, req.Reason)

	o.logger.Info("REFUND", "Refund processed", map[string]interface{}{
		"order_id": order.Id.String(),
		"amount":   req.Amount,
		"policy":   req.Policy,
	})

	return &Result{
		OrderId:        order.Id,
		SubscriptionId: subId,
		Amount:         req.Amount,
		Policy:         req.Policy,
		Warning:        warning,
	}, nil
}

func validatePolicy(req dto.RefundRequest, fullRefund bool) error {
	switch req.Policy {
	case dto.RefundPolicyRevoke:
		if !fullRefund {
			return apperrors.NewValidation("policy", "revoke is only valid for a full refund")
		}
	case dto.RefundPolicyReduce:
		if req.ReduceDays < 1 {
			return apperrors.NewValidation("reduce_days", "must be at least 1")
		}
	case dto.RefundPolicyKeep:
		if fullRefund {
			return apperrors.NewValidation("policy", "keep is only valid for a partial refund")
		}
	case dto.RefundPolicyKeepSubscription:
		// No access change and the next scheduled charge proceeds.
	default:
		return apperrors.NewValidation("policy", "unknown access-impact policy")
	}
	return nil
}

func (o *Orchestrator) markRefunded(ctx context.Context, uow unitofwork.UnitOfWork, order *entity.Order, payments []*entity.Payment) error {
	if err := uow.Begin(ctx); err != nil {
		return apperrors.NewLedger("begin", err)
	}
	defer uow.Rollback()

	order.Status = entity.OrderStatusRefunded
	if err := uow.OrderRepository().Update(ctx, order); err != nil {
		return apperrors.NewLedger("order update", err)
	}

	for _, p := range payments {
		if p.Status != entity.PaymentStatusSucceeded {
			continue
		}
		p.Status = entity.PaymentStatusRefunded
		if err := uow.PaymentRepository().Update(ctx, p); err != nil {
			return apperrors.NewLedger("payment update", err)
		}
	}

	if err := uow.Commit(); err != nil {
		return apperrors.NewLedger("commit", err)
	}
	return nil
}

// applyPolicy maps the policy onto a lifecycle transition. A missing
// subscription (order-only booking) downgrades the access policy to a
// warning instead of an error.
func (o *Orchestrator) applyPolicy(ctx context.Context, uow unitofwork.UnitOfWork, actorId uuid.UUID, req dto.RefundRequest, subscription *entity.Subscription) (string, error) {
	if req.Policy == dto.RefundPolicyKeepSubscription {
		return "", nil
	}
	if subscription == nil {
		return "no subscription is linked to this order; access policy skipped", nil
	}

	switch req.Policy {
	case dto.RefundPolicyRevoke:
		if _, err := o.machine.RevokeAccess(ctx, uow, actorId, subscription.Id, req.Reason); err != nil {
			return "", err
		}
	case dto.RefundPolicyReduce:
		if _, err := o.machine.ReduceAccess(ctx, uow, actorId, subscription.Id, req.ReduceDays, req.Reason); err != nil {
			return "", err
		}
	case dto.RefundPolicyKeep:
		// Access stays, renewal stops.
		if subscription.CanceledAt == nil {
			if _, err := o.machine.Cancel(ctx, uow, actorId, subscription.Id, req.Reason); err != nil {
				return "", err
			}
		}
	}
	return "", nil
}
