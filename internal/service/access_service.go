package service

import (
	"context"

	"member-access-be/internal/dto"
	"member-access-be/internal/entity"
	"member-access-be/internal/pkg/logger"
	"member-access-be/internal/repository/specification"
	"member-access-be/internal/repository/unitofwork"
	"member-access-be/pkg/admin/grant"
	"member-access-be/pkg/admin/lifecycle"
	"member-access-be/pkg/admin/refund"

	"github.com/google/uuid"
)

// IAccessService is the back-office surface over the grant, lifecycle and
// refund workflows plus the read-side listings.
type IAccessService interface {
	GrantAccess(ctx context.Context, actorId uuid.UUID, req dto.GrantAccessRequest) (*grant.Result, error)

	CancelSubscription(ctx context.Context, actorId, subscriptionId uuid.UUID, reason string) (*dto.SubscriptionListItem, error)
	ResumeSubscription(ctx context.Context, actorId, subscriptionId uuid.UUID) (*dto.SubscriptionListItem, error)
	ExtendSubscription(ctx context.Context, actorId, subscriptionId uuid.UUID, days int) (*dto.SubscriptionListItem, error)
	ReactivateSubscription(ctx context.Context, actorId, subscriptionId uuid.UUID, days int) (*dto.SubscriptionListItem, error)
	RevokeAccess(ctx context.Context, actorId, subscriptionId uuid.UUID, reason string) (*dto.SubscriptionListItem, error)
	DeleteSubscription(ctx context.Context, actorId, subscriptionId uuid.UUID, reason string) error
	ToggleAutoRenew(ctx context.Context, actorId, subscriptionId uuid.UUID, target bool, reason string) (*dto.ToggleAutoRenewResponse, error)

	Refund(ctx context.Context, actorId uuid.UUID, req dto.RefundRequest) (*refund.Result, error)

	ListSubscriptions(ctx context.Context, req dto.ListRequest) ([]dto.SubscriptionListItem, error)
	ListOrders(ctx context.Context, req dto.ListRequest) ([]dto.OrderListItem, error)
	ListAuditLog(ctx context.Context, req dto.ListRequest) ([]dto.AuditListItem, error)
}

type accessService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger

	grantOrchestrator  *grant.Orchestrator
	lifecycleMachine   *lifecycle.Machine
	refundOrchestrator *refund.Orchestrator
}

func NewAccessService(
	uowFactory unitofwork.RepositoryFactory,
	logger logger.ILogger,
	grantOrchestrator *grant.Orchestrator,
	lifecycleMachine *lifecycle.Machine,
	refundOrchestrator *refund.Orchestrator,
) IAccessService {
	return &accessService{
		uowFactory:         uowFactory,
		logger:             logger,
		grantOrchestrator:  grantOrchestrator,
		lifecycleMachine:   lifecycleMachine,
		refundOrchestrator: refundOrchestrator,
	}
}

func (s *accessService) GrantAccess(ctx context.Context, actorId uuid.UUID, req dto.GrantAccessRequest) (*grant.Result, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return s.grantOrchestrator.GrantAccess(ctx, uow, actorId, req)
}

func (s *accessService) CancelSubscription(ctx context.Context, actorId, subscriptionId uuid.UUID, reason string) (*dto.SubscriptionListItem, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	sub, err := s.lifecycleMachine.Cancel(ctx, uow, actorId, subscriptionId, reason)
	if err != nil {
		return nil, err
	}
	item := toSubscriptionItem(sub)
	return &item, nil
}

func (s *accessService) ResumeSubscription(ctx context.Context, actorId, subscriptionId uuid.UUID) (*dto.SubscriptionListItem, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	sub, err := s.lifecycleMachine.Resume(ctx, uow, actorId, subscriptionId)
	if err != nil {
		return nil, err
	}
	item := toSubscriptionItem(sub)
	return &item, nil
}

func (s *accessService) ExtendSubscription(ctx context.Context, actorId, subscriptionId uuid.UUID, days int) (*dto.SubscriptionListItem, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	sub, err := s.lifecycleMachine.Extend(ctx, uow, actorId, subscriptionId, days)
	if err != nil {
		return nil, err
	}
	item := toSubscriptionItem(sub)
	return &item, nil
}

func (s *accessService) ReactivateSubscription(ctx context.Context, actorId, subscriptionId uuid.UUID, days int) (*dto.SubscriptionListItem, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	sub, err := s.lifecycleMachine.GrantAccess(ctx, uow, actorId, subscriptionId, days)
	if err != nil {
		return nil, err
	}
	item := toSubscriptionItem(sub)
	return &item, nil
}

func (s *accessService) RevokeAccess(ctx context.Context, actorId, subscriptionId uuid.UUID, reason string) (*dto.SubscriptionListItem, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	sub, err := s.lifecycleMachine.RevokeAccess(ctx, uow, actorId, subscriptionId, reason)
	if err != nil {
		return nil, err
	}
	item := toSubscriptionItem(sub)
	return &item, nil
}

func (s *accessService) DeleteSubscription(ctx context.Context, actorId, subscriptionId uuid.UUID, reason string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return s.lifecycleMachine.Delete(ctx, uow, actorId, subscriptionId, reason)
}

func (s *accessService) ToggleAutoRenew(ctx context.Context, actorId, subscriptionId uuid.UUID, target bool, reason string) (*dto.ToggleAutoRenewResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	result, err := s.lifecycleMachine.ToggleAutoRenew(ctx, uow, actorId, subscriptionId, target, reason)
	if err != nil {
		return nil, err
	}
	return &dto.ToggleAutoRenewResponse{
		Subscription: toSubscriptionItem(result.Subscription),
		Warning:      result.Warning,
	}, nil
}

func (s *accessService) Refund(ctx context.Context, actorId uuid.UUID, req dto.RefundRequest) (*refund.Result, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return s.refundOrchestrator.Refund(ctx, uow, actorId, req)
}

// ============================================================================
// Listings
// ============================================================================

func (s *accessService) ListSubscriptions(ctx context.Context, req dto.ListRequest) ([]dto.SubscriptionListItem, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	subs, err := uow.SubscriptionRepository().FindAll(ctx, listSpecs(req)...)
	if err != nil {
		return nil, err
	}

	items := make([]dto.SubscriptionListItem, 0, len(subs))
	for _, sub := range subs {
		items = append(items, toSubscriptionItem(sub))
	}
	return items, nil
}

func (s *accessService) ListOrders(ctx context.Context, req dto.ListRequest) ([]dto.OrderListItem, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	orders, err := uow.OrderRepository().FindAll(ctx, listSpecs(req)...)
	if err != nil {
		return nil, err
	}

	items := make([]dto.OrderListItem, 0, len(orders))
	for _, order := range orders {
		items = append(items, dto.OrderListItem{
			Id:         order.Id,
			UserId:     order.UserId,
			ProductId:  order.ProductId,
			TariffId:   order.TariffId,
			Status:     string(order.Status),
			BasePrice:  order.BasePrice,
			FinalPrice: order.FinalPrice,
			PaidAmount: order.PaidAmount,
			Currency:   order.Currency,
			Source:     string(order.Source),
			Comment:    order.Comment,
			CreatedAt:  order.CreatedAt,
		})
	}
	return items, nil
}

func (s *accessService) ListAuditLog(ctx context.Context, req dto.ListRequest) ([]dto.AuditListItem, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	specs := []specification.Specification{
		specification.OrderBy{Field: "created_at", Desc: true},
		pagination(req),
	}
	if userId, err := uuid.Parse(req.UserId); err == nil {
		specs = append(specs, specification.Filter("target_user_id", userId))
	}

	records, err := uow.AuditRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	items := make([]dto.AuditListItem, 0, len(records))
	for _, record := range records {
		items = append(items, dto.AuditListItem{
			Id:           record.Id,
			ActorId:      record.ActorId,
			Action:       record.Action,
			TargetUserId: record.TargetUserId,
			Meta:         record.Meta,
			CreatedAt:    record.CreatedAt,
		})
	}
	return items, nil
}

// listSpecs builds the common filter set for user-scoped listings.
func listSpecs(req dto.ListRequest) []specification.Specification {
	specs := []specification.Specification{
		specification.OrderBy{Field: "created_at", Desc: true},
		pagination(req),
	}
	if userId, err := uuid.Parse(req.UserId); err == nil {
		specs = append(specs, specification.Filter("user_id", userId))
	}
	if req.Status != "" {
		specs = append(specs, specification.Filter("status", req.Status))
	}
	return specs
}

func pagination(req dto.ListRequest) specification.Specification {
	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := req.Limit
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return specification.Pagination{Limit: limit, Offset: (page - 1) * limit}
}

func toSubscriptionItem(sub *entity.Subscription) dto.SubscriptionListItem {
	var syncResults map[string]interface{}
	if len(sub.SyncResults) > 0 {
		syncResults = make(map[string]interface{}, len(sub.SyncResults))
		for provider, result := range sub.SyncResults {
			syncResults[provider] = result
		}
	}

	return dto.SubscriptionListItem{
		Id:          sub.Id,
		UserId:      sub.UserId,
		ProductId:   sub.ProductId,
		TariffId:    sub.TariffId,
		OrderId:     sub.OrderId,
		Status:      string(sub.Status),
		AccessStart: sub.AccessStart,
		AccessEnd:   sub.AccessEnd,
		CanceledAt:  sub.CanceledAt,
		AutoRenew:   sub.AutoRenew,
		SyncResults: syncResults,
	}
}
