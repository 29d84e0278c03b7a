package refund

import (
	"context"
	"errors"
	"testing"
	"time"

	"member-access-be/internal/apperrors"
	"member-access-be/internal/dto"
	"member-access-be/internal/entity"
	"member-access-be/internal/pkg/logger"
	"member-access-be/internal/repository/memory"
	"member-access-be/pkg/admin/audit"
	"member-access-be/pkg/admin/lifecycle"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	err   error
	calls int
}

func (f *fakeProvider) Refund(ctx context.Context, orderRef string, amount float64, reason string) error {
	f.calls++
	return f.err
}

type fakeSyncer struct{}

func (fakeSyncer) RevokeCommunity(ctx context.Context, memberRef, clubId, reason string) entity.SyncResult {
	return entity.SyncResult{Success: true}
}

func (fakeSyncer) CancelCourse(ctx context.Context, orderRef, reason string) entity.SyncResult {
	return entity.SyncResult{Success: true}
}

type fakePublisher struct {
	refunded int
	revoked  int
}

func (f *fakePublisher) PublishAccessGranted(ctx context.Context, userId, orderId, subscriptionId uuid.UUID, productName string, days int, extended bool) {
}

func (f *fakePublisher) PublishAccessRevoked(ctx context.Context, userId, subscriptionId uuid.UUID, reason string) {
	f.revoked++
}

func (f *fakePublisher) PublishSubscriptionRefunded(ctx context.Context, userId, orderId uuid.UUID, amount float64, policy, reason string) {
	f.refunded++
}

func (f *fakePublisher) PublishProviderSyncFailed(ctx context.Context, userId uuid.UUID, provider, errMessage string) {
}

type fixture struct {
	store     *memory.Store
	uow       *memory.UnitOfWork
	provider  *fakeProvider
	publisher *fakePublisher
	orch      *Orchestrator
	order     *entity.Order
	sub       *entity.Subscription
	actor     uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	userId := uuid.New()
	product := &entity.Product{Id: uuid.New(), Name: "Pro Membership", Slug: "pro-membership", IsActive: true}
	tariff := &entity.Tariff{Id: uuid.New(), ProductId: product.Id, Name: "Monthly", Price: 49, IsActive: true}

	order := &entity.Order{
		Id:         uuid.New(),
		UserId:     userId,
		ProductId:  product.Id,
		TariffId:   tariff.Id,
		BasePrice:  49,
		FinalPrice: 49,
		PaidAmount: 49,
		Currency:   "USD",
		Status:     entity.OrderStatusPaid,
		Source:     entity.OrderSourceAdminGrant,
	}
	sub := &entity.Subscription{
		Id:          uuid.New(),
		UserId:      userId,
		ProductId:   product.Id,
		TariffId:    tariff.Id,
		OrderId:     order.Id,
		Status:      entity.SubscriptionStatusActive,
		AccessStart: time.Now().AddDate(0, 0, -5),
		AccessEnd:   time.Now().AddDate(0, 0, 25),
	}

	store := &memory.Store{
		Users:         []*entity.User{{Id: userId, Email: "member@example.com", Status: entity.UserStatusActive}},
		Products:      []*entity.Product{product},
		Tariffs:       []*entity.Tariff{tariff},
		Orders:        []*entity.Order{order},
		Payments:      []*entity.Payment{{Id: uuid.New(), OrderId: order.Id, Amount: 49, Currency: "USD", Status: entity.PaymentStatusSucceeded}},
		Subscriptions: []*entity.Subscription{sub},
	}

	provider := &fakeProvider{}
	publisher := &fakePublisher{}
	log := logger.NewNopLogger()
	recorder := audit.NewRecorder(log)
	machine := lifecycle.NewMachine(log, fakeSyncer{}, recorder, publisher)

	return &fixture{
		store:     store,
		uow:       memory.NewUnitOfWork(store),
		provider:  provider,
		publisher: publisher,
		orch:      NewOrchestrator(log, provider, machine, recorder, publisher),
		order:     order,
		sub:       sub,
		actor:     uuid.New(),
	}
}

func (f *fixture) request(amount float64, policy string) dto.RefundRequest {
	return dto.RefundRequest{
		OrderId: f.order.Id,
		Amount:  amount,
		Reason:  "customer complaint",
		Policy:  policy,
	}
}

func TestRefundValidation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name   string
		mutate func(*dto.RefundRequest)
	}{
		{name: "reason required", mutate: func(r *dto.RefundRequest) { r.Reason = "" }},
		{name: "amount must be positive", mutate: func(r *dto.RefundRequest) { r.Amount = 0 }},
		{name: "amount capped by final price", mutate: func(r *dto.RefundRequest) { r.Amount = 100 }},
		{name: "revoke needs full refund", mutate: func(r *dto.RefundRequest) { r.Amount = 20 }},
		{name: "unknown policy", mutate: func(r *dto.RefundRequest) { r.Policy = "shrug" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := f.request(49, dto.RefundPolicyRevoke)
			tt.mutate(&req)

			_, err := f.orch.Refund(context.Background(), f.uow, f.actor, req)
			assert.True(t, apperrors.IsValidation(err))
			assert.Equal(t, 0, f.provider.calls)
		})
	}
}

func TestRefundKeepRejectsFullAmount(t *testing.T) {
	f := newFixture(t)

	_, err := f.orch.Refund(context.Background(), f.uow, f.actor, f.request(49, dto.RefundPolicyKeep))
	assert.True(t, apperrors.IsValidation(err))
}

func TestRefundReduceRequiresDays(t *testing.T) {
	f := newFixture(t)

	_, err := f.orch.Refund(context.Background(), f.uow, f.actor, f.request(20, dto.RefundPolicyReduce))
	assert.True(t, apperrors.IsValidation(err))
}

func TestRefundAmountCappedByPayments(t *testing.T) {
	f := newFixture(t)
	// Final price says 49 but only 30 actually settled.
	f.store.Payments[0].Amount = 30

	_, err := f.orch.Refund(context.Background(), f.uow, f.actor, f.request(49, dto.RefundPolicyRevoke))
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, 0, f.provider.calls)
}

func TestRefundProviderFailureMutatesNothing(t *testing.T) {
	f := newFixture(t)
	f.provider.err = errors.New("gateway 502")

	_, err := f.orch.Refund(context.Background(), f.uow, f.actor, f.request(49, dto.RefundPolicyRevoke))
	assert.True(t, apperrors.IsRefundProvider(err))

	// If the money never moved, the ledger must not say otherwise.
	assert.Equal(t, entity.OrderStatusPaid, f.store.Orders[0].Status)
	assert.Equal(t, entity.PaymentStatusSucceeded, f.store.Payments[0].Status)
	assert.True(t, f.store.Subscriptions[0].AccessEnd.After(time.Now().AddDate(0, 0, 20)))
	assert.Empty(t, f.store.Audits)
	assert.Equal(t, 0, f.publisher.refunded)
}

func TestFullRefundRevokePolicy(t *testing.T) {
	f := newFixture(t)

	res, err := f.orch.Refund(context.Background(), f.uow, f.actor, f.request(49, dto.RefundPolicyRevoke))
	require.NoError(t, err)

	assert.Equal(t, float64(49), res.Amount)
	assert.Equal(t, dto.RefundPolicyRevoke, res.Policy)
	require.NotNil(t, res.SubscriptionId)
	assert.Equal(t, f.sub.Id, *res.SubscriptionId)

	assert.Equal(t, entity.OrderStatusRefunded, f.store.Orders[0].Status)
	assert.Equal(t, entity.PaymentStatusRefunded, f.store.Payments[0].Status)
	assert.WithinDuration(t, time.Now(), f.store.Subscriptions[0].AccessEnd, time.Minute)
	assert.Equal(t, 1, f.publisher.refunded)
	assert.Equal(t, 1, f.publisher.revoked)

	// One record for the revoke transition, one for the refund itself.
	require.Len(t, f.store.Audits, 2)
	assert.Equal(t, entity.AuditActionRefund, f.store.Audits[1].Action)
}

func TestPartialRefundReducePolicy(t *testing.T) {
	f := newFixture(t)
	endBefore := f.sub.AccessEnd

	req := f.request(20, dto.RefundPolicyReduce)
	req.ReduceDays = 10

	_, err := f.orch.Refund(context.Background(), f.uow, f.actor, req)
	require.NoError(t, err)

	// Partial refund keeps the order paid; only the window shrinks.
	assert.Equal(t, entity.OrderStatusPaid, f.store.Orders[0].Status)
	assert.Equal(t, endBefore.AddDate(0, 0, -10), f.store.Subscriptions[0].AccessEnd)
}

func TestPartialRefundKeepPolicyCancels(t *testing.T) {
	f := newFixture(t)

	_, err := f.orch.Refund(context.Background(), f.uow, f.actor, f.request(20, dto.RefundPolicyKeep))
	require.NoError(t, err)

	sub := f.store.Subscriptions[0]
	assert.NotNil(t, sub.CanceledAt)
	assert.False(t, sub.AutoRenew)
	// Access persists to the paid-through date.
	assert.True(t, sub.AccessEnd.After(time.Now().AddDate(0, 0, 20)))
}

func TestFullRefundKeepSubscriptionPolicy(t *testing.T) {
	f := newFixture(t)

	_, err := f.orch.Refund(context.Background(), f.uow, f.actor, f.request(49, dto.RefundPolicyKeepSubscription))
	require.NoError(t, err)

	// Money returned, order marked, but access and renewal untouched.
	assert.Equal(t, entity.OrderStatusRefunded, f.store.Orders[0].Status)
	sub := f.store.Subscriptions[0]
	assert.Nil(t, sub.CanceledAt)
	assert.True(t, sub.AccessEnd.After(time.Now().AddDate(0, 0, 20)))
}

func TestRefundWithoutSubscriptionWarns(t *testing.T) {
	f := newFixture(t)
	f.store.Subscriptions = nil

	res, err := f.orch.Refund(context.Background(), f.uow, f.actor, f.request(49, dto.RefundPolicyRevoke))
	require.NoError(t, err)

	assert.Nil(t, res.SubscriptionId)
	assert.NotEmpty(t, res.Warning)
}

func TestRefundUnknownOrder(t *testing.T) {
	f := newFixture(t)

	req := f.request(49, dto.RefundPolicyRevoke)
	req.OrderId = uuid.New()

	_, err := f.orch.Refund(context.Background(), f.uow, f.actor, req)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
