package lifecycle

import (
	"context"
	"testing"
	"time"

	"member-access-be/internal/apperrors"
	"member-access-be/internal/entity"
	"member-access-be/internal/pkg/logger"
	"member-access-be/internal/repository/memory"
	"member-access-be/pkg/admin/audit"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSyncer struct {
	revokeErr   string
	cancelErr   string
	revokeCalls int
	cancelCalls int
}

func (f *fakeSyncer) RevokeCommunity(ctx context.Context, memberRef, clubId, reason string) entity.SyncResult {
	f.revokeCalls++
	if f.revokeErr != "" {
		return entity.SyncResult{Success: false, Error: f.revokeErr}
	}
	return entity.SyncResult{Success: true}
}

func (f *fakeSyncer) CancelCourse(ctx context.Context, orderRef, reason string) entity.SyncResult {
	f.cancelCalls++
	if f.cancelErr != "" {
		return entity.SyncResult{Success: false, Error: f.cancelErr}
	}
	return entity.SyncResult{Success: true}
}

type fakePublisher struct {
	revoked int
}

func (f *fakePublisher) PublishAccessGranted(ctx context.Context, userId, orderId, subscriptionId uuid.UUID, productName string, days int, extended bool) {
}

func (f *fakePublisher) PublishAccessRevoked(ctx context.Context, userId, subscriptionId uuid.UUID, reason string) {
	f.revoked++
}

func (f *fakePublisher) PublishSubscriptionRefunded(ctx context.Context, userId, orderId uuid.UUID, amount float64, policy, reason string) {
}

func (f *fakePublisher) PublishProviderSyncFailed(ctx context.Context, userId uuid.UUID, provider, errMessage string) {
}

type fixture struct {
	store     *memory.Store
	uow       *memory.UnitOfWork
	syncer    *fakeSyncer
	publisher *fakePublisher
	machine   *Machine
	sub       *entity.Subscription
	actor     uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ref := "tg-2002"
	clubId := "club-main"
	courseCode := "core-course"

	user := &entity.User{
		Id:           uuid.New(),
		Email:        "member@example.com",
		MessengerRef: &ref,
		Status:       entity.UserStatusActive,
	}
	product := &entity.Product{Id: uuid.New(), Name: "Pro Membership", Slug: "pro-membership", ClubId: &clubId, IsActive: true}
	tariff := &entity.Tariff{Id: uuid.New(), ProductId: product.Id, Name: "Monthly", CourseCode: &courseCode, IsActive: true}
	orderId := uuid.New()

	sub := &entity.Subscription{
		Id:          uuid.New(),
		UserId:      user.Id,
		ProductId:   product.Id,
		TariffId:    tariff.Id,
		OrderId:     orderId,
		Status:      entity.SubscriptionStatusActive,
		AccessStart: time.Now().AddDate(0, 0, -10),
		AccessEnd:   time.Now().AddDate(0, 0, 20),
	}

	store := &memory.Store{
		Users:    []*entity.User{user},
		Products: []*entity.Product{product},
		Tariffs:  []*entity.Tariff{tariff},
		Payments: []*entity.Payment{{Id: uuid.New(), OrderId: orderId, Amount: 49, Status: entity.PaymentStatusSucceeded}},
		Subscriptions: []*entity.Subscription{sub},
		Grants: []*entity.AccessGrantRecord{{
			Id:      uuid.New(),
			UserId:  user.Id,
			ClubId:  clubId,
			OrderId: orderId,
			Status:  entity.AccessGrantStatusActive,
		}},
	}

	syncer := &fakeSyncer{}
	publisher := &fakePublisher{}
	log := logger.NewNopLogger()

	return &fixture{
		store:     store,
		uow:       memory.NewUnitOfWork(store),
		syncer:    syncer,
		publisher: publisher,
		machine:   NewMachine(log, syncer, audit.NewRecorder(log), publisher),
		sub:       sub,
		actor:     uuid.New(),
	}
}

func TestCancelStopsRenewalKeepsAccess(t *testing.T) {
	f := newFixture(t)
	f.sub.AutoRenew = true
	endBefore := f.sub.AccessEnd

	sub, err := f.machine.Cancel(context.Background(), f.uow, f.actor, f.sub.Id, "customer request")
	require.NoError(t, err)

	assert.NotNil(t, sub.CanceledAt)
	assert.False(t, sub.AutoRenew)
	assert.Equal(t, endBefore, sub.AccessEnd)

	require.Len(t, f.store.Audits, 1)
	assert.Equal(t, entity.AuditActionCancel, f.store.Audits[0].Action)
}

func TestCancelAlreadyCanceled(t *testing.T) {
	f := newFixture(t)
	now := time.Now()
	f.sub.CanceledAt = &now

	_, err := f.machine.Cancel(context.Background(), f.uow, f.actor, f.sub.Id, "again")
	assert.True(t, apperrors.IsValidation(err))
}

func TestResumeClearsCancellation(t *testing.T) {
	f := newFixture(t)
	now := time.Now()
	f.sub.CanceledAt = &now

	sub, err := f.machine.Resume(context.Background(), f.uow, f.actor, f.sub.Id)
	require.NoError(t, err)
	assert.Nil(t, sub.CanceledAt)
}

func TestResumeNotCanceled(t *testing.T) {
	f := newFixture(t)

	_, err := f.machine.Resume(context.Background(), f.uow, f.actor, f.sub.Id)
	assert.True(t, apperrors.IsValidation(err))
}

func TestResumeExpiredSubscription(t *testing.T) {
	f := newFixture(t)
	now := time.Now()
	f.sub.CanceledAt = &now
	f.sub.AccessEnd = now.AddDate(0, 0, -1)

	_, err := f.machine.Resume(context.Background(), f.uow, f.actor, f.sub.Id)
	assert.True(t, apperrors.IsValidation(err))
}

func TestExtendAddsDays(t *testing.T) {
	f := newFixture(t)
	endBefore := f.sub.AccessEnd

	sub, err := f.machine.Extend(context.Background(), f.uow, f.actor, f.sub.Id, 15)
	require.NoError(t, err)
	assert.Equal(t, endBefore.AddDate(0, 0, 15), sub.AccessEnd)
}

func TestExtendExpiredStartsFromNow(t *testing.T) {
	f := newFixture(t)
	f.sub.AccessEnd = time.Now().AddDate(0, 0, -30)

	sub, err := f.machine.Extend(context.Background(), f.uow, f.actor, f.sub.Id, 15)
	require.NoError(t, err)

	// A long-lapsed subscription gets its new window from today, not
	// appended onto the stale end date.
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 15), sub.AccessEnd, time.Minute)
}

func TestExtendValidatesDays(t *testing.T) {
	f := newFixture(t)

	for _, days := range []int{0, -5} {
		_, err := f.machine.Extend(context.Background(), f.uow, f.actor, f.sub.Id, days)
		assert.True(t, apperrors.IsValidation(err))
	}
}

func TestReduceAccessShrinksWindow(t *testing.T) {
	f := newFixture(t)
	endBefore := f.sub.AccessEnd

	sub, err := f.machine.ReduceAccess(context.Background(), f.uow, f.actor, f.sub.Id, 10, "partial refund")
	require.NoError(t, err)
	assert.Equal(t, endBefore.AddDate(0, 0, -10), sub.AccessEnd)

	_, err = f.machine.ReduceAccess(context.Background(), f.uow, f.actor, f.sub.Id, 0, "bad")
	assert.True(t, apperrors.IsValidation(err))
}

func TestGrantAccessReactivatesLapsed(t *testing.T) {
	f := newFixture(t)
	canceled := time.Now().AddDate(0, 0, -40)
	f.sub.Status = entity.SubscriptionStatusExpired
	f.sub.CanceledAt = &canceled
	f.sub.AccessEnd = time.Now().AddDate(0, 0, -30)

	sub, err := f.machine.GrantAccess(context.Background(), f.uow, f.actor, f.sub.Id, 30)
	require.NoError(t, err)

	assert.Equal(t, entity.SubscriptionStatusActive, sub.Status)
	assert.Nil(t, sub.CanceledAt)
	assert.WithinDuration(t, time.Now(), sub.AccessStart, time.Minute)
	assert.Equal(t, 30, entity.AccessWindow{Start: sub.AccessStart, End: sub.AccessEnd}.Days())
}

func TestRevokeAccessClosesWindowAndRevokesExternally(t *testing.T) {
	f := newFixture(t)

	sub, err := f.machine.RevokeAccess(context.Background(), f.uow, f.actor, f.sub.Id, "chargeback")
	require.NoError(t, err)

	assert.WithinDuration(t, time.Now(), sub.AccessEnd, time.Minute)
	assert.Equal(t, entity.AccessGrantStatusRevoked, f.store.Grants[0].Status)
	assert.Equal(t, 1, f.syncer.revokeCalls)
	assert.Equal(t, 1, f.syncer.cancelCalls)
	assert.Equal(t, 1, f.publisher.revoked)

	require.Len(t, f.store.Audits, 1)
	assert.Equal(t, entity.AuditActionRevokeAccess, f.store.Audits[0].Action)
}

func TestRevokeAccessProviderFailureRecorded(t *testing.T) {
	f := newFixture(t)
	f.syncer.revokeErr = "provider down"

	sub, err := f.machine.RevokeAccess(context.Background(), f.uow, f.actor, f.sub.Id, "fraud")
	require.NoError(t, err)

	// The local revoke stands regardless of the provider outcome.
	assert.WithinDuration(t, time.Now(), sub.AccessEnd, time.Minute)
	assert.False(t, f.store.Subscriptions[0].SyncResults[entity.ProviderCommunity].Success)
}

func TestDeleteRemovesSubscriptionAndPayments(t *testing.T) {
	f := newFixture(t)

	err := f.machine.Delete(context.Background(), f.uow, f.actor, f.sub.Id, "erroneous grant")
	require.NoError(t, err)

	assert.Empty(t, f.store.Subscriptions)
	assert.Empty(t, f.store.Payments)
	assert.Equal(t, 1, f.syncer.revokeCalls)
	assert.Equal(t, 1, f.publisher.revoked)

	// The provider outcome survives in the audit trail once the row is
	// gone.
	require.Len(t, f.store.Audits, 1)
	assert.Equal(t, entity.AuditActionDelete, f.store.Audits[0].Action)
	assert.Contains(t, f.store.Audits[0].Meta, "sync_results")
}

func TestToggleAutoRenewRequiresReason(t *testing.T) {
	f := newFixture(t)

	_, err := f.machine.ToggleAutoRenew(context.Background(), f.uow, f.actor, f.sub.Id, true, "")
	assert.True(t, apperrors.IsValidation(err))
}

func TestToggleAutoRenewWarnsWithoutPaymentMethod(t *testing.T) {
	f := newFixture(t)

	res, err := f.machine.ToggleAutoRenew(context.Background(), f.uow, f.actor, f.sub.Id, true, "customer asked")
	require.NoError(t, err)

	assert.True(t, res.Subscription.AutoRenew)
	assert.NotEmpty(t, res.Warning)

	pm := uuid.New()
	f.store.Subscriptions[0].PaymentMethodId = &pm

	res, err = f.machine.ToggleAutoRenew(context.Background(), f.uow, f.actor, f.sub.Id, true, "retry")
	require.NoError(t, err)
	assert.Empty(t, res.Warning)
}

func TestTransitionUnknownSubscription(t *testing.T) {
	f := newFixture(t)

	_, err := f.machine.Cancel(context.Background(), f.uow, f.actor, uuid.New(), "nope")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
