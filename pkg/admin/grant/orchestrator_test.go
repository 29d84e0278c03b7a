package grant

import (
	"context"
	"testing"
	"time"

	"member-access-be/internal/apperrors"
	"member-access-be/internal/dto"
	"member-access-be/internal/entity"
	"member-access-be/internal/pkg/logger"
	"member-access-be/internal/repository/memory"
	"member-access-be/pkg/admin/audit"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSyncer struct {
	communityErr   string
	courseErr      string
	communityCalls int
	courseCalls    int
}

func (f *fakeSyncer) GrantCommunity(ctx context.Context, memberRef, clubId string, durationDays int, source string) entity.SyncResult {
	f.communityCalls++
	if f.communityErr != "" {
		return entity.SyncResult{Success: false, Error: f.communityErr}
	}
	return entity.SyncResult{Success: true}
}

func (f *fakeSyncer) EnrollCourse(ctx context.Context, orderRef, email, offerId, tariffCode string) entity.SyncResult {
	f.courseCalls++
	if f.courseErr != "" {
		return entity.SyncResult{Success: false, Error: f.courseErr}
	}
	return entity.SyncResult{Success: true}
}

type fakeLocker struct {
	held     bool
	released []string
}

func (f *fakeLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return !f.held, nil
}

func (f *fakeLocker) Release(ctx context.Context, key string) error {
	f.released = append(f.released, key)
	return nil
}

type fakeNotifier struct {
	subjects []string
}

func (f *fakeNotifier) NotifyAdmins(subject, message string, meta map[string]interface{}) {
	f.subjects = append(f.subjects, subject)
}

type fakePublisher struct {
	granted     int
	revoked     int
	refunded    int
	syncFailed  int
	lastExtends []bool
}

func (f *fakePublisher) PublishAccessGranted(ctx context.Context, userId, orderId, subscriptionId uuid.UUID, productName string, days int, extended bool) {
	f.granted++
	f.lastExtends = append(f.lastExtends, extended)
}

func (f *fakePublisher) PublishAccessRevoked(ctx context.Context, userId, subscriptionId uuid.UUID, reason string) {
	f.revoked++
}

func (f *fakePublisher) PublishSubscriptionRefunded(ctx context.Context, userId, orderId uuid.UUID, amount float64, policy, reason string) {
	f.refunded++
}

func (f *fakePublisher) PublishProviderSyncFailed(ctx context.Context, userId uuid.UUID, provider, errMessage string) {
	f.syncFailed++
}

type fixture struct {
	store     *memory.Store
	uow       *memory.UnitOfWork
	syncer    *fakeSyncer
	locker    *fakeLocker
	notifier  *fakeNotifier
	publisher *fakePublisher
	orch      *Orchestrator
	user      *entity.User
	product   *entity.Product
	tariff    *entity.Tariff
	actor     uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ref := "tg-1001"
	clubId := "club-main"
	offerId := "offer-monthly"

	user := &entity.User{
		Id:           uuid.New(),
		Email:        "member@example.com",
		FullName:     "Test Member",
		MessengerRef: &ref,
		Status:       entity.UserStatusActive,
	}
	product := &entity.Product{
		Id:       uuid.New(),
		Name:     "Pro Membership",
		Slug:     "pro-membership",
		ClubId:   &clubId,
		IsActive: true,
	}
	tariff := &entity.Tariff{
		Id:            uuid.New(),
		ProductId:     product.Id,
		Name:          "Monthly",
		Price:         49,
		Currency:      "USD",
		DurationDays:  30,
		CourseOfferId: &offerId,
		IsActive:      true,
	}

	store := &memory.Store{
		Users:    []*entity.User{user},
		Products: []*entity.Product{product},
		Tariffs:  []*entity.Tariff{tariff},
	}

	syncer := &fakeSyncer{}
	locker := &fakeLocker{}
	notifier := &fakeNotifier{}
	publisher := &fakePublisher{}

	log := logger.NewNopLogger()
	orch := NewOrchestrator(log, syncer, locker, audit.NewRecorder(log), publisher, notifier)

	return &fixture{
		store:     store,
		uow:       memory.NewUnitOfWork(store),
		syncer:    syncer,
		locker:    locker,
		notifier:  notifier,
		publisher: publisher,
		orch:      orch,
		user:      user,
		product:   product,
		tariff:    tariff,
		actor:     uuid.New(),
	}
}

func (f *fixture) grantRequest(days int) dto.GrantAccessRequest {
	return dto.GrantAccessRequest{
		UserId:     f.user.Id,
		ProductId:  f.product.Id,
		TariffId:   f.tariff.Id,
		Days:       &days,
		PaidAmount: 49,
	}
}

func TestGrantAccessCreatesLedgerRows(t *testing.T) {
	f := newFixture(t)

	res, err := f.orch.GrantAccess(context.Background(), f.uow, f.actor, f.grantRequest(30))
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.False(t, res.Extended)
	assert.Empty(t, res.Warning)
	require.NotNil(t, res.SubscriptionId)

	require.Len(t, f.store.Orders, 1)
	order := f.store.Orders[0]
	assert.Equal(t, entity.OrderStatusPaid, order.Status)
	assert.Equal(t, entity.OrderSourceAdminGrant, order.Source)
	assert.Equal(t, float64(49), order.PaidAmount)
	require.NotNil(t, order.AccessStart)
	// Reporting follows economic timing, not operator click time.
	assert.Equal(t, *order.AccessStart, order.CreatedAt)

	require.Len(t, f.store.Payments, 1)
	assert.Equal(t, entity.PaymentStatusSucceeded, f.store.Payments[0].Status)
	assert.Equal(t, "admin", f.store.Payments[0].Provider)

	require.Len(t, f.store.Subscriptions, 1)
	sub := f.store.Subscriptions[0]
	assert.Equal(t, entity.SubscriptionStatusActive, sub.Status)
	assert.Equal(t, order.Id, sub.OrderId)
	assert.False(t, sub.AutoRenew)
	assert.Equal(t, 30, entity.AccessWindow{Start: sub.AccessStart, End: sub.AccessEnd}.Days())

	require.Len(t, f.store.Grants, 1)
	assert.Equal(t, *f.product.ClubId, f.store.Grants[0].ClubId)
	assert.Equal(t, entity.AccessGrantStatusActive, f.store.Grants[0].Status)

	require.Len(t, f.store.Audits, 1)
	assert.Equal(t, entity.AuditActionGrantAccess, f.store.Audits[0].Action)
	assert.Equal(t, f.user.Id, f.store.Audits[0].TargetUserId)

	assert.Equal(t, 1, f.syncer.communityCalls)
	assert.Equal(t, 1, f.syncer.courseCalls)
	assert.Equal(t, 1, f.publisher.granted)
	assert.Equal(t, 0, f.publisher.syncFailed)
	assert.Equal(t, 1, f.store.Commits)
	assert.Equal(t, 0, f.store.Rollbacks)
}

func TestGrantAccessExtendsOpenSubscription(t *testing.T) {
	f := newFixture(t)

	existingEnd := time.Now().AddDate(0, 0, 10)
	existing := &entity.Subscription{
		Id:          uuid.New(),
		UserId:      f.user.Id,
		ProductId:   f.product.Id,
		TariffId:    f.tariff.Id,
		OrderId:     uuid.New(),
		Status:      entity.SubscriptionStatusActive,
		AccessStart: time.Now().AddDate(0, 0, -20),
		AccessEnd:   existingEnd,
	}
	f.store.Subscriptions = append(f.store.Subscriptions, existing)

	res, err := f.orch.GrantAccess(context.Background(), f.uow, f.actor, f.grantRequest(30))
	require.NoError(t, err)

	assert.True(t, res.Extended)
	require.NotNil(t, res.SubscriptionId)
	assert.Equal(t, existing.Id, *res.SubscriptionId)

	// Still one row for the triple; window pushed out, order repointed.
	require.Len(t, f.store.Subscriptions, 1)
	sub := f.store.Subscriptions[0]
	assert.True(t, sub.AccessEnd.After(existingEnd))
	assert.Equal(t, f.store.Orders[0].Id, sub.OrderId)
}

func TestGrantAccessWindowValidation(t *testing.T) {
	f := newFixture(t)
	start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, -5)
	zero := 0

	tests := []struct {
		name   string
		mutate func(*dto.GrantAccessRequest)
	}{
		{
			name:   "days must be positive",
			mutate: func(r *dto.GrantAccessRequest) { r.Days = &zero },
		},
		{
			name:   "window requires both bounds",
			mutate: func(r *dto.GrantAccessRequest) { r.Days = nil; r.AccessStart = &start },
		},
		{
			name:   "end before start",
			mutate: func(r *dto.GrantAccessRequest) { r.Days = nil; r.AccessStart = &start; r.AccessEnd = &end },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := f.grantRequest(30)
			tt.mutate(&req)

			_, err := f.orch.GrantAccess(context.Background(), f.uow, f.actor, req)
			assert.True(t, apperrors.IsValidation(err))
			assert.Empty(t, f.store.Orders)
		})
	}
}

func TestGrantAccessRejectsTariffFromOtherProduct(t *testing.T) {
	f := newFixture(t)

	other := &entity.Product{Id: uuid.New(), Name: "Other", Slug: "other", IsActive: true}
	f.store.Products = append(f.store.Products, other)

	req := f.grantRequest(30)
	req.ProductId = other.Id

	_, err := f.orch.GrantAccess(context.Background(), f.uow, f.actor, req)
	assert.True(t, apperrors.IsValidation(err))
}

func TestGrantAccessLockConflict(t *testing.T) {
	f := newFixture(t)
	f.locker.held = true

	_, err := f.orch.GrantAccess(context.Background(), f.uow, f.actor, f.grantRequest(30))
	assert.ErrorIs(t, err, apperrors.ErrGrantInProgress)
	assert.Empty(t, f.store.Orders)
	assert.Empty(t, f.locker.released)
}

func TestGrantAccessSyncFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	f.syncer.communityErr = "provider unreachable"

	res, err := f.orch.GrantAccess(context.Background(), f.uow, f.actor, f.grantRequest(30))
	require.NoError(t, err)

	assert.Contains(t, res.Warning, "community")
	assert.False(t, res.SyncResults[entity.ProviderCommunity].Success)
	assert.True(t, res.SyncResults[entity.ProviderCourse].Success)

	// Ledger rows survive the failed provider call; the outcome is
	// persisted on the subscription and surfaced to operators.
	require.Len(t, f.store.Subscriptions, 1)
	assert.False(t, f.store.Subscriptions[0].SyncResults[entity.ProviderCommunity].Success)
	assert.Equal(t, 1, f.publisher.syncFailed)
}

func TestGrantAccessWithoutMessengerIdentity(t *testing.T) {
	f := newFixture(t)
	f.store.Users[0].MessengerRef = nil

	res, err := f.orch.GrantAccess(context.Background(), f.uow, f.actor, f.grantRequest(30))
	require.NoError(t, err)

	// The community provider is never called; the failure is recorded.
	assert.Equal(t, 0, f.syncer.communityCalls)
	assert.Equal(t, "user has no messenger identity", res.SyncResults[entity.ProviderCommunity].Error)
	assert.Contains(t, res.Warning, "community")
}

func TestGrantAccessAutoRenewFollowsPaymentMethod(t *testing.T) {
	f := newFixture(t)

	pmId := uuid.New()
	req := f.grantRequest(30)
	req.PaymentMethodId = &pmId

	_, err := f.orch.GrantAccess(context.Background(), f.uow, f.actor, req)
	require.NoError(t, err)

	require.Len(t, f.store.Subscriptions, 1)
	assert.True(t, f.store.Subscriptions[0].AutoRenew)
	assert.Equal(t, pmId, *f.store.Subscriptions[0].PaymentMethodId)
}

func TestRecordOnlyBooksOrderWithoutAccess(t *testing.T) {
	f := newFixture(t)

	req := dto.GrantAccessRequest{
		UserId:     f.user.Id,
		ProductId:  f.product.Id,
		TariffId:   f.tariff.Id,
		PaidAmount: 49,
		RecordOnly: true,
	}

	res, err := f.orch.GrantAccess(context.Background(), f.uow, f.actor, req)
	require.NoError(t, err)

	assert.Nil(t, res.SubscriptionId)
	require.Len(t, f.store.Orders, 1)
	require.Len(t, f.store.Payments, 1)
	assert.Empty(t, f.store.Subscriptions)
	assert.Empty(t, f.store.Grants)
	assert.Equal(t, 0, f.syncer.communityCalls)
	assert.Equal(t, 0, f.syncer.courseCalls)
}

func TestRecordOnlyRejectsWindowFields(t *testing.T) {
	f := newFixture(t)

	days := 30
	req := dto.GrantAccessRequest{
		UserId:     f.user.Id,
		ProductId:  f.product.Id,
		TariffId:   f.tariff.Id,
		Days:       &days,
		RecordOnly: true,
	}

	_, err := f.orch.GrantAccess(context.Background(), f.uow, f.actor, req)
	assert.True(t, apperrors.IsValidation(err))
	assert.Empty(t, f.store.Orders)
}

func TestGrantAccessLedgerFailureRollsBack(t *testing.T) {
	f := newFixture(t)
	f.store.SubscriptionCreateErr = assert.AnError

	_, err := f.orch.GrantAccess(context.Background(), f.uow, f.actor, f.grantRequest(30))
	require.Error(t, err)

	var le *apperrors.LedgerError
	assert.ErrorAs(t, err, &le)
	assert.Equal(t, 1, f.store.Rollbacks)
	assert.Equal(t, 0, f.store.Commits)
	// Nothing reached the outside world.
	assert.Equal(t, 0, f.syncer.communityCalls)
	assert.Equal(t, 0, f.publisher.granted)
}

func TestGrantAccessUnknownUser(t *testing.T) {
	f := newFixture(t)

	req := f.grantRequest(30)
	req.UserId = uuid.New()

	_, err := f.orch.GrantAccess(context.Background(), f.uow, f.actor, req)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
