package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWindowFromDays(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		days    int
		wantEnd time.Time
	}{
		{name: "single day ends same day", days: 1, wantEnd: start},
		{name: "thirty days", days: 30, wantEnd: time.Date(2026, 3, 30, 0, 0, 0, 0, time.UTC)},
		{name: "full year", days: 365, wantEnd: time.Date(2027, 2, 28, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := WindowFromDays(start, tt.days)
			assert.Equal(t, start, w.Start)
			assert.Equal(t, tt.wantEnd, w.End)
			assert.Equal(t, tt.days, w.Days())
			assert.True(t, w.Valid())
		})
	}
}

func TestAccessWindowValid(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	assert.True(t, AccessWindow{Start: start, End: start}.Valid())
	assert.True(t, AccessWindow{Start: start, End: start.AddDate(0, 0, 1)}.Valid())
	assert.False(t, AccessWindow{Start: start, End: start.AddDate(0, 0, -1)}.Valid())
}

func TestAccessWindowIsZero(t *testing.T) {
	assert.True(t, AccessWindow{}.IsZero())
	assert.False(t, AccessWindow{Start: time.Now()}.IsZero())
}

func TestSubscriptionIsOpen(t *testing.T) {
	now := time.Now()
	canceled := now.Add(-time.Hour)

	tests := []struct {
		name string
		sub  Subscription
		want bool
	}{
		{
			name: "active within window",
			sub:  Subscription{Status: SubscriptionStatusActive, AccessEnd: now.AddDate(0, 0, 10)},
			want: true,
		},
		{
			name: "trial within window",
			sub:  Subscription{Status: SubscriptionStatusTrial, AccessEnd: now.AddDate(0, 0, 10)},
			want: true,
		},
		{
			name: "active but expired",
			sub:  Subscription{Status: SubscriptionStatusActive, AccessEnd: now.AddDate(0, 0, -1)},
			want: false,
		},
		{
			name: "active but canceled",
			sub:  Subscription{Status: SubscriptionStatusActive, AccessEnd: now.AddDate(0, 0, 10), CanceledAt: &canceled},
			want: false,
		},
		{
			name: "expired status",
			sub:  Subscription{Status: SubscriptionStatusExpired, AccessEnd: now.AddDate(0, 0, 10)},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.sub.IsOpen(now))
		})
	}
}

func TestSyncResultsMerge(t *testing.T) {
	base := SyncResults{ProviderCommunity: {Success: true}}

	merged := base.Merge(SyncResults{ProviderCourse: {Success: false, Error: "timeout"}})
	assert.Len(t, merged, 2)
	assert.True(t, merged[ProviderCommunity].Success)
	assert.Equal(t, "timeout", merged[ProviderCourse].Error)

	// Overlay wins on key collision.
	merged = base.Merge(SyncResults{ProviderCommunity: {Success: false, Error: "revoked"}})
	assert.False(t, merged[ProviderCommunity].Success)

	// Merging nothing returns the receiver untouched.
	assert.Equal(t, base, base.Merge(nil))
}

func TestRefundableAmount(t *testing.T) {
	payments := []*Payment{
		{Amount: 49, Status: PaymentStatusSucceeded},
		{Amount: 49, Status: PaymentStatusSucceeded},
		{Amount: 49, Status: PaymentStatusRefunded},
		{Amount: 49, Status: PaymentStatusFailed},
	}
	assert.Equal(t, float64(98), RefundableAmount(payments))
	assert.Equal(t, float64(0), RefundableAmount(nil))
}
