package entity

import (
	"time"

	"github.com/google/uuid"
)

type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusTrial     SubscriptionStatus = "trial"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
	SubscriptionStatusPaused    SubscriptionStatus = "paused"
)

// Provider keys used in a subscription's sync-results map.
const (
	ProviderCommunity = "community"
	ProviderCourse    = "course"
	ProviderPayment   = "payment"
)

// SyncResult is the recorded outcome of one external provider call.
type SyncResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// SyncResults maps provider name to the last recorded call outcome.
type SyncResults map[string]SyncResult

// Merge overlays other onto s, returning the merged map. A nil receiver is
// treated as empty.
func (s SyncResults) Merge(other SyncResults) SyncResults {
	if len(other) == 0 {
		return s
	}
	merged := SyncResults{}
	for k, v := range s {
		merged[k] = v
	}
	for k, v := range other {
		merged[k] = v
	}
	return merged
}

// Subscription is the access grant itself: a validity window tied to a
// (user, product, tariff) triple. At most one open subscription may exist
// per triple; the grant orchestrator extends in place instead of
// duplicating.
type Subscription struct {
	Id              uuid.UUID
	UserId          uuid.UUID
	ProductId       uuid.UUID
	TariffId        uuid.UUID
	OrderId         uuid.UUID
	Status          SubscriptionStatus
	AccessStart     time.Time
	AccessEnd       time.Time
	CanceledAt      *time.Time
	NextChargeAt    *time.Time
	AutoRenew       bool
	PaymentMethodId *uuid.UUID
	ChargeAttempts  int
	SyncResults     SyncResults
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsOpen reports whether the subscription currently grants access: active
// or trial, not canceled, and not yet past its access window.
func (s *Subscription) IsOpen(now time.Time) bool {
	if s.Status != SubscriptionStatusActive && s.Status != SubscriptionStatusTrial {
		return false
	}
	if s.CanceledAt != nil {
		return false
	}
	return s.AccessEnd.After(now)
}

// IsExpired reports whether the access window is already in the past.
func (s *Subscription) IsExpired(now time.Time) bool {
	return !s.AccessEnd.After(now)
}
