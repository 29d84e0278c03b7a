package entity

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string
type PaymentStatus string
type OrderSource string

const (
	OrderStatusDraft     OrderStatus = "draft"
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusPartial   OrderStatus = "partial"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusRefunded  OrderStatus = "refunded"
	OrderStatusExpired   OrderStatus = "expired"
	OrderStatusFailed    OrderStatus = "failed"

	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusSucceeded  PaymentStatus = "succeeded"
	PaymentStatusFailed     PaymentStatus = "failed"
	PaymentStatusRefunded   PaymentStatus = "refunded"
	PaymentStatusCanceled   PaymentStatus = "canceled"

	OrderSourcePurchase   OrderSource = "purchase"
	OrderSourceAdminGrant OrderSource = "admin_grant"
	OrderSourceTrial      OrderSource = "trial"
)

// Order records one purchase or administrative grant event. Once paid it is
// immutable except for metadata annotation and the transition to
// refunded/cancelled.
type Order struct {
	Id          uuid.UUID
	UserId      uuid.UUID
	ProductId   uuid.UUID
	TariffId    uuid.UUID
	BasePrice   float64
	FinalPrice  float64
	PaidAmount  float64
	Currency    string
	Status      OrderStatus
	IsTrial     bool
	Source      OrderSource
	Comment     string
	SubOffer    *string
	AccessStart *time.Time
	AccessEnd   *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Payment is one settlement attempt against an Order. Orders can carry
// several of them (installments, retries).
type Payment struct {
	Id         uuid.UUID
	OrderId    uuid.UUID
	Amount     float64
	Currency   string
	Status     PaymentStatus
	Provider   string
	ProviderId *string
	ReceiptRef *string
	PaidAt     *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// RefundableAmount sums succeeded, non-refunded payments. Refund requests
// against the order must never exceed it.
func RefundableAmount(payments []*Payment) float64 {
	var total float64
	for _, p := range payments {
		if p.Status == PaymentStatusSucceeded {
			total += p.Amount
		}
	}
	return total
}
