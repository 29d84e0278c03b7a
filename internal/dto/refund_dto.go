package dto

import (
	"github.com/google/uuid"
)

// Access-impact policies for a refund.
const (
	RefundPolicyRevoke           = "revoke"
	RefundPolicyReduce           = "reduce"
	RefundPolicyKeep             = "keep"
	RefundPolicyKeepSubscription = "keep_subscription"
)

type RefundRequest struct {
	OrderId uuid.UUID `json:"order_id" validate:"required"`
	Amount  float64   `json:"amount" validate:"required,gt=0"`
	Reason  string    `json:"reason" validate:"required"`
	Policy  string    `json:"policy" validate:"required,oneof=revoke reduce keep keep_subscription"`
	// ReduceDays is only read for the reduce policy.
	ReduceDays int `json:"reduce_days"`
}
