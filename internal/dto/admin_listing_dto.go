package dto

import (
	"time"

	"github.com/google/uuid"
)

type ListRequest struct {
	Page   int    `query:"page"`
	Limit  int    `query:"limit"`
	UserId string `query:"user_id"`
	Status string `query:"status"`
}

type SubscriptionListItem struct {
	Id          uuid.UUID              `json:"id"`
	UserId      uuid.UUID              `json:"user_id"`
	ProductId   uuid.UUID              `json:"product_id"`
	TariffId    uuid.UUID              `json:"tariff_id"`
	OrderId     uuid.UUID              `json:"order_id"`
	Status      string                 `json:"status"`
	AccessStart time.Time              `json:"access_start"`
	AccessEnd   time.Time              `json:"access_end"`
	CanceledAt  *time.Time             `json:"canceled_at,omitempty"`
	AutoRenew   bool                   `json:"auto_renew"`
	SyncResults map[string]interface{} `json:"sync_results,omitempty"`
}

type OrderListItem struct {
	Id         uuid.UUID `json:"id"`
	UserId     uuid.UUID `json:"user_id"`
	ProductId  uuid.UUID `json:"product_id"`
	TariffId   uuid.UUID `json:"tariff_id"`
	Status     string    `json:"status"`
	BasePrice  float64   `json:"base_price"`
	FinalPrice float64   `json:"final_price"`
	PaidAmount float64   `json:"paid_amount"`
	Currency   string    `json:"currency"`
	Source     string    `json:"source"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type AuditListItem struct {
	Id           uuid.UUID              `json:"id"`
	ActorId      *uuid.UUID             `json:"actor_id,omitempty"`
	Action       string                 `json:"action"`
	TargetUserId uuid.UUID              `json:"target_user_id"`
	Meta         map[string]interface{} `json:"meta,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
}
