package dto

import (
	"time"

	"github.com/google/uuid"
)

// GrantAccessRequest covers both real grants and the "record only, no
// access" bookkeeping mode. The window can be given as start/end dates or
// as a day count from the start date; the two forms are interchangeable.
type GrantAccessRequest struct {
	UserId    uuid.UUID `json:"user_id" validate:"required"`
	ProductId uuid.UUID `json:"product_id" validate:"required"`
	TariffId  uuid.UUID `json:"tariff_id" validate:"required"`

	AccessStart *time.Time `json:"access_start"`
	AccessEnd   *time.Time `json:"access_end"`
	Days        *int       `json:"days"`

	PaidAmount      float64    `json:"paid_amount" validate:"gte=0"`
	Comment         string     `json:"comment"`
	SubOffer        string     `json:"sub_offer"`
	PaymentMethodId *uuid.UUID `json:"payment_method_id"`

	// RecordOnly creates an order without a subscription or any external
	// sync. Rejected when window fields are present.
	RecordOnly bool `json:"record_only"`
}
