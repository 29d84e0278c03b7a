package dto

type CancelSubscriptionRequest struct {
	Reason string `json:"reason"`
}

type ExtendSubscriptionRequest struct {
	Days int `json:"days" validate:"required"`
}

type GrantSubscriptionAccessRequest struct {
	Days int `json:"days" validate:"required,gt=0"`
}

type RevokeAccessRequest struct {
	Reason string `json:"reason" validate:"required"`
}

type DeleteSubscriptionRequest struct {
	Reason string `json:"reason" validate:"required"`
}

type ToggleAutoRenewRequest struct {
	Target bool   `json:"target"`
	Reason string `json:"reason" validate:"required"`
}

type ToggleAutoRenewResponse struct {
	Subscription SubscriptionListItem `json:"subscription"`
	Warning      string               `json:"warning,omitempty"`
}
