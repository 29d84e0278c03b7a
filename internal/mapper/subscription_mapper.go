package mapper

import (
	"encoding/json"

	"member-access-be/internal/entity"
	"member-access-be/internal/model"

	"gorm.io/datatypes"
)

type SubscriptionMapper struct{}

func NewSubscriptionMapper() *SubscriptionMapper {
	return &SubscriptionMapper{}
}

func (m *SubscriptionMapper) ToEntity(s *model.Subscription) *entity.Subscription {
	if s == nil {
		return nil
	}
	var syncResults entity.SyncResults
	if len(s.SyncResults) > 0 {
		// A corrupt JSONB blob should not make the whole row unreadable.
		if err := json.Unmarshal(s.SyncResults, &syncResults); err != nil {
			syncResults = nil
		}
	}
	return &entity.Subscription{
		Id:              s.Id,
		UserId:          s.UserId,
		ProductId:       s.ProductId,
		TariffId:        s.TariffId,
		OrderId:         s.OrderId,
		Status:          entity.SubscriptionStatus(s.Status),
		AccessStart:     s.AccessStart,
		AccessEnd:       s.AccessEnd,
		CanceledAt:      s.CanceledAt,
		NextChargeAt:    s.NextChargeAt,
		AutoRenew:       s.AutoRenew,
		PaymentMethodId: s.PaymentMethodId,
		ChargeAttempts:  s.ChargeAttempts,
		SyncResults:     syncResults,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

func (m *SubscriptionMapper) ToModel(s *entity.Subscription) *model.Subscription {
	if s == nil {
		return nil
	}
	var syncResults datatypes.JSON
	if len(s.SyncResults) > 0 {
		if raw, err := json.Marshal(s.SyncResults); err == nil {
			syncResults = datatypes.JSON(raw)
		}
	}
	return &model.Subscription{
		Id:              s.Id,
		UserId:          s.UserId,
		ProductId:       s.ProductId,
		TariffId:        s.TariffId,
		OrderId:         s.OrderId,
		Status:          string(s.Status),
		AccessStart:     s.AccessStart,
		AccessEnd:       s.AccessEnd,
		CanceledAt:      s.CanceledAt,
		NextChargeAt:    s.NextChargeAt,
		AutoRenew:       s.AutoRenew,
		PaymentMethodId: s.PaymentMethodId,
		ChargeAttempts:  s.ChargeAttempts,
		SyncResults:     syncResults,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}
