package mapper

import (
	"member-access-be/internal/entity"
	"member-access-be/internal/model"
)

type OrderMapper struct{}

func NewOrderMapper() *OrderMapper {
	return &OrderMapper{}
}

func (m *OrderMapper) ToEntity(o *model.Order) *entity.Order {
	if o == nil {
		return nil
	}
	return &entity.Order{
		Id:          o.Id,
		UserId:      o.UserId,
		ProductId:   o.ProductId,
		TariffId:    o.TariffId,
		BasePrice:   o.BasePrice,
		FinalPrice:  o.FinalPrice,
		PaidAmount:  o.PaidAmount,
		Currency:    o.Currency,
		Status:      entity.OrderStatus(o.Status),
		IsTrial:     o.IsTrial,
		Source:      entity.OrderSource(o.Source),
		Comment:     o.Comment,
		SubOffer:    o.SubOffer,
		AccessStart: o.AccessStart,
		AccessEnd:   o.AccessEnd,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

func (m *OrderMapper) ToModel(o *entity.Order) *model.Order {
	if o == nil {
		return nil
	}
	return &model.Order{
		Id:          o.Id,
		UserId:      o.UserId,
		ProductId:   o.ProductId,
		TariffId:    o.TariffId,
		BasePrice:   o.BasePrice,
		FinalPrice:  o.FinalPrice,
		PaidAmount:  o.PaidAmount,
		Currency:    o.Currency,
		Status:      string(o.Status),
		IsTrial:     o.IsTrial,
		Source:      string(o.Source),
		Comment:     o.Comment,
		SubOffer:    o.SubOffer,
		AccessStart: o.AccessStart,
		AccessEnd:   o.AccessEnd,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

func (m *OrderMapper) PaymentToEntity(p *model.Payment) *entity.Payment {
	if p == nil {
		return nil
	}
	return &entity.Payment{
		Id:         p.Id,
		OrderId:    p.OrderId,
		Amount:     p.Amount,
		Currency:   p.Currency,
		Status:     entity.PaymentStatus(p.Status),
		Provider:   p.Provider,
		ProviderId: p.ProviderId,
		ReceiptRef: p.ReceiptRef,
		PaidAt:     p.PaidAt,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func (m *OrderMapper) PaymentToModel(p *entity.Payment) *model.Payment {
	if p == nil {
		return nil
	}
	return &model.Payment{
		Id:         p.Id,
		OrderId:    p.OrderId,
		Amount:     p.Amount,
		Currency:   p.Currency,
		Status:     string(p.Status),
		Provider:   p.Provider,
		ProviderId: p.ProviderId,
		ReceiptRef: p.ReceiptRef,
		PaidAt:     p.PaidAt,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}
