package mapper

import (
	"member-access-be/internal/entity"
	"member-access-be/internal/model"
)

type AccessGrantMapper struct{}

func NewAccessGrantMapper() *AccessGrantMapper {
	return &AccessGrantMapper{}
}

func (m *AccessGrantMapper) ToEntity(r *model.AccessGrantRecord) *entity.AccessGrantRecord {
	if r == nil {
		return nil
	}
	return &entity.AccessGrantRecord{
		Id:        r.Id,
		UserId:    r.UserId,
		ClubId:    r.ClubId,
		Source:    entity.OrderSource(r.Source),
		OrderId:   r.OrderId,
		StartAt:   r.StartAt,
		EndAt:     r.EndAt,
		Status:    entity.AccessGrantStatus(r.Status),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func (m *AccessGrantMapper) ToModel(r *entity.AccessGrantRecord) *model.AccessGrantRecord {
	if r == nil {
		return nil
	}
	return &model.AccessGrantRecord{
		Id:        r.Id,
		UserId:    r.UserId,
		ClubId:    r.ClubId,
		Source:    string(r.Source),
		OrderId:   r.OrderId,
		StartAt:   r.StartAt,
		EndAt:     r.EndAt,
		Status:    string(r.Status),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
