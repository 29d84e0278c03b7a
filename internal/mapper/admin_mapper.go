package mapper

import (
	"member-access-be/internal/entity"
	"member-access-be/internal/model"
)

type AdminMapper struct{}

func NewAdminMapper() *AdminMapper {
	return &AdminMapper{}
}

func (m *AdminMapper) ToEntity(a *model.AdminUser) *entity.AdminUser {
	if a == nil {
		return nil
	}
	return &entity.AdminUser{
		Id:           a.Id,
		Email:        a.Email,
		FullName:     a.FullName,
		PasswordHash: a.PasswordHash,
		IsActive:     a.IsActive,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func (m *AdminMapper) ToModel(a *entity.AdminUser) *model.AdminUser {
	if a == nil {
		return nil
	}
	return &model.AdminUser{
		Id:           a.Id,
		Email:        a.Email,
		FullName:     a.FullName,
		PasswordHash: a.PasswordHash,
		IsActive:     a.IsActive,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}
