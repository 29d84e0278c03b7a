package mapper

import (
	"member-access-be/internal/entity"
	"member-access-be/internal/model"
)

type CatalogMapper struct{}

func NewCatalogMapper() *CatalogMapper {
	return &CatalogMapper{}
}

func (m *CatalogMapper) ProductToEntity(p *model.Product) *entity.Product {
	if p == nil {
		return nil
	}
	return &entity.Product{
		Id:          p.Id,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		ClubId:      p.ClubId,
		IsActive:    p.IsActive,
		SortOrder:   p.SortOrder,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		Tariffs:     m.mapTariffsToEntities(p.Tariffs),
	}
}

func (m *CatalogMapper) ProductToModel(p *entity.Product) *model.Product {
	if p == nil {
		return nil
	}
	return &model.Product{
		Id:          p.Id,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		ClubId:      p.ClubId,
		IsActive:    p.IsActive,
		SortOrder:   p.SortOrder,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (m *CatalogMapper) TariffToEntity(t *model.Tariff) *entity.Tariff {
	if t == nil {
		return nil
	}
	return &entity.Tariff{
		Id:            t.Id,
		ProductId:     t.ProductId,
		Name:          t.Name,
		Price:         t.Price,
		Currency:      t.Currency,
		DurationDays:  t.DurationDays,
		CourseOfferId: t.CourseOfferId,
		CourseCode:    t.CourseCode,
		IsActive:      t.IsActive,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

func (m *CatalogMapper) TariffToModel(t *entity.Tariff) *model.Tariff {
	if t == nil {
		return nil
	}
	return &model.Tariff{
		Id:            t.Id,
		ProductId:     t.ProductId,
		Name:          t.Name,
		Price:         t.Price,
		Currency:      t.Currency,
		DurationDays:  t.DurationDays,
		CourseOfferId: t.CourseOfferId,
		CourseCode:    t.CourseCode,
		IsActive:      t.IsActive,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

func (m *CatalogMapper) mapTariffsToEntities(models []*model.Tariff) []entity.Tariff {
	if models == nil {
		return nil
	}
	entities := make([]entity.Tariff, len(models))
	for i, mdl := range models {
		if val := m.TariffToEntity(mdl); val != nil {
			entities[i] = *val
		}
	}
	return entities
}
