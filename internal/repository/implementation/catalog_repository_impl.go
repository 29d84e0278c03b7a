package implementation

import (
	"context"
	"errors"

	"member-access-be/internal/entity"
	"member-access-be/internal/mapper"
	"member-access-be/internal/model"
	"member-access-be/internal/repository/contract"
	"member-access-be/internal/repository/specification"

	"gorm.io/gorm"
)

type CatalogRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CatalogMapper
}

func NewCatalogRepository(db *gorm.DB) contract.CatalogRepository {
	return &CatalogRepositoryImpl{
		db:     db,
		mapper: mapper.NewCatalogMapper(),
	}
}

func (r *CatalogRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

// Product Implementation

func (r *CatalogRepositoryImpl) CreateProduct(ctx context.Context, product *entity.Product) error {
	m := r.mapper.ProductToModel(product)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*product = *r.mapper.ProductToEntity(m)
	return nil
}

func (r *CatalogRepositoryImpl) UpdateProduct(ctx context.Context, product *entity.Product) error {
	m := r.mapper.ProductToModel(product)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*product = *r.mapper.ProductToEntity(m)
	return nil
}

func (r *CatalogRepositoryImpl) FindOneProduct(ctx context.Context, specs ...specification.Specification) (*entity.Product, error) {
	var m model.Product
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ProductToEntity(&m), nil
}

func (r *CatalogRepositoryImpl) FindAllProducts(ctx context.Context, specs ...specification.Specification) ([]*entity.Product, error) {
	var models []*model.Product
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Product, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ProductToEntity(m)
	}
	return entities, nil
}

// Tariff Implementation

func (r *CatalogRepositoryImpl) CreateTariff(ctx context.Context, tariff *entity.Tariff) error {
	m := r.mapper.TariffToModel(tariff)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*tariff = *r.mapper.TariffToEntity(m)
	return nil
}

func (r *CatalogRepositoryImpl) UpdateTariff(ctx context.Context, tariff *entity.Tariff) error {
	m := r.mapper.TariffToModel(tariff)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*tariff = *r.mapper.TariffToEntity(m)
	return nil
}

func (r *CatalogRepositoryImpl) FindOneTariff(ctx context.Context, specs ...specification.Specification) (*entity.Tariff, error) {
	var m model.Tariff
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.TariffToEntity(&m), nil
}

func (r *CatalogRepositoryImpl) FindAllTariffs(ctx context.Context, specs ...specification.Specification) ([]*entity.Tariff, error) {
	var models []*model.Tariff
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Tariff, len(models))
	for i, m := range models {
		entities[i] = r.mapper.TariffToEntity(m)
	}
	return entities, nil
}
