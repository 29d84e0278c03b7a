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

type AccessGrantRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AccessGrantMapper
}

func NewAccessGrantRepository(db *gorm.DB) contract.AccessGrantRepository {
	return &AccessGrantRepositoryImpl{
		db:     db,
		mapper: mapper.NewAccessGrantMapper(),
	}
}

func (r *AccessGrantRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *AccessGrantRepositoryImpl) Create(ctx context.Context, record *entity.AccessGrantRecord) error {
	m := r.mapper.ToModel(record)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*record = *r.mapper.ToEntity(m)
	return nil
}

func (r *AccessGrantRepositoryImpl) Update(ctx context.Context, record *entity.AccessGrantRecord) error {
	m := r.mapper.ToModel(record)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*record = *r.mapper.ToEntity(m)
	return nil
}

func (r *AccessGrantRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.AccessGrantRecord, error) {
	var m model.AccessGrantRecord
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *AccessGrantRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AccessGrantRecord, error) {
	var models []*model.AccessGrantRecord
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.AccessGrantRecord, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}
