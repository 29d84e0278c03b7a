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

type AdminUserRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AdminMapper
}

func NewAdminUserRepository(db *gorm.DB) contract.AdminUserRepository {
	return &AdminUserRepositoryImpl{
		db:     db,
		mapper: mapper.NewAdminMapper(),
	}
}

func (r *AdminUserRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *AdminUserRepositoryImpl) Create(ctx context.Context, admin *entity.AdminUser) error {
	m := r.mapper.ToModel(admin)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*admin = *r.mapper.ToEntity(m)
	return nil
}

func (r *AdminUserRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.AdminUser, error) {
	var m model.AdminUser
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}
