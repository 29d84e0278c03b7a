package contract

import (
	"context"

	"member-access-be/internal/entity"
	"member-access-be/internal/repository/specification"
)

// CatalogRepository serves products and their tariffs. Reads dominate;
// writes only happen from seeding and catalog administration.
type CatalogRepository interface {
	CreateProduct(ctx context.Context, product *entity.Product) error
	UpdateProduct(ctx context.Context, product *entity.Product) error
	FindOneProduct(ctx context.Context, specs ...specification.Specification) (*entity.Product, error)
	FindAllProducts(ctx context.Context, specs ...specification.Specification) ([]*entity.Product, error)

	CreateTariff(ctx context.Context, tariff *entity.Tariff) error
	UpdateTariff(ctx context.Context, tariff *entity.Tariff) error
	FindOneTariff(ctx context.Context, specs ...specification.Specification) (*entity.Tariff, error)
	FindAllTariffs(ctx context.Context, specs ...specification.Specification) ([]*entity.Tariff, error)
}
