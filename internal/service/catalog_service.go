package service

import (
	"context"
	"time"

	"member-access-be/internal/dto"
	"member-access-be/internal/entity"
	"member-access-be/internal/repository/specification"
	"member-access-be/internal/repository/unitofwork"

	"github.com/patrickmn/go-cache"
)

const catalogCacheKey = "catalog:products"

// ICatalogService serves the product catalog the grant form is built from.
// The catalog changes rarely, so reads go through a short-lived in-memory
// cache.
type ICatalogService interface {
	GetProducts(ctx context.Context) ([]dto.ProductResponse, error)
	InvalidateCache()
}

type catalogService struct {
	uowFactory unitofwork.RepositoryFactory
	cache      *cache.Cache
}

func NewCatalogService(uowFactory unitofwork.RepositoryFactory) ICatalogService {
	return &catalogService{
		uowFactory: uowFactory,
		cache:      cache.New(5*time.Minute, 10*time.Minute),
	}
}

func (s *catalogService) GetProducts(ctx context.Context) ([]dto.ProductResponse, error) {
	if cached, found := s.cache.Get(catalogCacheKey); found {
		return cached.([]dto.ProductResponse), nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	catalog := uow.CatalogRepository()

	products, err := catalog.FindAllProducts(ctx,
		specification.Filter("is_active", true),
		specification.OrderBy{Field: "sort_order"},
	)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ProductResponse, 0, len(products))
	for _, product := range products {
		tariffs, err := catalog.FindAllTariffs(ctx,
			specification.Filter("product_id", product.Id),
			specification.Filter("is_active", true),
			specification.OrderBy{Field: "price"},
		)
		if err != nil {
			return nil, err
		}
		responses = append(responses, toProductResponse(product, tariffs))
	}

	s.cache.Set(catalogCacheKey, responses, cache.DefaultExpiration)
	return responses, nil
}

// InvalidateCache drops the cached catalog, forcing a reload on next read.
func (s *catalogService) InvalidateCache() {
	s.cache.Delete(catalogCacheKey)
}

func toProductResponse(product *entity.Product, tariffs []*entity.Tariff) dto.ProductResponse {
	resp := dto.ProductResponse{
		Id:      product.Id,
		Name:    product.Name,
		Tariffs: make([]dto.TariffResponse, 0, len(tariffs)),
	}
	if product.ClubId != nil {
		resp.ClubId = *product.ClubId
	}

	for _, tariff := range tariffs {
		item := dto.TariffResponse{
			Id:           tariff.Id,
			Name:         tariff.Name,
			Price:        tariff.Price,
			Currency:     tariff.Currency,
			DurationDays: tariff.DurationDays,
		}
		if tariff.CourseCode != nil {
			item.CourseCode = *tariff.CourseCode
		}
		resp.Tariffs = append(resp.Tariffs, item)
	}
	return resp
}
