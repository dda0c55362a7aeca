package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/bilemo/catalog-api/internal/core/domain"
	"github.com/bilemo/catalog-api/internal/core/ports"
)

// ProductService serves the read-only catalog through the response cache.
// Product entries are never invalidated since products are not mutable
// through the API.
type ProductService struct {
	repo  ports.ProductRepository
	cache ports.ResponseCache
	log   zerolog.Logger
}

func NewProductService(repo ports.ProductRepository, cache ports.ResponseCache, log zerolog.Logger) *ProductService {
	return &ProductService{repo: repo, cache: cache, log: log}
}

// ListProducts returns the requested page, or domain.ErrPageOutOfRange when
// q.Page is past the last page. An empty listing has no page at all.
func (s *ProductService) ListProducts(ctx context.Context, q domain.ProductQuery) (*domain.ProductPage, error) {
	page, err := cachedJSON(ctx, s.cache, productIndexKey(q), func(ctx context.Context) (*domain.ProductPage, error) {
		return s.listProducts(ctx, q)
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}

func (s *ProductService) listProducts(ctx context.Context, q domain.ProductQuery) (*domain.ProductPage, error) {
	total, err := s.repo.Count(ctx, q.Brand)
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}

	lastPage := domain.LastPage(total, domain.ProductPageSize)
	if q.Page < 1 || q.Page > lastPage {
		return nil, domain.ErrPageOutOfRange
	}

	items, err := s.repo.Search(ctx, ports.ProductFilter{
		Brand:  q.Brand,
		Order:  q.Order,
		Offset: domain.PageOffset(q.Page, domain.ProductPageSize),
		Limit:  domain.ProductPageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}

	brands, err := s.repo.BrandNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("list brands: %w", err)
	}

	return &domain.ProductPage{
		Items:    items,
		Total:    total,
		Page:     q.Page,
		LastPage: lastPage,
		PageSize: domain.ProductPageSize,
		Brands:   brands,
	}, nil
}

// GetProduct returns domain.ErrProductNotFound for an unknown id.
func (s *ProductService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return cachedJSON(ctx, s.cache, productDetailKey(id), func(ctx context.Context) (*domain.Product, error) {
		return s.repo.FindByID(ctx, id)
	})
}
