package ports

import (
	"context"

	"github.com/bilemo/catalog-api/internal/core/domain"
)

// ProductService defines the catalog use-cases.
type ProductService interface {
	ListProducts(ctx context.Context, query domain.ProductQuery) (*domain.ProductPage, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
}
