package ports

import (
	"context"

	"github.com/bilemo/catalog-api/internal/core/domain"
)

// ProductFilter selects one ordered window of products. Brand is matched as a
// case-sensitive substring of the brand name, domain.AllBrands disables it.
type ProductFilter struct {
	Brand  string
	Order  domain.SortOrder
	Offset int64
	Limit  int64
}

// ProductRepository defines the read operations over the catalog.
type ProductRepository interface {
	Count(ctx context.Context, brand string) (int64, error)
	Search(ctx context.Context, filter ProductFilter) ([]domain.Product, error)
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	BrandNames(ctx context.Context) ([]string, error)
}
