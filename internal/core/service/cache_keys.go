package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bilemo/catalog-api/internal/core/domain"
	"github.com/bilemo/catalog-api/internal/core/ports"
)

func productIndexKey(q domain.ProductQuery) string {
	return fmt.Sprintf("product-index-%s-%s-%d", q.Brand, q.Order, q.Page)
}

func productDetailKey(id int64) string {
	return fmt.Sprintf("product-detail-%d", id)
}

func userIndexKey(ownerID int64) string {
	return fmt.Sprintf("user-index-%d", ownerID)
}

func userDetailKey(id int64) string {
	return fmt.Sprintf("user-detail-%d", id)
}

// cachedJSON reads key from cache as JSON, running compute on a miss.
func cachedJSON[T any](ctx context.Context, cache ports.ResponseCache, key string, compute func(context.Context) (T, error)) (T, error) {
	var out T
	raw, err := cache.GetOrCompute(ctx, key, func(ctx context.Context) ([]byte, error) {
		v, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(v)
	})
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return out, nil
}
