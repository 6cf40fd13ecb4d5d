package item

import (
	"context"

	"github.com/mattsmit4/hardfind/internal/domain"
)

// Repo is the catalog access this service needs.
type Repo interface {
	// Get returns the item stored under the exact SKU, or
	// domain.ErrItemNotFound.
	Get(ctx context.Context, sku string) (*domain.Item, error)
	// FindByPrefix returns items whose SKU starts with prefix, capped at
	// limit, in lexicographic SKU order.
	FindByPrefix(ctx context.Context, prefix string, limit int) ([]domain.Item, error)
}
