package port

import (
	"context"

	"github.com/clayshop/storefront/internal/core/domain"
)

// CatalogClient reads the external content store, the authoritative source
// of product prices.
type CatalogClient interface {
	// ListProducts fetches the full current catalog with relations populated.
	ListProducts(ctx context.Context) ([]domain.Product, error)
}
