package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ProductRepository defines the persistence interface for products
type ProductRepository interface {
	// Upsert inserts the product or, when a row with the same
	// (tenant_id, shopify_id) exists, updates its mutable fields
	Upsert(ctx context.Context, p *Product) error

	// FindByShopifyID retrieves a product by its upstream Shopify id
	FindByShopifyID(ctx context.Context, tenantID uuid.UUID, shopifyID string) (*Product, error)

	// FindAllForTenant lists all products for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]Product, error)
}
