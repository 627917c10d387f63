package customer

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Repository defines the persistence interface for customers
type Repository interface {
	// Upsert inserts the customer or, when a row with the same
	// (tenant_id, shopify_id) exists, updates its mutable fields.
	// Replaying the same payload converges to the same row.
	Upsert(ctx context.Context, c *Customer) error

	// FindByShopifyID retrieves a customer by its upstream Shopify id
	FindByShopifyID(ctx context.Context, tenantID uuid.UUID, shopifyID string) (*Customer, error)

	// FindAllForTenant lists all customers for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]Customer, error)

	// FindByIDsForTenant retrieves customers by local id, tenant-scoped
	FindByIDsForTenant(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Customer, error)

	// CountForTenant counts customers for a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)

	// TopBySpent returns the highest-spending customers for a tenant
	TopBySpent(ctx context.Context, tenantID uuid.UUID, limit int) ([]Customer, error)

	// UpdateTotalSpent overwrites the derived total_spent for one customer
	UpdateTotalSpent(ctx context.Context, tenantID, id uuid.UUID, total decimal.Decimal) error
}
