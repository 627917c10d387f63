package order

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Repository defines the persistence interface for orders
type Repository interface {
	// Upsert inserts the order or, when a row with the same
	// (tenant_id, shopify_id) exists, updates its mutable fields
	Upsert(ctx context.Context, o *Order) error

	// FindByShopifyID retrieves an order by its upstream Shopify id
	FindByShopifyID(ctx context.Context, tenantID uuid.UUID, shopifyID string) (*Order, error)

	// FindAllForTenant lists orders for a tenant, optionally bounded by
	// creation time. Nil bounds are open ends.
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, from, to *time.Time) ([]Order, error)

	// CountForTenant counts orders for a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)

	// SumRevenueForTenant sums total_price over all orders of a tenant
	SumRevenueForTenant(ctx context.Context, tenantID uuid.UUID) (decimal.Decimal, error)

	// SumCompletedForCustomer sums total_price of a customer's completed
	// orders. Feeds the customer's derived total_spent.
	SumCompletedForCustomer(ctx context.Context, tenantID, customerID uuid.UUID) (decimal.Decimal, error)
}
