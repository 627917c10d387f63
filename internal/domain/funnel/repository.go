package funnel

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CartRepository defines the persistence interface for carts
type CartRepository interface {
	// Upsert inserts the cart or updates the row with the same
	// (tenant_id, shopify_id). Status only ever moves forward.
	Upsert(ctx context.Context, c *Cart) error

	// FindByShopifyID retrieves a cart by its upstream Shopify id
	FindByShopifyID(ctx context.Context, tenantID uuid.UUID, shopifyID string) (*Cart, error)

	// CountByStatusForTenant returns a status histogram for a tenant
	CountByStatusForTenant(ctx context.Context, tenantID uuid.UUID) (map[CartStatus]int64, error)

	// TenantsWithActiveBefore lists tenants owning carts still ACTIVE and
	// created before the cutoff
	TenantsWithActiveBefore(ctx context.Context, cutoff time.Time) ([]uuid.UUID, error)

	// AbandonActiveBefore flips ACTIVE carts created before the cutoff to
	// ABANDONED across all tenants in one statement. Returns rows changed.
	AbandonActiveBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// CheckoutRepository defines the persistence interface for checkouts
type CheckoutRepository interface {
	// Upsert inserts the checkout or updates the row with the same
	// (tenant_id, shopify_id). Status only ever moves forward.
	Upsert(ctx context.Context, c *Checkout) error

	// FindByShopifyID retrieves a checkout by its upstream Shopify id
	FindByShopifyID(ctx context.Context, tenantID uuid.UUID, shopifyID string) (*Checkout, error)

	// CountByStatusForTenant returns a status histogram for a tenant
	CountByStatusForTenant(ctx context.Context, tenantID uuid.UUID) (map[CheckoutStatus]int64, error)

	// TenantsWithStartedBefore lists tenants owning checkouts still STARTED
	// and created before the cutoff
	TenantsWithStartedBefore(ctx context.Context, cutoff time.Time) ([]uuid.UUID, error)

	// AbandonStartedBefore flips STARTED checkouts created before the cutoff
	// to ABANDONED across all tenants in one statement. Returns rows changed.
	AbandonStartedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
