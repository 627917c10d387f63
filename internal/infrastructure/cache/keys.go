package cache

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Cache keys are namespaced per tenant so invalidation can never leak
// across stores: tenant:{id}:{resource}[:{qualifier}].

// CustomersKey is the cache key for a tenant's customer listing
func CustomersKey(tenantID uuid.UUID) string {
	return fmt.Sprintf("tenant:%s:customers", tenantID)
}

// ProductsKey is the cache key for a tenant's product listing
func ProductsKey(tenantID uuid.UUID) string {
	return fmt.Sprintf("tenant:%s:products", tenantID)
}

// OrdersKey is the cache key for a tenant's order listing, qualified by
// the requested date range. Open bounds are encoded as "all" so each
// distinct range caches independently.
func OrdersKey(tenantID uuid.UUID, from, to *time.Time) string {
	return fmt.Sprintf("tenant:%s:orders:%s:%s", tenantID, boundToken(from), boundToken(to))
}

// OrdersPattern matches every cached order range for a tenant
func OrdersPattern(tenantID uuid.UUID) string {
	return fmt.Sprintf("tenant:%s:orders:*", tenantID)
}

// InsightsKey is the cache key for a tenant's insights summary
func InsightsKey(tenantID uuid.UUID) string {
	return fmt.Sprintf("tenant:%s:insights", tenantID)
}

func boundToken(t *time.Time) string {
	if t == nil {
		return "all"
	}
	return t.UTC().Format(time.RFC3339)
}
