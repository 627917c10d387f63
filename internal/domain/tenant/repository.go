package tenant

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence interface for tenants
type Repository interface {
	// Create persists a new tenant
	Create(ctx context.Context, t *Tenant) error

	// FindByID retrieves a tenant by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)

	// FindByEmail retrieves a tenant by dashboard login email
	FindByEmail(ctx context.Context, email string) (*Tenant, error)

	// FindByStoreDomain retrieves a tenant by its Shopify store domain
	FindByStoreDomain(ctx context.Context, domain string) (*Tenant, error)
}
