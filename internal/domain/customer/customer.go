package customer

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/shoplytics/backend/internal/domain/shared"
)

// Customer represents a Shopify customer synced into the local store.
// TotalSpent is derived locally from completed orders and is never taken
// from the webhook payload.
type Customer struct {
	shared.BaseEntity
	TenantID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_customers_tenant_shopify,priority:1"`
	ShopifyID  string          `gorm:"type:varchar(64);not null;uniqueIndex:idx_customers_tenant_shopify,priority:2"`
	Email      string          `gorm:"type:varchar(200);index"`
	FirstName  string          `gorm:"type:varchar(100)"`
	LastName   string          `gorm:"type:varchar(100)"`
	TotalSpent decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a customer from a webhook payload
func NewCustomer(tenantID uuid.UUID, shopifyID, email, firstName, lastName string) (*Customer, error) {
	shopifyID = strings.TrimSpace(shopifyID)
	if shopifyID == "" {
		return nil, shared.NewDomainError("INVALID_SHOPIFY_ID", "Customer shopify id is required")
	}

	return &Customer{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   tenantID,
		ShopifyID:  shopifyID,
		Email:      strings.ToLower(strings.TrimSpace(email)),
		FirstName:  firstName,
		LastName:   lastName,
		TotalSpent: decimal.Zero,
	}, nil
}

// FullName returns the display name for dashboard listings
func (c *Customer) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(c.FirstName) + " " + strings.TrimSpace(c.LastName))
}
