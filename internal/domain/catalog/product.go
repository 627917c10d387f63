package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/shoplytics/backend/internal/domain/shared"
)

// Product represents a Shopify product synced into the local store.
// Price is taken from the first variant of the webhook payload; a product
// without variants is stored with a zero price.
type Product struct {
	shared.BaseEntity
	TenantID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_products_tenant_shopify,priority:1"`
	ShopifyID string          `gorm:"type:varchar(64);not null;uniqueIndex:idx_products_tenant_shopify,priority:2"`
	Title     string          `gorm:"type:varchar(500);not null"`
	Price     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a product from a webhook payload
func NewProduct(tenantID uuid.UUID, shopifyID, title string, price decimal.Decimal) (*Product, error) {
	shopifyID = strings.TrimSpace(shopifyID)
	if shopifyID == "" {
		return nil, shared.NewDomainError("INVALID_SHOPIFY_ID", "Product shopify id is required")
	}
	if price.IsNegative() {
		price = decimal.Zero
	}

	return &Product{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   tenantID,
		ShopifyID:  shopifyID,
		Title:      title,
		Price:      price,
	}, nil
}
