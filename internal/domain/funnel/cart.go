package funnel

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/shoplytics/backend/internal/domain/shared"
)

// CartStatus represents the lifecycle status of a cart
type CartStatus string

const (
	CartStatusActive    CartStatus = "ACTIVE"
	CartStatusAbandoned CartStatus = "ABANDONED"
	CartStatusCompleted CartStatus = "COMPLETED"
)

// cartStatusRank orders cart statuses by progression. COMPLETED is
// terminal: once a shopper checks out, later abandonment signals (webhook
// replays, the expiry sweep racing a completion) must not regress the row.
func cartStatusRank(s CartStatus) int {
	switch s {
	case CartStatusCompleted:
		return 2
	case CartStatusAbandoned:
		return 1
	default:
		return 0
	}
}

// CartStatusFromTopic derives the cart status from a Shopify webhook topic
func CartStatusFromTopic(topic string) CartStatus {
	topic = strings.ToLower(topic)
	switch {
	case strings.Contains(topic, "abandoned"):
		return CartStatusAbandoned
	case strings.Contains(topic, "completed"), strings.Contains(topic, "paid"):
		return CartStatusCompleted
	default:
		return CartStatusActive
	}
}

// ResolveCartStatus merges an incoming status with the stored one,
// keeping the further-progressed of the two
func ResolveCartStatus(current, incoming CartStatus) CartStatus {
	if cartStatusRank(incoming) > cartStatusRank(current) {
		return incoming
	}
	return current
}

// Cart represents a Shopify cart tracked for abandonment analytics.
// CustomerID references the local customer row when the payload's customer
// could be resolved within the same tenant; it stays nil otherwise.
type Cart struct {
	shared.BaseEntity
	TenantID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_carts_tenant_shopify,priority:1"`
	ShopifyID  string          `gorm:"type:varchar(64);not null;uniqueIndex:idx_carts_tenant_shopify,priority:2"`
	CustomerID *uuid.UUID      `gorm:"type:uuid;index"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status     CartStatus      `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
}

// TableName returns the table name for GORM
func (Cart) TableName() string {
	return "carts"
}

// NewCart creates a cart from a webhook payload
func NewCart(tenantID uuid.UUID, shopifyID string, totalPrice decimal.Decimal, status CartStatus) (*Cart, error) {
	shopifyID = strings.TrimSpace(shopifyID)
	if shopifyID == "" {
		return nil, shared.NewDomainError("INVALID_SHOPIFY_ID", "Cart shopify id is required")
	}
	if status == "" {
		status = CartStatusActive
	}

	return &Cart{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   tenantID,
		ShopifyID:  shopifyID,
		TotalPrice: totalPrice,
		Status:     status,
	}, nil
}

// LinkCustomer attaches the resolved local customer
func (c *Cart) LinkCustomer(customerID uuid.UUID) {
	id := customerID
	c.CustomerID = &id
}
