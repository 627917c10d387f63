package funnel

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/shoplytics/backend/internal/domain/shared"
)

// CheckoutStatus represents the lifecycle status of a checkout
type CheckoutStatus string

const (
	CheckoutStatusStarted   CheckoutStatus = "STARTED"
	CheckoutStatusAbandoned CheckoutStatus = "ABANDONED"
	CheckoutStatusCompleted CheckoutStatus = "COMPLETED"
)

func checkoutStatusRank(s CheckoutStatus) int {
	switch s {
	case CheckoutStatusCompleted:
		return 2
	case CheckoutStatusAbandoned:
		return 1
	default:
		return 0
	}
}

// CheckoutStatusFromTopic derives the checkout status from a Shopify
// webhook topic
func CheckoutStatusFromTopic(topic string) CheckoutStatus {
	topic = strings.ToLower(topic)
	switch {
	case strings.Contains(topic, "abandoned"):
		return CheckoutStatusAbandoned
	case strings.Contains(topic, "completed"), strings.Contains(topic, "paid"):
		return CheckoutStatusCompleted
	default:
		return CheckoutStatusStarted
	}
}

// ResolveCheckoutStatus merges an incoming status with the stored one,
// keeping the further-progressed of the two. COMPLETED is terminal.
func ResolveCheckoutStatus(current, incoming CheckoutStatus) CheckoutStatus {
	if checkoutStatusRank(incoming) > checkoutStatusRank(current) {
		return incoming
	}
	return current
}

// Checkout represents a Shopify checkout tracked for funnel analytics.
// CustomerID references the local customer row when the payload's customer
// could be resolved within the same tenant; it stays nil otherwise.
type Checkout struct {
	shared.BaseEntity
	TenantID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_checkouts_tenant_shopify,priority:1"`
	ShopifyID  string          `gorm:"type:varchar(64);not null;uniqueIndex:idx_checkouts_tenant_shopify,priority:2"`
	CustomerID *uuid.UUID      `gorm:"type:uuid;index"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status     CheckoutStatus  `gorm:"type:varchar(20);not null;default:'STARTED'"`
}

// TableName returns the table name for GORM
func (Checkout) TableName() string {
	return "checkouts"
}

// NewCheckout creates a checkout from a webhook payload
func NewCheckout(tenantID uuid.UUID, shopifyID string, totalPrice decimal.Decimal, status CheckoutStatus) (*Checkout, error) {
	shopifyID = strings.TrimSpace(shopifyID)
	if shopifyID == "" {
		return nil, shared.NewDomainError("INVALID_SHOPIFY_ID", "Checkout shopify id is required")
	}
	if status == "" {
		status = CheckoutStatusStarted
	}

	return &Checkout{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   tenantID,
		ShopifyID:  shopifyID,
		TotalPrice: totalPrice,
		Status:     status,
	}, nil
}

// LinkCustomer attaches the resolved local customer
func (c *Checkout) LinkCustomer(customerID uuid.UUID) {
	id := customerID
	c.CustomerID = &id
}
