package order

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/shoplytics/backend/internal/domain/shared"
)

// Status represents the lifecycle status of an order
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusCanceled  Status = "CANCELED"
	StatusRefunded  Status = "REFUNDED"
)

// StatusFromTopic derives the order status from a Shopify webhook topic.
// Cancellation and refund topics win over payment topics; anything
// unrecognized stays pending.
func StatusFromTopic(topic string) Status {
	topic = strings.ToLower(topic)
	switch {
	case strings.Contains(topic, "cancelled"):
		return StatusCanceled
	case strings.Contains(topic, "refunded"):
		return StatusRefunded
	case strings.Contains(topic, "paid"), strings.Contains(topic, "fulfilled"):
		return StatusCompleted
	default:
		return StatusPending
	}
}

// Order represents a Shopify order synced into the local store.
// CustomerID references the local customer row when the payload's customer
// could be resolved within the same tenant; it stays nil otherwise.
type Order struct {
	shared.BaseEntity
	TenantID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_orders_tenant_shopify,priority:1"`
	ShopifyID  string          `gorm:"type:varchar(64);not null;uniqueIndex:idx_orders_tenant_shopify,priority:2"`
	CustomerID *uuid.UUID      `gorm:"type:uuid;index"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Currency   string          `gorm:"type:varchar(10)"`
	Status     Status          `gorm:"type:varchar(20);not null;default:'PENDING'"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates an order from a webhook payload
func NewOrder(tenantID uuid.UUID, shopifyID string, totalPrice decimal.Decimal, currency string, status Status) (*Order, error) {
	shopifyID = strings.TrimSpace(shopifyID)
	if shopifyID == "" {
		return nil, shared.NewDomainError("INVALID_SHOPIFY_ID", "Order shopify id is required")
	}
	if status == "" {
		status = StatusPending
	}

	return &Order{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   tenantID,
		ShopifyID:  shopifyID,
		TotalPrice: totalPrice,
		Currency:   currency,
		Status:     status,
	}, nil
}

// LinkCustomer attaches the resolved local customer
func (o *Order) LinkCustomer(customerID uuid.UUID) {
	id := customerID
	o.CustomerID = &id
}
