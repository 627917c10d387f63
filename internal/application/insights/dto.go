package insights

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CustomerSummary represents a customer row in dashboard listings
type CustomerSummary struct {
	ID         uuid.UUID       `json:"id"`
	ShopifyID  string          `json:"shopify_id"`
	Email      string          `json:"email"`
	Name       string          `json:"name"`
	TotalSpent decimal.Decimal `json:"total_spent"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ProductSummary represents a product row in dashboard listings
type ProductSummary struct {
	ID        uuid.UUID       `json:"id"`
	ShopifyID string          `json:"shopify_id"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"created_at"`
}

// CustomerPreview is the customer snippet attached to an order row
type CustomerPreview struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// OrderSummary represents an order row in dashboard listings
type OrderSummary struct {
	ID         uuid.UUID        `json:"id"`
	ShopifyID  string           `json:"shopify_id"`
	TotalPrice decimal.Decimal  `json:"total_price"`
	Currency   string           `json:"currency"`
	Status     string           `json:"status"`
	Customer   *CustomerPreview `json:"customer,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
}

// FunnelCounts is a status histogram for carts or checkouts
type FunnelCounts map[string]int64

// InsightsResponse aggregates the tenant's dashboard metrics
type InsightsResponse struct {
	TotalCustomers int64             `json:"total_customers"`
	TotalOrders    int64             `json:"total_orders"`
	TotalRevenue   decimal.Decimal   `json:"total_revenue"`
	TopCustomers   []CustomerSummary `json:"top_customers"`
	Carts          FunnelCounts      `json:"carts"`
	Checkouts      FunnelCounts      `json:"checkouts"`
}
