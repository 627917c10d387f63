package shopify

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
	"github.com/shoplytics/backend/internal/domain/shared"
)

// ID is a Shopify identifier. Shopify serializes ids inconsistently
// (numeric for REST resources, string tokens for carts), so ID accepts
// both and normalizes to a string.
type ID string

// UnmarshalJSON implements json.Unmarshaler
func (id *ID) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*id = ID(n.String())
		return nil
	}
	return shared.NewDomainError("INVALID_SHOPIFY_ID", "Shopify id must be a string or number")
}

// String returns the normalized id
func (id ID) String() string {
	return string(id)
}

// IsZero reports whether the id is absent
func (id ID) IsZero() bool {
	return id == ""
}

// Money is a monetary amount. Shopify sends prices both as JSON strings
// ("49.99") and numbers; anything unparseable decodes to zero rather than
// failing the whole item.
type Money struct {
	decimal.Decimal
}

// UnmarshalJSON implements json.Unmarshaler
func (m *Money) UnmarshalJSON(data []byte) error {
	if err := m.Decimal.UnmarshalJSON(data); err != nil {
		m.Decimal = decimal.Zero
	}
	return nil
}

// CustomerPayload is the subset of a Shopify customer webhook we consume
type CustomerPayload struct {
	ID        ID     `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Variant is a product variant; only the price matters here
type Variant struct {
	Price Money `json:"price"`
}

// ProductPayload is the subset of a Shopify product webhook we consume
type ProductPayload struct {
	ID       ID        `json:"id"`
	Title    string    `json:"title"`
	Variants []Variant `json:"variants"`
}

// Price returns the first variant's price, zero when there are no variants
func (p ProductPayload) Price() decimal.Decimal {
	if len(p.Variants) == 0 {
		return decimal.Zero
	}
	return p.Variants[0].Price.Decimal
}

// CustomerRef is the nested customer object on an order payload
type CustomerRef struct {
	ID ID `json:"id"`
}

// OrderPayload is the subset of a Shopify order webhook we consume
type OrderPayload struct {
	ID         ID           `json:"id"`
	TotalPrice Money        `json:"total_price"`
	Currency   string       `json:"currency"`
	Customer   *CustomerRef `json:"customer"`
	CustomerID ID           `json:"customer_id"`
}

// CustomerShopifyID returns the order's customer reference, preferring the
// nested customer object over the flat customer_id field
func (p OrderPayload) CustomerShopifyID() string {
	if p.Customer != nil && !p.Customer.ID.IsZero() {
		return p.Customer.ID.String()
	}
	return p.CustomerID.String()
}

// CartPayload is the subset of a Shopify cart webhook we consume.
// Carts are identified by token; some emitters send id instead.
type CartPayload struct {
	ID         ID           `json:"id"`
	Token      ID           `json:"token"`
	TotalPrice Money        `json:"total_price"`
	Customer   *CustomerRef `json:"customer"`
	CustomerID ID           `json:"customer_id"`
}

// ShopifyID returns the cart identifier
func (p CartPayload) ShopifyID() string {
	if !p.ID.IsZero() {
		return p.ID.String()
	}
	return p.Token.String()
}

// CustomerShopifyID returns the cart's customer reference, preferring the
// nested customer object over the flat customer_id field
func (p CartPayload) CustomerShopifyID() string {
	if p.Customer != nil && !p.Customer.ID.IsZero() {
		return p.Customer.ID.String()
	}
	return p.CustomerID.String()
}

// CheckoutPayload is the subset of a Shopify checkout webhook we consume
type CheckoutPayload struct {
	ID         ID           `json:"id"`
	Token      ID           `json:"token"`
	TotalPrice Money        `json:"total_price"`
	Customer   *CustomerRef `json:"customer"`
	CustomerID ID           `json:"customer_id"`
}

// ShopifyID returns the checkout identifier
func (p CheckoutPayload) ShopifyID() string {
	if !p.ID.IsZero() {
		return p.ID.String()
	}
	return p.Token.String()
}

// CustomerShopifyID returns the checkout's customer reference, preferring the
// nested customer object over the flat customer_id field
func (p CheckoutPayload) CustomerShopifyID() string {
	if p.Customer != nil && !p.Customer.ID.IsZero() {
		return p.Customer.ID.String()
	}
	return p.CustomerID.String()
}

// SplitBatch normalizes a webhook body to a slice of items. Shopify posts
// single objects; the bulk ingest endpoints post arrays. Malformed JSON is
// rejected as a whole; item-level problems are left to the caller.
func SplitBatch(body []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, shared.NewDomainError("INVALID_PAYLOAD", "Empty webhook body")
	}

	if trimmed[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, shared.NewDomainError("INVALID_PAYLOAD", "Malformed JSON array")
		}
		return items, nil
	}

	var item json.RawMessage
	if err := json.Unmarshal(trimmed, &item); err != nil {
		return nil, shared.NewDomainError("INVALID_PAYLOAD", "Malformed JSON body")
	}
	return []json.RawMessage{item}, nil
}
