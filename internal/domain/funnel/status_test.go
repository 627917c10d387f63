package funnel

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartStatusFromTopic(t *testing.T) {
	assert.Equal(t, CartStatusActive, CartStatusFromTopic("carts/create"))
	assert.Equal(t, CartStatusActive, CartStatusFromTopic("carts/update"))
	assert.Equal(t, CartStatusAbandoned, CartStatusFromTopic("carts/abandoned"))
	assert.Equal(t, CartStatusCompleted, CartStatusFromTopic("carts/completed"))
	assert.Equal(t, CartStatusCompleted, CartStatusFromTopic("carts/paid"))
}

func TestCheckoutStatusFromTopic(t *testing.T) {
	assert.Equal(t, CheckoutStatusStarted, CheckoutStatusFromTopic("checkouts/create"))
	assert.Equal(t, CheckoutStatusStarted, CheckoutStatusFromTopic("checkouts/update"))
	assert.Equal(t, CheckoutStatusAbandoned, CheckoutStatusFromTopic("checkouts/abandoned"))
	assert.Equal(t, CheckoutStatusCompleted, CheckoutStatusFromTopic("checkouts/completed"))
	assert.Equal(t, CheckoutStatusCompleted, CheckoutStatusFromTopic("checkouts/paid"))
}

func TestResolveCartStatus(t *testing.T) {
	t.Run("completed is terminal", func(t *testing.T) {
		assert.Equal(t, CartStatusCompleted, ResolveCartStatus(CartStatusCompleted, CartStatusActive))
		assert.Equal(t, CartStatusCompleted, ResolveCartStatus(CartStatusCompleted, CartStatusAbandoned))
	})

	t.Run("moves forward", func(t *testing.T) {
		assert.Equal(t, CartStatusAbandoned, ResolveCartStatus(CartStatusActive, CartStatusAbandoned))
		assert.Equal(t, CartStatusCompleted, ResolveCartStatus(CartStatusAbandoned, CartStatusCompleted))
	})

	t.Run("never moves backward", func(t *testing.T) {
		assert.Equal(t, CartStatusAbandoned, ResolveCartStatus(CartStatusAbandoned, CartStatusActive))
	})
}

func TestResolveCheckoutStatus(t *testing.T) {
	assert.Equal(t, CheckoutStatusCompleted, ResolveCheckoutStatus(CheckoutStatusCompleted, CheckoutStatusAbandoned))
	assert.Equal(t, CheckoutStatusAbandoned, ResolveCheckoutStatus(CheckoutStatusStarted, CheckoutStatusAbandoned))
	assert.Equal(t, CheckoutStatusAbandoned, ResolveCheckoutStatus(CheckoutStatusAbandoned, CheckoutStatusStarted))
}

func TestNewCart(t *testing.T) {
	tenantID := uuid.New()

	c, err := NewCart(tenantID, "cart-token-1", decimal.RequireFromString("49.99"), "")
	require.NoError(t, err)
	assert.Equal(t, CartStatusActive, c.Status)
	assert.Equal(t, tenantID, c.TenantID)
	assert.True(t, c.TotalPrice.Equal(decimal.RequireFromString("49.99")))
	assert.Nil(t, c.CustomerID)

	_, err = NewCart(tenantID, "", decimal.Zero, CartStatusActive)
	require.Error(t, err)
}

func TestNewCheckout(t *testing.T) {
	tenantID := uuid.New()

	c, err := NewCheckout(tenantID, "915963", decimal.Zero, "")
	require.NoError(t, err)
	assert.Equal(t, CheckoutStatusStarted, c.Status)
	assert.Nil(t, c.CustomerID)

	_, err = NewCheckout(tenantID, " ", decimal.Zero, CheckoutStatusStarted)
	require.Error(t, err)
}

func TestCartLinkCustomer(t *testing.T) {
	c, err := NewCart(uuid.New(), "cart-token-2", decimal.Zero, CartStatusActive)
	require.NoError(t, err)

	customerID := uuid.New()
	c.LinkCustomer(customerID)
	require.NotNil(t, c.CustomerID)
	assert.Equal(t, customerID, *c.CustomerID)
}
