package order

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFromTopic(t *testing.T) {
	tests := []struct {
		topic string
		want  Status
	}{
		{"orders/create", StatusPending},
		{"orders/updated", StatusPending},
		{"orders/paid", StatusCompleted},
		{"orders/fulfilled", StatusCompleted},
		{"orders/cancelled", StatusCanceled},
		{"refunds/create", StatusPending},
		{"orders/refunded", StatusRefunded},
		{"ORDERS/PAID", StatusCompleted},
		{"", StatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.topic, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFromTopic(tt.topic))
		})
	}
}

func TestStatusFromTopic_CancellationWinsOverPayment(t *testing.T) {
	// A store emitting a combined topic must never resurrect a dead order.
	assert.Equal(t, StatusCanceled, StatusFromTopic("orders/paid_cancelled"))
}

func TestNewOrder(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates order with valid inputs", func(t *testing.T) {
		o, err := NewOrder(tenantID, "450789469", decimal.NewFromFloat(199.99), "USD", StatusCompleted)
		require.NoError(t, err)
		require.NotNil(t, o)

		assert.Equal(t, tenantID, o.TenantID)
		assert.Equal(t, "450789469", o.ShopifyID)
		assert.Equal(t, StatusCompleted, o.Status)
		assert.Equal(t, "USD", o.Currency)
		assert.True(t, o.TotalPrice.Equal(decimal.NewFromFloat(199.99)))
		assert.Nil(t, o.CustomerID)
		assert.NotEmpty(t, o.ID)
	})

	t.Run("defaults empty status to pending", func(t *testing.T) {
		o, err := NewOrder(tenantID, "450789469", decimal.Zero, "USD", "")
		require.NoError(t, err)
		assert.Equal(t, StatusPending, o.Status)
	})

	t.Run("fails with empty shopify id", func(t *testing.T) {
		_, err := NewOrder(tenantID, "  ", decimal.Zero, "USD", StatusPending)
		require.Error(t, err)
	})
}

func TestOrder_LinkCustomer(t *testing.T) {
	o, err := NewOrder(uuid.New(), "1", decimal.Zero, "USD", StatusPending)
	require.NoError(t, err)

	customerID := uuid.New()
	o.LinkCustomer(customerID)

	require.NotNil(t, o.CustomerID)
	assert.Equal(t, customerID, *o.CustomerID)
}
