package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestKeys(t *testing.T) {
	tenantID := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

	assert.Equal(t, "tenant:6ba7b810-9dad-11d1-80b4-00c04fd430c8:customers", CustomersKey(tenantID))
	assert.Equal(t, "tenant:6ba7b810-9dad-11d1-80b4-00c04fd430c8:products", ProductsKey(tenantID))
	assert.Equal(t, "tenant:6ba7b810-9dad-11d1-80b4-00c04fd430c8:insights", InsightsKey(tenantID))
	assert.Equal(t, "tenant:6ba7b810-9dad-11d1-80b4-00c04fd430c8:orders:*", OrdersPattern(tenantID))
}

func TestOrdersKey(t *testing.T) {
	tenantID := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

	t.Run("open range", func(t *testing.T) {
		assert.Equal(t,
			"tenant:6ba7b810-9dad-11d1-80b4-00c04fd430c8:orders:all:all",
			OrdersKey(tenantID, nil, nil))
	})

	t.Run("bounded range", func(t *testing.T) {
		from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

		key := OrdersKey(tenantID, &from, &to)
		assert.Contains(t, key, "2024-01-01T00:00:00Z")
		assert.Contains(t, key, "2024-02-01T00:00:00Z")
	})

	t.Run("distinct ranges get distinct keys", func(t *testing.T) {
		from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		assert.NotEqual(t, OrdersKey(tenantID, &from, nil), OrdersKey(tenantID, nil, nil))
	})

	t.Run("pattern matches every range", func(t *testing.T) {
		from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		store := NewMemoryStore()
		ctx := context.Background()

		_ = store.Set(ctx, OrdersKey(tenantID, nil, nil), "a", 0)
		_ = store.Set(ctx, OrdersKey(tenantID, &from, nil), "b", 0)
		_ = store.Set(ctx, CustomersKey(tenantID), "c", 0)

		_ = store.DeleteByPattern(ctx, OrdersPattern(tenantID))

		_, ok, _ := store.Get(ctx, OrdersKey(tenantID, nil, nil))
		assert.False(t, ok)
		_, ok, _ = store.Get(ctx, CustomersKey(tenantID))
		assert.True(t, ok)
	})
}
