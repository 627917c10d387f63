package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shoplytics/backend/internal/domain/customer"
	"github.com/shoplytics/backend/internal/domain/shared"
)

func setupCustomerTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&customer.Customer{})
	require.NoError(t, err)

	return db
}

func TestGormCustomerRepository_Upsert(t *testing.T) {
	db := setupCustomerTestDB(t)
	repo := NewGormCustomerRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()

	t.Run("inserts new customer", func(t *testing.T) {
		c, err := customer.NewCustomer(tenantID, "1001", "alice@example.com", "Alice", "Smith")
		require.NoError(t, err)

		err = repo.Upsert(ctx, c)
		require.NoError(t, err)

		found, err := repo.FindByShopifyID(ctx, tenantID, "1001")
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", found.Email)
		assert.Equal(t, "Alice Smith", found.FullName())
	})

	t.Run("updates profile on repeated webhook, keeps id and total spent", func(t *testing.T) {
		first, err := customer.NewCustomer(tenantID, "1002", "bob@example.com", "Bob", "Jones")
		require.NoError(t, err)
		require.NoError(t, repo.Upsert(ctx, first))

		stored, err := repo.FindByShopifyID(ctx, tenantID, "1002")
		require.NoError(t, err)

		err = repo.UpdateTotalSpent(ctx, tenantID, stored.ID, decimal.RequireFromString("150.50"))
		require.NoError(t, err)

		second, err := customer.NewCustomer(tenantID, "1002", "bob.new@example.com", "Robert", "Jones")
		require.NoError(t, err)
		require.NoError(t, repo.Upsert(ctx, second))

		found, err := repo.FindByShopifyID(ctx, tenantID, "1002")
		require.NoError(t, err)
		assert.Equal(t, stored.ID, found.ID)
		assert.Equal(t, "bob.new@example.com", found.Email)
		assert.Equal(t, "Robert", found.FirstName)
		assert.True(t, found.TotalSpent.Equal(decimal.RequireFromString("150.50")),
			"total spent should survive profile updates, got %s", found.TotalSpent)
	})

	t.Run("same shopify id in another tenant is a separate row", func(t *testing.T) {
		otherTenant := uuid.New()
		c, err := customer.NewCustomer(otherTenant, "1002", "carol@example.com", "Carol", "West")
		require.NoError(t, err)
		require.NoError(t, repo.Upsert(ctx, c))

		found, err := repo.FindByShopifyID(ctx, otherTenant, "1002")
		require.NoError(t, err)
		assert.Equal(t, "carol@example.com", found.Email)

		original, err := repo.FindByShopifyID(ctx, tenantID, "1002")
		require.NoError(t, err)
		assert.Equal(t, "bob.new@example.com", original.Email)
	})
}

func TestGormCustomerRepository_FindByShopifyID(t *testing.T) {
	db := setupCustomerTestDB(t)
	repo := NewGormCustomerRepository(db)
	ctx := context.Background()

	t.Run("returns not found for unknown id", func(t *testing.T) {
		_, err := repo.FindByShopifyID(ctx, uuid.New(), "999")
		assert.Equal(t, shared.ErrNotFound, err)
	})
}

func TestGormCustomerRepository_TopBySpent(t *testing.T) {
	db := setupCustomerTestDB(t)
	repo := NewGormCustomerRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	spends := map[string]string{"1": "10", "2": "300", "3": "50", "4": "200"}
	for shopifyID, spent := range spends {
		c, err := customer.NewCustomer(tenantID, shopifyID, shopifyID+"@example.com", "", "")
		require.NoError(t, err)
		require.NoError(t, repo.Upsert(ctx, c))

		stored, err := repo.FindByShopifyID(ctx, tenantID, shopifyID)
		require.NoError(t, err)
		require.NoError(t, repo.UpdateTotalSpent(ctx, tenantID, stored.ID, decimal.RequireFromString(spent)))
	}

	t.Run("returns highest spenders first", func(t *testing.T) {
		top, err := repo.TopBySpent(ctx, tenantID, 2)
		require.NoError(t, err)
		require.Len(t, top, 2)
		assert.Equal(t, "2", top[0].ShopifyID)
		assert.Equal(t, "4", top[1].ShopifyID)
	})

	t.Run("counts customers for tenant", func(t *testing.T) {
		count, err := repo.CountForTenant(ctx, tenantID)
		require.NoError(t, err)
		assert.Equal(t, int64(4), count)

		count, err = repo.CountForTenant(ctx, uuid.New())
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)
	})
}

func TestGormCustomerRepository_FindByIDsForTenant(t *testing.T) {
	db := setupCustomerTestDB(t)
	repo := NewGormCustomerRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	c, err := customer.NewCustomer(tenantID, "7001", "dana@example.com", "Dana", "Lee")
	require.NoError(t, err)
	require.NoError(t, repo.Upsert(ctx, c))

	stored, err := repo.FindByShopifyID(ctx, tenantID, "7001")
	require.NoError(t, err)

	t.Run("finds customers by ids", func(t *testing.T) {
		customers, err := repo.FindByIDsForTenant(ctx, tenantID, []uuid.UUID{stored.ID, uuid.New()})
		require.NoError(t, err)
		require.Len(t, customers, 1)
		assert.Equal(t, stored.ID, customers[0].ID)
	})

	t.Run("empty id list short-circuits", func(t *testing.T) {
		customers, err := repo.FindByIDsForTenant(ctx, tenantID, nil)
		require.NoError(t, err)
		assert.Empty(t, customers)
	})
}

func TestGormCustomerRepository_UpdateTotalSpent(t *testing.T) {
	db := setupCustomerTestDB(t)
	repo := NewGormCustomerRepository(db)
	ctx := context.Background()

	t.Run("returns not found for unknown customer", func(t *testing.T) {
		err := repo.UpdateTotalSpent(ctx, uuid.New(), uuid.New(), decimal.NewFromInt(10))
		assert.Equal(t, shared.ErrNotFound, err)
	})
}
