package tenant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTenant(t *testing.T) {
	t.Run("creates tenant with valid inputs", func(t *testing.T) {
		tn, err := NewTenant("Demo Store", "Owner@Demo.com", "$2a$10$hash", "Demo.MyShopify.com", "whsec", "apikey")
		require.NoError(t, err)
		require.NotNil(t, tn)

		assert.Equal(t, "Demo Store", tn.Name)
		assert.Equal(t, "owner@demo.com", tn.Email)
		assert.Equal(t, "demo.myshopify.com", tn.StoreDomain)
		assert.NotEmpty(t, tn.ID)
	})

	t.Run("fails with invalid email", func(t *testing.T) {
		_, err := NewTenant("Demo", "not-an-email", "hash", "demo.myshopify.com", "s", "k")
		require.Error(t, err)
	})

	t.Run("fails with missing store domain", func(t *testing.T) {
		_, err := NewTenant("Demo", "a@b.co", "hash", "", "s", "k")
		require.Error(t, err)
	})

	t.Run("fails with missing credentials", func(t *testing.T) {
		_, err := NewTenant("Demo", "a@b.co", "hash", "demo.myshopify.com", "", "k")
		require.Error(t, err)
	})
}

func TestTenant_RotateWebhookSecret(t *testing.T) {
	tn, err := NewTenant("Demo", "a@b.co", "hash", "demo.myshopify.com", "old", "k")
	require.NoError(t, err)

	require.NoError(t, tn.RotateWebhookSecret("new"))
	assert.Equal(t, "new", tn.WebhookSecret)

	require.Error(t, tn.RotateWebhookSecret(""))
}
