package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/shoplytics/backend/internal/application/ingestion"
	"github.com/shoplytics/backend/internal/domain/catalog"
	"github.com/shoplytics/backend/internal/domain/customer"
	"github.com/shoplytics/backend/internal/domain/funnel"
	"github.com/shoplytics/backend/internal/domain/order"
	"github.com/shoplytics/backend/internal/domain/tenant"
	"github.com/shoplytics/backend/internal/infrastructure/cache"
	"github.com/shoplytics/backend/internal/infrastructure/persistence"
	"github.com/shoplytics/backend/internal/infrastructure/shopify"
	"github.com/shoplytics/backend/internal/interfaces/http/middleware"
)

type webhookTestEnv struct {
	engine    *gin.Engine
	db        *gorm.DB
	tenant    *tenant.Tenant
	customers *persistence.GormCustomerRepository
	orders    *persistence.GormOrderRepository
}

func newWebhookTestEnv(t *testing.T) *webhookTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&tenant.Tenant{},
		&customer.Customer{},
		&catalog.Product{},
		&order.Order{},
		&funnel.Cart{},
		&funnel.Checkout{},
	))

	tenants := persistence.NewGormTenantRepository(db)
	customers := persistence.NewGormCustomerRepository(db)
	products := persistence.NewGormProductRepository(db)
	orders := persistence.NewGormOrderRepository(db)
	carts := persistence.NewGormCartRepository(db)
	checkouts := persistence.NewGormCheckoutRepository(db)

	tn, err := tenant.NewTenant("Acme", "owner@acme.com", "hash", "acme.myshopify.com", "shpss_secret", "slk_key")
	require.NoError(t, err)
	require.NoError(t, tenants.Create(context.Background(), tn))

	svc := ingestion.NewService(customers, products, orders, carts, checkouts, cache.NewMemoryStore(), zap.NewNop())
	h := NewWebhookHandler(svc)

	engine := gin.New()
	webhooks := engine.Group("/webhook")
	webhooks.Use(middleware.WebhookAuthMiddleware(middleware.WebhookMiddlewareConfig{
		Tenants: tenants,
		Logger:  zap.NewNop(),
	}))
	webhooks.POST("/customers", h.Customers)
	webhooks.POST("/products", h.Products)
	webhooks.POST("/orders", h.Orders)
	webhooks.POST("/carts", h.Carts)
	webhooks.POST("/checkouts", h.Checkouts)

	return &webhookTestEnv{
		engine:    engine,
		db:        db,
		tenant:    tn,
		customers: customers,
		orders:    orders,
	}
}

// post sends a signed webhook. Pass secret "" to omit the signature headers.
func (env *webhookTestEnv) post(path, topic, secret string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.ShopDomainHeader, env.tenant.StoreDomain)
	req.Header.Set(middleware.TopicHeader, topic)
	if secret != "" {
		req.Header.Set(middleware.HmacHeader, shopify.ComputeSignature(secret, body))
	}
	w := httptest.NewRecorder()
	env.engine.ServeHTTP(w, req)
	return w
}

func TestWebhookEndpoints(t *testing.T) {
	ctx := context.Background()

	t.Run("signed customer webhook persists the customer", func(t *testing.T) {
		env := newWebhookTestEnv(t)
		body := []byte(`{"id":706405506930370000,"email":"bob@example.com","first_name":"Bob","last_name":"Norman"}`)

		w := env.post("/webhook/customers", "customers/create", "shpss_secret", body)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"processed":1`)

		c, err := env.customers.FindByShopifyID(ctx, env.tenant.ID, "706405506930370000")
		require.NoError(t, err)
		assert.Equal(t, "bob@example.com", c.Email)
	})

	t.Run("bad signature is rejected and nothing is persisted", func(t *testing.T) {
		env := newWebhookTestEnv(t)
		body := []byte(`{"id":1,"email":"eve@example.com"}`)

		w := env.post("/webhook/customers", "customers/create", "wrong-secret", body)

		assert.Equal(t, http.StatusUnauthorized, w.Code)

		var count int64
		env.db.Model(&customer.Customer{}).Count(&count)
		assert.Equal(t, int64(0), count)
	})

	t.Run("missing signature header is rejected", func(t *testing.T) {
		env := newWebhookTestEnv(t)

		w := env.post("/webhook/customers", "customers/create", "", []byte(`{"id":1}`))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown shop domain is rejected", func(t *testing.T) {
		env := newWebhookTestEnv(t)
		body := []byte(`{"id":1}`)

		req := httptest.NewRequest("POST", "/webhook/customers", bytes.NewReader(body))
		req.Header.Set(middleware.ShopDomainHeader, "ghost.myshopify.com")
		req.Header.Set(middleware.HmacHeader, shopify.ComputeSignature("shpss_secret", body))
		w := httptest.NewRecorder()
		env.engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("paid order links the customer and updates total spent", func(t *testing.T) {
		env := newWebhookTestEnv(t)

		customerBody := []byte(`{"id":42,"email":"alice@example.com","first_name":"Alice"}`)
		require.Equal(t, http.StatusOK, env.post("/webhook/customers", "customers/create", "shpss_secret", customerBody).Code)

		orderBody := []byte(`{"id":9001,"total_price":"120.50","currency":"USD","customer":{"id":42}}`)
		w := env.post("/webhook/orders", "orders/paid", "shpss_secret", orderBody)
		require.Equal(t, http.StatusOK, w.Code)

		o, err := env.orders.FindByShopifyID(ctx, env.tenant.ID, "9001")
		require.NoError(t, err)
		assert.Equal(t, order.StatusCompleted, o.Status)
		require.NotNil(t, o.CustomerID)

		c, err := env.customers.FindByShopifyID(ctx, env.tenant.ID, "42")
		require.NoError(t, err)
		assert.Equal(t, "120.5", c.TotalSpent.String())
	})

	t.Run("batch with one malformed item reports a skip", func(t *testing.T) {
		env := newWebhookTestEnv(t)
		body := []byte(`[{"id":1,"email":"a@example.com"},{"email":"no-id@example.com"},{"id":2,"email":"b@example.com"}]`)

		w := env.post("/webhook/customers", "customers/create", "shpss_secret", body)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"processed":2`)
		assert.Contains(t, w.Body.String(), `"skipped":1`)
	})

	t.Run("malformed JSON body returns 400", func(t *testing.T) {
		env := newWebhookTestEnv(t)

		w := env.post("/webhook/customers", "customers/create", "shpss_secret", []byte(`{not-json`))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("replayed webhook is idempotent", func(t *testing.T) {
		env := newWebhookTestEnv(t)
		body := []byte(`{"id":7,"email":"carol@example.com"}`)

		require.Equal(t, http.StatusOK, env.post("/webhook/customers", "customers/create", "shpss_secret", body).Code)
		require.Equal(t, http.StatusOK, env.post("/webhook/customers", "customers/create", "shpss_secret", body).Code)

		var count int64
		env.db.Model(&customer.Customer{}).Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("completed checkout never regresses to abandoned", func(t *testing.T) {
		env := newWebhookTestEnv(t)
		body := []byte(`{"id":"chk-1","token":"chk-1"}`)

		require.Equal(t, http.StatusOK, env.post("/webhook/checkouts", "checkouts/completed", "shpss_secret", body).Code)
		require.Equal(t, http.StatusOK, env.post("/webhook/checkouts", "checkouts/abandoned", "shpss_secret", body).Code)

		var chk funnel.Checkout
		require.NoError(t, env.db.Where("tenant_id = ?", env.tenant.ID).First(&chk).Error)
		assert.Equal(t, funnel.CheckoutStatusCompleted, chk.Status)
	})
}
