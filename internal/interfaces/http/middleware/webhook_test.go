package middleware

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shoplytics/backend/internal/domain/shared"
	"github.com/shoplytics/backend/internal/domain/tenant"
	"github.com/shoplytics/backend/internal/infrastructure/shopify"
)

type mockTenantRepo struct {
	mock.Mock
}

func (m *mockTenantRepo) Create(ctx context.Context, t *tenant.Tenant) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *mockTenantRepo) FindByID(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tenant.Tenant), args.Error(1)
}

func (m *mockTenantRepo) FindByEmail(ctx context.Context, email string) (*tenant.Tenant, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tenant.Tenant), args.Error(1)
}

func (m *mockTenantRepo) FindByStoreDomain(ctx context.Context, domain string) (*tenant.Tenant, error) {
	args := m.Called(ctx, domain)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tenant.Tenant), args.Error(1)
}

func webhookTestTenant(t *testing.T) *tenant.Tenant {
	t.Helper()
	tn, err := tenant.NewTenant("Acme", "owner@acme.com", "hash", "acme.myshopify.com", "shpss_secret", "slk_key")
	require.NoError(t, err)
	return tn
}

func webhookTestRouter(repo *mockTenantRepo) *gin.Engine {
	engine := gin.New()
	engine.POST("/webhook/customers",
		WebhookAuthMiddleware(WebhookMiddlewareConfig{Tenants: repo, Logger: zap.NewNop()}),
		func(c *gin.Context) {
			tn := GetWebhookTenant(c)
			body := GetWebhookBody(c)
			if tn == nil || body == nil {
				c.String(http.StatusInternalServerError, "context not populated")
				return
			}
			c.String(http.StatusOK, tn.StoreDomain+" "+string(body))
		})
	return engine
}

func TestWebhookAuthMiddleware(t *testing.T) {
	body := []byte(`{"id":1}`)

	t.Run("valid signature passes tenant and raw body through", func(t *testing.T) {
		repo := new(mockTenantRepo)
		tn := webhookTestTenant(t)
		repo.On("FindByStoreDomain", mock.Anything, "acme.myshopify.com").Return(tn, nil)

		req := httptest.NewRequest("POST", "/webhook/customers", bytes.NewReader(body))
		req.Header.Set(ShopDomainHeader, "acme.myshopify.com")
		req.Header.Set(HmacHeader, shopify.ComputeSignature("shpss_secret", body))
		w := httptest.NewRecorder()
		webhookTestRouter(repo).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, `acme.myshopify.com {"id":1}`, w.Body.String())
	})

	t.Run("shop domain is matched case-insensitively", func(t *testing.T) {
		repo := new(mockTenantRepo)
		tn := webhookTestTenant(t)
		repo.On("FindByStoreDomain", mock.Anything, "acme.myshopify.com").Return(tn, nil)

		req := httptest.NewRequest("POST", "/webhook/customers", bytes.NewReader(body))
		req.Header.Set(ShopDomainHeader, "ACME.myshopify.com")
		req.Header.Set(HmacHeader, shopify.ComputeSignature("shpss_secret", body))
		w := httptest.NewRecorder()
		webhookTestRouter(repo).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing domain header returns 401", func(t *testing.T) {
		repo := new(mockTenantRepo)

		req := httptest.NewRequest("POST", "/webhook/customers", bytes.NewReader(body))
		req.Header.Set(HmacHeader, shopify.ComputeSignature("shpss_secret", body))
		w := httptest.NewRecorder()
		webhookTestRouter(repo).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		repo.AssertNotCalled(t, "FindByStoreDomain", mock.Anything, mock.Anything)
	})

	t.Run("unknown domain returns 401", func(t *testing.T) {
		repo := new(mockTenantRepo)
		repo.On("FindByStoreDomain", mock.Anything, "ghost.myshopify.com").Return(nil, shared.ErrNotFound)

		req := httptest.NewRequest("POST", "/webhook/customers", bytes.NewReader(body))
		req.Header.Set(ShopDomainHeader, "ghost.myshopify.com")
		req.Header.Set(HmacHeader, shopify.ComputeSignature("shpss_secret", body))
		w := httptest.NewRecorder()
		webhookTestRouter(repo).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_WEBHOOK_UNAUTHORIZED")
	})

	t.Run("tenant without webhook secret returns 401", func(t *testing.T) {
		repo := new(mockTenantRepo)
		tn := webhookTestTenant(t)
		tn.WebhookSecret = ""
		repo.On("FindByStoreDomain", mock.Anything, "acme.myshopify.com").Return(tn, nil)

		req := httptest.NewRequest("POST", "/webhook/customers", bytes.NewReader(body))
		req.Header.Set(ShopDomainHeader, "acme.myshopify.com")
		req.Header.Set(HmacHeader, shopify.ComputeSignature("", body))
		w := httptest.NewRecorder()
		webhookTestRouter(repo).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong secret returns 401", func(t *testing.T) {
		repo := new(mockTenantRepo)
		tn := webhookTestTenant(t)
		repo.On("FindByStoreDomain", mock.Anything, "acme.myshopify.com").Return(tn, nil)

		req := httptest.NewRequest("POST", "/webhook/customers", bytes.NewReader(body))
		req.Header.Set(ShopDomainHeader, "acme.myshopify.com")
		req.Header.Set(HmacHeader, shopify.ComputeSignature("other-secret", body))
		w := httptest.NewRecorder()
		webhookTestRouter(repo).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("signature over different bytes returns 401", func(t *testing.T) {
		repo := new(mockTenantRepo)
		tn := webhookTestTenant(t)
		repo.On("FindByStoreDomain", mock.Anything, "acme.myshopify.com").Return(tn, nil)

		req := httptest.NewRequest("POST", "/webhook/customers", bytes.NewReader([]byte(`{"id":2}`)))
		req.Header.Set(ShopDomainHeader, "acme.myshopify.com")
		req.Header.Set(HmacHeader, shopify.ComputeSignature("shpss_secret", body))
		w := httptest.NewRecorder()
		webhookTestRouter(repo).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
