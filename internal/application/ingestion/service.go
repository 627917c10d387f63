package ingestion

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shoplytics/backend/internal/domain/catalog"
	"github.com/shoplytics/backend/internal/domain/customer"
	"github.com/shoplytics/backend/internal/domain/funnel"
	"github.com/shoplytics/backend/internal/domain/order"
	"github.com/shoplytics/backend/internal/domain/shared"
	"github.com/shoplytics/backend/internal/infrastructure/cache"
	"github.com/shoplytics/backend/internal/infrastructure/shopify"
)

// SyncResult reports how a webhook batch was consumed. A batch never
// fails as a whole over one bad item: malformed items are counted as
// skipped and the rest proceed.
type SyncResult struct {
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
}

// Service ingests Shopify webhook payloads into the tenant's local store
type Service struct {
	customers customer.Repository
	products  catalog.ProductRepository
	orders    order.Repository
	carts     funnel.CartRepository
	checkouts funnel.CheckoutRepository
	cache     cache.Store
	logger    *zap.Logger
}

// NewService creates a new ingestion service
func NewService(
	customers customer.Repository,
	products catalog.ProductRepository,
	orders order.Repository,
	carts funnel.CartRepository,
	checkouts funnel.CheckoutRepository,
	cacheStore cache.Store,
	logger *zap.Logger,
) *Service {
	return &Service{
		customers: customers,
		products:  products,
		orders:    orders,
		carts:     carts,
		checkouts: checkouts,
		cache:     cacheStore,
		logger:    logger,
	}
}

// SyncCustomers upserts customers from a webhook or bulk ingest body
func (s *Service) SyncCustomers(ctx context.Context, tenantID uuid.UUID, topic string, body []byte) (*SyncResult, error) {
	items, err := shopify.SplitBatch(body)
	if err != nil {
		return nil, err
	}

	result := &SyncResult{}
	for _, raw := range items {
		var payload shopify.CustomerPayload
		if err := json.Unmarshal(raw, &payload); err != nil {
			s.skip(tenantID, "customer", err, result)
			continue
		}

		c, err := customer.NewCustomer(tenantID, payload.ID.String(), payload.Email, payload.FirstName, payload.LastName)
		if err != nil {
			s.skip(tenantID, "customer", err, result)
			continue
		}

		if err := s.customers.Upsert(ctx, c); err != nil {
			s.skip(tenantID, "customer", err, result)
			continue
		}
		result.Processed++
	}

	if result.Processed > 0 {
		s.invalidateKeys(ctx, cache.CustomersKey(tenantID), cache.InsightsKey(tenantID))
	}
	return result, nil
}

// SyncProducts upserts products from a webhook or bulk ingest body
func (s *Service) SyncProducts(ctx context.Context, tenantID uuid.UUID, topic string, body []byte) (*SyncResult, error) {
	items, err := shopify.SplitBatch(body)
	if err != nil {
		return nil, err
	}

	result := &SyncResult{}
	for _, raw := range items {
		var payload shopify.ProductPayload
		if err := json.Unmarshal(raw, &payload); err != nil {
			s.skip(tenantID, "product", err, result)
			continue
		}

		p, err := catalog.NewProduct(tenantID, payload.ID.String(), payload.Title, payload.Price())
		if err != nil {
			s.skip(tenantID, "product", err, result)
			continue
		}

		if err := s.products.Upsert(ctx, p); err != nil {
			s.skip(tenantID, "product", err, result)
			continue
		}
		result.Processed++
	}

	if result.Processed > 0 {
		s.invalidateKeys(ctx, cache.ProductsKey(tenantID), cache.InsightsKey(tenantID))
	}
	return result, nil
}

// SyncOrders upserts orders from a webhook or bulk ingest body. The order
// status is derived from the webhook topic. When the payload references a
// customer already synced for this tenant, the order is linked to it and
// the customer's lifetime spend is recomputed from completed orders.
func (s *Service) SyncOrders(ctx context.Context, tenantID uuid.UUID, topic string, body []byte) (*SyncResult, error) {
	items, err := shopify.SplitBatch(body)
	if err != nil {
		return nil, err
	}

	status := order.StatusFromTopic(topic)

	result := &SyncResult{}
	for _, raw := range items {
		var payload shopify.OrderPayload
		if err := json.Unmarshal(raw, &payload); err != nil {
			s.skip(tenantID, "order", err, result)
			continue
		}

		o, err := order.NewOrder(tenantID, payload.ID.String(), payload.TotalPrice.Decimal, payload.Currency, status)
		if err != nil {
			s.skip(tenantID, "order", err, result)
			continue
		}

		linked := s.resolveCustomer(ctx, tenantID, payload.CustomerShopifyID())
		if linked != nil {
			o.LinkCustomer(linked.ID)
		}

		if err := s.orders.Upsert(ctx, o); err != nil {
			s.skip(tenantID, "order", err, result)
			continue
		}
		result.Processed++

		if linked != nil {
			s.recomputeTotalSpent(ctx, tenantID, linked.ID)
		}
	}

	if result.Processed > 0 {
		s.invalidateKeys(ctx, cache.CustomersKey(tenantID), cache.InsightsKey(tenantID))
		s.invalidatePattern(ctx, cache.OrdersPattern(tenantID))
	}
	return result, nil
}

// SyncCarts upserts carts from a webhook or bulk ingest body
func (s *Service) SyncCarts(ctx context.Context, tenantID uuid.UUID, topic string, body []byte) (*SyncResult, error) {
	items, err := shopify.SplitBatch(body)
	if err != nil {
		return nil, err
	}

	status := funnel.CartStatusFromTopic(topic)

	result := &SyncResult{}
	for _, raw := range items {
		var payload shopify.CartPayload
		if err := json.Unmarshal(raw, &payload); err != nil {
			s.skip(tenantID, "cart", err, result)
			continue
		}

		c, err := funnel.NewCart(tenantID, payload.ShopifyID(), payload.TotalPrice.Decimal, status)
		if err != nil {
			s.skip(tenantID, "cart", err, result)
			continue
		}

		if linked := s.resolveCustomer(ctx, tenantID, payload.CustomerShopifyID()); linked != nil {
			c.LinkCustomer(linked.ID)
		}

		if err := s.carts.Upsert(ctx, c); err != nil {
			s.skip(tenantID, "cart", err, result)
			continue
		}
		result.Processed++
	}

	if result.Processed > 0 {
		s.invalidateKeys(ctx, cache.InsightsKey(tenantID))
	}
	return result, nil
}

// SyncCheckouts upserts checkouts from a webhook or bulk ingest body
func (s *Service) SyncCheckouts(ctx context.Context, tenantID uuid.UUID, topic string, body []byte) (*SyncResult, error) {
	items, err := shopify.SplitBatch(body)
	if err != nil {
		return nil, err
	}

	status := funnel.CheckoutStatusFromTopic(topic)

	result := &SyncResult{}
	for _, raw := range items {
		var payload shopify.CheckoutPayload
		if err := json.Unmarshal(raw, &payload); err != nil {
			s.skip(tenantID, "checkout", err, result)
			continue
		}

		c, err := funnel.NewCheckout(tenantID, payload.ShopifyID(), payload.TotalPrice.Decimal, status)
		if err != nil {
			s.skip(tenantID, "checkout", err, result)
			continue
		}

		if linked := s.resolveCustomer(ctx, tenantID, payload.CustomerShopifyID()); linked != nil {
			c.LinkCustomer(linked.ID)
		}

		if err := s.checkouts.Upsert(ctx, c); err != nil {
			s.skip(tenantID, "checkout", err, result)
			continue
		}
		result.Processed++
	}

	if result.Processed > 0 {
		s.invalidateKeys(ctx, cache.InsightsKey(tenantID))
	}
	return result, nil
}

// resolveCustomer looks up the local customer row for a payload reference.
// A missing or unknown reference is not an error; the row just stays
// unlinked.
func (s *Service) resolveCustomer(ctx context.Context, tenantID uuid.UUID, shopifyID string) *customer.Customer {
	if shopifyID == "" {
		return nil
	}
	c, err := s.customers.FindByShopifyID(ctx, tenantID, shopifyID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Customer lookup failed during sync",
				zap.String("tenant_id", tenantID.String()),
				zap.String("shopify_customer_id", shopifyID),
				zap.Error(err))
		}
		return nil
	}
	return c
}

func (s *Service) recomputeTotalSpent(ctx context.Context, tenantID, customerID uuid.UUID) {
	total, err := s.orders.SumCompletedForCustomer(ctx, tenantID, customerID)
	if err != nil {
		s.logger.Warn("Failed to recompute customer spend",
			zap.String("tenant_id", tenantID.String()),
			zap.String("customer_id", customerID.String()),
			zap.Error(err))
		return
	}
	if err := s.customers.UpdateTotalSpent(ctx, tenantID, customerID, total); err != nil {
		s.logger.Warn("Failed to store customer spend",
			zap.String("tenant_id", tenantID.String()),
			zap.String("customer_id", customerID.String()),
			zap.Error(err))
	}
}

func (s *Service) skip(tenantID uuid.UUID, resource string, err error, result *SyncResult) {
	result.Skipped++
	s.logger.Warn("Skipping webhook item",
		zap.String("tenant_id", tenantID.String()),
		zap.String("resource", resource),
		zap.Error(err))
}

func (s *Service) invalidateKeys(ctx context.Context, keys ...string) {
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.logger.Warn("Cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

func (s *Service) invalidatePattern(ctx context.Context, pattern string) {
	if err := s.cache.DeleteByPattern(ctx, pattern); err != nil {
		s.logger.Warn("Cache invalidation failed", zap.String("pattern", pattern), zap.Error(err))
	}
}
