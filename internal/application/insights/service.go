package insights

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shoplytics/backend/internal/domain/catalog"
	"github.com/shoplytics/backend/internal/domain/customer"
	"github.com/shoplytics/backend/internal/domain/funnel"
	"github.com/shoplytics/backend/internal/domain/order"
	"github.com/shoplytics/backend/internal/infrastructure/cache"
	"github.com/shoplytics/backend/internal/infrastructure/config"
)

const topCustomerLimit = 5

// Service serves the cached dashboard read APIs. Every read goes through
// the cache; a cache failure is logged and treated as a miss, never
// surfaced to the caller.
type Service struct {
	customers customer.Repository
	products  catalog.ProductRepository
	orders    order.Repository
	carts     funnel.CartRepository
	checkouts funnel.CheckoutRepository
	cache     cache.Store
	ttl       config.CacheConfig
	logger    *zap.Logger
}

// NewService creates a new insights service
func NewService(
	customers customer.Repository,
	products catalog.ProductRepository,
	orders order.Repository,
	carts funnel.CartRepository,
	checkouts funnel.CheckoutRepository,
	cacheStore cache.Store,
	ttl config.CacheConfig,
	logger *zap.Logger,
) *Service {
	return &Service{
		customers: customers,
		products:  products,
		orders:    orders,
		carts:     carts,
		checkouts: checkouts,
		cache:     cacheStore,
		ttl:       ttl,
		logger:    logger,
	}
}

// ListCustomers returns the tenant's customers, cached
func (s *Service) ListCustomers(ctx context.Context, tenantID uuid.UUID) ([]CustomerSummary, error) {
	key := cache.CustomersKey(tenantID)

	var cached []CustomerSummary
	if s.readCache(ctx, key, &cached) {
		return cached, nil
	}

	customers, err := s.customers.FindAllForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	summaries := make([]CustomerSummary, len(customers))
	for i, c := range customers {
		summaries[i] = toCustomerSummary(c)
	}

	s.writeCache(ctx, key, summaries, s.ttl.CustomersTTL)
	return summaries, nil
}

// ListProducts returns the tenant's products, cached
func (s *Service) ListProducts(ctx context.Context, tenantID uuid.UUID) ([]ProductSummary, error) {
	key := cache.ProductsKey(tenantID)

	var cached []ProductSummary
	if s.readCache(ctx, key, &cached) {
		return cached, nil
	}

	products, err := s.products.FindAllForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	summaries := make([]ProductSummary, len(products))
	for i, p := range products {
		summaries[i] = ProductSummary{
			ID:        p.ID,
			ShopifyID: p.ShopifyID,
			Title:     p.Title,
			Price:     p.Price,
			CreatedAt: p.CreatedAt,
		}
	}

	s.writeCache(ctx, key, summaries, s.ttl.ProductsTTL)
	return summaries, nil
}

// ListOrders returns the tenant's orders, optionally bounded by creation
// time, cached per range. Each order carries a preview of its linked
// customer when one was resolved at ingest time.
func (s *Service) ListOrders(ctx context.Context, tenantID uuid.UUID, from, to *time.Time) ([]OrderSummary, error) {
	key := cache.OrdersKey(tenantID, from, to)

	var cached []OrderSummary
	if s.readCache(ctx, key, &cached) {
		return cached, nil
	}

	orders, err := s.orders.FindAllForTenant(ctx, tenantID, from, to)
	if err != nil {
		return nil, err
	}

	previews, err := s.customerPreviews(ctx, tenantID, orders)
	if err != nil {
		return nil, err
	}

	summaries := make([]OrderSummary, len(orders))
	for i, o := range orders {
		summary := OrderSummary{
			ID:         o.ID,
			ShopifyID:  o.ShopifyID,
			TotalPrice: o.TotalPrice,
			Currency:   o.Currency,
			Status:     string(o.Status),
			CreatedAt:  o.CreatedAt,
		}
		if o.CustomerID != nil {
			if preview, ok := previews[*o.CustomerID]; ok {
				summary.Customer = &preview
			}
		}
		summaries[i] = summary
	}

	s.writeCache(ctx, key, summaries, s.ttl.OrdersTTL)
	return summaries, nil
}

// Insights returns the tenant's aggregated dashboard metrics, cached
func (s *Service) Insights(ctx context.Context, tenantID uuid.UUID) (*InsightsResponse, error) {
	key := cache.InsightsKey(tenantID)

	var cached InsightsResponse
	if s.readCache(ctx, key, &cached) {
		return &cached, nil
	}

	totalCustomers, err := s.customers.CountForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	totalOrders, err := s.orders.CountForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	revenue, err := s.orders.SumRevenueForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	top, err := s.customers.TopBySpent(ctx, tenantID, topCustomerLimit)
	if err != nil {
		return nil, err
	}
	topSummaries := make([]CustomerSummary, len(top))
	for i, c := range top {
		topSummaries[i] = toCustomerSummary(c)
	}

	cartCounts, err := s.carts.CountByStatusForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	checkoutCounts, err := s.checkouts.CountByStatusForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	response := &InsightsResponse{
		TotalCustomers: totalCustomers,
		TotalOrders:    totalOrders,
		TotalRevenue:   revenue,
		TopCustomers:   topSummaries,
		Carts:          cartFunnelCounts(cartCounts),
		Checkouts:      checkoutFunnelCounts(checkoutCounts),
	}

	s.writeCache(ctx, key, response, s.ttl.InsightsTTL)
	return response, nil
}

// customerPreviews batch-loads the customers referenced by a page of orders
func (s *Service) customerPreviews(ctx context.Context, tenantID uuid.UUID, orders []order.Order) (map[uuid.UUID]CustomerPreview, error) {
	seen := make(map[uuid.UUID]struct{})
	ids := make([]uuid.UUID, 0)
	for _, o := range orders {
		if o.CustomerID == nil {
			continue
		}
		if _, ok := seen[*o.CustomerID]; ok {
			continue
		}
		seen[*o.CustomerID] = struct{}{}
		ids = append(ids, *o.CustomerID)
	}
	if len(ids) == 0 {
		return map[uuid.UUID]CustomerPreview{}, nil
	}

	customers, err := s.customers.FindByIDsForTenant(ctx, tenantID, ids)
	if err != nil {
		return nil, err
	}

	previews := make(map[uuid.UUID]CustomerPreview, len(customers))
	for _, c := range customers {
		previews[c.ID] = CustomerPreview{
			ID:    c.ID,
			Name:  c.FullName(),
			Email: c.Email,
		}
	}
	return previews, nil
}

func (s *Service) readCache(ctx context.Context, key string, dest any) bool {
	value, hit, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if !hit {
		return false
	}
	if err := json.Unmarshal([]byte(value), dest); err != nil {
		s.logger.Warn("Discarding undecodable cache entry", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *Service) writeCache(ctx context.Context, key string, value any, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("Cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, string(data), ttl); err != nil {
		s.logger.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func toCustomerSummary(c customer.Customer) CustomerSummary {
	return CustomerSummary{
		ID:         c.ID,
		ShopifyID:  c.ShopifyID,
		Email:      c.Email,
		Name:       c.FullName(),
		TotalSpent: c.TotalSpent,
		CreatedAt:  c.CreatedAt,
	}
}

func cartFunnelCounts(counts map[funnel.CartStatus]int64) FunnelCounts {
	out := FunnelCounts{
		string(funnel.CartStatusActive):    0,
		string(funnel.CartStatusAbandoned): 0,
		string(funnel.CartStatusCompleted): 0,
	}
	for status, n := range counts {
		out[string(status)] = n
	}
	return out
}

func checkoutFunnelCounts(counts map[funnel.CheckoutStatus]int64) FunnelCounts {
	out := FunnelCounts{
		string(funnel.CheckoutStatusStarted):   0,
		string(funnel.CheckoutStatusAbandoned): 0,
		string(funnel.CheckoutStatusCompleted): 0,
	}
	for status, n := range counts {
		out[string(status)] = n
	}
	return out
}
