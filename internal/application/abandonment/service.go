package abandonment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shoplytics/backend/internal/domain/funnel"
	"github.com/shoplytics/backend/internal/infrastructure/cache"
)

// SweepResult reports what a single abandonment sweep did
type SweepResult struct {
	CartsAbandoned     int64
	CheckoutsAbandoned int64
	TenantsTouched     int
}

// Service expires stale carts and checkouts across all tenants.
// A cart still ACTIVE or a checkout still STARTED past the configured
// window is marked ABANDONED in bulk.
type Service struct {
	carts     funnel.CartRepository
	checkouts funnel.CheckoutRepository
	cache     cache.Store
	window    time.Duration
	logger    *zap.Logger
}

// NewService creates a new abandonment service
func NewService(
	carts funnel.CartRepository,
	checkouts funnel.CheckoutRepository,
	cacheStore cache.Store,
	window time.Duration,
	logger *zap.Logger,
) *Service {
	return &Service{
		carts:     carts,
		checkouts: checkouts,
		cache:     cacheStore,
		window:    window,
		logger:    logger,
	}
}

// ExpireStale runs one sweep. Affected tenants are collected before the
// bulk updates so their cached insights can be invalidated afterwards.
func (s *Service) ExpireStale(ctx context.Context) (*SweepResult, error) {
	cutoff := time.Now().Add(-s.window)

	cartTenants, err := s.carts.TenantsWithActiveBefore(ctx, cutoff)
	if err != nil {
		return nil, err
	}
	checkoutTenants, err := s.checkouts.TenantsWithStartedBefore(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	touched := make(map[uuid.UUID]struct{}, len(cartTenants)+len(checkoutTenants))
	for _, id := range cartTenants {
		touched[id] = struct{}{}
	}
	for _, id := range checkoutTenants {
		touched[id] = struct{}{}
	}

	cartsAbandoned, err := s.carts.AbandonActiveBefore(ctx, cutoff)
	if err != nil {
		return nil, err
	}
	checkoutsAbandoned, err := s.checkouts.AbandonStartedBefore(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	for tenantID := range touched {
		if err := s.cache.Delete(ctx, cache.InsightsKey(tenantID)); err != nil {
			s.logger.Warn("Failed to invalidate insights cache after sweep",
				zap.String("tenant_id", tenantID.String()),
				zap.Error(err),
			)
		}
	}

	return &SweepResult{
		CartsAbandoned:     cartsAbandoned,
		CheckoutsAbandoned: checkoutsAbandoned,
		TenantsTouched:     len(touched),
	}, nil
}
