package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shoplytics/backend/internal/domain/funnel"
	"github.com/shoplytics/backend/internal/domain/shared"
)

// GormCheckoutRepository implements funnel.CheckoutRepository using GORM
type GormCheckoutRepository struct {
	db *gorm.DB
}

// NewGormCheckoutRepository creates a new GormCheckoutRepository
func NewGormCheckoutRepository(db *gorm.DB) *GormCheckoutRepository {
	return &GormCheckoutRepository{db: db}
}

// Upsert inserts the checkout or refreshes the existing row's total and
// status. The status merge never moves a checkout backwards. The
// customer link is set on insert only.
func (r *GormCheckoutRepository) Upsert(ctx context.Context, c *funnel.Checkout) error {
	existing, err := r.FindByShopifyID(ctx, c.TenantID, c.ShopifyID)
	if errors.Is(err, shared.ErrNotFound) {
		return r.db.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "shopify_id"}},
				DoNothing: true,
			}).
			Create(c).Error
	}
	if err != nil {
		return err
	}

	resolved := funnel.ResolveCheckoutStatus(existing.Status, c.Status)
	return r.db.WithContext(ctx).
		Model(&funnel.Checkout{}).
		Where("tenant_id = ? AND shopify_id = ?", c.TenantID, c.ShopifyID).
		Updates(map[string]any{
			"total_price": c.TotalPrice,
			"status":      resolved,
		}).Error
}

// FindByShopifyID finds a checkout by its Shopify ID within a tenant
func (r *GormCheckoutRepository) FindByShopifyID(ctx context.Context, tenantID uuid.UUID, shopifyID string) (*funnel.Checkout, error) {
	var c funnel.Checkout
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND shopify_id = ?", tenantID, shopifyID).
		First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// CountByStatusForTenant returns a status histogram for a tenant
func (r *GormCheckoutRepository) CountByStatusForTenant(ctx context.Context, tenantID uuid.UUID) (map[funnel.CheckoutStatus]int64, error) {
	var rows []struct {
		Status funnel.CheckoutStatus
		Count  int64
	}
	if err := r.db.WithContext(ctx).
		Model(&funnel.Checkout{}).
		Select("status, COUNT(*) as count").
		Where("tenant_id = ?", tenantID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[funnel.CheckoutStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// TenantsWithStartedBefore lists tenants owning checkouts still STARTED
// and created before the cutoff
func (r *GormCheckoutRepository) TenantsWithStartedBefore(ctx context.Context, cutoff time.Time) ([]uuid.UUID, error) {
	var tenantIDs []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&funnel.Checkout{}).
		Distinct("tenant_id").
		Where("status = ? AND created_at < ?", funnel.CheckoutStatusStarted, cutoff).
		Pluck("tenant_id", &tenantIDs).Error; err != nil {
		return nil, err
	}
	return tenantIDs, nil
}

// AbandonStartedBefore flips STARTED checkouts created before the
// cutoff to ABANDONED across all tenants in one statement
func (r *GormCheckoutRepository) AbandonStartedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&funnel.Checkout{}).
		Where("status = ? AND created_at < ?", funnel.CheckoutStatusStarted, cutoff).
		Update("status", funnel.CheckoutStatusAbandoned)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// Ensure GormCheckoutRepository implements funnel.CheckoutRepository
var _ funnel.CheckoutRepository = (*GormCheckoutRepository)(nil)
