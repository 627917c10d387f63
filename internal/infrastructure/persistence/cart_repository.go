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

// GormCartRepository implements funnel.CartRepository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// Upsert inserts the cart or refreshes the existing row's total and
// status. The status merge never moves a cart backwards, so a COMPLETED
// cart stays COMPLETED no matter what arrives later. The customer link
// is set on insert only.
func (r *GormCartRepository) Upsert(ctx context.Context, c *funnel.Cart) error {
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

	resolved := funnel.ResolveCartStatus(existing.Status, c.Status)
	return r.db.WithContext(ctx).
		Model(&funnel.Cart{}).
		Where("tenant_id = ? AND shopify_id = ?", c.TenantID, c.ShopifyID).
		Updates(map[string]any{
			"total_price": c.TotalPrice,
			"status":      resolved,
		}).Error
}

// FindByShopifyID finds a cart by its Shopify ID within a tenant
func (r *GormCartRepository) FindByShopifyID(ctx context.Context, tenantID uuid.UUID, shopifyID string) (*funnel.Cart, error) {
	var c funnel.Cart
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
func (r *GormCartRepository) CountByStatusForTenant(ctx context.Context, tenantID uuid.UUID) (map[funnel.CartStatus]int64, error) {
	var rows []struct {
		Status funnel.CartStatus
		Count  int64
	}
	if err := r.db.WithContext(ctx).
		Model(&funnel.Cart{}).
		Select("status, COUNT(*) as count").
		Where("tenant_id = ?", tenantID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[funnel.CartStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// TenantsWithActiveBefore lists tenants owning carts still ACTIVE and
// created before the cutoff
func (r *GormCartRepository) TenantsWithActiveBefore(ctx context.Context, cutoff time.Time) ([]uuid.UUID, error) {
	var tenantIDs []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&funnel.Cart{}).
		Distinct("tenant_id").
		Where("status = ? AND created_at < ?", funnel.CartStatusActive, cutoff).
		Pluck("tenant_id", &tenantIDs).Error; err != nil {
		return nil, err
	}
	return tenantIDs, nil
}

// AbandonActiveBefore flips ACTIVE carts created before the cutoff to
// ABANDONED across all tenants in one statement
func (r *GormCartRepository) AbandonActiveBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&funnel.Cart{}).
		Where("status = ? AND created_at < ?", funnel.CartStatusActive, cutoff).
		Update("status", funnel.CartStatusAbandoned)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// Ensure GormCartRepository implements funnel.CartRepository
var _ funnel.CartRepository = (*GormCartRepository)(nil)
