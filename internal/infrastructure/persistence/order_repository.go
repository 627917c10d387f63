package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shoplytics/backend/internal/domain/order"
	"github.com/shoplytics/backend/internal/domain/shared"
)

// GormOrderRepository implements order.Repository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Upsert inserts the order or, when one with the same (tenant_id,
// shopify_id) already exists, updates its mutable fields. Later
// webhooks for the same order carry its latest state, so status and
// totals are overwritten.
func (r *GormOrderRepository) Upsert(ctx context.Context, o *order.Order) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "shopify_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"customer_id", "total_price", "currency", "status", "updated_at"}),
		}).
		Create(o).Error
}

// FindByShopifyID finds an order by its Shopify ID within a tenant
func (r *GormOrderRepository) FindByShopifyID(ctx context.Context, tenantID uuid.UUID, shopifyID string) (*order.Order, error) {
	var o order.Order
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND shopify_id = ?", tenantID, shopifyID).
		First(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindAllForTenant lists a tenant's orders, newest first, optionally
// bounded by creation time. Nil bounds are open ends.
func (r *GormOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, from, to *time.Time) ([]order.Order, error) {
	query := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	if from != nil {
		query = query.Where("created_at >= ?", *from)
	}
	if to != nil {
		query = query.Where("created_at <= ?", *to)
	}

	var orders []order.Order
	if err := query.Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// CountForTenant counts orders for a tenant
func (r *GormOrderRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&order.Order{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumRevenueForTenant sums total_price over all orders of a tenant
func (r *GormOrderRepository) SumRevenueForTenant(ctx context.Context, tenantID uuid.UUID) (decimal.Decimal, error) {
	return r.sumTotalPrice(r.db.WithContext(ctx).
		Model(&order.Order{}).
		Where("tenant_id = ?", tenantID))
}

// SumCompletedForCustomer sums total_price of a customer's completed orders
func (r *GormOrderRepository) SumCompletedForCustomer(ctx context.Context, tenantID, customerID uuid.UUID) (decimal.Decimal, error) {
	return r.sumTotalPrice(r.db.WithContext(ctx).
		Model(&order.Order{}).
		Where("tenant_id = ? AND customer_id = ? AND status = ?", tenantID, customerID, order.StatusCompleted))
}

func (r *GormOrderRepository) sumTotalPrice(query *gorm.DB) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	if err := query.
		Select("SUM(total_price)").
		Scan(&sum).Error; err != nil {
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}

// Ensure GormOrderRepository implements order.Repository
var _ order.Repository = (*GormOrderRepository)(nil)
