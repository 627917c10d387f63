package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shoplytics/backend/internal/domain/customer"
	"github.com/shoplytics/backend/internal/domain/shared"
)

// GormCustomerRepository implements customer.Repository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// Upsert inserts the customer or, when one with the same (tenant_id,
// shopify_id) already exists, updates its profile fields in place. The
// existing row's ID and total_spent are preserved on conflict.
func (r *GormCustomerRepository) Upsert(ctx context.Context, c *customer.Customer) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "shopify_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"email", "first_name", "last_name", "updated_at"}),
		}).
		Create(c).Error
}

// FindByShopifyID finds a customer by its Shopify ID within a tenant
func (r *GormCustomerRepository) FindByShopifyID(ctx context.Context, tenantID uuid.UUID, shopifyID string) (*customer.Customer, error) {
	var c customer.Customer
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

// FindAllForTenant finds all customers for a tenant, most recently
// updated first
func (r *GormCustomerRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]customer.Customer, error) {
	var customers []customer.Customer
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("updated_at DESC").
		Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

// FindByIDsForTenant finds multiple customers by their IDs
func (r *GormCustomerRepository) FindByIDsForTenant(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]customer.Customer, error) {
	if len(ids) == 0 {
		return []customer.Customer{}, nil
	}
	var customers []customer.Customer
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

// CountForTenant counts customers for a tenant
func (r *GormCustomerRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&customer.Customer{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// TopBySpent returns the tenant's highest-spending customers
func (r *GormCustomerRepository) TopBySpent(ctx context.Context, tenantID uuid.UUID, limit int) ([]customer.Customer, error) {
	var customers []customer.Customer
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("total_spent DESC").
		Limit(limit).
		Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

// UpdateTotalSpent sets a customer's lifetime spend to the given total
func (r *GormCustomerRepository) UpdateTotalSpent(ctx context.Context, tenantID, id uuid.UUID, total decimal.Decimal) error {
	result := r.db.WithContext(ctx).
		Model(&customer.Customer{}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Update("total_spent", total)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormCustomerRepository implements customer.Repository
var _ customer.Repository = (*GormCustomerRepository)(nil)
