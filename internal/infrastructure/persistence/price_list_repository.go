package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wms/backend/internal/domain/pricing"
	"github.com/wms/backend/internal/domain/shared"
)

// GormPriceListRepository implements PriceListRepository using GORM
type GormPriceListRepository struct {
	db *gorm.DB
}

// NewGormPriceListRepository creates a new GormPriceListRepository
func NewGormPriceListRepository(db *gorm.DB) *GormPriceListRepository {
	return &GormPriceListRepository{db: db}
}

// Create persists the head together with its lines
func (r *GormPriceListRepository) Create(ctx context.Context, head *pricing.PriceListHead) error {
	return r.db.WithContext(ctx).Create(head).Error
}

// Save persists changes to an existing head
func (r *GormPriceListRepository) Save(ctx context.Context, head *pricing.PriceListHead) error {
	return r.db.WithContext(ctx).
		Model(head).
		Updates(map[string]interface{}{
			"is_active":  head.IsActive,
			"end_date":   head.EndDate,
			"version":    head.Version,
			"updated_at": head.UpdatedAt,
		}).Error
}

// FindByID returns the head with lines preloaded
func (r *GormPriceListRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*pricing.PriceListHead, error) {
	var head pricing.PriceListHead
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&head).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &head, nil
}

// FindActiveForDate returns the single active head whose window covers
// the date. The write-time overlap check guarantees at most one row
// matches; First is belt and braces.
func (r *GormPriceListRepository) FindActiveForDate(ctx context.Context, tenantID, customerID, itemID uuid.UUID, date time.Time) (*pricing.PriceListHead, error) {
	var head pricing.PriceListHead
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("tenant_id = ? AND customer_id = ? AND item_id = ? AND is_active = ?", tenantID, customerID, itemID, true).
		Where("begin_date <= ?", date).
		Where("(end_date IS NULL OR end_date >= ?)", date).
		First(&head).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &head, nil
}

// FindActiveByCustomerAndItem returns all active heads for the pair,
// used for overlap validation before a write
func (r *GormPriceListRepository) FindActiveByCustomerAndItem(ctx context.Context, tenantID, customerID, itemID uuid.UUID) ([]pricing.PriceListHead, error) {
	var heads []pricing.PriceListHead
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND customer_id = ? AND item_id = ? AND is_active = ?", tenantID, customerID, itemID, true).
		Find(&heads).Error; err != nil {
		return nil, err
	}
	return heads, nil
}

// FindAll lists heads for a tenant with pagination
func (r *GormPriceListRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]pricing.PriceListHead, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&pricing.PriceListHead{}).
		Where("tenant_id = ?", tenantID)

	if customerID, ok := filter.Filters["customer_id"]; ok {
		base = base.Where("customer_id = ?", customerID)
	}
	if itemID, ok := filter.Filters["item_id"]; ok {
		base = base.Where("item_id = ?", itemID)
	}
	if active, ok := filter.Filters["is_active"]; ok {
		base = base.Where("is_active = ?", active)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var heads []pricing.PriceListHead
	query := applyPagedOrder(base.Preload("Lines"), filter, PriceListSortFields, "begin_date")
	if err := query.Find(&heads).Error; err != nil {
		return nil, 0, err
	}
	return heads, total, nil
}

// Ensure GormPriceListRepository implements PriceListRepository
var _ pricing.PriceListRepository = (*GormPriceListRepository)(nil)
