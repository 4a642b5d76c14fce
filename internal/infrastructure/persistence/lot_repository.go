package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/shared"
)

// GormLotRepository implements LotRepository using GORM
type GormLotRepository struct {
	db *gorm.DB
}

// NewGormLotRepository creates a new GormLotRepository
func NewGormLotRepository(db *gorm.DB) *GormLotRepository {
	return &GormLotRepository{db: db}
}

// Create persists the lot together with its pallets
func (r *GormLotRepository) Create(ctx context.Context, lot *inventory.InventoryLot) error {
	return r.db.WithContext(ctx).Create(lot).Error
}

// FindByID returns the lot with pallets preloaded
func (r *GormLotRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*inventory.InventoryLot, error) {
	var lot inventory.InventoryLot
	if err := r.db.WithContext(ctx).
		Preload("Pallets").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&lot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &lot, nil
}

// FindByItem lists lots for an item, optionally narrowed to a warehouse
func (r *GormLotRepository) FindByItem(ctx context.Context, tenantID, itemID uuid.UUID, warehouseID *uuid.UUID, filter shared.Filter) ([]inventory.InventoryLot, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&inventory.InventoryLot{}).
		Where("tenant_id = ? AND item_id = ?", tenantID, itemID)
	if warehouseID != nil {
		base = base.Where("warehouse_id = ?", *warehouseID)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var lots []inventory.InventoryLot
	query := applyPagedOrder(base.Preload("Pallets"), filter, LotSortFields, "date_received")
	if err := query.Find(&lots).Error; err != nil {
		return nil, 0, err
	}
	return lots, total, nil
}

// FindByLotNumber returns the lot with the given number
func (r *GormLotRepository) FindByLotNumber(ctx context.Context, tenantID uuid.UUID, lotNumber string) (*inventory.InventoryLot, error) {
	var lot inventory.InventoryLot
	if err := r.db.WithContext(ctx).
		Preload("Pallets").
		Where("tenant_id = ? AND lot_number = ?", tenantID, lotNumber).
		First(&lot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &lot, nil
}

// Ensure GormLotRepository implements LotRepository
var _ inventory.LotRepository = (*GormLotRepository)(nil)
