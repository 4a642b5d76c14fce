package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/shared"
)

// GormBalanceRepository implements BalanceRepository using GORM
type GormBalanceRepository struct {
	db *gorm.DB
}

// NewGormBalanceRepository creates a new GormBalanceRepository
func NewGormBalanceRepository(db *gorm.DB) *GormBalanceRepository {
	return &GormBalanceRepository{db: db}
}

// FindByItemAndWarehouse finds the balance for one (item, warehouse) pair
func (r *GormBalanceRepository) FindByItemAndWarehouse(ctx context.Context, tenantID, itemID, warehouseID uuid.UUID) (*inventory.InventoryBalance, error) {
	var balance inventory.InventoryBalance
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND item_id = ? AND warehouse_id = ?", tenantID, itemID, warehouseID).
		First(&balance).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &balance, nil
}

// FindForUpdate loads the balance holding a row lock until the
// surrounding transaction ends
func (r *GormBalanceRepository) FindForUpdate(ctx context.Context, tenantID, itemID, warehouseID uuid.UUID) (*inventory.InventoryBalance, error) {
	var balance inventory.InventoryBalance
	query := r.db.WithContext(ctx)
	if supportsRowLocks(query) {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := query.
		Where("tenant_id = ? AND item_id = ? AND warehouse_id = ?", tenantID, itemID, warehouseID).
		First(&balance).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &balance, nil
}

// GetOrCreateForUpdate loads the balance under a row lock, inserting a
// zeroed row first when none exists. The ON CONFLICT DO NOTHING insert
// makes concurrent first movements converge on a single row; the locked
// re-read then serializes them.
func (r *GormBalanceRepository) GetOrCreateForUpdate(ctx context.Context, tenantID, itemID, warehouseID uuid.UUID) (*inventory.InventoryBalance, error) {
	balance, err := r.FindForUpdate(ctx, tenantID, itemID, warehouseID)
	if err == nil {
		return balance, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	fresh := inventory.NewInventoryBalance(tenantID, itemID, warehouseID)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "item_id"}, {Name: "warehouse_id"}},
			DoNothing: true,
		}).
		Create(fresh).Error; err != nil {
		return nil, err
	}

	return r.FindForUpdate(ctx, tenantID, itemID, warehouseID)
}

// Save persists the balance unconditionally
func (r *GormBalanceRepository) Save(ctx context.Context, balance *inventory.InventoryBalance) error {
	return r.db.WithContext(ctx).Save(balance).Error
}

// SaveWithLock persists the balance with an optimistic version check.
// The domain operation has already incremented Version, so the update
// matches the pre-operation version only.
func (r *GormBalanceRepository) SaveWithLock(ctx context.Context, balance *inventory.InventoryBalance) error {
	result := r.db.WithContext(ctx).
		Model(balance).
		Where("id = ? AND version = ?", balance.ID, balance.Version-1).
		Updates(map[string]interface{}{
			"on_hand":    balance.OnHand,
			"allocated":  balance.Allocated,
			"on_order":   balance.OnOrder,
			"version":    balance.Version,
			"updated_at": balance.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// FindAll lists balances for a tenant with pagination
func (r *GormBalanceRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]inventory.InventoryBalance, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&inventory.InventoryBalance{}).
		Where("tenant_id = ?", tenantID)

	if warehouseID, ok := filter.Filters["warehouse_id"]; ok {
		base = base.Where("warehouse_id = ?", warehouseID)
	}
	if itemID, ok := filter.Filters["item_id"]; ok {
		base = base.Where("item_id = ?", itemID)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var balances []inventory.InventoryBalance
	query := applyPagedOrder(base, filter, BalanceSortFields, "created_at")
	if err := query.Find(&balances).Error; err != nil {
		return nil, 0, err
	}
	return balances, total, nil
}

// Ensure GormBalanceRepository implements BalanceRepository
var _ inventory.BalanceRepository = (*GormBalanceRepository)(nil)
