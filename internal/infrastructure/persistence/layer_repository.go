package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/shared"
)

// GormLayerRepository implements LayerRepository using GORM
type GormLayerRepository struct {
	db *gorm.DB
}

// NewGormLayerRepository creates a new GormLayerRepository
func NewGormLayerRepository(db *gorm.DB) *GormLayerRepository {
	return &GormLayerRepository{db: db}
}

// Create persists a new cost layer
func (r *GormLayerRepository) Create(ctx context.Context, layer *inventory.InventoryLayer) error {
	return r.db.WithContext(ctx).Create(layer).Error
}

// FindOpenForUpdate returns undepleted layers for one (item, warehouse)
// pair in FIFO order, row-locked until the surrounding transaction ends.
// The ordering here matches the planner's tie-break so the database and
// the in-memory plan agree.
func (r *GormLayerRepository) FindOpenForUpdate(ctx context.Context, tenantID, itemID, warehouseID uuid.UUID) ([]*inventory.InventoryLayer, error) {
	var layers []*inventory.InventoryLayer
	query := r.db.WithContext(ctx)
	if supportsRowLocks(query) {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := query.
		Where("tenant_id = ? AND item_id = ? AND warehouse_id = ? AND quantity_remaining > 0",
			tenantID, itemID, warehouseID).
		Order("date_received ASC, created_at ASC").
		Find(&layers).Error; err != nil {
		return nil, err
	}
	return layers, nil
}

// SaveAll persists mutated layers after a depletion is applied
func (r *GormLayerRepository) SaveAll(ctx context.Context, layers []*inventory.InventoryLayer) error {
	for _, layer := range layers {
		if err := r.db.WithContext(ctx).
			Model(layer).
			Updates(map[string]interface{}{
				"quantity_remaining": layer.QuantityRemaining,
				"updated_at":         layer.UpdatedAt,
			}).Error; err != nil {
			return err
		}
	}
	return nil
}

// FindByItem lists layers, including depleted ones, for audit
func (r *GormLayerRepository) FindByItem(ctx context.Context, tenantID, itemID, warehouseID uuid.UUID, filter shared.Filter) ([]inventory.InventoryLayer, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&inventory.InventoryLayer{}).
		Where("tenant_id = ? AND item_id = ? AND warehouse_id = ?", tenantID, itemID, warehouseID)

	if openOnly, ok := filter.Filters["open_only"]; ok && openOnly == true {
		base = base.Where("quantity_remaining > 0")
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var layers []inventory.InventoryLayer
	query := applyPagedOrder(base, filter, LayerSortFields, "date_received")
	if err := query.Find(&layers).Error; err != nil {
		return nil, 0, err
	}
	return layers, total, nil
}

// Ensure GormLayerRepository implements LayerRepository
var _ inventory.LayerRepository = (*GormLayerRepository)(nil)
