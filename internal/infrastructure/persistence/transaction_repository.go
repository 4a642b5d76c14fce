package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/shared"
)

// GormTransactionRepository implements the append-only ledger store.
// There are deliberately no update or delete methods.
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// Create appends one ledger row
func (r *GormTransactionRepository) Create(ctx context.Context, transaction *inventory.InventoryTransaction) error {
	return r.db.WithContext(ctx).Create(transaction).Error
}

// CreateBatch appends several ledger rows in one insert, used by
// transfers to keep the paired rows together
func (r *GormTransactionRepository) CreateBatch(ctx context.Context, transactions []*inventory.InventoryTransaction) error {
	if len(transactions) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(transactions).Error
}

// FindByBalance lists ledger rows for one (item, warehouse) pair, newest first
func (r *GormTransactionRepository) FindByBalance(ctx context.Context, tenantID, itemID, warehouseID uuid.UUID, filter shared.Filter) ([]inventory.InventoryTransaction, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&inventory.InventoryTransaction{}).
		Where("tenant_id = ? AND item_id = ? AND warehouse_id = ?", tenantID, itemID, warehouseID)

	if txType, ok := filter.Filters["type"]; ok {
		base = base.Where("type = ?", txType)
	}
	if refNumber, ok := filter.Filters["reference_number"]; ok {
		base = base.Where("reference_number = ?", refNumber)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var transactions []inventory.InventoryTransaction
	query := applyPagedOrder(base, filter, TransactionSortFields, "transaction_date")
	if err := query.Find(&transactions).Error; err != nil {
		return nil, 0, err
	}
	return transactions, total, nil
}

// SumByBalance replays the ledger for one (item, warehouse) pair.
// Quantities are stored signed, so on-hand is a plain sum over the
// on-hand-moving types and allocated a plain sum over the allocation types.
func (r *GormTransactionRepository) SumByBalance(ctx context.Context, tenantID, itemID, warehouseID uuid.UUID) (*inventory.LedgerTotals, error) {
	var row struct {
		OnHand    decimal.Decimal
		Allocated decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&inventory.InventoryTransaction{}).
		Select(
			"COALESCE(SUM(CASE WHEN type IN ? THEN quantity ELSE 0 END), 0) AS on_hand, "+
				"COALESCE(SUM(CASE WHEN type IN ? THEN quantity ELSE 0 END), 0) AS allocated",
			[]inventory.TransactionType{
				inventory.TransactionTypeReceipt,
				inventory.TransactionTypeIssue,
				inventory.TransactionTypeAdjust,
				inventory.TransactionTypeTransferOut,
				inventory.TransactionTypeTransferIn,
			},
			[]inventory.TransactionType{
				inventory.TransactionTypeAllocate,
				inventory.TransactionTypeDeallocate,
			},
		).
		Where("tenant_id = ? AND item_id = ? AND warehouse_id = ?", tenantID, itemID, warehouseID).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &inventory.LedgerTotals{OnHand: row.OnHand, Allocated: row.Allocated}, nil
}

// Ensure GormTransactionRepository implements TransactionRepository
var _ inventory.TransactionRepository = (*GormTransactionRepository)(nil)
