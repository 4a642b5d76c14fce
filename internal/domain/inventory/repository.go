package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/shared"
)

// BalanceRepository persists InventoryBalance aggregates. Every method is
// tenant-scoped; implementations must never return rows of another tenant.
type BalanceRepository interface {
	// FindByItemAndWarehouse returns the balance or shared.ErrNotFound
	FindByItemAndWarehouse(ctx context.Context, tenantID, itemID, warehouseID uuid.UUID) (*InventoryBalance, error)

	// FindForUpdate loads the balance holding a row lock for the duration
	// of the surrounding transaction. Returns shared.ErrNotFound when no
	// balance exists yet.
	FindForUpdate(ctx context.Context, tenantID, itemID, warehouseID uuid.UUID) (*InventoryBalance, error)

	// GetOrCreateForUpdate loads the balance under a row lock, creating a
	// zeroed row first when none exists
	GetOrCreateForUpdate(ctx context.Context, tenantID, itemID, warehouseID uuid.UUID) (*InventoryBalance, error)

	// Save persists the balance unconditionally
	Save(ctx context.Context, balance *InventoryBalance) error

	// SaveWithLock persists the balance only if its version is unchanged,
	// returning shared.ErrConcurrencyConflict otherwise
	SaveWithLock(ctx context.Context, balance *InventoryBalance) error

	// FindAll lists balances for a tenant with pagination
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]InventoryBalance, int64, error)
}

// LedgerTotals holds the sums replayed from the transaction ledger
type LedgerTotals struct {
	OnHand    decimal.Decimal
	Allocated decimal.Decimal
}

// TransactionRepository persists the append-only movement ledger. There
// are deliberately no update or delete methods.
type TransactionRepository interface {
	Create(ctx context.Context, transaction *InventoryTransaction) error
	CreateBatch(ctx context.Context, transactions []*InventoryTransaction) error

	// FindByBalance lists ledger rows for one (item, warehouse) pair,
	// newest first
	FindByBalance(ctx context.Context, tenantID, itemID, warehouseID uuid.UUID, filter shared.Filter) ([]InventoryTransaction, int64, error)

	// SumByBalance replays the ledger: on-hand is the sum of signed
	// on-hand-moving rows, allocated the sum of ALLOCATE and DEALLOCATE
	SumByBalance(ctx context.Context, tenantID, itemID, warehouseID uuid.UUID) (*LedgerTotals, error)
}

// LayerRepository persists FIFO cost layers
type LayerRepository interface {
	Create(ctx context.Context, layer *InventoryLayer) error

	// FindOpenForUpdate returns undepleted layers for one (item,
	// warehouse) pair in FIFO order, row-locked for the surrounding
	// transaction
	FindOpenForUpdate(ctx context.Context, tenantID, itemID, warehouseID uuid.UUID) ([]*InventoryLayer, error)

	// SaveAll persists mutated layers after a depletion is applied
	SaveAll(ctx context.Context, layers []*InventoryLayer) error

	// FindByItem lists layers, including depleted ones, for audit
	FindByItem(ctx context.Context, tenantID, itemID, warehouseID uuid.UUID, filter shared.Filter) ([]InventoryLayer, int64, error)
}

// LotRepository persists lots and their pallets
type LotRepository interface {
	// Create persists the lot together with its pallets
	Create(ctx context.Context, lot *InventoryLot) error

	// FindByID returns the lot with pallets preloaded or shared.ErrNotFound
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*InventoryLot, error)

	// FindByItem lists lots for an item, optionally narrowed to a warehouse
	FindByItem(ctx context.Context, tenantID, itemID uuid.UUID, warehouseID *uuid.UUID, filter shared.Filter) ([]InventoryLot, int64, error)

	// FindByLotNumber returns the lot with the given number or shared.ErrNotFound
	FindByLotNumber(ctx context.Context, tenantID uuid.UUID, lotNumber string) (*InventoryLot, error)
}
