package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wms/backend/internal/domain/accounting"
	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/shared"
)

// ===================== Mock repositories =====================

type MockBalanceRepository struct {
	mock.Mock
}

func (m *MockBalanceRepository) FindByItemAndWarehouse(ctx context.Context, tenantID, itemID, warehouseID uuid.UUID) (*inventory.InventoryBalance, error) {
	args := m.Called(ctx, tenantID, itemID, warehouseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.InventoryBalance), args.Error(1)
}

func (m *MockBalanceRepository) FindForUpdate(ctx context.Context, tenantID, itemID, warehouseID uuid.UUID) (*inventory.InventoryBalance, error) {
	args := m.Called(ctx, tenantID, itemID, warehouseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.InventoryBalance), args.Error(1)
}

func (m *MockBalanceRepository) GetOrCreateForUpdate(ctx context.Context, tenantID, itemID, warehouseID uuid.UUID) (*inventory.InventoryBalance, error) {
	args := m.Called(ctx, tenantID, itemID, warehouseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.InventoryBalance), args.Error(1)
}

func (m *MockBalanceRepository) Save(ctx context.Context, balance *inventory.InventoryBalance) error {
	args := m.Called(ctx, balance)
	return args.Error(0)
}

func (m *MockBalanceRepository) SaveWithLock(ctx context.Context, balance *inventory.InventoryBalance) error {
	args := m.Called(ctx, balance)
	return args.Error(0)
}

func (m *MockBalanceRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]inventory.InventoryBalance, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]inventory.InventoryBalance), args.Get(1).(int64), args.Error(2)
}

type MockTransactionRepository struct {
	mock.Mock
	created []*inventory.InventoryTransaction
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx *inventory.InventoryTransaction) error {
	args := m.Called(ctx, tx)
	if args.Error(0) == nil {
		m.created = append(m.created, tx)
	}
	return args.Error(0)
}

func (m *MockTransactionRepository) CreateBatch(ctx context.Context, txs []*inventory.InventoryTransaction) error {
	args := m.Called(ctx, txs)
	if args.Error(0) == nil {
		m.created = append(m.created, txs...)
	}
	return args.Error(0)
}

func (m *MockTransactionRepository) FindByBalance(ctx context.Context, tenantID, itemID, warehouseID uuid.UUID, filter shared.Filter) ([]inventory.InventoryTransaction, int64, error) {
	args := m.Called(ctx, tenantID, itemID, warehouseID, filter)
	return args.Get(0).([]inventory.InventoryTransaction), args.Get(1).(int64), args.Error(2)
}

func (m *MockTransactionRepository) SumByBalance(ctx context.Context, tenantID, itemID, warehouseID uuid.UUID) (*inventory.LedgerTotals, error) {
	args := m.Called(ctx, tenantID, itemID, warehouseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.LedgerTotals), args.Error(1)
}

type MockLayerRepository struct {
	mock.Mock
	created []*inventory.InventoryLayer
}

func (m *MockLayerRepository) Create(ctx context.Context, layer *inventory.InventoryLayer) error {
	args := m.Called(ctx, layer)
	if args.Error(0) == nil {
		m.created = append(m.created, layer)
	}
	return args.Error(0)
}

func (m *MockLayerRepository) FindOpenForUpdate(ctx context.Context, tenantID, itemID, warehouseID uuid.UUID) ([]*inventory.InventoryLayer, error) {
	args := m.Called(ctx, tenantID, itemID, warehouseID)
	return args.Get(0).([]*inventory.InventoryLayer), args.Error(1)
}

func (m *MockLayerRepository) SaveAll(ctx context.Context, layers []*inventory.InventoryLayer) error {
	args := m.Called(ctx, layers)
	return args.Error(0)
}

func (m *MockLayerRepository) FindByItem(ctx context.Context, tenantID, itemID, warehouseID uuid.UUID, filter shared.Filter) ([]inventory.InventoryLayer, int64, error) {
	args := m.Called(ctx, tenantID, itemID, warehouseID, filter)
	return args.Get(0).([]inventory.InventoryLayer), args.Get(1).(int64), args.Error(2)
}

type MockLotRepository struct {
	mock.Mock
	created []*inventory.InventoryLot
}

func (m *MockLotRepository) Create(ctx context.Context, lot *inventory.InventoryLot) error {
	args := m.Called(ctx, lot)
	if args.Error(0) == nil {
		m.created = append(m.created, lot)
	}
	return args.Error(0)
}

func (m *MockLotRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*inventory.InventoryLot, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.InventoryLot), args.Error(1)
}

func (m *MockLotRepository) FindByItem(ctx context.Context, tenantID, itemID uuid.UUID, warehouseID *uuid.UUID, filter shared.Filter) ([]inventory.InventoryLot, int64, error) {
	args := m.Called(ctx, tenantID, itemID, warehouseID, filter)
	return args.Get(0).([]inventory.InventoryLot), args.Get(1).(int64), args.Error(2)
}

func (m *MockLotRepository) FindByLotNumber(ctx context.Context, tenantID uuid.UUID, lotNumber string) (*inventory.InventoryLot, error) {
	args := m.Called(ctx, tenantID, lotNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.InventoryLot), args.Error(1)
}

type MockJournalRepository struct {
	mock.Mock
	created []*accounting.JournalEntry
}

func (m *MockJournalRepository) Create(ctx context.Context, entry *accounting.JournalEntry) error {
	args := m.Called(ctx, entry)
	if args.Error(0) == nil {
		m.created = append(m.created, entry)
	}
	return args.Error(0)
}

func (m *MockJournalRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*accounting.JournalEntry, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) FindByReference(ctx context.Context, tenantID uuid.UUID, refType string, refID uuid.UUID) ([]accounting.JournalEntry, error) {
	args := m.Called(ctx, tenantID, refType, refID)
	return args.Get(0).([]accounting.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]accounting.JournalEntry, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]accounting.JournalEntry), args.Get(1).(int64), args.Error(2)
}

type MockAccountDefaultsRepository struct {
	mock.Mock
}

func (m *MockAccountDefaultsRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID) (*accounting.AccountDefaults, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.AccountDefaults), args.Error(1)
}

func (m *MockAccountDefaultsRepository) Save(ctx context.Context, defaults *accounting.AccountDefaults) error {
	args := m.Called(ctx, defaults)
	return args.Error(0)
}

// ===================== Test fixture =====================

type serviceFixture struct {
	service      *InventoryService
	balances     *MockBalanceRepository
	transactions *MockTransactionRepository
	layers       *MockLayerRepository
	lots         *MockLotRepository
	journals     *MockJournalRepository
	accounts     *MockAccountDefaultsRepository

	tenantID    uuid.UUID
	itemID      uuid.UUID
	warehouseID uuid.UUID
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	f := &serviceFixture{
		balances:     new(MockBalanceRepository),
		transactions: new(MockTransactionRepository),
		layers:       new(MockLayerRepository),
		lots:         new(MockLotRepository),
		journals:     new(MockJournalRepository),
		accounts:     new(MockAccountDefaultsRepository),
		tenantID:     uuid.New(),
		itemID:       uuid.New(),
		warehouseID:  uuid.New(),
	}
	scope := &NoOpTransactionScope{Repos: &StaticRepositories{
		BalanceRepo:     f.balances,
		TransactionRepo: f.transactions,
		LayerRepo:       f.layers,
		LotRepo:         f.lots,
		JournalRepo:     f.journals,
	}}
	f.service = NewInventoryService(scope, f.accounts, shared.NoOpEventBus{}, nil)
	return f
}

func (f *serviceFixture) newBalance() *inventory.InventoryBalance {
	return inventory.NewInventoryBalance(f.tenantID, f.itemID, f.warehouseID)
}

func (f *serviceFixture) balanceWith(t *testing.T, onHand, allocated string) *inventory.InventoryBalance {
	t.Helper()
	balance := f.newBalance()
	if onHand != "0" {
		require.NoError(t, balance.Receive(dec(onHand)))
	}
	if allocated != "0" {
		require.NoError(t, balance.Allocate(dec(allocated)))
	}
	return balance
}

func (f *serviceFixture) expectLockedBalance(balance *inventory.InventoryBalance) {
	f.balances.On("GetOrCreateForUpdate", mock.Anything, f.tenantID, f.itemID, f.warehouseID).Return(balance, nil)
	f.balances.On("SaveWithLock", mock.Anything, balance).Return(nil)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// ===================== Tests =====================

func TestInventoryService_ReceiveInventory(t *testing.T) {
	t.Run("creates lot, ledger row and updates balance", func(t *testing.T) {
		f := newServiceFixture(t)
		balance := f.newBalance()
		f.expectLockedBalance(balance)
		f.lots.On("Create", mock.Anything, mock.AnythingOfType("*inventory.InventoryLot")).Return(nil)
		f.transactions.On("Create", mock.Anything, mock.AnythingOfType("*inventory.InventoryTransaction")).Return(nil)

		result, err := f.service.ReceiveInventory(context.Background(), ReceiveInventoryCommand{
			TenantID:        f.tenantID,
			ItemID:          f.itemID,
			WarehouseID:     f.warehouseID,
			Quantity:        dec("100"),
			UnitCost:        dec("5.00"),
			ReferenceType:   "PURCHASE_ORDER",
			ReferenceNumber: "PO-001",
		})

		require.NoError(t, err)
		assert.True(t, result.Balance.OnHand.Equal(dec("100")))
		require.Len(t, f.transactions.created, 1)
		row := f.transactions.created[0]
		assert.Equal(t, inventory.TransactionTypeReceipt, row.Type)
		assert.True(t, row.Quantity.Equal(dec("100")))
		assert.True(t, row.BalanceOnHand.Equal(dec("100")), "snapshot taken after the movement")
		require.NotNil(t, row.LotID)
		f.layers.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		f.journals.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("pallet mismatch rejected before any write", func(t *testing.T) {
		f := newServiceFixture(t)

		_, err := f.service.ReceiveInventory(context.Background(), ReceiveInventoryCommand{
			TenantID:         f.tenantID,
			ItemID:           f.itemID,
			WarehouseID:      f.warehouseID,
			Quantity:         dec("100"),
			UnitCost:         dec("5.00"),
			PalletQuantities: []decimal.Decimal{dec("60"), dec("60")},
		})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodePalletQuantityMismatch, domainErr.Code)
		f.balances.AssertNotCalled(t, "GetOrCreateForUpdate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		f.lots.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("generates lot number when absent", func(t *testing.T) {
		f := newServiceFixture(t)
		f.expectLockedBalance(f.newBalance())
		f.lots.On("Create", mock.Anything, mock.AnythingOfType("*inventory.InventoryLot")).Return(nil)
		f.transactions.On("Create", mock.Anything, mock.AnythingOfType("*inventory.InventoryTransaction")).Return(nil)

		result, err := f.service.ReceiveInventory(context.Background(), ReceiveInventoryCommand{
			TenantID:    f.tenantID,
			ItemID:      f.itemID,
			WarehouseID: f.warehouseID,
			Quantity:    dec("10"),
			UnitCost:    dec("1"),
		})

		require.NoError(t, err)
		assert.Contains(t, result.Lot.LotNumber, "LOT-")
	})
}

func TestInventoryService_ReceiveStock(t *testing.T) {
	t.Run("adds cost layer and balanced journal entry", func(t *testing.T) {
		f := newServiceFixture(t)
		defaults, err := accounting.NewAccountDefaults(f.tenantID, uuid.New(), uuid.New())
		require.NoError(t, err)
		f.accounts.On("FindByTenant", mock.Anything, f.tenantID).Return(defaults, nil)
		f.expectLockedBalance(f.newBalance())
		f.lots.On("Create", mock.Anything, mock.AnythingOfType("*inventory.InventoryLot")).Return(nil)
		f.transactions.On("Create", mock.Anything, mock.AnythingOfType("*inventory.InventoryTransaction")).Return(nil)
		f.layers.On("Create", mock.Anything, mock.AnythingOfType("*inventory.InventoryLayer")).Return(nil)
		f.journals.On("Create", mock.Anything, mock.AnythingOfType("*accounting.JournalEntry")).Return(nil)

		result, err := f.service.ReceiveStock(context.Background(), ReceiveStockCommand{
			ReceiveInventoryCommand: ReceiveInventoryCommand{
				TenantID:    f.tenantID,
				ItemID:      f.itemID,
				WarehouseID: f.warehouseID,
				Quantity:    dec("100"),
				UnitCost:    dec("5.50"),
			},
		})

		require.NoError(t, err)
		assert.True(t, result.Balance.OnHand.Equal(dec("100")))

		require.Len(t, f.layers.created, 1)
		layer := f.layers.created[0]
		assert.True(t, layer.QuantityRemaining.Equal(dec("100")))
		assert.True(t, layer.UnitCost.Equal(dec("5.50")))

		require.Len(t, f.journals.created, 1)
		entry := f.journals.created[0]
		require.NoError(t, entry.Validate())
		require.Len(t, entry.Lines, 2)
		assert.True(t, entry.Lines[0].Debit.Equal(dec("550")))
		assert.Equal(t, defaults.InventoryAccountID, entry.Lines[0].AccountID)
		assert.Equal(t, defaults.OffsetAccountID, entry.Lines[1].AccountID)
	})

	t.Run("fails without account defaults", func(t *testing.T) {
		f := newServiceFixture(t)
		f.accounts.On("FindByTenant", mock.Anything, f.tenantID).Return(nil, shared.ErrNotFound)

		_, err := f.service.ReceiveStock(context.Background(), ReceiveStockCommand{
			ReceiveInventoryCommand: ReceiveInventoryCommand{
				TenantID:    f.tenantID,
				ItemID:      f.itemID,
				WarehouseID: f.warehouseID,
				Quantity:    dec("100"),
				UnitCost:    dec("5.50"),
			},
		})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeMissingAccountConfig, domainErr.Code)
		f.balances.AssertNotCalled(t, "GetOrCreateForUpdate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestInventoryService_AllocateDeallocate(t *testing.T) {
	t.Run("allocate writes positive ledger row", func(t *testing.T) {
		f := newServiceFixture(t)
		balance := f.balanceWith(t, "100", "0")
		f.expectLockedBalance(balance)
		f.transactions.On("Create", mock.Anything, mock.AnythingOfType("*inventory.InventoryTransaction")).Return(nil)

		result, err := f.service.AllocateInventory(context.Background(), StockOperationCommand{
			TenantID: f.tenantID, ItemID: f.itemID, WarehouseID: f.warehouseID,
			Quantity: dec("40"),
		})

		require.NoError(t, err)
		assert.True(t, result.Available.Equal(dec("60")))
		require.Len(t, f.transactions.created, 1)
		assert.Equal(t, inventory.TransactionTypeAllocate, f.transactions.created[0].Type)
		assert.True(t, f.transactions.created[0].Quantity.Equal(dec("40")))
	})

	t.Run("allocate beyond on hand fails and writes nothing", func(t *testing.T) {
		f := newServiceFixture(t)
		balance := f.balanceWith(t, "50", "20")
		f.balances.On("GetOrCreateForUpdate", mock.Anything, f.tenantID, f.itemID, f.warehouseID).Return(balance, nil)

		_, err := f.service.AllocateInventory(context.Background(), StockOperationCommand{
			TenantID: f.tenantID, ItemID: f.itemID, WarehouseID: f.warehouseID,
			Quantity: dec("31"),
		})

		require.Error(t, err)
		f.transactions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		f.balances.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})

	t.Run("deallocate floors at zero and records applied delta", func(t *testing.T) {
		f := newServiceFixture(t)
		balance := f.balanceWith(t, "100", "10")
		f.expectLockedBalance(balance)
		f.transactions.On("Create", mock.Anything, mock.AnythingOfType("*inventory.InventoryTransaction")).Return(nil)

		result, err := f.service.DeallocateInventory(context.Background(), StockOperationCommand{
			TenantID: f.tenantID, ItemID: f.itemID, WarehouseID: f.warehouseID,
			Quantity: dec("25"),
		})

		require.NoError(t, err)
		assert.True(t, result.Allocated.IsZero())
		require.Len(t, f.transactions.created, 1)
		row := f.transactions.created[0]
		assert.Equal(t, inventory.TransactionTypeDeallocate, row.Type)
		assert.True(t, row.Quantity.Equal(dec("-10")), "ledger records the applied delta, got %s", row.Quantity)
	})

	t.Run("deallocate with nothing allocated records a zero delta", func(t *testing.T) {
		f := newServiceFixture(t)
		balance := f.balanceWith(t, "100", "0")
		f.expectLockedBalance(balance)
		f.transactions.On("Create", mock.Anything, mock.AnythingOfType("*inventory.InventoryTransaction")).Return(nil)

		result, err := f.service.DeallocateInventory(context.Background(), StockOperationCommand{
			TenantID: f.tenantID, ItemID: f.itemID, WarehouseID: f.warehouseID,
			Quantity: dec("5"),
		})

		require.NoError(t, err)
		assert.True(t, result.Allocated.IsZero())
		require.Len(t, f.transactions.created, 1)
		row := f.transactions.created[0]
		assert.Equal(t, inventory.TransactionTypeDeallocate, row.Type)
		assert.True(t, row.Quantity.IsZero(), "fully clamped release still leaves an audit row, got %s", row.Quantity)
	})
}

func TestInventoryService_IssueInventory(t *testing.T) {
	t.Run("issues allocated stock without touching the reservation", func(t *testing.T) {
		f := newServiceFixture(t)
		balance := f.balanceWith(t, "100", "80")
		f.expectLockedBalance(balance)
		f.transactions.On("Create", mock.Anything, mock.AnythingOfType("*inventory.InventoryTransaction")).Return(nil)

		result, err := f.service.IssueInventory(context.Background(), StockOperationCommand{
			TenantID: f.tenantID, ItemID: f.itemID, WarehouseID: f.warehouseID,
			Quantity: dec("50"),
		})

		require.NoError(t, err)
		assert.True(t, result.OnHand.Equal(dec("50")))
		assert.True(t, result.Allocated.Equal(dec("80")), "issue must not release allocations")
		require.Len(t, f.transactions.created, 1)
		assert.True(t, f.transactions.created[0].Quantity.Equal(dec("-50")))
	})

	t.Run("issue beyond on hand fails", func(t *testing.T) {
		f := newServiceFixture(t)
		balance := f.balanceWith(t, "10", "0")
		f.balances.On("GetOrCreateForUpdate", mock.Anything, f.tenantID, f.itemID, f.warehouseID).Return(balance, nil)

		_, err := f.service.IssueInventory(context.Background(), StockOperationCommand{
			TenantID: f.tenantID, ItemID: f.itemID, WarehouseID: f.warehouseID,
			Quantity: dec("11"),
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	})
}

func TestInventoryService_AdjustInventory(t *testing.T) {
	t.Run("records signed delta and reason", func(t *testing.T) {
		f := newServiceFixture(t)
		balance := f.balanceWith(t, "100", "0")
		f.expectLockedBalance(balance)
		f.transactions.On("Create", mock.Anything, mock.AnythingOfType("*inventory.InventoryTransaction")).Return(nil)

		result, err := f.service.AdjustInventory(context.Background(), AdjustInventoryCommand{
			TenantID: f.tenantID, ItemID: f.itemID, WarehouseID: f.warehouseID,
			QuantityChange: dec("-3"),
			Reason:         "cycle count variance",
		})

		require.NoError(t, err)
		assert.True(t, result.OnHand.Equal(dec("97")))
		require.Len(t, f.transactions.created, 1)
		row := f.transactions.created[0]
		assert.Equal(t, inventory.TransactionTypeAdjust, row.Type)
		assert.True(t, row.Quantity.Equal(dec("-3")))
		assert.Equal(t, "cycle count variance", row.Notes)
	})
}

func TestInventoryService_ShipStock(t *testing.T) {
	setupLayers := func(t *testing.T, f *serviceFixture) []*inventory.InventoryLayer {
		t.Helper()
		day1 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
		day2 := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
		l1, err := inventory.NewInventoryLayer(f.tenantID, f.itemID, f.warehouseID, dec("100"), dec("5.00"), day1)
		require.NoError(t, err)
		l2, err := inventory.NewInventoryLayer(f.tenantID, f.itemID, f.warehouseID, dec("200"), dec("5.50"), day2)
		require.NoError(t, err)
		return []*inventory.InventoryLayer{l1, l2}
	}

	t.Run("FIFO cost spans layers", func(t *testing.T) {
		f := newServiceFixture(t)
		balance := f.balanceWith(t, "300", "0")
		layers := setupLayers(t, f)
		f.expectLockedBalance(balance)
		f.layers.On("FindOpenForUpdate", mock.Anything, f.tenantID, f.itemID, f.warehouseID).Return(layers, nil)
		f.layers.On("SaveAll", mock.Anything, layers).Return(nil)
		f.transactions.On("Create", mock.Anything, mock.AnythingOfType("*inventory.InventoryTransaction")).Return(nil)

		result, err := f.service.ShipStock(context.Background(), ShipStockCommand{
			TenantID: f.tenantID, ItemID: f.itemID, WarehouseID: f.warehouseID,
			Quantity: dec("150"),
		})

		require.NoError(t, err)
		assert.True(t, result.TotalCOGS.Equal(dec("775")), "100*5.00 + 50*5.50, got %s", result.TotalCOGS)
		require.Len(t, result.ConsumedLayers, 2)
		assert.True(t, result.Balance.OnHand.Equal(dec("150")))
		assert.True(t, layers[0].QuantityRemaining.IsZero())
		assert.True(t, layers[1].QuantityRemaining.Equal(dec("150")))
		require.Len(t, f.transactions.created, 1)
		assert.Equal(t, inventory.TransactionTypeIssue, f.transactions.created[0].Type)
		assert.True(t, f.transactions.created[0].Quantity.Equal(dec("-150")))
	})

	t.Run("insufficient layers rolls back whole shipment", func(t *testing.T) {
		f := newServiceFixture(t)
		// Balance says 150 but layers only cover 100; the ship must fail
		// as a unit even though the balance check passed.
		balance := f.balanceWith(t, "150", "0")
		day1 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
		layer, err := inventory.NewInventoryLayer(f.tenantID, f.itemID, f.warehouseID, dec("100"), dec("5.00"), day1)
		require.NoError(t, err)
		f.balances.On("GetOrCreateForUpdate", mock.Anything, f.tenantID, f.itemID, f.warehouseID).Return(balance, nil)
		f.layers.On("FindOpenForUpdate", mock.Anything, f.tenantID, f.itemID, f.warehouseID).Return([]*inventory.InventoryLayer{layer}, nil)

		_, err = f.service.ShipStock(context.Background(), ShipStockCommand{
			TenantID: f.tenantID, ItemID: f.itemID, WarehouseID: f.warehouseID,
			Quantity: dec("150"),
		})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeInsufficientLayers, domainErr.Code)
		assert.True(t, layer.QuantityRemaining.Equal(dec("100")))
		f.layers.AssertNotCalled(t, "SaveAll", mock.Anything, mock.Anything)
		f.transactions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("insufficient balance fails before touching layers", func(t *testing.T) {
		f := newServiceFixture(t)
		balance := f.balanceWith(t, "10", "0")
		f.balances.On("GetOrCreateForUpdate", mock.Anything, f.tenantID, f.itemID, f.warehouseID).Return(balance, nil)

		_, err := f.service.ShipStock(context.Background(), ShipStockCommand{
			TenantID: f.tenantID, ItemID: f.itemID, WarehouseID: f.warehouseID,
			Quantity: dec("11"),
		})

		require.Error(t, err)
		f.layers.AssertNotCalled(t, "FindOpenForUpdate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestInventoryService_OnOrder(t *testing.T) {
	t.Run("on-order moves write no ledger rows", func(t *testing.T) {
		f := newServiceFixture(t)
		balance := f.newBalance()
		f.expectLockedBalance(balance)

		result, err := f.service.AddOnOrder(context.Background(), StockOperationCommand{
			TenantID: f.tenantID, ItemID: f.itemID, WarehouseID: f.warehouseID,
			Quantity: dec("50"),
		})
		require.NoError(t, err)
		assert.True(t, result.OnOrder.Equal(dec("50")))

		result, err = f.service.RemoveOnOrder(context.Background(), StockOperationCommand{
			TenantID: f.tenantID, ItemID: f.itemID, WarehouseID: f.warehouseID,
			Quantity: dec("80"),
		})
		require.NoError(t, err)
		assert.True(t, result.OnOrder.IsZero(), "remove floors at zero")

		f.transactions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestInventoryService_TransferInventory(t *testing.T) {
	t.Run("moves stock atomically with paired ledger rows", func(t *testing.T) {
		f := newServiceFixture(t)
		toWarehouseID := uuid.New()
		from := f.balanceWith(t, "100", "0")
		to := inventory.NewInventoryBalance(f.tenantID, f.itemID, toWarehouseID)
		f.balances.On("GetOrCreateForUpdate", mock.Anything, f.tenantID, f.itemID, f.warehouseID).Return(from, nil)
		f.balances.On("GetOrCreateForUpdate", mock.Anything, f.tenantID, f.itemID, toWarehouseID).Return(to, nil)
		f.balances.On("SaveWithLock", mock.Anything, from).Return(nil)
		f.balances.On("SaveWithLock", mock.Anything, to).Return(nil)
		f.transactions.On("CreateBatch", mock.Anything, mock.AnythingOfType("[]*inventory.InventoryTransaction")).Return(nil)

		result, err := f.service.TransferInventory(context.Background(), TransferInventoryCommand{
			TenantID: f.tenantID, ItemID: f.itemID,
			FromWarehouseID: f.warehouseID, ToWarehouseID: toWarehouseID,
			Quantity: dec("30"),
		})

		require.NoError(t, err)
		assert.True(t, result.From.OnHand.Equal(dec("70")))
		assert.True(t, result.To.OnHand.Equal(dec("30")))
		require.Len(t, f.transactions.created, 2)
		assert.Equal(t, inventory.TransactionTypeTransferOut, f.transactions.created[0].Type)
		assert.True(t, f.transactions.created[0].Quantity.Equal(dec("-30")))
		assert.Equal(t, inventory.TransactionTypeTransferIn, f.transactions.created[1].Type)
		assert.True(t, f.transactions.created[1].Quantity.Equal(dec("30")))
	})

	t.Run("rejects same-warehouse transfer", func(t *testing.T) {
		f := newServiceFixture(t)

		_, err := f.service.TransferInventory(context.Background(), TransferInventoryCommand{
			TenantID: f.tenantID, ItemID: f.itemID,
			FromWarehouseID: f.warehouseID, ToWarehouseID: f.warehouseID,
			Quantity: dec("30"),
		})

		require.Error(t, err)
	})

	t.Run("insufficient source stock rolls back", func(t *testing.T) {
		f := newServiceFixture(t)
		toWarehouseID := uuid.New()
		from := f.balanceWith(t, "10", "0")
		to := inventory.NewInventoryBalance(f.tenantID, f.itemID, toWarehouseID)
		f.balances.On("GetOrCreateForUpdate", mock.Anything, f.tenantID, f.itemID, f.warehouseID).Return(from, nil)
		f.balances.On("GetOrCreateForUpdate", mock.Anything, f.tenantID, f.itemID, toWarehouseID).Return(to, nil)

		_, err := f.service.TransferInventory(context.Background(), TransferInventoryCommand{
			TenantID: f.tenantID, ItemID: f.itemID,
			FromWarehouseID: f.warehouseID, ToWarehouseID: toWarehouseID,
			Quantity: dec("30"),
		})

		require.Error(t, err)
		f.transactions.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
	})
}

func TestInventoryService_RecalculateBalance(t *testing.T) {
	t.Run("overwrites balance with replayed sums", func(t *testing.T) {
		f := newServiceFixture(t)
		balance := f.balanceWith(t, "999", "1")
		require.NoError(t, balance.AddOnOrder(dec("40")))
		f.expectLockedBalance(balance)
		f.transactions.On("SumByBalance", mock.Anything, f.tenantID, f.itemID, f.warehouseID).
			Return(&inventory.LedgerTotals{OnHand: dec("120"), Allocated: dec("20")}, nil)

		result, err := f.service.RecalculateBalance(context.Background(), f.tenantID, f.itemID, f.warehouseID)

		require.NoError(t, err)
		assert.True(t, result.OnHand.Equal(dec("120")))
		assert.True(t, result.Allocated.Equal(dec("20")))
		assert.True(t, result.OnOrder.Equal(dec("40")), "on-order has no ledger trail and is untouched")
	})
}

func TestInventoryService_Queries(t *testing.T) {
	t.Run("GetAvailable returns zero when no balance exists", func(t *testing.T) {
		f := newServiceFixture(t)
		f.balances.On("FindByItemAndWarehouse", mock.Anything, f.tenantID, f.itemID, f.warehouseID).
			Return(nil, shared.ErrNotFound)

		available, err := f.service.GetAvailable(context.Background(), f.tenantID, f.itemID, f.warehouseID)

		require.NoError(t, err)
		assert.True(t, available.IsZero())
	})

	t.Run("GetBalance propagates not found", func(t *testing.T) {
		f := newServiceFixture(t)
		f.balances.On("FindByItemAndWarehouse", mock.Anything, f.tenantID, f.itemID, f.warehouseID).
			Return(nil, shared.ErrNotFound)

		_, err := f.service.GetBalance(context.Background(), f.tenantID, f.itemID, f.warehouseID)

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("rejects nil identifiers", func(t *testing.T) {
		f := newServiceFixture(t)

		_, err := f.service.GetBalance(context.Background(), uuid.Nil, f.itemID, f.warehouseID)

		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}
