package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/wms/backend/internal/domain/accounting"
	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/shared"
)

// InventoryService orchestrates all stock movements. Every mutation runs
// inside one TransactionScope execution with the affected balance row
// locked first, so the balance, the ledger, the cost layers and the
// journal can never drift apart.
type InventoryService struct {
	scope       TransactionScope
	accountRepo accounting.AccountDefaultsRepository
	eventBus    shared.EventBus
	logger      *zap.Logger
}

// NewInventoryService creates an inventory service
func NewInventoryService(
	scope TransactionScope,
	accountRepo accounting.AccountDefaultsRepository,
	eventBus shared.EventBus,
	logger *zap.Logger,
) *InventoryService {
	if eventBus == nil {
		eventBus = shared.NoOpEventBus{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryService{
		scope:       scope,
		accountRepo: accountRepo,
		eventBus:    eventBus,
		logger:      logger,
	}
}

func validateKey(tenantID, itemID, warehouseID uuid.UUID) error {
	if tenantID == uuid.Nil || itemID == uuid.Nil || warehouseID == uuid.Nil {
		return shared.ErrInvalidInput
	}
	return nil
}

// ReceiveInventory books physical stock in: it creates the lot (and
// pallets), increases on-hand and appends a RECEIPT ledger row. No cost
// layer and no journal entry are written; use ReceiveStock for costed
// receipts.
func (s *InventoryService) ReceiveInventory(ctx context.Context, cmd ReceiveInventoryCommand) (*ReceiveResult, error) {
	return s.receive(ctx, cmd, false)
}

// ReceiveStock books costed stock in: everything ReceiveInventory does,
// plus one FIFO cost layer and a balanced journal entry debiting the
// inventory asset account and crediting the offset account for
// quantity times unit cost. Fails with MISSING_ACCOUNT_CONFIG when the
// tenant has no account defaults.
func (s *InventoryService) ReceiveStock(ctx context.Context, cmd ReceiveStockCommand) (*ReceiveResult, error) {
	return s.receive(ctx, cmd.ReceiveInventoryCommand, true)
}

func (s *InventoryService) receive(ctx context.Context, cmd ReceiveInventoryCommand, costed bool) (*ReceiveResult, error) {
	if err := validateKey(cmd.TenantID, cmd.ItemID, cmd.WarehouseID); err != nil {
		return nil, err
	}

	receivedAt := time.Now()
	if cmd.ReceivedAt != nil {
		receivedAt = *cmd.ReceivedAt
	}

	// Lot construction validates quantity, cost and pallet sums before
	// anything touches the database.
	lot, err := inventory.NewInventoryLot(
		cmd.TenantID, cmd.ItemID, cmd.WarehouseID,
		cmd.LotNumber, cmd.Quantity, cmd.UnitCost,
		receivedAt, cmd.PalletQuantities,
	)
	if err != nil {
		return nil, err
	}
	if cmd.VendorID != nil {
		lot.SetVendor(*cmd.VendorID)
	}

	var defaults *accounting.AccountDefaults
	if costed {
		defaults, err = s.accountRepo.FindByTenant(ctx, cmd.TenantID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError(shared.CodeMissingAccountConfig,
					"Tenant has no default accounts configured for inventory postings")
			}
			return nil, err
		}
	}

	var result *ReceiveResult
	var events []shared.DomainEvent
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		balance, err := repos.Balances().GetOrCreateForUpdate(ctx, cmd.TenantID, cmd.ItemID, cmd.WarehouseID)
		if err != nil {
			return err
		}
		if err := balance.Receive(cmd.Quantity); err != nil {
			return err
		}
		if err := repos.Lots().Create(ctx, lot); err != nil {
			return err
		}

		ledgerRow := inventory.NewInventoryTransaction(balance, inventory.TransactionTypeReceipt, cmd.Quantity).
			WithLot(lot.ID).
			WithTransactionDate(receivedAt)
		if cmd.ReferenceType != "" || cmd.ReferenceNumber != "" {
			ledgerRow.WithReferenceNumber(cmd.ReferenceType, cmd.ReferenceNumber)
		}
		if cmd.OperatorID != nil {
			ledgerRow.WithOperator(*cmd.OperatorID)
		}
		if err := repos.Transactions().Create(ctx, ledgerRow); err != nil {
			return err
		}

		if costed {
			layer, err := inventory.NewInventoryLayer(
				cmd.TenantID, cmd.ItemID, cmd.WarehouseID,
				cmd.Quantity, cmd.UnitCost, receivedAt,
			)
			if err != nil {
				return err
			}
			layer.LotID = &lot.ID
			layer.ReferenceType = cmd.ReferenceType
			layer.ReferenceNumber = cmd.ReferenceNumber
			if err := repos.Layers().Create(ctx, layer); err != nil {
				return err
			}

			amount := cmd.Quantity.Mul(cmd.UnitCost)
			if amount.GreaterThan(decimal.Zero) {
				entry := accounting.NewJournalEntry(cmd.TenantID, receivedAt, "Inventory receipt "+lot.LotNumber).
					WithReference("INVENTORY_LOT", lot.ID, lot.LotNumber)
				if err := entry.AddDebit(defaults.InventoryAccountID, amount); err != nil {
					return err
				}
				if err := entry.AddCredit(defaults.OffsetAccountID, amount); err != nil {
					return err
				}
				if err := entry.Validate(); err != nil {
					return err
				}
				if err := repos.Journals().Create(ctx, entry); err != nil {
					return err
				}
			}
		}

		if err := repos.Balances().SaveWithLock(ctx, balance); err != nil {
			return err
		}
		events = append(events, inventory.NewStockReceivedEvent(balance, cmd.Quantity, cmd.UnitCost, lot.LotNumber))
		result = &ReceiveResult{Balance: NewBalanceDTO(balance), Lot: NewLotDTO(lot)}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.eventBus.Publish(ctx, events...)
	s.logger.Info("stock received",
		zap.String("tenant_id", cmd.TenantID.String()),
		zap.String("item_id", cmd.ItemID.String()),
		zap.String("warehouse_id", cmd.WarehouseID.String()),
		zap.String("quantity", cmd.Quantity.String()),
		zap.Bool("costed", costed),
	)
	return result, nil
}

// AllocateInventory reserves on-hand stock for an order. The reservation
// is rejected when it would exceed what is on hand.
func (s *InventoryService) AllocateInventory(ctx context.Context, cmd StockOperationCommand) (*BalanceDTO, error) {
	if err := validateKey(cmd.TenantID, cmd.ItemID, cmd.WarehouseID); err != nil {
		return nil, err
	}

	var result *BalanceDTO
	var events []shared.DomainEvent
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		balance, err := repos.Balances().GetOrCreateForUpdate(ctx, cmd.TenantID, cmd.ItemID, cmd.WarehouseID)
		if err != nil {
			return err
		}
		if err := balance.Allocate(cmd.Quantity); err != nil {
			return err
		}

		ledgerRow := inventory.NewInventoryTransaction(balance, inventory.TransactionTypeAllocate, cmd.Quantity).
			WithReferenceNumber(cmd.ReferenceType, cmd.ReferenceNumber)
		if cmd.OperatorID != nil {
			ledgerRow.WithOperator(*cmd.OperatorID)
		}
		if err := repos.Transactions().Create(ctx, ledgerRow); err != nil {
			return err
		}
		if err := repos.Balances().SaveWithLock(ctx, balance); err != nil {
			return err
		}
		events = append(events, inventory.NewStockAllocatedEvent(balance, cmd.Quantity))
		result = NewBalanceDTO(balance)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.eventBus.Publish(ctx, events...)
	return result, nil
}

// DeallocateInventory releases a reservation. Requests beyond the current
// reservation floor at zero; the ledger records the delta actually
// applied, not the requested quantity.
func (s *InventoryService) DeallocateInventory(ctx context.Context, cmd StockOperationCommand) (*BalanceDTO, error) {
	if err := validateKey(cmd.TenantID, cmd.ItemID, cmd.WarehouseID); err != nil {
		return nil, err
	}

	var result *BalanceDTO
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		balance, err := repos.Balances().GetOrCreateForUpdate(ctx, cmd.TenantID, cmd.ItemID, cmd.WarehouseID)
		if err != nil {
			return err
		}
		applied, err := balance.Deallocate(cmd.Quantity)
		if err != nil {
			return err
		}

		// The row is written even when the floor clamps the whole request
		// to zero, so every release attempt stays on the audit trail.
		ledgerRow := inventory.NewInventoryTransaction(balance, inventory.TransactionTypeDeallocate, applied.Neg()).
			WithReferenceNumber(cmd.ReferenceType, cmd.ReferenceNumber)
		if cmd.OperatorID != nil {
			ledgerRow.WithOperator(*cmd.OperatorID)
		}
		if err := repos.Transactions().Create(ctx, ledgerRow); err != nil {
			return err
		}
		if err := repos.Balances().SaveWithLock(ctx, balance); err != nil {
			return err
		}
		result = NewBalanceDTO(balance)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// IssueInventory removes on-hand stock without costing. It validates
// against on hand only; allocated stock can be issued and the
// reservation stays until explicitly released.
func (s *InventoryService) IssueInventory(ctx context.Context, cmd StockOperationCommand) (*BalanceDTO, error) {
	if err := validateKey(cmd.TenantID, cmd.ItemID, cmd.WarehouseID); err != nil {
		return nil, err
	}

	var result *BalanceDTO
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		balance, err := repos.Balances().GetOrCreateForUpdate(ctx, cmd.TenantID, cmd.ItemID, cmd.WarehouseID)
		if err != nil {
			return err
		}
		if err := balance.Issue(cmd.Quantity); err != nil {
			return err
		}

		ledgerRow := inventory.NewInventoryTransaction(balance, inventory.TransactionTypeIssue, cmd.Quantity.Neg()).
			WithReferenceNumber(cmd.ReferenceType, cmd.ReferenceNumber)
		if cmd.OperatorID != nil {
			ledgerRow.WithOperator(*cmd.OperatorID)
		}
		if err := repos.Transactions().Create(ctx, ledgerRow); err != nil {
			return err
		}
		if err := repos.Balances().SaveWithLock(ctx, balance); err != nil {
			return err
		}
		result = NewBalanceDTO(balance)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// AdjustInventory applies a signed on-hand correction with a reason,
// e.g. from a physical count
func (s *InventoryService) AdjustInventory(ctx context.Context, cmd AdjustInventoryCommand) (*BalanceDTO, error) {
	if err := validateKey(cmd.TenantID, cmd.ItemID, cmd.WarehouseID); err != nil {
		return nil, err
	}

	var result *BalanceDTO
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		balance, err := repos.Balances().GetOrCreateForUpdate(ctx, cmd.TenantID, cmd.ItemID, cmd.WarehouseID)
		if err != nil {
			return err
		}
		if err := balance.Adjust(cmd.QuantityChange); err != nil {
			return err
		}

		ledgerRow := inventory.NewInventoryTransaction(balance, inventory.TransactionTypeAdjust, cmd.QuantityChange).
			WithNotes(cmd.Reason)
		if cmd.OperatorID != nil {
			ledgerRow.WithOperator(*cmd.OperatorID)
		}
		if err := repos.Transactions().Create(ctx, ledgerRow); err != nil {
			return err
		}
		if err := repos.Balances().SaveWithLock(ctx, balance); err != nil {
			return err
		}
		result = NewBalanceDTO(balance)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("stock adjusted",
		zap.String("tenant_id", cmd.TenantID.String()),
		zap.String("item_id", cmd.ItemID.String()),
		zap.String("quantity_change", cmd.QuantityChange.String()),
		zap.String("reason", cmd.Reason),
	)
	return result, nil
}

// ShipStock removes stock with FIFO costing. The oldest open cost layers
// are consumed first and the total cost of goods sold is returned. The
// depletion is all-or-nothing: when the layers cannot cover the quantity
// nothing is shipped and nothing is mutated.
func (s *InventoryService) ShipStock(ctx context.Context, cmd ShipStockCommand) (*ShipStockResult, error) {
	if err := validateKey(cmd.TenantID, cmd.ItemID, cmd.WarehouseID); err != nil {
		return nil, err
	}

	var result *ShipStockResult
	var events []shared.DomainEvent
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		balance, err := repos.Balances().GetOrCreateForUpdate(ctx, cmd.TenantID, cmd.ItemID, cmd.WarehouseID)
		if err != nil {
			return err
		}
		if err := balance.Issue(cmd.Quantity); err != nil {
			return err
		}

		layers, err := repos.Layers().FindOpenForUpdate(ctx, cmd.TenantID, cmd.ItemID, cmd.WarehouseID)
		if err != nil {
			return err
		}
		plan, err := inventory.PlanDepletion(layers, cmd.Quantity)
		if err != nil {
			return err
		}
		if err := inventory.ApplyDepletion(layers, plan); err != nil {
			return err
		}
		if err := repos.Layers().SaveAll(ctx, layers); err != nil {
			return err
		}

		ledgerRow := inventory.NewInventoryTransaction(balance, inventory.TransactionTypeIssue, cmd.Quantity.Neg()).
			WithReferenceNumber(cmd.ReferenceType, cmd.ReferenceNumber)
		if cmd.OperatorID != nil {
			ledgerRow.WithOperator(*cmd.OperatorID)
		}
		if err := repos.Transactions().Create(ctx, ledgerRow); err != nil {
			return err
		}
		if err := repos.Balances().SaveWithLock(ctx, balance); err != nil {
			return err
		}
		events = append(events, inventory.NewStockShippedEvent(balance, cmd.Quantity, plan))
		result = &ShipStockResult{
			Balance:        NewBalanceDTO(balance),
			TotalCOGS:      plan.TotalCost,
			ConsumedLayers: plan.Consumptions,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.eventBus.Publish(ctx, events...)
	s.logger.Info("stock shipped",
		zap.String("tenant_id", cmd.TenantID.String()),
		zap.String("item_id", cmd.ItemID.String()),
		zap.String("quantity", cmd.Quantity.String()),
		zap.String("total_cogs", result.TotalCOGS.String()),
	)
	return result, nil
}

// AddOnOrder raises the expected inbound quantity. On-order movements
// carry no ledger rows; the quantity is a forecast, not an audited fact.
func (s *InventoryService) AddOnOrder(ctx context.Context, cmd StockOperationCommand) (*BalanceDTO, error) {
	return s.mutateOnOrder(ctx, cmd, func(b *inventory.InventoryBalance) error {
		return b.AddOnOrder(cmd.Quantity)
	})
}

// RemoveOnOrder lowers the expected inbound quantity, flooring at zero
func (s *InventoryService) RemoveOnOrder(ctx context.Context, cmd StockOperationCommand) (*BalanceDTO, error) {
	return s.mutateOnOrder(ctx, cmd, func(b *inventory.InventoryBalance) error {
		return b.RemoveOnOrder(cmd.Quantity)
	})
}

func (s *InventoryService) mutateOnOrder(ctx context.Context, cmd StockOperationCommand, mutate func(*inventory.InventoryBalance) error) (*BalanceDTO, error) {
	if err := validateKey(cmd.TenantID, cmd.ItemID, cmd.WarehouseID); err != nil {
		return nil, err
	}

	var result *BalanceDTO
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		balance, err := repos.Balances().GetOrCreateForUpdate(ctx, cmd.TenantID, cmd.ItemID, cmd.WarehouseID)
		if err != nil {
			return err
		}
		if err := mutate(balance); err != nil {
			return err
		}
		if err := repos.Balances().SaveWithLock(ctx, balance); err != nil {
			return err
		}
		result = NewBalanceDTO(balance)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// TransferInventory moves stock between two warehouses of the same
// tenant atomically: one TRANSFER_OUT and one TRANSFER_IN row, both
// balances updated in one transaction. Balances are locked in a fixed
// order so two opposing transfers cannot deadlock.
func (s *InventoryService) TransferInventory(ctx context.Context, cmd TransferInventoryCommand) (*TransferResult, error) {
	if err := validateKey(cmd.TenantID, cmd.ItemID, cmd.FromWarehouseID); err != nil {
		return nil, err
	}
	if cmd.ToWarehouseID == uuid.Nil {
		return nil, shared.ErrInvalidInput
	}
	if cmd.FromWarehouseID == cmd.ToWarehouseID {
		return nil, shared.NewDomainError("INVALID_TRANSFER", "Source and destination warehouses are the same")
	}

	var result *TransferResult
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		first, second := cmd.FromWarehouseID, cmd.ToWarehouseID
		if second.String() < first.String() {
			first, second = second, first
		}
		locked := make(map[uuid.UUID]*inventory.InventoryBalance, 2)
		for _, warehouseID := range []uuid.UUID{first, second} {
			balance, err := repos.Balances().GetOrCreateForUpdate(ctx, cmd.TenantID, cmd.ItemID, warehouseID)
			if err != nil {
				return err
			}
			locked[warehouseID] = balance
		}
		from := locked[cmd.FromWarehouseID]
		to := locked[cmd.ToWarehouseID]

		if err := from.Issue(cmd.Quantity); err != nil {
			return err
		}
		if err := to.Receive(cmd.Quantity); err != nil {
			return err
		}

		outRow := inventory.NewInventoryTransaction(from, inventory.TransactionTypeTransferOut, cmd.Quantity.Neg()).
			WithReferenceNumber(cmd.ReferenceType, cmd.ReferenceNumber)
		inRow := inventory.NewInventoryTransaction(to, inventory.TransactionTypeTransferIn, cmd.Quantity).
			WithReferenceNumber(cmd.ReferenceType, cmd.ReferenceNumber)
		if cmd.OperatorID != nil {
			outRow.WithOperator(*cmd.OperatorID)
			inRow.WithOperator(*cmd.OperatorID)
		}
		if err := repos.Transactions().CreateBatch(ctx, []*inventory.InventoryTransaction{outRow, inRow}); err != nil {
			return err
		}
		if err := repos.Balances().SaveWithLock(ctx, from); err != nil {
			return err
		}
		if err := repos.Balances().SaveWithLock(ctx, to); err != nil {
			return err
		}
		result = &TransferResult{From: NewBalanceDTO(from), To: NewBalanceDTO(to)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RecalculateBalance replays the ledger and overwrites the tracked
// quantities with the replayed sums. It runs under the same balance lock
// as the mutations it audits, so no movement can interleave. On-order is
// left alone; it has no ledger trail.
func (s *InventoryService) RecalculateBalance(ctx context.Context, tenantID, itemID, warehouseID uuid.UUID) (*BalanceDTO, error) {
	if err := validateKey(tenantID, itemID, warehouseID); err != nil {
		return nil, err
	}

	var result *BalanceDTO
	var events []shared.DomainEvent
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		balance, err := repos.Balances().GetOrCreateForUpdate(ctx, tenantID, itemID, warehouseID)
		if err != nil {
			return err
		}
		totals, err := repos.Transactions().SumByBalance(ctx, tenantID, itemID, warehouseID)
		if err != nil {
			return err
		}
		balance.SetFromReplay(totals.OnHand, totals.Allocated)
		if err := repos.Balances().SaveWithLock(ctx, balance); err != nil {
			return err
		}
		events = append(events, inventory.NewBalanceRecalculatedEvent(balance))
		result = NewBalanceDTO(balance)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.eventBus.Publish(ctx, events...)
	return result, nil
}

// GetBalance returns the balance read model or shared.ErrNotFound
func (s *InventoryService) GetBalance(ctx context.Context, tenantID, itemID, warehouseID uuid.UUID) (*BalanceDTO, error) {
	if err := validateKey(tenantID, itemID, warehouseID); err != nil {
		return nil, err
	}

	var result *BalanceDTO
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		balance, err := repos.Balances().FindByItemAndWarehouse(ctx, tenantID, itemID, warehouseID)
		if err != nil {
			return err
		}
		result = NewBalanceDTO(balance)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetAvailable returns on hand minus allocated, zero when no balance
// row exists yet
func (s *InventoryService) GetAvailable(ctx context.Context, tenantID, itemID, warehouseID uuid.UUID) (decimal.Decimal, error) {
	if err := validateKey(tenantID, itemID, warehouseID); err != nil {
		return decimal.Zero, err
	}

	available := decimal.Zero
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		balance, err := repos.Balances().FindByItemAndWarehouse(ctx, tenantID, itemID, warehouseID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil
			}
			return err
		}
		available = balance.Available()
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	return available, nil
}

// ListBalances lists balances for a tenant with pagination
func (s *InventoryService) ListBalances(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[*BalanceDTO], error) {
	var result *shared.Paginated[*BalanceDTO]
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		balances, total, err := repos.Balances().FindAll(ctx, tenantID, filter)
		if err != nil {
			return err
		}
		items := make([]*BalanceDTO, 0, len(balances))
		for i := range balances {
			items = append(items, NewBalanceDTO(&balances[i]))
		}
		paginated := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
		result = &paginated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListTransactions lists ledger rows for one balance, newest first
func (s *InventoryService) ListTransactions(ctx context.Context, tenantID, itemID, warehouseID uuid.UUID, filter shared.Filter) (*shared.Paginated[TransactionDTO], error) {
	if err := validateKey(tenantID, itemID, warehouseID); err != nil {
		return nil, err
	}

	var result *shared.Paginated[TransactionDTO]
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		rows, total, err := repos.Transactions().FindByBalance(ctx, tenantID, itemID, warehouseID, filter)
		if err != nil {
			return err
		}
		items := make([]TransactionDTO, 0, len(rows))
		for i := range rows {
			items = append(items, NewTransactionDTO(&rows[i]))
		}
		paginated := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
		result = &paginated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetLotsForItem lists lots for an item, optionally narrowed to a warehouse
func (s *InventoryService) GetLotsForItem(ctx context.Context, tenantID, itemID uuid.UUID, warehouseID *uuid.UUID, filter shared.Filter) (*shared.Paginated[LotDTO], error) {
	if tenantID == uuid.Nil || itemID == uuid.Nil {
		return nil, shared.ErrInvalidInput
	}

	var result *shared.Paginated[LotDTO]
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		lots, total, err := repos.Lots().FindByItem(ctx, tenantID, itemID, warehouseID, filter)
		if err != nil {
			return err
		}
		items := make([]LotDTO, 0, len(lots))
		for i := range lots {
			items = append(items, NewLotDTO(&lots[i]))
		}
		paginated := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
		result = &paginated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListLayers lists cost layers for one balance, including depleted ones
func (s *InventoryService) ListLayers(ctx context.Context, tenantID, itemID, warehouseID uuid.UUID, filter shared.Filter) (*shared.Paginated[LayerDTO], error) {
	if err := validateKey(tenantID, itemID, warehouseID); err != nil {
		return nil, err
	}

	var result *shared.Paginated[LayerDTO]
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		layers, total, err := repos.Layers().FindByItem(ctx, tenantID, itemID, warehouseID, filter)
		if err != nil {
			return err
		}
		items := make([]LayerDTO, 0, len(layers))
		for i := range layers {
			items = append(items, NewLayerDTO(&layers[i]))
		}
		paginated := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
		result = &paginated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
