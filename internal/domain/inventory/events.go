package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/shared"
)

// Event types published by the inventory context
const (
	EventTypeStockReceived       = "inventory.stock_received"
	EventTypeStockIssued         = "inventory.stock_issued"
	EventTypeStockAllocated      = "inventory.stock_allocated"
	EventTypeStockDeallocated    = "inventory.stock_deallocated"
	EventTypeStockAdjusted       = "inventory.stock_adjusted"
	EventTypeStockShipped        = "inventory.stock_shipped"
	EventTypeStockTransferred    = "inventory.stock_transferred"
	EventTypeBalanceRecalculated = "inventory.balance_recalculated"
)

const aggregateTypeBalance = "InventoryBalance"

// StockReceivedEvent is raised when stock is received into a warehouse
type StockReceivedEvent struct {
	shared.BaseDomainEvent
	ItemID      uuid.UUID       `json:"item_id"`
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	LotNumber   string          `json:"lot_number,omitempty"`
}

// NewStockReceivedEvent creates a StockReceivedEvent for a balance
func NewStockReceivedEvent(balance *InventoryBalance, quantity, unitCost decimal.Decimal, lotNumber string) *StockReceivedEvent {
	return &StockReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockReceived, aggregateTypeBalance, balance.ID, balance.TenantID),
		ItemID:          balance.ItemID,
		WarehouseID:     balance.WarehouseID,
		Quantity:        quantity,
		UnitCost:        unitCost,
		LotNumber:       lotNumber,
	}
}

// StockAllocatedEvent is raised when stock is reserved for an order
type StockAllocatedEvent struct {
	shared.BaseDomainEvent
	ItemID      uuid.UUID       `json:"item_id"`
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	Available   decimal.Decimal `json:"available"`
}

// NewStockAllocatedEvent creates a StockAllocatedEvent for a balance
func NewStockAllocatedEvent(balance *InventoryBalance, quantity decimal.Decimal) *StockAllocatedEvent {
	return &StockAllocatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAllocated, aggregateTypeBalance, balance.ID, balance.TenantID),
		ItemID:          balance.ItemID,
		WarehouseID:     balance.WarehouseID,
		Quantity:        quantity,
		Available:       balance.Available(),
	}
}

// StockShippedEvent is raised when stock leaves via FIFO-costed shipment
type StockShippedEvent struct {
	shared.BaseDomainEvent
	ItemID      uuid.UUID       `json:"item_id"`
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	TotalCost   decimal.Decimal `json:"total_cost"`
	LayerCount  int             `json:"layer_count"`
}

// NewStockShippedEvent creates a StockShippedEvent for a balance
func NewStockShippedEvent(balance *InventoryBalance, quantity decimal.Decimal, plan *DepletionPlan) *StockShippedEvent {
	return &StockShippedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockShipped, aggregateTypeBalance, balance.ID, balance.TenantID),
		ItemID:          balance.ItemID,
		WarehouseID:     balance.WarehouseID,
		Quantity:        quantity,
		TotalCost:       plan.TotalCost,
		LayerCount:      len(plan.Consumptions),
	}
}

// BalanceRecalculatedEvent is raised after a ledger replay rewrites a balance
type BalanceRecalculatedEvent struct {
	shared.BaseDomainEvent
	ItemID      uuid.UUID       `json:"item_id"`
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	OnHand      decimal.Decimal `json:"on_hand"`
	Allocated   decimal.Decimal `json:"allocated"`
}

// NewBalanceRecalculatedEvent creates a BalanceRecalculatedEvent
func NewBalanceRecalculatedEvent(balance *InventoryBalance) *BalanceRecalculatedEvent {
	return &BalanceRecalculatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBalanceRecalculated, aggregateTypeBalance, balance.ID, balance.TenantID),
		ItemID:          balance.ItemID,
		WarehouseID:     balance.WarehouseID,
		OnHand:          balance.OnHand,
		Allocated:       balance.Allocated,
	}
}
