package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/inventory"
)

// BalanceDTO is the read model for one inventory balance
type BalanceDTO struct {
	ID          uuid.UUID       `json:"id"`
	TenantID    uuid.UUID       `json:"tenant_id"`
	ItemID      uuid.UUID       `json:"item_id"`
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	OnHand      decimal.Decimal `json:"on_hand"`
	Allocated   decimal.Decimal `json:"allocated"`
	OnOrder     decimal.Decimal `json:"on_order"`
	Available   decimal.Decimal `json:"available"`
	Projected   decimal.Decimal `json:"projected"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Version     int             `json:"version"`
}

// NewBalanceDTO maps a balance aggregate to its read model
func NewBalanceDTO(balance *inventory.InventoryBalance) *BalanceDTO {
	return &BalanceDTO{
		ID:          balance.ID,
		TenantID:    balance.TenantID,
		ItemID:      balance.ItemID,
		WarehouseID: balance.WarehouseID,
		OnHand:      balance.OnHand,
		Allocated:   balance.Allocated,
		OnOrder:     balance.OnOrder,
		Available:   balance.Available(),
		Projected:   balance.Projected(),
		UpdatedAt:   balance.UpdatedAt,
		Version:     balance.GetVersion(),
	}
}

// TransactionDTO is the read model for one ledger row
type TransactionDTO struct {
	ID               uuid.UUID       `json:"id"`
	ItemID           uuid.UUID       `json:"item_id"`
	WarehouseID      uuid.UUID       `json:"warehouse_id"`
	Type             string          `json:"type"`
	Quantity         decimal.Decimal `json:"quantity"`
	TransactionDate  time.Time       `json:"transaction_date"`
	BalanceOnHand    decimal.Decimal `json:"balance_on_hand"`
	BalanceAllocated decimal.Decimal `json:"balance_allocated"`
	ReferenceType    string          `json:"reference_type,omitempty"`
	ReferenceNumber  string          `json:"reference_number,omitempty"`
	Notes            string          `json:"notes,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

// NewTransactionDTO maps a ledger row to its read model
func NewTransactionDTO(tx *inventory.InventoryTransaction) TransactionDTO {
	return TransactionDTO{
		ID:               tx.ID,
		ItemID:           tx.ItemID,
		WarehouseID:      tx.WarehouseID,
		Type:             string(tx.Type),
		Quantity:         tx.Quantity,
		TransactionDate:  tx.TransactionDate,
		BalanceOnHand:    tx.BalanceOnHand,
		BalanceAllocated: tx.BalanceAllocated,
		ReferenceType:    tx.ReferenceType,
		ReferenceNumber:  tx.ReferenceNumber,
		Notes:            tx.Notes,
		CreatedAt:        tx.CreatedAt,
	}
}

// LotDTO is the read model for one lot with its pallets
type LotDTO struct {
	ID           uuid.UUID       `json:"id"`
	ItemID       uuid.UUID       `json:"item_id"`
	WarehouseID  uuid.UUID       `json:"warehouse_id"`
	LotNumber    string          `json:"lot_number"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	VendorID     *uuid.UUID      `json:"vendor_id,omitempty"`
	DateReceived time.Time       `json:"date_received"`
	Pallets      []PalletDTO     `json:"pallets,omitempty"`
}

// PalletDTO is the read model for one pallet
type PalletDTO struct {
	ID           uuid.UUID       `json:"id"`
	PalletNumber string          `json:"pallet_number"`
	Quantity     decimal.Decimal `json:"quantity"`
}

// NewLotDTO maps a lot aggregate to its read model
func NewLotDTO(lot *inventory.InventoryLot) LotDTO {
	dto := LotDTO{
		ID:           lot.ID,
		ItemID:       lot.ItemID,
		WarehouseID:  lot.WarehouseID,
		LotNumber:    lot.LotNumber,
		Quantity:     lot.Quantity,
		UnitCost:     lot.UnitCost,
		VendorID:     lot.VendorID,
		DateReceived: lot.DateReceived,
	}
	for _, pallet := range lot.Pallets {
		dto.Pallets = append(dto.Pallets, PalletDTO{
			ID:           pallet.ID,
			PalletNumber: pallet.PalletNumber,
			Quantity:     pallet.Quantity,
		})
	}
	return dto
}

// LayerDTO is the read model for one FIFO cost layer
type LayerDTO struct {
	ID                uuid.UUID       `json:"id"`
	ItemID            uuid.UUID       `json:"item_id"`
	WarehouseID       uuid.UUID       `json:"warehouse_id"`
	QuantityOriginal  decimal.Decimal `json:"quantity_original"`
	QuantityRemaining decimal.Decimal `json:"quantity_remaining"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
	DateReceived      time.Time       `json:"date_received"`
}

// NewLayerDTO maps a cost layer to its read model
func NewLayerDTO(layer *inventory.InventoryLayer) LayerDTO {
	return LayerDTO{
		ID:                layer.ID,
		ItemID:            layer.ItemID,
		WarehouseID:       layer.WarehouseID,
		QuantityOriginal:  layer.QuantityOriginal,
		QuantityRemaining: layer.QuantityRemaining,
		UnitCost:          layer.UnitCost,
		DateReceived:      layer.DateReceived,
	}
}

// ReceiveInventoryCommand receives physical stock without cost layers
type ReceiveInventoryCommand struct {
	TenantID         uuid.UUID
	ItemID           uuid.UUID
	WarehouseID      uuid.UUID
	Quantity         decimal.Decimal
	UnitCost         decimal.Decimal
	LotNumber        string
	VendorID         *uuid.UUID
	PalletQuantities []decimal.Decimal
	ReferenceType    string
	ReferenceNumber  string
	OperatorID       *uuid.UUID
	ReceivedAt       *time.Time
}

// ReceiveStockCommand receives stock with a FIFO cost layer and a posted
// journal entry
type ReceiveStockCommand struct {
	ReceiveInventoryCommand
}

// ReceiveResult is the outcome of a receipt
type ReceiveResult struct {
	Balance *BalanceDTO `json:"balance"`
	Lot     LotDTO      `json:"lot"`
}

// StockOperationCommand covers allocate, deallocate, issue and on-order moves
type StockOperationCommand struct {
	TenantID        uuid.UUID
	ItemID          uuid.UUID
	WarehouseID     uuid.UUID
	Quantity        decimal.Decimal
	ReferenceType   string
	ReferenceNumber string
	OperatorID      *uuid.UUID
}

// AdjustInventoryCommand applies a signed on-hand correction
type AdjustInventoryCommand struct {
	TenantID       uuid.UUID
	ItemID         uuid.UUID
	WarehouseID    uuid.UUID
	QuantityChange decimal.Decimal
	Reason         string
	OperatorID     *uuid.UUID
}

// ShipStockCommand ships stock with FIFO costing
type ShipStockCommand struct {
	TenantID        uuid.UUID
	ItemID          uuid.UUID
	WarehouseID     uuid.UUID
	Quantity        decimal.Decimal
	ReferenceType   string
	ReferenceNumber string
	OperatorID      *uuid.UUID
}

// ShipStockResult reports the cost of goods sold for a shipment
type ShipStockResult struct {
	Balance        *BalanceDTO                  `json:"balance"`
	TotalCOGS      decimal.Decimal              `json:"total_cogs"`
	ConsumedLayers []inventory.LayerConsumption `json:"consumed_layers"`
}

// TransferInventoryCommand moves stock between two warehouses of a tenant
type TransferInventoryCommand struct {
	TenantID        uuid.UUID
	ItemID          uuid.UUID
	FromWarehouseID uuid.UUID
	ToWarehouseID   uuid.UUID
	Quantity        decimal.Decimal
	ReferenceType   string
	ReferenceNumber string
	OperatorID      *uuid.UUID
}

// TransferResult reports both balances after a transfer
type TransferResult struct {
	From *BalanceDTO `json:"from"`
	To   *BalanceDTO `json:"to"`
}
