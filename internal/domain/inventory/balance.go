package inventory

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/shared"
)

// InventoryBalance is the running stock position for one (tenant, item,
// warehouse) pair. It is created lazily on first movement and never deleted.
// All quantity changes go through the methods below so the invariants
// on_hand >= 0, 0 <= allocated <= on_hand and on_order >= 0 hold after
// every completed operation. Each successful mutation bumps the
// optimistic-locking version; SaveWithLock checks it on write.
type InventoryBalance struct {
	shared.BaseAggregateRoot
	// TenantID is declared here rather than via TenantAggregateRoot so it
	// can lead the uniqueness key: identical (item, warehouse) pairs must
	// not collide across tenants.
	TenantID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_balance_key,unique,priority:1"`
	ItemID      uuid.UUID       `gorm:"type:uuid;not null;index:idx_balance_key,unique,priority:2"`
	WarehouseID uuid.UUID       `gorm:"type:uuid;not null;index:idx_balance_key,unique,priority:3"`
	OnHand      decimal.Decimal `gorm:"type:decimal(20,6);not null;default:0"`
	Allocated   decimal.Decimal `gorm:"type:decimal(20,6);not null;default:0"`
	OnOrder     decimal.Decimal `gorm:"type:decimal(20,6);not null;default:0"`
}

// TableName returns the table name for GORM
func (InventoryBalance) TableName() string {
	return "inventory_balances"
}

// NewInventoryBalance creates a zeroed balance for an item in a warehouse
func NewInventoryBalance(tenantID, itemID, warehouseID uuid.UUID) *InventoryBalance {
	return &InventoryBalance{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		TenantID:          tenantID,
		ItemID:            itemID,
		WarehouseID:       warehouseID,
		OnHand:            decimal.Zero,
		Allocated:         decimal.Zero,
		OnOrder:           decimal.Zero,
	}
}

// Available returns the quantity free to promise: on hand minus allocated
func (b *InventoryBalance) Available() decimal.Decimal {
	return b.OnHand.Sub(b.Allocated)
}

// Projected returns on hand plus inbound on order minus allocated
func (b *InventoryBalance) Projected() decimal.Decimal {
	return b.OnHand.Add(b.OnOrder).Sub(b.Allocated)
}

// Receive increases on-hand stock
func (b *InventoryBalance) Receive(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError(shared.CodeInvalidQuantity, "Receive quantity must be positive")
	}
	b.OnHand = b.OnHand.Add(quantity)
	b.IncrementVersion()
	b.Touch()
	return nil
}

// Issue decreases on-hand stock. It deliberately checks only against
// on_hand, not available; issuing allocated stock is allowed and the
// allocation is left for the caller to release.
func (b *InventoryBalance) Issue(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError(shared.CodeInvalidQuantity, "Issue quantity must be positive")
	}
	if quantity.GreaterThan(b.OnHand) {
		return shared.NewDomainError(shared.CodeInsufficientStock,
			fmt.Sprintf("Cannot issue %s: only %s on hand", quantity.String(), b.OnHand.String()))
	}
	b.OnHand = b.OnHand.Sub(quantity)
	b.IncrementVersion()
	b.Touch()
	return nil
}

// Allocate reserves on-hand stock for an order. The reservation can never
// exceed what is physically on hand.
func (b *InventoryBalance) Allocate(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError(shared.CodeInvalidQuantity, "Allocate quantity must be positive")
	}
	if b.Allocated.Add(quantity).GreaterThan(b.OnHand) {
		return shared.NewDomainError(shared.CodeInsufficientStock,
			fmt.Sprintf("Cannot allocate %s: %s on hand, %s already allocated",
				quantity.String(), b.OnHand.String(), b.Allocated.String()))
	}
	b.Allocated = b.Allocated.Add(quantity)
	b.IncrementVersion()
	b.Touch()
	return nil
}

// Deallocate releases a reservation, flooring at zero. The returned value
// is the delta actually applied, which the ledger records.
func (b *InventoryBalance) Deallocate(quantity decimal.Decimal) (decimal.Decimal, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, shared.NewDomainError(shared.CodeInvalidQuantity, "Deallocate quantity must be positive")
	}
	applied := decimal.Min(quantity, b.Allocated)
	b.Allocated = b.Allocated.Sub(applied)
	b.IncrementVersion()
	b.Touch()
	return applied, nil
}

// Adjust applies a signed correction to on-hand stock
func (b *InventoryBalance) Adjust(quantityChange decimal.Decimal) error {
	if quantityChange.IsZero() {
		return shared.NewDomainError(shared.CodeInvalidQuantity, "Adjustment quantity must be non-zero")
	}
	result := b.OnHand.Add(quantityChange)
	if result.IsNegative() {
		return shared.NewDomainError(shared.CodeInsufficientStock,
			fmt.Sprintf("Adjustment of %s would drive on-hand below zero (currently %s)",
				quantityChange.String(), b.OnHand.String()))
	}
	b.OnHand = result
	b.IncrementVersion()
	b.Touch()
	return nil
}

// AddOnOrder increases the expected inbound quantity
func (b *InventoryBalance) AddOnOrder(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError(shared.CodeInvalidQuantity, "On-order quantity must be positive")
	}
	b.OnOrder = b.OnOrder.Add(quantity)
	b.IncrementVersion()
	b.Touch()
	return nil
}

// RemoveOnOrder decreases the expected inbound quantity, flooring at zero
func (b *InventoryBalance) RemoveOnOrder(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError(shared.CodeInvalidQuantity, "On-order quantity must be positive")
	}
	b.OnOrder = decimal.Max(decimal.Zero, b.OnOrder.Sub(quantity))
	b.IncrementVersion()
	b.Touch()
	return nil
}

// SetFromReplay overwrites the tracked quantities with totals recomputed
// from the transaction ledger. On-order is untouched: it has no ledger
// trail to replay from.
func (b *InventoryBalance) SetFromReplay(onHand, allocated decimal.Decimal) {
	b.OnHand = onHand
	b.Allocated = allocated
	b.IncrementVersion()
	b.Touch()
}

// CheckInvariants verifies the balance invariants hold. Used after replay
// and in tests; normal mutation paths cannot violate them.
func (b *InventoryBalance) CheckInvariants() error {
	if b.OnHand.IsNegative() {
		return shared.NewDomainError(shared.CodeInsufficientStock, "On-hand quantity is negative")
	}
	if b.Allocated.IsNegative() || b.Allocated.GreaterThan(b.OnHand) {
		return shared.NewDomainError(shared.CodeInsufficientStock, "Allocated quantity outside [0, on-hand]")
	}
	if b.OnOrder.IsNegative() {
		return shared.NewDomainError(shared.CodeInvalidQuantity, "On-order quantity is negative")
	}
	return nil
}
