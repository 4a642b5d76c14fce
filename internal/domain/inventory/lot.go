package inventory

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/shared"
)

// InventoryLot groups physical stock received together: one receipt line,
// one lot, zero or more pallets underneath it.
type InventoryLot struct {
	shared.TenantAggregateRoot
	ItemID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	WarehouseID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	LotNumber    string          `gorm:"type:varchar(100);not null;index"`
	Quantity     decimal.Decimal `gorm:"type:decimal(20,6);not null"`
	UnitCost     decimal.Decimal `gorm:"type:decimal(20,6);not null"`
	VendorID     *uuid.UUID      `gorm:"type:uuid"`
	DateReceived time.Time       `gorm:"not null"`

	Pallets []InventoryPallet `gorm:"foreignKey:LotID"`
}

// TableName returns the table name for GORM
func (InventoryLot) TableName() string {
	return "inventory_lots"
}

// InventoryPallet is one scannable handling unit inside a lot
type InventoryPallet struct {
	shared.BaseEntity
	TenantID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	LotID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	PalletNumber string          `gorm:"type:varchar(100);not null"`
	Quantity     decimal.Decimal `gorm:"type:decimal(20,6);not null"`
}

// TableName returns the table name for GORM
func (InventoryPallet) TableName() string {
	return "inventory_pallets"
}

// GenerateLotNumber builds a lot number of the form LOT-YYYYMMDD-xxxx
// used when the receiving document carries none
func GenerateLotNumber(receivedAt time.Time) string {
	return fmt.Sprintf("LOT-%s-%04d", receivedAt.Format("20060102"), rand.Intn(10000))
}

// NewInventoryLot creates a lot with its pallets. When palletQuantities is
// non-empty their sum must equal the lot quantity exactly; partial or
// excess palletization is rejected before anything is written.
func NewInventoryLot(
	tenantID, itemID, warehouseID uuid.UUID,
	lotNumber string,
	quantity, unitCost decimal.Decimal,
	receivedAt time.Time,
	palletQuantities []decimal.Decimal,
) (*InventoryLot, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError(shared.CodeInvalidQuantity, "Lot quantity must be positive")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeInvalidQuantity, "Unit cost cannot be negative")
	}
	if lotNumber == "" {
		lotNumber = GenerateLotNumber(receivedAt)
	}

	lot := &InventoryLot{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ItemID:              itemID,
		WarehouseID:         warehouseID,
		LotNumber:           lotNumber,
		Quantity:            quantity,
		UnitCost:            unitCost,
		DateReceived:        receivedAt,
	}

	if len(palletQuantities) > 0 {
		total := decimal.Zero
		for i, palletQty := range palletQuantities {
			if palletQty.LessThanOrEqual(decimal.Zero) {
				return nil, shared.NewDomainError(shared.CodeInvalidQuantity,
					fmt.Sprintf("Pallet %d quantity must be positive", i+1))
			}
			total = total.Add(palletQty)
			lot.Pallets = append(lot.Pallets, InventoryPallet{
				BaseEntity:   shared.NewBaseEntity(),
				TenantID:     tenantID,
				LotID:        lot.ID,
				PalletNumber: fmt.Sprintf("%s-P%02d", lotNumber, i+1),
				Quantity:     palletQty,
			})
		}
		if !total.Equal(quantity) {
			return nil, shared.NewDomainError(shared.CodePalletQuantityMismatch,
				fmt.Sprintf("Pallet quantities sum to %s, expected %s", total.String(), quantity.String()))
		}
	}
	return lot, nil
}

// SetVendor records the supplying vendor
func (l *InventoryLot) SetVendor(vendorID uuid.UUID) {
	l.VendorID = &vendorID
}
