package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/shared"
)

// TransactionType identifies what kind of stock movement a ledger row records
type TransactionType string

const (
	TransactionTypeReceipt     TransactionType = "RECEIPT"
	TransactionTypeIssue       TransactionType = "ISSUE"
	TransactionTypeAllocate    TransactionType = "ALLOCATE"
	TransactionTypeDeallocate  TransactionType = "DEALLOCATE"
	TransactionTypeAdjust      TransactionType = "ADJUST"
	TransactionTypeTransferOut TransactionType = "TRANSFER_OUT"
	TransactionTypeTransferIn  TransactionType = "TRANSFER_IN"
)

// IsValid checks if the transaction type is one of the known values
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeReceipt, TransactionTypeIssue,
		TransactionTypeAllocate, TransactionTypeDeallocate,
		TransactionTypeAdjust, TransactionTypeTransferOut, TransactionTypeTransferIn:
		return true
	}
	return false
}

// MovesOnHand reports whether this type changes the on_hand quantity.
// ALLOCATE and DEALLOCATE only move the allocated reservation.
func (t TransactionType) MovesOnHand() bool {
	switch t {
	case TransactionTypeReceipt, TransactionTypeIssue, TransactionTypeAdjust,
		TransactionTypeTransferOut, TransactionTypeTransferIn:
		return true
	}
	return false
}

// InventoryTransaction is one immutable row in the stock movement ledger.
// Quantity carries the signed delta: positive for RECEIPT, ALLOCATE and
// TRANSFER_IN, negative for ISSUE, DEALLOCATE and TRANSFER_OUT, either
// sign for ADJUST. Replaying all rows for a balance reproduces its
// on-hand and allocated quantities.
type InventoryTransaction struct {
	shared.BaseEntity
	TenantID        uuid.UUID       `gorm:"type:uuid;not null;index:idx_inv_tx_balance,priority:1"`
	ItemID          uuid.UUID       `gorm:"type:uuid;not null;index:idx_inv_tx_balance,priority:2"`
	WarehouseID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_inv_tx_balance,priority:3"`
	Type            TransactionType `gorm:"type:varchar(20);not null;index"`
	Quantity        decimal.Decimal `gorm:"type:decimal(20,6);not null"`
	TransactionDate time.Time       `gorm:"not null;index"`

	// Post-transaction snapshot of the balance, denormalized for audit
	BalanceOnHand    decimal.Decimal `gorm:"type:decimal(20,6);not null"`
	BalanceAllocated decimal.Decimal `gorm:"type:decimal(20,6);not null"`

	// Reference to the business document that caused the movement
	ReferenceType   string     `gorm:"type:varchar(50)"`
	ReferenceID     *uuid.UUID `gorm:"type:uuid"`
	ReferenceNumber string     `gorm:"type:varchar(100);index"`

	LotID      *uuid.UUID `gorm:"type:uuid;index"`
	PalletID   *uuid.UUID `gorm:"type:uuid"`
	OperatorID *uuid.UUID `gorm:"type:uuid"`
	Notes      string     `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (InventoryTransaction) TableName() string {
	return "inventory_transactions"
}

// NewInventoryTransaction creates a ledger row snapshotting the balance it
// was applied to. The balance must already reflect the movement.
func NewInventoryTransaction(
	balance *InventoryBalance,
	txType TransactionType,
	quantity decimal.Decimal,
) *InventoryTransaction {
	return &InventoryTransaction{
		BaseEntity:       shared.NewBaseEntity(),
		TenantID:         balance.TenantID,
		ItemID:           balance.ItemID,
		WarehouseID:      balance.WarehouseID,
		Type:             txType,
		Quantity:         quantity,
		TransactionDate:  time.Now(),
		BalanceOnHand:    balance.OnHand,
		BalanceAllocated: balance.Allocated,
	}
}

// WithReference attaches the originating business document
func (t *InventoryTransaction) WithReference(refType string, refID uuid.UUID, refNumber string) *InventoryTransaction {
	t.ReferenceType = refType
	t.ReferenceID = &refID
	t.ReferenceNumber = refNumber
	return t
}

// WithReferenceNumber attaches a document number without an internal ID
func (t *InventoryTransaction) WithReferenceNumber(refType, refNumber string) *InventoryTransaction {
	t.ReferenceType = refType
	t.ReferenceNumber = refNumber
	return t
}

// WithLot attaches the lot the movement belongs to
func (t *InventoryTransaction) WithLot(lotID uuid.UUID) *InventoryTransaction {
	t.LotID = &lotID
	return t
}

// WithPallet attaches the pallet the movement belongs to
func (t *InventoryTransaction) WithPallet(palletID uuid.UUID) *InventoryTransaction {
	t.PalletID = &palletID
	return t
}

// WithOperator attaches the user who performed the movement
func (t *InventoryTransaction) WithOperator(operatorID uuid.UUID) *InventoryTransaction {
	t.OperatorID = &operatorID
	return t
}

// WithNotes attaches free-form notes, e.g. an adjustment reason
func (t *InventoryTransaction) WithNotes(notes string) *InventoryTransaction {
	t.Notes = notes
	return t
}

// WithTransactionDate overrides the movement date, e.g. for backdated
// receipts. Backdated rows are the one exception to transaction_date
// ordering per (item, warehouse); replay sums the ledger regardless of
// date, and FIFO ordering reads the layer's date_received, so neither
// depends on it.
func (t *InventoryTransaction) WithTransactionDate(date time.Time) *InventoryTransaction {
	t.TransactionDate = date
	return t
}
