package accounting

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/shared"
)

// JournalEntry is a balanced set of debit/credit lines posted for a
// business event. The inventory context posts one per costed receipt.
type JournalEntry struct {
	shared.TenantAggregateRoot
	EntryDate   time.Time `gorm:"not null;index"`
	Description string    `gorm:"type:varchar(255)"`

	ReferenceType   string     `gorm:"type:varchar(50)"`
	ReferenceID     *uuid.UUID `gorm:"type:uuid"`
	ReferenceNumber string     `gorm:"type:varchar(100)"`

	Lines []JournalLine `gorm:"foreignKey:EntryID"`
}

// TableName returns the table name for GORM
func (JournalEntry) TableName() string {
	return "journal_entries"
}

// JournalLine is one leg of a journal entry. Exactly one of Debit and
// Credit is positive.
type JournalLine struct {
	shared.BaseEntity
	TenantID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	EntryID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	AccountID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Debit     decimal.Decimal `gorm:"type:decimal(20,6);not null;default:0"`
	Credit    decimal.Decimal `gorm:"type:decimal(20,6);not null;default:0"`
}

// TableName returns the table name for GORM
func (JournalLine) TableName() string {
	return "journal_lines"
}

// NewJournalEntry creates an empty journal entry
func NewJournalEntry(tenantID uuid.UUID, entryDate time.Time, description string) *JournalEntry {
	return &JournalEntry{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		EntryDate:           entryDate,
		Description:         description,
	}
}

// WithReference attaches the originating business document
func (e *JournalEntry) WithReference(refType string, refID uuid.UUID, refNumber string) *JournalEntry {
	e.ReferenceType = refType
	e.ReferenceID = &refID
	e.ReferenceNumber = refNumber
	return e
}

// AddDebit appends a debit line
func (e *JournalEntry) AddDebit(accountID uuid.UUID, amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError(shared.CodeInvalidQuantity, "Debit amount must be positive")
	}
	e.Lines = append(e.Lines, JournalLine{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   e.TenantID,
		EntryID:    e.ID,
		AccountID:  accountID,
		Debit:      amount,
		Credit:     decimal.Zero,
	})
	return nil
}

// AddCredit appends a credit line
func (e *JournalEntry) AddCredit(accountID uuid.UUID, amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError(shared.CodeInvalidQuantity, "Credit amount must be positive")
	}
	e.Lines = append(e.Lines, JournalLine{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   e.TenantID,
		EntryID:    e.ID,
		AccountID:  accountID,
		Debit:      decimal.Zero,
		Credit:     amount,
	})
	return nil
}

// Validate checks the entry has lines and debits equal credits
func (e *JournalEntry) Validate() error {
	if len(e.Lines) == 0 {
		return shared.NewDomainError(shared.CodeUnbalancedJournal, "Journal entry has no lines")
	}
	debits := decimal.Zero
	credits := decimal.Zero
	for _, line := range e.Lines {
		debits = debits.Add(line.Debit)
		credits = credits.Add(line.Credit)
	}
	if !debits.Equal(credits) {
		return shared.NewDomainError(shared.CodeUnbalancedJournal,
			fmt.Sprintf("Journal entry does not balance: debits %s, credits %s",
				debits.String(), credits.String()))
	}
	return nil
}

// AccountDefaults is the per-tenant account configuration the inventory
// context posts against. Receipts debit the inventory asset account and
// credit the offset (accrued payables) account.
type AccountDefaults struct {
	shared.TenantAggregateRoot
	InventoryAccountID uuid.UUID `gorm:"type:uuid;not null"`
	OffsetAccountID    uuid.UUID `gorm:"type:uuid;not null"`
}

// TableName returns the table name for GORM
func (AccountDefaults) TableName() string {
	return "account_defaults"
}

// NewAccountDefaults creates the account configuration for a tenant
func NewAccountDefaults(tenantID, inventoryAccountID, offsetAccountID uuid.UUID) (*AccountDefaults, error) {
	if inventoryAccountID == uuid.Nil || offsetAccountID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeMissingAccountConfig, "Both default accounts must be set")
	}
	return &AccountDefaults{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		InventoryAccountID:  inventoryAccountID,
		OffsetAccountID:     offsetAccountID,
	}, nil
}
