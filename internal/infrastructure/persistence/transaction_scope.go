package persistence

import (
	"context"

	"gorm.io/gorm"

	appinv "github.com/wms/backend/internal/application/inventory"
	"github.com/wms/backend/internal/domain/accounting"
	"github.com/wms/backend/internal/domain/inventory"
)

// GormTransactionScope implements TransactionScope using GORM
// transactions. Row locks taken by the repositories it hands out are
// held until the scope commits or rolls back.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction. An
// error from the function rolls everything back; nil commits.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appinv.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories hands out repositories bound to one transaction
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// Balances returns the balance repository scoped to the current transaction
func (r *gormTransactionalRepositories) Balances() inventory.BalanceRepository {
	return NewGormBalanceRepository(r.tx)
}

// Transactions returns the ledger repository scoped to the current transaction
func (r *gormTransactionalRepositories) Transactions() inventory.TransactionRepository {
	return NewGormTransactionRepository(r.tx)
}

// Layers returns the cost-layer repository scoped to the current transaction
func (r *gormTransactionalRepositories) Layers() inventory.LayerRepository {
	return NewGormLayerRepository(r.tx)
}

// Lots returns the lot repository scoped to the current transaction
func (r *gormTransactionalRepositories) Lots() inventory.LotRepository {
	return NewGormLotRepository(r.tx)
}

// Journals returns the journal repository scoped to the current transaction
func (r *gormTransactionalRepositories) Journals() accounting.JournalRepository {
	return NewGormJournalRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appinv.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appinv.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
