package inventory

import (
	"context"

	"github.com/wms/backend/internal/domain/accounting"
	"github.com/wms/backend/internal/domain/inventory"
)

// TransactionalRepositories exposes the repositories bound to one database
// transaction. Everything obtained from it reads and writes inside that
// transaction.
type TransactionalRepositories interface {
	Balances() inventory.BalanceRepository
	Transactions() inventory.TransactionRepository
	Layers() inventory.LayerRepository
	Lots() inventory.LotRepository
	Journals() accounting.JournalRepository
}

// TransactionScope runs a unit of work atomically. The function either
// commits as a whole or rolls back as a whole; row locks taken inside it
// are held until then.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// StaticRepositories is a TransactionalRepositories backed by fixed
// repository instances. Used with NoOpTransactionScope in tests.
type StaticRepositories struct {
	BalanceRepo     inventory.BalanceRepository
	TransactionRepo inventory.TransactionRepository
	LayerRepo       inventory.LayerRepository
	LotRepo         inventory.LotRepository
	JournalRepo     accounting.JournalRepository
}

// Balances returns the balance repository
func (r *StaticRepositories) Balances() inventory.BalanceRepository { return r.BalanceRepo }

// Transactions returns the ledger repository
func (r *StaticRepositories) Transactions() inventory.TransactionRepository {
	return r.TransactionRepo
}

// Layers returns the cost-layer repository
func (r *StaticRepositories) Layers() inventory.LayerRepository { return r.LayerRepo }

// Lots returns the lot repository
func (r *StaticRepositories) Lots() inventory.LotRepository { return r.LotRepo }

// Journals returns the journal repository
func (r *StaticRepositories) Journals() accounting.JournalRepository { return r.JournalRepo }

// NoOpTransactionScope executes the unit of work without any transaction.
// Only for tests; production wiring uses the GORM-backed scope.
type NoOpTransactionScope struct {
	Repos TransactionalRepositories
}

// Execute runs fn against the static repositories
func (s *NoOpTransactionScope) Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s.Repos)
}
