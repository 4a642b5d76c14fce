package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/shared"
)

func newMockBalanceRepo(t *testing.T) (*GormBalanceRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormBalanceRepository(gormDB), mock, mockDB
}

func lockedBalance(t *testing.T) *inventory.InventoryBalance {
	t.Helper()
	balance := inventory.NewInventoryBalance(uuid.New(), uuid.New(), uuid.New())
	require.NoError(t, balance.Receive(decimal.NewFromInt(100)))
	balance.IncrementVersion()
	return balance
}

func TestSaveWithLock(t *testing.T) {
	t.Run("updates when version matches", func(t *testing.T) {
		repo, mock, mockDB := newMockBalanceRepo(t)
		defer mockDB.Close()

		balance := lockedBalance(t)
		mock.ExpectExec(`UPDATE "inventory_balances" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.SaveWithLock(context.Background(), balance)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports conflict when another transaction won", func(t *testing.T) {
		repo, mock, mockDB := newMockBalanceRepo(t)
		defer mockDB.Close()

		balance := lockedBalance(t)
		mock.ExpectExec(`UPDATE "inventory_balances" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SaveWithLock(context.Background(), balance)

		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("propagates database errors", func(t *testing.T) {
		repo, mock, mockDB := newMockBalanceRepo(t)
		defer mockDB.Close()

		balance := lockedBalance(t)
		mock.ExpectExec(`UPDATE "inventory_balances" SET`).
			WillReturnError(assert.AnError)

		err := repo.SaveWithLock(context.Background(), balance)

		assert.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestFindForUpdate(t *testing.T) {
	t.Run("locks the row on postgres", func(t *testing.T) {
		repo, mock, mockDB := newMockBalanceRepo(t)
		defer mockDB.Close()

		tenantID, itemID, warehouseID := uuid.New(), uuid.New(), uuid.New()
		rows := sqlmock.NewRows([]string{"id", "tenant_id", "item_id", "warehouse_id", "on_hand", "allocated", "on_order", "version"}).
			AddRow(uuid.New(), tenantID, itemID, warehouseID, "100", "0", "0", 1)
		mock.ExpectQuery(`SELECT .* FROM "inventory_balances" .* FOR UPDATE`).
			WillReturnRows(rows)

		balance, err := repo.FindForUpdate(context.Background(), tenantID, itemID, warehouseID)

		require.NoError(t, err)
		assert.True(t, balance.OnHand.Equal(decimal.NewFromInt(100)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("translates missing row to not found", func(t *testing.T) {
		repo, mock, mockDB := newMockBalanceRepo(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT .* FROM "inventory_balances"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.FindForUpdate(context.Background(), uuid.New(), uuid.New(), uuid.New())

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestFindByItemAndWarehouse_NotFound(t *testing.T) {
	repo, mock, mockDB := newMockBalanceRepo(t)
	defer mockDB.Close()

	mock.ExpectQuery(`SELECT .* FROM "inventory_balances"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByItemAndWarehouse(context.Background(), uuid.New(), uuid.New(), uuid.New())

	assert.ErrorIs(t, err, shared.ErrNotFound)
}
