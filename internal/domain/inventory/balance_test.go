package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wms/backend/internal/domain/shared"
)

func createTestBalance(t *testing.T) *InventoryBalance {
	t.Helper()
	return NewInventoryBalance(uuid.New(), uuid.New(), uuid.New())
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestNewInventoryBalance(t *testing.T) {
	tenantID := uuid.New()
	itemID := uuid.New()
	warehouseID := uuid.New()

	balance := NewInventoryBalance(tenantID, itemID, warehouseID)

	assert.Equal(t, tenantID, balance.TenantID)
	assert.Equal(t, itemID, balance.ItemID)
	assert.Equal(t, warehouseID, balance.WarehouseID)
	assert.True(t, balance.OnHand.IsZero())
	assert.True(t, balance.Allocated.IsZero())
	assert.True(t, balance.OnOrder.IsZero())
	assert.Equal(t, 1, balance.GetVersion())
}

func TestInventoryBalance_Receive(t *testing.T) {
	t.Run("increases on hand", func(t *testing.T) {
		balance := createTestBalance(t)

		err := balance.Receive(dec("100"))

		require.NoError(t, err)
		assert.True(t, balance.OnHand.Equal(dec("100")))
		assert.Equal(t, 2, balance.GetVersion())
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		balance := createTestBalance(t)

		err := balance.Receive(decimal.Zero)

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeInvalidQuantity, domainErr.Code)
	})

	t.Run("rejects negative quantity", func(t *testing.T) {
		balance := createTestBalance(t)

		err := balance.Receive(dec("-5"))

		require.Error(t, err)
	})
}

func TestInventoryBalance_Issue(t *testing.T) {
	t.Run("decreases on hand", func(t *testing.T) {
		balance := createTestBalance(t)
		require.NoError(t, balance.Receive(dec("100")))

		err := balance.Issue(dec("30"))

		require.NoError(t, err)
		assert.True(t, balance.OnHand.Equal(dec("70")))
	})

	t.Run("rejects issue beyond on hand", func(t *testing.T) {
		balance := createTestBalance(t)
		require.NoError(t, balance.Receive(dec("10")))

		err := balance.Issue(dec("10.000001"))

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeInsufficientStock, domainErr.Code)
		assert.True(t, balance.OnHand.Equal(dec("10")), "failed issue must not change the balance")
	})

	t.Run("allows issuing exactly on hand", func(t *testing.T) {
		balance := createTestBalance(t)
		require.NoError(t, balance.Receive(dec("10")))

		require.NoError(t, balance.Issue(dec("10")))
		assert.True(t, balance.OnHand.IsZero())
	})

	t.Run("ignores allocation when issuing", func(t *testing.T) {
		// Issue validates against on hand only. Allocated stock can be
		// issued; releasing the reservation is a separate operation.
		balance := createTestBalance(t)
		require.NoError(t, balance.Receive(dec("100")))
		require.NoError(t, balance.Allocate(dec("80")))

		err := balance.Issue(dec("50"))

		require.NoError(t, err)
		assert.True(t, balance.OnHand.Equal(dec("50")))
		assert.True(t, balance.Allocated.Equal(dec("80")))
	})
}

func TestInventoryBalance_Allocate(t *testing.T) {
	t.Run("reserves stock", func(t *testing.T) {
		balance := createTestBalance(t)
		require.NoError(t, balance.Receive(dec("100")))

		err := balance.Allocate(dec("40"))

		require.NoError(t, err)
		assert.True(t, balance.Allocated.Equal(dec("40")))
		assert.True(t, balance.Available().Equal(dec("60")))
	})

	t.Run("rejects allocation beyond on hand", func(t *testing.T) {
		balance := createTestBalance(t)
		require.NoError(t, balance.Receive(dec("100")))
		require.NoError(t, balance.Allocate(dec("70")))

		err := balance.Allocate(dec("31"))

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeInsufficientStock, domainErr.Code)
		assert.True(t, balance.Allocated.Equal(dec("70")))
	})

	t.Run("allows allocating up to on hand", func(t *testing.T) {
		balance := createTestBalance(t)
		require.NoError(t, balance.Receive(dec("100")))

		require.NoError(t, balance.Allocate(dec("100")))
		assert.True(t, balance.Available().IsZero())
	})
}

func TestInventoryBalance_Deallocate(t *testing.T) {
	t.Run("releases reservation", func(t *testing.T) {
		balance := createTestBalance(t)
		require.NoError(t, balance.Receive(dec("100")))
		require.NoError(t, balance.Allocate(dec("40")))

		applied, err := balance.Deallocate(dec("15"))

		require.NoError(t, err)
		assert.True(t, applied.Equal(dec("15")))
		assert.True(t, balance.Allocated.Equal(dec("25")))
	})

	t.Run("floors at zero and reports applied delta", func(t *testing.T) {
		balance := createTestBalance(t)
		require.NoError(t, balance.Receive(dec("100")))
		require.NoError(t, balance.Allocate(dec("10")))

		applied, err := balance.Deallocate(dec("25"))

		require.NoError(t, err)
		assert.True(t, applied.Equal(dec("10")), "only the actual delta is applied")
		assert.True(t, balance.Allocated.IsZero())
	})
}

func TestInventoryBalance_Adjust(t *testing.T) {
	t.Run("applies positive delta", func(t *testing.T) {
		balance := createTestBalance(t)
		require.NoError(t, balance.Receive(dec("10")))

		require.NoError(t, balance.Adjust(dec("2.5")))
		assert.True(t, balance.OnHand.Equal(dec("12.5")))
	})

	t.Run("applies negative delta", func(t *testing.T) {
		balance := createTestBalance(t)
		require.NoError(t, balance.Receive(dec("10")))

		require.NoError(t, balance.Adjust(dec("-4")))
		assert.True(t, balance.OnHand.Equal(dec("6")))
	})

	t.Run("rejects delta driving on hand negative", func(t *testing.T) {
		balance := createTestBalance(t)
		require.NoError(t, balance.Receive(dec("10")))

		err := balance.Adjust(dec("-10.01"))

		require.Error(t, err)
		assert.True(t, balance.OnHand.Equal(dec("10")))
	})

	t.Run("rejects zero delta", func(t *testing.T) {
		balance := createTestBalance(t)

		err := balance.Adjust(decimal.Zero)

		require.Error(t, err)
	})
}

func TestInventoryBalance_OnOrder(t *testing.T) {
	t.Run("add and remove", func(t *testing.T) {
		balance := createTestBalance(t)

		require.NoError(t, balance.AddOnOrder(dec("50")))
		require.NoError(t, balance.RemoveOnOrder(dec("20")))

		assert.True(t, balance.OnOrder.Equal(dec("30")))
	})

	t.Run("remove floors at zero", func(t *testing.T) {
		balance := createTestBalance(t)
		require.NoError(t, balance.AddOnOrder(dec("5")))

		require.NoError(t, balance.RemoveOnOrder(dec("100")))
		assert.True(t, balance.OnOrder.IsZero())
	})

	t.Run("projected includes on order", func(t *testing.T) {
		balance := createTestBalance(t)
		require.NoError(t, balance.Receive(dec("100")))
		require.NoError(t, balance.Allocate(dec("30")))
		require.NoError(t, balance.AddOnOrder(dec("50")))

		assert.True(t, balance.Projected().Equal(dec("120")))
		assert.True(t, balance.Available().Equal(dec("70")))
	})
}
