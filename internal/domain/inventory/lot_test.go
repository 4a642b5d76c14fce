package inventory

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wms/backend/internal/domain/shared"
)

func TestNewInventoryLot(t *testing.T) {
	tenantID := uuid.New()
	itemID := uuid.New()
	warehouseID := uuid.New()
	received := time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC)

	t.Run("with explicit lot number", func(t *testing.T) {
		lot, err := NewInventoryLot(tenantID, itemID, warehouseID, "LOT-ABC", dec("100"), dec("2.5"), received, nil)

		require.NoError(t, err)
		assert.Equal(t, "LOT-ABC", lot.LotNumber)
		assert.Empty(t, lot.Pallets)
	})

	t.Run("generates lot number when absent", func(t *testing.T) {
		lot, err := NewInventoryLot(tenantID, itemID, warehouseID, "", dec("100"), dec("2.5"), received, nil)

		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(lot.LotNumber, "LOT-20240510-"), lot.LotNumber)
	})

	t.Run("pallet quantities must sum to lot quantity", func(t *testing.T) {
		pallets := []decimal.Decimal{dec("40"), dec("35"), dec("25")}

		lot, err := NewInventoryLot(tenantID, itemID, warehouseID, "LOT-X", dec("100"), dec("1"), received, pallets)

		require.NoError(t, err)
		require.Len(t, lot.Pallets, 3)
		assert.Equal(t, "LOT-X-P01", lot.Pallets[0].PalletNumber)
		assert.Equal(t, lot.ID, lot.Pallets[0].LotID)
	})

	t.Run("rejects pallet sum mismatch", func(t *testing.T) {
		pallets := []decimal.Decimal{dec("40"), dec("35")}

		_, err := NewInventoryLot(tenantID, itemID, warehouseID, "LOT-X", dec("100"), dec("1"), received, pallets)

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodePalletQuantityMismatch, domainErr.Code)
	})

	t.Run("rejects non-positive pallet quantity", func(t *testing.T) {
		pallets := []decimal.Decimal{dec("100"), decimal.Zero}

		_, err := NewInventoryLot(tenantID, itemID, warehouseID, "LOT-X", dec("100"), dec("1"), received, pallets)

		require.Error(t, err)
	})

	t.Run("rejects non-positive lot quantity", func(t *testing.T) {
		_, err := NewInventoryLot(tenantID, itemID, warehouseID, "LOT-X", decimal.Zero, dec("1"), received, nil)
		require.Error(t, err)
	})
}
