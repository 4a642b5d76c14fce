package pricing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wms/backend/internal/domain/pricing"
	"github.com/wms/backend/internal/domain/shared"
)

type MockPriceListRepository struct {
	mock.Mock
}

func (m *MockPriceListRepository) Create(ctx context.Context, head *pricing.PriceListHead) error {
	args := m.Called(ctx, head)
	return args.Error(0)
}

func (m *MockPriceListRepository) Save(ctx context.Context, head *pricing.PriceListHead) error {
	args := m.Called(ctx, head)
	return args.Error(0)
}

func (m *MockPriceListRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*pricing.PriceListHead, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.PriceListHead), args.Error(1)
}

func (m *MockPriceListRepository) FindActiveForDate(ctx context.Context, tenantID, customerID, itemID uuid.UUID, date time.Time) (*pricing.PriceListHead, error) {
	args := m.Called(ctx, tenantID, customerID, itemID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.PriceListHead), args.Error(1)
}

func (m *MockPriceListRepository) FindActiveByCustomerAndItem(ctx context.Context, tenantID, customerID, itemID uuid.UUID) ([]pricing.PriceListHead, error) {
	args := m.Called(ctx, tenantID, customerID, itemID)
	return args.Get(0).([]pricing.PriceListHead), args.Error(1)
}

func (m *MockPriceListRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]pricing.PriceListHead, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]pricing.PriceListHead), args.Get(1).(int64), args.Error(2)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func standardTiers() []pricing.Tier {
	return []pricing.Tier{
		{MinQuantity: dec("1"), UnitPrice: dec("10.00")},
		{MinQuantity: dec("100"), UnitPrice: dec("9.00")},
		{MinQuantity: dec("1000"), UnitPrice: dec("8.00")},
	}
}

func newTestHead(t *testing.T, tenantID, customerID, itemID uuid.UUID, begin time.Time, end *time.Time) *pricing.PriceListHead {
	t.Helper()
	head, err := pricing.NewPriceListHead(tenantID, customerID, itemID, begin, end, standardTiers())
	require.NoError(t, err)
	return head
}

func TestPricingService_CreatePriceList(t *testing.T) {
	tenantID := uuid.New()
	customerID := uuid.New()
	itemID := uuid.New()
	jan1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	jun30 := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	jul1 := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

	t.Run("creates when no active lists exist", func(t *testing.T) {
		repo := new(MockPriceListRepository)
		repo.On("FindActiveByCustomerAndItem", mock.Anything, tenantID, customerID, itemID).
			Return([]pricing.PriceListHead{}, nil)
		repo.On("Create", mock.Anything, mock.AnythingOfType("*pricing.PriceListHead")).Return(nil)
		service := NewPricingService(repo, nil)

		result, err := service.CreatePriceList(context.Background(), CreatePriceListCommand{
			TenantID: tenantID, CustomerID: customerID, ItemID: itemID,
			BeginDate: jan1, Tiers: standardTiers(),
		})

		require.NoError(t, err)
		assert.Len(t, result.Tiers, 3)
		repo.AssertExpectations(t)
	})

	t.Run("rejects overlapping window", func(t *testing.T) {
		repo := new(MockPriceListRepository)
		existing := newTestHead(t, tenantID, customerID, itemID, jan1, nil)
		repo.On("FindActiveByCustomerAndItem", mock.Anything, tenantID, customerID, itemID).
			Return([]pricing.PriceListHead{*existing}, nil)
		service := NewPricingService(repo, nil)

		_, err := service.CreatePriceList(context.Background(), CreatePriceListCommand{
			TenantID: tenantID, CustomerID: customerID, ItemID: itemID,
			BeginDate: jul1, Tiers: standardTiers(),
		})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeOverlappingPriceList, domainErr.Code)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("allows adjacent non-overlapping windows", func(t *testing.T) {
		repo := new(MockPriceListRepository)
		existing := newTestHead(t, tenantID, customerID, itemID, jan1, &jun30)
		repo.On("FindActiveByCustomerAndItem", mock.Anything, tenantID, customerID, itemID).
			Return([]pricing.PriceListHead{*existing}, nil)
		repo.On("Create", mock.Anything, mock.AnythingOfType("*pricing.PriceListHead")).Return(nil)
		service := NewPricingService(repo, nil)

		_, err := service.CreatePriceList(context.Background(), CreatePriceListCommand{
			TenantID: tenantID, CustomerID: customerID, ItemID: itemID,
			BeginDate: jul1, Tiers: standardTiers(),
		})

		require.NoError(t, err)
	})
}

func TestPricingService_GetPrice(t *testing.T) {
	tenantID := uuid.New()
	customerID := uuid.New()
	itemID := uuid.New()
	jan1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("resolves tier with largest min quantity at or below qty", func(t *testing.T) {
		repo := new(MockPriceListRepository)
		head := newTestHead(t, tenantID, customerID, itemID, jan1, nil)
		repo.On("FindActiveForDate", mock.Anything, tenantID, customerID, itemID, mock.AnythingOfType("time.Time")).
			Return(head, nil)
		service := NewPricingService(repo, nil)

		cases := []struct {
			quantity string
			want     string
		}{
			{"1", "10.00"},
			{"99", "10.00"},
			{"100", "9.00"},
			{"999", "9.00"},
			{"1000", "8.00"},
			{"50000", "8.00"},
		}
		for _, tc := range cases {
			quote, err := service.GetPrice(context.Background(), tenantID, customerID, itemID, dec(tc.quantity), nil)
			require.NoError(t, err, "quantity %s", tc.quantity)
			assert.True(t, quote.UnitPrice.Equal(dec(tc.want)), "quantity %s got %s", tc.quantity, quote.UnitPrice)
		}
	})

	t.Run("no active list is the distinguished absence", func(t *testing.T) {
		repo := new(MockPriceListRepository)
		repo.On("FindActiveForDate", mock.Anything, tenantID, customerID, itemID, mock.AnythingOfType("time.Time")).
			Return(nil, shared.ErrNotFound)
		service := NewPricingService(repo, nil)

		_, err := service.GetPrice(context.Background(), tenantID, customerID, itemID, dec("10"), nil)

		assert.ErrorIs(t, err, pricing.ErrNoPrice)
	})

	t.Run("quantity below all tiers has no price", func(t *testing.T) {
		repo := new(MockPriceListRepository)
		head := newTestHead(t, tenantID, customerID, itemID, jan1, nil)
		repo.On("FindActiveForDate", mock.Anything, tenantID, customerID, itemID, mock.AnythingOfType("time.Time")).
			Return(head, nil)
		service := NewPricingService(repo, nil)

		_, err := service.GetPrice(context.Background(), tenantID, customerID, itemID, dec("0.5"), nil)

		assert.ErrorIs(t, err, pricing.ErrNoPrice)
	})

	t.Run("zero price is a real quote", func(t *testing.T) {
		repo := new(MockPriceListRepository)
		head, err := pricing.NewPriceListHead(tenantID, customerID, itemID, jan1, nil, []pricing.Tier{
			{MinQuantity: dec("1"), UnitPrice: decimal.Zero},
		})
		require.NoError(t, err)
		repo.On("FindActiveForDate", mock.Anything, tenantID, customerID, itemID, mock.AnythingOfType("time.Time")).
			Return(head, nil)
		service := NewPricingService(repo, nil)

		quote, err := service.GetPrice(context.Background(), tenantID, customerID, itemID, dec("10"), nil)

		require.NoError(t, err)
		assert.True(t, quote.UnitPrice.IsZero())
	})
}

func TestPricingService_CalculateLineTotal(t *testing.T) {
	tenantID := uuid.New()
	customerID := uuid.New()
	itemID := uuid.New()
	jan1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("multiplies quantity by resolved price", func(t *testing.T) {
		repo := new(MockPriceListRepository)
		head := newTestHead(t, tenantID, customerID, itemID, jan1, nil)
		repo.On("FindActiveForDate", mock.Anything, tenantID, customerID, itemID, mock.AnythingOfType("time.Time")).
			Return(head, nil)
		service := NewPricingService(repo, nil)

		total, err := service.CalculateLineTotal(context.Background(), tenantID, customerID, itemID, dec("150"), nil)

		require.NoError(t, err)
		assert.True(t, total.Equal(dec("1350")), "150 * 9.00, got %s", total)
	})

	t.Run("propagates no-price", func(t *testing.T) {
		repo := new(MockPriceListRepository)
		repo.On("FindActiveForDate", mock.Anything, tenantID, customerID, itemID, mock.AnythingOfType("time.Time")).
			Return(nil, shared.ErrNotFound)
		service := NewPricingService(repo, nil)

		_, err := service.CalculateLineTotal(context.Background(), tenantID, customerID, itemID, dec("150"), nil)

		assert.ErrorIs(t, err, pricing.ErrNoPrice)
	})
}

func TestPricingService_GetAllQuantityBreaks(t *testing.T) {
	tenantID := uuid.New()
	customerID := uuid.New()
	itemID := uuid.New()
	jan1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	repo := new(MockPriceListRepository)
	head := newTestHead(t, tenantID, customerID, itemID, jan1, nil)
	repo.On("FindActiveForDate", mock.Anything, tenantID, customerID, itemID, mock.AnythingOfType("time.Time")).
		Return(head, nil)
	service := NewPricingService(repo, nil)

	breaks, err := service.GetAllQuantityBreaks(context.Background(), tenantID, customerID, itemID, nil)

	require.NoError(t, err)
	require.Len(t, breaks, 3)
	assert.True(t, breaks[0].MinQuantity.Equal(dec("1")))
	assert.True(t, breaks[2].UnitPrice.Equal(dec("8.00")))
}

func TestPricingService_DeactivatePriceList(t *testing.T) {
	tenantID := uuid.New()
	repo := new(MockPriceListRepository)
	head := newTestHead(t, tenantID, uuid.New(), uuid.New(), time.Now(), nil)
	repo.On("FindByID", mock.Anything, tenantID, head.ID).Return(head, nil)
	repo.On("Save", mock.Anything, head).Return(nil)
	service := NewPricingService(repo, nil)

	err := service.DeactivatePriceList(context.Background(), tenantID, head.ID)

	require.NoError(t, err)
	assert.False(t, head.IsActive)
}
