package pricing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/wms/backend/internal/domain/pricing"
	"github.com/wms/backend/internal/domain/shared"
)

// CreatePriceListCommand creates a dated price agreement with its tiers
type CreatePriceListCommand struct {
	TenantID   uuid.UUID
	CustomerID uuid.UUID
	ItemID     uuid.UUID
	BeginDate  time.Time
	EndDate    *time.Time
	Tiers      []pricing.Tier
}

// PriceQuote is the resolved price for a quantity on a date
type PriceQuote struct {
	PriceListID uuid.UUID       `json:"price_list_id"`
	MinQuantity decimal.Decimal `json:"min_quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// PriceListDTO is the read model for one price list head
type PriceListDTO struct {
	ID         uuid.UUID      `json:"id"`
	CustomerID uuid.UUID      `json:"customer_id"`
	ItemID     uuid.UUID      `json:"item_id"`
	BeginDate  time.Time      `json:"begin_date"`
	EndDate    *time.Time     `json:"end_date,omitempty"`
	IsActive   bool           `json:"is_active"`
	Tiers      []pricing.Tier `json:"tiers"`
}

// NewPriceListDTO maps a head to its read model
func NewPriceListDTO(head *pricing.PriceListHead) *PriceListDTO {
	return &PriceListDTO{
		ID:         head.ID,
		CustomerID: head.CustomerID,
		ItemID:     head.ItemID,
		BeginDate:  head.BeginDate,
		EndDate:    head.EndDate,
		IsActive:   head.IsActive,
		Tiers:      head.QuantityBreaks(),
	}
}

// PricingService resolves customer prices and manages price lists.
// Overlap between active lists for a (customer, item) pair is rejected
// here at write time, which lets the read path assume at most one list
// covers any date.
type PricingService struct {
	priceListRepo pricing.PriceListRepository
	logger        *zap.Logger
}

// NewPricingService creates a pricing service
func NewPricingService(priceListRepo pricing.PriceListRepository, logger *zap.Logger) *PricingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PricingService{
		priceListRepo: priceListRepo,
		logger:        logger,
	}
}

// CreatePriceList validates the tiers and the validity window against all
// active lists for the pair before persisting
func (s *PricingService) CreatePriceList(ctx context.Context, cmd CreatePriceListCommand) (*PriceListDTO, error) {
	if cmd.TenantID == uuid.Nil || cmd.CustomerID == uuid.Nil || cmd.ItemID == uuid.Nil {
		return nil, shared.ErrInvalidInput
	}

	head, err := pricing.NewPriceListHead(cmd.TenantID, cmd.CustomerID, cmd.ItemID, cmd.BeginDate, cmd.EndDate, cmd.Tiers)
	if err != nil {
		return nil, err
	}

	existing, err := s.priceListRepo.FindActiveByCustomerAndItem(ctx, cmd.TenantID, cmd.CustomerID, cmd.ItemID)
	if err != nil {
		return nil, err
	}
	for i := range existing {
		if existing[i].Overlaps(cmd.BeginDate, cmd.EndDate) {
			return nil, shared.NewDomainError(shared.CodeOverlappingPriceList,
				fmt.Sprintf("Validity window overlaps active price list %s", existing[i].ID.String()))
		}
	}

	if err := s.priceListRepo.Create(ctx, head); err != nil {
		return nil, err
	}
	s.logger.Info("price list created",
		zap.String("tenant_id", cmd.TenantID.String()),
		zap.String("customer_id", cmd.CustomerID.String()),
		zap.String("item_id", cmd.ItemID.String()),
		zap.Int("tiers", len(cmd.Tiers)),
	)
	return NewPriceListDTO(head), nil
}

// DeactivatePriceList retires a price list without deleting it
func (s *PricingService) DeactivatePriceList(ctx context.Context, tenantID, id uuid.UUID) error {
	head, err := s.priceListRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return err
	}
	head.Deactivate()
	return s.priceListRepo.Save(ctx, head)
}

// GetPrice resolves the unit price for a quantity: the tier with the
// largest minimum quantity not exceeding it, from the single active list
// covering the date. Returns pricing.ErrNoPrice when no list covers the
// date or the quantity is below every tier; a configured zero price is
// returned as a normal quote.
func (s *PricingService) GetPrice(ctx context.Context, tenantID, customerID, itemID uuid.UUID, quantity decimal.Decimal, date *time.Time) (*PriceQuote, error) {
	if tenantID == uuid.Nil || customerID == uuid.Nil || itemID == uuid.Nil {
		return nil, shared.ErrInvalidInput
	}
	at := time.Now()
	if date != nil {
		at = *date
	}

	head, err := s.priceListRepo.FindActiveForDate(ctx, tenantID, customerID, itemID, at)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, pricing.ErrNoPrice
		}
		return nil, err
	}
	line, err := head.TierFor(quantity)
	if err != nil {
		return nil, err
	}
	return &PriceQuote{
		PriceListID: head.ID,
		MinQuantity: line.MinQuantity,
		UnitPrice:   line.UnitPrice,
	}, nil
}

// GetAllQuantityBreaks returns the tiers of the active list covering the
// date, sorted ascending by minimum quantity
func (s *PricingService) GetAllQuantityBreaks(ctx context.Context, tenantID, customerID, itemID uuid.UUID, date *time.Time) ([]pricing.Tier, error) {
	at := time.Now()
	if date != nil {
		at = *date
	}
	head, err := s.priceListRepo.FindActiveForDate(ctx, tenantID, customerID, itemID, at)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, pricing.ErrNoPrice
		}
		return nil, err
	}
	return head.QuantityBreaks(), nil
}

// CalculateLineTotal resolves the price and multiplies it by the
// quantity, propagating the distinguished no-price outcome
func (s *PricingService) CalculateLineTotal(ctx context.Context, tenantID, customerID, itemID uuid.UUID, quantity decimal.Decimal, date *time.Time) (decimal.Decimal, error) {
	quote, err := s.GetPrice(ctx, tenantID, customerID, itemID, quantity, date)
	if err != nil {
		return decimal.Zero, err
	}
	return quantity.Mul(quote.UnitPrice), nil
}

// GetPriceList returns one price list with its tiers
func (s *PricingService) GetPriceList(ctx context.Context, tenantID, id uuid.UUID) (*PriceListDTO, error) {
	head, err := s.priceListRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return NewPriceListDTO(head), nil
}

// ListPriceLists lists price lists for a tenant with pagination
func (s *PricingService) ListPriceLists(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[*PriceListDTO], error) {
	heads, total, err := s.priceListRepo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]*PriceListDTO, 0, len(heads))
	for i := range heads {
		items = append(items, NewPriceListDTO(&heads[i]))
	}
	paginated := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &paginated, nil
}
