package pricing

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/shared"
)

// ErrNoPrice marks the distinguished "no price defined" outcome. It is
// not an exceptional failure; callers decide whether absence is an error.
// A configured price of zero is a real price and never reported this way.
var ErrNoPrice = shared.NewDomainError("NO_PRICE", "No price defined for this customer, item and date")

// PriceListHead is a dated price agreement for one (customer, item) pair
// holding quantity-break tiers. At most one active head may cover any
// date for the pair; the overlap check below is enforced at write time
// so the read path can trust it.
type PriceListHead struct {
	shared.TenantAggregateRoot
	CustomerID uuid.UUID  `gorm:"type:uuid;not null;index:idx_price_customer_item,priority:1"`
	ItemID     uuid.UUID  `gorm:"type:uuid;not null;index:idx_price_customer_item,priority:2"`
	BeginDate  time.Time  `gorm:"not null"`
	EndDate    *time.Time // nil means open-ended
	IsActive   bool       `gorm:"not null;default:true"`

	Lines []PriceListLine `gorm:"foreignKey:HeadID"`
}

// TableName returns the table name for GORM
func (PriceListHead) TableName() string {
	return "price_list_heads"
}

// PriceListLine is one quantity-break tier of a price list
type PriceListLine struct {
	shared.BaseEntity
	TenantID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	HeadID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	MinQuantity decimal.Decimal `gorm:"type:decimal(20,6);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(20,6);not null"`
}

// TableName returns the table name for GORM
func (PriceListLine) TableName() string {
	return "price_list_lines"
}

// Tier is one quantity break as exposed to callers
type Tier struct {
	MinQuantity decimal.Decimal `json:"min_quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// NewPriceListHead creates a price list with its tiers. Tiers must have
// positive, unique minimum quantities and non-negative prices; they are
// stored sorted ascending by minimum quantity.
func NewPriceListHead(
	tenantID, customerID, itemID uuid.UUID,
	beginDate time.Time,
	endDate *time.Time,
	tiers []Tier,
) (*PriceListHead, error) {
	if len(tiers) == 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidQuantity, "Price list requires at least one tier")
	}
	if endDate != nil && endDate.Before(beginDate) {
		return nil, shared.NewDomainError("INVALID_DATE_RANGE", "Price list end date precedes begin date")
	}

	head := &PriceListHead{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		CustomerID:          customerID,
		ItemID:              itemID,
		BeginDate:           beginDate,
		EndDate:             endDate,
		IsActive:            true,
	}

	sorted := make([]Tier, len(tiers))
	copy(sorted, tiers)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].MinQuantity.LessThan(sorted[j].MinQuantity)
	})
	for i, tier := range sorted {
		if tier.MinQuantity.LessThanOrEqual(decimal.Zero) {
			return nil, shared.NewDomainError(shared.CodeInvalidQuantity, "Tier minimum quantity must be positive")
		}
		if tier.UnitPrice.IsNegative() {
			return nil, shared.NewDomainError(shared.CodeInvalidQuantity, "Tier unit price cannot be negative")
		}
		if i > 0 && tier.MinQuantity.Equal(sorted[i-1].MinQuantity) {
			return nil, shared.NewDomainError(shared.CodeInvalidQuantity,
				fmt.Sprintf("Duplicate tier minimum quantity %s", tier.MinQuantity.String()))
		}
		head.Lines = append(head.Lines, PriceListLine{
			BaseEntity:  shared.NewBaseEntity(),
			TenantID:    tenantID,
			HeadID:      head.ID,
			MinQuantity: tier.MinQuantity,
			UnitPrice:   tier.UnitPrice,
		})
	}
	return head, nil
}

// CoversDate reports whether the head's validity window contains the date.
// An open end date extends to infinity.
func (h *PriceListHead) CoversDate(date time.Time) bool {
	if date.Before(h.BeginDate) {
		return false
	}
	if h.EndDate != nil && date.After(*h.EndDate) {
		return false
	}
	return true
}

// Overlaps reports whether another validity window intersects this one.
// Open end dates are treated as extending to infinity on either side.
func (h *PriceListHead) Overlaps(beginDate time.Time, endDate *time.Time) bool {
	if h.EndDate != nil && beginDate.After(*h.EndDate) {
		return false
	}
	if endDate != nil && h.BeginDate.After(*endDate) {
		return false
	}
	return true
}

// TierFor returns the tier with the largest minimum quantity not
// exceeding qty. Quantities below the smallest tier have no price.
func (h *PriceListHead) TierFor(quantity decimal.Decimal) (*PriceListLine, error) {
	var match *PriceListLine
	for i := range h.Lines {
		line := &h.Lines[i]
		if line.MinQuantity.GreaterThan(quantity) {
			continue
		}
		if match == nil || line.MinQuantity.GreaterThan(match.MinQuantity) {
			match = line
		}
	}
	if match == nil {
		return nil, ErrNoPrice
	}
	return match, nil
}

// Deactivate retires the price list without deleting its history
func (h *PriceListHead) Deactivate() {
	h.IsActive = false
	h.Touch()
}

// QuantityBreaks returns the tiers sorted ascending by minimum quantity
func (h *PriceListHead) QuantityBreaks() []Tier {
	tiers := make([]Tier, 0, len(h.Lines))
	for _, line := range h.Lines {
		tiers = append(tiers, Tier{MinQuantity: line.MinQuantity, UnitPrice: line.UnitPrice})
	}
	sort.Slice(tiers, func(i, j int) bool {
		return tiers[i].MinQuantity.LessThan(tiers[j].MinQuantity)
	})
	return tiers
}
