package pricing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/wms/backend/internal/domain/shared"
)

// PriceListRepository persists price list heads with their lines
type PriceListRepository interface {
	// Create persists the head together with its lines
	Create(ctx context.Context, head *PriceListHead) error

	// Save persists changes to an existing head
	Save(ctx context.Context, head *PriceListHead) error

	// FindByID returns the head with lines preloaded or shared.ErrNotFound
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*PriceListHead, error)

	// FindActiveForDate returns the single active head whose window covers
	// the date, or shared.ErrNotFound. The write-time overlap check
	// guarantees at most one exists.
	FindActiveForDate(ctx context.Context, tenantID, customerID, itemID uuid.UUID, date time.Time) (*PriceListHead, error)

	// FindActiveByCustomerAndItem returns all active heads for the pair,
	// used for overlap validation before a write
	FindActiveByCustomerAndItem(ctx context.Context, tenantID, customerID, itemID uuid.UUID) ([]PriceListHead, error)

	// FindAll lists heads for a tenant with pagination
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]PriceListHead, int64, error)
}
