package accounting

import (
	"context"

	"github.com/google/uuid"

	"github.com/wms/backend/internal/domain/shared"
)

// JournalRepository persists journal entries. Entries are immutable once
// posted; corrections are posted as reversing entries.
type JournalRepository interface {
	// Create persists the entry together with its lines
	Create(ctx context.Context, entry *JournalEntry) error

	// FindByID returns the entry with lines preloaded or shared.ErrNotFound
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*JournalEntry, error)

	// FindByReference lists entries posted for one business document
	FindByReference(ctx context.Context, tenantID uuid.UUID, refType string, refID uuid.UUID) ([]JournalEntry, error)

	// FindAll lists entries for a tenant with pagination
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]JournalEntry, int64, error)
}

// AccountDefaultsRepository loads and stores the per-tenant posting configuration
type AccountDefaultsRepository interface {
	// FindByTenant returns the tenant's defaults or shared.ErrNotFound
	FindByTenant(ctx context.Context, tenantID uuid.UUID) (*AccountDefaults, error)

	// Save creates or replaces the tenant's defaults
	Save(ctx context.Context, defaults *AccountDefaults) error
}
