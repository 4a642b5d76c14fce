package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wms/backend/internal/domain/accounting"
	"github.com/wms/backend/internal/domain/shared"
)

// GormJournalRepository implements JournalRepository using GORM
type GormJournalRepository struct {
	db *gorm.DB
}

// NewGormJournalRepository creates a new GormJournalRepository
func NewGormJournalRepository(db *gorm.DB) *GormJournalRepository {
	return &GormJournalRepository{db: db}
}

// Create persists the entry together with its lines
func (r *GormJournalRepository) Create(ctx context.Context, entry *accounting.JournalEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// FindByID returns the entry with lines preloaded
func (r *GormJournalRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*accounting.JournalEntry, error) {
	var entry accounting.JournalEntry
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// FindByReference lists entries posted for one business document
func (r *GormJournalRepository) FindByReference(ctx context.Context, tenantID uuid.UUID, refType string, refID uuid.UUID) ([]accounting.JournalEntry, error) {
	var entries []accounting.JournalEntry
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("tenant_id = ? AND reference_type = ? AND reference_id = ?", tenantID, refType, refID).
		Order("entry_date ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindAll lists entries for a tenant with pagination
func (r *GormJournalRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]accounting.JournalEntry, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&accounting.JournalEntry{}).
		Where("tenant_id = ?", tenantID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []accounting.JournalEntry
	query := applyPagedOrder(base.Preload("Lines"), filter, JournalSortFields, "entry_date")
	if err := query.Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// Ensure GormJournalRepository implements JournalRepository
var _ accounting.JournalRepository = (*GormJournalRepository)(nil)

// GormAccountDefaultsRepository implements AccountDefaultsRepository using GORM
type GormAccountDefaultsRepository struct {
	db *gorm.DB
}

// NewGormAccountDefaultsRepository creates a new GormAccountDefaultsRepository
func NewGormAccountDefaultsRepository(db *gorm.DB) *GormAccountDefaultsRepository {
	return &GormAccountDefaultsRepository{db: db}
}

// FindByTenant returns the tenant's posting configuration
func (r *GormAccountDefaultsRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID) (*accounting.AccountDefaults, error) {
	var defaults accounting.AccountDefaults
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		First(&defaults).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &defaults, nil
}

// Save creates or replaces the tenant's posting configuration
func (r *GormAccountDefaultsRepository) Save(ctx context.Context, defaults *accounting.AccountDefaults) error {
	var existing accounting.AccountDefaults
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", defaults.TenantID).
		First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.WithContext(ctx).Create(defaults).Error
	}
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&existing).
		Updates(map[string]interface{}{
			"inventory_account_id": defaults.InventoryAccountID,
			"offset_account_id":    defaults.OffsetAccountID,
		}).Error
}

// Ensure GormAccountDefaultsRepository implements AccountDefaultsRepository
var _ accounting.AccountDefaultsRepository = (*GormAccountDefaultsRepository)(nil)
