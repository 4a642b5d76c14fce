package persistence

import (
	"strings"

	"gorm.io/gorm"

	"github.com/wms/backend/internal/domain/shared"
)

// ValidateSortOrder normalizes the sort order to ASC or DESC, defaulting
// to DESC for anything unrecognized
func ValidateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField checks the sort field against a whitelist, falling
// back to the default. Field names reach SQL verbatim, so only
// whitelisted columns are ever interpolated.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" || !allowedFields[trimmed] {
		return defaultField
	}
	return trimmed
}

// BalanceSortFields contains allowed sort fields for inventory balances
var BalanceSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"item_id":      true,
	"warehouse_id": true,
	"on_hand":      true,
	"allocated":    true,
	"on_order":     true,
}

// TransactionSortFields contains allowed sort fields for ledger rows
var TransactionSortFields = map[string]bool{
	"id":               true,
	"created_at":       true,
	"transaction_date": true,
	"type":             true,
	"quantity":         true,
	"reference_number": true,
}

// LayerSortFields contains allowed sort fields for cost layers
var LayerSortFields = map[string]bool{
	"id":                 true,
	"created_at":         true,
	"date_received":      true,
	"quantity_remaining": true,
	"unit_cost":          true,
}

// LotSortFields contains allowed sort fields for lots
var LotSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"lot_number":    true,
	"date_received": true,
	"quantity":      true,
}

// PriceListSortFields contains allowed sort fields for price lists
var PriceListSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"begin_date":  true,
	"end_date":    true,
	"customer_id": true,
	"item_id":     true,
}

// JournalSortFields contains allowed sort fields for journal entries
var JournalSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"entry_date": true,
}

// applyPagedOrder applies pagination and a whitelisted ordering to a query
func applyPagedOrder(query *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultField string) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, allowed, defaultField)
	order := ValidateSortOrder(filter.OrderDir)
	return query.
		Order(field + " " + order).
		Offset(filter.Offset()).
		Limit(filter.Limit())
}
