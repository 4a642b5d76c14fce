package inventory

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/shared"
)

// InventoryLayer is one FIFO cost layer, created per costed receipt.
// UnitCost and QuantityOriginal are immutable; QuantityRemaining only
// ever decreases. Depleted layers are kept for audit.
type InventoryLayer struct {
	shared.BaseEntity
	TenantID          uuid.UUID       `gorm:"type:uuid;not null;index:idx_layer_fifo,priority:1"`
	ItemID            uuid.UUID       `gorm:"type:uuid;not null;index:idx_layer_fifo,priority:2"`
	WarehouseID       uuid.UUID       `gorm:"type:uuid;not null;index:idx_layer_fifo,priority:3"`
	QuantityOriginal  decimal.Decimal `gorm:"type:decimal(20,6);not null"`
	QuantityRemaining decimal.Decimal `gorm:"type:decimal(20,6);not null"`
	UnitCost          decimal.Decimal `gorm:"type:decimal(20,6);not null"`
	DateReceived      time.Time       `gorm:"not null;index:idx_layer_fifo,priority:4"`

	ReferenceType   string     `gorm:"type:varchar(50)"`
	ReferenceID     *uuid.UUID `gorm:"type:uuid"`
	ReferenceNumber string     `gorm:"type:varchar(100)"`
	LotID           *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (InventoryLayer) TableName() string {
	return "inventory_layers"
}

// NewInventoryLayer creates a full layer for a costed receipt
func NewInventoryLayer(
	tenantID, itemID, warehouseID uuid.UUID,
	quantity, unitCost decimal.Decimal,
	dateReceived time.Time,
) (*InventoryLayer, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError(shared.CodeInvalidQuantity, "Layer quantity must be positive")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeInvalidQuantity, "Unit cost cannot be negative")
	}
	return &InventoryLayer{
		BaseEntity:        shared.NewBaseEntity(),
		TenantID:          tenantID,
		ItemID:            itemID,
		WarehouseID:       warehouseID,
		QuantityOriginal:  quantity,
		QuantityRemaining: quantity,
		UnitCost:          unitCost,
		DateReceived:      dateReceived,
	}, nil
}

// HasRemaining reports whether the layer still holds undepleted quantity
func (l *InventoryLayer) HasRemaining() bool {
	return l.QuantityRemaining.GreaterThan(decimal.Zero)
}

// Deplete consumes quantity from the layer
func (l *InventoryLayer) Deplete(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError(shared.CodeInvalidQuantity, "Depletion quantity must be positive")
	}
	if quantity.GreaterThan(l.QuantityRemaining) {
		return shared.NewDomainError(shared.CodeInsufficientLayers,
			fmt.Sprintf("Layer %s holds %s, cannot deplete %s",
				l.ID.String(), l.QuantityRemaining.String(), quantity.String()))
	}
	l.QuantityRemaining = l.QuantityRemaining.Sub(quantity)
	l.Touch()
	return nil
}

// LayerConsumption records how much was taken from one layer at what cost
type LayerConsumption struct {
	LayerID      uuid.UUID       `json:"layer_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	Cost         decimal.Decimal `json:"cost"`
	DateReceived time.Time       `json:"date_received"`
}

// DepletionPlan is the result of planning a FIFO depletion before any
// layer is mutated
type DepletionPlan struct {
	Consumptions []LayerConsumption
	TotalCost    decimal.Decimal
}

// PlanDepletion walks the given layers oldest-first and plans how the
// requested quantity would be consumed. Layers are ordered by date
// received, ties broken by creation time so same-day receipts deplete in
// arrival order. Nothing is mutated; the caller applies the plan after
// validating it. Returns INSUFFICIENT_LAYERS when the layers cannot
// cover the full quantity, leaving every layer untouched.
func PlanDepletion(layers []*InventoryLayer, quantity decimal.Decimal) (*DepletionPlan, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError(shared.CodeInvalidQuantity, "Depletion quantity must be positive")
	}

	open := make([]*InventoryLayer, 0, len(layers))
	for _, layer := range layers {
		if layer.HasRemaining() {
			open = append(open, layer)
		}
	}
	sort.SliceStable(open, func(i, j int) bool {
		if !open[i].DateReceived.Equal(open[j].DateReceived) {
			return open[i].DateReceived.Before(open[j].DateReceived)
		}
		return open[i].CreatedAt.Before(open[j].CreatedAt)
	})

	plan := &DepletionPlan{TotalCost: decimal.Zero}
	remaining := quantity
	for _, layer := range open {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		take := decimal.Min(remaining, layer.QuantityRemaining)
		cost := take.Mul(layer.UnitCost)
		plan.Consumptions = append(plan.Consumptions, LayerConsumption{
			LayerID:      layer.ID,
			Quantity:     take,
			UnitCost:     layer.UnitCost,
			Cost:         cost,
			DateReceived: layer.DateReceived,
		})
		plan.TotalCost = plan.TotalCost.Add(cost)
		remaining = remaining.Sub(take)
	}

	if remaining.GreaterThan(decimal.Zero) {
		return nil, shared.NewDomainError(shared.CodeInsufficientLayers,
			fmt.Sprintf("Cost layers cover only %s of requested %s",
				quantity.Sub(remaining).String(), quantity.String()))
	}
	return plan, nil
}

// ApplyDepletion mutates the layers according to a previously computed
// plan. The layer set must be the same one the plan was computed from;
// a missing layer means the rows changed between planning and applying.
func ApplyDepletion(layers []*InventoryLayer, plan *DepletionPlan) error {
	byID := make(map[uuid.UUID]*InventoryLayer, len(layers))
	for _, layer := range layers {
		byID[layer.ID] = layer
	}
	for _, c := range plan.Consumptions {
		layer, ok := byID[c.LayerID]
		if !ok {
			return shared.NewDomainError(shared.CodeInsufficientLayers,
				fmt.Sprintf("Planned layer %s not present when applying depletion", c.LayerID.String()))
		}
		if err := layer.Deplete(c.Quantity); err != nil {
			return err
		}
	}
	return nil
}
