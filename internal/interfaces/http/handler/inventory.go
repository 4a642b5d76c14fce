package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	inventoryapp "github.com/wms/backend/internal/application/inventory"
	"github.com/wms/backend/internal/interfaces/http/dto"
)

// parseDateTime parses a datetime string in the formats clients send
func parseDateTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", s)
}

// InventoryHandler handles inventory API endpoints
type InventoryHandler struct {
	BaseHandler
	inventoryService *inventoryapp.InventoryService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(inventoryService *inventoryapp.InventoryService) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventoryService,
	}
}

// RegisterRoutes registers inventory routes on the given group
func (h *InventoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	inv := rg.Group("/inventory")
	{
		inv.POST("/receipts", h.Receive)
		inv.POST("/stock-receipts", h.ReceiveStock)
		inv.POST("/allocations", h.Allocate)
		inv.POST("/deallocations", h.Deallocate)
		inv.POST("/issues", h.Issue)
		inv.POST("/adjustments", h.Adjust)
		inv.POST("/shipments", h.Ship)
		inv.POST("/transfers", h.Transfer)
		inv.POST("/on-order", h.AddOnOrder)
		inv.POST("/on-order/removals", h.RemoveOnOrder)
		inv.POST("/recalculations", h.Recalculate)

		inv.GET("/balances", h.ListBalances)
		inv.GET("/balance", h.GetBalance)
		inv.GET("/availability", h.GetAvailable)
		inv.GET("/transactions", h.ListTransactions)
		inv.GET("/lots", h.ListLots)
		inv.GET("/layers", h.ListLayers)
	}
}

// ReceiveRequest is the request body for receiving stock
type ReceiveRequest struct {
	ItemID           string   `json:"item_id" binding:"required,uuid"`
	WarehouseID      string   `json:"warehouse_id" binding:"required,uuid"`
	Quantity         string   `json:"quantity" binding:"required"`
	UnitCost         string   `json:"unit_cost" binding:"required"`
	LotNumber        string   `json:"lot_number"`
	VendorID         string   `json:"vendor_id" binding:"omitempty,uuid"`
	PalletQuantities []string `json:"pallet_quantities"`
	ReferenceType    string   `json:"reference_type"`
	ReferenceNumber  string   `json:"reference_number"`
	ReceivedAt       string   `json:"received_at"`
}

func (h *InventoryHandler) buildReceiveCommand(c *gin.Context, req ReceiveRequest) (*inventoryapp.ReceiveInventoryCommand, bool) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return nil, false
	}
	quantity, err := decimal.NewFromString(req.Quantity)
	if err != nil {
		h.BadRequest(c, "Invalid quantity")
		return nil, false
	}
	unitCost, err := decimal.NewFromString(req.UnitCost)
	if err != nil {
		h.BadRequest(c, "Invalid unit cost")
		return nil, false
	}

	cmd := inventoryapp.ReceiveInventoryCommand{
		TenantID:        tenantID,
		ItemID:          uuid.MustParse(req.ItemID),
		WarehouseID:     uuid.MustParse(req.WarehouseID),
		Quantity:        quantity,
		UnitCost:        unitCost,
		LotNumber:       req.LotNumber,
		ReferenceType:   req.ReferenceType,
		ReferenceNumber: req.ReferenceNumber,
		OperatorID:      getOperatorID(c),
	}
	if req.VendorID != "" {
		vendorID := uuid.MustParse(req.VendorID)
		cmd.VendorID = &vendorID
	}
	for _, raw := range req.PalletQuantities {
		qty, err := decimal.NewFromString(raw)
		if err != nil {
			h.BadRequest(c, "Invalid pallet quantity")
			return nil, false
		}
		cmd.PalletQuantities = append(cmd.PalletQuantities, qty)
	}
	if req.ReceivedAt != "" {
		receivedAt, err := parseDateTime(req.ReceivedAt)
		if err != nil {
			h.BadRequest(c, "Invalid received_at date")
			return nil, false
		}
		cmd.ReceivedAt = &receivedAt
	}
	return &cmd, true
}

// Receive records a physical receipt without cost layers
func (h *InventoryHandler) Receive(c *gin.Context) {
	var req ReceiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	cmd, ok := h.buildReceiveCommand(c, req)
	if !ok {
		return
	}

	result, err := h.inventoryService.ReceiveInventory(c.Request.Context(), *cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// ReceiveStock records a costed receipt: a FIFO cost layer is opened and
// a balanced journal entry is posted alongside the balance update
func (h *InventoryHandler) ReceiveStock(c *gin.Context) {
	var req ReceiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	cmd, ok := h.buildReceiveCommand(c, req)
	if !ok {
		return
	}

	result, err := h.inventoryService.ReceiveStock(c.Request.Context(),
		inventoryapp.ReceiveStockCommand{ReceiveInventoryCommand: *cmd})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// StockOperationRequest is the request body for allocate, deallocate,
// issue and on-order moves
type StockOperationRequest struct {
	ItemID          string `json:"item_id" binding:"required,uuid"`
	WarehouseID     string `json:"warehouse_id" binding:"required,uuid"`
	Quantity        string `json:"quantity" binding:"required"`
	ReferenceType   string `json:"reference_type"`
	ReferenceNumber string `json:"reference_number"`
}

func (h *InventoryHandler) buildStockOperationCommand(c *gin.Context, req StockOperationRequest) (*inventoryapp.StockOperationCommand, bool) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return nil, false
	}
	quantity, err := decimal.NewFromString(req.Quantity)
	if err != nil {
		h.BadRequest(c, "Invalid quantity")
		return nil, false
	}
	return &inventoryapp.StockOperationCommand{
		TenantID:        tenantID,
		ItemID:          uuid.MustParse(req.ItemID),
		WarehouseID:     uuid.MustParse(req.WarehouseID),
		Quantity:        quantity,
		ReferenceType:   req.ReferenceType,
		ReferenceNumber: req.ReferenceNumber,
		OperatorID:      getOperatorID(c),
	}, true
}

type stockOperation func(c *gin.Context, cmd inventoryapp.StockOperationCommand) (*inventoryapp.BalanceDTO, error)

func (h *InventoryHandler) handleStockOperation(c *gin.Context, op stockOperation) {
	var req StockOperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	cmd, ok := h.buildStockOperationCommand(c, req)
	if !ok {
		return
	}

	balance, err := op(c, *cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, balance)
}

// Allocate reserves on-hand stock for an order
func (h *InventoryHandler) Allocate(c *gin.Context) {
	h.handleStockOperation(c, func(c *gin.Context, cmd inventoryapp.StockOperationCommand) (*inventoryapp.BalanceDTO, error) {
		return h.inventoryService.AllocateInventory(c.Request.Context(), cmd)
	})
}

// Deallocate releases a previous reservation
func (h *InventoryHandler) Deallocate(c *gin.Context) {
	h.handleStockOperation(c, func(c *gin.Context, cmd inventoryapp.StockOperationCommand) (*inventoryapp.BalanceDTO, error) {
		return h.inventoryService.DeallocateInventory(c.Request.Context(), cmd)
	})
}

// Issue removes on-hand stock without touching cost layers
func (h *InventoryHandler) Issue(c *gin.Context) {
	h.handleStockOperation(c, func(c *gin.Context, cmd inventoryapp.StockOperationCommand) (*inventoryapp.BalanceDTO, error) {
		return h.inventoryService.IssueInventory(c.Request.Context(), cmd)
	})
}

// AddOnOrder increases the expected inbound quantity
func (h *InventoryHandler) AddOnOrder(c *gin.Context) {
	h.handleStockOperation(c, func(c *gin.Context, cmd inventoryapp.StockOperationCommand) (*inventoryapp.BalanceDTO, error) {
		return h.inventoryService.AddOnOrder(c.Request.Context(), cmd)
	})
}

// RemoveOnOrder decreases the expected inbound quantity
func (h *InventoryHandler) RemoveOnOrder(c *gin.Context) {
	h.handleStockOperation(c, func(c *gin.Context, cmd inventoryapp.StockOperationCommand) (*inventoryapp.BalanceDTO, error) {
		return h.inventoryService.RemoveOnOrder(c.Request.Context(), cmd)
	})
}

// AdjustRequest is the request body for a signed stock correction
type AdjustRequest struct {
	ItemID         string `json:"item_id" binding:"required,uuid"`
	WarehouseID    string `json:"warehouse_id" binding:"required,uuid"`
	QuantityChange string `json:"quantity_change" binding:"required"`
	Reason         string `json:"reason" binding:"required,min=1,max=255"`
}

// Adjust applies a signed on-hand correction from a stock count
func (h *InventoryHandler) Adjust(c *gin.Context) {
	var req AdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	change, err := decimal.NewFromString(req.QuantityChange)
	if err != nil {
		h.BadRequest(c, "Invalid quantity change")
		return
	}

	balance, err := h.inventoryService.AdjustInventory(c.Request.Context(), inventoryapp.AdjustInventoryCommand{
		TenantID:       tenantID,
		ItemID:         uuid.MustParse(req.ItemID),
		WarehouseID:    uuid.MustParse(req.WarehouseID),
		QuantityChange: change,
		Reason:         req.Reason,
		OperatorID:     getOperatorID(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, balance)
}

// Ship issues stock with FIFO costing and reports the cost of goods sold
func (h *InventoryHandler) Ship(c *gin.Context) {
	var req StockOperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	cmd, ok := h.buildStockOperationCommand(c, req)
	if !ok {
		return
	}

	result, err := h.inventoryService.ShipStock(c.Request.Context(), inventoryapp.ShipStockCommand{
		TenantID:        cmd.TenantID,
		ItemID:          cmd.ItemID,
		WarehouseID:     cmd.WarehouseID,
		Quantity:        cmd.Quantity,
		ReferenceType:   cmd.ReferenceType,
		ReferenceNumber: cmd.ReferenceNumber,
		OperatorID:      cmd.OperatorID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// TransferRequest is the request body for a warehouse transfer
type TransferRequest struct {
	ItemID          string `json:"item_id" binding:"required,uuid"`
	FromWarehouseID string `json:"from_warehouse_id" binding:"required,uuid"`
	ToWarehouseID   string `json:"to_warehouse_id" binding:"required,uuid"`
	Quantity        string `json:"quantity" binding:"required"`
	ReferenceType   string `json:"reference_type"`
	ReferenceNumber string `json:"reference_number"`
}

// Transfer moves stock between two warehouses in one transaction
func (h *InventoryHandler) Transfer(c *gin.Context) {
	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}
	quantity, err := decimal.NewFromString(req.Quantity)
	if err != nil {
		h.BadRequest(c, "Invalid quantity")
		return
	}

	result, err := h.inventoryService.TransferInventory(c.Request.Context(), inventoryapp.TransferInventoryCommand{
		TenantID:        tenantID,
		ItemID:          uuid.MustParse(req.ItemID),
		FromWarehouseID: uuid.MustParse(req.FromWarehouseID),
		ToWarehouseID:   uuid.MustParse(req.ToWarehouseID),
		Quantity:        quantity,
		ReferenceType:   req.ReferenceType,
		ReferenceNumber: req.ReferenceNumber,
		OperatorID:      getOperatorID(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// BalanceKeyRequest identifies one balance by item and warehouse
type BalanceKeyRequest struct {
	ItemID      string `form:"item_id" json:"item_id" binding:"required,uuid"`
	WarehouseID string `form:"warehouse_id" json:"warehouse_id" binding:"required,uuid"`
}

// Recalculate replays the ledger and overwrites the stored balance
func (h *InventoryHandler) Recalculate(c *gin.Context) {
	var req BalanceKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	balance, err := h.inventoryService.RecalculateBalance(c.Request.Context(),
		tenantID, uuid.MustParse(req.ItemID), uuid.MustParse(req.WarehouseID))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, balance)
}

// GetBalance returns the balance for one item and warehouse
func (h *InventoryHandler) GetBalance(c *gin.Context) {
	var req BalanceKeyRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	balance, err := h.inventoryService.GetBalance(c.Request.Context(),
		tenantID, uuid.MustParse(req.ItemID), uuid.MustParse(req.WarehouseID))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, balance)
}

// GetAvailable returns the quantity free to promise
func (h *InventoryHandler) GetAvailable(c *gin.Context) {
	var req BalanceKeyRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	available, err := h.inventoryService.GetAvailable(c.Request.Context(),
		tenantID, uuid.MustParse(req.ItemID), uuid.MustParse(req.WarehouseID))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"available": available})
}

// ListBalancesRequest carries balance list filters
type ListBalancesRequest struct {
	dto.ListRequest
	ItemID      string `form:"item_id" binding:"omitempty,uuid"`
	WarehouseID string `form:"warehouse_id" binding:"omitempty,uuid"`
}

// ListBalances returns a page of balances for the tenant
func (h *InventoryHandler) ListBalances(c *gin.Context) {
	var req ListBalancesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	filter := buildFilter(req.ListRequest)
	if req.ItemID != "" {
		filter.Filters["item_id"] = req.ItemID
	}
	if req.WarehouseID != "" {
		filter.Filters["warehouse_id"] = req.WarehouseID
	}

	result, err := h.inventoryService.ListBalances(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// ListTransactionsRequest carries ledger list filters
type ListTransactionsRequest struct {
	dto.ListRequest
	ItemID          string `form:"item_id" binding:"required,uuid"`
	WarehouseID     string `form:"warehouse_id" binding:"required,uuid"`
	Type            string `form:"type"`
	ReferenceNumber string `form:"reference_number"`
}

// ListTransactions returns a page of ledger rows for one balance
func (h *InventoryHandler) ListTransactions(c *gin.Context) {
	var req ListTransactionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	filter := buildFilter(req.ListRequest)
	if req.Type != "" {
		filter.Filters["type"] = req.Type
	}
	if req.ReferenceNumber != "" {
		filter.Filters["reference_number"] = req.ReferenceNumber
	}

	result, err := h.inventoryService.ListTransactions(c.Request.Context(),
		tenantID, uuid.MustParse(req.ItemID), uuid.MustParse(req.WarehouseID), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// ListLotsRequest carries lot list filters
type ListLotsRequest struct {
	dto.ListRequest
	ItemID      string `form:"item_id" binding:"required,uuid"`
	WarehouseID string `form:"warehouse_id" binding:"omitempty,uuid"`
}

// ListLots returns a page of lots for one item, optionally scoped to a warehouse
func (h *InventoryHandler) ListLots(c *gin.Context) {
	var req ListLotsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	var warehouseID *uuid.UUID
	if req.WarehouseID != "" {
		id := uuid.MustParse(req.WarehouseID)
		warehouseID = &id
	}

	result, err := h.inventoryService.GetLotsForItem(c.Request.Context(),
		tenantID, uuid.MustParse(req.ItemID), warehouseID, buildFilter(req.ListRequest))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// ListLayersRequest carries cost layer list filters
type ListLayersRequest struct {
	dto.ListRequest
	ItemID      string `form:"item_id" binding:"required,uuid"`
	WarehouseID string `form:"warehouse_id" binding:"required,uuid"`
	OpenOnly    bool   `form:"open_only"`
}

// ListLayers returns a page of FIFO cost layers for one balance
func (h *InventoryHandler) ListLayers(c *gin.Context) {
	var req ListLayersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	filter := buildFilter(req.ListRequest)
	if req.OpenOnly {
		filter.Filters["open_only"] = true
	}

	result, err := h.inventoryService.ListLayers(c.Request.Context(),
		tenantID, uuid.MustParse(req.ItemID), uuid.MustParse(req.WarehouseID), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}
