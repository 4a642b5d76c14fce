package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pricingapp "github.com/wms/backend/internal/application/pricing"
	"github.com/wms/backend/internal/domain/pricing"
	"github.com/wms/backend/internal/interfaces/http/dto"
)

// PricingHandler handles price list and price resolution endpoints
type PricingHandler struct {
	BaseHandler
	pricingService *pricingapp.PricingService
}

// NewPricingHandler creates a new PricingHandler
func NewPricingHandler(pricingService *pricingapp.PricingService) *PricingHandler {
	return &PricingHandler{
		pricingService: pricingService,
	}
}

// RegisterRoutes registers pricing routes on the given group
func (h *PricingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	pr := rg.Group("/pricing")
	{
		pr.POST("/price-lists", h.CreatePriceList)
		pr.GET("/price-lists", h.ListPriceLists)
		pr.GET("/price-lists/:id", h.GetPriceList)
		pr.POST("/price-lists/:id/deactivate", h.DeactivatePriceList)

		pr.GET("/quote", h.GetPrice)
		pr.GET("/quantity-breaks", h.GetQuantityBreaks)
		pr.GET("/line-total", h.CalculateLineTotal)
	}
}

// PriceTierRequest is one quantity break in a price list request
type PriceTierRequest struct {
	MinQuantity string `json:"min_quantity" binding:"required"`
	UnitPrice   string `json:"unit_price" binding:"required"`
}

// CreatePriceListRequest is the request body for creating a price list
type CreatePriceListRequest struct {
	CustomerID string             `json:"customer_id" binding:"required,uuid"`
	ItemID     string             `json:"item_id" binding:"required,uuid"`
	BeginDate  string             `json:"begin_date" binding:"required"`
	EndDate    string             `json:"end_date"`
	Tiers      []PriceTierRequest `json:"tiers" binding:"required,min=1,dive"`
}

// CreatePriceList creates a dated price agreement with quantity breaks
func (h *PricingHandler) CreatePriceList(c *gin.Context) {
	var req CreatePriceListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	beginDate, err := parseDateTime(req.BeginDate)
	if err != nil {
		h.BadRequest(c, "Invalid begin date")
		return
	}
	var endDate *time.Time
	if req.EndDate != "" {
		parsed, err := parseDateTime(req.EndDate)
		if err != nil {
			h.BadRequest(c, "Invalid end date")
			return
		}
		endDate = &parsed
	}

	tiers := make([]pricing.Tier, 0, len(req.Tiers))
	for _, tier := range req.Tiers {
		minQty, err := decimal.NewFromString(tier.MinQuantity)
		if err != nil {
			h.BadRequest(c, "Invalid tier minimum quantity")
			return
		}
		unitPrice, err := decimal.NewFromString(tier.UnitPrice)
		if err != nil {
			h.BadRequest(c, "Invalid tier unit price")
			return
		}
		tiers = append(tiers, pricing.Tier{MinQuantity: minQty, UnitPrice: unitPrice})
	}

	result, err := h.pricingService.CreatePriceList(c.Request.Context(), pricingapp.CreatePriceListCommand{
		TenantID:   tenantID,
		CustomerID: uuid.MustParse(req.CustomerID),
		ItemID:     uuid.MustParse(req.ItemID),
		BeginDate:  beginDate,
		EndDate:    endDate,
		Tiers:      tiers,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// GetPriceList returns one price list with its tiers
func (h *PricingHandler) GetPriceList(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	result, err := h.pricingService.GetPriceList(c.Request.Context(), tenantID, uuid.MustParse(req.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// DeactivatePriceList retires a price list from resolution
func (h *PricingHandler) DeactivatePriceList(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	if err := h.pricingService.DeactivatePriceList(c.Request.Context(), tenantID, uuid.MustParse(req.ID)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListPriceListsRequest carries price list filters
type ListPriceListsRequest struct {
	dto.ListRequest
	CustomerID string `form:"customer_id" binding:"omitempty,uuid"`
	ItemID     string `form:"item_id" binding:"omitempty,uuid"`
	ActiveOnly bool   `form:"active_only"`
}

// ListPriceLists returns a page of price lists for the tenant
func (h *PricingHandler) ListPriceLists(c *gin.Context) {
	var req ListPriceListsRequest
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
	if req.CustomerID != "" {
		filter.Filters["customer_id"] = req.CustomerID
	}
	if req.ItemID != "" {
		filter.Filters["item_id"] = req.ItemID
	}
	if req.ActiveOnly {
		filter.Filters["is_active"] = true
	}

	result, err := h.pricingService.ListPriceLists(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// PriceQueryRequest identifies a price resolution query
type PriceQueryRequest struct {
	CustomerID string `form:"customer_id" binding:"required,uuid"`
	ItemID     string `form:"item_id" binding:"required,uuid"`
	Quantity   string `form:"quantity"`
	Date       string `form:"date"`
}

func (h *PricingHandler) parsePriceQuery(c *gin.Context) (tenantID, customerID, itemID uuid.UUID, quantity decimal.Decimal, date *time.Time, ok bool) {
	var req PriceQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	quantity = decimal.NewFromInt(1)
	if req.Quantity != "" {
		quantity, err = decimal.NewFromString(req.Quantity)
		if err != nil {
			h.BadRequest(c, "Invalid quantity")
			return
		}
	}
	if req.Date != "" {
		parsed, err := parseDateTime(req.Date)
		if err != nil {
			h.BadRequest(c, "Invalid date")
			return
		}
		date = &parsed
	}
	return tenantID, uuid.MustParse(req.CustomerID), uuid.MustParse(req.ItemID), quantity, date, true
}

// GetPrice resolves the unit price for a customer, item, quantity and date
func (h *PricingHandler) GetPrice(c *gin.Context) {
	tenantID, customerID, itemID, quantity, date, ok := h.parsePriceQuery(c)
	if !ok {
		return
	}

	quote, err := h.pricingService.GetPrice(c.Request.Context(), tenantID, customerID, itemID, quantity, date)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quote)
}

// GetQuantityBreaks returns all tiers of the list covering a date
func (h *PricingHandler) GetQuantityBreaks(c *gin.Context) {
	tenantID, customerID, itemID, _, date, ok := h.parsePriceQuery(c)
	if !ok {
		return
	}

	tiers, err := h.pricingService.GetAllQuantityBreaks(c.Request.Context(), tenantID, customerID, itemID, date)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tiers)
}

// CalculateLineTotal resolves the price and multiplies by the quantity
func (h *PricingHandler) CalculateLineTotal(c *gin.Context) {
	tenantID, customerID, itemID, quantity, date, ok := h.parsePriceQuery(c)
	if !ok {
		return
	}

	total, err := h.pricingService.CalculateLineTotal(c.Request.Context(), tenantID, customerID, itemID, quantity, date)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"quantity": quantity, "line_total": total})
}
