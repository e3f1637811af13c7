package handler

import (
	"github.com/auctionhouse/backend/internal/application/intake"
	"github.com/auctionhouse/backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// IntakeHandler handles batch intake API endpoints
type IntakeHandler struct {
	BaseHandler
	service *intake.Service
}

// NewIntakeHandler creates a new IntakeHandler
func NewIntakeHandler(service *intake.Service) *IntakeHandler {
	return &IntakeHandler{service: service}
}

// RegisterRoutes registers intake routes on the API group
func (h *IntakeHandler) RegisterRoutes(rg *gin.RouterGroup) {
	items := rg.Group("/items")
	{
		items.POST("/generate", h.GenerateItems)
		items.DELETE("/:code", h.DeleteItem)
	}
	rg.GET("/consignors/next-code", h.NextConsignorCode)
	rg.GET("/batches/:date/:consignor/items", h.ListBatchItems)
}

// GenerateItems handles POST /api/v1/items/generate
// Creates numbered item codes for one consignor's intake of the day. The
// operation is idempotent: codes that already exist are skipped.
func (h *IntakeHandler) GenerateItems(c *gin.Context) {
	var req intake.GenerateItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.service.GenerateItems(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	logger.GetGinLogger(c).Info("items generated",
		zap.String("batch_code", result.BatchCode),
		zap.Int("created", result.Created))
	h.Created(c, result)
}

// DeleteItem handles DELETE /api/v1/items/:code
func (h *IntakeHandler) DeleteItem(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		h.BadRequest(c, "item code is required")
		return
	}

	if err := h.service.DeleteItem(c.Request.Context(), code); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"item_code": code})
}

// NextConsignorCode handles GET /api/v1/consignors/next-code
// Returns the next free code in the A, B, ..., Z, AA, AB sequence.
func (h *IntakeHandler) NextConsignorCode(c *gin.Context) {
	code, err := h.service.NextConsignorCode(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"next_code": code})
}

// ListBatchItems handles GET /api/v1/batches/:date/:consignor/items
// Rows come back in natural code order, not lexicographic order.
func (h *IntakeHandler) ListBatchItems(c *gin.Context) {
	rows, err := h.service.ListBatchItems(c.Request.Context(), c.Param("date"), c.Param("consignor"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}
