package handlers

import (
	"github.com/gin-gonic/gin"

	"epistock/internal/core/apperror"
	"epistock/internal/core/id"
	"epistock/internal/domain/stock"
	"epistock/internal/infrastructure/http/v1/dto"
)

// StockHandler handles HTTP requests for balances, adjustments and
// movement history.
type StockHandler struct {
	*BaseHandler
	service *stock.Service
}

// NewStockHandler creates a new stock handler.
func NewStockHandler(base *BaseHandler, service *stock.Service) *StockHandler {
	return &StockHandler{BaseHandler: base, service: service}
}

// Balance returns one balance cell.
// GET /api/v1/stock/balance
func (h *StockHandler) Balance(c *gin.Context) {
	var req dto.BalanceRequest
	if !h.BindQuery(c, &req) {
		return
	}

	key, err := req.ToKey()
	if err != nil {
		h.Error(c, err)
		return
	}

	item, err := h.service.Balance(c.Request.Context(), key)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, item)
}

// WarehouseBalances returns every non-zero balance of a warehouse.
// GET /api/v1/stock/warehouses/:id/balances
func (h *StockHandler) WarehouseBalances(c *gin.Context) {
	warehouseID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	items, err := h.service.WarehouseBalances(c.Request.Context(), warehouseID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, items)
}

// ItemHistory returns the movement history of a balance cell, newest first.
// GET /api/v1/stock/items/:id/movements
func (h *StockHandler) ItemHistory(c *gin.Context) {
	itemID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.PaginationRequest
	if !h.BindQuery(c, &req) {
		return
	}
	req.Defaults()

	movements, err := h.service.ItemHistory(c.Request.Context(), itemID, req.PageSize, req.Offset())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, movements)
}

// Adjust records a forced balance adjustment.
// POST /api/v1/stock/adjustments
func (h *StockHandler) Adjust(c *gin.Context) {
	var req dto.AdjustmentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	in, err := req.ToInput()
	if err != nil {
		h.Error(c, err)
		return
	}

	movement, err := h.service.Adjust(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, movement)
}

// ReverseMovement reverses a single posted movement.
// POST /api/v1/stock/movements/:id/reverse
func (h *StockHandler) ReverseMovement(c *gin.Context) {
	movementID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.ReverseMovementRequest
	if !h.BindJSON(c, &req) {
		return
	}

	responsibleID, err := id.Parse(req.ResponsibleID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid responsible id"))
		return
	}

	movement, err := h.service.ReverseMovement(c.Request.Context(), movementID, responsibleID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, movement)
}
