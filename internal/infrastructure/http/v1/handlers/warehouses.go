package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"epistock/internal/domain/catalogs/warehouse"
	"epistock/internal/infrastructure/http/v1/dto"
)

// WarehouseHandler handles HTTP requests for the warehouse catalog.
type WarehouseHandler struct {
	*BaseHandler
	service *warehouse.Service
}

// NewWarehouseHandler creates a new warehouse handler.
func NewWarehouseHandler(base *BaseHandler, service *warehouse.Service) *WarehouseHandler {
	return &WarehouseHandler{BaseHandler: base, service: service}
}

// Create registers a warehouse.
// POST /api/v1/warehouses
func (h *WarehouseHandler) Create(c *gin.Context) {
	var req dto.CreateWarehouseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	w := req.ToEntity()
	if err := h.service.Create(c.Request.Context(), w); err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, w)
}

// GetByID returns a warehouse.
// GET /api/v1/warehouses/:id
func (h *WarehouseHandler) GetByID(c *gin.Context) {
	warehouseID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	w, err := h.service.GetByID(c.Request.Context(), warehouseID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, w)
}

// Update changes mutable warehouse fields.
// PUT /api/v1/warehouses/:id
func (h *WarehouseHandler) Update(c *gin.Context) {
	warehouseID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateWarehouseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	w, err := h.service.GetByID(c.Request.Context(), warehouseID)
	if err != nil {
		h.Error(c, err)
		return
	}

	req.Apply(w)

	if err := h.service.Update(c.Request.Context(), w); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, w)
}

// List returns warehouses; inactive ones only when asked.
// GET /api/v1/warehouses
func (h *WarehouseHandler) List(c *gin.Context) {
	var req dto.ListCatalogRequest
	if !h.BindQuery(c, &req) {
		return
	}

	list, err := h.service.List(c.Request.Context(), req.IncludeInactive)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, list)
}
