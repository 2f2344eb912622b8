package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"epistock/internal/domain/catalogs/equipment"
	"epistock/internal/infrastructure/http/v1/dto"
)

// EquipmentHandler handles HTTP requests for the equipment type catalog.
type EquipmentHandler struct {
	*BaseHandler
	service *equipment.Service
}

// NewEquipmentHandler creates a new equipment handler.
func NewEquipmentHandler(base *BaseHandler, service *equipment.Service) *EquipmentHandler {
	return &EquipmentHandler{BaseHandler: base, service: service}
}

// Create registers an equipment type.
// POST /api/v1/equipment-types
func (h *EquipmentHandler) Create(c *gin.Context) {
	var req dto.CreateEquipmentTypeRequest
	if !h.BindJSON(c, &req) {
		return
	}

	e := req.ToEntity()
	if err := h.service.Create(c.Request.Context(), e); err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

// GetByID returns an equipment type.
// GET /api/v1/equipment-types/:id
func (h *EquipmentHandler) GetByID(c *gin.Context) {
	equipmentTypeID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	e, err := h.service.GetByID(c.Request.Context(), equipmentTypeID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, e)
}

// Update changes mutable equipment type fields.
// PUT /api/v1/equipment-types/:id
func (h *EquipmentHandler) Update(c *gin.Context) {
	equipmentTypeID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateEquipmentTypeRequest
	if !h.BindJSON(c, &req) {
		return
	}

	e, err := h.service.GetByID(c.Request.Context(), equipmentTypeID)
	if err != nil {
		h.Error(c, err)
		return
	}

	req.Apply(e)

	if err := h.service.Update(c.Request.Context(), e); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, e)
}

// List returns equipment types; inactive ones only when asked.
// GET /api/v1/equipment-types
func (h *EquipmentHandler) List(c *gin.Context) {
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
