package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"epistock/internal/domain/deliveries"
	"epistock/internal/domain/fichas"
	"epistock/internal/infrastructure/http/v1/dto"
)

// FichaHandler handles HTTP requests for EPI fichas.
type FichaHandler struct {
	*BaseHandler
	service    *fichas.Service
	deliveries *deliveries.Service
}

// NewFichaHandler creates a new ficha handler.
func NewFichaHandler(base *BaseHandler, service *fichas.Service, deliverySvc *deliveries.Service) *FichaHandler {
	return &FichaHandler{BaseHandler: base, service: service, deliveries: deliverySvc}
}

// Create opens a ficha for an employee.
// POST /api/v1/fichas
func (h *FichaHandler) Create(c *gin.Context) {
	var req dto.CreateFichaRequest
	if !h.BindJSON(c, &req) {
		return
	}

	f, err := req.ToEntity()
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Create(c.Request.Context(), f); err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, f)
}

// GetByID returns a ficha.
// GET /api/v1/fichas/:id
func (h *FichaHandler) GetByID(c *gin.Context) {
	fichaID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	f, err := h.service.GetByID(c.Request.Context(), fichaID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, f)
}

// Deactivate closes a ficha for new deliveries.
// POST /api/v1/fichas/:id/deactivate
func (h *FichaHandler) Deactivate(c *gin.Context) {
	fichaID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Deactivate(c.Request.Context(), fichaID); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "ficha deactivated")
}

// List returns fichas; inactive ones only when asked.
// GET /api/v1/fichas
func (h *FichaHandler) List(c *gin.Context) {
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

// Deliveries returns the delivery history of a ficha, newest first.
// GET /api/v1/fichas/:id/deliveries
func (h *FichaHandler) Deliveries(c *gin.Context) {
	fichaID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	list, err := h.deliveries.ListByFicha(c.Request.Context(), fichaID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, list)
}

// PendingReturn reports whether the ficha has overdue units.
// GET /api/v1/fichas/:id/pending-return
func (h *FichaHandler) PendingReturn(c *gin.Context) {
	fichaID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	pending, err := h.deliveries.PendingReturn(c.Request.Context(), fichaID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.PendingReturnResponse{
		FichaID:       fichaID.String(),
		PendingReturn: pending,
	})
}
