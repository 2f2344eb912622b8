package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"epistock/internal/domain/deliveries"
	"epistock/internal/infrastructure/http/v1/dto"
)

// DeliveryHandler handles HTTP requests for equipment deliveries.
type DeliveryHandler struct {
	*BaseHandler
	service *deliveries.Service
}

// NewDeliveryHandler creates a new delivery handler.
func NewDeliveryHandler(base *BaseHandler, service *deliveries.Service) *DeliveryHandler {
	return &DeliveryHandler{BaseHandler: base, service: service}
}

// Issue issues equipment units to an employee.
// POST /api/v1/deliveries
func (h *DeliveryHandler) Issue(c *gin.Context) {
	var req dto.IssueDeliveryRequest
	if !h.BindJSON(c, &req) {
		return
	}

	in, err := req.ToInput()
	if err != nil {
		h.Error(c, err)
		return
	}

	d, err := h.service.Issue(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

// GetByID returns a delivery with its items.
// GET /api/v1/deliveries/:id
func (h *DeliveryHandler) GetByID(c *gin.Context) {
	deliveryID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	d, err := h.service.GetByID(c.Request.Context(), deliveryID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, d)
}

// Sign records the employee signature.
// POST /api/v1/deliveries/:id/sign
func (h *DeliveryHandler) Sign(c *gin.Context) {
	deliveryID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.SignDeliveryRequest
	if !h.BindJSON(c, &req) {
		return
	}

	d, err := h.service.Sign(c.Request.Context(), deliveryID, req.SignatureRef)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, d)
}

// Return processes a batch return of delivered units.
// POST /api/v1/deliveries/:id/return
func (h *DeliveryHandler) Return(c *gin.Context) {
	deliveryID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.ReturnDeliveryRequest
	if !h.BindJSON(c, &req) {
		return
	}

	in, err := req.ToInput(deliveryID)
	if err != nil {
		h.Error(c, err)
		return
	}

	result, err := h.service.ProcessReturn(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}

// Cancel cancels a delivery and restocks units still with the employee.
// POST /api/v1/deliveries/:id/cancel
func (h *DeliveryHandler) Cancel(c *gin.Context) {
	deliveryID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.CancelDeliveryRequest
	if !h.BindJSON(c, &req) {
		return
	}

	d, err := h.service.Cancel(c.Request.Context(), deliveryID, req.Reason)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, d)
}
