package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"epistock/internal/domain/notes"
	"epistock/internal/infrastructure/http/v1/dto"
)

// NoteHandler handles HTTP requests for movement notes.
type NoteHandler struct {
	*BaseHandler
	service *notes.Service
}

// NewNoteHandler creates a new note handler.
func NewNoteHandler(base *BaseHandler, service *notes.Service) *NoteHandler {
	return &NoteHandler{BaseHandler: base, service: service}
}

// Create creates a draft note.
// POST /api/v1/notes
func (h *NoteHandler) Create(c *gin.Context) {
	var req dto.CreateNoteRequest
	if !h.BindJSON(c, &req) {
		return
	}

	n, err := req.ToEntity()
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Create(c.Request.Context(), n); err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, n)
}

// GetByID returns a note with its items.
// GET /api/v1/notes/:id
func (h *NoteHandler) GetByID(c *gin.Context) {
	noteID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	n, err := h.service.GetByID(c.Request.Context(), noteID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, n)
}

// List returns notes matching the filter.
// GET /api/v1/notes
func (h *NoteHandler) List(c *gin.Context) {
	var req dto.ListNotesRequest
	if !h.BindQuery(c, &req) {
		return
	}

	filter, err := req.ToFilter()
	if err != nil {
		h.Error(c, err)
		return
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}

// AddItem appends an item to a draft note.
// POST /api/v1/notes/:id/items
func (h *NoteHandler) AddItem(c *gin.Context) {
	noteID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.AddNoteItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	item, err := req.ToEntity()
	if err != nil {
		h.Error(c, err)
		return
	}

	created, err := h.service.AddItem(c.Request.Context(), noteID, item)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, created)
}

// RemoveItem removes an item from a draft note.
// DELETE /api/v1/notes/:id/items/:itemId
func (h *NoteHandler) RemoveItem(c *gin.Context) {
	noteID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	itemID, ok := h.ParseID(c, "itemId")
	if !ok {
		return
	}

	if err := h.service.RemoveItem(c.Request.Context(), noteID, itemID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// Conclude applies the note to the stock ledger.
// POST /api/v1/notes/:id/conclude
func (h *NoteHandler) Conclude(c *gin.Context) {
	noteID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	result, err := h.service.Conclude(c.Request.Context(), noteID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}

// Cancel cancels a note, reversing its movements when concluded.
// POST /api/v1/notes/:id/cancel
func (h *NoteHandler) Cancel(c *gin.Context) {
	noteID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.CancelNoteRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.service.Cancel(c.Request.Context(), noteID, req.Reason)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}
