package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"epistock/internal/domain/policy"
	"epistock/internal/infrastructure/http/v1/dto"
)

// SettingsStore reads and writes the persisted policy flags.
type SettingsStore interface {
	Load(ctx context.Context) (policy.Config, error)
	Save(ctx context.Context, cfg policy.Config) error
}

// SettingsHandler handles HTTP requests for the stock-control settings.
type SettingsHandler struct {
	*BaseHandler
	store SettingsStore
}

// NewSettingsHandler creates a new settings handler.
func NewSettingsHandler(base *BaseHandler, store SettingsStore) *SettingsHandler {
	return &SettingsHandler{BaseHandler: base, store: store}
}

// Get returns the current policy flags.
// GET /api/v1/settings
func (h *SettingsHandler) Get(c *gin.Context) {
	cfg, err := h.store.Load(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewSettingsResponse(cfg))
}

// Update replaces the policy flags. Running operations are unaffected;
// each one resolves a fresh snapshot at its start.
// PUT /api/v1/settings
func (h *SettingsHandler) Update(c *gin.Context) {
	var req dto.UpdateSettingsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	cfg := req.ToConfig()
	if err := h.store.Save(c.Request.Context(), cfg); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewSettingsResponse(cfg))
}
