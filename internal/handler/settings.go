package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"billiard/internal/service"
)

// SettingsHandler handles HTTP requests for shop settings.
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// Get handles GET /v1/settings
func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.settingsService.Get(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toSettingsResponse(settings))
}

// Update handles PUT /v1/settings
func (h *SettingsHandler) Update(c *gin.Context) {
	settings, err := h.settingsService.Update(c.Request.Context(), bindObject(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toSettingsResponse(settings))
}
