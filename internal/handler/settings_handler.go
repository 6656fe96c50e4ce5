package handler

import (
	"github.com/gin-gonic/gin"

	"myworld/backend/internal/service"
)

type SettingsHandler struct {
	settingsService *service.SettingsService
}

type setThemeRequest struct {
	Theme string `json:"theme"`
}

func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

func (h *SettingsHandler) GetTheme(c *gin.Context) {
	view, apiErr := h.settingsService.GetTheme(c.Request.Context())
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	writeOK(c, gin.H{"theme": view.Theme})
}

func (h *SettingsHandler) SetTheme(c *gin.Context) {
	var req setThemeRequest
	if !bindJSON(c, &req) {
		return
	}

	view, apiErr := h.settingsService.SetTheme(c.Request.Context(), req.Theme)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	writeOK(c, gin.H{"theme": view.Theme})
}
