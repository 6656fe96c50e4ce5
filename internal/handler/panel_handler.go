package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"myworld/backend/internal/service"
)

type PanelHandler struct {
	panelService *service.PanelService
}

func NewPanelHandler(panelService *service.PanelService) *PanelHandler {
	return &PanelHandler{panelService: panelService}
}

func (h *PanelHandler) List(c *gin.Context) {
	records, apiErr := h.panelService.List(c.Request.Context(), c.Param("panel"))
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	writeOK(c, gin.H{"records": records})
}

func (h *PanelHandler) Create(c *gin.Context) {
	var fields map[string]any
	if !bindJSON(c, &fields) {
		return
	}

	record, apiErr := h.panelService.Create(c.Request.Context(), c.Param("panel"), fields)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"record": record})
}

func (h *PanelHandler) Update(c *gin.Context) {
	var fields map[string]any
	if !bindJSON(c, &fields) {
		return
	}

	record, apiErr := h.panelService.Update(c.Request.Context(), c.Param("panel"), c.Param("id"), fields)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	writeOK(c, gin.H{"record": record})
}

func (h *PanelHandler) ToggleCheck(c *gin.Context) {
	record, apiErr := h.panelService.ToggleCheck(c.Request.Context(), c.Param("panel"), c.Param("id"), c.Param("date"))
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	writeOK(c, gin.H{"record": record})
}

func (h *PanelHandler) Delete(c *gin.Context) {
	if apiErr := h.panelService.Delete(c.Request.Context(), c.Param("panel"), c.Param("id")); apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.Status(http.StatusNoContent)
}
