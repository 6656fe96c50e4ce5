package handler

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"

	"myworld/backend/internal/model"
	"myworld/backend/internal/service"
)

type PomodoroHandler struct {
	pomodoroService *service.PomodoroService
}

type switchPhaseRequest struct {
	Phase string `json:"phase"`
}

func NewPomodoroHandler(pomodoroService *service.PomodoroService) *PomodoroHandler {
	return &PomodoroHandler{pomodoroService: pomodoroService}
}

func (h *PomodoroHandler) GetState(c *gin.Context) {
	state, apiErr := h.pomodoroService.GetState(c.Request.Context())
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	writeOK(c, gin.H{"state": state})
}

func (h *PomodoroHandler) Start(c *gin.Context) {
	state, apiErr := h.pomodoroService.Start(c.Request.Context())
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	writeOK(c, gin.H{"state": state})
}

func (h *PomodoroHandler) Pause(c *gin.Context) {
	state, apiErr := h.pomodoroService.Pause(c.Request.Context())
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	writeOK(c, gin.H{"state": state})
}

func (h *PomodoroHandler) Reset(c *gin.Context) {
	state, apiErr := h.pomodoroService.Reset(c.Request.Context())
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	writeOK(c, gin.H{"state": state})
}

func (h *PomodoroHandler) SwitchPhase(c *gin.Context) {
	var req switchPhaseRequest
	if !bindJSON(c, &req) {
		return
	}

	state, apiErr := h.pomodoroService.SwitchPhase(c.Request.Context(), req.Phase)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	writeOK(c, gin.H{"state": state})
}

// UpdateDurations accepts minutes as numbers or numeric strings. Fields that
// are missing or not numeric leave the current value untouched.
func (h *PomodoroHandler) UpdateDurations(c *gin.Context) {
	var req map[string]any
	if !bindJSON(c, &req) {
		return
	}

	state, apiErr := h.pomodoroService.UpdateDurations(c.Request.Context(), service.UpdateDurationsInput{
		Work:       minutesField(req, "work"),
		ShortBreak: minutesField(req, "shortBreak"),
		LongBreak:  minutesField(req, "longBreak"),
	})
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	writeOK(c, gin.H{"state": state})
}

func (h *PomodoroHandler) GetHistory(c *gin.Context) {
	limit := 0
	if rawLimit := c.Query("limit"); rawLimit != "" {
		if parsed, err := strconv.Atoi(rawLimit); err == nil {
			limit = parsed
		}
	}

	loc := time.Local
	if tz := c.Query("tz"); tz != "" {
		if parsed, err := time.LoadLocation(tz); err == nil {
			loc = parsed
		}
	}

	entries, apiErr := h.pomodoroService.GetHistory(c.Request.Context(), limit, loc)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	writeOK(c, gin.H{"entries": entries})
}

func (h *PomodoroHandler) ClearHistory(c *gin.Context) {
	if apiErr := h.pomodoroService.ClearHistory(c.Request.Context()); apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.Status(http.StatusNoContent)
}

// minutesField reads a minute count given as a JSON number or a decimal
// string. Out-of-range values are clamped before the int conversion so huge
// numbers cannot wrap around.
func minutesField(req map[string]any, name string) *int {
	raw := req[name]
	switch v := raw.(type) {
	case nil, bool:
		return nil
	case string:
		raw = strings.TrimSpace(v)
	}
	value, err := cast.ToFloat64E(raw)
	if err != nil || math.IsNaN(value) {
		return nil
	}
	value = math.Max(model.MinDurationMinutes, math.Min(model.MaxDurationMinutes, value))
	minutes := int(value)
	return &minutes
}
