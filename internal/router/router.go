package router

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"myworld/backend/internal/handler"
	"myworld/backend/internal/middleware"
)

func New(
	pomodoroHandler *handler.PomodoroHandler,
	settingsHandler *handler.SettingsHandler,
	panelHandler *handler.PanelHandler,
	corsOrigins []string,
	logger *slog.Logger,
) *gin.Engine {
	engine := gin.New()
	engine.Use(
		middleware.RequestLog(logger),
		gin.Recovery(),
		middleware.CORS(corsOrigins),
		middleware.LocalOnly(),
	)

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api")

	pomodoro := api.Group("/pomodoro")
	pomodoro.GET("/state", pomodoroHandler.GetState)
	pomodoro.POST("/start", pomodoroHandler.Start)
	pomodoro.POST("/pause", pomodoroHandler.Pause)
	pomodoro.POST("/reset", pomodoroHandler.Reset)
	pomodoro.POST("/phase", pomodoroHandler.SwitchPhase)
	pomodoro.PUT("/durations", pomodoroHandler.UpdateDurations)
	pomodoro.GET("/history", pomodoroHandler.GetHistory)
	pomodoro.DELETE("/history", pomodoroHandler.ClearHistory)

	settings := api.Group("/settings")
	settings.GET("/theme", settingsHandler.GetTheme)
	settings.PUT("/theme", settingsHandler.SetTheme)

	panels := api.Group("/panels")
	panels.GET("/:panel", panelHandler.List)
	panels.POST("/:panel", panelHandler.Create)
	panels.PATCH("/:panel/:id", panelHandler.Update)
	panels.DELETE("/:panel/:id", panelHandler.Delete)
	panels.POST("/:panel/:id/checks/:date", panelHandler.ToggleCheck)

	return engine
}
