package http

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	middleware "task-board.com/task-board/internal/http/middlewares"
)

func Register(e *echo.Echo, h *Handler, rateLimitPerMinute int, logger zerolog.Logger) {
	e.Use(middleware.RequestLogger(logger))
	e.Use(middleware.RateLimiter(rateLimitPerMinute, time.Minute))

	e.GET("/board", h.GetBoard)

	e.POST("/tasks", h.CreateTask)
	e.PATCH("/tasks/:id", h.EditTask)
	e.POST("/tasks/:id/transition", h.TransitionTask)
	e.DELETE("/tasks/:id", h.DeleteTask)

	e.POST("/tags", h.CreateTag)
	e.PUT("/columns/:status/sort", h.SetSort)

	e.GET("/notifications", h.ListNotifications)
	e.POST("/notifications/:id/read", h.MarkAsRead)
	e.DELETE("/notifications/:id/read", h.MarkAsUnread)
}
