package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"task-board.com/task-board/internal/board"
	dto "task-board.com/task-board/internal/data_models"
	apperrors "task-board.com/task-board/internal/errors"
	"task-board.com/task-board/internal/http/validators"
	"task-board.com/task-board/pkg/constants"
	model "task-board.com/task-board/pkg/models"
)

// Board is the part of *board.Board the HTTP surface drives.
type Board interface {
	View() board.View
	AddTask(ctx context.Context, fields model.NewTask) (string, error)
	EditTask(ctx context.Context, id string, edit board.TaskEdit) error
	Transition(ctx context.Context, id string, target constants.TaskStatus) error
	DeleteTask(ctx context.Context, id string, confirm board.Confirm) (bool, error)
	AddTag(ctx context.Context, name string) (string, error)
	SetSort(column constants.TaskStatus, order constants.SortOrder) error
	Notifications() []model.Notification
	UnreadCount() int
	MarkAsRead(id string) error
	MarkAsUnread(id string) error
}

type Handler struct {
	board  Board
	logger zerolog.Logger
}

func NewHandler(b Board, logger zerolog.Logger) *Handler {
	return &Handler{
		board:  b,
		logger: logger.With().Str("component", "http").Logger(),
	}
}

func (h *Handler) GetBoard(c echo.Context) error {
	view := h.board.View()
	if view.Loading {
		return h.fail(c, apperrors.ErrIdentityPending)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *Handler) CreateTask(c echo.Context) error {
	var req dto.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	fields, err := validators.ValidateCreateTaskRequest(&req)
	if err != nil {
		return err
	}

	id, err := h.board.AddTask(c.Request().Context(), fields)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusCreated, dto.CreatedResponse{ID: id})
}

func (h *Handler) EditTask(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "task id is required")
	}

	var req dto.EditTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	edit, err := validators.ValidateEditTaskRequest(&req)
	if err != nil {
		return err
	}

	if err := h.board.EditTask(c.Request().Context(), id, edit); err != nil {
		return h.fail(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) TransitionTask(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "task id is required")
	}

	var req dto.TransitionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	target, err := validators.ValidateTransitionRequest(&req)
	if err != nil {
		return err
	}

	if err := h.board.Transition(c.Request().Context(), id, target); err != nil {
		return h.fail(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// DeleteTask only removes the task when the request carries confirm=true.
func (h *Handler) DeleteTask(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "task id is required")
	}

	confirmed, _ := strconv.ParseBool(c.QueryParam("confirm"))
	deleted, err := h.board.DeleteTask(c.Request().Context(), id, func(model.Task) bool {
		return confirmed
	})
	if err != nil {
		return h.fail(c, err)
	}
	if !deleted {
		return c.JSON(http.StatusOK, dto.DeleteResponse{Deleted: false})
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) CreateTag(c echo.Context) error {
	var req dto.CreateTagRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	name, err := validators.ValidateCreateTagRequest(&req)
	if err != nil {
		return err
	}

	id, err := h.board.AddTag(c.Request().Context(), name)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusCreated, dto.CreatedResponse{ID: id})
}

func (h *Handler) SetSort(c echo.Context) error {
	var req dto.SortRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	column, order, err := validators.ValidateSortRequest(c.Param("status"), &req)
	if err != nil {
		return err
	}

	if err := h.board.SetSort(column, order); err != nil {
		return h.fail(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListNotifications(c echo.Context) error {
	notes := h.board.Notifications()
	return c.JSON(http.StatusOK, dto.NotificationsResponse{
		Count:         len(notes),
		Unread:        h.board.UnreadCount(),
		Notifications: notes,
	})
}

func (h *Handler) MarkAsRead(c echo.Context) error {
	if err := h.board.MarkAsRead(c.Param("id")); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) MarkAsUnread(c echo.Context) error {
	if err := h.board.MarkAsUnread(c.Param("id")); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// fail maps err onto its HTTP status. Server-side failures are logged with
// their cause and rendered with the bare error message.
func (h *Handler) fail(c echo.Context, err error) error {
	status := apperrors.StatusCode(err)
	if status < http.StatusInternalServerError {
		return echo.NewHTTPError(status, err.Error())
	}

	h.logger.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("request failed")

	var appErr *apperrors.Exception
	if errors.As(err, &appErr) {
		return echo.NewHTTPError(status, appErr.Message)
	}
	return echo.NewHTTPError(status, "internal server error")
}
