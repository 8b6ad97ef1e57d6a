package validators

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	dto "task-board.com/task-board/internal/data_models"
	"task-board.com/task-board/pkg/constants"
)

// ValidateTransitionRequest only checks presence. Whether the edge is legal
// is decided by the workflow.
func ValidateTransitionRequest(r *dto.TransitionRequest) (constants.TaskStatus, error) {
	status := strings.TrimSpace(r.Status)
	if status == "" {
		return "", echo.NewHTTPError(http.StatusBadRequest, "status is required")
	}
	return constants.TaskStatus(status), nil
}

func ValidateCreateTagRequest(r *dto.CreateTagRequest) (string, error) {
	if strings.TrimSpace(r.Name) == "" {
		return "", echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	return r.Name, nil
}

func ValidateSortRequest(column string, r *dto.SortRequest) (constants.TaskStatus, constants.SortOrder, error) {
	status := constants.TaskStatus(column)
	if !status.Valid() {
		return "", "", echo.NewHTTPError(http.StatusBadRequest, "unknown column")
	}
	if strings.TrimSpace(r.Sort) == "" {
		return "", "", echo.NewHTTPError(http.StatusBadRequest, "sort is required")
	}
	return status, constants.SortOrder(r.Sort), nil
}
