package validators

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"task-board.com/task-board/internal/board"
	dto "task-board.com/task-board/internal/data_models"
	model "task-board.com/task-board/pkg/models"
)

func ValidateCreateTaskRequest(r *dto.CreateTaskRequest) (model.NewTask, error) {
	if strings.TrimSpace(r.Text) == "" {
		return model.NewTask{}, echo.NewHTTPError(http.StatusBadRequest, "text is required")
	}
	if r.Duration != nil && *r.Duration <= 0 {
		return model.NewTask{}, echo.NewHTTPError(http.StatusBadRequest, "duration must be a positive number of minutes")
	}

	deadline, err := parseDeadline(r.Deadline)
	if err != nil {
		return model.NewTask{}, err
	}

	return model.NewTask{
		Text:     r.Text,
		Deadline: deadline,
		Duration: r.Duration,
		Tags:     r.Tags,
	}, nil
}

func ValidateEditTaskRequest(r *dto.EditTaskRequest) (board.TaskEdit, error) {
	if r.Text != nil && strings.TrimSpace(*r.Text) == "" {
		return board.TaskEdit{}, echo.NewHTTPError(http.StatusBadRequest, "text must not be empty")
	}
	if r.Deadline != nil && r.ClearDeadline {
		return board.TaskEdit{}, echo.NewHTTPError(http.StatusBadRequest, "deadline and clear_deadline are mutually exclusive")
	}
	if r.Duration != nil && r.ClearDuration {
		return board.TaskEdit{}, echo.NewHTTPError(http.StatusBadRequest, "duration and clear_duration are mutually exclusive")
	}
	if r.Duration != nil && *r.Duration <= 0 {
		return board.TaskEdit{}, echo.NewHTTPError(http.StatusBadRequest, "duration must be a positive number of minutes")
	}

	deadline, err := parseDeadline(r.Deadline)
	if err != nil {
		return board.TaskEdit{}, err
	}

	return board.TaskEdit{
		Text:          r.Text,
		Deadline:      deadline,
		ClearDeadline: r.ClearDeadline,
		Duration:      r.Duration,
		ClearDuration: r.ClearDuration,
		Tags:          r.Tags,
	}, nil
}

func parseDeadline(raw *string) (*model.Date, error) {
	if raw == nil {
		return nil, nil
	}
	d, err := model.ParseDate(strings.TrimSpace(*raw))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return &d, nil
}
