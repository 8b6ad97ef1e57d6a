package lifecycle

import (
	"fmt"
	"time"

	apperrors "task-board.com/task-board/internal/errors"
	"task-board.com/task-board/pkg/constants"
	model "task-board.com/task-board/pkg/models"
)

var edges = map[constants.TaskStatus][]constants.TaskStatus{
	constants.StatusTodo:   {constants.StatusUrgent, constants.StatusDoing},
	constants.StatusUrgent: {constants.StatusDoing},
	constants.StatusDoing:  {constants.StatusDone},
}

// Allowed reports whether from -> to is an edge of the workflow.
func Allowed(from, to constants.TaskStatus) bool {
	for _, next := range edges[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Next lists the statuses reachable from s in one step.
func Next(s constants.TaskStatus) []constants.TaskStatus {
	return append([]constants.TaskStatus{}, edges[s]...)
}

// Transition computes the patch that moves task to target at instant now.
// Entering doing with a duration stamps StartTime; nothing else is touched.
func Transition(task model.Task, target constants.TaskStatus, now time.Time) (model.TaskPatch, error) {
	if !Allowed(task.Status, target) {
		return model.TaskPatch{}, apperrors.ErrInvalidTransition.Wrap(
			fmt.Errorf("%s -> %s", task.Status, target),
		)
	}

	patch := model.TaskPatch{Status: &target}
	if target == constants.StatusDoing && task.Duration != nil {
		start := now
		patch.StartTime = &start
	}
	return patch, nil
}
