package timer

import (
	"time"

	model "task-board.com/task-board/pkg/models"
)

// Countdown is the live view of a running task timer.
type Countdown struct {
	RemainingMs     int64   `json:"remaining_ms"`
	ProgressPercent float64 `json:"progress_percent"`
	Expired         bool    `json:"expired"`
}

// Compute derives the countdown of task at now. The end instant is
// recomputed from the task's current fields on every call. ok is false
// when the task has no timer.
func Compute(task model.Task, now time.Time) (c Countdown, ok bool) {
	if !task.HasTimer() {
		return Countdown{}, false
	}

	total := time.Duration(*task.Duration) * time.Minute
	remaining := endOf(task).Sub(now)

	if remaining <= 0 {
		return Countdown{RemainingMs: 0, ProgressPercent: 100, Expired: true}, true
	}

	progress := 100 * (1 - float64(remaining)/float64(total))
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}

	return Countdown{
		RemainingMs:     remaining.Milliseconds(),
		ProgressPercent: progress,
	}, true
}

// endOf is the instant the countdown of a task with a timer reaches zero.
func endOf(task model.Task) time.Time {
	return task.StartTime.Add(time.Duration(*task.Duration) * time.Minute)
}
