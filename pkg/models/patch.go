package model

import (
	"time"

	"task-board.com/task-board/pkg/constants"
)

// TaskPatch is a partial update. Nil fields are left untouched; the
// Clear flags null out the matching optional field.
type TaskPatch struct {
	Status    *constants.TaskStatus
	StartTime *time.Time
	Text      *string
	Deadline  *Date
	Duration  *int
	Tags      []string

	ClearDeadline bool
	ClearDuration bool
}

func (p TaskPatch) Empty() bool {
	return len(p.Columns()) == 0
}

// Columns renders the patch as a column -> value map for gorm Updates.
func (p TaskPatch) Columns() map[string]interface{} {
	cols := make(map[string]interface{})
	if p.Status != nil {
		cols["status"] = *p.Status
	}
	if p.StartTime != nil {
		cols["start_time"] = *p.StartTime
	}
	if p.Text != nil {
		cols["text"] = *p.Text
	}
	switch {
	case p.ClearDeadline:
		cols["deadline"] = nil
	case p.Deadline != nil:
		cols["deadline"] = *p.Deadline
	}
	switch {
	case p.ClearDuration:
		cols["duration"] = nil
	case p.Duration != nil:
		cols["duration"] = *p.Duration
	}
	if p.Tags != nil {
		cols["tags"] = p.Tags
	}
	return cols
}

// Apply returns a copy of task with the patch applied.
func (p TaskPatch) Apply(task Task) Task {
	if p.Status != nil {
		task.Status = *p.Status
	}
	if p.StartTime != nil {
		start := *p.StartTime
		task.StartTime = &start
	}
	if p.Text != nil {
		task.Text = *p.Text
	}
	switch {
	case p.ClearDeadline:
		task.Deadline = nil
	case p.Deadline != nil:
		d := *p.Deadline
		task.Deadline = &d
	}
	switch {
	case p.ClearDuration:
		task.Duration = nil
	case p.Duration != nil:
		d := *p.Duration
		task.Duration = &d
	}
	if p.Tags != nil {
		task.Tags = append([]string(nil), p.Tags...)
	}
	return task
}
