package model

import (
	"time"

	"task-board.com/task-board/pkg/constants"
)

type Task struct {
	ID        string               `gorm:"primaryKey;size:36" json:"id"`
	OwnerID   string               `gorm:"size:64;not null;index" json:"owner_id"`
	Text      string               `gorm:"not null" json:"text"`
	Status    constants.TaskStatus `gorm:"type:varchar(20);not null" json:"status"`
	Deadline  *Date                `gorm:"type:varchar(10)" json:"deadline,omitempty"`
	Duration  *int                 `json:"duration,omitempty"`
	StartTime *time.Time           `json:"start_time,omitempty"`
	Tags      []string             `gorm:"serializer:json" json:"tags"`
	CreatedAt time.Time            `json:"created_at"`
}

// HasTimer reports whether the task carries a live countdown.
func (t Task) HasTimer() bool {
	return t.Status == constants.StatusDoing &&
		t.Duration != nil && *t.Duration > 0 &&
		t.StartTime != nil
}

// OverdueOn reports whether the deadline lies before today and the task is still open.
func (t Task) OverdueOn(today Date) bool {
	return t.Deadline != nil && t.Deadline.Before(today) && t.Status != constants.StatusDone
}

// NewTask carries the fields a caller supplies when adding a task.
type NewTask struct {
	Text     string
	Deadline *Date
	Duration *int
	Tags     []string
}
