package model

import "time"

type NotificationKind string

const (
	KindOverdue  NotificationKind = "overdue"
	KindTimerEnd NotificationKind = "timer-end"
)

// Notification is an in-session event surfaced to the user. It is never persisted.
type Notification struct {
	ID        string           `json:"id"`
	Kind      NotificationKind `json:"kind"`
	TaskID    string           `json:"task_id"`
	Message   string           `json:"message"`
	Read      bool             `json:"read"`
	Timestamp time.Time        `json:"timestamp"`
}

// NotificationID derives the dedup key for an event about a task.
func NotificationID(kind NotificationKind, taskID string) string {
	return string(kind) + "-" + taskID
}
