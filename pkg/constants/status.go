package constants

type TaskStatus string

const (
	StatusTodo   TaskStatus = "todo"
	StatusUrgent TaskStatus = "urgent"
	StatusDoing  TaskStatus = "doing"
	StatusDone   TaskStatus = "done"
)

// Statuses lists every board column in display order.
var Statuses = []TaskStatus{StatusTodo, StatusUrgent, StatusDoing, StatusDone}

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusTodo, StatusUrgent, StatusDoing, StatusDone:
		return true
	}
	return false
}
