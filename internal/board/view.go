package board

import (
	"task-board.com/task-board/internal/lifecycle"
	"task-board.com/task-board/internal/sorting"
	"task-board.com/task-board/internal/timer"
	"task-board.com/task-board/pkg/constants"
	model "task-board.com/task-board/pkg/models"
)

type TagRef struct {
	Name  string `json:"name"`
	Known bool   `json:"known"`
}

// TaskView is a task as shown in its column. Actions lists the statuses
// the task can move to next.
type TaskView struct {
	model.Task
	Overdue   bool                   `json:"overdue"`
	Countdown *timer.Countdown       `json:"countdown,omitempty"`
	TagRefs   []TagRef               `json:"tag_refs"`
	Actions   []constants.TaskStatus `json:"actions"`
}

type View struct {
	Loading       bool                                `json:"loading"`
	OwnerID       string                              `json:"owner_id,omitempty"`
	Columns       map[constants.TaskStatus][]TaskView `json:"columns"`
	Filters       sorting.Filters                     `json:"filters"`
	Tags          []model.Tag                         `json:"tags"`
	Notifications []model.Notification                `json:"notifications"`
	Unread        int                                 `json:"unread"`
}

// View renders the board for presentation. While the owner is unknown it
// only reports Loading.
func (b *Board) View() View {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.ready {
		return View{Loading: true}
	}

	known := make(map[string]struct{}, len(b.tags))
	for _, tag := range b.tags {
		known[normalizeTag(tag.Name)] = struct{}{}
	}
	today := model.DateOf(b.now())

	cols := b.sorter.Columns(b.tasks, b.filters)
	out := make(map[constants.TaskStatus][]TaskView, len(cols))
	for status, column := range cols {
		views := make([]TaskView, 0, len(column))
		for _, task := range column {
			v := TaskView{
				Task:    task,
				Overdue: task.OverdueOn(today),
				TagRefs: make([]TagRef, 0, len(task.Tags)),
				Actions: lifecycle.Next(task.Status),
			}
			if c, ok := b.countdowns[task.ID]; ok {
				c := c
				v.Countdown = &c
			}
			for _, name := range task.Tags {
				_, ok := known[normalizeTag(name)]
				v.TagRefs = append(v.TagRefs, TagRef{Name: name, Known: ok})
			}
			views = append(views, v)
		}
		out[status] = views
	}

	filters := make(sorting.Filters, len(b.filters))
	for k, v := range b.filters {
		filters[k] = v
	}

	return View{
		OwnerID:       b.ownerID,
		Columns:       out,
		Filters:       filters,
		Tags:          append([]model.Tag{}, b.tags...),
		Notifications: b.center.List(),
		Unread:        b.center.UnreadCount(),
	}
}
