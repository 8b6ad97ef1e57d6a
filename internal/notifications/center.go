package notifications

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	apperrors "task-board.com/task-board/internal/errors"
	model "task-board.com/task-board/pkg/models"
)

// Center is an append-only, deduplicated log of session notifications.
// Entries are keyed by a content-addressed id, so replaying the same event
// never adds a second entry. An overdue id, once used, stays used for the
// rest of the session even if the task is later rescheduled.
type Center struct {
	mu     sync.RWMutex
	byID   map[string]*model.Notification
	order  []string
	logger zerolog.Logger
}

func NewCenter(logger zerolog.Logger) *Center {
	return &Center{
		byID:   make(map[string]*model.Notification),
		logger: logger.With().Str("component", "notifications").Logger(),
	}
}

// ScanOverdue appends an overdue entry for every open task whose deadline is
// before the day of now. It returns only the entries added by this call.
func (c *Center) ScanOverdue(tasks []model.Task, now time.Time) []model.Notification {
	today := model.DateOf(now)

	c.mu.Lock()
	defer c.mu.Unlock()

	var added []model.Notification
	for _, task := range tasks {
		if !task.OverdueOn(today) {
			continue
		}
		n, ok := c.appendLocked(
			model.KindOverdue,
			task.ID,
			fmt.Sprintf("Task %s is past its deadline.", task.Text),
			now,
		)
		if ok {
			added = append(added, n)
		}
	}
	return added
}

// TimerExpired records the end of a task's countdown. The second return
// value is false when the entry already existed.
func (c *Center) TimerExpired(task model.Task, now time.Time) (model.Notification, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.appendLocked(
		model.KindTimerEnd,
		task.ID,
		fmt.Sprintf("Time's up for: %s!", task.Text),
		now,
	)
}

func (c *Center) MarkAsRead(id string) error {
	return c.setRead(id, true)
}

func (c *Center) MarkAsUnread(id string) error {
	return c.setRead(id, false)
}

// List returns the log in insertion order.
func (c *Center) List() []model.Notification {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]model.Notification, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, *c.byID[id])
	}
	return out
}

func (c *Center) UnreadCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	unread := 0
	for _, n := range c.byID {
		if !n.Read {
			unread++
		}
	}
	return unread
}

func (c *Center) appendLocked(kind model.NotificationKind, taskID, message string, now time.Time) (model.Notification, bool) {
	id := model.NotificationID(kind, taskID)
	if existing, ok := c.byID[id]; ok {
		return *existing, false
	}

	n := &model.Notification{
		ID:        id,
		Kind:      kind,
		TaskID:    taskID,
		Message:   message,
		Timestamp: now,
	}
	c.byID[id] = n
	c.order = append(c.order, id)

	c.logger.Info().
		Str("notification_id", id).
		Str("task_id", taskID).
		Msg("notification added")
	return *n, true
}

func (c *Center) setRead(id string, read bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.byID[id]
	if !ok {
		return apperrors.ErrNotificationNotFound.Wrap(fmt.Errorf("id %q", id))
	}
	n.Read = read
	return nil
}
