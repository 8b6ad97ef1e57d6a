package board

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	apperrors "task-board.com/task-board/internal/errors"
	"task-board.com/task-board/internal/lifecycle"
	"task-board.com/task-board/pkg/constants"
	model "task-board.com/task-board/pkg/models"
)

// Confirm gates a destructive action. Returning false cancels it.
type Confirm func(task model.Task) bool

// TaskEdit changes the editable fields of a task. Status and StartTime are
// only ever changed through Transition.
type TaskEdit struct {
	Text          *string
	Deadline      *model.Date
	ClearDeadline bool
	Duration      *int
	ClearDuration bool
	Tags          []string
}

func (b *Board) AddTask(ctx context.Context, fields model.NewTask) (string, error) {
	ownerID, err := b.owner()
	if err != nil {
		return "", err
	}

	fields.Text = strings.TrimSpace(fields.Text)
	if fields.Text == "" {
		return "", apperrors.ErrValidation.Wrap(fmt.Errorf("task text is required"))
	}
	if fields.Duration != nil && *fields.Duration <= 0 {
		return "", apperrors.ErrValidation.Wrap(fmt.Errorf("duration must be a positive number of minutes"))
	}
	fields.Tags = normalizeTags(fields.Tags)

	id, err := b.store.CreateTask(ctx, ownerID, fields)
	if err != nil {
		b.logger.Error().
			Err(err).
			Str("owner_id", ownerID).
			Msg("failed to create task")
		return "", apperrors.ErrPersistence.Wrap(err)
	}

	b.logger.Info().Str("task_id", id).Msg("task created")
	return id, nil
}

func (b *Board) AddTag(ctx context.Context, name string) (string, error) {
	ownerID, err := b.owner()
	if err != nil {
		return "", err
	}

	name = normalizeTag(name)
	if name == "" {
		return "", apperrors.ErrValidation.Wrap(fmt.Errorf("tag name is required"))
	}

	b.mu.RLock()
	for _, tag := range b.tags {
		if normalizeTag(tag.Name) == name {
			b.mu.RUnlock()
			return "", apperrors.ErrDuplicateTag.Wrap(fmt.Errorf("%q", name))
		}
	}
	b.mu.RUnlock()

	id, err := b.store.CreateTag(ctx, ownerID, name)
	if errors.Is(err, apperrors.ErrDuplicateTag) {
		return "", err
	}
	if err != nil {
		b.logger.Error().
			Err(err).
			Str("tag", name).
			Msg("failed to create tag")
		return "", apperrors.ErrPersistence.Wrap(err)
	}

	b.logger.Info().Str("tag", name).Msg("tag created")
	return id, nil
}

// Transition moves a task along the workflow. Illegal edges are rejected
// without contacting the store.
func (b *Board) Transition(ctx context.Context, id string, target constants.TaskStatus) error {
	task, err := b.findTask(id)
	if err != nil {
		return err
	}

	patch, err := lifecycle.Transition(task, target, b.now())
	if err != nil {
		return err
	}

	if err := b.store.UpdateTask(ctx, id, patch); err != nil {
		b.logger.Error().
			Err(err).
			Str("task_id", id).
			Str("status", string(target)).
			Msg("failed to update task status")
		return apperrors.ErrPersistence.Wrap(err)
	}

	if task.Status == constants.StatusDoing {
		b.timers.Cancel(id)
	}

	b.logger.Info().
		Str("task_id", id).
		Str("from", string(task.Status)).
		Str("to", string(target)).
		Msg("task transitioned")
	return nil
}

func (b *Board) EditTask(ctx context.Context, id string, edit TaskEdit) error {
	if _, err := b.findTask(id); err != nil {
		return err
	}

	var patch model.TaskPatch
	if edit.Text != nil {
		text := strings.TrimSpace(*edit.Text)
		if text == "" {
			return apperrors.ErrValidation.Wrap(fmt.Errorf("task text is required"))
		}
		patch.Text = &text
	}
	if edit.Duration != nil && *edit.Duration <= 0 {
		return apperrors.ErrValidation.Wrap(fmt.Errorf("duration must be a positive number of minutes"))
	}
	patch.Deadline = edit.Deadline
	patch.ClearDeadline = edit.ClearDeadline
	patch.Duration = edit.Duration
	patch.ClearDuration = edit.ClearDuration
	if edit.Tags != nil {
		patch.Tags = normalizeTags(edit.Tags)
	}

	if patch.Empty() {
		return apperrors.ErrValidation.Wrap(fmt.Errorf("nothing to update"))
	}

	if err := b.store.UpdateTask(ctx, id, patch); err != nil {
		b.logger.Error().
			Err(err).
			Str("task_id", id).
			Msg("failed to edit task")
		return apperrors.ErrPersistence.Wrap(err)
	}

	b.logger.Info().Str("task_id", id).Msg("task edited")
	return nil
}

// DeleteTask removes a task once confirm approves it. A declined or missing
// confirmation is a no-op and reports false.
func (b *Board) DeleteTask(ctx context.Context, id string, confirm Confirm) (bool, error) {
	task, err := b.findTask(id)
	if err != nil {
		return false, err
	}

	if confirm == nil || !confirm(task) {
		b.logger.Debug().Str("task_id", id).Msg("delete not confirmed")
		return false, nil
	}

	if err := b.store.DeleteTask(ctx, id); err != nil {
		b.logger.Error().
			Err(err).
			Str("task_id", id).
			Msg("failed to delete task")
		return false, apperrors.ErrPersistence.Wrap(err)
	}
	b.timers.Cancel(id)

	b.logger.Info().Str("task_id", id).Msg("task deleted")
	return true, nil
}

func (b *Board) SetSort(column constants.TaskStatus, order constants.SortOrder) error {
	if !column.Valid() {
		return apperrors.ErrValidation.Wrap(fmt.Errorf("unknown column %q", column))
	}
	if !order.Valid() {
		return apperrors.ErrInvalidSort.Wrap(fmt.Errorf("%q", order))
	}
	if _, err := b.owner(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	cfg := b.filters[column]
	cfg.Sort = order
	b.filters[column] = cfg
	return nil
}

func (b *Board) MarkAsRead(id string) error {
	if _, err := b.owner(); err != nil {
		return err
	}
	return b.center.MarkAsRead(id)
}

func (b *Board) MarkAsUnread(id string) error {
	if _, err := b.owner(); err != nil {
		return err
	}
	return b.center.MarkAsUnread(id)
}

func (b *Board) Notifications() []model.Notification {
	return b.center.List()
}

func (b *Board) UnreadCount() int {
	return b.center.UnreadCount()
}

func (b *Board) owner() (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.ready {
		return "", apperrors.ErrIdentityPending
	}
	return b.ownerID, nil
}

func (b *Board) findTask(id string) (model.Task, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.ready {
		return model.Task{}, apperrors.ErrIdentityPending
	}
	task, ok := b.byID[id]
	if !ok {
		return model.Task{}, apperrors.ErrTaskNotFound.Wrap(fmt.Errorf("id %q", id))
	}
	return task, nil
}

func normalizeTag(name string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(name))
}

// normalizeTags lower-cases names, drops blanks, and collapses duplicates.
func normalizeTags(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = normalizeTag(name)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
