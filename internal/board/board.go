package board

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/text/language"

	"task-board.com/task-board/internal/identity"
	"task-board.com/task-board/internal/notifications"
	"task-board.com/task-board/internal/sorting"
	"task-board.com/task-board/internal/store"
	"task-board.com/task-board/internal/timer"
	model "task-board.com/task-board/pkg/models"
)

// Store is the document store the board mirrors and writes through.
type Store interface {
	SubscribeTasks(ctx context.Context, ownerID string) (*store.Subscription[model.Task], error)
	SubscribeTags(ctx context.Context, ownerID string) (*store.Subscription[model.Tag], error)
	CreateTask(ctx context.Context, ownerID string, fields model.NewTask) (string, error)
	CreateTag(ctx context.Context, ownerID, name string) (string, error)
	UpdateTask(ctx context.Context, id string, patch model.TaskPatch) error
	DeleteTask(ctx context.Context, id string) error
}

type Options struct {
	TickInterval time.Duration
	Language     language.Tag
	Now          func() time.Time
}

// Board mirrors one owner's tasks and tags, drives the per-task timers and
// the notification log, and routes user actions to the store. The mirror
// only ever reflects snapshots delivered by the store.
type Board struct {
	store    Store
	identity identity.Provider
	center   *notifications.Center
	timers   *timer.Scheduler
	sorter   *sorting.Engine
	now      func() time.Time
	logger   zerolog.Logger

	mu         sync.RWMutex
	ready      bool
	ownerID    string
	tasks      []model.Task
	byID       map[string]model.Task
	tags       []model.Tag
	filters    sorting.Filters
	countdowns map[string]timer.Countdown
}

func New(st Store, id identity.Provider, opts Options, logger zerolog.Logger) *Board {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = time.Second
	}

	b := &Board{
		store:      st,
		identity:   id,
		center:     notifications.NewCenter(logger),
		sorter:     sorting.NewEngine(opts.Language),
		now:        opts.Now,
		logger:     logger.With().Str("component", "board").Logger(),
		byID:       make(map[string]model.Task),
		filters:    sorting.DefaultFilters(),
		countdowns: make(map[string]timer.Countdown),
	}
	b.timers = timer.NewScheduler(
		b.lookupTask,
		timer.Callbacks{
			OnTick:    b.recordCountdown,
			OnExpired: b.timerExpired,
		},
		opts.TickInterval,
		opts.Now,
		logger,
	)
	return b
}

// Run waits for the owner to sign in, then mirrors the store's live
// collections until ctx is done. Until the owner is known the board stays
// loading and rejects every mutation.
func (b *Board) Run(ctx context.Context) error {
	ownerID, err := b.identity.OwnerID(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		b.logger.Error().Err(err).Msg("identity unavailable, board stays loading")
		return err
	}

	taskSub, err := b.store.SubscribeTasks(ctx, ownerID)
	if err != nil {
		return err
	}
	defer taskSub.Close()

	tagSub, err := b.store.SubscribeTags(ctx, ownerID)
	if err != nil {
		return err
	}
	defer tagSub.Close()

	b.mu.Lock()
	b.ownerID = ownerID
	b.ready = true
	b.mu.Unlock()

	defer b.timers.Stop()

	b.logger.Info().Str("owner_id", ownerID).Msg("board ready")

	for {
		select {
		case <-ctx.Done():
			return nil
		case tasks, ok := <-taskSub.C:
			if !ok {
				return nil
			}
			b.applyTasks(tasks)
		case tags, ok := <-tagSub.C:
			if !ok {
				return nil
			}
			b.applyTags(tags)
		}
	}
}

func (b *Board) applyTasks(tasks []model.Task) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.tasks = tasks
	b.byID = make(map[string]model.Task, len(tasks))
	for _, task := range tasks {
		b.byID[task.ID] = task
	}
	for id := range b.countdowns {
		if task, ok := b.byID[id]; !ok || !task.HasTimer() {
			delete(b.countdowns, id)
		}
	}

	for _, n := range b.center.ScanOverdue(tasks, b.now()) {
		b.logger.Debug().Str("notification_id", n.ID).Msg("task overdue")
	}
	b.timers.Sync(tasks)

	b.logger.Trace().Int("count", len(tasks)).Msg("task snapshot applied")
}

func (b *Board) applyTags(tags []model.Tag) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.tags = tags
}

func (b *Board) lookupTask(id string) (model.Task, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	task, ok := b.byID[id]
	return task, ok
}

func (b *Board) recordCountdown(id string, c timer.Countdown) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if task, ok := b.byID[id]; ok && task.HasTimer() {
		b.countdowns[id] = c
	}
}

// timerExpired re-checks the mirror so a timer that outlived its task's
// doing period never produces a notification.
func (b *Board) timerExpired(task model.Task) {
	b.mu.Lock()
	defer b.mu.Unlock()

	current, ok := b.byID[task.ID]
	if !ok || !current.HasTimer() {
		return
	}
	if _, added := b.center.TimerExpired(current, b.now()); added {
		b.logger.Info().Str("task_id", current.ID).Msg("timer finished")
	}
}

func (b *Board) Ready() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.ready
}
