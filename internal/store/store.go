package store

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	apperrors "task-board.com/task-board/internal/errors"
	"task-board.com/task-board/internal/feed"
	repository "task-board.com/task-board/internal/repositories"
	model "task-board.com/task-board/pkg/models"
)

// Store is the document store the board reads from and writes to. Every
// committed write publishes a change signal for the owning user.
type Store struct {
	tasks    *repository.TaskRepository
	tags     *repository.TagRepository
	notifier feed.Notifier
	logger   zerolog.Logger

	retryMin time.Duration
	retryMax time.Duration

	mu       sync.Mutex
	nextID   int
	watchers map[int]watcher
}

type watcher struct {
	ownerID string
	signal  chan struct{}
}

func New(
	tasks *repository.TaskRepository,
	tags *repository.TagRepository,
	notifier feed.Notifier,
	logger zerolog.Logger,
) *Store {
	return &Store{
		tasks:    tasks,
		tags:     tags,
		notifier: notifier,
		logger:   logger.With().Str("component", "store").Logger(),
		retryMin: 100 * time.Millisecond,
		retryMax: 10 * time.Second,
		watchers: make(map[int]watcher),
	}
}

// Run routes change signals to subscriptions until ctx is done. A dropped
// feed is resubscribed with exponential backoff; once it is live again every
// subscription reloads, since signals sent while it was down are lost.
func (s *Store) Run(ctx context.Context) error {
	delay := s.retryMin
	for attempt := 0; ; attempt++ {
		reconnect := attempt > 0
		var live atomic.Bool
		err := s.notifier.Subscribe(ctx, s.dispatch, func() {
			live.Store(true)
			if reconnect {
				s.logger.Info().Msg("change feed resubscribed")
				s.reloadAll()
			}
		})
		if ctx.Err() != nil {
			return nil
		}
		if live.Load() {
			delay = s.retryMin
		}

		s.logger.Warn().
			Err(err).
			Dur("retry_in", delay).
			Msg("change feed dropped, resubscribing")

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(delay):
		}
		delay *= 2
		if delay > s.retryMax {
			delay = s.retryMax
		}
	}
}

func (s *Store) SubscribeTasks(ctx context.Context, ownerID string) (*Subscription[model.Task], error) {
	return subscribe(ctx, s, ownerID, func(ctx context.Context) ([]model.Task, error) {
		return s.tasks.ListByOwner(ctx, ownerID)
	})
}

func (s *Store) SubscribeTags(ctx context.Context, ownerID string) (*Subscription[model.Tag], error) {
	return subscribe(ctx, s, ownerID, func(ctx context.Context) ([]model.Tag, error) {
		return s.tags.ListByOwner(ctx, ownerID)
	})
}

func (s *Store) CreateTask(ctx context.Context, ownerID string, fields model.NewTask) (string, error) {
	task, err := s.tasks.CreateTask(ctx, ownerID, fields)
	if err != nil {
		return "", err
	}
	s.publish(ctx, ownerID)
	return task.ID, nil
}

func (s *Store) CreateTag(ctx context.Context, ownerID, name string) (string, error) {
	tag, err := s.tags.CreateTag(ctx, ownerID, name)
	if errors.Is(err, repository.ErrDuplicate) {
		return "", apperrors.ErrDuplicateTag.Wrap(err)
	}
	if err != nil {
		return "", err
	}
	s.publish(ctx, ownerID)
	return tag.ID, nil
}

func (s *Store) UpdateTask(ctx context.Context, id string, patch model.TaskPatch) error {
	task, err := s.tasks.Update(ctx, id, patch)
	if err != nil {
		return err
	}
	s.publish(ctx, task.OwnerID)
	return nil
}

func (s *Store) DeleteTask(ctx context.Context, id string) error {
	task, err := s.tasks.Delete(ctx, id)
	if err != nil {
		return err
	}
	s.publish(ctx, task.OwnerID)
	return nil
}

func (s *Store) publish(ctx context.Context, ownerID string) {
	if err := s.notifier.Publish(ctx, ownerID); err != nil {
		s.logger.Warn().
			Err(err).
			Str("owner_id", ownerID).
			Msg("failed to publish change signal")
	}
}

func (s *Store) dispatch(ownerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, w := range s.watchers {
		if w.ownerID != ownerID {
			continue
		}
		select {
		case w.signal <- struct{}{}:
		default:
		}
	}
}

func (s *Store) reloadAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, w := range s.watchers {
		select {
		case w.signal <- struct{}{}:
		default:
		}
	}
}

func (s *Store) addWatcher(ownerID string) (int, chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	signal := make(chan struct{}, 1)
	s.watchers[id] = watcher{ownerID: ownerID, signal: signal}
	return id, signal
}

func (s *Store) removeWatcher(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.watchers, id)
}

func subscribe[T any](
	ctx context.Context,
	s *Store,
	ownerID string,
	load func(ctx context.Context) ([]T, error),
) (*Subscription[T], error) {
	id, signal := s.addWatcher(ownerID)

	snapshot, err := load(ctx)
	if err != nil {
		s.removeWatcher(id)
		return nil, err
	}

	ch := make(chan []T, 1)
	ch <- snapshot

	subCtx, cancel := context.WithCancel(ctx)
	go func() {
		defer close(ch)
		defer s.removeWatcher(id)

		for {
			select {
			case <-subCtx.Done():
				return
			case <-signal:
				next, err := load(subCtx)
				if err != nil {
					if subCtx.Err() == nil {
						s.logger.Error().
							Err(err).
							Str("owner_id", ownerID).
							Msg("failed to reload snapshot")
					}
					continue
				}
				deliverLatest(ch, next)
			}
		}
	}()

	return NewSubscription[T](ch, cancel), nil
}
