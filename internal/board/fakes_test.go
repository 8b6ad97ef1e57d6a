package board

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/text/language"

	"task-board.com/task-board/internal/identity"
	"task-board.com/task-board/internal/store"
	"task-board.com/task-board/pkg/constants"
	model "task-board.com/task-board/pkg/models"
)

// fakeStore is an in-memory document store that pushes a snapshot to every
// subscriber after each successful write.
type fakeStore struct {
	mu       sync.Mutex
	now      func() time.Time
	nextID   int
	order    []string
	tasks    map[string]model.Task
	tags     []model.Tag
	taskSubs map[int]chan []model.Task
	tagSubs  map[int]chan []model.Tag
	subID    int
	failWith error
	writes   int
}

func newFakeStore(now func() time.Time) *fakeStore {
	return &fakeStore{
		now:      now,
		tasks:    make(map[string]model.Task),
		taskSubs: make(map[int]chan []model.Task),
		tagSubs:  make(map[int]chan []model.Tag),
	}
}

func (f *fakeStore) SubscribeTasks(ctx context.Context, ownerID string) (*store.Subscription[model.Task], error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.subID
	f.subID++
	ch := make(chan []model.Task, 1)
	ch <- f.taskSnapshotLocked()
	f.taskSubs[id] = ch

	return store.NewSubscription[model.Task](ch, func() {
		f.mu.Lock()
		delete(f.taskSubs, id)
		f.mu.Unlock()
	}), nil
}

func (f *fakeStore) SubscribeTags(ctx context.Context, ownerID string) (*store.Subscription[model.Tag], error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.subID
	f.subID++
	ch := make(chan []model.Tag, 1)
	ch <- append([]model.Tag{}, f.tags...)
	f.tagSubs[id] = ch

	return store.NewSubscription[model.Tag](ch, func() {
		f.mu.Lock()
		delete(f.tagSubs, id)
		f.mu.Unlock()
	}), nil
}

func (f *fakeStore) CreateTask(ctx context.Context, ownerID string, fields model.NewTask) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.writes++
	if f.failWith != nil {
		return "", f.failWith
	}

	f.nextID++
	id := fmt.Sprintf("task-%d", f.nextID)
	f.tasks[id] = model.Task{
		ID:        id,
		OwnerID:   ownerID,
		Text:      fields.Text,
		Status:    constants.StatusTodo,
		Deadline:  fields.Deadline,
		Duration:  fields.Duration,
		Tags:      fields.Tags,
		CreatedAt: f.now().Add(time.Duration(f.nextID) * time.Millisecond),
	}
	f.order = append(f.order, id)
	f.pushTasksLocked()
	return id, nil
}

func (f *fakeStore) CreateTag(ctx context.Context, ownerID, name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.writes++
	if f.failWith != nil {
		return "", f.failWith
	}

	f.nextID++
	id := fmt.Sprintf("tag-%d", f.nextID)
	f.tags = append(f.tags, model.Tag{ID: id, OwnerID: ownerID, Name: name})
	for _, ch := range f.tagSubs {
		deliver(ch, append([]model.Tag{}, f.tags...))
	}
	return id, nil
}

func (f *fakeStore) UpdateTask(ctx context.Context, id string, patch model.TaskPatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.writes++
	if f.failWith != nil {
		return f.failWith
	}
	task, ok := f.tasks[id]
	if !ok {
		return errors.New("no such task")
	}
	f.tasks[id] = patch.Apply(task)
	f.pushTasksLocked()
	return nil
}

func (f *fakeStore) DeleteTask(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.writes++
	if f.failWith != nil {
		return f.failWith
	}
	delete(f.tasks, id)
	for i, existing := range f.order {
		if existing == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	f.pushTasksLocked()
	return nil
}

// put replaces a task directly, as an edit from another session would.
func (f *fakeStore) put(task model.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.tasks[task.ID]; !ok {
		f.order = append(f.order, task.ID)
	}
	f.tasks[task.ID] = task
	f.pushTasksLocked()
}

func (f *fakeStore) writeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writes
}

func (f *fakeStore) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failWith = err
}

func (f *fakeStore) taskSnapshotLocked() []model.Task {
	out := make([]model.Task, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, f.tasks[id])
	}
	return out
}

func (f *fakeStore) pushTasksLocked() {
	for _, ch := range f.taskSubs {
		deliver(ch, f.taskSnapshotLocked())
	}
}

func deliver[T any](ch chan []T, snapshot []T) {
	select {
	case <-ch:
	default:
	}
	ch <- snapshot
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(t time.Time) *fakeClock {
	return &fakeClock{now: t}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type harness struct {
	board *Board
	store *fakeStore
	clock *fakeClock
	ident *identity.Anonymous
}

// startBoard runs a board against a fake store. When signIn is false the
// identity stays pending.
func startBoard(t *testing.T, signIn bool) *harness {
	t.Helper()

	clock := newFakeClock(time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC))
	st := newFakeStore(clock.Now)
	ident := identity.NewAnonymous()

	b := New(st, ident, Options{
		TickInterval: 2 * time.Millisecond,
		Language:     language.English,
		Now:          clock.Now,
	}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = b.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	if signIn {
		ident.SignIn("owner-1")
		waitFor(t, "board ready", b.Ready)
	}

	return &harness{board: b, store: st, clock: clock, ident: ident}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func (h *harness) column(status constants.TaskStatus) []TaskView {
	return h.board.View().Columns[status]
}

func (h *harness) findView(id string) (TaskView, bool) {
	for _, column := range h.board.View().Columns {
		for _, v := range column {
			if v.ID == id {
				return v, true
			}
		}
	}
	return TaskView{}, false
}
