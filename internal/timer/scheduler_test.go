package timer

import (
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	model "task-board.com/task-board/pkg/models"
)

type taskTable struct {
	mu    sync.Mutex
	tasks map[string]model.Task
}

func newTaskTable(tasks ...model.Task) *taskTable {
	tt := &taskTable{tasks: make(map[string]model.Task)}
	for _, task := range tasks {
		tt.tasks[task.ID] = task
	}
	return tt
}

func (tt *taskTable) lookup(id string) (model.Task, bool) {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	task, ok := tt.tasks[id]
	return task, ok
}

func (tt *taskTable) list() []model.Task {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	out := make([]model.Task, 0, len(tt.tasks))
	for _, task := range tt.tasks {
		out = append(out, task)
	}
	return out
}

func TestSchedulerExpiresOnceAcrossResync(t *testing.T) {
	t.Parallel()

	started := time.Now().Add(-2 * time.Minute)
	table := newTaskTable(doingTask("t1", started, 1))

	expired := make(chan string, 4)
	s := NewScheduler(table.lookup, Callbacks{
		OnExpired: func(task model.Task) { expired <- task.ID },
	}, 5*time.Millisecond, nil, zerolog.Nop())
	defer s.Stop()

	s.Sync(table.list())

	select {
	case id := <-expired:
		if id != "t1" {
			t.Fatalf("expected expiry for t1, got %s", id)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timer did not expire")
	}

	waitForIdle(t, s)
	s.Sync(table.list())
	s.Sync(table.list())

	select {
	case id := <-expired:
		t.Fatalf("unexpected second expiry for %s", id)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSchedulerRearmsOnNewStartTime(t *testing.T) {
	t.Parallel()

	started := time.Now().Add(-2 * time.Minute)
	table := newTaskTable(doingTask("t1", started, 1))

	expired := make(chan time.Time, 4)
	s := NewScheduler(table.lookup, Callbacks{
		OnExpired: func(task model.Task) { expired <- *task.StartTime },
	}, 5*time.Millisecond, nil, zerolog.Nop())
	defer s.Stop()

	s.Sync(table.list())
	<-expired
	waitForIdle(t, s)

	restarted := time.Now().Add(-90 * time.Second)
	table.mu.Lock()
	table.tasks["t1"] = doingTask("t1", restarted, 1)
	table.mu.Unlock()
	s.Sync(table.list())

	select {
	case start := <-expired:
		if !start.Equal(restarted) {
			t.Errorf("expected expiry for the new period, got start %v", start)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timer for the new doing period did not expire")
	}
}

func TestSchedulerCancelsTimersLeavingDoing(t *testing.T) {
	t.Parallel()

	table := newTaskTable(doingTask("t1", time.Now(), 30))

	expired := make(chan string, 1)
	s := NewScheduler(table.lookup, Callbacks{
		OnExpired: func(task model.Task) { expired <- task.ID },
	}, 5*time.Millisecond, nil, zerolog.Nop())
	defer s.Stop()

	s.Sync(table.list())
	if got := s.Active(); len(got) != 1 || got[0] != "t1" {
		t.Fatalf("expected t1 to be active, got %v", got)
	}

	s.Sync(nil)
	if got := s.Active(); len(got) != 0 {
		t.Errorf("expected no active timers, got %v", got)
	}

	select {
	case id := <-expired:
		t.Errorf("cancelled timer fired for %s", id)
	case <-time.After(30 * time.Millisecond):
	}
}

func TestSchedulerStopWaitsForTimers(t *testing.T) {
	t.Parallel()

	table := newTaskTable(
		doingTask("t1", time.Now(), 30),
		doingTask("t2", time.Now(), 45),
	)
	s := NewScheduler(table.lookup, Callbacks{}, 5*time.Millisecond, nil, zerolog.Nop())

	s.Sync(table.list())
	s.Stop()

	if got := s.Active(); len(got) != 0 {
		t.Errorf("expected no active timers after Stop, got %v", got)
	}
}

func waitForIdle(t *testing.T, s *Scheduler) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(s.Active()) == 0 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("timers did not finish")
}
