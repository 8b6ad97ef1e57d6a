package timer

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	model "task-board.com/task-board/pkg/models"
)

// Scheduler keeps one ticking Timer per doing task, keyed by task id.
type Scheduler struct {
	mu       sync.Mutex
	timers   map[string]*Timer
	fired    map[string]time.Time
	wg       sync.WaitGroup
	lookup   Lookup
	cb       Callbacks
	interval time.Duration
	now      func() time.Time
	logger   zerolog.Logger
}

func NewScheduler(
	lookup Lookup,
	cb Callbacks,
	interval time.Duration,
	now func() time.Time,
	logger zerolog.Logger,
) *Scheduler {
	if now == nil {
		now = time.Now
	}
	return &Scheduler{
		timers:   make(map[string]*Timer),
		fired:    make(map[string]time.Time),
		lookup:   lookup,
		cb:       cb,
		interval: interval,
		now:      now,
		logger:   logger.With().Str("component", "timer").Logger(),
	}
}

// Sync starts timers for tasks that have one and cancels every other timer.
// A task whose countdown already expired for its current end instant is not
// restarted, so re-syncing after a refresh does not repeat the expiry.
func (s *Scheduler) Sync(tasks []model.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	want := make(map[string]model.Task)
	for _, task := range tasks {
		if task.HasTimer() {
			want[task.ID] = task
		}
	}

	for id, t := range s.timers {
		if _, ok := want[id]; !ok {
			t.cancel()
			delete(s.timers, id)
			s.logger.Debug().Str("task_id", id).Msg("timer cancelled")
		}
	}

	for id, end := range s.fired {
		task, ok := want[id]
		if !ok || !endOf(task).Equal(end) {
			delete(s.fired, id)
		}
	}

	for id := range want {
		if _, running := s.timers[id]; running {
			continue
		}
		if _, done := s.fired[id]; done {
			continue
		}
		s.startLocked(id)
	}
}

// Cancel stops the timer of one task, if any.
func (s *Scheduler) Cancel(taskID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[taskID]; ok {
		t.cancel()
		delete(s.timers, taskID)
	}
	delete(s.fired, taskID)
}

// Active returns the ids of tasks with a ticking timer.
func (s *Scheduler) Active() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.timers))
	for id := range s.timers {
		ids = append(ids, id)
	}
	return ids
}

// Stop cancels every timer and waits for their goroutines to exit.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	for id, t := range s.timers {
		t.cancel()
		delete(s.timers, id)
	}
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Debug().Msg("all timers stopped")
}

func (s *Scheduler) startLocked(taskID string) {
	t := newTimer(taskID, s.lookup, s.cb)
	s.timers[taskID] = t

	s.wg.Add(1)
	go s.run(t)

	s.logger.Debug().Str("task_id", taskID).Msg("timer started")
}

func (s *Scheduler) run(t *Timer) {
	defer s.wg.Done()
	defer s.finish(t)

	if !t.Tick(s.now()) {
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if !t.Tick(s.now()) {
				return
			}
		case <-t.stop:
			return
		}
	}
}

func (s *Scheduler) finish(t *Timer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if current, ok := s.timers[t.taskID]; ok && current == t {
		delete(s.timers, t.taskID)
	}
	if t.fired {
		s.fired[t.taskID] = t.firedEnd
		s.logger.Info().Str("task_id", t.taskID).Msg("timer expired")
	}
}
