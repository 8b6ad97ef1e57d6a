package timer

import (
	"time"

	model "task-board.com/task-board/pkg/models"
)

// Lookup returns the current state of a task, or false once it is gone.
type Lookup func(taskID string) (model.Task, bool)

type Callbacks struct {
	OnTick    func(taskID string, c Countdown)
	OnExpired func(task model.Task)
}

// Timer is the countdown of a single doing task.
type Timer struct {
	taskID string
	lookup Lookup
	cb     Callbacks
	stop   chan struct{}

	fired    bool
	firedEnd time.Time
}

func newTimer(taskID string, lookup Lookup, cb Callbacks) *Timer {
	return &Timer{
		taskID: taskID,
		lookup: lookup,
		cb:     cb,
		stop:   make(chan struct{}),
	}
}

// Tick evaluates the timer at now and reports whether it should keep ticking.
// Expiry is reported at most once per Timer.
func (t *Timer) Tick(now time.Time) bool {
	if t.stopped() {
		return false
	}

	task, ok := t.lookup(t.taskID)
	if !ok {
		return false
	}
	c, ok := Compute(task, now)
	if !ok {
		return false
	}

	if t.cb.OnTick != nil {
		t.cb.OnTick(t.taskID, c)
	}

	if !c.Expired {
		return true
	}

	if !t.fired && !t.stopped() {
		t.fired = true
		t.firedEnd = endOf(task)
		if t.cb.OnExpired != nil {
			t.cb.OnExpired(task)
		}
	}
	return false
}

func (t *Timer) cancel() {
	select {
	case <-t.stop:
	default:
		close(t.stop)
	}
}

func (t *Timer) stopped() bool {
	select {
	case <-t.stop:
		return true
	default:
		return false
	}
}
