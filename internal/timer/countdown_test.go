package timer

import (
	"testing"
	"time"

	"task-board.com/task-board/pkg/constants"
	model "task-board.com/task-board/pkg/models"
)

func doingTask(id string, start time.Time, minutes int) model.Task {
	return model.Task{
		ID:        id,
		Text:      "Draft memo",
		Status:    constants.StatusDoing,
		Duration:  &minutes,
		StartTime: &start,
	}
}

func TestCompute(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	task := doingTask("t1", start, 10)

	tests := []struct {
		name         string
		at           time.Time
		wantRemain   int64
		wantProgress float64
		wantExpired  bool
	}{
		{"at start", start, 10 * 60 * 1000, 0, false},
		{"halfway", start.Add(5 * time.Minute), 5 * 60 * 1000, 50, false},
		{"before start clamps", start.Add(-time.Minute), 11 * 60 * 1000, 0, false},
		{"exactly at end", start.Add(10 * time.Minute), 0, 100, true},
		{"past end", start.Add(time.Hour), 0, 100, true},
	}

	for _, tt := range tests {
		c, ok := Compute(task, tt.at)
		if !ok {
			t.Fatalf("%s: expected a countdown", tt.name)
		}
		if c.RemainingMs != tt.wantRemain {
			t.Errorf("%s: expected remaining %d, got %d", tt.name, tt.wantRemain, c.RemainingMs)
		}
		if c.ProgressPercent != tt.wantProgress {
			t.Errorf("%s: expected progress %v, got %v", tt.name, tt.wantProgress, c.ProgressPercent)
		}
		if c.Expired != tt.wantExpired {
			t.Errorf("%s: expected expired=%v, got %v", tt.name, tt.wantExpired, c.Expired)
		}
	}
}

func TestComputeWithoutTimer(t *testing.T) {
	t.Parallel()

	zero := 0
	start := time.Now()
	cases := map[string]model.Task{
		"no start time": {ID: "a", Status: constants.StatusDoing, Duration: &zero},
		"zero duration": {ID: "b", Status: constants.StatusDoing, Duration: &zero, StartTime: &start},
		"not doing":     doingTask("c", start, 5),
	}
	notDoing := cases["not doing"]
	notDoing.Status = constants.StatusDone
	cases["not doing"] = notDoing

	for name, task := range cases {
		if _, ok := Compute(task, start); ok {
			t.Errorf("%s: expected no countdown", name)
		}
	}
}
