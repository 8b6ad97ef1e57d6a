package sorting

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"task-board.com/task-board/pkg/constants"
	model "task-board.com/task-board/pkg/models"
)

type FilterConfig struct {
	Sort constants.SortOrder `json:"sort"`
}

// Filters holds one FilterConfig per column.
type Filters map[constants.TaskStatus]FilterConfig

func DefaultFilters() Filters {
	f := make(Filters, len(constants.Statuses))
	for _, s := range constants.Statuses {
		f[s] = FilterConfig{Sort: constants.SortNewest}
	}
	return f
}

// Columns is the board partitioned by status, each column sorted.
type Columns map[constants.TaskStatus][]model.Task

type Engine struct {
	lang language.Tag
}

func NewEngine(lang language.Tag) *Engine {
	return &Engine{lang: lang}
}

// Apply returns a sorted copy of tasks. The input slice is not modified.
func (e *Engine) Apply(tasks []model.Task, cfg FilterConfig) []model.Task {
	out := append([]model.Task(nil), tasks...)

	switch cfg.Sort {
	case constants.SortAZ:
		col := collate.New(e.lang)
		sort.SliceStable(out, func(i, j int) bool {
			return col.CompareString(out[i].Text, out[j].Text) < 0
		})
	case constants.SortDate:
		sort.SliceStable(out, func(i, j int) bool {
			a, b := out[i].Deadline, out[j].Deadline
			switch {
			case a == nil:
				return false
			case b == nil:
				return true
			default:
				return a.Before(*b)
			}
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return createdKey(out[i]) > createdKey(out[j])
		})
	}
	return out
}

// Partition splits tasks by status. Tasks with an unknown status are dropped.
func Partition(tasks []model.Task) Columns {
	cols := make(Columns, len(constants.Statuses))
	for _, s := range constants.Statuses {
		cols[s] = []model.Task{}
	}
	for _, task := range tasks {
		if _, ok := cols[task.Status]; ok {
			cols[task.Status] = append(cols[task.Status], task)
		}
	}
	return cols
}

// Columns partitions tasks and sorts every column with its own config.
func (e *Engine) Columns(tasks []model.Task, filters Filters) Columns {
	cols := Partition(tasks)
	for status, column := range cols {
		cols[status] = e.Apply(column, filters[status])
	}
	return cols
}

// A missing creation time sorts as the epoch.
func createdKey(t model.Task) int64 {
	if t.CreatedAt.IsZero() {
		return 0
	}
	return t.CreatedAt.UnixNano()
}
