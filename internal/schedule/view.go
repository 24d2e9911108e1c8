package schedule

import (
	"fmt"
	"strings"

	"dayplan/internal/task"
)

// Completion filters tasks by completion status.
type Completion string

const (
	ShowAll        Completion = "all"
	ShowCompleted  Completion = "completed"
	ShowIncomplete Completion = "incomplete"
)

func ParseCompletion(s string) (Completion, error) {
	switch Completion(strings.ToLower(strings.TrimSpace(s))) {
	case "", ShowAll:
		return ShowAll, nil
	case ShowCompleted, "done":
		return ShowCompleted, nil
	case ShowIncomplete, "todo":
		return ShowIncomplete, nil
	}
	return ShowAll, fmt.Errorf("unknown completion filter %q", s)
}

// Next cycles all -> incomplete -> completed -> all.
func (c Completion) Next() Completion {
	switch c {
	case ShowAll:
		return ShowIncomplete
	case ShowIncomplete:
		return ShowCompleted
	default:
		return ShowAll
	}
}

func (c Completion) matches(completed bool) bool {
	switch c {
	case ShowCompleted:
		return completed
	case ShowIncomplete:
		return !completed
	default:
		return true
	}
}

// View is a filtered projection of the store. Filters compose with AND.
// An empty Category means no category filter.
type View struct {
	Completion Completion
	Category   task.Category
	Query      string
}

func (v View) Apply(tasks []task.Task) []task.Task {
	q := strings.ToLower(strings.TrimSpace(v.Query))
	out := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if !v.Completion.matches(t.Completed) {
			continue
		}
		if v.Category != "" && t.Category != v.Category {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(t.Activity), q) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Filtered reports whether any filter narrows the view.
func (v View) Filtered() bool {
	return v.Category != "" || strings.TrimSpace(v.Query) != "" || (v.Completion != ShowAll && v.Completion != "")
}

// ReorderEnabled is false while a category filter or search query is active.
// The completion filter keeps reordering; callers map visible rows with StoreIndex.
func (v View) ReorderEnabled() bool {
	return v.Category == "" && strings.TrimSpace(v.Query) == ""
}

// StoreIndex maps position i of visible to its index in all, or -1.
func StoreIndex(all, visible []task.Task, i int) int {
	if i < 0 || i >= len(visible) {
		return -1
	}
	return task.IndexOf(all, visible[i].ID)
}

// EmptyState explains why a view renders no rows.
type EmptyState int

const (
	NotEmpty EmptyState = iota
	NoTasks
	NoMatches
)

func (v View) Empty(all, visible []task.Task) EmptyState {
	switch {
	case len(visible) > 0:
		return NotEmpty
	case len(all) == 0:
		return NoTasks
	default:
		return NoMatches
	}
}
