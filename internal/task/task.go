package task

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Category groups tasks for filtering and colouring.
type Category string

const (
	Work     Category = "Work"
	Study    Category = "Study"
	Personal Category = "Personal"
	Family   Category = "Family"
	Rest     Category = "Rest"
)

// Categories lists every category in display order.
func Categories() []Category {
	return []Category{Work, Study, Personal, Family, Rest}
}

func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory matches a category name case-insensitively.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories() {
		if strings.EqualFold(string(c), strings.TrimSpace(s)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// Next cycles to the following category, wrapping around.
func (c Category) Next(delta int) Category {
	all := Categories()
	idx := 0
	for i, known := range all {
		if known == c {
			idx = i
			break
		}
	}
	idx = (idx + delta) % len(all)
	if idx < 0 {
		idx += len(all)
	}
	return all[idx]
}

// Task is one slot of the daily schedule. JSON names match the persisted slot format.
type Task struct {
	ID                   int      `json:"id"`
	StartTime            string   `json:"startTime"`
	EndTime              string   `json:"endTime"`
	Emoji                string   `json:"emoji"`
	Activity             string   `json:"activity"`
	Category             Category `json:"category"`
	Completed            bool     `json:"completed"`
	NotificationsEnabled bool     `json:"notificationsEnabled"`
}

// Draft is the user-supplied part of a new task; id and completion are assigned by the store.
type Draft struct {
	StartTime            string
	EndTime              string
	Emoji                string
	Activity             string
	Category             Category
	NotificationsEnabled bool
}

// NewDraft returns a draft with the creation defaults applied.
func NewDraft() Draft {
	return Draft{
		StartTime:            "09:00",
		EndTime:              "10:00",
		Category:             Personal,
		NotificationsEnabled: true,
	}
}

// Build turns the draft into a task with the given id.
func (d Draft) Build(id int) Task {
	return Task{
		ID:                   id,
		StartTime:            d.StartTime,
		EndTime:              d.EndTime,
		Emoji:                d.Emoji,
		Activity:             d.Activity,
		Category:             d.Category,
		Completed:            false,
		NotificationsEnabled: d.NotificationsEnabled,
	}
}

// DraftOf copies the editable fields of t.
func DraftOf(t Task) Draft {
	return Draft{
		StartTime:            t.StartTime,
		EndTime:              t.EndTime,
		Emoji:                t.Emoji,
		Activity:             t.Activity,
		Category:             t.Category,
		NotificationsEnabled: t.NotificationsEnabled,
	}
}

// Decode parses a persisted JSON task array.
func Decode(data []byte) ([]Task, error) {
	var tasks []Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		return nil, ErrNotArray
	}
	return tasks, nil
}

// Encode serializes tasks as the persisted JSON array.
func Encode(tasks []Task) ([]byte, error) {
	if tasks == nil {
		tasks = []Task{}
	}
	return json.Marshal(tasks)
}

// Clone copies a task sequence.
func Clone(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	copy(out, tasks)
	return out
}

// IndexOf returns the position of id in tasks, or -1.
func IndexOf(tasks []Task, id int) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// NextID is max(id)+1, or 0 for an empty sequence.
func NextID(tasks []Task) int {
	if len(tasks) == 0 {
		return 0
	}
	highest := tasks[0].ID
	for _, t := range tasks[1:] {
		if t.ID > highest {
			highest = t.ID
		}
	}
	return highest + 1
}
