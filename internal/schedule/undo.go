package schedule

import (
	"time"

	"dayplan/internal/task"
)

// UndoTimeout is how long a reversible action stays undoable.
const UndoTimeout = 5 * time.Second

// ActionKind identifies which reversible action sits in the undo slot.
type ActionKind int

const (
	ActionDeleted ActionKind = iota
	ActionToggled
)

// Pending is the single reversible action. Task holds the state before the action.
type Pending struct {
	Task          task.Task
	OriginalIndex int
	Kind          ActionKind
	Token         uint64
}

// Message is the snackbar text for the action.
func (p Pending) Message() string {
	switch p.Kind {
	case ActionDeleted:
		return "Task deleted"
	case ActionToggled:
		if p.Task.Completed {
			return "Task marked incomplete"
		}
		return "Task completed"
	}
	return ""
}

// Undo is a one-slot buffer; recording a new action overwrites the previous one.
type Undo struct {
	slot *Pending
	seq  uint64
}

func (u *Undo) Record(t task.Task, originalIndex int, kind ActionKind) Pending {
	u.seq++
	p := Pending{Task: t, OriginalIndex: originalIndex, Kind: kind, Token: u.seq}
	u.slot = &p
	return p
}

func (u *Undo) Pending() (Pending, bool) {
	if u.slot == nil {
		return Pending{}, false
	}
	return *u.slot, true
}

// Dismiss makes the pending action permanent.
func (u *Undo) Dismiss() {
	u.slot = nil
}

// Expire clears the slot only if token still names the pending action.
func (u *Undo) Expire(token uint64) bool {
	if u.slot == nil || u.slot.Token != token {
		return false
	}
	u.slot = nil
	return true
}

// Apply reverts the pending action against tasks and clears the slot.
// The returned bool reports whether tasks changed.
func (u *Undo) Apply(tasks []task.Task) ([]task.Task, bool) {
	p, ok := u.Pending()
	if !ok {
		return tasks, false
	}
	u.slot = nil

	switch p.Kind {
	case ActionDeleted:
		idx := p.OriginalIndex
		if idx < 0 {
			idx = 0
		}
		if idx > len(tasks) {
			idx = len(tasks)
		}
		out := make([]task.Task, 0, len(tasks)+1)
		out = append(out, tasks[:idx]...)
		out = append(out, p.Task)
		out = append(out, tasks[idx:]...)
		return out, true
	case ActionToggled:
		i := task.IndexOf(tasks, p.Task.ID)
		if i < 0 {
			return tasks, false
		}
		out := task.Clone(tasks)
		out[i] = p.Task
		return out, true
	}
	return tasks, false
}
