package schedule

import (
	"slices"

	"dayplan/internal/task"
	"dayplan/internal/timeutil"
)

// SortDirection orders tasks by start time.
type SortDirection int

const (
	Ascending SortDirection = iota
	Descending
)

func (d SortDirection) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// Snapshot is an immutable copy of the data the notification scheduler needs.
type Snapshot struct {
	Tasks       []task.Task
	NotifiedIDs []int
}

// Store is the authoritative ordered task sequence for a session.
// Mutations always build a new slice; values returned to callers are copies.
type Store struct {
	tasks     []task.Task
	notified  map[int]struct{}
	dir       SortDirection
	undo      Undo
	observers []func(Snapshot)
}

func New(tasks []task.Task, notifiedIDs []int) *Store {
	s := &Store{
		tasks:    task.Clone(tasks),
		notified: make(map[int]struct{}, len(notifiedIDs)),
	}
	for _, id := range notifiedIDs {
		s.notified[id] = struct{}{}
	}
	return s
}

// OnChange registers fn to receive a snapshot after every mutation.
func (s *Store) OnChange(fn func(Snapshot)) {
	s.observers = append(s.observers, fn)
}

func (s *Store) Tasks() []task.Task {
	return task.Clone(s.tasks)
}

func (s *Store) Len() int {
	return len(s.tasks)
}

func (s *Store) Task(id int) (task.Task, bool) {
	i := task.IndexOf(s.tasks, id)
	if i < 0 {
		return task.Task{}, false
	}
	return s.tasks[i], true
}

func (s *Store) NotifiedIDs() []int {
	ids := make([]int, 0, len(s.notified))
	for id := range s.notified {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (s *Store) Snapshot() Snapshot {
	return Snapshot{Tasks: s.Tasks(), NotifiedIDs: s.NotifiedIDs()}
}

func (s *Store) SortDirection() SortDirection {
	return s.dir
}

func (s *Store) CompletedCount() int {
	n := 0
	for _, t := range s.tasks {
		if t.Completed {
			n++
		}
	}
	return n
}

// Add assigns the next id and re-sorts the sequence in the current direction.
func (s *Store) Add(d task.Draft) task.Task {
	t := d.Build(task.NextID(s.tasks))
	next := append(task.Clone(s.tasks), t)
	sortByStart(next, s.dir)
	s.replace(next)
	return t
}

// Update replaces the editable fields of task id; completion is kept.
func (s *Store) Update(id int, d task.Draft) bool {
	i := task.IndexOf(s.tasks, id)
	if i < 0 {
		return false
	}
	updated := d.Build(id)
	updated.Completed = s.tasks[i].Completed

	next := task.Clone(s.tasks)
	next[i] = updated
	s.replace(next)
	return true
}

// ToggleComplete flips completion and records the previous task for undo.
func (s *Store) ToggleComplete(id int) (Pending, bool) {
	i := task.IndexOf(s.tasks, id)
	if i < 0 {
		return Pending{}, false
	}
	before := s.tasks[i]

	next := task.Clone(s.tasks)
	next[i].Completed = !before.Completed
	p := s.undo.Record(before, i, ActionToggled)
	s.replace(next)
	return p, true
}

func (s *Store) ToggleNotification(id int) bool {
	i := task.IndexOf(s.tasks, id)
	if i < 0 {
		return false
	}
	next := task.Clone(s.tasks)
	next[i].NotificationsEnabled = !next[i].NotificationsEnabled
	s.replace(next)
	return true
}

// Delete removes task id and records it with its index for undo.
func (s *Store) Delete(id int) (Pending, bool) {
	i := task.IndexOf(s.tasks, id)
	if i < 0 {
		return Pending{}, false
	}
	removed := s.tasks[i]

	next := make([]task.Task, 0, len(s.tasks)-1)
	next = append(next, s.tasks[:i]...)
	next = append(next, s.tasks[i+1:]...)
	p := s.undo.Record(removed, i, ActionDeleted)
	s.replace(next)
	return p, true
}

// Reorder replaces the order wholesale.
func (s *Store) Reorder(seq []task.Task) {
	s.replace(task.Clone(seq))
}

// Move splices the task at from into position to.
func (s *Store) Move(from, to int) bool {
	if from == to || from < 0 || to < 0 || from >= len(s.tasks) || to >= len(s.tasks) {
		return false
	}
	s.Reorder(Splice(s.tasks, from, to))
	return true
}

// ToggleSortDirection flips the direction and always re-sorts.
func (s *Store) ToggleSortDirection() SortDirection {
	if s.dir == Ascending {
		s.dir = Descending
	} else {
		s.dir = Ascending
	}
	next := task.Clone(s.tasks)
	sortByStart(next, s.dir)
	s.replace(next)
	return s.dir
}

// PrepareNextDay clears every completion flag and the notified set.
func (s *Store) PrepareNextDay() {
	next := task.Clone(s.tasks)
	for i := range next {
		next[i].Completed = false
	}
	s.notified = make(map[int]struct{})
	s.replace(next)
}

func (s *Store) PendingUndo() (Pending, bool) {
	return s.undo.Pending()
}

// Undo reverts the pending action, if any.
func (s *Store) Undo() bool {
	next, changed := s.undo.Apply(s.tasks)
	if changed {
		s.replace(next)
	}
	return changed
}

func (s *Store) DismissUndo() {
	s.undo.Dismiss()
}

func (s *Store) ExpireUndo(token uint64) bool {
	return s.undo.Expire(token)
}

func (s *Store) replace(next []task.Task) {
	s.tasks = next
	if len(s.observers) == 0 {
		return
	}
	snap := s.Snapshot()
	for _, fn := range s.observers {
		fn(snap)
	}
}

// Splice returns a copy of seq with the item at from removed and reinserted at to.
func Splice[T any](seq []T, from, to int) []T {
	out := make([]T, 0, len(seq))
	out = append(out, seq[:from]...)
	out = append(out, seq[from+1:]...)
	item := seq[from]
	out = slices.Insert(out, to, item)
	return out
}

func sortByStart(tasks []task.Task, dir SortDirection) {
	slices.SortStableFunc(tasks, func(a, b task.Task) int {
		diff := timeutil.Minutes(a.StartTime) - timeutil.Minutes(b.StartTime)
		if dir == Descending {
			return -diff
		}
		return diff
	})
}
