package schedule

import (
	"time"

	"dayplan/internal/task"
	"dayplan/internal/timeutil"
)

// Summary is shown before the user prepares the next day.
type Summary struct {
	CompletedCount  int
	IncompleteCount int
	TotalCount      int
	CompletedTime   string
	TotalTime       string
	Incomplete      []task.Task
}

func Summarize(tasks []task.Task) Summary {
	var completedMinutes, totalMinutes int
	s := Summary{TotalCount: len(tasks)}
	for _, t := range tasks {
		d := timeutil.Duration(t.StartTime, t.EndTime)
		totalMinutes += d
		if t.Completed {
			s.CompletedCount++
			completedMinutes += d
			continue
		}
		s.IncompleteCount++
		s.Incomplete = append(s.Incomplete, t)
	}
	s.CompletedTime = timeutil.FormatMinutes(completedMinutes)
	s.TotalTime = timeutil.FormatMinutes(totalMinutes)
	return s
}

// IsCurrent reports whether now falls inside the task's slot.
func IsCurrent(t task.Task, now time.Time) bool {
	n := timeutil.NowMinutes(now)
	return n >= timeutil.Minutes(t.StartTime) && n < timeutil.Minutes(t.EndTime)
}

// Progress is the elapsed share (0..1) of a running task.
func Progress(t task.Task, now time.Time) (float64, bool) {
	if !IsCurrent(t, now) {
		return 0, false
	}
	start := timeutil.Minutes(t.StartTime)
	total := timeutil.Minutes(t.EndTime) - start
	if total <= 0 {
		return 0, false
	}
	p := float64(timeutil.NowMinutes(now)-start) / float64(total)
	return min(max(p, 0), 1), true
}
