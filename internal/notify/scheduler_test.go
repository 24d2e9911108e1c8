package notify

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dayplan/internal/schedule"
	"dayplan/internal/task"
)

func at(h, m int) time.Time {
	return time.Date(2026, 10, 18, h, m, 0, 0, time.Local)
}

type recorder struct {
	mu    sync.Mutex
	perm  Permission
	shown []Notification
}

func newRecorder() *recorder {
	return &recorder{perm: PermissionGranted}
}

func (r *recorder) Permission() Permission        { return r.perm }
func (r *recorder) RequestPermission() Permission { return r.perm }

func (r *recorder) Show(n Notification) error {
	r.mu.Lock()
	r.shown = append(r.shown, n)
	r.mu.Unlock()
	return nil
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.shown)
}

func snapshot(tasks ...task.Task) schedule.Snapshot {
	return schedule.Snapshot{Tasks: tasks}
}

func nineAM() task.Task {
	return task.Task{ID: 7, StartTime: "09:00", EndTime: "10:00", Emoji: "💻", Activity: "Work", NotificationsEnabled: true}
}

func TestEvaluateFiresOnceAtStartMinute(t *testing.T) {
	rec := newRecorder()
	s := NewScheduler(rec)
	s.replace(snapshot(nineAM()))

	fired := s.Evaluate(at(9, 0))
	require.Len(t, fired, 1)
	assert.Equal(t, Notification{
		Title:   "Time for: Work",
		Body:    "This task starts now at 09:00.",
		Tag:     "task-7-09:00",
		Vibrate: []int{200, 100, 200},
	}, fired[0])
	assert.Equal(t, []int{7}, s.Notified())

	assert.Empty(t, s.Evaluate(at(9, 0)))
	assert.Empty(t, s.Evaluate(at(9, 1)))
	assert.Equal(t, 1, rec.count())
}

func TestEvaluateHasNoCatchUp(t *testing.T) {
	rec := newRecorder()
	s := NewScheduler(rec)
	s.replace(snapshot(nineAM()))

	assert.Empty(t, s.Evaluate(at(9, 1)))
	assert.Empty(t, s.Notified())
}

func TestEvaluateSkipsIneligibleTasks(t *testing.T) {
	done := nineAM()
	done.ID = 1
	done.Completed = true
	muted := nineAM()
	muted.ID = 2
	muted.NotificationsEnabled = false
	already := nineAM()
	already.ID = 3

	s := NewScheduler(newRecorder())
	s.replace(schedule.Snapshot{Tasks: []task.Task{done, muted, already}, NotifiedIDs: []int{3}})

	assert.Empty(t, s.Evaluate(at(9, 0)))
}

func TestEvaluateWithoutPermissionIsSilent(t *testing.T) {
	rec := newRecorder()
	rec.perm = PermissionDenied
	s := NewScheduler(rec)
	s.replace(snapshot(nineAM()))

	assert.Empty(t, s.Evaluate(at(9, 0)))
	assert.Equal(t, 0, rec.count())
	assert.Empty(t, s.Notified())
}

func TestSnapshotReplacesNotifiedSet(t *testing.T) {
	s := NewScheduler(newRecorder())
	s.replace(snapshot(nineAM()))
	s.Evaluate(at(9, 0))
	require.Equal(t, []int{7}, s.Notified())

	s.replace(schedule.Snapshot{Tasks: []task.Task{nineAM()}, NotifiedIDs: []int{1, 2}})
	assert.Equal(t, []int{1, 2}, s.Notified())
}

func TestUpdateNeverBlocksAndKeepsLatest(t *testing.T) {
	s := NewScheduler(newRecorder())
	first := nineAM()
	second := nineAM()
	second.ID = 8

	s.Update(snapshot(first))
	s.Update(snapshot(second))

	got := <-s.updates
	assert.Equal(t, 8, got.Tasks[0].ID)
}

func TestRunEvaluatesOnUpdateAndStops(t *testing.T) {
	rec := newRecorder()
	clock := NewFakeClock(at(9, 0))
	s := NewScheduler(rec, WithClock(clock), WithInterval(10*time.Millisecond))

	done := make(chan struct{})
	go func() {
		s.Run(context.Background())
		close(done)
	}()

	s.Update(snapshot(nineAM()))
	assert.Eventually(t, func() bool { return rec.count() == 1 }, time.Second, 5*time.Millisecond)

	clock.Advance(time.Minute)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 1, rec.count())

	s.Stop()
	s.Stop()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := NewScheduler(newRecorder(), WithClock(NewFakeClock(at(8, 0))))

	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}
