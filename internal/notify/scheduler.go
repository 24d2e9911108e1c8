// Package notify fires start-of-task reminders from a background scheduler and
// carries schedule snapshots to it, in-process or over redis.
package notify

import (
	"context"
	"slices"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"dayplan/internal/schedule"
	"dayplan/internal/task"
	"dayplan/internal/timeutil"
)

const DefaultInterval = time.Minute

type Option func(*Scheduler)

func WithClock(c Clock) Option {
	return func(s *Scheduler) { s.clock = c }
}

func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.interval = d
		}
	}
}

func WithLogger(l log.FieldLogger) Option {
	return func(s *Scheduler) { s.log = l }
}

// Scheduler owns a private copy of the schedule and fires a notification when
// the wall-clock minute equals a task's start minute.
type Scheduler struct {
	notifier Notifier
	clock    Clock
	interval time.Duration
	log      log.FieldLogger

	updates  chan schedule.Snapshot
	stop     chan struct{}
	stopOnce sync.Once

	mu       sync.Mutex
	tasks    []task.Task
	notified map[int]bool
}

func NewScheduler(n Notifier, opts ...Option) *Scheduler {
	s := &Scheduler{
		notifier: n,
		clock:    RealClock{},
		interval: DefaultInterval,
		log:      log.StandardLogger(),
		updates:  make(chan schedule.Snapshot, 1),
		stop:     make(chan struct{}),
		notified: map[int]bool{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Update hands the scheduler a new snapshot. It never blocks; an unread
// snapshot is replaced by the newer one.
func (s *Scheduler) Update(snap schedule.Snapshot) {
	for {
		select {
		case s.updates <- snap:
			return
		default:
		}
		select {
		case <-s.updates:
		default:
		}
	}
}

// Stop ends Run. Safe to call more than once.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// Run evaluates once immediately and then every interval. A snapshot restarts the ticker.
func (s *Scheduler) Run(ctx context.Context) {
	s.Evaluate(s.clock.Now())
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stop:
			return
		case snap := <-s.updates:
			s.replace(snap)
			ticker.Reset(s.interval)
			s.Evaluate(s.clock.Now())
		case <-ticker.C:
			s.Evaluate(s.clock.Now())
		}
	}
}

func (s *Scheduler) replace(snap schedule.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = task.Clone(snap.Tasks)
	s.notified = make(map[int]bool, len(snap.NotifiedIDs))
	for _, id := range snap.NotifiedIDs {
		s.notified[id] = true
	}
}

// Evaluate fires every due reminder for now and returns what it showed.
func (s *Scheduler) Evaluate(now time.Time) []Notification {
	if s.notifier.Permission() != PermissionGranted {
		return nil
	}
	minute := timeutil.NowMinutes(now)

	s.mu.Lock()
	defer s.mu.Unlock()
	var fired []Notification
	for _, t := range s.tasks {
		if !t.NotificationsEnabled || t.Completed || s.notified[t.ID] {
			continue
		}
		if timeutil.Minutes(t.StartTime) != minute {
			continue
		}
		n := ForTask(t)
		if err := s.notifier.Show(n); err != nil {
			s.log.WithError(err).WithField("task", t.ID).Error("failed to show notification")
		}
		s.notified[t.ID] = true
		fired = append(fired, n)
	}
	return fired
}

// Notified lists the ids fired or received since the last snapshot.
func (s *Scheduler) Notified() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int, 0, len(s.notified))
	for id := range s.notified {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}
