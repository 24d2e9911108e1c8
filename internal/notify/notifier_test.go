package notify

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDedupeCollapsesRepeatedTags(t *testing.T) {
	rec := newRecorder()
	clock := NewFakeClock(at(9, 0))
	d := NewDedupe(rec, time.Minute, clock)

	n := ForTask(nineAM())
	require.NoError(t, d.Show(n))
	require.NoError(t, d.Show(n))
	assert.Equal(t, 1, rec.count())

	other := n
	other.Tag = "task-8-09:00"
	require.NoError(t, d.Show(other))
	assert.Equal(t, 2, rec.count())

	clock.Advance(time.Minute)
	require.NoError(t, d.Show(n))
	assert.Equal(t, 3, rec.count())
	assert.Equal(t, PermissionGranted, d.Permission())
}

func TestSchedulerResendAfterSnapshotIsCollapsed(t *testing.T) {
	rec := newRecorder()
	clock := NewFakeClock(at(9, 0))
	s := NewScheduler(NewDedupe(rec, time.Minute, clock), WithClock(clock))

	s.replace(snapshot(nineAM()))
	s.Evaluate(clock.Now())
	// the foreground never learns about fired ids, so a new snapshot re-arms the task
	s.replace(snapshot(nineAM()))
	s.Evaluate(clock.Now())

	assert.Equal(t, 1, rec.count())
}

func TestMultiPermissionAndShow(t *testing.T) {
	denied := newRecorder()
	denied.perm = PermissionDenied
	granted := newRecorder()

	m := Multi{denied, granted}
	assert.Equal(t, PermissionGranted, m.Permission())
	require.NoError(t, m.Show(ForTask(nineAM())))
	assert.Equal(t, 0, denied.count())
	assert.Equal(t, 1, granted.count())

	assert.Equal(t, PermissionDenied, Multi{denied}.Permission())
}

func TestFuncNotifierPropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	var got Notification
	f := FuncNotifier(func(n Notification) error {
		got = n
		return boom
	})
	n := ForTask(nineAM())
	assert.ErrorIs(t, f.Show(n), boom)
	assert.Equal(t, n, got)
}

func TestCommandNotifierMissingCommandIsDenied(t *testing.T) {
	c := NewCommandNotifier("dayplan-no-such-notifier")
	assert.Equal(t, PermissionDefault, c.Permission())
	assert.Equal(t, PermissionDenied, c.RequestPermission())
	assert.NoError(t, c.Show(ForTask(nineAM())))
}

func TestCommandNotifierArgs(t *testing.T) {
	n := ForTask(nineAM())
	c := NewCommandNotifier("/usr/bin/notify-send")
	assert.Equal(t, []string{
		"--app-name=dayplan",
		"--hint=string:x-dunst-stack-tag:task-7-09:00",
		"Time for: Work",
		"This task starts now at 09:00.",
	}, c.args(n))

	assert.Equal(t, []string{n.Title, n.Body}, NewCommandNotifier("terminal-notifier").args(n))
}
