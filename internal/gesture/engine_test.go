package gesture

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

// newEngine lays out rows of height 40 starting at y=0 and a delete zone below them.
func newEngine(rows int) *Engine {
	e := NewEngine(DefaultConfig())
	rects := make([]Rect, rows)
	for i := range rects {
		rects[i] = Rect{X: 0, Y: i * 40, W: 400, H: 40}
	}
	e.SetLayout(rects, Rect{X: 150, Y: 600, W: 100, H: 100})
	return e
}

func row(i int) Row {
	return Row{Index: i, TaskID: 100 + i}
}

func press(e *Engine, r Row, p Point) Outcome {
	return e.Handle(Press{At: t0, Point: p, Row: r, ReorderEnabled: true})
}

func TestSwipeRightAtThresholdCommits(t *testing.T) {
	e := newEngine(3)
	press(e, row(1), Point{X: 100, Y: 50})
	e.Handle(Move{Point: Point{X: 150, Y: 50}})
	require.Equal(t, Swiping, e.State())

	out := e.Handle(Release{At: t0, Point: Point{X: 180, Y: 50}})
	assert.Equal(t, Action{Kind: ToggleComplete, TaskID: 101}, out.Action)
	assert.Equal(t, Idle, e.State())
}

func TestSwipeBelowThresholdSnapsBack(t *testing.T) {
	e := newEngine(3)
	press(e, row(1), Point{X: 100, Y: 50})
	e.Handle(Move{Point: Point{X: 179, Y: 50}})

	v := e.Visual()
	assert.Equal(t, 79, v.Offset)
	assert.Greater(t, v.CompleteOpacity, 0.9)

	out := e.Handle(Release{At: t0, Point: Point{X: 179, Y: 50}})
	assert.Equal(t, None, out.Action.Kind)
	assert.True(t, out.SnapBack)
	assert.Equal(t, 79, out.SnapFrom)
	assert.Equal(t, Visual{}, e.Visual())
	assert.Equal(t, 0, SnapOffset(out.SnapFrom, 10, 10))
}

func TestSwipeLeftExitsThenDeletes(t *testing.T) {
	e := newEngine(3)
	press(e, row(0), Point{X: 200, Y: 10})
	e.Handle(Move{Point: Point{X: 150, Y: 10}})

	out := e.Handle(Release{At: t0, Point: Point{X: 110, Y: 10}})
	require.True(t, out.StartExit)
	assert.Equal(t, None, out.Action.Kind)
	assert.Equal(t, Exiting, e.State())
	assert.Equal(t, 1.0, e.Visual().DeleteOpacity)

	// a stale token is ignored
	assert.Equal(t, Outcome{}, e.Handle(ExitDone{Token: out.Token + 1}))

	done := e.Handle(ExitDone{Token: out.Token})
	assert.Equal(t, Action{Kind: Delete, TaskID: 100}, done.Action)
	assert.Equal(t, Idle, e.State())
}

func TestCompletedTaskCannotSwipeLeft(t *testing.T) {
	e := newEngine(3)
	r := row(2)
	r.Completed = true
	press(e, r, Point{X: 200, Y: 90})
	e.Handle(Move{Point: Point{X: 50, Y: 90}})

	assert.Equal(t, 0, e.Visual().Offset)
	out := e.Handle(Release{At: t0, Point: Point{X: 50, Y: 90}})
	assert.Equal(t, None, out.Action.Kind)
	assert.False(t, out.StartExit)
}

func TestCompletedTaskSwipeRightTogglesBack(t *testing.T) {
	e := newEngine(3)
	r := row(2)
	r.Completed = true
	press(e, r, Point{X: 10, Y: 90})
	e.Handle(Move{Point: Point{X: 60, Y: 90}})

	out := e.Handle(Release{At: t0, Point: Point{X: 95, Y: 90}})
	assert.Equal(t, ToggleComplete, out.Action.Kind)
}

func TestLongPressDragReorders(t *testing.T) {
	e := newEngine(5)
	out := press(e, row(1), Point{X: 100, Y: 50})
	require.True(t, out.StartLongPress)
	assert.Equal(t, 300*time.Millisecond, out.Delay)

	e.Handle(LongPressElapsed{Token: out.Token})
	require.Equal(t, Dragging, e.State())

	e.Handle(Move{Point: Point{X: 100, Y: 130}})
	d, ok := e.Drag()
	require.True(t, ok)
	assert.Equal(t, 3, d.DropIndex)
	assert.Equal(t, 1, d.From)
	assert.Equal(t, 120, d.PreviewY)

	res := e.Handle(Release{At: t0, Point: Point{X: 100, Y: 130}})
	assert.Equal(t, Action{Kind: Reorder, TaskID: 101, From: 1, To: 3}, res.Action)
	assert.Equal(t, Idle, e.State())
}

func TestDragOutsideRowsKeepsLastDropIndex(t *testing.T) {
	e := newEngine(3)
	out := press(e, row(0), Point{X: 10, Y: 10})
	e.Handle(LongPressElapsed{Token: out.Token})
	e.Handle(Move{Point: Point{X: 10, Y: 90}})
	e.Handle(Move{Point: Point{X: 10, Y: 400}})

	res := e.Handle(Release{At: t0, Point: Point{X: 10, Y: 400}})
	assert.Equal(t, Action{Kind: Reorder, TaskID: 100, From: 0, To: 2}, res.Action)
}

func TestDragReleasedOnSameRowIsNoop(t *testing.T) {
	e := newEngine(3)
	out := press(e, row(1), Point{X: 10, Y: 50})
	e.Handle(LongPressElapsed{Token: out.Token})
	res := e.Handle(Release{At: t0, Point: Point{X: 12, Y: 55}})
	assert.Equal(t, None, res.Action.Kind)
}

func TestDropOnDeleteZoneDeletes(t *testing.T) {
	e := newEngine(3)
	out := press(e, row(2), Point{X: 100, Y: 90})
	e.Handle(LongPressElapsed{Token: out.Token})

	e.Handle(Move{Point: Point{X: 200, Y: 650}})
	d, _ := e.Drag()
	assert.True(t, d.OverDelete)
	assert.Equal(t, -1, d.DropIndex)

	res := e.Handle(Release{At: t0, Point: Point{X: 200, Y: 650}})
	assert.Equal(t, Action{Kind: Delete, TaskID: 102}, res.Action)
}

func TestJitterCancelsLongPress(t *testing.T) {
	e := newEngine(3)
	out := press(e, row(0), Point{X: 100, Y: 10})
	e.Handle(Move{Point: Point{X: 100, Y: 25}})
	e.Handle(LongPressElapsed{Token: out.Token})
	assert.Equal(t, Pending, e.State())
}

func TestSmallMoveKeepsLongPressArmed(t *testing.T) {
	e := newEngine(3)
	out := press(e, row(0), Point{X: 100, Y: 10})
	e.Handle(Move{Point: Point{X: 106, Y: 16}})
	e.Handle(LongPressElapsed{Token: out.Token})
	assert.Equal(t, Dragging, e.State())
}

func TestStaleLongPressTokenIgnored(t *testing.T) {
	e := newEngine(3)
	first := press(e, row(0), Point{X: 100, Y: 10})
	e.Handle(Release{At: t0, Point: Point{X: 100, Y: 10}})
	press(e, row(1), Point{X: 100, Y: 50})

	e.Handle(LongPressElapsed{Token: first.Token})
	assert.Equal(t, Pending, e.State())
}

func TestDoubleTapEdits(t *testing.T) {
	e := newEngine(3)
	e.Handle(Press{At: t0, Point: Point{X: 10, Y: 10}, Row: row(0)})
	out := e.Handle(Release{At: t0.Add(50 * time.Millisecond), Point: Point{X: 10, Y: 10}})
	assert.Equal(t, None, out.Action.Kind)

	e.Handle(Press{At: t0.Add(200 * time.Millisecond), Point: Point{X: 10, Y: 10}, Row: row(0)})
	out = e.Handle(Release{At: t0.Add(250 * time.Millisecond), Point: Point{X: 10, Y: 10}})
	assert.Equal(t, Action{Kind: Edit, TaskID: 100}, out.Action)
}

func TestSlowSecondTapIsNotDoubleTap(t *testing.T) {
	e := newEngine(3)
	e.Handle(Press{At: t0, Point: Point{X: 10, Y: 10}, Row: row(0)})
	e.Handle(Release{At: t0, Point: Point{X: 10, Y: 10}})

	e.Handle(Press{At: t0.Add(400 * time.Millisecond), Point: Point{X: 10, Y: 10}, Row: row(0)})
	out := e.Handle(Release{At: t0.Add(400 * time.Millisecond), Point: Point{X: 10, Y: 10}})
	assert.Equal(t, None, out.Action.Kind)
}

func TestTapsOnDifferentRowsDoNotPair(t *testing.T) {
	e := newEngine(3)
	e.Handle(Press{At: t0, Point: Point{X: 10, Y: 10}, Row: row(0)})
	e.Handle(Release{At: t0, Point: Point{X: 10, Y: 10}})
	e.Handle(Press{At: t0.Add(100 * time.Millisecond), Point: Point{X: 10, Y: 50}, Row: row(1)})
	out := e.Handle(Release{At: t0.Add(100 * time.Millisecond), Point: Point{X: 10, Y: 50}})
	assert.Equal(t, None, out.Action.Kind)
}

func TestReorderDisabledNeverDrags(t *testing.T) {
	e := newEngine(3)
	out := e.Handle(Press{At: t0, Point: Point{X: 100, Y: 10}, Row: row(0)})
	assert.False(t, out.StartLongPress)

	e.Handle(LongPressElapsed{Token: 1})
	assert.Equal(t, Pending, e.State())

	// swiping still works
	e.Handle(Move{Point: Point{X: 200, Y: 10}})
	res := e.Handle(Release{At: t0, Point: Point{X: 200, Y: 10}})
	assert.Equal(t, ToggleComplete, res.Action.Kind)
}

func TestControlPressIsNotCaptured(t *testing.T) {
	e := newEngine(3)
	r := row(0)
	r.OnControl = true
	out := press(e, r, Point{X: 10, Y: 10})
	assert.Equal(t, Outcome{}, out)
	assert.Equal(t, Idle, e.State())
}

func TestCancelResetsWithoutAction(t *testing.T) {
	e := newEngine(3)
	press(e, row(0), Point{X: 100, Y: 10})
	e.Handle(Move{Point: Point{X: 140, Y: 10}})

	out := e.Handle(Cancel{})
	assert.Equal(t, None, out.Action.Kind)
	assert.True(t, out.SnapBack)
	assert.Equal(t, 40, out.SnapFrom)
	assert.Equal(t, Idle, e.State())

	drag := press(e, row(1), Point{X: 100, Y: 50})
	e.Handle(LongPressElapsed{Token: drag.Token})
	e.Handle(Move{Point: Point{X: 100, Y: 90}})
	assert.Equal(t, Outcome{}, e.Handle(Cancel{}))
	_, ok := e.Drag()
	assert.False(t, ok)
}

func TestPressWhileBusyIgnored(t *testing.T) {
	e := newEngine(3)
	press(e, row(0), Point{X: 10, Y: 10})
	out := press(e, row(1), Point{X: 10, Y: 50})
	assert.Equal(t, Outcome{}, out)
}
