// Package gesture resolves pointer interactions on task rows into exactly one
// action: tap, double-tap (edit), swipe (complete or delete) or long-press drag
// (reorder or drop-to-delete). It is a pure state machine; the host feeds it
// events, schedules the timers it asks for and renders its visual state.
package gesture

import (
	"math"
	"time"
)

// State of the current interaction.
type State int

const (
	Idle State = iota
	Pending
	Swiping
	Dragging
	Exiting
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Swiping:
		return "swiping"
	case Dragging:
		return "dragging"
	case Exiting:
		return "exiting"
	default:
		return "idle"
	}
}

type Config struct {
	LongPress      time.Duration
	Jitter         int
	SwipeThreshold int
	DoubleTap      time.Duration
}

func DefaultConfig() Config {
	return Config{
		LongPress:      300 * time.Millisecond,
		Jitter:         10,
		SwipeThreshold: 80,
		DoubleTap:      300 * time.Millisecond,
	}
}

type Point struct {
	X, Y int
}

// Rect is half-open: it contains X <= p.X < X+W and Y <= p.Y < Y+H.
type Rect struct {
	X, Y, W, H int
}

func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// Row describes what a press landed on.
type Row struct {
	Index     int
	TaskID    int
	Completed bool
	// OnControl marks presses on an interactive sub-control; those are not gestures.
	OnControl bool
}

// Events.
type (
	Event interface{ isEvent() }

	Press struct {
		At             time.Time
		Point          Point
		Row            Row
		ReorderEnabled bool
	}
	Move struct {
		Point Point
	}
	Release struct {
		At    time.Time
		Point Point
	}
	LongPressElapsed struct {
		Token uint64
	}
	ExitDone struct {
		Token uint64
	}
	Cancel struct{}
)

func (Press) isEvent()            {}
func (Move) isEvent()             {}
func (Release) isEvent()          {}
func (LongPressElapsed) isEvent() {}
func (ExitDone) isEvent()         {}
func (Cancel) isEvent()           {}

type ActionKind int

const (
	None ActionKind = iota
	Edit
	ToggleComplete
	Delete
	Reorder
)

// Action is a committed intent for the task store.
type Action struct {
	Kind   ActionKind
	TaskID int
	From   int
	To     int
}

// Outcome is the result of one event: at most one committed action plus the
// timers and animations the host has to run.
type Outcome struct {
	Action Action

	// StartLongPress asks the host to deliver LongPressElapsed{Token} after Delay.
	StartLongPress bool
	// StartExit asks the host to play the exit animation, then deliver ExitDone{Token}.
	StartExit bool
	Token     uint64
	Delay     time.Duration

	// SnapBack asks the host to ease the row offset from SnapFrom back to zero.
	SnapBack bool
	SnapFrom int
}

type tap struct {
	row   int
	at    time.Time
	valid bool
}

// Engine tracks a single pointer interaction at a time.
type Engine struct {
	cfg        Config
	rows       []Rect
	deleteZone Rect

	state      State
	token      uint64
	row        Row
	start      Point
	current    Point
	armed      bool
	dx         int
	dropIndex  int
	overDelete bool
	lastTap    tap
}

func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg, dropIndex: -1}
}

// SetLayout updates row bounds (index order) and the delete zone. Call after every layout change.
func (e *Engine) SetLayout(rows []Rect, deleteZone Rect) {
	e.rows = append(e.rows[:0], rows...)
	e.deleteZone = deleteZone
}

func (e *Engine) Config() Config {
	return e.cfg
}

func (e *Engine) State() State {
	return e.state
}

// Handle advances the state machine by one event.
func (e *Engine) Handle(ev Event) Outcome {
	switch ev := ev.(type) {
	case Press:
		return e.press(ev)
	case Move:
		e.move(ev.Point)
	case LongPressElapsed:
		e.longPress(ev.Token)
	case Release:
		return e.release(ev)
	case ExitDone:
		return e.exitDone(ev.Token)
	case Cancel:
		return e.cancel()
	}
	return Outcome{}
}

func (e *Engine) press(ev Press) Outcome {
	if e.state != Idle || ev.Row.OnControl {
		return Outcome{}
	}
	e.token++
	e.state = Pending
	e.row = ev.Row
	e.start = ev.Point
	e.current = ev.Point
	e.dx = 0
	e.dropIndex = -1
	e.overDelete = false
	e.armed = ev.ReorderEnabled
	e.lastTapCheck(ev.At)

	if !e.armed {
		return Outcome{}
	}
	return Outcome{StartLongPress: true, Token: e.token, Delay: e.cfg.LongPress}
}

// lastTapCheck drops a remembered tap that is already too old to pair.
func (e *Engine) lastTapCheck(now time.Time) {
	if e.lastTap.valid && now.Sub(e.lastTap.at) > e.cfg.DoubleTap {
		e.lastTap = tap{}
	}
}

func (e *Engine) move(p Point) {
	e.current = p
	switch e.state {
	case Pending:
		dx := p.X - e.start.X
		dy := p.Y - e.start.Y
		if math.Hypot(float64(dx), float64(dy)) > float64(e.cfg.Jitter) {
			e.armed = false
		}
		if abs(dx) > e.cfg.Jitter {
			e.state = Swiping
			e.track(dx)
		}
	case Swiping:
		e.track(p.X - e.start.X)
	case Dragging:
		e.overDelete = e.deleteZone.Contains(p)
		if e.overDelete {
			e.dropIndex = -1
			return
		}
		if idx := e.rowAt(p); idx >= 0 {
			e.dropIndex = idx
		}
	}
}

func (e *Engine) track(dx int) {
	if e.row.Completed && dx < 0 {
		dx = 0
	}
	e.dx = dx
}

func (e *Engine) longPress(token uint64) {
	if e.state != Pending || token != e.token || !e.armed {
		return
	}
	e.state = Dragging
	e.dropIndex = e.row.Index
}

func (e *Engine) release(ev Release) Outcome {
	switch e.state {
	case Pending:
		action := e.tap(ev.At)
		e.reset()
		return Outcome{Action: action}

	case Swiping:
		e.move(ev.Point)
		dx := e.dx
		switch {
		case dx >= e.cfg.SwipeThreshold:
			action := Action{Kind: ToggleComplete, TaskID: e.row.TaskID}
			e.reset()
			return Outcome{Action: action}
		case dx <= -e.cfg.SwipeThreshold && !e.row.Completed:
			e.state = Exiting
			return Outcome{StartExit: true, Token: e.token}
		default:
			e.reset()
			return Outcome{SnapBack: dx != 0, SnapFrom: dx}
		}

	case Dragging:
		e.move(ev.Point)
		var action Action
		switch {
		case e.deleteZone.Contains(ev.Point):
			action = Action{Kind: Delete, TaskID: e.row.TaskID}
		case e.dropIndex >= 0 && e.dropIndex != e.row.Index:
			action = Action{Kind: Reorder, TaskID: e.row.TaskID, From: e.row.Index, To: e.dropIndex}
		}
		e.reset()
		return Outcome{Action: action}
	}
	return Outcome{}
}

func (e *Engine) tap(at time.Time) Action {
	if e.lastTap.valid && e.lastTap.row == e.row.Index && at.Sub(e.lastTap.at) <= e.cfg.DoubleTap {
		e.lastTap = tap{}
		return Action{Kind: Edit, TaskID: e.row.TaskID}
	}
	e.lastTap = tap{row: e.row.Index, at: at, valid: true}
	return Action{}
}

func (e *Engine) exitDone(token uint64) Outcome {
	if e.state != Exiting || token != e.token {
		return Outcome{}
	}
	action := Action{Kind: Delete, TaskID: e.row.TaskID}
	e.reset()
	return Outcome{Action: action}
}

func (e *Engine) cancel() Outcome {
	dx := e.dx
	wasSwipe := e.state == Swiping || e.state == Exiting
	e.reset()
	if wasSwipe && dx != 0 {
		return Outcome{SnapBack: true, SnapFrom: dx}
	}
	return Outcome{}
}

func (e *Engine) reset() {
	e.state = Idle
	e.row = Row{}
	e.armed = false
	e.dx = 0
	e.dropIndex = -1
	e.overDelete = false
}

func (e *Engine) rowAt(p Point) int {
	for i, r := range e.rows {
		if p.Y >= r.Y && p.Y < r.Y+r.H {
			return i
		}
	}
	return -1
}

// Visual is the renderer-facing state of a swiped row.
func (e *Engine) Visual() Visual {
	if e.state != Swiping && e.state != Exiting {
		return Visual{}
	}
	return Feedback(e.dx, e.cfg.SwipeThreshold)
}

// SwipedRow returns the index of the row being swiped.
func (e *Engine) SwipedRow() (int, bool) {
	if e.state != Swiping && e.state != Exiting {
		return -1, false
	}
	return e.row.Index, true
}

// Drag describes an active reorder drag for rendering.
type Drag struct {
	TaskID     int
	From       int
	DropIndex  int
	OverDelete bool
	Pointer    Point
	// PreviewY keeps the floating copy at the same offset from the pointer as when it was grabbed.
	PreviewY int
}

func (e *Engine) Drag() (Drag, bool) {
	if e.state != Dragging {
		return Drag{}, false
	}
	previewY := e.current.Y
	if e.row.Index >= 0 && e.row.Index < len(e.rows) {
		previewY = e.current.Y - (e.start.Y - e.rows[e.row.Index].Y)
	}
	return Drag{
		TaskID:     e.row.TaskID,
		From:       e.row.Index,
		DropIndex:  e.dropIndex,
		OverDelete: e.overDelete,
		Pointer:    e.current,
		PreviewY:   previewY,
	}, true
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
