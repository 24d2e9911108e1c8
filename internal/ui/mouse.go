package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"dayplan/internal/gesture"
	"dayplan/internal/task"
)

type control int

const (
	controlNone control = iota
	controlCheckbox
	controlBell
)

func controlAt(x int) control {
	switch {
	case x >= checkboxX && x < checkboxX+checkboxW:
		return controlCheckbox
	case x >= bellX && x < bellX+bellW:
		return controlBell
	}
	return controlNone
}

// rowAt maps a screen row to an index into the visible tasks, or -1.
func (m Model) rowAt(y int) int {
	if y < headerLines || y >= headerLines+m.listHeight() {
		return -1
	}
	return m.offset + y - headerLines
}

func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	if m.mode != modeList {
		return m, nil
	}
	p := gesture.Point{X: msg.X, Y: msg.Y}
	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.scroll(-1)
		case tea.MouseButtonWheelDown:
			m.scroll(1)
		case tea.MouseButtonLeft:
			return m.press(p)
		}
	case tea.MouseActionMotion:
		return m.resolve(m.engine.Handle(gesture.Move{Point: p}))
	case tea.MouseActionRelease:
		return m.resolve(m.engine.Handle(gesture.Release{At: m.now(), Point: p}))
	}
	return m, nil
}

func (m Model) press(p gesture.Point) (Model, tea.Cmd) {
	if m.engine.State() != gesture.Idle {
		return m, nil
	}
	visible := m.visible()
	idx := m.rowAt(p.Y)
	if idx < 0 || idx >= len(visible) {
		return m, nil
	}
	t := visible[idx]
	ctl := controlAt(p.X)
	m.cursor = idx

	out := m.engine.Handle(gesture.Press{
		At:             m.now(),
		Point:          p,
		Row:            gesture.Row{Index: idx, TaskID: t.ID, Completed: t.Completed, OnControl: ctl != controlNone},
		ReorderEnabled: m.view.ReorderEnabled(),
	})
	switch ctl {
	case controlCheckbox:
		return m.toggleTask(t.ID)
	case controlBell:
		return m.toggleNotification(t.ID), nil
	}
	return m.resolve(out)
}

// resolve runs the timers and animations an outcome asks for and applies its action.
func (m Model) resolve(out gesture.Outcome) (Model, tea.Cmd) {
	var cmds []tea.Cmd
	if out.StartLongPress {
		token := out.Token
		cmds = append(cmds, tea.Tick(out.Delay, func(_ time.Time) tea.Msg { return longPressMsg{token: token} }))
	}
	if out.StartExit {
		m.exit = &anim{row: m.cursor, from: m.engine.Visual().Offset, token: out.Token}
		cmds = append(cmds, frameTick(exitFrameMsg{token: out.Token, frame: 1}))
	}
	if out.SnapBack {
		m.exit = nil
		m.snapSeq++
		m.snap = &anim{row: m.cursor, from: out.SnapFrom, token: m.snapSeq}
		cmds = append(cmds, frameTick(snapFrameMsg{seq: m.snapSeq, frame: 1}))
	}

	var cmd tea.Cmd
	m, cmd = m.apply(out.Action)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) apply(a gesture.Action) (Model, tea.Cmd) {
	switch a.Kind {
	case gesture.Edit:
		t, ok := m.store.Task(a.TaskID)
		if !ok {
			return m, nil
		}
		return m.startEdit(t)
	case gesture.ToggleComplete:
		return m.toggleTask(a.TaskID)
	case gesture.Delete:
		return m.deleteTask(a.TaskID)
	case gesture.Reorder:
		return m.moveTask(a.From, a.To), nil
	}
	return m, nil
}

func (m Model) stepExit(msg exitFrameMsg) (Model, tea.Cmd) {
	if m.exit == nil || m.exit.token != msg.token {
		return m, nil
	}
	if msg.frame < animFrames {
		m.exit.frame = msg.frame
		return m, frameTick(exitFrameMsg{token: msg.token, frame: msg.frame + 1})
	}
	m.exit = nil
	return m.resolve(m.engine.Handle(gesture.ExitDone{Token: msg.token}))
}

func (m Model) stepSnap(msg snapFrameMsg) (Model, tea.Cmd) {
	if m.snap == nil || m.snap.token != msg.seq {
		return m, nil
	}
	if msg.frame < animFrames {
		m.snap.frame = msg.frame
		return m, frameTick(snapFrameMsg{seq: msg.seq, frame: msg.frame + 1})
	}
	m.snap = nil
	return m, nil
}

// rowVisual is the horizontal offset and affordance emphasis for row i.
func (m Model) rowVisual(i int) gesture.Visual {
	threshold := m.engine.Config().SwipeThreshold
	if m.exit != nil && m.exit.row == i {
		return gesture.Feedback(gesture.ExitOffset(m.exit.from, m.width, m.exit.frame, animFrames), threshold)
	}
	if row, ok := m.engine.SwipedRow(); ok && row == i {
		return m.engine.Visual()
	}
	if m.snap != nil && m.snap.row == i {
		return gesture.Feedback(gesture.SnapOffset(m.snap.from, m.snap.frame, animFrames), threshold)
	}
	return gesture.Visual{}
}

func selectedID(tasks []task.Task, cursor int) (int, bool) {
	if len(tasks) == 0 {
		return 0, false
	}
	return tasks[clampCursor(cursor, len(tasks))].ID, true
}
