package ui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"dayplan/internal/config"
	"dayplan/internal/gesture"
	"dayplan/internal/schedule"
	"dayplan/internal/storage"
	"dayplan/internal/task"
)

func (m Model) updateListMode(key string) (Model, tea.Cmd) {
	if m.engine.State() != gesture.Idle {
		if key == m.cfg.Keys.Cancel || key == "esc" {
			return m.resolve(m.engine.Handle(gesture.Cancel{}))
		}
		return m, nil
	}

	visible := m.visible()
	id, hasSelection := selectedID(visible, m.cursor)

	switch key {
	case m.cfg.Keys.Quit:
		return m, tea.Quit
	case m.cfg.Keys.Down, "down":
		m.cursor = clampCursor(m.cursor+1, len(visible))
		m.ensureCursorVisible()
	case m.cfg.Keys.Up, "up":
		m.cursor = clampCursor(m.cursor-1, len(visible))
		m.ensureCursorVisible()
	case m.cfg.Keys.Add:
		return m.startAdd()
	case m.cfg.Keys.Edit, m.cfg.Keys.Confirm:
		if !hasSelection {
			m.setStatus("No tasks to edit")
			return m, nil
		}
		t, _ := m.store.Task(id)
		return m.startEdit(t)
	case m.cfg.Keys.Toggle:
		if hasSelection {
			return m.toggleTask(id)
		}
	case m.cfg.Keys.Delete:
		if hasSelection {
			return m.deleteTask(id)
		}
	case m.cfg.Keys.Notify:
		if hasSelection {
			return m.toggleNotification(id), nil
		}
	case m.cfg.Keys.MoveUp:
		return m.moveSelected(-1), nil
	case m.cfg.Keys.MoveDown:
		return m.moveSelected(1), nil
	case m.cfg.Keys.Sort:
		dir := m.store.ToggleSortDirection()
		m.setStatus("Sorted by start time, " + dir.String())
	case m.cfg.Keys.Filter:
		m.view.Completion = m.view.Completion.Next()
		m.cursor = 0
		m.ensureCursorVisible()
		m.setStatus("Showing " + string(m.view.Completion) + " tasks")
	case m.cfg.Keys.Category:
		m.view.Category = nextCategoryFilter(m.view.Category)
		m.cursor = 0
		m.ensureCursorVisible()
		m.setStatus("Category: " + categoryLabel(m.view.Category))
	case m.cfg.Keys.Search:
		m.mode = modeSearch
		m.input.SetValue(m.view.Query)
		m.input.Placeholder = "Search activities"
		m.input.CursorEnd()
		m.input.Focus()
	case m.cfg.Keys.Undo:
		if m.store.Undo() {
			m.setStatus("Undone")
			m.ensureCursorVisible()
		}
	case m.cfg.Keys.Cancel, "esc":
		if _, ok := m.store.PendingUndo(); ok {
			m.store.DismissUndo()
			return m, nil
		}
		if m.view.Filtered() || m.view.Completion != schedule.ShowAll {
			m.view = schedule.View{Completion: schedule.ShowAll}
			m.setStatus("Filters cleared")
		}
	case m.cfg.Keys.NextDay:
		m.summary = schedule.Summarize(m.store.Tasks())
		m.mode = modeSummary
	case m.cfg.Keys.Theme:
		return m.toggleTheme(), nil
	}
	return m, nil
}

func (m Model) toggleTask(id int) (Model, tea.Cmd) {
	p, ok := m.store.ToggleComplete(id)
	if !ok {
		return m, nil
	}
	return m, expireUndo(p.Token)
}

func (m Model) deleteTask(id int) (Model, tea.Cmd) {
	p, ok := m.store.Delete(id)
	if !ok {
		return m, nil
	}
	m.ensureCursorVisible()
	return m, expireUndo(p.Token)
}

func expireUndo(token uint64) tea.Cmd {
	return tea.Tick(schedule.UndoTimeout, func(time.Time) tea.Msg { return undoExpireMsg{token: token} })
}

func (m Model) toggleNotification(id int) Model {
	if !m.store.ToggleNotification(id) {
		return m
	}
	if t, ok := m.store.Task(id); ok && t.NotificationsEnabled {
		m.setStatus("Reminder on for " + t.Activity)
	} else {
		m.setStatus("Reminder off")
	}
	return m
}

func (m Model) moveSelected(delta int) Model {
	if !m.view.ReorderEnabled() {
		m.setError("Reordering is disabled while a category or search filter is active")
		return m
	}
	return m.moveTask(m.cursor, m.cursor+delta)
}

// moveTask moves visible row from onto visible row to.
func (m Model) moveTask(from, to int) Model {
	all, visible := m.store.Tasks(), m.visible()
	if !m.store.Move(schedule.StoreIndex(all, visible, from), schedule.StoreIndex(all, visible, to)) {
		return m
	}
	m.cursor = to
	m.ensureCursorVisible()
	return m
}

func (m Model) toggleTheme() Model {
	name := storage.ThemeDark
	if m.theme.name == storage.ThemeDark {
		name = storage.ThemeLight
	}
	m.theme = newTheme(name)
	if m.prefs != nil {
		if err := m.prefs.SetTheme(name); err != nil {
			log.WithError(err).Error("failed to save theme")
		}
	}
	m.setStatus("Theme: " + name)
	return m
}

func (m Model) updateSearchMode(key string, msg tea.KeyMsg) (Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel, "esc":
		m.view.Query = ""
		m.leaveInput()
		m.setStatus("Search cleared")
	case m.cfg.Keys.Confirm, "enter":
		m.leaveInput()
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.view.Query = m.input.Value()
		m.cursor = 0
		m.ensureCursorVisible()
		return m, cmd
	}
	m.ensureCursorVisible()
	return m, nil
}

func (m *Model) leaveInput() {
	m.mode = modeList
	m.input.Blur()
	m.input.SetValue("")
}

func (m Model) updateSummaryMode(key string) (Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Confirm, "enter", "y":
		m.store.PrepareNextDay()
		m.mode = modeList
		m.setStatus("Ready for a new day")
	case m.cfg.Keys.Cancel, "esc", "n", m.cfg.Keys.Quit:
		m.mode = modeList
	}
	return m, nil
}

func (m Model) updateOnboardingMode(key string) (Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Confirm, "enter", m.cfg.Keys.Cancel, "esc", " ":
		m.mode = modeList
		if m.prefs != nil {
			if err := m.prefs.CompleteOnboarding(); err != nil {
				log.WithError(err).Error("failed to save onboarding state")
			}
		}
	case m.cfg.Keys.Quit:
		return m, tea.Quit
	}
	return m, nil
}

func nextCategoryFilter(c task.Category) task.Category {
	all := task.Categories()
	switch c {
	case "":
		return all[0]
	case all[len(all)-1]:
		return ""
	}
	return c.Next(1)
}

func categoryLabel(c task.Category) string {
	if c == "" {
		return "all"
	}
	return string(c)
}

func renderHelp(k config.Keymap) string {
	return fmt.Sprintf("%s/%s move • %s add • %s edit • %s done • %s delete • %s remind • %s/%s reorder • %s sort • %s filter • %s category • %s search • %s undo • %s next day • %s theme • %s quit",
		k.Up, k.Down, k.Add, k.Edit, keyLabel(k.Toggle), k.Delete, k.Notify, k.MoveUp, k.MoveDown, k.Sort, k.Filter, k.Category, k.Search, k.Undo, k.NextDay, k.Theme, k.Quit)
}

func keyLabel(k string) string {
	if k == " " {
		return "space"
	}
	return k
}
