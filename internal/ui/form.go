package ui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"dayplan/internal/task"
)

// formState backs the add/edit dialog. taskID < 0 means a new task.
type formState struct {
	taskID        int
	start         string
	end           string
	emoji         string
	activity      string
	category      string
	notifications string
	index         int
	errField      int
	errText       string
}

const (
	fieldStart = iota
	fieldEnd
	fieldEmoji
	fieldActivity
	fieldCategory
	fieldNotifications
)

func formFields() []string {
	return []string{"start (HH:MM)", "end (HH:MM)", "emoji", "activity", "category", "reminder (y/n)"}
}

// fieldIndex maps a validation field name to its form row.
func fieldIndex(name string) int {
	switch name {
	case "start":
		return fieldStart
	case "end":
		return fieldEnd
	case "emoji":
		return fieldEmoji
	case "activity":
		return fieldActivity
	case "category":
		return fieldCategory
	}
	return -1
}

func newFormState(id int, d task.Draft) *formState {
	return &formState{
		taskID:        id,
		start:         d.StartTime,
		end:           d.EndTime,
		emoji:         d.Emoji,
		activity:      d.Activity,
		category:      string(d.Category),
		notifications: boolToYN(d.NotificationsEnabled),
		errField:      -1,
	}
}

func (fs formState) currentLabel() string {
	return formFields()[fs.index]
}

func (fs formState) values() []string {
	return []string{fs.start, fs.end, fs.emoji, fs.activity, fs.category, fs.notifications}
}

func (fs formState) currentValue() string {
	return fs.values()[fs.index]
}

func (fs *formState) setCurrentValue(v string) {
	switch fs.index {
	case fieldStart:
		fs.start = v
	case fieldEnd:
		fs.end = v
	case fieldEmoji:
		fs.emoji = v
	case fieldActivity:
		fs.activity = v
	case fieldCategory:
		fs.category = v
	case fieldNotifications:
		fs.notifications = v
	}
}

// draft parses the form into a task draft; category errors are reported like validation errors.
func (fs formState) draft() (task.Draft, error) {
	d := task.Draft{
		StartTime:            strings.TrimSpace(fs.start),
		EndTime:              strings.TrimSpace(fs.end),
		Emoji:                strings.TrimSpace(fs.emoji),
		Activity:             strings.TrimSpace(fs.activity),
		NotificationsEnabled: parseYN(fs.notifications),
	}
	cat, err := task.ParseCategory(fs.category)
	if err != nil {
		return d, &task.ValidationError{Field: "category", Err: err}
	}
	d.Category = cat
	return d, task.Validate(d)
}

func (m Model) startAdd() (Model, tea.Cmd) {
	return m.openForm(newFormState(-1, task.NewDraft()), "New task")
}

func (m Model) startEdit(t task.Task) (Model, tea.Cmd) {
	return m.openForm(newFormState(t.ID, task.DraftOf(t)), "Editing "+t.Activity)
}

func (m Model) openForm(fs *formState, status string) (Model, tea.Cmd) {
	m.form = fs
	m.mode = modeForm
	m.input.SetValue(fs.currentValue())
	m.input.Placeholder = fs.currentLabel()
	m.input.CursorEnd()
	m.setStatus(status)
	cmd := m.input.Focus()
	return m, cmd
}

func (m Model) updateFormMode(key string, msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.form == nil {
		m.mode = modeList
		return m, nil
	}
	switch key {
	case m.cfg.Keys.Cancel, "esc":
		m.form = nil
		m.leaveInput()
		m.setStatus("Edit cancelled")
		return m, nil
	case "tab", "down":
		return m.focusField(m.form.index + 1), nil
	case "shift+tab", "up":
		return m.focusField(m.form.index - 1), nil
	case "left", "right":
		if m.form.index == fieldCategory || m.form.index == fieldNotifications {
			delta := 1
			if key == "left" {
				delta = -1
			}
			m.input.SetValue(cycleChoice(m.form.index, m.input.Value(), delta))
			m.input.CursorEnd()
			return m, nil
		}
	case m.cfg.Keys.Confirm, "enter":
		m.form.setCurrentValue(m.input.Value())
		if m.form.index >= len(formFields())-1 {
			return m.saveForm()
		}
		return m.focusField(m.form.index + 1), nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) focusField(idx int) Model {
	m.form.setCurrentValue(m.input.Value())
	m.form.index = wrapIndex(idx, len(formFields()))
	m.input.SetValue(m.form.currentValue())
	m.input.Placeholder = m.form.currentLabel()
	m.input.CursorEnd()
	m.setStatus(m.formPrompt())
	return m
}

func (m Model) saveForm() (Model, tea.Cmd) {
	d, err := m.form.draft()
	if err != nil {
		var verr *task.ValidationError
		if errors.As(err, &verr) {
			if idx := fieldIndex(verr.Field); idx >= 0 {
				m = m.focusField(idx)
				m.form.errField = idx
			}
			m.form.errText = verr.Err.Error()
		}
		m.setError(err.Error())
		return m, nil
	}

	id := m.form.taskID
	if id < 0 {
		id = m.store.Add(d).ID
		m.setStatus("Task added")
	} else {
		m.store.Update(id, d)
		m.setStatus("Task updated")
	}
	m.form = nil
	m.leaveInput()
	for i, t := range m.visible() {
		if t.ID == id {
			m.cursor = i
			break
		}
	}
	m.ensureCursorVisible()
	return m, nil
}

func (m Model) formPrompt() string {
	if m.form == nil {
		return ""
	}
	return fmt.Sprintf("Editing %s (field %d of %d). Enter to advance, Esc to cancel, tab to move.",
		m.form.currentLabel(), m.form.index+1, len(formFields()))
}

func cycleChoice(field int, current string, delta int) string {
	if field == fieldNotifications {
		return boolToYN(!parseYN(current))
	}
	c, err := task.ParseCategory(current)
	if err != nil {
		return string(task.Categories()[0])
	}
	return string(c.Next(delta))
}

func parseYN(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "y" || v == "yes" || v == "true" || v == "1"
}

func boolToYN(b bool) string {
	if b {
		return "y"
	}
	return "n"
}

func (m Model) renderFormBox() string {
	if m.form == nil {
		return ""
	}
	values := m.form.values()
	values[m.form.index] = m.input.View()
	var b strings.Builder
	for i, name := range formFields() {
		prefix := " "
		if i == m.form.index {
			prefix = ">"
		}
		val := values[i]
		if i != m.form.index && strings.TrimSpace(val) == "" {
			val = m.theme.muted.Render("(empty)")
		}
		line := fmt.Sprintf("%s %-16s : %s", prefix, name, val)
		if i == m.form.errField && m.form.errText != "" {
			line += "  " + m.theme.errStatus.Render(m.form.errText)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}
