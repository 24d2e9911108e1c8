package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/rivo/uniseg"

	"dayplan/internal/gesture"
	"dayplan/internal/schedule"
	"dayplan/internal/task"
)

const onboardingText = `Welcome to your daily schedule

Mouse
  swipe right          mark a task done (again to undo)
  swipe left           delete a task
  double-click         edit a task
  hold, then drag      reorder; drop on the bin to delete
  [ ] and 🔔           toggle done and reminder

Every task reminds you when it starts. Deletes and
completions can be undone from the bar at the bottom.

Press enter to start.`

func (m Model) View() string {
	switch m.mode {
	case modeForm:
		return m.renderModal(m.renderForm())
	case modeSummary:
		return m.renderModal(m.renderSummary())
	case modeOnboarding:
		return m.renderModal(onboardingText)
	}

	lines := make([]string, 0, headerLines+m.listHeight()+footerLines)
	lines = append(lines, m.renderHeader(), m.renderFilterBar(), m.renderNowLine())
	lines = append(lines, m.renderList()...)
	lines = append(lines, "", m.renderDeleteZone(), m.renderSnackbar(), m.renderStatus(), m.theme.muted.Render(fit(renderHelp(m.cfg.Keys), m.width)))
	return strings.Join(lines, "\n")
}

func (m Model) renderModal(body string) string {
	box := m.theme.modal.Render(body)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) renderHeader() string {
	all := m.store.Tasks()
	now := m.now()
	title := m.theme.title.Render("Daily Schedule")
	meta := fmt.Sprintf("  %s · %d/%d done · %s",
		now.Format("Mon 02 Jan"), m.store.CompletedCount(), len(all), m.store.SortDirection())
	return title + m.theme.muted.Render(meta)
}

func (m Model) renderFilterBar() string {
	if m.mode == modeSearch {
		return "search: " + m.input.View()
	}
	parts := []string{
		"filter: " + string(m.view.Completion),
		"category: " + categoryLabel(m.view.Category),
	}
	if q := strings.TrimSpace(m.view.Query); q != "" {
		parts = append(parts, "search: "+q)
	}
	if !m.view.ReorderEnabled() {
		parts = append(parts, "reorder off")
	}
	return m.theme.muted.Render(strings.Join(parts, " · "))
}

// renderNowLine shows a pending notification banner, else the running task's progress.
func (m Model) renderNowLine() string {
	if m.banner != nil {
		return m.theme.banner.Render(fit("🔔 "+m.banner.Title+". "+m.banner.Body, m.width))
	}
	now := m.now()
	for _, t := range m.store.Tasks() {
		if t.Completed {
			continue
		}
		p, ok := schedule.Progress(t, now)
		if !ok {
			continue
		}
		label := fmt.Sprintf("Now: %s %s ", t.Emoji, t.Activity)
		return label + m.theme.progress.Render(progressBar(p, 20)) + fmt.Sprintf(" %d%%", int(p*100))
	}
	return ""
}

func progressBar(p float64, width int) string {
	filled := int(p * float64(width))
	filled = min(max(filled, 0), width)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func (m Model) renderList() []string {
	h := m.listHeight()
	lines := make([]string, h)
	all := m.store.Tasks()
	visible := m.view.Apply(all)

	if len(visible) == 0 {
		switch m.view.Empty(all, visible) {
		case schedule.NoTasks:
			lines[0] = m.theme.muted.Render(fmt.Sprintf("No tasks yet. Press '%s' to add one.", m.cfg.Keys.Add))
		case schedule.NoMatches:
			lines[0] = m.theme.muted.Render("No tasks match the current filters.")
		}
		return lines
	}

	drag, dragging := m.engine.Drag()
	now := m.now()
	for row := 0; row < h; row++ {
		i := m.offset + row
		if i >= len(visible) {
			break
		}
		t := visible[i]
		switch {
		case dragging && i == drag.From:
			lines[row] = m.theme.muted.Faint(true).Render(fit(m.rowText(t, false), m.width))
		case dragging && i == drag.DropIndex:
			lines[row] = m.theme.dropMark.Render(fit("▶ "+m.rowText(t, false)[2:], m.width))
		default:
			lines[row] = m.renderRow(i, t, i == m.cursor, now)
		}
	}

	if dragging {
		if y := drag.PreviewY - headerLines; y >= 0 && y < h {
			if t, ok := m.store.Task(drag.TaskID); ok {
				lines[y] = m.theme.preview.Render(fit("⠿ "+m.rowText(t, false)[2:], m.width))
			}
		}
	}
	return lines
}

// rowText is the plain row; its column layout must match controlAt.
func (m Model) rowText(t task.Task, selected bool) string {
	cursor := "  "
	if selected {
		cursor = "> "
	}
	check := "[ ]"
	if t.Completed {
		check = "[x]"
	}
	bell := "🔕"
	if t.NotificationsEnabled {
		bell = "🔔"
	}
	return fmt.Sprintf("%s%s %s %s–%s %s %s", cursor, check, bell, t.StartTime, t.EndTime, t.Emoji, t.Activity)
}

func (m Model) renderRow(i int, t task.Task, selected bool, now time.Time) string {
	text := m.rowText(t, selected)
	if v := m.rowVisual(i); v.Offset != 0 {
		return m.renderSwiped(text, v)
	}

	cat := m.theme.category(t.Category).Render(" " + string(t.Category))
	var line string
	switch {
	case t.Completed:
		line = m.theme.completed.Render(text)
	case schedule.IsCurrent(t, now):
		line = m.theme.current.Render(text + " ◀ now")
	default:
		line = text
	}
	line += cat
	if selected {
		return m.theme.selected.Render(line)
	}
	return line
}

// renderSwiped shifts the row by the swipe offset and reveals the matching affordance.
func (m Model) renderSwiped(text string, v gesture.Visual) string {
	width := m.width
	if v.Offset > 0 {
		off := min(v.Offset, width)
		reveal := affordance(m.theme.swipeDone, v.CompleteOpacity).Render(fit("✓ done", off))
		return reveal + cut(text, 0, width-off)
	}
	off := min(-v.Offset, width)
	body := fit(cut(text, off, width-off), width-off)
	return body + affordance(m.theme.swipeDel, v.DeleteOpacity).Render(fit("🗑 delete", off))
}

func (m Model) renderDeleteZone() string {
	drag, ok := m.engine.Drag()
	if !ok {
		return ""
	}
	label := fit("   🗑  Drop here to delete", m.width)
	if drag.OverDelete {
		return m.theme.deleteHot.Render(label)
	}
	return m.theme.deleteZone.Render(label)
}

func (m Model) renderSnackbar() string {
	p, ok := m.store.PendingUndo()
	if !ok {
		return ""
	}
	return m.theme.snackbar.Render(fmt.Sprintf("%s   %s undo · %s dismiss", p.Message(), m.cfg.Keys.Undo, m.cfg.Keys.Cancel))
}

func (m Model) renderStatus() string {
	if m.statusErr {
		return m.theme.errStatus.Render(m.status)
	}
	return m.theme.status.Render(m.status)
}

func (m Model) renderForm() string {
	var b strings.Builder
	title := "New task"
	if m.form != nil && m.form.taskID >= 0 {
		title = "Edit task"
	}
	b.WriteString(m.theme.title.Render(title))
	b.WriteString("\n\n")
	b.WriteString(m.renderFormBox())
	b.WriteString("\n")
	b.WriteString(m.theme.muted.Render("tab/shift+tab move • ←/→ cycle category and reminder • enter next/save • esc cancel"))
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	return b.String()
}

func (m Model) renderSummary() string {
	s := m.summary
	var b strings.Builder
	b.WriteString(m.theme.title.Render("Ready for tomorrow?"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Completed   %d of %d tasks\n", s.CompletedCount, s.TotalCount))
	b.WriteString(fmt.Sprintf("Time done   %s of %s\n", s.CompletedTime, s.TotalTime))
	if s.IncompleteCount > 0 {
		b.WriteString(fmt.Sprintf("\nStill open (%d)\n", s.IncompleteCount))
		const shown = 8
		for i, t := range s.Incomplete {
			if i == shown {
				b.WriteString(m.theme.muted.Render(fmt.Sprintf("  and %d more", len(s.Incomplete)-shown)))
				b.WriteString("\n")
				break
			}
			b.WriteString(fmt.Sprintf("  • %s %s %s\n", t.StartTime, t.Emoji, t.Activity))
		}
	}
	b.WriteString("\n")
	b.WriteString(m.theme.muted.Render("enter: clear completion and reminders for tomorrow • esc: keep today"))
	return b.String()
}

// cut returns the cells [from, from+width) of s; wide graphemes straddling an edge are dropped.
func cut(s string, from, width int) string {
	if width <= 0 {
		return ""
	}
	var b strings.Builder
	col := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		w := g.Width()
		if col >= from && col+w <= from+width {
			b.WriteString(g.Str())
		}
		col += w
		if col >= from+width {
			break
		}
	}
	return b.String()
}

// fit truncates or pads s to exactly width cells.
func fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = cut(s, 0, width)
	if pad := width - uniseg.StringWidth(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}
