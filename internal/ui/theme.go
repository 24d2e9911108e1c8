package ui

import (
	"github.com/charmbracelet/lipgloss"

	"dayplan/internal/storage"
	"dayplan/internal/task"
)

type theme struct {
	name       string
	title      lipgloss.Style
	muted      lipgloss.Style
	selected   lipgloss.Style
	current    lipgloss.Style
	completed  lipgloss.Style
	status     lipgloss.Style
	errStatus  lipgloss.Style
	snackbar   lipgloss.Style
	banner     lipgloss.Style
	modal      lipgloss.Style
	deleteZone lipgloss.Style
	deleteHot  lipgloss.Style
	preview    lipgloss.Style
	dropMark   lipgloss.Style
	swipeDone  lipgloss.Style
	swipeDel   lipgloss.Style
	progress   lipgloss.Style
	categories map[task.Category]lipgloss.Style
}

func newTheme(name string) theme {
	if name == storage.ThemeDark {
		return buildTheme(name, "252", "244", "236", "39", "203", "42")
	}
	return buildTheme(storage.ThemeLight, "235", "245", "254", "27", "160", "28")
}

func buildTheme(name, fg, muted, selBg, accent, danger, ok string) theme {
	cat := func(c string) lipgloss.Style { return lipgloss.NewStyle().Foreground(lipgloss.Color(c)) }
	return theme{
		name:       name,
		title:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(fg)),
		muted:      lipgloss.NewStyle().Foreground(lipgloss.Color(muted)),
		selected:   lipgloss.NewStyle().Background(lipgloss.Color(selBg)).Foreground(lipgloss.Color(fg)),
		current:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(accent)),
		completed:  lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color(muted)),
		status:     lipgloss.NewStyle().Foreground(lipgloss.Color(ok)),
		errStatus:  lipgloss.NewStyle().Foreground(lipgloss.Color(danger)),
		snackbar:   lipgloss.NewStyle().Reverse(true).Padding(0, 1),
		banner:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(accent)),
		modal:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color(accent)).Padding(1, 2),
		deleteZone: lipgloss.NewStyle().Foreground(lipgloss.Color(danger)),
		deleteHot:  lipgloss.NewStyle().Bold(true).Reverse(true).Foreground(lipgloss.Color(danger)),
		preview:    lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color(accent)),
		dropMark:   lipgloss.NewStyle().Foreground(lipgloss.Color(accent)),
		swipeDone:  lipgloss.NewStyle().Foreground(lipgloss.Color(ok)),
		swipeDel:   lipgloss.NewStyle().Foreground(lipgloss.Color(danger)),
		progress:   lipgloss.NewStyle().Foreground(lipgloss.Color(accent)),
		categories: map[task.Category]lipgloss.Style{
			task.Work:     cat("33"),
			task.Study:    cat("135"),
			task.Personal: cat("37"),
			task.Family:   cat("208"),
			task.Rest:     cat("70"),
		},
	}
}

func (t theme) category(c task.Category) lipgloss.Style {
	if s, ok := t.categories[c]; ok {
		return s
	}
	return t.muted
}

// affordance maps swipe opacity to emphasis: faint, plain, then bold once committed.
func affordance(base lipgloss.Style, opacity float64) lipgloss.Style {
	switch {
	case opacity >= 1:
		return base.Bold(true).Reverse(true)
	case opacity >= 0.5:
		return base
	default:
		return base.Faint(true)
	}
}
