package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"dayplan/internal/config"
	"dayplan/internal/gesture"
	"dayplan/internal/notify"
	"dayplan/internal/schedule"
	"dayplan/internal/storage"
	"dayplan/internal/task"
)

type mode int

const (
	modeList mode = iota
	modeForm
	modeSearch
	modeSummary
	modeOnboarding
)

// Screen layout, in terminal rows and columns.
const (
	headerLines = 3
	footerLines = 5
	minListRows = 3

	checkboxX = 2
	checkboxW = 3
	bellX     = 6
	bellW     = 2

	animFrames    = 6
	animFrame     = 25 * time.Millisecond
	bannerTimeout = 6 * time.Second
	clockInterval = 30 * time.Second
)

type (
	longPressMsg struct{ token uint64 }
	exitFrameMsg struct {
		token uint64
		frame int
	}
	snapFrameMsg struct {
		seq   uint64
		frame int
	}
	undoExpireMsg   struct{ token uint64 }
	bannerMsg       struct{ n notify.Notification }
	bannerExpireMsg struct{ seq uint64 }
	clockMsg        time.Time
)

// anim is a running row animation; token identifies the exit gesture or snap sequence.
type anim struct {
	row   int
	from  int
	frame int
	token uint64
}

// prefs persists UI preferences.
type prefs interface {
	SetTheme(theme string) error
	CompleteOnboarding() error
}

type Model struct {
	cfg    config.Config
	store  *schedule.Store
	prefs  prefs
	engine *gesture.Engine
	now    func() time.Time

	view    schedule.View
	cursor  int
	offset  int
	width   int
	height  int
	mode    mode
	input   textinput.Model
	form    *formState
	summary schedule.Summary

	theme     theme
	status    string
	statusErr bool
	exit      *anim
	snap      *anim
	snapSeq   uint64
	banner    *notify.Notification
	bannerSeq uint64
}

type Options struct {
	Prefs     prefs
	Theme     string
	Onboarded bool
	Now       func() time.Time
}

func New(store *schedule.Store, cfg config.Config, opts Options) Model {
	ti := textinput.New()
	ti.CharLimit = 64
	ti.Width = 40

	completion, err := schedule.ParseCompletion(cfg.DefaultFilter)
	if err != nil {
		log.WithError(err).Warn("ignoring default_filter")
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	m := Model{
		cfg:    cfg,
		store:  store,
		prefs:  opts.Prefs,
		engine: gesture.NewEngine(cfg.Gesture.Engine()),
		now:    now,
		view:   schedule.View{Completion: completion},
		width:  80,
		height: 24,
		input:  ti,
		theme:  newTheme(opts.Theme),
		status: "Swipe right to complete, left to delete. Hold to drag. Double-click to edit.",
	}
	if !opts.Onboarded {
		m.mode = modeOnboarding
	}
	m.syncLayout()
	return m
}

// App is everything Run needs from the entrypoint.
type App struct {
	Store  *storage.Store
	Config config.Config
	// Publisher carries snapshots to an external scheduler. Nil runs the scheduler in-process.
	Publisher notify.Publisher
	// Notifier is the platform notifier for the in-process scheduler.
	Notifier notify.Notifier
}

func Run(ctx context.Context, app App) error {
	tasks, err := app.Store.LoadTasks()
	if err != nil {
		return err
	}
	notified, err := app.Store.LoadNotified()
	if err != nil {
		return err
	}
	themeName := app.Config.Theme
	if themeName == "" {
		if themeName, err = app.Store.Theme(); err != nil {
			log.WithError(err).Warn("failed to load theme")
		}
	}
	onboarded, err := app.Store.OnboardingCompleted()
	if err != nil {
		log.WithError(err).Warn("failed to load onboarding state")
	}

	store := schedule.New(tasks, notified)
	m := New(store, app.Config, Options{Prefs: app.Store, Theme: themeName, Onboarded: onboarded})
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	pub := app.Publisher
	if pub == nil && app.Config.Notifications.Enabled {
		sched := newScheduler(app, program)
		go sched.Run(ctx)
		defer sched.Stop()
		pub = notify.ChannelPublisher{Scheduler: sched}
	}

	store.OnChange(func(s schedule.Snapshot) {
		if err := app.Store.SaveSnapshot(s); err != nil {
			log.WithError(err).Error("failed to persist schedule")
		}
		if pub == nil {
			return
		}
		if err := pub.Publish(ctx, s); err != nil {
			log.WithError(err).Error("failed to publish schedule")
		}
	})
	if pub != nil {
		if err := pub.Publish(ctx, store.Snapshot()); err != nil {
			log.WithError(err).Error("failed to publish initial schedule")
		}
	}

	_, err = program.Run()
	return err
}

func newScheduler(app App, program *tea.Program) *notify.Scheduler {
	members := notify.Multi{notify.FuncNotifier(func(n notify.Notification) error {
		program.Send(bannerMsg{n: n})
		return nil
	})}
	if app.Notifier != nil {
		if app.Notifier.Permission() == notify.PermissionDefault {
			perm := app.Notifier.RequestPermission()
			log.WithField("permission", perm).Info("notification permission")
		}
		members = append(members, app.Notifier)
	}
	n := notify.NewDedupe(members, app.Config.Notifications.DedupeWindow(), notify.RealClock{})
	return notify.NewScheduler(n,
		notify.WithInterval(app.Config.Notifications.Interval()),
		notify.WithLogger(log.WithField("component", "scheduler")),
	)
}

func (m Model) Init() tea.Cmd {
	return clockTick()
}

func clockTick() tea.Cmd {
	return tea.Tick(clockInterval, func(t time.Time) tea.Msg { return clockMsg(t) })
}

func frameTick(msg tea.Msg) tea.Cmd {
	return tea.Tick(animFrame, func(time.Time) tea.Msg { return msg })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	next.syncLayout()
	return next, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = max(msg.Width-10, 10)
		m.ensureCursorVisible()
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case longPressMsg:
		m.engine.Handle(gesture.LongPressElapsed{Token: msg.token})
		if m.engine.State() == gesture.Dragging {
			m.setStatus("Drag to reorder, drop on the bin to delete")
		}
	case exitFrameMsg:
		return m.stepExit(msg)
	case snapFrameMsg:
		return m.stepSnap(msg)
	case undoExpireMsg:
		m.store.ExpireUndo(msg.token)
	case bannerMsg:
		n := msg.n
		m.banner = &n
		m.bannerSeq++
		seq := m.bannerSeq
		return m, tea.Tick(bannerTimeout, func(time.Time) tea.Msg { return bannerExpireMsg{seq: seq} })
	case bannerExpireMsg:
		if msg.seq == m.bannerSeq {
			m.banner = nil
		}
	case clockMsg:
		return m, clockTick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}
	switch m.mode {
	case modeForm:
		return m.updateFormMode(key, msg)
	case modeSearch:
		return m.updateSearchMode(key, msg)
	case modeSummary:
		return m.updateSummaryMode(key)
	case modeOnboarding:
		return m.updateOnboardingMode(key)
	}
	return m.updateListMode(key)
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(s string) {
	m.status = s
	m.statusErr = true
}

func (m Model) visible() []task.Task {
	return m.view.Apply(m.store.Tasks())
}

func (m Model) listHeight() int {
	return max(m.height-headerLines-footerLines, minListRows)
}

func (m Model) deleteZoneY() int {
	return headerLines + m.listHeight() + 1
}

// syncLayout hands the gesture engine the on-screen rows; off-screen rows get an empty rect.
func (m Model) syncLayout() {
	n := len(m.visible())
	rows := make([]gesture.Rect, n)
	h := m.listHeight()
	for i := m.offset; i < n && i < m.offset+h; i++ {
		rows[i] = gesture.Rect{X: 0, Y: headerLines + i - m.offset, W: m.width, H: 1}
	}
	m.engine.SetLayout(rows, gesture.Rect{X: 0, Y: m.deleteZoneY(), W: m.width, H: 1})
}

func (m *Model) ensureCursorVisible() {
	n := len(m.visible())
	m.cursor = clampCursor(m.cursor, n)
	h := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
	m.offset = clampCursor(m.offset, max(n-h+1, 1))
}

func (m *Model) scroll(delta int) {
	m.offset = clampCursor(m.offset+delta, max(len(m.visible())-m.listHeight()+1, 1))
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}

func wrapIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}
