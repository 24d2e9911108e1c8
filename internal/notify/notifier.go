package notify

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"dayplan/internal/task"
)

type Permission string

const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// Notification is one user-visible reminder.
type Notification struct {
	Title   string
	Body    string
	Tag     string
	Vibrate []int
}

// ForTask builds the start reminder for t.
func ForTask(t task.Task) Notification {
	return Notification{
		Title:   "Time for: " + t.Activity,
		Body:    fmt.Sprintf("This task starts now at %s.", t.StartTime),
		Tag:     fmt.Sprintf("task-%d-%s", t.ID, t.StartTime),
		Vibrate: []int{200, 100, 200},
	}
}

// Notifier is the platform notification boundary.
type Notifier interface {
	Permission() Permission
	RequestPermission() Permission
	Show(n Notification) error
}

// CommandNotifier shows notifications through an external program such as notify-send.
// Permission is granted when the program resolves on PATH.
type CommandNotifier struct {
	Command string
	AppName string

	mu       sync.Mutex
	resolved string
	state    Permission
}

func NewCommandNotifier(command string) *CommandNotifier {
	return &CommandNotifier{Command: command, AppName: "dayplan", state: PermissionDefault}
}

func (c *CommandNotifier) Permission() Permission {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == "" {
		return PermissionDefault
	}
	return c.state
}

func (c *CommandNotifier) RequestPermission() Permission {
	c.mu.Lock()
	defer c.mu.Unlock()
	path, err := exec.LookPath(c.Command)
	if err != nil {
		c.state = PermissionDenied
		return c.state
	}
	c.resolved = path
	c.state = PermissionGranted
	return c.state
}

func (c *CommandNotifier) Show(n Notification) error {
	c.mu.Lock()
	path, state := c.resolved, c.state
	c.mu.Unlock()
	if state != PermissionGranted {
		return nil
	}
	out, err := exec.Command(path, c.args(n)...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", c.Command, err, out)
	}
	return nil
}

func (c *CommandNotifier) args(n Notification) []string {
	if filepath.Base(c.Command) != "notify-send" {
		return []string{n.Title, n.Body}
	}
	return []string{
		"--app-name=" + c.AppName,
		"--hint=string:x-dunst-stack-tag:" + n.Tag,
		n.Title,
		n.Body,
	}
}

// FuncNotifier hands notifications to a callback, e.g. the TUI banner.
type FuncNotifier func(Notification) error

func (FuncNotifier) Permission() Permission        { return PermissionGranted }
func (FuncNotifier) RequestPermission() Permission { return PermissionGranted }
func (f FuncNotifier) Show(n Notification) error   { return f(n) }

// LogNotifier writes notifications to a logger.
type LogNotifier struct {
	Log log.FieldLogger
}

func (LogNotifier) Permission() Permission        { return PermissionGranted }
func (LogNotifier) RequestPermission() Permission { return PermissionGranted }

func (l LogNotifier) Show(n Notification) error {
	l.Log.WithField("tag", n.Tag).Infof("%s: %s", n.Title, n.Body)
	return nil
}

// Multi fans out to several notifiers. Permission is granted if any member grants it.
type Multi []Notifier

func (m Multi) Permission() Permission {
	return m.collect(Notifier.Permission)
}

func (m Multi) RequestPermission() Permission {
	return m.collect(Notifier.RequestPermission)
}

func (m Multi) collect(fn func(Notifier) Permission) Permission {
	out := PermissionDenied
	for _, n := range m {
		switch fn(n) {
		case PermissionGranted:
			out = PermissionGranted
		case PermissionDefault:
			if out == PermissionDenied {
				out = PermissionDefault
			}
		}
	}
	return out
}

func (m Multi) Show(n Notification) error {
	var firstErr error
	for _, member := range m {
		if member.Permission() != PermissionGranted {
			continue
		}
		if err := member.Show(n); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Dedupe collapses notifications that repeat a tag within Window, the way
// platforms replace a visible notification carrying the same tag.
type Dedupe struct {
	Notifier
	Window time.Duration
	Clock  Clock

	mu   sync.Mutex
	seen map[string]time.Time
}

func NewDedupe(n Notifier, window time.Duration, clock Clock) *Dedupe {
	return &Dedupe{Notifier: n, Window: window, Clock: clock, seen: map[string]time.Time{}}
}

func (d *Dedupe) Show(n Notification) error {
	now := d.Clock.Now()
	d.mu.Lock()
	if last, ok := d.seen[n.Tag]; ok && now.Sub(last) < d.Window {
		d.mu.Unlock()
		return nil
	}
	d.seen[n.Tag] = now
	for tag, at := range d.seen {
		if now.Sub(at) >= d.Window {
			delete(d.seen, tag)
		}
	}
	d.mu.Unlock()
	return d.Notifier.Show(n)
}
