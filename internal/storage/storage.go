package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"dayplan/internal/schedule"
	"dayplan/internal/task"
)

// Slot keys.
const (
	KeyTasks      = "tasks"
	KeyNotified   = "notifiedTaskIds"
	KeyTheme      = "theme"
	KeyOnboarding = "onboardingCompleted"
)

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Store persists the schedule as JSON values in a key/value slot table.
type Store struct {
	db  *sql.DB
	log log.FieldLogger
}

func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, errors.New("db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, err
	}
	dsn := sqliteDSN(dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db, log: log.WithField("component", "storage")}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS slots (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);`
	if _, err := s.db.Exec(ddl); err != nil {
		return err
	}
	return s.ensureSlotColumns()
}

func (s *Store) ensureSlotColumns() error {
	required := map[string]string{
		"updated_at": "ALTER TABLE slots ADD COLUMN updated_at TEXT NOT NULL DEFAULT '';",
	}
	existing := map[string]struct{}{}
	rows, err := s.db.Query(`PRAGMA table_info(slots);`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return err
		}
		existing[name] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for col, alter := range required {
		if _, ok := existing[col]; ok {
			continue
		}
		if _, err := s.db.Exec(alter); err != nil {
			return err
		}
	}
	return nil
}

// Get returns a slot value and whether it was present.
func (s *Store) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM slots WHERE key = ?;`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read slot %s: %w", key, err)
	}
	return value, true, nil
}

func (s *Store) Set(key, value string) error {
	return setSlot(s.db, key, value)
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func setSlot(db execer, key, value string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := db.Exec(`INSERT INTO slots (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at;`, key, value, now)
	if err != nil {
		return fmt.Errorf("write slot %s: %w", key, err)
	}
	return nil
}

// LoadTasks returns the stored tasks, or the default template when the slot
// is absent or unreadable.
func (s *Store) LoadTasks() ([]task.Task, error) {
	raw, ok, err := s.Get(KeyTasks)
	if err != nil {
		return nil, err
	}
	if !ok {
		return task.DefaultTemplate(), nil
	}
	tasks, err := task.Decode([]byte(raw))
	if err != nil {
		s.log.WithError(err).Warn("discarding stored tasks, using default template")
		return task.DefaultTemplate(), nil
	}
	return tasks, nil
}

func (s *Store) SaveTasks(tasks []task.Task) error {
	data, err := task.Encode(tasks)
	if err != nil {
		return err
	}
	return s.Set(KeyTasks, string(data))
}

// LoadNotified returns the stored notified ids; absent or malformed yields an empty set.
func (s *Store) LoadNotified() ([]int, error) {
	raw, ok, err := s.Get(KeyNotified)
	if err != nil || !ok {
		return []int{}, err
	}
	var ids []int
	if err := json.Unmarshal([]byte(raw), &ids); err != nil || ids == nil {
		s.log.WithField("value", raw).Warn("discarding stored notified ids")
		return []int{}, nil
	}
	return ids, nil
}

func (s *Store) SaveNotified(ids []int) error {
	if ids == nil {
		ids = []int{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	return s.Set(KeyNotified, string(data))
}

// SaveSnapshot writes tasks and notified ids in one transaction.
func (s *Store) SaveSnapshot(snap schedule.Snapshot) error {
	tasks, err := task.Encode(snap.Tasks)
	if err != nil {
		return err
	}
	ids := snap.NotifiedIDs
	if ids == nil {
		ids = []int{}
	}
	notified, err := json.Marshal(ids)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if err := setSlot(tx, KeyTasks, string(tasks)); err != nil {
		tx.Rollback()
		return err
	}
	if err := setSlot(tx, KeyNotified, string(notified)); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Theme returns the stored theme, light unless dark was saved.
func (s *Store) Theme() (string, error) {
	raw, _, err := s.Get(KeyTheme)
	if err != nil {
		return ThemeLight, err
	}
	if raw == ThemeDark {
		return ThemeDark, nil
	}
	return ThemeLight, nil
}

func (s *Store) SetTheme(theme string) error {
	if theme != ThemeDark {
		theme = ThemeLight
	}
	return s.Set(KeyTheme, theme)
}

func (s *Store) OnboardingCompleted() (bool, error) {
	raw, _, err := s.Get(KeyOnboarding)
	return raw == "true", err
}

func (s *Store) CompleteOnboarding() error {
	return s.Set(KeyOnboarding, "true")
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}
