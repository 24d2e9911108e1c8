package storage

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dayplan/internal/schedule"
	"dayplan/internal/task"
)

func openTemp(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "dayplan.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, path
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)
}

func TestLoadTasksFallsBackToTemplate(t *testing.T) {
	s, _ := openTemp(t)

	tasks, err := s.LoadTasks()
	require.NoError(t, err)
	assert.Equal(t, task.DefaultTemplate(), tasks)

	require.NoError(t, s.Set(KeyTasks, `{"not":"an array"}`))
	tasks, err = s.LoadTasks()
	require.NoError(t, err)
	assert.Len(t, tasks, len(task.DefaultTemplate()))
}

func TestTasksRoundTripAcrossReopen(t *testing.T) {
	s, path := openTemp(t)
	want := []task.Task{
		{ID: 4, StartTime: "07:00", EndTime: "07:30", Emoji: "🏃", Activity: "Run", Category: task.Personal, Completed: true},
	}
	require.NoError(t, s.SaveTasks(want))
	require.NoError(t, s.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.LoadTasks()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	raw, ok, err := reopened.Get(KeyTasks)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(raw, "["))
}

func TestNotifiedIDs(t *testing.T) {
	s, _ := openTemp(t)

	ids, err := s.LoadNotified()
	require.NoError(t, err)
	assert.Equal(t, []int{}, ids)

	require.NoError(t, s.SaveNotified([]int{3, 1}))
	ids, err = s.LoadNotified()
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1}, ids)

	require.NoError(t, s.Set(KeyNotified, "null"))
	ids, err = s.LoadNotified()
	require.NoError(t, err)
	assert.Equal(t, []int{}, ids)
}

func TestSaveSnapshotWritesBothSlots(t *testing.T) {
	s, _ := openTemp(t)
	snap := schedule.Snapshot{Tasks: task.DefaultTemplate()[:2], NotifiedIDs: []int{1}}
	require.NoError(t, s.SaveSnapshot(snap))

	tasks, err := s.LoadTasks()
	require.NoError(t, err)
	assert.Equal(t, snap.Tasks, tasks)

	ids, err := s.LoadNotified()
	require.NoError(t, err)
	assert.Equal(t, []int{1}, ids)

	require.NoError(t, s.SaveSnapshot(schedule.Snapshot{}))
	raw, _, err := s.Get(KeyNotified)
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)
}

func TestThemeAndOnboarding(t *testing.T) {
	s, _ := openTemp(t)

	theme, err := s.Theme()
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, theme)

	require.NoError(t, s.SetTheme(ThemeDark))
	theme, err = s.Theme()
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, theme)

	require.NoError(t, s.SetTheme("sepia"))
	theme, _ = s.Theme()
	assert.Equal(t, ThemeLight, theme)

	done, err := s.OnboardingCompleted()
	require.NoError(t, err)
	assert.False(t, done)
	require.NoError(t, s.CompleteOnboarding())
	done, err = s.OnboardingCompleted()
	require.NoError(t, err)
	assert.True(t, done)
}

func TestSqliteDSN(t *testing.T) {
	assert.Equal(t, "file:memdb?mode=memory", sqliteDSN("file:memdb?mode=memory"))

	dsn := sqliteDSN("/tmp/dayplan.db")
	assert.True(t, strings.HasPrefix(dsn, "file:///tmp/dayplan.db?"))
	assert.Contains(t, dsn, "mode=rwc")
}
