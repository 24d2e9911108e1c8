package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOrCreateWritesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dayplan", DefaultConfigFileName)

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.FileExists(t, path)
	assert.Equal(t, filepath.Join(dir, "dayplan", DefaultDBName), cfg.DBPath)
	assert.Equal(t, SyncLocal, cfg.Sync.Mode)
	assert.Equal(t, "u", cfg.Keys.Undo)

	again, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestLoadOrCreateMergesPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFileName)
	data := `
db_path = "/var/lib/dayplan.db"

[keys]
quit = "x"

[sync]
mode = "redis"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/dayplan.db", cfg.DBPath)
	assert.Equal(t, "x", cfg.Keys.Quit)
	assert.Equal(t, "a", cfg.Keys.Add)
	assert.Equal(t, SyncRedis, cfg.Sync.Mode)
	assert.Equal(t, "dayplan:updates", cfg.Sync.Channel)
}

func TestLoadOrCreateRejectsBadInput(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("db_path = ["), 0o644))
	_, err := LoadOrCreate(bad)
	assert.Error(t, err)

	mode := filepath.Join(dir, "mode.toml")
	require.NoError(t, os.WriteFile(mode, []byte("[sync]\nmode = \"carrier-pigeon\"\n"), 0o644))
	_, err = LoadOrCreate(mode)
	assert.ErrorContains(t, err, "sync.mode")
}

func TestResolveConfigPathHonoursEnv(t *testing.T) {
	t.Setenv(EnvConfigPath, "/tmp/custom.toml")
	assert.Equal(t, "/tmp/custom.toml", ResolveConfigPath())
}

func TestGestureEngineFallsBackToDefaults(t *testing.T) {
	g := Gesture{SwipeThreshold: 6}.Engine()
	assert.Equal(t, 6, g.SwipeThreshold)
	assert.Equal(t, 10, g.Jitter)
	assert.Equal(t, 300*time.Millisecond, g.LongPress)

	assert.Equal(t, time.Minute, Notifications{}.Interval())
	assert.Equal(t, 90*time.Second, Notifications{IntervalSeconds: 90}.Interval())
	assert.Equal(t, time.Minute, Notifications{}.DedupeWindow())
	assert.Equal(t, time.Minute, Notifications{DedupeSeconds: 10}.DedupeWindow())
	assert.Equal(t, 5*time.Minute, Notifications{DedupeSeconds: 300}.DedupeWindow())
}
