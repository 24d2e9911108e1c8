package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"dayplan/internal/gesture"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "dayplan.db"
	DefaultLogName        = "dayplan.log"
	AppDir                = "dayplan"
	EnvConfigPath         = "DAYPLAN_CONFIG"
)

const (
	SyncLocal = "local"
	SyncRedis = "redis"
)

type Keymap struct {
	Quit     string `toml:"quit"`
	Add      string `toml:"add"`
	Up       string `toml:"up"`
	Down     string `toml:"down"`
	Toggle   string `toml:"toggle"`
	Delete   string `toml:"delete"`
	Edit     string `toml:"edit"`
	Confirm  string `toml:"confirm"`
	Cancel   string `toml:"cancel"`
	Notify   string `toml:"notify"`
	Sort     string `toml:"sort"`
	Filter   string `toml:"filter"`
	Category string `toml:"category"`
	Search   string `toml:"search"`
	Undo     string `toml:"undo"`
	NextDay  string `toml:"next_day"`
	Theme    string `toml:"theme"`
	MoveUp   string `toml:"move_up"`
	MoveDown string `toml:"move_down"`
}

// Gesture thresholds are in terminal cells and milliseconds.
type Gesture struct {
	SwipeThreshold int `toml:"swipe_threshold"`
	Jitter         int `toml:"jitter"`
	LongPressMS    int `toml:"long_press_ms"`
	DoubleTapMS    int `toml:"double_tap_ms"`
}

type Notifications struct {
	Enabled         bool   `toml:"enabled"`
	IntervalSeconds int    `toml:"interval_seconds"`
	Command         string `toml:"command"`
	DedupeSeconds   int    `toml:"dedupe_seconds"`
}

type Sync struct {
	Mode      string `toml:"mode"`
	RedisAddr string `toml:"redis_addr"`
	Channel   string `toml:"channel"`
}

type Config struct {
	DBPath        string        `toml:"db_path"`
	DefaultFilter string        `toml:"default_filter"`
	Theme         string        `toml:"theme"`
	LogFile       string        `toml:"log_file"`
	LogLevel      string        `toml:"log_level"`
	Keys          Keymap        `toml:"keys"`
	Gesture       Gesture       `toml:"gesture"`
	Notifications Notifications `toml:"notifications"`
	Sync          Sync          `toml:"sync"`
}

// ResolveConfigPath honours $DAYPLAN_CONFIG, then the user config dir.
func ResolveConfigPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(dir, AppDir, DefaultConfigFileName)
}

func LoadOrCreate(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg.resolve(path), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBName
	}
	if cfg.Sync.Mode != SyncLocal && cfg.Sync.Mode != SyncRedis {
		return cfg, fmt.Errorf("sync.mode must be %q or %q, got %q", SyncLocal, SyncRedis, cfg.Sync.Mode)
	}
	return cfg.resolve(path), nil
}

// resolve anchors relative file paths at the config file's directory.
func (c Config) resolve(configPath string) Config {
	dir := filepath.Dir(configPath)
	if !filepath.IsAbs(c.DBPath) {
		c.DBPath = filepath.Join(dir, c.DBPath)
	}
	if c.LogFile != "" && !filepath.IsAbs(c.LogFile) {
		c.LogFile = filepath.Join(dir, c.LogFile)
	}
	return c
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (g Gesture) Engine() gesture.Config {
	cfg := gesture.DefaultConfig()
	if g.SwipeThreshold > 0 {
		cfg.SwipeThreshold = g.SwipeThreshold
	}
	if g.Jitter > 0 {
		cfg.Jitter = g.Jitter
	}
	if g.LongPressMS > 0 {
		cfg.LongPress = time.Duration(g.LongPressMS) * time.Millisecond
	}
	if g.DoubleTapMS > 0 {
		cfg.DoubleTap = time.Duration(g.DoubleTapMS) * time.Millisecond
	}
	return cfg
}

func (n Notifications) Interval() time.Duration {
	if n.IntervalSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(n.IntervalSeconds) * time.Second
}

// DedupeWindow is never shorter than a minute. A snapshot pushed later in the
// start minute resets the scheduler's notified set, so the window must cover
// the rest of that minute.
func (n Notifications) DedupeWindow() time.Duration {
	return max(time.Duration(n.DedupeSeconds)*time.Second, time.Minute)
}

// Default is the configuration written on first run.
func Default() Config {
	return Config{
		DBPath:        DefaultDBName,
		DefaultFilter: "all",
		LogFile:       DefaultLogName,
		LogLevel:      "info",
		Keys: Keymap{
			Quit:     "q",
			Add:      "a",
			Up:       "k",
			Down:     "j",
			Toggle:   " ",
			Delete:   "d",
			Edit:     "e",
			Confirm:  "enter",
			Cancel:   "esc",
			Notify:   "n",
			Sort:     "s",
			Filter:   "f",
			Category: "c",
			Search:   "/",
			Undo:     "u",
			NextDay:  "N",
			Theme:    "t",
			MoveUp:   "K",
			MoveDown: "J",
		},
		Gesture: Gesture{
			SwipeThreshold: 8,
			Jitter:         1,
			LongPressMS:    300,
			DoubleTapMS:    300,
		},
		Notifications: Notifications{
			Enabled:         true,
			IntervalSeconds: 60,
			Command:         "notify-send",
			DedupeSeconds:   60,
		},
		Sync: Sync{
			Mode:      SyncLocal,
			RedisAddr: "localhost:6379",
			Channel:   "dayplan:updates",
		},
	}
}
