package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"dayplan/internal/config"
	"dayplan/internal/logging"
	"dayplan/internal/notify"
	"dayplan/internal/storage"
	"dayplan/internal/ui"
)

func main() {
	configPath := config.ResolveConfigPath()
	cfg, err := config.LoadOrCreate(configPath)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	logs, err := logging.Setup(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		fmt.Printf("failed to open log: %v\n", err)
		os.Exit(1)
	}
	defer logs.Close()

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		fmt.Printf("failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := ui.App{Store: store, Config: cfg}
	if cfg.Sync.Mode == config.SyncRedis {
		rc := redis.NewClient(&redis.Options{Addr: cfg.Sync.RedisAddr})
		defer rc.Close()
		if err := rc.Ping(ctx).Err(); err != nil {
			fmt.Printf("failed to reach redis at %s: %v\n", cfg.Sync.RedisAddr, err)
			os.Exit(1)
		}
		app.Publisher = notify.NewRedisPublisher(rc, cfg.Sync.Channel)
		log.WithField("channel", cfg.Sync.Channel).Info("publishing schedule to redis")
	} else if cfg.Notifications.Command != "" {
		app.Notifier = notify.NewCommandNotifier(cfg.Notifications.Command)
	}

	if err := ui.Run(ctx, app); err != nil {
		fmt.Printf("error running program: %v\n", err)
		os.Exit(1)
	}
}
