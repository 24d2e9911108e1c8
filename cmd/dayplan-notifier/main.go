// Command dayplan-notifier delivers task reminders while the schedule UI is
// closed. It follows the snapshots the UI publishes to redis.
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
)

func main() {
	cfg, err := config.LoadOrCreate(config.ResolveConfigPath())
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rc := redis.NewClient(&redis.Options{Addr: cfg.Sync.RedisAddr})
	defer rc.Close()
	if err := rc.Ping(ctx).Err(); err != nil {
		fmt.Printf("failed to reach redis at %s: %v\n", cfg.Sync.RedisAddr, err)
		os.Exit(1)
	}

	logger := log.WithField("component", "notifier")
	members := notify.Multi{notify.LogNotifier{Log: logger}}
	if cfg.Notifications.Command != "" {
		cmd := notify.NewCommandNotifier(cfg.Notifications.Command)
		logger.WithField("permission", cmd.RequestPermission()).Info("notification permission")
		members = append(members, cmd)
	}

	sched := notify.NewScheduler(
		notify.NewDedupe(members, cfg.Notifications.DedupeWindow(), notify.RealClock{}),
		notify.WithInterval(cfg.Notifications.Interval()),
		notify.WithLogger(logger),
	)
	go notify.Subscribe(ctx, rc, cfg.Sync.Channel, sched.Update)

	logger.WithField("channel", cfg.Sync.Channel).Info("waiting for schedule updates")
	sched.Run(ctx)
	logger.Info("shutting down")
}
