package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"dayplan/internal/schedule"
	"dayplan/internal/task"
)

const UpdateData = "UPDATE_DATA"

var ErrUnknownMessage = errors.New("unknown message type")

// Message is the envelope sent from the foreground to the scheduler.
type Message struct {
	Type            string      `json:"type"`
	Tasks           []task.Task `json:"tasks"`
	NotifiedTaskIDs []int       `json:"notifiedTaskIds"`
}

func NewUpdate(snap schedule.Snapshot) Message {
	m := Message{Type: UpdateData, Tasks: snap.Tasks, NotifiedTaskIDs: snap.NotifiedIDs}
	if m.Tasks == nil {
		m.Tasks = []task.Task{}
	}
	if m.NotifiedTaskIDs == nil {
		m.NotifiedTaskIDs = []int{}
	}
	return m
}

func (m Message) Snapshot() schedule.Snapshot {
	return schedule.Snapshot{Tasks: m.Tasks, NotifiedIDs: m.NotifiedTaskIDs}
}

func DecodeMessage(data []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return Message{}, fmt.Errorf("decode message: %w", err)
	}
	if m.Type != UpdateData {
		return Message{}, fmt.Errorf("%w: %q", ErrUnknownMessage, m.Type)
	}
	return m, nil
}

// Publisher pushes snapshots to wherever the scheduler runs.
type Publisher interface {
	Publish(ctx context.Context, snap schedule.Snapshot) error
}

// ChannelPublisher delivers to a scheduler in the same process.
type ChannelPublisher struct {
	Scheduler *Scheduler
}

func (p ChannelPublisher) Publish(_ context.Context, snap schedule.Snapshot) error {
	p.Scheduler.Update(NewUpdate(snap).Snapshot())
	return nil
}

// RedisPublisher publishes UPDATE_DATA messages on a redis channel and keeps
// the latest one under <channel>:latest for subscribers that start later.
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

func NewRedisPublisher(client *redis.Client, channel string) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel}
}

func LatestKey(channel string) string {
	return channel + ":latest"
}

func (p *RedisPublisher) Publish(ctx context.Context, snap schedule.Snapshot) error {
	data, err := json.Marshal(NewUpdate(snap))
	if err != nil {
		return fmt.Errorf("marshal update: %w", err)
	}
	if err := p.client.Set(ctx, LatestKey(p.channel), data, 0).Err(); err != nil {
		return fmt.Errorf("store latest update: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, data).Err(); err != nil {
		return fmt.Errorf("publish update: %w", err)
	}
	return nil
}

// Subscribe replays the latest stored update, then forwards every update
// published on channel until ctx is done, reconnecting if the subscription drops.
func Subscribe(ctx context.Context, rc *redis.Client, channel string, handle func(schedule.Snapshot)) {
	if data, err := rc.Get(ctx, LatestKey(channel)).Bytes(); err == nil {
		if m, err := DecodeMessage(data); err == nil {
			handle(m.Snapshot())
		} else {
			log.WithError(err).Warn("discarding stored update")
		}
	} else if !errors.Is(err, redis.Nil) {
		log.WithError(err).Error("failed to load latest update")
	}

	for {
		sub := rc.Subscribe(ctx, channel)
		forward(ctx, sub.Channel(), handle)
		if err := sub.Close(); err != nil {
			log.WithError(err).Debug("closing subscription")
		}
		if ctx.Err() != nil {
			return
		}
		log.Error("pubsub channel closed, reconnecting")
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Second):
		}
	}
}

func forward(ctx context.Context, ch <-chan *redis.Message, handle func(schedule.Snapshot)) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			m, err := DecodeMessage([]byte(msg.Payload))
			if err != nil {
				log.WithError(err).Error("unable to parse update")
				continue
			}
			handle(m.Snapshot())
		}
	}
}
