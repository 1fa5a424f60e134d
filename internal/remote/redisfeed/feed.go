// Package redisfeed carries catalog change events over Redis pub/sub.
//
// Each collection has its own channel. Events are invalidation markers, not
// row payloads: subscribers refetch the whole collection on any event.
package redisfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/boutikpaw/storefront/internal/remote"
)

const defaultChannelPrefix = "boutikpaw:changes:"

// Feed publishes and subscribes catalog change events through Redis.
type Feed struct {
	client *redis.Client
	prefix string
}

// Config holds Redis connection settings for the change feed.
type Config struct {
	Addr     string
	Password string
	DB       int
	// ChannelPrefix overrides the pub/sub channel namespace.
	ChannelPrefix string
}

// New connects a change feed to Redis.
func New(cfg Config) (*Feed, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		return nil, fmt.Errorf("redis addr is required")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	prefix := cfg.ChannelPrefix
	if prefix == "" {
		prefix = defaultChannelPrefix
	}
	return &Feed{client: client, prefix: prefix}, nil
}

// Close releases the Redis connection pool.
func (f *Feed) Close() error {
	if f == nil || f.client == nil {
		return nil
	}
	return f.client.Close()
}

type wireEvent struct {
	Op string `json:"op"`
	ID string `json:"id"`
}

func (f *Feed) channel(kind remote.Kind) string {
	return f.prefix + string(kind)
}

// Publish broadcasts one change event on the collection's channel.
func (f *Feed) Publish(ctx context.Context, event remote.Event) error {
	payload, err := json.Marshal(wireEvent{Op: string(event.Op), ID: event.ID})
	if err != nil {
		return fmt.Errorf("marshal change event: %w", err)
	}
	if err := f.client.Publish(ctx, f.channel(event.Kind), payload).Err(); err != nil {
		return fmt.Errorf("publish change event: %w", err)
	}
	return nil
}

// Subscribe registers onEvent for mutations on the collection. The returned
// subscription suppresses delivery after Cancel, including a delivery racing
// with teardown.
func (f *Feed) Subscribe(ctx context.Context, kind remote.Kind, onEvent func(remote.Event)) (remote.Subscription, error) {
	if onEvent == nil {
		return nil, fmt.Errorf("event handler is required")
	}
	pubsub := f.client.Subscribe(ctx, f.channel(kind))
	// Force the SUBSCRIBE round trip so a registration error surfaces here
	// instead of silently dropping events.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscribe %s changes: %w", kind, err)
	}

	sub := &subscription{pubsub: pubsub}
	sub.wg.Add(1)
	go func() {
		defer sub.wg.Done()
		for msg := range pubsub.Channel() {
			var wire wireEvent
			if err := json.Unmarshal([]byte(msg.Payload), &wire); err != nil {
				continue
			}
			sub.deliver(onEvent, remote.Event{Kind: kind, Op: remote.Op(wire.Op), ID: wire.ID})
		}
	}()
	return sub, nil
}

type subscription struct {
	pubsub *redis.PubSub

	mu       sync.Mutex
	canceled bool
	wg       sync.WaitGroup
}

func (s *subscription) deliver(onEvent func(remote.Event), event remote.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.canceled {
		return
	}
	onEvent(event)
}

// Cancel closes the feed registration. It is idempotent and no handler runs
// after it returns.
func (s *subscription) Cancel() error {
	s.mu.Lock()
	if s.canceled {
		s.mu.Unlock()
		return nil
	}
	s.canceled = true
	s.mu.Unlock()

	err := s.pubsub.Close()
	s.wg.Wait()
	return err
}
