package broadcast

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// DefaultChannel is the redis channel session events are published on.
const DefaultChannel = "dishdash-admin:session"

const (
	minRetryDelay = 500 * time.Millisecond
	maxRetryDelay = 30 * time.Second
)

// RedisBus delivers messages to every node subscribed to the same redis channel.
type RedisBus struct {
	client  *redis.Client
	channel string
	origin  string

	minDelay time.Duration
	maxDelay time.Duration

	mu       sync.RWMutex
	handlers []Handler
}

// NewRedisBus creates a bus on channel. An empty channel uses DefaultChannel.
func NewRedisBus(client *redis.Client, channel string) *RedisBus {
	if channel == "" {
		channel = DefaultChannel
	}

	return &RedisBus{
		client:   client,
		channel:  channel,
		origin:   NewOrigin(),
		minDelay: minRetryDelay,
		maxDelay: maxRetryDelay,
	}
}

// Publish implements Bus.
func (b *RedisBus) Publish(ctx context.Context, msg Message) error {
	if msg.Origin == "" {
		msg.Origin = b.origin
	}

	if msg.At.IsZero() {
		msg.At = time.Now()
	}

	data, err := Encode(msg)
	if err != nil {
		return err
	}

	return errors.Wrap(b.client.Publish(ctx, b.channel, data).Err(), "failed to publish session event")
}

// Subscribe implements Bus.
func (b *RedisBus) Subscribe(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers = append(b.handlers, h)
}

// Origin implements Bus.
func (b *RedisBus) Origin() string {
	return b.origin
}

// Run implements Bus. A failed or lost subscription is retried with an
// exponential delay until ctx is done.
func (b *RedisBus) Run(ctx context.Context) error {
	delay := b.minDelay

	for {
		subscribed, err := b.listen(ctx)
		if ctx.Err() != nil {
			return nil
		}

		if subscribed {
			delay = b.minDelay
		}

		log.Warn().Err(err).Str("channel", b.channel).Dur("retry", delay).Msg("session event subscription lost")

		timer := time.NewTimer(delay)

		select {
		case <-ctx.Done():
			timer.Stop()

			return nil
		case <-timer.C:
		}

		delay = min(delay*2, b.maxDelay)
	}
}

// listen subscribes once and delivers messages until ctx is done or the
// subscription breaks. The bool reports whether the subscribe succeeded.
func (b *RedisBus) listen(ctx context.Context) (bool, error) {
	sub := b.client.Subscribe(ctx, b.channel)

	defer func() {
		_ = sub.Close()
	}()

	if _, err := sub.Receive(ctx); err != nil {
		return false, errors.Wrap(err, "failed to subscribe to session events")
	}

	log.Info().Str("channel", b.channel).Msg("listening for session events")

	ch := sub.Channel()

	for {
		select {
		case <-ctx.Done():
			return true, nil
		case m, ok := <-ch:
			if !ok {
				return true, errors.New("session event channel closed")
			}

			b.deliver(ctx, []byte(m.Payload))
		}
	}
}

func (b *RedisBus) deliver(ctx context.Context, payload []byte) {
	msg, err := Decode(payload)
	if err != nil {
		log.Warn().Err(err).Msg("dropping session event")

		return
	}

	b.mu.RLock()
	handlers := append([]Handler{}, b.handlers...)
	b.mu.RUnlock()

	for _, h := range handlers {
		h(ctx, msg)
	}
}

// Close implements Bus.
func (b *RedisBus) Close() error {
	return b.client.Close()
}
