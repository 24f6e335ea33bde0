package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"barbearia/internal/metrics"
)

// Channel is the Redis pub/sub channel invalidations travel on.
const Channel = "barbearia:invalidate"

// Feed bridges invalidations between processes over Redis pub/sub and fans
// them out on the local bus. With a nil Redis client it degrades to the
// in-process bus alone.
type Feed struct {
	rdb    *redis.Client
	bus    *Bus
	logger zerolog.Logger
}

// NewFeed constructs a feed over the given bus. rdb may be nil.
func NewFeed(rdb *redis.Client, bus *Bus, logger zerolog.Logger) *Feed {
	return &Feed{
		rdb:    rdb,
		bus:    bus,
		logger: logger.With().Str("component", "notify").Logger(),
	}
}

// Bus returns the local bus for subscribing.
func (f *Feed) Bus() *Bus {
	return f.bus
}

// Publish sends an invalidation to every listener. With Redis configured it
// goes through the channel (this process receives it back via Run); without,
// straight onto the local bus.
func (f *Feed) Publish(ctx context.Context, inv Invalidation) error {
	if f.rdb == nil {
		metrics.IncInvalidation(inv.Kind)
		f.bus.Publish(inv)
		return nil
	}
	payload, err := json.Marshal(inv)
	if err != nil {
		return fmt.Errorf("marshal invalidation: %w", err)
	}
	if err := f.rdb.Publish(ctx, Channel, payload).Err(); err != nil {
		return fmt.Errorf("publish invalidation: %w", err)
	}
	return nil
}

// Run consumes remote invalidations until the context is cancelled. It is a
// no-op without a Redis client.
func (f *Feed) Run(ctx context.Context) {
	if f.rdb == nil {
		return
	}

	sub := f.rdb.Subscribe(ctx, Channel)
	defer sub.Close()

	f.logger.Info().Str("channel", Channel).Msg("change feed listening")

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var inv Invalidation
			if err := json.Unmarshal([]byte(msg.Payload), &inv); err != nil {
				f.logger.Warn().Err(err).Str("payload", msg.Payload).Msg("bad invalidation payload")
				continue
			}
			metrics.IncInvalidation(inv.Kind)
			f.bus.Publish(inv)
		}
	}
}
