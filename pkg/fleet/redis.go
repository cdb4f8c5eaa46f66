// Package fleet republishes per-device transfer progress and state to
// Redis so a separate dashboard process can observe a fleet of devices
// mid-rollout. It is the domain-stack counterpart of the teacher's
// pkg/redis/client.go, repurposed from scooter telemetry to firmware
// transfer observability; PublishProgress, PublishState and Close are
// nil-safe so callers that never configure Redis pay no cost. Subscribe
// needs a non-nil Publisher.
package fleet

import (
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
)

// Publisher writes transfer progress and device state to Redis, one hash
// per device plus a pub/sub notification on every write (spec.md §8
// supplemented feature: fleet progress/state publication).
type Publisher struct {
	client *redis.Client
	ctx    context.Context
}

// NewPublisher dials addr and verifies connectivity with a Ping, the way
// pkg/redis.New did for the teacher's scooter telemetry.
func NewPublisher(addr, password string, db int) (*Publisher, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("fleet: connect to redis: %w", err)
	}
	return &Publisher{client: client, ctx: ctx}, nil
}

func deviceKey(device string) string { return "mcumgr:device:" + device }

// PublishProgress records bytes transferred out of total for a named
// transfer stage (e.g. "image-upload", "file-download") under the
// device's hash and publishes a pub/sub notification of the same update.
// A nil Publisher makes this a no-op so it can be called unconditionally.
func (p *Publisher) PublishProgress(device, stage string, off, total uint32) {
	if p == nil {
		return
	}
	key := deviceKey(device)
	field := stage + ":offset"
	value := fmt.Sprintf("%d/%d", off, total)

	pipe := p.client.Pipeline()
	pipe.HSet(p.ctx, key, field, value)
	pipe.Publish(p.ctx, key, fmt.Sprintf("%s:%s", field, value))
	if _, err := pipe.Exec(p.ctx); err != nil {
		log.Printf("fleet: publish progress for %s: %v", device, err)
	}
}

// PublishState records a device's current transceive state-machine state
// (spec.md §4.8: Idle, Sending, AwaitingFirstByte, Reassembling,
// Validating, Delivered, Failed) under the device's hash.
func (p *Publisher) PublishState(device, state string) {
	if p == nil {
		return
	}
	key := deviceKey(device)
	pipe := p.client.Pipeline()
	pipe.HSet(p.ctx, key, "state", state)
	pipe.Publish(p.ctx, key, "state:"+state)
	if _, err := pipe.Exec(p.ctx); err != nil {
		log.Printf("fleet: publish state for %s: %v", device, err)
	}
}

// Subscribe returns a channel of pub/sub messages for a device's key plus
// a closer, matching the teacher's Subscribe shape.
func (p *Publisher) Subscribe(device string) (<-chan *redis.Message, func()) {
	pubsub := p.client.Subscribe(p.ctx, deviceKey(device))
	ch := pubsub.Channel()
	return ch, func() { pubsub.Close() }
}

// Close releases the underlying Redis connection. A nil Publisher makes
// this a no-op.
func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	return p.client.Close()
}
