package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	webhookEventTTL = 72 * time.Hour
	webhookPrefix   = "lms:webhook:event:"
)

// EventLedger records provider event ids so redelivered webhooks are applied
// once. Stripe retries for up to three days, hence the TTL.
type EventLedger struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewEventLedger(rdb *redis.Client) *EventLedger {
	return &EventLedger{rdb: rdb, ttl: webhookEventTTL}
}

// Claim atomically records eventID. It returns false if another delivery
// already claimed it.
func (l *EventLedger) Claim(ctx context.Context, eventID string) (bool, error) {
	ok, err := l.rdb.SetNX(ctx, eventKey(eventID), time.Now().Unix(), l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("claim webhook event %s: %w", eventID, err)
	}
	return ok, nil
}

func eventKey(eventID string) string {
	return webhookPrefix + eventID
}
