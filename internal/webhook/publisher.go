package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	queueKey = "irdesk:communications"
)

// Event is a rendered communication waiting for delivery.
type Event struct {
	ID             uuid.UUID  `json:"id"`
	OrganizationID uuid.UUID  `json:"organization_id"`
	TemplateID     uuid.UUID  `json:"template_id"`
	IncidentID     *uuid.UUID `json:"incident_id,omitempty"`
	Channel        string     `json:"channel"`
	Recipients     []string   `json:"recipients"`
	Subject        string     `json:"subject"`
	Body           string     `json:"body"`
	RequestedBy    string     `json:"requested_by"`
	Timestamp      time.Time  `json:"timestamp"`
}

// Publisher queues communication events.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// RedisPublisher is a Publisher backed by a Redis list.
type RedisPublisher struct {
	redisClient *redis.Client
}

func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{
		redisClient: client,
	}
}

// Publish pushes the event to the head of the queue; the worker pops from the tail.
func (p *RedisPublisher) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal communication event: %w", err)
	}

	if err := p.redisClient.LPush(ctx, queueKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish communication event to Redis: %w", err)
	}
	return nil
}
