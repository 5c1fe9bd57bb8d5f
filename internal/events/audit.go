package events

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// AuditEvent records one auth or task operation. Events land on a Redis
// stream for out-of-band consumption; the request path never waits on them.
type AuditEvent struct {
	Operation string
	UserID    string
	Email     string
	Outcome   string
	Detail    string
	Timestamp int64
}

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

type AuditProducer struct {
	client     *redis.Client
	streamName string
}

func NewAuditProducer(client *redis.Client, streamName string) *AuditProducer {
	return &AuditProducer{
		client:     client,
		streamName: streamName,
	}
}

func (p *AuditProducer) Publish(ctx context.Context, event *AuditEvent) error {
	if event.Timestamp == 0 {
		event.Timestamp = time.Now().Unix()
	}

	fields := map[string]interface{}{
		"operation": event.Operation,
		"outcome":   event.Outcome,
		"timestamp": event.Timestamp,
	}

	if event.UserID != "" {
		fields["user_id"] = event.UserID
	}
	if event.Email != "" {
		fields["email"] = event.Email
	}
	if event.Detail != "" {
		fields["detail"] = event.Detail
	}

	result := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.streamName,
		Values: fields,
	})

	if err := result.Err(); err != nil {
		return fmt.Errorf("failed to publish audit event: %w", err)
	}

	return nil
}

func (p *AuditProducer) StreamLength(ctx context.Context) (int64, error) {
	result := p.client.XLen(ctx, p.streamName)
	return result.Val(), result.Err()
}
