// Package realtime carries best-effort live pushes to connected clients. The
// durable notification row is always the source of truth; a failed push is
// never an error the caller sees.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Wire kinds consumed by the client to render a toast without a follow-up
// fetch.
const (
	KindNoticeAlert          = "notice-alert"
	KindNotificationReceived = "notification-received"
	KindMessageReceived      = "message-received"
)

type Message struct {
	Kind      string    `json:"kind"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	RelatedID uuid.UUID `json:"related_id"`
}

// SessionRegistry resolves an actor's open push channels. Implementations
// must treat a recipient with no connections as a successful no-op.
type SessionRegistry interface {
	Push(ctx context.Context, recipientID uuid.UUID, msg Message) error
}

type redisRegistry struct {
	client *redis.Client
}

// NewRedisRegistry publishes to per-user Redis channels; the websocket edge
// (out of process) subscribes to `push:user:<id>` for each open connection.
func NewRedisRegistry(client *redis.Client) SessionRegistry {
	return &redisRegistry{client: client}
}

func (r *redisRegistry) Push(ctx context.Context, recipientID uuid.UUID, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	channel := fmt.Sprintf("push:user:%s", recipientID)
	return r.client.Publish(ctx, channel, payload).Err()
}

type nopRegistry struct{}

// NewNopRegistry returns a registry that drops every push. Used when Redis is
// unavailable and in tests.
func NewNopRegistry() SessionRegistry {
	return nopRegistry{}
}

func (nopRegistry) Push(context.Context, uuid.UUID, Message) error {
	return nil
}
