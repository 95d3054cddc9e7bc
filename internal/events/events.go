// Package events publishes audit events about administrative actions.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// RoutingKeyUserDeleted is the routing key of UserDeletedEvent.
const RoutingKeyUserDeleted = "user.deleted"

// UserDeletedEvent is emitted after a user and their transactions were removed.
type UserDeletedEvent struct {
	UserID              uuid.UUID `json:"user_id"`
	Email               string    `json:"email"`
	TransactionsDeleted int64     `json:"transactions_deleted"`
	DeletedAt           time.Time `json:"deleted_at"`
}

// ToJSON converts the event to JSON bytes.
func (e UserDeletedEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher delivers admin events to interested consumers.
type Publisher interface {
	PublishUserDeleted(ctx context.Context, event UserDeletedEvent) error
	Close() error
}

// NoopPublisher drops every event. It is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishUserDeleted(context.Context, UserDeletedEvent) error { return nil }
func (NoopPublisher) Close() error                                            { return nil }
