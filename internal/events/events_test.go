package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserDeletedEvent_ToJSON(t *testing.T) {
	id := uuid.MustParse("4f2c0c1e-8d8b-4b0e-9a55-0c6f1f2d3e4a")
	event := UserDeletedEvent{
		UserID:              id,
		Email:               "gone@example.com",
		TransactionsDeleted: 3,
		DeletedAt:           time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	}

	body, err := event.ToJSON()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, id.String(), decoded["user_id"])
	assert.Equal(t, "gone@example.com", decoded["email"])
	assert.Equal(t, float64(3), decoded["transactions_deleted"])
	assert.Equal(t, "2026-03-10T12:00:00Z", decoded["deleted_at"])
}

func TestNoopPublisher(t *testing.T) {
	var p Publisher = NoopPublisher{}
	assert.NoError(t, p.PublishUserDeleted(context.Background(), UserDeletedEvent{}))
	assert.NoError(t, p.Close())
}
