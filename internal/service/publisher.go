package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/vinilopesc/vortex-board/internal/ws"
)

// EventPublisher is the slice of the websocket hub the services need for
// broadcasting board events and pushing personal notifications. Neither
// method blocks or fails the mutation that triggered it.
type EventPublisher interface {
	Publish(ctx context.Context, boardID uuid.UUID, env ws.Envelope, exclude *uuid.UUID)
	PublishToUser(ctx context.Context, userID uuid.UUID, env ws.Envelope)
}
