package domain

import (
	"context"
	"encoding/json"
)

// DefaultVoteEvent is the event name emitted for inbound vote notifications.
const DefaultVoteEvent = "botVote"

// EventSink is the host's event bus. Payloads are passed through verbatim.
type EventSink interface {
	Emit(ctx context.Context, event string, payload json.RawMessage)
}

// EventSinkFunc adapts a function to the EventSink interface.
type EventSinkFunc func(ctx context.Context, event string, payload json.RawMessage)

func (f EventSinkFunc) Emit(ctx context.Context, event string, payload json.RawMessage) {
	f(ctx, event, payload)
}
