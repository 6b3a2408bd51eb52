package pubsub

import "context"

// EventType tags an event. Services with a single stream use the generic
// types below; the rest declare their own, prefixed with the service name.
type EventType string

const (
	// EventTypeCreated tags append-only records: status messages, telemetry.
	EventTypeCreated EventType = "created"
	// EventTypeUpdated tags a replacement of the previous payload.
	EventTypeUpdated EventType = "updated"
)

// Event carries one payload from a service broker to its subscribers.
type Event[T any] struct {
	Type    EventType
	Payload T
}

// Subscriber is the read side of a service. The channel closes when ctx is
// done or the service shuts down.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}
