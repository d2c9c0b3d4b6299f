// Package events carries lead lifecycle notifications between modules
// without the modules importing each other.
package events

import (
	"context"
	"time"
)

// Event is implemented by every domain event published on the bus.
// EventName is the subscription key; OccurredAt is the publish time.
type Event interface {
	EventName() string
	OccurredAt() time.Time
}

// BaseEvent is embedded in domain events to supply the timestamp.
type BaseEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }

// NewBaseEvent stamps a new event with the current time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{Timestamp: time.Now()}
}

// Bus publishes domain events to subscribed handlers. Publish dispatches
// asynchronously; PublishSync waits for every handler and reports their
// combined errors.
type Bus interface {
	Publish(ctx context.Context, event Event)
	PublishSync(ctx context.Context, event Event) error
	Subscribe(eventName string, handler Handler)
}

// Handler consumes events published under the name it subscribed to.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(ctx context.Context, event Event) error

func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}
