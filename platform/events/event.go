// Package events is the in-process domain event bus. Modules publish facts
// about their own records and subscribe to the facts of others without
// importing each other.
package events

import (
	"context"
	"time"
)

// Event is a named fact with the time it happened.
type Event interface {
	EventName() string
	OccurredAt() time.Time
}

// BaseEvent is embedded by every event to carry its timestamp.
type BaseEvent struct {
	Timestamp time.Time `json:"occurred_at"`
}

func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }

// NewBaseEvent stamps an event with the current UTC time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{Timestamp: time.Now().UTC()}
}

// Handler reacts to one event. Errors are logged by the bus for async
// delivery and returned by PublishSync.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc lets a plain function subscribe.
type HandlerFunc func(ctx context.Context, event Event) error

func (f HandlerFunc) Handle(ctx context.Context, event Event) error { return f(ctx, event) }

// Bus routes events by EventName.
type Bus interface {
	Publish(ctx context.Context, event Event)
	PublishSync(ctx context.Context, event Event) error
	Subscribe(eventName string, handler Handler)
}
