package bus

import "time"

// EventBus is a thread-safe, in-process pub/sub bus.
//
// Handlers subscribe by event type and are called synchronously in the
// publisher's goroutine. Handler errors are joined and returned from Publish.
// Agents stepped concurrently publish from several goroutines at once, so
// handlers must be safe for concurrent use.
type EventBus interface {
	Publish(event Event) error
	PublishBatch(events ...Event) error
	Subscribe(eventType string, handler EventHandler) (Subscription, error)
	// Unsubscribe is safe to call with nil.
	Unsubscribe(Subscription) error
	GetMetrics() Metrics
}

// Event is an immutable message. Type is the routing key.
type Event struct {
	Type      string
	Source    string
	Timestamp time.Time
	Data      any
}

type EventHandler func(event Event) error

type Subscription interface {
	ID() string
	EventType() string
	IsActive() bool
	// Cancel de-registers the handler. Multiple calls are safe.
	Cancel() error
}

// Metrics are best-effort counters.
type Metrics struct {
	Published         uint64
	DeliveredHandlers uint64
	Errors            uint64
	SubscribersActive uint64
}
