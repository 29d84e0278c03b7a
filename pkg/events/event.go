package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "ACCESS_GRANTED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the generic implementation used both for publishing and for
// reconstructing events on the consumer side.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Event type codes emitted by the back-office workflows.
const (
	TypeAccessGranted        = "ACCESS_GRANTED"
	TypeAccessRevoked        = "ACCESS_REVOKED"
	TypeSubscriptionRefunded = "SUBSCRIPTION_REFUNDED"
	TypeProviderSyncFailed   = "PROVIDER_SYNC_FAILED"
)

func NewAccessGranted(data map[string]interface{}) Event {
	return BaseEvent{Type: TypeAccessGranted, Data: data, OccurredAt: time.Now()}
}

func NewAccessRevoked(data map[string]interface{}) Event {
	return BaseEvent{Type: TypeAccessRevoked, Data: data, OccurredAt: time.Now()}
}

func NewSubscriptionRefunded(data map[string]interface{}) Event {
	return BaseEvent{Type: TypeSubscriptionRefunded, Data: data, OccurredAt: time.Now()}
}

func NewProviderSyncFailed(data map[string]interface{}) Event {
	return BaseEvent{Type: TypeProviderSyncFailed, Data: data, OccurredAt: time.Now()}
}
