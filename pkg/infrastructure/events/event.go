package events

import (
	"time"
)

// Event is an immutable record of something that happened to a ledger stream.
// Streams are keyed by project id, or by "timesheet" for labor tracking.
type Event interface {
	Type() string
	StreamID() string
	Data() interface{}
	Timestamp() time.Time
	Version() int
}

type EventHandler interface {
	Handle(event Event) error
	CanHandle(eventType string) bool
}

type EventStore interface {
	AppendEvent(streamID string, event Event) error
	ReadEvents(streamID string, fromVersion int) ([]Event, error)
	ReadAllEvents(fromPosition int) ([]Event, error)
	Subscribe(eventTypes []string, handler EventHandler) error
	Unsubscribe(handler EventHandler) error
}

type BaseEvent struct {
	EventType    string      `json:"type"`
	Stream       string      `json:"streamId"`
	EventData    interface{} `json:"data"`
	EventTime    time.Time   `json:"timestamp"`
	EventVersion int         `json:"version"`
}

func (e BaseEvent) Type() string {
	return e.EventType
}

func (e BaseEvent) StreamID() string {
	return e.Stream
}

func (e BaseEvent) Data() interface{} {
	return e.EventData
}

func (e BaseEvent) Timestamp() time.Time {
	return e.EventTime
}

func (e BaseEvent) Version() int {
	return e.EventVersion
}

// NewEvent builds an event stamped at the given time; the store assigns the version
func NewEvent(eventType, streamID string, data interface{}, at time.Time) Event {
	return BaseEvent{
		EventType:    eventType,
		Stream:       streamID,
		EventData:    data,
		EventTime:    at.UTC(),
		EventVersion: 1,
	}
}

// FuncHandler adapts a function into an EventHandler accepting every type it is subscribed to.
// It is used through a pointer so Unsubscribe can compare handlers.
type FuncHandler struct {
	fn func(Event) error
}

func NewFuncHandler(fn func(Event) error) *FuncHandler {
	return &FuncHandler{fn: fn}
}

func (h *FuncHandler) Handle(event Event) error {
	return h.fn(event)
}

func (h *FuncHandler) CanHandle(string) bool {
	return true
}
