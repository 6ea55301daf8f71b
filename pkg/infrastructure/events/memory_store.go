package events

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// AnyType subscribes a handler to every event type
const AnyType = "*"

// DefaultCapacity bounds the activity log of a long running server
const DefaultCapacity = 10000

// InMemoryEventStore is the ledger activity log. It keeps the newest events up to its
// capacity; stream versions and global positions keep counting after older entries are
// trimmed, so readers never see a position reused.
type InMemoryEventStore struct {
	mu       sync.RWMutex
	log      []Event
	trimmed  int
	capacity int
	versions map[string]int
	handlers map[string][]EventHandler
}

func NewInMemoryEventStore() *InMemoryEventStore {
	return NewBoundedEventStore(DefaultCapacity)
}

// NewBoundedEventStore keeps at most capacity events; capacity <= 0 means unbounded
func NewBoundedEventStore(capacity int) *InMemoryEventStore {
	return &InMemoryEventStore{
		capacity: capacity,
		versions: make(map[string]int),
		handlers: make(map[string][]EventHandler),
	}
}

func (s *InMemoryEventStore) AppendEvent(streamID string, event Event) error {
	s.mu.Lock()
	s.versions[streamID]++
	stored := BaseEvent{
		EventType:    event.Type(),
		Stream:       streamID,
		EventData:    event.Data(),
		EventTime:    event.Timestamp(),
		EventVersion: s.versions[streamID],
	}
	s.log = append(s.log, stored)
	if s.capacity > 0 && len(s.log) > s.capacity {
		drop := len(s.log) - s.capacity
		s.log = append([]Event(nil), s.log[drop:]...)
		s.trimmed += drop
	}
	handlers := s.handlersFor(stored.EventType)
	s.mu.Unlock()

	for _, h := range handlers {
		go dispatch(h, stored)
	}
	return nil
}

// ReadEvents returns the retained events of one stream from fromVersion on
func (s *InMemoryEventStore) ReadEvents(streamID string, fromVersion int) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []Event{}
	for _, e := range s.log {
		if e.StreamID() == streamID && e.Version() >= fromVersion {
			out = append(out, e)
		}
	}
	return out, nil
}

// ReadAllEvents returns every retained event at or after the global position fromPosition
func (s *InMemoryEventStore) ReadAllEvents(fromPosition int) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start := fromPosition - s.trimmed
	if start < 0 {
		start = 0
	}
	if start >= len(s.log) {
		return []Event{}, nil
	}
	return append([]Event(nil), s.log[start:]...), nil
}

// Len returns the number of events appended so far, trimmed ones included
func (s *InMemoryEventStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.trimmed + len(s.log)
}

func (s *InMemoryEventStore) Subscribe(eventTypes []string, handler EventHandler) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range eventTypes {
		s.handlers[t] = append(s.handlers[t], handler)
	}
	return nil
}

func (s *InMemoryEventStore) Unsubscribe(handler EventHandler) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for t, hs := range s.handlers {
		kept := hs[:0:0]
		for _, h := range hs {
			if h != handler {
				kept = append(kept, h)
			}
		}
		s.handlers[t] = kept
	}
	return nil
}

// handlersFor must be called with the lock held
func (s *InMemoryEventStore) handlersFor(eventType string) []EventHandler {
	var out []EventHandler
	for _, key := range []string{eventType, AnyType} {
		for _, h := range s.handlers[key] {
			if h.CanHandle(eventType) {
				out = append(out, h)
			}
		}
	}
	return out
}

func dispatch(h EventHandler, e Event) {
	if err := h.Handle(e); err != nil {
		log.Error().Err(err).Str("event", e.Type()).Str("stream", e.StreamID()).Msg("event handler failed")
	}
}
