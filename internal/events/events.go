// Package events provides the in-process event bus used to decouple the
// settings store, the meta property downloader, and the notification layer.
package events

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/emberlauncher/ember/internal/constants"
)

// EventType defines the types of events that can be emitted
type EventType string

const (
	// EventSettingChanged - a single setting value was written
	EventSettingChanged EventType = "setting_changed"
	// EventSettingsSaved - the settings file was persisted to disk
	EventSettingsSaved EventType = "settings_saved"
	// EventPropertiesApplied - remote meta properties were downloaded and applied
	EventPropertiesApplied EventType = "properties_applied"
	// EventPropertiesFailed - remote meta property download/apply failed
	EventPropertiesFailed EventType = "properties_failed"
	// EventPasteUploaded - a log excerpt was uploaded to a paste service
	EventPasteUploaded EventType = "paste_uploaded"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
	Timestamp() time.Time
}

// BaseEvent provides common event fields
type BaseEvent struct {
	EventType EventType
	Time      time.Time
}

func (e BaseEvent) Type() EventType      { return e.EventType }
func (e BaseEvent) Timestamp() time.Time { return e.Time }

// SettingChangedEvent is published on every settings write.
// Subscribers holding derived state (HTTP clients, resolved URLs) should
// invalidate it when a key they depend on changes.
type SettingChangedEvent struct {
	BaseEvent
	Key   string
	Value string
}

// SettingsSavedEvent is published after the settings file is written.
type SettingsSavedEvent struct {
	BaseEvent
	Path string
}

// PropertiesAppliedEvent carries the applied-properties map from a successful
// meta server download. Keys absent from Applied are implicitly unchanged.
type PropertiesAppliedEvent struct {
	BaseEvent
	SourceURL string
	Applied   map[string]string
}

// PropertiesFailedEvent carries the failure reason from the meta server
// property download.
type PropertiesFailedEvent struct {
	BaseEvent
	SourceURL string
	Reason    string
}

// PasteUploadedEvent is published after a successful paste upload.
type PasteUploadedEvent struct {
	BaseEvent
	Service  string
	ShareURL string
}

// EventBus manages event subscriptions and publishing
type EventBus struct {
	subscribers   map[EventType][]chan Event
	all           []chan Event // Subscribers to all events
	mu            sync.RWMutex
	bufferSize    int
	closed        bool
	droppedEvents atomic.Int64 // Count of dropped events due to full buffers
}

// NewEventBus creates a new event bus with the specified buffer size
func NewEventBus(bufferSize int) *EventBus {
	if bufferSize <= 0 {
		bufferSize = constants.EventBusDefaultBuffer
	}
	if bufferSize > constants.EventBusMaxBuffer {
		bufferSize = constants.EventBusMaxBuffer
	}
	return &EventBus{
		subscribers: make(map[EventType][]chan Event),
		all:         make([]chan Event, 0),
		bufferSize:  bufferSize,
	}
}

// Subscribe creates a subscription to a specific event type
func (eb *EventBus) Subscribe(eventType EventType) <-chan Event {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.closed {
		ch := make(chan Event)
		close(ch)
		return ch
	}

	ch := make(chan Event, eb.bufferSize)
	eb.subscribers[eventType] = append(eb.subscribers[eventType], ch)
	return ch
}

// SubscribeAll creates a subscription to all events
func (eb *EventBus) SubscribeAll() <-chan Event {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.closed {
		ch := make(chan Event)
		close(ch)
		return ch
	}

	ch := make(chan Event, eb.bufferSize)
	eb.all = append(eb.all, ch)
	return ch
}

// Publish sends an event to all subscribers. Publishing never blocks; events
// are dropped when a subscriber's buffer is full.
func (eb *EventBus) Publish(event Event) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	if eb.closed {
		return
	}

	for _, ch := range eb.subscribers[event.Type()] {
		select {
		case ch <- event:
		default:
			eb.droppedEvents.Add(1)
		}
	}

	for _, ch := range eb.all {
		select {
		case ch <- event:
		default:
			eb.droppedEvents.Add(1)
		}
	}
}

// Unsubscribe removes a subscription channel from a specific event type.
// This prevents leaks from abandoned subscriptions.
func (eb *EventBus) Unsubscribe(eventType EventType, ch <-chan Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.closed {
		return
	}

	subscribers := eb.subscribers[eventType]
	for i, subCh := range subscribers {
		if subCh == ch {
			subscribers[i] = subscribers[len(subscribers)-1]
			eb.subscribers[eventType] = subscribers[:len(subscribers)-1]
			break
		}
	}
}

// Close shuts down the event bus and closes all channels
func (eb *EventBus) Close() {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.closed {
		return
	}

	eb.closed = true

	for _, channels := range eb.subscribers {
		for _, ch := range channels {
			close(ch)
		}
	}
	for _, ch := range eb.all {
		close(ch)
	}
}

// DroppedEventCount returns the total number of events dropped due to full buffers
func (eb *EventBus) DroppedEventCount() int64 {
	return eb.droppedEvents.Load()
}

// PublishSettingChanged is a convenience method for settings write events
func (eb *EventBus) PublishSettingChanged(key, value string) {
	eb.Publish(&SettingChangedEvent{
		BaseEvent: BaseEvent{EventType: EventSettingChanged, Time: time.Now()},
		Key:       key,
		Value:     value,
	})
}

// PublishPropertiesApplied is a convenience method for successful property applies
func (eb *EventBus) PublishPropertiesApplied(sourceURL string, applied map[string]string) {
	eb.Publish(&PropertiesAppliedEvent{
		BaseEvent: BaseEvent{EventType: EventPropertiesApplied, Time: time.Now()},
		SourceURL: sourceURL,
		Applied:   applied,
	})
}

// PublishPropertiesFailed is a convenience method for failed property applies
func (eb *EventBus) PublishPropertiesFailed(sourceURL, reason string) {
	eb.Publish(&PropertiesFailedEvent{
		BaseEvent: BaseEvent{EventType: EventPropertiesFailed, Time: time.Now()},
		SourceURL: sourceURL,
		Reason:    reason,
	})
}
