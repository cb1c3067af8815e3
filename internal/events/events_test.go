package events

import (
	"testing"
	"time"
)

func TestEventBus_PublishSubscribe(t *testing.T) {
	bus := NewEventBus(10)
	defer bus.Close()

	ch := bus.Subscribe(EventPropertiesApplied)

	bus.PublishPropertiesApplied("https://meta.example/v1/properties.json", map[string]string{
		"MetaURLOverride": "https://meta.example/v1/",
	})

	select {
	case received := <-ch:
		applied, ok := received.(*PropertiesAppliedEvent)
		if !ok {
			t.Fatal("Expected PropertiesAppliedEvent")
		}
		if applied.SourceURL != "https://meta.example/v1/properties.json" {
			t.Errorf("Unexpected source URL: %s", applied.SourceURL)
		}
		if applied.Applied["MetaURLOverride"] != "https://meta.example/v1/" {
			t.Errorf("Unexpected applied map: %v", applied.Applied)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Timeout waiting for event")
	}
}

func TestEventBus_MultipleSubscribers(t *testing.T) {
	bus := NewEventBus(10)
	defer bus.Close()

	ch1 := bus.Subscribe(EventSettingChanged)
	ch2 := bus.Subscribe(EventSettingChanged)

	bus.PublishSettingChanged("ModrinthToken", "token-value")

	for i, ch := range []<-chan Event{ch1, ch2} {
		select {
		case received := <-ch:
			changed, ok := received.(*SettingChangedEvent)
			if !ok {
				t.Fatalf("subscriber %d: expected SettingChangedEvent", i+1)
			}
			if changed.Key != "ModrinthToken" {
				t.Errorf("subscriber %d: expected key ModrinthToken, got %s", i+1, changed.Key)
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatalf("subscriber %d: timeout waiting for event", i+1)
		}
	}
}

func TestEventBus_TypeFiltering(t *testing.T) {
	bus := NewEventBus(10)
	defer bus.Close()

	ch := bus.Subscribe(EventPropertiesFailed)

	// Event of a different type must not be delivered
	bus.PublishSettingChanged("UserAgentOverride", "custom")

	select {
	case ev := <-ch:
		t.Fatalf("Unexpected event delivered: %v", ev.Type())
	case <-time.After(50 * time.Millisecond):
	}

	bus.PublishPropertiesFailed("https://meta.example/v1/properties.json", "network down")

	select {
	case received := <-ch:
		failed, ok := received.(*PropertiesFailedEvent)
		if !ok {
			t.Fatal("Expected PropertiesFailedEvent")
		}
		if failed.Reason != "network down" {
			t.Errorf("Expected reason 'network down', got %q", failed.Reason)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Timeout waiting for event")
	}
}

func TestEventBus_SubscribeAll(t *testing.T) {
	bus := NewEventBus(10)
	defer bus.Close()

	ch := bus.SubscribeAll()

	bus.PublishSettingChanged("PastebinType", "mclogs")
	bus.PublishPropertiesFailed("https://meta.example/", "timeout")

	for i := 0; i < 2; i++ {
		select {
		case <-ch:
		case <-time.After(100 * time.Millisecond):
			t.Fatalf("Timeout waiting for event %d", i+1)
		}
	}
}

func TestEventBus_DroppedEvents(t *testing.T) {
	bus := NewEventBus(1)
	defer bus.Close()

	bus.Subscribe(EventSettingChanged)

	// Buffer of 1: second publish must be dropped, not block
	bus.PublishSettingChanged("a", "1")
	bus.PublishSettingChanged("b", "2")

	if got := bus.DroppedEventCount(); got != 1 {
		t.Errorf("Expected 1 dropped event, got %d", got)
	}
}

func TestEventBus_CloseIsIdempotent(t *testing.T) {
	bus := NewEventBus(10)
	ch := bus.Subscribe(EventSettingsSaved)

	bus.Close()
	bus.Close()

	// Channel must be closed
	if _, ok := <-ch; ok {
		t.Error("Expected closed channel after bus Close")
	}

	// Publishing after close must not panic
	bus.PublishSettingChanged("key", "value")
}
