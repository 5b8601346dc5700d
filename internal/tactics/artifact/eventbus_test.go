package artifact

import (
	"testing"
	"time"
)

func TestBusPublishInvokesSubscribedHandlers(t *testing.T) {
	bus := NewBus()
	var received []Event
	bus.Subscribe("TrackingCompletedEvent", func(e Event) {
		received = append(received, e)
	})

	bus.Publish(TrackingCompleted("m1", "tracking/m1.tbl", 1000, 22, time.Now()))

	if len(received) != 1 {
		t.Fatalf("expected 1 event delivered, got %d", len(received))
	}
	if received[0].AggregateID != "m1" {
		t.Errorf("expected aggregate id m1, got %s", received[0].AggregateID)
	}
}

func TestBusPublishIgnoresUnsubscribedType(t *testing.T) {
	bus := NewBus()
	called := false
	bus.Subscribe("CalibrationCompletedEvent", func(e Event) { called = true })

	bus.Publish(TrackingCompleted("m1", "p", 1, 1, time.Now()))

	if called {
		t.Error("expected handler for a different event type not to fire")
	}
}

func TestBusMultipleHandlersAllInvoked(t *testing.T) {
	bus := NewBus()
	count := 0
	bus.Subscribe("CalibrationCompletedEvent", func(e Event) { count++ })
	bus.Subscribe("CalibrationCompletedEvent", func(e Event) { count++ })

	bus.Publish(CalibrationCompleted("v1", 12, 0.5, time.Now()))

	if count != 2 {
		t.Errorf("expected both handlers invoked, got count=%d", count)
	}
}
