package artifact

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event is the common shape of every domain event published on Bus: an
// immutable record of something that happened, carrying the aggregate ID of
// the entity that produced it.
type Event struct {
	EventID     string
	EventType   string
	AggregateID string
	OccurredAt  time.Time
	Data        map[string]any
}

// NewEvent builds an event with a fresh ID and the given occurredAt.
func NewEvent(eventType, aggregateID string, occurredAt time.Time, data map[string]any) Event {
	return Event{
		EventID:     uuid.NewString(),
		EventType:   eventType,
		AggregateID: aggregateID,
		OccurredAt:  occurredAt,
		Data:        data,
	}
}

// TrackingCompleted builds the event emitted when trajectory stabilization
// finishes for a match.
func TrackingCompleted(matchID, trajectoryPath string, framesProcessed, playersDetected int, occurredAt time.Time) Event {
	return NewEvent("TrackingCompletedEvent", matchID, occurredAt, map[string]any{
		"match_id":         matchID,
		"trajectory_path":  trajectoryPath,
		"frames_processed": framesProcessed,
		"players_detected": playersDetected,
	})
}

// CalibrationCompleted builds the event emitted when homography calibration
// finishes for a video.
func CalibrationCompleted(videoID string, keypointsUsed int, reprojectionError float64, occurredAt time.Time) Event {
	return NewEvent("CalibrationCompletedEvent", videoID, occurredAt, map[string]any{
		"video_id":           videoID,
		"keypoints_used":     keypointsUsed,
		"reprojection_error": reprojectionError,
	})
}

// Handler receives published events. Handlers run synchronously on the
// publishing goroutine — this is a contract-plus-toy implementation; a real
// deployment swaps in a broker-backed Bus behind the same interface.
type Handler func(Event)

// Bus is a minimal in-memory domain event bus.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

// NewBus constructs an empty event bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[string][]Handler)}
}

// Subscribe registers handler to run for every event of the given type.
func (b *Bus) Subscribe(eventType string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Publish invokes every handler subscribed to event's type, in registration
// order, synchronously.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[event.EventType]...)
	b.mu.RUnlock()
	for _, h := range handlers {
		h(event)
	}
}
