package events

import (
	"sync"
	"time"

	"github.com/fathomchat/fathom/pkg/logger"
)

// Event represents a generic event in the system
type Event struct {
	Type      string
	Payload   interface{}
	Source    string
	Timestamp time.Time
}

// Handler is a function that handles events
type Handler func(event Event)

// Bus provides decoupled communication between the packet sources, the
// reveal controller and the renderer.
type Bus struct {
	handlers map[string][]Handler
	mutex    sync.RWMutex
	log      *logger.Logger
	buffer   chan Event
	done     chan struct{}
	once     sync.Once
}

// NewBus creates a new event bus
func NewBus() *Bus {
	bus := &Bus{
		handlers: make(map[string][]Handler),
		log:      logger.WithComponent("event_bus"),
		buffer:   make(chan Event, 100),
		done:     make(chan struct{}),
	}

	go bus.processEvents()

	return bus
}

// Subscribe adds a handler for a specific event type
func (eb *Bus) Subscribe(eventType string, handler Handler) {
	eb.mutex.Lock()
	defer eb.mutex.Unlock()

	eb.handlers[eventType] = append(eb.handlers[eventType], handler)
	eb.log.Debug("Handler subscribed", "eventType", eventType)
}

// Publish sends an event to all registered handlers asynchronously
func (eb *Bus) Publish(eventType string, payload interface{}, source string) {
	event := Event{
		Type:      eventType,
		Payload:   payload,
		Source:    source,
		Timestamp: time.Now(),
	}

	select {
	case eb.buffer <- event:
	default:
		eb.log.Warn("Event buffer full, dropping event", "type", eventType, "source", source)
	}
}

// PublishSync sends an event synchronously to all handlers. Packet
// batches use this path: aggregation depends on strict arrival order.
func (eb *Bus) PublishSync(eventType string, payload interface{}, source string) {
	eb.deliverEvent(Event{
		Type:      eventType,
		Payload:   payload,
		Source:    source,
		Timestamp: time.Now(),
	})
}

func (eb *Bus) processEvents() {
	for {
		select {
		case event := <-eb.buffer:
			eb.deliverEvent(event)
		case <-eb.done:
			return
		}
	}
}

func (eb *Bus) deliverEvent(event Event) {
	eb.mutex.RLock()
	handlers := append([]Handler(nil), eb.handlers[event.Type]...)
	handlers = append(handlers, eb.handlers["*"]...)
	eb.mutex.RUnlock()

	for _, handler := range handlers {
		handler(event)
	}
}

// Close shuts down the event bus
func (eb *Bus) Close() {
	eb.once.Do(func() { close(eb.done) })
}

// Event type constants
const (
	// Packet events
	EventPackets      = "packets"
	EventStreamEnded  = "stream_ended"
	EventStreamFailed = "stream_failed"

	// Reveal events
	EventStepShown = "step_shown"
	EventAllShown  = "all_shown"
)
