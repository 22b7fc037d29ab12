package service

// EventType defines the type of event
type EventType string

const (
	EventDiagramCreated  EventType = "diagram_created"
	EventDiagramDeleted  EventType = "diagram_deleted"
	EventDiagramImported EventType = "diagram_imported"
	EventNodeCreated     EventType = "node_created"
	EventNodeUpdated     EventType = "node_updated"
	EventNodeDeleted     EventType = "node_deleted"
	EventEdgeCreated     EventType = "edge_created"
	EventEdgeDeleted     EventType = "edge_deleted"
	EventIdentityChanged EventType = "identity_changed"
)

// Event represents an event that occurred in the system
type Event struct {
	Type    EventType   `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// EventBus allows publishing and subscribing to events
type EventBus struct {
	subscribers []chan<- Event
}

// NewEventBus creates a new event bus
func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make([]chan<- Event, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (eb *EventBus) Subscribe(ch chan<- Event) {
	eb.subscribers = append(eb.subscribers, ch)
}

// Publish sends an event to all subscribers
func (eb *EventBus) Publish(event Event) {
	for _, ch := range eb.subscribers {
		select {
		case ch <- event:
		default:
			// Subscriber is slow, skip
		}
	}
}
