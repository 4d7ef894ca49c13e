package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAssignmentCompleted EventType = "assignment.completed"
	EventAssignmentFailed    EventType = "assignment.failed"
)

// Event is an assignment outcome emitted by the dispatch engine, consumed
// by real-time observers (SSE, polling) downstream.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  int         `json:"ticket_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// NewEvent stamps an event with id and timestamp.
func NewEvent(eventType EventType, ticketID int, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		TicketID:  ticketID,
		Timestamp: time.Now(),
		Payload:   payload,
	}
}

// AssignmentCompletedPayload payload.
type AssignmentCompletedPayload struct {
	TicketNumber string `json:"ticket_number"`
	AgentID      int    `json:"agent_id"`
	AgentEmail   string `json:"agent_email"`
	Region       string `json:"region"`
}

// AssignmentFailedPayload payload.
type AssignmentFailedPayload struct {
	TicketNumber string `json:"ticket_number"`
	Region       string `json:"region"`
	Error        string `json:"error"`
}
