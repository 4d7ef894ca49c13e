package events

import (
	"context"
	"errors"
	"testing"
)

func TestInMemoryDispatcherDeliversToAllHandlers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()
	var calls []string

	dispatcher.Subscribe(EventAssignmentCompleted, func(_ context.Context, _ Event) error {
		calls = append(calls, "first")
		return errors.New("handler failed")
	})
	dispatcher.Subscribe(EventAssignmentCompleted, func(_ context.Context, _ Event) error {
		calls = append(calls, "second")
		return nil
	})
	dispatcher.Subscribe(EventAssignmentFailed, func(_ context.Context, _ Event) error {
		calls = append(calls, "wrong type")
		return nil
	})

	event := NewEvent(EventAssignmentCompleted, 42, AssignmentCompletedPayload{
		TicketNumber: "71001",
		AgentID:      22,
		Region:       "asia-pacific",
	})
	if err := dispatcher.Publish(context.Background(), event); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	if len(calls) != 2 || calls[0] != "first" || calls[1] != "second" {
		t.Errorf("calls = %v; a failing handler must not stop later ones", calls)
	}
}

func TestNewEventStampsIdentity(t *testing.T) {
	event := NewEvent(EventAssignmentFailed, 7, AssignmentFailedPayload{Region: "europe", Error: "boom"})
	if event.ID == "" {
		t.Error("event id missing")
	}
	if event.Timestamp.IsZero() {
		t.Error("timestamp missing")
	}
	if event.TicketID != 7 || event.Type != EventAssignmentFailed {
		t.Errorf("event = %+v", event)
	}
}
