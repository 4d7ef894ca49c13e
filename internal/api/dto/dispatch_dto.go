package dto

import "github.com/spec-kit/support-portal/internal/domain"

// DispatchRequest is sent by the ticket-creation flow right after a
// ticket exists in the backend.
type DispatchRequest struct {
	TicketID     int    `json:"ticket_id"`
	TicketNumber string `json:"ticket_number"`
	TicketTitle  string `json:"ticket_title"`
	GroupID      int    `json:"group_id"`
}

// DispatchResponse carries the assignment outcome back to the caller.
type DispatchResponse struct {
	Result domain.AssignmentResult `json:"result"`
}

// TicketSummary is the list view of a backend ticket.
type TicketSummary struct {
	ID         int    `json:"id"`
	Number     string `json:"number"`
	Title      string `json:"title"`
	GroupID    *int   `json:"group_id,omitempty"`
	StateID    int    `json:"state_id"`
	OwnerID    int    `json:"owner_id"`
	PriorityID int    `json:"priority_id"`
}

// ConversationSummary is the list view of a conversation.
type ConversationSummary struct {
	ID            int    `json:"id"`
	Region        string `json:"region,omitempty"`
	CustomerEmail string `json:"customer_email"`
}
