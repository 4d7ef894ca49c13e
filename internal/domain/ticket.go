package domain

// Ticket is the read view of a backend ticket. Tickets are owned by the
// ticketing backend: this service only reads group/state/owner and writes
// owner plus state on assignment.
type Ticket struct {
	ID         int    `json:"id"`
	Number     string `json:"number"`
	Title      string `json:"title"`
	GroupID    *int   `json:"group_id"`
	StateID    int    `json:"state_id"`
	OwnerID    int    `json:"owner_id"`
	PriorityID int    `json:"priority_id"`
	CustomerID int    `json:"customer_id"`
}

// TicketUpdate is the single mutation this service performs on a backend
// ticket: handing it to an owner and moving it into the worked state.
type TicketUpdate struct {
	OwnerID int    `json:"owner_id"`
	State   string `json:"state"`
}

// Conversation is the read view of a portal conversation. A zero-value
// Region is a legacy marker meaning the conversation predates region
// assignment and is visible to staff of any region.
type Conversation struct {
	ID            int    `json:"id"`
	Region        Region `json:"region,omitempty"`
	CustomerEmail string `json:"customer_email"`
}
