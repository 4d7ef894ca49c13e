package domain

// AssignedAgent identifies the agent a ticket was dispatched to.
type AssignedAgent struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AssignmentResult is the outcome of one auto-assignment attempt. It is
// ephemeral: returned to the caller and consumed once by the notification
// step. A failed result is a normal outcome, not an error.
type AssignmentResult struct {
	Success    bool           `json:"success"`
	AssignedTo *AssignedAgent `json:"assigned_to,omitempty"`
	Error      string         `json:"error,omitempty"`
}
