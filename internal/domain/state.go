package domain

// TicketState is backend state metadata used to classify workload.
type TicketState struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	StateTypeID int    `json:"state_type_id"`
	Active      bool   `json:"active"`
}

// Group is a backend queue/permission unit.
type Group struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}
