package domain

import (
	"strings"
	"time"
)

// Agent is an assignment candidate as reported by the ticketing backend.
// GroupIDs maps backend group id to the permissions the agent holds in
// that group; membership is by key presence.
type Agent struct {
	ID               int              `json:"id"`
	Email            string           `json:"email"`
	Login            string           `json:"login"`
	Firstname        string           `json:"firstname"`
	Lastname         string           `json:"lastname"`
	Active           bool             `json:"active"`
	RoleIDs          []int            `json:"role_ids"`
	GroupIDs         map[int][]string `json:"group_ids"`
	OutOfOffice      bool             `json:"out_of_office"`
	OutOfOfficeStart *time.Time       `json:"out_of_office_start_at"`
	OutOfOfficeEnd   *time.Time       `json:"out_of_office_end_at"`
}

// HasRole reports whether the agent holds the given backend role id.
func (a Agent) HasRole(roleID int) bool {
	for _, id := range a.RoleIDs {
		if id == roleID {
			return true
		}
	}
	return false
}

// InGroup reports membership in a backend group.
func (a Agent) InGroup(groupID int) bool {
	_, ok := a.GroupIDs[groupID]
	return ok
}

// OnVacation evaluates the out-of-office window against now. Three window
// shapes are supported: both bounds (inclusive range), only a start bound
// (open-ended from that instant), only an end bound (until that instant).
// A set flag with no bounds counts as on vacation.
func (a Agent) OnVacation(now time.Time) bool {
	if !a.OutOfOffice {
		return false
	}
	switch {
	case a.OutOfOfficeStart != nil && a.OutOfOfficeEnd != nil:
		return !now.Before(*a.OutOfOfficeStart) && !now.After(*a.OutOfOfficeEnd)
	case a.OutOfOfficeStart != nil:
		return !now.Before(*a.OutOfOfficeStart)
	case a.OutOfOfficeEnd != nil:
		return !now.After(*a.OutOfOfficeEnd)
	}
	return true
}

// DisplayName returns "firstname lastname" trimmed, falling back to login
// and then email when both name fields are blank.
func (a Agent) DisplayName() string {
	name := strings.TrimSpace(a.Firstname + " " + a.Lastname)
	if name != "" {
		return name
	}
	if a.Login != "" {
		return a.Login
	}
	return a.Email
}
