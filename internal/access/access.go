// Package access implements the region and group visibility rules for
// portal actors. Every operation is a pure projection over an actor and
// backend data; violations surface as FORBIDDEN domain errors.
package access

import (
	"fmt"

	"github.com/spec-kit/support-portal/internal/domain"
	apperrors "github.com/spec-kit/support-portal/pkg/util"
)

// Model evaluates access decisions against the configured region topology.
type Model struct {
	regions *domain.RegionMap
}

// NewModel builds the access model.
func NewModel(regions *domain.RegionMap) *Model {
	return &Model{regions: regions}
}

// HasRegionAccess reports whether the actor may act on the given region.
// Customers with no region assignment have open read access.
func (m *Model) HasRegionAccess(actor domain.Actor, region domain.Region) bool {
	switch a := actor.(type) {
	case domain.Admin:
		return true
	case domain.Staff:
		return a.Region != "" && a.Region == region
	case domain.Customer:
		return a.Region == "" || a.Region == region
	}
	return false
}

// HasGroupAccess reports whether the actor may see the given backend group.
func (m *Model) HasGroupAccess(actor domain.Actor, groupID int) bool {
	if _, ok := actor.(domain.Admin); ok {
		return true
	}
	_, ok := m.AccessibleGroupIDs(actor)[groupID]
	return ok
}

// AccessibleGroupIDs materializes the set of backend group ids the actor
// may see: every known group for admins, the home-region group plus the
// Users group for staff, the Users group alone for customers. Staff
// without a region get the empty set (fail closed).
func (m *Model) AccessibleGroupIDs(actor domain.Actor) map[int]struct{} {
	groups := make(map[int]struct{})
	switch a := actor.(type) {
	case domain.Admin:
		for _, id := range m.regions.GroupIDs() {
			groups[id] = struct{}{}
		}
	case domain.Staff:
		if a.Region == "" {
			return groups
		}
		if id, ok := m.regions.GroupFor(a.Region); ok {
			groups[id] = struct{}{}
			groups[m.regions.UsersGroupID()] = struct{}{}
		}
	case domain.Customer:
		groups[m.regions.UsersGroupID()] = struct{}{}
	}
	return groups
}

// AccessibleRegions returns every region for admins, the actor's own
// region when set, otherwise the empty set.
func (m *Model) AccessibleRegions(actor domain.Actor) map[domain.Region]struct{} {
	regions := make(map[domain.Region]struct{})
	switch a := actor.(type) {
	case domain.Admin:
		for _, region := range m.regions.Regions() {
			regions[region] = struct{}{}
		}
	case domain.Staff:
		if a.Region != "" {
			regions[a.Region] = struct{}{}
		}
	case domain.Customer:
		if a.Region != "" {
			regions[a.Region] = struct{}{}
		}
	}
	return regions
}

// FilterTicketsByRegion projects a ticket list down to what the actor may
// see. Customers see the input unchanged: ownership, not group, is the
// customer's access boundary. Staff lose tickets outside their accessible
// groups, including tickets with no group at all.
func (m *Model) FilterTicketsByRegion(tickets []domain.Ticket, actor domain.Actor) []domain.Ticket {
	switch actor.(type) {
	case domain.Admin, domain.Customer:
		return tickets
	}
	accessible := m.AccessibleGroupIDs(actor)
	filtered := make([]domain.Ticket, 0, len(tickets))
	for _, ticket := range tickets {
		if ticket.GroupID == nil {
			continue
		}
		if _, ok := accessible[*ticket.GroupID]; ok {
			filtered = append(filtered, ticket)
		}
	}
	return filtered
}

// ValidateTicketCreation enforces that staff only create tickets in their
// home region. Admins are unrestricted; customers are not subject to this
// check because the system, not the customer, picks the region.
func (m *Model) ValidateTicketCreation(actor domain.Actor, targetRegion domain.Region) error {
	staff, ok := actor.(domain.Staff)
	if !ok {
		return nil
	}
	if staff.Region == targetRegion && staff.Region != "" {
		return nil
	}
	return apperrors.NewForbidden(
		fmt.Sprintf("staff of region %q may not create tickets in region %q", staff.Region, targetRegion),
		map[string]any{"actor_region": string(staff.Region), "target_region": string(targetRegion)},
	)
}

// ValidateTicketAccess raises unless the actor may see the ticket's group.
func (m *Model) ValidateTicketAccess(actor domain.Actor, groupID int) error {
	if m.HasGroupAccess(actor, groupID) {
		return nil
	}
	return apperrors.NewForbidden(
		fmt.Sprintf("group %d is outside the actor's accessible groups", groupID),
		map[string]any{"group_id": groupID},
	)
}

// HasConversationRegionAccess reports conversation visibility. Customers
// only see their own conversations; staff see conversations of their
// region and legacy ones with no region at all.
func (m *Model) HasConversationRegionAccess(actor domain.Actor, conversation domain.Conversation) bool {
	switch a := actor.(type) {
	case domain.Admin:
		return true
	case domain.Customer:
		return conversation.CustomerEmail == a.Email
	case domain.Staff:
		return conversation.Region == "" || conversation.Region == a.Region
	}
	return false
}

// FilterConversationsByRegion projects a conversation list down to what
// the actor may see.
func (m *Model) FilterConversationsByRegion(conversations []domain.Conversation, actor domain.Actor) []domain.Conversation {
	if _, ok := actor.(domain.Admin); ok {
		return conversations
	}
	filtered := make([]domain.Conversation, 0, len(conversations))
	for _, conversation := range conversations {
		if m.HasConversationRegionAccess(actor, conversation) {
			filtered = append(filtered, conversation)
		}
	}
	return filtered
}

// ValidateConversationAccess raises unless the conversation is visible to
// the actor.
func (m *Model) ValidateConversationAccess(actor domain.Actor, conversation domain.Conversation) error {
	if m.HasConversationRegionAccess(actor, conversation) {
		return nil
	}
	return apperrors.NewForbidden(
		fmt.Sprintf("conversation %d is outside the actor's region", conversation.ID),
		map[string]any{"conversation_id": conversation.ID, "conversation_region": string(conversation.Region)},
	)
}
