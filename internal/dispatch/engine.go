// Package dispatch implements least-loaded auto-assignment of newly
// created tickets to eligible agents within the ticket's region, plus the
// best-effort notification fan-out that follows an assignment outcome.
package dispatch

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/support-portal/internal/domain"
	"github.com/spec-kit/support-portal/internal/events"
	"github.com/spec-kit/support-portal/internal/lifecycle"
	"github.com/spec-kit/support-portal/internal/observability"
)

// Backend is the slice of the ticketing backend the engine consumes.
type Backend interface {
	GetAgents(ctx context.Context, activeOnly bool) ([]domain.Agent, error)
	GetAllTickets(ctx context.Context) ([]domain.Ticket, error)
	UpdateTicket(ctx context.Context, id int, update domain.TicketUpdate) error
	SearchUsers(ctx context.Context, query string) ([]domain.Agent, error)
}

// Engine selects the least-loaded eligible agent for a ticket's group and
// assigns the ticket through the backend. It holds no state between
// invocations; concurrent dispatches for distinct tickets read independent
// snapshots and may race on load (accepted: eventual fairness).
type Engine struct {
	backend       Backend
	states        lifecycle.Classifier
	regions       *domain.RegionMap
	excluded      map[string]struct{}
	adminRoleID   int
	unassignedID  int
	assignedState string
	dispatcher    events.Dispatcher
	metrics       *observability.Metrics
	logger        *zap.Logger
	now           func() time.Time
}

// Dependencies bundles engine collaborators.
type Dependencies struct {
	Backend           Backend
	States            lifecycle.Classifier
	Regions           *domain.RegionMap
	ExcludedEmails    []string
	AdminRoleID       int
	UnassignedOwnerID int
	AssignedState     string
	Dispatcher        events.Dispatcher
	Metrics           *observability.Metrics
	Logger            *zap.Logger
	Clock             func() time.Time
}

// NewEngine creates the engine.
func NewEngine(deps Dependencies) *Engine {
	excluded := make(map[string]struct{}, len(deps.ExcludedEmails))
	for _, email := range deps.ExcludedEmails {
		excluded[strings.ToLower(email)] = struct{}{}
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	assignedState := deps.AssignedState
	if assignedState == "" {
		assignedState = "open"
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		backend:       deps.Backend,
		states:        deps.States,
		regions:       deps.Regions,
		excluded:      excluded,
		adminRoleID:   deps.AdminRoleID,
		unassignedID:  deps.UnassignedOwnerID,
		assignedState: assignedState,
		dispatcher:    deps.Dispatcher,
		metrics:       deps.Metrics,
		logger:        logger,
		now:           clock,
	}
}

// candidate pairs an agent with its load and its position in the backend
// snapshot, so ties break deterministically on arrival order.
type candidate struct {
	agent domain.Agent
	load  int
	index int
}

// AutoAssignSingleTicket assigns the ticket to the least-loaded eligible
// agent of its group. An empty eligible set is a normal failed result, not
// an error, and performs no backend mutation; a non-nil error means a
// backend read or write failed and the ticket may be left unassigned.
func (e *Engine) AutoAssignSingleTicket(ctx context.Context, ticketID int, ticketNumber, ticketTitle string, groupID int) (domain.AssignmentResult, error) {
	region := e.regionLabel(groupID)

	agents, tickets, err := e.fetchSnapshots(ctx)
	if err != nil {
		e.recordOutcome("error")
		return domain.AssignmentResult{}, fmt.Errorf("dispatch snapshot: %w", err)
	}

	activeStates, err := e.states.ActiveStateIDs(ctx)
	if err != nil {
		e.recordOutcome("error")
		return domain.AssignmentResult{}, fmt.Errorf("active states: %w", err)
	}

	load := e.computeLoad(tickets, activeStates)
	eligible := e.eligibleCandidates(agents, groupID, load)

	if len(eligible) == 0 {
		e.logger.Warn("no eligible agents",
			zap.Int("ticket_id", ticketID),
			zap.Int("group_id", groupID),
			zap.String("region", region))
		result := domain.AssignmentResult{
			Success: false,
			Error:   fmt.Sprintf("No available agents for region: %s", region),
		}
		e.recordOutcome("no_agents")
		e.publishFailed(ctx, ticketID, ticketNumber, region, result.Error)
		return result, nil
	}

	// Explicit (load, arrival-index) ordering instead of relying on a
	// stable sort.
	sort.Slice(eligible, func(i, j int) bool {
		if eligible[i].load != eligible[j].load {
			return eligible[i].load < eligible[j].load
		}
		return eligible[i].index < eligible[j].index
	})
	selected := eligible[0].agent

	update := domain.TicketUpdate{OwnerID: selected.ID, State: e.assignedState}
	if err := e.backend.UpdateTicket(ctx, ticketID, update); err != nil {
		e.recordOutcome("error")
		return domain.AssignmentResult{}, fmt.Errorf("assign ticket %d to agent %d: %w", ticketID, selected.ID, err)
	}

	e.logger.Info("ticket assigned",
		zap.Int("ticket_id", ticketID),
		zap.String("ticket_number", ticketNumber),
		zap.Int("agent_id", selected.ID),
		zap.Int("agent_load", eligible[0].load),
		zap.String("region", region))

	e.recordOutcome("assigned")
	e.publishCompleted(ctx, ticketID, ticketNumber, region, selected)

	return domain.AssignmentResult{
		Success: true,
		AssignedTo: &domain.AssignedAgent{
			ID:    selected.ID,
			Name:  selected.DisplayName(),
			Email: selected.Email,
		},
	}, nil
}

// fetchSnapshots issues the two independent backend reads concurrently.
func (e *Engine) fetchSnapshots(ctx context.Context) ([]domain.Agent, []domain.Ticket, error) {
	var (
		wg         sync.WaitGroup
		agents     []domain.Agent
		tickets    []domain.Ticket
		agentsErr  error
		ticketsErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		agents, agentsErr = e.backend.GetAgents(ctx, true)
	}()
	go func() {
		defer wg.Done()
		tickets, ticketsErr = e.backend.GetAllTickets(ctx)
	}()
	wg.Wait()
	if agentsErr != nil {
		return nil, nil, fmt.Errorf("get agents: %w", agentsErr)
	}
	if ticketsErr != nil {
		return nil, nil, fmt.Errorf("get tickets: %w", ticketsErr)
	}
	return agents, tickets, nil
}

// computeLoad counts each agent's currently active owned tickets. The
// unassigned sentinel owner never accumulates load.
func (e *Engine) computeLoad(tickets []domain.Ticket, activeStates []int) map[int]int {
	active := make(map[int]struct{}, len(activeStates))
	for _, id := range activeStates {
		active[id] = struct{}{}
	}
	load := make(map[int]int)
	for _, ticket := range tickets {
		if ticket.OwnerID == e.unassignedID {
			continue
		}
		if _, ok := active[ticket.StateID]; !ok {
			continue
		}
		load[ticket.OwnerID]++
	}
	return load
}

// eligibleCandidates applies the exclusion filters in order: system
// accounts, admin-role holders, agents without membership in the ticket's
// group, agents currently on vacation. Agents with no recorded load
// default to 0.
func (e *Engine) eligibleCandidates(agents []domain.Agent, groupID int, load map[int]int) []candidate {
	now := e.now()
	eligible := make([]candidate, 0, len(agents))
	for i, agent := range agents {
		if _, ok := e.excluded[strings.ToLower(agent.Email)]; ok {
			continue
		}
		if agent.HasRole(e.adminRoleID) {
			continue
		}
		if !agent.InGroup(groupID) {
			continue
		}
		if agent.OnVacation(now) {
			continue
		}
		eligible = append(eligible, candidate{agent: agent, load: load[agent.ID], index: i})
	}
	return eligible
}

// regionLabel resolves the region a group belongs to; groups outside the
// region topology (e.g. the Users group) fall back to a group label.
func (e *Engine) regionLabel(groupID int) string {
	if region, ok := e.regions.RegionFor(groupID); ok {
		return string(region)
	}
	return fmt.Sprintf("group-%d", groupID)
}

func (e *Engine) recordOutcome(outcome string) {
	if e.metrics != nil {
		e.metrics.RecordAssignment(outcome)
	}
}

func (e *Engine) publishCompleted(ctx context.Context, ticketID int, ticketNumber, region string, agent domain.Agent) {
	if e.dispatcher == nil {
		return
	}
	err := e.dispatcher.Publish(ctx, events.NewEvent(events.EventAssignmentCompleted, ticketID, events.AssignmentCompletedPayload{
		TicketNumber: ticketNumber,
		AgentID:      agent.ID,
		AgentEmail:   agent.Email,
		Region:       region,
	}))
	if err != nil {
		e.logger.Warn("publish assignment event", zap.Error(err))
	}
}

func (e *Engine) publishFailed(ctx context.Context, ticketID int, ticketNumber, region, reason string) {
	if e.dispatcher == nil {
		return
	}
	err := e.dispatcher.Publish(ctx, events.NewEvent(events.EventAssignmentFailed, ticketID, events.AssignmentFailedPayload{
		TicketNumber: ticketNumber,
		Region:       region,
		Error:        reason,
	}))
	if err != nil {
		e.logger.Warn("publish assignment event", zap.Error(err))
	}
}
