package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-portal/internal/access"
	"github.com/spec-kit/support-portal/internal/api/dto"
	"github.com/spec-kit/support-portal/internal/auth"
	"github.com/spec-kit/support-portal/internal/domain"
	apperrors "github.com/spec-kit/support-portal/pkg/util"
)

// TicketSource lists tickets from the ticketing backend.
type TicketSource interface {
	GetAllTickets(ctx context.Context) ([]domain.Ticket, error)
}

// TicketsHandler serves access-filtered ticket listings.
type TicketsHandler struct {
	tickets TicketSource
	access  *access.Model
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(tickets TicketSource, accessModel *access.Model) *TicketsHandler {
	return &TicketsHandler{tickets: tickets, access: accessModel}
}

// ListTickets GET /api/tickets. The backend snapshot is projected through
// the actor's region/group visibility before it leaves the service.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	tickets, err := h.tickets.GetAllTickets(c.UserContext())
	if err != nil {
		return apperrors.MapError(err)
	}
	visible := h.access.FilterTicketsByRegion(tickets, actor)
	items := make([]dto.TicketSummary, 0, len(visible))
	for _, ticket := range visible {
		items = append(items, dto.TicketSummary{
			ID:         ticket.ID,
			Number:     ticket.Number,
			Title:      ticket.Title,
			GroupID:    ticket.GroupID,
			StateID:    ticket.StateID,
			OwnerID:    ticket.OwnerID,
			PriorityID: ticket.PriorityID,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}
