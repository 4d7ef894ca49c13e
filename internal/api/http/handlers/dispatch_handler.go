package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/support-portal/internal/api/dto"
	"github.com/spec-kit/support-portal/internal/dispatch"
	"github.com/spec-kit/support-portal/internal/domain"
	apperrors "github.com/spec-kit/support-portal/pkg/util"
)

// DispatchHandler runs auto-assignment for the ticket-creation flow.
type DispatchHandler struct {
	engine   *dispatch.Engine
	notifier *dispatch.Notifier
	regions  *domain.RegionMap
	logger   *zap.Logger
}

// NewDispatchHandler constructs handler.
func NewDispatchHandler(engine *dispatch.Engine, notifier *dispatch.Notifier, regions *domain.RegionMap, logger *zap.Logger) *DispatchHandler {
	return &DispatchHandler{engine: engine, notifier: notifier, regions: regions, logger: logger}
}

// DispatchTicket POST /internal/tickets/dispatch. The ticket already
// exists in the backend; assignment failure must never fail this request,
// so the outcome is always 202 with the result attached. Backend errors
// are folded into a failed result and admins are alerted.
func (h *DispatchHandler) DispatchTicket(c *fiber.Ctx) error {
	var req dto.DispatchRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.TicketID == 0 || req.GroupID == 0 {
		return apperrors.NewValidationError("ticket_id and group_id required", nil)
	}

	ctx := c.UserContext()
	result, err := h.engine.AutoAssignSingleTicket(ctx, req.TicketID, req.TicketNumber, req.TicketTitle, req.GroupID)
	if err != nil {
		h.logger.Error("auto-assignment errored",
			zap.Int("ticket_id", req.TicketID),
			zap.Error(err))
		result = domain.AssignmentResult{Success: false, Error: err.Error()}
	}

	region := ""
	if r, ok := h.regions.RegionFor(req.GroupID); ok {
		region = string(r)
	}
	h.notifier.HandleAssignmentNotification(ctx, result, req.TicketID, req.TicketNumber, req.TicketTitle, region)

	return c.Status(http.StatusAccepted).JSON(dto.DispatchResponse{Result: result})
}
