package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-portal/internal/access"
	"github.com/spec-kit/support-portal/internal/api/dto"
	"github.com/spec-kit/support-portal/internal/auth"
	"github.com/spec-kit/support-portal/internal/repository"
	apperrors "github.com/spec-kit/support-portal/pkg/util"
)

// ConversationsHandler serves access-filtered conversation listings.
type ConversationsHandler struct {
	conversations repository.ConversationRepository
	access        *access.Model
}

// NewConversationsHandler constructs handler.
func NewConversationsHandler(conversations repository.ConversationRepository, accessModel *access.Model) *ConversationsHandler {
	return &ConversationsHandler{conversations: conversations, access: accessModel}
}

// ListConversations GET /api/conversations.
func (h *ConversationsHandler) ListConversations(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	conversations, err := h.conversations.List(c.UserContext())
	if err != nil {
		return apperrors.MapError(err)
	}
	visible := h.access.FilterConversationsByRegion(conversations, actor)
	items := make([]dto.ConversationSummary, 0, len(visible))
	for _, conversation := range visible {
		items = append(items, dto.ConversationSummary{
			ID:            conversation.ID,
			Region:        string(conversation.Region),
			CustomerEmail: conversation.CustomerEmail,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}
