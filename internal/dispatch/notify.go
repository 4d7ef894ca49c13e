package dispatch

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/support-portal/internal/domain"
	"github.com/spec-kit/support-portal/internal/notification"
	"github.com/spec-kit/support-portal/internal/observability"
)

// Notifier fans out the notifications that follow an assignment outcome.
// Every send is best-effort: failures are logged and counted, never
// returned, and one recipient's failure does not stop the rest.
type Notifier struct {
	backend     Backend
	sender      notification.Sender
	resolver    notification.RecipientResolver
	adminRoleID int
	metrics     *observability.Metrics
	logger      *zap.Logger
}

// NewNotifier creates the notifier.
func NewNotifier(backend Backend, sender notification.Sender, resolver notification.RecipientResolver, adminRoleID int, metrics *observability.Metrics, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{
		backend:     backend,
		sender:      sender,
		resolver:    resolver,
		adminRoleID: adminRoleID,
		metrics:     metrics,
		logger:      logger,
	}
}

// SendOutcome records one delivery attempt of a fan-out.
type SendOutcome struct {
	RecipientID int
	Err         error
}

// HandleAssignmentNotification informs the assigned agent's portal users
// on success, or every active admin on failure. It never alters the
// result it was handed and never returns an error.
func (n *Notifier) HandleAssignmentNotification(ctx context.Context, result domain.AssignmentResult, ticketID int, ticketNumber, ticketTitle, region string) {
	if result.Success {
		n.notifyAssignedAgent(ctx, result, ticketID, ticketNumber, ticketTitle)
		return
	}
	n.alertAdmins(ctx, result, ticketID, ticketNumber, ticketTitle, region)
}

func (n *Notifier) notifyAssignedAgent(ctx context.Context, result domain.AssignmentResult, ticketID int, ticketNumber, ticketTitle string) {
	if result.AssignedTo == nil {
		return
	}
	recipients, err := n.resolver.ResolveLocalUserIDs(ctx, result.AssignedTo.ID)
	if err != nil {
		n.recordFailure()
		n.logger.Warn("resolve notification recipients",
			zap.Int("agent_id", result.AssignedTo.ID),
			zap.Error(err))
		return
	}
	if len(recipients) == 0 {
		n.logger.Debug("assigned agent has no portal users",
			zap.Int("agent_id", result.AssignedTo.ID))
		return
	}
	outcomes := n.fanOut(recipients, func(recipientID int) error {
		return n.sender.NotifyTicketAssigned(ctx, notification.TicketAssigned{
			RecipientUserID: recipientID,
			TicketID:        ticketID,
			TicketNumber:    ticketNumber,
			TicketTitle:     ticketTitle,
		})
	})
	n.logOutcomes("ticket assigned", ticketID, outcomes)
}

func (n *Notifier) alertAdmins(ctx context.Context, result domain.AssignmentResult, ticketID int, ticketNumber, ticketTitle, region string) {
	admins, err := n.backend.SearchUsers(ctx, fmt.Sprintf("role_ids:%d", n.adminRoleID))
	if err != nil {
		n.recordFailure()
		n.logger.Warn("search admins for failure alert", zap.Error(err))
		return
	}
	recipients := make([]int, 0, len(admins))
	for _, admin := range admins {
		if !admin.Active || !admin.HasRole(n.adminRoleID) {
			continue
		}
		localIDs, err := n.resolver.ResolveLocalUserIDs(ctx, admin.ID)
		if err != nil {
			n.recordFailure()
			n.logger.Warn("resolve admin recipient",
				zap.Int("admin_id", admin.ID),
				zap.Error(err))
			continue
		}
		recipients = append(recipients, localIDs...)
	}
	if len(recipients) == 0 {
		n.logger.Warn("no admin recipients for assignment failure",
			zap.Int("ticket_id", ticketID),
			zap.String("region", region))
		return
	}
	outcomes := n.fanOut(recipients, func(recipientID int) error {
		return n.sender.NotifySystemAlert(ctx, notification.SystemAlert{
			RecipientUserID: recipientID,
			Title:           "Ticket auto-assignment failed",
			Body:            fmt.Sprintf("Ticket #%s (%s) in region %s could not be assigned: %s", ticketNumber, ticketTitle, region, result.Error),
			Data: map[string]any{
				"ticket_id":     ticketID,
				"ticket_number": ticketNumber,
				"region":        region,
				"error":         result.Error,
			},
		})
	})
	n.logOutcomes("system alert", ticketID, outcomes)
}

// fanOut attempts send for each recipient, collecting per-recipient
// outcomes. Errors never abort the loop.
func (n *Notifier) fanOut(recipients []int, send func(recipientID int) error) []SendOutcome {
	outcomes := make([]SendOutcome, 0, len(recipients))
	for _, recipientID := range recipients {
		outcomes = append(outcomes, SendOutcome{
			RecipientID: recipientID,
			Err:         send(recipientID),
		})
	}
	return outcomes
}

func (n *Notifier) logOutcomes(kind string, ticketID int, outcomes []SendOutcome) {
	for _, outcome := range outcomes {
		if outcome.Err == nil {
			continue
		}
		n.recordFailure()
		n.logger.Warn("notification send failed",
			zap.String("kind", kind),
			zap.Int("ticket_id", ticketID),
			zap.Int("recipient_id", outcome.RecipientID),
			zap.Error(outcome.Err))
	}
}

func (n *Notifier) recordFailure() {
	if n.metrics != nil {
		n.metrics.RecordNotificationFailure()
	}
}
