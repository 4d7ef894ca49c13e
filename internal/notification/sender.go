// Package notification defines the delivery collaborator consumed by the
// dispatch notifier. The delivery subsystem itself (push, email, in-app)
// lives outside this service; the webhook sender here hands payloads to it.
package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// TicketAssigned is the payload for an assignment notification.
type TicketAssigned struct {
	RecipientUserID int    `json:"recipient_user_id"`
	TicketID        int    `json:"ticket_id"`
	TicketNumber    string `json:"ticket_number"`
	TicketTitle     string `json:"ticket_title"`
}

// SystemAlert is the payload for an administrator alert.
type SystemAlert struct {
	RecipientUserID int            `json:"recipient_user_id"`
	Title           string         `json:"title"`
	Body            string         `json:"body"`
	Data            map[string]any `json:"data,omitempty"`
}

// Sender delivers notifications to local portal users.
type Sender interface {
	NotifyTicketAssigned(ctx context.Context, msg TicketAssigned) error
	NotifySystemAlert(ctx context.Context, msg SystemAlert) error
}

// RecipientResolver maps a backend agent id to zero or more local portal
// user ids.
type RecipientResolver interface {
	ResolveLocalUserIDs(ctx context.Context, zammadUserID int) ([]int, error)
}

// WebhookSender posts notification payloads to the delivery subsystem's
// webhook. With no URL configured it only logs, which keeps development
// environments working without a delivery stack.
type WebhookSender struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

// NewWebhookSender creates the sender.
func NewWebhookSender(url string, logger *zap.Logger) *WebhookSender {
	return &WebhookSender{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

// NotifyTicketAssigned delivers an assignment notification.
func (s *WebhookSender) NotifyTicketAssigned(ctx context.Context, msg TicketAssigned) error {
	if s.url == "" {
		s.logger.Debug("notifyTicketAssigned (no webhook configured)",
			zap.Int("recipient_user_id", msg.RecipientUserID),
			zap.Int("ticket_id", msg.TicketID))
		return nil
	}
	return s.post(ctx, "ticket_assigned", msg)
}

// NotifySystemAlert delivers an administrator alert.
func (s *WebhookSender) NotifySystemAlert(ctx context.Context, msg SystemAlert) error {
	if s.url == "" {
		s.logger.Debug("notifySystemAlert (no webhook configured)",
			zap.Int("recipient_user_id", msg.RecipientUserID),
			zap.String("title", msg.Title))
		return nil
	}
	return s.post(ctx, "system_alert", msg)
}

func (s *WebhookSender) post(ctx context.Context, kind string, payload any) error {
	body, err := json.Marshal(map[string]any{"type": kind, "payload": payload})
	if err != nil {
		return fmt.Errorf("encode %s notification: %w", kind, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s notification request: %w", kind, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("deliver %s notification: %w", kind, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("deliver %s notification: unexpected status %d", kind, resp.StatusCode)
	}
	return nil
}
