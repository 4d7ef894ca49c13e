// Package zammad is the HTTP client for the external ticketing backend.
// Only the reads and the single owner/state mutation this service needs
// are implemented.
package zammad

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/support-portal/internal/config"
	"github.com/spec-kit/support-portal/internal/domain"
)

// Client talks to the Zammad REST API with token authentication.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates the backend client.
func NewClient(cfg config.ZammadConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: cfg.Timeout()},
		logger:     logger.With(zap.String("component", "zammad_client")),
	}
}

// GetAgents returns backend users holding the Agent role, optionally
// restricted to active ones. The result order is the backend's and is the
// tie-break order for dispatch.
func (c *Client) GetAgents(ctx context.Context, activeOnly bool) ([]domain.Agent, error) {
	query := "roles.name:Agent"
	if activeOnly {
		query += " AND active:true"
	}
	return c.SearchUsers(ctx, query)
}

// SearchUsers runs a backend user search.
func (c *Client) SearchUsers(ctx context.Context, query string) ([]domain.Agent, error) {
	var agents []domain.Agent
	params := url.Values{"query": {query}}
	if err := c.get(ctx, "/api/v1/users/search", params, &agents); err != nil {
		return nil, fmt.Errorf("search users %q: %w", query, err)
	}
	return agents, nil
}

// GetAllTickets fetches the ticket snapshot used for load computation.
func (c *Client) GetAllTickets(ctx context.Context) ([]domain.Ticket, error) {
	var tickets []domain.Ticket
	if err := c.get(ctx, "/api/v1/tickets", nil, &tickets); err != nil {
		return nil, fmt.Errorf("get tickets: %w", err)
	}
	return tickets, nil
}

// UpdateTicket writes the owner/state mutation for an assignment.
func (c *Client) UpdateTicket(ctx context.Context, id int, update domain.TicketUpdate) error {
	path := fmt.Sprintf("/api/v1/tickets/%d", id)
	if err := c.send(ctx, http.MethodPut, path, update, nil); err != nil {
		return fmt.Errorf("update ticket %d: %w", id, err)
	}
	return nil
}

// GetGroups enumerates backend groups; used by the readiness probe.
func (c *Client) GetGroups(ctx context.Context) ([]domain.Group, error) {
	var groups []domain.Group
	if err := c.get(ctx, "/api/v1/groups", nil, &groups); err != nil {
		return nil, fmt.Errorf("get groups: %w", err)
	}
	return groups, nil
}

// GetTicketStates fetches state metadata for the lifecycle classifier.
func (c *Client) GetTicketStates(ctx context.Context) ([]domain.TicketState, error) {
	var states []domain.TicketState
	if err := c.get(ctx, "/api/v1/ticket_states", nil, &states); err != nil {
		return nil, fmt.Errorf("get ticket states: %w", err)
	}
	return states, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) send(ctx context.Context, method, path string, body, out any) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Token token="+c.token)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("backend returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
