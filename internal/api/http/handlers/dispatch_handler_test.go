package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	jwt "github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/support-portal/internal/api/dto"
	httptransport "github.com/spec-kit/support-portal/internal/api/http"
	"github.com/spec-kit/support-portal/internal/api/http/handlers"
	"github.com/spec-kit/support-portal/internal/auth"
	"github.com/spec-kit/support-portal/internal/dispatch"
	"github.com/spec-kit/support-portal/internal/domain"
	"github.com/spec-kit/support-portal/internal/notification"
)

type stubBackend struct {
	agents  []domain.Agent
	tickets []domain.Ticket
	updates int
}

func (b *stubBackend) GetAgents(context.Context, bool) ([]domain.Agent, error) {
	return b.agents, nil
}

func (b *stubBackend) GetAllTickets(context.Context) ([]domain.Ticket, error) {
	return b.tickets, nil
}

func (b *stubBackend) UpdateTicket(context.Context, int, domain.TicketUpdate) error {
	b.updates++
	return nil
}

func (b *stubBackend) SearchUsers(context.Context, string) ([]domain.Agent, error) {
	return nil, nil
}

type stubClassifier struct{}

func (stubClassifier) ActiveStateIDs(context.Context) ([]int, error) { return []int{1, 2}, nil }

type stubSender struct {
	alerts int
}

func (s *stubSender) NotifyTicketAssigned(context.Context, notification.TicketAssigned) error {
	return nil
}

func (s *stubSender) NotifySystemAlert(context.Context, notification.SystemAlert) error {
	s.alerts++
	return nil
}

type stubResolver struct{}

func (stubResolver) ResolveLocalUserIDs(context.Context, int) ([]int, error) { return nil, nil }

func staffToken(t *testing.T, secret string) string {
	t.Helper()
	claims := &auth.Claims{
		UserID: 2,
		Email:  "ap@example.com",
		Role:   auth.RoleStaff,
		Region: "asia-pacific",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func newDispatchApp(t *testing.T, backend *stubBackend, sender *stubSender) *fiber.App {
	t.Helper()
	regions := domain.NewRegionMap(map[domain.Region]int{"asia-pacific": 5}, 1)
	engine := dispatch.NewEngine(dispatch.Dependencies{
		Backend:           backend,
		States:            stubClassifier{},
		Regions:           regions,
		AdminRoleID:       1,
		UnassignedOwnerID: 1,
	})
	notifier := dispatch.NewNotifier(backend, sender, stubResolver{}, 1, nil, nil)
	handler := handlers.NewDispatchHandler(engine, notifier, regions, zap.NewNop())

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, zap.NewNop(), nil, 0)
	middleware := auth.NewMiddleware(auth.NewTokenVerifier("test-secret"))
	app.Post("/internal/tickets/dispatch", middleware.Handle, auth.RequireStaffOrAdmin(), handler.DispatchTicket)
	return app
}

func postDispatch(t *testing.T, app *fiber.App, body dto.DispatchRequest, token string) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/internal/tickets/dispatch", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	return resp
}

func TestDispatchEndpointReturnsAcceptedOnFailure(t *testing.T) {
	backend := &stubBackend{} // no agents at all
	sender := &stubSender{}
	app := newDispatchApp(t, backend, sender)

	resp := postDispatch(t, app, dto.DispatchRequest{
		TicketID:     100,
		TicketNumber: "71001",
		TicketTitle:  "help",
		GroupID:      5,
	}, staffToken(t, "test-secret"))

	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("status = %d, want 202 even when assignment fails", resp.StatusCode)
	}
	var body dto.DispatchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Result.Success {
		t.Error("expected a failed result")
	}
	if backend.updates != 0 {
		t.Error("no mutation may happen without eligible agents")
	}
	if sender.alerts != 0 {
		t.Errorf("alerts = %d, want none when no admin recipients resolve", sender.alerts)
	}
}

func TestDispatchEndpointAssignsAndReturnsAgent(t *testing.T) {
	backend := &stubBackend{
		agents: []domain.Agent{{
			ID:       22,
			Email:    "agent@example.com",
			Active:   true,
			RoleIDs:  []int{2},
			GroupIDs: map[int][]string{5: {"full"}},
		}},
	}
	app := newDispatchApp(t, backend, &stubSender{})

	resp := postDispatch(t, app, dto.DispatchRequest{
		TicketID:     100,
		TicketNumber: "71001",
		TicketTitle:  "help",
		GroupID:      5,
	}, staffToken(t, "test-secret"))

	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body dto.DispatchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !body.Result.Success || body.Result.AssignedTo == nil || body.Result.AssignedTo.ID != 22 {
		t.Errorf("result = %+v", body.Result)
	}
	if backend.updates != 1 {
		t.Errorf("updates = %d, want 1", backend.updates)
	}
}

func TestDispatchEndpointRequiresAuth(t *testing.T) {
	app := newDispatchApp(t, &stubBackend{}, &stubSender{})

	resp := postDispatch(t, app, dto.DispatchRequest{TicketID: 100, GroupID: 5}, "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestDispatchEndpointValidatesPayload(t *testing.T) {
	app := newDispatchApp(t, &stubBackend{}, &stubSender{})

	resp := postDispatch(t, app, dto.DispatchRequest{TicketNumber: "71001"}, staffToken(t, "test-secret"))
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}
