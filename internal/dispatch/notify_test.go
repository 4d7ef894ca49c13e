package dispatch

import (
	"context"
	"errors"
	"testing"

	"github.com/spec-kit/support-portal/internal/domain"
	"github.com/spec-kit/support-portal/internal/notification"
)

type fakeSender struct {
	assigned []notification.TicketAssigned
	alerts   []notification.SystemAlert
	failFor  map[int]error
}

func (s *fakeSender) NotifyTicketAssigned(_ context.Context, msg notification.TicketAssigned) error {
	if err := s.failFor[msg.RecipientUserID]; err != nil {
		return err
	}
	s.assigned = append(s.assigned, msg)
	return nil
}

func (s *fakeSender) NotifySystemAlert(_ context.Context, msg notification.SystemAlert) error {
	if err := s.failFor[msg.RecipientUserID]; err != nil {
		return err
	}
	s.alerts = append(s.alerts, msg)
	return nil
}

type fakeResolver struct {
	mapping map[int][]int
	err     error
}

func (r *fakeResolver) ResolveLocalUserIDs(_ context.Context, zammadUserID int) ([]int, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.mapping[zammadUserID], nil
}

func adminUser(id int, email string) domain.Agent {
	return domain.Agent{ID: id, Email: email, Active: true, RoleIDs: []int{1}}
}

func TestNotifyAssignedAgentFansOutToMappedUsers(t *testing.T) {
	sender := &fakeSender{}
	resolver := &fakeResolver{mapping: map[int][]int{22: {7, 8}}}
	notifier := NewNotifier(&fakeBackend{}, sender, resolver, 1, nil, nil)

	result := domain.AssignmentResult{
		Success:    true,
		AssignedTo: &domain.AssignedAgent{ID: 22, Name: "B", Email: "b@x"},
	}
	notifier.HandleAssignmentNotification(context.Background(), result, 100, "71001", "help", "asia-pacific")

	if len(sender.assigned) != 2 {
		t.Fatalf("expected 2 assigned notifications, got %d", len(sender.assigned))
	}
	for i, want := range []int{7, 8} {
		msg := sender.assigned[i]
		if msg.RecipientUserID != want || msg.TicketID != 100 || msg.TicketNumber != "71001" || msg.TicketTitle != "help" {
			t.Errorf("notification %d = %+v", i, msg)
		}
	}
	if len(sender.alerts) != 0 {
		t.Errorf("no alerts expected on success, got %d", len(sender.alerts))
	}
}

func TestNotifyFailureAlertsAllAdmins(t *testing.T) {
	backend := &fakeBackend{
		admins: []domain.Agent{
			adminUser(100, "root1@x"),
			adminUser(101, "root2@x"),
			{ID: 102, Email: "inactive@x", Active: false, RoleIDs: []int{1}},
			{ID: 103, Email: "agent@x", Active: true, RoleIDs: []int{2}},
		},
	}
	sender := &fakeSender{}
	resolver := &fakeResolver{mapping: map[int][]int{100: {50}, 101: {51}}}
	notifier := NewNotifier(backend, sender, resolver, 1, nil, nil)

	result := domain.AssignmentResult{Success: false, Error: "No available agents for region: asia-pacific"}
	notifier.HandleAssignmentNotification(context.Background(), result, 100, "71001", "help", "asia-pacific")

	if len(sender.alerts) != 2 {
		t.Fatalf("expected alerts for the 2 active admins, got %d", len(sender.alerts))
	}
	alert := sender.alerts[0]
	if alert.RecipientUserID != 50 {
		t.Errorf("first alert recipient = %d, want 50", alert.RecipientUserID)
	}
	if alert.Data["region"] != "asia-pacific" || alert.Data["error"] != result.Error {
		t.Errorf("alert data = %+v", alert.Data)
	}
}

func TestNotifyOneFailedRecipientDoesNotStopTheRest(t *testing.T) {
	backend := &fakeBackend{
		admins: []domain.Agent{adminUser(100, "root1@x"), adminUser(101, "root2@x")},
	}
	sender := &fakeSender{failFor: map[int]error{50: errors.New("push gateway down")}}
	resolver := &fakeResolver{mapping: map[int][]int{100: {50}, 101: {51}}}
	notifier := NewNotifier(backend, sender, resolver, 1, nil, nil)

	result := domain.AssignmentResult{Success: false, Error: "boom"}
	notifier.HandleAssignmentNotification(context.Background(), result, 100, "71001", "help", "europe")

	if len(sender.alerts) != 1 || sender.alerts[0].RecipientUserID != 51 {
		t.Fatalf("delivery to recipient 51 must survive 50's failure: %+v", sender.alerts)
	}
}

func TestNotifyResolverFailureIsSwallowed(t *testing.T) {
	sender := &fakeSender{}
	resolver := &fakeResolver{err: errors.New("db down")}
	notifier := NewNotifier(&fakeBackend{}, sender, resolver, 1, nil, nil)

	result := domain.AssignmentResult{
		Success:    true,
		AssignedTo: &domain.AssignedAgent{ID: 22, Email: "b@x"},
	}
	// Must not panic or send anything.
	notifier.HandleAssignmentNotification(context.Background(), result, 100, "71001", "help", "europe")
	if len(sender.assigned) != 0 {
		t.Errorf("no sends expected, got %d", len(sender.assigned))
	}
}

func TestNotifySearchFailureIsSwallowed(t *testing.T) {
	backend := &fakeBackend{searchErr: errors.New("backend down")}
	sender := &fakeSender{}
	notifier := NewNotifier(backend, sender, &fakeResolver{}, 1, nil, nil)

	result := domain.AssignmentResult{Success: false, Error: "boom"}
	notifier.HandleAssignmentNotification(context.Background(), result, 100, "71001", "help", "europe")
	if len(sender.alerts) != 0 {
		t.Errorf("no alerts expected, got %d", len(sender.alerts))
	}
}

func TestFanOutCollectsPerRecipientOutcomes(t *testing.T) {
	notifier := NewNotifier(&fakeBackend{}, &fakeSender{}, &fakeResolver{}, 1, nil, nil)
	boom := errors.New("boom")

	outcomes := notifier.fanOut([]int{1, 2, 3}, func(recipientID int) error {
		if recipientID == 2 {
			return boom
		}
		return nil
	})

	if len(outcomes) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(outcomes))
	}
	if outcomes[0].Err != nil || outcomes[2].Err != nil {
		t.Error("recipients 1 and 3 must succeed")
	}
	if !errors.Is(outcomes[1].Err, boom) {
		t.Errorf("recipient 2 outcome = %v, want boom", outcomes[1].Err)
	}
}
