package lifecycle

import (
	"context"
	"errors"
	"testing"

	"github.com/spec-kit/support-portal/internal/domain"
)

type fakeStateSource struct {
	states []domain.TicketState
	err    error
	calls  int
}

func (s *fakeStateSource) GetTicketStates(_ context.Context) ([]domain.TicketState, error) {
	s.calls++
	return s.states, s.err
}

func TestActiveStateIDsDropsTerminalAndInactive(t *testing.T) {
	source := &fakeStateSource{states: []domain.TicketState{
		{ID: 1, Name: "new", StateTypeID: 1, Active: true},
		{ID: 2, Name: "open", StateTypeID: 2, Active: true},
		{ID: 3, Name: "pending reminder", StateTypeID: 3, Active: true},
		{ID: 4, Name: "closed", StateTypeID: 5, Active: true},
		{ID: 5, Name: "merged", StateTypeID: 6, Active: true},
		{ID: 6, Name: "retired", StateTypeID: 2, Active: false},
	}}

	ids, err := NewStateClassifier(source).ActiveStateIDs(context.Background())
	if err != nil {
		t.Fatalf("ActiveStateIDs: %v", err)
	}
	want := []int{1, 2, 3}
	if len(ids) != len(want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("ids = %v, want %v", ids, want)
		}
	}
}

func TestActiveStateIDsSourceError(t *testing.T) {
	source := &fakeStateSource{err: errors.New("backend down")}
	if _, err := NewStateClassifier(source).ActiveStateIDs(context.Background()); err == nil {
		t.Fatal("expected an error")
	}
}

func TestCachedClassifierWithoutRedisPassesThrough(t *testing.T) {
	source := &fakeStateSource{states: []domain.TicketState{
		{ID: 1, StateTypeID: 1, Active: true},
	}}
	cached := NewCachedClassifier(NewStateClassifier(source), nil, 0, nil)

	for i := 0; i < 2; i++ {
		ids, err := cached.ActiveStateIDs(context.Background())
		if err != nil {
			t.Fatalf("ActiveStateIDs: %v", err)
		}
		if len(ids) != 1 || ids[0] != 1 {
			t.Errorf("ids = %v", ids)
		}
	}
	if source.calls != 2 {
		t.Errorf("passthrough must hit the source each time, calls = %d", source.calls)
	}
}

func TestIDCodecRoundTrip(t *testing.T) {
	cases := [][]int{{}, {1}, {1, 2, 30}}
	for _, ids := range cases {
		decoded, ok := decodeIDs(encodeIDs(ids))
		if !ok {
			t.Fatalf("decode failed for %v", ids)
		}
		if len(decoded) != len(ids) {
			t.Fatalf("round trip %v -> %v", ids, decoded)
		}
	}
	if _, ok := decodeIDs("1,x"); ok {
		t.Error("corrupt cache payload must be rejected")
	}
}
