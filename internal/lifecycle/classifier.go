// Package lifecycle classifies backend ticket states into active ones,
// i.e. the states that count toward an agent's workload.
package lifecycle

import (
	"context"
	"fmt"

	"github.com/spec-kit/support-portal/internal/domain"
)

// Classifier yields the state ids that count as active workload.
type Classifier interface {
	ActiveStateIDs(ctx context.Context) ([]int, error)
}

// StateSource exposes the backend's state metadata.
type StateSource interface {
	GetTicketStates(ctx context.Context) ([]domain.TicketState, error)
}

// Terminal backend state types: closed, merged, removed. Tickets in these
// states no longer occupy an agent.
var terminalStateTypeIDs = map[int]struct{}{
	5: {},
	6: {},
	7: {},
}

// StateClassifier derives active state ids from backend state metadata.
type StateClassifier struct {
	source StateSource
}

// NewStateClassifier creates the classifier.
func NewStateClassifier(source StateSource) *StateClassifier {
	return &StateClassifier{source: source}
}

// ActiveStateIDs returns the ids of every active, non-terminal state.
func (c *StateClassifier) ActiveStateIDs(ctx context.Context) ([]int, error) {
	states, err := c.source.GetTicketStates(ctx)
	if err != nil {
		return nil, fmt.Errorf("get ticket states: %w", err)
	}
	ids := make([]int, 0, len(states))
	for _, state := range states {
		if !state.Active {
			continue
		}
		if _, terminal := terminalStateTypeIDs[state.StateTypeID]; terminal {
			continue
		}
		ids = append(ids, state.ID)
	}
	return ids, nil
}
