package services

import (
	"context"
	"sync"

	"github.com/pantryhub/pantry/internal/models"
	"github.com/pantryhub/pantry/internal/session"
)

// ListOperation is one request against a shopping list that yields the
// list's new state.
type ListOperation func(ctx context.Context) (models.ShoppingList, error)

// ListTracker keeps the latest known state of one shopping list for a
// session. When requests overlap, only the response to the most recently
// submitted one is applied; earlier responses are dropped with ErrStale.
type ListTracker struct {
	sequencer *session.Sequencer

	mu   sync.Mutex
	list models.ShoppingList
}

func NewListTracker(sequencer *session.Sequencer, list models.ShoppingList) *ListTracker {
	return &ListTracker{sequencer: sequencer, list: list}
}

func (tracker *ListTracker) Current() models.ShoppingList {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	return tracker.list
}

// Submit runs op and applies its result if no newer submission started in
// the meantime. It always returns the state the tracker holds afterwards.
func (tracker *ListTracker) Submit(ctx context.Context, op ListOperation) (models.ShoppingList, error) {
	ticket := tracker.sequencer.Next()
	list, err := op(ctx)

	tracker.mu.Lock()
	defer tracker.mu.Unlock()

	if !ticket.Current() {
		return tracker.list, ErrStale
	}
	if err != nil {
		return tracker.list, err
	}
	tracker.list = list
	return list, nil
}
