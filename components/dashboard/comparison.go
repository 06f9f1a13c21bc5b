package dashboard

import (
	"context"
	"errors"
	"sync"
)

var errMissingViewer = errors.New("dashboard: viewer context missing user id")

// ComparisonStore keeps the set of accounts each viewer is comparing.
type ComparisonStore interface {
	Selection(ctx context.Context, viewer ViewerContext) ([]Account, error)
	SaveSelection(ctx context.Context, viewer ViewerContext, accounts []Account) error
}

// InMemoryComparisonStore is a concurrency-safe default comparison store.
type InMemoryComparisonStore struct {
	mu   sync.RWMutex
	data map[string][]Account
}

// NewInMemoryComparisonStore creates an empty store.
func NewInMemoryComparisonStore() *InMemoryComparisonStore {
	return &InMemoryComparisonStore{data: make(map[string][]Account)}
}

// Selection returns a copy of the viewer's selection.
func (s *InMemoryComparisonStore) Selection(_ context.Context, viewer ViewerContext) ([]Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Account(nil), s.data[viewer.UserID]...), nil
}

// SaveSelection replaces the viewer's selection.
func (s *InMemoryComparisonStore) SaveSelection(_ context.Context, viewer ViewerContext, accounts []Account) error {
	if viewer.UserID == "" {
		return errMissingViewer
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(accounts) == 0 {
		delete(s.data, viewer.UserID)
		return nil
	}
	s.data[viewer.UserID] = append([]Account(nil), accounts...)
	return nil
}

// AddToComparison adds an account unless one with the same id is already selected.
func (s *Service) AddToComparison(ctx context.Context, viewer ViewerContext, account Account) ([]Account, error) {
	selected, err := s.opts.Comparison.Selection(ctx, viewer)
	if err != nil {
		return nil, err
	}
	for _, a := range selected {
		if a.ID == account.ID {
			return selected, nil
		}
	}
	selected = append(selected, account)
	if err := s.opts.Comparison.SaveSelection(ctx, viewer, selected); err != nil {
		return nil, err
	}
	s.recordTelemetry(ctx, "dashboard.comparison.add", map[string]any{"viewer": viewer.UserID, "account_id": account.ID})
	return selected, nil
}

// RemoveFromComparison drops the account with the given id.
func (s *Service) RemoveFromComparison(ctx context.Context, viewer ViewerContext, accountID int64) ([]Account, error) {
	selected, err := s.opts.Comparison.Selection(ctx, viewer)
	if err != nil {
		return nil, err
	}
	kept := selected[:0]
	for _, a := range selected {
		if a.ID != accountID {
			kept = append(kept, a)
		}
	}
	if err := s.opts.Comparison.SaveSelection(ctx, viewer, kept); err != nil {
		return nil, err
	}
	s.recordTelemetry(ctx, "dashboard.comparison.remove", map[string]any{"viewer": viewer.UserID, "account_id": accountID})
	return kept, nil
}

// ClearComparison empties the viewer's selection.
func (s *Service) ClearComparison(ctx context.Context, viewer ViewerContext) error {
	return s.opts.Comparison.SaveSelection(ctx, viewer, nil)
}

// Comparison lists the viewer's selected accounts.
func (s *Service) Comparison(ctx context.Context, viewer ViewerContext) ([]Account, error) {
	return s.opts.Comparison.Selection(ctx, viewer)
}

// InComparison reports whether the account is selected.
func (s *Service) InComparison(ctx context.Context, viewer ViewerContext, accountID int64) (bool, error) {
	selected, err := s.opts.Comparison.Selection(ctx, viewer)
	if err != nil {
		return false, err
	}
	for _, a := range selected {
		if a.ID == accountID {
			return true, nil
		}
	}
	return false, nil
}
