package dashboard

import (
	"context"
	"sync"
)

// PreferenceStore keeps per-viewer theme preferences.
type PreferenceStore interface {
	ThemeMode(ctx context.Context, viewer ViewerContext) (ThemeMode, error)
	SaveThemeMode(ctx context.Context, viewer ViewerContext, mode ThemeMode) error
}

// InMemoryPreferenceStore provides a concurrency-safe default store.
type InMemoryPreferenceStore struct {
	mu   sync.RWMutex
	data map[string]ThemeMode
}

// NewInMemoryPreferenceStore creates an empty preference store.
func NewInMemoryPreferenceStore() *InMemoryPreferenceStore {
	return &InMemoryPreferenceStore{
		data: make(map[string]ThemeMode),
	}
}

// ThemeMode returns the stored mode, or the default for unknown viewers.
func (s *InMemoryPreferenceStore) ThemeMode(_ context.Context, viewer ViewerContext) (ThemeMode, error) {
	if viewer.UserID == "" {
		return DefaultThemeMode, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if mode, ok := s.data[viewer.UserID]; ok {
		return mode, nil
	}
	return DefaultThemeMode, nil
}

// SaveThemeMode persists the mode for a viewer.
func (s *InMemoryPreferenceStore) SaveThemeMode(_ context.Context, viewer ViewerContext, mode ThemeMode) error {
	if viewer.UserID == "" {
		return errMissingViewer
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[viewer.UserID] = mode.Normalize()
	return nil
}
