package session

import (
	"context"
	"fmt"
	"time"

	"audio-eval-be/internal/repository/contract"
	"audio-eval-be/pkg/store"
)

// Manager handles session operations
type Manager struct {
	sessionRepo contract.SessionRepository
	now         func() time.Time
}

// NewManager creates a new session manager
func NewManager(sessionRepo contract.SessionRepository) *Manager {
	return &Manager{sessionRepo: sessionRepo, now: time.Now}
}

// LoadOrCreate retrieves the playlist state of a session, or a fresh
// uninitialized one when none is stored.
func (m *Manager) LoadOrCreate(ctx context.Context, sessionID string) (*store.PlaylistState, error) {
	state, found, err := m.sessionRepo.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !found {
		state = store.NewPlaylistState(sessionID)
		state.UpdatedAt = m.now()
	}
	return state, nil
}

// Find returns the stored state without creating one.
func (m *Manager) Find(ctx context.Context, sessionID string) (*store.PlaylistState, bool, error) {
	return m.sessionRepo.Get(ctx, sessionID)
}

// Save persists session state
func (m *Manager) Save(ctx context.Context, state *store.PlaylistState) error {
	if err := m.sessionRepo.Save(ctx, state); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Reset drops whatever is stored and returns an empty state for the same id.
func (m *Manager) Reset(ctx context.Context, sessionID string) (*store.PlaylistState, error) {
	if err := m.sessionRepo.Delete(ctx, sessionID); err != nil {
		return nil, fmt.Errorf("reset session: %w", err)
	}
	state := store.NewPlaylistState(sessionID)
	state.UpdatedAt = m.now()
	return state, nil
}

func (m *Manager) Count(ctx context.Context) (int, error) {
	return m.sessionRepo.Count(ctx)
}
