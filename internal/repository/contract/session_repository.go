package contract

import (
	"context"

	"audio-eval-be/pkg/store"
)

// SessionRepository stores playlist state keyed by session id. Expiry is the
// repository's business; callers only see a miss.
type SessionRepository interface {
	Get(ctx context.Context, sessionID string) (*store.PlaylistState, bool, error)
	Save(ctx context.Context, state *store.PlaylistState) error
	Delete(ctx context.Context, sessionID string) error
	Count(ctx context.Context) (int, error)
}
