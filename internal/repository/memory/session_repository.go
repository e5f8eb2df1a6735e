package memory

import (
	"context"
	"time"

	"audio-eval-be/internal/repository/contract"
	"audio-eval-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

type SessionRepository struct {
	cache *cache.Cache
}

var _ contract.SessionRepository = (*SessionRepository)(nil)

// NewSessionRepository keeps sessions for ttl after their last save and
// purges expired items every 10 minutes.
func NewSessionRepository(ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SessionRepository{
		cache: cache.New(ttl, 10*time.Minute),
	}
}

func (r *SessionRepository) Save(ctx context.Context, state *store.PlaylistState) error {
	r.cache.Set(state.ID, state, cache.DefaultExpiration)
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, sessionID string) (*store.PlaylistState, bool, error) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*store.PlaylistState), true, nil
	}
	return nil, false, nil
}

func (r *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	r.cache.Delete(sessionID)
	return nil
}

func (r *SessionRepository) Count(ctx context.Context) (int, error) {
	return r.cache.ItemCount(), nil
}
