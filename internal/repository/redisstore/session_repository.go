package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"audio-eval-be/internal/repository/contract"
	"audio-eval-be/pkg/store"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "audio-eval:session:"

// SessionRepository keeps playlist state as JSON in Redis so several server
// instances can share sessions.
type SessionRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

var _ contract.SessionRepository = (*SessionRepository)(nil)

func NewSessionRepository(rdb *redis.Client, ttl time.Duration) *SessionRepository {
	return &SessionRepository{rdb: rdb, ttl: ttl}
}

func (r *SessionRepository) Get(ctx context.Context, sessionID string) (*store.PlaylistState, bool, error) {
	data, err := r.rdb.Get(ctx, keyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get session: %w", err)
	}

	var state store.PlaylistState
	if err := json.Unmarshal(data, &state); err != nil {
		// treat a corrupt entry as absent; the next save overwrites it
		return nil, false, nil
	}
	return &state, true, nil
}

func (r *SessionRepository) Save(ctx context.Context, state *store.PlaylistState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := r.rdb.Set(ctx, keyPrefix+state.ID, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis save session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	if err := r.rdb.Del(ctx, keyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("redis delete session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Count(ctx context.Context) (int, error) {
	count := 0
	iter := r.rdb.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		count++
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("redis count sessions: %w", err)
	}
	return count, nil
}
