// Package redisstore implements the session repository on Redis.
//
// Sessions live under "session:<id>" with a TTL matching their expiry, so
// Redis itself retires expired rows. A per-user set "user_sessions:<id>"
// indexes session IDs for bulk deletion on logout.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"authgate/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix = "session:"
	userKeyPrefix    = "user_sessions:"
)

var _ domain.SessionRepository = (*SessionRepo)(nil)

// SessionRepo stores sessions in Redis.
type SessionRepo struct {
	client *redis.Client
	now    func() time.Time
}

// NewSessionRepo creates a session repository over the given client.
func NewSessionRepo(client *redis.Client) *SessionRepo {
	return &SessionRepo{client: client, now: time.Now}
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

func userKey(userID int64) string {
	return fmt.Sprintf("%s%d", userKeyPrefix, userID)
}

// Create persists a session with a TTL matching its expiry. A replayed create
// overwrites the same key, never producing a second row.
func (r *SessionRepo) Create(ctx context.Context, session *domain.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	ttl := session.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return errors.New("session already expired")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, sessionKey(session.ID), payload, ttl)
	pipe.SAdd(ctx, userKey(session.UserID), session.ID)
	pipe.Expire(ctx, userKey(session.UserID), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// GetByID retrieves a session. A missing or TTL-expired key is (nil, nil).
func (r *SessionRepo) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	payload, err := r.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &session, nil
}

// DeleteForUser removes every session indexed for the user. Stale index
// entries whose session keys already expired delete as no-ops.
func (r *SessionRepo) DeleteForUser(ctx context.Context, userID int64) error {
	ids, err := r.client.SMembers(ctx, userKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}

	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, sessionKey(id))
	}
	keys = append(keys, userKey(userID))

	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("delete sessions: %w", err)
	}
	return nil
}

// DeleteExpired is a no-op: Redis retires expired session keys via TTL.
func (r *SessionRepo) DeleteExpired(ctx context.Context) error {
	return nil
}
