package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/angelous0/erp-textil/internal/app"
	"github.com/angelous0/erp-textil/pkg/domain/permission"
)

const (
	sessionKeyPrefix   = "session:"
	userIndexKeyPrefix = "session:user:"
)

// SessionStore keeps session snapshots in Redis. The snapshot carries the
// user's role and effective permission map so per-request resolution does
// not hit PostgreSQL. A per-user set of session IDs is maintained alongside
// the snapshots so grant edits can reach every active session.
type SessionStore struct {
	client *Client
	ttl    time.Duration
}

// NewSessionStore creates a session store with the given session lifetime.
func NewSessionStore(client *Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

// Save stores a session snapshot under its session ID and indexes it by user.
func (s *SessionStore) Save(ctx context.Context, sess *app.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	pipe := s.client.client.TxPipeline()
	pipe.Set(ctx, sessionKeyPrefix+sess.ID, data, s.ttl)
	pipe.SAdd(ctx, userIndexKeyPrefix+sess.UserID, sess.ID)
	pipe.Expire(ctx, userIndexKeyPrefix+sess.UserID, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// Get retrieves a session snapshot by session ID.
func (s *SessionStore) Get(ctx context.Context, sessionID string) (*app.Session, error) {
	data, err := s.client.client.Get(ctx, sessionKeyPrefix+sessionID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, app.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var sess app.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &sess, nil
}

// Delete removes a session and its user-index entry. Deleting a missing
// session is not an error.
func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	if sess, err := s.Get(ctx, sessionID); err == nil {
		s.client.client.SRem(ctx, userIndexKeyPrefix+sess.UserID, sessionID)
	}
	if err := s.client.client.Del(ctx, sessionKeyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Refresh extends a session's TTL without rewriting its payload.
func (s *SessionStore) Refresh(ctx context.Context, sessionID string) error {
	ok, err := s.client.client.Expire(ctx, sessionKeyPrefix+sessionID, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to refresh session: %w", err)
	}
	if !ok {
		return app.ErrSessionNotFound
	}
	return nil
}

// UpdateGrantsByUser rewrites the grant map in every active session of the
// user. Expired sessions found in the index are pruned along the way.
func (s *SessionStore) UpdateGrantsByUser(ctx context.Context, userID string, grants permission.Grants) error {
	indexKey := userIndexKeyPrefix + userID
	ids, err := s.client.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return fmt.Errorf("failed to list user sessions: %w", err)
	}

	for _, id := range ids {
		sess, err := s.Get(ctx, id)
		if err != nil {
			if errors.Is(err, app.ErrSessionNotFound) {
				s.client.client.SRem(ctx, indexKey, id)
				continue
			}
			return err
		}

		sess.Grants = grants
		data, err := json.Marshal(sess)
		if err != nil {
			return fmt.Errorf("failed to marshal session: %w", err)
		}
		if err := s.client.client.Set(ctx, sessionKeyPrefix+id, data, redis.KeepTTL).Err(); err != nil {
			return fmt.Errorf("failed to update session grants: %w", err)
		}
	}

	return nil
}
