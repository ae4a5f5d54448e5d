package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"zoolbot-admin/internal/admin"
	apperrors "zoolbot-admin/internal/common/errors"
	rplatform "zoolbot-admin/internal/platform/redis"
)

// SessionStore keeps admin sessions in Redis as JSON. Every save refreshes the TTL, so an
// abandoned sequence expires on its own.
type SessionStore struct {
	client *rplatform.Client
	ttl    time.Duration
}

func NewSessionStore(client *rplatform.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

func (s *SessionStore) key(chatID int64) string { return fmt.Sprintf("admin:session:%d", chatID) }

// Get returns an idle session when nothing is stored for chatID.
func (s *SessionStore) Get(ctx context.Context, chatID int64) (admin.Session, error) {
	v, err := s.client.Get(ctx, s.key(chatID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return admin.Session{}, nil
	}
	if err != nil {
		return admin.Session{}, apperrors.NewSessionError("get", err)
	}
	var sess admin.Session
	if err := json.Unmarshal(v, &sess); err != nil {
		return admin.Session{}, apperrors.NewSessionError("decode", err)
	}
	return sess, nil
}

func (s *SessionStore) Save(ctx context.Context, chatID int64, sess admin.Session) error {
	if sess.IsIdle() {
		return s.Clear(ctx, chatID)
	}
	b, err := json.Marshal(sess)
	if err != nil {
		return apperrors.NewSessionError("encode", err)
	}
	if err := s.client.Set(ctx, s.key(chatID), b, s.ttl).Err(); err != nil {
		return apperrors.NewSessionError("set", err)
	}
	return nil
}

func (s *SessionStore) Clear(ctx context.Context, chatID int64) error {
	if err := s.client.Del(ctx, s.key(chatID)).Err(); err != nil {
		return apperrors.NewSessionError("delete", err)
	}
	return nil
}
