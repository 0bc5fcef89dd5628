package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/sahilchouksey/study-planner/model"
	"github.com/sahilchouksey/study-planner/utils/cache"
)

// ErrSessionNotFound is returned when a session id is unknown or expired
var ErrSessionNotFound = errors.New("session not found")

// SessionStore keeps server-side login sessions. Logging out deletes the
// session, which invalidates the cookie even before its JWT expires.
type SessionStore interface {
	Create(ctx context.Context, session *model.Session) error
	Get(ctx context.Context, id string) (*model.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// GORMSessionStore stores sessions in the user_sessions table
type GORMSessionStore struct {
	db *gorm.DB
}

// NewGORMSessionStore creates a database-backed session store
func NewGORMSessionStore(db *gorm.DB) *GORMSessionStore {
	return &GORMSessionStore{db: db}
}

func (s *GORMSessionStore) Create(ctx context.Context, session *model.Session) error {
	session.ExpiresAt = session.ExpiresAt.UTC()
	if err := s.db.WithContext(ctx).Create(session).Error; err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (s *GORMSessionStore) Get(ctx context.Context, id string) (*model.Session, error) {
	var session model.Session
	err := s.db.WithContext(ctx).
		Where("id = ? AND expires_at > ?", id, time.Now().UTC()).
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return &session, nil
}

func (s *GORMSessionStore) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Session{}).Error
}

// DeleteExpired removes sessions past their expiry and returns how many were removed
func (s *GORMSessionStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("expires_at <= ?", now.UTC()).
		Delete(&model.Session{})
	return result.RowsAffected, result.Error
}

// RedisSessionStore stores sessions as JSON values that expire with the session
type RedisSessionStore struct {
	cache *cache.RedisCache
}

// NewRedisSessionStore creates a Redis-backed session store
func NewRedisSessionStore(redisCache *cache.RedisCache) *RedisSessionStore {
	return &RedisSessionStore{cache: redisCache}
}

func sessionKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}

func (s *RedisSessionStore) Create(ctx context.Context, session *model.Session) error {
	session.CreatedAt = time.Now().UTC()
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session %s already expired", session.ID)
	}
	if err := s.cache.SetJSON(ctx, sessionKey(session.ID), session, ttl); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Get(ctx context.Context, id string) (*model.Session, error) {
	var session model.Session
	if err := s.cache.GetJSON(ctx, sessionKey(id), &session); err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return &session, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	return s.cache.Delete(ctx, sessionKey(id))
}

// DeleteExpired is a no-op: Redis expires session keys on its own
func (s *RedisSessionStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}
