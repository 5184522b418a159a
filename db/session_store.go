package db

import (
	"context"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/techagentng/awaz/models"
	"gorm.io/gorm"
)

var ErrSessionNotFound = errors.New("session not found or expired")

// SessionStore keeps short-lived server-side sessions that map an opaque key to a user.
type SessionStore interface {
	Put(ctx context.Context, key string, userID uint, ttl time.Duration) error
	// Take returns the user id and removes the session.
	Take(ctx context.Context, key string) (uint, error)
}

// NewSessionStore prefers Redis and falls back to the database when client is nil.
func NewSessionStore(client *redis.Client, db *GormDB) SessionStore {
	if client != nil {
		return &redisSessionStore{client: client, prefix: "awaz:reset:"}
	}
	return &gormSessionStore{DB: db.DB}
}

type redisSessionStore struct {
	client *redis.Client
	prefix string
}

func (s *redisSessionStore) Put(ctx context.Context, key string, userID uint, ttl time.Duration) error {
	err := s.client.Set(ctx, s.prefix+key, userID, ttl).Err()
	return errors.Wrap(err, "could not store session")
}

func (s *redisSessionStore) Take(ctx context.Context, key string) (uint, error) {
	val, err := s.client.GetDel(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrSessionNotFound
	}
	if err != nil {
		return 0, errors.Wrap(err, "could not read session")
	}
	id, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, errors.Wrap(err, "corrupt session value")
	}
	return uint(id), nil
}

type gormSessionStore struct {
	DB *gorm.DB
}

func (s *gormSessionStore) Put(ctx context.Context, key string, userID uint, ttl time.Duration) error {
	session := &models.ResetSession{Token: key, UserID: userID, ExpiresAt: time.Now().Add(ttl)}
	err := s.DB.WithContext(ctx).Create(session).Error
	return errors.Wrap(err, "could not store session")
}

func (s *gormSessionStore) Take(ctx context.Context, key string) (uint, error) {
	var session models.ResetSession
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("token = ?", key).First(&session).Error; err != nil {
			return err
		}
		return tx.Where("token = ?", key).Delete(&models.ResetSession{}).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrSessionNotFound
	}
	if err != nil {
		return 0, errors.Wrap(err, "could not read session")
	}
	if time.Now().After(session.ExpiresAt) {
		return 0, ErrSessionNotFound
	}
	return session.UserID, nil
}
