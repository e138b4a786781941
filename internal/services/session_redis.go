package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"agristore/internal/models"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "chat:session:"

// RedisSessionStore keeps sessions in Redis so multiple instances can share
// conversation state. Selected by REDIS_URL; the in-memory store stays the
// default for single-instance deployments.
type RedisSessionStore struct {
	client *redis.Client
}

// NewRedisSessionStore connects to Redis and verifies the connection.
func NewRedisSessionStore(redisURL string) (*RedisSessionStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	log.Println("✅ Redis session store connected")
	return &RedisSessionStore{client: client}, nil
}

// Get loads the session for a known id or registers a fresh one.
func (s *RedisSessionStore) Get(id string) (*models.Session, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if id != "" {
		raw, err := s.client.Get(ctx, sessionKeyPrefix+id).Result()
		if err == nil {
			var sess models.Session
			if err := json.Unmarshal([]byte(raw), &sess); err == nil {
				return &sess, nil
			}
		} else if err != redis.Nil {
			return nil, fmt.Errorf("failed to load session: %w", err)
		}
	}

	sess := NewSession()
	if err := s.Save(sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Save writes the session back. Sessions do not expire, matching the
// in-memory store's lifetime semantics.
func (s *RedisSessionStore) Save(sess *models.Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.client.Set(ctx, sessionKeyPrefix+sess.ID, raw, 0).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}
