package repository

import (
	"context"
	"digital-goods-fulfillment/internal/model"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisSessionRepoImpl struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisSessionRepository stores sessions under "session:<conversationId>".
// Every save refreshes the ttl.
func NewRedisSessionRepository(rdb *redis.Client, ttl time.Duration) SessionRepository {
	return &redisSessionRepoImpl{
		rdb: rdb,
		ttl: ttl,
	}
}

func sessionKey(conversationID string) string {
	return "session:" + conversationID
}

func (r *redisSessionRepoImpl) Get(ctx context.Context, conversationID string) (*model.Session, error) {
	data, err := r.rdb.Get(ctx, sessionKey(conversationID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("redis get session: %w", err)
	}

	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", conversationID, err)
	}
	return &session, nil
}

func (r *redisSessionRepoImpl) Save(ctx context.Context, session *model.Session) error {
	session.UpdatedAt = time.Now()
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	if err := r.rdb.Set(ctx, sessionKey(session.ConversationID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}
	return nil
}

func (r *redisSessionRepoImpl) Delete(ctx context.Context, conversationID string) error {
	return r.rdb.Del(ctx, sessionKey(conversationID)).Err()
}
