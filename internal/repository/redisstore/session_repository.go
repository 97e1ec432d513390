package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"hr-assistant-be/internal/repository/contract"
	"hr-assistant-be/pkg/store"

	"github.com/redis/go-redis/v9"
)

const sessionTTL = 1 * time.Hour

// SessionRepository keeps sessions in Redis so the assistant can run with
// multiple replicas behind a load balancer.
type SessionRepository struct {
	client *redis.Client
}

var _ contract.SessionRepository = &SessionRepository{}

func NewSessionRepository(client *redis.Client) *SessionRepository {
	return &SessionRepository{client: client}
}

func sessionKey(id string) string {
	return "assistant:session:" + id
}

func (r *SessionRepository) Get(ctx context.Context, id string) (*store.Session, bool) {
	data, err := r.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		return nil, false
	}

	var session store.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, false
	}
	return &session, true
}

func (r *SessionRepository) Save(ctx context.Context, session *store.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session %s: %w", session.ID, err)
	}
	return r.client.Set(ctx, sessionKey(session.ID), data, sessionTTL).Err()
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	err := r.client.Del(ctx, sessionKey(id)).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}
