package contract

import (
	"context"

	"hr-assistant-be/pkg/store"
)

// SessionRepository persists conversation sessions. Backends are expected
// to expire idle sessions on their own (cache TTL, Redis EXPIRE).
type SessionRepository interface {
	Get(ctx context.Context, id string) (*store.Session, bool)
	Save(ctx context.Context, session *store.Session) error
	Delete(ctx context.Context, id string) error
}
