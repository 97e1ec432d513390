package memory

import (
	"context"
	"time"

	"hr-assistant-be/internal/repository/contract"
	"hr-assistant-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

type SessionRepository struct {
	cache *cache.Cache
}

var _ contract.SessionRepository = &SessionRepository{}

// NewSessionRepository keeps sessions for an hour of inactivity and purges
// expired ones every 10 minutes.
func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		cache: cache.New(1*time.Hour, 10*time.Minute),
	}
}

func (r *SessionRepository) Get(ctx context.Context, id string) (*store.Session, bool) {
	if x, found := r.cache.Get(id); found {
		return x.(*store.Session), true
	}
	return nil, false
}

func (r *SessionRepository) Save(ctx context.Context, session *store.Session) error {
	r.cache.Set(session.ID, session, cache.DefaultExpiration)
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	r.cache.Delete(id)
	return nil
}
