package memory

import (
	"time"

	"bizchat-be/pkg/store"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

type SessionRepository struct {
	cache *cache.Cache
}

// NewSessionRepository keeps sessions for ttl after their last Save and
// purges expired ones every ttl/6.
func NewSessionRepository(ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	c := cache.New(ttl, ttl/6)
	return &SessionRepository{
		cache: c,
	}
}

// OnEvicted registers a hook fired when a session expires or is deleted.
func (r *SessionRepository) OnEvicted(fn func(session *store.Session)) {
	r.cache.OnEvicted(func(_ string, v interface{}) {
		if session, ok := v.(*store.Session); ok {
			fn(session)
		}
	})
}

func (r *SessionRepository) Save(session *store.Session) {
	r.cache.Set(session.ID().String(), session, cache.DefaultExpiration)
}

// Touch slides a live session's expiry. It never re-inserts a session that
// was deleted or expired in the meantime.
func (r *SessionRepository) Touch(session *store.Session) bool {
	return r.cache.Replace(session.ID().String(), session, cache.DefaultExpiration) == nil
}

func (r *SessionRepository) Get(sessionID uuid.UUID) (*store.Session, bool) {
	if x, found := r.cache.Get(sessionID.String()); found {
		return x.(*store.Session), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(sessionID uuid.UUID) {
	r.cache.Delete(sessionID.String())
}

// All returns the live sessions in no particular order.
func (r *SessionRepository) All() []*store.Session {
	items := r.cache.Items()
	sessions := make([]*store.Session, 0, len(items))
	for _, item := range items {
		if session, ok := item.Object.(*store.Session); ok {
			sessions = append(sessions, session)
		}
	}
	return sessions
}

func (r *SessionRepository) Count() int {
	return r.cache.ItemCount()
}
