package memory

import (
	"time"

	"prodreport-be/pkg/flow"

	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps conversation sessions in process memory, keyed by
// user identity. The TTL doubles as the idle timeout: a session untouched for
// longer than idleTimeout expires and the user starts over.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository(idleTimeout time.Duration) *SessionRepository {
	c := cache.New(idleTimeout, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

// Save stores the session and refreshes its idle deadline.
func (r *SessionRepository) Save(session *flow.Session) {
	r.cache.Set(session.UserID, session, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(userID string) (*flow.Session, bool) {
	if x, found := r.cache.Get(userID); found {
		return x.(*flow.Session), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(userID string) {
	r.cache.Delete(userID)
}
